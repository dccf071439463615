// Package validate performs schema validation of incoming permission records
// before they reach the store. The core trusts its input; all shape checks
// live here at the transport boundary.
package validate

import (
	"fmt"
	"strconv"

	"github.com/permissionhub/server/internal/model"
)

// Permission checks a create-permission payload.
func Permission(p *model.Permission) error {
	if err := common(p.UserID, p.Type, p.AppName); err != nil {
		return err
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", model.ErrValidation)
	}
	return bounds(p.MaxAmount, p.AmountPerSecond, p.TotalAmount, p.MaxCalls)
}

// Request checks a create-request payload.
func Request(r *model.PermissionRequest) error {
	if err := common(r.UserID, r.Type, r.AppName); err != nil {
		return err
	}
	return bounds(r.MaxAmount, r.AmountPerSecond, nil, r.MaxCalls)
}

// Patch checks an update payload. Only set fields are inspected.
func Patch(p *model.PermissionPatch) error {
	if p.Name != nil && *p.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", model.ErrValidation)
	}
	if p.AppName != nil && *p.AppName == "" {
		return fmt.Errorf("%w: appName cannot be empty", model.ErrValidation)
	}
	if p.CallsUsed != nil && *p.CallsUsed < 0 {
		return fmt.Errorf("%w: callsUsed cannot be negative", model.ErrValidation)
	}
	return bounds(p.MaxAmount, p.AmountPerSecond, p.TotalAmount, p.MaxCalls)
}

func common(userID int, typ model.PermissionType, appName string) error {
	if userID <= 0 {
		return fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	if appName == "" {
		return fmt.Errorf("%w: appName is required", model.ErrValidation)
	}
	for _, t := range model.ValidTypes {
		if typ == t {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown permission type %q", model.ErrValidation, typ)
}

func bounds(maxAmount, perSecond, total *string, maxCalls *int) error {
	if err := decimal("maxAmount", maxAmount); err != nil {
		return err
	}
	if err := decimal("amountPerSecond", perSecond); err != nil {
		return err
	}
	if err := decimal("totalAmount", total); err != nil {
		return err
	}
	if maxCalls != nil && *maxCalls < 0 {
		return fmt.Errorf("%w: maxCalls cannot be negative", model.ErrValidation)
	}
	return nil
}

// decimal accepts non-negative decimal strings ("100", "0.0001").
func decimal(field string, v *string) error {
	if v == nil {
		return nil
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil {
		return fmt.Errorf("%w: %s must be a decimal string", model.ErrValidation, field)
	}
	if f < 0 {
		return fmt.Errorf("%w: %s cannot be negative", model.ErrValidation, field)
	}
	return nil
}
