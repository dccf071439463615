package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/permissionhub/server/internal/model"
	"github.com/permissionhub/server/internal/store"
)

// RequestService drives the pending-request workflow. Approval and denial
// are the only transitions out of pending, and both end with the request
// deleted. It shares the permission service's per-user locks so an approval
// is one serialized unit with the permission write it performs.
type RequestService struct {
	store store.Store
	perms *PermissionService
	log   zerolog.Logger
}

func NewRequestService(s store.Store, perms *PermissionService, log zerolog.Logger) *RequestService {
	return &RequestService{store: s, perms: perms, log: log}
}

func (s *RequestService) Create(ctx context.Context, r *model.PermissionRequest) (*model.PermissionRequest, error) {
	return s.store.Requests().Create(ctx, r)
}

func (s *RequestService) Get(ctx context.Context, id int) (*model.PermissionRequest, error) {
	return s.store.Requests().Get(ctx, id)
}

func (s *RequestService) List(ctx context.Context, userID int) ([]*model.PermissionRequest, error) {
	return s.store.Requests().List(ctx, userID)
}

// Approve converts the request into an active permission and deletes the
// request. The permission write happens first and the deletion only after it
// succeeded, so a failed write leaves the request intact and a retried
// approve after deletion is an ordinary not-found.
func (s *RequestService) Approve(ctx context.Context, id int) (*model.Permission, error) {
	req, err := s.store.Requests().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.perms.sharedLocks().lock(req.UserID)
	defer unlock()

	// Re-read under the lock so a concurrent approve of the same request
	// collapses to not-found instead of minting a duplicate permission.
	req, err = s.store.Requests().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	perm, err := s.store.Permissions().Create(ctx, permissionFromRequest(req))
	if err != nil {
		return nil, fmt.Errorf("approve request %d: %w", id, err)
	}

	existed, err := s.store.Requests().Delete(ctx, id)
	if err != nil || !existed {
		// The permission is already granted; losing the delete would leave a
		// phantom pending request, so surface it loudly.
		s.log.Error().Err(err).Int("request_id", id).Int("permission_id", perm.ID).
			Msg("request deletion failed after permission grant")
		if err == nil {
			err = model.ErrNotFound
		}
		return nil, fmt.Errorf("approve request %d: grant persisted but request not removed: %w", id, err)
	}

	s.perms.recompute(ctx, perm.UserID)
	s.log.Info().Int("request_id", id).Int("permission_id", perm.ID).Str("app", perm.AppName).
		Msg("permission request approved")
	return perm, nil
}

// Deny deletes the request outright; no denied record survives.
func (s *RequestService) Deny(ctx context.Context, id int) error {
	existed, err := s.store.Requests().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return model.ErrNotFound
	}
	s.log.Info().Int("request_id", id).Msg("permission request denied")
	return nil
}

// permissionFromRequest copies every shared field, forcing the lifecycle
// fields: active, nothing streamed yet, no calls used. The display name
// falls back to "<app> Permission" when the request has no description.
func permissionFromRequest(req *model.PermissionRequest) *model.Permission {
	name := req.AppName + " Permission"
	if req.Description != nil && *req.Description != "" {
		name = *req.Description
	}
	zero := "0"
	return &model.Permission{
		UserID:            req.UserID,
		Type:              req.Type,
		Name:              name,
		AppName:           req.AppName,
		Description:       req.Description,
		ContractAddress:   req.ContractAddress,
		FunctionSignature: req.FunctionSignature,
		IsActive:          true,
		MaxAmount:         req.MaxAmount,
		AmountPerSecond:   req.AmountPerSecond,
		TotalAmount:       &zero,
		MaxCalls:          req.MaxCalls,
		CallsUsed:         0,
		ExpiryTime:        req.ExpiryTime,
		AdditionalData:    req.AdditionalData,
	}
}
