package model

import "time"

// PermissionType tags the capability class of a grant. The type is fixed at
// creation and only affects metadata conventions and derived views.
type PermissionType string

const (
	TypeContractInteraction PermissionType = "contract-interaction"
	TypeTokenStream         PermissionType = "token-stream"
	TypeSessionBased        PermissionType = "session-based"
	TypeDelegation          PermissionType = "delegation"
)

// ValidTypes lists every accepted permission type.
var ValidTypes = []PermissionType{
	TypeContractInteraction,
	TypeTokenStream,
	TypeSessionBased,
	TypeDelegation,
}

// Permission is a granted, possibly-active capability on the user's wallet.
// Quantity fields are decimal strings to avoid float drift on token amounts;
// nil means the bound does not apply (or the grant is unlimited).
type Permission struct {
	ID                int                    `json:"id"`
	UserID            int                    `json:"userId"`
	Type              PermissionType         `json:"type"`
	Name              string                 `json:"name"`
	AppName           string                 `json:"appName"`
	Description       *string                `json:"description,omitempty"`
	ContractAddress   *string                `json:"contractAddress,omitempty"`
	FunctionSignature *string                `json:"functionSignature,omitempty"`
	IsActive          bool                   `json:"isActive"`
	MaxAmount         *string                `json:"maxAmount,omitempty"`
	AmountPerSecond   *string                `json:"amountPerSecond,omitempty"`
	TotalAmount       *string                `json:"totalAmount,omitempty"`
	MaxCalls          *int                   `json:"maxCalls,omitempty"`
	CallsUsed         int                    `json:"callsUsed"`
	ExpiryTime        *time.Time             `json:"expiryTime,omitempty"`
	CreatedAt         time.Time              `json:"createdAt"`
	AdditionalData    map[string]interface{} `json:"additionalData,omitempty"`
}

// PermissionPatch is a shallow field-level patch for Update. Nil fields are
// left untouched; set fields win last-write. Patching cannot null out an
// already-set optional field.
type PermissionPatch struct {
	Name              *string                `json:"name,omitempty"`
	AppName           *string                `json:"appName,omitempty"`
	Description       *string                `json:"description,omitempty"`
	ContractAddress   *string                `json:"contractAddress,omitempty"`
	FunctionSignature *string                `json:"functionSignature,omitempty"`
	IsActive          *bool                  `json:"isActive,omitempty"`
	MaxAmount         *string                `json:"maxAmount,omitempty"`
	AmountPerSecond   *string                `json:"amountPerSecond,omitempty"`
	TotalAmount       *string                `json:"totalAmount,omitempty"`
	MaxCalls          *int                   `json:"maxCalls,omitempty"`
	CallsUsed         *int                   `json:"callsUsed,omitempty"`
	ExpiryTime        *time.Time             `json:"expiryTime,omitempty"`
	AdditionalData    map[string]interface{} `json:"additionalData,omitempty"`
}

// Apply merges the patch into p, last write wins per field.
func (patch PermissionPatch) Apply(p *Permission) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.AppName != nil {
		p.AppName = *patch.AppName
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	if patch.ContractAddress != nil {
		p.ContractAddress = patch.ContractAddress
	}
	if patch.FunctionSignature != nil {
		p.FunctionSignature = patch.FunctionSignature
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	if patch.MaxAmount != nil {
		p.MaxAmount = patch.MaxAmount
	}
	if patch.AmountPerSecond != nil {
		p.AmountPerSecond = patch.AmountPerSecond
	}
	if patch.TotalAmount != nil {
		p.TotalAmount = patch.TotalAmount
	}
	if patch.MaxCalls != nil {
		p.MaxCalls = patch.MaxCalls
	}
	if patch.CallsUsed != nil {
		p.CallsUsed = *patch.CallsUsed
	}
	if patch.ExpiryTime != nil {
		p.ExpiryTime = patch.ExpiryTime
	}
	if patch.AdditionalData != nil {
		p.AdditionalData = patch.AdditionalData
	}
}

// PermissionRequest is a pending ask awaiting the user's decision. It carries
// the terms of the future permission; the expiry fields describe that
// permission, not the request's own lifetime.
type PermissionRequest struct {
	ID                int                    `json:"id"`
	UserID            int                    `json:"userId"`
	Type              PermissionType         `json:"type"`
	AppName           string                 `json:"appName"`
	Description       *string                `json:"description,omitempty"`
	ContractAddress   *string                `json:"contractAddress,omitempty"`
	FunctionSignature *string                `json:"functionSignature,omitempty"`
	MaxAmount         *string                `json:"maxAmount,omitempty"`
	AmountPerSecond   *string                `json:"amountPerSecond,omitempty"`
	MaxCalls          *int                   `json:"maxCalls,omitempty"`
	ExpiryTime        *time.Time             `json:"expiryTime,omitempty"`
	RequestedAt       time.Time              `json:"requestedAt"`
	AdditionalData    map[string]interface{} `json:"additionalData,omitempty"`
}
