package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/permissionhub/server/internal/model"
)

func TestApproveCopiesRequestTerms(t *testing.T) {
	ctx := context.Background()
	_, reqs, _ := newTestServices(t)

	expiry := time.Now().Add(7 * 24 * time.Hour)
	created, err := reqs.Create(ctx, &model.PermissionRequest{
		UserID:            1,
		Type:              model.TypeContractInteraction,
		AppName:           "DeFi Protocol",
		Description:       strPtr("Automated token swaps permission"),
		ContractAddress:   strPtr("0x9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d"),
		FunctionSignature: strPtr("swap(address,uint256)"),
		MaxAmount:         strPtr("500"),
		MaxCalls:          intPtr(10),
		ExpiryTime:        &expiry,
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	perm, err := reqs.Approve(ctx, created.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	if !perm.IsActive {
		t.Fatalf("granted permission must start active")
	}
	if perm.CallsUsed != 0 {
		t.Fatalf("CallsUsed = %d, want 0", perm.CallsUsed)
	}
	if perm.TotalAmount == nil || *perm.TotalAmount != "0" {
		t.Fatalf("TotalAmount = %v, want \"0\"", perm.TotalAmount)
	}
	if perm.Name != "Automated token swaps permission" {
		t.Fatalf("name = %q, want the request description", perm.Name)
	}
	if perm.AppName != "DeFi Protocol" || perm.Type != model.TypeContractInteraction {
		t.Fatalf("identity fields not copied: %+v", perm)
	}
	if perm.MaxAmount == nil || *perm.MaxAmount != "500" {
		t.Fatalf("MaxAmount = %v, want 500", perm.MaxAmount)
	}
	if perm.MaxCalls == nil || *perm.MaxCalls != 10 {
		t.Fatalf("MaxCalls = %v, want 10", perm.MaxCalls)
	}
	if perm.ExpiryTime == nil || !perm.ExpiryTime.Equal(expiry) {
		t.Fatalf("ExpiryTime = %v, want %v", perm.ExpiryTime, expiry)
	}
}

func TestApproveNameFallback(t *testing.T) {
	ctx := context.Background()
	_, reqs, _ := newTestServices(t)

	created, err := reqs.Create(ctx, &model.PermissionRequest{
		UserID:  1,
		Type:    model.TypeSessionBased,
		AppName: "NFT Marketplace",
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	perm, err := reqs.Approve(ctx, created.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if perm.Name != "NFT Marketplace Permission" {
		t.Fatalf("name = %q, want app-name fallback", perm.Name)
	}
}

func TestApproveRemovesRequest(t *testing.T) {
	ctx := context.Background()
	_, reqs, _ := newTestServices(t)

	created, err := reqs.Create(ctx, &model.PermissionRequest{UserID: 1, AppName: "App"})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if _, err := reqs.Approve(ctx, created.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := reqs.Get(ctx, created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("request survived approval")
	}
	// A second approve finds nothing and grants nothing.
	if _, err := reqs.Approve(ctx, created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("repeat approve err = %v, want ErrNotFound", err)
	}
}

func TestApproveGrantsVisiblePermission(t *testing.T) {
	ctx := context.Background()
	perms, reqs, _ := newTestServices(t)

	created, err := reqs.Create(ctx, &model.PermissionRequest{UserID: 1, AppName: "App"})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	granted, err := reqs.Approve(ctx, created.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	listed, err := perms.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != granted.ID {
		t.Fatalf("granted permission not listed: %+v", listed)
	}
}

func TestDenyRemovesWithoutGranting(t *testing.T) {
	ctx := context.Background()
	perms, reqs, _ := newTestServices(t)

	created, err := reqs.Create(ctx, &model.PermissionRequest{UserID: 1, AppName: "App"})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if err := reqs.Deny(ctx, created.ID); err != nil {
		t.Fatalf("deny: %v", err)
	}
	if _, err := reqs.Get(ctx, created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("request survived denial")
	}
	listed, err := perms.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("denial granted a permission: %+v", listed)
	}
}

func TestDenyMissingRequest(t *testing.T) {
	_, reqs, _ := newTestServices(t)
	if err := reqs.Deny(context.Background(), 404); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestApproveMissingRequest(t *testing.T) {
	_, reqs, _ := newTestServices(t)
	if _, err := reqs.Approve(context.Background(), 404); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
