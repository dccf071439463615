package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/permissionhub/server/internal/gamification"
	"github.com/permissionhub/server/internal/kv"
	"github.com/permissionhub/server/internal/model"
	"github.com/permissionhub/server/internal/store/memory"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newTestServices(t *testing.T) (*PermissionService, *RequestService, *gamification.Engine) {
	t.Helper()
	engine := gamification.NewEngine(kv.NewMemory(), zerolog.Nop())
	st := memory.New()
	perms := NewPermissionService(st, engine, zerolog.Nop())
	reqs := NewRequestService(st, perms, zerolog.Nop())
	return perms, reqs, engine
}

func TestCreateRecomputesScore(t *testing.T) {
	ctx := context.Background()
	perms, _, engine := newTestServices(t)

	expiry := time.Now().Add(24 * time.Hour)
	_, err := perms.Create(ctx, &model.Permission{
		UserID:     1,
		Type:       model.TypeSessionBased,
		AppName:    "App",
		IsActive:   true,
		MaxCalls:   intPtr(10),
		ExpiryTime: &expiry,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// One fully bounded permission drives expiry and limitation to 10/10.
	for _, f := range engine.Factors() {
		if f.ID == gamification.FactorExpiry && f.Value != 10 {
			t.Fatalf("expiry factor = %d, want 10", f.Value)
		}
		if f.ID == gamification.FactorLimitation && f.Value != 10 {
			t.Fatalf("limitation factor = %d, want 10", f.Value)
		}
	}
}

func TestRevokeFlipsInactive(t *testing.T) {
	ctx := context.Background()
	perms, _, _ := newTestServices(t)

	created, err := perms.Create(ctx, &model.Permission{UserID: 1, IsActive: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	out, err := perms.Revoke(ctx, created.ID)
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if out.IsActive {
		t.Fatalf("permission still active after revoke")
	}
}

func TestRecordUsageIncrements(t *testing.T) {
	ctx := context.Background()
	perms, _, _ := newTestServices(t)

	created, err := perms.Create(ctx, &model.Permission{UserID: 1, IsActive: true, MaxCalls: intPtr(50)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	out, err := perms.RecordUsage(ctx, created.ID, 3)
	if err != nil {
		t.Fatalf("record usage: %v", err)
	}
	if out.CallsUsed != 3 {
		t.Fatalf("CallsUsed = %d, want 3", out.CallsUsed)
	}
}

func TestRecordUsageCapsAtMaxCalls(t *testing.T) {
	ctx := context.Background()
	perms, _, _ := newTestServices(t)

	created, err := perms.Create(ctx, &model.Permission{UserID: 1, IsActive: true, MaxCalls: intPtr(5)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	out, err := perms.RecordUsage(ctx, created.ID, 100)
	if err != nil {
		t.Fatalf("record usage: %v", err)
	}
	if out.CallsUsed != 5 {
		t.Fatalf("CallsUsed = %d, want cap at 5", out.CallsUsed)
	}
}

func TestRecordUsageRejectsNonPositiveDelta(t *testing.T) {
	ctx := context.Background()
	perms, _, _ := newTestServices(t)

	created, err := perms.Create(ctx, &model.Permission{UserID: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, delta := range []int{0, -1} {
		if _, err := perms.RecordUsage(ctx, created.ID, delta); !errors.Is(err, model.ErrValidation) {
			t.Fatalf("delta %d: err = %v, want ErrValidation", delta, err)
		}
	}
}

func TestDeleteMissingPermission(t *testing.T) {
	perms, _, _ := newTestServices(t)
	if err := perms.Delete(context.Background(), 404); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
