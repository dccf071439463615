package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/permissionhub/server/internal/model"
)

func TestPermissionCreateAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, err := s.Permissions().Create(ctx, &model.Permission{UserID: 1, Name: "a"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := s.Permissions().Create(ctx, &model.Permission{UserID: 1, Name: "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", first.ID, second.ID)
	}
	if first.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt not stamped")
	}
}

func TestPermissionCreateResetsCallsUsed(t *testing.T) {
	ctx := context.Background()
	s := New()

	out, err := s.Permissions().Create(ctx, &model.Permission{UserID: 1, CallsUsed: 42})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.CallsUsed != 0 {
		t.Fatalf("CallsUsed = %d, want 0 on create", out.CallsUsed)
	}
}

func TestPermissionGetNotFound(t *testing.T) {
	s := New()
	if _, err := s.Permissions().Get(context.Background(), 99); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPermissionListFiltersByUser(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, uid := range []int{1, 1, 2} {
		if _, err := s.Permissions().Create(ctx, &model.Permission{UserID: uid}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	out, err := s.Permissions().List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
}

func TestPermissionUpdateMergesPatch(t *testing.T) {
	ctx := context.Background()
	s := New()
	desc := "stream"
	created, err := s.Permissions().Create(ctx, &model.Permission{
		UserID:      1,
		Name:        "before",
		Description: &desc,
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "after"
	inactive := false
	out, err := s.Permissions().Update(ctx, created.ID, model.PermissionPatch{
		Name:     &name,
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.Name != "after" || out.IsActive {
		t.Fatalf("patched fields not applied: %+v", out)
	}
	if out.Description == nil || *out.Description != "stream" {
		t.Fatalf("untouched field lost: %+v", out.Description)
	}
}

func TestPermissionUpdateNotFound(t *testing.T) {
	s := New()
	name := "x"
	if _, err := s.Permissions().Update(context.Background(), 7, model.PermissionPatch{Name: &name}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPermissionDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	created, err := s.Permissions().Create(ctx, &model.Permission{UserID: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	existed, err := s.Permissions().Delete(ctx, created.ID)
	if err != nil || !existed {
		t.Fatalf("delete = %v, %v", existed, err)
	}
	if _, err := s.Permissions().Get(ctx, created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("record survived delete")
	}

	existed, err = s.Permissions().Delete(ctx, created.ID)
	if err != nil || existed {
		t.Fatalf("second delete = %v, %v; want false, nil", existed, err)
	}
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	first, _ := s.Permissions().Create(ctx, &model.Permission{UserID: 1})
	if _, err := s.Permissions().Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	second, _ := s.Permissions().Create(ctx, &model.Permission{UserID: 1})
	if second.ID == first.ID {
		t.Fatalf("id %d reused after delete", first.ID)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	created, _ := s.Permissions().Create(ctx, &model.Permission{UserID: 1, Name: "original"})

	created.Name = "mutated"
	got, err := s.Permissions().Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "original" {
		t.Fatalf("caller mutation leaked into the store")
	}
}

func TestRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	expiry := time.Now().Add(time.Hour)

	created, err := s.Requests().Create(ctx, &model.PermissionRequest{
		UserID:     1,
		Type:       model.TypeSessionBased,
		AppName:    "PixelDungeon",
		ExpiryTime: &expiry,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 || created.RequestedAt.IsZero() {
		t.Fatalf("request not stamped: %+v", created)
	}

	got, err := s.Requests().Get(ctx, created.ID)
	if err != nil || got.AppName != "PixelDungeon" {
		t.Fatalf("get = %+v, %v", got, err)
	}

	existed, err := s.Requests().Delete(ctx, created.ID)
	if err != nil || !existed {
		t.Fatalf("delete = %v, %v", existed, err)
	}
	if _, err := s.Requests().Get(ctx, created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("request survived delete")
	}
}
