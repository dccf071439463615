package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/permissionhub/server/internal/config"
)

func TestNewStorageMemoryDriver(t *testing.T) {
	cfg := &config.Config{DBDriver: "memory", DemoUserID: 1, SeedDemoData: true}

	st, state, err := NewStorage(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	if st == nil || state == nil {
		t.Fatalf("nil store returned")
	}

	perms, err := st.Permissions().List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(perms) != 5 {
		t.Fatalf("seeded permissions = %d, want 5", len(perms))
	}
}

func TestNewStorageMemoryDriverNoSeed(t *testing.T) {
	cfg := &config.Config{DBDriver: "memory", DemoUserID: 1}

	st, _, err := NewStorage(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	perms, err := st.Permissions().List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(perms) != 0 {
		t.Fatalf("unexpected seeded data: %d records", len(perms))
	}
}

func TestNewStorageSQLiteDriver(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}

	st, state, err := NewStorage(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	if st == nil || state == nil {
		t.Fatalf("nil store returned")
	}
}

func TestNewStorageUnknownDriver(t *testing.T) {
	cfg := &config.Config{DBDriver: "cassandra"}
	if _, _, err := NewStorage(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
