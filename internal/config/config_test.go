package config

import (
	"os"
	"testing"
)

func TestConfigLoad_Defaults(t *testing.T) {
	_ = os.Unsetenv("PERMISSION_HUB_HTTP_PORT")
	_ = os.Unsetenv("PERMISSION_HUB_DB_DRIVER")
	_ = os.Unsetenv("PERMISSION_HUB_SWEEP_INTERVAL_SECONDS")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 8080 || cfg.DBDriver != "memory" || cfg.DemoUserID != 1 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.SeedDemoData || !cfg.SweepEnabled || cfg.SweepIntervalSeconds != 60 {
		t.Fatalf("unexpected demo/sweep defaults: %+v", cfg)
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	_ = os.Setenv("PERMISSION_HUB_HTTP_PORT", "9999")
	defer func() { _ = os.Unsetenv("PERMISSION_HUB_HTTP_PORT") }()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 9999 {
		t.Fatalf("http port env override failed, got %d", cfg.HTTPPort)
	}
	if cfg.GetHTTPAddr() != ":9999" {
		t.Fatalf("addr = %s", cfg.GetHTTPAddr())
	}
}

func TestConfigValidate_PostgresRequiresDSN(t *testing.T) {
	_ = os.Setenv("PERMISSION_HUB_DB_DRIVER", "postgres")
	defer func() { _ = os.Unsetenv("PERMISSION_HUB_DB_DRIVER") }()

	if _, err := New(); err == nil {
		t.Fatalf("expected error for postgres driver without DSN")
	}

	_ = os.Setenv("PERMISSION_HUB_POSTGRES_DSN", "postgres://localhost/permissionhub")
	defer func() { _ = os.Unsetenv("PERMISSION_HUB_POSTGRES_DSN") }()

	if _, err := New(); err != nil {
		t.Fatalf("valid postgres config rejected: %v", err)
	}
}

func TestConfigValidate_UnknownDriver(t *testing.T) {
	_ = os.Setenv("PERMISSION_HUB_DB_DRIVER", "mongodb")
	defer func() { _ = os.Unsetenv("PERMISSION_HUB_DB_DRIVER") }()

	if _, err := New(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestConfigValidate_SweepInterval(t *testing.T) {
	_ = os.Setenv("PERMISSION_HUB_SWEEP_INTERVAL_SECONDS", "0")
	defer func() { _ = os.Unsetenv("PERMISSION_HUB_SWEEP_INTERVAL_SECONDS") }()

	if _, err := New(); err == nil {
		t.Fatalf("expected error for non-positive sweep interval")
	}
}
