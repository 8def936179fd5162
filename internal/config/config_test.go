package config_test

import (
	"errors"
	"os"
	"testing"

	"github.com/seoaudit/engine/internal/config"
)

func TestLoad_DefaultsWhenNoFileOrEnv(t *testing.T) {
	withWorkdir(t, t.TempDir())

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Run.MaxPages != 50 {
		t.Errorf("expected default run.max_pages = 50, got %d", cfg.Run.MaxPages)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("expected default store.backend = memory, got %q", cfg.Store.Backend)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default server.port = 8080, got %d", cfg.Server.Port)
	}
}

func TestLoad_EnvVarOverridesDefault(t *testing.T) {
	withWorkdir(t, t.TempDir())
	t.Setenv("SEOAUDIT_RUN_MAX_PAGES", "200")
	t.Setenv("SEOAUDIT_STORE_BACKEND", "file")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Run.MaxPages != 200 {
		t.Errorf("expected env override run.max_pages = 200, got %d", cfg.Run.MaxPages)
	}
	if cfg.Store.Backend != "file" {
		t.Errorf("expected env override store.backend = file, got %q", cfg.Store.Backend)
	}
}

func TestLoad_ConfigFileOverridesDefaultButNotEnv(t *testing.T) {
	dir := t.TempDir()
	withWorkdir(t, dir)

	yaml := "run:\n  max_pages: 10\nstore:\n  backend: file\n"
	if err := os.WriteFile(dir+"/seoaudit.yaml", []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("SEOAUDIT_STORE_BACKEND", "memory")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Run.MaxPages != 10 {
		t.Errorf("expected config file value run.max_pages = 10, got %d", cfg.Run.MaxPages)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("expected env var to win over config file, store.backend = memory, got %q", cfg.Store.Backend)
	}
}

func TestValidate_RejectsNonPositiveMaxPages(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Run.MaxPages = 0
	if err := cfg.Validate(); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected Validate to reject max_pages = 0 with ErrInvalidConfig, got %v", err)
	}
}

func TestValidate_RejectsUnknownStoreBackend(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Store.Backend = "s3"
	if err := cfg.Validate(); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected Validate to reject an unknown backend with ErrInvalidConfig, got %v", err)
	}
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate cleanly, got %v", err)
	}
}

func withWorkdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
