package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/cari_magang")
	// Keep the ambient environment from leaking into assertions.
	for _, key := range []string{"PORT", "APP_ENV", "REDIS_URL", "LOG_PATH",
		"RAPIDAPI_KEY", "RAPIDAPI_HOST", "SYNC_CRON", "SYNC_TIMEZONE"} {
		t.Setenv(key, "")
	}
	t.Setenv("SYNC_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "5000" {
		t.Fatalf("unexpected port %s", cfg.Port)
	}
	if cfg.Env != "development" || cfg.IsProduction() {
		t.Fatalf("unexpected env %s", cfg.Env)
	}
	if cfg.Scheduler.Cron != "0 0 * * *" {
		t.Fatalf("unexpected cron %q", cfg.Scheduler.Cron)
	}
	if cfg.Scheduler.Timezone != "Asia/Jakarta" {
		t.Fatalf("unexpected timezone %q", cfg.Scheduler.Timezone)
	}
	if cfg.Scheduler.Defaults.TitleFilter != "intern" {
		t.Fatalf("unexpected default filters %+v", cfg.Scheduler.Defaults)
	}
	if cfg.JobBoard.HasCredentials() {
		t.Fatal("expected no credentials")
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoad_SyncFileOverlay(t *testing.T) {
	setBaseEnv(t)

	path := filepath.Join(t.TempDir(), "sync.yaml")
	content := strings.Join([]string{
		`cron: "30 6 * * *"`,
		`timezone: "Asia/Makassar"`,
		`defaults:`,
		`  title_filter: "magang"`,
		`  location_filter: "Bali"`,
		`  offset: 10`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write sync file: %v", err)
	}
	t.Setenv("SYNC_CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Scheduler.Cron != "30 6 * * *" {
		t.Fatalf("file cron not applied: %q", cfg.Scheduler.Cron)
	}
	if cfg.Scheduler.Timezone != "Asia/Makassar" {
		t.Fatalf("file timezone not applied: %q", cfg.Scheduler.Timezone)
	}
	if cfg.Scheduler.Defaults.TitleFilter != "magang" || cfg.Scheduler.Defaults.Offset != 10 {
		t.Fatalf("file defaults not applied: %+v", cfg.Scheduler.Defaults)
	}
}

func TestLoad_EnvBeatsSyncFile(t *testing.T) {
	setBaseEnv(t)

	path := filepath.Join(t.TempDir(), "sync.yaml")
	if err := os.WriteFile(path, []byte(`cron: "30 6 * * *"`), 0o644); err != nil {
		t.Fatalf("write sync file: %v", err)
	}
	t.Setenv("SYNC_CONFIG_PATH", path)
	t.Setenv("SYNC_CRON", "15 3 * * *")
	t.Setenv("SYNC_TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Scheduler.Cron != "15 3 * * *" {
		t.Fatalf("env cron must win, got %q", cfg.Scheduler.Cron)
	}
	if cfg.Scheduler.Timezone != "UTC" {
		t.Fatalf("env timezone must win, got %q", cfg.Scheduler.Timezone)
	}
}

func TestLoad_BadSyncFile(t *testing.T) {
	setBaseEnv(t)

	path := filepath.Join(t.TempDir(), "sync.yaml")
	if err := os.WriteFile(path, []byte("cron: [unclosed"), 0o644); err != nil {
		t.Fatalf("write sync file: %v", err)
	}
	t.Setenv("SYNC_CONFIG_PATH", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error for malformed sync file")
	}
}

func TestHasCredentials(t *testing.T) {
	cases := []struct {
		key, host string
		want      bool
	}{
		{"", "", false},
		{"key", "", false},
		{"", "host", false},
		{"key", "host", true},
	}
	for _, tc := range cases {
		cfg := JobBoardConfig{APIKey: tc.key, APIHost: tc.host}
		if cfg.HasCredentials() != tc.want {
			t.Fatalf("HasCredentials(%q, %q) != %v", tc.key, tc.host, tc.want)
		}
	}
}
