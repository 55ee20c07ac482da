package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.DBPath != "pixelo.db" {
		t.Errorf("db path = %q, want pixelo.db", cfg.DBPath)
	}
	if cfg.ShareTTL != 168*time.Hour {
		t.Errorf("share ttl = %v, want 168h", cfg.ShareTTL)
	}
	if cfg.Push.Enabled() {
		t.Error("push should be disabled without VAPID keys")
	}
	if cfg.Backup.Enabled() {
		t.Error("backup should be disabled without a bucket")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PIXELO_PORT", "9090")
	t.Setenv("PIXELO_PUSH_VAPID_PUBLIC_KEY", "pub")
	t.Setenv("PIXELO_PUSH_VAPID_PRIVATE_KEY", "priv")
	t.Setenv("PIXELO_BACKUP_S3_BUCKET", "snapshots")
	t.Setenv("PIXELO_BACKUP_INTERVAL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Port)
	}
	if !cfg.Push.Enabled() {
		t.Error("push should be enabled")
	}
	if !cfg.Backup.Enabled() {
		t.Error("backup should be enabled")
	}
	if cfg.Backup.Interval != time.Hour {
		t.Errorf("interval = %v, want 1h", cfg.Backup.Interval)
	}
}
