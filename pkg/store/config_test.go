package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "no-such.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not be an error: %v", err)
	}
	if cfg.DBPath != DefaultConfig().DBPath {
		t.Errorf("DBPath = %q, want default", cfg.DBPath)
	}
	if cfg.SuppressWindow() != 3*time.Second {
		t.Errorf("SuppressWindow() = %v, want 3s", cfg.SuppressWindow())
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
db_path: /var/lib/dashgrid/board.db
suppress_window_ms: 1500
scroll:
  edge_px: 120
  max_speed: 600
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/var/lib/dashgrid/board.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.SuppressWindow() != 1500*time.Millisecond {
		t.Errorf("SuppressWindow() = %v, want 1.5s", cfg.SuppressWindow())
	}
	if cfg.Scroll.EdgePx != 120 || cfg.Scroll.MaxSpeed != 600 {
		t.Errorf("scroll overrides not applied: %+v", cfg.Scroll)
	}
	if cfg.FeedDir != DefaultConfig().FeedDir {
		t.Errorf("unset FeedDir should keep its default, got %q", cfg.FeedDir)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("db_path: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed config must be an error")
	}
}
