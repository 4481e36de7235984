package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration, loaded from YAML.
type Config struct {
	// DBPath is where the board database lives.
	DBPath string `yaml:"db_path"`
	// FeedDir is the spool directory live-data payloads arrive in.
	FeedDir string `yaml:"feed_dir"`
	// SuppressWindowMS is the optimistic suppression window in milliseconds.
	SuppressWindowMS int `yaml:"suppress_window_ms"`

	Scroll ScrollConfig `yaml:"scroll"`
}

// ScrollConfig tunes the drag auto-scroll controller.
type ScrollConfig struct {
	GracePx  float64 `yaml:"grace_px"`
	EdgePx   float64 `yaml:"edge_px"`
	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		DBPath:           filepath.Join(".dashgrid", "board.db"),
		FeedDir:          filepath.Join(".dashgrid", "feeds"),
		SuppressWindowMS: 3000,
	}
}

// SuppressWindow returns the suppression window as a duration.
func (c Config) SuppressWindow() time.Duration {
	if c.SuppressWindowMS <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.SuppressWindowMS) * time.Millisecond
}

// LoadConfig reads the YAML config at path. A missing file is not an error;
// defaults apply. A malformed file is an error, since silently ignoring a
// config the user wrote would be worse.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultConfig().DBPath
	}
	if cfg.FeedDir == "" {
		cfg.FeedDir = DefaultConfig().FeedDir
	}
	return cfg, nil
}
