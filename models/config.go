package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerURL       string        `json:"server_url" yaml:"server_url"`
	RequestTimeout  time.Duration `json:"request_timeout" yaml:"request_timeout"`
	DefaultFileName string        `json:"default_file_name" yaml:"default_file_name"`
	DataDir         string        `json:"data_dir" yaml:"data_dir"`
	RecentFilesMax  int           `json:"recent_files_max" yaml:"recent_files_max"`
	StatusInterval  time.Duration `json:"status_interval" yaml:"status_interval"`
	CacheTTL        time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	TUI             bool          `json:"tui" yaml:"tui"`
}

var DefaultConfig = Config{
	ServerURL:       "http://localhost:5425",
	RequestTimeout:  30 * time.Second,
	DefaultFileName: "plot.gcode",
	RecentFilesMax:  15,
	StatusInterval:  5 * time.Second,
	CacheTTL:        10 * time.Minute,
	TUI:             true,
}

// ConfigSearchPaths returns the locations LoadConfig probes, in order.
func ConfigSearchPaths() []string {
	paths := []string{"cutplot.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "cutplot", "cutplot.yaml"))
	}
	paths = append(paths, "/etc/cutplot/cutplot.yaml")
	return paths
}

// LoadConfig reads the config at path, or probes the search paths when
// path is empty. A probed location that is missing or unreadable is
// skipped; an explicit path that cannot be read is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig

	paths := []string{path}
	if path == "" {
		paths = ConfigSearchPaths()
	}

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if path == "" {
				continue
			}
			return cfg, fmt.Errorf("reading config %s: %w", p, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", p, err)
		}
		break
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML, creating parent directories as needed.
func SaveConfig(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return &ConfigError{Field: "server_url", Message: "server URL is required"}
	}

	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return &ConfigError{Field: "server_url", Message: "server URL must start with http:// or https://"}
	}

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultConfig.RequestTimeout
	}

	if c.DefaultFileName == "" {
		c.DefaultFileName = DefaultConfig.DefaultFileName
	}

	if c.RecentFilesMax <= 0 {
		c.RecentFilesMax = DefaultConfig.RecentFilesMax
	}

	if c.StatusInterval <= 0 {
		c.StatusInterval = DefaultConfig.StatusInterval
	}

	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultConfig.CacheTTL
	}

	return nil
}

// HistoryPath resolves the bbolt database location under DataDir, or
// the user config dir when DataDir is unset.
func (c *Config) HistoryPath() string {
	if c.DataDir != "" {
		return filepath.Join(c.DataDir, "history.db")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "cutplot", "history.db")
	}
	return "cutplot-history.db"
}

type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
