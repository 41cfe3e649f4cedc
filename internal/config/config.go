package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It defines viewer, thumbnail, and folder scanning parameters.
type Config struct {
	Viewer struct {
		CacheCapacity    int  `yaml:"cache_capacity"`     // Max decoded images kept in the LRU cache
		MaxDecodeWorkers int  `yaml:"max_decode_workers"` // Cap on concurrently running decode workers
		PreloadNeighbors bool `yaml:"preload_neighbors"`  // Preload images adjacent to the current one
	} `yaml:"viewer"`
	Thumbnails struct {
		Enabled bool `yaml:"enabled"` // Decode folder thumbnails in the background
		Width   int  `yaml:"width"`   // Thumbnail box width in pixels
		Height  int  `yaml:"height"`  // Thumbnail box height in pixels
	} `yaml:"thumbnails"`
	Scan struct {
		Include     []string `yaml:"include"`      // Extra glob patterns to include beyond the built-in formats
		WatchFolder bool     `yaml:"watch_folder"` // Rescan the open folder when its contents change
	} `yaml:"scan"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary"`  // Primary color for branding
		Success  string `yaml:"success"`  // Success message color
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Emphasis color for text that should stand out
		Border   string `yaml:"border"`   // Border color for frames
	} `yaml:"theme"`
}

// LoadConfig loads configuration from the default location
// (~/.config/kingview/config.yaml).
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(home, ".config", "kingview", "config.yaml")
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration. Fields absent
// from the file keep their defaults.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal over the defaults so unset fields keep their default values
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Viewer.CacheCapacity = 15
	cfg.Viewer.MaxDecodeWorkers = 4
	cfg.Viewer.PreloadNeighbors = true

	cfg.Thumbnails.Enabled = true
	cfg.Thumbnails.Width = 200
	cfg.Thumbnails.Height = 140

	cfg.Scan.Include = []string{}
	cfg.Scan.WatchFolder = true

	cfg.ApplyTheme("default")

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if c.Viewer.CacheCapacity < 1 {
		return fmt.Errorf("cache_capacity must be >= 1")
	}

	if c.Viewer.MaxDecodeWorkers < 1 {
		return fmt.Errorf("max_decode_workers must be >= 1")
	}

	if c.Thumbnails.Width < 1 || c.Thumbnails.Height < 1 {
		return fmt.Errorf("thumbnail dimensions must be >= 1")
	}

	// Include patterns must be valid globs
	for i, pattern := range c.Scan.Include {
		if pattern == "" {
			return fmt.Errorf("include pattern %d: pattern is required", i)
		}
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("include pattern %d: %w", i, err)
		}
	}

	return nil
}

// IncludeGlobs compiles the configured extra include patterns.
// Validate guarantees they compile; invalid patterns are skipped here anyway.
func (c *Config) IncludeGlobs() []glob.Glob {
	globs := make([]glob.Glob, 0, len(c.Scan.Include))
	for _, pattern := range c.Scan.Include {
		g, err := glob.Compile(pattern)
		if err != nil {
			continue
		}
		globs = append(globs, g)
	}
	return globs
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Viewer.CacheCapacity = 3
	cfg.Viewer.MaxDecodeWorkers = 2
	cfg.Thumbnails.Width = 32
	cfg.Thumbnails.Height = 32
	cfg.Scan.WatchFolder = false
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "39",  // Blue
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "245", // Grey
			"emphasis": "75",  // Light Blue
			"border":   "39",  // Blue
		},
		"dark": {
			"primary":  "105", // Dark Blue
			"success":  "78",  // Dark Green
			"warning":  "214", // Dark Yellow
			"error":    "160", // Dark Red
			"info":     "241", // Medium Grey
			"emphasis": "147", // Light Blue
			"border":   "105", // Dark Blue
		},
		"light": {
			"primary":  "135", // Light Purple
			"success":  "150", // Light Green
			"warning":  "222", // Light Yellow
			"error":    "210", // Light Red
			"info":     "117", // Light Blue
			"emphasis": "219", // Very Light Pink
			"border":   "135", // Light Purple
		},
		"monochrome": {
			"primary":  "245", // Light Grey
			"success":  "252", // White
			"warning":  "241", // Medium Grey
			"error":    "232", // Black
			"info":     "248", // Grey
			"emphasis": "255", // Bright White
			"border":   "245", // Light Grey
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
// It updates the theme colors based on the theme name.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome"}
}
