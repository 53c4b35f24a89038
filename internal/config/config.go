package config

import (
	"fmt"
	"os"
	"path/filepath"

	"browsd/internal/errors"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Backend names accepted by watch.backend. They mirror the names the watch
// package registers.
const (
	BackendFsnotify = "fsnotify"
	BackendNotify   = "notify"
)

// Config represents the application configuration structure.
// It defines what is browsed, how it is watched and how it looks.
type Config struct {
	Browser struct {
		StartDir      string   `yaml:"start_dir"`      // Directory opened at startup
		ShowHidden    bool     `yaml:"show_hidden"`    // Show dotfiles
		Ignore        []string `yaml:"ignore"`         // Glob patterns hidden from listings
		ConfirmDelete bool     `yaml:"confirm_delete"` // Ask before deleting non-empty entries
	} `yaml:"browser"`
	Watch struct {
		Backend           string `yaml:"backend"`              // fsnotify or notify
		TickIntervalMs    int    `yaml:"tick_interval_ms"`     // UI poll interval in milliseconds
		MaxChangesPerTick int    `yaml:"max_changes_per_tick"` // 0 drains the whole queue each tick
	} `yaml:"watch"`
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
	Log struct {
		Level string `yaml:"level"` // debug, info, warn or error
		JSON  bool   `yaml:"json"`  // Emit JSON instead of text
		File  string `yaml:"file"`  // Also write to this file
	} `yaml:"log"`
	Metrics struct {
		Addr string `yaml:"addr"` // Listen address for the debug server, empty disables it
	} `yaml:"metrics"`
}

// DefaultPath returns ~/.config/browsd/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "browsd", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/browsd/config.yaml).
func LoadConfig() (*Config, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Decoding onto the defaults keeps every key the file leaves out. Theme
	// colours start empty so the named theme fills only those not given.
	name := cfg.Theme.Name
	cfg.Theme = Config{}.Theme
	cfg.Theme.Name = name
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.fillTheme()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Browser.StartDir = "."
	cfg.Browser.ShowHidden = false
	cfg.Browser.Ignore = []string{}
	cfg.Browser.ConfirmDelete = true

	cfg.Watch.Backend = BackendFsnotify
	cfg.Watch.TickIntervalMs = 100
	cfg.Watch.MaxChangesPerTick = 64

	cfg.Log.Level = "info"

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
// Returns a ConfigError naming the offending key.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	switch c.Watch.Backend {
	case BackendFsnotify, BackendNotify:
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown watch backend %q", c.Watch.Backend),
			"watch.backend", errors.InvalidConfig, nil)
	}

	if c.Watch.TickIntervalMs < 10 {
		return errors.NewConfigError("tick interval must be >= 10ms",
			"watch.tick_interval_ms", errors.InvalidConfig, nil)
	}

	if c.Watch.MaxChangesPerTick < 0 {
		return errors.NewConfigError("max changes per tick must be >= 0",
			"watch.max_changes_per_tick", errors.InvalidConfig, nil)
	}

	for i, p := range c.Browser.Ignore {
		if p == "" {
			return errors.NewConfigError(fmt.Sprintf("ignore pattern %d: pattern cannot be empty", i),
				"browser.ignore", errors.InvalidConfig, nil)
		}
		if _, err := glob.Compile(p); err != nil {
			return errors.NewConfigError(fmt.Sprintf("ignore pattern %d: %v", i, err),
				"browser.ignore", errors.InvalidConfig, err)
		}
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown log level %q", c.Log.Level),
			"log.level", errors.InvalidConfig, nil)
	}

	if c.Browser.StartDir != "" {
		info, err := os.Stat(c.Browser.StartDir)
		if err != nil {
			if os.IsNotExist(err) {
				return errors.NewConfigError("start directory does not exist",
					"browser.start_dir", errors.InvalidConfig, err)
			}
			return fmt.Errorf("error accessing start directory: %w", err)
		}
		if !info.IsDir() {
			return errors.NewConfigError("start directory is not a directory",
				"browser.start_dir", errors.InvalidConfig, nil)
		}
	}

	return nil
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
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105", // Dark Blue
			"success":  "78",  // Dark Green
			"warning":  "214", // Dark Yellow
			"error":    "160", // Dark Red
			"info":     "33",  // Dark Blue
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
		"ocean": {
			"primary":  "31",  // Teal
			"success":  "36",  // Green-Blue
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "33",  // Blue
			"emphasis": "51",  // Cyan
			"border":   "31",  // Teal
		},
		"sunset": {
			"primary":  "208", // Orange
			"success":  "154", // Green
			"warning":  "214", // Dark Yellow
			"error":    "196", // Red
			"info":     "69",  // Light Green
			"emphasis": "203", // Pink-Orange
			"border":   "208", // Orange
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

// fillTheme sets every empty colour from the named theme.
func (c *Config) fillTheme() {
	if c.Theme.Name == "" {
		c.Theme.Name = "default"
	}
	theme := GetTheme(c.Theme.Name)
	for key, field := range map[string]*string{
		"primary":  &c.Theme.Primary,
		"success":  &c.Theme.Success,
		"warning":  &c.Theme.Warning,
		"error":    &c.Theme.Error,
		"info":     &c.Theme.Info,
		"emphasis": &c.Theme.Emphasis,
		"border":   &c.Theme.Border,
	} {
		if *field == "" {
			*field = theme[key]
		}
	}
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome", "ocean", "sunset"}
}
