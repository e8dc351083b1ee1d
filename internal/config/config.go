package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// ErrInvalidConfig indicates a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all application configuration
type Config struct {
	Table   TableConfig   `mapstructure:"table"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TableConfig holds table widget options
type TableConfig struct {
	RowsPerPage  int    `mapstructure:"rows_per_page"`
	PageSizes    []int  `mapstructure:"page_sizes"`
	Collapsible  bool   `mapstructure:"collapsible"`
	SortMode     string `mapstructure:"sort_mode"`     // "external" or "local"
	Expansion    string `mapstructure:"expansion"`     // "per_row" or "shared"
	InitialSort  string `mapstructure:"initial_sort"`  // column ID, empty for none
	InitialOrder string `mapstructure:"initial_order"` // "asc" or "desc"
	Searchable   bool   `mapstructure:"searchable"`
	SearchMode   string `mapstructure:"search_mode"` // "external" or "local"
	Pagination   string `mapstructure:"pagination"`  // "local" slices loaded rows, "external" loads one page at a time
}

// StoreConfig holds record storage configuration
type StoreConfig struct {
	Path string `mapstructure:"path"` // BoltDB file; empty keeps records in memory
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

const (
	ModeExternal = "external"
	ModeLocal    = "local"

	ExpansionPerRow = "per_row"
	ExpansionShared = "shared"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Table: TableConfig{
			RowsPerPage:  25,
			PageSizes:    []int{5, 10, 25},
			Collapsible:  true,
			SortMode:     ModeExternal,
			Expansion:    ExpansionPerRow,
			InitialSort:  "created_at",
			InitialOrder: "desc",
			Searchable:   true,
			SearchMode:   ModeExternal,
			Pagination:   ModeLocal,
		},
		Store: StoreConfig{
			Path: filepath.Join(defaultDataPath(), "records.db"),
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "flextable.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "flextable")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "flextable")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "flextable")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "flextable")
	}
}

// DefaultConfigFile returns the path SaveConfig writes to when none is given.
func DefaultConfigFile() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

func newViper(cfg *Config) *viper.Viper {
	v := viper.New()

	// Defaults are registered key by key so environment overrides bind.
	v.SetDefault("table.rows_per_page", cfg.Table.RowsPerPage)
	v.SetDefault("table.page_sizes", cfg.Table.PageSizes)
	v.SetDefault("table.collapsible", cfg.Table.Collapsible)
	v.SetDefault("table.sort_mode", cfg.Table.SortMode)
	v.SetDefault("table.expansion", cfg.Table.Expansion)
	v.SetDefault("table.initial_sort", cfg.Table.InitialSort)
	v.SetDefault("table.initial_order", cfg.Table.InitialOrder)
	v.SetDefault("table.searchable", cfg.Table.Searchable)
	v.SetDefault("table.search_mode", cfg.Table.SearchMode)
	v.SetDefault("table.pagination", cfg.Table.Pagination)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)

	// Environment variable overrides, e.g. FLEXTABLE_TABLE_ROWS_PER_PAGE
	v.SetEnvPrefix("FLEXTABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from file and environment. An empty path
// searches the config directory and the working directory for config.yaml.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Store.Path = ExpandHome(cfg.Store.Path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML to path, or to the default location when
// path is empty.
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigFile()
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("table.rows_per_page", cfg.Table.RowsPerPage)
	v.Set("table.page_sizes", cfg.Table.PageSizes)
	v.Set("table.collapsible", cfg.Table.Collapsible)
	v.Set("table.sort_mode", cfg.Table.SortMode)
	v.Set("table.expansion", cfg.Table.Expansion)
	v.Set("table.initial_sort", cfg.Table.InitialSort)
	v.Set("table.initial_order", cfg.Table.InitialOrder)
	v.Set("table.searchable", cfg.Table.Searchable)
	v.Set("table.search_mode", cfg.Table.SearchMode)
	v.Set("table.pagination", cfg.Table.Pagination)
	v.Set("store.path", cfg.Store.Path)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports every out-of-range option.
func (c *Config) Validate() error {
	var errs []error
	t := c.Table

	if len(t.PageSizes) == 0 {
		errs = append(errs, fmt.Errorf("table.page_sizes is empty: %w", ErrInvalidConfig))
	}
	for _, n := range t.PageSizes {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("table.page_sizes: %d is not positive: %w", n, ErrInvalidConfig))
		}
	}
	if len(t.PageSizes) > 0 && !slices.Contains(t.PageSizes, t.RowsPerPage) {
		errs = append(errs, fmt.Errorf("table.rows_per_page %d is not one of %v: %w", t.RowsPerPage, t.PageSizes, ErrInvalidConfig))
	}
	if !slices.Contains([]string{ModeExternal, ModeLocal}, t.SortMode) {
		errs = append(errs, fmt.Errorf("table.sort_mode %q: %w", t.SortMode, ErrInvalidConfig))
	}
	if !slices.Contains([]string{ModeExternal, ModeLocal}, t.SearchMode) {
		errs = append(errs, fmt.Errorf("table.search_mode %q: %w", t.SearchMode, ErrInvalidConfig))
	}
	if !slices.Contains([]string{ModeExternal, ModeLocal}, t.Pagination) {
		errs = append(errs, fmt.Errorf("table.pagination %q: %w", t.Pagination, ErrInvalidConfig))
	}
	// A page loaded on its own cannot be sorted or searched as a whole.
	if t.Pagination == ModeExternal && (t.SortMode == ModeLocal || (t.Searchable && t.SearchMode == ModeLocal)) {
		errs = append(errs, fmt.Errorf("table.pagination external needs external sort_mode and search_mode: %w", ErrInvalidConfig))
	}
	if !slices.Contains([]string{ExpansionPerRow, ExpansionShared}, t.Expansion) {
		errs = append(errs, fmt.Errorf("table.expansion %q: %w", t.Expansion, ErrInvalidConfig))
	}
	if !slices.Contains([]string{"asc", "desc"}, t.InitialOrder) {
		errs = append(errs, fmt.Errorf("table.initial_order %q: %w", t.InitialOrder, ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// ExpandHome replaces a leading ~ with the user home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
