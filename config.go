// FILE: config.go
package recorder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"

	"github.com/lixenwraith/recorder/sanitizer"
)

// Config holds all recorder configuration values
type Config struct {
	// Basic settings
	Level     int64  `toml:"level"`
	Directory string `toml:"directory"`
	Module    string `toml:"module"` // Module label in timestamped lines, defaults to the base name

	// Size limits and retention
	MaxLogSize   int64 `toml:"max_log_size"`   // Max bytes per active file
	MaxTotalSize int64 `toml:"max_total_size"` // Max bytes across archives, derives the file cap
	MaxSaveDays  int64 `toml:"max_save_days"`  // Days to keep archives (0=disabled)
	MinFileNums  int64 `toml:"min_file_nums"`  // Archives always kept, even if old

	// Flushing
	FlushIntervalS int64 `toml:"flush_interval_s"` // Flush coordinator wake interval
	LazyFlush      bool  `toml:"lazy_flush"`       // Commit writes from the coordinator instead of inline

	// Output hygiene
	Sanitize         bool   `toml:"sanitize"`           // Apply SanitizePolicy to messages
	SanitizePolicy   string `toml:"sanitize_policy"`    // txt (hex-encode), folded (line breaks to spaces), raw
	ExclusiveLock    bool   `toml:"exclusive_lock"`     // Hold <name>.lock while the recorder is open
	ExceptionMaxSize int64  `toml:"exception_max_size"` // Error file is recreated beyond this size
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Basic settings
	Level:     int64(LevelNormal),
	Directory: "./logs",
	Module:    "",

	// Size limits and retention
	MaxLogSize:   1024 * 1024,
	MaxTotalSize: 10 * 1024 * 1024, // up to 10 archives
	MaxSaveDays:  10,
	MinFileNums:  2,

	// Flushing
	FlushIntervalS: 1,
	LazyFlush:      false,

	// Output hygiene
	Sanitize:         true,
	SanitizePolicy:   string(sanitizer.PolicyTxt),
	ExclusiveLock:    true,
	ExceptionMaxSize: 10000,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	// Create a copy to prevent modifications to the original
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("recorder.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "recorder.", cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue // Use default value
		}

		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		tomlTag := t.Field(i).Tag.Get("toml")
		if tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case Level:
			field.SetInt(int64(v))
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Directory) == "" {
		return fmtErrorf("directory cannot be empty")
	}

	if c.Level < int64(LevelDebug) || c.Level > int64(LevelNormal) {
		return fmtErrorf("level must be between %d and %d: %d", LevelDebug, LevelNormal, c.Level)
	}

	if c.MaxLogSize <= 0 {
		return fmtErrorf("max_log_size must be positive: %d", c.MaxLogSize)
	}

	if c.MaxTotalSize < 0 || c.MaxSaveDays < 0 || c.MinFileNums < 0 {
		return fmtErrorf("retention settings cannot be negative")
	}

	if c.FlushIntervalS <= 0 {
		return fmtErrorf("flush_interval_s must be positive: %d", c.FlushIntervalS)
	}

	if c.ExceptionMaxSize <= 0 {
		return fmtErrorf("exception_max_size must be positive: %d", c.ExceptionMaxSize)
	}

	if !sanitizer.IsPolicy(sanitizer.PolicyPreset(c.SanitizePolicy)) {
		return fmtErrorf("invalid sanitize_policy: '%s' (use txt, folded, raw)", c.SanitizePolicy)
	}

	// Cross-field validations
	if c.MinFileNums > c.MaxFileNums() {
		return fmtErrorf("min_file_nums (%d) cannot be greater than max files derived from max_total_size/max_log_size (%d)",
			c.MinFileNums, c.MaxFileNums())
	}

	return nil
}

// MaxFileNums is the archive count cap derived from the total and per-file size limits
func (c *Config) MaxFileNums() int64 {
	if c.MaxLogSize <= 0 {
		return 0
	}
	return c.MaxTotalSize / c.MaxLogSize
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}
