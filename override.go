// FILE: override.go
package recorder

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to the configuration.
// Each override should be in the format "key=value".
// The configuration is only modified if every override parses and the result validates.
//
// Example:
//
//	cfg := recorder.DefaultConfig()
//	err := cfg.ApplyOverride(
//	    "directory=/var/log/app",
//	    "level=detail",
//	    "max_log_size=4194304",
//	)
func (c *Config) ApplyOverride(overrides ...string) error {
	next := c.Clone()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(next, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return combineConfigErrors(errors)
	}

	if err := next.Validate(); err != nil {
		return err
	}

	*c = *next
	return nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("recorder: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "recorder: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Basic settings
	case "level":
		// Accept both numeric and named values
		if numVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			cfg.Level = numVal
		} else {
			levelVal, err := ParseLevel(value)
			if err != nil {
				return fmtErrorf("invalid level value '%s': %w", value, err)
			}
			cfg.Level = int64(levelVal)
		}
	case "directory":
		cfg.Directory = value
	case "module":
		cfg.Module = value
	case "sanitize_policy":
		cfg.SanitizePolicy = value

	// Size limits and retention
	case "max_log_size", "max_total_size", "max_save_days", "min_file_nums",
		"flush_interval_s", "exception_max_size":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
		}
		*intField(cfg, key) = intVal

	// Flags
	case "lazy_flush", "sanitize", "exclusive_lock":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
		}
		*boolField(cfg, key) = boolVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}

// intField maps an integer key to its Config field
func intField(cfg *Config, key string) *int64 {
	switch key {
	case "max_log_size":
		return &cfg.MaxLogSize
	case "max_total_size":
		return &cfg.MaxTotalSize
	case "max_save_days":
		return &cfg.MaxSaveDays
	case "min_file_nums":
		return &cfg.MinFileNums
	case "flush_interval_s":
		return &cfg.FlushIntervalS
	default:
		return &cfg.ExceptionMaxSize
	}
}

// boolField maps a boolean key to its Config field
func boolField(cfg *Config, key string) *bool {
	switch key {
	case "lazy_flush":
		return &cfg.LazyFlush
	case "sanitize":
		return &cfg.Sanitize
	default:
		return &cfg.ExclusiveLock
	}
}
