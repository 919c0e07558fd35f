// FILE: lixenwraith/recorder/config_test.go
package recorder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, int64(LevelNormal), cfg.Level)
	assert.Equal(t, "./logs", cfg.Directory)
	assert.Equal(t, "", cfg.Module)
	assert.Equal(t, int64(1024*1024), cfg.MaxLogSize)
	assert.Equal(t, int64(10), cfg.MaxFileNums())
	assert.Equal(t, int64(10), cfg.MaxSaveDays)
	assert.Equal(t, int64(2), cfg.MinFileNums)
	assert.Equal(t, int64(1), cfg.FlushIntervalS)
	assert.False(t, cfg.LazyFlush)
	assert.True(t, cfg.Sanitize)
	assert.Equal(t, "txt", cfg.SanitizePolicy)
	assert.True(t, cfg.ExclusiveLock)
	assert.Equal(t, int64(10000), cfg.ExceptionMaxSize)
	assert.NoError(t, cfg.Validate())
}

func TestConfigClone(t *testing.T) {
	cfg1 := DefaultConfig()
	cfg1.Level = int64(LevelDebug)
	cfg1.Directory = "/custom/path"

	cfg2 := cfg1.Clone()

	assert.Equal(t, cfg1.Level, cfg2.Level)
	assert.Equal(t, cfg1.Directory, cfg2.Directory)

	cfg1.Level = int64(LevelNormal)
	assert.Equal(t, int64(LevelDebug), cfg2.Level)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError string
	}{
		{
			name:      "valid config",
			modify:    func(c *Config) {},
			wantError: "",
		},
		{
			name:      "empty directory",
			modify:    func(c *Config) { c.Directory = " " },
			wantError: "directory cannot be empty",
		},
		{
			name:      "level out of range",
			modify:    func(c *Config) { c.Level = 3 },
			wantError: "level must be between",
		},
		{
			name:      "zero max log size",
			modify:    func(c *Config) { c.MaxLogSize = 0 },
			wantError: "max_log_size must be positive",
		},
		{
			name:      "negative retention",
			modify:    func(c *Config) { c.MaxSaveDays = -1 },
			wantError: "retention settings cannot be negative",
		},
		{
			name:      "zero flush interval",
			modify:    func(c *Config) { c.FlushIntervalS = 0 },
			wantError: "flush_interval_s must be positive",
		},
		{
			name:      "zero exception size",
			modify:    func(c *Config) { c.ExceptionMaxSize = 0 },
			wantError: "exception_max_size must be positive",
		},
		{
			name:      "unknown sanitize policy",
			modify:    func(c *Config) { c.SanitizePolicy = "html" },
			wantError: "invalid sanitize_policy",
		},
		{
			name:      "raw sanitize policy",
			modify:    func(c *Config) { c.SanitizePolicy = "raw" },
			wantError: "",
		},
		{
			name: "floor above cap",
			modify: func(c *Config) {
				c.MaxLogSize = 100
				c.MaxTotalSize = 300
				c.MinFileNums = 4
			},
			wantError: "min_file_nums (4) cannot be greater",
		},
		{
			name: "floor equal to cap",
			modify: func(c *Config) {
				c.MaxLogSize = 100
				c.MaxTotalSize = 300
				c.MinFileNums = 3
			},
			wantError: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantError == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
			}
		})
	}
}

func TestApplyOverride(t *testing.T) {
	t.Run("valid overrides", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyOverride(
			"directory=/var/log/app",
			"level=detail",
			"module=api",
			"max_log_size=4096",
			"max_total_size=40960",
			"lazy_flush=true",
			"sanitize=false",
			"sanitize_policy=folded",
		)
		require.NoError(t, err)

		assert.Equal(t, "/var/log/app", cfg.Directory)
		assert.Equal(t, int64(LevelDetail), cfg.Level)
		assert.Equal(t, "api", cfg.Module)
		assert.Equal(t, int64(4096), cfg.MaxLogSize)
		assert.Equal(t, int64(10), cfg.MaxFileNums())
		assert.True(t, cfg.LazyFlush)
		assert.False(t, cfg.Sanitize)
		assert.Equal(t, "folded", cfg.SanitizePolicy)
	})

	t.Run("numeric level", func(t *testing.T) {
		cfg := DefaultConfig()
		require.NoError(t, cfg.ApplyOverride("level=0"))
		assert.Equal(t, int64(LevelDebug), cfg.Level)
	})

	t.Run("errors are aggregated and config untouched", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyOverride("bogus=1", "max_log_size=abc", "novalue")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple configuration errors")
		assert.Contains(t, err.Error(), "unknown configuration key 'bogus'")
		assert.Contains(t, err.Error(), "invalid integer value for max_log_size")
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("validation failure leaves config untouched", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyOverride("max_log_size=1", "min_file_nums=100", "max_total_size=10")
		require.Error(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})
}

func TestNewConfigFromDefaults(t *testing.T) {
	cfg, err := NewConfigFromDefaults(map[string]any{
		"directory":    "/tmp/rec",
		"max_log_size": 2048,
		"lazy_flush":   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/rec", cfg.Directory)
	assert.Equal(t, int64(2048), cfg.MaxLogSize)
	assert.True(t, cfg.LazyFlush)

	_, err = NewConfigFromDefaults(map[string]any{"unknown_key": 1})
	assert.Error(t, err)

	_, err = NewConfigFromDefaults(map[string]any{"sanitize": "yes"})
	assert.Error(t, err)
}

func TestNewConfigFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "recorder.toml")
	content := `
[recorder]
level = 0
directory = "/srv/logs"
module = "worker"
max_log_size = 2048
max_total_size = 20480
min_file_nums = 3
lazy_flush = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewConfigFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, int64(LevelDebug), cfg.Level)
	assert.Equal(t, "/srv/logs", cfg.Directory)
	assert.Equal(t, "worker", cfg.Module)
	assert.Equal(t, int64(2048), cfg.MaxLogSize)
	assert.Equal(t, int64(10), cfg.MaxFileNums())
	assert.Equal(t, int64(3), cfg.MinFileNums)
	assert.True(t, cfg.LazyFlush)
	// Untouched keys keep defaults
	assert.Equal(t, int64(10), cfg.MaxSaveDays)
	assert.True(t, cfg.ExclusiveLock)
}

func TestNewConfigFromFileMissing(t *testing.T) {
	cfg, err := NewConfigFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
