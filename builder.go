// FILE: lixenwraith/recorder/builder.go
package recorder

// Builder provides a fluent API for building recorder configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Config returns a copy of the configuration built so far.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.cfg.Clone(), nil
}

// Build creates a new Recorder writing to <Directory>/<baseName>.log.
func (b *Builder) Build(baseName string) (*Recorder, error) {
	if b.err != nil {
		return nil, b.err
	}
	return New(baseName, b.cfg)
}

// Level sets the minimum level.
func (b *Builder) Level(level Level) *Builder {
	b.cfg.Level = int64(level)
	return b
}

// LevelString sets the minimum level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := ParseLevel(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = int64(levelVal)
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// Module sets the label of timestamped lines.
func (b *Builder) Module(module string) *Builder {
	b.cfg.Module = module
	return b
}

// MaxLogSize sets the rotation threshold in bytes.
func (b *Builder) MaxLogSize(size int64) *Builder {
	b.cfg.MaxLogSize = size
	return b
}

// MaxTotalSize sets the archive budget in bytes.
func (b *Builder) MaxTotalSize(size int64) *Builder {
	b.cfg.MaxTotalSize = size
	return b
}

// MaxSaveDays sets the archive age limit. Zero disables age pruning.
func (b *Builder) MaxSaveDays(days int64) *Builder {
	b.cfg.MaxSaveDays = days
	return b
}

// MinFileNums sets the number of archives that are never pruned.
func (b *Builder) MinFileNums(n int64) *Builder {
	b.cfg.MinFileNums = n
	return b
}

// FlushIntervalS sets the flush coordinator interval.
func (b *Builder) FlushIntervalS(interval int64) *Builder {
	b.cfg.FlushIntervalS = interval
	return b
}

// LazyFlush defers commits to the flush coordinator.
func (b *Builder) LazyFlush(enable bool) *Builder {
	b.cfg.LazyFlush = enable
	return b
}

// Sanitize toggles message sanitization.
func (b *Builder) Sanitize(enable bool) *Builder {
	b.cfg.Sanitize = enable
	return b
}

// SanitizePolicy selects how messages are sanitized: txt, folded or raw.
func (b *Builder) SanitizePolicy(policy string) *Builder {
	b.cfg.SanitizePolicy = policy
	return b
}

// ExclusiveLock toggles the advisory lock file.
func (b *Builder) ExclusiveLock(enable bool) *Builder {
	b.cfg.ExclusiveLock = enable
	return b
}

// Example usage:
// rec, err := recorder.NewBuilder().
//
//	Directory("/var/log/app").
//	LevelString("detail").
//	MaxLogSize(4 << 20).
//	MaxSaveDays(30).
//	Build("service")
//
// if err == nil {
//
//	 defer rec.Close()
//	 rec.Normal("main", "recorder initialized")
//
// }
