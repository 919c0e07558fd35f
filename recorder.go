// FILE: lixenwraith/recorder/recorder.go
package recorder

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/lixenwraith/recorder/sanitizer"
)

// Buffered writer size for the active file
const writeBufferSize = 32 * 1024

// Recorder appends lines to <directory>/<baseName>.log, rotating and pruning
// archives as it goes. All methods are safe for concurrent use.
type Recorder struct {
	mu sync.Mutex // Guards open, rotate, retain, append and commit

	baseName string
	module   string
	level    Level
	cfg      *Config
	now      func() time.Time

	// Active file, owned under mu
	file       *os.File
	writer     *bufio.Writer
	size       int64
	lastWrite  time.Time
	everOpened bool
	closed     bool

	// Size trigger is suppressed until this time after a failed archive
	archiveRetryAt time.Time
	rename         func(oldpath, newpath string) error

	serializer *serializer
	sanitizer  *sanitizer.Sanitizer
	sink       *exceptionSink
	retention  *retentionManager
	flusher    *flushCoordinator
	owner      *ownerHandle
	lock       *flock.Flock

	state State
}

// New creates a recorder for baseName and writes the opening separator line.
// A nil cfg uses DefaultConfig. The recorder must be released with Close.
func New(baseName string, cfg *Config) (*Recorder, error) {
	return newRecorder(baseName, cfg, time.Now)
}

// newRecorder is New with an injectable clock
func newRecorder(baseName string, cfg *Config, now func() time.Time) (*Recorder, error) {
	if err := validateBaseName(baseName); err != nil {
		return nil, err
	}

	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.Clone()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmtErrorf("invalid configuration: %w", err)
	}

	if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
		return nil, fmtErrorf("failed to create log directory '%s': %w", cfg.Directory, err)
	}

	r := &Recorder{
		baseName:   baseName,
		module:     cfg.Module,
		level:      Level(cfg.Level),
		cfg:        cfg,
		now:        now,
		rename:     os.Rename,
		serializer: newSerializer(),
		sanitizer:  sanitizer.New().Policy(sanitizer.PolicyPreset(cfg.SanitizePolicy)),
	}
	if r.module == "" {
		r.module = baseName
	}

	if cfg.ExclusiveLock {
		fl := flock.New(filepath.Join(cfg.Directory, baseName+lockExtension))
		locked, err := fl.TryLock()
		if err != nil {
			return nil, fmtErrorf("failed to lock log target '%s': %w", fl.Path(), err)
		}
		if !locked {
			return nil, fmt.Errorf("%w: %s", ErrTargetLocked, fl.Path())
		}
		r.lock = fl
	}

	r.sink = newExceptionSink(cfg.Directory, cfg.ExceptionMaxSize, now)
	r.retention = newRetentionManager(cfg.Directory, baseName, cfg, r.recordException)
	r.owner = newOwnerHandle(r.commit, r.recordException)
	r.flusher = startFlushCoordinator(r.owner, time.Duration(cfg.FlushIntervalS)*time.Second)

	r.writePlain(separatorLine)

	return r, nil
}

// Write appends message at level. Lines below the configured level are discarded.
// An error is returned only when the log file itself can no longer be written;
// the broken handle is closed first and reopened on the next write.
func (r *Recorder) Write(level Level, message string, withTimestamp bool) error {
	return r.write(LogEntry{Level: level, Module: r.module, Message: message, WithTimestamp: withTimestamp})
}

// Writef formats and appends a timestamped message at level
func (r *Recorder) Writef(level Level, format string, args ...any) error {
	if level < r.level {
		return nil
	}
	return r.Write(level, fmt.Sprintf(format, args...), true)
}

// Log appends a timestamped message under an explicit module label
func (r *Recorder) Log(level Level, module, message string) error {
	return r.write(LogEntry{Level: level, Module: module, Message: message, WithTimestamp: true})
}

// Debug logs a message at debug level
func (r *Recorder) Debug(module, message string) error {
	return r.Log(LevelDebug, module, message)
}

// Detail logs a message at detail level
func (r *Recorder) Detail(module, message string) error {
	return r.Log(LevelDetail, module, message)
}

// Normal logs a message at normal level
func (r *Recorder) Normal(module, message string) error {
	return r.Log(LevelNormal, module, message)
}

// Flush commits buffered output and syncs the active file to disk
func (r *Recorder) Flush() error {
	return r.commit()
}

// RequestFlush asks the flush coordinator to commit at its next tick
func (r *Recorder) RequestFlush() {
	r.flusher.request()
}

// Rotate archives the active file now, regardless of its size
func (r *Recorder) Rotate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	if err := r.ensureOpenLocked(); err != nil {
		return err
	}
	if r.file == nil {
		return nil
	}
	if err := r.archiveLocked(r.now()); err != nil {
		return err
	}
	return r.commitLocked()
}

// Prune applies the retention policy to existing archives and returns the number deleted
func (r *Recorder) Prune() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted, err := r.retention.prune(r.now())
	r.state.TotalDeletions.Add(uint64(deleted))
	return deleted, err
}

// RecordError writes err to the exception file
func (r *Recorder) RecordError(err error) {
	r.recordException(err)
}

// Close writes the closing marker and releases the file, the lock file and the
// flush coordinator. Safe to call more than once.
func (r *Recorder) Close() error {
	if !r.state.Closing.CompareAndSwap(false, true) {
		return nil
	}

	// Coordinator commits take mu, so it is stopped before mu is held
	r.owner.release()
	r.flusher.stop(flushJoinTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()

	var finalErr error
	if r.everOpened {
		if err := r.appendLocked(LogEntry{Level: LevelNormal, Message: closingMarker}); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
	}
	if r.file != nil {
		if err := r.closeFileLocked(); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
	}
	r.closed = true

	if r.lock != nil {
		if err := r.lock.Unlock(); err != nil {
			finalErr = combineErrors(finalErr, fmtErrorf("failed to release lock '%s': %w", r.lock.Path(), err))
		}
	}

	return finalErr
}

// ActivePath returns the full path of the active log file
func (r *Recorder) ActivePath() string {
	return r.activePath()
}

// write filters by level and runs the serialized append
func (r *Recorder) write(entry LogEntry) error {
	if entry.Level < r.level {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		r.state.DroppedLines.Add(1)
		return nil
	}
	return r.appendLocked(entry)
}

// writePlain appends an untimestamped line regardless of level; failures only reach the sink
func (r *Recorder) writePlain(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if err := r.appendLocked(LogEntry{Level: LevelNormal, Message: message}); err != nil {
		r.recordException(err)
	}
}

// appendLocked is the open, rotate, retain, append, commit sequence
func (r *Recorder) appendLocked(entry LogEntry) error {
	now := r.now()
	entry.Time = now
	if r.cfg.Sanitize {
		entry.Message = r.sanitizer.Sanitize(entry.Message)
	}

	if err := r.ensureOpenLocked(); err != nil {
		return err
	}
	if r.file == nil {
		r.state.DroppedLines.Add(1)
		return nil
	}

	if err := r.rotateIfNeededLocked(now); err != nil {
		return err
	}

	if err := r.writeLineLocked(r.serializer.serialize(entry), now); err != nil {
		return err
	}
	r.state.TotalLines.Add(1)

	return r.commitLocked()
}

// commitLocked flushes inline, or hands the commit to the coordinator in lazy mode
func (r *Recorder) commitLocked() error {
	if r.file == nil {
		return nil
	}
	if r.cfg.LazyFlush {
		r.flusher.request()
		return nil
	}
	return r.flushWriterLocked()
}

// ensureOpenLocked opens the active file on demand. A directory that cannot be
// created is recorded and leaves the file closed without an error.
func (r *Recorder) ensureOpenLocked() error {
	if r.file != nil {
		return nil
	}
	if err := os.MkdirAll(r.cfg.Directory, 0755); err != nil {
		r.recordException(errors.Wrapf(err, "create log directory '%s'", r.cfg.Directory))
		return nil
	}
	return r.openLocked()
}

// openLocked opens or creates the active file in append mode
func (r *Recorder) openLocked() error {
	path := r.activePath()
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "open log file '%s'", path)
	}

	r.size = 0
	r.lastWrite = time.Time{}
	if fi, errStat := file.Stat(); errStat == nil {
		r.size = fi.Size()
		if fi.Size() > 0 {
			r.lastWrite = fi.ModTime()
		}
	}

	r.file = file
	r.writer = bufio.NewWriterSize(file, writeBufferSize)
	r.everOpened = true
	return nil
}

// writeLineLocked buffers one serialized line
func (r *Recorder) writeLineLocked(line []byte, now time.Time) error {
	n, err := r.writer.Write(line)
	r.size += int64(n)
	if err != nil {
		r.abandonFileLocked()
		return errors.Wrapf(err, "append to log file '%s'", r.activePath())
	}
	r.lastWrite = now
	return nil
}

// flushWriterLocked pushes buffered lines to the file
func (r *Recorder) flushWriterLocked() error {
	if err := r.writer.Flush(); err != nil {
		r.abandonFileLocked()
		return errors.Wrapf(err, "flush log file '%s'", r.activePath())
	}
	return nil
}

// commit flushes and syncs under the lock; the flush coordinator calls it through the owner handle
func (r *Recorder) commit() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	if err := r.flushWriterLocked(); err != nil {
		return err
	}
	if err := r.file.Sync(); err != nil {
		return errors.Wrapf(err, "sync log file '%s'", r.activePath())
	}
	return nil
}

// closeFileLocked flushes and closes the active file
func (r *Recorder) closeFileLocked() error {
	if r.file == nil {
		return nil
	}

	var finalErr error
	if err := r.writer.Flush(); err != nil {
		finalErr = combineErrors(finalErr, errors.Wrapf(err, "flush log file '%s'", r.file.Name()))
	}
	if err := r.file.Close(); err != nil {
		finalErr = combineErrors(finalErr, errors.Wrapf(err, "close log file '%s'", r.file.Name()))
	}
	r.file = nil
	r.writer = nil
	return finalErr
}

// abandonFileLocked closes a broken handle, discarding whatever it still buffers
func (r *Recorder) abandonFileLocked() {
	if r.file == nil {
		return
	}
	_ = r.file.Close()
	r.file = nil
	r.writer = nil
}

// recordException counts and forwards err to the exception sink
func (r *Recorder) recordException(err error) {
	if err == nil {
		return
	}
	r.state.TotalExceptions.Add(1)
	r.sink.record(err)
}

// marker serializes a bare marker line
func (r *Recorder) marker(message string) []byte {
	return r.serializer.serialize(LogEntry{Message: message})
}

// activePath returns the full path to the active log file
func (r *Recorder) activePath() string {
	return filepath.Join(r.cfg.Directory, r.baseName+logExtension)
}
