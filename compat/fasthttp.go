// FILE: lixenwraith/recorder/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/recorder"
)

// fasthttpModule labels lines written through the fasthttp adapter
const fasthttpModule = "fasthttp"

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter wraps recorder.Recorder to implement fasthttp Logger interface
type FastHTTPAdapter struct {
	rec           *recorder.Recorder
	defaultLevel  recorder.Level
	levelDetector func(string) recorder.Level // Function to detect level from message
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(rec *recorder.Recorder, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		rec:           rec,
		defaultLevel:  recorder.LevelDetail,
		levelDetector: DetectLogLevel, // Default level detection
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when no detector is set
func WithDefaultLevel(level recorder.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect level from message content
func WithLevelDetector(detector func(string) recorder.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		level = a.levelDetector(msg)
	}

	_ = a.rec.Log(level, fasthttpModule, msg)
}

// DetectLogLevel attempts to detect level from message content
func DetectLogLevel(msg string) recorder.Level {
	msgLower := strings.ToLower(msg)

	// Errors and warnings
	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") ||
		strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return recorder.LevelNormal
	}

	if strings.Contains(msgLower, "debug") ||
		strings.Contains(msgLower, "trace") {
		return recorder.LevelDebug
	}

	return recorder.LevelDetail
}
