// FILE: lixenwraith/recorder/compat/gnet.go
package compat

import (
	"fmt"
	"os"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/recorder"
)

// gnetModule labels lines written through the gnet adapter
const gnetModule = "gnet"

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter wraps recorder.Recorder to implement gnet logging.Logger interface.
// gnet's five levels fold onto the recorder's three: debug, info to detail,
// warn and above to normal.
type GnetAdapter struct {
	rec          *recorder.Recorder
	module       string
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(rec *recorder.Recorder, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		rec:    rec,
		module: gnetModule,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithGnetModule overrides the module label
func WithGnetModule(module string) GnetOption {
	return func(a *GnetAdapter) {
		a.module = module
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	_ = a.rec.Debug(a.module, fmt.Sprintf(format, args...))
}

// Infof logs at detail level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	_ = a.rec.Detail(a.module, fmt.Sprintf(format, args...))
}

// Warnf logs at normal level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	_ = a.rec.Normal(a.module, "WARN "+fmt.Sprintf(format, args...))
}

// Errorf logs at normal level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	_ = a.rec.Normal(a.module, "ERROR "+fmt.Sprintf(format, args...))
}

// Fatalf logs at normal level and triggers fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_ = a.rec.Normal(a.module, "FATAL "+msg)

	// Ensure log is on disk before exit
	_ = a.rec.Flush()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
