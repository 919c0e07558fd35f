// FILE: lixenwraith/recorder/errors.go
package recorder

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidBaseName is returned by New for empty or path-like base names
	ErrInvalidBaseName = errors.New("recorder: invalid base name")

	// ErrTargetLocked is returned by New when another recorder owns the log target
	ErrTargetLocked = errors.New("recorder: log target is locked by another owner")
)

// stackTracer is implemented by errors created or wrapped with github.com/pkg/errors
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// findStack returns the innermost recorded stack trace of err, if any
func findStack(err error) (errors.StackTrace, bool) {
	var st errors.StackTrace
	found := false
	for err != nil {
		if tracer, ok := err.(stackTracer); ok {
			st = tracer.StackTrace()
			found = true
		}
		err = errors.Unwrap(err)
	}
	return st, found
}
