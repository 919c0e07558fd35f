// FILE: lixenwraith/recorder/sink.go
package recorder

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

// exceptionSink appends the recorder's own failures to a dedicated file.
// Nothing in here returns an error or panics to the caller.
type exceptionSink struct {
	mu      sync.Mutex
	dir     string
	maxSize int64
	now     func() time.Time
	dumper  *spew.ConfigState
}

// newExceptionSink creates a sink writing to <dir>/Recorder_Exception.log
func newExceptionSink(dir string, maxSize int64, now func() time.Time) *exceptionSink {
	return &exceptionSink{
		dir:     dir,
		maxSize: maxSize,
		now:     now,
		dumper: &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                4,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		},
	}
}

// path returns the full path of the exception file
func (s *exceptionSink) path() string {
	return filepath.Join(s.dir, exceptionFileName)
}

// record writes one exception block, recreating the file first if it grew past maxSize
func (s *exceptionSink) record(err error) {
	if err == nil {
		return
	}

	defer func() {
		_ = recover() // The sink is the last line of defense
	}()

	// Capture the record site when the error carries no stack of its own
	st, ok := findStack(err)
	if !ok {
		st, _ = findStack(errors.WithStack(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if mkErr := os.MkdirAll(s.dir, 0755); mkErr != nil {
		return
	}

	flags := os.O_APPEND | os.O_CREATE | os.O_WRONLY
	if fi, statErr := os.Stat(s.path()); statErr == nil && fi.Size() > s.maxSize {
		flags = os.O_TRUNC | os.O_CREATE | os.O_WRONLY
	}

	file, openErr := os.OpenFile(s.path(), flags, 0644)
	if openErr != nil {
		return
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "*** Time: %s ***\n", s.now().Format(exceptionTimeLayout))
	fmt.Fprintf(w, "Exception : %s\n", err.Error())
	fmt.Fprintln(w, "Stack Trace:")
	fmt.Fprintf(w, "%s\n", strings.TrimLeft(fmt.Sprintf("%+v", st), "\n"))
	if dump := s.context(err); dump != "" {
		fmt.Fprintln(w, "Context:")
		fmt.Fprintln(w, dump)
	}
	fmt.Fprintln(w, exceptionSeparator)
	_ = w.Flush()
}

// context dumps the innermost error in the chain that holds more than a message
func (s *exceptionSink) context(err error) string {
	var target error
	for e := err; e != nil; e = errors.Unwrap(e) {
		if hasContext(e) {
			target = e
		}
	}
	if target == nil {
		return ""
	}
	return strings.TrimSpace(s.dumper.Sdump(target))
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// hasContext reports whether err carries fields beyond its message and wrapped error.
// Stack-carrying errors are printed through the stack trace instead.
func hasContext(err error) bool {
	if _, ok := err.(stackTracer); ok {
		return false
	}

	v := reflect.ValueOf(err)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return false
	}

	fields := 0
	for i := 0; i < v.NumField(); i++ {
		ft := v.Type().Field(i).Type
		if ft == errorType || (ft.Kind() == reflect.Slice && ft.Elem() == errorType) {
			continue
		}
		if ft.Kind() != reflect.String {
			return true
		}
		fields++
	}
	return fields > 1
}
