// FILE: lixenwraith/recorder/sink_test.go
package recorder

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSink(t *testing.T, maxSize int64) (*exceptionSink, string) {
	t.Helper()
	dir := t.TempDir()
	now, _ := fixedClock(time.Date(2024, 3, 10, 14, 30, 15, 250_000_000, time.Local))
	return newExceptionSink(dir, maxSize, now), dir
}

func TestSinkRecordFormat(t *testing.T) {
	sink, dir := newTestSink(t, 10000)

	sink.record(errors.New("disk on fire"))

	data, err := os.ReadFile(filepath.Join(dir, exceptionFileName))
	require.NoError(t, err)
	content := string(data)

	lines := strings.Split(content, "\n")
	assert.Equal(t, "*** Time: 2024/03/10 14:30:15.250 ***", lines[0])
	assert.Equal(t, "Exception : disk on fire", lines[1])
	assert.Equal(t, "Stack Trace:", lines[2])
	assert.Contains(t, content, "TestSinkRecordFormat")
	assert.NotContains(t, content, "Context:")
	assert.True(t, strings.HasSuffix(content, exceptionSeparator+"\n"))
}

func TestSinkCapturesRecordSiteStack(t *testing.T) {
	sink, dir := newTestSink(t, 10000)

	sink.record(fmt.Errorf("plain failure"))

	data, err := os.ReadFile(filepath.Join(dir, exceptionFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Exception : plain failure")
	assert.Contains(t, string(data), "exceptionSink")
}

func TestSinkDumpsContext(t *testing.T) {
	sink, dir := newTestSink(t, 10000)

	_, openErr := os.Open(filepath.Join(dir, "missing"))
	sink.record(errors.Wrap(openErr, "load state"))

	data, err := os.ReadFile(filepath.Join(dir, exceptionFileName))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Exception : load state: open ")
	assert.Contains(t, content, "Context:")
	assert.Contains(t, content, "PathError")
	assert.Contains(t, content, "missing")
}

func TestSinkSkipsContextForPlainWrapping(t *testing.T) {
	sink, dir := newTestSink(t, 10000)

	sink.record(fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", stderrors.New("base"))))

	data, err := os.ReadFile(filepath.Join(dir, exceptionFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Exception : outer: inner: base")
	assert.NotContains(t, string(data), "Context:")
}

func TestSinkDumpsContextThroughStdWrapping(t *testing.T) {
	sink, dir := newTestSink(t, 10000)

	_, openErr := os.Open(filepath.Join(dir, "absent"))
	sink.record(fmt.Errorf("restore: %w", openErr))

	data, err := os.ReadFile(filepath.Join(dir, exceptionFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Context:")
	assert.Contains(t, string(data), "PathError")
}

type codedError struct {
	Code int
}

func (e *codedError) Error() string { return fmt.Sprintf("code %d", e.Code) }

func TestHasContext(t *testing.T) {
	_, openErr := os.Open(filepath.Join(t.TempDir(), "absent"))

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"std errors.New", stderrors.New("plain"), false},
		{"fmt wrap", fmt.Errorf("w: %w", stderrors.New("plain")), false},
		{"fmt multi wrap", fmt.Errorf("%w + %w", stderrors.New("a"), stderrors.New("b")), false},
		{"join", stderrors.Join(stderrors.New("a"), stderrors.New("b")), false},
		{"pkg errors new", errors.New("stacked"), false},
		{"pkg errors message", errors.WithMessage(stderrors.New("a"), "b"), false},
		{"sentinel", os.ErrNotExist, false},
		{"path error", openErr, true},
		{"custom fields", &codedError{Code: 7}, true},
		{"nil pointer", (*codedError)(nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasContext(tt.err))
		})
	}
}

func TestSinkAppendsBlocks(t *testing.T) {
	sink, dir := newTestSink(t, 10000)

	sink.record(errors.New("one"))
	sink.record(errors.New("two"))

	data, err := os.ReadFile(filepath.Join(dir, exceptionFileName))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "*** Time:"))
	assert.Equal(t, 2, strings.Count(string(data), exceptionSeparator))
}

func TestSinkTruncatesLargeFile(t *testing.T) {
	sink, dir := newTestSink(t, 10000)
	path := filepath.Join(dir, exceptionFileName)

	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("o", 10050)), 0644))
	sink.record(errors.New("fresh"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Less(t, len(data), 10050)
	assert.True(t, strings.HasPrefix(string(data), "*** Time:"))
	assert.Equal(t, 1, strings.Count(string(data), "*** Time:"))
}

func TestSinkKeepsFileAtThreshold(t *testing.T) {
	sink, dir := newTestSink(t, 10000)
	path := filepath.Join(dir, exceptionFileName)

	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("o", 10000)), 0644))
	sink.record(errors.New("appended"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Greater(t, len(data), 10000)
	assert.True(t, strings.HasPrefix(string(data), "oooo"))
}

func TestSinkSwallowsFailures(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	sink := newExceptionSink(filepath.Join(blocker, "logs"), 10000, time.Now)
	assert.NotPanics(t, func() {
		sink.record(errors.New("nowhere to go"))
		sink.record(nil)
	})
	assert.NoFileExists(t, filepath.Join(blocker, "logs", exceptionFileName))
}

func TestFindStack(t *testing.T) {
	_, ok := findStack(fmt.Errorf("no stack"))
	assert.False(t, ok)

	inner := errors.New("inner")
	outer := errors.Wrap(inner, "outer")
	st, ok := findStack(fmt.Errorf("std wrap: %w", outer))
	require.True(t, ok)

	innerStack, _ := findStack(inner)
	assert.Equal(t, fmt.Sprintf("%+v", innerStack), fmt.Sprintf("%+v", st))
}
