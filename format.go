// FILE: lixenwraith/recorder/format.go
package recorder

import (
	"time"
)

// LogEntry is one write request; only its serialized line is persisted
type LogEntry struct {
	Level         Level
	Module        string
	Message       string
	Time          time.Time
	WithTimestamp bool
}

// serializer renders entries into lines, reusing its buffer between calls.
// Callers hold the recorder lock.
type serializer struct {
	buf []byte
}

// newSerializer creates a serializer instance.
func newSerializer() *serializer {
	return &serializer{
		buf: make([]byte, 0, 512),
	}
}

// serialize renders "[15:04:05.000] <module> : <message>\n" or "<message>\n"
func (s *serializer) serialize(entry LogEntry) []byte {
	s.buf = s.buf[:0]

	if entry.WithTimestamp {
		s.buf = append(s.buf, '[')
		s.buf = entry.Time.AppendFormat(s.buf, lineTimeLayout)
		s.buf = append(s.buf, "] "...)
		s.buf = append(s.buf, entry.Module...)
		s.buf = append(s.buf, " : "...)
	}
	s.buf = append(s.buf, entry.Message...)
	s.buf = append(s.buf, '\n')

	return s.buf
}
