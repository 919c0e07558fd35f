// FILE: lixenwraith/recorder/constant.go
package recorder

import (
	"time"
)

// Level is the severity of a record, compared against the static threshold
type Level int64

// Log level constants
const (
	LevelDebug  Level = 0
	LevelDetail Level = 1
	LevelNormal Level = 2
)

// File naming
const (
	logExtension      = ".log"
	lockExtension     = ".lock"
	exceptionFileName = "Recorder_Exception.log"

	archiveDateLayout = "20060102"
	archiveTimeLayout = "1504"
)

// Line layouts and markers
const (
	lineTimeLayout      = "15:04:05.000"
	exceptionTimeLayout = "2006/01/02 15:04:05.000"
	markerDateLayout    = "2006-01-02"

	separatorLine      = "-------------------------------"
	closingMarker      = "Logging Closed"
	archivedMarker     = "Log archived"
	continuationMarker = "Continued from %s"
	dateMarker         = "===== %s ====="

	exceptionSeparator = "--------------------------------------------------------------------"
)

// Timers
const (
	// Bounded join on coordinator teardown
	flushJoinTimeout = time.Second

	// Wait before a failed archive is attempted again
	archiveRetryInterval = time.Minute
)

// String returns the lower-case level name
func (lv Level) String() string {
	switch lv {
	case LevelDebug:
		return "debug"
	case LevelDetail:
		return "detail"
	case LevelNormal:
		return "normal"
	default:
		return "unknown"
	}
}
