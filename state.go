// FILE: state.go
package recorder

import (
	"sync/atomic"
)

// State encapsulates the runtime counters of the recorder
type State struct {
	Closing atomic.Bool // Set once by Close

	TotalLines      atomic.Uint64 // Write-path lines plus separator and closing marker; rotation markers are not counted
	TotalRotations  atomic.Uint64 // Successful archive renames
	TotalDeletions  atomic.Uint64 // Archives removed by retention
	DroppedLines    atomic.Uint64 // Writes discarded after self-inflicted failures or Close
	TotalExceptions atomic.Uint64 // Records sent to the exception sink
}

// Stats is a point-in-time copy of the recorder counters
type Stats struct {
	Lines       uint64
	Rotations   uint64
	Deletions   uint64
	Dropped     uint64
	Exceptions  uint64
	Commits     uint64 // Background commits by the flush coordinator
	CurrentSize int64  // Bytes in the active file, buffered output included
}

// Stats returns a snapshot of the recorder counters
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	size := r.size
	r.mu.Unlock()

	return Stats{
		Lines:       r.state.TotalLines.Load(),
		Rotations:   r.state.TotalRotations.Load(),
		Deletions:   r.state.TotalDeletions.Load(),
		Dropped:     r.state.DroppedLines.Load(),
		Exceptions:  r.state.TotalExceptions.Load(),
		Commits:     r.flusher.commits.Load(),
		CurrentSize: size,
	}
}
