// FILE: lixenwraith/recorder/flush.go
package recorder

import (
	"sync"
	"sync/atomic"
	"time"
)

// ownerHandle is the coordinator's only link to its recorder. The recorder clears
// alive on teardown; the coordinator checks it before every commit.
type ownerHandle struct {
	alive  atomic.Bool
	commit func() error
	report func(error)
}

// newOwnerHandle creates a live handle
func newOwnerHandle(commit func() error, report func(error)) *ownerHandle {
	h := &ownerHandle{commit: commit, report: report}
	h.alive.Store(true)
	return h
}

// release marks the owner as gone
func (h *ownerHandle) release() {
	h.alive.Store(false)
}

// flushCoordinator commits buffered output in the background
type flushCoordinator struct {
	owner    *ownerHandle
	interval time.Duration

	requestChan chan struct{} // Explicit flush requests, capacity 1
	stopChan    chan struct{} // Closed once on shutdown
	exited      chan struct{} // Closed when the loop returns
	stopOnce    sync.Once

	commits atomic.Uint64
}

// startFlushCoordinator launches the coordinator loop
func startFlushCoordinator(owner *ownerHandle, interval time.Duration) *flushCoordinator {
	if interval <= 0 {
		interval = time.Duration(DefaultConfig().FlushIntervalS) * time.Second
	}
	fc := &flushCoordinator{
		owner:       owner,
		interval:    interval,
		requestChan: make(chan struct{}, 1),
		stopChan:    make(chan struct{}),
		exited:      make(chan struct{}),
	}
	go fc.run()
	return fc
}

// request signals that buffered output is waiting. Never blocks.
func (fc *flushCoordinator) request() {
	select {
	case fc.requestChan <- struct{}{}:
	default:
		// A request is already queued
	}
}

// run is the coordinator loop
func (fc *flushCoordinator) run() {
	defer close(fc.exited)

	ticker := time.NewTicker(fc.interval)
	defer ticker.Stop()

	pending := false
	for {
		select {
		case <-fc.requestChan:
			pending = true

		case <-fc.stopChan:
			return

		case <-ticker.C:
			if !fc.owner.alive.Load() {
				return
			}
			if !pending {
				continue
			}
			pending = false
			if err := fc.owner.commit(); err != nil {
				fc.owner.report(err)
				continue
			}
			fc.commits.Add(1)
		}
	}
}

// stop signals shutdown and waits up to timeout for the loop to exit.
// A loop that does not exit in time is left behind.
func (fc *flushCoordinator) stop(timeout time.Duration) bool {
	fc.stopOnce.Do(func() {
		close(fc.stopChan)
	})

	select {
	case <-fc.exited:
		return true
	case <-time.After(timeout):
		return false
	}
}
