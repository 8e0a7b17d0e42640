package runtime

import (
	"sync"
	"sync/atomic"
)

// runTracker counts in-flight requests so Close can drain them before the
// shared pool goes away.
type runTracker struct {
	started atomic.Uint64

	mu     sync.Mutex
	active int
	closed bool
	wg     sync.WaitGroup
}

func newRunTracker() *runTracker {
	return &runTracker{}
}

func (t *runTracker) begin() (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}
	t.active++
	t.wg.Add(1)
	t.started.Add(1)

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			t.active--
			t.mu.Unlock()
			t.wg.Done()
		})
	}, nil
}

// close reports whether this call closed the tracker.
func (t *runTracker) close() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	t.closed = true
	return true
}

func (t *runTracker) wait() {
	t.wg.Wait()
}

func (t *runTracker) inFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *runTracker) total() uint64 {
	return t.started.Load()
}
