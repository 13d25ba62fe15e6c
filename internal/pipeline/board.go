package pipeline

import "sync"

// Board holds the newest accepted result. Older generations never overwrite it.
type Board struct {
	mu       sync.RWMutex
	snapshot Result
	has      bool
	started  uint64
	settled  uint64
	lastErr  error
}

// NewBoard returns an empty board.
func NewBoard() *Board { return &Board{} }

func (b *Board) begin(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen > b.started {
		b.started = gen
	}
}

// publish settles gen. It reports false when a newer generation has started,
// in which case nothing changes.
func (b *Board) publish(gen uint64, res Result, err error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.started {
		return false
	}
	b.settled = gen
	if err != nil {
		b.lastErr = err
		return true
	}
	b.snapshot = res
	b.has = true
	b.lastErr = nil
	return true
}

// Snapshot returns the last accepted result and whether one exists.
func (b *Board) Snapshot() (Result, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot, b.has
}

// Loading reports whether the newest generation is still running.
func (b *Board) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.settled < b.started
}

// LastError returns the newest generation's error, nil after a success.
func (b *Board) LastError() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}
