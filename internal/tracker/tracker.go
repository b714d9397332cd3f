package tracker

import (
	"sync"
	"time"
)

// Tracker remembers the signature committed at the last successful
// backup. It is read on every tick and written only by the scheduler
// once a cycle's writes have all reported, so a plain mutex suffices.
type Tracker struct {
	mu         sync.RWMutex
	last       Signature
	lastBackup time.Time

	watchFolder string
}

func New(watchFolder string) *Tracker {
	return &Tracker{watchFolder: watchFolder}
}

// Check computes the current signature of the watched folder and
// reports whether it differs from the committed one. An empty committed
// signature (first run) always counts as changed.
func (t *Tracker) Check() (Signature, bool, error) {
	cur, err := ComputeSignature(t.watchFolder)
	if err != nil {
		return Signature{}, false, err
	}

	t.mu.RLock()
	last := t.last
	t.mu.RUnlock()

	if last.Zero() {
		return cur, true, nil
	}
	return cur, !cur.Equal(last), nil
}

// Commit records sig as the state captured by a successful backup at
// the given time. Ticks seeing an identical tree afterwards are no-ops.
func (t *Tracker) Commit(sig Signature, at time.Time) {
	t.mu.Lock()
	t.last = sig
	t.lastBackup = at
	t.mu.Unlock()
}

// LastBackup returns the time of the last committed backup, zero if
// none happened yet in this process.
func (t *Tracker) LastBackup() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastBackup
}
