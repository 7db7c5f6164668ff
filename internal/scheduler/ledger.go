package scheduler

import (
	"fmt"
	"sync"
	"time"
)

// FiredLedger tracks which (reminder, slot, calendar day) triples have
// already been dispatched by one evaluator instance. Entries are never
// persisted: the client poller keeps one ledger for the life of the session
// and the server sweep opens a fresh one per invocation.
type FiredLedger struct {
	mu         sync.Mutex
	maxEntries int
	fired      map[string]struct{}
}

// NewFiredLedger creates an empty ledger. When maxEntries is positive the
// ledger is cleared wholesale once it grows past that bound; a bound far
// above one day's trigger count keeps the re-fire risk of a clear cosmetic.
// maxEntries <= 0 means unbounded (used by the per-invocation sweep ledger).
func NewFiredLedger(maxEntries int) *FiredLedger {
	return &FiredLedger{
		maxEntries: maxEntries,
		fired:      make(map[string]struct{}),
	}
}

func ledgerKey(reminderID, slot string, day time.Time) string {
	return fmt.Sprintf("%s|%s|%s", reminderID, slot, day.Format("2006-01-02"))
}

// HasFired reports whether the slot was already dispatched on the given day
func (l *FiredLedger) HasFired(reminderID, slot string, day time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.fired[ledgerKey(reminderID, slot, day)]
	return ok
}

// MarkFired records a dispatched slot, clearing the ledger first if it has
// outgrown its bound
func (l *FiredLedger) MarkFired(reminderID, slot string, day time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.maxEntries > 0 && len(l.fired) >= l.maxEntries {
		l.fired = make(map[string]struct{})
	}
	l.fired[ledgerKey(reminderID, slot, day)] = struct{}{}
}

// Len returns the number of recorded entries
func (l *FiredLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fired)
}
