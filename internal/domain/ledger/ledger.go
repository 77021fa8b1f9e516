// internal/domain/ledger/ledger.go
package ledger

import "context"

// DateLayout is the calendar-date form stored per account. Eligibility
// compares these strings for exact equality, nothing smarter: at most one
// notification per account per calendar day, however often the job runs.
const DateLayout = "2006-01-02"

// Entries maps an account identifier to the last calendar date a
// notification was sent to it. At most one entry per identifier.
type Entries map[string]string

// Store persists the full ledger. Load returns an empty mapping when no
// prior state exists and fails only on malformed data; Save replaces any
// prior content wholesale and is called exactly once, at end of run.
type Store interface {
	Load(ctx context.Context) (Entries, error)
	Save(ctx context.Context, entries Entries) error
}

// Ledger is the in-memory notification ledger for one run. It is mutated
// only by the single processing goroutine; no locking.
type Ledger struct {
	entries Entries
}

func New(entries Entries) *Ledger {
	if entries == nil {
		entries = make(Entries)
	}
	return &Ledger{entries: entries}
}

// Eligible reports whether accountID may be notified on today's date:
// true when the account has no entry, or its entry is a different date.
func (l *Ledger) Eligible(accountID, today string) bool {
	last, ok := l.entries[accountID]
	return !ok || last != today
}

// MarkNotified upserts the entry for accountID. In-memory only until the
// store persists the run.
func (l *Ledger) MarkNotified(accountID, today string) {
	l.entries[accountID] = today
}

// Entries exposes the backing mapping for persistence.
func (l *Ledger) Entries() Entries {
	return l.entries
}

// Len returns the number of accounts with a recorded notification date.
func (l *Ledger) Len() int {
	return len(l.entries)
}
