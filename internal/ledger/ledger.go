package ledger

import (
	"sync"

	"specweaver/internal/document"
)

// Payload is the diagram-specific part of an entry. Producers define their own
// variants; the ledger never inspects them.
type Payload interface {
	// Diagram returns the kind of diagram whose extractor produced the payload.
	Diagram() document.DiagramKind
}

// Entry is one deferred reference.
type Entry struct {
	Diagram document.DiagramKind
	// Owner is the FQN of the entity holding the unresolved reference.
	Owner   string
	Payload Payload
}

// NewEntry builds an entry tagged with the payload's diagram kind.
func NewEntry(owner string, p Payload) Entry {
	return Entry{Diagram: p.Diagram(), Owner: owner, Payload: p}
}

// Ledger is a FIFO of deferred entries. Safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	entries []Entry
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{}
}

// Enqueue appends an entry.
func (l *Ledger) Enqueue(e Entry) {
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
}

// Drain returns every entry in enqueue order and empties the ledger.
func (l *Ledger) Drain() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := l.entries
	l.entries = nil

	return out
}

// Count returns the number of pending entries.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}

// Clear drops every pending entry.
func (l *Ledger) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
