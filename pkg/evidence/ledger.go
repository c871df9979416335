package evidence

import (
	"errors"
	"strings"
)

// DefaultCapacity is the maximum number of records a session may collect.
const DefaultCapacity = 20

var (
	// ErrLedgerFull is returned by Append once the ledger is at capacity.
	ErrLedgerFull = errors.New("evidence ledger is at capacity")

	// ErrDuplicateMarker is returned by Append when the record's marker is
	// already present. The Guard normally rejects such proposals first;
	// the ledger refuses them regardless so the uniqueness invariant holds.
	ErrDuplicateMarker = errors.New("marker already present in ledger")

	// ErrDuplicateName is returned by Append when the record's name is
	// already present (case-insensitive).
	ErrDuplicateName = errors.New("name already present in ledger")
)

// Ledger is the ordered, append-only collection of accepted evidence for one
// play session. It is not safe for concurrent use; a session processes one
// action at a time by construction.
type Ledger struct {
	capacity   int
	categories CategoryMap
	records    []Record
}

// NewLedger creates an empty ledger. A capacity <= 0 falls back to
// DefaultCapacity, a nil category map to DefaultCategories.
func NewLedger(capacity int, categories CategoryMap) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if categories == nil {
		categories = DefaultCategories()
	}
	return &Ledger{
		capacity:   capacity,
		categories: categories,
		records:    make([]Record, 0, capacity),
	}
}

// NewLedgerFrom rebuilds a ledger from previously accepted records, e.g.
// after loading session state from storage. Records are trusted to have
// passed the Guard when they were first accepted.
func NewLedgerFrom(capacity int, categories CategoryMap, records []Record) *Ledger {
	l := NewLedger(capacity, categories)
	l.records = append(l.records, records...)
	return l
}

// Append adds a record to the end of the ledger, preserving insertion order.
func (l *Ledger) Append(r Record) error {
	if len(l.records) >= l.capacity {
		return ErrLedgerFull
	}
	if l.ContainsMarker(r.Marker) {
		return ErrDuplicateMarker
	}
	if l.ContainsName(r.Name) {
		return ErrDuplicateName
	}
	l.records = append(l.records, r)
	return nil
}

// Size returns the number of accepted records.
func (l *Ledger) Size() int {
	return len(l.records)
}

// Capacity returns the maximum number of records the ledger will hold.
func (l *Ledger) Capacity() int {
	return l.capacity
}

// ContainsMarker reports whether any accepted record uses the marker.
func (l *Ledger) ContainsMarker(marker string) bool {
	for _, r := range l.records {
		if r.Marker == marker {
			return true
		}
	}
	return false
}

// ContainsName reports whether any accepted record has the name,
// case-insensitively.
func (l *Ledger) ContainsName(name string) bool {
	for _, r := range l.records {
		if strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}

// Categories returns the set of semantic categories already represented.
func (l *Ledger) Categories() map[string]bool {
	present := make(map[string]bool, len(l.records))
	for _, r := range l.records {
		present[l.categories.Category(r.Marker)] = true
	}
	return present
}

// Records returns a copy of the accepted records in insertion order.
func (l *Ledger) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Reset clears all records. Called when a new case session begins, never
// mid-session.
func (l *Ledger) Reset() {
	l.records = l.records[:0]
}
