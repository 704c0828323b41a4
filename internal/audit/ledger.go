package audit

import "github.com/solatis/degreeaudit/internal/types"

// Reservation is one committed (course, matched-parts) pairing.
// Keyed on the course's stable ID so set membership stays comparable
// even though CourseInstance itself carries slices.
type Reservation struct {
	CourseID string
	Parts    MatchedParts
}

// Ledger records which (course, parts) pairings completed rule
// evaluations have already consumed in the current audit pass.
// Owned exclusively by one audit invocation; pairings are never removed
// within a pass. Not safe for concurrent use: the walk is sequential,
// and parallel audits each get their own ledger.
type Ledger struct {
	reserved map[Reservation]struct{}
	order    []Reservation // insertion order, for stable reporting
}

// NewLedger returns an empty reservation ledger.
func NewLedger() *Ledger {
	return &Ledger{reserved: make(map[Reservation]struct{})}
}

// Contains reports whether the pairing is already reserved.
func (l *Ledger) Contains(c types.CourseInstance, parts MatchedParts) bool {
	_, ok := l.reserved[Reservation{CourseID: c.ID, Parts: parts}]
	return ok
}

// Add commits a pairing. Returns false without modification when the
// pairing is already present, so duplicate commits are structurally
// impossible rather than merely discouraged.
func (l *Ledger) Add(c types.CourseInstance, parts MatchedParts) bool {
	res := Reservation{CourseID: c.ID, Parts: parts}
	if _, ok := l.reserved[res]; ok {
		return false
	}
	l.reserved[res] = struct{}{}
	l.order = append(l.order, res)
	return true
}

// Len returns the number of committed pairings.
func (l *Ledger) Len() int {
	return len(l.reserved)
}

// Reservations returns the committed pairings in insertion order.
// The returned slice is a copy.
func (l *Ledger) Reservations() []Reservation {
	out := make([]Reservation, len(l.order))
	copy(out, l.order)
	return out
}
