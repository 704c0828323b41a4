package rule

import (
	"fmt"

	"github.com/solatis/degreeaudit/internal/types"
)

// CounterKind selects the aggregation mode of a count-of rule.
type CounterKind int

const (
	CounterAll CounterKind = iota
	CounterAny
	CounterNumber
)

// Counter is the all/any/exactly-N aggregation semantics for a list of
// child rules. N is meaningful only for CounterNumber.
type Counter struct {
	Kind CounterKind
	N    int
}

// Surplus controls whether courses left unconsumed after a count-of
// rule's threshold is satisfied remain available to later rules.
// An enum rather than a boolean to leave room for future policies.
type Surplus int

const (
	// SurplusIgnore stops evaluating children once the counter is
	// satisfied; later children's courses stay reservable.
	SurplusIgnore Surplus = iota
	// SurplusReserve evaluates every child regardless, consuming their
	// matches even beyond the threshold.
	SurplusReserve
)

// CountOfRule composes a list of child rules under all/any/exactly-N
// semantics. Children evaluate left to right; each child's reservations
// are visible to the next, so children are not independent.
type CountOfRule struct {
	Count   Counter
	Of      []Rule
	Surplus Surplus
}

// Target resolves the counter to the number of passing children needed.
func (r CountOfRule) Target() int {
	switch r.Count.Kind {
	case CounterAll:
		return len(r.Of)
	case CounterAny:
		return 1
	default:
		return r.Count.N
	}
}

// IsAll reports whether every child must pass.
func (r CountOfRule) IsAll() bool {
	switch r.Count.Kind {
	case CounterAll:
		return true
	case CounterNumber:
		return r.Count.N == len(r.Of)
	default:
		return false
	}
}

// IsAny reports whether a single passing child suffices.
func (r CountOfRule) IsAny() bool {
	switch r.Count.Kind {
	case CounterAny:
		return true
	case CounterNumber:
		return r.Count.N == 1
	default:
		return false
	}
}

// IsSingle reports whether the rule wraps exactly one child.
func (r CountOfRule) IsSingle() bool {
	return len(r.Of) == 1
}

// IsEither reports the either-of-two convenience shape.
func (r CountOfRule) IsEither() bool {
	return len(r.Of) == 2 && r.IsAny()
}

// IsBoth reports the both-of-two convenience shape.
func (r CountOfRule) IsBoth() bool {
	return len(r.Of) == 2 && r.IsAll()
}

// Validate rejects a numeric counter outside [0, len(of)].
func (r CountOfRule) Validate() error {
	if r.Count.Kind == CounterNumber {
		if r.Count.N < 0 || r.Count.N > len(r.Of) {
			return fmt.Errorf("%w: count %d of %d", types.ErrCounterOutOfRange, r.Count.N, len(r.Of))
		}
	}
	return nil
}
