package rule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solatis/degreeaudit/internal/types"
)

/*
 * Action/threshold language.
 *
 * An Action is one threshold test: an aggregation command (count, sum,
 * average) over a derived quantity, an operator, and a right-hand value.
 * An action without an operator is a bare truthy test (quantity > 0),
 * used by the declare-areas shape ("do: count" is never written; the
 * declare case carries command only).
 *
 * Area documents write actions as shorthand ("count >= 2"); ParseAction
 * turns the shorthand into the structured form. The Action type itself
 * only evaluates already-structured comparisons.
 */

// Command is the aggregation command of an action.
type Command int

const (
	CommandCount Command = iota
	CommandSum
	CommandAverage
)

// String returns the command's shorthand token.
func (c Command) String() string {
	switch c {
	case CommandCount:
		return "count"
	case CommandSum:
		return "sum"
	case CommandAverage:
		return "average"
	default:
		return "?"
	}
}

// Operator is the comparison operator of an action.
// OperatorNone marks a bare truthy action.
type Operator int

const (
	OperatorNone Operator = iota
	OperatorEqualTo
	OperatorGreaterThan
	OperatorGreaterThanEqualTo
	OperatorLessThan
	OperatorLessThanEqualTo
)

// String returns the operator's shorthand token.
func (op Operator) String() string {
	switch op {
	case OperatorEqualTo:
		return "="
	case OperatorGreaterThan:
		return ">"
	case OperatorGreaterThanEqualTo:
		return ">="
	case OperatorLessThan:
		return "<"
	case OperatorLessThanEqualTo:
		return "<="
	default:
		return ""
	}
}

// Action is one threshold test against a derived quantity.
// Value is meaningful only when Op != OperatorNone.
type Action struct {
	Command Command
	Op      Operator
	Value   float64
}

// Evaluate applies the threshold to an already-derived quantity.
// An operator-less action tests truthiness: quantity > 0.
func (a Action) Evaluate(quantity float64) bool {
	switch a.Op {
	case OperatorNone:
		return quantity > 0
	case OperatorEqualTo:
		return quantity == a.Value
	case OperatorGreaterThan:
		return quantity > a.Value
	case OperatorGreaterThanEqualTo:
		return quantity >= a.Value
	case OperatorLessThan:
		return quantity < a.Value
	case OperatorLessThanEqualTo:
		return quantity <= a.Value
	default:
		return false
	}
}

// ShouldPluralize reports whether prose for this action takes a plural
// noun: true unless the value is exactly 1 under an equality/>= test.
func (a Action) ShouldPluralize() bool {
	if a.Value == 1 && (a.Op == OperatorEqualTo || a.Op == OperatorGreaterThanEqualTo) {
		return false
	}
	return true
}

// IntValue returns the action's value as an int when it is a whole
// number; ok is false otherwise (and for operator-less actions).
func (a Action) IntValue() (int, bool) {
	if a.Op == OperatorNone {
		return 0, false
	}
	n := int(a.Value)
	if float64(n) != a.Value {
		return 0, false
	}
	return n, true
}

// String renders the structured action back into its shorthand.
func (a Action) String() string {
	if a.Op == OperatorNone {
		return a.Command.String()
	}
	return fmt.Sprintf("%s %s %s", a.Command, a.Op, strconv.FormatFloat(a.Value, 'f', -1, 64))
}

// ParseAction parses the shorthand form: "count >= 2", "sum < 1.5",
// "average >= 2.0", or a bare command ("count") for a truthy test.
func ParseAction(s string) (Action, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("%w: empty action", types.ErrUnknownCommand)
	}

	var action Action
	switch fields[0] {
	case "count":
		action.Command = CommandCount
	case "sum":
		action.Command = CommandSum
	case "average":
		action.Command = CommandAverage
	default:
		return Action{}, fmt.Errorf("%w: %q", types.ErrUnknownCommand, fields[0])
	}

	if len(fields) == 1 {
		return action, nil
	}
	if len(fields) != 3 {
		return Action{}, fmt.Errorf("malformed action %q: want \"command op value\"", s)
	}

	switch fields[1] {
	case "=", "==":
		action.Op = OperatorEqualTo
	case ">":
		action.Op = OperatorGreaterThan
	case ">=":
		action.Op = OperatorGreaterThanEqualTo
	case "<":
		action.Op = OperatorLessThan
	case "<=":
		action.Op = OperatorLessThanEqualTo
	default:
		return Action{}, fmt.Errorf("malformed action %q: unknown operator %q", s, fields[1])
	}

	value, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Action{}, fmt.Errorf("malformed action %q: %w", s, err)
	}
	action.Value = value

	return action, nil
}
