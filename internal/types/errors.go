package types

import "errors"

// Sentinel errors for degreeaudit operations.
//
// Construction/shape errors are fatal for the rule node that carries
// them: the engine reports a structured error result instead of
// guessing, and never coerces them into a pass or fail verdict.
var (
	// ErrCounterOutOfRange indicates count: N outside [0, len(of)].
	ErrCounterOutOfRange = errors.New("counter is out of range for its child rules")

	// ErrIncompatibleWhat indicates a given: source that cannot produce
	// the requested what: quantity (e.g. areas of study from courses).
	ErrIncompatibleWhat = errors.New("given source is incompatible with requested quantity")

	// ErrUnsupportedAction indicates an action shape the evaluator does
	// not implement, e.g. anything but either/both thresholds on a
	// two-course given: these courses list.
	ErrUnsupportedAction = errors.New("unsupported action for this rule shape")

	// ErrUndefinedVariable indicates a read of a named variable before
	// any rule saved it. Never defaults to an empty pool.
	ErrUndefinedVariable = errors.New("named variable read before being saved")

	// ErrVariableRedefined indicates a second save under an existing name.
	// Saved subsets are write-once within a pass.
	ErrVariableRedefined = errors.New("named variable saved twice")

	// ErrUnknownFilterKey indicates a where-clause attribute the course
	// model does not expose. Detected at construction, not silently skipped.
	ErrUnknownFilterKey = errors.New("unknown attribute in where clause")

	// ErrUnknownFilterOperator indicates an unrecognized comparison
	// operator token in a where-clause value.
	ErrUnknownFilterOperator = errors.New("unknown operator in where clause")

	// ErrUnknownRequirement indicates a non-optional reference to a
	// requirement name the area does not define.
	ErrUnknownRequirement = errors.New("reference to undefined requirement")

	// ErrRequirementCycle indicates mutually-referencing requirements;
	// the dependency-ordered walk cannot complete.
	ErrRequirementCycle = errors.New("requirement references form a cycle")

	// ErrEmptyRule indicates a rule node with no variant set.
	ErrEmptyRule = errors.New("rule has no variant")

	// ErrUnknownCommand indicates an action command outside
	// count/sum/average.
	ErrUnknownCommand = errors.New("unknown action command")
)
