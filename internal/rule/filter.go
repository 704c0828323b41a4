package rule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/solatis/degreeaudit/internal/types"
)

/*
 * Where-clause predicate language.
 *
 * A Clause maps attribute names to comparisons. Evaluation is a
 * conjunction across keys and a disjunction within a key's OR-list.
 * A clause with no keys matches every course.
 *
 * Operators: equality, negation (!), and numeric ordering (<, <=, >, >=)
 * for integer-valued attributes. List-valued attributes (departments,
 * gereqs) match by containment: equality passes when any element equals
 * the comparison value.
 *
 * Unknown attribute keys are a construction-time error surfaced by
 * Validate, never a silent no-op: a misspelled key in an area document
 * must not quietly widen or empty the matched pool.
 *
 * Why function-based: the attribute set is fixed and exhaustively known,
 * so a switch over key names is cleaner than reflection or an open
 * registry, and keeps the package free of dependencies.
 */

// CompareOp is a comparison operator inside a where clause.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
)

// ParseCompareOp maps an operator token to its CompareOp.
// The empty token means equality (bare scalar values in area documents).
func ParseCompareOp(tok string) (CompareOp, error) {
	switch tok {
	case "", "=":
		return OpEq, nil
	case "!":
		return OpNeq, nil
	case "<":
		return OpLt, nil
	case "<=":
		return OpLte, nil
	case ">":
		return OpGt, nil
	case ">=":
		return OpGte, nil
	default:
		return OpEq, fmt.Errorf("%w: %q", types.ErrUnknownFilterOperator, tok)
	}
}

// String returns the operator's area-document token.
func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNeq:
		return "!"
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	default:
		return "?"
	}
}

// Comparison is one tagged comparison: an operator and a value.
// Value holds string, int, float64, or bool as loaded from the document.
type Comparison struct {
	Op    CompareOp
	Value any
}

// WrappedValue is the right-hand side of one clause key: either a single
// comparison or an ordered list of comparisons meant as logical OR.
// Exactly one of Single/Or is set.
type WrappedValue struct {
	Single *Comparison
	Or     []Comparison
}

// comparisons returns the value's comparison list regardless of shape.
func (w WrappedValue) comparisons() []Comparison {
	if w.Single != nil {
		return []Comparison{*w.Single}
	}
	return w.Or
}

// Clause is a where-clause: attribute name to wrapped comparison value.
// Keys are unique by construction (map semantics).
type Clause map[string]WrappedValue

// Course attributes a where clause may reference.
var courseFilterKeys = map[string]bool{
	"course":        true,
	"department":    true,
	"level":         true,
	"gereqs":        true,
	"semester":      true,
	"year":          true,
	"term":          true,
	"grade":         true,
	"institution":   true,
	"lab":           true,
	"international": true,
}

// Area-of-study attributes a where clause may reference.
var areaFilterKeys = map[string]bool{
	"type": true,
	"name": true,
}

// Performance-record attributes a where clause may reference.
var performanceFilterKeys = map[string]bool{
	"name":   true,
	"year":   true,
	"term":   true,
	"status": true,
}

// Attendance-record attributes a where clause may reference.
var attendanceFilterKeys = map[string]bool{
	"name": true,
	"year": true,
	"term": true,
}

// ValidateCourseKeys rejects clauses referencing attributes the course
// model does not expose.
func (cl Clause) ValidateCourseKeys() error {
	return cl.validateKeys(courseFilterKeys)
}

// ValidateAreaKeys rejects clauses referencing attributes the declared
// area model does not expose.
func (cl Clause) ValidateAreaKeys() error {
	return cl.validateKeys(areaFilterKeys)
}

// ValidatePerformanceKeys rejects clauses referencing attributes the
// performance record does not expose.
func (cl Clause) ValidatePerformanceKeys() error {
	return cl.validateKeys(performanceFilterKeys)
}

// ValidateAttendanceKeys rejects clauses referencing attributes the
// attendance record does not expose.
func (cl Clause) ValidateAttendanceKeys() error {
	return cl.validateKeys(attendanceFilterKeys)
}

func (cl Clause) validateKeys(known map[string]bool) error {
	// Sorted for deterministic error reporting
	keys := make([]string, 0, len(cl))
	for k := range cl {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !known[k] {
			return fmt.Errorf("%w: %q", types.ErrUnknownFilterKey, k)
		}
	}
	return nil
}

// MatchesCourse reports whether the course satisfies every clause key.
// Assumes the clause passed ValidateCourseKeys; unknown keys never match.
func (cl Clause) MatchesCourse(c types.CourseInstance) bool {
	for key, wrapped := range cl {
		if !matchesAny(courseAttribute(c, key), wrapped) {
			return false
		}
	}
	return true
}

// MatchesArea reports whether the declared area satisfies every clause key.
func (cl Clause) MatchesArea(a types.AreaOfStudy) bool {
	for key, wrapped := range cl {
		var attr attributeValue
		switch key {
		case "type":
			attr = attributeValue{scalar: a.Type}
		case "name":
			attr = attributeValue{scalar: a.Name}
		}
		if !matchesAny(attr, wrapped) {
			return false
		}
	}
	return true
}

// MatchesPerformance reports whether the performance record satisfies
// every clause key. Records with no status never match a status test.
func (cl Clause) MatchesPerformance(p types.PerformanceRecord) bool {
	for key, wrapped := range cl {
		var attr attributeValue
		switch key {
		case "name":
			attr = attributeValue{scalar: p.Name}
		case "year":
			attr = attributeValue{scalar: p.Year}
		case "term":
			attr = attributeValue{scalar: p.Term}
		case "status":
			attr = attributeValue{scalar: p.Status}
		}
		if !matchesAny(attr, wrapped) {
			return false
		}
	}
	return true
}

// MatchesAttendance reports whether the attendance record satisfies
// every clause key.
func (cl Clause) MatchesAttendance(a types.AttendanceRecord) bool {
	for key, wrapped := range cl {
		var attr attributeValue
		switch key {
		case "name":
			attr = attributeValue{scalar: a.Name}
		case "year":
			attr = attributeValue{scalar: a.Year}
		case "term":
			attr = attributeValue{scalar: a.Term}
		}
		if !matchesAny(attr, wrapped) {
			return false
		}
	}
	return true
}

// attributeValue is either a scalar or a list attribute. List attributes
// compare by containment.
type attributeValue struct {
	scalar any
	list   []string
	isList bool
}

// courseAttribute resolves one clause key against a course.
func courseAttribute(c types.CourseInstance, key string) attributeValue {
	switch key {
	case "course":
		return attributeValue{scalar: c.Course}
	case "department":
		return attributeValue{list: c.Departments, isList: true}
	case "gereqs":
		return attributeValue{list: c.GerEqs, isList: true}
	case "level":
		return attributeValue{scalar: courseLevel(c.Course)}
	case "semester":
		return attributeValue{scalar: c.Semester}
	case "year":
		return attributeValue{scalar: c.Year}
	case "term":
		return attributeValue{scalar: c.Term}
	case "grade":
		return attributeValue{scalar: c.Grade}
	case "institution":
		return attributeValue{scalar: c.Institution}
	case "lab":
		return attributeValue{scalar: c.Lab}
	case "international":
		return attributeValue{scalar: c.International}
	default:
		return attributeValue{}
	}
}

// courseLevel derives the hundred-level from a course code: "ASIAN 275" -> 200.
// Codes without a numeric part yield 0.
func courseLevel(code string) int {
	idx := strings.LastIndex(code, " ")
	digits := code
	if idx >= 0 {
		digits = code[idx+1:]
	}
	n := 0
	for _, r := range digits {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return (n / 100) * 100
}

// matchesAny applies the OR-list: true when any comparison matches.
func matchesAny(attr attributeValue, wrapped WrappedValue) bool {
	for _, cmp := range wrapped.comparisons() {
		if matchesComparison(attr, cmp) {
			return true
		}
	}
	return false
}

// matchesComparison applies one comparison to one attribute value.
func matchesComparison(attr attributeValue, cmp Comparison) bool {
	if attr.isList {
		contains := false
		for _, elem := range attr.list {
			if compareEqual(elem, cmp.Value) {
				contains = true
				break
			}
		}
		if cmp.Op == OpNeq {
			return !contains
		}
		// Ordering operators make no sense on tag lists
		return cmp.Op == OpEq && contains
	}

	switch cmp.Op {
	case OpEq:
		return compareEqual(attr.scalar, cmp.Value)
	case OpNeq:
		return !compareEqual(attr.scalar, cmp.Value)
	case OpLt:
		return compareNumeric(attr.scalar, cmp.Value) < 0
	case OpLte:
		return compareNumeric(attr.scalar, cmp.Value) <= 0
	case OpGt:
		return compareNumeric(attr.scalar, cmp.Value) > 0
	case OpGte:
		return compareNumeric(attr.scalar, cmp.Value) >= 0
	default:
		return false
	}
}

// compareEqual performs equality comparison with numeric type coercion.
// Handles float64/int mixing from YAML decoding.
func compareEqual(a, b any) bool {
	if na, nb, ok := asNumbers(a, b); ok {
		return na == nb
	}
	return a == b
}

// compareNumeric performs three-way numeric comparison (-1/0/1).
// Incomparable types report as equal, which fails every strict ordering test.
func compareNumeric(a, b any) int {
	na, nb, ok := asNumbers(a, b)
	if !ok {
		return 0
	}
	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	default:
		return 0
	}
}

// asNumbers attempts to convert both values to float64 for numeric comparison.
func asNumbers(a, b any) (float64, float64, bool) {
	na, oka := toFloat64(a)
	nb, okb := toFloat64(b)
	return na, nb, oka && okb
}

// toFloat64 converts value to float64 if it is a numeric type.
// Handles int, int64, uint64, and float64 from YAML decoding.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
