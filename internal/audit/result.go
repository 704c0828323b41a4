package audit

import (
	"github.com/solatis/degreeaudit/internal/rule"
	"github.com/solatis/degreeaudit/internal/types"
)

// RuleStatus is the verdict of one rule node.
type RuleStatus int

const (
	StatusUnspecified RuleStatus = iota
	StatusPass
	StatusFail
	// StatusSkipped marks optional absent requirements and count-of
	// children left unevaluated once the counter was satisfied. Skipped
	// nodes neither pass nor fail their parent.
	StatusSkipped
	// StatusError marks a construction/shape error: the node was
	// malformed and was not evaluated. Never coerced into pass or fail.
	StatusError
)

// String names the status for reports.
func (s RuleStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	case StatusSkipped:
		return "skipped"
	case StatusError:
		return "error"
	default:
		return "unspecified"
	}
}

// RuleResult is the verdict and evidence for one rule node. It mirrors
// the shape of the rule it evaluates: exactly the evidence pointer
// matching Kind is non-nil, and Err is set only under StatusError.
type RuleResult struct {
	Status RuleStatus
	Kind   rule.RuleKind
	Err    error

	Course      *CourseEvidence
	Requirement *RequirementEvidence
	CountOf     *CountOfEvidence
	Given       *GivenEvidence
}

// Passed reports whether the node's verdict is a pass.
func (r RuleResult) Passed() bool {
	return r.Status == StatusPass
}

// CourseEvidence records how a course leaf was (or was not) satisfied.
type CourseEvidence struct {
	Rule    rule.CourseRule
	Matched *types.CourseInstance // nil on fail
	Parts   MatchedParts
}

// RequirementEvidence records the resolution of a requirement reference.
// Result is nil for skipped optional references.
type RequirementEvidence struct {
	Name     string
	Optional bool
	Result   *RuleResult
}

// CountOfEvidence records a counter's arithmetic: how many children
// needed to pass, how many did, and every child verdict in rule order.
type CountOfEvidence struct {
	Needed  int
	Passed  int
	Results []RuleResult
}

// GivenEvidence records a given rule's derivation: the filtered pool it
// observed, the quantity it computed, and the threshold it tested.
// Record-backed sources set Areas, Performances, or Attendances in
// place of Courses.
type GivenEvidence struct {
	What         rule.What
	Action       rule.Action
	Quantity     float64
	Courses      []types.CourseInstance
	Areas        []types.AreaOfStudy
	Performances []types.PerformanceRecord
	Attendances  []types.AttendanceRecord
}

// MatchedCourses gathers every course this result tree presented as
// evidence, depth-first in evaluation order, deduplicated by course ID.
// TheseRequirements sources build their candidate pools from this.
func (r RuleResult) MatchedCourses() []types.CourseInstance {
	var out []types.CourseInstance
	seen := map[string]bool{}
	r.gatherCourses(&out, seen)
	return out
}

func (r RuleResult) gatherCourses(out *[]types.CourseInstance, seen map[string]bool) {
	add := func(c types.CourseInstance) {
		if !seen[c.ID] {
			seen[c.ID] = true
			*out = append(*out, c)
		}
	}

	switch r.Kind {
	case rule.RuleCourse:
		if r.Course != nil && r.Course.Matched != nil {
			add(*r.Course.Matched)
		}
	case rule.RuleRequirement:
		if r.Requirement != nil && r.Requirement.Result != nil {
			r.Requirement.Result.gatherCourses(out, seen)
		}
	case rule.RuleCountOf:
		if r.CountOf != nil {
			for _, child := range r.CountOf.Results {
				child.gatherCourses(out, seen)
			}
		}
	case rule.RuleGiven:
		if r.Given != nil {
			for _, c := range r.Given.Courses {
				add(c)
			}
		}
	}
}

// RequirementResult is the top-level verdict for one named requirement.
type RequirementResult struct {
	Name   string
	Result RuleResult
}

// AreaResult is the outcome of one audit invocation: the area's overall
// verdict, one result per named requirement in document order, and the
// final reservation ledger contents for reporting.
type AreaResult struct {
	AuditID      types.AuditID
	StudentID    types.StudentID
	Area         string
	Type         string
	Catalog      string
	Result       RuleResult
	Requirements []RequirementResult
	Reservations []Reservation
}

// Ok reports whether the area's requirement is satisfied.
func (a *AreaResult) Ok() bool {
	return a.Result.Passed()
}
