// Package rule defines the requirement rule data model: the where-clause
// and action languages, the course and requirement-reference leaves, the
// count-of aggregation rule, the given rule, and the area-of-study
// document that ties named requirements to a result rule tree.
//
// The variant set is fixed and exhaustively known: Rule is a closed
// tagged union (Kind plus one pointer per variant) so every consumer can
// switch over Kind and the compiler-visible zero case surfaces malformed
// nodes instead of silently skipping them.
package rule

import (
	"fmt"

	"github.com/solatis/degreeaudit/internal/types"
)

// RuleKind tags the variant carried by a Rule.
type RuleKind int

const (
	RuleUnspecified RuleKind = iota
	RuleCourse
	RuleRequirement
	RuleCountOf
	RuleGiven
)

// String names the variant for diagnostics.
func (k RuleKind) String() string {
	switch k {
	case RuleCourse:
		return "course"
	case RuleRequirement:
		return "requirement"
	case RuleCountOf:
		return "count-of"
	case RuleGiven:
		return "given"
	default:
		return "unspecified"
	}
}

// Rule is one node of a requirement rule tree. Exactly the pointer
// matching Kind is non-nil.
type Rule struct {
	Kind        RuleKind
	Course      *CourseRule
	Requirement *RequirementRef
	CountOf     *CountOfRule
	Given       *GivenRule
}

// NewCourseRule wraps a course leaf.
func NewCourseRule(r CourseRule) Rule {
	return Rule{Kind: RuleCourse, Course: &r}
}

// NewRequirementRef wraps a requirement-reference leaf.
func NewRequirementRef(r RequirementRef) Rule {
	return Rule{Kind: RuleRequirement, Requirement: &r}
}

// NewCountOf wraps a count-of composite.
func NewCountOf(r CountOfRule) Rule {
	return Rule{Kind: RuleCountOf, CountOf: &r}
}

// NewGiven wraps a given composite.
func NewGiven(r GivenRule) Rule {
	return Rule{Kind: RuleGiven, Given: &r}
}

// Validate checks the node's own shape. Composite children validate
// when the engine reaches them, so a malformed child never prevents its
// well-formed siblings from evaluating.
func (r Rule) Validate() error {
	switch r.Kind {
	case RuleCourse:
		if r.Course == nil || r.Course.Course == "" {
			return fmt.Errorf("%w: course rule without a course code", types.ErrEmptyRule)
		}
		return nil
	case RuleRequirement:
		if r.Requirement == nil || r.Requirement.Requirement == "" {
			return fmt.Errorf("%w: requirement reference without a name", types.ErrEmptyRule)
		}
		return nil
	case RuleCountOf:
		if r.CountOf == nil {
			return types.ErrEmptyRule
		}
		return r.CountOf.Validate()
	case RuleGiven:
		if r.Given == nil {
			return types.ErrEmptyRule
		}
		return r.Given.Validate()
	default:
		return types.ErrEmptyRule
	}
}

// HasSaveRule reports whether this subtree publishes a named variable.
// Requirements containing saves must evaluate before readers of those
// variables; the engine uses this to keep the walk declare-before-read.
func (r Rule) HasSaveRule() bool {
	switch r.Kind {
	case RuleGiven:
		return r.Given != nil && r.Given.Save != ""
	case RuleCountOf:
		if r.CountOf == nil {
			return false
		}
		for _, child := range r.CountOf.Of {
			if child.HasSaveRule() {
				return true
			}
		}
		return false
	default:
		return false
	}
}
