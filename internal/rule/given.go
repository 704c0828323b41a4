package rule

import (
	"fmt"

	"github.com/solatis/degreeaudit/internal/types"
)

/*
 * Given rule: the composite select/filter/threshold rule.
 *
 * A given rule names a candidate source, optionally filters and limits
 * it, derives a quantity (the "what"), and evaluates an action against
 * that quantity. Source/what compatibility is validated up front: an
 * incompatible pair is a construction error, never a runtime guess.
 */

// GivenKind selects a given rule's candidate source.
type GivenKind int

const (
	// GivenAllCourses draws from the whole transcript.
	GivenAllCourses GivenKind = iota
	// GivenTheseCourses draws from an explicit course-rule list,
	// expanded under a repeat mode.
	GivenTheseCourses
	// GivenTheseRequirements draws from the courses matched by named
	// sub-requirements, each resolved before this rule runs.
	GivenTheseRequirements
	// GivenAreasOfStudy draws from the student's declared areas.
	GivenAreasOfStudy
	// GivenNamedVariable reads a previously saved course subset.
	GivenNamedVariable
	// GivenPerformances draws from the student's recital performances.
	GivenPerformances
	// GivenAttendances draws from the student's recital attendances.
	GivenAttendances
)

// RepeatMode controls how repeated takings of a listed course expand
// into the candidate pool.
type RepeatMode int

const (
	// RepeatFirst selects the first occurrence of each listed course.
	RepeatFirst RepeatMode = iota
	// RepeatLast selects the last occurrence of each listed course.
	RepeatLast
	// RepeatAll includes every occurrence of each listed course.
	RepeatAll
)

// What selects the quantity derived from the candidate pool.
type What int

const (
	WhatCourses What = iota
	WhatDistinctCourses
	WhatCredits
	WhatDepartments
	WhatTerms
	WhatGrades
	WhatAreasOfStudy
	WhatPerformances
	WhatAttendances
)

// String returns the area-document name of the quantity.
func (w What) String() string {
	switch w {
	case WhatCourses:
		return "courses"
	case WhatDistinctCourses:
		return "distinct courses"
	case WhatCredits:
		return "credits"
	case WhatDepartments:
		return "departments"
	case WhatTerms:
		return "terms"
	case WhatGrades:
		return "grades"
	case WhatAreasOfStudy:
		return "areas of study"
	case WhatPerformances:
		return "performances"
	case WhatAttendances:
		return "attendances"
	default:
		return "?"
	}
}

// Limiter caps how many courses matching its where clause may count
// toward the rule, e.g. "at most 2 interim courses".
type Limiter struct {
	AtMost int
	Where  Clause
}

// GivenRule is the composite selection+filter+threshold rule.
// Exactly the fields belonging to Given's variant are set: Courses and
// Repeats for GivenTheseCourses, Requirements for GivenTheseRequirements,
// Variable for GivenNamedVariable.
type GivenRule struct {
	Given        GivenKind
	Courses      []CourseRule
	Repeats      RepeatMode
	Requirements []RequirementRef
	Variable     string // name read by GivenNamedVariable, e.g. "$interim_courses"

	Limit []Limiter
	Where Clause // nil = no filter
	What  What
	Do    Action

	// Save publishes the resolved, filtered pool to the named-variable
	// table for later rules to read. Write-once per audit pass.
	Save string
}

// Validate checks source/what compatibility, filter keys, limiters, and
// the fixed either/both shape of two-course lists. Fatal for the node
// when it fails; the engine reports the error instead of evaluating.
func (r GivenRule) Validate() error {
	// Record-backed sources (areas, performances, attendances) pair
	// only with their own quantity; course-backed sources never yield it.
	incompatible := false
	switch r.Given {
	case GivenAreasOfStudy:
		incompatible = r.What != WhatAreasOfStudy
	case GivenPerformances:
		incompatible = r.What != WhatPerformances
	case GivenAttendances:
		incompatible = r.What != WhatAttendances
	default:
		incompatible = r.What == WhatAreasOfStudy || r.What == WhatPerformances || r.What == WhatAttendances
	}
	if incompatible {
		return fmt.Errorf("%w: given %s, what %q", types.ErrIncompatibleWhat, givenName(r.Given), r.What)
	}

	if r.Where != nil {
		var err error
		switch r.Given {
		case GivenAreasOfStudy:
			err = r.Where.ValidateAreaKeys()
		case GivenPerformances:
			err = r.Where.ValidatePerformanceKeys()
		case GivenAttendances:
			err = r.Where.ValidateAttendanceKeys()
		default:
			err = r.Where.ValidateCourseKeys()
		}
		if err != nil {
			return err
		}
	}

	for _, lim := range r.Limit {
		if lim.AtMost < 0 {
			return fmt.Errorf("limit: at_most must be non-negative, got %d", lim.AtMost)
		}
		if err := lim.Where.ValidateCourseKeys(); err != nil {
			return err
		}
	}

	if r.Given == GivenNamedVariable && r.Variable == "" {
		return fmt.Errorf("%w: no variable name", types.ErrUndefinedVariable)
	}

	// Saved subsets are course pools; record pools cannot be saved.
	if r.Save != "" {
		switch r.Given {
		case GivenAreasOfStudy, GivenPerformances, GivenAttendances:
			return fmt.Errorf("%w: cannot save a %s pool", types.ErrIncompatibleWhat, givenName(r.Given))
		}
	}

	// A two-course list under first/last repeats has exactly the
	// either/both semantics; anything else is unimplemented and must
	// fail fast rather than give a silent wrong answer.
	if r.Given == GivenTheseCourses && len(r.Courses) == 2 &&
		r.Repeats != RepeatAll && r.What == WhatCourses {
		n, ok := r.Do.IntValue()
		supported := ok &&
			r.Do.Command == CommandCount &&
			r.Do.Op == OperatorGreaterThanEqualTo &&
			(n == 1 || n == 2)
		if !supported {
			return fmt.Errorf("%w: %q on a two-course list", types.ErrUnsupportedAction, r.Do)
		}
	}

	return nil
}

// givenName returns the area-document name of a source variant.
func givenName(g GivenKind) string {
	switch g {
	case GivenAllCourses:
		return "courses"
	case GivenTheseCourses:
		return "these courses"
	case GivenTheseRequirements:
		return "these requirements"
	case GivenAreasOfStudy:
		return "areas of study"
	case GivenNamedVariable:
		return "save"
	case GivenPerformances:
		return "performances"
	case GivenAttendances:
		return "attendances"
	default:
		return "?"
	}
}
