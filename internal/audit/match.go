package audit

import (
	"github.com/solatis/degreeaudit/internal/rule"
	"github.com/solatis/degreeaudit/internal/types"
)

/*
 * Course matching and MatchedParts.
 *
 * Matching a course against a course rule yields MatchedParts, a tagged
 * description of which constraints matched, not a plain boolean. The
 * reservation ledger keys on (course, parts) rather than course alone:
 * one physical course may satisfy two rules through different constraint
 * subsets (once by code, once by a lab-section match) but never the same
 * subset twice.
 *
 * Matching is all-or-nothing per rule: if any constraint the rule
 * specifies fails, the whole match is empty. The parts therefore record
 * exactly the constraint subset the rule specified, and nothing else.
 */

// MatchedParts records which of a course rule's constraints matched.
// The zero value is the empty (failed) match.
type MatchedParts struct {
	Course        bool
	Term          bool
	Section       bool
	Year          bool
	Semester      bool
	Lab           bool
	International bool
}

// Any reports whether the match is non-empty.
func (m MatchedParts) Any() bool {
	return m != MatchedParts{}
}

// codeParts is the match shape for pool membership established by the
// course as a whole (filter-based sources) rather than by a course rule.
func codeParts() MatchedParts {
	return MatchedParts{Course: true}
}

// MatchCourse matches one transcript entry against a course rule.
// Returns the empty parts when any specified constraint fails.
func MatchCourse(c types.CourseInstance, r rule.CourseRule) MatchedParts {
	if c.Course != r.Course {
		return MatchedParts{}
	}
	parts := MatchedParts{Course: true}

	if r.Term != "" {
		if c.Term != r.Term {
			return MatchedParts{}
		}
		parts.Term = true
	}
	if r.Section != "" {
		if c.Section != r.Section {
			return MatchedParts{}
		}
		parts.Section = true
	}
	if r.Year != nil {
		if c.Year != *r.Year {
			return MatchedParts{}
		}
		parts.Year = true
	}
	if r.Semester != "" {
		if c.Semester != r.Semester {
			return MatchedParts{}
		}
		parts.Semester = true
	}
	if r.Lab != nil {
		if c.Lab != *r.Lab {
			return MatchedParts{}
		}
		parts.Lab = true
	}
	if r.International != nil {
		if c.International != *r.International {
			return MatchedParts{}
		}
		parts.International = true
	}

	return parts
}

// HasCourseMatching scans the transcript in input order, skipping any
// (course, parts) pairing already reserved, and returns the first
// remaining match. First-match semantics, never best-match.
func HasCourseMatching(t types.Transcript, r rule.CourseRule, ledger *Ledger) (types.CourseInstance, MatchedParts, bool) {
	for _, c := range t {
		m := MatchCourse(c, r)
		if !m.Any() {
			continue
		}
		if ledger.Contains(c, m) {
			continue
		}
		return c, m, true
	}
	return types.CourseInstance{}, MatchedParts{}, false
}

// lastCourseMatching returns the last unreserved match in transcript order.
func lastCourseMatching(t types.Transcript, r rule.CourseRule, ledger *Ledger) (types.CourseInstance, MatchedParts, bool) {
	var (
		course types.CourseInstance
		parts  MatchedParts
		found  bool
	)
	for _, c := range t {
		m := MatchCourse(c, r)
		if !m.Any() || ledger.Contains(c, m) {
			continue
		}
		course, parts, found = c, m, true
	}
	return course, parts, found
}

// allCoursesMatching returns every unreserved match in transcript order.
func allCoursesMatching(t types.Transcript, r rule.CourseRule, ledger *Ledger) []poolEntry {
	var entries []poolEntry
	for _, c := range t {
		m := MatchCourse(c, r)
		if !m.Any() || ledger.Contains(c, m) {
			continue
		}
		entries = append(entries, poolEntry{course: c, parts: m})
	}
	return entries
}
