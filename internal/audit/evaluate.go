// Package audit implements the degree-audit evaluation engine: the
// recursive interpreter that walks a requirement rule tree against a
// transcript, threading a reservation ledger and a named-variable table,
// and produces a verdict tree mirroring the rules it evaluated.
package audit

import (
	"fmt"

	"github.com/solatis/degreeaudit/internal/rule"
	"github.com/solatis/degreeaudit/internal/types"
)

/*
 * Evaluation engine.
 *
 * One audit invocation is a pure function of (area, student): a
 * depth-first, dependency-ordered, left-to-right walk over the rule
 * tree. Requirement references and named-variable reads resolve before
 * the rule that consumes them; each passing node commits reservations
 * that every subsequently-evaluated node observes.
 *
 * Evaluation flow per given rule:
 *   1. Resolve candidate pool from the source variant
 *   2. Apply the where clause, then the limiters
 *   3. Publish the pool under its save name, if any (write-once)
 *   4. Derive the "what" quantity
 *   5. Evaluate the action threshold
 *   6. On pass, commit contributing (course, parts) pairings
 *
 * Commit order is greedy left-to-right: a later sibling's
 * candidate pool depends on earlier siblings' commits. This can reject
 * a tree a different course assignment would have satisfied; the
 * behavior is load-bearing for existing audit outputs and is preserved
 * rather than replaced with an optimal-assignment search.
 *
 * Error policy: construction/shape errors (counter out of range,
 * incompatible what/source, unsupported action shape, undefined
 * variable) yield StatusError results with the sentinel attached,
 * never a guessed pass or fail. Ordinary non-matches yield StatusFail
 * with evidence of what was found versus required.
 */

// poolEntry is one candidate in a given rule's resolved pool: the course
// plus the parts it would reserve if the rule passes.
type poolEntry struct {
	course types.CourseInstance
	parts  MatchedParts
}

// evaluation is the engine state for one audit invocation. The ledger
// and variable table are the only mutable pieces, and both die with the
// invocation; no state survives across audits.
type evaluation struct {
	area       *rule.Area
	student    *types.Student
	ledger     *Ledger
	vars       map[string][]poolEntry
	results    map[string]*RuleResult // memoized per requirement name
	inProgress map[string]bool        // cycle detection for requirement refs
}

// Audit evaluates the area's requirement definition against the student
// and returns the overall verdict plus one result per named requirement.
// Re-running with the same inputs always yields the same verdict tree.
func Audit(area *rule.Area, student *types.Student) (*AreaResult, error) {
	if area == nil {
		return nil, fmt.Errorf("area cannot be nil")
	}
	if student == nil {
		return nil, fmt.Errorf("student cannot be nil")
	}

	ev := &evaluation{
		area:       area,
		student:    student,
		ledger:     NewLedger(),
		vars:       make(map[string][]poolEntry),
		results:    make(map[string]*RuleResult),
		inProgress: make(map[string]bool),
	}

	root := ev.evaluateRule(area.Result)

	// The result tree pulls requirements in on demand; any the area
	// names but the tree never referenced still get a verdict so the
	// report covers every named requirement.
	requirements := make([]RequirementResult, 0, len(area.Requirements))
	for _, req := range area.Requirements {
		res := ev.evaluateRequirement(req)
		requirements = append(requirements, RequirementResult{Name: req.Name, Result: *res})
	}

	return &AreaResult{
		AuditID:      types.NewAuditID(),
		StudentID:    student.ID,
		Area:         area.Name,
		Type:         area.Type,
		Catalog:      area.Catalog,
		Result:       root,
		Requirements: requirements,
		Reservations: ev.ledger.Reservations(),
	}, nil
}

// evaluateRule is the uniform node contract: every variant validates its
// own shape first, then evaluates. Counter, given, and leaf rules are
// interchangeable children of one another.
func (ev *evaluation) evaluateRule(r rule.Rule) RuleResult {
	if err := r.Validate(); err != nil {
		return errorResult(r.Kind, err)
	}

	switch r.Kind {
	case rule.RuleCourse:
		return ev.evaluateCourse(*r.Course)
	case rule.RuleRequirement:
		return ev.evaluateRequirementRef(*r.Requirement)
	case rule.RuleCountOf:
		return ev.evaluateCountOf(*r.CountOf)
	case rule.RuleGiven:
		return ev.evaluateGiven(*r.Given)
	default:
		return errorResult(r.Kind, types.ErrEmptyRule)
	}
}

// evaluateCourse resolves a course leaf: first unreserved transcript
// match wins, and a match commits its pairing immediately.
func (ev *evaluation) evaluateCourse(cr rule.CourseRule) RuleResult {
	course, parts, ok := HasCourseMatching(ev.student.Transcript, cr, ev.ledger)
	if !ok {
		return RuleResult{
			Status: StatusFail,
			Kind:   rule.RuleCourse,
			Course: &CourseEvidence{Rule: cr},
		}
	}

	ev.ledger.Add(course, parts)
	return RuleResult{
		Status: StatusPass,
		Kind:   rule.RuleCourse,
		Course: &CourseEvidence{Rule: cr, Matched: &course, Parts: parts},
	}
}

// evaluateRequirementRef resolves a reference against the area's named
// requirements. Optional references to absent requirements are skipped;
// non-optional ones are a construction error.
func (ev *evaluation) evaluateRequirementRef(ref rule.RequirementRef) RuleResult {
	req, ok := ev.area.Requirement(ref.Requirement)
	if !ok {
		if ref.Optional {
			return RuleResult{
				Status:      StatusSkipped,
				Kind:        rule.RuleRequirement,
				Requirement: &RequirementEvidence{Name: ref.Requirement, Optional: true},
			}
		}
		return errorResult(rule.RuleRequirement,
			fmt.Errorf("%w: %q", types.ErrUnknownRequirement, ref.Requirement))
	}

	inner := ev.evaluateRequirement(req)
	return RuleResult{
		Status:      inner.Status,
		Kind:        rule.RuleRequirement,
		Err:         inner.Err,
		Requirement: &RequirementEvidence{Name: req.Name, Optional: ref.Optional, Result: inner},
	}
}

// evaluateRequirement evaluates a named requirement's result tree at
// most once per pass. Every later reference observes the memoized
// verdict, keeping the walk dependency-ordered and deterministic.
func (ev *evaluation) evaluateRequirement(req *rule.Requirement) *RuleResult {
	if res, ok := ev.results[req.Name]; ok {
		return res
	}
	if ev.inProgress[req.Name] {
		res := errorResult(rule.RuleRequirement,
			fmt.Errorf("%w: via %q", types.ErrRequirementCycle, req.Name))
		return &res
	}

	ev.inProgress[req.Name] = true
	res := ev.evaluateRule(req.Result)
	delete(ev.inProgress, req.Name)

	ev.results[req.Name] = &res
	return &res
}

// evaluateCountOf aggregates child verdicts left to right. Skipped
// children (optional absent requirements, and children left unevaluated
// once an Ignore-surplus counter is satisfied) leave both the numerator
// and, for all-counters, the denominator.
func (ev *evaluation) evaluateCountOf(c rule.CountOfRule) RuleResult {
	target := c.Target()
	results := make([]RuleResult, 0, len(c.Of))

	passed := 0
	skipped := 0
	satisfied := false

	for _, child := range c.Of {
		// Once an Ignore-surplus counter is satisfied, later children's
		// courses stay available to later rules, except children that
		// publish saves, which later readers depend on.
		if satisfied && c.Surplus == rule.SurplusIgnore && !child.HasSaveRule() {
			results = append(results, RuleResult{Status: StatusSkipped, Kind: child.Kind})
			skipped++
			continue
		}

		res := ev.evaluateRule(child)
		results = append(results, res)

		switch res.Status {
		case StatusPass:
			passed++
		case StatusSkipped:
			skipped++
		}

		if c.Count.Kind != rule.CounterAll && passed >= target {
			satisfied = true
		}
	}

	needed := target
	if c.Count.Kind == rule.CounterAll {
		needed = len(c.Of) - skipped
	}

	status := StatusFail
	if passed >= needed {
		status = StatusPass
	}

	return RuleResult{
		Status:  status,
		Kind:    rule.RuleCountOf,
		CountOf: &CountOfEvidence{Needed: needed, Passed: passed, Results: results},
	}
}

// evaluateGiven runs the select/filter/derive/threshold state machine.
func (ev *evaluation) evaluateGiven(g rule.GivenRule) RuleResult {
	switch g.Given {
	case rule.GivenAreasOfStudy:
		return ev.evaluateGivenAreas(g)
	case rule.GivenPerformances:
		return ev.evaluateGivenPerformances(g)
	case rule.GivenAttendances:
		return ev.evaluateGivenAttendances(g)
	}

	pool, errRes := ev.resolvePool(g)
	if errRes != nil {
		return *errRes
	}

	if g.Where != nil {
		filtered := pool[:0:0]
		for _, e := range pool {
			if g.Where.MatchesCourse(e.course) {
				filtered = append(filtered, e)
			}
		}
		pool = filtered
	}

	pool = applyLimits(pool, g.Limit)

	// Publish the resolved, filtered pool whether or not the action
	// passes: saves are declarations, not rewards. Write-once.
	if g.Save != "" {
		if _, exists := ev.vars[g.Save]; exists {
			return errorResult(rule.RuleGiven,
				fmt.Errorf("%w: %q", types.ErrVariableRedefined, g.Save))
		}
		saved := make([]poolEntry, len(pool))
		copy(saved, pool)
		ev.vars[g.Save] = saved
	}

	quantity := deriveQuantity(g.What, pool)
	evidence := &GivenEvidence{
		What:     g.What,
		Action:   g.Do,
		Quantity: quantity,
		Courses:  poolCourses(pool),
	}

	if !g.Do.Evaluate(quantity) {
		return RuleResult{Status: StatusFail, Kind: rule.RuleGiven, Given: evidence}
	}

	ev.commit(g, pool)
	return RuleResult{Status: StatusPass, Kind: rule.RuleGiven, Given: evidence}
}

// evaluateGivenAreas handles the areas-of-study source: the pool is the
// student's declared areas and nothing is ever reserved.
func (ev *evaluation) evaluateGivenAreas(g rule.GivenRule) RuleResult {
	var areas []types.AreaOfStudy
	for _, a := range ev.student.Areas {
		if g.Where == nil || g.Where.MatchesArea(a) {
			areas = append(areas, a)
		}
	}

	quantity := float64(len(areas))
	evidence := &GivenEvidence{
		What:     g.What,
		Action:   g.Do,
		Quantity: quantity,
		Areas:    areas,
	}

	status := StatusFail
	if g.Do.Evaluate(quantity) {
		status = StatusPass
	}
	return RuleResult{Status: status, Kind: rule.RuleGiven, Given: evidence}
}

// evaluateGivenPerformances counts the student's recital performances.
// Records carry no reservable parts; nothing is committed.
func (ev *evaluation) evaluateGivenPerformances(g rule.GivenRule) RuleResult {
	var performances []types.PerformanceRecord
	for _, p := range ev.student.Performances {
		if g.Where == nil || g.Where.MatchesPerformance(p) {
			performances = append(performances, p)
		}
	}

	quantity := float64(len(performances))
	evidence := &GivenEvidence{
		What:         g.What,
		Action:       g.Do,
		Quantity:     quantity,
		Performances: performances,
	}

	status := StatusFail
	if g.Do.Evaluate(quantity) {
		status = StatusPass
	}
	return RuleResult{Status: status, Kind: rule.RuleGiven, Given: evidence}
}

// evaluateGivenAttendances counts the student's recital attendances.
func (ev *evaluation) evaluateGivenAttendances(g rule.GivenRule) RuleResult {
	var attendances []types.AttendanceRecord
	for _, a := range ev.student.Attendances {
		if g.Where == nil || g.Where.MatchesAttendance(a) {
			attendances = append(attendances, a)
		}
	}

	quantity := float64(len(attendances))
	evidence := &GivenEvidence{
		What:        g.What,
		Action:      g.Do,
		Quantity:    quantity,
		Attendances: attendances,
	}

	status := StatusFail
	if g.Do.Evaluate(quantity) {
		status = StatusPass
	}
	return RuleResult{Status: status, Kind: rule.RuleGiven, Given: evidence}
}

// resolvePool gathers the candidate pool for a course-backed source.
// Returns a structured error result for undefined named variables.
func (ev *evaluation) resolvePool(g rule.GivenRule) ([]poolEntry, *RuleResult) {
	switch g.Given {
	case rule.GivenAllCourses:
		var pool []poolEntry
		for _, c := range ev.student.Transcript {
			if ev.ledger.Contains(c, codeParts()) {
				continue
			}
			pool = append(pool, poolEntry{course: c, parts: codeParts()})
		}
		return pool, nil

	case rule.GivenTheseCourses:
		return ev.resolveTheseCourses(g), nil

	case rule.GivenTheseRequirements:
		var pool []poolEntry
		seen := map[string]bool{}
		for _, ref := range g.Requirements {
			res := ev.evaluateRequirementRef(ref)
			for _, c := range res.MatchedCourses() {
				if seen[c.ID] {
					continue
				}
				seen[c.ID] = true
				pool = append(pool, poolEntry{course: c, parts: codeParts()})
			}
		}
		return pool, nil

	case rule.GivenNamedVariable:
		saved, ok := ev.vars[g.Variable]
		if !ok {
			res := errorResult(rule.RuleGiven,
				fmt.Errorf("%w: %q", types.ErrUndefinedVariable, g.Variable))
			return nil, &res
		}
		pool := make([]poolEntry, len(saved))
		copy(pool, saved)
		return pool, nil

	default:
		res := errorResult(rule.RuleGiven, types.ErrEmptyRule)
		return nil, &res
	}
}

// resolveTheseCourses expands an explicit course list under its repeat
// mode. First/last select one occurrence per listed rule; all includes
// every repetition. Entries already collected for this pool are skipped
// so duplicate listings cannot double-select one transcript entry.
func (ev *evaluation) resolveTheseCourses(g rule.GivenRule) []poolEntry {
	var pool []poolEntry
	collected := map[Reservation]bool{}

	add := func(c types.CourseInstance, parts MatchedParts) {
		key := Reservation{CourseID: c.ID, Parts: parts}
		if collected[key] {
			return
		}
		collected[key] = true
		pool = append(pool, poolEntry{course: c, parts: parts})
	}

	for _, cr := range g.Courses {
		switch g.Repeats {
		case rule.RepeatFirst:
			if c, parts, ok := HasCourseMatching(ev.student.Transcript, cr, ev.ledger); ok {
				add(c, parts)
			}
		case rule.RepeatLast:
			if c, parts, ok := lastCourseMatching(ev.student.Transcript, cr, ev.ledger); ok {
				add(c, parts)
			}
		case rule.RepeatAll:
			for _, e := range allCoursesMatching(ev.student.Transcript, cr, ev.ledger) {
				add(e.course, e.parts)
			}
		}
	}

	return pool
}

// commit reserves the pairings that contributed to a passing quantity.
// A count-of-courses threshold (count >= n, count = n) needs only its
// first n pool courses. Distinct-valued quantities (distinct courses,
// departments, terms) may count one value across several entries, so the
// first n entries are not the n contributors; those commit the whole
// pool, as do sums, averages, and bare truthy actions.
func (ev *evaluation) commit(g rule.GivenRule, pool []poolEntry) {
	contributing := pool
	if g.What == rule.WhatCourses && g.Do.Command == rule.CommandCount &&
		(g.Do.Op == rule.OperatorEqualTo || g.Do.Op == rule.OperatorGreaterThanEqualTo) {
		if n, ok := g.Do.IntValue(); ok && n < len(pool) {
			contributing = pool[:n]
		}
	}

	for _, e := range contributing {
		ev.ledger.Add(e.course, e.parts)
	}
}

// applyLimits enforces each limiter's cap over the pool in order.
// An entry survives only if every limiter it matches still has room.
func applyLimits(pool []poolEntry, limits []rule.Limiter) []poolEntry {
	if len(limits) == 0 {
		return pool
	}

	counts := make([]int, len(limits))
	var out []poolEntry
	for _, e := range pool {
		keep := true
		for i, lim := range limits {
			if lim.Where.MatchesCourse(e.course) && counts[i] >= lim.AtMost {
				keep = false
				break
			}
		}
		if !keep {
			continue
		}
		for i, lim := range limits {
			if lim.Where.MatchesCourse(e.course) {
				counts[i]++
			}
		}
		out = append(out, e)
	}
	return out
}

// deriveQuantity computes the "what" over the filtered pool.
// Areas-of-study quantities never reach here; Validate pairs them with
// the areas source, which has its own path.
func deriveQuantity(what rule.What, pool []poolEntry) float64 {
	switch what {
	case rule.WhatCourses:
		return float64(len(pool))

	case rule.WhatDistinctCourses:
		codes := map[string]bool{}
		for _, e := range pool {
			codes[e.course.Course] = true
		}
		return float64(len(codes))

	case rule.WhatCredits:
		sum := 0.0
		for _, e := range pool {
			sum += e.course.Credits
		}
		return sum

	case rule.WhatDepartments:
		depts := map[string]bool{}
		for _, e := range pool {
			for _, d := range e.course.Departments {
				depts[d] = true
			}
		}
		return float64(len(depts))

	case rule.WhatTerms:
		terms := map[string]bool{}
		for _, e := range pool {
			terms[e.course.Term] = true
		}
		return float64(len(terms))

	case rule.WhatGrades:
		sum, graded := 0.0, 0
		for _, e := range pool {
			if points, ok := e.course.GradePoints(); ok {
				sum += points
				graded++
			}
		}
		if graded == 0 {
			return 0
		}
		return sum / float64(graded)

	default:
		return 0
	}
}

// poolCourses projects a pool back to its courses for evidence.
func poolCourses(pool []poolEntry) []types.CourseInstance {
	if len(pool) == 0 {
		return nil
	}
	out := make([]types.CourseInstance, len(pool))
	for i, e := range pool {
		out[i] = e.course
	}
	return out
}

// errorResult wraps a construction/shape error as a structured result.
func errorResult(kind rule.RuleKind, err error) RuleResult {
	return RuleResult{Status: StatusError, Kind: kind, Err: err}
}
