package audit

import (
	"errors"
	"testing"

	"github.com/solatis/degreeaudit/internal/rule"
	"github.com/solatis/degreeaudit/internal/types"
)

func countGte(n float64) rule.Action {
	return rule.Action{Command: rule.CommandCount, Op: rule.OperatorGreaterThanEqualTo, Value: n}
}

func testStudent(courses ...types.CourseInstance) *types.Student {
	return &types.Student{
		ID:         types.NewStudentID(),
		Name:       "Test Student",
		Catalog:    "2015-16",
		Transcript: courses,
	}
}

func testArea(result rule.Rule, reqs ...*rule.Requirement) *rule.Area {
	return &rule.Area{
		Name:         "Test Area",
		Type:         "major",
		Catalog:      "2015-16",
		Result:       result,
		Requirements: reqs,
	}
}

func TestAudit_SingleCoursePass(t *testing.T) {
	student := testStudent(
		types.CourseInstance{ID: "0/THEAT 233/2015-1", Course: "THEAT 233", Term: "2015-1"},
	)
	area := testArea(rule.NewCourseRule(rule.CourseRule{Course: "THEAT 233"}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if !result.Ok() {
		t.Errorf("Ok() = false, want true")
	}
	if result.Result.Course == nil || result.Result.Course.Matched == nil {
		t.Fatal("course evidence missing")
	}
	if got := result.Result.Course.Matched.ID; got != "0/THEAT 233/2015-1" {
		t.Errorf("matched course = %q, want transcript entry", got)
	}
	want := Reservation{CourseID: "0/THEAT 233/2015-1", Parts: MatchedParts{Course: true}}
	if len(result.Reservations) != 1 || result.Reservations[0] != want {
		t.Errorf("Reservations = %+v, want [%+v]", result.Reservations, want)
	}
}

func TestAudit_SingleCourseFail(t *testing.T) {
	student := testStudent(
		types.CourseInstance{ID: "0/ASIAN 110/2015-1", Course: "ASIAN 110", Term: "2015-1"},
	)
	area := testArea(rule.NewCourseRule(rule.CourseRule{Course: "THEAT 233"}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if result.Ok() {
		t.Errorf("Ok() = true, want false")
	}
	if result.Result.Status != StatusFail {
		t.Errorf("Status = %v, want fail", result.Result.Status)
	}
	if len(result.Reservations) != 0 {
		t.Errorf("Reservations = %+v, want empty after fail", result.Reservations)
	}
}

func TestAudit_NoDoubleCounting(t *testing.T) {
	// One transcript entry, two rules demanding the same code: the
	// second rule must not reuse the reserved course.
	student := testStudent(
		types.CourseInstance{ID: "0/ASIAN 110/2015-1", Course: "ASIAN 110", Term: "2015-1"},
	)
	area := testArea(rule.NewCountOf(rule.CountOfRule{
		Count: rule.Counter{Kind: rule.CounterAll},
		Of: []rule.Rule{
			rule.NewCourseRule(rule.CourseRule{Course: "ASIAN 110"}),
			rule.NewCourseRule(rule.CourseRule{Course: "ASIAN 110"}),
		},
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if result.Ok() {
		t.Errorf("Ok() = true, want false: one taking cannot satisfy two rules")
	}
	children := result.Result.CountOf.Results
	if children[0].Status != StatusPass || children[1].Status != StatusFail {
		t.Errorf("child statuses = %v, %v, want pass, fail", children[0].Status, children[1].Status)
	}
	if len(result.Reservations) != 1 {
		t.Errorf("Reservations = %d entries, want 1", len(result.Reservations))
	}
}

func TestAudit_TheseCoursesThresholdNotMet(t *testing.T) {
	// Only one of two listed courses is on the transcript; the pool falls
	// short and nothing is committed.
	student := testStudent(
		types.CourseInstance{ID: "0/ASIAN 110/2015-1", Course: "ASIAN 110", Term: "2015-1"},
	)
	area := testArea(rule.NewGiven(rule.GivenRule{
		Given:   rule.GivenTheseCourses,
		Courses: []rule.CourseRule{{Course: "ASIAN 110"}, {Course: "ASIAN 130"}},
		What:    rule.WhatCourses,
		Do:      countGte(2),
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if result.Ok() {
		t.Errorf("Ok() = true, want false")
	}
	if got := result.Result.Given.Quantity; got != 1 {
		t.Errorf("Quantity = %v, want 1", got)
	}
	if len(result.Reservations) != 0 {
		t.Errorf("Reservations = %+v, want empty: failing rules commit nothing", result.Reservations)
	}
}

func TestAudit_EitherOfTwoCommitsOne(t *testing.T) {
	student := testStudent(
		types.CourseInstance{ID: "0/ASIAN 110/2015-1", Course: "ASIAN 110", Term: "2015-1"},
		types.CourseInstance{ID: "1/ASIAN 130/2015-3", Course: "ASIAN 130", Term: "2015-3"},
	)
	area := testArea(rule.NewGiven(rule.GivenRule{
		Given:   rule.GivenTheseCourses,
		Courses: []rule.CourseRule{{Course: "ASIAN 110"}, {Course: "ASIAN 130"}},
		What:    rule.WhatCourses,
		Do:      countGte(1),
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if !result.Ok() {
		t.Fatalf("Ok() = false, want true")
	}
	// count >= 1 needs one contributing course; the other stays free.
	if len(result.Reservations) != 1 {
		t.Errorf("Reservations = %d entries, want 1", len(result.Reservations))
	}
	if result.Reservations[0].CourseID != "0/ASIAN 110/2015-1" {
		t.Errorf("reserved = %q, want first pool entry", result.Reservations[0].CourseID)
	}
}

func TestAudit_FilteredDistinctCourses(t *testing.T) {
	// Two distinct FOL-C courses pass the threshold; the SPM course never
	// enters the pool and stays unreserved.
	student := testStudent(
		types.CourseInstance{ID: "0/SPAN 301/2015-1", Course: "SPAN 301", Term: "2015-1", GerEqs: []string{"FOL-C"}},
		types.CourseInstance{ID: "1/CHIN 301/2015-3", Course: "CHIN 301", Term: "2015-3", GerEqs: []string{"FOL-C"}},
		types.CourseInstance{ID: "2/ESTH 110/2015-1", Course: "ESTH 110", Term: "2015-1", GerEqs: []string{"SPM"}},
	)
	area := testArea(rule.NewGiven(rule.GivenRule{
		Given: rule.GivenAllCourses,
		Where: rule.Clause{"gereqs": {Single: &rule.Comparison{Op: rule.OpEq, Value: "FOL-C"}}},
		What:  rule.WhatDistinctCourses,
		Do:    countGte(2),
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if !result.Ok() {
		t.Fatalf("Ok() = false, want true")
	}
	if got := result.Result.Given.Quantity; got != 2 {
		t.Errorf("Quantity = %v, want 2", got)
	}
	for _, res := range result.Reservations {
		if res.CourseID == "2/ESTH 110/2015-1" {
			t.Errorf("SPM course reserved, want it left available")
		}
	}
}

func TestAudit_DistinctCoursesCommitWholePool(t *testing.T) {
	// Two takings of one code plus a second code: the distinct count is
	// 2, but the first two pool entries share a code. Every pooled
	// course is reserved, not just a prefix of the pool.
	student := testStudent(
		types.CourseInstance{ID: "0/DANCE 100/2015-1", Course: "DANCE 100", Term: "2015-1"},
		types.CourseInstance{ID: "1/DANCE 100/2015-3", Course: "DANCE 100", Term: "2015-3"},
		types.CourseInstance{ID: "2/DANCE 200/2016-1", Course: "DANCE 200", Term: "2016-1"},
	)
	area := testArea(rule.NewGiven(rule.GivenRule{
		Given: rule.GivenAllCourses,
		What:  rule.WhatDistinctCourses,
		Do:    countGte(2),
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if !result.Ok() {
		t.Fatalf("Ok() = false, want true")
	}
	if got := result.Result.Given.Quantity; got != 2 {
		t.Errorf("Quantity = %v, want 2 distinct codes", got)
	}
	if len(result.Reservations) != 3 {
		t.Errorf("Reservations = %d entries, want 3: the contributing DANCE 200 taking must not stay free", len(result.Reservations))
	}
}

func TestAudit_CountOfTwoOfThree(t *testing.T) {
	student := testStudent(
		types.CourseInstance{ID: "0/ASIAN 110/2015-1", Course: "ASIAN 110", Term: "2015-1"},
		types.CourseInstance{ID: "1/ASIAN 130/2015-3", Course: "ASIAN 130", Term: "2015-3"},
	)
	area := testArea(rule.NewCountOf(rule.CountOfRule{
		Count: rule.Counter{Kind: rule.CounterNumber, N: 2},
		Of: []rule.Rule{
			rule.NewCourseRule(rule.CourseRule{Course: "ASIAN 110"}),
			rule.NewCourseRule(rule.CourseRule{Course: "ASIAN 130"}),
			rule.NewCourseRule(rule.CourseRule{Course: "ASIAN 230"}),
		},
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if !result.Ok() {
		t.Fatalf("Ok() = false, want true")
	}
	ev := result.Result.CountOf
	if ev.Needed != 2 || ev.Passed != 2 {
		t.Errorf("Needed = %d, Passed = %d, want 2, 2", ev.Needed, ev.Passed)
	}
	// The counter is satisfied after two passes; the third child is
	// skipped and its course stays available.
	if ev.Results[2].Status != StatusSkipped {
		t.Errorf("third child Status = %v, want skipped", ev.Results[2].Status)
	}
}

func TestAudit_CountOfSurplusReserve(t *testing.T) {
	student := testStudent(
		types.CourseInstance{ID: "0/ASIAN 110/2015-1", Course: "ASIAN 110", Term: "2015-1"},
		types.CourseInstance{ID: "1/ASIAN 130/2015-3", Course: "ASIAN 130", Term: "2015-3"},
		types.CourseInstance{ID: "2/ASIAN 230/2016-1", Course: "ASIAN 230", Term: "2016-1"},
	)
	area := testArea(rule.NewCountOf(rule.CountOfRule{
		Count:   rule.Counter{Kind: rule.CounterNumber, N: 2},
		Surplus: rule.SurplusReserve,
		Of: []rule.Rule{
			rule.NewCourseRule(rule.CourseRule{Course: "ASIAN 110"}),
			rule.NewCourseRule(rule.CourseRule{Course: "ASIAN 130"}),
			rule.NewCourseRule(rule.CourseRule{Course: "ASIAN 230"}),
		},
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if !result.Ok() {
		t.Fatalf("Ok() = false, want true")
	}
	// Reserve-surplus keeps evaluating past the threshold and consumes
	// the third course too.
	if len(result.Reservations) != 3 {
		t.Errorf("Reservations = %d entries, want 3", len(result.Reservations))
	}
}

func TestAudit_UndefinedVariable(t *testing.T) {
	student := testStudent(
		types.CourseInstance{ID: "0/ASIAN 110/2015-1", Course: "ASIAN 110", Term: "2015-1"},
	)
	area := testArea(rule.NewGiven(rule.GivenRule{
		Given:    rule.GivenNamedVariable,
		Variable: "$interim_courses",
		What:     rule.WhatCourses,
		Do:       countGte(1),
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if result.Result.Status != StatusError {
		t.Fatalf("Status = %v, want error: undefined variables are never pass or fail", result.Result.Status)
	}
	if !errors.Is(result.Result.Err, types.ErrUndefinedVariable) {
		t.Errorf("Err = %v, want ErrUndefinedVariable", result.Result.Err)
	}
}

func TestAudit_SaveAndRead(t *testing.T) {
	student := testStudent(
		types.CourseInstance{ID: "0/CSCI 121/2015-2", Course: "CSCI 121", Term: "2015-2", Semester: "Interim", Credits: 1.0},
		types.CourseInstance{ID: "1/ASIAN 110/2015-1", Course: "ASIAN 110", Term: "2015-1", Semester: "Fall", Credits: 1.0},
	)

	saver := &rule.Requirement{
		Name: "Interim",
		Result: rule.NewGiven(rule.GivenRule{
			Given: rule.GivenAllCourses,
			Where: rule.Clause{"semester": {Single: &rule.Comparison{Op: rule.OpEq, Value: "Interim"}}},
			Save:  "$interim_courses",
			What:  rule.WhatCourses,
			Do:    countGte(1),
		}),
	}

	reader := rule.NewGiven(rule.GivenRule{
		Given:    rule.GivenNamedVariable,
		Variable: "$interim_courses",
		What:     rule.WhatCredits,
		Do:       rule.Action{Command: rule.CommandSum, Op: rule.OperatorGreaterThanEqualTo, Value: 1.0},
	})

	area := testArea(rule.NewCountOf(rule.CountOfRule{
		Count: rule.Counter{Kind: rule.CounterAll},
		Of: []rule.Rule{
			rule.NewRequirementRef(rule.RequirementRef{Requirement: "Interim"}),
			reader,
		},
	}), saver)

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if !result.Ok() {
		t.Fatalf("Ok() = false, want true")
	}
	children := result.Result.CountOf.Results
	if got := children[1].Given.Quantity; got != 1.0 {
		t.Errorf("reader Quantity = %v, want 1.0 credit from the saved pool", got)
	}
}

func TestAudit_SavePublishesOnFail(t *testing.T) {
	// Saves are declarations: the pool publishes even when the saving
	// rule's own threshold fails.
	student := testStudent(
		types.CourseInstance{ID: "0/CSCI 121/2015-2", Course: "CSCI 121", Term: "2015-2", Semester: "Interim"},
	)

	failingSaver := rule.NewGiven(rule.GivenRule{
		Given: rule.GivenAllCourses,
		Where: rule.Clause{"semester": {Single: &rule.Comparison{Op: rule.OpEq, Value: "Interim"}}},
		Save:  "$interim_courses",
		What:  rule.WhatCourses,
		Do:    countGte(99),
	})
	reader := rule.NewGiven(rule.GivenRule{
		Given:    rule.GivenNamedVariable,
		Variable: "$interim_courses",
		What:     rule.WhatCourses,
		Do:       countGte(1),
	})

	area := testArea(rule.NewCountOf(rule.CountOfRule{
		Count: rule.Counter{Kind: rule.CounterAny},
		Of:    []rule.Rule{failingSaver, reader},
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	children := result.Result.CountOf.Results
	if children[0].Status != StatusFail {
		t.Fatalf("saver Status = %v, want fail", children[0].Status)
	}
	if children[1].Status != StatusPass {
		t.Errorf("reader Status = %v, want pass against the published pool", children[1].Status)
	}
}

func TestAudit_VariableRedefined(t *testing.T) {
	student := testStudent(
		types.CourseInstance{ID: "0/CSCI 121/2015-2", Course: "CSCI 121", Term: "2015-2"},
	)

	saver := func() rule.Rule {
		return rule.NewGiven(rule.GivenRule{
			Given: rule.GivenAllCourses,
			Save:  "$x",
			What:  rule.WhatCourses,
			Do:    countGte(1),
		})
	}

	area := testArea(rule.NewCountOf(rule.CountOfRule{
		Count:   rule.Counter{Kind: rule.CounterAll},
		Surplus: rule.SurplusReserve,
		Of:      []rule.Rule{saver(), saver()},
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	children := result.Result.CountOf.Results
	if children[1].Status != StatusError {
		t.Fatalf("second saver Status = %v, want error", children[1].Status)
	}
	if !errors.Is(children[1].Err, types.ErrVariableRedefined) {
		t.Errorf("Err = %v, want ErrVariableRedefined", children[1].Err)
	}
}

func TestAudit_OptionalMissingRequirementSkipped(t *testing.T) {
	student := testStudent(
		types.CourseInstance{ID: "0/ASIAN 110/2015-1", Course: "ASIAN 110", Term: "2015-1"},
	)
	area := testArea(rule.NewCountOf(rule.CountOfRule{
		Count: rule.Counter{Kind: rule.CounterAll},
		Of: []rule.Rule{
			rule.NewCourseRule(rule.CourseRule{Course: "ASIAN 110"}),
			rule.NewRequirementRef(rule.RequirementRef{Requirement: "Emphasis", Optional: true}),
		},
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if !result.Ok() {
		t.Fatalf("Ok() = false, want true: skipped optional leaves the all-denominator")
	}
	ev := result.Result.CountOf
	if ev.Needed != 1 || ev.Passed != 1 {
		t.Errorf("Needed = %d, Passed = %d, want 1, 1", ev.Needed, ev.Passed)
	}
	if ev.Results[1].Status != StatusSkipped {
		t.Errorf("optional ref Status = %v, want skipped", ev.Results[1].Status)
	}
}

func TestAudit_UnknownRequirementIsError(t *testing.T) {
	student := testStudent()
	area := testArea(rule.NewRequirementRef(rule.RequirementRef{Requirement: "Nope"}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if result.Result.Status != StatusError {
		t.Fatalf("Status = %v, want error", result.Result.Status)
	}
	if !errors.Is(result.Result.Err, types.ErrUnknownRequirement) {
		t.Errorf("Err = %v, want ErrUnknownRequirement", result.Result.Err)
	}
}

func TestAudit_RequirementCycle(t *testing.T) {
	student := testStudent()
	selfRef := &rule.Requirement{
		Name:   "Core",
		Result: rule.NewRequirementRef(rule.RequirementRef{Requirement: "Core"}),
	}
	area := testArea(rule.NewRequirementRef(rule.RequirementRef{Requirement: "Core"}), selfRef)

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if result.Result.Status != StatusError {
		t.Fatalf("Status = %v, want error", result.Result.Status)
	}
	if !errors.Is(result.Result.Err, types.ErrRequirementCycle) {
		t.Errorf("Err = %v, want ErrRequirementCycle", result.Result.Err)
	}
}

func TestAudit_CounterOutOfRangeIsError(t *testing.T) {
	student := testStudent()
	area := testArea(rule.NewCountOf(rule.CountOfRule{
		Count: rule.Counter{Kind: rule.CounterNumber, N: 5},
		Of:    []rule.Rule{rule.NewCourseRule(rule.CourseRule{Course: "ASIAN 110"})},
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if result.Result.Status != StatusError {
		t.Fatalf("Status = %v, want error: malformed counters never coerce to fail", result.Result.Status)
	}
	if !errors.Is(result.Result.Err, types.ErrCounterOutOfRange) {
		t.Errorf("Err = %v, want ErrCounterOutOfRange", result.Result.Err)
	}
}

func TestAudit_Limiter(t *testing.T) {
	// Three interim courses, at most one may count.
	student := testStudent(
		types.CourseInstance{ID: "0/A 1/2015-2", Course: "A 1", Term: "2015-2", Semester: "Interim"},
		types.CourseInstance{ID: "1/B 1/2015-2", Course: "B 1", Term: "2015-2", Semester: "Interim"},
		types.CourseInstance{ID: "2/C 1/2015-1", Course: "C 1", Term: "2015-1", Semester: "Fall"},
	)
	area := testArea(rule.NewGiven(rule.GivenRule{
		Given: rule.GivenAllCourses,
		Limit: []rule.Limiter{{
			AtMost: 1,
			Where:  rule.Clause{"semester": {Single: &rule.Comparison{Op: rule.OpEq, Value: "Interim"}}},
		}},
		What: rule.WhatCourses,
		Do:   countGte(1),
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if got := result.Result.Given.Quantity; got != 2 {
		t.Errorf("Quantity = %v, want 2: one interim course plus the fall course", got)
	}
}

func TestAudit_AreasOfStudy(t *testing.T) {
	student := testStudent()
	student.Areas = []types.AreaOfStudy{{Type: "major", Name: "Computer Science"}}

	area := testArea(rule.NewGiven(rule.GivenRule{
		Given: rule.GivenAreasOfStudy,
		Where: rule.Clause{"type": {Single: &rule.Comparison{Op: rule.OpEq, Value: "major"}}},
		What:  rule.WhatAreasOfStudy,
		Do:    countGte(1),
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if !result.Ok() {
		t.Fatalf("Ok() = false, want true")
	}
	if len(result.Result.Given.Areas) != 1 {
		t.Errorf("Areas evidence = %d entries, want 1", len(result.Result.Given.Areas))
	}
	if len(result.Reservations) != 0 {
		t.Errorf("Reservations = %+v, want empty: declared areas are never reserved", result.Reservations)
	}
}

func TestAudit_Performances(t *testing.T) {
	student := testStudent()
	student.Performances = []types.PerformanceRecord{
		{ID: "pf-1", Name: "Entrance Audition", Year: 2015, Term: 1, Status: "entrance"},
		{ID: "pf-2", Name: "Fall Recital", Year: 2015, Term: 3},
		{ID: "pf-3", Name: "Spring Recital", Year: 2016, Term: 1},
	}

	area := testArea(rule.NewGiven(rule.GivenRule{
		Given: rule.GivenPerformances,
		What:  rule.WhatPerformances,
		Do:    countGte(2),
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if !result.Ok() {
		t.Fatalf("Ok() = false, want true")
	}
	if got := result.Result.Given.Quantity; got != 3 {
		t.Errorf("Quantity = %v, want 3", got)
	}
	if len(result.Result.Given.Performances) != 3 {
		t.Errorf("Performances evidence = %d entries, want 3", len(result.Result.Given.Performances))
	}
	if len(result.Reservations) != 0 {
		t.Errorf("Reservations = %+v, want empty: performances are never reserved", result.Reservations)
	}
}

func TestAudit_PerformancesFiltered(t *testing.T) {
	// A status clause never matches a record with no status.
	student := testStudent()
	student.Performances = []types.PerformanceRecord{
		{ID: "pf-1", Name: "Entrance Audition", Year: 2015, Term: 1, Status: "entrance"},
		{ID: "pf-2", Name: "Fall Recital", Year: 2015, Term: 3},
	}

	area := testArea(rule.NewGiven(rule.GivenRule{
		Given: rule.GivenPerformances,
		Where: rule.Clause{"status": {Single: &rule.Comparison{Op: rule.OpEq, Value: "entrance"}}},
		What:  rule.WhatPerformances,
		Do:    countGte(1),
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if !result.Ok() {
		t.Fatalf("Ok() = false, want true")
	}
	if got := result.Result.Given.Quantity; got != 1 {
		t.Errorf("Quantity = %v, want 1", got)
	}
}

func TestAudit_Attendances(t *testing.T) {
	student := testStudent()
	student.Attendances = []types.AttendanceRecord{
		{ID: "at-1", Name: "Faculty Recital", Year: 2015, Term: 1},
		{ID: "at-2", Name: "Guest Artist Series", Year: 2016, Term: 1},
	}

	area := testArea(rule.NewGiven(rule.GivenRule{
		Given: rule.GivenAttendances,
		Where: rule.Clause{"year": {Single: &rule.Comparison{Op: rule.OpEq, Value: 2015}}},
		What:  rule.WhatAttendances,
		Do:    countGte(10),
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if result.Ok() {
		t.Errorf("Ok() = true, want false")
	}
	if got := result.Result.Given.Quantity; got != 1 {
		t.Errorf("Quantity = %v, want 1 after the year filter", got)
	}
	if len(result.Result.Given.Attendances) != 1 {
		t.Errorf("Attendances evidence = %d entries, want 1", len(result.Result.Given.Attendances))
	}
}

func TestAudit_GradesAverage(t *testing.T) {
	student := testStudent(
		types.CourseInstance{ID: "0/A 1/2015-1", Course: "A 1", Term: "2015-1", Grade: "A"},
		types.CourseInstance{ID: "1/B 1/2015-3", Course: "B 1", Term: "2015-3", Grade: "B"},
		types.CourseInstance{ID: "2/C 1/2016-1", Course: "C 1", Term: "2016-1", Grade: "P"},
	)
	area := testArea(rule.NewGiven(rule.GivenRule{
		Given: rule.GivenAllCourses,
		What:  rule.WhatGrades,
		Do:    rule.Action{Command: rule.CommandAverage, Op: rule.OperatorGreaterThanEqualTo, Value: 3.0},
	}))

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	// Pass/no-pass grades carry no points and leave the mean.
	if got := result.Result.Given.Quantity; got != 3.5 {
		t.Errorf("Quantity = %v, want 3.5", got)
	}
	if !result.Ok() {
		t.Errorf("Ok() = false, want true")
	}
}

func TestAudit_RepeatModes(t *testing.T) {
	transcript := []types.CourseInstance{
		{ID: "0/CSCI 121/2015-1", Course: "CSCI 121", Term: "2015-1"},
		{ID: "1/CSCI 121/2015-3", Course: "CSCI 121", Term: "2015-3"},
	}

	t.Run("all counts every taking", func(t *testing.T) {
		area := testArea(rule.NewGiven(rule.GivenRule{
			Given:   rule.GivenTheseCourses,
			Courses: []rule.CourseRule{{Course: "CSCI 121"}},
			Repeats: rule.RepeatAll,
			What:    rule.WhatCourses,
			Do:      countGte(2),
		}))
		result, err := Audit(area, testStudent(transcript...))
		if err != nil {
			t.Fatalf("Audit() error = %v, want nil", err)
		}
		if !result.Ok() {
			t.Errorf("Ok() = false, want true with both takings pooled")
		}
	})

	t.Run("first selects one taking", func(t *testing.T) {
		area := testArea(rule.NewGiven(rule.GivenRule{
			Given:   rule.GivenTheseCourses,
			Courses: []rule.CourseRule{{Course: "CSCI 121"}},
			Repeats: rule.RepeatFirst,
			What:    rule.WhatCourses,
			Do:      countGte(1),
		}))
		result, err := Audit(area, testStudent(transcript...))
		if err != nil {
			t.Fatalf("Audit() error = %v, want nil", err)
		}
		if !result.Ok() {
			t.Fatalf("Ok() = false, want true")
		}
		if got := result.Result.Given.Courses; len(got) != 1 || got[0].ID != "0/CSCI 121/2015-1" {
			t.Errorf("pool = %+v, want the first taking only", got)
		}
	})

	t.Run("last selects the final taking", func(t *testing.T) {
		area := testArea(rule.NewGiven(rule.GivenRule{
			Given:   rule.GivenTheseCourses,
			Courses: []rule.CourseRule{{Course: "CSCI 121"}},
			Repeats: rule.RepeatLast,
			What:    rule.WhatCourses,
			Do:      countGte(1),
		}))
		result, err := Audit(area, testStudent(transcript...))
		if err != nil {
			t.Fatalf("Audit() error = %v, want nil", err)
		}
		if got := result.Result.Given.Courses; len(got) != 1 || got[0].ID != "1/CSCI 121/2015-3" {
			t.Errorf("pool = %+v, want the last taking only", got)
		}
	})
}

func TestAudit_TheseRequirementsPool(t *testing.T) {
	student := testStudent(
		types.CourseInstance{ID: "0/ASIAN 110/2015-1", Course: "ASIAN 110", Term: "2015-1", Credits: 1.0},
		types.CourseInstance{ID: "1/ASIAN 130/2015-3", Course: "ASIAN 130", Term: "2015-3", Credits: 1.0},
	)

	reqA := &rule.Requirement{Name: "A", Result: rule.NewCourseRule(rule.CourseRule{Course: "ASIAN 110"})}
	reqB := &rule.Requirement{Name: "B", Result: rule.NewCourseRule(rule.CourseRule{Course: "ASIAN 130"})}

	area := testArea(rule.NewGiven(rule.GivenRule{
		Given:        rule.GivenTheseRequirements,
		Requirements: []rule.RequirementRef{{Requirement: "A"}, {Requirement: "B"}},
		What:         rule.WhatCredits,
		Do:           rule.Action{Command: rule.CommandSum, Op: rule.OperatorGreaterThanEqualTo, Value: 2.0},
	}), reqA, reqB)

	result, err := Audit(area, student)
	if err != nil {
		t.Fatalf("Audit() error = %v, want nil", err)
	}

	if !result.Ok() {
		t.Fatalf("Ok() = false, want true: both requirements' courses pool into 2 credits")
	}
	if got := result.Result.Given.Quantity; got != 2.0 {
		t.Errorf("Quantity = %v, want 2.0", got)
	}
}

func TestAudit_NilInputs(t *testing.T) {
	area := testArea(rule.NewCourseRule(rule.CourseRule{Course: "ASIAN 110"}))

	if _, err := Audit(nil, testStudent()); err == nil {
		t.Errorf("Audit(nil, student) error = nil, want error")
	}
	if _, err := Audit(area, nil); err == nil {
		t.Errorf("Audit(area, nil) error = nil, want error")
	}
}
