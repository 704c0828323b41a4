package areafile

import (
	"testing"

	"github.com/solatis/degreeaudit/internal/rule"
)

const asianStudiesDoc = `
name: Asian Studies
type: major
catalog: 2015-16
result:
  count: all
  of:
    - requirement: Core
    - requirement: Electives
requirements:
  Core:
    message: Complete the language core.
    result:
      given: courses
      where:
        gereqs: FOL-C
      what: distinct courses
      do: count >= 2
  Electives:
    result:
      count: 2
      of:
        - ASIAN 110
        - ASIAN 130
        - course: ASIAN 230
          year: 2015
`

func TestParse_FullDocument(t *testing.T) {
	area, err := Parse([]byte(asianStudiesDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}

	if area.Name != "Asian Studies" || area.Type != "major" || area.Catalog != "2015-16" {
		t.Errorf("header = %q/%q/%q, want Asian Studies/major/2015-16", area.Name, area.Type, area.Catalog)
	}

	if area.Result.Kind != rule.RuleCountOf {
		t.Fatalf("result Kind = %v, want count-of", area.Result.Kind)
	}
	if got := area.Result.CountOf.Count.Kind; got != rule.CounterAll {
		t.Errorf("result counter = %v, want all", got)
	}

	// Document order survives parsing.
	if len(area.Requirements) != 2 {
		t.Fatalf("requirements = %d, want 2", len(area.Requirements))
	}
	if area.Requirements[0].Name != "Core" || area.Requirements[1].Name != "Electives" {
		t.Errorf("requirement order = %q, %q, want Core, Electives", area.Requirements[0].Name, area.Requirements[1].Name)
	}
	if area.Requirements[0].Message == "" {
		t.Errorf("Core message dropped")
	}

	core := area.Requirements[0].Result
	if core.Kind != rule.RuleGiven {
		t.Fatalf("Core Kind = %v, want given", core.Kind)
	}
	g := core.Given
	if g.Given != rule.GivenAllCourses || g.What != rule.WhatDistinctCourses {
		t.Errorf("Core given/what = %v/%v, want courses/distinct courses", g.Given, g.What)
	}
	if g.Do != (rule.Action{Command: rule.CommandCount, Op: rule.OperatorGreaterThanEqualTo, Value: 2}) {
		t.Errorf("Core do = %+v, want count >= 2", g.Do)
	}
	wrapped, ok := g.Where["gereqs"]
	if !ok || wrapped.Single == nil || wrapped.Single.Value != "FOL-C" {
		t.Errorf("Core where = %+v, want gereqs = FOL-C", g.Where)
	}

	electives := area.Requirements[1].Result
	if electives.Kind != rule.RuleCountOf {
		t.Fatalf("Electives Kind = %v, want count-of", electives.Kind)
	}
	co := electives.CountOf
	if co.Count != (rule.Counter{Kind: rule.CounterNumber, N: 2}) {
		t.Errorf("Electives counter = %+v, want 2", co.Count)
	}
	if len(co.Of) != 3 {
		t.Fatalf("Electives children = %d, want 3", len(co.Of))
	}
	// Bare string shorthand and expanded mapping both parse as course rules.
	if co.Of[0].Kind != rule.RuleCourse || co.Of[0].Course.Course != "ASIAN 110" {
		t.Errorf("of[0] = %+v, want course ASIAN 110", co.Of[0])
	}
	expanded := co.Of[2]
	if expanded.Course.Course != "ASIAN 230" || expanded.Course.Year == nil || *expanded.Course.Year != 2015 {
		t.Errorf("of[2] = %+v, want ASIAN 230 during 2015", expanded.Course)
	}
}

func TestParse_GivenVariants(t *testing.T) {
	doc := `
name: Variants
type: major
catalog: 2015-16
result:
  count: all
  of:
    - given: these courses
      courses:
        - ASIAN 110
        - ASIAN 130
      what: courses
      do: count >= 1
    - given: courses
      where:
        semester: Interim
      save as: $interim_courses
      what: courses
      do: count >= 0
    - given: save
      save: $interim_courses
      limit:
        - at_most: 1
          where:
            gereqs: SPM
      what: credits
      do: sum >= 1
    - given: areas of study
      where:
        type: major
      what: areas of study
      do: count >= 1
    - given: performances
      where:
        status: entrance
      what: performances
      do: count >= 1
    - given: attendances
      what: attendances
      do: count >= 10
`
	area, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}

	of := area.Result.CountOf.Of

	these := of[0].Given
	if these.Given != rule.GivenTheseCourses || len(these.Courses) != 2 {
		t.Errorf("these courses = %+v, want two listed courses", these)
	}

	saver := of[1].Given
	if saver.Save != "$interim_courses" {
		t.Errorf("save as = %q, want $interim_courses", saver.Save)
	}

	reader := of[2].Given
	if reader.Given != rule.GivenNamedVariable || reader.Variable != "$interim_courses" {
		t.Errorf("reader = %+v, want named-variable read of $interim_courses", reader)
	}
	if len(reader.Limit) != 1 || reader.Limit[0].AtMost != 1 {
		t.Fatalf("reader limits = %+v, want one at_most: 1 limiter", reader.Limit)
	}
	if reader.What != rule.WhatCredits || reader.Do.Command != rule.CommandSum {
		t.Errorf("reader what/do = %v/%+v, want credits/sum", reader.What, reader.Do)
	}

	areas := of[3].Given
	if areas.Given != rule.GivenAreasOfStudy || areas.What != rule.WhatAreasOfStudy {
		t.Errorf("areas rule = %+v, want areas-of-study source and what", areas)
	}

	performances := of[4].Given
	if performances.Given != rule.GivenPerformances || performances.What != rule.WhatPerformances {
		t.Errorf("performances rule = %+v, want performances source and what", performances)
	}
	status := performances.Where["status"].Single
	if status == nil || status.Value != "entrance" {
		t.Errorf("performances where = %+v, want status = entrance", performances.Where)
	}

	attendances := of[5].Given
	if attendances.Given != rule.GivenAttendances || attendances.What != rule.WhatAttendances {
		t.Errorf("attendances rule = %+v, want attendances source and what", attendances)
	}
	if n, ok := attendances.Do.IntValue(); !ok || n != 10 {
		t.Errorf("attendances do = %+v, want count >= 10", attendances.Do)
	}
}

func TestParse_WhereOperators(t *testing.T) {
	doc := `
name: Operators
type: major
catalog: 2015-16
result:
  given: courses
  where:
    level: ">= 200"
    year: "! 2015"
    semester:
      - Fall
      - Interim
  what: courses
  do: count >= 1
`
	area, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}

	where := area.Result.Given.Where

	level := where["level"].Single
	if level == nil || level.Op != rule.OpGte || level.Value != 200 {
		t.Errorf("level = %+v, want >= 200", level)
	}

	year := where["year"].Single
	if year == nil || year.Op != rule.OpNeq || year.Value != 2015 {
		t.Errorf("year = %+v, want ! 2015", year)
	}

	semesters := where["semester"].Or
	if len(semesters) != 2 || semesters[0].Value != "Fall" || semesters[1].Value != "Interim" {
		t.Errorf("semester = %+v, want OR of Fall, Interim", semesters)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "no result rule",
			doc:  "name: Broken\ntype: major\ncatalog: 2015-16\n",
		},
		{
			name: "unknown given source",
			doc: `
name: Broken
type: major
catalog: 2015-16
result:
  given: everything
  what: courses
  do: count >= 1
`,
		},
		{
			name: "unknown what",
			doc: `
name: Broken
type: major
catalog: 2015-16
result:
  given: courses
  what: professors
  do: count >= 1
`,
		},
		{
			name: "bad count token",
			doc: `
name: Broken
type: major
catalog: 2015-16
result:
  count: most
  of:
    - ASIAN 110
`,
		},
		{
			name: "unknown filter key rejected at load",
			doc: `
name: Broken
type: major
catalog: 2015-16
result:
  given: courses
  where:
    gereq: FOL-C
  what: courses
  do: count >= 1
`,
		},
		{
			name: "dangling requirement reference",
			doc: `
name: Broken
type: major
catalog: 2015-16
result:
  requirement: Nope
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Errorf("Parse() error = nil, want error")
			}
		})
	}
}
