// Package render turns rule trees and evaluated results into prose for
// humans. Pure presentation: it consumes the rule and result models and
// makes no audit decisions.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/solatis/degreeaudit/internal/audit"
	"github.com/solatis/degreeaudit/internal/rule"
)

// Rule renders one rule node as a sentence fragment.
func Rule(r rule.Rule) string {
	switch r.Kind {
	case rule.RuleCourse:
		return "take " + courseRule(*r.Course)
	case rule.RuleRequirement:
		return requirementRef(*r.Requirement)
	case rule.RuleCountOf:
		return countOf(*r.CountOf)
	case rule.RuleGiven:
		return given(*r.Given)
	default:
		return "(malformed rule)"
	}
}

// courseRule renders a course leaf: the code plus any extra constraints.
func courseRule(r rule.CourseRule) string {
	var sb strings.Builder
	sb.WriteString(r.Course)

	var extras []string
	if r.Term != "" {
		extras = append(extras, "term "+r.Term)
	}
	if r.Section != "" {
		extras = append(extras, "section "+r.Section)
	}
	if r.Year != nil {
		extras = append(extras, fmt.Sprintf("during %d", *r.Year))
	}
	if r.Semester != "" {
		extras = append(extras, "in "+r.Semester)
	}
	if r.Lab != nil && *r.Lab {
		extras = append(extras, "with lab")
	}
	if r.International != nil && *r.International {
		extras = append(extras, "international")
	}
	if len(extras) > 0 {
		sb.WriteString(" (" + strings.Join(extras, ", ") + ")")
	}
	return sb.String()
}

func requirementRef(r rule.RequirementRef) string {
	out := fmt.Sprintf("complete the %q requirement", r.Requirement)
	if r.Optional {
		out += " (optional)"
	}
	return out
}

// countOf renders the aggregation shapes: single children inline,
// either/both as one sentence, larger lists as bullet blocks.
func countOf(r rule.CountOfRule) string {
	switch {
	case r.IsSingle():
		return Rule(r.Of[0])
	case r.IsEither():
		return fmt.Sprintf("do either of:\n%s", bullets(r.Of))
	case r.IsBoth():
		return fmt.Sprintf("do both of:\n%s", bullets(r.Of))
	case r.IsAll():
		return fmt.Sprintf("do all of the following:\n%s", bullets(r.Of))
	case r.IsAny():
		return fmt.Sprintf("do any of the following:\n%s", bullets(r.Of))
	default:
		return fmt.Sprintf("do %s of the following:\n%s", numberWord(r.Count.N), bullets(r.Of))
	}
}

func bullets(rules []rule.Rule) string {
	lines := make([]string, 0, len(rules))
	for _, r := range rules {
		lines = append(lines, indent("- "+Rule(r), ""))
	}
	return strings.Join(lines, "\n")
}

// given renders the composite rule, wording by source and quantity
// combination. The two-course either/both shapes get their fixed prose.
func given(g rule.GivenRule) string {
	filter := clauseSuffix(g.Where)

	switch g.Given {
	case rule.GivenTheseCourses:
		if len(g.Courses) == 2 && g.Repeats != rule.RepeatAll && g.What == rule.WhatCourses {
			if n, ok := g.Do.IntValue(); ok && g.Do.Command == rule.CommandCount {
				if n == 1 {
					return fmt.Sprintf("take either %s or %s", courseRule(g.Courses[0]), courseRule(g.Courses[1]))
				}
				return fmt.Sprintf("take both %s and %s", courseRule(g.Courses[0]), courseRule(g.Courses[1]))
			}
		}
		if len(g.Courses) == 1 {
			if g.Repeats == rule.RepeatAll && g.What != rule.WhatCourses {
				return fmt.Sprintf("take %s enough times to obtain %s %s",
					courseRule(g.Courses[0]), action(g.Do), noun(g))
			}
			if g.Repeats == rule.RepeatAll {
				return fmt.Sprintf("take %s %s %s", courseRule(g.Courses[0]), action(g.Do), times(g.Do))
			}
			return "take " + courseRule(g.Courses[0])
		}
		names := make([]string, 0, len(g.Courses))
		for _, c := range g.Courses {
			names = append(names, courseRule(c))
		}
		return fmt.Sprintf("take %s %s from among %s%s", action(g.Do), noun(g), oxford(names, "and"), filter)

	case rule.GivenTheseRequirements:
		names := make([]string, 0, len(g.Requirements))
		for _, ref := range g.Requirements {
			names = append(names, fmt.Sprintf("%q", ref.Requirement))
		}
		return fmt.Sprintf("%s from among courses matched by the %s requirements",
			quantitySentence(g, filter), oxford(names, "and"))

	case rule.GivenAreasOfStudy:
		return fmt.Sprintf("declare %s %s%s", action(g.Do), areaNoun(g), filter)

	case rule.GivenNamedVariable:
		return fmt.Sprintf("in the subset %q, there must be %s %s%s",
			g.Variable, action(g.Do), noun(g), filter)

	case rule.GivenPerformances:
		return fmt.Sprintf("perform %s %s%s", action(g.Do), pluralize("recital", g.Do.ShouldPluralize()), filter)

	case rule.GivenAttendances:
		return fmt.Sprintf("attend %s %s%s", action(g.Do), pluralize("recital", g.Do.ShouldPluralize()), filter)

	default:
		return quantitySentence(g, filter)
	}
}

// quantitySentence renders the generic take/maintain/span wordings.
func quantitySentence(g rule.GivenRule, filter string) string {
	switch g.What {
	case rule.WhatCourses, rule.WhatDistinctCourses:
		return fmt.Sprintf("take %s %s%s", action(g.Do), noun(g), filter)
	case rule.WhatCredits:
		return fmt.Sprintf("take enough courses%s to obtain %s %s", filter, action(g.Do), noun(g))
	case rule.WhatDepartments, rule.WhatTerms:
		return fmt.Sprintf("take enough courses%s to span %s %s", filter, action(g.Do), noun(g))
	case rule.WhatGrades:
		return fmt.Sprintf("maintain an average GPA %s from courses%s", action(g.Do), filter)
	default:
		return fmt.Sprintf("take %s %s%s", action(g.Do), noun(g), filter)
	}
}

// noun returns the quantity's noun, pluralized per the action.
func noun(g rule.GivenRule) string {
	plural := g.Do.ShouldPluralize()
	switch g.What {
	case rule.WhatCourses:
		return pluralize("course", plural)
	case rule.WhatDistinctCourses:
		if plural {
			return "distinct courses"
		}
		return "course"
	case rule.WhatCredits:
		return pluralize("credit", plural)
	case rule.WhatDepartments:
		return pluralize("department", plural)
	case rule.WhatTerms:
		return pluralize("term", plural)
	case rule.WhatGrades:
		return pluralize("course", plural)
	default:
		return pluralize("course", plural)
	}
}

func areaNoun(g rule.GivenRule) string {
	// "declare one major" reads better than "declare one area of study"
	// when the filter pins the type; fall back to the generic noun.
	if g.Where != nil {
		if w, ok := g.Where["type"]; ok && w.Single != nil {
			if s, ok := w.Single.Value.(string); ok && w.Single.Op == rule.OpEq {
				return pluralize(s, g.Do.ShouldPluralize())
			}
		}
	}
	if g.Do.ShouldPluralize() {
		return "areas of study"
	}
	return "area of study"
}

func times(a rule.Action) string {
	if a.ShouldPluralize() {
		return "times"
	}
	return "time"
}

func pluralize(word string, plural bool) string {
	if plural {
		return word + "s"
	}
	return word
}

// action renders a threshold: "at least two", "more than 1.50", "any".
func action(a rule.Action) string {
	if a.Op == rule.OperatorNone {
		return "any"
	}

	value := formatValue(a.Value)
	switch a.Op {
	case rule.OperatorEqualTo:
		return "exactly " + value
	case rule.OperatorGreaterThan:
		return "more than " + value
	case rule.OperatorGreaterThanEqualTo:
		return "at least " + value
	case rule.OperatorLessThan:
		return "fewer than " + value
	case rule.OperatorLessThanEqualTo:
		return "at most " + value
	default:
		return value
	}
}

// formatValue spells small whole numbers out, per catalog style.
func formatValue(v float64) string {
	if v == float64(int(v)) {
		return numberWord(int(v))
	}
	return fmt.Sprintf("%.2f", v)
}

var numberWords = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}

func numberWord(n int) string {
	if n >= 0 && n < len(numberWords) {
		return numberWords[n]
	}
	return fmt.Sprintf("%d", n)
}

// clauseSuffix renders a where clause as a trailing " where ..." phrase.
// Keys sort for stable output.
func clauseSuffix(cl rule.Clause) string {
	if len(cl) == 0 {
		return ""
	}

	keys := make([]string, 0, len(cl))
	for k := range cl {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		wrapped := cl[k]
		if wrapped.Single != nil {
			parts = append(parts, comparisonPhrase(k, *wrapped.Single))
			continue
		}
		ors := make([]string, 0, len(wrapped.Or))
		for _, cmp := range wrapped.Or {
			ors = append(ors, comparisonPhrase(k, cmp))
		}
		parts = append(parts, oxford(ors, "or"))
	}
	return " where " + strings.Join(parts, " and ")
}

func comparisonPhrase(key string, cmp rule.Comparison) string {
	value := fmt.Sprintf("%v", cmp.Value)
	if s, ok := cmp.Value.(string); ok {
		value = fmt.Sprintf("“%s”", s)
	}
	switch cmp.Op {
	case rule.OpEq:
		return fmt.Sprintf("%s = %s", key, value)
	case rule.OpNeq:
		return fmt.Sprintf("%s ≠ %s", key, value)
	default:
		return fmt.Sprintf("%s %s %s", key, cmp.Op, value)
	}
}

// oxford joins a list with commas and a final conjunction.
func oxford(items []string, conj string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " " + conj + " " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", " + conj + " " + items[len(items)-1]
	}
}

// Report renders an evaluated audit as an indented plain-text tree.
func Report(res *audit.AreaResult) string {
	var sb strings.Builder

	verdict := "NOT SATISFIED"
	if res.Ok() {
		verdict = "SATISFIED"
	}
	fmt.Fprintf(&sb, "%q %s (catalog %s): %s\n", res.Area, res.Type, res.Catalog, verdict)
	sb.WriteString("\n")
	sb.WriteString(indent(resultLines(res.Result), "  "))
	sb.WriteString("\n")

	for _, req := range res.Requirements {
		fmt.Fprintf(&sb, "\n%s %q\n", statusGlyph(req.Result.Status), req.Name)
		sb.WriteString(indent(resultLines(req.Result), "  "))
		sb.WriteString("\n")
	}
	return sb.String()
}

// resultLines renders one result subtree, one line per node.
func resultLines(r audit.RuleResult) string {
	var sb strings.Builder
	writeResult(&sb, r, 0)
	return strings.TrimRight(sb.String(), "\n")
}

func writeResult(sb *strings.Builder, r audit.RuleResult, depth int) {
	pad := strings.Repeat("  ", depth)

	switch r.Kind {
	case rule.RuleCourse:
		if r.Course == nil {
			fmt.Fprintf(sb, "%s%s course\n", pad, statusGlyph(r.Status))
			return
		}
		line := "take " + courseRule(r.Course.Rule)
		if r.Course.Matched != nil {
			line += fmt.Sprintf(": matched %s in %s", r.Course.Matched.Course, r.Course.Matched.Term)
		}
		fmt.Fprintf(sb, "%s%s %s\n", pad, statusGlyph(r.Status), line)

	case rule.RuleRequirement:
		if r.Requirement == nil {
			fmt.Fprintf(sb, "%s%s requirement\n", pad, statusGlyph(r.Status))
			return
		}
		fmt.Fprintf(sb, "%s%s requirement %q\n", pad, statusGlyph(r.Status), r.Requirement.Name)
		if r.Requirement.Result != nil {
			writeResult(sb, *r.Requirement.Result, depth+1)
		}

	case rule.RuleCountOf:
		if r.CountOf == nil {
			fmt.Fprintf(sb, "%s%s count-of\n", pad, statusGlyph(r.Status))
			return
		}
		fmt.Fprintf(sb, "%s%s %d of %d needed, %d passed\n",
			pad, statusGlyph(r.Status), r.CountOf.Needed, len(r.CountOf.Results), r.CountOf.Passed)
		for _, child := range r.CountOf.Results {
			writeResult(sb, child, depth+1)
		}

	case rule.RuleGiven:
		if r.Given == nil {
			fmt.Fprintf(sb, "%s%s given\n", pad, statusGlyph(r.Status))
			return
		}
		fmt.Fprintf(sb, "%s%s %s %s: found %s (want %s %s)\n",
			pad, statusGlyph(r.Status),
			r.Given.Action.Command, r.Given.What,
			formatQuantity(r.Given.Quantity), action(r.Given.Action), r.Given.What)

	default:
		if r.Err != nil {
			fmt.Fprintf(sb, "%s%s error: %v\n", pad, statusGlyph(r.Status), r.Err)
			return
		}
		fmt.Fprintf(sb, "%s%s (unknown rule)\n", pad, statusGlyph(r.Status))
	}

	if r.Status == audit.StatusError && r.Err != nil {
		fmt.Fprintf(sb, "%s  error: %v\n", pad, r.Err)
	}
}

func formatQuantity(q float64) string {
	if q == float64(int(q)) {
		return fmt.Sprintf("%d", int(q))
	}
	return fmt.Sprintf("%.2f", q)
}

func statusGlyph(s audit.RuleStatus) string {
	switch s {
	case audit.StatusPass:
		return "✓"
	case audit.StatusFail:
		return "✗"
	case audit.StatusSkipped:
		return "–"
	case audit.StatusError:
		return "!"
	default:
		return "?"
	}
}

// indent prefixes every line of a block.
func indent(block, prefix string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
