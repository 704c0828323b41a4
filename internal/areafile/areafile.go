// Package areafile loads area-of-study documents: the YAML files that
// define a degree, major, minor, concentration, or emphasis as a rule
// tree plus named requirements.
//
// Parsing is a structural mapping from document shapes to the rule data
// model; it makes no audit decisions. Shorthands supported:
//
//   - a bare string in a rule position is a course rule ("ASIAN 110")
//   - "do" actions use the textual form ("count >= 2", "average >= 2.0")
//   - where-clause values are a scalar (equality), a string with a
//     leading operator token ("! 2015", ">= 200"), or a list of either
//     (logical OR)
//   - "save as" on a given rule publishes its pool under a name;
//     "given: save" with "save: $name" reads one back
//
// Errors report the document line of the offending node.
package areafile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/solatis/degreeaudit/internal/rule"
)

// Load reads and parses an area document from disk.
func Load(path string) (*rule.Area, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read area file: %w", err)
	}
	area, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return area, nil
}

// Parse parses an area document and validates the resulting tree.
func Parse(data []byte) (*rule.Area, error) {
	var doc struct {
		Name         string    `yaml:"name"`
		Type         string    `yaml:"type"`
		Catalog      string    `yaml:"catalog"`
		Result       yaml.Node `yaml:"result"`
		Requirements yaml.Node `yaml:"requirements"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	area := &rule.Area{
		Name:    doc.Name,
		Type:    doc.Type,
		Catalog: doc.Catalog,
	}

	if doc.Result.Kind == 0 {
		return nil, fmt.Errorf("area has no result rule")
	}
	result, err := parseRule(&doc.Result)
	if err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}
	area.Result = result

	// Requirements decode through yaml.Node pairs so document order
	// survives; a plain map would shuffle the report.
	if doc.Requirements.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(doc.Requirements.Content); i += 2 {
			nameNode := doc.Requirements.Content[i]
			bodyNode := doc.Requirements.Content[i+1]

			req, err := parseRequirement(nameNode.Value, bodyNode)
			if err != nil {
				return nil, fmt.Errorf("requirement %q: %w", nameNode.Value, err)
			}
			area.Requirements = append(area.Requirements, req)
		}
	}

	if err := area.Validate(); err != nil {
		return nil, err
	}
	return area, nil
}

// parseRequirement parses one named requirement body.
func parseRequirement(name string, node *yaml.Node) (*rule.Requirement, error) {
	fields, err := mappingFields(node)
	if err != nil {
		return nil, err
	}

	req := &rule.Requirement{Name: name}
	if msg, ok := fields["message"]; ok {
		req.Message = msg.Value
	}

	resultNode, ok := fields["result"]
	if !ok {
		return nil, fmt.Errorf("line %d: requirement has no result rule", node.Line)
	}
	result, err := parseRule(resultNode)
	if err != nil {
		return nil, err
	}
	req.Result = result
	return req, nil
}

// parseRule dispatches on the node's shape: a scalar is a course
// shorthand; a mapping's keys select the variant.
func parseRule(node *yaml.Node) (rule.Rule, error) {
	if node.Kind == yaml.ScalarNode {
		return rule.NewCourseRule(rule.CourseRule{Course: node.Value}), nil
	}

	fields, err := mappingFields(node)
	if err != nil {
		return rule.Rule{}, err
	}

	switch {
	case fields["given"] != nil:
		given, err := parseGiven(node, fields)
		if err != nil {
			return rule.Rule{}, err
		}
		return rule.NewGiven(given), nil

	case fields["count"] != nil || fields["of"] != nil:
		countOf, err := parseCountOf(node, fields)
		if err != nil {
			return rule.Rule{}, err
		}
		return rule.NewCountOf(countOf), nil

	case fields["requirement"] != nil:
		ref, err := parseRequirementRef(node)
		if err != nil {
			return rule.Rule{}, err
		}
		return rule.NewRequirementRef(ref), nil

	case fields["course"] != nil:
		course, err := parseCourseRule(node)
		if err != nil {
			return rule.Rule{}, err
		}
		return rule.NewCourseRule(course), nil

	default:
		return rule.Rule{}, fmt.Errorf("line %d: unrecognized rule shape", node.Line)
	}
}

// parseCountOf parses {count, of, surplus}.
func parseCountOf(node *yaml.Node, fields map[string]*yaml.Node) (rule.CountOfRule, error) {
	var out rule.CountOfRule

	countNode := fields["count"]
	if countNode == nil {
		return out, fmt.Errorf("line %d: count-of rule has no count", node.Line)
	}
	switch countNode.Value {
	case "all":
		out.Count = rule.Counter{Kind: rule.CounterAll}
	case "any":
		out.Count = rule.Counter{Kind: rule.CounterAny}
	default:
		n, err := strconv.Atoi(countNode.Value)
		if err != nil {
			return out, fmt.Errorf("line %d: count must be all, any, or a number: %q", countNode.Line, countNode.Value)
		}
		out.Count = rule.Counter{Kind: rule.CounterNumber, N: n}
	}

	ofNode := fields["of"]
	if ofNode == nil || ofNode.Kind != yaml.SequenceNode {
		return out, fmt.Errorf("line %d: count-of rule has no of: list", node.Line)
	}
	for i, child := range ofNode.Content {
		parsed, err := parseRule(child)
		if err != nil {
			return out, fmt.Errorf("of[%d]: %w", i, err)
		}
		out.Of = append(out.Of, parsed)
	}

	if surplusNode, ok := fields["surplus"]; ok {
		switch surplusNode.Value {
		case "ignore":
			out.Surplus = rule.SurplusIgnore
		case "reserve":
			out.Surplus = rule.SurplusReserve
		default:
			return out, fmt.Errorf("line %d: surplus must be ignore or reserve: %q", surplusNode.Line, surplusNode.Value)
		}
	}

	return out, nil
}

// parseRequirementRef parses {requirement, optional}.
func parseRequirementRef(node *yaml.Node) (rule.RequirementRef, error) {
	var raw struct {
		Requirement string `yaml:"requirement"`
		Optional    bool   `yaml:"optional"`
	}
	if err := node.Decode(&raw); err != nil {
		return rule.RequirementRef{}, fmt.Errorf("line %d: %w", node.Line, err)
	}
	return rule.RequirementRef{Requirement: raw.Requirement, Optional: raw.Optional}, nil
}

// parseCourseRule parses a course shorthand string or an expanded mapping.
func parseCourseRule(node *yaml.Node) (rule.CourseRule, error) {
	if node.Kind == yaml.ScalarNode {
		return rule.CourseRule{Course: node.Value}, nil
	}

	var raw struct {
		Course        string `yaml:"course"`
		Term          string `yaml:"term"`
		Section       string `yaml:"section"`
		Year          *int   `yaml:"year"`
		Semester      string `yaml:"semester"`
		Lab           *bool  `yaml:"lab"`
		International *bool  `yaml:"international"`
	}
	if err := node.Decode(&raw); err != nil {
		return rule.CourseRule{}, fmt.Errorf("line %d: %w", node.Line, err)
	}
	return rule.CourseRule{
		Course:        raw.Course,
		Term:          raw.Term,
		Section:       raw.Section,
		Year:          raw.Year,
		Semester:      raw.Semester,
		Lab:           raw.Lab,
		International: raw.International,
	}, nil
}

// parseGiven parses the composite given rule.
func parseGiven(node *yaml.Node, fields map[string]*yaml.Node) (rule.GivenRule, error) {
	var out rule.GivenRule

	givenNode := fields["given"]
	switch givenNode.Value {
	case "courses":
		out.Given = rule.GivenAllCourses
	case "these courses":
		out.Given = rule.GivenTheseCourses
	case "these requirements":
		out.Given = rule.GivenTheseRequirements
	case "areas of study":
		out.Given = rule.GivenAreasOfStudy
	case "save":
		out.Given = rule.GivenNamedVariable
	case "performances":
		out.Given = rule.GivenPerformances
	case "attendances":
		out.Given = rule.GivenAttendances
	default:
		return out, fmt.Errorf("line %d: unknown given source %q", givenNode.Line, givenNode.Value)
	}

	if coursesNode, ok := fields["courses"]; ok {
		if coursesNode.Kind != yaml.SequenceNode {
			return out, fmt.Errorf("line %d: courses must be a list", coursesNode.Line)
		}
		for i, child := range coursesNode.Content {
			course, err := parseCourseRule(child)
			if err != nil {
				return out, fmt.Errorf("courses[%d]: %w", i, err)
			}
			out.Courses = append(out.Courses, course)
		}
	}

	if repeatsNode, ok := fields["repeats"]; ok {
		switch repeatsNode.Value {
		case "first":
			out.Repeats = rule.RepeatFirst
		case "last":
			out.Repeats = rule.RepeatLast
		case "all":
			out.Repeats = rule.RepeatAll
		default:
			return out, fmt.Errorf("line %d: repeats must be first, last, or all: %q", repeatsNode.Line, repeatsNode.Value)
		}
	}

	if reqsNode, ok := fields["requirements"]; ok {
		if reqsNode.Kind != yaml.SequenceNode {
			return out, fmt.Errorf("line %d: requirements must be a list", reqsNode.Line)
		}
		for i, child := range reqsNode.Content {
			if child.Kind == yaml.ScalarNode {
				out.Requirements = append(out.Requirements, rule.RequirementRef{Requirement: child.Value})
				continue
			}
			ref, err := parseRequirementRef(child)
			if err != nil {
				return out, fmt.Errorf("requirements[%d]: %w", i, err)
			}
			out.Requirements = append(out.Requirements, ref)
		}
	}

	if saveNode, ok := fields["save"]; ok {
		out.Variable = saveNode.Value
	}
	if saveAsNode, ok := fields["save as"]; ok {
		out.Save = saveAsNode.Value
	}

	if whereNode, ok := fields["where"]; ok {
		clause, err := parseClause(whereNode)
		if err != nil {
			return out, err
		}
		out.Where = clause
	}

	if limitNode, ok := fields["limit"]; ok {
		if limitNode.Kind != yaml.SequenceNode {
			return out, fmt.Errorf("line %d: limit must be a list", limitNode.Line)
		}
		for i, child := range limitNode.Content {
			limFields, err := mappingFields(child)
			if err != nil {
				return out, fmt.Errorf("limit[%d]: %w", i, err)
			}
			var lim rule.Limiter
			atMostNode, ok := limFields["at_most"]
			if !ok {
				return out, fmt.Errorf("line %d: limit[%d] has no at_most", child.Line, i)
			}
			lim.AtMost, err = strconv.Atoi(atMostNode.Value)
			if err != nil {
				return out, fmt.Errorf("line %d: limit[%d]: at_most must be a number", atMostNode.Line, i)
			}
			if limWhere, ok := limFields["where"]; ok {
				lim.Where, err = parseClause(limWhere)
				if err != nil {
					return out, fmt.Errorf("limit[%d]: %w", i, err)
				}
			} else {
				lim.Where = rule.Clause{}
			}
			out.Limit = append(out.Limit, lim)
		}
	}

	whatNode := fields["what"]
	if whatNode == nil {
		return out, fmt.Errorf("line %d: given rule has no what:", node.Line)
	}
	what, err := parseWhat(whatNode.Value)
	if err != nil {
		return out, fmt.Errorf("line %d: %w", whatNode.Line, err)
	}
	out.What = what

	doNode := fields["do"]
	if doNode == nil {
		return out, fmt.Errorf("line %d: given rule has no do:", node.Line)
	}
	action, err := rule.ParseAction(doNode.Value)
	if err != nil {
		return out, fmt.Errorf("line %d: %w", doNode.Line, err)
	}
	out.Do = action

	return out, nil
}

// parseWhat maps the document name of a quantity to its What.
func parseWhat(s string) (rule.What, error) {
	switch s {
	case "courses":
		return rule.WhatCourses, nil
	case "distinct courses":
		return rule.WhatDistinctCourses, nil
	case "credits":
		return rule.WhatCredits, nil
	case "departments":
		return rule.WhatDepartments, nil
	case "terms":
		return rule.WhatTerms, nil
	case "grades":
		return rule.WhatGrades, nil
	case "areas of study":
		return rule.WhatAreasOfStudy, nil
	case "performances":
		return rule.WhatPerformances, nil
	case "attendances":
		return rule.WhatAttendances, nil
	default:
		return 0, fmt.Errorf("unknown what: %q", s)
	}
}

// parseClause parses a where clause: key to scalar, operator-prefixed
// string, or OR-list of either.
func parseClause(node *yaml.Node) (rule.Clause, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: where must be a mapping", node.Line)
	}

	clause := rule.Clause{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		valueNode := node.Content[i+1]

		if valueNode.Kind == yaml.SequenceNode {
			var or []rule.Comparison
			for _, item := range valueNode.Content {
				cmp, err := parseComparison(item)
				if err != nil {
					return nil, fmt.Errorf("where %s: %w", key, err)
				}
				or = append(or, cmp)
			}
			clause[key] = rule.WrappedValue{Or: or}
			continue
		}

		cmp, err := parseComparison(valueNode)
		if err != nil {
			return nil, fmt.Errorf("where %s: %w", key, err)
		}
		clause[key] = rule.WrappedValue{Single: &cmp}
	}
	return clause, nil
}

// parseComparison parses one scalar comparison. A string value whose
// first space-separated token is an operator ("! 2015", ">= 200")
// carries that operator; everything else is an equality test.
func parseComparison(node *yaml.Node) (rule.Comparison, error) {
	if node.Kind != yaml.ScalarNode {
		return rule.Comparison{}, fmt.Errorf("line %d: comparison must be a scalar", node.Line)
	}

	var raw any
	if err := node.Decode(&raw); err != nil {
		return rule.Comparison{}, fmt.Errorf("line %d: %w", node.Line, err)
	}

	s, isString := raw.(string)
	if !isString {
		return rule.Comparison{Op: rule.OpEq, Value: raw}, nil
	}

	tokens := strings.SplitN(s, " ", 2)
	if len(tokens) == 2 {
		if op, err := rule.ParseCompareOp(tokens[0]); err == nil && tokens[0] != "" {
			return rule.Comparison{Op: op, Value: parseScalar(strings.TrimSpace(tokens[1]))}, nil
		}
	}
	return rule.Comparison{Op: rule.OpEq, Value: s}, nil
}

// parseScalar narrows an operator-prefixed string's payload: int, then
// float, then bool, falling back to the string itself.
func parseScalar(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

// mappingFields indexes a mapping node's pairs by key.
func mappingFields(node *yaml.Node) (map[string]*yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	fields := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		fields[node.Content[i].Value] = node.Content[i+1]
	}
	return fields, nil
}
