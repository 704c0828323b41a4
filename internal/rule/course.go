package rule

// CourseRule is a leaf requirement for one specific course.
// Course is required; every other field is an optional extra constraint.
// A rule with only a course code matches by code alone.
type CourseRule struct {
	Course        string // course code, e.g. "THEAT 233"
	Term          string // "" = unconstrained
	Section       string // "" = unconstrained
	Year          *int   // nil = unconstrained
	Semester      string // "" = unconstrained
	Lab           *bool  // nil = unconstrained
	International *bool  // nil = unconstrained
}

// CodeOnly reports whether the rule constrains by course code alone.
func (r CourseRule) CodeOnly() bool {
	return r.Term == "" && r.Section == "" && r.Year == nil &&
		r.Semester == "" && r.Lab == nil && r.International == nil
}
