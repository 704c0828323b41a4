package rule

// RequirementRef is a leaf reference to a named requirement defined by
// the same area. Optional references to absent requirements do not fail
// the parent rule.
type RequirementRef struct {
	Requirement string
	Optional    bool
}
