package rule

import "fmt"

// Requirement is one named requirement of an area: a human label, an
// optional free-text message, and the rule tree that decides it.
type Requirement struct {
	Name    string
	Message string // optional catalog prose shown alongside the verdict
	Result  Rule
}

// Area is a complete area-of-study requirement definition: a degree,
// major, minor, concentration, or emphasis for one catalog year.
// Requirements keeps document order; lookups go through Requirement().
type Area struct {
	Name         string
	Type         string // "degree", "major", "minor", "concentration", "emphasis"
	Catalog      string // e.g. "2015-16"
	Result       Rule
	Requirements []*Requirement
}

// Requirement returns the named requirement, if the area defines it.
func (a *Area) Requirement(name string) (*Requirement, bool) {
	for _, req := range a.Requirements {
		if req.Name == name {
			return req, true
		}
	}
	return nil, false
}

// Validate walks the whole tree checking node shapes and that every
// non-optional requirement reference resolves. Load-time convenience;
// the engine re-checks each node as it evaluates.
func (a *Area) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("area has no name")
	}
	seen := map[string]bool{}
	for _, req := range a.Requirements {
		if seen[req.Name] {
			return fmt.Errorf("requirement %q defined twice", req.Name)
		}
		seen[req.Name] = true
	}

	if err := a.validateTree(a.Result); err != nil {
		return fmt.Errorf("result: %w", err)
	}
	for _, req := range a.Requirements {
		if err := a.validateTree(req.Result); err != nil {
			return fmt.Errorf("requirement %q: %w", req.Name, err)
		}
	}
	return nil
}

func (a *Area) validateTree(r Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	switch r.Kind {
	case RuleRequirement:
		if _, ok := a.Requirement(r.Requirement.Requirement); !ok && !r.Requirement.Optional {
			return fmt.Errorf("reference to undefined requirement %q", r.Requirement.Requirement)
		}
	case RuleCountOf:
		for i, child := range r.CountOf.Of {
			if err := a.validateTree(child); err != nil {
				return fmt.Errorf("of[%d]: %w", i, err)
			}
		}
	case RuleGiven:
		for i, ref := range r.Given.Requirements {
			if _, ok := a.Requirement(ref.Requirement); !ok && !ref.Optional {
				return fmt.Errorf("requirements[%d]: reference to undefined requirement %q", i, ref.Requirement)
			}
		}
	}
	return nil
}
