// Package types provides domain models shared across degreeaudit components.
//
// Zero-dependency design: types.go and errors.go use only the standard
// library so the rule and audit packages stay free of transitive deps.
// ID utilities in ids.go import uuid but are isolated for selective use.
package types

// CourseInstance is one completed entry on a student's transcript.
// Instances are immutable once constructed from the student document;
// the audit engine only ever reads them.
type CourseInstance struct {
	ID            string   // stable registrar identifier; loaders synthesize course+term when absent
	Course        string   // course code, e.g. "STAT 214"
	Term          string   // registrar term, e.g. "2014-4"
	Section       string   // section letter, e.g. "A"
	Year          int      // calendar year the course was taken
	Semester      string   // semester name, e.g. "Fall", "Interim"
	Credits       float64  // credit hours earned
	Grade         string   // letter grade, e.g. "A-"
	Departments   []string // one or more sponsoring departments
	GerEqs        []string // general-education requirement tags, e.g. "FOL-C"
	Institution   string   // granting institution
	Lab           bool     // lab section flag
	International bool     // international/off-campus flag
}

// GradePoints returns the grade-point value of the course's letter grade.
// The second return is false for non-graded marks, which carry no
// grade-point value and are excluded from averages.
func (c CourseInstance) GradePoints() (float64, bool) {
	return LetterGradePoints(c.Grade)
}

// Transcript is the ordered set of courses a student has completed.
// Order is input order and is significant: course matching is
// first-match over this sequence, never best-match.
type Transcript []CourseInstance

// AreaOfStudy is one of a student's declared areas (major, minor, etc).
type AreaOfStudy struct {
	Type string // "degree", "major", "minor", "concentration", "emphasis"
	Name string // e.g. "Computer Science"
}

// PerformanceRecord is one recital the student performed. Music
// departments audit these alongside coursework; records carry no
// credits or grades and are never reserved.
type PerformanceRecord struct {
	ID     string
	Name   string // recital name, e.g. "Junior Recital"
	Year   int
	Term   int
	Status string // "entrance", "continuance", or empty when unknown
}

// AttendanceRecord is one recital the student attended.
type AttendanceRecord struct {
	ID   string
	Name string
	Year int
	Term int
}

// Student is the audit engine's view of one student: who they are, what
// they have taken, and what they have declared. Read-only during an audit;
// a single Student may safely back parallel audits against different areas.
type Student struct {
	ID           StudentID
	Name         string
	Catalog      string // catalog year the student matriculated under, e.g. "2015-16"
	Transcript   Transcript
	Areas        []AreaOfStudy
	Performances []PerformanceRecord
	Attendances  []AttendanceRecord
}

// LetterGradePoints maps a letter grade to its 4.0-scale value.
// The second return is false for non-graded marks (S, U, P, N, AU, I, W
// and the empty string).
func LetterGradePoints(grade string) (float64, bool) {
	switch grade {
	case "A+", "A":
		return 4.0, true
	case "A-":
		return 3.7, true
	case "B+":
		return 3.3, true
	case "B":
		return 3.0, true
	case "B-":
		return 2.7, true
	case "C+":
		return 2.3, true
	case "C":
		return 2.0, true
	case "C-":
		return 1.7, true
	case "D+":
		return 1.3, true
	case "D":
		return 1.0, true
	case "D-":
		return 0.7, true
	case "F":
		return 0.0, true
	default:
		return 0.0, false
	}
}
