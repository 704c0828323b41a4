// Package studentfile loads student documents: JSON files carrying a
// student's completed courses, declared areas of study, and recital
// performance and attendance records.
//
// Loading is a structural mapping into the in-memory model. Course IDs
// absent from the document are synthesized from position, code, and
// term so reservation-ledger keys stay stable for one document.
package studentfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/solatis/degreeaudit/internal/types"
)

// document is the on-disk student shape.
type document struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Catalog      string            `json:"catalog"`
	Courses      []courseJSON      `json:"courses"`
	Areas        []areaJSON        `json:"areas"`
	Performances []performanceJSON `json:"performances"`
	Attendances  []attendanceJSON  `json:"performance_attendances"`
}

type courseJSON struct {
	ID            string   `json:"id"`
	Course        string   `json:"course"`
	Term          string   `json:"term"`
	Section       string   `json:"section"`
	Year          int      `json:"year"`
	Semester      string   `json:"semester"`
	Credits       float64  `json:"credits"`
	Grade         string   `json:"grade"`
	Departments   []string `json:"departments"`
	GerEqs        []string `json:"gereqs"`
	Institution   string   `json:"institution"`
	Lab           bool     `json:"lab"`
	International bool     `json:"international"`
}

type areaJSON struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type performanceJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Year   int    `json:"year"`
	Term   int    `json:"term"`
	Status string `json:"status"`
}

type attendanceJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Year int    `json:"year"`
	Term int    `json:"term"`
}

// Load reads and parses a student document from disk.
func Load(path string) (*types.Student, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read student file: %w", err)
	}
	student, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return student, nil
}

// Parse parses a student document.
func Parse(data []byte) (*types.Student, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid student JSON: %w", err)
	}

	student := &types.Student{
		Name:    doc.Name,
		Catalog: doc.Catalog,
	}

	if doc.ID != "" {
		id, err := types.ParseStudentID(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid student id %q: %w", doc.ID, err)
		}
		student.ID = id
	} else {
		student.ID = types.NewStudentID()
	}

	for i, c := range doc.Courses {
		if c.Course == "" {
			return nil, fmt.Errorf("courses[%d]: missing course code", i)
		}
		id := c.ID
		if id == "" {
			// Positional synthesis keeps IDs unique across repeated
			// takings of the same course in the same term.
			id = fmt.Sprintf("%d/%s/%s", i, c.Course, c.Term)
		}
		student.Transcript = append(student.Transcript, types.CourseInstance{
			ID:            id,
			Course:        c.Course,
			Term:          c.Term,
			Section:       c.Section,
			Year:          c.Year,
			Semester:      c.Semester,
			Credits:       c.Credits,
			Grade:         c.Grade,
			Departments:   c.Departments,
			GerEqs:        c.GerEqs,
			Institution:   c.Institution,
			Lab:           c.Lab,
			International: c.International,
		})
	}

	for _, a := range doc.Areas {
		student.Areas = append(student.Areas, types.AreaOfStudy{Type: a.Type, Name: a.Name})
	}

	for i, p := range doc.Performances {
		status, err := performanceStatus(p.Status)
		if err != nil {
			return nil, fmt.Errorf("performances[%d]: %w", i, err)
		}
		id := p.ID
		if id == "" {
			id = fmt.Sprintf("pf/%d/%s", i, p.Name)
		}
		student.Performances = append(student.Performances, types.PerformanceRecord{
			ID:     id,
			Name:   p.Name,
			Year:   p.Year,
			Term:   p.Term,
			Status: status,
		})
	}

	for i, a := range doc.Attendances {
		id := a.ID
		if id == "" {
			id = fmt.Sprintf("at/%d/%s", i, a.Name)
		}
		student.Attendances = append(student.Attendances, types.AttendanceRecord{
			ID:   id,
			Name: a.Name,
			Year: a.Year,
			Term: a.Term,
		})
	}

	return student, nil
}

// performanceStatus expands the registrar's one-letter status codes.
// Absent status stays empty; records without one never satisfy a
// status clause.
func performanceStatus(code string) (string, error) {
	switch code {
	case "e":
		return "entrance", nil
	case "c":
		return "continuance", nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("unknown performance status %q", code)
	}
}
