package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

/*
 * Input store.
 *
 * Students and areas are stored as their source documents (JSON and YAML
 * blobs) keyed by their natural identifiers. The engine never reads the
 * database: callers load blobs here and hand the parsed models to the
 * evaluator. Storing the source text keeps the store schema independent
 * of the rule model and makes re-parsing under a newer loader possible.
 */

// ErrNotFound reports a missing student or area document.
var ErrNotFound = errors.New("not found")

// Store persists student and area documents.
type Store struct {
	queries *Queries
}

// NewStore wraps a loaded query set.
func NewStore(queries *Queries) *Store {
	return &Store{queries: queries}
}

// StudentListing is one row of the student index.
type StudentListing struct {
	StudentID string `db:"student_id"`
	Name      string `db:"name"`
	UpdatedAt string `db:"updated_at"`
}

// AreaListing is one row of the area index.
type AreaListing struct {
	Name      string `db:"name"`
	Catalog   string `db:"catalog"`
	Type      string `db:"type"`
	UpdatedAt string `db:"updated_at"`
}

type studentRow struct {
	StudentID string `db:"student_id"`
	Name      string `db:"name"`
	Document  string `db:"document"`
	UpdatedAt string `db:"updated_at"`
}

type areaRow struct {
	Name      string `db:"name"`
	Catalog   string `db:"catalog"`
	Type      string `db:"type"`
	Document  string `db:"document"`
	UpdatedAt string `db:"updated_at"`
}

// PutStudent inserts or replaces a student document.
func (s *Store) PutStudent(ctx context.Context, id, name string, document []byte) error {
	_, err := s.queries.Exec(ctx, "upsert-student", id, name, string(document), now())
	if err != nil {
		return fmt.Errorf("failed to store student %s: %w", id, err)
	}
	return nil
}

// GetStudent returns a stored student document.
func (s *Store) GetStudent(ctx context.Context, id string) ([]byte, error) {
	var row studentRow
	if err := s.queries.Get(ctx, "get-student", &row, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("student %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load student %s: %w", id, err)
	}
	return []byte(row.Document), nil
}

// ListStudents returns the student index ordered by ID.
func (s *Store) ListStudents(ctx context.Context) ([]StudentListing, error) {
	var rows []StudentListing
	if err := s.queries.Select(ctx, "list-students", &rows); err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return rows, nil
}

// DeleteStudent removes a student document. Missing IDs are not an error.
func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	if _, err := s.queries.Exec(ctx, "delete-student", id); err != nil {
		return fmt.Errorf("failed to delete student %s: %w", id, err)
	}
	return nil
}

// PutArea inserts or replaces an area document, keyed by name and catalog.
func (s *Store) PutArea(ctx context.Context, name, catalog, areaType string, document []byte) error {
	_, err := s.queries.Exec(ctx, "upsert-area", name, catalog, areaType, string(document), now())
	if err != nil {
		return fmt.Errorf("failed to store area %s (%s): %w", name, catalog, err)
	}
	return nil
}

// GetArea returns a stored area document.
func (s *Store) GetArea(ctx context.Context, name, catalog string) ([]byte, error) {
	var row areaRow
	if err := s.queries.Get(ctx, "get-area", &row, name, catalog); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("area %s (%s): %w", name, catalog, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load area %s (%s): %w", name, catalog, err)
	}
	return []byte(row.Document), nil
}

// ListAreas returns the area index ordered by name, catalog.
func (s *Store) ListAreas(ctx context.Context) ([]AreaListing, error) {
	var rows []AreaListing
	if err := s.queries.Select(ctx, "list-areas", &rows); err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	return rows, nil
}

// DeleteArea removes an area document. Missing keys are not an error.
func (s *Store) DeleteArea(ctx context.Context, name, catalog string) error {
	if _, err := s.queries.Exec(ctx, "delete-area", name, catalog); err != nil {
		return fmt.Errorf("failed to delete area %s (%s): %w", name, catalog, err)
	}
	return nil
}

// now returns the canonical timestamp format for both drivers.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
