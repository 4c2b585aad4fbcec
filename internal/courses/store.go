package courses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"coursegen/internal/services"
)

// Store persists generated courses as whole JSON documents. It shares the
// jobs store's SQLite handle; the schema lives with the jobs package.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create persists a new course and returns its generated id.
func (s *Store) Create(ctx context.Context, course *Course) (string, error) {
	if course == nil {
		return "", fmt.Errorf("create course: nil course")
	}
	payload, err := json.Marshal(course)
	if err != nil {
		return "", fmt.Errorf("encode course: %w", err)
	}
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO courses (id, payload_json, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id, string(payload), now, now)
	if err != nil {
		return "", fmt.Errorf("insert course: %w", err)
	}
	return id, nil
}

// Get loads a course by id. Missing rows return services.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Course, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload_json FROM courses WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("course %s: %w", id, services.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query course %s: %w", id, err)
	}
	var course Course
	if err := json.Unmarshal([]byte(payload), &course); err != nil {
		return nil, fmt.Errorf("decode course %s: %w", id, err)
	}
	return &course, nil
}

// Replace overwrites an existing course wholesale. Missing rows return
// services.ErrNotFound.
func (s *Store) Replace(ctx context.Context, id string, course *Course) error {
	if course == nil {
		return fmt.Errorf("replace course: nil course")
	}
	payload, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("encode course: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE courses SET payload_json = ?, updated_at = ? WHERE id = ?`,
		string(payload), now, id)
	if err != nil {
		return fmt.Errorf("update course %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update course %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("course %s: %w", id, services.ErrNotFound)
	}
	return nil
}
