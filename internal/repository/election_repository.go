package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/univote/campus-election-api/internal/model"
)

// ElectionRepo provides CRUD access to elections.  All timestamps are
// stored in UTC.
type ElectionRepo struct{ DB *sql.DB }

func NewElectionRepo(db *sql.DB) *ElectionRepo { return &ElectionRepo{DB: db} }

// ListActive returns active elections, newest first.  The voting client
// shows these on its landing page.
func (r *ElectionRepo) ListActive(ctx context.Context) ([]model.Election, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, title, description, start_time, end_time, is_active, created_at, updated_at
		 FROM elections WHERE is_active=? ORDER BY start_time DESC`, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanElections(rows)
}

// GetByID returns a single election or ErrElectionNotFound.
func (r *ElectionRepo) GetByID(ctx context.Context, id uint64) (model.Election, error) {
	var e model.Election
	var desc sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, description, start_time, end_time, is_active, created_at, updated_at
		 FROM elections WHERE id=? LIMIT 1`, id).
		Scan(&e.ID, &e.Title, &desc, &e.StartTime, &e.EndTime, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Election{}, ErrElectionNotFound
	}
	if err != nil {
		return model.Election{}, err
	}
	if desc.Valid {
		d := desc.String
		e.Description = &d
	}
	return e, nil
}

// Create inserts a new election and returns it with generated fields set.
func (r *ElectionRepo) Create(ctx context.Context, title string, description *string, start, end time.Time, isActive bool) (model.Election, error) {
	now := time.Now().UTC()
	e := model.Election{
		Title:       title,
		Description: description,
		StartTime:   start.UTC(),
		EndTime:     end.UTC(),
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO elections (title, description, start_time, end_time, is_active, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?)`,
		e.Title, nullable(e.Description), e.StartTime, e.EndTime, e.IsActive, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return model.Election{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Election{}, err
	}
	e.ID = uint64(id)
	return e, nil
}

func scanElections(rows *sql.Rows) ([]model.Election, error) {
	elections := make([]model.Election, 0)
	for rows.Next() {
		var e model.Election
		var desc sql.NullString
		if err := rows.Scan(&e.ID, &e.Title, &desc, &e.StartTime, &e.EndTime, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			e.Description = &d
		}
		elections = append(elections, e)
	}
	return elections, rows.Err()
}

// nullable converts an optional string into a driver friendly value.
func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
