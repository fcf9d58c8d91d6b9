package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/univote/campus-election-api/internal/model"
	"github.com/univote/campus-election-api/internal/utils"
)

// EligibleVoterRepo manages the pre-authorization roster.  Roster rows
// gate registration only; they are not accounts.  Matric numbers are
// normalized before every read and write so lookups are case and
// whitespace insensitive.
type EligibleVoterRepo struct{ DB *sql.DB }

func NewEligibleVoterRepo(db *sql.DB) *EligibleVoterRepo { return &EligibleVoterRepo{DB: db} }

// FindByMatric returns the roster entry for a matric number, or
// ErrNotEligible when no entry exists after normalization.
func (r *EligibleVoterRepo) FindByMatric(ctx context.Context, matricNo string) (model.EligibleVoter, error) {
	matricNo = utils.NormalizeMatric(matricNo)
	var v model.EligibleVoter
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, matric_no, name, department, created_at FROM eligible_voters WHERE matric_no=? LIMIT 1",
		matricNo).Scan(&v.ID, &v.MatricNo, &v.Name, &v.Department, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.EligibleVoter{}, ErrNotEligible
	}
	return v, err
}

// List returns the whole roster sorted by student name.
func (r *EligibleVoterRepo) List(ctx context.Context) ([]model.EligibleVoter, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, matric_no, name, department, created_at FROM eligible_voters ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	voters := make([]model.EligibleVoter, 0)
	for rows.Next() {
		var v model.EligibleVoter
		if err := rows.Scan(&v.ID, &v.MatricNo, &v.Name, &v.Department, &v.CreatedAt); err != nil {
			return nil, err
		}
		voters = append(voters, v)
	}
	return voters, rows.Err()
}

// Create inserts a single roster entry.  The matric number is stored
// normalized; a duplicate insert surfaces the unique-key violation.
func (r *EligibleVoterRepo) Create(ctx context.Context, matricNo, name, department string) (model.EligibleVoter, error) {
	v := model.EligibleVoter{
		MatricNo:   utils.NormalizeMatric(matricNo),
		Name:       name,
		Department: department,
		CreatedAt:  time.Now().UTC(),
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO eligible_voters (matric_no, name, department, created_at) VALUES (?,?,?,?)",
		v.MatricNo, v.Name, v.Department, v.CreatedAt)
	if err != nil {
		return model.EligibleVoter{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.EligibleVoter{}, err
	}
	v.ID = uint64(id)
	return v, nil
}

// Upsert inserts a roster entry or refreshes the name and department of
// an existing one, keyed by normalized matric number.  Bulk CSV imports
// run through here so re-importing a roster is idempotent.
func (r *EligibleVoterRepo) Upsert(ctx context.Context, matricNo, name, department string) error {
	matricNo = utils.NormalizeMatric(matricNo)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE eligible_voters SET name=?, department=? WHERE matric_no=?",
		name, department, matricNo)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO eligible_voters (matric_no, name, department, created_at) VALUES (?,?,?,?)",
		matricNo, name, department, time.Now().UTC())
	if isDuplicateEntry(err) {
		// Lost a race with a concurrent import of the same row; the
		// entry exists, which is the desired end state.
		return nil
	}
	return err
}
