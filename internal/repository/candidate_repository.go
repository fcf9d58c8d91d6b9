package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/univote/campus-election-api/internal/model"
)

// CandidateRepo provides CRUD access to candidates.  Candidates are read
// far more often than written: every vote submission validates against
// them and every tally joins them back in.
type CandidateRepo struct{ DB *sql.DB }

func NewCandidateRepo(db *sql.DB) *CandidateRepo { return &CandidateRepo{DB: db} }

const candidateCols = "id, post_id, name, bio, department, image_url, created_at, updated_at"

// ListByPost returns the candidates running for one post, name sorted.
func (r *CandidateRepo) ListByPost(ctx context.Context, postID uint64) ([]model.Candidate, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+candidateCols+" FROM candidates WHERE post_id=? ORDER BY name", postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCandidates(rows)
}

// ListByPosts returns candidates across a set of posts in one query,
// name sorted.  An empty id set returns every candidate, matching the
// catalog endpoint's unfiltered mode.
func (r *CandidateRepo) ListByPosts(ctx context.Context, postIDs []uint64) ([]model.Candidate, error) {
	query := "SELECT " + candidateCols + " FROM candidates"
	args := make([]interface{}, 0, len(postIDs))
	if len(postIDs) > 0 {
		placeholders := make([]string, len(postIDs))
		for i, id := range postIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		query += " WHERE post_id IN (" + strings.Join(placeholders, ",") + ")"
	}
	query += " ORDER BY name"
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCandidates(rows)
}

// GetByID returns a single candidate or ErrCandidateNotFound.
func (r *CandidateRepo) GetByID(ctx context.Context, id uint64) (model.Candidate, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+candidateCols+" FROM candidates WHERE id=? LIMIT 1", id)
	c, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Candidate{}, ErrCandidateNotFound
	}
	return c, err
}

// Create inserts a candidate under a post.  The post must exist; a
// duplicate name under the same post is rejected by the unique index and
// mapped to ErrDuplicateCandidate.
func (r *CandidateRepo) Create(ctx context.Context, postID uint64, name string, bio, department, imageURL *string) (model.Candidate, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM posts WHERE id=? LIMIT 1", postID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Candidate{}, ErrPostNotFound
	}
	if err != nil {
		return model.Candidate{}, err
	}
	now := time.Now().UTC()
	c := model.Candidate{
		PostID:     postID,
		Name:       strings.TrimSpace(name),
		Bio:        bio,
		Department: department,
		ImageURL:   imageURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO candidates (post_id, name, bio, department, image_url, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		c.PostID, c.Name, nullable(c.Bio), nullable(c.Department), nullable(c.ImageURL), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			return model.Candidate{}, ErrDuplicateCandidate
		}
		return model.Candidate{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Candidate{}, err
	}
	c.ID = uint64(id)
	return c, nil
}

// Update rewrites a candidate's mutable fields and returns the updated
// row.  Renaming into an existing name under the same post is rejected.
func (r *CandidateRepo) Update(ctx context.Context, id uint64, name string, bio, department, imageURL *string) (model.Candidate, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE candidates SET name=?, bio=?, department=?, image_url=?, updated_at=? WHERE id=?",
		strings.TrimSpace(name), nullable(bio), nullable(department), nullable(imageURL), time.Now().UTC(), id)
	if err != nil {
		if isDuplicateEntry(err) {
			return model.Candidate{}, ErrDuplicateCandidate
		}
		return model.Candidate{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Zero rows can also mean an identical update; confirm existence.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return model.Candidate{}, getErr
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a candidate.  Votes already recorded for them stay in
// the ledger and are skipped by tallies.
func (r *CandidateRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM candidates WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

func scanCandidates(rows *sql.Rows) ([]model.Candidate, error) {
	candidates := make([]model.Candidate, 0)
	for rows.Next() {
		var c model.Candidate
		var bio, dept, img sql.NullString
		if err := rows.Scan(&c.ID, &c.PostID, &c.Name, &bio, &dept, &img, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		assignNullable(&c, bio, dept, img)
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func scanCandidate(row *sql.Row) (model.Candidate, error) {
	var c model.Candidate
	var bio, dept, img sql.NullString
	if err := row.Scan(&c.ID, &c.PostID, &c.Name, &bio, &dept, &img, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return model.Candidate{}, err
	}
	assignNullable(&c, bio, dept, img)
	return c, nil
}

func assignNullable(c *model.Candidate, bio, dept, img sql.NullString) {
	if bio.Valid {
		v := bio.String
		c.Bio = &v
	}
	if dept.Valid {
		v := dept.String
		c.Department = &v
	}
	if img.Valid {
		v := img.String
		c.ImageURL = &v
	}
}
