package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/univote/campus-election-api/internal/model"
)

// PostRepo provides access to contested positions.  Posts are sorted by
// title on reads so ballots render in a stable order.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

// List returns posts, optionally restricted to one election, sorted by
// title.  electionID == 0 means no filter.
func (r *PostRepo) List(ctx context.Context, electionID uint64) ([]model.Post, error) {
	query := `SELECT id, election_id, title, description, created_at, updated_at FROM posts`
	args := []interface{}{}
	if electionID != 0 {
		query += " WHERE election_id=?"
		args = append(args, electionID)
	}
	query += " ORDER BY title"
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := make([]model.Post, 0)
	for rows.Next() {
		var p model.Post
		var desc sql.NullString
		if err := rows.Scan(&p.ID, &p.ElectionID, &p.Title, &desc, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			p.Description = &d
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetByID returns a single post or ErrPostNotFound.
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (model.Post, error) {
	var p model.Post
	var desc sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, election_id, title, description, created_at, updated_at FROM posts WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.ElectionID, &p.Title, &desc, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, err
	}
	if desc.Valid {
		d := desc.String
		p.Description = &d
	}
	return p, nil
}

// Create inserts a post under an election.  The election must exist and
// the title must be unique within it.
func (r *PostRepo) Create(ctx context.Context, electionID uint64, title string, description *string) (model.Post, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM elections WHERE id=? LIMIT 1", electionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrElectionNotFound
	}
	if err != nil {
		return model.Post{}, err
	}
	now := time.Now().UTC()
	p := model.Post{
		ElectionID:  electionID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (election_id, title, description, created_at, updated_at) VALUES (?,?,?,?,?)",
		p.ElectionID, p.Title, nullable(p.Description), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			return model.Post{}, ErrDuplicatePost
		}
		return model.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, err
	}
	p.ID = uint64(id)
	return p, nil
}
