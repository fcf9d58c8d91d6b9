package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/univote/campus-election-api/internal/model"
)

// VoteRepo is the vote ledger.  Vote rows are written exactly once and
// never mutated; every read-side aggregation recomputes from them.  The
// one-vote-per-(user, post) invariant is enforced by the unique
// (post_id, user_id) index, so two concurrent submissions from the same
// voter resolve to exactly one accepted row without any application
// level locking.
type VoteRepo struct{ DB *sql.DB }

func NewVoteRepo(db *sql.DB) *VoteRepo { return &VoteRepo{DB: db} }

// Create validates the (post, candidate) pair and the election window,
// then attempts the single conditional insert.  Precondition failures
// come back as sentinel errors; a uniqueness violation from the insert
// is mapped to ErrDuplicateVote and never retried.  Unclassified storage
// failures are retried with bounded backoff before being surfaced.
func (r *VoteRepo) Create(ctx context.Context, postID, candidateID, userID uint64) (*model.Vote, error) {
	// Candidate must exist and run for the post being voted on.  A
	// mismatch means the request references a real candidate under a
	// different post, which is a client error rather than a race.
	var candidatePost uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT post_id FROM candidates WHERE id=? LIMIT 1", candidateID).
		Scan(&candidatePost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	if candidatePost != postID {
		return nil, ErrCandidateMismatch
	}

	// The owning election must be active and inside its voting window.
	// Activity is evaluated here at submission time; there is no
	// background job closing elections.
	var (
		startTime time.Time
		endTime   time.Time
		isActive  bool
	)
	err = r.DB.QueryRowContext(ctx,
		`SELECT e.start_time, e.end_time, e.is_active
		 FROM posts p
		 JOIN elections e ON e.id = p.election_id
		 WHERE p.id=? LIMIT 1`, postID).
		Scan(&startTime, &endTime, &isActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	now := time.Now().UTC()
	if !isActive || now.After(endTime) {
		return nil, ErrElectionClosed
	}
	if now.Before(startTime) {
		return nil, ErrElectionNotStarted
	}

	vote := &model.Vote{
		PostID:      postID,
		CandidateID: candidateID,
		UserID:      userID,
		CreatedAt:   now,
	}
	err = withBackoff(ctx, func() error {
		res, execErr := r.DB.ExecContext(ctx,
			"INSERT INTO votes (post_id, candidate_id, user_id, created_at) VALUES (?,?,?,?)",
			postID, candidateID, userID, vote.CreatedAt)
		if execErr != nil {
			if isDuplicateEntry(execErr) {
				return ErrDuplicateVote
			}
			return execErr
		}
		id, idErr := res.LastInsertId()
		if idErr != nil {
			return idErr
		}
		vote.ID = uint64(id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vote, nil
}

// ListByPost returns every vote cast for the post.  Ordering is by
// insertion so tallies over the result are reproducible between calls
// with no intervening votes.
func (r *VoteRepo) ListByPost(ctx context.Context, postID uint64) ([]model.Vote, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, post_id, candidate_id, user_id, created_at FROM votes WHERE post_id=? ORDER BY id",
		postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVotes(rows)
}

// ListByUser returns the caller's own ballot history.  Handlers enforce
// that only the voter themselves or an admin may request it.
func (r *VoteRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Vote, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, post_id, candidate_id, user_id, created_at FROM votes WHERE user_id=? ORDER BY id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVotes(rows)
}

// ListAll returns the full ledger, admin only at the handler layer.
func (r *VoteRepo) ListAll(ctx context.Context) ([]model.Vote, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, post_id, candidate_id, user_id, created_at FROM votes ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVotes(rows)
}

func scanVotes(rows *sql.Rows) ([]model.Vote, error) {
	votes := make([]model.Vote, 0)
	for rows.Next() {
		var v model.Vote
		if err := rows.Scan(&v.ID, &v.PostID, &v.CandidateID, &v.UserID, &v.CreatedAt); err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return votes, nil
}
