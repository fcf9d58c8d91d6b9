package model

import "time"

// Vote is a single accepted ballot entry.  The central correctness
// property of the whole service lives here: at most one vote exists per
// (user_id, post_id) pair, enforced by a unique index in the `votes`
// table rather than by application level checks.  Vote rows are written
// once and never mutated; tallies are always recomputed from them.
//
// Fields:
//  ID          – primary key identifier.
//  PostID      – post the vote was cast for.
//  CandidateID – candidate receiving the vote; must belong to PostID.
//  UserID      – voter who cast the vote.
//  CreatedAt   – when the vote was accepted.
type Vote struct {
	ID          uint64    `json:"id"`           // votes.id
	PostID      uint64    `json:"post_id"`      // votes.post_id
	CandidateID uint64    `json:"candidate_id"` // votes.candidate_id
	UserID      uint64    `json:"user_id"`      // votes.user_id
	CreatedAt   time.Time `json:"created_at"`   // votes.created_at
}
