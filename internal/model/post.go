package model

import "time"

// Post is a contested position ("President", "Treasurer", ...) within an
// election.  Candidates run for exactly one post and every vote is cast
// against a post.  A post's identity is immutable once candidates or
// votes reference it.
//
// Fields:
//  ID          – primary key identifier.
//  ElectionID  – election this post belongs to.
//  Title       – position title, unique per election.
//  Description – optional description shown to voters.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Post struct {
	ID          uint64    `json:"id"`          // posts.id
	ElectionID  uint64    `json:"election_id"` // posts.election_id
	Title       string    `json:"title"`       // posts.title
	Description *string   `json:"description"` // posts.description (nullable)
	CreatedAt   time.Time `json:"created_at"`  // posts.created_at
	UpdatedAt   time.Time `json:"updated_at"`  // posts.updated_at
}
