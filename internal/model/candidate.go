package model

import "time"

// Candidate is a person running for a post.  No two candidates under the
// same post may share a name; the schema enforces this with a unique
// (post_id, name) index so accidental duplicate entry is rejected at the
// persistence layer.
//
// Fields:
//  ID         – primary key identifier.
//  PostID     – post the candidate is running for.
//  Name       – candidate display name, unique per post.
//  Bio        – optional manifesto or biography.
//  Department – optional department the candidate belongs to.
//  ImageURL   – optional portrait URL.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Candidate struct {
	ID         uint64    `json:"id"`         // candidates.id
	PostID     uint64    `json:"post_id"`    // candidates.post_id
	Name       string    `json:"name"`       // candidates.name
	Bio        *string   `json:"bio"`        // candidates.bio (nullable)
	Department *string   `json:"department"` // candidates.department (nullable)
	ImageURL   *string   `json:"image_url"`  // candidates.image_url (nullable)
	CreatedAt  time.Time `json:"created_at"` // candidates.created_at
	UpdatedAt  time.Time `json:"updated_at"` // candidates.updated_at
}
