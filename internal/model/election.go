package model

import "time"

// Election represents a single election cycle during which votes may be
// cast.  Exactly one election is expected to be active for voting in
// normal operation, although singularity is not enforced by the schema.
// Activity is decided at read time by comparing the current time against
// the start and end timestamps together with the is_active flag; there is
// no background job flipping elections off.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – human readable election title.
//  Description – optional description of the election.
//  StartTime   – when voting opens (UTC).
//  EndTime     – when voting closes (UTC).
//  IsActive    – administrator controlled on/off switch.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Election struct {
	ID          uint64    `json:"id"`          // elections.id
	Title       string    `json:"title"`       // elections.title
	Description *string   `json:"description"` // elections.description (nullable)
	StartTime   time.Time `json:"start_time"`  // elections.start_time
	EndTime     time.Time `json:"end_time"`    // elections.end_time
	IsActive    bool      `json:"is_active"`   // elections.is_active
	CreatedAt   time.Time `json:"created_at"`  // elections.created_at
	UpdatedAt   time.Time `json:"updated_at"`  // elections.updated_at
}
