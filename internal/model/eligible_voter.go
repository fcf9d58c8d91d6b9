package model

import "time"

// EligibleVoter is a roster entry that pre-authorizes registration.  It is
// not an account: a student may appear on the roster and never register.
// Matric numbers are stored normalized (trimmed, upper case) so lookups
// against user supplied input compare equal regardless of casing.
//
// Fields:
//  ID         – primary key identifier.
//  MatricNo   – normalized matriculation number, unique.
//  Name       – student name as it appears on the roster.
//  Department – student department.
//  CreatedAt  – creation timestamp.
type EligibleVoter struct {
	ID         uint64    `json:"id"`         // eligible_voters.id
	MatricNo   string    `json:"matric_no"`  // eligible_voters.matric_no
	Name       string    `json:"name"`       // eligible_voters.name
	Department string    `json:"department"` // eligible_voters.department
	CreatedAt  time.Time `json:"created_at"` // eligible_voters.created_at
}
