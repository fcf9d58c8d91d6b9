package model

import "time"

// Roles stored in users.role.  "admin" accounts manage the catalog and may
// read the full vote ledger; "user" accounts may only vote and read their
// own history.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents a registered account as stored in the `users` table.
// Accounts are only created when the matric number matches an
// EligibleVoter roster entry; email and matric number are both unique.
// The password hash is never serialized.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique, stored lower case.
//  Name         – display name.
//  MatricNo     – normalized matriculation number, unique.
//  PasswordHash – bcrypt hash of the password.
//  Role         – "admin" or "user".
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`         // users.id
	Email        string    `json:"email"`      // users.email
	Name         string    `json:"name"`       // users.name
	MatricNo     string    `json:"matric_no"`  // users.matric_no
	PasswordHash string    `json:"-"`          // users.password_hash
	Role         string    `json:"role"`       // users.role
	CreatedAt    time.Time `json:"created_at"` // users.created_at
	UpdatedAt    time.Time `json:"updated_at"` // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each token
// belongs to a user and carries expiry and revocation metadata.  The plain
// token is never stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (nil if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
