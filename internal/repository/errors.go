// Package repository implements raw-SQL data access for the election
// service.  This file defines sentinel error values shared across the
// repositories so handlers can map failure scenarios onto HTTP responses
// without inspecting driver specific errors themselves.  Validation
// failures (ErrDuplicateVote, ErrNotEligible, ...) are terminal and are
// returned to the caller verbatim; only transient storage failures are
// ever retried.
package repository

import (
	"database/sql"
	"errors"
	"strings"
)

// ErrDuplicateVote is returned when a voter already has an accepted vote
// for the post.  It originates from the unique (post_id, user_id) index,
// never from an application level pre-check, and is terminal: handlers
// translate it into an HTTP 409 with a specific "already voted" message.
var ErrDuplicateVote = errors.New("already voted for this position")

// ErrNotEligible is returned when a matric number is absent from the
// eligible-voter roster during registration.  Handlers translate this
// into an HTTP 403 response.
var ErrNotEligible = errors.New("matric number not on the eligible voters roster")

// ErrAlreadyRegistered is returned when an account already exists for the
// email or matric number being registered.  Handlers translate this into
// an HTTP 409 response.
var ErrAlreadyRegistered = errors.New("account already exists for this email or matric number")

// ErrElectionClosed is returned when the election owning a post is
// inactive or its end time has passed.  Votes are refused with HTTP 409.
var ErrElectionClosed = errors.New("election is closed")

// ErrElectionNotStarted is returned when voting is attempted before the
// election's start time.
var ErrElectionNotStarted = errors.New("election has not started")

// ErrCandidateMismatch is returned when the candidate exists but runs for
// a different post than the one being voted on.  Handlers translate this
// into an HTTP 422 response.
var ErrCandidateMismatch = errors.New("candidate does not belong to this post")

// ErrDuplicateCandidate is returned when a candidate with the same name
// already exists under the post.  Handlers translate this into 409.
var ErrDuplicateCandidate = errors.New("candidate with this name already exists for the post")

// ErrDuplicatePost is returned when a post title already exists within
// the election.
var ErrDuplicatePost = errors.New("post with this title already exists in the election")

// Not-found sentinels.  Handlers translate these into HTTP 404.
var (
	ErrElectionNotFound  = errors.New("election not found")
	ErrPostNotFound      = errors.New("post not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrUserNotFound      = errors.New("user not found")
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// isDuplicateEntry reports whether err is a unique-constraint violation.
// MySQL surfaces these as error 1062; the sqlite driver used in tests
// reports "UNIQUE constraint failed".
func isDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "unique constraint")
}

// terminal reports whether err is one of the sentinel values above (or a
// plain no-rows result) that must never be retried.
func terminal(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	for _, sentinel := range []error{
		ErrDuplicateVote, ErrNotEligible, ErrAlreadyRegistered,
		ErrElectionClosed, ErrElectionNotStarted, ErrCandidateMismatch,
		ErrDuplicateCandidate, ErrDuplicatePost,
		ErrElectionNotFound, ErrPostNotFound, ErrCandidateNotFound,
		ErrUserNotFound, ErrForbidden,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return isDuplicateEntry(err)
}
