// Package queue defines message payloads exchanged over the message broker.
package queue

// VoteRecordedEvent is published after a ballot is accepted into the
// ledger.  It carries enough context for downstream consumers to build
// an audit trail or live dashboards without querying the primary
// database.  EventID is a UUID so replayed deliveries can be detected.
type VoteRecordedEvent struct {
	EventID       string `json:"event_id"`
	VoteID        uint64 `json:"vote_id"`
	UserID        uint64 `json:"user_id"`
	PostID        uint64 `json:"post_id"`
	PostTitle     string `json:"post_title"`
	CandidateID   uint64 `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
	RecordedAt    string `json:"recorded_at"`
}
