package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/univote/campus-election-api/internal/queue"
	"github.com/univote/campus-election-api/internal/repository"
	queue_publisher "github.com/univote/campus-election-api/internal/service"
	"github.com/univote/campus-election-api/internal/tally"
)

// VoteHandler bundles dependencies for casting votes and reading tallies.
type VoteHandler struct {
	Votes      *repository.VoteRepo
	Posts      *repository.PostRepo
	Candidates *repository.CandidateRepo
	// Publish is called after a ballot is accepted.  Swappable so tests
	// do not need a running broker.
	Publish func(ctx context.Context, ev queue.VoteRecordedEvent) error
}

func NewVoteHandler(v *repository.VoteRepo, p *repository.PostRepo, cand *repository.CandidateRepo) *VoteHandler {
	return &VoteHandler{Votes: v, Posts: p, Candidates: cand, Publish: queue_publisher.PublishVoteRecorded}
}

type submitVoteReq struct {
	PostID      uint64 `json:"post_id"`
	CandidateID uint64 `json:"candidate_id"`
}

// SubmitVote records one ballot for the authenticated voter.  The ledger
// enforces one vote per voter per post; a second attempt comes back 409
// regardless of candidate.
func (h *VoteHandler) SubmitVote(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req submitVoteReq
	if err := c.Bind(&req); err != nil || req.PostID == 0 || req.CandidateID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "post_id and candidate_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	vote, err := h.Votes.Create(ctx, req.PostID, req.CandidateID, uid)
	if err != nil {
		switch err {
		case repository.ErrDuplicateVote:
			return c.JSON(http.StatusConflict, echo.Map{"error": "you have already voted for this position"})
		case repository.ErrPostNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		case repository.ErrCandidateNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "candidate not found"})
		case repository.ErrCandidateMismatch:
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "candidate does not belong to post"})
		case repository.ErrElectionNotStarted:
			return c.JSON(http.StatusConflict, echo.Map{"error": "election has not started"})
		case repository.ErrElectionClosed:
			return c.JSON(http.StatusConflict, echo.Map{"error": "election is closed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record vote failed"})
	}

	// Audit event; broker failures must not fail an accepted ballot.
	if h.Publish != nil {
		ev := queue.VoteRecordedEvent{
			EventID:     uuid.NewString(),
			VoteID:      vote.ID,
			UserID:      uid,
			PostID:      vote.PostID,
			CandidateID: vote.CandidateID,
			RecordedAt:  vote.CreatedAt.UTC().Format(time.RFC3339),
		}
		if post, err := h.Posts.GetByID(ctx, vote.PostID); err == nil {
			ev.PostTitle = post.Title
		}
		if cand, err := h.Candidates.GetByID(ctx, vote.CandidateID); err == nil {
			ev.CandidateName = cand.Name
		}
		go func() {
			pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer pubCancel()
			_ = h.Publish(pubCtx, ev)
		}()
	}

	return c.JSON(http.StatusCreated, vote)
}

// ResultsByPost returns the tally for one post.  Every candidate appears
// even with zero votes; ordering is vote count descending then name.
func (h *VoteHandler) ResultsByPost(c echo.Context) error {
	postID := pathID(c, "id")
	if postID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Posts.GetByID(ctx, postID); err != nil {
		if err == repository.ErrPostNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	cands, err := h.Candidates.ListByPost(ctx, postID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	votes, err := h.Votes.ListByPost(ctx, postID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	res := tally.Compute(cands, votes)
	return c.JSON(http.StatusOK, echo.Map{
		"post_id":     postID,
		"total_votes": res.TotalVotes,
		"candidates":  res.Candidates,
	})
}

// ResultsByElection returns tallies for every post of an election keyed
// by post ID.
func (h *VoteHandler) ResultsByElection(c echo.Context) error {
	electionID := pathID(c, "id")
	if electionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid election id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, err := h.Posts.List(ctx, electionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	ids := make([]uint64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	cands, err := h.Candidates.ListByPosts(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	allVotes, err := h.Votes.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	results := tally.ComputeAll(posts, cands, allVotes)

	type postResult struct {
		PostID     uint64                  `json:"post_id"`
		Title      string                  `json:"title"`
		TotalVotes int                     `json:"total_votes"`
		Candidates []tally.CandidateResult `json:"candidates"`
	}
	out := make([]postResult, 0, len(posts))
	for _, p := range posts {
		r := results[p.ID]
		out = append(out, postResult{PostID: p.ID, Title: p.Title, TotalVotes: r.TotalVotes, Candidates: r.Candidates})
	}
	return c.JSON(http.StatusOK, echo.Map{"election_id": electionID, "posts": out})
}

// ListMyVotes returns the authenticated voter's own ballots.
func (h *VoteHandler) ListMyVotes(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	votes, err := h.Votes.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, votes)
}

// ListUserVotes returns another user's ballots.  Voters may only read
// their own; admins may read anyone's.
func (h *VoteHandler) ListUserVotes(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	target := pathID(c, "id")
	if target == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if target != uid && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	votes, err := h.Votes.ListByUser(ctx, target)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, votes)
}

// ListAllVotes returns the whole ledger (admin only, enforced in routing).
func (h *VoteHandler) ListAllVotes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	votes, err := h.Votes.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, votes)
}
