package handler

import (
	"database/sql"
	"net/http"
	"strconv"
	"testing"

	"github.com/univote/campus-election-api/internal/model"
	"github.com/univote/campus-election-api/internal/repository"
	"github.com/univote/campus-election-api/internal/tally"
	"github.com/univote/campus-election-api/internal/testutil"
)

func newVoteHandler(db *sql.DB) *VoteHandler {
	h := NewVoteHandler(
		repository.NewVoteRepo(db),
		repository.NewPostRepo(db),
		repository.NewCandidateRepo(db))
	h.Publish = nil // no broker in tests
	return h
}

func itoa(u uint64) string { return strconv.FormatUint(u, 10) }

func voterCtx(uid uint64) map[string]interface{} {
	return map[string]interface{}{"user_id": uid, "role": model.RoleUser}
}

func adminCtx(uid uint64) map[string]interface{} {
	return map[string]interface{}{"user_id": uid, "role": model.RoleAdmin}
}

func TestSubmitVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newVoteHandler(db)

	eid := testutil.SeedOpenElection(t, db, "SU Elections")
	pid := testutil.SeedPost(t, db, eid, "President")
	cid := testutil.SeedCandidate(t, db, pid, "Ada Obi")
	uid := testutil.SeedUser(t, db, "v@campus.edu", "V", "2021/CS/001", "x", "user")

	rec := testutil.MakeRequest(t, http.MethodPost, "/v1/votes", map[string]uint64{
		"post_id":      pid,
		"candidate_id": cid,
	}, voterCtx(uid), h.SubmitVote)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var v model.Vote
	testutil.DecodeJSON(t, rec, &v)
	if v.PostID != pid || v.CandidateID != cid || v.UserID != uid {
		t.Fatalf("unexpected vote: %+v", v)
	}
}

func TestSubmitVoteDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newVoteHandler(db)

	eid := testutil.SeedOpenElection(t, db, "SU Elections")
	pid := testutil.SeedPost(t, db, eid, "President")
	c1 := testutil.SeedCandidate(t, db, pid, "Ada Obi")
	c2 := testutil.SeedCandidate(t, db, pid, "Ben Eze")
	uid := testutil.SeedUser(t, db, "v@campus.edu", "V", "2021/CS/002", "x", "user")

	rec := testutil.MakeRequest(t, http.MethodPost, "/v1/votes",
		map[string]uint64{"post_id": pid, "candidate_id": c1}, voterCtx(uid), h.SubmitVote)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	// A different candidate makes no difference; one vote per post.
	rec = testutil.MakeRequest(t, http.MethodPost, "/v1/votes",
		map[string]uint64{"post_id": pid, "candidate_id": c2}, voterCtx(uid), h.SubmitVote)
	testutil.AssertStatus(t, rec, http.StatusConflict)
}

func TestSubmitVoteBadTargets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newVoteHandler(db)

	eid := testutil.SeedOpenElection(t, db, "SU Elections")
	p1 := testutil.SeedPost(t, db, eid, "President")
	p2 := testutil.SeedPost(t, db, eid, "Secretary")
	c1 := testutil.SeedCandidate(t, db, p1, "Ada Obi")
	uid := testutil.SeedUser(t, db, "v@campus.edu", "V", "2021/CS/003", "x", "user")

	rec := testutil.MakeRequest(t, http.MethodPost, "/v1/votes",
		map[string]uint64{"post_id": p1, "candidate_id": 9999}, voterCtx(uid), h.SubmitVote)
	testutil.AssertStatus(t, rec, http.StatusNotFound)

	rec = testutil.MakeRequest(t, http.MethodPost, "/v1/votes",
		map[string]uint64{"post_id": p2, "candidate_id": c1}, voterCtx(uid), h.SubmitVote)
	testutil.AssertStatus(t, rec, http.StatusUnprocessableEntity)
}

func TestResultsByPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newVoteHandler(db)

	eid := testutil.SeedOpenElection(t, db, "SU Elections")
	pid := testutil.SeedPost(t, db, eid, "President")
	c1 := testutil.SeedCandidate(t, db, pid, "Ada Obi")
	c2 := testutil.SeedCandidate(t, db, pid, "Ben Eze")

	u1 := testutil.SeedUser(t, db, "a@campus.edu", "A", "2021/CS/011", "x", "user")
	u2 := testutil.SeedUser(t, db, "b@campus.edu", "B", "2021/CS/012", "x", "user")
	u3 := testutil.SeedUser(t, db, "c@campus.edu", "C", "2021/CS/013", "x", "user")
	testutil.SeedVote(t, db, pid, c1, u1)
	testutil.SeedVote(t, db, pid, c1, u2)
	testutil.SeedVote(t, db, pid, c2, u3)

	rec := testutil.MakeRequest(t, http.MethodGet, "/v1/posts/"+itoa(pid)+"/results", nil, nil, h.ResultsByPost)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var resp struct {
		PostID     uint64                  `json:"post_id"`
		TotalVotes int                     `json:"total_votes"`
		Candidates []tally.CandidateResult `json:"candidates"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.TotalVotes != 3 {
		t.Fatalf("total = %d, want 3", resp.TotalVotes)
	}
	if resp.Candidates[0].Name != "Ada Obi" || resp.Candidates[0].VoteCount != 2 {
		t.Fatalf("leader wrong: %+v", resp.Candidates[0])
	}
	if resp.Candidates[1].VoteCount != 1 {
		t.Fatalf("runner-up wrong: %+v", resp.Candidates[1])
	}
}

func TestResultsByPostNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newVoteHandler(db)

	rec := testutil.MakeRequest(t, http.MethodGet, "/v1/posts/9999/results", nil, nil, h.ResultsByPost)
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestListUserVotesAuthorization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newVoteHandler(db)

	eid := testutil.SeedOpenElection(t, db, "SU Elections")
	pid := testutil.SeedPost(t, db, eid, "President")
	cid := testutil.SeedCandidate(t, db, pid, "Ada Obi")
	owner := testutil.SeedUser(t, db, "o@campus.edu", "O", "2021/CS/021", "x", "user")
	other := testutil.SeedUser(t, db, "p@campus.edu", "P", "2021/CS/022", "x", "user")
	admin := testutil.SeedUser(t, db, "adm@campus.edu", "Adm", "STF/001", "x", "admin")
	testutil.SeedVote(t, db, pid, cid, owner)

	target := "/v1/users/" + itoa(owner) + "/votes"

	// The voter reads their own ballots.
	rec := testutil.MakeRequest(t, http.MethodGet, target, nil, voterCtx(owner), h.ListUserVotes)
	testutil.AssertStatus(t, rec, http.StatusOK)

	// Another voter is refused.
	rec = testutil.MakeRequest(t, http.MethodGet, target, nil, voterCtx(other), h.ListUserVotes)
	testutil.AssertStatus(t, rec, http.StatusForbidden)

	// An admin may read anyone's.
	rec = testutil.MakeRequest(t, http.MethodGet, target, nil, adminCtx(admin), h.ListUserVotes)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var votes []model.Vote
	testutil.DecodeJSON(t, rec, &votes)
	if len(votes) != 1 || votes[0].UserID != owner {
		t.Fatalf("unexpected votes: %+v", votes)
	}
}

// Full voter journey: an eligible student registers, votes once, is
// refused a second ballot, and the tally reflects exactly one vote.
func TestVoterJourney(t *testing.T) {
	db := testutil.SetupTestDB(t)
	authH := newAuthHandler(db)
	voteH := newVoteHandler(db)

	testutil.SeedEligibleVoter(t, db, "2021/CS/001", "Ada Obi", "Computer Science")
	eid := testutil.SeedOpenElection(t, db, "Student Union Elections 2026")
	pid := testutil.SeedPost(t, db, eid, "President")
	c1 := testutil.SeedCandidate(t, db, pid, "Ngozi Ike")
	c2 := testutil.SeedCandidate(t, db, pid, "Tunde Ojo")

	rec := testutil.MakeRequest(t, http.MethodPost, "/v1/auth/register", map[string]string{
		"email":     "ada@campus.edu",
		"name":      "Ada Obi",
		"matric_no": "2021/cs/001",
		"password":  "s3cret",
	}, nil, authH.Register)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var reg authResp
	testutil.DecodeJSON(t, rec, &reg)

	rec = testutil.MakeRequest(t, http.MethodPost, "/v1/votes",
		map[string]uint64{"post_id": pid, "candidate_id": c1}, voterCtx(reg.User.ID), voteH.SubmitVote)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	rec = testutil.MakeRequest(t, http.MethodPost, "/v1/votes",
		map[string]uint64{"post_id": pid, "candidate_id": c2}, voterCtx(reg.User.ID), voteH.SubmitVote)
	testutil.AssertStatus(t, rec, http.StatusConflict)

	rec = testutil.MakeRequest(t, http.MethodGet, "/v1/posts/"+itoa(pid)+"/results", nil, nil, voteH.ResultsByPost)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var resp struct {
		TotalVotes int                     `json:"total_votes"`
		Candidates []tally.CandidateResult `json:"candidates"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.TotalVotes != 1 {
		t.Fatalf("total = %d, want 1", resp.TotalVotes)
	}
	if resp.Candidates[0].Name != "Ngozi Ike" || resp.Candidates[0].Percentage != 100 {
		t.Fatalf("leader wrong: %+v", resp.Candidates[0])
	}
	if resp.Candidates[1].VoteCount != 0 || resp.Candidates[1].Percentage != 0 {
		t.Fatalf("zero-vote candidate wrong: %+v", resp.Candidates[1])
	}
}
