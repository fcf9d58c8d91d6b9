package handler

import (
	"net/http"
	"testing"

	"github.com/univote/campus-election-api/internal/model"
	"github.com/univote/campus-election-api/internal/repository"
	"github.com/univote/campus-election-api/internal/testutil"
)

func TestCreateElectionValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewElectionHandler(repository.NewElectionRepo(db), repository.NewPostRepo(db))

	rec := testutil.MakeRequest(t, http.MethodPost, "/v1/admin/elections", map[string]interface{}{
		"title":      "SU Elections",
		"start_time": "2026-09-01T08:00:00Z",
		"end_time":   "2026-09-01T07:00:00Z", // before start
	}, adminCtx(1), h.Create)
	testutil.AssertStatus(t, rec, http.StatusBadRequest)

	rec = testutil.MakeRequest(t, http.MethodPost, "/v1/admin/elections", map[string]interface{}{
		"title":      "SU Elections",
		"start_time": "2026-09-01T08:00:00Z",
		"end_time":   "2026-09-02T18:00:00Z",
	}, adminCtx(1), h.Create)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var e model.Election
	testutil.DecodeJSON(t, rec, &e)
	if e.ID == 0 || !e.IsActive {
		t.Fatalf("unexpected election: %+v", e)
	}
}

func TestCreatePostDuplicateTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewPostHandler(repository.NewPostRepo(db), repository.NewCandidateRepo(db))

	eid := testutil.SeedOpenElection(t, db, "SU Elections")

	body := map[string]interface{}{"election_id": eid, "title": "President"}
	rec := testutil.MakeRequest(t, http.MethodPost, "/v1/admin/posts", body, adminCtx(1), h.Create)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	rec = testutil.MakeRequest(t, http.MethodPost, "/v1/admin/posts", body, adminCtx(1), h.Create)
	testutil.AssertStatus(t, rec, http.StatusConflict)

	rec = testutil.MakeRequest(t, http.MethodPost, "/v1/admin/posts", map[string]interface{}{
		"election_id": 9999, "title": "Treasurer",
	}, adminCtx(1), h.Create)
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestGetPostWithCandidates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewPostHandler(repository.NewPostRepo(db), repository.NewCandidateRepo(db))

	eid := testutil.SeedOpenElection(t, db, "SU Elections")
	pid := testutil.SeedPost(t, db, eid, "President")
	testutil.SeedCandidate(t, db, pid, "Ben Eze")
	testutil.SeedCandidate(t, db, pid, "Ada Obi")

	rec := testutil.MakeRequest(t, http.MethodGet, "/v1/posts/"+itoa(pid), nil, nil, h.Get)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var resp struct {
		Post       model.Post        `json:"post"`
		Candidates []model.Candidate `json:"candidates"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Post.ID != pid {
		t.Fatalf("post id = %d, want %d", resp.Post.ID, pid)
	}
	// Candidates come back name-ordered.
	if len(resp.Candidates) != 2 || resp.Candidates[0].Name != "Ada Obi" {
		t.Fatalf("unexpected candidates: %+v", resp.Candidates)
	}
}

func TestCandidateCreateUpdateDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewCandidateHandler(repository.NewCandidateRepo(db))

	eid := testutil.SeedOpenElection(t, db, "SU Elections")
	pid := testutil.SeedPost(t, db, eid, "President")

	rec := testutil.MakeRequest(t, http.MethodPost, "/v1/admin/candidates", map[string]interface{}{
		"post_id": pid, "name": "Ada Obi",
	}, adminCtx(1), h.Create)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var cand model.Candidate
	testutil.DecodeJSON(t, rec, &cand)

	// Duplicate name under the same post.
	rec = testutil.MakeRequest(t, http.MethodPost, "/v1/admin/candidates", map[string]interface{}{
		"post_id": pid, "name": "Ada Obi",
	}, adminCtx(1), h.Create)
	testutil.AssertStatus(t, rec, http.StatusConflict)

	rec = testutil.MakeRequest(t, http.MethodPut, "/v1/admin/candidates/"+itoa(cand.ID), map[string]interface{}{
		"name": "Ada N. Obi",
	}, adminCtx(1), h.Update)
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = testutil.MakeRequest(t, http.MethodDelete, "/v1/admin/candidates/"+itoa(cand.ID), nil, adminCtx(1), h.Delete)
	testutil.AssertStatus(t, rec, http.StatusNoContent)

	rec = testutil.MakeRequest(t, http.MethodDelete, "/v1/admin/candidates/"+itoa(cand.ID), nil, adminCtx(1), h.Delete)
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}
