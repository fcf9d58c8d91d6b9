package handler

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/univote/campus-election-api/internal/config"
	"github.com/univote/campus-election-api/internal/repository"
	"github.com/univote/campus-election-api/internal/testutil"
	"github.com/univote/campus-election-api/internal/utils"
)

func testConfig() config.Config {
	return config.Config{
		Env:            "test",
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}
}

func newAuthHandler(db *sql.DB) *AuthHandler {
	return NewAuthHandler(testConfig(),
		repository.NewUserRepo(db),
		repository.NewEligibleVoterRepo(db),
		repository.NewTokenRepo(db))
}

func TestRegisterEligibleVoter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newAuthHandler(db)

	testutil.SeedEligibleVoter(t, db, "2021/CS/001", "Ada Obi", "Computer Science")

	rec := testutil.MakeRequest(t, http.MethodPost, "/v1/auth/register", map[string]string{
		"email":     "ada@campus.edu",
		"name":      "Ada Obi",
		"matric_no": " 2021/cs/001 ", // normalized before the roster check
		"password":  "s3cret",
	}, nil, h.Register)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var resp authResp
	testutil.DecodeJSON(t, rec, &resp)
	if resp.User.Role != "user" {
		t.Errorf("role = %q, want user", resp.User.Role)
	}
	if resp.User.MatricNo != "2021/CS/001" {
		t.Errorf("matric = %q, want normalized", resp.User.MatricNo)
	}
	if resp.Access.Token == "" || resp.Refresh.Token == "" {
		t.Error("token pair missing")
	}
}

func TestRegisterNotEligible(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newAuthHandler(db)

	rec := testutil.MakeRequest(t, http.MethodPost, "/v1/auth/register", map[string]string{
		"email":     "imp@campus.edu",
		"name":      "Imposter",
		"matric_no": "2099/XX/999",
		"password":  "s3cret",
	}, nil, h.Register)
	testutil.AssertStatus(t, rec, http.StatusForbidden)

	if n := testutil.CountRows(t, db, "users", ""); n != 0 {
		t.Fatalf("users created = %d, want 0", n)
	}
}

func TestRegisterTwiceConflicts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newAuthHandler(db)

	testutil.SeedEligibleVoter(t, db, "2021/CS/002", "Ben Eze", "Physics")
	body := map[string]string{
		"email":     "ben@campus.edu",
		"name":      "Ben Eze",
		"matric_no": "2021/CS/002",
		"password":  "s3cret",
	}

	rec := testutil.MakeRequest(t, http.MethodPost, "/v1/auth/register", body, nil, h.Register)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	rec = testutil.MakeRequest(t, http.MethodPost, "/v1/auth/register", body, nil, h.Register)
	testutil.AssertStatus(t, rec, http.StatusConflict)
}

func TestRegisterMissingFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newAuthHandler(db)

	rec := testutil.MakeRequest(t, http.MethodPost, "/v1/auth/register", map[string]string{
		"email": "x@campus.edu",
	}, nil, h.Register)
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newAuthHandler(db)

	hash, err := utils.HashPassword("s3cret", 4)
	if err != nil {
		t.Fatal(err)
	}
	testutil.SeedUser(t, db, "ada@campus.edu", "Ada", "2021/CS/001", hash, "user")

	rec := testutil.MakeRequest(t, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "Ada@Campus.edu",
		"password": "s3cret",
	}, nil, h.Login)
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = testutil.MakeRequest(t, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "ada@campus.edu",
		"password": "wrong",
	}, nil, h.Login)
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)

	rec = testutil.MakeRequest(t, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "ghost@campus.edu",
		"password": "s3cret",
	}, nil, h.Login)
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
}

func TestRefreshRotatesToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newAuthHandler(db)

	testutil.SeedEligibleVoter(t, db, "2021/CS/003", "Chi Ude", "Maths")
	rec := testutil.MakeRequest(t, http.MethodPost, "/v1/auth/register", map[string]string{
		"email":     "chi@campus.edu",
		"name":      "Chi Ude",
		"matric_no": "2021/CS/003",
		"password":  "s3cret",
	}, nil, h.Register)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var first authResp
	testutil.DecodeJSON(t, rec, &first)

	rec = testutil.MakeRequest(t, http.MethodPost, "/v1/auth/refresh", map[string]string{
		"refresh_token": first.Refresh.Token,
	}, nil, h.Refresh)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var second authResp
	testutil.DecodeJSON(t, rec, &second)
	if second.Refresh.Token == first.Refresh.Token {
		t.Error("refresh token was not rotated")
	}

	// The old token is revoked by the rotation.
	rec = testutil.MakeRequest(t, http.MethodPost, "/v1/auth/refresh", map[string]string{
		"refresh_token": first.Refresh.Token,
	}, nil, h.Refresh)
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
}
