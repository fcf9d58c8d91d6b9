// Package testutil provides an in-memory database and HTTP helpers for
// package tests.  Tests run against SQLite instead of MySQL; the
// repositories use ?-placeholders and portable SQL so the same queries
// run on both engines, and the schema below mirrors the production
// migration including every unique index.
package testutil

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	_ "modernc.org/sqlite"
)

var dbSeq atomic.Int64

const schema = `
CREATE TABLE elections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	election_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (election_id, title)
);
CREATE TABLE candidates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	post_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	bio TEXT,
	department TEXT,
	image_url TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (post_id, name)
);
CREATE TABLE eligible_voters (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	matric_no TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	department TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	matric_no TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'user',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE votes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	post_id INTEGER NOT NULL,
	candidate_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (post_id, user_id)
);
CREATE TABLE refresh_tokens (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	token_hash TEXT NOT NULL,
	expires_at DATETIME NOT NULL,
	revoked_at DATETIME,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SetupTestDB opens a fresh in-memory database with the full schema.
// Each call gets its own database; shared cache plus a single connection
// keeps concurrent test writers on one engine instance.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// ----- seed helpers -----

// SeedElection inserts an election open for the given window and returns
// its ID.
func SeedElection(t *testing.T, db *sql.DB, title string, start, end time.Time, active bool) uint64 {
	t.Helper()
	return insert(t, db,
		"INSERT INTO elections (title, start_time, end_time, is_active, created_at, updated_at) VALUES (?,?,?,?,?,?)",
		title, start.UTC(), end.UTC(), active, time.Now().UTC(), time.Now().UTC())
}

// SeedOpenElection inserts an election whose window spans now.
func SeedOpenElection(t *testing.T, db *sql.DB, title string) uint64 {
	t.Helper()
	now := time.Now().UTC()
	return SeedElection(t, db, title, now.Add(-time.Hour), now.Add(time.Hour), true)
}

// SeedPost inserts a contested post and returns its ID.
func SeedPost(t *testing.T, db *sql.DB, electionID uint64, title string) uint64 {
	t.Helper()
	return insert(t, db,
		"INSERT INTO posts (election_id, title, created_at, updated_at) VALUES (?,?,?,?)",
		electionID, title, time.Now().UTC(), time.Now().UTC())
}

// SeedCandidate inserts a candidate under a post and returns its ID.
func SeedCandidate(t *testing.T, db *sql.DB, postID uint64, name string) uint64 {
	t.Helper()
	return insert(t, db,
		"INSERT INTO candidates (post_id, name, created_at, updated_at) VALUES (?,?,?,?)",
		postID, name, time.Now().UTC(), time.Now().UTC())
}

// SeedEligibleVoter inserts a roster entry.  The matric number is stored
// as given; normalization is the repository's job.
func SeedEligibleVoter(t *testing.T, db *sql.DB, matricNo, name, department string) uint64 {
	t.Helper()
	return insert(t, db,
		"INSERT INTO eligible_voters (matric_no, name, department, created_at) VALUES (?,?,?,?)",
		matricNo, name, department, time.Now().UTC())
}

// SeedUser inserts an account with a pre-hashed password and returns its ID.
func SeedUser(t *testing.T, db *sql.DB, email, name, matricNo, passwordHash, role string) uint64 {
	t.Helper()
	return insert(t, db,
		"INSERT INTO users (email, name, matric_no, password_hash, role, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		email, name, matricNo, passwordHash, role, time.Now().UTC(), time.Now().UTC())
}

// SeedVote inserts a ledger row directly, bypassing validation.
func SeedVote(t *testing.T, db *sql.DB, postID, candidateID, userID uint64) uint64 {
	t.Helper()
	return insert(t, db,
		"INSERT INTO votes (post_id, candidate_id, user_id, created_at) VALUES (?,?,?,?)",
		postID, candidateID, userID, time.Now().UTC())
}

func insert(t *testing.T, db *sql.DB, query string, args ...interface{}) uint64 {
	t.Helper()
	res, err := db.ExecContext(context.Background(), query, args...)
	if err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seed last insert id: %v", err)
	}
	return uint64(id)
}

// CountRows returns the number of rows in a table matching the optional
// WHERE clause.
func CountRows(t *testing.T, db *sql.DB, table, where string, args ...interface{}) int {
	t.Helper()
	q := "SELECT COUNT(*) FROM " + table
	if where != "" {
		q += " WHERE " + where
	}
	var n int
	if err := db.QueryRow(q, args...).Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

// ----- HTTP helpers -----

// MakeRequest runs a handler through a fresh Echo context and returns
// the recorder.  Context values (e.g. user_id, role) are applied before
// the handler runs, standing in for the JWT middleware.
func MakeRequest(t *testing.T, method, target string, body interface{}, ctxValues map[string]interface{}, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = strings.NewReader(string(bs))
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	e := echo.New()
	c := e.NewContext(req, rec)
	applyPathParams(c, target)
	for k, v := range ctxValues {
		c.Set(k, v)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

// applyPathParams maps a concrete URL like /v1/posts/3/results onto the
// ":id" parameter handlers read.  Only the single numeric segment form
// is needed by the tests.
func applyPathParams(c echo.Context, target string) {
	parts := strings.Split(strings.SplitN(target, "?", 2)[0], "/")
	for _, p := range parts {
		if p == "" {
			continue
		}
		if isDigits(p) {
			c.SetParamNames("id")
			c.SetParamValues(p)
			return
		}
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// AssertStatus fails the test when the recorded status differs.
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}

// DecodeJSON unmarshals the response body into v.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
}
