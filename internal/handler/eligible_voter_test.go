package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/univote/campus-election-api/internal/model"
	"github.com/univote/campus-election-api/internal/repository"
	"github.com/univote/campus-election-api/internal/testutil"
)

func TestAddEligibleVoter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewEligibleVoterHandler(repository.NewEligibleVoterRepo(db))

	rec := testutil.MakeRequest(t, http.MethodPost, "/v1/admin/eligible-voters", map[string]string{
		"matric_no":  " 2021/cs/001 ",
		"name":       "Ada Obi",
		"department": "Computer Science",
	}, adminCtx(1), h.Add)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var v model.EligibleVoter
	testutil.DecodeJSON(t, rec, &v)
	if v.MatricNo != "2021/CS/001" {
		t.Fatalf("matric = %q, want normalized", v.MatricNo)
	}

	// Same matric again conflicts.
	rec = testutil.MakeRequest(t, http.MethodPost, "/v1/admin/eligible-voters", map[string]string{
		"matric_no": "2021/CS/001",
		"name":      "Ada Obi",
	}, adminCtx(1), h.Add)
	testutil.AssertStatus(t, rec, http.StatusConflict)
}

func TestImportCSV(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewEligibleVoterHandler(repository.NewEligibleVoterRepo(db))

	csvBody := "matric_no,name,department\n" +
		"2021/cs/001,Ada Obi,Computer Science\n" +
		"2021/CS/002,Ben Eze,Physics\n" +
		",Missing Matric,\n" +
		"2021/cs/001,Ada Obi,Software Engineering\n"

	rec := importCSV(t, h, csvBody)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var resp struct {
		Imported int `json:"imported"`
		Skipped  int `json:"skipped"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Imported != 3 || resp.Skipped != 1 {
		t.Fatalf("imported=%d skipped=%d, want 3/1", resp.Imported, resp.Skipped)
	}

	// The duplicate line updated rather than re-inserted.
	if n := testutil.CountRows(t, db, "eligible_voters", ""); n != 2 {
		t.Fatalf("roster rows = %d, want 2", n)
	}
	v, err := repository.NewEligibleVoterRepo(db).FindByMatric(
		context.Background(), "2021/CS/001")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if v.Department != "Software Engineering" {
		t.Fatalf("department = %q, want last imported value", v.Department)
	}
}

func importCSV(t *testing.T, h *EligibleVoterHandler, csvBody string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "roster.csv")
	if err != nil {
		t.Fatalf("multipart: %v", err)
	}
	if _, err := fw.Write([]byte(csvBody)); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/eligible-voters/import", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if err := h.ImportCSV(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}
