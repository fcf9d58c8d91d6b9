package handler

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/univote/campus-election-api/internal/repository"
	"github.com/univote/campus-election-api/internal/utils"
)

// EligibleVoterHandler manages the eligibility roster (admin only,
// enforced in routing).
type EligibleVoterHandler struct {
	Roster *repository.EligibleVoterRepo
}

func NewEligibleVoterHandler(r *repository.EligibleVoterRepo) *EligibleVoterHandler {
	return &EligibleVoterHandler{Roster: r}
}

type addVoterReq struct {
	MatricNo   string `json:"matric_no"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// List returns the whole roster.
func (h *EligibleVoterHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	voters, err := h.Roster.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, voters)
}

// Add appends a single roster entry.
func (h *EligibleVoterHandler) Add(c echo.Context) error {
	var req addVoterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.MatricNo = utils.NormalizeMatric(req.MatricNo)
	req.Name = strings.TrimSpace(req.Name)
	if req.MatricNo == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "matric_no and name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Roster.Create(ctx, req.MatricNo, req.Name, strings.TrimSpace(req.Department))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate") ||
			strings.Contains(strings.ToLower(err.Error()), "unique") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "matric number already on roster"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add voter failed"})
	}
	return c.JSON(http.StatusCreated, v)
}

// ImportCSV bulk loads roster entries from an uploaded CSV file with
// columns matric_no,name,department.  A header row is detected and
// skipped; existing entries are refreshed, so re-importing a roster is
// safe.
func (h *EligibleVoterHandler) ImportCSV(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file upload required"})
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "open upload failed"})
	}
	defer src.Close()

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	imported := 0
	skipped := 0
	line := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed csv", "line": line + 1})
		}
		line++
		if len(rec) < 2 {
			skipped++
			continue
		}
		matric := utils.NormalizeMatric(rec[0])
		name := strings.TrimSpace(rec[1])
		dept := ""
		if len(rec) > 2 {
			dept = strings.TrimSpace(rec[2])
		}
		// Header row.
		if line == 1 && strings.EqualFold(matric, "MATRIC_NO") {
			continue
		}
		if matric == "" || name == "" {
			skipped++
			continue
		}
		if err := h.Roster.Upsert(ctx, matric, name, dept); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "import failed", "line": line})
		}
		imported++
	}

	return c.JSON(http.StatusOK, echo.Map{"imported": imported, "skipped": skipped})
}
