package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/univote/campus-election-api/internal/repository"
)

// CandidateHandler serves candidate reads plus admin management.
type CandidateHandler struct {
	Candidates *repository.CandidateRepo
}

func NewCandidateHandler(cand *repository.CandidateRepo) *CandidateHandler {
	return &CandidateHandler{Candidates: cand}
}

// List returns candidates, optionally filtered with ?post_ids=1,2,3.
// Without the filter it returns every candidate, name-sorted.
func (h *CandidateHandler) List(c echo.Context) error {
	var postIDs []uint64
	if raw := strings.TrimSpace(c.QueryParam("post_ids")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err != nil || id == 0 {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post_ids"})
			}
			postIDs = append(postIDs, id)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cands, err := h.Candidates.ListByPosts(ctx, postIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list candidates failed"})
	}
	return c.JSON(http.StatusOK, cands)
}

type candidateReq struct {
	PostID     uint64  `json:"post_id"`
	Name       string  `json:"name"`
	Bio        *string `json:"bio"`
	Department *string `json:"department"`
	ImageURL   *string `json:"image_url"`
}

// Create adds a candidate under a post.  Names are unique per post.
func (h *CandidateHandler) Create(c echo.Context) error {
	var req candidateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.PostID == 0 || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "post_id and name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cand, err := h.Candidates.Create(ctx, req.PostID, req.Name, req.Bio, req.Department, req.ImageURL)
	if err != nil {
		switch err {
		case repository.ErrPostNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		case repository.ErrDuplicateCandidate:
			return c.JSON(http.StatusConflict, echo.Map{"error": "candidate name already exists for post"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create candidate failed"})
	}
	return c.JSON(http.StatusCreated, cand)
}

// Update edits a candidate's details.  The post binding never changes;
// moving a candidate across posts would orphan recorded votes.
func (h *CandidateHandler) Update(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid candidate id"})
	}
	var req candidateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cand, err := h.Candidates.Update(ctx, id, req.Name, req.Bio, req.Department, req.ImageURL)
	if err != nil {
		switch err {
		case repository.ErrCandidateNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "candidate not found"})
		case repository.ErrDuplicateCandidate:
			return c.JSON(http.StatusConflict, echo.Map{"error": "candidate name already exists for post"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update candidate failed"})
	}
	return c.JSON(http.StatusOK, cand)
}

// Delete removes a candidate.  Their votes stay in the ledger and are
// excluded from tallies.
func (h *CandidateHandler) Delete(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid candidate id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Candidates.Delete(ctx, id); err != nil {
		if err == repository.ErrCandidateNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "candidate not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete candidate failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
