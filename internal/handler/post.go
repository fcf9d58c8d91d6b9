package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/univote/campus-election-api/internal/repository"
)

// PostHandler serves contested posts and their candidate lists.
type PostHandler struct {
	Posts      *repository.PostRepo
	Candidates *repository.CandidateRepo
}

func NewPostHandler(p *repository.PostRepo, cand *repository.CandidateRepo) *PostHandler {
	return &PostHandler{Posts: p, Candidates: cand}
}

type createPostReq struct {
	ElectionID  uint64  `json:"election_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// List returns posts, optionally filtered by ?election_id=.
func (h *PostHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, err := h.Posts.List(ctx, queryID(c, "election_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, posts)
}

// Get returns one post together with its candidates.
func (h *PostHandler) Get(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrPostNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	cands, err := h.Candidates.ListByPost(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"post": p, "candidates": cands})
}

// Create adds a contested post to an election (admin only, enforced in
// routing).  Titles are unique within an election.
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.ElectionID == 0 || req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "election_id and title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.Create(ctx, req.ElectionID, req.Title, req.Description)
	if err != nil {
		switch err {
		case repository.ErrElectionNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "election not found"})
		case repository.ErrDuplicatePost:
			return c.JSON(http.StatusConflict, echo.Map{"error": "post title already exists in election"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}
	return c.JSON(http.StatusCreated, p)
}
