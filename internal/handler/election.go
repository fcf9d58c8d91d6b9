package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/univote/campus-election-api/internal/repository"
)

// ElectionHandler serves the election portion of the ballot catalog.
type ElectionHandler struct {
	Elections *repository.ElectionRepo
	Posts     *repository.PostRepo
}

func NewElectionHandler(e *repository.ElectionRepo, p *repository.PostRepo) *ElectionHandler {
	return &ElectionHandler{Elections: e, Posts: p}
}

type createElectionReq struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	StartTime   string  `json:"start_time"` // RFC3339
	EndTime     string  `json:"end_time"`   // RFC3339
	IsActive    *bool   `json:"is_active"`
}

// ListActive returns elections currently switched on, newest first.
func (h *ElectionHandler) ListActive(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	elections, err := h.Elections.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, elections)
}

// Get returns one election together with its posts.
func (h *ElectionHandler) Get(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid election id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Elections.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrElectionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "election not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	posts, err := h.Posts.List(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"election": e, "posts": posts})
}

// Create adds a new election (admin only, enforced in routing).
func (h *ElectionHandler) Create(c echo.Context) error {
	var req createElectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be RFC3339"})
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be RFC3339"})
	}
	if !end.After(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Elections.Create(ctx, req.Title, req.Description, start.UTC(), end.UTC(), active)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create election failed"})
	}
	return c.JSON(http.StatusCreated, e)
}
