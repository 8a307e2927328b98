package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"parishevents/internal/delivery/http/helpers"
	"parishevents/internal/domain"
)

var slugRegexp = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type EventController struct {
	Logger *slog.Logger
	Repo   domain.EventRepository
}

func NewEventController(logger *slog.Logger, repo domain.EventRepository) *EventController {
	return &EventController{
		Logger: logger,
		Repo:   repo,
	}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Location string    `json:"location"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// Validate implements helpers.Validator.
func (e *CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Name) == "" {
		errs = append(errs, "name is required")
	}
	if !slugRegexp.MatchString(e.Slug) {
		errs = append(errs, "slug must be lowercase letters, digits, and hyphens")
	}
	if e.StartsAt.IsZero() || e.EndsAt.IsZero() {
		errs = append(errs, "starts_at and ends_at are required")
	} else if !e.EndsAt.After(e.StartsAt) {
		errs = append(errs, "ends_at must be after starts_at")
	}
	return errs
}

// Create godoc
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	now := time.Now()
	event := domain.NewEvent(strings.TrimSpace(req.Name), req.Slug, strings.TrimSpace(req.Location),
		req.StartsAt, req.EndsAt, now, now)
	if err := c.Repo.Create(r.Context(), event); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "slug already in use")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// Get godoc
// @Summary Get an event by ID or slug
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID or slug"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("eventID")
	event, err := c.Repo.GetByID(r.Context(), key)
	if errors.Is(err, domain.ErrNotFound) && slugRegexp.MatchString(key) {
		event, err = c.Repo.GetBySlug(r.Context(), key)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// List godoc
// @Summary List events
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains events"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	events, err := c.Repo.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}
