package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"parishevents/internal/delivery/http/helpers"
	"parishevents/internal/delivery/http/middleware"
	"parishevents/internal/domain"
	"parishevents/internal/services"
)

type CheckInController struct {
	Logger  *slog.Logger
	Service domain.CheckInService

	mu       sync.Mutex
	sessions map[string]*services.ScanSession
}

func NewCheckInController(logger *slog.Logger, svc domain.CheckInService) *CheckInController {
	return &CheckInController{
		Logger:   logger,
		Service:  svc,
		sessions: make(map[string]*services.ScanSession),
	}
}

// session returns the operator's scan session, creating it on first use.
func (c *CheckInController) session(operatorID string) *services.ScanSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[operatorID]
	if !ok {
		s = services.NewScanSession(c.Service, operatorID, c.Logger)
		c.sessions[operatorID] = s
	}
	return s
}

// CheckInRequest is the request body for POST /check-in.
type CheckInRequest struct {
	RegistrantID string `json:"registrantId"`
}

// Validate implements helpers.Validator.
func (r *CheckInRequest) Validate() []string {
	if strings.TrimSpace(r.RegistrantID) == "" {
		return []string{"registrantId is required"}
	}
	return nil
}

// CheckIn godoc
// @Summary Check in a registrant
// @Description Records the registrant's arrival. The result carries a Vietnamese operator message; success is false when the registrant is unknown or already checked in.
// @Tags check-in
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CheckInRequest true "Registrant to check in"
// @Success 200 {object} helpers.APIResponse "data contains success, registrant, message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /check-in [post]
func (c *CheckInController) CheckIn(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CheckInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	res, err := c.Service.CheckIn(r.Context(), req.RegistrantID, operatorID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrAlreadyCheckedIn) {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	// Known failures still return 200: the scanning UI renders the message.
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}

// ScanRequest is the request body for POST /check-in/scan.
type ScanRequest struct {
	Payload string `json:"payload"`
}

// Validate implements helpers.Validator.
func (r *ScanRequest) Validate() []string {
	if strings.TrimSpace(r.Payload) == "" {
		return []string{"payload is required"}
	}
	return nil
}

// ScanResponse wraps a scan outcome. Discarded is true when the payload was
// dropped by throttling, the dedupe window, or an in-flight submission.
type ScanResponse struct {
	Discarded bool                  `json:"discarded"`
	Result    *domain.CheckInResult `json:"result,omitempty"`
}

// Scan godoc
// @Summary Submit a decoded QR payload
// @Description Feeds one decoded QR payload into the operator's scan session. Repeated reads of the same badge within the dedupe window, callbacks inside the throttle interval, and payloads arriving while a submission is in flight are discarded.
// @Tags check-in
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ScanRequest true "Decoded QR payload (JSON or bare registrant ID)"
// @Success 200 {object} helpers.APIResponse "data contains discarded and result"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /check-in/scan [post]
func (c *CheckInController) Scan(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req ScanRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	res, err := c.session(operatorID).HandleDecode(r.Context(), req.Payload)
	if err != nil {
		if errors.Is(err, domain.ErrScanDiscarded) {
			helpers.WriteJSONSuccess(w, http.StatusOK, ScanResponse{Discarded: true})
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unreadable QR payload")
			return
		}
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAlreadyCheckedIn) {
			helpers.WriteJSONSuccess(w, http.StatusOK, ScanResponse{Result: res})
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ScanResponse{Result: res})
}

// ResetScan godoc
// @Summary Re-arm the operator's scan session
// @Description Clears the dedupe window and in-flight state. Called when the operator dismisses the result dialog.
// @Tags check-in
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains reset: true"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /check-in/scan/reset [post]
func (c *CheckInController) ResetScan(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	c.session(operatorID).Reset()
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"reset": true})
}

// ScanStatsResponse is the data payload for GET /check-in/scan/stats.
type ScanStatsResponse struct {
	Count      int        `json:"count"`
	LastScanAt *time.Time `json:"last_scan_at,omitempty"`
}

// ScanStats godoc
// @Summary Get the operator's scan session stats
// @Tags check-in
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains count and last_scan_at"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /check-in/scan/stats [get]
func (c *CheckInController) ScanStats(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	count, lastScanAt := c.session(operatorID).Stats()
	resp := ScanStatsResponse{Count: count}
	if !lastScanAt.IsZero() {
		resp.LastScanAt = &lastScanAt
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, resp)
}

// ListByEvent godoc
// @Summary List check-ins of an event
// @Tags check-in
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains check-in records"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/check-ins [get]
func (c *CheckInController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	list, err := c.Service.ListByEvent(r.Context(), r.PathValue("eventID"))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// CountByEvent godoc
// @Summary Count check-ins of an event
// @Tags check-in
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains count"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/check-ins/count [get]
func (c *CheckInController) CountByEvent(w http.ResponseWriter, r *http.Request) {
	n, err := c.Service.CountByEvent(r.Context(), r.PathValue("eventID"))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]int{"count": n})
}
