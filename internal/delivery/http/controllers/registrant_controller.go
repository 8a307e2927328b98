package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"parishevents/internal/delivery/http/helpers"
	"parishevents/internal/domain"
)

type RegistrantController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
	Repo    domain.RegistrantRepository
}

func NewRegistrantController(logger *slog.Logger, svc domain.RegistrationService, repo domain.RegistrantRepository) *RegistrantController {
	return &RegistrantController{
		Logger:  logger,
		Service: svc,
		Repo:    repo,
	}
}

// SignUpRegistrantRequest is the request body for POST /events/{eventID}/registrants.
type SignUpRegistrantRequest struct {
	FullName              string `json:"full_name"`
	SaintName             string `json:"saint_name"`
	RoleName              string `json:"role_name"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	SecondDayOnly         bool   `json:"second_day_only"`
	SelectedAttendanceDay string `json:"selected_attendance_day"`
}

// Validate implements helpers.Validator.
func (r *SignUpRegistrantRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.FullName) == "" {
		errs = append(errs, "full_name is required")
	}
	if email := strings.TrimSpace(r.Email); email != "" && !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	return errs
}

// SignUp godoc
// @Summary Register a participant for an event
// @Description Public sign-up form. Creates a registrant with a fresh invoice code and pending payment status; a confirmation email is sent when an email address is provided.
// @Tags registrants
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body SignUpRegistrantRequest true "Registrant data"
// @Success 201 {object} helpers.APIResponse "data contains the created registrant"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrants [post]
func (c *RegistrantController) SignUp(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req SignUpRegistrantRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	reg, err := c.Service.SignUp(r.Context(), domain.SignUpInput{
		EventID:               eventID,
		FullName:              req.FullName,
		SaintName:             req.SaintName,
		RoleName:              req.RoleName,
		Email:                 req.Email,
		Phone:                 req.Phone,
		SecondDayOnly:         req.SecondDayOnly,
		SelectedAttendanceDay: req.SelectedAttendanceDay,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// Get godoc
// @Summary Get a registrant
// @Tags registrants
// @Produce json
// @Security BearerAuth
// @Param registrantID path string true "Registrant ID"
// @Success 200 {object} helpers.APIResponse "data contains the registrant"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrants/{registrantID} [get]
func (c *RegistrantController) Get(w http.ResponseWriter, r *http.Request) {
	reg, err := c.Service.GetByID(r.Context(), r.PathValue("registrantID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registrant not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// RegistrantListResponse is the data payload for GET /events/{eventID}/registrants.
type RegistrantListResponse struct {
	Registrants []*domain.Registrant   `json:"registrants"`
	Pagination  helpers.PaginationMeta `json:"pagination"`
}

// ListByEvent godoc
// @Summary List registrants of an event
// @Tags registrants
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains registrants and pagination"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrants [get]
func (c *RegistrantController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	p := helpers.ParsePagination(r)
	regs, total, err := c.Service.ListByEvent(r.Context(), r.PathValue("eventID"), p)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RegistrantListResponse{
		Registrants: regs,
		Pagination:  helpers.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}

// UpdateRegistrantRequest is the request body for PATCH /registrants/{registrantID}.
// Omitted fields keep their current value; pointers distinguish absent from empty.
type UpdateRegistrantRequest struct {
	FullName              *string `json:"full_name"`
	SaintName             *string `json:"saint_name"`
	RoleName              *string `json:"role_name"`
	Email                 *string `json:"email"`
	Phone                 *string `json:"phone"`
	SecondDayOnly         *bool   `json:"second_day_only"`
	SelectedAttendanceDay *string `json:"selected_attendance_day"`
}

// Validate implements helpers.Validator.
func (u *UpdateRegistrantRequest) Validate() []string {
	var errs []string
	if u.FullName != nil && strings.TrimSpace(*u.FullName) == "" {
		errs = append(errs, "full_name cannot be empty")
	}
	if u.Email != nil && *u.Email != "" && !emailRegexp.MatchString(strings.TrimSpace(*u.Email)) {
		errs = append(errs, "invalid email format")
	}
	return errs
}

// Update godoc
// @Summary Update a registrant
// @Description Partial update; omitted fields are unchanged.
// @Tags registrants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registrantID path string true "Registrant ID"
// @Param body body UpdateRegistrantRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated registrant"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrants/{registrantID} [patch]
func (c *RegistrantController) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRegistrantRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	reg, err := c.Service.GetByID(r.Context(), r.PathValue("registrantID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registrant not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	if req.FullName != nil {
		reg.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.SaintName != nil {
		reg.SaintName = strings.TrimSpace(*req.SaintName)
	}
	if req.RoleName != nil {
		if name := strings.TrimSpace(*req.RoleName); name == "" {
			reg.EventRole = nil
		} else {
			reg.EventRole = &domain.EventRole{Name: name}
		}
	}
	if req.Email != nil {
		reg.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		reg.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.SecondDayOnly != nil {
		reg.SecondDayOnly = *req.SecondDayOnly
	}
	if req.SelectedAttendanceDay != nil {
		reg.SelectedAttendanceDay = strings.TrimSpace(*req.SelectedAttendanceDay)
	}

	if err := c.Service.Update(r.Context(), reg); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// Delete godoc
// @Summary Delete a registrant
// @Tags registrants
// @Produce json
// @Security BearerAuth
// @Param registrantID path string true "Registrant ID"
// @Success 200 {object} helpers.APIResponse "data contains deleted: true"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrants/{registrantID} [delete]
func (c *RegistrantController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Delete(r.Context(), r.PathValue("registrantID")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registrant not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"deleted": true})
}

// AvatarRequest is the request body for avatar upload and update.
// The image bytes live in external object storage; the API stores the URL.
type AvatarRequest struct {
	PortraitURL string `json:"portrait_url"`
}

var portraitExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// Validate implements helpers.Validator.
func (a *AvatarRequest) Validate() []string {
	raw := strings.TrimSpace(a.PortraitURL)
	if raw == "" {
		return []string{"portrait_url is required"}
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return []string{"portrait_url must be a valid http(s) URL"}
	}
	if ext := strings.ToLower(path.Ext(u.Path)); !portraitExtensions[ext] {
		return []string{"portrait_url must point to a png, jpg, jpeg, or webp image"}
	}
	a.PortraitURL = raw
	return nil
}

// SetAvatar godoc
// @Summary Upload or replace a registrant's portrait
// @Description Stores the portrait URL for the registrant. Rate limited per operator.
// @Tags registrants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registrantID path string true "Registrant ID"
// @Param body body AvatarRequest true "Portrait URL"
// @Success 200 {object} helpers.APIResponse "data contains portrait_url"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrants/{registrantID}/avatar [post]
func (c *RegistrantController) SetAvatar(w http.ResponseWriter, r *http.Request) {
	var req AvatarRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Repo.UpdatePortraitURL(r.Context(), r.PathValue("registrantID"), req.PortraitURL); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registrant not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"portrait_url": req.PortraitURL})
}

// UpdateAvatar godoc
// @Summary Replace a registrant's existing portrait
// @Description Same body as the upload endpoint but carries a tighter rate limit.
// @Tags registrants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registrantID path string true "Registrant ID"
// @Param body body AvatarRequest true "Portrait URL"
// @Success 200 {object} helpers.APIResponse "data contains portrait_url"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrants/{registrantID}/avatar [put]
func (c *RegistrantController) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	c.SetAvatar(w, r)
}

// DeleteAvatar godoc
// @Summary Remove a registrant's portrait
// @Tags registrants
// @Produce json
// @Security BearerAuth
// @Param registrantID path string true "Registrant ID"
// @Success 200 {object} helpers.APIResponse "data contains deleted: true"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrants/{registrantID}/avatar [delete]
func (c *RegistrantController) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	if err := c.Repo.UpdatePortraitURL(r.Context(), r.PathValue("registrantID"), ""); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registrant not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"deleted": true})
}
