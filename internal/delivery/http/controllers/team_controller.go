package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"parishevents/internal/delivery/http/helpers"
	"parishevents/internal/domain"
)

type TeamController struct {
	Logger  *slog.Logger
	Service domain.TeamService
}

func NewTeamController(logger *slog.Logger, svc domain.TeamService) *TeamController {
	return &TeamController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateTeamRequest is the request body for POST /events/{eventID}/teams.
type CreateTeamRequest struct {
	Name string `json:"name"`
	Note string `json:"note"`
}

// Validate implements helpers.Validator.
func (t *CreateTeamRequest) Validate() []string {
	if strings.TrimSpace(t.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

// Create godoc
// @Summary Create a team for an event
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body CreateTeamRequest true "Team data"
// @Success 201 {object} helpers.APIResponse "data contains the created team"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/teams [post]
func (c *TeamController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	team, err := c.Service.CreateTeam(r.Context(), r.PathValue("eventID"), req.Name, req.Note)
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
	helpers.WriteJSONSuccess(w, http.StatusCreated, team)
}

// List godoc
// @Summary List teams of an event, with members
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains teams with members"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/teams [get]
func (c *TeamController) List(w http.ResponseWriter, r *http.Request) {
	teams, err := c.Service.ListTeams(r.Context(), r.PathValue("eventID"))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, teams)
}

// AssignMember godoc
// @Summary Assign a registrant to a team
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Param registrantID path string true "Registrant ID"
// @Success 200 {object} helpers.APIResponse "data contains assigned: true"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /teams/{teamID}/members/{registrantID} [put]
func (c *TeamController) AssignMember(w http.ResponseWriter, r *http.Request) {
	err := c.Service.AssignRegistrant(r.Context(), r.PathValue("teamID"), r.PathValue("registrantID"))
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyMember) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "registrant is already on this team")
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "team or registrant not found")
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
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"assigned": true})
}

// RemoveMember godoc
// @Summary Remove a registrant from a team
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Param registrantID path string true "Registrant ID"
// @Success 200 {object} helpers.APIResponse "data contains removed: true"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /teams/{teamID}/members/{registrantID} [delete]
func (c *TeamController) RemoveMember(w http.ResponseWriter, r *http.Request) {
	err := c.Service.RemoveRegistrant(r.Context(), r.PathValue("teamID"), r.PathValue("registrantID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "team or registrant not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"removed": true})
}

// AssignRoleRequest is the request body for PUT /registrants/{registrantID}/role.
type AssignRoleRequest struct {
	RoleName string `json:"role_name"`
}

// AssignRole godoc
// @Summary Assign or clear a registrant's event role
// @Description Sets the registrant's role label (e.g. "Trưởng nhóm", "Ban Tổ Chức"). An empty role_name clears the role.
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registrantID path string true "Registrant ID"
// @Param body body AssignRoleRequest true "Role name"
// @Success 200 {object} helpers.APIResponse "data contains the role name and kind"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrants/{registrantID}/role [put]
func (c *TeamController) AssignRole(w http.ResponseWriter, r *http.Request) {
	var req AssignRoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	roleName := strings.TrimSpace(req.RoleName)
	err := c.Service.AssignRole(r.Context(), r.PathValue("registrantID"), roleName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registrant not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{
		"role_name": roleName,
		"role_kind": string(domain.CategorizeRole(roleName)),
	})
}

// Delete godoc
// @Summary Delete a team
// @Description Unassigns all members, then deletes the team.
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Success 200 {object} helpers.APIResponse "data contains deleted: true"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /teams/{teamID} [delete]
func (c *TeamController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.DeleteTeam(r.Context(), r.PathValue("teamID")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "team not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"deleted": true})
}
