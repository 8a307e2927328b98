package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"parishevents/internal/delivery/http/helpers"
	"parishevents/internal/domain"
)

type CardController struct {
	Logger  *slog.Logger
	Service domain.CardExportService
	Repo    domain.RegistrantRepository
}

func NewCardController(logger *slog.Logger, svc domain.CardExportService, repo domain.RegistrantRepository) *CardController {
	return &CardController{
		Logger:  logger,
		Service: svc,
		Repo:    repo,
	}
}

// CardBatchRequest selects the registrants to render. Artifacts come back in
// the same order as registrant_ids.
type CardBatchRequest struct {
	RegistrantIDs []string `json:"registrant_ids"`
}

// Validate implements helpers.Validator.
func (r *CardBatchRequest) Validate() []string {
	if len(r.RegistrantIDs) == 0 {
		return []string{"registrant_ids is required"}
	}
	for _, id := range r.RegistrantIDs {
		if strings.TrimSpace(id) == "" {
			return []string{"registrant_ids must not contain empty values"}
		}
	}
	return nil
}

// CardImage is one rendered card returned inline as a data URI.
type CardImage struct {
	RegistrantID string `json:"registrant_id"`
	FileName     string `json:"file_name"`
	DataURI      string `json:"data_uri"`
}

// CardBatchResponse is the data payload for POST /cards/generate.
type CardBatchResponse struct {
	Success bool               `json:"success"`
	Cards   []CardImage        `json:"cards"`
	Errors  []domain.CardError `json:"errors,omitempty"`
}

// Generate godoc
// @Summary Render cards for selected registrants
// @Description Renders one card per registrant, in request order, and returns the images inline. Per-registrant failures are reported without aborting the batch.
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CardBatchRequest true "Registrants to render"
// @Success 200 {object} helpers.APIResponse "data contains cards and per-registrant errors"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /cards/generate [post]
func (c *CardController) Generate(w http.ResponseWriter, r *http.Request) {
	var req CardBatchRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	regs, err := c.Repo.ListByIDs(r.Context(), req.RegistrantIDs)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if len(regs) == 0 {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no matching registrants")
		return
	}

	result := c.Service.GenerateBatch(r.Context(), regs, nil)
	if r.Context().Err() != nil {
		return
	}

	resp := CardBatchResponse{Success: result.Success, Errors: result.Errors}
	resp.Cards = make([]CardImage, 0, len(result.Artifacts))
	for _, a := range result.Artifacts {
		resp.Cards = append(resp.Cards, CardImage{
			RegistrantID: a.RegistrantID,
			FileName:     a.FileName,
			DataURI:      a.DataURI(),
		})
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, resp)
}

// Export godoc
// @Summary Export cards as a downloadable PDF or ZIP
// @Description Renders cards for the selected registrants and streams the result: a single PDF when one batch suffices, otherwise a ZIP of numbered PDFs. Registrants whose card failed are listed in the X-Card-Export-Failed header.
// @Tags cards
// @Accept json
// @Produce application/pdf
// @Produce application/zip
// @Security BearerAuth
// @Param body body CardBatchRequest true "Registrants to export"
// @Success 200 {file} binary "The PDF or ZIP archive"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /cards/export [post]
func (c *CardController) Export(w http.ResponseWriter, r *http.Request) {
	var req CardBatchRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	regs, err := c.Repo.ListByIDs(r.Context(), req.RegistrantIDs)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if len(regs) == 0 {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no matching registrants")
		return
	}

	export, err := c.Service.ExportCards(r.Context(), regs, nil)
	if err != nil {
		if errors.Is(err, r.Context().Err()) && r.Context().Err() != nil {
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	if len(export.Failed) > 0 {
		ids := make([]string, len(export.Failed))
		for i, f := range export.Failed {
			ids[i] = f.RegistrantID
		}
		w.Header().Set("X-Card-Export-Failed", strings.Join(ids, ","))
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}
