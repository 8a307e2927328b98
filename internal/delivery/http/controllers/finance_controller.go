package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"parishevents/internal/delivery/http/helpers"
	"parishevents/internal/domain"
)

type FinanceController struct {
	Logger  *slog.Logger
	Service domain.FinanceService
}

func NewFinanceController(logger *slog.Logger, svc domain.FinanceService) *FinanceController {
	return &FinanceController{
		Logger:  logger,
		Service: svc,
	}
}

// RecordDonationRequest is the request body for POST /events/{eventID}/donations.
type RecordDonationRequest struct {
	DonorName string `json:"donor_name"`
	Amount    int64  `json:"amount"`
	Note      string `json:"note"`
}

// Validate implements helpers.Validator.
func (d *RecordDonationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(d.DonorName) == "" {
		errs = append(errs, "donor_name is required")
	}
	if d.Amount <= 0 {
		errs = append(errs, "amount must be positive")
	}
	return errs
}

// RecordDonation godoc
// @Summary Record a donation
// @Tags finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body RecordDonationRequest true "Donation data"
// @Success 201 {object} helpers.APIResponse "data contains the recorded donation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/donations [post]
func (c *FinanceController) RecordDonation(w http.ResponseWriter, r *http.Request) {
	var req RecordDonationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	d, err := c.Service.RecordDonation(r.Context(), r.PathValue("eventID"), req.DonorName, req.Amount, req.Note)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, d)
}

// ListDonations godoc
// @Summary List donations of an event
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains donations"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/donations [get]
func (c *FinanceController) ListDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := c.Service.ListDonations(r.Context(), r.PathValue("eventID"))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, donations)
}

// SubmitExpenseRequest is the request body for POST /events/{eventID}/expenses.
type SubmitExpenseRequest struct {
	Claimant   string `json:"claimant"`
	Amount     int64  `json:"amount"`
	Purpose    string `json:"purpose"`
	ReceiptURL string `json:"receipt_url"`
}

// Validate implements helpers.Validator.
func (e *SubmitExpenseRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Claimant) == "" {
		errs = append(errs, "claimant is required")
	}
	if e.Amount <= 0 {
		errs = append(errs, "amount must be positive")
	}
	if strings.TrimSpace(e.Purpose) == "" {
		errs = append(errs, "purpose is required")
	}
	return errs
}

// SubmitExpense godoc
// @Summary Submit an expense claim
// @Tags finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body SubmitExpenseRequest true "Expense claim data"
// @Success 201 {object} helpers.APIResponse "data contains the submitted claim"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/expenses [post]
func (c *FinanceController) SubmitExpense(w http.ResponseWriter, r *http.Request) {
	var req SubmitExpenseRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	claim, err := c.Service.SubmitExpense(r.Context(), r.PathValue("eventID"), req.Claimant, req.Amount, req.Purpose, req.ReceiptURL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, claim)
}

// ListExpenses godoc
// @Summary List expense claims of an event
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains expense claims"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/expenses [get]
func (c *FinanceController) ListExpenses(w http.ResponseWriter, r *http.Request) {
	claims, err := c.Service.ListExpenses(r.Context(), r.PathValue("eventID"))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, claims)
}

// ReviewExpenseRequest is the request body for POST /expenses/{claimID}/review.
type ReviewExpenseRequest struct {
	Status string `json:"status"` // approved, rejected, or reimbursed
}

// Validate implements helpers.Validator.
func (e *ReviewExpenseRequest) Validate() []string {
	switch domain.ExpenseStatus(strings.TrimSpace(strings.ToLower(e.Status))) {
	case domain.ExpenseApproved, domain.ExpenseRejected, domain.ExpenseReimbursed:
		return nil
	}
	return []string{"status must be \"approved\", \"rejected\", or \"reimbursed\""}
}

// ReviewExpense godoc
// @Summary Review an expense claim
// @Description Approves, rejects, or marks a claim reimbursed. Reimbursement requires a previously approved claim.
// @Tags finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param claimID path string true "Claim ID"
// @Param body body ReviewExpenseRequest true "Target status"
// @Success 200 {object} helpers.APIResponse "data contains the new status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /expenses/{claimID}/review [post]
func (c *FinanceController) ReviewExpense(w http.ResponseWriter, r *http.Request) {
	var req ReviewExpenseRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	status := domain.ExpenseStatus(strings.TrimSpace(strings.ToLower(req.Status)))
	if err := c.Service.ReviewExpense(r.Context(), r.PathValue("claimID"), status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "claim not found")
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
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": string(status)})
}

// Summary godoc
// @Summary Get the finance summary of an event
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains total_donations, total_reimbursed, pending_claims"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/finance/summary [get]
func (c *FinanceController) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.Service.Summary(r.Context(), r.PathValue("eventID"))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}
