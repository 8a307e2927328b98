package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"parishevents/internal/delivery/http/helpers"
	"parishevents/internal/delivery/http/middleware"
	"parishevents/internal/domain"
)

type PaymentController struct {
	Logger  *slog.Logger
	Service domain.PaymentService
}

func NewPaymentController(logger *slog.Logger, svc domain.PaymentService) *PaymentController {
	return &PaymentController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitReceiptRequest is the request body for POST /registrants/{registrantID}/receipts.
type SubmitReceiptRequest struct {
	ImageURL string `json:"image_url"`
	Amount   int64  `json:"amount"`
	Note     string `json:"note"`
}

// Validate implements helpers.Validator.
func (s *SubmitReceiptRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.ImageURL) == "" {
		errs = append(errs, "image_url is required")
	}
	if s.Amount <= 0 {
		errs = append(errs, "amount must be positive")
	}
	return errs
}

// SubmitReceipt godoc
// @Summary Submit a payment receipt for review
// @Description Attaches a transfer-receipt image to the registrant for treasurer review.
// @Tags payments
// @Accept json
// @Produce json
// @Param registrantID path string true "Registrant ID"
// @Param body body SubmitReceiptRequest true "Receipt data"
// @Success 201 {object} helpers.APIResponse "data contains the submitted receipt"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrants/{registrantID}/receipts [post]
func (c *PaymentController) SubmitReceipt(w http.ResponseWriter, r *http.Request) {
	var req SubmitReceiptRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rcpt, err := c.Service.SubmitReceipt(r.Context(), r.PathValue("registrantID"), req.ImageURL, req.Amount, req.Note)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registrant not found")
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
	helpers.WriteJSONSuccess(w, http.StatusCreated, rcpt)
}

// ListPending godoc
// @Summary List receipts awaiting review
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains pending receipts"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /receipts/pending [get]
func (c *PaymentController) ListPending(w http.ResponseWriter, r *http.Request) {
	receipts, err := c.Service.ListPending(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, receipts)
}

// Verify godoc
// @Summary Verify a pending receipt
// @Description Marks the receipt verified and the registrant's payment status verified.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param receiptID path string true "Receipt ID"
// @Success 200 {object} helpers.APIResponse "data contains status: verified"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /receipts/{receiptID}/verify [post]
func (c *PaymentController) Verify(w http.ResponseWriter, r *http.Request) {
	c.review(w, r, domain.PaymentVerified)
}

// Reject godoc
// @Summary Reject a pending receipt
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param receiptID path string true "Receipt ID"
// @Success 200 {object} helpers.APIResponse "data contains status: rejected"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /receipts/{receiptID}/reject [post]
func (c *PaymentController) Reject(w http.ResponseWriter, r *http.Request) {
	c.review(w, r, domain.PaymentRejected)
}

func (c *PaymentController) review(w http.ResponseWriter, r *http.Request, status domain.PaymentStatus) {
	reviewerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	receiptID := r.PathValue("receiptID")
	var err error
	if status == domain.PaymentVerified {
		err = c.Service.Verify(r.Context(), receiptID, reviewerID)
	} else {
		err = c.Service.Reject(r.Context(), receiptID, reviewerID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "receipt not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "receipt is not pending")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": string(status)})
}
