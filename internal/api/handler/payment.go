// internal/api/handler/payment.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tutor-ledger/internal/api/types"
	"tutor-ledger/internal/domain"
	"tutor-ledger/internal/service"
	"tutor-ledger/internal/util"
)

// PaymentHandler handles HTTP requests related to payment operations.
type PaymentHandler struct {
	payments service.PaymentService
	logger   *slog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		logger:   logger,
	}
}

func parsePaymentID(r *http.Request) (int64, error) {
	paymentID, err := strconv.ParseInt(chi.URLParam(r, "paymentID"), 10, 64)
	if err != nil || paymentID <= 0 {
		return 0, util.ErrInvalidInput
	}
	return paymentID, nil
}

// CreatePaymentRequest represents the request body for creating a payment.
type CreatePaymentRequest struct {
	StudentID     int64   `json:"student_id"`
	AmountCents   int64   `json:"amount_cents"`
	Currency      string  `json:"currency,omitempty"`
	PaymentMethod *string `json:"payment_method,omitempty"`
	Description   *string `json:"description,omitempty"`
	Coins         int64   `json:"coins,omitempty"`
}

// CreatePayment handles the payment creation request.
// POST /payments
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.StudentID <= 0 || req.AmountCents <= 0 {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	payment, err := h.payments.CreatePayment(r.Context(), service.CreatePaymentParams{
		StudentID:     req.StudentID,
		AmountCents:   req.AmountCents,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		Coins:         req.Coins,
	})
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, payment)
}

// ConfirmPaymentRequest represents the request body for confirming a payment.
type ConfirmPaymentRequest struct {
	Outcome domain.PaymentOutcome `json:"outcome"`
}

// ConfirmPayment handles the payment confirmation request (webhook entry).
// POST /payments/{paymentID}/confirm
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := parsePaymentID(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	var req ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	payment, err := h.payments.ConfirmPayment(r.Context(), paymentID, req.Outcome)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, payment)
}

// GetPayment handles the payment lookup request.
// GET /payments/{paymentID}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := parsePaymentID(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	payment, err := h.payments.GetPayment(r.Context(), paymentID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, payment)
}

// ListPayments handles the payment history request.
// GET /students/{studentID}/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	studentID, err := parseStudentID(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	limit, offset := parsePagination(r)

	payments, totalCount, err := h.payments.ListForStudent(r.Context(), studentID, limit, offset)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, types.PaginatedResponse[domain.Payment]{
		Data:       payments,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}
