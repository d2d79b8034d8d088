// internal/api/handler/wallet.go
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

// WalletHandler handles HTTP requests related to wallet operations.
type WalletHandler struct {
	ledger service.LedgerService
	logger *slog.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledger service.LedgerService, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		ledger: ledger,
		logger: logger,
	}
}

func parseStudentID(r *http.Request) (int64, error) {
	studentID, err := strconv.ParseInt(chi.URLParam(r, "studentID"), 10, 64)
	if err != nil || studentID <= 0 {
		return 0, util.ErrInvalidInput
	}
	return studentID, nil
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// GetWallet handles the wallet lookup request.
// GET /students/{studentID}/wallet
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	studentID, err := parseStudentID(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	wallet, err := h.ledger.EnsureWallet(r.Context(), studentID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, wallet)
}

// ListTransactions handles the transaction history request.
// GET /students/{studentID}/wallet/transactions
func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	studentID, err := parseStudentID(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	limit, offset := parsePagination(r)

	transactions, totalCount, err := h.ledger.ListTransactions(r.Context(), studentID, limit, offset)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, types.PaginatedResponse[domain.CoinTransaction]{
		Data:       transactions,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}

// AuditWallet handles the balance invariant check request.
// GET /students/{studentID}/wallet/audit
func (h *WalletHandler) AuditWallet(w http.ResponseWriter, r *http.Request) {
	studentID, err := parseStudentID(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	audit, err := h.ledger.AuditWallet(r.Context(), studentID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, audit)
}

// AdjustRequest represents the request body for an admin adjustment.
type AdjustRequest struct {
	StudentID   int64   `json:"student_id"`
	Amount      int64   `json:"amount"`
	Reason      string  `json:"reason"`
	AdjustedBy  string  `json:"adjusted_by"`
	ReferenceID *string `json:"reference_id,omitempty"`
}

// Adjust handles the administrative balance correction request.
// POST /wallet/adjust
func (h *WalletHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.StudentID <= 0 || req.Amount == 0 || req.AdjustedBy == "" {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	wallet, transaction, err := h.ledger.Adjust(r.Context(), service.AdjustParams{
		StudentID:   req.StudentID,
		Amount:      req.Amount,
		Reason:      req.Reason,
		AdjustedBy:  req.AdjustedBy,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":        "Adjustment applied",
		"wallet":         wallet,
		"transaction_id": transaction.ID,
	})
}

// RedeemRequest represents the request body for a coin redemption.
type RedeemRequest struct {
	StudentID   int64   `json:"student_id"`
	Coins       int64   `json:"coins"`
	ReferenceID *string `json:"reference_id,omitempty"`
}

// Redeem handles the coin redemption request.
// POST /wallet/redeem
func (h *WalletHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.StudentID <= 0 || req.Coins <= 0 {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	result, err := h.ledger.Redeem(r.Context(), req.StudentID, req.Coins, req.ReferenceID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, result)
}
