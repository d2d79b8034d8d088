// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"tutor-ledger/internal/util"
)

// DefaultTimeout bounds request handling end to end.
const DefaultTimeout = 30 * time.Second

// respondWithJSON sends payload as a JSON response.
func respondWithJSON(logger *slog.Logger, w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps service errors to HTTP status codes. Business-rule
// errors arrive here untouched; anything unrecognized is a 500.
func respondWithError(logger *slog.Logger, w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrNotFound),
		util.IsError(err, util.ErrWalletNotFound),
		util.IsError(err, util.ErrPaymentNotFound),
		util.IsError(err, util.ErrConfigKeyNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrInsufficientBalance):
		statusCode = http.StatusPaymentRequired // 402 Payment Required
		message = "Insufficient coin balance"
	case util.IsError(err, util.ErrPaymentExpired):
		statusCode = http.StatusConflict
		message = "Payment has expired"
	case util.IsError(err, util.ErrInvalidTransition):
		statusCode = http.StatusConflict
		message = "Payment is not in a confirmable state"
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(logger, w, statusCode, map[string]string{"error": message})
}
