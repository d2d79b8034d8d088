// internal/api/handler/config.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tutor-ledger/internal/service"
	"tutor-ledger/internal/util"
)

// ConfigHandler handles HTTP requests for the coin configuration store.
type ConfigHandler struct {
	configs service.ConfigService
	logger  *slog.Logger
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(configs service.ConfigService, logger *slog.Logger) *ConfigHandler {
	return &ConfigHandler{
		configs: configs,
		logger:  logger,
	}
}

// List handles the configuration listing request.
// GET /config/coins
func (h *ConfigHandler) List(w http.ResponseWriter, r *http.Request) {
	configs, err := h.configs.List(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, configs)
}

// Get handles the single-key lookup request.
// GET /config/coins/{key}
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configs.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, cfg)
}

// UpdateConfigRequest represents the request body for a configuration update.
type UpdateConfigRequest struct {
	Value       int64   `json:"value"`
	Description *string `json:"description,omitempty"`
	UpdatedBy   string  `json:"updated_by"`
}

// Update handles the configuration update request.
// PUT /config/coins/{key}
func (h *ConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.UpdatedBy == "" || req.Value < 0 {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	cfg, err := h.configs.Update(r.Context(), key, req.Value, req.Description, req.UpdatedBy)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, cfg)
}
