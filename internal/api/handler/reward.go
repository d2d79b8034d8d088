// internal/api/handler/reward.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"tutor-ledger/internal/service"
	"tutor-ledger/internal/util"
)

// RewardHandler handles HTTP requests that grant coin rewards.
type RewardHandler struct {
	rewards service.RewardService
	logger  *slog.Logger
}

// NewRewardHandler creates a new RewardHandler.
func NewRewardHandler(rewards service.RewardService, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{
		rewards: rewards,
		logger:  logger,
	}
}

// CourseCompletionRequest represents the request body for a
// course-completion reward.
type CourseCompletionRequest struct {
	StudentID int64  `json:"student_id"`
	CourseID  string `json:"course_id"`
}

// CourseCompletion handles the course-completion reward request.
// POST /rewards/course-completion
func (h *RewardHandler) CourseCompletion(w http.ResponseWriter, r *http.Request) {
	var req CourseCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.StudentID <= 0 || req.CourseID == "" {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	wallet, transaction, err := h.rewards.CourseCompletion(r.Context(), req.StudentID, req.CourseID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"wallet":      wallet,
		"transaction": transaction,
	})
}

// ReferralRequest represents the request body for a referral reward.
type ReferralRequest struct {
	StudentID         int64  `json:"student_id"`
	ReferredStudentID int64  `json:"referred_student_id"`
	OverrideAmount    *int64 `json:"override_amount,omitempty"`
}

// Referral handles the referral reward request.
// POST /rewards/referral
func (h *RewardHandler) Referral(w http.ResponseWriter, r *http.Request) {
	var req ReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.StudentID <= 0 || req.ReferredStudentID <= 0 {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	wallet, transaction, err := h.rewards.Referral(r.Context(), req.StudentID, req.ReferredStudentID, req.OverrideAmount)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"wallet":      wallet,
		"transaction": transaction,
	})
}

// RegistrationRequest represents the request body for a registration bonus.
type RegistrationRequest struct {
	StudentID int64 `json:"student_id"`
}

// Registration handles the registration bonus request.
// POST /rewards/registration
func (h *RewardHandler) Registration(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.StudentID <= 0 {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	wallet, transaction, err := h.rewards.RegistrationBonus(r.Context(), req.StudentID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"wallet":      wallet,
		"transaction": transaction,
	})
}
