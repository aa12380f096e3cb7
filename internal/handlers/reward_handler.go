package handlers

import (
	"net/http"

	"chorechart/internal/models"
	"chorechart/internal/service"
)

// RewardHandler handles chore check-off and star requests
type RewardHandler struct {
	rewards *service.RewardService
}

// NewRewardHandler creates a new reward handler
func NewRewardHandler(rewards *service.RewardService) *RewardHandler {
	return &RewardHandler{rewards: rewards}
}

type completionRequest struct {
	KidID        int64 `json:"kidId"`
	AssignmentID int64 `json:"assignmentId"`
	ChoreID      int64 `json:"choreId"`
}

type bonusStarRequest struct {
	KidID  int64  `json:"kidId"`
	Reason string `json:"reason"`
}

type completeResponse struct {
	Message string `json:"message"`
	*models.CompleteResult
}

type uncheckResponse struct {
	Message string `json:"message"`
	*models.UncheckResult
}

type snapshotResponse struct {
	Message string              `json:"message"`
	Kid     *models.KidSnapshot `json:"updated_kid_stats"`
}

// CompleteChore marks an assignment complete for today and awards rewards
func (h *RewardHandler) CompleteChore(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	if req.KidID <= 0 || req.AssignmentID <= 0 || req.ChoreID <= 0 {
		respondWithError(w, http.StatusBadRequest, ErrMissingCompletionArgs, "", nil)
		return
	}

	result, err := h.rewards.CompleteChore(r.Context(), req.KidID, req.AssignmentID, req.ChoreID)
	if err != nil {
		respondWithServiceError(w, "Error completing chore", err)
		return
	}

	message := "Chore marked complete!"
	if result.AlreadyComplete {
		message = "Chore already marked as complete for today."
	}
	respondWithJSON(w, http.StatusOK, completeResponse{Message: message, CompleteResult: result})
}

// UncheckChore reverses today's completion of an assignment
func (h *RewardHandler) UncheckChore(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	if req.KidID <= 0 || req.AssignmentID <= 0 {
		respondWithError(w, http.StatusBadRequest, ErrMissingUncheckArgs, "", nil)
		return
	}

	result, err := h.rewards.UncheckChore(r.Context(), req.KidID, req.AssignmentID)
	if err != nil {
		respondWithServiceError(w, "Error unchecking chore", err)
		return
	}

	message := "Chore unchecked."
	if result.WasNotComplete {
		message = "Chore was not marked as complete for today or already unchecked."
	}
	respondWithJSON(w, http.StatusOK, uncheckResponse{Message: message, UncheckResult: result})
}

// AwardBonusStar gives a kid a bonus star
func (h *RewardHandler) AwardBonusStar(w http.ResponseWriter, r *http.Request) {
	var req bonusStarRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	if req.KidID <= 0 {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "Kid ID is required", Field: "kidId"})
		return
	}

	snap, err := h.rewards.AwardBonusStar(r.Context(), req.KidID, req.Reason)
	if err != nil {
		respondWithServiceError(w, "Error awarding bonus star", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, snapshotResponse{Message: "Bonus star awarded", Kid: snap})
}
