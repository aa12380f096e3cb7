package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"chorechart/internal/models"
	"chorechart/internal/security"
	"chorechart/internal/service"

	log "github.com/sirupsen/logrus"
)

// AdminHandler handles parent-only maintenance requests
type AdminHandler struct {
	rewards   *service.RewardService
	adminAuth *security.AdminAuth
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(rewards *service.RewardService, adminAuth *security.AdminAuth) *AdminHandler {
	return &AdminHandler{
		rewards:   rewards,
		adminAuth: adminAuth,
	}
}

type tokenRequest struct {
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type decrementRequest struct {
	Count *int   `json:"count"`
	Type  string `json:"type"`
}

type decrementBalloonsResponse struct {
	Message  string `json:"message"`
	Balloons int    `json:"balloons"`
}

type decrementStarsResponse struct {
	Message string `json:"message"`
	Removed int    `json:"removed"`
}

type resetResponse struct {
	Message string `json:"message"`
	*models.ResetResult
}

type trainConfigRequest struct {
	TrainTrackLength int `json:"train_track_length"`
}

// IssueToken exchanges the admin password for a short-lived bearer token
func (h *AdminHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	token, expiresAt, err := h.adminAuth.IssueToken(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrUnauthorized) {
			log.WithField("ip", security.GetClientIP(r)).Warn("Failed admin token request")
		}
		respondWithServiceError(w, "Error issuing admin token", err)
		return
	}
	respondWithJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expiresAt})
}

// ResetDailyChores clears today's completions and daily star for a kid
func (h *AdminHandler) ResetDailyChores(w http.ResponseWriter, r *http.Request) {
	kidID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	result, err := h.rewards.ResetDailyChores(r.Context(), kidID)
	if err != nil {
		respondWithServiceError(w, "Error resetting daily chores", err)
		return
	}
	respondWithJSON(w, http.StatusOK, resetResponse{
		Message:     fmt.Sprintf("Daily chores and daily star (if any) for kid %d reset for today.", kidID),
		ResetResult: result,
	})
}

// DecrementBalloons removes balloons from a kid (count defaults to 1)
func (h *AdminHandler) DecrementBalloons(w http.ResponseWriter, r *http.Request) {
	kidID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	var req decrementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	count := countOrDefault(req.Count)

	balloons, err := h.rewards.DecrementBalloons(r.Context(), kidID, count)
	if err != nil {
		respondWithServiceError(w, "Error decrementing balloons", err)
		return
	}
	respondWithJSON(w, http.StatusOK, decrementBalloonsResponse{
		Message:  fmt.Sprintf("%s decremented for kid %d. New total: %d.", formatCount(count, "balloon"), kidID, balloons),
		Balloons: balloons,
	})
}

// DecrementStars removes the oldest stars from a kid, optionally of one type
func (h *AdminHandler) DecrementStars(w http.ResponseWriter, r *http.Request) {
	kidID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	var req decrementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	count := countOrDefault(req.Count)

	removed, err := h.rewards.DecrementStars(r.Context(), kidID, count, req.Type)
	if err != nil {
		respondWithServiceError(w, "Error decrementing stars", err)
		return
	}
	respondWithJSON(w, http.StatusOK, decrementStarsResponse{
		Message: fmt.Sprintf("%s decremented for kid %d.", formatCount(removed, "star"), kidID),
		Removed: removed,
	})
}

// ConfigureTrainTrack sets a kid's train track length
func (h *AdminHandler) ConfigureTrainTrack(w http.ResponseWriter, r *http.Request) {
	kidID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	var req trainConfigRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	snap, err := h.rewards.ConfigureTrainTrack(r.Context(), kidID, req.TrainTrackLength)
	if err != nil {
		respondWithServiceError(w, "Error configuring train track", err)
		return
	}
	respondWithJSON(w, http.StatusOK, snapshotResponse{
		Message: fmt.Sprintf("Train track length for kid %d updated to %d.", kidID, req.TrainTrackLength),
		Kid:     snap,
	})
}

func countOrDefault(count *int) int {
	if count == nil {
		return 1
	}
	return *count
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
