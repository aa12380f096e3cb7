package handlers

import (
	"net/http"

	"chorechart/internal/models"
	"chorechart/internal/service"
)

// KidHandler handles kid profile requests
type KidHandler struct {
	catalog *service.CatalogService
	rewards *service.RewardService
}

// NewKidHandler creates a new kid handler
func NewKidHandler(catalog *service.CatalogService, rewards *service.RewardService) *KidHandler {
	return &KidHandler{
		catalog: catalog,
		rewards: rewards,
	}
}

type createKidRequest struct {
	Name             string `json:"name"`
	AvatarColor      string `json:"avatarColor"`
	TrainTrackLength int    `json:"trainTrackLength"`
}

type updateKidRequest struct {
	Name             string `json:"name"`
	TrainTrackLength int    `json:"train_track_length"`
}

// ListKids returns every kid with their star count
func (h *KidHandler) ListKids(w http.ResponseWriter, r *http.Request) {
	kids, err := h.catalog.ListKids(r.Context())
	if err != nil {
		respondWithServiceError(w, "Error listing kids", err)
		return
	}
	if kids == nil {
		kids = []models.KidWithStats{}
	}
	respondWithJSON(w, http.StatusOK, kids)
}

// CreateKid adds a kid profile
func (h *KidHandler) CreateKid(w http.ResponseWriter, r *http.Request) {
	var req createKidRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	kid, err := h.catalog.CreateKid(r.Context(), req.Name, req.AvatarColor, req.TrainTrackLength)
	if err != nil {
		respondWithServiceError(w, "Error creating kid", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, kid)
}

// UpdateKid renames a kid and changes their train track length
func (h *KidHandler) UpdateKid(w http.ResponseWriter, r *http.Request) {
	kidID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	var req updateKidRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	kid, err := h.catalog.UpdateKid(r.Context(), kidID, req.Name, req.TrainTrackLength)
	if err != nil {
		respondWithServiceError(w, "Error updating kid", err)
		return
	}
	respondWithJSON(w, http.StatusOK, kid)
}

// DeleteKid removes a kid and all of their history
func (h *KidHandler) DeleteKid(w http.ResponseWriter, r *http.Request) {
	kidID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	if err := h.catalog.DeleteKid(r.Context(), kidID); err != nil {
		respondWithServiceError(w, "Error deleting kid", err)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "Kid removed"})
}

// ChoresToday returns the kid's snapshot and the chores due today
func (h *KidHandler) ChoresToday(w http.ResponseWriter, r *http.Request) {
	kidID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	chores, err := h.rewards.ListDueToday(r.Context(), kidID)
	if err != nil {
		respondWithServiceError(w, "Error listing today's chores", err)
		return
	}
	respondWithJSON(w, http.StatusOK, chores)
}

// Stars returns the kid's star ledger, newest first
func (h *KidHandler) Stars(w http.ResponseWriter, r *http.Request) {
	kidID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	stars, err := h.rewards.ListStars(r.Context(), kidID)
	if err != nil {
		respondWithServiceError(w, "Error listing stars", err)
		return
	}
	if stars == nil {
		stars = []models.Star{}
	}
	respondWithJSON(w, http.StatusOK, stars)
}
