package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"chorechart/internal/models"
	"chorechart/internal/service"
)

// ChoreHandler handles master chore and assignment requests
type ChoreHandler struct {
	catalog *service.CatalogService
}

// NewChoreHandler creates a new chore handler
func NewChoreHandler(catalog *service.CatalogService) *ChoreHandler {
	return &ChoreHandler{catalog: catalog}
}

type choreRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// kidSelector accepts a numeric kid id or the string "all"
type kidSelector string

func (k *kidSelector) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*k = kidSelector(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("kidId must be a number or \"all\"")
	}
	*k = kidSelector(strings.TrimSpace(s))
	return nil
}

type assignRequest struct {
	KidID     kidSelector `json:"kidId"`
	ChoreID   int64       `json:"choreId"`
	Frequency string      `json:"frequency"`
}

type assignResponse struct {
	Message string `json:"message"`
	*service.AssignResult
}

type frequencyRequest struct {
	Frequency string `json:"frequency"`
}

type toggleResponse struct {
	Message  string `json:"message"`
	IsActive bool   `json:"is_active"`
}

// ListChores returns the master chore list
func (h *ChoreHandler) ListChores(w http.ResponseWriter, r *http.Request) {
	chores, err := h.catalog.ListChores(r.Context())
	if err != nil {
		respondWithServiceError(w, "Error listing chores", err)
		return
	}
	if chores == nil {
		chores = []models.Chore{}
	}
	respondWithJSON(w, http.StatusOK, chores)
}

// CreateChore adds a master chore
func (h *ChoreHandler) CreateChore(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	chore, err := h.catalog.CreateChore(r.Context(), req.Name, req.Icon)
	if err != nil {
		respondWithServiceError(w, "Error creating chore", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, chore)
}

// UpdateChore renames a master chore or changes its icon
func (h *ChoreHandler) UpdateChore(w http.ResponseWriter, r *http.Request) {
	choreID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	var req choreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	chore, err := h.catalog.UpdateChore(r.Context(), choreID, req.Name, req.Icon)
	if err != nil {
		respondWithServiceError(w, "Error updating chore", err)
		return
	}
	respondWithJSON(w, http.StatusOK, chore)
}

// DeleteChore removes a master chore and its assignments
func (h *ChoreHandler) DeleteChore(w http.ResponseWriter, r *http.Request) {
	choreID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	if err := h.catalog.DeleteChore(r.Context(), choreID); err != nil {
		respondWithServiceError(w, "Error deleting chore", err)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "Chore removed"})
}

// ListAssignments returns every assignment with kid and chore names
func (h *ChoreHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.catalog.ListAssignments(r.Context())
	if err != nil {
		respondWithServiceError(w, "Error listing assignments", err)
		return
	}
	if assignments == nil {
		assignments = []models.AssignmentDetail{}
	}
	respondWithJSON(w, http.StatusOK, assignments)
}

// AssignChore assigns a chore to one kid or to all kids. Existing
// assignments are skipped and reported with 200 instead of 201.
func (h *ChoreHandler) AssignChore(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	result, err := h.catalog.AssignChore(r.Context(), string(req.KidID), req.ChoreID, req.Frequency)
	if err != nil {
		respondWithServiceError(w, "Error assigning chore", err)
		return
	}

	if len(result.AssignmentIDs) == 0 {
		respondWithJSON(w, http.StatusOK, assignResponse{
			Message:      "Chores already assigned or no new assignments made.",
			AssignResult: result,
		})
		return
	}
	respondWithJSON(w, http.StatusCreated, assignResponse{
		Message:      "Chore(s) assigned successfully",
		AssignResult: result,
	})
}

// UpdateAssignmentFrequency changes how often an assignment recurs
func (h *ChoreHandler) UpdateAssignmentFrequency(w http.ResponseWriter, r *http.Request) {
	assignmentID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	var req frequencyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	if _, err := h.catalog.UpdateAssignmentFrequency(r.Context(), assignmentID, req.Frequency); err != nil {
		respondWithServiceError(w, "Error updating assignment", err)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "Assignment frequency updated."})
}

// ToggleAssignmentActive activates or deactivates an assignment
func (h *ChoreHandler) ToggleAssignmentActive(w http.ResponseWriter, r *http.Request) {
	assignmentID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	assignment, err := h.catalog.ToggleAssignmentActive(r.Context(), assignmentID)
	if err != nil {
		respondWithServiceError(w, "Error toggling assignment", err)
		return
	}

	status := "deactivated"
	if assignment.IsActive {
		status = "activated"
	}
	respondWithJSON(w, http.StatusOK, toggleResponse{
		Message:  "Assignment " + status + ".",
		IsActive: assignment.IsActive,
	})
}

// DeleteAssignment removes an assignment and its completions
func (h *ChoreHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	if err := h.catalog.DeleteAssignment(r.Context(), assignmentID); err != nil {
		respondWithServiceError(w, "Error deleting assignment", err)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "Assignment removed"})
}
