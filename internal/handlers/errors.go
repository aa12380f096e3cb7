package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"chorechart/internal/security"
	"chorechart/internal/service"
	"chorechart/internal/utils"

	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondWithJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithServiceError maps service errors onto HTTP statuses. Only
// unexpected errors are logged.
func respondWithServiceError(w http.ResponseWriter, logMsg string, err error) {
	var validationErr utils.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Message, Field: validationErr.Field})
	case errors.Is(err, service.ErrNotFound):
		respondWithJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, security.ErrUnauthorized):
		respondWithJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized})
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}

// decodeJSON reads a JSON request body into dst. An empty body leaves dst
// untouched so optional fields keep their defaults.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
