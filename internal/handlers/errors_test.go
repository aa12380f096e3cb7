package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chorechart/internal/security"
	"chorechart/internal/service"
	"chorechart/internal/utils"

	log "github.com/sirupsen/logrus"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var body errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Error != "Teapot" {
		t.Fatalf("expected error 'Teapot', got %q", body.Error)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	originalOutput := log.StandardLogger().Out
	log.SetOutput(&buf)
	defer log.SetOutput(originalOutput)

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, 500, ErrInternalServerError, "", err)

	logOutput := buf.String()
	if !strings.Contains(logOutput, ErrInternalServerError) {
		t.Fatalf("expected log to include user message, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include error, got %q", logOutput)
	}
}

func TestRespondWithServiceErrorMapsStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", utils.ValidationError{Field: "count", Message: "count must be positive"}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("decrement: %w", utils.ValidationError{Field: "type", Message: "bad"}), http.StatusBadRequest},
		{"kid not found", service.ErrKidNotFound, http.StatusNotFound},
		{"no matching stars", service.ErrNoMatchingStars, http.StatusNotFound},
		{"unauthorized", security.ErrUnauthorized, http.StatusUnauthorized},
		{"store failure", errors.New("disk I/O error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondWithServiceError(recorder, "test", tt.err)
			if recorder.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, recorder.Code)
			}
		})
	}
}

func TestRespondWithServiceErrorHidesInternalDetail(t *testing.T) {
	recorder := httptest.NewRecorder()
	respondWithServiceError(recorder, "test", errors.New("constraint failed: secret detail"))

	if strings.Contains(recorder.Body.String(), "secret detail") {
		t.Fatalf("internal error leaked to client: %s", recorder.Body.String())
	}
}
