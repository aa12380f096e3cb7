package handlers

import (
	"context"
	"net/http"
	"time"

	"chorechart/internal/metrics"
	"chorechart/internal/security"
	"chorechart/internal/service"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterConfig holds everything the HTTP API needs
type RouterConfig struct {
	Catalog   *service.CatalogService
	Rewards   *service.RewardService
	AdminAuth *security.AdminAuth
	Limiter   *security.RateLimiter
	DB        Pinger
}

// NewRouter builds the JSON API. Requests are logged and measured.
func NewRouter(cfg RouterConfig) http.Handler {
	middleware := NewMiddleware(cfg.AdminAuth, cfg.Limiter)
	kidHandler := NewKidHandler(cfg.Catalog, cfg.Rewards)
	choreHandler := NewChoreHandler(cfg.Catalog)
	rewardHandler := NewRewardHandler(cfg.Rewards)
	adminHandler := NewAdminHandler(cfg.Rewards, cfg.AdminAuth)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler(cfg.DB))
	mux.Handle("GET /metrics", metrics.Handler())

	// Kids
	mux.HandleFunc("GET /api/kids", kidHandler.ListKids)
	mux.HandleFunc("POST /api/kids", middleware.RequireAdmin(kidHandler.CreateKid))
	mux.HandleFunc("PUT /api/kids/{id}", middleware.RequireAdmin(kidHandler.UpdateKid))
	mux.HandleFunc("DELETE /api/kids/{id}", middleware.RequireAdmin(kidHandler.DeleteKid))
	mux.HandleFunc("GET /api/kids/{id}/chores-today", kidHandler.ChoresToday)
	mux.HandleFunc("GET /api/kids/{id}/stars", kidHandler.Stars)

	// Master chores
	mux.HandleFunc("GET /api/chores-master", choreHandler.ListChores)
	mux.HandleFunc("POST /api/chores-master", middleware.RequireAdmin(choreHandler.CreateChore))
	mux.HandleFunc("PUT /api/chores-master/{id}", middleware.RequireAdmin(choreHandler.UpdateChore))
	mux.HandleFunc("DELETE /api/chores-master/{id}", middleware.RequireAdmin(choreHandler.DeleteChore))

	// Assignments
	mux.HandleFunc("GET /api/assignments", choreHandler.ListAssignments)
	mux.HandleFunc("POST /api/assignments", middleware.RequireAdmin(choreHandler.AssignChore))
	mux.HandleFunc("DELETE /api/assignments/{id}", middleware.RequireAdmin(choreHandler.DeleteAssignment))
	mux.HandleFunc("PUT /api/assignments/{id}/edit", middleware.RequireAdmin(choreHandler.UpdateAssignmentFrequency))
	mux.HandleFunc("POST /api/assignments/{id}/toggle-active", middleware.RequireAdmin(choreHandler.ToggleAssignmentActive))

	// Completions and stars
	mux.HandleFunc("POST /api/completions", middleware.RateLimit(rewardHandler.CompleteChore))
	mux.HandleFunc("POST /api/completions/uncheck", middleware.RateLimit(rewardHandler.UncheckChore))
	mux.HandleFunc("POST /api/stars/bonus", middleware.RequireAdmin(rewardHandler.AwardBonusStar))

	// Admin
	mux.HandleFunc("POST /api/admin/token", middleware.RateLimit(adminHandler.IssueToken))
	mux.HandleFunc("POST /api/admin/kids/{id}/reset-daily-chores", middleware.RequireAdmin(adminHandler.ResetDailyChores))
	mux.HandleFunc("POST /api/admin/kids/{id}/decrement-balloons", middleware.RequireAdmin(adminHandler.DecrementBalloons))
	mux.HandleFunc("POST /api/admin/kids/{id}/decrement-stars", middleware.RequireAdmin(adminHandler.DecrementStars))
	mux.HandleFunc("PUT /api/admin/kids/{id}/train-config", middleware.RequireAdmin(adminHandler.ConfigureTrainTrack))

	return Logging(metrics.InstrumentHandler(mux))
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				respondWithError(w, http.StatusServiceUnavailable, "Database unavailable", "Health check failed", err)
				return
			}
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
