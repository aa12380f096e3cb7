package handlers

import (
	"context"
	"net/http"
	"time"

	"chorechart/internal/security"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	RequestIDContextKey ContextKey = "request_id"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	adminAuth *security.AdminAuth
	limiter   *security.RateLimiter
}

// NewMiddleware creates a new middleware instance. A nil limiter disables
// rate limiting.
func NewMiddleware(adminAuth *security.AdminAuth, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		adminAuth: adminAuth,
		limiter:   limiter,
	}
}

// RequireAdmin is middleware that requires the admin password or an admin token
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.adminAuth.Authorize(r); err != nil {
			log.WithFields(log.Fields{
				"path":       r.URL.Path,
				"ip":         security.GetClientIP(r),
				"request_id": GetRequestID(r.Context()),
			}).Warn("Rejected admin request")
			respondWithJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized})
			return
		}
		next(w, r)
	}
}

// RateLimit is middleware that limits requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow(security.GetClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			respondWithJSON(w, http.StatusTooManyRequests, errorResponse{Error: ErrTooManyRequests})
			return
		}
		next(w, r)
	}
}

// GetRequestID returns the request id stored by Logging, if any
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *loggingResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Logging is middleware that tags each request with an id and logs it
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)

		lrw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lrw, r.WithContext(ctx))

		log.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     lrw.status,
			"duration":   time.Since(start).String(),
			"request_id": requestID,
		}).Info("Request handled")
	})
}
