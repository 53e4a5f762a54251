package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.startedAt).Round(time.Second).String(),
	}).Write(w)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{"store": "ok"}
	if s.pinger == nil {
		checks["store"] = "not_configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else if err := s.pinger.Ping(ctx); err != nil {
		checks["store"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	metrics := s.Metrics()
	NewJSONResponse().Status(code).JSON(map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
		"metrics": map[string]int64{
			"total_requests":      metrics.Requests.TotalRequests,
			"server_errors":       metrics.Requests.ServerErrors,
			"rate_limit_clients":  metrics.RateLimit.ClientCount,
			"suspicious_requests": metrics.Detection.SuspiciousRequests,
		},
	}).Write(w)
}

// Validation failures surface to clients with their own message.
var validationErrors = []error{
	ErrMalformedBody,
	ErrInvalidYear,
	ErrInvalidAsOf,
	core.ErrInvalidDay,
	core.ErrInvalidMonth,
	core.ErrInvalidDate,
	core.ErrInvalidAmount,
	core.ErrInvalidKind,
	core.ErrEmptyDescription,
	core.ErrEmptyCategory,
	core.ErrEmptyName,
	core.ErrInvalidEmail,
	core.ErrWeakPassword,
	core.ErrDescriptionLong,
	core.ErrNotesLong,
	core.ErrInvalidRange,
	core.ErrInvalidSort,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func capitalize(msg string) string {
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// writeError maps a service error to its response. resource names the record
// in 404 messages, e.g. "Transaction".
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, resource, operation string) {
	switch {
	case isValidationError(err):
		BadRequestError(capitalize(err.Error())).Write(w)
	case errors.Is(err, services.ErrUserExists):
		BadRequestError("User already exists").Write(w)
	case errors.Is(err, services.ErrEmailInUse):
		BadRequestError("Email already in use").Write(w)
	case errors.Is(err, services.ErrCategoryExists):
		BadRequestError("Category already exists").Write(w)
	case errors.Is(err, services.ErrBudgetExists):
		BadRequestError("Budget already exists for this category").Write(w)
	case errors.Is(err, auth.ErrInvalidCredentials):
		UnauthorizedError("Invalid credentials").Write(w)
	case errors.Is(err, services.ErrWrongPassword):
		UnauthorizedError("Current password is incorrect").Write(w)
	case errors.Is(err, store.ErrNotFound):
		NotFoundError(resource + " not found").Write(w)
	default:
		fields := log.NewFields().WithUser(auth.UserIDFrom(r.Context()))
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Request failed", err, log.ComponentHTTP, operation, fields)
		InternalServerError().Write(w)
	}
}
