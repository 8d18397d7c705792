package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"nutrition-coach/internal/analytics"
	"nutrition-coach/internal/auth"
	"nutrition-coach/internal/database"
	"nutrition-coach/internal/services"
	"nutrition-coach/pkg/logger"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

// writeJSON encodes v before touching the response so an encoding failure
// still produces a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("Error encoding response: %v", err)
		body = []byte(`{"detail":"internal server error"}`)
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Error("Error writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeServiceError maps domain errors to status codes. notFound is the
// detail reported for a missing record.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, analytics.ErrInvalidMode),
		errors.Is(err, analytics.ErrInvalidSleepWindow),
		errors.Is(err, services.ErrInvalidUnit),
		errors.Is(err, services.ErrInvalidWeight):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("%s %s failed: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	detail := "Invalid token"
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		detail = "Missing bearer token"
	case errors.Is(err, auth.ErrMissingClaim):
		detail = "Invalid token: nutritionist_id missing"
	}
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, detail)
}

func intParam(value, name string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("%s required", name)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}
