package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cliptube/backend/internal/apperr"
	"github.com/cliptube/backend/internal/auth"
	"github.com/cliptube/backend/internal/logging"
	"github.com/cliptube/backend/internal/repositories"
)

// successEnvelope is the uniform shape of every successful response.
type successEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

// errorEnvelope is the uniform shape of every failed response.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// respondData writes the uniform success envelope.
func respondData(ctx context.Context, w http.ResponseWriter, status int, message string, data any) {
	writeJSON(ctx, w, status, successEnvelope{StatusCode: status, Message: message, Data: data})
}

// respondError converts any error raised below the HTTP layer into the
// uniform error envelope. Repository sentinels and token errors get their
// natural status; everything unclassified defaults to 500.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := apperr.StatusOf(err)
	message := apperr.MessageOf(err)

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		status, message = http.StatusNotFound, "resource not found"
	case errors.Is(err, repositories.ErrConflict):
		status, message = http.StatusConflict, "resource already exists"
	case errors.Is(err, auth.ErrInvalidToken):
		status, message = http.StatusUnauthorized, "invalid or expired token"
	}

	if status >= http.StatusInternalServerError {
		logging.FromContext(ctx).Error("request failed", "error", err)
	}

	writeJSON(ctx, w, status, errorEnvelope{Success: false, Message: message})
}

func respondTooManyRequests(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusTooManyRequests, errorEnvelope{
		Success: false,
		Message: "too many requests, slow down",
	})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
	}
}

// invalidInput is shorthand for the most common validation failure.
func invalidInput(message string) error {
	return apperr.New(apperr.InvalidInput, message)
}

// forbidden marks an ownership violation.
func forbidden(message string) error {
	return apperr.New(apperr.Forbidden, message)
}
