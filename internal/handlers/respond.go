package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/videotube/backend/internal/auth"
	"github.com/videotube/backend/internal/engagement"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/playlists"
	"github.com/videotube/backend/internal/repositories"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// respondError translates domain errors into their HTTP status and a uniform
// error body. Unrecognized errors are logged and reported as 500 without
// leaking internals.
func respondError(ctx context.Context, w http.ResponseWriter, err error, message string) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logging.FromContext(ctx).Error(message, "error", err)
		respondJSON(ctx, w, status, map[string]string{"error": message})
		return
	}
	respondJSON(ctx, w, status, map[string]string{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repositories.ErrConflict),
		errors.Is(err, playlists.ErrDuplicateMember):
		return http.StatusConflict
	case errors.Is(err, repositories.ErrInvalidReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, playlists.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, playlists.ErrEmptyName),
		errors.Is(err, engagement.ErrUnknownTargetKind):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, auth.ErrSessionNotFound),
		errors.Is(err, auth.ErrRefreshTokenExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// requireAccount extracts the authenticated caller or writes a 401.
func requireAccount(ctx context.Context, w http.ResponseWriter) (string, bool) {
	accountID := accountIDFrom(ctx)
	if accountID == "" {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return "", false
	}
	return accountID, true
}
