package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/videotube/backend/internal/logging"
)

// AccountHandler exposes profile and history endpoints for accounts.
type AccountHandler struct {
	Accounts   AccountStore
	Aggregator ChannelAggregator
	NowFunc    func() time.Time
}

// ChannelProfile handles GET /api/v1/channels/{username}. When the caller is
// authenticated the response reports whether they subscribe to the channel.
func (h AccountHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profile, err := h.Aggregator.ChannelProfile(ctx, r.PathValue("username"), accountIDFrom(ctx))
	if err != nil {
		respondError(ctx, w, err, "failed to load channel profile")
		return
	}

	respondJSON(ctx, w, http.StatusOK, profile)
}

// Me handles GET /api/v1/accounts/me.
func (h AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	account, err := h.Accounts.FindByID(ctx, accountID)
	if err != nil {
		respondError(ctx, w, err, "failed to load account")
		return
	}

	respondJSON(ctx, w, http.StatusOK, account)
}

// UpdateMe handles PATCH /api/v1/accounts/me. Only the fields present in the
// payload are applied.
func (h AccountHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	account, err := h.Accounts.FindByID(ctx, accountID)
	if err != nil {
		respondError(ctx, w, err, "failed to load account")
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid account update payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if name := strings.TrimSpace(req.DisplayName); name != "" {
		account.DisplayName = name
	}
	if avatar := strings.TrimSpace(req.AvatarURL); avatar != "" {
		account.AvatarURL = avatar
	}
	if cover := strings.TrimSpace(req.CoverURL); cover != "" {
		account.CoverURL = cover
	}
	account.UpdatedAt = h.now()

	if err := h.Accounts.Update(ctx, account); err != nil {
		respondError(ctx, w, err, "failed to update account")
		return
	}

	respondJSON(ctx, w, http.StatusOK, account)
}

// WatchHistory handles GET /api/v1/accounts/me/history, returning the
// caller's watched videos in watch order with owner projections.
func (h AccountHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	history, err := h.Aggregator.WatchHistory(ctx, accountID)
	if err != nil {
		respondError(ctx, w, err, "failed to load watch history")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"history": history})
}

type updateAccountRequest struct {
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	CoverURL    string `json:"coverUrl"`
}

func (h AccountHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
