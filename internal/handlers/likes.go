package handlers

import (
	"net/http"

	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/models"
)

// LikeHandler exposes the like toggle across videos, comments and tweets.
type LikeHandler struct {
	Toggler EdgeToggler
	Catalog Catalog
}

// Toggle handles POST /api/v1/likes/{kind}/{id}/toggle where kind is one of
// video, comment or tweet.
func (h LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	kind := models.LikeTarget(r.PathValue("kind"))
	targetID := r.PathValue("id")

	liked, err := h.Toggler.ToggleLike(ctx, accountID, kind, targetID)
	if err != nil {
		respondError(ctx, w, err, "failed to toggle like")
		return
	}

	logging.FromContext(ctx).Info("like toggled", "accountId", accountID, "kind", kind, "targetId", targetID, "liked", liked)
	respondJSON(ctx, w, http.StatusOK, toggleResponse{Liked: &liked})
}

// LikedVideos handles GET /api/v1/likes/videos, the caller's liked videos in
// most-recently-liked order.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	result, err := h.Catalog.LikedVideos(ctx, accountID, listingParams(r))
	if err != nil {
		respondError(ctx, w, err, "failed to list liked videos")
		return
	}

	respondJSON(ctx, w, http.StatusOK, result)
}
