package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/models"
)

// VideoHandler provides endpoints for publishing and browsing videos.
type VideoHandler struct {
	Videos   VideoStore
	Accounts AccountStore
	Catalog  Catalog
	NowFunc  func() time.Time
}

// List handles GET /api/v1/videos. Results are paginated and each item
// carries its owner projection.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := listingParams(r)
	params.OwnerID = strings.TrimSpace(r.URL.Query().Get("ownerId"))
	params.PublishedOnly = true

	result, err := h.Catalog.ListVideos(ctx, params)
	if err != nil {
		respondError(ctx, w, err, "failed to list videos")
		return
	}

	respondJSON(ctx, w, http.StatusOK, result)
}

// Publish handles POST /api/v1/videos.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	var req publishVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid publish payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.MediaURL) == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "title and mediaUrl are required"})
		return
	}

	now := h.now()
	video := models.Video{
		ID:           uuid.NewString(),
		OwnerID:      accountID,
		MediaURL:     strings.TrimSpace(req.MediaURL),
		ThumbnailURL: strings.TrimSpace(req.ThumbnailURL),
		Title:        req.Title,
		Description:  req.Description,
		Duration:     req.Duration,
		Published:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		respondError(ctx, w, err, "failed to publish video")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, video)
}

// Get handles GET /api/v1/videos/{id}. A successful fetch counts as a view
// and, for authenticated callers, is appended to their watch history.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	video, err := h.Videos.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err, "failed to fetch video")
		return
	}

	if err := h.Videos.IncrementViews(ctx, video.ID); err != nil {
		logger.Error("failed to count view", "videoId", video.ID, "error", err)
	} else {
		video.Views++
	}

	if viewerID := accountIDFrom(ctx); viewerID != "" {
		if err := h.Accounts.AppendWatchHistory(ctx, viewerID, video.ID); err != nil {
			logger.Error("failed to record watch history", "accountId", viewerID, "videoId", video.ID, "error", err)
		}
	}

	respondJSON(ctx, w, http.StatusOK, video)
}

// Update handles PATCH /api/v1/videos/{id}. Only the owner may edit, and
// only mutable metadata fields are applied.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	video, err := h.Videos.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err, "failed to fetch video")
		return
	}
	if video.OwnerID != accountID {
		respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "only the owner may edit a video"})
		return
	}

	var req updateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		video.Title = title
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	if thumb := strings.TrimSpace(req.ThumbnailURL); thumb != "" {
		video.ThumbnailURL = thumb
	}
	if req.Published != nil {
		video.Published = *req.Published
	}
	video.UpdatedAt = h.now()

	if err := h.Videos.Update(ctx, video); err != nil {
		respondError(ctx, w, err, "failed to update video")
		return
	}

	respondJSON(ctx, w, http.StatusOK, video)
}

// Delete handles DELETE /api/v1/videos/{id}.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	video, err := h.Videos.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err, "failed to fetch video")
		return
	}
	if video.OwnerID != accountID {
		respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "only the owner may delete a video"})
		return
	}

	if err := h.Videos.Delete(ctx, video.ID); err != nil {
		respondError(ctx, w, err, "failed to delete video")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

type publishVideoRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	MediaURL     string `json:"mediaUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Duration     int64  `json:"duration"`
}

type updateVideoRequest struct {
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	Published    *bool   `json:"published"`
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
