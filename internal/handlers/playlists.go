package handlers

import (
	"encoding/json"
	"net/http"
)

// PlaylistHandler exposes playlist lifecycle and membership endpoints.
type PlaylistHandler struct {
	Playlists PlaylistManager
	Catalog   Catalog
}

// Create handles POST /api/v1/playlists.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	playlist, err := h.Playlists.Create(ctx, accountID, req.Name, req.Description)
	if err != nil {
		respondError(ctx, w, err, "failed to create playlist")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, playlist)
}

// Get handles GET /api/v1/playlists/{id}.
func (h PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, err := h.Playlists.Get(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err, "failed to fetch playlist")
		return
	}

	respondJSON(ctx, w, http.StatusOK, playlist)
}

// ListForOwner handles GET /api/v1/accounts/{id}/playlists.
func (h PlaylistHandler) ListForOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.Catalog.PlaylistsForOwner(ctx, r.PathValue("id"), listingParams(r))
	if err != nil {
		respondError(ctx, w, err, "failed to list playlists")
		return
	}

	respondJSON(ctx, w, http.StatusOK, result)
}

// Update handles PATCH /api/v1/playlists/{id}.
func (h PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	playlist, err := h.Playlists.Update(ctx, accountID, r.PathValue("id"), req.Name, req.Description)
	if err != nil {
		respondError(ctx, w, err, "failed to update playlist")
		return
	}

	respondJSON(ctx, w, http.StatusOK, playlist)
}

// Delete handles DELETE /api/v1/playlists/{id}.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	if err := h.Playlists.Delete(ctx, accountID, r.PathValue("id")); err != nil {
		respondError(ctx, w, err, "failed to delete playlist")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AddVideo handles POST /api/v1/playlists/{id}/videos/{videoId}.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	if err := h.Playlists.AddVideo(ctx, accountID, r.PathValue("id"), r.PathValue("videoId")); err != nil {
		respondError(ctx, w, err, "failed to add video to playlist")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "added"})
}

// RemoveVideo handles DELETE /api/v1/playlists/{id}/videos/{videoId}.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	if err := h.Playlists.RemoveVideo(ctx, accountID, r.PathValue("id"), r.PathValue("videoId")); err != nil {
		respondError(ctx, w, err, "failed to remove video from playlist")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "removed"})
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
