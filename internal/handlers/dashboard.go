package handlers

import (
	"net/http"
)

// DashboardHandler serves the creator dashboard read models.
type DashboardHandler struct {
	StatsProvider StatsProvider
	Catalog       Catalog
}

// Stats handles GET /api/v1/dashboard/stats, the caller's channel totals.
func (h DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	stats, err := h.StatsProvider.ChannelStats(ctx, accountID)
	if err != nil {
		respondError(ctx, w, err, "failed to load channel stats")
		return
	}

	respondJSON(ctx, w, http.StatusOK, stats)
}

// Videos handles GET /api/v1/dashboard/videos, every video the caller owns
// including unpublished ones.
func (h DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	params := listingParams(r)
	params.OwnerID = accountID

	result, err := h.Catalog.ListVideos(ctx, params)
	if err != nil {
		respondError(ctx, w, err, "failed to list channel videos")
		return
	}

	respondJSON(ctx, w, http.StatusOK, result)
}
