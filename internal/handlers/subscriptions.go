package handlers

import (
	"net/http"

	"github.com/videotube/backend/internal/logging"
)

// SubscriptionHandler exposes the subscription toggle and edge listings.
type SubscriptionHandler struct {
	Toggler    EdgeToggler
	Aggregator ChannelAggregator
}

// Toggle handles POST /api/v1/subscriptions/{channelId}/toggle. The same call
// subscribes when no edge exists and unsubscribes when one does.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	channelID := r.PathValue("channelId")
	subscribed, err := h.Toggler.ToggleSubscription(ctx, accountID, channelID)
	if err != nil {
		respondError(ctx, w, err, "failed to toggle subscription")
		return
	}

	logging.FromContext(ctx).Info("subscription toggled", "subscriberId", accountID, "channelId", channelID, "subscribed", subscribed)
	respondJSON(ctx, w, http.StatusOK, toggleResponse{Subscribed: &subscribed})
}

// Subscribers handles GET /api/v1/channels/{channelId}/subscribers.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscribers, err := h.Aggregator.Subscribers(ctx, r.PathValue("channelId"))
	if err != nil {
		respondError(ctx, w, err, "failed to list subscribers")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"subscribers": subscribers})
}

// SubscribedChannels handles GET /api/v1/subscriptions.
func (h SubscriptionHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	channels, err := h.Aggregator.SubscribedChannels(ctx, accountID)
	if err != nil {
		respondError(ctx, w, err, "failed to list subscribed channels")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"channels": channels})
}

type toggleResponse struct {
	Subscribed *bool `json:"subscribed,omitempty"`
	Liked      *bool `json:"liked,omitempty"`
}
