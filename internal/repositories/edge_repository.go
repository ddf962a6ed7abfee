package repositories

import (
	"context"

	"github.com/videotube/backend/internal/listing"
	"github.com/videotube/backend/internal/models"
)

// SubscriptionRepository persists subscriber->channel edges. The store, not
// the caller, enforces at-most-one edge per (subscriber, channel) pair.
type SubscriptionRepository interface {
	// Insert creates the edge, returning ErrConflict when it already
	// exists and ErrInvalidReference when either account is unknown.
	Insert(ctx context.Context, sub models.Subscription) error
	// Delete removes the edge, reporting whether a row was removed.
	Delete(ctx context.Context, subscriberID, channelID string) (bool, error)
	Exists(ctx context.Context, subscriberID, channelID string) (bool, error)
	CountForChannel(ctx context.Context, channelID string) (int, error)
	CountForSubscriber(ctx context.Context, subscriberID string) (int, error)
	// ListSubscribers joins inbound edges to the subscribing accounts.
	ListSubscribers(ctx context.Context, channelID string) ([]models.AccountSummary, error)
	// ListChannels joins outbound edges to the subscribed-to accounts.
	ListChannels(ctx context.Context, subscriberID string) ([]models.AccountSummary, error)
}

// LikeRepository persists account->target like edges, unique per
// (account, kind, target) triple.
type LikeRepository interface {
	// Insert creates the edge, returning ErrConflict when it already
	// exists and ErrInvalidReference when the account is unknown.
	Insert(ctx context.Context, like models.Like) error
	// Delete removes the edge, reporting whether a row was removed.
	Delete(ctx context.Context, accountID string, kind models.LikeTarget, targetID string) (bool, error)
	CountForTarget(ctx context.Context, kind models.LikeTarget, targetID string) (int, error)
	// CountForOwnerVideos sums like edges across all videos owned by the account.
	CountForOwnerVideos(ctx context.Context, ownerID string) (int, error)
	// ListLikedVideos pages through the videos the account has liked.
	ListLikedVideos(ctx context.Context, accountID string, params listing.Params) ([]models.Video, int, error)
}
