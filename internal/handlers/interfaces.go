package handlers

import (
	"context"

	"github.com/videotube/backend/internal/catalog"
	"github.com/videotube/backend/internal/engagement"
	"github.com/videotube/backend/internal/listing"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/models"
)

// AccountStore captures the persistence operations required by the account
// and auth handlers.
type AccountStore interface {
	Create(ctx context.Context, account models.Account) error
	FindByID(ctx context.Context, id string) (models.Account, error)
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	FindByUsername(ctx context.Context, username string) (models.Account, error)
	Update(ctx context.Context, account models.Account) error
	AppendWatchHistory(ctx context.Context, accountID, videoID string) error
}

// SessionManager issues, refreshes and revokes authentication tokens.
type SessionManager interface {
	Issue(ctx context.Context, accountID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, refreshToken string)
}

// VideoStore captures persistence for video publishing workflows.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}

// CommentStore captures persistence for comment authoring.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	Update(ctx context.Context, comment models.Comment) error
	Delete(ctx context.Context, id string) error
}

// TweetStore captures persistence for tweet authoring.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	Update(ctx context.Context, tweet models.Tweet) error
	Delete(ctx context.Context, id string) error
}

// EdgeToggler flips subscription and like edges.
type EdgeToggler interface {
	ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error)
	ToggleLike(ctx context.Context, accountID string, kind models.LikeTarget, targetID string) (bool, error)
}

// ChannelAggregator assembles read models that span several stores.
type ChannelAggregator interface {
	ChannelProfile(ctx context.Context, username, viewerID string) (engagement.ChannelProfile, error)
	Subscribers(ctx context.Context, channelID string) ([]models.AccountSummary, error)
	SubscribedChannels(ctx context.Context, subscriberID string) ([]models.AccountSummary, error)
	WatchHistory(ctx context.Context, viewerID string) ([]engagement.WatchedVideo, error)
}

// StatsProvider serves per-channel dashboard statistics.
type StatsProvider interface {
	ChannelStats(ctx context.Context, ownerID string) (engagement.ChannelStats, error)
}

// Catalog serves paginated, owner-annotated listings.
type Catalog interface {
	ListVideos(ctx context.Context, params listing.Params) (listing.Result[catalog.VideoWithOwner], error)
	CommentsForVideo(ctx context.Context, videoID string, params listing.Params) (listing.Result[catalog.CommentWithOwner], error)
	TweetsForOwner(ctx context.Context, ownerID string, params listing.Params) (listing.Result[catalog.TweetWithOwner], error)
	PlaylistsForOwner(ctx context.Context, ownerID string, params listing.Params) (listing.Result[models.Playlist], error)
	LikedVideos(ctx context.Context, accountID string, params listing.Params) (listing.Result[catalog.VideoWithOwner], error)
}

// PlaylistManager owns playlist lifecycle and membership rules.
type PlaylistManager interface {
	Create(ctx context.Context, ownerID, name, description string) (models.Playlist, error)
	Get(ctx context.Context, id string) (models.Playlist, error)
	Update(ctx context.Context, callerID, playlistID, name, description string) (models.Playlist, error)
	Delete(ctx context.Context, callerID, playlistID string) error
	AddVideo(ctx context.Context, callerID, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, callerID, playlistID, videoID string) error
}

func accountIDFrom(ctx context.Context) string {
	return middleware.AccountIDFromContext(ctx)
}
