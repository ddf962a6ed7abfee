package repositories

import (
	"context"

	"github.com/videotube/backend/internal/listing"
	"github.com/videotube/backend/internal/models"
)

// CommentRepository defines data access for video comments.
type CommentRepository interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	Update(ctx context.Context, comment models.Comment) error
	Delete(ctx context.Context, id string) error
	ListForVideo(ctx context.Context, videoID string, params listing.Params) ([]models.Comment, int, error)
}

// TweetRepository defines data access for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	Update(ctx context.Context, tweet models.Tweet) error
	Delete(ctx context.Context, id string) error
	ListForOwner(ctx context.Context, ownerID string, params listing.Params) ([]models.Tweet, int, error)
}

// PlaylistRepository defines data access for playlists and their ordered
// video membership.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	Update(ctx context.Context, playlist models.Playlist) error
	Delete(ctx context.Context, id string) error
	ListForOwner(ctx context.Context, ownerID string, params listing.Params) ([]models.Playlist, int, error)
	// AddVideo appends the video at the tail of the playlist, returning
	// ErrConflict when the video is already a member.
	AddVideo(ctx context.Context, playlistID, videoID string) error
	// RemoveVideo deletes the membership and closes the position gap left
	// behind. Removing an absent video is a no-op.
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
}
