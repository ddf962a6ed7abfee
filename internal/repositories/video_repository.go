package repositories

import (
	"context"

	"github.com/videotube/backend/internal/listing"
	"github.com/videotube/backend/internal/models"
)

// VideoRepository defines data access for videos and their derived numbers.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error
	// List returns one page of videos matching the filter plus the total
	// match count across all pages.
	List(ctx context.Context, params listing.Params) ([]models.Video, int, error)
	// IncrementViews bumps the view counter by one.
	IncrementViews(ctx context.Context, id string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	SumViewsByOwner(ctx context.Context, ownerID string) (int64, error)
	// WatchHistory resolves the account's ordered watch-history sequence
	// into video records, silently skipping ids with no matching video.
	WatchHistory(ctx context.Context, accountID string) ([]models.Video, error)
}
