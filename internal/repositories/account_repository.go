package repositories

import (
	"context"

	"github.com/videotube/backend/internal/models"
)

// AccountRepository defines the data access contract for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account models.Account) error
	FindByID(ctx context.Context, id string) (models.Account, error)
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	// FindByUsername matches the username case-insensitively.
	FindByUsername(ctx context.Context, username string) (models.Account, error)
	Update(ctx context.Context, account models.Account) error
	// Summaries resolves owner projections for the provided account ids.
	// Unknown ids are absent from the returned map rather than erroring.
	Summaries(ctx context.Context, ids []string) (map[string]models.AccountSummary, error)
	// AppendWatchHistory records that the account watched the video,
	// appending to the ordered history sequence.
	AppendWatchHistory(ctx context.Context, accountID, videoID string) error
}
