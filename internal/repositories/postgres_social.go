package repositories

import (
	"context"
	"fmt"

	"github.com/videotube/backend/internal/db"
	"github.com/videotube/backend/internal/listing"
	"github.com/videotube/backend/internal/models"
)

// PostgresSubscriptionRepository persists subscription edges. The composite
// primary key on (subscriber_id, channel_id) is the source of truth for the
// at-most-one-edge invariant; concurrent duplicate inserts surface as
// ErrConflict instead of second rows.
type PostgresSubscriptionRepository struct {
	pool db.Pool
}

// NewPostgresSubscriptionRepository constructs a subscription repository backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// Insert creates the edge.
func (r *PostgresSubscriptionRepository) Insert(ctx context.Context, sub models.Subscription) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO subscriptions (subscriber_id, channel_id, created_at)
        VALUES ($1, $2, $3)
    `, sub.SubscriberID, sub.ChannelID, sub.CreatedAt)
	if err != nil {
		if mapped := mapPgError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert subscription: %w", err)
	}

	return nil
}

// Delete removes the edge, reporting whether a row was deleted.
func (r *PostgresSubscriptionRepository) Delete(ctx context.Context, subscriberID, channelID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
    `, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Exists reports whether the edge is present.
func (r *PostgresSubscriptionRepository) Exists(ctx context.Context, subscriberID, channelID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	err = conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
        )
    `, subscriberID, channelID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("select subscription exists: %w", err)
	}

	return exists, nil
}

// CountForChannel counts inbound edges (the channel's subscribers).
func (r *PostgresSubscriptionRepository) CountForChannel(ctx context.Context, channelID string) (int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int
	if err := conn.QueryRow(ctx, `
        SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1
    `, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}

	return count, nil
}

// CountForSubscriber counts outbound edges (channels the account follows).
func (r *PostgresSubscriptionRepository) CountForSubscriber(ctx context.Context, subscriberID string) (int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int
	if err := conn.QueryRow(ctx, `
        SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1
    `, subscriberID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count subscribed channels: %w", err)
	}

	return count, nil
}

func (r *PostgresSubscriptionRepository) listSummaries(ctx context.Context, query, id string) ([]models.AccountSummary, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query subscription accounts: %w", err)
	}
	defer rows.Close()

	summaries := []models.AccountSummary{}
	for rows.Next() {
		var s models.AccountSummary
		if err := rows.Scan(&s.ID, &s.Username, &s.DisplayName, &s.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan subscription account: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription accounts: %w", err)
	}

	return summaries, nil
}

// ListSubscribers joins inbound edges to the subscribing accounts. A channel
// with no subscribers yields an empty slice, not an error.
func (r *PostgresSubscriptionRepository) ListSubscribers(ctx context.Context, channelID string) ([]models.AccountSummary, error) {
	return r.listSummaries(ctx, `
        SELECT a.id, a.username, a.display_name, a.avatar_url
        FROM subscriptions s
        JOIN accounts a ON a.id = s.subscriber_id
        WHERE s.channel_id = $1
        ORDER BY s.created_at DESC
    `, channelID)
}

// ListChannels joins outbound edges to the subscribed-to accounts.
func (r *PostgresSubscriptionRepository) ListChannels(ctx context.Context, subscriberID string) ([]models.AccountSummary, error) {
	return r.listSummaries(ctx, `
        SELECT a.id, a.username, a.display_name, a.avatar_url
        FROM subscriptions s
        JOIN accounts a ON a.id = s.channel_id
        WHERE s.subscriber_id = $1
        ORDER BY s.created_at DESC
    `, subscriberID)
}

// PostgresLikeRepository persists like edges, one row at most per
// (account, kind, target) triple.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// Insert creates the edge.
func (r *PostgresLikeRepository) Insert(ctx context.Context, like models.Like) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO likes (account_id, target_kind, target_id, created_at)
        VALUES ($1, $2, $3, $4)
    `, like.AccountID, like.TargetKind, like.TargetID, like.CreatedAt)
	if err != nil {
		if mapped := mapPgError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert like: %w", err)
	}

	return nil
}

// Delete removes the edge, reporting whether a row was deleted.
func (r *PostgresLikeRepository) Delete(ctx context.Context, accountID string, kind models.LikeTarget, targetID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM likes WHERE account_id = $1 AND target_kind = $2 AND target_id = $3
    `, accountID, kind, targetID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// CountForTarget counts like edges pointing at one entity.
func (r *PostgresLikeRepository) CountForTarget(ctx context.Context, kind models.LikeTarget, targetID string) (int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int
	if err := conn.QueryRow(ctx, `
        SELECT COUNT(*) FROM likes WHERE target_kind = $1 AND target_id = $2
    `, kind, targetID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return count, nil
}

// CountForOwnerVideos sums like edges across every video the account owns,
// yielding zero when it owns none.
func (r *PostgresLikeRepository) CountForOwnerVideos(ctx context.Context, ownerID string) (int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int
	if err := conn.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM likes l
        JOIN videos v ON v.id = l.target_id
        WHERE l.target_kind = 'video' AND v.owner_id = $1
    `, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count likes for owner videos: %w", err)
	}

	return count, nil
}

// ListLikedVideos pages through the videos the account has liked, most
// recently liked first.
func (r *PostgresLikeRepository) ListLikedVideos(ctx context.Context, accountID string, params listing.Params) ([]models.Video, int, error) {
	params = params.Normalize()

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int
	if err := conn.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM likes l
        JOIN videos v ON v.id = l.target_id
        WHERE l.target_kind = 'video' AND l.account_id = $1
    `, accountID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count liked videos: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.media_url, v.thumbnail_url, v.title, v.description,
               v.duration_seconds, v.views, v.published, v.created_at, v.updated_at
        FROM likes l
        JOIN videos v ON v.id = l.target_id
        WHERE l.target_kind = 'video' AND l.account_id = $1
        ORDER BY l.created_at DESC, v.id
        LIMIT $2 OFFSET $3
    `, accountID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan liked video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate liked videos: %w", err)
	}

	return videos, total, nil
}

var _ SubscriptionRepository = (*PostgresSubscriptionRepository)(nil)
var _ LikeRepository = (*PostgresLikeRepository)(nil)
