package app

import (
	"context"
	"strings"
	"time"

	"github.com/videotube/backend/internal/auth"
	"github.com/videotube/backend/internal/catalog"
	"github.com/videotube/backend/internal/config"
	"github.com/videotube/backend/internal/db"
	"github.com/videotube/backend/internal/engagement"
	"github.com/videotube/backend/internal/handlers"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/playlists"
	"github.com/videotube/backend/internal/repositories"
	"github.com/videotube/backend/internal/storage"
)

type poolPinger struct {
	pool db.Pool
}

func (p poolPinger) Ping(ctx context.Context) error {
	return db.Ping(ctx, p.pool)
}

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. The returned authenticator backs the bearer-token middleware.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, middleware.Authenticator, error) {
	accounts := repositories.NewPostgresAccountRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	comments := repositories.NewPostgresCommentRepository(pool)
	tweets := repositories.NewPostgresTweetRepository(pool)
	playlistRepo := repositories.NewPostgresPlaylistRepository(pool)
	subscriptions := repositories.NewPostgresSubscriptionRepository(pool)
	likes := repositories.NewPostgresLikeRepository(pool)
	sessionStore := repositories.NewPostgresSessionStore(pool)

	toggler := &engagement.Toggler{
		Subscriptions: subscriptions,
		Likes:         likes,
		Videos:        videos,
		Comments:      comments,
		Tweets:        tweets,
	}

	aggregator := &engagement.Aggregator{
		Accounts:      accounts,
		Videos:        videos,
		Subscriptions: subscriptions,
		Likes:         likes,
	}

	catalogSvc := &catalog.Service{
		Accounts:  accounts,
		Videos:    videos,
		Comments:  comments,
		Tweets:    tweets,
		Playlists: playlistRepo,
		Likes:     likes,
	}

	playlistMgr := &playlists.Manager{
		Playlists: playlistRepo,
		Videos:    videos,
	}

	var media handlers.MediaStorage
	if strings.TrimSpace(cfg.ObjectStore.Bucket) != "" {
		store, err := storage.NewMediaStore(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.Dependencies{}, nil, err
		}
		media = store
	}

	sessions := auth.NewManager(cfg.AccessTokenTTL, cfg.RefreshTokenTTL, sessionStore)

	return handlers.Dependencies{
		Accounts:   accounts,
		Sessions:   sessions,
		Videos:     videos,
		Comments:   comments,
		Tweets:     tweets,
		Playlists:  playlistMgr,
		Toggler:    toggler,
		Aggregator: aggregator,
		Stats:      engagement.NewCachingStatsSource(aggregator, cfg.StatsCacheTTL),
		Catalog:    catalogSvc,
		Media:      media,
		Limiter:    middleware.NewIPRateLimiter(10, time.Minute, 5, 10*time.Minute),
		DB:         poolPinger{pool: pool},
	}, sessions, nil
}
