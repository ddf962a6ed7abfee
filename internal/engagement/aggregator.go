package engagement

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
)

// ChannelStats holds the derived per-channel numbers. Every field defaults to
// zero over empty inputs so the shape is always fully populated.
type ChannelStats struct {
	TotalVideos      int   `json:"totalVideos"`
	TotalSubscribers int   `json:"totalSubscribers"`
	TotalViews       int64 `json:"totalViews"`
	TotalLikes       int   `json:"totalLikes"`
}

// ChannelProfile is a channel's public profile annotated with state relative
// to the viewing account.
type ChannelProfile struct {
	ID                        string `json:"id"`
	Username                  string `json:"username"`
	DisplayName               string `json:"displayName"`
	AvatarURL                 string `json:"avatarUrl"`
	CoverURL                  string `json:"coverUrl"`
	SubscribersCount          int    `json:"subscribersCount"`
	ChannelsSubscribedToCount int    `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

// WatchedVideo is a watch-history entry enriched with its owner projection.
type WatchedVideo struct {
	Video models.Video          `json:"video"`
	Owner models.AccountSummary `json:"owner"`
}

// StatsSource computes channel statistics. Satisfied by Aggregator and by the
// caching wrapper around it.
type StatsSource interface {
	ChannelStats(ctx context.Context, ownerID string) (ChannelStats, error)
}

// Aggregator composes read-only joins over the entity and relationship
// stores into derived views.
type Aggregator struct {
	Accounts      repositories.AccountRepository
	Videos        repositories.VideoRepository
	Subscriptions repositories.SubscriptionRepository
	Likes         repositories.LikeRepository
}

// ChannelStats computes the four per-channel aggregates. The sub-queries are
// independent, so they run concurrently and the result is returned only once
// all four complete.
func (a *Aggregator) ChannelStats(ctx context.Context, ownerID string) (ChannelStats, error) {
	var stats ChannelStats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := a.Videos.CountByOwner(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("total videos: %w", err)
		}
		stats.TotalVideos = count
		return nil
	})
	g.Go(func() error {
		count, err := a.Subscriptions.CountForChannel(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("total subscribers: %w", err)
		}
		stats.TotalSubscribers = count
		return nil
	})
	g.Go(func() error {
		views, err := a.Videos.SumViewsByOwner(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("total views: %w", err)
		}
		stats.TotalViews = views
		return nil
	})
	g.Go(func() error {
		likes, err := a.Likes.CountForOwnerVideos(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("total likes: %w", err)
		}
		stats.TotalLikes = likes
		return nil
	})

	if err := g.Wait(); err != nil {
		return ChannelStats{}, fmt.Errorf("channel stats: %w", err)
	}

	return stats, nil
}

// ChannelProfile resolves the target username (case-insensitively) and
// annotates the profile with subscriber counts and whether the viewer
// subscribes to it. A missing username surfaces as ErrNotFound.
func (a *Aggregator) ChannelProfile(ctx context.Context, username, viewerID string) (ChannelProfile, error) {
	account, err := a.Accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ChannelProfile{}, fmt.Errorf("channel %q: %w", username, repositories.ErrNotFound)
		}
		return ChannelProfile{}, fmt.Errorf("channel profile: %w", err)
	}

	profile := ChannelProfile{
		ID:          account.ID,
		Username:    account.Username,
		DisplayName: account.DisplayName,
		AvatarURL:   account.AvatarURL,
		CoverURL:    account.CoverURL,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := a.Subscriptions.CountForChannel(ctx, account.ID)
		if err != nil {
			return fmt.Errorf("subscribers count: %w", err)
		}
		profile.SubscribersCount = count
		return nil
	})
	g.Go(func() error {
		count, err := a.Subscriptions.CountForSubscriber(ctx, account.ID)
		if err != nil {
			return fmt.Errorf("subscribed-to count: %w", err)
		}
		profile.ChannelsSubscribedToCount = count
		return nil
	})
	g.Go(func() error {
		if viewerID == "" {
			return nil
		}
		subscribed, err := a.Subscriptions.Exists(ctx, viewerID, account.ID)
		if err != nil {
			return fmt.Errorf("viewer subscription: %w", err)
		}
		profile.IsSubscribed = subscribed
		return nil
	})

	if err := g.Wait(); err != nil {
		return ChannelProfile{}, fmt.Errorf("channel profile: %w", err)
	}

	return profile, nil
}

// Subscribers lists the accounts subscribed to the channel. No edges yield an
// empty slice, not an error.
func (a *Aggregator) Subscribers(ctx context.Context, channelID string) ([]models.AccountSummary, error) {
	subscribers, err := a.Subscriptions.ListSubscribers(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("subscribers: %w", err)
	}
	if subscribers == nil {
		subscribers = []models.AccountSummary{}
	}
	return subscribers, nil
}

// SubscribedChannels lists the channels the account subscribes to.
func (a *Aggregator) SubscribedChannels(ctx context.Context, subscriberID string) ([]models.AccountSummary, error) {
	channels, err := a.Subscriptions.ListChannels(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("subscribed channels: %w", err)
	}
	if channels == nil {
		channels = []models.AccountSummary{}
	}
	return channels, nil
}

// WatchHistory resolves the viewer's ordered watch-history into video records
// with embedded owner projections. History entries whose video no longer
// exists are skipped silently; the remaining order is preserved. Owner
// summaries are resolved in one batched lookup rather than per item.
func (a *Aggregator) WatchHistory(ctx context.Context, viewerID string) ([]WatchedVideo, error) {
	videos, err := a.Videos.WatchHistory(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("watch history: %w", err)
	}

	ownerIDs := make([]string, 0, len(videos))
	seen := make(map[string]struct{}, len(videos))
	for _, v := range videos {
		if _, ok := seen[v.OwnerID]; ok {
			continue
		}
		seen[v.OwnerID] = struct{}{}
		ownerIDs = append(ownerIDs, v.OwnerID)
	}

	owners, err := a.Accounts.Summaries(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("watch history owners: %w", err)
	}

	watched := make([]WatchedVideo, 0, len(videos))
	for _, v := range videos {
		watched = append(watched, WatchedVideo{Video: v, Owner: owners[v.OwnerID]})
	}

	return watched, nil
}

var _ StatsSource = (*Aggregator)(nil)
