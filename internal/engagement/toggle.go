// Package engagement implements the social-graph core of VideoTube: the
// toggle primitive over relationship edges and the aggregation pipelines
// that derive channel statistics, viewer-relative profiles and enriched
// watch history from them.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
)

// ErrUnknownTargetKind indicates a like toggle named a target kind outside
// video/comment/tweet.
var ErrUnknownTargetKind = errors.New("unknown like target kind")

// Toggler flips relationship edges: create when absent, remove when present.
// It attempts the insert first and lets the store's uniqueness constraint
// arbitrate races; a duplicate-insert failure is treated as "edge already
// exists" and flips into a delete, never as a fatal error.
type Toggler struct {
	Subscriptions repositories.SubscriptionRepository
	Likes         repositories.LikeRepository
	Videos        repositories.VideoRepository
	Comments      repositories.CommentRepository
	Tweets        repositories.TweetRepository

	// NowFunc overrides the clock in tests.
	NowFunc func() time.Time
}

func (t *Toggler) now() time.Time {
	if t.NowFunc != nil {
		return t.NowFunc()
	}
	return time.Now().UTC()
}

// ToggleSubscription creates the subscriber->channel edge if absent, removes
// it if present, and reports whether this call created it. Unknown accounts
// surface as ErrInvalidReference via the store's foreign keys. Subscribing to
// one's own channel is permitted.
func (t *Toggler) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	if subscriberID == "" || channelID == "" {
		return false, fmt.Errorf("toggle subscription: %w", repositories.ErrInvalidReference)
	}

	err := t.Subscriptions.Insert(ctx, models.Subscription{
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    t.now(),
	})
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, repositories.ErrConflict) {
		return false, fmt.Errorf("toggle subscription: %w", err)
	}

	// The edge existed when we tried to insert. Remove it. If a racing
	// toggle deleted it first, the edge is gone either way.
	if _, err := t.Subscriptions.Delete(ctx, subscriberID, channelID); err != nil {
		return false, fmt.Errorf("toggle subscription: %w", err)
	}

	return false, nil
}

// ToggleLike creates or removes the like edge from the account to the target
// and reports whether this call created it. The target must exist; a missing
// target surfaces as ErrInvalidReference.
func (t *Toggler) ToggleLike(ctx context.Context, accountID string, kind models.LikeTarget, targetID string) (bool, error) {
	if !kind.Valid() {
		return false, ErrUnknownTargetKind
	}
	if accountID == "" || targetID == "" {
		return false, fmt.Errorf("toggle like: %w", repositories.ErrInvalidReference)
	}

	if err := t.checkTarget(ctx, kind, targetID); err != nil {
		return false, err
	}

	err := t.Likes.Insert(ctx, models.Like{
		AccountID:  accountID,
		TargetKind: kind,
		TargetID:   targetID,
		CreatedAt:  t.now(),
	})
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, repositories.ErrConflict) {
		return false, fmt.Errorf("toggle like: %w", err)
	}

	if _, err := t.Likes.Delete(ctx, accountID, kind, targetID); err != nil {
		return false, fmt.Errorf("toggle like: %w", err)
	}

	return false, nil
}

// checkTarget verifies the liked entity exists. The likes table cannot carry
// a foreign key because the target is polymorphic.
func (t *Toggler) checkTarget(ctx context.Context, kind models.LikeTarget, targetID string) error {
	var err error
	switch kind {
	case models.LikeTargetVideo:
		_, err = t.Videos.FindByID(ctx, targetID)
	case models.LikeTargetComment:
		_, err = t.Comments.FindByID(ctx, targetID)
	case models.LikeTargetTweet:
		_, err = t.Tweets.FindByID(ctx, targetID)
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("like target %s %s: %w", kind, targetID, repositories.ErrInvalidReference)
	}
	if err != nil {
		return fmt.Errorf("check like target: %w", err)
	}
	return nil
}
