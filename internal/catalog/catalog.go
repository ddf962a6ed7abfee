// Package catalog serves the paginated listing surface: videos, comments,
// tweets, playlists and liked videos, each page annotated with the minimal
// owner projection so callers avoid a second round trip.
package catalog

import (
	"context"
	"fmt"

	"github.com/videotube/backend/internal/listing"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
)

// VideoWithOwner pairs a video with its owner projection.
type VideoWithOwner struct {
	models.Video
	Owner models.AccountSummary `json:"owner"`
}

// CommentWithOwner pairs a comment with its owner projection.
type CommentWithOwner struct {
	models.Comment
	Owner models.AccountSummary `json:"owner"`
}

// TweetWithOwner pairs a tweet with its owner projection.
type TweetWithOwner struct {
	models.Tweet
	Owner models.AccountSummary `json:"owner"`
}

// Service composes the repositories into the uniform listing contract.
type Service struct {
	Accounts  repositories.AccountRepository
	Videos    repositories.VideoRepository
	Comments  repositories.CommentRepository
	Tweets    repositories.TweetRepository
	Playlists repositories.PlaylistRepository
	Likes     repositories.LikeRepository
}

func (s *Service) ownerSummaries(ctx context.Context, ownerIDs []string) (map[string]models.AccountSummary, error) {
	unique := make([]string, 0, len(ownerIDs))
	seen := make(map[string]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	owners, err := s.Accounts.Summaries(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("resolve owners: %w", err)
	}
	return owners, nil
}

// ListVideos lists videos matching the filter. An empty result set is a
// valid empty page, never an error.
func (s *Service) ListVideos(ctx context.Context, params listing.Params) (listing.Result[VideoWithOwner], error) {
	params = params.Normalize()

	videos, total, err := s.Videos.List(ctx, params)
	if err != nil {
		return listing.Result[VideoWithOwner]{}, fmt.Errorf("list videos: %w", err)
	}

	items, err := s.annotateVideos(ctx, videos)
	if err != nil {
		return listing.Result[VideoWithOwner]{}, err
	}

	return listing.NewResult(items, params, total), nil
}

func (s *Service) annotateVideos(ctx context.Context, videos []models.Video) ([]VideoWithOwner, error) {
	ownerIDs := make([]string, 0, len(videos))
	for _, v := range videos {
		ownerIDs = append(ownerIDs, v.OwnerID)
	}
	owners, err := s.ownerSummaries(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	items := make([]VideoWithOwner, 0, len(videos))
	for _, v := range videos {
		items = append(items, VideoWithOwner{Video: v, Owner: owners[v.OwnerID]})
	}
	return items, nil
}

// CommentsForVideo lists a video's comments. By longstanding API behavior an
// empty page is reported as NotFound rather than an empty listing; callers
// depend on the distinction.
func (s *Service) CommentsForVideo(ctx context.Context, videoID string, params listing.Params) (listing.Result[CommentWithOwner], error) {
	params = params.Normalize()

	comments, total, err := s.Comments.ListForVideo(ctx, videoID, params)
	if err != nil {
		return listing.Result[CommentWithOwner]{}, fmt.Errorf("list comments: %w", err)
	}
	if total == 0 {
		return listing.Result[CommentWithOwner]{}, fmt.Errorf("comments for video %s: %w", videoID, repositories.ErrNotFound)
	}

	ownerIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		ownerIDs = append(ownerIDs, c.OwnerID)
	}
	owners, err := s.ownerSummaries(ctx, ownerIDs)
	if err != nil {
		return listing.Result[CommentWithOwner]{}, err
	}

	items := make([]CommentWithOwner, 0, len(comments))
	for _, c := range comments {
		items = append(items, CommentWithOwner{Comment: c, Owner: owners[c.OwnerID]})
	}

	return listing.NewResult(items, params, total), nil
}

// TweetsForOwner lists an account's tweets, newest first.
func (s *Service) TweetsForOwner(ctx context.Context, ownerID string, params listing.Params) (listing.Result[TweetWithOwner], error) {
	params = params.Normalize()

	tweets, total, err := s.Tweets.ListForOwner(ctx, ownerID, params)
	if err != nil {
		return listing.Result[TweetWithOwner]{}, fmt.Errorf("list tweets: %w", err)
	}

	ownerIDs := make([]string, 0, len(tweets))
	for _, tw := range tweets {
		ownerIDs = append(ownerIDs, tw.OwnerID)
	}
	owners, err := s.ownerSummaries(ctx, ownerIDs)
	if err != nil {
		return listing.Result[TweetWithOwner]{}, err
	}

	items := make([]TweetWithOwner, 0, len(tweets))
	for _, tw := range tweets {
		items = append(items, TweetWithOwner{Tweet: tw, Owner: owners[tw.OwnerID]})
	}

	return listing.NewResult(items, params, total), nil
}

// PlaylistsForOwner lists an account's playlists, newest first.
func (s *Service) PlaylistsForOwner(ctx context.Context, ownerID string, params listing.Params) (listing.Result[models.Playlist], error) {
	params = params.Normalize()

	playlists, total, err := s.Playlists.ListForOwner(ctx, ownerID, params)
	if err != nil {
		return listing.Result[models.Playlist]{}, fmt.Errorf("list playlists: %w", err)
	}

	return listing.NewResult(playlists, params, total), nil
}

// LikedVideos lists the videos an account has liked. Like comment listing,
// an account with no liked videos is reported as NotFound.
func (s *Service) LikedVideos(ctx context.Context, accountID string, params listing.Params) (listing.Result[VideoWithOwner], error) {
	params = params.Normalize()

	videos, total, err := s.Likes.ListLikedVideos(ctx, accountID, params)
	if err != nil {
		return listing.Result[VideoWithOwner]{}, fmt.Errorf("list liked videos: %w", err)
	}
	if total == 0 {
		return listing.Result[VideoWithOwner]{}, fmt.Errorf("liked videos for %s: %w", accountID, repositories.ErrNotFound)
	}

	items, err := s.annotateVideos(ctx, videos)
	if err != nil {
		return listing.Result[VideoWithOwner]{}, err
	}

	return listing.NewResult(items, params, total), nil
}
