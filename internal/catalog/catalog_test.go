package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/videotube/backend/internal/listing"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
)

type pagingVideoRepo struct {
	videos []models.Video
}

func (r *pagingVideoRepo) matches(v models.Video, params listing.Params) bool {
	if params.OwnerID != "" && v.OwnerID != params.OwnerID {
		return false
	}
	if params.PublishedOnly && !v.Published {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(params.Query)); q != "" {
		if !strings.Contains(strings.ToLower(v.Title), q) && !strings.Contains(strings.ToLower(v.Description), q) {
			return false
		}
	}
	return true
}

func (r *pagingVideoRepo) List(_ context.Context, params listing.Params) ([]models.Video, int, error) {
	params = params.Normalize()

	var matched []models.Video
	for _, v := range r.videos {
		if r.matches(v, params) {
			matched = append(matched, v)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less bool
		switch params.SortBy {
		case "views":
			less = a.Views < b.Views
		case "title":
			less = a.Title < b.Title
		default:
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if params.SortAsc {
			return less
		}
		return !less
	})

	total := len(matched)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (r *pagingVideoRepo) Create(context.Context, models.Video) error       { return nil }
func (r *pagingVideoRepo) Update(context.Context, models.Video) error       { return nil }
func (r *pagingVideoRepo) Delete(context.Context, string) error             { return nil }
func (r *pagingVideoRepo) IncrementViews(context.Context, string) error     { return nil }
func (r *pagingVideoRepo) CountByOwner(context.Context, string) (int, error) {
	return 0, nil
}
func (r *pagingVideoRepo) SumViewsByOwner(context.Context, string) (int64, error) {
	return 0, nil
}
func (r *pagingVideoRepo) WatchHistory(context.Context, string) ([]models.Video, error) {
	return nil, nil
}
func (r *pagingVideoRepo) FindByID(_ context.Context, id string) (models.Video, error) {
	for _, v := range r.videos {
		if v.ID == id {
			return v, nil
		}
	}
	return models.Video{}, repositories.ErrNotFound
}

type stubAccountRepo struct {
	summaries map[string]models.AccountSummary
}

func (r *stubAccountRepo) Summaries(_ context.Context, ids []string) (map[string]models.AccountSummary, error) {
	out := make(map[string]models.AccountSummary, len(ids))
	for _, id := range ids {
		if s, ok := r.summaries[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (r *stubAccountRepo) Create(context.Context, models.Account) error { return nil }
func (r *stubAccountRepo) FindByID(context.Context, string) (models.Account, error) {
	return models.Account{}, repositories.ErrNotFound
}
func (r *stubAccountRepo) FindByEmail(context.Context, string) (models.Account, error) {
	return models.Account{}, repositories.ErrNotFound
}
func (r *stubAccountRepo) FindByUsername(context.Context, string) (models.Account, error) {
	return models.Account{}, repositories.ErrNotFound
}
func (r *stubAccountRepo) Update(context.Context, models.Account) error          { return nil }
func (r *stubAccountRepo) AppendWatchHistory(context.Context, string, string) error { return nil }

type stubCommentRepo struct {
	comments []models.Comment
}

func (r *stubCommentRepo) ListForVideo(_ context.Context, videoID string, params listing.Params) ([]models.Comment, int, error) {
	params = params.Normalize()
	var matched []models.Comment
	for _, c := range r.comments {
		if c.VideoID == videoID {
			matched = append(matched, c)
		}
	}
	total := len(matched)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *stubCommentRepo) Create(context.Context, models.Comment) error { return nil }
func (r *stubCommentRepo) FindByID(context.Context, string) (models.Comment, error) {
	return models.Comment{}, repositories.ErrNotFound
}
func (r *stubCommentRepo) Update(context.Context, models.Comment) error { return nil }
func (r *stubCommentRepo) Delete(context.Context, string) error         { return nil }

type stubLikeRepo struct {
	liked []models.Video
}

func (r *stubLikeRepo) ListLikedVideos(_ context.Context, _ string, params listing.Params) ([]models.Video, int, error) {
	params = params.Normalize()
	total := len(r.liked)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	return r.liked[start:end], total, nil
}

func (r *stubLikeRepo) Insert(context.Context, models.Like) error { return nil }
func (r *stubLikeRepo) Delete(context.Context, string, models.LikeTarget, string) (bool, error) {
	return false, nil
}
func (r *stubLikeRepo) CountForTarget(context.Context, models.LikeTarget, string) (int, error) {
	return 0, nil
}
func (r *stubLikeRepo) CountForOwnerVideos(context.Context, string) (int, error) {
	return 0, nil
}

func newTestService(videos *pagingVideoRepo, comments *stubCommentRepo, likes *stubLikeRepo) *Service {
	if videos == nil {
		videos = &pagingVideoRepo{}
	}
	if comments == nil {
		comments = &stubCommentRepo{}
	}
	if likes == nil {
		likes = &stubLikeRepo{}
	}
	return &Service{
		Accounts: &stubAccountRepo{summaries: map[string]models.AccountSummary{
			"a": {ID: "a", Username: "alice", DisplayName: "Alice", AvatarURL: "https://cdn.example.com/a.png"},
		}},
		Videos:   videos,
		Comments: comments,
		Likes:    likes,
	}
}

func TestListVideosPaginationPartition(t *testing.T) {
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	repo := &pagingVideoRepo{}
	const totalVideos = 23
	for i := 0; i < totalVideos; i++ {
		repo.videos = append(repo.videos, models.Video{
			ID:        fmt.Sprintf("v%02d", i),
			OwnerID:   "a",
			Published: true,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	svc := newTestService(repo, nil, nil)
	ctx := context.Background()

	const pageSize = 5
	wantPages := (totalVideos + pageSize - 1) / pageSize

	seen := make(map[string]int)
	var collected []string
	for page := 1; page <= wantPages; page++ {
		result, err := svc.ListVideos(ctx, listing.Params{Page: page, PageSize: pageSize})
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if result.TotalResults != totalVideos {
			t.Fatalf("page %d: expected totalResults=%d, got %d", page, totalVideos, result.TotalResults)
		}
		if result.TotalPages != wantPages {
			t.Fatalf("page %d: expected totalPages=%d, got %d", page, wantPages, result.TotalPages)
		}
		for _, item := range result.Items {
			seen[item.ID]++
			collected = append(collected, item.ID)
		}
	}

	if len(collected) != totalVideos {
		t.Fatalf("expected %d items across pages, got %d", totalVideos, len(collected))
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("item %s appeared %d times", id, count)
		}
	}

	// Default sort is newest first across the page boundary too.
	for i := 1; i < len(collected); i++ {
		if collected[i-1] < collected[i] {
			t.Fatalf("sort violated at %d: %s before %s", i, collected[i-1], collected[i])
		}
	}
}

func TestListVideosEmptyIsValidPage(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	result, err := svc.ListVideos(context.Background(), listing.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Items == nil || len(result.Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", result.Items)
	}
	if result.TotalResults != 0 || result.TotalPages != 0 {
		t.Fatalf("expected zero totals, got %+v", result)
	}
}

func TestListVideosQueryFilter(t *testing.T) {
	repo := &pagingVideoRepo{videos: []models.Video{
		{ID: "v1", OwnerID: "a", Title: "Gopher tutorial", Published: true},
		{ID: "v2", OwnerID: "a", Title: "Cooking", Description: "a gopher cameo", Published: true},
		{ID: "v3", OwnerID: "a", Title: "Unrelated", Published: true},
		{ID: "v4", OwnerID: "a", Title: "Gopher draft", Published: false},
	}}
	svc := newTestService(repo, nil, nil)

	result, err := svc.ListVideos(context.Background(), listing.Params{Query: "GOPHER", PublishedOnly: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(result.Items))
	}
	for _, item := range result.Items {
		if item.Owner.Username != "alice" {
			t.Fatalf("expected embedded owner projection, got %+v", item.Owner)
		}
	}
}

func TestCommentsForVideoEmptyIsNotFound(t *testing.T) {
	svc := newTestService(nil, &stubCommentRepo{}, nil)

	_, err := svc.CommentsForVideo(context.Background(), "v1", listing.Params{})
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty comment listing, got %v", err)
	}
}

func TestCommentsForVideoEmbedsOwners(t *testing.T) {
	comments := &stubCommentRepo{comments: []models.Comment{
		{ID: "c1", VideoID: "v1", OwnerID: "a", Content: "nice"},
		{ID: "c2", VideoID: "v1", OwnerID: "a", Content: "ok"},
		{ID: "c3", VideoID: "v2", OwnerID: "a", Content: "other video"},
	}}
	svc := newTestService(nil, comments, nil)

	result, err := svc.CommentsForVideo(context.Background(), "v1", listing.Params{})
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if result.TotalResults != 2 {
		t.Fatalf("expected 2 comments, got %d", result.TotalResults)
	}
	for _, item := range result.Items {
		if item.Owner.ID != "a" {
			t.Fatalf("expected owner projection, got %+v", item.Owner)
		}
	}
}

func TestLikedVideosEmptyIsNotFound(t *testing.T) {
	svc := newTestService(nil, nil, &stubLikeRepo{})

	_, err := svc.LikedVideos(context.Background(), "b", listing.Params{})
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty liked-video listing, got %v", err)
	}
}

func TestLikedVideos(t *testing.T) {
	likes := &stubLikeRepo{liked: []models.Video{
		{ID: "v1", OwnerID: "a"},
		{ID: "v2", OwnerID: "a"},
	}}
	svc := newTestService(nil, nil, likes)

	result, err := svc.LikedVideos(context.Background(), "b", listing.Params{})
	if err != nil {
		t.Fatalf("liked videos: %v", err)
	}
	if result.TotalResults != 2 || len(result.Items) != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
}
