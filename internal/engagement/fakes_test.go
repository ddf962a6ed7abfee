package engagement

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/videotube/backend/internal/listing"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
)

// The fakes below enforce the same invariants the Postgres stores do: edge
// uniqueness is checked and applied under one lock so concurrent toggles race
// exactly as they would against the real unique index.

type subKey struct{ subscriber, channel string }

type fakeSubscriptionRepo struct {
	mu       sync.Mutex
	edges    map[subKey]time.Time
	accounts map[string]models.AccountSummary
}

func newFakeSubscriptionRepo(accounts ...models.AccountSummary) *fakeSubscriptionRepo {
	repo := &fakeSubscriptionRepo{
		edges:    make(map[subKey]time.Time),
		accounts: make(map[string]models.AccountSummary),
	}
	for _, a := range accounts {
		repo.accounts[a.ID] = a
	}
	return repo
}

func (r *fakeSubscriptionRepo) Insert(_ context.Context, sub models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[sub.SubscriberID]; !ok {
		return repositories.ErrInvalidReference
	}
	if _, ok := r.accounts[sub.ChannelID]; !ok {
		return repositories.ErrInvalidReference
	}
	key := subKey{sub.SubscriberID, sub.ChannelID}
	if _, ok := r.edges[key]; ok {
		return repositories.ErrConflict
	}
	r.edges[key] = sub.CreatedAt
	return nil
}

func (r *fakeSubscriptionRepo) Delete(_ context.Context, subscriberID, channelID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := subKey{subscriberID, channelID}
	if _, ok := r.edges[key]; !ok {
		return false, nil
	}
	delete(r.edges, key)
	return true, nil
}

func (r *fakeSubscriptionRepo) Exists(_ context.Context, subscriberID, channelID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.edges[subKey{subscriberID, channelID}]
	return ok, nil
}

func (r *fakeSubscriptionRepo) CountForChannel(_ context.Context, channelID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for key := range r.edges {
		if key.channel == channelID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSubscriptionRepo) CountForSubscriber(_ context.Context, subscriberID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for key := range r.edges {
		if key.subscriber == subscriberID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSubscriptionRepo) ListSubscribers(_ context.Context, channelID string) ([]models.AccountSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AccountSummary
	for key := range r.edges {
		if key.channel == channelID {
			out = append(out, r.accounts[key.subscriber])
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) ListChannels(_ context.Context, subscriberID string) ([]models.AccountSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AccountSummary
	for key := range r.edges {
		if key.subscriber == subscriberID {
			out = append(out, r.accounts[key.channel])
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) edgeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.edges)
}

type likeKey struct {
	account string
	kind    models.LikeTarget
	target  string
}

type fakeLikeRepo struct {
	mu    sync.Mutex
	edges map[likeKey]time.Time
	// videoOwners maps video id -> owner id for CountForOwnerVideos.
	videoOwners map[string]string
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{
		edges:       make(map[likeKey]time.Time),
		videoOwners: make(map[string]string),
	}
}

func (r *fakeLikeRepo) Insert(_ context.Context, like models.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey{like.AccountID, like.TargetKind, like.TargetID}
	if _, ok := r.edges[key]; ok {
		return repositories.ErrConflict
	}
	r.edges[key] = like.CreatedAt
	return nil
}

func (r *fakeLikeRepo) Delete(_ context.Context, accountID string, kind models.LikeTarget, targetID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey{accountID, kind, targetID}
	if _, ok := r.edges[key]; !ok {
		return false, nil
	}
	delete(r.edges, key)
	return true, nil
}

func (r *fakeLikeRepo) CountForTarget(_ context.Context, kind models.LikeTarget, targetID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for key := range r.edges {
		if key.kind == kind && key.target == targetID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) CountForOwnerVideos(_ context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for key := range r.edges {
		if key.kind == models.LikeTargetVideo && r.videoOwners[key.target] == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) ListLikedVideos(context.Context, string, listing.Params) ([]models.Video, int, error) {
	return nil, 0, nil
}

func (r *fakeLikeRepo) edgeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.edges)
}

type fakeVideoRepo struct {
	videos  map[string]models.Video
	history map[string][]string
}

func newFakeVideoRepo(videos ...models.Video) *fakeVideoRepo {
	repo := &fakeVideoRepo{
		videos:  make(map[string]models.Video),
		history: make(map[string][]string),
	}
	for _, v := range videos {
		repo.videos[v.ID] = v
	}
	return repo
}

func (r *fakeVideoRepo) Create(_ context.Context, video models.Video) error {
	r.videos[video.ID] = video
	return nil
}

func (r *fakeVideoRepo) FindByID(_ context.Context, id string) (models.Video, error) {
	video, ok := r.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (r *fakeVideoRepo) Update(_ context.Context, video models.Video) error {
	r.videos[video.ID] = video
	return nil
}

func (r *fakeVideoRepo) Delete(_ context.Context, id string) error {
	delete(r.videos, id)
	return nil
}

func (r *fakeVideoRepo) List(context.Context, listing.Params) ([]models.Video, int, error) {
	return nil, 0, nil
}

func (r *fakeVideoRepo) IncrementViews(_ context.Context, id string) error {
	video, ok := r.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Views++
	r.videos[id] = video
	return nil
}

func (r *fakeVideoRepo) CountByOwner(_ context.Context, ownerID string) (int, error) {
	count := 0
	for _, v := range r.videos {
		if v.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeVideoRepo) SumViewsByOwner(_ context.Context, ownerID string) (int64, error) {
	var total int64
	for _, v := range r.videos {
		if v.OwnerID == ownerID {
			total += v.Views
		}
	}
	return total, nil
}

func (r *fakeVideoRepo) WatchHistory(_ context.Context, accountID string) ([]models.Video, error) {
	var out []models.Video
	for _, id := range r.history[accountID] {
		if video, ok := r.videos[id]; ok {
			out = append(out, video)
		}
	}
	return out, nil
}

type fakeAccountRepo struct {
	accounts map[string]models.Account
}

func newFakeAccountRepo(accounts ...models.Account) *fakeAccountRepo {
	repo := &fakeAccountRepo{accounts: make(map[string]models.Account)}
	for _, a := range accounts {
		repo.accounts[a.ID] = a
	}
	return repo
}

func (r *fakeAccountRepo) Create(_ context.Context, account models.Account) error {
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id string) (models.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return models.Account{}, repositories.ErrNotFound
	}
	return account, nil
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, email string) (models.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return models.Account{}, repositories.ErrNotFound
}

func (r *fakeAccountRepo) FindByUsername(_ context.Context, username string) (models.Account, error) {
	for _, a := range r.accounts {
		if strings.EqualFold(a.Username, username) {
			return a, nil
		}
	}
	return models.Account{}, repositories.ErrNotFound
}

func (r *fakeAccountRepo) Update(_ context.Context, account models.Account) error {
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) Summaries(_ context.Context, ids []string) (map[string]models.AccountSummary, error) {
	out := make(map[string]models.AccountSummary, len(ids))
	for _, id := range ids {
		if a, ok := r.accounts[id]; ok {
			out[id] = a.Summary()
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) AppendWatchHistory(context.Context, string, string) error {
	return nil
}

type fakeCommentRepo struct {
	comments map[string]models.Comment
}

func newFakeCommentRepo(comments ...models.Comment) *fakeCommentRepo {
	repo := &fakeCommentRepo{comments: make(map[string]models.Comment)}
	for _, c := range comments {
		repo.comments[c.ID] = c
	}
	return repo
}

func (r *fakeCommentRepo) Create(_ context.Context, comment models.Comment) error {
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) FindByID(_ context.Context, id string) (models.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment models.Comment) error {
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id string) error {
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) ListForVideo(context.Context, string, listing.Params) ([]models.Comment, int, error) {
	return nil, 0, nil
}

type fakeTweetRepo struct {
	tweets map[string]models.Tweet
}

func newFakeTweetRepo(tweets ...models.Tweet) *fakeTweetRepo {
	repo := &fakeTweetRepo{tweets: make(map[string]models.Tweet)}
	for _, tw := range tweets {
		repo.tweets[tw.ID] = tw
	}
	return repo
}

func (r *fakeTweetRepo) Create(_ context.Context, tweet models.Tweet) error {
	r.tweets[tweet.ID] = tweet
	return nil
}

func (r *fakeTweetRepo) FindByID(_ context.Context, id string) (models.Tweet, error) {
	tweet, ok := r.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	return tweet, nil
}

func (r *fakeTweetRepo) Update(_ context.Context, tweet models.Tweet) error {
	r.tweets[tweet.ID] = tweet
	return nil
}

func (r *fakeTweetRepo) Delete(_ context.Context, id string) error {
	delete(r.tweets, id)
	return nil
}

func (r *fakeTweetRepo) ListForOwner(context.Context, string, listing.Params) ([]models.Tweet, int, error) {
	return nil, 0, nil
}

var _ repositories.SubscriptionRepository = (*fakeSubscriptionRepo)(nil)
var _ repositories.LikeRepository = (*fakeLikeRepo)(nil)
var _ repositories.VideoRepository = (*fakeVideoRepo)(nil)
var _ repositories.AccountRepository = (*fakeAccountRepo)(nil)
var _ repositories.CommentRepository = (*fakeCommentRepo)(nil)
var _ repositories.TweetRepository = (*fakeTweetRepo)(nil)
