package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/videotube/backend/internal/auth"
	"github.com/videotube/backend/internal/listing"
	"github.com/videotube/backend/internal/models"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func TestPostgresAccountRepository_CreateFindAndUpdate(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresAccountRepository(testPool)

	account := models.Account{
		ID:           uuid.NewString(),
		Username:     "alice",
		Email:        "alice@example.com",
		DisplayName:  "Alice",
		PasswordHash: "secret-hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
		UpdatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}

	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("create account: %v", err)
	}

	dup := account
	dup.ID = uuid.NewString()
	dup.Email = "other@example.com"
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict creating duplicate username, got %v", err)
	}

	fetched, err := repo.FindByUsername(ctx, "ALICE")
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if fetched.ID != account.ID || fetched.Email != account.Email {
		t.Fatalf("unexpected account fetched: %+v", fetched)
	}

	if _, err := repo.FindByEmail(ctx, "Alice@Example.com"); err != nil {
		t.Fatalf("find by email should be case-insensitive: %v", err)
	}

	updated := account
	updated.DisplayName = "Alice Cooper"
	updated.AvatarURL = "https://cdn.example.com/alice.png"
	updated.UpdatedAt = time.Now().UTC()
	if err := repo.Update(ctx, updated); err != nil {
		t.Fatalf("update account: %v", err)
	}

	fetched, err = repo.FindByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if fetched.DisplayName != "Alice Cooper" || fetched.AvatarURL != updated.AvatarURL {
		t.Fatalf("expected updated fields to persist, got %+v", fetched)
	}

	missing := account
	missing.ID = uuid.NewString()
	if err := repo.Update(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating missing account, got %v", err)
	}
}

func TestPostgresAccountRepository_Summaries(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresAccountRepository(testPool)
	a := createTestAccount(t, repo, "a")
	b := createTestAccount(t, repo, "b")

	summaries, err := repo.Summaries(ctx, []string{a.ID, b.ID, uuid.NewString()})
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}

	if len(summaries) != 2 {
		t.Fatalf("expected summaries for 2 known ids, got %d", len(summaries))
	}
	if summaries[a.ID].Username != a.Username {
		t.Fatalf("unexpected summary for %s: %+v", a.ID, summaries[a.ID])
	}
}

func TestPostgresVideoRepository_ListPaginationAndFilters(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accounts := NewPostgresAccountRepository(testPool)
	videos := NewPostgresVideoRepository(testPool)

	owner := createTestAccount(t, accounts, "creator")
	other := createTestAccount(t, accounts, "other")

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		video := models.Video{
			ID:        uuid.NewString(),
			OwnerID:   owner.ID,
			MediaURL:  fmt.Sprintf("https://media.example.com/v%d.mp4", i),
			Title:     fmt.Sprintf("Go tutorial %d", i),
			Published: i%2 == 0,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := videos.Create(ctx, video); err != nil {
			t.Fatalf("create video %d: %v", i, err)
		}
	}
	noise := models.Video{
		ID:        uuid.NewString(),
		OwnerID:   other.ID,
		MediaURL:  "https://media.example.com/cooking.mp4",
		Title:     "Cooking show",
		Published: true,
		CreatedAt: base,
		UpdatedAt: base,
	}
	if err := videos.Create(ctx, noise); err != nil {
		t.Fatalf("create noise video: %v", err)
	}

	params := listing.Params{Page: 1, PageSize: 3, OwnerID: owner.ID}
	params = params.Normalize()
	page, total, err := videos.List(ctx, params)
	if err != nil {
		t.Fatalf("list videos: %v", err)
	}
	if total != 7 {
		t.Fatalf("expected total 7 for owner filter, got %d", total)
	}
	if len(page) != 3 {
		t.Fatalf("expected page of 3, got %d", len(page))
	}
	if !page[0].CreatedAt.After(page[1].CreatedAt) {
		t.Fatalf("expected newest-first default order, got %v then %v", page[0].CreatedAt, page[1].CreatedAt)
	}

	published := listing.Params{OwnerID: owner.ID, PublishedOnly: true}.Normalize()
	_, total, err = videos.List(ctx, published)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if total != 4 {
		t.Fatalf("expected 4 published videos, got %d", total)
	}

	search := listing.Params{Query: "tutorial 3"}.Normalize()
	matches, total, err := videos.List(ctx, search)
	if err != nil {
		t.Fatalf("search videos: %v", err)
	}
	if total != 1 || len(matches) != 1 {
		t.Fatalf("expected a single search match, got total=%d len=%d", total, len(matches))
	}
}

func TestPostgresVideoRepository_ViewsAndOwnerAggregates(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accounts := NewPostgresAccountRepository(testPool)
	videos := NewPostgresVideoRepository(testPool)

	owner := createTestAccount(t, accounts, "creator")
	video := createTestVideo(t, videos, owner.ID, "First")

	for i := 0; i < 3; i++ {
		if err := videos.IncrementViews(ctx, video.ID); err != nil {
			t.Fatalf("increment views: %v", err)
		}
	}

	fetched, err := videos.FindByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("find video: %v", err)
	}
	if fetched.Views != 3 {
		t.Fatalf("expected 3 views, got %d", fetched.Views)
	}

	count, err := videos.CountByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("count by owner: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 owned video, got %d", count)
	}

	views, err := videos.SumViewsByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("sum views: %v", err)
	}
	if views != 3 {
		t.Fatalf("expected 3 total views, got %d", views)
	}

	if err := videos.IncrementViews(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound incrementing unknown video, got %v", err)
	}
}

func TestWatchHistoryOrderSurvivesVideoDeletion(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accounts := NewPostgresAccountRepository(testPool)
	videos := NewPostgresVideoRepository(testPool)

	viewer := createTestAccount(t, accounts, "viewer")
	owner := createTestAccount(t, accounts, "creator")

	v1 := createTestVideo(t, videos, owner.ID, "one")
	v2 := createTestVideo(t, videos, owner.ID, "two")
	v3 := createTestVideo(t, videos, owner.ID, "three")

	for _, id := range []string{v3.ID, v1.ID, v2.ID} {
		if err := accounts.AppendWatchHistory(ctx, viewer.ID, id); err != nil {
			t.Fatalf("append watch history %s: %v", id, err)
		}
	}

	if err := videos.Delete(ctx, v1.ID); err != nil {
		t.Fatalf("delete video: %v", err)
	}

	history, err := videos.WatchHistory(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("watch history: %v", err)
	}

	if len(history) != 2 {
		t.Fatalf("expected 2 surviving entries, got %d", len(history))
	}
	if history[0].ID != v3.ID || history[1].ID != v2.ID {
		t.Fatalf("expected watch order v3 then v2, got %+v", history)
	}
}

func TestPostgresSubscriptionRepository_EdgeLifecycle(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accounts := NewPostgresAccountRepository(testPool)
	subs := NewPostgresSubscriptionRepository(testPool)

	subscriber := createTestAccount(t, accounts, "subscriber")
	channel := createTestAccount(t, accounts, "channel")

	edge := models.Subscription{SubscriberID: subscriber.ID, ChannelID: channel.ID, CreatedAt: time.Now().UTC()}
	if err := subs.Insert(ctx, edge); err != nil {
		t.Fatalf("insert subscription: %v", err)
	}

	if err := subs.Insert(ctx, edge); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate edge, got %v", err)
	}

	unknown := models.Subscription{SubscriberID: subscriber.ID, ChannelID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	if err := subs.Insert(ctx, unknown); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference for unknown channel, got %v", err)
	}

	exists, err := subs.Exists(ctx, subscriber.ID, channel.ID)
	if err != nil || !exists {
		t.Fatalf("expected edge to exist, got exists=%v err=%v", exists, err)
	}

	count, err := subs.CountForChannel(ctx, channel.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 subscriber, got count=%d err=%v", count, err)
	}

	subscribers, err := subs.ListSubscribers(ctx, channel.ID)
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	if len(subscribers) != 1 || subscribers[0].ID != subscriber.ID {
		t.Fatalf("unexpected subscribers: %+v", subscribers)
	}

	removed, err := subs.Delete(ctx, subscriber.ID, channel.ID)
	if err != nil || !removed {
		t.Fatalf("expected delete to remove edge, got removed=%v err=%v", removed, err)
	}

	removed, err = subs.Delete(ctx, subscriber.ID, channel.ID)
	if err != nil {
		t.Fatalf("second delete errored: %v", err)
	}
	if removed {
		t.Fatal("expected second delete to report no removal")
	}
}

func TestSubscriptionToggleParityUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accounts := NewPostgresAccountRepository(testPool)
	subs := NewPostgresSubscriptionRepository(testPool)

	subscriber := createTestAccount(t, accounts, "subscriber")
	channel := createTestAccount(t, accounts, "channel")

	// Each call flips the edge exactly once, retrying when a racing
	// goroutine removed the edge between the conflict and the delete.
	toggle := func() error {
		for {
			edge := models.Subscription{SubscriberID: subscriber.ID, ChannelID: channel.ID, CreatedAt: time.Now().UTC()}
			err := subs.Insert(ctx, edge)
			if err == nil {
				return nil
			}
			if !errors.Is(err, ErrConflict) {
				return err
			}
			removed, err := subs.Delete(ctx, subscriber.ID, channel.ID)
			if err != nil {
				return err
			}
			if removed {
				return nil
			}
		}
	}

	for _, n := range []int{8, 9} {
		if _, err := subs.Delete(ctx, subscriber.ID, channel.ID); err != nil {
			t.Fatalf("reset edge: %v", err)
		}

		var wg sync.WaitGroup
		errCh := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errCh <- toggle()
			}()
		}
		wg.Wait()
		close(errCh)
		for err := range errCh {
			if err != nil {
				t.Fatalf("toggle with %d goroutines: %v", n, err)
			}
		}

		count, err := subs.CountForChannel(ctx, channel.ID)
		if err != nil {
			t.Fatalf("count after %d toggles: %v", n, err)
		}
		if count > 1 {
			t.Fatalf("uniqueness violated after %d toggles: %d edges", n, count)
		}
		if count != n%2 {
			t.Fatalf("expected %d edges after %d toggles, got %d", n%2, n, count)
		}
	}
}

func TestPostgresLikeRepository_AcrossTargets(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accounts := NewPostgresAccountRepository(testPool)
	videos := NewPostgresVideoRepository(testPool)
	likes := NewPostgresLikeRepository(testPool)

	fan := createTestAccount(t, accounts, "fan")
	owner := createTestAccount(t, accounts, "creator")
	v1 := createTestVideo(t, videos, owner.ID, "one")
	v2 := createTestVideo(t, videos, owner.ID, "two")

	for _, target := range []string{v1.ID, v2.ID} {
		like := models.Like{AccountID: fan.ID, TargetKind: models.LikeTargetVideo, TargetID: target, CreatedAt: time.Now().UTC()}
		if err := likes.Insert(ctx, like); err != nil {
			t.Fatalf("insert like for %s: %v", target, err)
		}
	}

	dup := models.Like{AccountID: fan.ID, TargetKind: models.LikeTargetVideo, TargetID: v1.ID, CreatedAt: time.Now().UTC()}
	if err := likes.Insert(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate like, got %v", err)
	}

	count, err := likes.CountForTarget(ctx, models.LikeTargetVideo, v1.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 like on video, got count=%d err=%v", count, err)
	}

	total, err := likes.CountForOwnerVideos(ctx, owner.ID)
	if err != nil || total != 2 {
		t.Fatalf("expected 2 likes across owner videos, got count=%d err=%v", total, err)
	}

	liked, totalLiked, err := likes.ListLikedVideos(ctx, fan.ID, listing.Params{}.Normalize())
	if err != nil {
		t.Fatalf("list liked videos: %v", err)
	}
	if totalLiked != 2 || len(liked) != 2 {
		t.Fatalf("expected 2 liked videos, got total=%d len=%d", totalLiked, len(liked))
	}

	removed, err := likes.Delete(ctx, fan.ID, models.LikeTargetVideo, v1.ID)
	if err != nil || !removed {
		t.Fatalf("expected like removal, got removed=%v err=%v", removed, err)
	}
}

func TestPostgresPlaylistRepository_MembershipOrdering(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accounts := NewPostgresAccountRepository(testPool)
	videos := NewPostgresVideoRepository(testPool)
	playlists := NewPostgresPlaylistRepository(testPool)

	owner := createTestAccount(t, accounts, "curator")
	v1 := createTestVideo(t, videos, owner.ID, "one")
	v2 := createTestVideo(t, videos, owner.ID, "two")
	v3 := createTestVideo(t, videos, owner.ID, "three")

	playlist := models.Playlist{
		ID:        uuid.NewString(),
		OwnerID:   owner.ID,
		Name:      "Favorites",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := playlists.Create(ctx, playlist); err != nil {
		t.Fatalf("create playlist: %v", err)
	}

	for _, id := range []string{v2.ID, v3.ID, v1.ID} {
		if err := playlists.AddVideo(ctx, playlist.ID, id); err != nil {
			t.Fatalf("add video %s: %v", id, err)
		}
	}

	if err := playlists.AddVideo(ctx, playlist.ID, v2.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate member, got %v", err)
	}

	fetched, err := playlists.FindByID(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("find playlist: %v", err)
	}
	want := []string{v2.ID, v3.ID, v1.ID}
	for i, id := range want {
		if fetched.VideoIDs[i] != id {
			t.Fatalf("expected insertion order %v, got %v", want, fetched.VideoIDs)
		}
	}

	// Removing from the middle closes the position gap.
	if err := playlists.RemoveVideo(ctx, playlist.ID, v3.ID); err != nil {
		t.Fatalf("remove video: %v", err)
	}
	if err := playlists.RemoveVideo(ctx, playlist.ID, uuid.NewString()); err != nil {
		t.Fatalf("expected absent removal to be a no-op, got %v", err)
	}

	fetched, err = playlists.FindByID(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("find playlist after removal: %v", err)
	}
	if len(fetched.VideoIDs) != 2 || fetched.VideoIDs[0] != v2.ID || fetched.VideoIDs[1] != v1.ID {
		t.Fatalf("expected [v2 v1] after removal, got %v", fetched.VideoIDs)
	}

	if err := playlists.AddVideo(ctx, playlist.ID, v3.ID); err != nil {
		t.Fatalf("re-add video after removal: %v", err)
	}
	fetched, _ = playlists.FindByID(ctx, playlist.ID)
	if fetched.VideoIDs[len(fetched.VideoIDs)-1] != v3.ID {
		t.Fatalf("expected re-added video at tail, got %v", fetched.VideoIDs)
	}
}

func TestPostgresSessionStore_SaveFindAndDelete(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	accounts := NewPostgresAccountRepository(testPool)
	account := createTestAccount(t, accounts, "owner")

	store := NewPostgresSessionStore(testPool)
	session := auth.Session{
		RefreshToken:     uuid.NewString(),
		AccessToken:      uuid.NewString(),
		AccountID:        account.ID,
		AccessExpiresAt:  time.Now().UTC().Add(time.Hour),
		RefreshExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	loaded, err := store.Find(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("find session: %v", err)
	}
	if loaded.AccountID != account.ID || !timesClose(loaded.RefreshExpiresAt, session.RefreshExpiresAt, time.Millisecond) {
		t.Fatalf("unexpected session loaded: %+v", loaded)
	}

	byAccess, err := store.FindByAccessToken(ctx, session.AccessToken)
	if err != nil {
		t.Fatalf("find by access token: %v", err)
	}
	if byAccess.RefreshToken != session.RefreshToken {
		t.Fatalf("unexpected session by access token: %+v", byAccess)
	}

	rotated := session
	rotated.AccessToken = uuid.NewString()
	rotated.AccessExpiresAt = session.AccessExpiresAt.Add(time.Hour)
	if err := store.Save(ctx, rotated); err != nil {
		t.Fatalf("rotate session: %v", err)
	}
	loaded, err = store.Find(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("find rotated session: %v", err)
	}
	if loaded.AccessToken != rotated.AccessToken {
		t.Fatalf("expected rotated access token, got %q", loaded.AccessToken)
	}

	if err := store.Delete(ctx, session.RefreshToken); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := store.Find(ctx, session.RefreshToken); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, session.RefreshToken); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound deleting twice, got %v", err)
	}
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		if _, err := pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	conn, err := testPool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `TRUNCATE TABLE likes, subscriptions, watch_history,
        playlist_videos, playlists, tweets, comments, sessions, videos, accounts CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func createTestAccount(t *testing.T, repo *PostgresAccountRepository, username string) models.Account {
	t.Helper()
	account := models.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		DisplayName:  username,
		PasswordHash: "password-hash",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), account); err != nil {
		t.Fatalf("create test account: %v", err)
	}
	return account
}

func createTestVideo(t *testing.T, repo *PostgresVideoRepository, ownerID, title string) models.Video {
	t.Helper()
	video := models.Video{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		MediaURL:  "https://media.example.com/" + uuid.NewString() + ".mp4",
		Title:     title,
		Published: true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), video); err != nil {
		t.Fatalf("create test video: %v", err)
	}
	return video
}

func timesClose(a, b time.Time, delta time.Duration) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= delta
}
