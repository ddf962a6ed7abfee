package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
)

func jsonBody(t *testing.T, payload any) io.Reader {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(body)
}

type inMemoryAccountStore struct {
	accounts map[string]models.Account
	history  []watchEntry
}

func newInMemoryAccountStore(accounts ...models.Account) *inMemoryAccountStore {
	store := &inMemoryAccountStore{accounts: make(map[string]models.Account)}
	for _, a := range accounts {
		store.accounts[a.ID] = a
	}
	return store
}

func (s *inMemoryAccountStore) Create(_ context.Context, account models.Account) error {
	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Email, account.Email) || strings.EqualFold(existing.Username, account.Username) {
			return repositories.ErrConflict
		}
	}
	s.accounts[account.ID] = account
	return nil
}

func (s *inMemoryAccountStore) FindByID(_ context.Context, id string) (models.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return models.Account{}, repositories.ErrNotFound
	}
	return account, nil
}

func (s *inMemoryAccountStore) FindByEmail(_ context.Context, email string) (models.Account, error) {
	for _, account := range s.accounts {
		if strings.EqualFold(account.Email, email) {
			return account, nil
		}
	}
	return models.Account{}, repositories.ErrNotFound
}

func (s *inMemoryAccountStore) FindByUsername(_ context.Context, username string) (models.Account, error) {
	for _, account := range s.accounts {
		if strings.EqualFold(account.Username, username) {
			return account, nil
		}
	}
	return models.Account{}, repositories.ErrNotFound
}

func (s *inMemoryAccountStore) Update(_ context.Context, account models.Account) error {
	if _, ok := s.accounts[account.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.accounts[account.ID] = account
	return nil
}

func (s *inMemoryAccountStore) AppendWatchHistory(_ context.Context, accountID, videoID string) error {
	s.history = append(s.history, watchEntry{accountID: accountID, videoID: videoID})
	return nil
}

type watchEntry struct {
	accountID string
	videoID   string
}

type inMemoryVideoStore struct {
	videos map[string]models.Video
}

func newInMemoryVideoStore(videos ...models.Video) *inMemoryVideoStore {
	store := &inMemoryVideoStore{videos: make(map[string]models.Video)}
	for _, v := range videos {
		store.videos[v.ID] = v
	}
	return store
}

func (s *inMemoryVideoStore) Create(_ context.Context, video models.Video) error {
	if _, ok := s.videos[video.ID]; ok {
		return repositories.ErrConflict
	}
	s.videos[video.ID] = video
	return nil
}

func (s *inMemoryVideoStore) FindByID(_ context.Context, id string) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (s *inMemoryVideoStore) Update(_ context.Context, video models.Video) error {
	if _, ok := s.videos[video.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.videos[video.ID] = video
	return nil
}

func (s *inMemoryVideoStore) Delete(_ context.Context, id string) error {
	if _, ok := s.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

func (s *inMemoryVideoStore) IncrementViews(_ context.Context, id string) error {
	video, ok := s.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Views++
	s.videos[id] = video
	return nil
}

var (
	_ AccountStore = (*inMemoryAccountStore)(nil)
	_ VideoStore   = (*inMemoryVideoStore)(nil)
)
