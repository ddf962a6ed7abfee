// Package playlists manages playlist lifecycle and the ordered,
// duplicate-free membership of videos inside a playlist.
package playlists

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
)

var (
	// ErrDuplicateMember indicates the video is already part of the playlist.
	ErrDuplicateMember = errors.New("video already in playlist")
	// ErrForbidden indicates the caller does not own the playlist.
	ErrForbidden = errors.New("caller does not own playlist")
	// ErrEmptyName indicates a playlist was created without a name.
	ErrEmptyName = errors.New("playlist name must not be empty")
)

// Manager mediates playlist mutations, enforcing ownership and the
// membership invariants on top of the repository.
type Manager struct {
	Playlists repositories.PlaylistRepository
	Videos    repositories.VideoRepository

	// NowFunc overrides the clock in tests.
	NowFunc func() time.Time
}

func (m *Manager) now() time.Time {
	if m.NowFunc != nil {
		return m.NowFunc()
	}
	return time.Now().UTC()
}

// Create makes a new, empty playlist owned by the caller.
func (m *Manager) Create(ctx context.Context, ownerID, name, description string) (models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Playlist{}, ErrEmptyName
	}

	now := m.now()
	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.Playlists.Create(ctx, playlist); err != nil {
		return models.Playlist{}, fmt.Errorf("create playlist: %w", err)
	}

	return playlist, nil
}

// Get fetches a playlist with its ordered video ids.
func (m *Manager) Get(ctx context.Context, id string) (models.Playlist, error) {
	return m.Playlists.FindByID(ctx, id)
}

// owned fetches the playlist and verifies the caller owns it.
func (m *Manager) owned(ctx context.Context, callerID, playlistID string) (models.Playlist, error) {
	playlist, err := m.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		return models.Playlist{}, err
	}
	if playlist.OwnerID != callerID {
		return models.Playlist{}, ErrForbidden
	}
	return playlist, nil
}

// Update applies the supplied non-empty fields to the playlist and leaves
// omitted fields unchanged.
func (m *Manager) Update(ctx context.Context, callerID, playlistID, name, description string) (models.Playlist, error) {
	playlist, err := m.owned(ctx, callerID, playlistID)
	if err != nil {
		return models.Playlist{}, err
	}

	if trimmed := strings.TrimSpace(name); trimmed != "" {
		playlist.Name = trimmed
	}
	if trimmed := strings.TrimSpace(description); trimmed != "" {
		playlist.Description = trimmed
	}
	playlist.UpdatedAt = m.now()

	if err := m.Playlists.Update(ctx, playlist); err != nil {
		return models.Playlist{}, fmt.Errorf("update playlist: %w", err)
	}

	return playlist, nil
}

// Delete removes the playlist entirely.
func (m *Manager) Delete(ctx context.Context, callerID, playlistID string) error {
	if _, err := m.owned(ctx, callerID, playlistID); err != nil {
		return err
	}
	return m.Playlists.Delete(ctx, playlistID)
}

// AddVideo appends the video to the playlist, preserving insertion order.
// Adding a video twice fails with ErrDuplicateMember.
func (m *Manager) AddVideo(ctx context.Context, callerID, playlistID, videoID string) error {
	if _, err := m.owned(ctx, callerID, playlistID); err != nil {
		return err
	}

	if _, err := m.Videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("video %s: %w", videoID, repositories.ErrInvalidReference)
		}
		return fmt.Errorf("check video: %w", err)
	}

	if err := m.Playlists.AddVideo(ctx, playlistID, videoID); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return ErrDuplicateMember
		}
		return fmt.Errorf("add playlist video: %w", err)
	}

	return nil
}

// RemoveVideo removes the video from the playlist and closes the ordering
// gap. Removing a video that is not a member succeeds as a no-op.
func (m *Manager) RemoveVideo(ctx context.Context, callerID, playlistID, videoID string) error {
	if _, err := m.owned(ctx, callerID, playlistID); err != nil {
		return err
	}
	return m.Playlists.RemoveVideo(ctx, playlistID, videoID)
}
