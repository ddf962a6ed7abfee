package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/logging"
)

// MediaStorage persists uploaded files and returns their public location.
type MediaStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// UploadHandler accepts media uploads (video files, thumbnails, avatars)
// ahead of publishing.
type UploadHandler struct {
	Storage MediaStorage
}

const maxUploadBytes = 512 << 20

// Upload handles POST /api/v1/uploads multipart requests. The stored object
// key is namespaced by the uploading account.
func (h UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}

	if h.Storage == nil {
		respondJSON(ctx, w, http.StatusServiceUnavailable, map[string]string{"error": "uploads are not configured"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		logger.Warn("invalid upload payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "a file form field is required"})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("%s/%s%s", accountID, uuid.NewString(), path.Ext(header.Filename))
	url, err := h.Storage.Save(ctx, key, file)
	if err != nil {
		logger.Error("failed to store upload", "key", key, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to store upload"})
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]string{"url": url})
}
