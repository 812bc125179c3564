package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rewear-app/rewear-api/internal/api/shared"
	"github.com/rewear-app/rewear-api/internal/platform/logger"
	"github.com/rewear-app/rewear-api/internal/platform/media"
)

// UploadHandler handles listing-image uploads.
type UploadHandler struct {
	files    *media.FileStore
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadHandler creates a new UploadHandler. maxBytes caps the accepted
// request body size.
func NewUploadHandler(files *media.FileStore, maxBytes int64, log *slog.Logger) *UploadHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UploadHandler{
		files:    files,
		maxBytes: maxBytes,
		logger:   log.With(slog.String("component", "upload_handler")),
	}
}

// Upload handles POST /api/uploads requests: a multipart form with a single
// "image" file field. Only image files are accepted.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "Image too large")
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Image file is required")
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			log.Warn("failed to close upload", "error", cerr)
		}
	}()

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	url, err := h.files.Save(header.Filename, file)
	if err != nil {
		if errors.Is(err, media.ErrNotImage) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Only image files are allowed")
			return
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "Image too large")
			return
		}
		log.Error("failed to store upload", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to store image")
		return
	}

	log.Info("image uploaded",
		slog.String("url", url),
		slog.Int64("size", header.Size))

	shared.RespondWithJSON(w, r, http.StatusCreated, UploadResponse{URL: url})
}
