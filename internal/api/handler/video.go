package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/styleframe/transcoder/internal/domain/model"
	"github.com/styleframe/transcoder/internal/domain/repository"
	"github.com/styleframe/transcoder/internal/infrastructure/metrics"
	"github.com/styleframe/transcoder/internal/probe"
	"github.com/styleframe/transcoder/internal/transcoder"
	"github.com/styleframe/transcoder/internal/usecase"
)

// uploadFieldName is the multipart form field carrying the video.
const uploadFieldName = "file"

// AnalyzeResponse is the success payload of POST /analyze.
type AnalyzeResponse struct {
	ID       string         `json:"id"`
	Metadata model.Metadata `json:"metadata"`
}

// VideoHandler handles video-related HTTP requests.
type VideoHandler struct {
	svc usecase.VideoService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(svc usecase.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// Analyze handles POST /analyze.
// The upload is consumed as a multipart stream so the size cap applies
// while bytes arrive rather than after buffering the whole body.
func (h *VideoHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_multipart", "Request must be multipart/form-data")
		return
	}

	part, err := findUploadPart(mr)
	if err != nil {
		Error(w, http.StatusBadRequest, "missing_file", "Multipart field 'file' is required")
		return
	}
	defer part.Close()

	if ct := part.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "video/") {
		metrics.AnalysesTotal.WithLabelValues(metrics.ResultRejected).Inc()
		Error(w, http.StatusBadRequest, "invalid_content_type", "Only video uploads are supported.")
		return
	}

	out, err := h.svc.Analyze(r.Context(), part)
	if err != nil {
		h.handleAnalyzeError(w, err)
		return
	}

	JSON(w, http.StatusOK, AnalyzeResponse{
		ID:       out.ID,
		Metadata: out.Metadata,
	})
}

// findUploadPart walks the multipart stream until the upload field.
// Earlier parts are drained implicitly by NextPart.
func findUploadPart(mr *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if err != nil {
			return nil, err
		}
		if part.FormName() == uploadFieldName {
			return part, nil
		}
	}
}

// Fetch handles GET /video/{id}.
func (h *VideoHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rc, err := h.svc.Fetch(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrArtifactNotFound) {
			metrics.ArtifactsServedTotal.WithLabelValues(metrics.ServeNotFound).Inc()
			Error(w, http.StatusNotFound, "video_not_found", "Not found")
			return
		}
		metrics.ArtifactsServedTotal.WithLabelValues(metrics.ServeError).Inc()
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "video/mp4")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		// Headers are gone; all we can do is log the aborted stream.
		slog.Warn("artifact stream interrupted",
			slog.String("video_id", id),
			slog.String("error", err.Error()),
		)
		metrics.ArtifactsServedTotal.WithLabelValues(metrics.ServeError).Inc()
		return
	}
	metrics.ArtifactsServedTotal.WithLabelValues(metrics.ServeOK).Inc()
}

func (h *VideoHandler) handleAnalyzeError(w http.ResponseWriter, err error) {
	var tErr *transcoder.TranscodeError
	switch {
	case errors.Is(err, usecase.ErrUploadTooLarge):
		Error(w, http.StatusRequestEntityTooLarge, "upload_too_large", "File exceeds 10MB limit.")
	case errors.Is(err, probe.ErrProbeFailed):
		// Fixed detail; raw probe output never reaches the client.
		Error(w, http.StatusInternalServerError, "probe_failed", "ffprobe failed")
	case errors.As(err, &tErr):
		Error(w, http.StatusInternalServerError, "transcode_failed", "Transcode failed: "+tErr.Diagnostic)
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
