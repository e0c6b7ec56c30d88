// Package probe extracts structural metadata (dimensions, duration,
// frame rate) from a media file using ffprobe, without decoding it.
package probe

import (
	"context"
	"errors"

	"github.com/styleframe/transcoder/internal/domain/model"
)

// ErrProbeFailed is returned for any probe failure: spawn error,
// non-zero exit, or malformed output. The raw tool output is never
// attached so it cannot leak into client-facing error details.
var ErrProbeFailed = errors.New("ffprobe failed")

// Prober defines the interface for media metadata extraction.
type Prober interface {
	// Probe inspects the file at path and returns its metadata.
	// A file without a video stream yields zero dimensions rather
	// than an error.
	Probe(ctx context.Context, path string) (model.Metadata, error)
}
