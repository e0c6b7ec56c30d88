package repository

import (
	"context"
	"io"
)

// ArtifactStore defines the interface for the durable blob store holding
// transcoded videos. Implementations are provided by the infrastructure
// layer (local volume, MinIO/S3).
//
// Writes become visible to Open and Exists only after Commit returns.
// Implementations backed by stores that are durable on write may make
// Commit a no-op.
type ArtifactStore interface {
	// Write stores the bytes read from r under key, replacing any
	// existing object. The write is staged until Commit.
	Write(ctx context.Context, key string, r io.Reader, contentType string) error

	// Exists reports whether a committed object is present under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Open returns a reader over the committed object under key.
	// Returns ErrArtifactNotFound when no such object exists.
	// Caller is responsible for closing the returned ReadCloser.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Commit makes all prior writes durable and visible to subsequent
	// reads, including reads from other process instances.
	Commit(ctx context.Context) error
}
