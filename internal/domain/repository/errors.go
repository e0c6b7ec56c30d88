package repository

import "errors"

var (
	// ErrArtifactNotFound is returned when no committed artifact exists
	// under the requested key.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrBucketNotFound is returned when the configured object storage
	// bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")
)
