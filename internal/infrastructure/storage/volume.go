package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/styleframe/transcoder/internal/domain/repository"
)

// Volume implements repository.ArtifactStore on a local directory,
// typically a platform-managed persistent volume mounted into the
// container. Commit is the durability boundary: Write stages the object
// under a hidden name and renames it into place, and Commit fsyncs the
// directory so the rename survives a crash. A reader can therefore
// never observe a partially written artifact.
type Volume struct {
	root string
}

// Compile-time verification that Volume implements ArtifactStore.
var _ repository.ArtifactStore = (*Volume)(nil)

// NewVolume creates a volume store rooted at dir, creating dir when
// missing.
func NewVolume(dir string) (*Volume, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create volume root: %w", err)
	}
	return &Volume{root: dir}, nil
}

// Write streams r into a staging file and renames it to key. The file
// is fsynced before the rename so the rename never publishes a name
// ahead of its contents.
func (v *Volume) Write(ctx context.Context, key string, r io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	staging, err := os.CreateTemp(v.root, "."+key+".tmp-*")
	if err != nil {
		return fmt.Errorf("create staging file: %w", err)
	}
	stagingPath := staging.Name()

	if _, err := io.Copy(staging, r); err != nil {
		staging.Close()
		os.Remove(stagingPath)
		return fmt.Errorf("write staging file: %w", err)
	}
	if err := staging.Sync(); err != nil {
		staging.Close()
		os.Remove(stagingPath)
		return fmt.Errorf("sync staging file: %w", err)
	}
	if err := staging.Close(); err != nil {
		os.Remove(stagingPath)
		return fmt.Errorf("close staging file: %w", err)
	}

	if err := os.Rename(stagingPath, filepath.Join(v.root, key)); err != nil {
		os.Remove(stagingPath)
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}

// Exists reports whether a committed artifact is present under key.
func (v *Volume) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	info, err := os.Stat(filepath.Join(v.root, key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat artifact: %w", err)
	}
	return !info.IsDir(), nil
}

// Open returns a reader over the artifact under key.
func (v *Volume) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(v.root, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, repository.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	return f, nil
}

// Commit flushes the volume root directory so prior renames are
// durable and visible to other instances sharing the mount.
func (v *Volume) Commit(ctx context.Context) error {
	dir, err := os.Open(v.root)
	if err != nil {
		return fmt.Errorf("open volume root: %w", err)
	}
	defer dir.Close()

	if err := dir.Sync(); err != nil {
		return fmt.Errorf("sync volume root: %w", err)
	}
	return nil
}

// validateKey rejects keys that would escape the volume root.
func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, "/\x00") || key == "." || key == ".." {
		return fmt.Errorf("invalid artifact key %q", key)
	}
	return nil
}
