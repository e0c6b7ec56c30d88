package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/styleframe/transcoder/internal/domain/repository"
)

func TestVolume_WriteOpenRoundTrip(t *testing.T) {
	v, err := NewVolume(t.TempDir())
	if err != nil {
		t.Fatalf("NewVolume: %v", err)
	}
	ctx := context.Background()

	content := "fake mp4 bytes"
	if err := v.Write(ctx, "abc123.mp4", strings.NewReader(content), "video/mp4"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := v.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	exists, err := v.Exists(ctx, "abc123.mp4")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Fatal("expected artifact to exist after commit")
	}

	rc, err := v.Open(ctx, "abc123.mp4")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != content {
		t.Errorf("read %q, want %q", got, content)
	}
}

func TestVolume_OpenMissing(t *testing.T) {
	v, err := NewVolume(t.TempDir())
	if err != nil {
		t.Fatalf("NewVolume: %v", err)
	}

	_, err = v.Open(context.Background(), "unknown.mp4")
	if !errors.Is(err, repository.ErrArtifactNotFound) {
		t.Errorf("expected ErrArtifactNotFound, got %v", err)
	}

	exists, err := v.Exists(context.Background(), "unknown.mp4")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Error("expected missing artifact to not exist")
	}
}

func TestVolume_WriteOverwrites(t *testing.T) {
	v, err := NewVolume(t.TempDir())
	if err != nil {
		t.Fatalf("NewVolume: %v", err)
	}
	ctx := context.Background()

	for _, content := range []string{"first", "second"} {
		if err := v.Write(ctx, "same.mp4", strings.NewReader(content), "video/mp4"); err != nil {
			t.Fatalf("Write(%q): %v", content, err)
		}
	}

	rc, err := v.Open(ctx, "same.mp4")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	got, _ := io.ReadAll(rc)
	if string(got) != "second" {
		t.Errorf("read %q, want %q", got, "second")
	}
}

func TestVolume_WriteLeavesNoStagingFiles(t *testing.T) {
	dir := t.TempDir()
	v, err := NewVolume(dir)
	if err != nil {
		t.Fatalf("NewVolume: %v", err)
	}

	if err := v.Write(context.Background(), "vid.mp4", strings.NewReader("data"), "video/mp4"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "vid.mp4" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only vid.mp4 in volume root, got %v", names)
	}
}

func TestVolume_RejectsEscapingKeys(t *testing.T) {
	v, err := NewVolume(t.TempDir())
	if err != nil {
		t.Fatalf("NewVolume: %v", err)
	}

	for _, key := range []string{"", ".", "..", "a/b.mp4", "../escape.mp4"} {
		t.Run(key, func(t *testing.T) {
			if err := v.Write(context.Background(), key, strings.NewReader("x"), "video/mp4"); err == nil {
				t.Errorf("Write accepted invalid key %q", key)
			}
			if _, err := v.Open(context.Background(), key); err == nil {
				t.Errorf("Open accepted invalid key %q", key)
			}
		})
	}
}

func TestNewVolume_CreatesRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "video-store")

	if _, err := NewVolume(dir); err != nil {
		t.Fatalf("NewVolume: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected volume root to be a directory")
	}
}
