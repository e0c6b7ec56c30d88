package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	"github.com/styleframe/transcoder/internal/domain/model"
	"github.com/styleframe/transcoder/internal/domain/repository"
)

// mockProber implements probe.Prober.
type mockProber struct {
	probeFn func(ctx context.Context, path string) (model.Metadata, error)
	calls   int
}

func (m *mockProber) Probe(ctx context.Context, path string) (model.Metadata, error) {
	m.calls++
	if m.probeFn != nil {
		return m.probeFn(ctx, path)
	}
	return model.Metadata{Width: 1280, Height: 720, DurationSeconds: 4.2, FrameRate: 30}, nil
}

// mockTranscoder implements transcoder.Transcoder. By default it writes
// a placeholder output file, mimicking a successful encode.
type mockTranscoder struct {
	transcodeFn func(ctx context.Context, inputPath, outputPath string) error
	calls       int
}

func (m *mockTranscoder) Transcode(ctx context.Context, inputPath, outputPath string) error {
	m.calls++
	if m.transcodeFn != nil {
		return m.transcodeFn(ctx, inputPath, outputPath)
	}
	return os.WriteFile(outputPath, []byte("transcoded"), 0o644)
}

// memStore is an in-memory repository.ArtifactStore that honors the
// commit boundary: writes stay pending until Commit, and reads observe
// only committed state.
type memStore struct {
	pending   map[string][]byte
	committed map[string][]byte
	ops       []string

	writeErr  error
	commitErr error
}

func newMemStore() *memStore {
	return &memStore{
		pending:   make(map[string][]byte),
		committed: make(map[string][]byte),
	}
}

func (s *memStore) Write(ctx context.Context, key string, r io.Reader, contentType string) error {
	s.ops = append(s.ops, "write:"+key)
	if s.writeErr != nil {
		return s.writeErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.pending[key] = data
	return nil
}

func (s *memStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := s.committed[key]
	return ok, nil
}

func (s *memStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.committed[key]
	if !ok {
		return nil, repository.ErrArtifactNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStore) Commit(ctx context.Context) error {
	s.ops = append(s.ops, "commit")
	if s.commitErr != nil {
		return s.commitErr
	}
	for k, v := range s.pending {
		s.committed[k] = v
	}
	s.pending = make(map[string][]byte)
	return nil
}

var errBoom = errors.New("boom")
