package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/styleframe/transcoder/internal/domain/model"
	"github.com/styleframe/transcoder/internal/domain/repository"
	"github.com/styleframe/transcoder/internal/infrastructure/metrics"
	"github.com/styleframe/transcoder/internal/probe"
	"github.com/styleframe/transcoder/internal/transcoder"
)

const (
	// DefaultMaxUploadBytes is the upload size cap: 10 MiB.
	DefaultMaxUploadBytes = 10 * 1024 * 1024

	// artifactContentType is the media type of every stored artifact.
	artifactContentType = "video/mp4"
)

// ErrUploadTooLarge is returned when an upload exceeds the size cap.
// Exceeding the cap is a hard failure, never a truncation.
var ErrUploadTooLarge = errors.New("upload exceeds size limit")

// AnalyzeOutput contains the result of a completed upload pipeline.
type AnalyzeOutput struct {
	// ID names the committed artifact. It is only ever populated once
	// the artifact is durable, so a client holding an ID can always
	// retrieve it.
	ID       string
	Metadata model.Metadata
}

// VideoService defines the upload pipeline and retrieval operations.
type VideoService interface {
	// Analyze persists src to bounded temporary storage, probes it,
	// re-encodes it into the canonical grayscale MP4, commits the
	// result to the artifact store, and returns the new identifier
	// with the probed metadata. Every error is terminal for the
	// request; no step is retried.
	Analyze(ctx context.Context, src io.Reader) (*AnalyzeOutput, error)

	// Fetch streams the committed artifact named by id.
	// Returns repository.ErrArtifactNotFound for unknown or malformed
	// identifiers. Caller closes the returned ReadCloser.
	Fetch(ctx context.Context, id string) (io.ReadCloser, error)
}

// VideoServiceConfig holds configuration for VideoService.
type VideoServiceConfig struct {
	// TempDir is the base directory for per-request scratch space.
	TempDir string
	// MaxUploadBytes caps the cumulative size of an upload.
	MaxUploadBytes int64
}

// DefaultVideoServiceConfig returns the default configuration.
func DefaultVideoServiceConfig() VideoServiceConfig {
	return VideoServiceConfig{
		TempDir:        os.TempDir(),
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

type videoService struct {
	prober     probe.Prober
	transcoder transcoder.Transcoder
	store      repository.ArtifactStore

	tempDir        string
	maxUploadBytes int64
}

// NewVideoService creates a new VideoService instance.
func NewVideoService(
	prober probe.Prober,
	tc transcoder.Transcoder,
	store repository.ArtifactStore,
	cfg VideoServiceConfig,
) VideoService {
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &videoService{
		prober:         prober,
		transcoder:     tc,
		store:          store,
		tempDir:        cfg.TempDir,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// Analyze runs the intake → probe → transcode → commit sequence.
// Scratch space is reclaimed on every exit path by the single deferred
// RemoveAll; commit happens strictly after the transcode process has
// exited successfully and the artifact bytes are in the store.
func (s *videoService) Analyze(ctx context.Context, src io.Reader) (*AnalyzeOutput, error) {
	workDir, err := os.MkdirTemp(s.tempDir, "upload-")
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.ResultIntakeFailed).Inc()
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	inputPath := filepath.Join(workDir, "input")
	if err := s.saveCapped(inputPath, src); err != nil {
		if errors.Is(err, ErrUploadTooLarge) {
			metrics.AnalysesTotal.WithLabelValues(metrics.ResultTooLarge).Inc()
		} else {
			metrics.AnalysesTotal.WithLabelValues(metrics.ResultIntakeFailed).Inc()
		}
		return nil, err
	}

	md, err := s.probeStage(ctx, inputPath)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.ResultProbeFailed).Inc()
		return nil, err
	}

	id := model.NewVideoID()
	outputPath := filepath.Join(workDir, "output.mp4")
	if err := s.transcodeStage(ctx, inputPath, outputPath); err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.ResultTranscodeFailed).Inc()
		return nil, err
	}

	// Input is no longer needed once the encoder has exited; tolerate
	// it already being gone.
	if err := os.Remove(inputPath); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove upload input", "error", err)
	}

	if err := s.commitStage(ctx, id, outputPath); err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.ResultStoreFailed).Inc()
		return nil, err
	}

	metrics.AnalysesTotal.WithLabelValues(metrics.ResultCompleted).Inc()
	slog.Info("analyze completed",
		slog.String("video_id", id),
		slog.Int("width", md.Width),
		slog.Int("height", md.Height),
		slog.Float64("duration_seconds", md.DurationSeconds),
	)

	return &AnalyzeOutput{ID: id, Metadata: md}, nil
}

// Fetch resolves id to its canonical key and streams the artifact.
// Malformed identifiers are indistinguishable from unknown ones.
func (s *videoService) Fetch(ctx context.Context, id string) (io.ReadCloser, error) {
	if !model.ValidVideoID(id) {
		return nil, repository.ErrArtifactNotFound
	}

	key := artifactKey(id)
	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check artifact: %w", err)
	}
	if !exists {
		return nil, repository.ErrArtifactNotFound
	}

	return s.store.Open(ctx, key)
}

// saveCapped streams src to path, failing with ErrUploadTooLarge the
// moment cumulative bytes exceed the cap. Partial data stays in the
// scratch dir and is reclaimed by the caller's deferred cleanup.
func (s *videoService) saveCapped(path string, src io.Reader) error {
	defer observeStage(metrics.StageIntake)()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(src, s.maxUploadBytes+1))
	if err != nil {
		return fmt.Errorf("write upload: %w", err)
	}
	if n > s.maxUploadBytes {
		return ErrUploadTooLarge
	}
	return nil
}

func (s *videoService) probeStage(ctx context.Context, inputPath string) (model.Metadata, error) {
	defer observeStage(metrics.StageProbe)()
	return s.prober.Probe(ctx, inputPath)
}

func (s *videoService) transcodeStage(ctx context.Context, inputPath, outputPath string) error {
	defer observeStage(metrics.StageTranscode)()
	return s.transcoder.Transcode(ctx, inputPath, outputPath)
}

// commitStage moves the transcoded file into the store and commits.
// The store's commit is the sole durability boundary: until it returns,
// retrieval must not be able to observe the artifact as existing.
func (s *videoService) commitStage(ctx context.Context, id, outputPath string) error {
	defer observeStage(metrics.StageStore)()

	out, err := os.Open(outputPath)
	if err != nil {
		return fmt.Errorf("open transcoded output: %w", err)
	}
	defer out.Close()

	if err := s.store.Write(ctx, artifactKey(id), out, artifactContentType); err != nil {
		return fmt.Errorf("store artifact: %w", err)
	}
	if err := s.store.Commit(ctx); err != nil {
		return fmt.Errorf("commit artifact: %w", err)
	}
	return nil
}

// artifactKey derives the canonical store key for an identifier.
func artifactKey(id string) string {
	return id + ".mp4"
}

// observeStage records a stage duration when the returned func runs.
func observeStage(stage string) func() {
	start := time.Now()
	return func() {
		metrics.PipelineStageSeconds.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}
