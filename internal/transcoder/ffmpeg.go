package transcoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// diagnosticTailBytes bounds how much of ffmpeg's stderr is carried in
// a TranscodeError, so error payloads never grow with tool verbosity.
const diagnosticTailBytes = 400

// FFmpegConfig holds configuration for the FFmpeg transcoder.
type FFmpegConfig struct {
	// BinaryPath is the path to the ffmpeg binary.
	// If empty, "ffmpeg" will be used (assumes it's in PATH).
	BinaryPath string

	// VideoCodec is the video codec to use.
	// Default: libx264
	VideoCodec string

	// VideoPreset controls the encoding speed/quality tradeoff.
	// Default: veryfast
	VideoPreset string

	// CRF is the constant rate factor quality target.
	// Default: 23
	CRF int

	// AudioCodec is the audio codec to use.
	// Default: aac
	AudioCodec string

	// AudioBitrate is the target audio bitrate.
	// Default: 128k
	AudioBitrate string
}

// DefaultFFmpegConfig returns an FFmpegConfig with production defaults.
func DefaultFFmpegConfig() FFmpegConfig {
	return FFmpegConfig{
		BinaryPath:   "ffmpeg",
		VideoCodec:   "libx264",
		VideoPreset:  "veryfast",
		CRF:          23,
		AudioCodec:   "aac",
		AudioBitrate: "128k",
	}
}

// TranscodeError reports a transcode process that exited non-zero.
type TranscodeError struct {
	// ExitCode is the process exit status.
	ExitCode int
	// Diagnostic is the last diagnosticTailBytes of the tool's stderr.
	Diagnostic string
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("ffmpeg exited with status %d: %s", e.ExitCode, e.Diagnostic)
}

// FFmpeg implements Transcoder using the FFmpeg CLI.
type FFmpeg struct {
	config FFmpegConfig
}

// Compile-time verification that FFmpeg implements Transcoder.
var _ Transcoder = (*FFmpeg)(nil)

// NewFFmpeg creates a new FFmpeg-based transcoder.
func NewFFmpeg(cfg FFmpegConfig) *FFmpeg {
	def := DefaultFFmpegConfig()
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = def.BinaryPath
	}
	if cfg.VideoCodec == "" {
		cfg.VideoCodec = def.VideoCodec
	}
	if cfg.VideoPreset == "" {
		cfg.VideoPreset = def.VideoPreset
	}
	if cfg.CRF == 0 {
		cfg.CRF = def.CRF
	}
	if cfg.AudioCodec == "" {
		cfg.AudioCodec = def.AudioCodec
	}
	if cfg.AudioBitrate == "" {
		cfg.AudioBitrate = def.AudioBitrate
	}
	return &FFmpeg{config: cfg}
}

// Transcode re-encodes inputPath into a grayscale faststart MP4 at
// outputPath. It executes FFmpeg as a subprocess and waits for
// completion; no partial results are observable mid-invocation.
func (t *FFmpeg) Transcode(ctx context.Context, inputPath, outputPath string) error {
	args := t.buildArgs(inputPath, outputPath)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.config.BinaryPath, args...)
	cmd.Stdout = nil // FFmpeg writes progress and errors to stderr
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("transcode cancelled: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &TranscodeError{
				ExitCode:   exitErr.ExitCode(),
				Diagnostic: tail(stderr.String(), diagnosticTailBytes),
			}
		}
		// Spawn failure: report a fixed detail, never tool output.
		return fmt.Errorf("ffmpeg failed to start: %w", err)
	}
	return nil
}

// buildArgs constructs the fixed FFmpeg argument set: H.264 at CRF
// quality, grayscale filter, even-dimension-safe pixel format, AAC
// audio, and faststart so the moov atom sits at the front of the file.
func (t *FFmpeg) buildArgs(inputPath, outputPath string) []string {
	return []string{
		"-y", // Overwrite output without asking
		"-i", inputPath,
		"-c:v", t.config.VideoCodec,
		"-preset", t.config.VideoPreset,
		"-crf", fmt.Sprintf("%d", t.config.CRF),
		"-vf", "format=gray",
		"-pix_fmt", "yuv420p",
		"-c:a", t.config.AudioCodec,
		"-b:a", t.config.AudioBitrate,
		"-movflags", "+faststart",
		outputPath,
	}
}

// tail returns the last n bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
