package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/styleframe/transcoder/internal/domain/model"
)

// FFprobeConfig holds configuration for the ffprobe-backed prober.
type FFprobeConfig struct {
	// BinaryPath is the path to the ffprobe binary.
	// If empty, "ffprobe" will be used (assumes it's in PATH).
	BinaryPath string
}

// DefaultFFprobeConfig returns an FFprobeConfig with production defaults.
func DefaultFFprobeConfig() FFprobeConfig {
	return FFprobeConfig{BinaryPath: "ffprobe"}
}

// FFprobe implements Prober by shelling out to the ffprobe CLI.
type FFprobe struct {
	config FFprobeConfig
}

// Compile-time verification that FFprobe implements Prober.
var _ Prober = (*FFprobe)(nil)

// NewFFprobe creates a new ffprobe-backed prober.
func NewFFprobe(cfg FFprobeConfig) *FFprobe {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = "ffprobe"
	}
	return &FFprobe{config: cfg}
}

// Probe runs a single ffprobe JSON call against path and reduces the
// output to the metadata record. Every failure mode collapses into
// ErrProbeFailed; the underlying cause is retained for logs via %w
// chaining but the sentinel carries no tool output.
func (p *FFprobe) Probe(ctx context.Context, path string) (model.Metadata, error) {
	cmd := exec.CommandContext(ctx, p.config.BinaryPath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return model.Metadata{}, fmt.Errorf("%w: %s", ErrProbeFailed, describeRunError(err))
	}

	md, err := ParseJSON(out)
	if err != nil {
		return model.Metadata{}, err
	}
	return md, nil
}

// describeRunError names the failure class without echoing tool output.
func describeRunError(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("exit status %d", exitErr.ExitCode())
	}
	return "could not start process"
}

// ParseJSON converts raw ffprobe JSON output into a Metadata record.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (model.Metadata, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Metadata{}, fmt.Errorf("%w: malformed output", ErrProbeFailed)
	}
	return buildMetadata(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Duration     string `json:"duration"`
	AvgFrameRate string `json:"avg_frame_rate"`
}

// buildMetadata picks the first video stream and applies the duration
// fallback chain: stream duration, then container duration, then zero.
// The fallback keys on the stream field being absent or empty, not on
// its parsed value, so a stream that reports "0" stays zero.
func buildMetadata(raw *ffprobeOutput) model.Metadata {
	var video *ffprobeStream
	for i := range raw.Streams {
		if raw.Streams[i].CodecType == "video" {
			video = &raw.Streams[i]
			break
		}
	}

	var md model.Metadata
	if video != nil {
		md.Width = video.Width
		md.Height = video.Height
		md.FrameRate = parseRatio(video.AvgFrameRate)
	}
	if video != nil && video.Duration != "" {
		md.DurationSeconds = parseFloat(video.Duration)
	} else {
		md.DurationSeconds = parseFloat(raw.Format.Duration)
	}
	return md
}

// parseRatio converts a rational string like "30000/1001" to a float.
// Empty, "0/0", and zero-denominator values all map to 0.0 so a file
// with an undeterminable frame rate never fails the request.
func parseRatio(value string) float64 {
	if value == "" || value == "0/0" {
		return 0.0
	}
	num, den, found := strings.Cut(value, "/")
	if !found {
		return parseFloat(value)
	}
	n := parseFloat(num)
	d := parseFloat(den)
	if d == 0 {
		return 0.0
	}
	return n / d
}

// parseFloat parses ffprobe's string-encoded numbers, mapping anything
// unparseable to zero.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
