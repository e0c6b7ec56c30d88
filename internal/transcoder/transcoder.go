package transcoder

import "context"

// Transcoder defines the interface for video normalization.
// Implementations re-encode an input file into the canonical grayscale
// MP4 the service stores and serves.
type Transcoder interface {
	// Transcode re-encodes the file at inputPath into outputPath,
	// overwriting any pre-existing file at outputPath. It returns
	// only after the encoding process has fully exited.
	//
	// A non-zero exit yields a *TranscodeError carrying a bounded
	// tail of the tool's diagnostic output.
	Transcode(ctx context.Context, inputPath, outputPath string) error
}
