package model

// Metadata describes the source video as reported by the probe.
// It is derived once per upload and never mutated afterwards.
type Metadata struct {
	// Width and Height are the dimensions of the first video stream
	// in pixels. Zero when the file carries no video stream.
	Width  int `json:"width"`
	Height int `json:"height"`

	// DurationSeconds is taken from the video stream when available,
	// falling back to the container duration, then to zero.
	DurationSeconds float64 `json:"durationSeconds"`

	// FrameRate is the average frame rate in frames per second.
	// Zero when the probe cannot determine it.
	FrameRate float64 `json:"frameRate"`
}
