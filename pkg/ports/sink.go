package ports

import (
	"image"
)

// FrameSink stores exported frames, such as periodic snapshots taken while
// a file plays.
type FrameSink interface {
	// Enabled returns true if frames should be handed to the sink at all.
	Enabled() bool

	// SaveFrame stores a frame. positionMs is the frame's playback position.
	SaveFrame(index int, positionMs int64, img image.Image) (string, error)
}
