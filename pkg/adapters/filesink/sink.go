// Package filesink provides a file-based frame sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/avplay/pkg/ports"
)

// DefaultJPEGQuality is used for JPEG snapshots.
const DefaultJPEGQuality = 90

// Sink saves frames as image files under a base directory.
type Sink struct {
	baseDir  string
	format   ports.ImageFormat
	quality  int
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new file sink writing format images into baseDir.
func New(baseDir string, format ports.ImageFormat, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		format:   format,
		quality:  DefaultJPEGQuality,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveFrame encodes img and writes it to frame_<index>_<position>ms.<ext>.
// It returns the written path.
func (s *Sink) SaveFrame(index int, positionMs int64, img image.Image) (string, error) {
	if err := s.fs.MkdirAll(s.baseDir); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	data, err := s.renderer.EncodeImage(img, s.format, s.quality)
	if err != nil {
		return "", fmt.Errorf("encode frame %d: %w", index, err)
	}

	path := filepath.Join(s.baseDir, FrameName(index, positionMs, s.format))
	if err := s.fs.WriteFile(path, data); err != nil {
		return "", fmt.Errorf("write frame %d: %w", index, err)
	}
	return path, nil
}

// FrameName returns the file name used for a saved frame.
func FrameName(index int, positionMs int64, format ports.ImageFormat) string {
	if positionMs < 0 {
		positionMs = 0
	}
	return fmt.Sprintf("frame_%05d_%dms%s", index, positionMs, format.Extension())
}

// Ensure Sink implements ports.FrameSink
var _ ports.FrameSink = (*Sink)(nil)
