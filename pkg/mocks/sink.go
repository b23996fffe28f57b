package mocks

import (
	"fmt"
	"image"
	"sync"

	"github.com/user/avplay/pkg/ports"
)

// FrameSink is a mock implementation of ports.FrameSink.
type FrameSink struct {
	mu sync.RWMutex

	enabled bool

	Frames    map[int]image.Image
	Positions map[int]int64

	SaveFrameFunc func(index int, positionMs int64, img image.Image) (string, error)
}

// NewFrameSink creates a new mock FrameSink.
func NewFrameSink(enabled bool) *FrameSink {
	return &FrameSink{
		enabled:   enabled,
		Frames:    make(map[int]image.Image),
		Positions: make(map[int]int64),
	}
}

func (m *FrameSink) Enabled() bool {
	return m.enabled
}

func (m *FrameSink) SaveFrame(index int, positionMs int64, img image.Image) (string, error) {
	if m.SaveFrameFunc != nil {
		return m.SaveFrameFunc(index, positionMs, img)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames[index] = img
	m.Positions[index] = positionMs
	return fmt.Sprintf("frame_%05d.png", index), nil
}

// Count returns the number of saved frames.
func (m *FrameSink) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Frames)
}

var _ ports.FrameSink = (*FrameSink)(nil)
