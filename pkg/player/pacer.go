package player

import "time"

// DefaultFrameInterval paces video at roughly 25 frames per second.
const DefaultFrameInterval = 40 * time.Millisecond

// Pacer decides how long the engine waits after emitting a video frame.
type Pacer interface {
	// Wait blocks until the next frame may be emitted. It returns false
	// when stop was closed first.
	Wait(stop <-chan struct{}) bool
}

// FixedPacer sleeps a constant interval after every frame, regardless of
// the stream's frame rate or the audio clock.
type FixedPacer struct {
	Interval time.Duration
}

// NewFixedPacer returns a FixedPacer. A non-positive interval selects
// DefaultFrameInterval.
func NewFixedPacer(interval time.Duration) FixedPacer {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return FixedPacer{Interval: interval}
}

func (p FixedPacer) Wait(stop <-chan struct{}) bool {
	if p.Interval <= 0 {
		select {
		case <-stop:
			return false
		default:
			return true
		}
	}

	timer := time.NewTimer(p.Interval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-stop:
		return false
	}
}
