package ports

import "github.com/user/avplay/pkg/rgb"

// PlayerEvents receives notifications from the playback engine.
// Implementations must not block; they are called from the engine goroutine.
type PlayerEvents interface {
	// DurationChanged is called once per session, before any frame.
	DurationChanged(ms int64)

	// FrameReady delivers an independent copy of a decoded frame.
	FrameReady(img *rgb.Image)

	// PositionChanged reports the timestamp of the last delivered frame.
	PositionChanged(ms int64)

	// ErrorOccurred reports a fatal session error. The session ends after it.
	ErrorOccurred(message string)
}

// Transport is the set of commands a controller can issue to a player.
type Transport interface {
	Pause()
	Resume()
	Stop()
	Seek(ms int64)
	SetVolume(volume float64)
}
