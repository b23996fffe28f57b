// Package summarizer provides summary generation for playback sessions.
package summarizer

import "time"

// Summary contains all data collected during a playback session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Session identity and outcome
	Session SessionInfo

	// Source container description
	Media MediaInfo

	// What the engine delivered
	Playback PlaybackInfo

	// Playback configuration
	Settings Settings
}

// SessionInfo identifies one playback session.
type SessionInfo struct {
	ID        string
	Source    string
	StartedAt time.Time
	EndedAt   time.Time

	// Error is the user-facing failure message, empty on success.
	Error string
}

// Elapsed returns the wall-clock length of the session.
func (s SessionInfo) Elapsed() time.Duration {
	if s.StartedAt.IsZero() || s.EndedAt.Before(s.StartedAt) {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// MediaInfo describes the source container.
type MediaInfo struct {
	Format     string
	DurationMs int64
	FileSize   int64
	Streams    []StreamInfo
}

// StreamInfo is one line of the stream table.
type StreamInfo struct {
	Index  int
	Type   string
	Codec  string
	Detail string
}

// PlaybackInfo contains delivery counters.
type PlaybackInfo struct {
	Frames         int64
	DroppedFrames  int64
	QueueDropped   int
	LastPositionMs int64
	Seeks          int
	HasVideo       bool
	AudioEnabled   bool
	AudioBytes     int64
	Snapshots      int
}

// Settings contains the playback configuration.
type Settings struct {
	FrameIntervalMs  int
	Volume           float64
	LowLatency       bool
	AudioBufferBytes int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSession sets session identity and timing.
func (b *Builder) WithSession(id, source string, startedAt, endedAt time.Time) *Builder {
	b.summary.Session.ID = id
	b.summary.Session.Source = source
	b.summary.Session.StartedAt = startedAt
	b.summary.Session.EndedAt = endedAt
	return b
}

// WithError records the session failure message.
func (b *Builder) WithError(message string) *Builder {
	b.summary.Session.Error = message
	return b
}

// WithMedia sets the source description.
func (b *Builder) WithMedia(media MediaInfo) *Builder {
	b.summary.Media = media
	return b
}

// WithPlayback sets delivery counters.
func (b *Builder) WithPlayback(playback PlaybackInfo) *Builder {
	b.summary.Playback = playback
	return b
}

// WithSettings sets playback settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
