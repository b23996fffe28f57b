// Package player implements the playback engine: it demuxes and decodes a
// container on a dedicated goroutine, converts video to RGB24 and audio to
// stereo 16-bit PCM, and paces frame delivery while accepting transport
// commands from any goroutine.
package player

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/avplay/pkg/ports"
)

// DefaultAudioBufferSize is the PCM capacity requested from the audio sink.
const DefaultAudioBufferSize = 32 * 1024 * 1024

// DefaultVolume matches the initial position of a 0-100 volume slider at 80.
const DefaultVolume = 0.8

// Options configures a Player.
type Options struct {
	// Pacer paces video frames. Defaults to a FixedPacer of FrameInterval.
	Pacer Pacer

	// FrameInterval is used when Pacer is nil.
	FrameInterval time.Duration

	// AudioBufferSize is the sink buffer size in bytes.
	AudioBufferSize int

	// LowLatency asks the sink for low-latency output.
	LowLatency bool

	// Volume is the initial volume in [0, 1].
	Volume float64
}

// DefaultOptions returns the options used by the CLI when no config is given.
func DefaultOptions() Options {
	return Options{
		FrameInterval:   DefaultFrameInterval,
		AudioBufferSize: DefaultAudioBufferSize,
		LowLatency:      true,
		Volume:          DefaultVolume,
	}
}

// Stats describes the most recent session.
type Stats struct {
	SessionID      string
	Source         string
	DurationMs     int64
	Frames         int64
	DroppedFrames  int64
	AudioBytes     int64
	LastPositionMs int64
	Seeks          int
	HasVideo       bool
	AudioEnabled   bool
	Error          string
	StartedAt      time.Time
	EndedAt        time.Time
}

// Player plays one source at a time. All methods are safe for concurrent
// use; the transport methods never block on the engine.
type Player struct {
	backend ports.MediaBackend
	output  ports.AudioOutput
	events  ports.PlayerEvents
	logger  ports.Logger
	opts    Options
	pacer   Pacer

	transport *transport

	mu     sync.Mutex
	source string
	done   chan struct{}
	stats  Stats
}

var _ ports.Transport = (*Player)(nil)

// New creates a player. output may be nil, in which case every session is
// video-only.
func New(backend ports.MediaBackend, output ports.AudioOutput, events ports.PlayerEvents, logger ports.Logger, opts Options) *Player {
	pacer := opts.Pacer
	if pacer == nil {
		pacer = NewFixedPacer(opts.FrameInterval)
	}
	if opts.AudioBufferSize <= 0 {
		opts.AudioBufferSize = DefaultAudioBufferSize
	}
	return &Player{
		backend:   backend,
		output:    output,
		events:    events,
		logger:    logger.WithComponent("player"),
		opts:      opts,
		pacer:     pacer,
		transport: newTransport(opts.Volume),
	}
}

// SetSource sets the path played by the next Start.
func (p *Player) SetSource(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.transport.isRunning() {
		return ErrSessionActive
	}
	p.source = path
	return nil
}

// Source returns the configured path.
func (p *Player) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// Start begins playback on a new goroutine and returns immediately. It is
// a no-op while a session is running. A session that is still tearing
// down is joined first. Cancelling ctx stops the session.
func (p *Player) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.transport.isRunning() {
		p.mu.Unlock()
		return nil
	}
	if p.source == "" {
		p.mu.Unlock()
		return ErrNoSource
	}
	prev := p.done
	p.mu.Unlock()

	if prev != nil {
		<-prev
	}

	p.mu.Lock()
	if p.transport.isRunning() {
		p.mu.Unlock()
		return nil
	}
	id := uuid.New().String()
	source := p.source
	done := make(chan struct{})
	stop := p.transport.begin()
	p.done = done
	p.stats = Stats{
		SessionID: id,
		Source:    source,
		StartedAt: time.Now(),
	}
	p.mu.Unlock()

	s := &session{
		id:        id,
		source:    source,
		player:    p,
		logger:    p.logger,
		transport: p.transport,
		stop:      stop,
	}
	go s.run(done)

	if ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				p.transport.stopSession(stop)
			case <-done:
			}
		}()
	}
	return nil
}

// Stop requests termination of the running session. It never blocks and
// may be called repeatedly.
func (p *Player) Stop() {
	p.transport.Stop()
}

// Pause suspends frame delivery until Resume or Stop.
func (p *Player) Pause() {
	p.transport.Pause()
}

// Resume continues after Pause.
func (p *Player) Resume() {
	p.transport.Resume()
}

// Seek requests a jump to ms milliseconds. The engine performs it before
// the next packet is processed.
func (p *Player) Seek(ms int64) {
	p.transport.Seek(ms)
}

// SetVolume sets the output volume, clamped to [0, 1].
func (p *Player) SetVolume(v float64) {
	p.transport.SetVolume(v)
}

// Volume returns the effective volume.
func (p *Player) Volume() float64 {
	return p.transport.Volume()
}

// Running reports whether a session is active.
func (p *Player) Running() bool {
	return p.transport.isRunning()
}

// Paused reports whether the transport is paused.
func (p *Player) Paused() bool {
	return p.transport.isPaused()
}

// Done returns a channel closed when the current session has released all
// of its resources. It returns a closed channel when no session was started.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done == nil {
		c := make(chan struct{})
		close(c)
		return c
	}
	return p.done
}

// Wait blocks until the current session has been torn down.
func (p *Player) Wait() {
	<-p.Done()
}

// Stats returns a snapshot of the current or last session.
func (p *Player) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *Player) updateStats(fn func(*Stats)) {
	p.mu.Lock()
	fn(&p.stats)
	p.mu.Unlock()
}
