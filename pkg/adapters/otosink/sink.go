// Package otosink plays PCM through the system audio device using oto.
package otosink

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hajimehoshi/oto/v2"
	"github.com/user/avplay/pkg/pcm"
	"github.com/user/avplay/pkg/ports"
)

// ErrFormatMismatch is returned when a sink is requested in a format other
// than the one the process-wide audio context was created with.
var ErrFormatMismatch = errors.New("otosink: audio context already open with a different format")

// lowLatencyMs is the device buffer requested in low-latency mode.
const lowLatencyMs = 50

// oto allows a single context per process.
var (
	contextMu     sync.Mutex
	sharedContext *oto.Context
	sharedFormat  ports.AudioFormat
)

// Output opens sinks on the shared oto context.
type Output struct {
	logger ports.Logger
}

// New creates an audio output.
func New(logger ports.Logger) *Output {
	return &Output{logger: logger.WithComponent("otosink")}
}

func audioContext(format ports.AudioFormat) (*oto.Context, error) {
	contextMu.Lock()
	defer contextMu.Unlock()

	if sharedContext != nil {
		if format != sharedFormat {
			return nil, fmt.Errorf("%w: have %d Hz/%d ch/%d bytes, want %d Hz/%d ch/%d bytes",
				ErrFormatMismatch,
				sharedFormat.SampleRate, sharedFormat.Channels, sharedFormat.BytesPerSample,
				format.SampleRate, format.Channels, format.BytesPerSample)
		}
		return sharedContext, nil
	}

	ctx, ready, err := oto.NewContext(format.SampleRate, format.Channels, format.BytesPerSample)
	if err != nil {
		return nil, fmt.Errorf("otosink: create context: %w", err)
	}
	<-ready

	sharedContext = ctx
	sharedFormat = format
	return ctx, nil
}

// Open creates a sink. Writes go to a bounded buffer of opts.BufferSize
// bytes that the device drains; when the buffer is empty the device plays
// silence.
func (o *Output) Open(format ports.AudioFormat, opts ports.AudioSinkOptions) (ports.AudioSink, error) {
	if format.SampleRate <= 0 || format.Channels <= 0 || format.BytesPerSample <= 0 {
		return nil, fmt.Errorf("otosink: invalid format %+v", format)
	}

	ctx, err := audioContext(format)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("Opening audio output: %d Hz, %d channels, %d bytes buffer",
		format.SampleRate, format.Channels, opts.BufferSize)

	buf := pcm.NewBuffer(opts.BufferSize)
	player := ctx.NewPlayer(&deviceReader{buf: buf})
	if opts.LowLatency {
		if s, ok := player.(interface{ SetBufferSize(int) }); ok {
			s.SetBufferSize(deviceBufferSize(format, lowLatencyMs))
		}
	}
	player.SetVolume(opts.Volume)

	return &sink{
		player:    player,
		buf:       buf,
		frameSize: format.Channels * format.BytesPerSample,
		logger:    o.logger,
	}, nil
}

// deviceBufferSize returns the byte size of ms milliseconds of audio,
// rounded down to whole sample frames.
func deviceBufferSize(format ports.AudioFormat, ms int) int {
	frames := format.SampleRate * ms / 1000
	return pcm.BufferSize(frames, format.Channels, format.BytesPerSample)
}

var _ ports.AudioOutput = (*Output)(nil)

// deviceReader feeds the oto player without ever blocking its mixer.
type deviceReader struct {
	buf *pcm.Buffer
}

func (r *deviceReader) Read(p []byte) (int, error) {
	return r.buf.ReadOrSilence(p)
}

type sink struct {
	mu        sync.Mutex
	player    oto.Player
	buf       *pcm.Buffer
	frameSize int
	closed    bool
	logger    ports.Logger
}

// Write never blocks. When the buffer is nearly full only whole sample
// frames are accepted and the rest is dropped with io.ErrShortWrite.
func (s *sink) Write(p []byte) (int, error) {
	n := len(p)
	if free := s.buf.Available(); n > free {
		n = free - free%s.frameSize
	}
	written, err := s.buf.Write(p[:n])
	if err != nil {
		return written, err
	}
	if written < len(p) {
		return written, io.ErrShortWrite
	}
	return written, nil
}

func (s *sink) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.player.SetVolume(v)
	}
}

func (s *sink) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.player.Play()
	}
}

// Discard empties the ring. The few milliseconds already handed to the
// device still play.
func (s *sink) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.buf.Reset()
	}
}

func (s *sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.buf.Close()
	err := s.player.Close()
	s.logger.Debug("Audio output closed")
	return err
}

var _ ports.AudioSink = (*sink)(nil)
