package mocks

import (
	"sync"

	"github.com/user/avplay/pkg/ports"
)

// AudioOutput is a mock implementation of ports.AudioOutput.
type AudioOutput struct {
	OpenFunc func(format ports.AudioFormat, opts ports.AudioSinkOptions) (ports.AudioSink, error)
	OpenErr  error

	mu      sync.Mutex
	Formats []ports.AudioFormat
	Options []ports.AudioSinkOptions
	Sinks   []*AudioSink
}

func (m *AudioOutput) Open(format ports.AudioFormat, opts ports.AudioSinkOptions) (ports.AudioSink, error) {
	m.mu.Lock()
	m.Formats = append(m.Formats, format)
	m.Options = append(m.Options, opts)
	m.mu.Unlock()

	if m.OpenFunc != nil {
		return m.OpenFunc(format, opts)
	}
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}

	s := &AudioSink{Format: format, volume: opts.Volume}
	m.mu.Lock()
	m.Sinks = append(m.Sinks, s)
	m.mu.Unlock()
	return s, nil
}

// LastSink returns the most recently opened sink, or nil.
func (m *AudioOutput) LastSink() *AudioSink {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sinks) == 0 {
		return nil
	}
	return m.Sinks[len(m.Sinks)-1]
}

// OpenCount returns how many times Open was called.
func (m *AudioOutput) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Formats)
}

var _ ports.AudioOutput = (*AudioOutput)(nil)

// AudioSink is a mock implementation of ports.AudioSink.
type AudioSink struct {
	Format ports.AudioFormat

	mu       sync.Mutex
	volume   float64
	volumes  []float64
	written  int
	writes   int
	playing  bool
	closed   int
	discards int
}

func (s *AudioSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written += len(p)
	s.writes++
	return len(p), nil
}

func (s *AudioSink) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = v
	s.volumes = append(s.volumes, v)
}

func (s *AudioSink) Play() {
	s.mu.Lock()
	s.playing = true
	s.mu.Unlock()
}

func (s *AudioSink) Close() error {
	s.mu.Lock()
	s.closed++
	s.playing = false
	s.mu.Unlock()
	return nil
}

func (s *AudioSink) Discard() {
	s.mu.Lock()
	s.discards++
	s.mu.Unlock()
}

// Discards returns how often Discard was called.
func (s *AudioSink) Discards() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discards
}

// Volume returns the last volume applied.
func (s *AudioSink) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Written returns the number of bytes written.
func (s *AudioSink) Written() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// Writes returns the number of Write calls.
func (s *AudioSink) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Playing reports whether Play was called and Close was not.
func (s *AudioSink) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Closes returns how often Close was called.
func (s *AudioSink) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

var _ ports.AudioSink = (*AudioSink)(nil)
