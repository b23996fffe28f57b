package otosink

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/user/avplay/pkg/adapters/logger"
	"github.com/user/avplay/pkg/pcm"
	"github.com/user/avplay/pkg/ports"
)

func TestDeviceBufferSize(t *testing.T) {
	format := ports.AudioFormat{SampleRate: 48000, Channels: 2, BytesPerSample: 2}
	if got := deviceBufferSize(format, 50); got != 2400*4 {
		t.Errorf("deviceBufferSize = %d, want %d", got, 2400*4)
	}
}

func TestDeviceReader_NeverBlocks(t *testing.T) {
	buf := pcm.NewBuffer(16)
	r := &deviceReader{buf: buf}

	p := make([]byte, 8)
	n, err := r.Read(p)
	if n != 8 || err != nil {
		t.Fatalf("Read on empty buffer = %d, %v; want silence", n, err)
	}
	if !bytes.Equal(p, make([]byte, 8)) {
		t.Errorf("expected silence, got %v", p)
	}
}

type fakePlayer struct {
	volume  float64
	playing bool
	closed  int
}

func (p *fakePlayer) Pause()                  { p.playing = false }
func (p *fakePlayer) Play()                   { p.playing = true }
func (p *fakePlayer) IsPlaying() bool         { return p.playing }
func (p *fakePlayer) Reset()                  {}
func (p *fakePlayer) Volume() float64         { return p.volume }
func (p *fakePlayer) SetVolume(v float64)     { p.volume = v }
func (p *fakePlayer) UnplayedBufferSize() int { return 0 }
func (p *fakePlayer) Err() error              { return nil }
func (p *fakePlayer) Close() error            { p.closed++; return nil }

func TestSink_WriteKeepsFramesWhole(t *testing.T) {
	buf := pcm.NewBuffer(10)
	s := &sink{player: &fakePlayer{}, buf: buf, frameSize: 4, logger: logger.NewNoop()}

	n, err := s.Write(make([]byte, 16))
	if n != 8 {
		t.Errorf("Write n = %d, want 8 (two whole frames)", n)
	}
	if !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("Write err = %v, want io.ErrShortWrite", err)
	}
}

func TestSink_DiscardDropsUnplayedPCM(t *testing.T) {
	buf := pcm.NewBuffer(16)
	s := &sink{player: &fakePlayer{}, buf: buf, frameSize: 4, logger: logger.NewNoop()}

	if _, err := s.Write(make([]byte, 12)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	s.Discard()
	if buf.Len() != 0 {
		t.Errorf("buffered after Discard = %d, want 0", buf.Len())
	}
	if buf.Available() != 16 {
		t.Errorf("Available after Discard = %d, want 16", buf.Available())
	}

	s.Close()
	s.Discard()
}

func TestSink_Lifecycle(t *testing.T) {
	player := &fakePlayer{}
	s := &sink{player: player, buf: pcm.NewBuffer(8), frameSize: 4, logger: logger.NewNoop()}

	s.Play()
	s.SetVolume(0.3)
	if !player.playing || player.volume != 0.3 {
		t.Errorf("player state = %+v", player)
	}

	s.Close()
	s.Close()
	if player.closed != 1 {
		t.Errorf("player closed %d times, want 1", player.closed)
	}

	s.SetVolume(0.9)
	if player.volume != 0.3 {
		t.Error("SetVolume reached a closed player")
	}
	if _, err := s.Write([]byte{1, 2, 3, 4}); err == nil {
		t.Error("Write after Close should fail")
	}
}

// TestOutput_Device needs an audio device.
func TestOutput_Device(t *testing.T) {
	if os.Getenv("AVPLAY_AUDIO") != "1" {
		t.Skip("Skipping audio device test (set AVPLAY_AUDIO=1 to run)")
	}

	out := New(logger.NewNoop())
	format := ports.AudioFormat{SampleRate: 44100, Channels: 2, BytesPerSample: 2}
	s, err := out.Open(format, ports.AudioSinkOptions{BufferSize: 1 << 16, LowLatency: true, Volume: 0.1})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	s.Play()
	if _, err := s.Write(make([]byte, 4096)); err != nil {
		t.Errorf("Write failed: %v", err)
	}

	other := ports.AudioFormat{SampleRate: 48000, Channels: 2, BytesPerSample: 2}
	if _, err := out.Open(other, ports.AudioSinkOptions{BufferSize: 1024}); !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("Open with another format err = %v, want ErrFormatMismatch", err)
	}
}
