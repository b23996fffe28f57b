package mocks

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/user/avplay/pkg/ports"
	"github.com/user/avplay/pkg/rgb"
)

// Packet describes one packet of a fake container.
type Packet struct {
	Stream   int
	PTS      int64
	NoPTS    bool
	Keyframe bool
}

// Backend is a mock implementation of ports.MediaBackend.
type Backend struct {
	OpenFunc func(path string) (ports.Container, error)

	// Container is returned by Open when OpenFunc is nil.
	Container *Container

	// OpenErr is returned by Open when set.
	OpenErr error

	mu     sync.Mutex
	Opened []string
}

func (m *Backend) Open(path string) (ports.Container, error) {
	m.mu.Lock()
	m.Opened = append(m.Opened, path)
	m.mu.Unlock()

	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	if m.Container == nil {
		return nil, fmt.Errorf("%w: %s", ports.ErrOpenInput, path)
	}
	return m.Container, nil
}

// OpenedPaths returns the paths passed to Open.
func (m *Backend) OpenedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Opened...)
}

var _ ports.MediaBackend = (*Backend)(nil)

// Container is a mock implementation of ports.Container that replays a
// fixed list of packets.
type Container struct {
	StreamList    []ports.StreamInfo
	DurationValue time.Duration
	Packets       []Packet

	// ReadErr replaces io.EOF at the end of Packets.
	ReadErr error

	// OnRead is called with the index of each packet before it is returned.
	OnRead func(index int)

	SeekFunc func(target time.Duration) error

	VideoDecoderErr error
	AudioDecoderErr error
	ScalerErr       error
	ResamplerErr    error

	// ScaleErrAt makes Scale fail for frames with these timestamps.
	ScaleErrAt map[int64]bool

	// SampleBytes is the PCM size produced per audio frame. Defaults to 4096.
	SampleBytes int

	// FrameWidth and FrameHeight set the scaled image size. Default 4x2.
	FrameWidth  int
	FrameHeight int

	mu         sync.Mutex
	pos        int
	closeCount int
	released   int
	seeks      []time.Duration
	video      *VideoDecoder
	audio      *AudioDecoder
}

// NewContainer creates a fake container.
func NewContainer(duration time.Duration, streams []ports.StreamInfo, packets []Packet) *Container {
	return &Container{
		StreamList:    streams,
		DurationValue: duration,
		Packets:       packets,
	}
}

func (m *Container) Streams() []ports.StreamInfo {
	return append([]ports.StreamInfo(nil), m.StreamList...)
}

func (m *Container) Duration() time.Duration {
	return m.DurationValue
}

func (m *Container) ReadPacket() (ports.Packet, error) {
	m.mu.Lock()
	if m.pos >= len(m.Packets) {
		m.mu.Unlock()
		if m.ReadErr != nil {
			return nil, m.ReadErr
		}
		return nil, io.EOF
	}
	idx := m.pos
	p := m.Packets[idx]
	m.pos++
	m.mu.Unlock()

	if m.OnRead != nil {
		m.OnRead(idx)
	}
	return &packet{Packet: p, owner: m}, nil
}

// Seek positions the container on the last keyframe at or before target.
// Targets beyond the duration fail.
func (m *Container) Seek(target time.Duration) error {
	m.mu.Lock()
	m.seeks = append(m.seeks, target)
	m.mu.Unlock()

	if m.SeekFunc != nil {
		return m.SeekFunc(target)
	}
	if target > m.DurationValue {
		return errors.New("mock: seek beyond end")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	best := 0
	for i, p := range m.Packets {
		if !p.Keyframe || p.NoPTS {
			continue
		}
		if m.packetTime(p) <= target {
			best = i
		}
	}
	m.pos = best
	return nil
}

func (m *Container) packetTime(p Packet) time.Duration {
	for _, s := range m.StreamList {
		if s.Index == p.Stream {
			sec := float64(p.PTS) * s.TimeBase.Float64()
			return time.Duration(sec * float64(time.Second))
		}
	}
	return 0
}

func (m *Container) stream(index int) ports.StreamInfo {
	for _, s := range m.StreamList {
		if s.Index == index {
			return s
		}
	}
	return ports.StreamInfo{Index: index}
}

func (m *Container) OpenVideoDecoder(stream ports.StreamInfo) (ports.VideoDecoder, error) {
	if m.VideoDecoderErr != nil {
		return nil, m.VideoDecoderErr
	}
	w, h := m.FrameWidth, m.FrameHeight
	if w <= 0 || h <= 0 {
		w, h = 4, 2
	}
	d := &VideoDecoder{
		decoder:   decoder{stream: stream},
		scalerErr: m.ScalerErr,
		failAt:    m.ScaleErrAt,
		width:     w,
		height:    h,
	}
	m.mu.Lock()
	m.video = d
	m.mu.Unlock()
	return d, nil
}

func (m *Container) OpenAudioDecoder(stream ports.StreamInfo) (ports.AudioDecoder, error) {
	if m.AudioDecoderErr != nil {
		return nil, m.AudioDecoderErr
	}
	size := m.SampleBytes
	if size == 0 {
		size = 4096
	}
	d := &AudioDecoder{
		decoder:      decoder{stream: stream},
		resamplerErr: m.ResamplerErr,
		sampleBytes:  size,
	}
	m.mu.Lock()
	m.audio = d
	m.mu.Unlock()
	return d, nil
}

func (m *Container) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCount++
	return nil
}

// CloseCount returns how often Close was called.
func (m *Container) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCount
}

// Released returns the number of released packets.
func (m *Container) Released() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// Seeks returns every target passed to Seek.
func (m *Container) Seeks() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seeks...)
}

// Video returns the opened video decoder, if any.
func (m *Container) Video() *VideoDecoder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.video
}

// Audio returns the opened audio decoder, if any.
func (m *Container) Audio() *AudioDecoder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.audio
}

var _ ports.Container = (*Container)(nil)

type packet struct {
	Packet
	owner *Container
}

func (p *packet) StreamIndex() int { return p.Stream }

func (p *packet) Release() {
	p.owner.mu.Lock()
	p.owner.released++
	p.owner.mu.Unlock()
}

// Frame is a decoded fake frame.
type Frame struct {
	Pts   int64
	NoPTS bool
}

func (f *Frame) PTS() (int64, bool) {
	return f.Pts, !f.NoPTS
}

// decoder yields one frame per packet sent.
type decoder struct {
	mu      sync.Mutex
	stream  ports.StreamInfo
	pending []*Frame
	sent    int
	flushes int
	closes  int
}

func (d *decoder) Stream() ports.StreamInfo { return d.stream }

func (d *decoder) Send(pkt ports.Packet) error {
	p, ok := pkt.(*packet)
	if !ok {
		return errors.New("mock: foreign packet")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent++
	d.pending = append(d.pending, &Frame{Pts: p.PTS, NoPTS: p.NoPTS})
	return nil
}

func (d *decoder) Receive() (ports.Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) == 0 {
		return nil, ports.ErrNoFrame
	}
	f := d.pending[0]
	d.pending = d.pending[1:]
	return f, nil
}

func (d *decoder) Flush() {
	d.mu.Lock()
	d.pending = nil
	d.flushes++
	d.mu.Unlock()
}

func (d *decoder) Close() error {
	d.mu.Lock()
	d.closes++
	d.mu.Unlock()
	return nil
}

// Sent returns the number of packets sent to the decoder.
func (d *decoder) Sent() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sent
}

// Flushes returns how often the decoder was flushed.
func (d *decoder) Flushes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flushes
}

// Closes returns how often the decoder was closed.
func (d *decoder) Closes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

// VideoDecoder is a mock implementation of ports.VideoDecoder.
type VideoDecoder struct {
	decoder
	scalerErr error
	failAt    map[int64]bool
	width     int
	height    int

	Scaler *Scaler
}

func (d *VideoDecoder) NewScaler() (ports.VideoScaler, error) {
	if d.scalerErr != nil {
		return nil, d.scalerErr
	}
	s := &Scaler{
		target: rgb.New(image.Rect(0, 0, d.width, d.height)),
		failAt: d.failAt,
	}
	d.mu.Lock()
	d.Scaler = s
	d.mu.Unlock()
	return s, nil
}

var _ ports.VideoDecoder = (*VideoDecoder)(nil)

// Scaler writes the low byte of each frame's timestamp into every pixel of
// a persistent target, so tests can tell frames apart.
type Scaler struct {
	mu     sync.Mutex
	target *rgb.Image
	failAt map[int64]bool
	closes int
}

func (s *Scaler) Scale(frame ports.Frame) (*rgb.Image, error) {
	pts, _ := frame.PTS()
	if s.failAt[pts] {
		return nil, errors.New("mock: scale failed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.target.Pix {
		s.target.Pix[i] = byte(pts)
	}
	return s.target, nil
}

func (s *Scaler) Close() {
	s.mu.Lock()
	s.closes++
	s.mu.Unlock()
}

// Closes returns how often Close was called.
func (s *Scaler) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

var _ ports.VideoScaler = (*Scaler)(nil)

// AudioDecoder is a mock implementation of ports.AudioDecoder.
type AudioDecoder struct {
	decoder
	resamplerErr error
	sampleBytes  int

	Resampler *Resampler
}

func (d *AudioDecoder) SampleRate() int {
	if d.stream.SampleRate > 0 {
		return d.stream.SampleRate
	}
	return 48000
}

func (d *AudioDecoder) NewResampler(out ports.AudioFormat) (ports.AudioResampler, error) {
	if d.resamplerErr != nil {
		return nil, d.resamplerErr
	}
	r := &Resampler{Format: out, size: d.sampleBytes}
	d.mu.Lock()
	d.Resampler = r
	d.mu.Unlock()
	return r, nil
}

var _ ports.AudioDecoder = (*AudioDecoder)(nil)

// Resampler returns a fixed number of zero bytes per frame. A negative size
// produces no samples.
type Resampler struct {
	Format ports.AudioFormat
	size   int

	mu     sync.Mutex
	closes int
}

func (r *Resampler) Resample(frame ports.Frame) ([]byte, error) {
	if r.size < 0 {
		return nil, nil
	}
	return make([]byte, r.size), nil
}

func (r *Resampler) Close() {
	r.mu.Lock()
	r.closes++
	r.mu.Unlock()
}

// Closes returns how often Close was called.
func (r *Resampler) Closes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closes
}

var _ ports.AudioResampler = (*Resampler)(nil)

// VideoStream returns a video StreamInfo with a millisecond time base.
func VideoStream(index int) ports.StreamInfo {
	return ports.StreamInfo{
		Index:     index,
		Type:      ports.MediaTypeVideo,
		CodecName: "h264",
		TimeBase:  ports.Rational{Num: 1, Den: 1000},
		Width:     4,
		Height:    2,
	}
}

// AudioStream returns a 48 kHz stereo audio StreamInfo.
func AudioStream(index int) ports.StreamInfo {
	return ports.StreamInfo{
		Index:      index,
		Type:       ports.MediaTypeAudio,
		CodecName:  "aac",
		TimeBase:   ports.Rational{Num: 1, Den: 48000},
		SampleRate: 48000,
		Channels:   2,
	}
}

// Interleaved builds packets for a clip of the given length: one video
// packet every frameMs with a keyframe every keyframeMs, each followed by
// an audio packet when audioStream >= 0. Timestamps use the time bases of
// VideoStream and AudioStream.
func Interleaved(videoStream, audioStream int, length, frame, keyframe time.Duration) []Packet {
	var out []Packet
	for t := time.Duration(0); t < length; t += frame {
		ms := t.Milliseconds()
		out = append(out, Packet{
			Stream:   videoStream,
			PTS:      ms,
			Keyframe: keyframe <= 0 || t%keyframe == 0,
		})
		if audioStream >= 0 {
			out = append(out, Packet{
				Stream: audioStream,
				PTS:    ms * 48,
			})
		}
	}
	return out
}

// Prober is a mock implementation of ports.Prober.
type Prober struct {
	mu sync.Mutex

	Info   ports.MediaInfo
	Err    error
	Probed []string
}

// Probe records path and returns the configured result.
func (m *Prober) Probe(path string) (ports.MediaInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Probed = append(m.Probed, path)
	if m.Err != nil {
		return ports.MediaInfo{}, m.Err
	}
	info := m.Info
	info.Path = path
	return info, nil
}

// Calls returns how many times Probe was called.
func (m *Prober) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Probed)
}
