// Package avbackend implements the media ports on top of FFmpeg through
// go-astiav: demuxing, decoding, RGB24 scaling and PCM resampling.
package avbackend

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/asticode/go-astiav"
	"github.com/user/avplay/pkg/ports"
)

var logLevelOnce sync.Once

// Backend opens containers with libavformat.
type Backend struct {
	logger ports.Logger
}

// New creates a backend. FFmpeg's own logging is limited to errors.
func New(logger ports.Logger) *Backend {
	logLevelOnce.Do(func() {
		astiav.SetLogLevel(astiav.LogLevelError)
	})
	return &Backend{logger: logger.WithComponent("avbackend")}
}

// Open opens and probes the container at path.
func (b *Backend) Open(path string) (ports.Container, error) {
	fc, err := openInput(path)
	if err != nil {
		return nil, err
	}

	c := &container{
		fc:     fc,
		pkt:    astiav.AllocPacket(),
		format: formatName(fc),
		logger: b.logger,
	}
	for _, s := range fc.Streams() {
		c.raw = append(c.raw, s)
		c.streams = append(c.streams, streamInfo(s))
	}

	b.logger.Debug("Opened %s: %s, %d streams", path, c.format, len(c.streams))
	return c, nil
}

func openInput(path string) (*astiav.FormatContext, error) {
	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, fmt.Errorf("%w: %s: allocating format context failed", ports.ErrOpenInput, path)
	}
	if err := fc.OpenInput(path, nil, nil); err != nil {
		fc.Free()
		return nil, fmt.Errorf("%w: %s: %v", ports.ErrOpenInput, path, err)
	}
	if err := fc.FindStreamInfo(nil); err != nil {
		fc.CloseInput()
		fc.Free()
		return nil, fmt.Errorf("%w: %s: %v", ports.ErrStreamInfo, path, err)
	}
	return fc, nil
}

func formatName(fc *astiav.FormatContext) string {
	if f := fc.InputFormat(); f != nil {
		return f.Name()
	}
	return ""
}

func streamInfo(s *astiav.Stream) ports.StreamInfo {
	cp := s.CodecParameters()
	tb := s.TimeBase()
	info := ports.StreamInfo{
		Index:     s.Index(),
		CodecName: cp.CodecID().String(),
		TimeBase:  ports.Rational{Num: tb.Num(), Den: tb.Den()},
	}
	switch cp.MediaType() {
	case astiav.MediaTypeVideo:
		info.Type = ports.MediaTypeVideo
		info.Width = cp.Width()
		info.Height = cp.Height()
	case astiav.MediaTypeAudio:
		info.Type = ports.MediaTypeAudio
		info.SampleRate = cp.SampleRate()
		info.Channels = cp.ChannelLayout().Channels()
	case astiav.MediaTypeSubtitle:
		info.Type = ports.MediaTypeSubtitle
	case astiav.MediaTypeData:
		info.Type = ports.MediaTypeData
	}
	return info
}

// durationOf converts a container duration in AV_TIME_BASE units
// (microseconds) to a time.Duration. Unknown durations are zero.
func durationOf(fc *astiav.FormatContext) time.Duration {
	d := fc.Duration()
	if d == astiav.NoPtsValue || d < 0 {
		return 0
	}
	return time.Duration(d) * time.Microsecond
}

// container is a libavformat demuxer. It reuses a single packet.
type container struct {
	fc      *astiav.FormatContext
	pkt     *astiav.Packet
	raw     []*astiav.Stream
	streams []ports.StreamInfo
	format  string
	logger  ports.Logger
}

func (c *container) Streams() []ports.StreamInfo {
	return append([]ports.StreamInfo(nil), c.streams...)
}

func (c *container) Duration() time.Duration {
	return durationOf(c.fc)
}

func (c *container) ReadPacket() (ports.Packet, error) {
	if err := c.fc.ReadFrame(c.pkt); err != nil {
		if errors.Is(err, astiav.ErrEof) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("avbackend: read frame: %w", err)
	}
	return &packet{p: c.pkt}, nil
}

// Seek issues a backward-biased seek across all streams.
func (c *container) Seek(target time.Duration) error {
	ts := target.Microseconds()
	if ts < 0 {
		ts = 0
	}
	if err := c.fc.SeekFrame(-1, ts, astiav.NewSeekFlags(astiav.SeekFlagBackward)); err != nil {
		return fmt.Errorf("avbackend: seek to %v: %w", target, err)
	}
	return nil
}

func (c *container) stream(info ports.StreamInfo) (*astiav.Stream, error) {
	for _, s := range c.raw {
		if s.Index() == info.Index {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: stream %d not in container", ports.ErrCodecNotFound, info.Index)
}

func (c *container) OpenVideoDecoder(info ports.StreamInfo) (ports.VideoDecoder, error) {
	s, err := c.stream(info)
	if err != nil {
		return nil, err
	}
	d, err := openDecoder(s, info)
	if err != nil {
		return nil, err
	}
	return &videoDecoder{decoder: d, logger: c.logger}, nil
}

func (c *container) OpenAudioDecoder(info ports.StreamInfo) (ports.AudioDecoder, error) {
	s, err := c.stream(info)
	if err != nil {
		return nil, err
	}
	d, err := openDecoder(s, info)
	if err != nil {
		return nil, err
	}
	return &audioDecoder{decoder: d}, nil
}

func (c *container) Close() error {
	if c.pkt != nil {
		c.pkt.Free()
		c.pkt = nil
	}
	if c.fc != nil {
		c.fc.CloseInput()
		c.fc.Free()
		c.fc = nil
	}
	return nil
}

var _ ports.MediaBackend = (*Backend)(nil)
var _ ports.Container = (*container)(nil)

type packet struct {
	p *astiav.Packet
}

func (p *packet) StreamIndex() int { return p.p.StreamIndex() }

func (p *packet) Release() { p.p.Unref() }
