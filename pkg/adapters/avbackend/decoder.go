package avbackend

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/user/avplay/pkg/ports"
)

// frame exposes a decoder's reusable frame.
type frame struct {
	f *astiav.Frame
}

func (f *frame) PTS() (int64, bool) {
	pts := f.f.Pts()
	if pts == astiav.NoPtsValue {
		return 0, false
	}
	return pts, true
}

// decoder owns one codec context and one reusable frame.
type decoder struct {
	cc     *astiav.CodecContext
	codec  *astiav.Codec
	params *astiav.CodecParameters
	frame  *astiav.Frame
	view   *frame
	stream ports.StreamInfo
}

func openDecoder(s *astiav.Stream, info ports.StreamInfo) (*decoder, error) {
	cp := s.CodecParameters()

	codec := astiav.FindDecoder(cp.CodecID())
	if codec == nil {
		return nil, fmt.Errorf("%w: %s", ports.ErrCodecNotFound, cp.CodecID())
	}

	cc, err := newCodecContext(codec, cp)
	if err != nil {
		return nil, err
	}

	f := astiav.AllocFrame()
	return &decoder{
		cc:     cc,
		codec:  codec,
		params: cp,
		frame:  f,
		view:   &frame{f: f},
		stream: info,
	}, nil
}

func newCodecContext(codec *astiav.Codec, cp *astiav.CodecParameters) (*astiav.CodecContext, error) {
	cc := astiav.AllocCodecContext(codec)
	if cc == nil {
		return nil, fmt.Errorf("%w: allocating codec context for %s failed", ports.ErrCodecOpen, codec.Name())
	}
	if err := cp.ToCodecContext(cc); err != nil {
		cc.Free()
		return nil, fmt.Errorf("%w: %s: %v", ports.ErrCodecOpen, codec.Name(), err)
	}
	if err := cc.Open(codec, nil); err != nil {
		cc.Free()
		return nil, fmt.Errorf("%w: %s: %v", ports.ErrCodecOpen, codec.Name(), err)
	}
	return cc, nil
}

func (d *decoder) Stream() ports.StreamInfo { return d.stream }

func (d *decoder) Send(pkt ports.Packet) error {
	p, ok := pkt.(*packet)
	if !ok {
		return errors.New("avbackend: packet from another backend")
	}
	if err := d.cc.SendPacket(p.p); err != nil && !errors.Is(err, astiav.ErrEagain) {
		return fmt.Errorf("avbackend: send packet: %w", err)
	}
	return nil
}

func (d *decoder) Receive() (ports.Frame, error) {
	d.frame.Unref()
	if err := d.cc.ReceiveFrame(d.frame); err != nil {
		if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
			return nil, ports.ErrNoFrame
		}
		return nil, fmt.Errorf("avbackend: receive frame: %w", err)
	}
	return d.view, nil
}

// Flush drops every frame buffered before a seek. The codec context is
// reopened from the stream parameters, which resets the decoder the same
// way avcodec_flush_buffers does.
func (d *decoder) Flush() {
	d.frame.Unref()
	cc, err := newCodecContext(d.codec, d.params)
	if err != nil {
		// The old context stays usable.
		return
	}
	d.cc.Free()
	d.cc = cc
}

func (d *decoder) Close() error {
	if d.frame != nil {
		d.frame.Free()
		d.frame = nil
	}
	if d.cc != nil {
		d.cc.Free()
		d.cc = nil
	}
	return nil
}

type videoDecoder struct {
	*decoder
	logger ports.Logger
}

// NewScaler creates a bilinear RGB24 converter at the decoder's size.
func (d *videoDecoder) NewScaler() (ports.VideoScaler, error) {
	s := &scaler{logger: d.logger}
	if err := s.ensure(d.cc.Width(), d.cc.Height(), d.cc.PixelFormat()); err != nil {
		return nil, err
	}
	return s, nil
}

type audioDecoder struct {
	*decoder
}

func (d *audioDecoder) SampleRate() int {
	return d.cc.SampleRate()
}

func (d *audioDecoder) NewResampler(out ports.AudioFormat) (ports.AudioResampler, error) {
	return newResampler(out)
}

var _ ports.VideoDecoder = (*videoDecoder)(nil)
var _ ports.AudioDecoder = (*audioDecoder)(nil)
