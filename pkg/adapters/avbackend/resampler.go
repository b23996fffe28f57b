package avbackend

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/user/avplay/pkg/pcm"
	"github.com/user/avplay/pkg/ports"
)

// resampler converts decoded audio to interleaved signed 16-bit PCM. The
// underlying context configures itself from the first frame.
type resampler struct {
	swr *astiav.SoftwareResampleContext
	out ports.AudioFormat
}

func newResampler(out ports.AudioFormat) (*resampler, error) {
	if out.SampleRate <= 0 {
		return nil, fmt.Errorf("avbackend: invalid output sample rate %d", out.SampleRate)
	}
	if out.BytesPerSample != 2 {
		return nil, fmt.Errorf("avbackend: unsupported sample size %d", out.BytesPerSample)
	}
	swr := astiav.AllocSoftwareResampleContext()
	if swr == nil {
		return nil, errors.New("avbackend: allocating resample context failed")
	}
	return &resampler{swr: swr, out: out}, nil
}

func (r *resampler) layout() astiav.ChannelLayout {
	if r.out.Channels == 1 {
		return astiav.ChannelLayoutMono
	}
	return astiav.ChannelLayoutStereo
}

// Resample converts f through a scratch frame sized for the samples still
// buffered in the context plus the new frame. The scratch frame is freed
// before returning; the result is a copy.
func (r *resampler) Resample(f ports.Frame) ([]byte, error) {
	src, ok := f.(*frame)
	if !ok {
		return nil, errors.New("avbackend: frame from another backend")
	}

	inRate := src.f.SampleRate()
	if inRate <= 0 {
		inRate = r.out.SampleRate
	}
	frameSamples := int64(src.f.NbSamples()) * int64(r.out.SampleRate) / int64(inRate)
	expected := pcm.ExpectedSamples(r.swr.Delay(int64(r.out.SampleRate)), frameSamples)
	if expected <= 0 {
		return nil, nil
	}

	dst := astiav.AllocFrame()
	defer dst.Free()

	dst.SetChannelLayout(r.layout())
	dst.SetSampleFormat(astiav.SampleFormatS16)
	dst.SetSampleRate(r.out.SampleRate)
	dst.SetNbSamples(expected)
	if err := dst.AllocBuffer(0); err != nil {
		return nil, fmt.Errorf("avbackend: allocate pcm frame: %w", err)
	}

	if err := r.swr.ConvertFrame(src.f, dst); err != nil {
		return nil, fmt.Errorf("avbackend: convert audio frame: %w", err)
	}

	produced := dst.NbSamples()
	if produced <= 0 {
		return nil, nil
	}

	data, err := dst.Data().Bytes(1)
	if err != nil {
		return nil, fmt.Errorf("avbackend: read pcm: %w", err)
	}
	size := pcm.BufferSize(produced, r.out.Channels, r.out.BytesPerSample)
	if size > len(data) {
		size = len(data)
	}
	out := make([]byte, size)
	copy(out, data[:size])
	return out, nil
}

func (r *resampler) Close() {
	if r.swr != nil {
		r.swr.Free()
		r.swr = nil
	}
}

var _ ports.AudioResampler = (*resampler)(nil)
