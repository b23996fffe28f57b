package avbackend

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/user/avplay/pkg/ports"
	"github.com/user/avplay/pkg/rgb"
)

// scaler converts decoded frames to packed RGB24 at the source size. The
// software scale context and target frame are rebuilt whenever the source
// geometry or pixel format changes.
type scaler struct {
	ssc *astiav.SoftwareScaleContext
	dst *astiav.Frame
	buf []byte

	srcW, srcH int
	srcPix     astiav.PixelFormat

	logger ports.Logger
}

func (s *scaler) ensure(w, h int, pix astiav.PixelFormat) error {
	if s.ssc != nil && w == s.srcW && h == s.srcH && pix == s.srcPix {
		return nil
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("avbackend: invalid frame size %dx%d", w, h)
	}

	s.Close()

	ssc, err := astiav.CreateSoftwareScaleContext(
		w, h, pix,
		w, h, astiav.PixelFormatRgb24,
		astiav.NewSoftwareScaleContextFlags(astiav.SoftwareScaleContextFlagBilinear),
	)
	if err != nil {
		return fmt.Errorf("avbackend: create scale context %dx%d %s: %w", w, h, pix, err)
	}

	dst := astiav.AllocFrame()
	dst.SetWidth(w)
	dst.SetHeight(h)
	dst.SetPixelFormat(astiav.PixelFormatRgb24)
	if err := dst.AllocBuffer(1); err != nil {
		dst.Free()
		ssc.Free()
		return fmt.Errorf("avbackend: allocate rgb frame: %w", err)
	}

	s.ssc = ssc
	s.dst = dst
	s.srcW, s.srcH, s.srcPix = w, h, pix
	s.buf = s.buf[:0]

	if s.logger != nil {
		s.logger.Debug("Scaler rebuilt for %dx%d %s", w, h, pix.String())
	}
	return nil
}

// Scale converts f into the persistent target and returns a view of it.
func (s *scaler) Scale(f ports.Frame) (*rgb.Image, error) {
	src, ok := f.(*frame)
	if !ok {
		return nil, errors.New("avbackend: frame from another backend")
	}
	if err := s.ensure(src.f.Width(), src.f.Height(), src.f.PixelFormat()); err != nil {
		return nil, err
	}
	if err := s.ssc.ScaleFrame(src.f, s.dst); err != nil {
		return nil, fmt.Errorf("avbackend: scale frame: %w", err)
	}

	n, err := s.dst.ImageBufferSize(1)
	if err != nil {
		return nil, fmt.Errorf("avbackend: image buffer size: %w", err)
	}
	if cap(s.buf) < n {
		s.buf = make([]byte, n)
	}
	s.buf = s.buf[:n]
	if _, err := s.dst.ImageCopyToBuffer(s.buf, 1); err != nil {
		return nil, fmt.Errorf("avbackend: copy rgb frame: %w", err)
	}

	return rgb.Wrap(s.buf, s.srcW*rgb.BytesPerPixel, s.srcW, s.srcH), nil
}

func (s *scaler) Close() {
	if s.dst != nil {
		s.dst.Free()
		s.dst = nil
	}
	if s.ssc != nil {
		s.ssc.Free()
		s.ssc = nil
	}
}

var _ ports.VideoScaler = (*scaler)(nil)
