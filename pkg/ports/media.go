// Package ports defines interfaces for external dependencies.
package ports

import (
	"errors"
	"time"

	"github.com/user/avplay/pkg/rgb"
)

var (
	// ErrOpenInput is returned when a container cannot be opened.
	ErrOpenInput = errors.New("ports: open input failed")

	// ErrStreamInfo is returned when stream information cannot be read.
	ErrStreamInfo = errors.New("ports: find stream info failed")

	// ErrCodecNotFound is returned when no decoder exists for a stream's codec.
	ErrCodecNotFound = errors.New("ports: codec not found")

	// ErrCodecOpen is returned when a decoder exists but fails to open.
	ErrCodecOpen = errors.New("ports: codec open failed")

	// ErrNoFrame is returned by Decoder.Receive when the decoder needs more
	// input before it can produce another frame.
	ErrNoFrame = errors.New("ports: no frame available")
)

// MediaType identifies the kind of an elementary stream.
type MediaType int

const (
	MediaTypeUnknown MediaType = iota
	MediaTypeVideo
	MediaTypeAudio
	MediaTypeSubtitle
	MediaTypeData
)

// String returns the lowercase name of the media type.
func (t MediaType) String() string {
	switch t {
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	case MediaTypeSubtitle:
		return "subtitle"
	case MediaTypeData:
		return "data"
	default:
		return "unknown"
	}
}

// Rational is a fraction used for stream time bases.
type Rational struct {
	Num int
	Den int
}

// Float64 returns the value of the fraction, or 0 when Den is 0.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// StreamInfo describes one elementary stream of a container.
type StreamInfo struct {
	Index     int
	Type      MediaType
	CodecName string
	TimeBase  Rational

	// Video only
	Width  int
	Height int

	// Audio only
	SampleRate int
	Channels   int
}

// MediaInfo is the result of probing a container without decoding it.
type MediaInfo struct {
	Path     string
	Format   string
	Duration time.Duration
	Streams  []StreamInfo
}

// Prober reads container metadata.
type Prober interface {
	Probe(path string) (MediaInfo, error)
}

// MediaBackend opens containers for playback.
type MediaBackend interface {
	// Open opens and probes the container at path. Errors wrap ErrOpenInput
	// or ErrStreamInfo.
	Open(path string) (Container, error)
}

// Container is an opened demuxer bound to one source.
// A Container and everything opened from it are used by a single goroutine.
type Container interface {
	// Streams returns the streams in container order.
	Streams() []StreamInfo

	// Duration returns the total duration reported by the container.
	Duration() time.Duration

	// ReadPacket returns the next packet. It returns io.EOF at end of input.
	// The packet must be released before the next call.
	ReadPacket() (Packet, error)

	// Seek moves to the nearest keyframe at or before target across all
	// streams.
	Seek(target time.Duration) error

	// OpenVideoDecoder opens a decoder for a video stream. Errors wrap
	// ErrCodecNotFound or ErrCodecOpen.
	OpenVideoDecoder(stream StreamInfo) (VideoDecoder, error)

	// OpenAudioDecoder opens a decoder for an audio stream. Errors wrap
	// ErrCodecNotFound or ErrCodecOpen.
	OpenAudioDecoder(stream StreamInfo) (AudioDecoder, error)

	// Close releases the container.
	Close() error
}

// Packet is a chunk of encoded data belonging to one stream.
type Packet interface {
	StreamIndex() int

	// Release returns the packet's data to the container.
	Release()
}

// Frame is one decoded unit of audio or video. A frame returned by a
// decoder is only valid until the next Receive call on that decoder.
type Frame interface {
	// PTS returns the presentation timestamp in the stream time base.
	// ok is false when the frame carries no timestamp.
	PTS() (pts int64, ok bool)
}

// Decoder is a stateful decoder bound to one stream.
type Decoder interface {
	Stream() StreamInfo

	// Send submits a packet for decoding.
	Send(pkt Packet) error

	// Receive returns the next decoded frame, or ErrNoFrame once drained.
	Receive() (Frame, error)

	// Flush discards buffered frames, used after a seek.
	Flush()

	Close() error
}

// VideoDecoder decodes a video stream.
type VideoDecoder interface {
	Decoder

	// NewScaler creates a converter from the decoder's pixel format to RGB24
	// at the source resolution.
	NewScaler() (VideoScaler, error)
}

// AudioDecoder decodes an audio stream.
type AudioDecoder interface {
	Decoder

	SampleRate() int

	// NewResampler creates a converter from the decoder's native layout and
	// sample format to out.
	NewResampler(out AudioFormat) (AudioResampler, error)
}

// VideoScaler converts decoded frames into a persistent RGB24 target.
type VideoScaler interface {
	// Scale converts frame and returns a view of the scaler's target. The
	// view is overwritten by the next Scale call.
	Scale(frame Frame) (*rgb.Image, error)

	Close()
}

// AudioResampler converts decoded audio frames to interleaved PCM.
type AudioResampler interface {
	// Resample converts frame and returns exactly the produced PCM bytes.
	// A nil slice means no samples were produced.
	Resample(frame Frame) ([]byte, error)

	Close()
}
