// Package mp4probe reads stream metadata from ISO-BMFF files (MP4, MOV,
// M4A) without touching the codec libraries.
package mp4probe

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/avplay/pkg/ports"
)

// Prober parses the moov box of MP4 files.
type Prober struct{}

// New creates an MP4 prober.
func New() *Prober {
	return &Prober{}
}

// Probe opens path and describes its tracks.
func (p *Prober) Probe(path string) (ports.MediaInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.MediaInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	info, err := ProbeReader(f)
	if err != nil {
		return ports.MediaInfo{}, err
	}
	info.Path = path
	return info, nil
}

// ProbeBytes describes MP4 data held in memory.
func ProbeBytes(data []byte) (ports.MediaInfo, error) {
	return ProbeReader(bytes.NewReader(data))
}

// ProbeReader describes the MP4 data read from r.
func ProbeReader(r io.ReadSeeker) (ports.MediaInfo, error) {
	// Lazy mdat decoding seeks over the payload instead of reading it.
	file, err := mp4.DecodeFile(r, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return ports.MediaInfo{}, fmt.Errorf("decode mp4: %w", err)
	}

	moov := file.Moov
	if moov == nil && file.Init != nil {
		// Fragmented
		moov = file.Init.Moov
	}
	if moov == nil {
		return ports.MediaInfo{}, fmt.Errorf("no moov box found")
	}

	info := ports.MediaInfo{Format: "mp4"}
	if moov.Mvhd != nil && moov.Mvhd.Timescale > 0 {
		info.Duration = scaled(uint64(moov.Mvhd.Duration), moov.Mvhd.Timescale)
	}

	for i, trak := range moov.Traks {
		info.Streams = append(info.Streams, trackInfo(i, trak))
	}
	return info, nil
}

func scaled(duration uint64, timescale uint32) time.Duration {
	return time.Duration(float64(duration) / float64(timescale) * float64(time.Second))
}

func trackInfo(index int, trak *mp4.TrakBox) ports.StreamInfo {
	s := ports.StreamInfo{Index: index, Type: ports.MediaTypeUnknown, CodecName: "unknown"}
	if trak.Mdia == nil {
		return s
	}

	if mdhd := trak.Mdia.Mdhd; mdhd != nil && mdhd.Timescale > 0 {
		s.TimeBase = ports.Rational{Num: 1, Den: int(mdhd.Timescale)}
	}

	if hdlr := trak.Mdia.Hdlr; hdlr != nil {
		switch hdlr.HandlerType {
		case "vide":
			s.Type = ports.MediaTypeVideo
		case "soun":
			s.Type = ports.MediaTypeAudio
		case "subt", "text", "sbtl":
			s.Type = ports.MediaTypeSubtitle
		default:
			s.Type = ports.MediaTypeData
		}
	}

	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return s
	}

	entries := trak.Mdia.Minf.Stbl.Stsd.Children
	if len(entries) == 0 {
		return s
	}

	// The first sample entry describes the track.
	s.CodecName = codecName(entries[0].Type())
	switch entry := entries[0].(type) {
	case *mp4.VisualSampleEntryBox:
		s.Width = int(entry.Width)
		s.Height = int(entry.Height)
	case *mp4.AudioSampleEntryBox:
		s.SampleRate = int(entry.SampleRate)
		s.Channels = int(entry.ChannelCount)
	}
	return s
}

// codecName maps a sample entry type to the decoder name libavcodec uses.
func codecName(entry string) string {
	switch entry {
	case "avc1", "avc3":
		return "h264"
	case "hvc1", "hev1":
		return "hevc"
	case "av01":
		return "av1"
	case "vp08":
		return "vp8"
	case "vp09":
		return "vp9"
	case "mp4a":
		return "aac"
	case "Opus":
		return "opus"
	case "ac-3":
		return "ac3"
	case "ec-3":
		return "eac3"
	case "fLaC":
		return "flac"
	default:
		return entry
	}
}

var _ ports.Prober = (*Prober)(nil)
