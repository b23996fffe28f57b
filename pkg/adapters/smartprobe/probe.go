// Package smartprobe picks the cheapest prober that understands a file.
//
// ISO-BMFF files are parsed directly from their moov box. Everything else,
// and any MP4 the parser rejects, goes through libavformat.
package smartprobe

import (
	"path/filepath"
	"strings"

	"github.com/user/avplay/pkg/ports"
)

// Backend names the prober that produced a result.
type Backend string

const (
	// BackendMP4 is the native MP4 box parser.
	BackendMP4 Backend = "mp4"
	// BackendLibav is the libavformat prober.
	BackendLibav Backend = "libav"
)

// mp4Extensions lists the extensions tried with the box parser first.
var mp4Extensions = map[string]bool{
	".mp4": true,
	".m4v": true,
	".m4a": true,
	".mov": true,
}

// Prober chooses between a box parser and a general demuxer probe.
type Prober struct {
	mp4      ports.Prober
	fallback ports.Prober
	logger   ports.Logger
}

// New creates a prober. mp4 may be nil to always use fallback.
func New(mp4, fallback ports.Prober, logger ports.Logger) *Prober {
	return &Prober{mp4: mp4, fallback: fallback, logger: logger.WithComponent("probe")}
}

// Probe describes path using the first prober that succeeds.
func (p *Prober) Probe(path string) (ports.MediaInfo, error) {
	info, _, err := p.ProbeWithBackend(path)
	return info, err
}

// ProbeWithBackend is Probe that also reports which prober answered.
func (p *Prober) ProbeWithBackend(path string) (ports.MediaInfo, Backend, error) {
	if p.mp4 != nil && IsMP4(path) {
		info, err := p.mp4.Probe(path)
		if err == nil && hasStreams(info) {
			return info, BackendMP4, nil
		}
		if err != nil {
			p.logger.Debug("MP4 parser failed, falling back to libav: %v", err)
		}
	}

	info, err := p.fallback.Probe(path)
	if err != nil {
		return ports.MediaInfo{}, BackendLibav, err
	}
	return info, BackendLibav, nil
}

// IsMP4 reports whether path has an ISO-BMFF extension.
func IsMP4(path string) bool {
	return mp4Extensions[strings.ToLower(filepath.Ext(path))]
}

func hasStreams(info ports.MediaInfo) bool {
	for _, s := range info.Streams {
		if s.Type == ports.MediaTypeVideo || s.Type == ports.MediaTypeAudio {
			return true
		}
	}
	return false
}

var _ ports.Prober = (*Prober)(nil)
