package avbackend

import (
	"github.com/user/avplay/pkg/ports"
)

// Prober reads container metadata through libavformat without decoding.
type Prober struct{}

// NewProber creates a libavformat prober.
func NewProber() *Prober {
	return &Prober{}
}

// Probe opens path, reads its stream list and duration, and closes it.
func (p *Prober) Probe(path string) (ports.MediaInfo, error) {
	fc, err := openInput(path)
	if err != nil {
		return ports.MediaInfo{}, err
	}
	defer func() {
		fc.CloseInput()
		fc.Free()
	}()

	info := ports.MediaInfo{
		Path:     path,
		Format:   formatName(fc),
		Duration: durationOf(fc),
	}
	for _, s := range fc.Streams() {
		info.Streams = append(info.Streams, streamInfo(s))
	}
	return info, nil
}

var _ ports.Prober = (*Prober)(nil)
