package player

import (
	"errors"

	"github.com/user/avplay/pkg/ports"
)

type audioPipeline struct {
	decoder   ports.AudioDecoder
	resampler ports.AudioResampler
	sink      ports.AudioSink
}

// decodeAudio sends pkt to the audio decoder and writes the converted PCM
// of every frame to the sink. Failures drop the frame.
func (s *session) decodeAudio(pkt ports.Packet) {
	a := s.audio
	if err := a.decoder.Send(pkt); err != nil {
		s.logger.Debug("Dropped audio frame: %v", err)
		return
	}

	for {
		frame, err := a.decoder.Receive()
		if err != nil {
			if !errors.Is(err, ports.ErrNoFrame) {
				s.logger.Debug("Dropped audio frame: %v", err)
			}
			return
		}

		data, err := a.resampler.Resample(frame)
		if err != nil {
			s.logger.Debug("Dropped audio frame: %v", err)
			continue
		}
		if len(data) == 0 {
			continue
		}

		n, err := a.sink.Write(data)
		if err != nil {
			s.logger.Debug("Dropped audio frame: %v", err)
		}
		if n > 0 {
			s.player.updateStats(func(st *Stats) { st.AudioBytes += int64(n) })
		}
	}
}
