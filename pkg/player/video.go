package player

import (
	"errors"

	"github.com/user/avplay/pkg/ports"
)

type videoPipeline struct {
	decoder  ports.VideoDecoder
	scaler   ports.VideoScaler
	timeBase ports.Rational
}

// decodeVideo sends pkt to the video decoder and emits every frame it
// yields: an independent RGB copy, then its position, then the pacing wait.
func (s *session) decodeVideo(pkt ports.Packet) {
	v := s.video
	if err := v.decoder.Send(pkt); err != nil {
		s.logger.Debug("Dropped video frame: %v", err)
		return
	}

	for {
		frame, err := v.decoder.Receive()
		if err != nil {
			if !errors.Is(err, ports.ErrNoFrame) {
				s.logger.Debug("Dropped video frame: %v", err)
			}
			return
		}

		// Nothing is emitted while paused.
		if !s.transport.waitWhilePaused() {
			return
		}

		img, err := v.scaler.Scale(frame)
		if err != nil {
			s.logger.Debug("Dropped video frame: %v", err)
			s.player.updateStats(func(st *Stats) { st.DroppedFrames++ })
			continue
		}

		s.events().FrameReady(img.Clone())

		if pts, ok := frame.PTS(); ok {
			ms := positionMs(pts, v.timeBase)
			s.events().PositionChanged(ms)
			s.player.updateStats(func(st *Stats) {
				st.Frames++
				st.LastPositionMs = ms
			})
		} else {
			s.player.updateStats(func(st *Stats) { st.Frames++ })
		}

		if !s.player.pacer.Wait(s.stop) {
			return
		}
	}
}

// positionMs converts a timestamp in tb units to milliseconds, truncating.
func positionMs(pts int64, tb ports.Rational) int64 {
	return int64(float64(pts) * tb.Float64() * 1000)
}
