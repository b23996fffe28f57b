package player

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/asticode/go-astikit"
	"github.com/user/avplay/pkg/pcm"
	"github.com/user/avplay/pkg/ports"
)

// session is one playback attempt. Everything it opens is owned by the
// engine goroutine and released through closer in reverse order.
type session struct {
	id        string
	source    string
	player    *Player
	logger    ports.Logger
	transport *transport
	stop      <-chan struct{}

	closer    *astikit.Closer
	container ports.Container
	video     *videoPipeline
	audio     *audioPipeline
}

func (s *session) events() ports.PlayerEvents {
	return s.player.events
}

// run executes the session and closes done once every resource has been
// released.
func (s *session) run(done chan<- struct{}) {
	defer close(done)
	defer s.finish()

	s.closer = astikit.NewCloser()
	defer func() {
		if err := s.closer.Close(); err != nil {
			s.logger.Warn("Teardown reported an error: %v", err)
		}
	}()

	s.logger.Info("Session %s started: %s", s.id, s.source)

	if err := s.setup(); err != nil {
		s.logger.Error("Session setup failed: %v", err)
		msg := userMessage(err)
		s.player.updateStats(func(st *Stats) { st.Error = msg })
		s.events().ErrorOccurred(msg)
		return
	}

	s.loop()
}

func (s *session) finish() {
	s.transport.finish()
	s.player.updateStats(func(st *Stats) { st.EndedAt = time.Now() })
	s.logger.Info("Session %s ended", s.id)
}

// setup opens the container, reports the duration, selects streams and
// opens the decoders. A returned error is fatal to the session.
func (s *session) setup() error {
	c, err := s.player.backend.Open(s.source)
	if err != nil {
		return err
	}
	s.container = c
	s.closer.Add(func() {
		if err := c.Close(); err != nil {
			s.logger.Debug("Close container: %v", err)
		}
	})

	durationMs := c.Duration().Milliseconds()
	if durationMs < 0 {
		durationMs = 0
	}
	s.logger.Debug("Duration: %d ms", durationMs)
	s.player.updateStats(func(st *Stats) { st.DurationMs = durationMs })
	s.events().DurationChanged(durationMs)

	videoStream, audioStream := selectStreams(c.Streams())
	if videoStream == nil && audioStream == nil {
		return ErrNoStreams
	}
	s.logger.Debug("Selected streams: video=%d audio=%d", streamIndex(videoStream), streamIndex(audioStream))

	if videoStream != nil {
		v, err := s.openVideo(*videoStream)
		if err != nil {
			return err
		}
		s.video = v
		s.player.updateStats(func(st *Stats) { st.HasVideo = true })
	}

	if audioStream != nil {
		a, err := s.openAudio(*audioStream)
		if err != nil {
			s.logger.Warn("Audio disabled: %v", err)
		} else {
			s.audio = a
			s.player.updateStats(func(st *Stats) { st.AudioEnabled = true })
		}
	}

	return nil
}

// selectStreams returns the first video and first audio stream in
// container order.
func selectStreams(streams []ports.StreamInfo) (video, audio *ports.StreamInfo) {
	for i := range streams {
		switch streams[i].Type {
		case ports.MediaTypeVideo:
			if video == nil {
				video = &streams[i]
			}
		case ports.MediaTypeAudio:
			if audio == nil {
				audio = &streams[i]
			}
		}
	}
	return video, audio
}

func streamIndex(st *ports.StreamInfo) int {
	if st == nil {
		return -1
	}
	return st.Index
}

func (s *session) openVideo(st ports.StreamInfo) (*videoPipeline, error) {
	dec, err := s.container.OpenVideoDecoder(st)
	if err != nil {
		return nil, err
	}
	s.closer.Add(func() { dec.Close() })

	scaler, err := dec.NewScaler()
	if err != nil {
		return nil, fmt.Errorf("%w: scaler: %v", ports.ErrCodecOpen, err)
	}
	s.closer.Add(scaler.Close)

	return &videoPipeline{
		decoder:  dec,
		scaler:   scaler,
		timeBase: st.TimeBase,
	}, nil
}

// openAudio opens the audio decoder, resampler and sink. On failure the
// parts acquired so far are released immediately.
func (s *session) openAudio(st ports.StreamInfo) (a *audioPipeline, err error) {
	if s.player.output == nil {
		return nil, errors.New("no audio output")
	}

	local := astikit.NewCloser()
	defer func() {
		if err != nil {
			local.Close()
		}
	}()

	dec, err := s.container.OpenAudioDecoder(st)
	if err != nil {
		return nil, err
	}
	local.Add(func() { dec.Close() })

	format := ports.AudioFormat{
		SampleRate:     dec.SampleRate(),
		Channels:       pcm.Channels,
		BytesPerSample: pcm.BytesPerSample,
	}

	resampler, err := dec.NewResampler(format)
	if err != nil {
		return nil, fmt.Errorf("resampler: %w", err)
	}
	local.Add(resampler.Close)

	sink, err := s.player.output.Open(format, ports.AudioSinkOptions{
		BufferSize: s.player.opts.AudioBufferSize,
		LowLatency: s.player.opts.LowLatency,
		Volume:     s.transport.Volume(),
	})
	if err != nil {
		return nil, fmt.Errorf("audio sink: %w", err)
	}
	local.Add(func() { sink.Close() })

	s.transport.attachSink(sink)
	sink.Play()
	s.logger.Debug("Audio output: %d Hz, %d channels", format.SampleRate, format.Channels)

	// Hand everything over to the session closer in acquisition order.
	s.closer.Add(func() { dec.Close() })
	s.closer.Add(resampler.Close)
	s.closer.Add(func() {
		s.transport.detachSink()
		sink.Close()
	})

	return &audioPipeline{
		decoder:   dec,
		resampler: resampler,
		sink:      sink,
	}, nil
}

// loop reads packets until end of input, a read error or Stop.
func (s *session) loop() {
	for s.transport.isRunning() {
		pkt, err := s.container.ReadPacket()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("End of stream")
			} else {
				s.logger.Warn("Read failed, ending playback: %v", err)
			}
			return
		}

		seekMs, seek, ok := s.transport.await()
		if !ok {
			pkt.Release()
			return
		}
		if seek {
			s.seek(seekMs)
			pkt.Release()
			continue
		}

		s.dispatch(pkt)
		pkt.Release()
	}
}

func (s *session) dispatch(pkt ports.Packet) {
	idx := pkt.StreamIndex()
	switch {
	case s.video != nil && idx == s.video.decoder.Stream().Index:
		s.decodeVideo(pkt)
	case s.audio != nil && idx == s.audio.decoder.Stream().Index:
		s.decodeAudio(pkt)
	}
}

// seek moves every stream to the keyframe at or before ms and flushes the
// decoders. An unreachable target leaves playback where it was.
func (s *session) seek(ms int64) {
	s.logger.Debug("Seeking to %d ms", ms)
	if err := s.container.Seek(time.Duration(ms) * time.Millisecond); err != nil {
		s.logger.Debug("Seek to %d ms failed: %v", ms, err)
		return
	}
	if s.video != nil {
		s.video.decoder.Flush()
	}
	if s.audio != nil {
		s.audio.decoder.Flush()
		s.audio.sink.Discard()
	}
	s.player.updateStats(func(st *Stats) { st.Seeks++ })
}
