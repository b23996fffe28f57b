package avbackend

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/user/avplay/pkg/adapters/logger"
	"github.com/user/avplay/pkg/events"
	"github.com/user/avplay/pkg/mocks"
	"github.com/user/avplay/pkg/player"
)

// These tests decode real media. They need FFmpeg libraries and sample files:
//
//	AVPLAY_E2E=1
//	AVPLAY_MEDIA_AV=/path/to/10s-video-audio.mp4
//	AVPLAY_MEDIA_BADVIDEO=/path/to/unsupported-video-codec.mkv
//	AVPLAY_KEYFRAME_MS=2000 (keyframe interval of AVPLAY_MEDIA_AV, optional)

func requireE2E(t *testing.T, env string) string {
	t.Helper()
	if os.Getenv("AVPLAY_E2E") != "1" {
		t.Skip("Skipping E2E test (set AVPLAY_E2E=1 to run)")
	}
	path := os.Getenv(env)
	if path == "" {
		t.Skipf("Skipping E2E test (%s not set)", env)
	}
	return path
}

func keyframeInterval() int64 {
	if v, err := strconv.ParseInt(os.Getenv("AVPLAY_KEYFRAME_MS"), 10, 64); err == nil && v > 0 {
		return v
	}
	return 2000
}

func newE2EPlayer(t *testing.T, path string) (*player.Player, *mocks.Recorder, *mocks.AudioOutput) {
	t.Helper()
	rec := mocks.NewRecorder()
	out := &mocks.AudioOutput{}
	p := player.New(New(logger.NewNoop()), out, rec, logger.NewNoop(), player.Options{
		FrameInterval: time.Millisecond,
		Volume:        player.DefaultVolume,
	})
	if err := p.SetSource(path); err != nil {
		t.Fatalf("SetSource failed: %v", err)
	}
	return p, rec, out
}

func waitDone(t *testing.T, p *player.Player, timeout time.Duration) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(timeout):
		p.Stop()
		t.Fatal("session did not finish in time")
	}
}

func TestE2E_PlayToEnd(t *testing.T) {
	path := requireE2E(t, "AVPLAY_MEDIA_AV")
	p, rec, out := newE2EPlayer(t, path)

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitDone(t, p, time.Minute)

	evs := rec.Events()
	if len(evs) == 0 || evs[0].Kind != events.KindDuration {
		t.Fatalf("first event is not durationChanged")
	}
	if d := evs[0].Ms; d < 9500 || d > 10500 {
		t.Errorf("duration = %d, want ~10000", d)
	}
	if rec.Count(events.KindError) != 0 {
		t.Errorf("unexpected error events: %+v", evs)
	}

	positions := rec.Positions()
	if len(positions) == 0 {
		t.Fatal("no positions reported")
	}
	for i := 1; i < len(positions); i++ {
		if positions[i] <= positions[i-1] {
			t.Errorf("positions not strictly growing at %d: %d -> %d", i, positions[i-1], positions[i])
			break
		}
	}
	if last := positions[len(positions)-1]; last < 9000 {
		t.Errorf("last position = %d, want near 10000", last)
	}

	sink := out.LastSink()
	if sink == nil || sink.Written() == 0 {
		t.Error("no PCM written to the audio sink")
	} else if sink.Written()%4 != 0 {
		t.Errorf("PCM length %d is not a whole number of stereo samples", sink.Written())
	}
}

func TestE2E_UnsupportedVideoCodec(t *testing.T) {
	path := requireE2E(t, "AVPLAY_MEDIA_BADVIDEO")
	p, rec, _ := newE2EPlayer(t, path)

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitDone(t, p, 10*time.Second)

	if n := rec.Count(events.KindError); n != 1 {
		t.Errorf("errorOccurred count = %d, want 1", n)
	}
	if n := rec.Count(events.KindFrame); n != 0 {
		t.Errorf("frameReady count = %d, want 0", n)
	}
}

func TestE2E_SeekMidPlayback(t *testing.T) {
	path := requireE2E(t, "AVPLAY_MEDIA_AV")
	p, rec, _ := newE2EPlayer(t, path)

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !rec.WaitFor(10*time.Second, func(evs []events.Event) bool {
		n := 0
		for _, e := range evs {
			if e.Kind == events.KindPosition {
				n++
			}
		}
		return n >= 10
	}) {
		t.Fatal("playback did not start")
	}

	p.Pause()
	time.Sleep(50 * time.Millisecond)
	before := len(rec.Positions())
	p.Seek(5000)
	p.Resume()
	waitDone(t, p, time.Minute)

	positions := rec.Positions()
	if len(positions) <= before+3 {
		t.Fatalf("frame emission stopped after seek (%d positions)", len(positions))
	}

	// At most one frame decoded before the pause may still be delivered.
	min := 5000 - keyframeInterval()
	found := false
	for _, pos := range positions[before : before+2] {
		if pos >= min && pos >= 0 {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("positions after seek = %v, want one >= %d", positions[before:before+2], min)
	}
}

func TestE2E_SeekBackDropsBufferedFrames(t *testing.T) {
	path := requireE2E(t, "AVPLAY_MEDIA_AV")
	p, rec, _ := newE2EPlayer(t, path)

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	reached := func(ms int64) bool {
		return rec.WaitFor(10*time.Second, func(evs []events.Event) bool {
			for _, e := range evs {
				if e.Kind == events.KindPosition && e.Ms >= ms {
					return true
				}
			}
			return false
		})
	}
	if !reached(6000) {
		t.Fatal("playback did not reach 6000 ms")
	}

	p.Pause()
	time.Sleep(50 * time.Millisecond)
	before := len(rec.Positions())
	p.Seek(1000)
	p.Resume()

	if !rec.WaitFor(10*time.Second, func([]events.Event) bool { return len(rec.Positions()) >= before+4 }) {
		p.Stop()
		t.Fatal("no frames after seek")
	}
	p.Stop()
	waitDone(t, p, 10*time.Second)

	// positions[before] may be the frame decoded just before the pause.
	max := 1000 + keyframeInterval()
	for i, pos := range rec.Positions()[before+1 : before+4] {
		if pos < 0 || pos > max {
			t.Errorf("position %d after seek = %d, want within [0, %d]", i+1, pos, max)
		}
	}
}

func TestE2E_Probe(t *testing.T) {
	path := requireE2E(t, "AVPLAY_MEDIA_AV")

	info, err := NewProber().Probe(path)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if info.Duration < 9*time.Second {
		t.Errorf("Duration = %v, want ~10s", info.Duration)
	}
	if len(info.Streams) < 2 {
		t.Errorf("got %d streams, want video and audio", len(info.Streams))
	}
}
