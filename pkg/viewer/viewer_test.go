package viewer

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/user/avplay/pkg/adapters/logger"
	"github.com/user/avplay/pkg/events"
	"github.com/user/avplay/pkg/mocks"
	"github.com/user/avplay/pkg/rgb"
)

func frameEvent() events.Event {
	return events.Event{Kind: events.KindFrame, Image: rgb.New(image.Rect(0, 0, 16, 9))}
}

func posEvent(ms int64) events.Event {
	return events.Event{Kind: events.KindPosition, Ms: ms}
}

func newTestViewer(cfg Config, sink *mocks.FrameSink) (*Viewer, *mocks.Renderer, *mocks.Transport) {
	renderer := &mocks.Renderer{}
	transport := &mocks.Transport{}
	if sink == nil {
		sink = mocks.NewFrameSink(false)
	}
	return New(cfg, renderer, sink, transport, logger.NewNoop()), renderer, transport
}

func TestSlider(t *testing.T) {
	var s Slider
	s.SetRange(10000)

	s.SetValue(4000)
	if s.Value() != 4000 {
		t.Errorf("Value = %d, want 4000", s.Value())
	}
	if f := s.Fraction(); f != 0.4 {
		t.Errorf("Fraction = %v, want 0.4", f)
	}

	s.SetValue(20000)
	if s.Value() != 10000 {
		t.Errorf("Value above range = %d, want 10000", s.Value())
	}
	s.SetValue(-5)
	if s.Value() != 0 {
		t.Errorf("Value below range = %d, want 0", s.Value())
	}

	if _, ok := s.Release(); ok {
		t.Error("Release without Press should report no drag")
	}

	s.Press()
	s.Move(7000)
	if s.SetValue(100) {
		t.Error("SetValue during a drag should be ignored")
	}
	v, ok := s.Release()
	if !ok || v != 7000 {
		t.Errorf("Release = %d, %v; want 7000, true", v, ok)
	}
	if s.Dragging() {
		t.Error("still dragging after Release")
	}
}

func TestSlider_UnknownDuration(t *testing.T) {
	var s Slider
	s.SetValue(123456)
	if s.Value() != 123456 {
		t.Errorf("Value = %d, want 123456", s.Value())
	}
	if s.Fraction() != 0 {
		t.Errorf("Fraction = %v, want 0", s.Fraction())
	}
}

func TestViewer_Handle(t *testing.T) {
	v, renderer, _ := newTestViewer(DefaultConfig(), nil)

	fits := 0
	renderer.FitImageFunc = func(img image.Image, w, h int) image.Image {
		fits++
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}

	v.Handle(events.Event{Kind: events.KindDuration, Ms: 10000})
	v.Handle(frameEvent())
	v.Handle(posEvent(40))

	st := v.State()
	if st.DurationMs != 10000 || st.PositionMs != 40 || st.Frames != 1 {
		t.Errorf("State = %+v", st)
	}
	if fits != 0 {
		t.Errorf("frames scaled %d times without being displayed", fits)
	}
	if v.SliderValue() != 40 {
		t.Errorf("SliderValue = %d, want 40", v.SliderValue())
	}

	v.Handle(events.Event{Kind: events.KindError, Message: "Failed to open input file"})
	if v.State().LastError != "Failed to open input file" {
		t.Errorf("LastError = %q", v.State().LastError)
	}
}

func TestViewer_DragSeeksOnRelease(t *testing.T) {
	v, _, transport := newTestViewer(DefaultConfig(), nil)

	v.Handle(events.Event{Kind: events.KindDuration, Ms: 10000})
	v.Handle(posEvent(1000))

	v.PressSlider()
	v.MoveSlider(6000)
	v.Handle(posEvent(1040))

	if got := v.SliderValue(); got != 6000 {
		t.Errorf("SliderValue during drag = %d, want 6000", got)
	}
	if len(transport.Seeks) != 0 {
		t.Error("seek issued before release")
	}

	v.ReleaseSlider()
	if len(transport.Seeks) != 1 || transport.Seeks[0] != 6000 {
		t.Errorf("Seeks = %v, want [6000]", transport.Seeks)
	}

	v.Handle(posEvent(6000))
	if got := v.SliderValue(); got != 6000 {
		t.Errorf("SliderValue after release = %d", got)
	}

	v.ReleaseSlider()
	if len(transport.Seeks) != 1 {
		t.Error("second release without press should not seek")
	}
}

func TestViewer_Snapshots(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SnapshotIntervalMs = 1000
	sink := mocks.NewFrameSink(true)
	v, _, _ := newTestViewer(cfg, sink)

	// No frame yet, nothing to save.
	v.Handle(posEvent(0))
	if sink.Count() != 0 {
		t.Fatal("snapshot saved without a frame")
	}

	for ms := int64(0); ms <= 2000; ms += 40 {
		v.Handle(frameEvent())
		v.Handle(posEvent(ms))
	}
	if got := sink.Count(); got != 3 {
		t.Errorf("snapshots = %d, want 3", got)
	}
	for i, want := range []int64{0, 1000, 2000} {
		if sink.Positions[i] != want {
			t.Errorf("snapshot %d at %d ms, want %d", i, sink.Positions[i], want)
		}
	}

	for i, img := range sink.Frames {
		if b := img.Bounds(); b.Dx() != cfg.Width || b.Dy() != cfg.Height+cfg.ProgressHeight {
			t.Errorf("snapshot %d is %dx%d, want the composed display", i, b.Dx(), b.Dy())
		}
	}

	// Seeking backwards restarts the interval.
	v.Handle(frameEvent())
	v.Handle(posEvent(500))
	if got := v.State().Snapshots; got != 4 {
		t.Errorf("snapshots after seek back = %d, want 4", got)
	}
}

func TestViewer_RawSnapshots(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SnapshotIntervalMs = 1000
	cfg.ComposeSnapshots = false
	sink := mocks.NewFrameSink(true)
	v, renderer, _ := newTestViewer(cfg, sink)

	frame := frameEvent()
	v.Handle(frame)
	v.Handle(posEvent(0))

	if sink.Count() != 1 || sink.Frames[0] != image.Image(frame.Image) {
		t.Errorf("raw snapshot did not save the decoded frame: %v", sink.Frames)
	}
	if renderer.LastCanvas() != nil {
		t.Error("raw snapshot composed a canvas")
	}
}

func TestViewer_SnapshotFailureIsLogged(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SnapshotIntervalMs = 1000
	sink := mocks.NewFrameSink(true)
	sink.SaveFrameFunc = func(int, int64, image.Image) (string, error) {
		return "", errors.New("disk full")
	}
	v, _, _ := newTestViewer(cfg, sink)

	v.Handle(frameEvent())
	v.Handle(posEvent(0))
	if v.State().Snapshots != 0 {
		t.Error("failed snapshot was counted")
	}
}

func TestViewer_SnapshotsNeedEnabledSink(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SnapshotIntervalMs = 1000
	sink := mocks.NewFrameSink(false)
	v, _, _ := newTestViewer(cfg, sink)

	v.Handle(frameEvent())
	v.Handle(posEvent(0))
	if sink.Count() != 0 {
		t.Error("disabled sink received a frame")
	}
}

func TestViewer_RunDrainsQueue(t *testing.T) {
	v, _, _ := newTestViewer(DefaultConfig(), nil)
	q := events.NewQueue(events.DefaultLimit)

	q.DurationChanged(1000)
	for i := int64(0); i < 5; i++ {
		q.FrameReady(rgb.New(image.Rect(0, 0, 4, 2)))
		q.PositionChanged(i * 40)
	}
	q.Close()

	if err := v.Run(context.Background(), q); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	st := v.State()
	if st.Frames != 5 || st.PositionMs != 160 || st.DurationMs != 1000 {
		t.Errorf("State = %+v", st)
	}
}

func TestViewer_RunStopsOnContext(t *testing.T) {
	v, _, _ := newTestViewer(DefaultConfig(), nil)
	q := events.NewQueue(events.DefaultLimit)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx, q) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestViewer_Display(t *testing.T) {
	cfg := DefaultConfig()
	v, renderer, _ := newTestViewer(cfg, nil)

	var fitW, fitH int
	renderer.FitImageFunc = func(img image.Image, w, h int) image.Image {
		fitW, fitH = w, h
		return image.NewRGBA(image.Rect(0, 0, w, h*9/16))
	}

	v.Handle(events.Event{Kind: events.KindDuration, Ms: 10000})
	v.Handle(frameEvent())
	v.Handle(posEvent(5000))

	img := v.Display()
	if fitW != 640 || fitH != 360 {
		t.Errorf("FitImage called with %dx%d, want 640x360", fitW, fitH)
	}
	if b := img.Bounds(); b.Dx() != cfg.Width || b.Dy() != cfg.Height+cfg.ProgressHeight {
		t.Errorf("Display size = %dx%d", b.Dx(), b.Dy())
	}

	canvas := renderer.LastCanvas()
	if canvas.Images != 1 {
		t.Errorf("images drawn = %d, want 1", canvas.Images)
	}
	if canvas.Rects != 2 {
		t.Errorf("rects drawn = %d, want track and fill", canvas.Rects)
	}
	if len(canvas.Texts) != 1 || canvas.Texts[0] != "0:05 / 0:10" {
		t.Errorf("texts = %v", canvas.Texts)
	}
}

func TestViewer_DisplayWithoutFrame(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProgressHeight = 0
	v, renderer, _ := newTestViewer(cfg, nil)

	v.Display()
	canvas := renderer.LastCanvas()
	if canvas.Images != 0 || canvas.Rects != 0 || len(canvas.Texts) != 0 {
		t.Errorf("unexpected drawing on an empty display: %+v", canvas)
	}
}

func TestFormatTimecode(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0:00"},
		{999, "0:00"},
		{61000, "1:01"},
		{3599000, "59:59"},
		{3600000, "1:00:00"},
		{-40, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatTimecode(tt.ms); got != tt.want {
			t.Errorf("FormatTimecode(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
