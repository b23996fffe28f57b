// Package viewer is the presentation side of playback. It consumes player
// events, keeps the seek slider in sync, composes the displayed picture and
// exports periodic snapshots.
package viewer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/user/avplay/pkg/events"
	"github.com/user/avplay/pkg/ports"
	"github.com/user/avplay/pkg/rgb"
)

// Config configures the display.
type Config struct {
	// Width and Height are the size of the picture area. Frames are scaled
	// to fit it keeping their aspect ratio.
	Width  int
	Height int

	// ProgressHeight is the height of the progress bar under the picture.
	// Zero hides it.
	ProgressHeight int

	BackgroundColor    color.Color
	TextColor          color.Color
	ProgressBarColor   color.Color
	ProgressTrackColor color.Color

	FontPath string
	FontSize float64

	// SnapshotIntervalMs is the playback distance between snapshots.
	// Zero disables periodic snapshots.
	SnapshotIntervalMs int64

	// ComposeSnapshots saves the composed display instead of the bare
	// decoded frame.
	ComposeSnapshots bool
}

// DefaultConfig returns a 640x360 display with a progress bar.
func DefaultConfig() Config {
	return Config{
		Width:              640,
		Height:             360,
		ProgressHeight:     24,
		BackgroundColor:    color.Black,
		TextColor:          color.White,
		ProgressBarColor:   color.RGBA{R: 0x4a, G: 0xde, B: 0x80, A: 0xff},
		ProgressTrackColor: color.RGBA{R: 0x33, G: 0x33, B: 0x55, A: 0xff},
		FontSize:           14,
		ComposeSnapshots:   true,
	}
}

// Source delivers player events.
type Source interface {
	Next(ctx context.Context) (events.Event, bool)
	Dropped() int
}

// State is a snapshot of what the viewer shows.
type State struct {
	DurationMs int64
	PositionMs int64
	Dragging   bool
	Frames     int
	Snapshots  int
	LastError  string
}

// Viewer renders player events.
type Viewer struct {
	cfg       Config
	renderer  ports.Renderer
	sink      ports.FrameSink
	transport ports.Transport
	logger    ports.Logger

	mu         sync.Mutex
	slider     Slider
	durationMs int64
	positionMs int64
	frame      *rgb.Image
	frames     int
	lastError  string

	snapshots      int
	lastSnapshotMs int64
}

// New creates a viewer. sink may be a nullsink when snapshots are off.
func New(cfg Config, renderer ports.Renderer, sink ports.FrameSink, transport ports.Transport, logger ports.Logger) *Viewer {
	return &Viewer{
		cfg:       cfg,
		renderer:  renderer,
		sink:      sink,
		transport: transport,
		logger:    logger.WithComponent("viewer"),
	}
}

// Run handles events until src is closed and drained or ctx is done.
func (v *Viewer) Run(ctx context.Context, src Source) error {
	for {
		e, ok := src.Next(ctx)
		if !ok {
			break
		}
		v.Handle(e)
	}

	if n := src.Dropped(); n > 0 {
		v.logger.Debug("%d frames dropped by the event queue", n)
	}
	return ctx.Err()
}

// Handle applies one event.
func (v *Viewer) Handle(e events.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch e.Kind {
	case events.KindDuration:
		v.durationMs = e.Ms
		v.slider.SetRange(e.Ms)
	case events.KindFrame:
		if e.Image == nil {
			return
		}
		v.frame = e.Image
		v.frames++
	case events.KindPosition:
		v.positionMs = e.Ms
		v.slider.SetValue(e.Ms)
		v.maybeSnapshotLocked(e.Ms)
	case events.KindError:
		v.lastError = e.Message
		v.logger.Error("Playback failed: %s", e.Message)
	}
}

func (v *Viewer) maybeSnapshotLocked(positionMs int64) {
	if v.cfg.SnapshotIntervalMs <= 0 || v.frame == nil || !v.sink.Enabled() {
		return
	}
	// A backwards jump means a seek; restart the interval from there.
	due := v.snapshots == 0 ||
		positionMs-v.lastSnapshotMs >= v.cfg.SnapshotIntervalMs ||
		positionMs < v.lastSnapshotMs
	if !due {
		return
	}

	var img image.Image = v.frame
	if v.cfg.ComposeSnapshots {
		img = v.displayLocked()
	}
	path, err := v.sink.SaveFrame(v.snapshots, positionMs, img)
	if err != nil {
		v.logger.Warn("Saving snapshot failed: %v", err)
		return
	}
	v.snapshots++
	v.lastSnapshotMs = positionMs
	v.logger.Debug("Snapshot saved to %s", path)
}

// PressSlider starts a slider drag. Position updates no longer move the
// handle until ReleaseSlider.
func (v *Viewer) PressSlider() {
	v.mu.Lock()
	v.slider.Press()
	v.mu.Unlock()
}

// MoveSlider moves the handle during a drag.
func (v *Viewer) MoveSlider(ms int64) {
	v.mu.Lock()
	v.slider.Move(ms)
	v.mu.Unlock()
}

// ReleaseSlider ends a drag and seeks to the handle position.
func (v *Viewer) ReleaseSlider() {
	v.mu.Lock()
	ms, ok := v.slider.Release()
	v.mu.Unlock()

	if ok {
		v.transport.Seek(ms)
	}
}

// State returns the current display state.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return State{
		DurationMs: v.durationMs,
		PositionMs: v.positionMs,
		Dragging:   v.slider.Dragging(),
		Frames:     v.frames,
		Snapshots:  v.snapshots,
		LastError:  v.lastError,
	}
}

// SliderValue returns the slider handle position.
func (v *Viewer) SliderValue() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.slider.Value()
}

// Display composes the picture as it would be shown: the latest frame
// centered in the picture area, with the progress bar and timecode below.
func (v *Viewer) Display() image.Image {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.displayLocked()
}

func (v *Viewer) displayLocked() image.Image {
	w, h := v.cfg.Width, v.cfg.Height
	canvas := v.renderer.CreateCanvas(w, h+v.cfg.ProgressHeight, v.cfg.BackgroundColor)

	if v.frame != nil && w > 0 && h > 0 {
		fitted := v.renderer.FitImage(v.frame, w, h)
		b := fitted.Bounds()
		canvas.DrawImage(fitted, (w-b.Dx())/2, (h-b.Dy())/2)
	}

	if bar := v.cfg.ProgressHeight; bar > 0 {
		canvas.DrawRect(0, h, w, bar, v.cfg.ProgressTrackColor)
		if filled := int(float64(w) * v.slider.Fraction()); filled > 0 {
			canvas.DrawRect(0, h, filled, bar, v.cfg.ProgressBarColor)
		}
		canvas.DrawText(
			fmt.Sprintf("%s / %s", FormatTimecode(v.slider.Value()), FormatTimecode(v.durationMs)),
			w-8, h+bar/2,
			ports.TextStyle{
				FontSize: v.cfg.FontSize,
				FontPath: v.cfg.FontPath,
				Color:    v.cfg.TextColor,
				Align:    ports.AlignRight,
			},
		)
	}

	return canvas.ToImage()
}

// FormatTimecode formats milliseconds as m:ss, or h:mm:ss from one hour.
func FormatTimecode(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	s := ms / 1000
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, s/60%60, s%60)
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
