package mocks

import (
	"sync"
	"time"

	"github.com/user/avplay/pkg/events"
	"github.com/user/avplay/pkg/ports"
	"github.com/user/avplay/pkg/rgb"
)

// Recorder is a mock implementation of ports.PlayerEvents that keeps every
// notification in order.
type Recorder struct {
	mu     sync.Mutex
	events []events.Event
	notify chan struct{}
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{notify: make(chan struct{}, 1)}
}

func (r *Recorder) DurationChanged(ms int64) {
	r.add(events.Event{Kind: events.KindDuration, Ms: ms})
}

func (r *Recorder) FrameReady(img *rgb.Image) {
	r.add(events.Event{Kind: events.KindFrame, Image: img})
}

func (r *Recorder) PositionChanged(ms int64) {
	r.add(events.Event{Kind: events.KindPosition, Ms: ms})
}

func (r *Recorder) ErrorOccurred(message string) {
	r.add(events.Event{Kind: events.KindError, Message: message})
}

func (r *Recorder) add(e events.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Events returns a copy of the recorded notifications.
func (r *Recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

// Count returns the number of notifications of kind k.
func (r *Recorder) Count(k events.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Positions returns every reported position in order.
func (r *Recorder) Positions() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int64
	for _, e := range r.events {
		if e.Kind == events.KindPosition {
			out = append(out, e.Ms)
		}
	}
	return out
}

// WaitFor blocks until cond holds for the recorded events or timeout
// elapses. It reports whether cond was met.
func (r *Recorder) WaitFor(timeout time.Duration, cond func([]events.Event) bool) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		if cond(r.Events()) {
			return true
		}
		select {
		case <-r.notify:
		case <-deadline.C:
			return cond(r.Events())
		}
	}
}

var _ ports.PlayerEvents = (*Recorder)(nil)
