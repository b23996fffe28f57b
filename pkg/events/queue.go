// Package events provides a non-blocking hand-off of player notifications
// from the engine goroutine to a consumer.
package events

import (
	"context"
	"sync"

	"github.com/user/avplay/pkg/ports"
	"github.com/user/avplay/pkg/rgb"
)

// Kind identifies a player notification.
type Kind int

const (
	KindDuration Kind = iota
	KindFrame
	KindPosition
	KindError
)

// String returns the notification name.
func (k Kind) String() string {
	switch k {
	case KindDuration:
		return "durationChanged"
	case KindFrame:
		return "frameReady"
	case KindPosition:
		return "positionChanged"
	case KindError:
		return "errorOccurred"
	default:
		return "unknown"
	}
}

// Event is one queued notification. Only the field matching Kind is set.
type Event struct {
	Kind    Kind
	Ms      int64
	Image   *rgb.Image
	Message string
}

// media events may be dropped under backpressure.
func (e Event) media() bool {
	return e.Kind == KindFrame || e.Kind == KindPosition
}

// DefaultLimit is the number of frame and position events kept when no
// limit is configured.
const DefaultLimit = 32

// Queue implements ports.PlayerEvents without ever blocking the caller.
// When more than limit frame/position events are waiting, the oldest of
// them is dropped. Duration and error events are always kept.
type Queue struct {
	mu      sync.Mutex
	items   []Event
	media   int
	limit   int
	closed  bool
	dropped int
	ready   chan struct{}
}

var _ ports.PlayerEvents = (*Queue)(nil)

// NewQueue creates a queue. A limit <= 0 selects DefaultLimit.
func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Queue{
		limit: limit,
		ready: make(chan struct{}, 1),
	}
}

// DurationChanged enqueues a duration notification.
func (q *Queue) DurationChanged(ms int64) {
	q.push(Event{Kind: KindDuration, Ms: ms})
}

// FrameReady enqueues a frame notification.
func (q *Queue) FrameReady(img *rgb.Image) {
	q.push(Event{Kind: KindFrame, Image: img})
}

// PositionChanged enqueues a position notification.
func (q *Queue) PositionChanged(ms int64) {
	q.push(Event{Kind: KindPosition, Ms: ms})
}

// ErrorOccurred enqueues an error notification.
func (q *Queue) ErrorOccurred(message string) {
	q.push(Event{Kind: KindError, Message: message})
}

func (q *Queue) push(e Event) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, e)
	if e.media() {
		q.media++
		if q.media > q.limit {
			q.dropOldestMedia()
		}
	}
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// dropOldestMedia must be called with mu held.
func (q *Queue) dropOldestMedia() {
	for i, e := range q.items {
		if e.media() {
			q.items = append(q.items[:i], q.items[i+1:]...)
			q.media--
			q.dropped++
			return
		}
	}
}

// TryNext returns the next event without waiting.
func (q *Queue) TryNext() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

func (q *Queue) popLocked() (Event, bool) {
	if len(q.items) == 0 {
		return Event{}, false
	}
	e := q.items[0]
	q.items[0] = Event{}
	q.items = q.items[1:]
	if e.media() {
		q.media--
	}
	return e, true
}

// Next waits for the next event. It returns false when ctx is done or the
// queue is closed and drained.
func (q *Queue) Next(ctx context.Context) (Event, bool) {
	for {
		q.mu.Lock()
		e, ok := q.popLocked()
		closed := q.closed
		q.mu.Unlock()

		if ok {
			return e, true
		}
		if closed {
			return Event{}, false
		}

		select {
		case <-q.ready:
		case <-ctx.Done():
			return Event{}, false
		}
	}
}

// Len returns the number of waiting events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped returns how many media events were discarded.
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Close stops accepting events. Waiting events can still be drained.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}
