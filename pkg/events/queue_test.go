package events

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/user/avplay/pkg/rgb"
)

func TestQueue_PreservesOrder(t *testing.T) {
	q := NewQueue(10)
	img := rgb.New(image.Rect(0, 0, 2, 2))

	q.DurationChanged(5000)
	q.FrameReady(img)
	q.PositionChanged(40)
	q.ErrorOccurred("boom")

	want := []Kind{KindDuration, KindFrame, KindPosition, KindError}
	for i, k := range want {
		e, ok := q.TryNext()
		if !ok {
			t.Fatalf("event %d missing", i)
		}
		if e.Kind != k {
			t.Errorf("event %d kind = %s, want %s", i, e.Kind, k)
		}
	}

	if _, ok := q.TryNext(); ok {
		t.Error("expected empty queue")
	}
}

func TestQueue_DropsOldestMediaOnly(t *testing.T) {
	q := NewQueue(2)

	q.DurationChanged(1000)
	q.PositionChanged(1)
	q.PositionChanged(2)
	q.ErrorOccurred("late")
	q.PositionChanged(3)

	if q.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", q.Dropped())
	}

	var got []Event
	for {
		e, ok := q.TryNext()
		if !ok {
			break
		}
		got = append(got, e)
	}

	if len(got) != 4 {
		t.Fatalf("got %d events, want 4", len(got))
	}
	if got[0].Kind != KindDuration || got[0].Ms != 1000 {
		t.Errorf("first event = %+v, want duration 1000", got[0])
	}
	if got[1].Kind != KindPosition || got[1].Ms != 2 {
		t.Errorf("second event = %+v, want position 2", got[1])
	}
	if got[2].Kind != KindError {
		t.Errorf("third event = %+v, want error", got[2])
	}
	if got[3].Ms != 3 {
		t.Errorf("fourth event = %+v, want position 3", got[3])
	}
}

func TestQueue_NextWaits(t *testing.T) {
	q := NewQueue(0)

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.PositionChanged(80)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	e, ok := q.Next(ctx)
	if !ok {
		t.Fatal("Next returned no event")
	}
	if e.Ms != 80 {
		t.Errorf("Ms = %d, want 80", e.Ms)
	}
}

func TestQueue_NextHonoursContext(t *testing.T) {
	q := NewQueue(0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, ok := q.Next(ctx); ok {
		t.Error("Next should return false when context expires")
	}
}

func TestQueue_CloseDrains(t *testing.T) {
	q := NewQueue(0)
	q.DurationChanged(1)
	q.Close()
	q.DurationChanged(2)

	ctx := context.Background()
	e, ok := q.Next(ctx)
	if !ok || e.Ms != 1 {
		t.Fatalf("Next after close = %+v, %v", e, ok)
	}
	if _, ok := q.Next(ctx); ok {
		t.Error("Next on closed, drained queue should return false")
	}
}

func TestKind_String(t *testing.T) {
	if KindFrame.String() != "frameReady" {
		t.Errorf("KindFrame.String() = %q", KindFrame.String())
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("Kind(99).String() = %q", Kind(99).String())
	}
}
