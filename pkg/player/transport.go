package player

import (
	"math"
	"sync"
	"time"

	"github.com/user/avplay/pkg/ports"
)

// transport is the state shared between the controlling goroutine and the
// engine goroutine. Every field is guarded by mu; the engine waits on cond
// while paused.
type transport struct {
	mu   sync.Mutex
	cond *sync.Cond

	running bool
	paused  bool

	seekMs      int64
	seekPending bool

	volume float64
	sink   ports.AudioSink

	stop       chan struct{}
	stopClosed bool
}

var _ ports.Transport = (*transport)(nil)

// maxSeekMs is the largest target that still fits a time.Duration.
const maxSeekMs = math.MaxInt64 / int64(time.Millisecond)

func newTransport(volume float64) *transport {
	t := &transport{volume: clampVolume(volume)}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// begin marks a new session as running and returns the channel closed by
// Stop. A seek recorded before the session started is kept.
func (t *transport) begin() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running = true
	t.paused = false
	t.stop = make(chan struct{})
	t.stopClosed = false
	return t.stop
}

// finish marks the session as ended. Called after teardown.
func (t *transport) finish() {
	t.mu.Lock()
	t.running = false
	t.paused = false
	t.sink = nil
	t.closeStopLocked()
	t.cond.Broadcast()
	t.mu.Unlock()
}

func (t *transport) Pause() {
	t.mu.Lock()
	t.paused = true
	t.mu.Unlock()
}

func (t *transport) Resume() {
	t.mu.Lock()
	t.paused = false
	t.cond.Broadcast()
	t.mu.Unlock()
}

// Stop never blocks and may be called any number of times.
func (t *transport) Stop() {
	t.mu.Lock()
	t.running = false
	t.paused = false
	t.closeStopLocked()
	t.cond.Broadcast()
	t.mu.Unlock()
}

// stopSession stops only the session that owns stop.
func (t *transport) stopSession(stop <-chan struct{}) {
	t.mu.Lock()
	owned := t.stop != nil && (<-chan struct{})(t.stop) == stop
	t.mu.Unlock()
	if owned {
		t.Stop()
	}
}

func (t *transport) closeStopLocked() {
	if t.stop != nil && !t.stopClosed {
		close(t.stop)
		t.stopClosed = true
	}
}

// Seek records a target in milliseconds. Negative targets become zero,
// targets past maxSeekMs become maxSeekMs, and the last call before the
// engine consumes the target wins.
func (t *transport) Seek(ms int64) {
	if ms < 0 {
		ms = 0
	}
	if ms > maxSeekMs {
		ms = maxSeekMs
	}
	t.mu.Lock()
	t.seekMs = ms
	t.seekPending = true
	t.mu.Unlock()
}

// SetVolume clamps v to [0, 1] and applies it to the live sink, if any.
func (t *transport) SetVolume(v float64) {
	v = clampVolume(v)
	t.mu.Lock()
	t.volume = v
	if t.sink != nil {
		t.sink.SetVolume(v)
	}
	t.mu.Unlock()
}

func (t *transport) Volume() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.volume
}

func (t *transport) isRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *transport) isPaused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

// await blocks while paused. It returns ok=false once the session has been
// stopped. A pending seek is consumed and returned.
func (t *transport) await() (seekMs int64, seek bool, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for t.paused && t.running {
		t.cond.Wait()
	}
	if !t.running {
		return 0, false, false
	}
	if t.seekPending {
		seekMs, seek = t.seekMs, true
		t.seekPending = false
	}
	return seekMs, seek, true
}

// waitWhilePaused blocks while paused and reports whether the session is
// still running.
func (t *transport) waitWhilePaused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for t.paused && t.running {
		t.cond.Wait()
	}
	return t.running
}

// attachSink publishes the live sink and applies the current volume to it.
func (t *transport) attachSink(s ports.AudioSink) {
	t.mu.Lock()
	t.sink = s
	s.SetVolume(t.volume)
	t.mu.Unlock()
}

func (t *transport) detachSink() {
	t.mu.Lock()
	t.sink = nil
	t.mu.Unlock()
}

func clampVolume(v float64) float64 {
	switch {
	case v < 0 || v != v:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
