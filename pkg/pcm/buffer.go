package pcm

import (
	"io"
	"sync"
)

// Buffer is a bounded byte ring between a producer that must never block
// and a consumer that may. Write accepts as much as fits and drops the
// rest. Read blocks until data is available or the buffer is closed.
type Buffer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	data   []byte
	head   int
	size   int
	closed bool

	dropped int64
}

// NewBuffer creates a buffer holding at most capacity bytes.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 1
	}
	b := &Buffer{data: make([]byte, capacity)}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Write copies as much of p as fits. The returned count may be short; the
// error is io.ErrShortWrite in that case so callers can account for drops.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, io.ErrClosedPipe
	}

	free := len(b.data) - b.size
	n := len(p)
	if n > free {
		n = free
	}
	tail := (b.head + b.size) % len(b.data)
	first := copy(b.data[tail:], p[:n])
	if first < n {
		copy(b.data, p[first:n])
	}
	b.size += n
	if n > 0 {
		b.cond.Broadcast()
	}
	if n < len(p) {
		b.dropped += int64(len(p) - n)
		return n, io.ErrShortWrite
	}
	return n, nil
}

// Read blocks until at least one byte is buffered, then copies up to
// len(p) bytes. After Close it drains what remains and then returns io.EOF.
func (b *Buffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for b.size == 0 && !b.closed {
		b.cond.Wait()
	}
	if b.size == 0 {
		return 0, io.EOF
	}

	return b.readLocked(p), nil
}

// readLocked must be called with mu held.
func (b *Buffer) readLocked(p []byte) int {
	n := len(p)
	if n > b.size {
		n = b.size
	}
	first := copy(p[:n], b.data[b.head:])
	if first < n {
		copy(p[first:n], b.data)
	}
	b.head = (b.head + n) % len(b.data)
	b.size -= n
	return n
}

// ReadOrSilence copies up to len(p) buffered bytes and zero-fills the rest
// of p, so a device callback never stalls on an empty buffer. After Close
// it behaves like Read.
func (b *Buffer) ReadOrSilence(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed && b.size == 0 {
		return 0, io.EOF
	}

	n := b.readLocked(p)
	if b.closed {
		return n, nil
	}
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

// Available returns the number of bytes Write can accept without dropping.
func (b *Buffer) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data) - b.size
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Dropped returns the number of bytes Write could not accept.
func (b *Buffer) Dropped() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Reset discards buffered data.
func (b *Buffer) Reset() {
	b.mu.Lock()
	b.head = 0
	b.size = 0
	b.mu.Unlock()
}

// Close wakes blocked readers. It is safe to call more than once.
func (b *Buffer) Close() error {
	b.mu.Lock()
	b.closed = true
	b.cond.Broadcast()
	b.mu.Unlock()
	return nil
}
