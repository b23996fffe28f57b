package pcm

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"
)

func TestExpectedSamples(t *testing.T) {
	tests := []struct {
		name  string
		delay int64
		nb    int64
		want  int
	}{
		{"no delay", 0, 1024, 1024},
		{"with delay", 16, 1024, 1040},
		{"negative delay", -5, 10, 10},
		{"empty frame", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpectedSamples(tt.delay, tt.nb); got != tt.want {
				t.Errorf("ExpectedSamples(%d, %d) = %d, want %d", tt.delay, tt.nb, got, tt.want)
			}
		})
	}
}

func TestBufferSize(t *testing.T) {
	if got := BufferSize(1024, Channels, BytesPerSample); got != 4096 {
		t.Errorf("BufferSize(1024) = %d, want 4096", got)
	}
	if got := BufferSize(0, Channels, BytesPerSample); got != 0 {
		t.Errorf("BufferSize(0) = %d, want 0", got)
	}
	if got := BufferSize(10, 0, 2); got != 0 {
		t.Errorf("BufferSize with zero channels = %d, want 0", got)
	}
}

func TestBuffer_WriteRead(t *testing.T) {
	b := NewBuffer(8)

	n, err := b.Write([]byte{1, 2, 3, 4, 5})
	if err != nil || n != 5 {
		t.Fatalf("Write = %d, %v", n, err)
	}

	p := make([]byte, 3)
	n, err = b.Read(p)
	if err != nil || n != 3 {
		t.Fatalf("Read = %d, %v", n, err)
	}
	if !bytes.Equal(p, []byte{1, 2, 3}) {
		t.Errorf("Read data = %v", p)
	}

	// Wraps around the end of the ring.
	if _, err := b.Write([]byte{6, 7, 8, 9, 10}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if b.Len() != 7 {
		t.Errorf("Len = %d, want 7", b.Len())
	}

	out := make([]byte, 16)
	n, _ = b.Read(out)
	if !bytes.Equal(out[:n], []byte{4, 5, 6, 7, 8, 9, 10}) {
		t.Errorf("Read after wrap = %v", out[:n])
	}
}

func TestBuffer_ShortWriteWhenFull(t *testing.T) {
	b := NewBuffer(4)

	n, err := b.Write([]byte{1, 2, 3, 4, 5, 6})
	if n != 4 {
		t.Errorf("Write n = %d, want 4", n)
	}
	if !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("Write err = %v, want io.ErrShortWrite", err)
	}
	if b.Dropped() != 2 {
		t.Errorf("Dropped = %d, want 2", b.Dropped())
	}
}

func TestBuffer_ReadBlocksUntilWrite(t *testing.T) {
	b := NewBuffer(4)
	got := make(chan []byte, 1)

	go func() {
		p := make([]byte, 4)
		n, _ := b.Read(p)
		got <- p[:n]
	}()

	time.Sleep(20 * time.Millisecond)
	b.Write([]byte{42})

	select {
	case p := <-got:
		if !bytes.Equal(p, []byte{42}) {
			t.Errorf("Read = %v, want [42]", p)
		}
	case <-time.After(time.Second):
		t.Fatal("Read did not wake up after Write")
	}
}

func TestBuffer_CloseDrainsThenEOF(t *testing.T) {
	b := NewBuffer(4)
	b.Write([]byte{1, 2})
	b.Close()

	p := make([]byte, 4)
	n, err := b.Read(p)
	if n != 2 || err != nil {
		t.Fatalf("Read after close = %d, %v", n, err)
	}
	if _, err := b.Read(p); err != io.EOF {
		t.Errorf("Read on drained closed buffer err = %v, want io.EOF", err)
	}
	if _, err := b.Write([]byte{1}); err == nil {
		t.Error("Write after Close should fail")
	}
}

func TestBuffer_Reset(t *testing.T) {
	b := NewBuffer(4)
	b.Write([]byte{1, 2, 3})
	b.Reset()
	if b.Len() != 0 {
		t.Errorf("Len after Reset = %d", b.Len())
	}
}

func TestBuffer_ReadOrSilence(t *testing.T) {
	b := NewBuffer(8)
	b.Write([]byte{1, 2})

	p := []byte{9, 9, 9, 9}
	n, err := b.ReadOrSilence(p)
	if n != 4 || err != nil {
		t.Fatalf("ReadOrSilence = %d, %v", n, err)
	}
	if !bytes.Equal(p, []byte{1, 2, 0, 0}) {
		t.Errorf("ReadOrSilence data = %v, want [1 2 0 0]", p)
	}
	if b.Available() != 8 {
		t.Errorf("Available = %d, want 8", b.Available())
	}

	b.Close()
	if _, err := b.ReadOrSilence(p); err != io.EOF {
		t.Errorf("ReadOrSilence after close err = %v, want io.EOF", err)
	}
}
