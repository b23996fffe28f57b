package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/avplay/pkg/ports"
)

// Transport is a mock player transport that records every call.
type Transport struct {
	mu sync.Mutex

	StartErr error
	Calls    []string
	Seeks    []int64
	Volumes  []float64
}

func (m *Transport) record(call string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	m.mu.Unlock()
}

func (m *Transport) Start(ctx context.Context) error {
	m.record("start")
	return m.StartErr
}

func (m *Transport) Pause()  { m.record("pause") }
func (m *Transport) Resume() { m.record("resume") }
func (m *Transport) Stop()   { m.record("stop") }

func (m *Transport) Seek(ms int64) {
	m.mu.Lock()
	m.Seeks = append(m.Seeks, ms)
	m.mu.Unlock()
	m.record(fmt.Sprintf("seek %d", ms))
}

func (m *Transport) SetVolume(v float64) {
	m.mu.Lock()
	m.Volumes = append(m.Volumes, v)
	m.mu.Unlock()
	m.record(fmt.Sprintf("volume %.2f", v))
}

// History returns a copy of the recorded calls.
func (m *Transport) History() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}

var _ ports.Transport = (*Transport)(nil)
