package health

import (
	"context"
	"sync"
	"time"
)

// Pinger is implemented by every event store backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Status struct {
	Ready     bool      `json:"ready"`
	CheckedAt time.Time `json:"checked_at"`
	Error     string    `json:"error,omitempty"`
}

// Monitor remembers the outcome of the latest store check.
type Monitor struct {
	pinger  Pinger
	timeout time.Duration

	mu     sync.RWMutex
	status Status
}

func NewMonitor(pinger Pinger, timeout time.Duration) *Monitor {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Monitor{pinger: pinger, timeout: timeout}
}

// Check pings the store once and records the result.
func (m *Monitor) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.pinger.Ping(ctx)

	status := Status{Ready: err == nil, CheckedAt: time.Now().UTC()}
	if err != nil {
		status.Error = err.Error()
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()

	return err
}

func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}
