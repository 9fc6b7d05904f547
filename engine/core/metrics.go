package core

import (
	"sync"
	"time"

	"github.com/spaghettifunk/modelview/engine/containers"
)

const AVG_COUNT int = 30

// LoadSample is one finished load as shown on the performance overlay.
type LoadSample struct {
	Asset    string
	Strategy string
	Duration time.Duration
	Failed   bool
}

type MetricsState struct {
	mu      sync.Mutex
	samples *containers.RingQueue[LoadSample]
	loads   int
	fails   int
}

func NewMetrics() *MetricsState {
	return &MetricsState{
		samples: containers.NewRingQueue[LoadSample](AVG_COUNT),
	}
}

func (m *MetricsState) Record(s LoadSample) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.samples.Push(s)
	m.loads++
	if s.Failed {
		m.fails++
	}
}

// AverageLoadTime is the mean over the last AVG_COUNT successful loads.
func (m *MetricsState) AverageLoadTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total time.Duration
	n := 0
	for _, s := range m.samples.Items() {
		if s.Failed {
			continue
		}
		total += s.Duration
		n++
	}
	if n == 0 {
		return 0
	}
	return total / time.Duration(n)
}

// Counts returns the total number of loads and how many of them failed.
func (m *MetricsState) Counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads, m.fails
}

// Recent returns the retained samples, oldest first.
func (m *MetricsState) Recent() []LoadSample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.samples.Items()
}
