package vision

import (
	"sync"
	"time"
)

// latencyTracker хранит длительности последних инференсов для
// диагностики производительности.
type latencyTracker struct {
	mu      sync.Mutex
	samples []time.Duration
	keep    int
}

func newLatencyTracker() *latencyTracker {
	// Усредняем по последним десяти вызовам.
	return &latencyTracker{keep: 10}
}

func (t *latencyTracker) observe(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples = append(t.samples, d)
	if len(t.samples) > t.keep {
		t.samples = t.samples[len(t.samples)-t.keep:]
	}
}

func (t *latencyTracker) average() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.samples) == 0 {
		return 0
	}
	var sum time.Duration
	for _, sample := range t.samples {
		sum += sample
	}
	return sum / time.Duration(len(t.samples))
}
