package camera

import (
	"sync"
	"time"
)

// fpsWindow период пересчёта скользящего FPS.
const fpsWindow = 5 * time.Second

// fpsMeter скользящий счётчик частоты кадров. Диагностика, на
// корректность конвейера не влияет.
type fpsMeter struct {
	mu    sync.Mutex
	count int
	start time.Time
	fps   float64
}

func newFPSMeter() *fpsMeter {
	return &fpsMeter{start: time.Now()}
}

// tick учитывает один захваченный кадр и раз в окно пересчитывает FPS.
func (m *fpsMeter) tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.count++
	elapsed := time.Since(m.start)
	if elapsed >= fpsWindow {
		m.fps = float64(m.count) / elapsed.Seconds()
		m.count = 0
		m.start = time.Now()
	}
}

func (m *fpsMeter) value() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fps
}
