package vision

import (
	"context"
	"sync"
	"time"

	"fabric-sort/internal/domain/entity"
	"fabric-sort/internal/domain/port"
)

// ScriptedDetector воспроизводит заранее заданные детекции по номеру
// кадра. Используется в симуляции и в тестах оркестратора: порог и
// сортировка работают так же, как у настоящего детектора.
type ScriptedDetector struct {
	mu        sync.Mutex
	script    map[uint64][]entity.Detection
	threshold float64
	latency   *latencyTracker
}

var _ port.DefectDetector = (*ScriptedDetector)(nil)

// NewScriptedDetector создаёт детектор с порогом уверенности.
func NewScriptedDetector(threshold float64) *ScriptedDetector {
	return &ScriptedDetector{
		script:    make(map[uint64][]entity.Detection),
		threshold: threshold,
		latency:   newLatencyTracker(),
	}
}

// Script задаёт детекции для кадра с данным номером.
func (d *ScriptedDetector) Script(seq uint64, detections ...entity.Detection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.script[seq] = detections
}

// Detect возвращает детекции сценария, отфильтрованные по порогу и
// отсортированные по убыванию уверенности.
func (d *ScriptedDetector) Detect(ctx context.Context, frame *entity.Frame) ([]entity.Detection, error) {
	_ = ctx
	start := time.Now()

	d.mu.Lock()
	scripted := d.script[frame.Seq]
	d.mu.Unlock()

	detections := make([]entity.Detection, 0, len(scripted))
	for _, detection := range scripted {
		// Порог включающий: равная порогу уверенность проходит.
		if detection.Confidence >= d.threshold {
			detection.FrameSeq = frame.Seq
			detections = append(detections, detection)
		}
	}
	entity.SortByConfidence(detections)

	d.latency.observe(time.Since(start))
	return detections, nil
}

// AvgLatency возвращает среднее время инференса.
func (d *ScriptedDetector) AvgLatency() time.Duration {
	return d.latency.average()
}
