package vision

import (
	"context"
	"time"

	"fabric-sort/internal/domain/entity"
	"fabric-sort/internal/domain/port"
)

// PeriodicDetector помечает дефектным каждый N-й кадр. Используется в
// симуляции без модели: манипулятору нужен поток решений обоих видов.
type PeriodicDetector struct {
	every     uint64
	detection entity.Detection
	threshold float64
	latency   *latencyTracker
}

var _ port.DefectDetector = (*PeriodicDetector)(nil)

// NewPeriodicDetector создаёт детектор с периодом и образцом детекции.
func NewPeriodicDetector(threshold float64, every uint64, detection entity.Detection) *PeriodicDetector {
	if every == 0 {
		every = 4
	}
	return &PeriodicDetector{
		every:     every,
		detection: detection,
		threshold: threshold,
		latency:   newLatencyTracker(),
	}
}

// Detect возвращает образец детекции на каждом N-м кадре.
func (d *PeriodicDetector) Detect(ctx context.Context, frame *entity.Frame) ([]entity.Detection, error) {
	_ = ctx
	start := time.Now()
	defer func() { d.latency.observe(time.Since(start)) }()

	if frame.Seq%d.every != 0 || d.detection.Confidence < d.threshold {
		return nil, nil
	}

	detection := d.detection
	detection.FrameSeq = frame.Seq
	return []entity.Detection{detection}, nil
}

// AvgLatency возвращает среднее время инференса.
func (d *PeriodicDetector) AvgLatency() time.Duration {
	return d.latency.average()
}
