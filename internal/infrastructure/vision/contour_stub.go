//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"fabric-sort/internal/domain/entity"
	"fabric-sort/internal/domain/port"
)

// ContourDetector заглушка детектора (сборка без OpenCV).
type ContourDetector struct {
	threshold float64
	latency   *latencyTracker
}

var _ port.DefectDetector = (*ContourDetector)(nil)

// NewContourDetector создаёт детектор-заглушку (без OpenCV).
func NewContourDetector(modelPath string, threshold float64) (*ContourDetector, error) {
	_ = modelPath
	return &ContourDetector{
		threshold: threshold,
		latency:   newLatencyTracker(),
	}, nil
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *ContourDetector) Detect(ctx context.Context, frame *entity.Frame) ([]entity.Detection, error) {
	_ = ctx
	_ = frame
	return nil, errors.Wrap(entity.ErrInference, "gocv build tag is not enabled")
}

// AvgLatency возвращает среднее время инференса.
func (d *ContourDetector) AvgLatency() time.Duration {
	return d.latency.average()
}
