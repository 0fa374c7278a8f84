//go:build gocv
// +build gocv

package camera

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"fabric-sort/internal/domain/entity"
	"fabric-sort/internal/domain/port"
)

// DeviceSource захватывает кадры с физической камеры через OpenCV.
type DeviceSource struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
	width   int
	height  int
	timeout time.Duration
	seq     uint64
	meter   *fpsMeter
}

var _ port.FrameSource = (*DeviceSource)(nil)

// NewDeviceSource открывает камеру по индексу устройства.
func NewDeviceSource(deviceID, width, height int, timeout time.Duration) (*DeviceSource, error) {
	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, errors.Wrapf(entity.ErrHardwareUnavailable, "open camera %d: %v", deviceID, err)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(height))

	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &DeviceSource{
		capture: capture,
		mat:     gocv.NewMat(),
		width:   width,
		height:  height,
		timeout: timeout,
		meter:   newFPSMeter(),
	}, nil
}

// NextFrame читает кадр с камеры, повторяя попытки до таймаута.
func (s *DeviceSource) NextFrame(ctx context.Context) (*entity.Frame, error) {
	deadline := time.Now().Add(s.timeout)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.capture.Read(&s.mat) && !s.mat.Empty() {
			break
		}
		if time.Now().After(deadline) {
			return nil, entity.ErrCaptureTimeout
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Копируем буфер: Mat переиспользуется на следующем чтении.
	raw := s.mat.ToBytes()
	pixels := make([]byte, len(raw))
	copy(pixels, raw)

	s.seq++
	frame := entity.NewFrame(pixels, s.mat.Cols(), s.mat.Rows(), s.seq)
	s.meter.tick()
	return frame, nil
}

// FPS возвращает скользящую частоту кадров.
func (s *DeviceSource) FPS() float64 {
	return s.meter.value()
}

// Close освобождает камеру.
func (s *DeviceSource) Close() error {
	if err := s.mat.Close(); err != nil {
		return err
	}
	return s.capture.Close()
}
