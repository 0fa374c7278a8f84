package port

import (
	"context"

	"fabric-sort/internal/domain/entity"
)

// FrameSource интерфейс источника кадров
type FrameSource interface {
	// NextFrame блокируется до появления следующего кадра, но не дольше
	// настроенного таймаута. Возвращает ErrCaptureTimeout при простое
	// камеры и ErrHardwareUnavailable при недоступном устройстве.
	NextFrame(ctx context.Context) (*entity.Frame, error)

	// FPS возвращает скользящую частоту кадров (диагностика).
	FPS() float64

	// Close освобождает устройство захвата.
	Close() error
}
