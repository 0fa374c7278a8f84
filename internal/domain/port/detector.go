package port

import (
	"context"
	"time"

	"fabric-sort/internal/domain/entity"
)

// DefectDetector интерфейс детектора дефектов
type DefectDetector interface {
	// Detect анализирует кадр и возвращает детекции, отсортированные
	// по убыванию уверенности. Фильтрация по порогу происходит внутри:
	// всё ниже порога отбрасывается до возврата.
	Detect(ctx context.Context, frame *entity.Frame) ([]entity.Detection, error)

	// AvgLatency возвращает среднее время инференса по последним вызовам.
	AvgLatency() time.Duration
}
