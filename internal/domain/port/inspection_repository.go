package port

import (
	"context"

	"fabric-sort/internal/domain/entity"
)

// InspectionRepository интерфейс журнала инспекций
type InspectionRepository interface {
	// Save сохраняет запись о проверенном кадре.
	Save(ctx context.Context, record *entity.InspectionRecord) error

	// Recent возвращает последние записи, новые первыми.
	Recent(ctx context.Context, limit int) ([]entity.InspectionRecord, error)

	// CountByVerdict возвращает количество записей по каждому решению.
	CountByVerdict(ctx context.Context) (map[entity.Verdict]int, error)
}
