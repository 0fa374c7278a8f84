package storage

import (
	"context"
	"sync"

	"fabric-sort/internal/domain/entity"
	"fabric-sort/internal/domain/port"
)

// MemoryInspectionRepository in-memory журнал инспекций
type MemoryInspectionRepository struct {
	mu      sync.RWMutex
	records []entity.InspectionRecord
}

// NewMemoryInspectionRepository создаёт новый in-memory журнал
func NewMemoryInspectionRepository() *MemoryInspectionRepository {
	return &MemoryInspectionRepository{}
}

// Save сохраняет запись о проверенном кадре
func (r *MemoryInspectionRepository) Save(ctx context.Context, record *entity.InspectionRecord) error {
	_ = ctx

	r.mu.Lock()
	r.records = append(r.records, *record)
	r.mu.Unlock()

	return nil
}

// Recent возвращает последние записи, новые первыми
func (r *MemoryInspectionRepository) Recent(ctx context.Context, limit int) ([]entity.InspectionRecord, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.records) {
		limit = len(r.records)
	}

	out := make([]entity.InspectionRecord, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[i])
	}

	return out, nil
}

// CountByVerdict возвращает количество записей по каждому решению
func (r *MemoryInspectionRepository) CountByVerdict(ctx context.Context) (map[entity.Verdict]int, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[entity.Verdict]int)
	for i := range r.records {
		counts[r.records[i].Verdict]++
	}

	return counts, nil
}

// Проверка реализации интерфейса
var _ port.InspectionRepository = (*MemoryInspectionRepository)(nil)
