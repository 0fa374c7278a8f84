package entity

import (
	"time"

	"github.com/google/uuid"
)

// InspectionRecord итог проверки одного кадра для журнала инспекций.
type InspectionRecord struct {
	ID         string         // уникальный идентификатор записи
	FrameSeq   uint64         // номер кадра
	CapturedAt time.Time      // момент захвата кадра
	Verdict    Verdict        // решение сортировки
	Category   DefectCategory // тип дефекта (пусто для годных)
	Confidence float64        // уверенность детекции
	Region     Region         // область дефекта
}

// NewInspectionRecord строит запись журнала из решения сортировки.
func NewInspectionRecord(capturedAt time.Time, decision SortDecision) *InspectionRecord {
	record := &InspectionRecord{
		ID:         uuid.NewString(),
		FrameSeq:   decision.FrameSeq,
		CapturedAt: capturedAt,
		Verdict:    decision.Verdict,
	}
	if decision.Triggered != nil {
		record.Category = decision.Triggered.Category
		record.Confidence = decision.Triggered.Confidence
		record.Region = decision.Triggered.Region
	}
	return record
}
