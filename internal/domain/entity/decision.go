package entity

import "time"

// Verdict итог проверки одного кадра
type Verdict string

const (
	VerdictDefective    Verdict = "defective"     // найден дефект
	VerdictNonDefective Verdict = "non_defective" // дефектов нет
)

// SortDecision решение сортировки для одного кадра. Живёт один цикл:
// создаётся оркестратором и потребляется манипулятором.
type SortDecision struct {
	Verdict   Verdict    // итог проверки
	Triggered *Detection // детекция с максимальной уверенностью (nil для годных)
	FrameSeq  uint64     // номер кадра-источника
	DecidedAt time.Time  // момент принятия решения
}

// Defective сообщает, требует ли решение отправки в брак.
func (d SortDecision) Defective() bool {
	return d.Verdict == VerdictDefective
}

// Decide выводит решение из списка детекций. Порог включающий:
// уверенность, равная порогу, считается дефектом. Детекции должны
// быть отсортированы по убыванию уверенности.
func Decide(frameSeq uint64, detections []Detection, threshold float64) SortDecision {
	decision := SortDecision{
		Verdict:   VerdictNonDefective,
		FrameSeq:  frameSeq,
		DecidedAt: time.Now(),
	}

	for i := range detections {
		if detections[i].Confidence >= threshold {
			top := detections[i]
			decision.Verdict = VerdictDefective
			decision.Triggered = &top
			break
		}
	}

	return decision
}
