package entity

import "time"

// CycleCounters накопительные счётчики работы конвейера.
type CycleCounters struct {
	Frames          uint64 // обработано кадров
	Defective       uint64 // решений "брак"
	Good            uint64 // решений "годная"
	QueueOverflows  uint64 // решений отброшено из-за переполнения очереди
	CaptureErrors   uint64 // ошибок захвата
	InferenceErrors uint64 // ошибок инференса
}

// StatusRecord запись телеметрии, публикуемая после каждого цикла.
// Только наружу: обратной связи в конвейер нет.
type StatusRecord struct {
	Timestamp   time.Time     // момент публикации
	FPS         float64       // скользящий FPS источника кадров
	LastVerdict Verdict       // последнее решение (пусто до первого кадра)
	ArmPhase    ArmPhase      // фаза манипулятора
	ArmPosition PresetName    // позиция манипулятора
	QueueDepth  int           // текущая глубина очереди решений
	Counters    CycleCounters // накопительные счётчики
	Err         string        // последняя ошибка цикла (пусто если нет)
}
