package port

import (
	"context"

	"fabric-sort/internal/domain/entity"
)

// Arm интерфейс контроллера манипулятора
type Arm interface {
	// MoveTo выполняет согласованное движение всех суставов к пресету
	// и блокируется до установки или отказа. Повторный вызов во время
	// движения возвращает ErrAlreadyMoving.
	MoveTo(ctx context.Context, preset entity.PresetName) error

	// Grip открывает или закрывает захват и ждёт установки.
	Grip(ctx context.Context, open bool) error

	// HandleObject выполняет полную последовательность pick-and-place:
	// Home → Pickup → захват → контейнер → отпуск → Home.
	HandleObject(ctx context.Context, defective bool) error

	// EmergencyStop немедленно останавливает движение из любой фазы.
	EmergencyStop(reason string)

	// Reset возвращает контроллер в Idle после аварийной остановки или
	// сбоя. Перед снятием блокировки проверяет датчики суставов.
	Reset() error

	// State возвращает снимок состояния (только чтение).
	State() entity.ArmState
}
