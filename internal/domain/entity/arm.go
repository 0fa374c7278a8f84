package entity

// ArmPhase состояние конечного автомата манипулятора
type ArmPhase string

const (
	PhaseIdle             ArmPhase = "idle"              // готов к команде
	PhaseMoving           ArmPhase = "moving"            // выполняется движение
	PhaseGripping         ArmPhase = "gripping"          // работает захват
	PhaseEmergencyStopped ArmPhase = "emergency_stopped" // аварийная остановка
	PhaseError            ArmPhase = "error"             // аппаратный сбой
)

// Joint идентификатор сустава манипулятора
type Joint string

const (
	JointBase     Joint = "base"     // поворот основания
	JointShoulder Joint = "shoulder" // плечо
	JointElbow    Joint = "elbow"    // локоть
)

// Joints перечисляет все суставы в фиксированном порядке.
func Joints() []Joint {
	return []Joint{JointBase, JointShoulder, JointElbow}
}

// ArmState снимок состояния манипулятора. Снимок только для чтения:
// изменения идут исключительно через контроллер.
type ArmState struct {
	Phase       ArmPhase          // текущая фаза автомата
	Joints      map[Joint]float64 // углы суставов в градусах
	GripperOpen bool              // захват открыт
	Position    PresetName        // последняя достигнутая позиция
	Moving      bool              // движение в процессе
	LastError   string            // последняя ошибка (пусто если нет)
}

// Clone возвращает независимую копию снимка.
func (s ArmState) Clone() ArmState {
	out := s
	out.Joints = make(map[Joint]float64, len(s.Joints))
	for joint, angle := range s.Joints {
		out.Joints[joint] = angle
	}
	return out
}
