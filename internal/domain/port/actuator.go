package port

import "fabric-sort/internal/domain/entity"

// Actuator узкая граница с железом манипулятора. Это единственный
// интерфейс, который обязана реализовать симуляция: вся логика
// автомата состояний выше этой границы общая.
type Actuator interface {
	// SetJointAngle выставляет угол сустава в градусах.
	SetJointAngle(joint entity.Joint, angle float64) error

	// ReadJointAngle читает текущий угол сустава.
	ReadJointAngle(joint entity.Joint) (float64, error)

	// SetGripper открывает или закрывает захват.
	SetGripper(open bool) error
}
