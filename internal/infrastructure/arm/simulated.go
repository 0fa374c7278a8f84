package arm

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"fabric-sort/internal/domain/entity"
	"fabric-sort/internal/domain/port"
)

// SimulatedActuator заглушка привода: запоминает выставленные углы и
// возвращает их при чтении. Подмена происходит на узкой границе
// привода, поэтому автомат состояний в симуляции и на железе один и
// тот же — параллельного кода нет.
type SimulatedActuator struct {
	mu          sync.Mutex
	joints      map[entity.Joint]float64
	gripperOpen bool

	// WriteDelay имитирует время отработки привода (0 в тестах).
	WriteDelay time.Duration
}

var _ port.Actuator = (*SimulatedActuator)(nil)

// NewSimulatedActuator создаёт привод со всеми суставами в среднем
// положении.
func NewSimulatedActuator() *SimulatedActuator {
	joints := make(map[entity.Joint]float64)
	for _, joint := range entity.Joints() {
		joints[joint] = 90
	}
	return &SimulatedActuator{joints: joints}
}

// SetJointAngle запоминает угол сустава.
func (a *SimulatedActuator) SetJointAngle(joint entity.Joint, angle float64) error {
	if angle < entity.JointAngleMin || angle > entity.JointAngleMax {
		return errors.Errorf("angle %.1f out of range for joint %s", angle, joint)
	}

	if a.WriteDelay > 0 {
		time.Sleep(a.WriteDelay)
	}

	a.mu.Lock()
	a.joints[joint] = angle
	a.mu.Unlock()
	return nil
}

// ReadJointAngle возвращает последний выставленный угол. Сустав, к
// которому ещё не обращались, считается стоящим в среднем положении.
func (a *SimulatedActuator) ReadJointAngle(joint entity.Joint) (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	angle, ok := a.joints[joint]
	if !ok {
		angle = 90
		a.joints[joint] = angle
	}
	return angle, nil
}

// SetGripper запоминает положение захвата.
func (a *SimulatedActuator) SetGripper(open bool) error {
	if a.WriteDelay > 0 {
		time.Sleep(a.WriteDelay)
	}

	a.mu.Lock()
	a.gripperOpen = open
	a.mu.Unlock()
	return nil
}

// GripperOpen возвращает текущее положение захвата (для проверок).
func (a *SimulatedActuator) GripperOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gripperOpen
}
