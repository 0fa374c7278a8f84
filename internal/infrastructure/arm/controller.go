package arm

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"fabric-sort/internal/domain/entity"
	"fabric-sort/internal/domain/port"
)

// Config настройки исполнителя траекторий.
type Config struct {
	Steps           int           // базовое число шагов траектории
	StepDelay       time.Duration // пауза между шагами
	SettleTimeout   time.Duration // предел ожидания установки суставов
	SettleTolerance float64       // допуск установки в градусах
	GripperSettle   time.Duration // время установки захвата
}

func (c Config) withDefaults() Config {
	if c.Steps <= 0 {
		c.Steps = 50
	}
	if c.StepDelay < 0 {
		c.StepDelay = 0
	}
	if c.SettleTimeout <= 0 {
		c.SettleTimeout = 2 * time.Second
	}
	if c.SettleTolerance <= 0 {
		c.SettleTolerance = 2.0
	}
	if c.GripperSettle < 0 {
		c.GripperSettle = 0
	}
	return c
}

// Controller контроллер манипулятора. Владеет состоянием суставов и
// захвата; всё изменение состояния идёт через его примитивы движения.
// Один исполнитель продвигает траектории всех суставов за каждый тик,
// поэтому согласованное завершение — структурное свойство, а не
// эмерджентное.
type Controller struct {
	actuator port.Actuator
	presets  entity.PresetTable
	cfg      Config
	stop     *entity.StopFlag
	log      *slog.Logger

	// seqMu держится на всю последовательность pick-and-place.
	seqMu sync.Mutex

	mu          sync.Mutex
	phase       entity.ArmPhase
	joints      map[entity.Joint]float64
	gripperOpen bool
	position    entity.PresetName
	lastErr     error
}

var _ port.Arm = (*Controller)(nil)

// NewController создаёт контроллер, читает исходные углы с приводов и
// закрывает захват, как требует исходная позиция.
func NewController(actuator port.Actuator, presets entity.PresetTable, stop *entity.StopFlag, cfg Config, log *slog.Logger) (*Controller, error) {
	if err := presets.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid preset table")
	}
	if log == nil {
		log = slog.Default()
	}

	c := &Controller{
		actuator: actuator,
		presets:  presets,
		cfg:      cfg.withDefaults(),
		stop:     stop,
		log:      log.With("component", "arm"),
		phase:    entity.PhaseIdle,
		joints:   make(map[entity.Joint]float64),
		position: entity.PositionUnknown,
	}

	for joint := range jointSet(presets) {
		angle, err := actuator.ReadJointAngle(joint)
		if err != nil {
			return nil, errors.Wrapf(entity.ErrHardwareFault, "read joint %s: %v", joint, err)
		}
		c.joints[joint] = angle
	}

	// Стартуем с закрытым захватом.
	if err := actuator.SetGripper(false); err != nil {
		return nil, errors.Wrapf(entity.ErrHardwareFault, "init gripper: %v", err)
	}
	c.gripperOpen = false

	c.log.Info("arm controller initialized", "joints", len(c.joints))
	return c, nil
}

// jointSet собирает объединение суставов всех пресетов.
func jointSet(presets entity.PresetTable) map[entity.Joint]struct{} {
	set := make(map[entity.Joint]struct{})
	for _, preset := range presets {
		for _, target := range preset {
			set[target.Joint] = struct{}{}
		}
	}
	return set
}

// MoveTo выполняет согласованное движение всех суставов к пресету.
func (c *Controller) MoveTo(ctx context.Context, name entity.PresetName) error {
	preset, ok := c.presets[name]
	if !ok {
		return errors.Errorf("unknown preset %q", name)
	}

	if err := c.begin(entity.PhaseMoving); err != nil {
		return err
	}

	c.log.Debug("move started", "preset", string(name))
	err := c.execute(ctx, preset)
	c.finish(name, err)
	if err == nil {
		c.log.Debug("move settled", "preset", string(name))
	}
	return err
}

// Grip открывает или закрывает захват и ждёт установки.
func (c *Controller) Grip(ctx context.Context, open bool) error {
	if err := c.begin(entity.PhaseGripping); err != nil {
		return err
	}

	err := c.executeGrip(ctx, open)
	c.finishGrip(open, err)
	return err
}

// EmergencyStop немедленно останавливает манипулятор из любой фазы.
// Захват остаётся в текущем положении намеренно: состояние заморожено
// до явного Reset оператором.
func (c *Controller) EmergencyStop(reason string) {
	c.stop.Trigger(reason)

	c.mu.Lock()
	c.phase = entity.PhaseEmergencyStopped
	c.lastErr = entity.ErrEmergencyStopped
	c.mu.Unlock()

	c.log.Warn("EMERGENCY STOP", "reason", reason)
}

// Reset возвращает контроллер в Idle после аварийной остановки или
// сбоя. Перед разблокировкой проверяет, что показания датчиков всех
// суставов в пределах хода.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != entity.PhaseEmergencyStopped && c.phase != entity.PhaseError {
		return nil
	}

	for joint := range c.joints {
		angle, err := c.actuator.ReadJointAngle(joint)
		if err != nil {
			c.phase = entity.PhaseError
			c.lastErr = errors.Wrapf(entity.ErrHardwareFault, "read joint %s: %v", joint, err)
			return c.lastErr
		}
		if angle < entity.JointAngleMin || angle > entity.JointAngleMax {
			c.phase = entity.PhaseError
			c.lastErr = errors.Wrapf(entity.ErrHardwareFault, "joint %s out of bounds: %.1f", joint, angle)
			return c.lastErr
		}
		c.joints[joint] = angle
	}

	c.stop.Clear()
	c.phase = entity.PhaseIdle
	c.lastErr = nil
	c.log.Info("arm reset to idle")
	return nil
}

// State возвращает снимок состояния (только чтение).
func (c *Controller) State() entity.ArmState {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := entity.ArmState{
		Phase:       c.phase,
		Joints:      make(map[entity.Joint]float64, len(c.joints)),
		GripperOpen: c.gripperOpen,
		Position:    c.position,
		Moving:      c.phase == entity.PhaseMoving || c.phase == entity.PhaseGripping,
	}
	for joint, angle := range c.joints {
		state.Joints[joint] = angle
	}
	if c.lastErr != nil {
		state.LastError = c.lastErr.Error()
	}
	return state
}

// begin переводит автомат из Idle в рабочую фазу либо отклоняет
// команду по текущему состоянию.
func (c *Controller) begin(next entity.ArmPhase) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stop.Engaged() || c.phase == entity.PhaseEmergencyStopped {
		return entity.ErrEmergencyStopped
	}

	switch c.phase {
	case entity.PhaseIdle:
	case entity.PhaseMoving, entity.PhaseGripping:
		return entity.ErrAlreadyMoving
	case entity.PhaseError:
		return errors.Wrap(entity.ErrHardwareFault, "reset required")
	}

	c.phase = next
	return nil
}

// execute продвигает траектории всех суставов по общему счётчику
// шагов. Флаг аварийной остановки проверяется на каждом шаге, поэтому
// остановка срабатывает не позже одного шага траектории.
func (c *Controller) execute(ctx context.Context, preset entity.Preset) error {
	c.mu.Lock()
	current := make(map[entity.Joint]float64, len(c.joints))
	for joint, angle := range c.joints {
		current[joint] = angle
	}
	c.mu.Unlock()

	profiles, steps := plan(current, preset, c.cfg.Steps, c.cfg.StepDelay)

	for step := 1; step <= steps; step++ {
		if c.stop.Engaged() {
			return entity.ErrEmergencyStopped
		}

		t := float64(step) / float64(steps)
		for _, profile := range profiles {
			angle := profile.at(t)
			if err := c.actuator.SetJointAngle(profile.joint, angle); err != nil {
				return errors.Wrapf(entity.ErrHardwareFault, "set joint %s: %v", profile.joint, err)
			}
			c.setJoint(profile.joint, angle)
		}

		if err := sleepCtx(ctx, c.cfg.StepDelay); err != nil {
			return err
		}
	}

	// Точные конечные углы: сглаживание не должно накапливать остаток.
	for _, profile := range profiles {
		if err := c.actuator.SetJointAngle(profile.joint, profile.to); err != nil {
			return errors.Wrapf(entity.ErrHardwareFault, "set joint %s: %v", profile.joint, err)
		}
		c.setJoint(profile.joint, profile.to)
	}

	return c.awaitSettle(ctx, profiles)
}

// awaitSettle ждёт, пока показания всех суставов сойдутся к целям в
// пределах допуска, но не дольше SettleTimeout.
func (c *Controller) awaitSettle(ctx context.Context, profiles []jointProfile) error {
	deadline := time.Now().Add(c.cfg.SettleTimeout)
	poll := c.cfg.StepDelay
	if poll <= 0 {
		poll = time.Millisecond
	}

	for {
		if c.stop.Engaged() {
			return entity.ErrEmergencyStopped
		}

		settled := true
		for _, profile := range profiles {
			angle, err := c.actuator.ReadJointAngle(profile.joint)
			if err != nil {
				return errors.Wrapf(entity.ErrHardwareFault, "read joint %s: %v", profile.joint, err)
			}
			if diff := angle - profile.to; diff > c.cfg.SettleTolerance || diff < -c.cfg.SettleTolerance {
				settled = false
				break
			}
		}
		if settled {
			return nil
		}

		if time.Now().After(deadline) {
			return errors.Wrapf(entity.ErrSettleTimeout, "after %s", c.cfg.SettleTimeout)
		}
		if err := sleepCtx(ctx, poll); err != nil {
			return err
		}
	}
}

// executeGrip выставляет захват и пережидает его установку, проверяя
// флаг аварийной остановки с шагом траектории.
func (c *Controller) executeGrip(ctx context.Context, open bool) error {
	if c.stop.Engaged() {
		return entity.ErrEmergencyStopped
	}

	if err := c.actuator.SetGripper(open); err != nil {
		return errors.Wrapf(entity.ErrHardwareFault, "set gripper: %v", err)
	}
	c.mu.Lock()
	c.gripperOpen = open
	c.mu.Unlock()

	slice := c.cfg.StepDelay
	if slice <= 0 {
		slice = time.Millisecond
	}
	for waited := time.Duration(0); waited < c.cfg.GripperSettle; waited += slice {
		if c.stop.Engaged() {
			return entity.ErrEmergencyStopped
		}
		if err := sleepCtx(ctx, slice); err != nil {
			return err
		}
	}
	if c.stop.Engaged() {
		return entity.ErrEmergencyStopped
	}
	return nil
}

// finish закрывает движение: фаза и позиция по причине завершения.
// Успех не перекрывает взведённый флаг аварийной остановки.
func (c *Controller) finish(position entity.PresetName, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil && c.stop.Engaged() {
		err = entity.ErrEmergencyStopped
	}

	switch {
	case err == nil:
		c.phase = entity.PhaseIdle
		c.position = position
		c.lastErr = nil
	case errors.Is(err, entity.ErrEmergencyStopped):
		c.phase = entity.PhaseEmergencyStopped
		c.position = entity.PositionUnknown
		c.lastErr = err
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		// Остановка процесса, не сбой железа.
		c.phase = entity.PhaseIdle
		c.position = entity.PositionUnknown
		c.lastErr = err
	default:
		c.phase = entity.PhaseError
		c.position = entity.PositionUnknown
		c.lastErr = err
	}
}

func (c *Controller) finishGrip(open bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil && c.stop.Engaged() {
		err = entity.ErrEmergencyStopped
	}

	switch {
	case err == nil:
		c.phase = entity.PhaseIdle
		c.gripperOpen = open
		c.lastErr = nil
	case errors.Is(err, entity.ErrEmergencyStopped):
		c.phase = entity.PhaseEmergencyStopped
		c.lastErr = err
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		c.phase = entity.PhaseIdle
		c.lastErr = err
	default:
		c.phase = entity.PhaseError
		c.lastErr = err
	}
}

func (c *Controller) setJoint(joint entity.Joint, angle float64) {
	c.mu.Lock()
	c.joints[joint] = angle
	c.mu.Unlock()
}

// sleepCtx пауза с уважением к отмене контекста.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
