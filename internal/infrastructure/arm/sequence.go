package arm

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"fabric-sort/internal/domain/entity"
)

// SequenceStep шаг последовательности pick-and-place
type SequenceStep string

const (
	StepMoveHome    SequenceStep = "move_home"     // выход в исходную позицию
	StepMovePickup  SequenceStep = "move_pickup"   // подход к точке забора
	StepOpenForPick SequenceStep = "open_for_pick" // раскрытие захвата перед забором
	StepGripClose   SequenceStep = "grip_close"    // зажим ткани
	StepLift        SequenceStep = "lift"          // подъём перед переносом
	StepMoveBin     SequenceStep = "move_bin"      // перенос к контейнеру
	StepGripOpen    SequenceStep = "grip_open"     // отпуск ткани
	StepReturnHome  SequenceStep = "return_home"   // возврат в исходную позицию
)

// SequenceError ошибка последовательности с указанием сорвавшегося шага.
type SequenceError struct {
	Step SequenceStep
	Err  error
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("sequence step %s: %v", e.Step, e.Err)
}

func (e *SequenceError) Unwrap() error {
	return e.Err
}

// HandleObject выполняет полную последовательность pick-and-place:
// Home → Pickup → зажим → контейнер (брак или годные) → отпуск → Home.
// Последовательность атомарна: любой сорвавшийся шаг прерывает её,
// контроллер остаётся в Idle или Error, а захват безопасно
// открывается — кроме аварийной остановки, при которой положение
// захвата намеренно заморожено.
func (c *Controller) HandleObject(ctx context.Context, defective bool) error {
	if !c.seqMu.TryLock() {
		return entity.ErrAlreadyMoving
	}
	defer c.seqMu.Unlock()

	bin := entity.PresetGoodBin
	if defective {
		bin = entity.PresetDefectBin
	}
	c.log.Info("pick-and-place started", "defective", defective)

	steps := []struct {
		name SequenceStep
		run  func() error
	}{
		{StepMoveHome, func() error {
			if c.State().Position == entity.PresetHome {
				return nil
			}
			return c.MoveTo(ctx, entity.PresetHome)
		}},
		{StepMovePickup, func() error { return c.MoveTo(ctx, entity.PresetPickup) }},
		{StepOpenForPick, func() error {
			if c.State().GripperOpen {
				return nil
			}
			return c.Grip(ctx, true)
		}},
		{StepGripClose, func() error { return c.Grip(ctx, false) }},
		{StepLift, func() error { return c.moveLift(ctx) }},
		{StepMoveBin, func() error { return c.MoveTo(ctx, bin) }},
		{StepGripOpen, func() error { return c.Grip(ctx, true) }},
		{StepReturnHome, func() error { return c.MoveTo(ctx, entity.PresetHome) }},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			c.abortSequence(step.name, err)
			return &SequenceError{Step: step.name, Err: err}
		}
	}

	c.log.Info("pick-and-place complete", "bin", string(bin))
	return nil
}

// moveLift поднимает руку в промежуточную точку перед переносом,
// чтобы не тянуть ткань по рабочему столу.
func (c *Controller) moveLift(ctx context.Context) error {
	state := c.State()
	preset := entity.Preset{
		{Joint: entity.JointBase, Angle: state.Joints[entity.JointBase]},
		{Joint: entity.JointShoulder, Angle: 45},
		{Joint: entity.JointElbow, Angle: 45},
	}

	if err := c.begin(entity.PhaseMoving); err != nil {
		return err
	}
	err := c.execute(ctx, preset)
	c.finish(entity.PositionUnknown, err)
	return err
}

// abortSequence закрывает прерванную последовательность: если причина
// не аварийная остановка, захват открывается, чтобы не оставить ткань
// зажатой.
func (c *Controller) abortSequence(step SequenceStep, cause error) {
	c.log.Error("pick-and-place aborted", "step", string(step), "error", cause)

	if errors.Is(cause, entity.ErrEmergencyStopped) {
		return
	}
	if c.State().GripperOpen {
		return
	}
	if err := c.releaseGripper(); err != nil {
		c.log.Error("safe gripper release failed", "error", err)
	}
}

// releaseGripper открывает захват в обход автомата состояний.
// Используется только при аварийном прерывании последовательности,
// когда контроллер уже в Error и обычный Grip отклонил бы команду.
func (c *Controller) releaseGripper() error {
	if err := c.actuator.SetGripper(true); err != nil {
		return err
	}
	c.mu.Lock()
	c.gripperOpen = true
	c.mu.Unlock()
	return nil
}
