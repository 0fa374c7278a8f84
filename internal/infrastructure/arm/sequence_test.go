package arm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fabric-sort/internal/domain/entity"
)

func TestHandleObject_DefectiveGoesToDefectBin(t *testing.T) {
	fake := newFakeActuator()
	ctrl := newTestController(t, fake, testConfig())

	require.NoError(t, ctrl.HandleObject(context.Background(), true))

	state := ctrl.State()
	require.Equal(t, entity.PhaseIdle, state.Phase)
	require.Equal(t, entity.PresetHome, state.Position)
	require.True(t, state.GripperOpen)

	// Второе раскрытие захвата — отпуск ткани: рука должна стоять над
	// контейнером брака.
	require.Len(t, fake.openSnapshots, 2)
	release := fake.openSnapshots[1]
	for _, target := range entity.DefaultPresets()[entity.PresetDefectBin] {
		require.InDelta(t, target.Angle, release[target.Joint], 1e-9)
	}
}

func TestHandleObject_GoodGoesToGoodBin(t *testing.T) {
	fake := newFakeActuator()
	ctrl := newTestController(t, fake, testConfig())

	require.NoError(t, ctrl.HandleObject(context.Background(), false))

	require.Len(t, fake.openSnapshots, 2)
	release := fake.openSnapshots[1]
	for _, target := range entity.DefaultPresets()[entity.PresetGoodBin] {
		require.InDelta(t, target.Angle, release[target.Joint], 1e-9)
	}
}

func TestHandleObject_SkipsHomeWhenAlreadyThere(t *testing.T) {
	fake := newFakeActuator()
	ctrl := newTestController(t, fake, testConfig())

	require.NoError(t, ctrl.MoveTo(context.Background(), entity.PresetHome))
	before := fake.writes()

	require.NoError(t, ctrl.HandleObject(context.Background(), false))
	require.Greater(t, fake.writes(), before)
	require.Equal(t, entity.PresetHome, ctrl.State().Position)
}

func TestHandleObject_GripFaultKeepsGripperOpen(t *testing.T) {
	fake := newFakeActuator()
	// Записи захвата: init, open_for_pick, grip_close.
	fake.failGripAt = 3
	ctrl := newTestController(t, fake, testConfig())

	err := ctrl.HandleObject(context.Background(), true)
	require.ErrorIs(t, err, entity.ErrHardwareFault)

	var seqErr *SequenceError
	require.ErrorAs(t, err, &seqErr)
	require.Equal(t, StepGripClose, seqErr.Step)

	// Ткань не зажата: захват так и остался раскрытым, рука в Error.
	require.True(t, fake.gripper())
	require.Equal(t, entity.PhaseError, ctrl.State().Phase)
}

func TestHandleObject_MoveFaultReleasesFabric(t *testing.T) {
	fake := newFakeActuator()
	ctrl := newTestController(t, fake, testConfig())

	// Обрываем шину приводов сразу после зажима ткани: подъём сорвётся.
	fake.onGripWrite = func(n int, open bool) {
		if n == 3 && !open {
			fake.mu.Lock()
			fake.failJointAt = fake.jointWrites + 1
			fake.mu.Unlock()
		}
	}

	err := ctrl.HandleObject(context.Background(), true)
	require.ErrorIs(t, err, entity.ErrHardwareFault)

	var seqErr *SequenceError
	require.ErrorAs(t, err, &seqErr)
	require.Equal(t, StepLift, seqErr.Step)

	// Безопасное завершение: ткань отпущена, контроллер ждёт сброса.
	require.True(t, fake.gripper())
	require.True(t, ctrl.State().GripperOpen)
	require.Equal(t, entity.PhaseError, ctrl.State().Phase)
}

func TestHandleObject_EmergencyStopFreezesGripper(t *testing.T) {
	fake := newFakeActuator()
	ctrl := newTestController(t, fake, testConfig())

	// Авария в момент, когда ткань уже зажата.
	fake.onGripWrite = func(n int, open bool) {
		if n == 3 && !open {
			ctrl.EmergencyStop("test trigger")
		}
	}

	err := ctrl.HandleObject(context.Background(), true)
	require.ErrorIs(t, err, entity.ErrEmergencyStopped)

	// Захват заморожен в текущем положении: ткань не роняется.
	require.False(t, fake.gripper())
	require.Equal(t, entity.PhaseEmergencyStopped, ctrl.State().Phase)
}

func TestHandleObject_RejectsConcurrentSequence(t *testing.T) {
	fake := newFakeActuator()
	cfg := testConfig()
	cfg.Steps = 50
	cfg.StepDelay = 2 * time.Millisecond
	ctrl := newTestController(t, fake, cfg)

	done := make(chan error, 1)
	go func() { done <- ctrl.HandleObject(context.Background(), true) }()

	require.Eventually(t, func() bool {
		return ctrl.State().Moving
	}, time.Second, time.Millisecond)

	require.ErrorIs(t, ctrl.HandleObject(context.Background(), false), entity.ErrAlreadyMoving)
	require.NoError(t, <-done)
}

// TestHandleObject_SimulationParity прогоняет одинаковый сценарий на
// симулированном приводе и на тестовом "железе": последовательность
// наблюдаемых состояний обязана совпасть, потому что подмена происходит
// только на границе привода.
func TestHandleObject_SimulationParity(t *testing.T) {
	type observation struct {
		Phase       entity.ArmPhase
		Position    entity.PresetName
		GripperOpen bool
	}

	script := func(ctrl *Controller) []observation {
		var trace []observation
		observe := func() {
			state := ctrl.State()
			trace = append(trace, observation{state.Phase, state.Position, state.GripperOpen})
		}

		ctx := context.Background()
		observe()
		require.NoError(t, ctrl.MoveTo(ctx, entity.PresetHome))
		observe()
		require.NoError(t, ctrl.HandleObject(ctx, true))
		observe()
		require.NoError(t, ctrl.HandleObject(ctx, false))
		observe()
		ctrl.EmergencyStop("parity check")
		observe()
		require.NoError(t, ctrl.Reset())
		observe()
		return trace
	}

	simCtrl, err := NewController(NewSimulatedActuator(), entity.DefaultPresets(), entity.NewStopFlag(), testConfig(), testLogger())
	require.NoError(t, err)
	hwCtrl := newTestController(t, newFakeActuator(), testConfig())

	require.Equal(t, script(simCtrl), script(hwCtrl))
}

func TestSequenceError_Unwrap(t *testing.T) {
	err := &SequenceError{Step: StepMoveBin, Err: entity.ErrSettleTimeout}
	require.ErrorIs(t, err, entity.ErrSettleTimeout)
	require.Contains(t, err.Error(), "move_bin")
}
