package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"fabric-sort/internal/domain/entity"
	"fabric-sort/internal/domain/port"
)

// OrchestratorConfig настройки цикла сортировки.
type OrchestratorConfig struct {
	Threshold      float64       // порог уверенности для решения "брак"
	QueueDepth     int           // глубина очереди решений
	CaptureRetries int           // попыток захвата до эскалации в паузу
	PauseInterval  time.Duration // длительность паузы после эскалации
	StopPoll       time.Duration // период опроса флага остановки
}

func (c OrchestratorConfig) withDefaults() OrchestratorConfig {
	if c.QueueDepth <= 0 {
		c.QueueDepth = 8
	}
	if c.CaptureRetries <= 0 {
		c.CaptureRetries = 3
	}
	if c.PauseInterval <= 0 {
		c.PauseInterval = 2 * time.Second
	}
	if c.StopPoll <= 0 {
		c.StopPoll = 50 * time.Millisecond
	}
	return c
}

// SortOrchestrator цикл инспекции: захват → инференс → решение →
// сортировка манипулятором. Захват и инференс идут в одном потоке
// управления, действия манипулятора — в отдельном, поэтому захват
// никогда не ждёт окончания движения. Решения применяются строго в
// порядке захвата кадров (FIFO).
type SortOrchestrator struct {
	source   port.FrameSource
	detector port.DefectDetector
	arm      port.Arm
	repo     port.InspectionRepository // может быть nil
	sink     port.StatusSink           // может быть nil
	stop     *entity.StopFlag
	cfg      OrchestratorConfig
	log      *slog.Logger

	queue chan entity.SortDecision

	mu          sync.Mutex
	counters    entity.CycleCounters
	lastVerdict entity.Verdict
	lastErr     string
	drained     bool
}

// NewSortOrchestrator собирает оркестратор из портов конвейера.
func NewSortOrchestrator(
	source port.FrameSource,
	detector port.DefectDetector,
	arm port.Arm,
	repo port.InspectionRepository,
	sink port.StatusSink,
	stop *entity.StopFlag,
	cfg OrchestratorConfig,
	log *slog.Logger,
) *SortOrchestrator {
	cfg = cfg.withDefaults()
	if log == nil {
		log = slog.Default()
	}

	return &SortOrchestrator{
		source:   source,
		detector: detector,
		arm:      arm,
		repo:     repo,
		sink:     sink,
		stop:     stop,
		cfg:      cfg,
		log:      log.With("component", "orchestrator"),
		queue:    make(chan entity.SortDecision, cfg.QueueDepth),
	}
}

// Run крутит цикл инспекции до отмены контекста. Запускает воркер
// манипулятора и дожидается его завершения при выходе.
func (o *SortOrchestrator) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.armWorker(ctx)
	}()
	defer wg.Wait()

	retries := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if o.stop.Engaged() {
			o.drainOnce()
			o.emitStatus("emergency stop engaged: " + o.stop.Reason())
			if err := sleepCtx(ctx, o.cfg.StopPoll); err != nil {
				return err
			}
			continue
		}
		o.clearDrained()

		frame, err := o.source.NextFrame(ctx)
		if err != nil {
			switch {
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				return err
			case errors.Is(err, entity.ErrCaptureTimeout):
				o.countCaptureError()
				retries++
				o.log.Warn("capture timeout", "attempt", retries)
				if retries > o.cfg.CaptureRetries {
					// Эскалация: камера молчит, переходим в паузу.
					o.log.Error("capture retries exhausted, pausing capture loop")
					o.emitStatus("capture paused: " + err.Error())
					if err := sleepCtx(ctx, o.cfg.PauseInterval); err != nil {
						return err
					}
					retries = 0
				}
				continue
			default:
				// Недоступное устройство лечится только снаружи.
				return err
			}
		}
		retries = 0

		o.processFrame(ctx, frame)
	}
}

// EmergencyStop останавливает манипулятор и приостанавливает цикл.
func (o *SortOrchestrator) EmergencyStop(reason string) {
	o.arm.EmergencyStop(reason)
}

// Reset снимает аварийную остановку и возобновляет цикл.
func (o *SortOrchestrator) Reset() error {
	return o.arm.Reset()
}

// processFrame один цикл: инференс, решение, постановка в очередь,
// запись в журнал, телеметрия.
func (o *SortOrchestrator) processFrame(ctx context.Context, frame *entity.Frame) {
	detections, err := o.detector.Detect(ctx, frame)
	if err != nil {
		// Один плохой кадр никогда не останавливает конвейер.
		o.log.Warn("inference failed", "seq", frame.Seq, "error", err)
		o.countInferenceError()
		detections = nil
	}

	decision := entity.Decide(frame.Seq, detections, o.cfg.Threshold)
	o.recordDecision(decision)

	select {
	case o.queue <- decision:
	default:
		// Захват не ждёт манипулятор: переполнение фиксируем и идём дальше.
		o.countOverflow()
		o.log.Warn("decision queue full, dropping decision", "seq", frame.Seq)
	}

	if o.repo != nil {
		if err := o.repo.Save(ctx, entity.NewInspectionRecord(frame.CapturedAt, decision)); err != nil {
			o.log.Warn("inspection record save failed", "error", err)
		}
	}

	o.emitStatus("")
}

// armWorker применяет решения к манипулятору в порядке их постановки.
func (o *SortOrchestrator) armWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case decision := <-o.queue:
			if o.stop.Engaged() {
				continue
			}
			if err := o.arm.HandleObject(ctx, decision.Defective()); err != nil {
				o.log.Error("sort action failed", "seq", decision.FrameSeq, "error", err)
				o.setLastErr(err.Error())
			}
		}
	}
}

// drainOnce сбрасывает очередь решений один раз на каждую аварийную
// остановку: накопленная работа отбрасывается.
func (o *SortOrchestrator) drainOnce() {
	o.mu.Lock()
	if o.drained {
		o.mu.Unlock()
		return
	}
	o.drained = true
	o.mu.Unlock()

	dropped := 0
	for {
		select {
		case <-o.queue:
			dropped++
		default:
			if dropped > 0 {
				o.log.Warn("decision queue drained", "dropped", dropped)
			}
			return
		}
	}
}

func (o *SortOrchestrator) clearDrained() {
	o.mu.Lock()
	o.drained = false
	o.mu.Unlock()
}

func (o *SortOrchestrator) recordDecision(decision entity.SortDecision) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.counters.Frames++
	if decision.Defective() {
		o.counters.Defective++
	} else {
		o.counters.Good++
	}
	o.lastVerdict = decision.Verdict
}

func (o *SortOrchestrator) countCaptureError() {
	o.mu.Lock()
	o.counters.CaptureErrors++
	o.mu.Unlock()
}

func (o *SortOrchestrator) countInferenceError() {
	o.mu.Lock()
	o.counters.InferenceErrors++
	o.mu.Unlock()
}

func (o *SortOrchestrator) countOverflow() {
	o.mu.Lock()
	o.counters.QueueOverflows++
	o.mu.Unlock()
}

func (o *SortOrchestrator) setLastErr(msg string) {
	o.mu.Lock()
	o.lastErr = msg
	o.mu.Unlock()
}

// emitStatus публикует запись телеметрии после каждого цикла,
// независимо от исхода.
func (o *SortOrchestrator) emitStatus(errText string) {
	if o.sink == nil {
		return
	}

	armState := o.arm.State()

	o.mu.Lock()
	record := entity.StatusRecord{
		Timestamp:   time.Now(),
		FPS:         o.source.FPS(),
		LastVerdict: o.lastVerdict,
		ArmPhase:    armState.Phase,
		ArmPosition: armState.Position,
		QueueDepth:  len(o.queue),
		Counters:    o.counters,
		Err:         errText,
	}
	if record.Err == "" {
		record.Err = o.lastErr
	}
	o.mu.Unlock()

	o.sink.Publish(record)
}

// sleepCtx пауза с уважением к отмене контекста.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
