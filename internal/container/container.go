package container

import (
	"log/slog"

	"fabric-sort/config"
	app "fabric-sort/internal/application"
	"fabric-sort/internal/domain/entity"
	"fabric-sort/internal/domain/port"
	"fabric-sort/internal/infrastructure/arm"
	"fabric-sort/internal/infrastructure/camera"
	"fabric-sort/internal/infrastructure/storage"
	"fabric-sort/internal/infrastructure/vision"
	"fabric-sort/internal/telemetry"
)

// Container собранный конвейер со всеми зависимостями.
type Container struct {
	Source       port.FrameSource
	Detector     port.DefectDetector
	Arm          port.Arm
	Repo         port.InspectionRepository
	Sink         port.StatusSink
	Stop         *entity.StopFlag
	Orchestrator *app.SortOrchestrator

	sqlite *storage.SQLiteInspectionRepository
}

// New собирает конвейер по конфигурации: симуляция или железо
// выбираются на узких границах (источник кадров, детектор, привод),
// вся остальная логика общая.
func New(cfg *config.Config, log *slog.Logger) (*Container, error) {
	if log == nil {
		log = slog.Default()
	}

	stop := entity.NewStopFlag()

	presets, err := cfg.Presets()
	if err != nil {
		return nil, err
	}

	c := &Container{Stop: stop}

	// Источник кадров.
	if cfg.Simulation {
		c.Source = camera.NewSimulatedSource(camera.SimulatedConfig{
			Width:          cfg.CameraWidth,
			Height:         cfg.CameraHeight,
			FrameInterval:  cfg.FrameInterval(),
			CaptureTimeout: cfg.CaptureTimeout,
			WithDefects:    cfg.SimDefects,
		})
	} else {
		source, err := camera.NewDeviceSource(cfg.CameraDevice, cfg.CameraWidth, cfg.CameraHeight, cfg.CaptureTimeout)
		if err != nil {
			return nil, err
		}
		c.Source = source
	}

	// Детектор.
	if cfg.Simulation {
		c.Detector = simulationDetector(cfg.DetectionThreshold)
	} else {
		detector, err := vision.NewContourDetector(cfg.ModelPath, cfg.DetectionThreshold)
		if err != nil {
			c.Source.Close()
			return nil, err
		}
		c.Detector = detector
	}

	// Манипулятор: симулированный привод за той же границей, что и
	// аппаратный.
	actuator := arm.NewSimulatedActuator()
	controller, err := arm.NewController(actuator, presets, stop, arm.Config{
		Steps:           cfg.MovementSteps,
		StepDelay:       cfg.MovementDelay,
		SettleTimeout:   cfg.SettleTimeout,
		SettleTolerance: cfg.SettleTolerance,
		GripperSettle:   cfg.GripperSettle,
	}, log)
	if err != nil {
		c.Source.Close()
		return nil, err
	}
	c.Arm = controller

	// Журнал инспекций.
	if cfg.DBPath != "" {
		repo, err := storage.NewSQLiteInspectionRepository(cfg.DBPath)
		if err != nil {
			c.Source.Close()
			return nil, err
		}
		c.Repo = repo
		c.sqlite = repo
	} else {
		c.Repo = storage.NewMemoryInspectionRepository()
	}

	c.Sink = telemetry.NewSlogSink(log)

	c.Orchestrator = app.NewSortOrchestrator(
		c.Source, c.Detector, c.Arm, c.Repo, c.Sink, stop,
		app.OrchestratorConfig{
			Threshold:      cfg.DetectionThreshold,
			QueueDepth:     cfg.QueueDepth,
			CaptureRetries: cfg.CaptureRetries,
			PauseInterval:  cfg.PauseInterval,
		}, log)

	return c, nil
}

// simulationDetector детектор для прогона без модели: каждый
// четвёртый кадр помечается дефектным, чтобы манипулятору было что
// сортировать.
func simulationDetector(threshold float64) port.DefectDetector {
	return vision.NewPeriodicDetector(threshold, 4, entity.Detection{
		Category:   entity.DefectHole,
		Confidence: 0.9,
		Region:     entity.Region{X: 0.2, Y: 0.45, Width: 0.1, Height: 0.1},
	})
}

// Close освобождает ресурсы конвейера.
func (c *Container) Close() error {
	var first error
	if c.Source != nil {
		if err := c.Source.Close(); err != nil {
			first = err
		}
	}
	if c.sqlite != nil {
		if err := c.sqlite.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
