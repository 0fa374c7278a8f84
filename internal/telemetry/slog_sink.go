package telemetry

import (
	"log/slog"

	"fabric-sort/internal/domain/entity"
	"fabric-sort/internal/domain/port"
)

// SlogSink пишет телеметрию в структурированный лог.
type SlogSink struct {
	log *slog.Logger
}

var _ port.StatusSink = (*SlogSink)(nil)

// NewSlogSink создаёт приёмник телеметрии поверх логгера.
func NewSlogSink(log *slog.Logger) *SlogSink {
	if log == nil {
		log = slog.Default()
	}
	return &SlogSink{log: log.With("component", "telemetry")}
}

// Publish отправляет запись телеметрии в лог.
func (s *SlogSink) Publish(record entity.StatusRecord) {
	attrs := []any{
		"fps", record.FPS,
		"last_verdict", string(record.LastVerdict),
		"arm_phase", string(record.ArmPhase),
		"arm_position", string(record.ArmPosition),
		"queue_depth", record.QueueDepth,
		"frames", record.Counters.Frames,
		"defective", record.Counters.Defective,
		"good", record.Counters.Good,
		"overflows", record.Counters.QueueOverflows,
	}
	if record.Err != "" {
		attrs = append(attrs, "error", record.Err)
		s.log.Warn("status", attrs...)
		return
	}
	s.log.Info("status", attrs...)
}
