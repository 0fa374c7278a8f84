package telemetry

import (
	"sync/atomic"

	"fabric-sort/internal/domain/entity"
	"fabric-sort/internal/domain/port"
)

// ChannelSink отдаёт телеметрию внешним наблюдателям через канал.
// Публикация не блокирует цикл инспекции: при заполненном канале
// запись отбрасывается — свежий статус важнее полной истории.
type ChannelSink struct {
	ch      chan entity.StatusRecord
	dropped atomic.Uint64
}

var _ port.StatusSink = (*ChannelSink)(nil)

// NewChannelSink создаёт приёмник с буфером заданной глубины.
func NewChannelSink(depth int) *ChannelSink {
	if depth <= 0 {
		depth = 16
	}
	return &ChannelSink{ch: make(chan entity.StatusRecord, depth)}
}

// Publish кладёт запись в канал без блокировки.
func (s *ChannelSink) Publish(record entity.StatusRecord) {
	select {
	case s.ch <- record:
	default:
		s.dropped.Add(1)
	}
}

// Records возвращает канал для чтения телеметрии.
func (s *ChannelSink) Records() <-chan entity.StatusRecord {
	return s.ch
}

// Dropped возвращает число отброшенных записей.
func (s *ChannelSink) Dropped() uint64 {
	return s.dropped.Load()
}

// MultiSink рассылает запись нескольким приёмникам.
type MultiSink []port.StatusSink

var _ port.StatusSink = (MultiSink)(nil)

// Publish отправляет запись каждому приёмнику по очереди.
func (m MultiSink) Publish(record entity.StatusRecord) {
	for _, sink := range m {
		sink.Publish(record)
	}
}
