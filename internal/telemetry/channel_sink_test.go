package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fabric-sort/internal/domain/entity"
)

func TestChannelSink_PublishNeverBlocks(t *testing.T) {
	sink := NewChannelSink(2)

	for i := 0; i < 5; i++ {
		sink.Publish(entity.StatusRecord{QueueDepth: i})
	}

	// Переполнение не блокирует публикацию: лишнее отброшено и посчитано.
	require.Equal(t, uint64(3), sink.Dropped())
	require.Len(t, sink.Records(), 2)

	first := <-sink.Records()
	require.Equal(t, 0, first.QueueDepth)
}

func TestMultiSink_FansOut(t *testing.T) {
	first := NewChannelSink(1)
	second := NewChannelSink(1)
	multi := MultiSink{first, second}

	multi.Publish(entity.StatusRecord{QueueDepth: 7})

	require.Equal(t, 7, (<-first.Records()).QueueDepth)
	require.Equal(t, 7, (<-second.Records()).QueueDepth)
}
