package vision

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fabric-sort/internal/domain/entity"
)

func TestScriptedDetector_FiltersByThreshold(t *testing.T) {
	detector := NewScriptedDetector(0.5)
	detector.Script(1,
		entity.Detection{Category: entity.DefectHole, Confidence: 0.5},
		entity.Detection{Category: entity.DefectTear, Confidence: 0.49},
		entity.Detection{Category: entity.DefectStain, Confidence: 0.8},
	)

	detections, err := detector.Detect(context.Background(), entity.NewFrame(nil, 1, 1, 1))
	require.NoError(t, err)

	// Равная порогу уверенность проходит, ниже — нет; сортировка по
	// убыванию.
	require.Len(t, detections, 2)
	require.Equal(t, entity.DefectStain, detections[0].Category)
	require.Equal(t, entity.DefectHole, detections[1].Category)
	require.Equal(t, uint64(1), detections[0].FrameSeq)
}

func TestScriptedDetector_UnknownFrameIsClean(t *testing.T) {
	detector := NewScriptedDetector(0.5)

	detections, err := detector.Detect(context.Background(), entity.NewFrame(nil, 1, 1, 99))
	require.NoError(t, err)
	require.Empty(t, detections)
}

func TestPeriodicDetector_EveryNthFrame(t *testing.T) {
	detector := NewPeriodicDetector(0.5, 3, entity.Detection{
		Category:   entity.DefectHole,
		Confidence: 0.9,
	})

	for seq := uint64(1); seq <= 6; seq++ {
		detections, err := detector.Detect(context.Background(), entity.NewFrame(nil, 1, 1, seq))
		require.NoError(t, err)
		if seq%3 == 0 {
			require.Len(t, detections, 1, "frame %d", seq)
			require.Equal(t, seq, detections[0].FrameSeq)
		} else {
			require.Empty(t, detections, "frame %d", seq)
		}
	}
}

func TestPeriodicDetector_BelowThresholdStaysClean(t *testing.T) {
	detector := NewPeriodicDetector(0.5, 2, entity.Detection{
		Category:   entity.DefectHole,
		Confidence: 0.3,
	})

	detections, err := detector.Detect(context.Background(), entity.NewFrame(nil, 1, 1, 2))
	require.NoError(t, err)
	require.Empty(t, detections)
}

func TestLatencyTracker_AveragesLastSamples(t *testing.T) {
	tracker := newLatencyTracker()
	require.Zero(t, tracker.average())

	tracker.observe(10 * time.Millisecond)
	tracker.observe(30 * time.Millisecond)
	require.Equal(t, 20*time.Millisecond, tracker.average())

	// Окно держит только последние десять замеров.
	for i := 0; i < 10; i++ {
		tracker.observe(time.Millisecond)
	}
	require.Equal(t, time.Millisecond, tracker.average())
}
