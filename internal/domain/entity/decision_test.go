package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecide_NoDetections(t *testing.T) {
	decision := Decide(7, nil, 0.5)
	require.Equal(t, VerdictNonDefective, decision.Verdict)
	require.Nil(t, decision.Triggered)
	require.Equal(t, uint64(7), decision.FrameSeq)
	require.False(t, decision.Defective())
}

func TestDecide_ThresholdIsInclusive(t *testing.T) {
	detections := []Detection{{Category: DefectHole, Confidence: 0.5}}

	decision := Decide(1, detections, 0.5)
	require.Equal(t, VerdictDefective, decision.Verdict)
	require.NotNil(t, decision.Triggered)
	require.Equal(t, 0.5, decision.Triggered.Confidence)
}

func TestDecide_BelowThreshold(t *testing.T) {
	detections := []Detection{{Category: DefectHole, Confidence: 0.49}}

	decision := Decide(1, detections, 0.5)
	require.Equal(t, VerdictNonDefective, decision.Verdict)
	require.Nil(t, decision.Triggered)
}

func TestDecide_CarriesTopDetection(t *testing.T) {
	detections := []Detection{
		{Category: DefectSeam, Confidence: 0.9},
		{Category: DefectStain, Confidence: 0.7},
	}

	decision := Decide(3, detections, 0.5)
	require.True(t, decision.Defective())
	require.Equal(t, DefectSeam, decision.Triggered.Category)
	require.Equal(t, 0.9, decision.Triggered.Confidence)
}

func TestSortByConfidence(t *testing.T) {
	detections := []Detection{
		{Category: DefectStain, Confidence: 0.6},
		{Category: DefectHole, Confidence: 0.95},
		{Category: DefectTear, Confidence: 0.7},
	}

	SortByConfidence(detections)
	require.Equal(t, DefectHole, detections[0].Category)
	require.Equal(t, DefectTear, detections[1].Category)
	require.Equal(t, DefectStain, detections[2].Category)
}

func TestRegionCenter(t *testing.T) {
	r := Region{X: 0.2, Y: 0.4, Width: 0.2, Height: 0.2}
	x, y := r.Center()
	require.InDelta(t, 0.3, x, 1e-9)
	require.InDelta(t, 0.5, y, 1e-9)
}
