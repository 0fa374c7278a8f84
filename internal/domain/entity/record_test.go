package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewInspectionRecord_Defective(t *testing.T) {
	capturedAt := time.Now()
	decision := SortDecision{
		Verdict:  VerdictDefective,
		FrameSeq: 12,
		Triggered: &Detection{
			Category:   DefectTear,
			Confidence: 0.8,
			Region:     Region{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4},
		},
	}

	record := NewInspectionRecord(capturedAt, decision)
	require.NotEmpty(t, record.ID)
	require.Equal(t, uint64(12), record.FrameSeq)
	require.Equal(t, VerdictDefective, record.Verdict)
	require.Equal(t, DefectTear, record.Category)
	require.Equal(t, 0.8, record.Confidence)
	require.Equal(t, capturedAt, record.CapturedAt)
}

func TestNewInspectionRecord_Good(t *testing.T) {
	record := NewInspectionRecord(time.Now(), SortDecision{Verdict: VerdictNonDefective, FrameSeq: 5})
	require.Equal(t, VerdictNonDefective, record.Verdict)
	require.Empty(t, string(record.Category))
	require.Zero(t, record.Confidence)
}
