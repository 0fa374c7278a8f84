package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fabric-sort/internal/domain/entity"
)

func sampleRecord(seq uint64, verdict entity.Verdict, capturedAt time.Time) *entity.InspectionRecord {
	decision := entity.SortDecision{Verdict: verdict, FrameSeq: seq}
	if verdict == entity.VerdictDefective {
		decision.Triggered = &entity.Detection{
			Category:   entity.DefectHole,
			Confidence: 0.9,
			Region:     entity.Region{X: 0.1, Y: 0.2, Width: 0.05, Height: 0.05},
		}
	}
	return entity.NewInspectionRecord(capturedAt, decision)
}

func TestMemoryRepository_RecentNewestFirst(t *testing.T) {
	repo := NewMemoryInspectionRepository()
	ctx := context.Background()
	base := time.Now()

	for seq := uint64(1); seq <= 3; seq++ {
		require.NoError(t, repo.Save(ctx, sampleRecord(seq, entity.VerdictNonDefective, base.Add(time.Duration(seq)*time.Second))))
	}

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, uint64(3), recent[0].FrameSeq)
	require.Equal(t, uint64(2), recent[1].FrameSeq)

	all, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestMemoryRepository_CountByVerdict(t *testing.T) {
	repo := NewMemoryInspectionRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleRecord(1, entity.VerdictDefective, time.Now())))
	require.NoError(t, repo.Save(ctx, sampleRecord(2, entity.VerdictNonDefective, time.Now())))
	require.NoError(t, repo.Save(ctx, sampleRecord(3, entity.VerdictNonDefective, time.Now())))

	counts, err := repo.CountByVerdict(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, counts[entity.VerdictDefective])
	require.Equal(t, 2, counts[entity.VerdictNonDefective])
}

func TestSQLiteRepository_RoundTrip(t *testing.T) {
	repo, err := NewSQLiteInspectionRepository(filepath.Join(t.TempDir(), "inspections.db"))
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	capturedAt := time.Date(2026, 8, 25, 12, 0, 0, 123456000, time.UTC)
	saved := sampleRecord(7, entity.VerdictDefective, capturedAt)
	require.NoError(t, repo.Save(ctx, saved))

	recent, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	got := recent[0]
	require.Equal(t, saved.ID, got.ID)
	require.Equal(t, uint64(7), got.FrameSeq)
	require.Equal(t, entity.VerdictDefective, got.Verdict)
	require.Equal(t, entity.DefectHole, got.Category)
	require.Equal(t, 0.9, got.Confidence)
	require.Equal(t, saved.Region, got.Region)
	require.True(t, got.CapturedAt.Equal(capturedAt))
}

func TestSQLiteRepository_RecentOrderAndLimit(t *testing.T) {
	repo, err := NewSQLiteInspectionRepository(filepath.Join(t.TempDir(), "inspections.db"))
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	for seq := uint64(1); seq <= 5; seq++ {
		require.NoError(t, repo.Save(ctx, sampleRecord(seq, entity.VerdictNonDefective, base.Add(time.Duration(seq)*time.Minute))))
	}

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, uint64(5), recent[0].FrameSeq)
	require.Equal(t, uint64(4), recent[1].FrameSeq)
}

func TestSQLiteRepository_CountByVerdict(t *testing.T) {
	repo, err := NewSQLiteInspectionRepository(filepath.Join(t.TempDir(), "inspections.db"))
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, sampleRecord(1, entity.VerdictDefective, time.Now())))
	require.NoError(t, repo.Save(ctx, sampleRecord(2, entity.VerdictDefective, time.Now())))
	require.NoError(t, repo.Save(ctx, sampleRecord(3, entity.VerdictNonDefective, time.Now())))

	counts, err := repo.CountByVerdict(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, counts[entity.VerdictDefective])
	require.Equal(t, 1, counts[entity.VerdictNonDefective])
}
