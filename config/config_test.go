package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fabric-sort/internal/domain/entity"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 0, cfg.CameraDevice)
	require.Equal(t, 640, cfg.CameraWidth)
	require.Equal(t, 480, cfg.CameraHeight)
	require.Equal(t, 1, cfg.FrameRate)
	require.Equal(t, 5*time.Second, cfg.CaptureTimeout)
	require.Equal(t, 0.6, cfg.DetectionThreshold)
	require.Equal(t, 50, cfg.MovementSteps)
	require.Equal(t, 10*time.Millisecond, cfg.MovementDelay)
	require.Equal(t, 2*time.Second, cfg.SettleTimeout)
	require.Equal(t, 2.0, cfg.SettleTolerance)
	require.Equal(t, 8, cfg.QueueDepth)
	require.Equal(t, 3, cfg.CaptureRetries)
	require.True(t, cfg.Simulation)
	require.True(t, cfg.SimDefects)
	require.Empty(t, cfg.DBPath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FABRIC_FRAME_RATE", "15")
	t.Setenv("FABRIC_DETECTION_THRESHOLD", "0.75")
	t.Setenv("FABRIC_MOVEMENT_STEPS", "100")
	t.Setenv("FABRIC_SIMULATION", "false")
	t.Setenv("FABRIC_DB_PATH", "/tmp/fabric.db")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 15, cfg.FrameRate)
	require.Equal(t, 0.75, cfg.DetectionThreshold)
	require.Equal(t, 100, cfg.MovementSteps)
	require.False(t, cfg.Simulation)
	require.Equal(t, "/tmp/fabric.db", cfg.DBPath)
}

func TestLoad_MalformedValueFallsBack(t *testing.T) {
	t.Setenv("FABRIC_FRAME_RATE", "fast")
	t.Setenv("FABRIC_SIMULATION", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 1, cfg.FrameRate)
	require.True(t, cfg.Simulation)
}

func TestFrameInterval(t *testing.T) {
	cfg := &Config{FrameRate: 4}
	require.Equal(t, 250*time.Millisecond, cfg.FrameInterval())

	cfg.FrameRate = 0
	require.Equal(t, time.Second, cfg.FrameInterval())
}

func TestPresets_Default(t *testing.T) {
	cfg := &Config{}

	table, err := cfg.Presets()
	require.NoError(t, err)
	require.Contains(t, table, entity.PresetHome)
	require.Contains(t, table, entity.PresetPickup)
	require.Contains(t, table, entity.PresetDefectBin)
	require.Contains(t, table, entity.PresetGoodBin)
}

func TestPresets_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.json")
	positions := `{
		"home":       {"base": 100, "shoulder": 50, "elbow": 50},
		"pickup":     {"base": 10,  "shoulder": 0,  "elbow": 170},
		"defect_bin": {"base": 170, "shoulder": 0,  "elbow": 170},
		"good_bin":   {"base": 80,  "shoulder": 0,  "elbow": 170}
	}`
	require.NoError(t, os.WriteFile(path, []byte(positions), 0o644))

	cfg := &Config{PositionsFile: path}
	table, err := cfg.Presets()
	require.NoError(t, err)

	angles := table[entity.PresetHome].Angles()
	require.Equal(t, 100.0, angles[entity.JointBase])
	require.Equal(t, 50.0, angles[entity.JointShoulder])
}

func TestPresets_InvalidFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"home": {"base": 300}}`), 0o644))

	cfg := &Config{PositionsFile: path}
	_, err := cfg.Presets()
	require.Error(t, err)
}

func TestPresets_MissingFile(t *testing.T) {
	cfg := &Config{PositionsFile: filepath.Join(t.TempDir(), "absent.json")}
	_, err := cfg.Presets()
	require.Error(t, err)
}
