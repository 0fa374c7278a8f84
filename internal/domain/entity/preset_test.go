package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultPresets_Valid(t *testing.T) {
	require.NoError(t, DefaultPresets().Validate())
}

func TestPresetTable_MissingPreset(t *testing.T) {
	table := DefaultPresets()
	delete(table, PresetGoodBin)

	err := table.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "good_bin")
}

func TestPresetTable_AngleOutOfRange(t *testing.T) {
	table := DefaultPresets()
	table[PresetHome] = Preset{{Joint: JointBase, Angle: 270}}

	err := table.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "out of range")
}

func TestPreset_Angles(t *testing.T) {
	preset := Preset{
		{Joint: JointBase, Angle: 120},
		{Joint: JointShoulder, Angle: 45},
	}

	angles := preset.Angles()
	require.Equal(t, 120.0, angles[JointBase])
	require.Equal(t, 45.0, angles[JointShoulder])
}
