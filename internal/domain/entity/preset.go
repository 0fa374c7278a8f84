package entity

import "fmt"

// Границы углов сервоприводов.
const (
	JointAngleMin = 0.0
	JointAngleMax = 180.0
)

// PresetName имя именованной позиции манипулятора
type PresetName string

const (
	PresetHome      PresetName = "home"       // исходная позиция
	PresetPickup    PresetName = "pickup"     // позиция забора ткани
	PresetDefectBin PresetName = "defect_bin" // контейнер брака
	PresetGoodBin   PresetName = "good_bin"   // контейнер годных
	PositionUnknown PresetName = "unknown"    // позиция не определена
)

// JointTarget целевой угол одного сустава для шага движения.
type JointTarget struct {
	Joint       Joint   // сустав
	Angle       float64 // целевой угол в градусах
	MaxVelocity float64 // ограничение скорости, град/с (0 — без ограничения)
}

// Preset фиксированный набор целей суставов. Пресеты — данные,
// алгоритм движения их не знает.
type Preset []JointTarget

// Angles возвращает пресет как отображение сустав → угол.
func (p Preset) Angles() map[Joint]float64 {
	out := make(map[Joint]float64, len(p))
	for _, target := range p {
		out[target.Joint] = target.Angle
	}
	return out
}

// PresetTable таблица всех именованных позиций.
type PresetTable map[PresetName]Preset

// DefaultPresets возвращает стандартную таблицу позиций.
func DefaultPresets() PresetTable {
	return PresetTable{
		PresetHome: {
			{Joint: JointBase, Angle: 120},
			{Joint: JointShoulder, Angle: 45},
			{Joint: JointElbow, Angle: 45},
		},
		PresetPickup: {
			{Joint: JointBase, Angle: 0},
			{Joint: JointShoulder, Angle: 0},
			{Joint: JointElbow, Angle: 180},
		},
		PresetDefectBin: {
			{Joint: JointBase, Angle: 180},
			{Joint: JointShoulder, Angle: 0},
			{Joint: JointElbow, Angle: 180},
		},
		PresetGoodBin: {
			{Joint: JointBase, Angle: 90},
			{Joint: JointShoulder, Angle: 0},
			{Joint: JointElbow, Angle: 180},
		},
	}
}

// Validate проверяет, что таблица содержит обязательные позиции
// и все углы в пределах хода сервоприводов.
func (t PresetTable) Validate() error {
	required := []PresetName{PresetHome, PresetPickup, PresetDefectBin, PresetGoodBin}
	for _, name := range required {
		preset, ok := t[name]
		if !ok {
			return fmt.Errorf("preset %q is missing", name)
		}
		if len(preset) == 0 {
			return fmt.Errorf("preset %q is empty", name)
		}
		for _, target := range preset {
			if target.Angle < JointAngleMin || target.Angle > JointAngleMax {
				return fmt.Errorf("preset %q: joint %q angle %.1f out of range [%.0f, %.0f]",
					name, target.Joint, target.Angle, JointAngleMin, JointAngleMax)
			}
			if target.MaxVelocity < 0 {
				return fmt.Errorf("preset %q: joint %q negative max velocity", name, target.Joint)
			}
		}
	}
	return nil
}
