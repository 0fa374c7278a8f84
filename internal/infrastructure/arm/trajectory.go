package arm

import (
	"math"
	"time"

	"fabric-sort/internal/domain/entity"
)

// jointProfile траектория одного сустава: путь от начального угла к
// целевому, параметризованный общей долей пройденного времени t в [0,1].
type jointProfile struct {
	joint entity.Joint
	from  float64
	to    float64
}

// at возвращает угол сустава в точке t траектории.
func (p jointProfile) at(t float64) float64 {
	return p.from + (p.to-p.from)*ease(t)
}

// ease квадратичное сглаживание: разгон в первой половине хода,
// торможение во второй. Скорость на концах нулевая, резких скачков
// угла не бывает.
func ease(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// plan строит профили всех суставов пресета и общее число шагов.
// Все профили продвигаются одним счётчиком шагов, поэтому стартуют
// и финишируют одновременно. Ограничение скорости отдельного сустава
// растягивает общую длительность движения, а не рассинхронизирует
// суставы.
func plan(current map[entity.Joint]float64, preset entity.Preset, baseSteps int, stepDelay time.Duration) ([]jointProfile, int) {
	profiles := make([]jointProfile, 0, len(preset))
	steps := baseSteps

	for _, target := range preset {
		profile := jointProfile{
			joint: target.Joint,
			from:  clampAngle(current[target.Joint]),
			to:    clampAngle(target.Angle),
		}
		profiles = append(profiles, profile)

		if target.MaxVelocity > 0 && stepDelay > 0 {
			// Пиковая скорость сглаженного профиля вдвое выше средней.
			minDuration := 2 * math.Abs(profile.to-profile.from) / target.MaxVelocity
			need := int(math.Ceil(minDuration * float64(time.Second) / float64(stepDelay)))
			if need > steps {
				steps = need
			}
		}
	}

	return profiles, steps
}

func clampAngle(angle float64) float64 {
	if angle < entity.JointAngleMin {
		return entity.JointAngleMin
	}
	if angle > entity.JointAngleMax {
		return entity.JointAngleMax
	}
	return angle
}
