package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"fabric-sort/internal/domain/entity"
)

// Config снимок конфигурации на один запуск. Горячей перезагрузки нет:
// ядро читает настройки один раз при старте.
type Config struct {
	// Камера
	CameraDevice   int
	CameraWidth    int
	CameraHeight   int
	FrameRate      int // кадров в секунду (низкий — чтобы не копить лаг)
	CaptureTimeout time.Duration

	// Детектор
	ModelPath          string
	DetectionThreshold float64

	// Манипулятор
	MovementSteps   int
	MovementDelay   time.Duration
	SettleTimeout   time.Duration
	SettleTolerance float64
	GripperSettle   time.Duration
	PositionsFile   string // JSON с таблицей позиций (опционально)

	// Оркестратор
	QueueDepth     int
	CaptureRetries int
	PauseInterval  time.Duration

	// Режимы и хранилище
	Simulation bool
	SimDefects bool
	DBPath     string // пусто — журнал в памяти
}

// Load читает конфигурацию из окружения.
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		CameraDevice:   envInt("FABRIC_CAMERA_DEVICE", 0),
		CameraWidth:    envInt("FABRIC_CAMERA_WIDTH", 640),
		CameraHeight:   envInt("FABRIC_CAMERA_HEIGHT", 480),
		FrameRate:      envInt("FABRIC_FRAME_RATE", 1),
		CaptureTimeout: envDurationMS("FABRIC_CAPTURE_TIMEOUT_MS", 5000),

		ModelPath:          os.Getenv("FABRIC_MODEL_PATH"),
		DetectionThreshold: envFloat("FABRIC_DETECTION_THRESHOLD", 0.6),

		MovementSteps:   envInt("FABRIC_MOVEMENT_STEPS", 50),
		MovementDelay:   envDurationMS("FABRIC_MOVEMENT_DELAY_MS", 10),
		SettleTimeout:   envDurationMS("FABRIC_SETTLE_TIMEOUT_MS", 2000),
		SettleTolerance: envFloat("FABRIC_SETTLE_TOLERANCE_DEG", 2.0),
		GripperSettle:   envDurationMS("FABRIC_GRIPPER_SETTLE_MS", 500),
		PositionsFile:   os.Getenv("FABRIC_POSITIONS_FILE"),

		QueueDepth:     envInt("FABRIC_QUEUE_DEPTH", 8),
		CaptureRetries: envInt("FABRIC_CAPTURE_RETRIES", 3),
		PauseInterval:  envDurationMS("FABRIC_PAUSE_INTERVAL_MS", 2000),

		Simulation: envBool("FABRIC_SIMULATION", true),
		SimDefects: envBool("FABRIC_SIM_DEFECTS", true),
		DBPath:     os.Getenv("FABRIC_DB_PATH"),
	}

	return cfg, nil
}

// Presets возвращает таблицу позиций манипулятора: стандартную или
// загруженную из JSON-файла, если он задан.
func (c *Config) Presets() (entity.PresetTable, error) {
	table := entity.DefaultPresets()

	if c.PositionsFile != "" {
		data, err := os.ReadFile(c.PositionsFile)
		if err != nil {
			return nil, errors.Wrapf(err, "read positions file %s", c.PositionsFile)
		}

		var raw map[string]map[string]float64
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrapf(err, "parse positions file %s", c.PositionsFile)
		}

		table = make(entity.PresetTable, len(raw))
		for name, joints := range raw {
			preset := make(entity.Preset, 0, len(joints))
			for joint, angle := range joints {
				preset = append(preset, entity.JointTarget{
					Joint: entity.Joint(joint),
					Angle: angle,
				})
			}
			table[entity.PresetName(name)] = preset
		}
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// FrameInterval возвращает период кадров по настроенной частоте.
func (c *Config) FrameInterval() time.Duration {
	rate := c.FrameRate
	if rate <= 0 {
		rate = 1
	}
	return time.Second / time.Duration(rate)
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

func envFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return value
}

func envBool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return value
}

func envDurationMS(key string, defMS int) time.Duration {
	return time.Duration(envInt(key, defMS)) * time.Millisecond
}
