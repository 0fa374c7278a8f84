package camera

import (
	"context"
	"time"

	"fabric-sort/internal/domain/entity"
	"fabric-sort/internal/domain/port"
)

// SimulatedConfig настройки синтетического источника кадров.
type SimulatedConfig struct {
	Width          int           // ширина кадра
	Height         int           // высота кадра
	FrameInterval  time.Duration // период между кадрами
	CaptureTimeout time.Duration // предел ожидания кадра
	WithDefects    bool          // рисовать тестовые дефекты
}

// SimulatedSource синтезирует кадры с фактурой ткани вместо камеры.
// Структурно кадры неотличимы от аппаратных: вызывающий код не знает,
// с каким источником работает.
type SimulatedSource struct {
	cfg    SimulatedConfig
	ticker *time.Ticker
	seq    uint64
	meter  *fpsMeter
}

var _ port.FrameSource = (*SimulatedSource)(nil)

// NewSimulatedSource создаёт источник с заданной частотой кадров.
func NewSimulatedSource(cfg SimulatedConfig) *SimulatedSource {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = time.Second
	}
	if cfg.CaptureTimeout <= 0 {
		cfg.CaptureTimeout = 5 * time.Second
	}

	return &SimulatedSource{
		cfg:    cfg,
		ticker: time.NewTicker(cfg.FrameInterval),
		meter:  newFPSMeter(),
	}
}

// NextFrame ждёт следующего тика генератора, но не дольше таймаута
// захвата.
func (s *SimulatedSource) NextFrame(ctx context.Context) (*entity.Frame, error) {
	timeout := time.NewTimer(s.cfg.CaptureTimeout)
	defer timeout.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timeout.C:
		return nil, entity.ErrCaptureTimeout
	case <-s.ticker.C:
	}

	s.seq++
	frame := entity.NewFrame(s.render(), s.cfg.Width, s.cfg.Height, s.seq)
	s.meter.tick()
	return frame, nil
}

// FPS возвращает скользящую частоту кадров.
func (s *SimulatedSource) FPS() float64 {
	return s.meter.value()
}

// Close останавливает генератор.
func (s *SimulatedSource) Close() error {
	s.ticker.Stop()
	return nil
}

// render рисует кадр: светлый фон с фактурой переплетения и, если
// включено, тестовые дефекты — дыра, строчка и шов.
func (s *SimulatedSource) render() []byte {
	w, h := s.cfg.Width, s.cfg.Height
	pixels := make([]byte, w*h*3)

	// Фон ткани с лёгкой горизонтальной фактурой.
	for y := 0; y < h; y++ {
		r, g, b := byte(200), byte(200), byte(220)
		if y%4 == 0 {
			r, g, b = 190, 190, 210
		}
		for x := 0; x < w; x++ {
			setPixel(pixels, w, x, y, r, g, b)
		}
	}

	if !s.cfg.WithDefects {
		return pixels
	}

	// Дыра: тёмный круг.
	fillCircle(pixels, w, h, w/4, h/2, 30, 0, 0, 0)

	// Дефект строчки: толстая красная линия.
	fillRect(pixels, w, h, w/2, h/4-4, 100, 8, 250, 50, 50)

	// Дефект шва: зелёный пунктир.
	for y := h / 3; y < 2*h/3; y += 10 {
		fillRect(pixels, w, h, 2*w/3, y, 50, 3, 30, 180, 30)
	}

	return pixels
}

func setPixel(pixels []byte, width, x, y int, r, g, b byte) {
	i := (y*width + x) * 3
	pixels[i] = r
	pixels[i+1] = g
	pixels[i+2] = b
}

func fillRect(pixels []byte, width, height, x, y, w, h int, r, g, b byte) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			px, py := x+dx, y+dy
			if px < 0 || px >= width || py < 0 || py >= height {
				continue
			}
			setPixel(pixels, width, px, py, r, g, b)
		}
	}
}

func fillCircle(pixels []byte, width, height, cx, cy, radius int, r, g, b byte) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			px, py := cx+dx, cy+dy
			if px < 0 || px >= width || py < 0 || py >= height {
				continue
			}
			setPixel(pixels, width, px, py, r, g, b)
		}
	}
}
