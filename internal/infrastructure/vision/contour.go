//go:build gocv
// +build gocv

package vision

import (
	"context"
	"encoding/json"
	"image"
	"os"
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"fabric-sort/internal/domain/entity"
	"fabric-sort/internal/domain/port"
)

// calibration параметры детектора, загружаемые из файла модели.
type calibration struct {
	MinAreaRatio   float64 `json:"min_area_ratio"`
	MinAspectRatio float64 `json:"min_aspect_ratio"`
	MaxAspectRatio float64 `json:"max_aspect_ratio"`
	CannyLow       float32 `json:"canny_low"`
	CannyHigh      float32 `json:"canny_high"`
}

func (c *calibration) withDefaults() {
	if c.MinAreaRatio <= 0 {
		c.MinAreaRatio = 0.001
	}
	if c.MinAspectRatio <= 0 {
		c.MinAspectRatio = 0.05
	}
	if c.MaxAspectRatio <= 0 {
		c.MaxAspectRatio = 20.0
	}
	if c.CannyLow <= 0 {
		c.CannyLow = 50
	}
	if c.CannyHigh <= 0 {
		c.CannyHigh = 150
	}
}

// ContourDetector детектор дефектов на контурах OpenCV: серый →
// размытие → Canny → контуры → классификация по форме области.
type ContourDetector struct {
	threshold float64
	params    calibration
	latency   *latencyTracker
}

var _ port.DefectDetector = (*ContourDetector)(nil)

// NewContourDetector загружает файл калибровки и создаёт детектор.
// Отсутствующий или битый файл — фатальная ошибка конструирования.
func NewContourDetector(modelPath string, threshold float64) (*ContourDetector, error) {
	data, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, errors.Wrapf(entity.ErrModelLoad, "read %s: %v", modelPath, err)
	}

	var params calibration
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, errors.Wrapf(entity.ErrModelLoad, "parse %s: %v", modelPath, err)
	}
	params.withDefaults()

	return &ContourDetector{
		threshold: threshold,
		params:    params,
		latency:   newLatencyTracker(),
	}, nil
}

// Detect ищет дефекты на кадре. Детекции отсортированы по убыванию
// уверенности, всё ниже порога отброшено.
func (d *ContourDetector) Detect(ctx context.Context, frame *entity.Frame) ([]entity.Detection, error) {
	_ = ctx
	start := time.Now()

	mat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Pixels)
	if err != nil {
		return nil, errors.Wrapf(entity.ErrInference, "decode frame %d: %v", frame.Seq, err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.Wrapf(entity.ErrInference, "empty frame %d", frame.Seq)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blur, &edges, d.params.CannyLow, d.params.CannyHigh)

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	frameArea := float64(frame.Width * frame.Height)
	minArea := frameArea * d.params.MinAreaRatio

	detections := make([]entity.Detection, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		rect := gocv.BoundingRect(contours.At(i))
		area := float64(rect.Dx() * rect.Dy())
		if area < minArea || rect.Dy() == 0 {
			continue
		}

		aspect := float64(rect.Dx()) / float64(rect.Dy())
		if aspect < d.params.MinAspectRatio || aspect > d.params.MaxAspectRatio {
			continue
		}

		confidence := confidenceFor(area, frameArea)
		if confidence < d.threshold {
			continue
		}

		detections = append(detections, entity.Detection{
			Category:   categorize(rect, frame.Width, frame.Height, area/frameArea),
			Confidence: confidence,
			Region: entity.Region{
				X:      float64(rect.Min.X) / float64(frame.Width),
				Y:      float64(rect.Min.Y) / float64(frame.Height),
				Width:  float64(rect.Dx()) / float64(frame.Width),
				Height: float64(rect.Dy()) / float64(frame.Height),
			},
			FrameSeq: frame.Seq,
		})
	}

	entity.SortByConfidence(detections)
	d.latency.observe(time.Since(start))
	return detections, nil
}

// AvgLatency возвращает среднее время инференса.
func (d *ContourDetector) AvgLatency() time.Duration {
	return d.latency.average()
}

// confidenceFor выводит уверенность из доли площади дефекта:
// заметные области дают оценку ближе к единице.
func confidenceFor(area, frameArea float64) float64 {
	ratio := area / frameArea
	confidence := 0.5 + ratio*40
	if confidence > 0.99 {
		confidence = 0.99
	}
	return confidence
}

// categorize сопоставляет форму области типу дефекта.
func categorize(rect image.Rectangle, width, height int, areaRatio float64) entity.DefectCategory {
	aspect := float64(rect.Dx()) / float64(rect.Dy())

	switch {
	case aspect >= 4 || aspect <= 0.25:
		// Вытянутая область: длинная — шов, короткая — строчка.
		if rect.Dx() > width*2/5 || rect.Dy() > height*2/5 {
			return entity.DefectSeam
		}
		return entity.DefectStitch
	case areaRatio > 0.05:
		return entity.DefectStain
	case aspect > 0.75 && aspect < 1.33:
		return entity.DefectHole
	default:
		return entity.DefectTear
	}
}
