package entity

import "sort"

// DefectCategory тип дефекта ткани
type DefectCategory string

const (
	DefectHole   DefectCategory = "hole"   // дыра
	DefectTear   DefectCategory = "tear"   // разрыв
	DefectStain  DefectCategory = "stain"  // пятно
	DefectStitch DefectCategory = "stitch" // дефект строчки
	DefectSeam   DefectCategory = "seam"   // дефект шва
)

// Region нормализованная область дефекта: все координаты в [0,1]
// относительно размеров кадра.
type Region struct {
	X      float64 // левый верхний угол по X
	Y      float64 // левый верхний угол по Y
	Width  float64 // ширина области
	Height float64 // высота области
}

// Center возвращает координаты центра области.
func (r Region) Center() (x, y float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Detection один найденный дефект на кадре.
type Detection struct {
	Category   DefectCategory // тип дефекта
	Confidence float64        // уверенность модели в [0,1]
	Region     Region         // область дефекта
	FrameSeq   uint64         // номер кадра-источника
}

// SortByConfidence сортирует детекции по убыванию уверенности.
func SortByConfidence(detections []Detection) {
	sort.SliceStable(detections, func(i, j int) bool {
		return detections[i].Confidence > detections[j].Confidence
	})
}
