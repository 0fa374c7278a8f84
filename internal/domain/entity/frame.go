package entity

import "time"

// Frame неизменяемый снимок с камеры (или из симулятора).
type Frame struct {
	Pixels     []byte    // упакованный буфер RGB, 3 байта на пиксель
	Width      int       // ширина кадра в пикселях
	Height     int       // высота кадра в пикселях
	CapturedAt time.Time // момент захвата (монотонные часы)
	Seq        uint64    // порядковый номер кадра
}

// NewFrame создаёт кадр с текущим временем захвата.
func NewFrame(pixels []byte, width, height int, seq uint64) *Frame {
	return &Frame{
		Pixels:     pixels,
		Width:      width,
		Height:     height,
		CapturedAt: time.Now(),
		Seq:        seq,
	}
}
