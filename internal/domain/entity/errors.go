package entity

import "errors"

// Ошибки захвата кадров.
var (
	ErrCaptureTimeout      = errors.New("capture timeout")
	ErrHardwareUnavailable = errors.New("hardware unavailable")
)

// Ошибки детектора.
var (
	ErrModelLoad = errors.New("model load failed")
	ErrInference = errors.New("inference failed")
)

// Ошибки манипулятора.
var (
	ErrAlreadyMoving    = errors.New("arm already moving")
	ErrSettleTimeout    = errors.New("settle timeout")
	ErrHardwareFault    = errors.New("hardware fault")
	ErrEmergencyStopped = errors.New("emergency stop engaged")
)
