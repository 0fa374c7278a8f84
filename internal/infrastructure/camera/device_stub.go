//go:build !gocv
// +build !gocv

package camera

import (
	"time"

	"github.com/pkg/errors"

	"fabric-sort/internal/domain/entity"
)

// NewDeviceSource возвращает ошибку, если сборка без тега gocv.
func NewDeviceSource(deviceID, width, height int, timeout time.Duration) (*SimulatedSource, error) {
	_ = deviceID
	_ = width
	_ = height
	_ = timeout
	return nil, errors.Wrap(entity.ErrHardwareUnavailable, "gocv build tag is not enabled")
}
