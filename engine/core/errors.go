package core

import (
	"github.com/cockroachdb/errors"
)

var (
	// configuration errors, fatal at startup
	ErrInvalidCreateArgument         = errors.New("invalid create argument")
	ErrGeometryInvalidVertexSemantic = errors.New("geometry: invalid vertex semantic")
	ErrGeometryInvalidLayout         = errors.New("geometry: binding count does not match vertex layout")
	ErrDuplicateBinding              = errors.New("duplicate vertex binding")

	ErrOutOfRange = errors.New("out of range")
	ErrLoadFailed = errors.New("load failed")

	ErrUnsupportedResourceState = errors.New("unsupported resource state")
	ErrIndexTypeMismatch        = errors.New("index buffer element size mismatch")

	// synchronization and device errors
	ErrSwapchainOutOfDate = errors.New("swapchain out of date")
	ErrSwapchainBooting   = errors.New("swapchain resized or recreated, booting")
	ErrDeviceFailure      = errors.New("device failure")
	ErrFenceTimeout       = errors.New("fence wait timed out")
	ErrUnknown            = errors.New("unknown")
)
