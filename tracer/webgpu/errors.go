package webgpu

import "errors"

var (
	ErrNoDevice         = errors.New("webgpu: no device attached")
	ErrAlreadyAttached  = errors.New("webgpu: tracer already attached to a scene")
	ErrAdapterRequest   = errors.New("webgpu: could not request adapter")
	ErrDeviceRequest    = errors.New("webgpu: could not request device")
	ErrEmptyShader      = errors.New("webgpu: shader source is empty")
	ErrInvalidSPIRV     = errors.New("webgpu: compiled shader is not valid SPIR-V")
	ErrBufferSizeExceed = errors.New("webgpu: buffer exceeds the device storage binding size limit")
)
