package webgpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

const spirvMagic = 0x07230203

//go:embed shaders/traverse.wgsl
var traverseShaderWGSL string

// Get the WGSL source of the BVH traversal compute shader.
func TraversalShader() string {
	return traverseShaderWGSL
}

// Compile WGSL source to SPIR-V. Compilation runs entirely on the CPU and
// catches shader errors before a device is involved.
func CompileShader(wgsl string) ([]byte, error) {
	if wgsl == "" {
		return nil, ErrEmptyShader
	}

	spirv, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("webgpu: failed to compile shader: %w", err)
	}
	if len(spirv) < 4 || binary.LittleEndian.Uint32(spirv) != spirvMagic {
		return nil, ErrInvalidSPIRV
	}
	return spirv, nil
}

// Load the traversal shader into dev.
func LoadTraversalShader(dev Device) (Resource, error) {
	if dev == nil {
		return nil, ErrNoDevice
	}
	module, err := dev.CreateShaderModule("bvh traversal", traverseShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("webgpu: could not create traversal shader module: %w", err)
	}
	return module, nil
}
