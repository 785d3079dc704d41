package webgpu

import (
	"fmt"
	"sync"

	"github.com/achilleasa/gputrace/asset/scene"
	"github.com/achilleasa/gputrace/log"
)

// Tracer owns the device resources needed to trace a packed scene: the
// uploaded scene buffers and the traversal shader module.
type Tracer struct {
	logger log.Logger

	sync.Mutex

	device  Device
	buffers *BufferSet
	shader  Resource

	// The attached scene.
	sceneData *scene.Scene
}

// Create a tracer for dev.
func NewTracer(dev Device) *Tracer {
	return &Tracer{
		logger:  log.New(fmt.Sprintf("webgpu tracer (%s)", dev.Name())),
		device:  dev,
		buffers: NewBufferSet(dev),
	}
}

// Load the traversal shader and upload sc to the device.
func (tr *Tracer) Attach(sc *scene.Scene) error {
	tr.Lock()
	defer tr.Unlock()

	if tr.sceneData != nil {
		return ErrAlreadyAttached
	}

	if tr.shader == nil {
		shader, err := LoadTraversalShader(tr.device)
		if err != nil {
			return err
		}
		tr.shader = shader
	}

	if err := tr.buffers.Upload(sc); err != nil {
		return err
	}

	tr.sceneData = sc
	tr.logger.Noticef("attached scene %q (%d bvh nodes)", sc.Name, len(sc.BvhNodes))
	return nil
}

// Release the uploaded scene so another one can be attached.
func (tr *Tracer) Detach() {
	tr.Lock()
	defer tr.Unlock()

	tr.buffers.Release()
	tr.sceneData = nil
}

// Get the uploaded scene buffers.
func (tr *Tracer) Buffers() *BufferSet {
	return tr.buffers
}

// Release all device resources.
func (tr *Tracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	tr.buffers.Release()
	if tr.shader != nil {
		tr.shader.Release()
		tr.shader = nil
	}
	tr.sceneData = nil
}
