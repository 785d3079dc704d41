package webgpu

import (
	"fmt"
	"time"

	"github.com/achilleasa/gputrace/asset/scene"
	"github.com/achilleasa/gputrace/log"
)

// An uploaded scene buffer.
type deviceBuffer struct {
	name  string
	count int
	buf   Buffer
}

// BufferSet holds the device copies of a packed scene's record buffers.
// Buffers are kept in scene.BufferNames order.
type BufferSet struct {
	logger  log.Logger
	device  Device
	buffers []deviceBuffer
}

// Create an empty buffer set for dev.
func NewBufferSet(dev Device) *BufferSet {
	name := "none"
	if dev != nil {
		name = dev.Name()
	}
	return &BufferSet{
		logger: log.New(fmt.Sprintf("webgpu buffers (%s)", name)),
		device: dev,
	}
}

// Upload every non-empty scene buffer as a storage buffer, releasing any
// previously uploaded data. On error, all buffers allocated by this call are
// released.
func (bs *BufferSet) Upload(sc *scene.Scene) error {
	if bs.device == nil {
		return ErrNoDevice
	}

	start := time.Now()
	bs.Release()

	buffers, err := sc.Buffers()
	if err != nil {
		return err
	}

	limit := bs.device.MaxStorageBufferSize()
	var total uint64
	for _, b := range buffers {
		if len(b.Data) == 0 {
			bs.logger.Debugf("skipping empty buffer %q", b.Name)
			continue
		}

		size := uint64(len(b.Data))
		if limit != 0 && size > limit {
			bs.Release()
			return fmt.Errorf("%w: %s needs %d bytes (limit %d)", ErrBufferSizeExceed, b.Name, size, limit)
		}

		buf, err := bs.device.CreateStorageBuffer(sc.Name+" "+b.Name, size)
		if err != nil {
			bs.Release()
			return fmt.Errorf("webgpu: could not allocate buffer %s of size %d: %w", b.Name, size, err)
		}
		bs.buffers = append(bs.buffers, deviceBuffer{name: b.Name, count: b.Count, buf: buf})

		if err = bs.device.WriteBuffer(buf, b.Data); err != nil {
			bs.Release()
			return fmt.Errorf("webgpu: could not write buffer %s: %w", b.Name, err)
		}

		bs.logger.Infof("uploaded %s: %d records (%d bytes)", b.Name, b.Count, size)
		total += size
	}

	bs.logger.Noticef("uploaded %d buffers (%d bytes) in %d ms", len(bs.buffers), total, time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Lookup an uploaded buffer by its scene buffer name.
func (bs *BufferSet) Buffer(name string) (Buffer, bool) {
	for _, b := range bs.buffers {
		if b.name == name {
			return b.buf, true
		}
	}
	return nil, false
}

// Get the names of the uploaded buffers.
func (bs *BufferSet) Names() []string {
	names := make([]string, len(bs.buffers))
	for i, b := range bs.buffers {
		names[i] = b.name
	}
	return names
}

// Get the total size of the uploaded buffers in bytes.
func (bs *BufferSet) Size() uint64 {
	var total uint64
	for _, b := range bs.buffers {
		total += b.buf.Size()
	}
	return total
}

// Release all buffers.
func (bs *BufferSet) Release() {
	for _, b := range bs.buffers {
		b.buf.Release()
	}
	bs.buffers = nil
}
