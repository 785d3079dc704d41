package webgpu

import "errors"

var errFake = errors.New("fake device failure")

type fakeBuffer struct {
	label    string
	size     uint64
	data     []byte
	released bool
}

func (b *fakeBuffer) Size() uint64 { return b.size }
func (b *fakeBuffer) Release()     { b.released = true }

type fakeShader struct {
	label    string
	code     string
	released bool
}

func (s *fakeShader) Release() { s.released = true }

// fakeDevice records allocations and writes. failAlloc/failWrite make the
// n-th (1-based) call fail.
type fakeDevice struct {
	limit     uint64
	failAlloc int
	failWrite int

	allocs  int
	writes  int
	buffers []*fakeBuffer
	shaders []*fakeShader
}

func (d *fakeDevice) Name() string                 { return "fake" }
func (d *fakeDevice) MaxStorageBufferSize() uint64 { return d.limit }

func (d *fakeDevice) CreateStorageBuffer(label string, size uint64) (Buffer, error) {
	d.allocs++
	if d.allocs == d.failAlloc {
		return nil, errFake
	}
	buf := &fakeBuffer{label: label, size: size}
	d.buffers = append(d.buffers, buf)
	return buf, nil
}

func (d *fakeDevice) WriteBuffer(buf Buffer, data []byte) error {
	d.writes++
	if d.writes == d.failWrite {
		return errFake
	}
	fb := buf.(*fakeBuffer)
	fb.data = append([]byte(nil), data...)
	return nil
}

func (d *fakeDevice) CreateShaderModule(label, wgsl string) (Resource, error) {
	s := &fakeShader{label: label, code: wgsl}
	d.shaders = append(d.shaders, s)
	return s, nil
}

func (d *fakeDevice) live() int {
	count := 0
	for _, b := range d.buffers {
		if !b.released {
			count++
		}
	}
	return count
}
