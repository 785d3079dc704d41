package scene

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Buffer names. The order of this list defines the order in which buffers are
// written to archives and bound to the GPU.
const (
	MaterialBuffer     = "materials"
	SphereBuffer       = "spheres"
	QuadBuffer         = "quads"
	TriangleBuffer     = "triangles"
	MeshBuffer         = "meshes"
	TransformBuffer    = "transforms"
	PrimitiveRefBuffer = "primitives"
	BvhNodeBuffer      = "bvh"
)

var BufferNames = []string{
	MaterialBuffer,
	SphereBuffer,
	QuadBuffer,
	TriangleBuffer,
	MeshBuffer,
	TransformBuffer,
	PrimitiveRefBuffer,
	BvhNodeBuffer,
}

var (
	ErrUnknownBuffer   = errors.New("scene: unknown buffer")
	ErrTruncatedBuffer = errors.New("scene: buffer length is not a multiple of the record size")
)

// An encoded record list.
type Buffer struct {
	Name string

	// Number of encoded records.
	Count int

	Data []byte
}

// Encode a list of records into its little endian binary representation.
func Encode[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(RecordSize[T]() * len(records))
	if err := binary.Write(&buf, binary.LittleEndian, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode a list of records encoded by Encode.
func Decode[T any](data []byte) ([]T, error) {
	size := RecordSize[T]()
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w (%d bytes, record size %d)", ErrTruncatedBuffer, len(data), size)
	}

	records := make([]T, len(data)/size)
	if len(records) == 0 {
		return records, nil
	}
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, records); err != nil {
		return nil, err
	}
	return records, nil
}

// Get the encoded size of a record type.
func RecordSize[T any]() int {
	var record T
	return binary.Size(record)
}

func encodeBuffer[T any](name string, records []T) (Buffer, error) {
	data, err := Encode(records)
	if err != nil {
		return Buffer{}, fmt.Errorf("scene: could not encode %s buffer: %w", name, err)
	}
	return Buffer{Name: name, Count: len(records), Data: data}, nil
}

// Encode all scene record lists. Buffers are returned in BufferNames order;
// empty lists produce empty buffers.
func (sc *Scene) Buffers() ([]Buffer, error) {
	buffers := make([]Buffer, 0, len(BufferNames))
	for _, name := range BufferNames {
		var buf Buffer
		var err error

		switch name {
		case MaterialBuffer:
			buf, err = encodeBuffer(name, sc.Materials)
		case SphereBuffer:
			buf, err = encodeBuffer(name, sc.Spheres)
		case QuadBuffer:
			buf, err = encodeBuffer(name, sc.Quads)
		case TriangleBuffer:
			buf, err = encodeBuffer(name, sc.Triangles)
		case MeshBuffer:
			buf, err = encodeBuffer(name, sc.Meshes)
		case TransformBuffer:
			buf, err = encodeBuffer(name, sc.Transforms)
		case PrimitiveRefBuffer:
			buf, err = encodeBuffer(name, sc.Primitives)
		case BvhNodeBuffer:
			buf, err = encodeBuffer(name, sc.BvhNodes)
		}
		if err != nil {
			return nil, err
		}
		buffers = append(buffers, buf)
	}
	return buffers, nil
}

// Decode the named buffer and replace the matching scene record list.
func (sc *Scene) Load(name string, data []byte) error {
	var err error
	switch name {
	case MaterialBuffer:
		sc.Materials, err = Decode[Material](data)
	case SphereBuffer:
		sc.Spheres, err = Decode[Sphere](data)
	case QuadBuffer:
		sc.Quads, err = Decode[Quad](data)
	case TriangleBuffer:
		sc.Triangles, err = Decode[Triangle](data)
	case MeshBuffer:
		sc.Meshes, err = Decode[Mesh](data)
	case TransformBuffer:
		sc.Transforms, err = Decode[Transform](data)
	case PrimitiveRefBuffer:
		sc.Primitives, err = Decode[PrimitiveRef](data)
	case BvhNodeBuffer:
		sc.BvhNodes, err = Decode[BvhNode](data)
	default:
		return fmt.Errorf("%w %q", ErrUnknownBuffer, name)
	}

	if err != nil {
		return fmt.Errorf("scene: could not decode %s buffer: %w", name, err)
	}
	return nil
}
