package scene

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/olekukonko/tablewriter"
)

var (
	ErrInvalidLink      = errors.New("scene: bvh link out of range")
	ErrInvalidLeafRange = errors.New("scene: bvh leaf range out of bounds")
	ErrUnreachableNode  = errors.New("scene: bvh node is not visited exactly once")
	ErrInvalidReference = errors.New("scene: primitive reference out of range")
)

// Check that the BVH records describe a well formed stackless tree and that
// every primitive reference points to an existing record. Following hit
// links from node 0 must visit every node exactly once, in order.
func (sc *Scene) Validate() error {
	nodeCount := int32(len(sc.BvhNodes))
	inRange := func(link int32) bool {
		return link == -1 || (link > 0 && link < nodeCount)
	}

	for index, node := range sc.BvhNodes {
		if !inRange(node.Miss) || (node.Miss != -1 && node.Miss <= int32(index)) {
			return fmt.Errorf("%w: node %d has miss link %d", ErrInvalidLink, index, node.Miss)
		}

		if node.IsLeaf() {
			if node.SplitAxis != -1 {
				return fmt.Errorf("%w: leaf %d has split axis %d", ErrInvalidLink, index, node.SplitAxis)
			}
			if node.LeafCount <= 0 || node.LeafStart < 0 || int(node.LeafStart+node.LeafCount) > len(sc.Primitives) {
				return fmt.Errorf("%w: leaf %d covers [%d, %d) of %d references", ErrInvalidLeafRange, index, node.LeafStart, node.LeafStart+node.LeafCount, len(sc.Primitives))
			}
			continue
		}

		if node.RightChild <= int32(index)+1 || node.RightChild >= nodeCount {
			return fmt.Errorf("%w: node %d has right child %d", ErrInvalidLink, index, node.RightChild)
		}
		if node.LeafStart != -1 || node.LeafCount != -1 || node.PrimitiveType != -1 {
			return fmt.Errorf("%w: internal node %d carries a leaf range", ErrInvalidLeafRange, index)
		}
	}

	// Walk the hit links; pre-order layout means this visits 0..n-1.
	var visited int32
	for index := int32(0); index != -1 && nodeCount > 0; index = sc.BvhNodes[index].Hit(index) {
		if index != visited {
			return fmt.Errorf("%w: expected node %d; got %d", ErrUnreachableNode, visited, index)
		}
		visited++
	}
	if visited != nodeCount {
		return fmt.Errorf("%w: visited %d of %d nodes", ErrUnreachableNode, visited, nodeCount)
	}

	for index, ref := range sc.Primitives {
		var count int
		switch ref.Type {
		case SpherePrimitive:
			count = len(sc.Spheres)
		case QuadPrimitive:
			count = len(sc.Quads)
		case TrianglePrimitive:
			count = len(sc.Triangles)
		default:
			return fmt.Errorf("%w: reference %d has type %d", ErrInvalidReference, index, ref.Type)
		}
		if ref.LocalID < 0 || int(ref.LocalID) >= count {
			return fmt.Errorf("%w: reference %d has local id %d (%d records)", ErrInvalidReference, index, ref.LocalID, count)
		}
		if ref.MaterialID < 0 || int(ref.MaterialID) >= len(sc.Materials) {
			return fmt.Errorf("%w: reference %d has material id %d (%d materials)", ErrInvalidReference, index, ref.MaterialID, len(sc.Materials))
		}
	}

	return nil
}

// Build a tabular representation of the first limit BVH nodes. A limit <= 0
// includes all nodes.
func (sc *Scene) NodeTable(limit int) string {
	if limit <= 0 || limit > len(sc.BvhNodes) {
		limit = len(sc.BvhNodes)
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Node", "Min", "Max", "Right", "Miss", "Axis", "Leaf range", "Type"})
	for index, node := range sc.BvhNodes[:limit] {
		leafRange, primType := "-", "-"
		if node.IsLeaf() {
			leafRange = fmt.Sprintf("[%d, %d)", node.LeafStart, node.LeafStart+node.LeafCount)
			primType = primitiveTypeName(node.PrimitiveType)
		}
		table.Append([]string{
			fmt.Sprint(index),
			fmt.Sprintf("%.3f", node.Min),
			fmt.Sprintf("%.3f", node.Max),
			fmt.Sprint(node.RightChild),
			fmt.Sprint(node.Miss),
			fmt.Sprint(node.SplitAxis),
			leafRange,
			primType,
		})
	}
	if limit < len(sc.BvhNodes) {
		table.SetFooter([]string{"", "", "", "", "", "", "shown", fmt.Sprintf("%d of %d", limit, len(sc.BvhNodes))})
	}

	table.Render()
	return buf.String()
}

func primitiveTypeName(primType int32) string {
	switch primType {
	case SpherePrimitive:
		return "sphere"
	case QuadPrimitive:
		return "quad"
	case TrianglePrimitive:
		return "triangle"
	case MixedPrimitive:
		return "mixed"
	}
	return fmt.Sprintf("type(%d)", primType)
}
