package bvh

import (
	"bytes"
	"fmt"
	"time"

	"github.com/achilleasa/gputrace/types"
	"github.com/olekukonko/tablewriter"
)

// A BVH tree node. Nodes live in the Tree.Nodes arena and reference each other
// by index. Every node covers the range [Start, Start+Count) of Tree.Order;
// leaves have Left = Right = -1.
type Node struct {
	BBox types.AABB

	Left  int32
	Right int32

	Start int32
	Count int32

	// Split axis for internal nodes.
	Axis types.Axis
}

// Returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.Left < 0
}

// A BVH tree produced by Build.
type Tree struct {
	Nodes []Node
	Root  int32

	// A permutation of the input volume indices. Leaf ranges index into it.
	Order []int

	Stats Stats
}

// Get the input volume indices referenced by node.
func (t *Tree) Items(node int32) []int {
	n := &t.Nodes[node]
	return t.Order[n.Start : n.Start+n.Count]
}

// Reorder items so that they match the tree leaf order. The input slice is
// not modified.
func Reorder[T any](tree *Tree, items []T) []T {
	out := make([]T, len(tree.Order))
	for i, index := range tree.Order {
		out[i] = items[index]
	}
	return out
}

// Calculate the SAH cost of the tree relative to the root box area, using
// unit traversal and intersection costs.
func (t *Tree) sahCost() float64 {
	rootArea := t.Nodes[t.Root].BBox.SurfaceArea()
	if rootArea == 0 {
		return 0
	}

	var cost float64
	for i := range t.Nodes {
		n := &t.Nodes[i]
		area := n.BBox.SurfaceArea() / rootArea
		if n.IsLeaf() {
			cost += float64(n.Count) * area
		} else {
			cost += area
		}
	}
	return cost
}

// Tree build statistics.
type Stats struct {
	Strategy     Strategy
	Items        int
	Nodes        int
	Leaves       int
	MaxDepth     int
	MaxLeafItems int
	SAHCost      float64
	Elapsed      time.Duration
}

// Build a tabular representation of the build statistics.
func (s Stats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"BVH", "Value"})
	table.Append([]string{"Strategy", s.Strategy.String()})
	table.Append([]string{"Primitives", fmt.Sprint(s.Items)})
	table.Append([]string{"Nodes", fmt.Sprint(s.Nodes)})
	table.Append([]string{"Internal", fmt.Sprint(s.Nodes - s.Leaves)})
	table.Append([]string{"Leaves", fmt.Sprint(s.Leaves)})
	table.Append([]string{"Max depth", fmt.Sprint(s.MaxDepth)})
	table.Append([]string{"Max leaf items", fmt.Sprint(s.MaxLeafItems)})
	table.Append([]string{"SAH cost", fmt.Sprintf("%.3f", s.SAHCost)})
	table.SetFooter([]string{"Build time", fmt.Sprintf("%d ms", s.Elapsed.Nanoseconds()/1e6)})
	table.Render()
	return buf.String()
}
