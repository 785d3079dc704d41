package bvh

import "github.com/achilleasa/gputrace/types"

// A node of the flattened BVH. Nodes are stored in pre-order so the ID of
// a node equals its position in the flattened list.
//
// Links are IDs into the same list; -1 means "none":
//   - Hit is the next node to visit when the ray hits the node box. For
//     internal nodes it is the left child (always ID+1); for leaves it
//     equals Miss.
//   - Miss is the next node to visit when the ray misses the node box (or,
//     for leaves, after processing the leaf items): the right child of the
//     nearest ancestor whose left subtree contains the node. -1 terminates
//     the traversal.
//   - Right is the right child of internal nodes and -1 for leaves.
//
// Start and Count index Tree.Order for leaves and are -1 for internal nodes.
// Axis is the split axis of internal nodes and -1 for leaves.
type LinearNode struct {
	BBox types.AABB

	ID    int32
	Hit   int32
	Miss  int32
	Right int32

	Start int32
	Count int32
	Axis  int32
}

// Returns true if this is a leaf node.
func (n *LinearNode) IsLeaf() bool {
	return n.Right < 0
}

type linearItem struct {
	node      int32
	nextRight int32
}

// Flatten tree into a list of nodes with stackless traversal links.
func Linearize(tree *Tree) []LinearNode {
	out := make([]LinearNode, 0, len(tree.Nodes))

	// Map arena indices to pre-order IDs
	ids := make([]int32, len(tree.Nodes))

	// Links are first recorded as arena indices and remapped below
	stack := []linearItem{{node: tree.Root, nextRight: -1}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &tree.Nodes[item.node]
		ids[item.node] = int32(len(out))

		if node.IsLeaf() {
			out = append(out, LinearNode{
				BBox:  node.BBox,
				ID:    int32(len(out)),
				Hit:   item.nextRight,
				Miss:  item.nextRight,
				Right: -1,
				Start: node.Start,
				Count: node.Count,
				Axis:  -1,
			})
			continue
		}

		out = append(out, LinearNode{
			BBox:  node.BBox,
			ID:    int32(len(out)),
			Hit:   node.Left,
			Miss:  item.nextRight,
			Right: node.Right,
			Start: -1,
			Count: -1,
			Axis:  int32(node.Axis),
		})

		stack = append(stack,
			linearItem{node: node.Right, nextRight: item.nextRight},
			linearItem{node: node.Left, nextRight: node.Right},
		)
	}

	remap := func(index int32) int32 {
		if index < 0 {
			return -1
		}
		return ids[index]
	}
	for i := range out {
		out[i].Hit = remap(out[i].Hit)
		out[i].Miss = remap(out[i].Miss)
		out[i].Right = remap(out[i].Right)
	}

	return out
}
