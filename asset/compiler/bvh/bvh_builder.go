package bvh

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/achilleasa/gputrace/log"
	"github.com/achilleasa/gputrace/types"
	"github.com/go-gl/mathgl/mgl64"
)

// The split strategy used by the builder.
type Strategy uint8

const (
	// Split along the longest axis at the median centroid.
	MedianSplit Strategy = iota

	// Evaluate binned surface area heuristic splits along all axes.
	BinnedSAH
)

const (
	// Number of centroid bins per axis for SAH splits.
	sahBins = 8

	// Default cap on pending work items.
	DefaultMaxStackItems = 500000
)

var (
	ErrEmptyWorkList     = errors.New("bvh: empty work list")
	ErrWorkStackOverflow = errors.New("bvh: work stack overflow")
)

func (s Strategy) String() string {
	switch s {
	case MedianSplit:
		return "median"
	case BinnedSAH:
		return "sah"
	}
	return "unknown"
}

// Parse a strategy name ("median" or "sah").
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "median":
		return MedianSplit, nil
	case "sah":
		return BinnedSAH, nil
	}
	return BinnedSAH, fmt.Errorf("bvh: unknown split strategy %q", name)
}

// Builder options.
type Options struct {
	Strategy Strategy

	// Ranges with at most LeafSize items always become leaves.
	LeafSize int

	// The maximum number of pending work items. Builds that exceed it fail
	// with ErrWorkStackOverflow.
	MaxStackItems int
}

// Get the default builder options.
func DefaultOptions() Options {
	return Options{
		Strategy:      BinnedSAH,
		LeafSize:      1,
		MaxStackItems: DefaultMaxStackItems,
	}
}

// The BoundedVolume interface is implemented by all primitives that can
// be partitioned by the bvh builder.
type BoundedVolume interface {
	BBox() types.AABB
}

type workItem struct {
	node       int32
	start, end int
	depth      int
}

type sahBin struct {
	count int
	bbox  types.AABB
}

type builder struct {
	logger log.Logger
	opts   Options

	// Cached volume boxes and centroids, indexed by volume.
	boxes     []types.AABB
	centroids []mgl64.Vec3

	// The volume permutation; leaves reference contiguous ranges of it.
	order []int

	nodes []Node
	stack []workItem
	stats Stats
}

// Construct a BVH from a set of bounded volumes.
//
// The builder never reorders the input; it partitions a permutation of volume
// indices which is returned as Tree.Order. Construction is iterative and
// fails with ErrWorkStackOverflow if the number of pending work items grows
// past opts.MaxStackItems.
func Build(volumes []BoundedVolume, opts Options) (*Tree, error) {
	if len(volumes) == 0 {
		return nil, ErrEmptyWorkList
	}
	if opts.LeafSize < 1 {
		opts.LeafSize = 1
	}
	if opts.MaxStackItems <= 0 {
		opts.MaxStackItems = DefaultMaxStackItems
	}

	b := &builder{
		logger:    log.New("bvh builder"),
		opts:      opts,
		boxes:     make([]types.AABB, len(volumes)),
		centroids: make([]mgl64.Vec3, len(volumes)),
		order:     make([]int, len(volumes)),
		nodes:     make([]Node, 0, 2*len(volumes)-1),
		stats: Stats{
			Items:    len(volumes),
			Strategy: opts.Strategy,
		},
	}
	for index, vol := range volumes {
		b.boxes[index] = vol.BBox()
		b.centroids[index] = b.boxes[index].Center()
		b.order[index] = index
	}

	start := time.Now()
	if err := b.run(); err != nil {
		return nil, err
	}

	tree := &Tree{
		Nodes: b.nodes,
		Root:  0,
		Order: b.order,
	}
	b.stats.Elapsed = time.Since(start)
	b.stats.SAHCost = tree.sahCost()
	tree.Stats = b.stats

	b.logger.Debugf(
		"BVH tree build time: %d ms, strategy: %s, maxDepth: %d, nodes: %d, leafs: %d",
		b.stats.Elapsed.Nanoseconds()/1e6, opts.Strategy,
		b.stats.MaxDepth, b.stats.Nodes, b.stats.Leaves,
	)
	return tree, nil
}

func (b *builder) run() error {
	b.nodes = append(b.nodes, Node{})
	b.stack = append(b.stack, workItem{node: 0, start: 0, end: len(b.order)})

	for len(b.stack) > 0 {
		item := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]

		if item.depth > b.stats.MaxDepth {
			b.stats.MaxDepth = item.depth
		}

		// Calculate bounding box for node
		bbox := types.EmptyAABB()
		for _, index := range b.order[item.start:item.end] {
			bbox = bbox.Merge(b.boxes[index])
		}

		mid, axis, split := b.split(item, bbox)
		if !split {
			b.createLeaf(item, bbox)
			continue
		}

		if len(b.stack)+2 > b.opts.MaxStackItems {
			return fmt.Errorf("%w: %d pending items exceed the limit of %d", ErrWorkStackOverflow, len(b.stack)+2, b.opts.MaxStackItems)
		}

		left := int32(len(b.nodes))
		right := left + 1
		b.nodes = append(b.nodes, Node{}, Node{})
		b.nodes[item.node] = Node{
			BBox:  bbox,
			Left:  left,
			Right: right,
			Start: int32(item.start),
			Count: int32(item.end - item.start),
			Axis:  axis,
		}
		b.stats.Nodes++

		// Push right first so the left subtree is processed first
		b.stack = append(b.stack,
			workItem{node: right, start: mid, end: item.end, depth: item.depth + 1},
			workItem{node: left, start: item.start, end: mid, depth: item.depth + 1},
		)
	}

	return nil
}

// Setup the node for the given work item as a leaf.
func (b *builder) createLeaf(item workItem, bbox types.AABB) {
	count := item.end - item.start
	b.nodes[item.node] = Node{
		BBox:  bbox,
		Left:  -1,
		Right: -1,
		Start: int32(item.start),
		Count: int32(count),
	}

	b.stats.Nodes++
	b.stats.Leaves++
	if count > b.stats.MaxLeafItems {
		b.stats.MaxLeafItems = count
	}
}

// Partition the work item range. Returns the index of the first item of the
// right partition or false if the range should become a leaf.
func (b *builder) split(item workItem, bbox types.AABB) (mid int, axis types.Axis, ok bool) {
	if item.end-item.start <= b.opts.LeafSize {
		return 0, 0, false
	}

	if b.opts.Strategy == MedianSplit {
		axis = bbox.LongestAxis()
		return b.medianSplit(item.start, item.end, axis), axis, true
	}
	return b.sahSplit(item.start, item.end, bbox)
}

// Sort the range by centroid along axis and split it at the median.
func (b *builder) medianSplit(start, end int, axis types.Axis) int {
	slices.SortStableFunc(b.order[start:end], func(l, r int) int {
		return cmp.Compare(b.centroids[l][axis], b.centroids[r][axis])
	})
	return start + (end-start-1)/2 + 1
}

// Find the (axis, plane) pair with the lowest SAH cost among all sahBins-1
// planes of each axis and partition the range around it. The split is
// rejected if its cost is not lower than turning the whole range into a leaf.
// Axes where all centroids coincide are skipped.
func (b *builder) sahSplit(start, end int, bbox types.AABB) (int, types.Axis, bool) {
	centroidBounds := types.EmptyAABB()
	for _, index := range b.order[start:end] {
		centroidBounds = centroidBounds.Grow(b.centroids[index])
	}

	leafCost := float64(end-start) * bbox.SurfaceArea()
	bestCost := math.Inf(1)
	bestAxis, bestPlane := -1, -1

	for axis := 0; axis < 3; axis++ {
		lo, hi := centroidBounds.Min[axis], centroidBounds.Max[axis]
		if hi <= lo {
			continue
		}
		scale := sahBins / (hi - lo)

		var bins [sahBins]sahBin
		for i := range bins {
			bins[i].bbox = types.EmptyAABB()
		}
		for _, index := range b.order[start:end] {
			bin := &bins[binIndex(b.centroids[index][axis], lo, scale)]
			bin.count++
			bin.bbox = bin.bbox.Merge(b.boxes[index])
		}

		// Prefix sums from both ends; plane p separates bins [0,p] and [p+1,sahBins)
		var leftCount, rightCount [sahBins - 1]int
		var leftArea, rightArea [sahBins - 1]float64
		acc, count := types.EmptyAABB(), 0
		for p := 0; p < sahBins-1; p++ {
			count += bins[p].count
			acc = acc.Merge(bins[p].bbox)
			leftCount[p], leftArea[p] = count, acc.SurfaceArea()
		}
		acc, count = types.EmptyAABB(), 0
		for p := sahBins - 1; p > 0; p-- {
			count += bins[p].count
			acc = acc.Merge(bins[p].bbox)
			rightCount[p-1], rightArea[p-1] = count, acc.SurfaceArea()
		}

		for p := 0; p < sahBins-1; p++ {
			// Empty partitions have no area; skip them
			if leftCount[p] == 0 || rightCount[p] == 0 {
				continue
			}
			cost := float64(leftCount[p])*leftArea[p] + float64(rightCount[p])*rightArea[p]
			if cost < bestCost {
				bestCost, bestAxis, bestPlane = cost, axis, p
			}
		}
	}

	if bestAxis < 0 || bestCost >= leafCost {
		return 0, 0, false
	}

	// Partition items with a sequential scan using the same binning
	lo := centroidBounds.Min[bestAxis]
	scale := sahBins / (centroidBounds.Max[bestAxis] - lo)
	mid := start
	for i := start; i < end; i++ {
		if binIndex(b.centroids[b.order[i]][bestAxis], lo, scale) <= bestPlane {
			b.order[i], b.order[mid] = b.order[mid], b.order[i]
			mid++
		}
	}

	axis := types.Axis(bestAxis)
	if mid == start || mid == end {
		return b.medianSplit(start, end, axis), axis, true
	}
	return mid, axis, true
}

func binIndex(centroid, lo, scale float64) int {
	bin := int((centroid - lo) * scale)
	if bin >= sahBins {
		return sahBins - 1
	} else if bin < 0 {
		return 0
	}
	return bin
}
