package bvh

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/gputrace/types"
	"github.com/go-gl/mathgl/mgl64"
)

type testVolume struct {
	bbox types.AABB
}

func (v testVolume) BBox() types.AABB {
	return v.bbox
}

func box(min, max mgl64.Vec3) BoundedVolume {
	return testVolume{types.AABBFromPoints(min, max)}
}

func randomVolumes(count int, seed int64) []BoundedVolume {
	rng := rand.New(rand.NewSource(seed))
	vols := make([]BoundedVolume, count)
	for i := range vols {
		c := mgl64.Vec3{rng.Float64()*20 - 10, rng.Float64()*20 - 10, rng.Float64()*20 - 10}
		h := mgl64.Vec3{rng.Float64() + 0.01, rng.Float64() + 0.01, rng.Float64() + 0.01}
		vols[i] = box(c.Sub(h), c.Add(h))
	}
	return vols
}

func optionsFor(strategy Strategy) Options {
	opts := DefaultOptions()
	opts.Strategy = strategy
	return opts
}

// Verify structural tree invariants.
func assertTree(t *testing.T, tree *Tree, vols []BoundedVolume) {
	t.Helper()

	all := types.EmptyAABB()
	for _, vol := range vols {
		all = all.Merge(vol.BBox())
	}
	if tree.Nodes[tree.Root].BBox != all {
		t.Fatalf("expected root bbox to be the merge of all volumes %v; got %v", all, tree.Nodes[tree.Root].BBox)
	}

	leaves, internal := 0, 0
	seen := make([]int, len(vols))
	for i := range tree.Nodes {
		node := &tree.Nodes[i]
		if node.IsLeaf() {
			leaves++
			if node.Count < 1 {
				t.Fatalf("[node %d] expected leaf to hold at least one item; got %d", i, node.Count)
			}
			for _, index := range tree.Items(int32(i)) {
				seen[index]++
			}
			continue
		}

		internal++
		left, right := &tree.Nodes[node.Left], &tree.Nodes[node.Right]
		if exp := types.Merge(left.BBox, right.BBox); node.BBox != exp {
			t.Fatalf("[node %d] expected bbox to be the merge of its children %v; got %v", i, exp, node.BBox)
		}
		if left.Start != node.Start || left.Count+right.Count != node.Count || right.Start != left.Start+left.Count {
			t.Fatalf("[node %d] expected children to split the node range", i)
		}
	}

	for index, count := range seen {
		if count != 1 {
			t.Fatalf("expected volume %d to appear in exactly one leaf; found it %d times", index, count)
		}
	}

	if internal != leaves-1 {
		t.Fatalf("expected %d internal nodes for %d leaves; got %d", leaves-1, leaves, internal)
	}
	if tree.Stats.Nodes != len(tree.Nodes) || tree.Stats.Leaves != leaves {
		t.Fatalf("expected stats to report %d nodes and %d leaves; got %d and %d", len(tree.Nodes), leaves, tree.Stats.Nodes, tree.Stats.Leaves)
	}
}

func TestBuildInvariants(t *testing.T) {
	vols := randomVolumes(257, 42)

	for _, strategy := range []Strategy{MedianSplit, BinnedSAH} {
		t.Run(strategy.String(), func(t *testing.T) {
			tree, err := Build(vols, optionsFor(strategy))
			if err != nil {
				t.Fatal(err)
			}
			assertTree(t, tree, vols)

			if math.IsNaN(tree.Stats.SAHCost) || tree.Stats.SAHCost <= 0 {
				t.Fatalf("expected a positive SAH cost; got %v", tree.Stats.SAHCost)
			}
		})
	}
}

func TestMedianSplitNodeCount(t *testing.T) {
	for _, count := range []int{1, 2, 3, 7, 64, 100} {
		vols := randomVolumes(count, int64(count))
		tree, err := Build(vols, optionsFor(MedianSplit))
		if err != nil {
			t.Fatal(err)
		}

		if exp := 2*count - 1; len(tree.Nodes) != exp {
			t.Fatalf("[%d volumes] expected %d nodes; got %d", count, exp, len(tree.Nodes))
		}
		assertTree(t, tree, vols)
	}
}

func TestLeafSize(t *testing.T) {
	vols := []BoundedVolume{
		box(mgl64.Vec3{-2, 0, -2}, mgl64.Vec3{-1, 1, -1}),
		box(mgl64.Vec3{1, 0, -2}, mgl64.Vec3{2, 1, -1}),
		box(mgl64.Vec3{-2, 0, 1}, mgl64.Vec3{-1, 1, 2}),
		box(mgl64.Vec3{1, 0, 1}, mgl64.Vec3{2, 1, 2}),
	}

	// Partition each item in a single leaf
	tree, err := Build(vols, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	expCount := 7
	if len(tree.Nodes) != expCount {
		t.Fatalf("expected bvh tree to have %d nodes; got %d", expCount, len(tree.Nodes))
	}
	expCount = 4
	if tree.Stats.Leaves != expCount {
		t.Fatalf("expected %d leaves; got %d", expCount, tree.Stats.Leaves)
	}

	// Partition two items in a single leaf
	opts := DefaultOptions()
	opts.LeafSize = 2
	tree, err = Build(vols, opts)
	if err != nil {
		t.Fatal(err)
	}
	expCount = 3
	if len(tree.Nodes) != expCount {
		t.Fatalf("expected bvh tree to have %d nodes; got %d", expCount, len(tree.Nodes))
	}
	for i := range tree.Nodes {
		if node := &tree.Nodes[i]; node.IsLeaf() && node.Count != 2 {
			t.Fatalf("expected leaf to hold 2 items; got %d", node.Count)
		}
	}
}

func TestSphereAndQuad(t *testing.T) {
	vols := []BoundedVolume{
		// unit sphere at the origin
		box(mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1}),
		// unit quad elsewhere
		testVolume{types.AABBFromPoints(mgl64.Vec3{5, 5, 5}, mgl64.Vec3{6, 6, 5}).Pad(types.DefaultPadding)},
	}

	for _, strategy := range []Strategy{MedianSplit, BinnedSAH} {
		t.Run(strategy.String(), func(t *testing.T) {
			tree, err := Build(vols, optionsFor(strategy))
			if err != nil {
				t.Fatal(err)
			}

			if len(tree.Nodes) != 3 || tree.Stats.Leaves != 2 {
				t.Fatalf("expected 1 internal node and 2 leaves; got %d nodes and %d leaves", len(tree.Nodes), tree.Stats.Leaves)
			}
			root := &tree.Nodes[tree.Root]
			if root.IsLeaf() {
				t.Fatal("expected root to be an internal node")
			}
			if exp := types.Merge(vols[0].BBox(), vols[1].BBox()); root.BBox != exp {
				t.Fatalf("expected root bbox to be %v; got %v", exp, root.BBox)
			}
		})
	}
}

func TestSAHSplitsAlongX(t *testing.T) {
	vols := make([]BoundedVolume, 8)
	for i := range vols {
		x := float64(2 * i)
		vols[i] = box(mgl64.Vec3{x - 0.5, 0, 0}, mgl64.Vec3{x + 0.5, 1, 1})
	}

	// Shuffle the input to make sure the split does not depend on input order
	rand.New(rand.NewSource(7)).Shuffle(len(vols), func(i, j int) { vols[i], vols[j] = vols[j], vols[i] })

	tree, err := Build(vols, optionsFor(BinnedSAH))
	if err != nil {
		t.Fatal(err)
	}
	assertTree(t, tree, vols)

	root := &tree.Nodes[tree.Root]
	if root.Axis != types.XAxis {
		t.Fatalf("expected root split axis to be X; got %d", root.Axis)
	}

	left, right := &tree.Nodes[root.Left], &tree.Nodes[root.Right]
	if left.Count != 4 || right.Count != 4 {
		t.Fatalf("expected a 4/4 split; got %d/%d", left.Count, right.Count)
	}
	for _, index := range tree.Items(root.Left) {
		if vols[index].BBox().Center()[0] > 6 {
			t.Fatalf("expected left child to hold the 4 leftmost volumes; found volume centered at x=%v", vols[index].BBox().Center()[0])
		}
	}

	// The chosen split is cheaper than any other plane
	splitCost := float64(left.Count)*left.BBox.SurfaceArea() + float64(right.Count)*right.BBox.SurfaceArea()
	if exp := float64(120); splitCost != exp {
		t.Fatalf("expected split cost to be %v; got %v", exp, splitCost)
	}
}

func TestDegenerateInput(t *testing.T) {
	p := mgl64.Vec3{1, 1, 1}
	vols := make([]BoundedVolume, 16)
	for i := range vols {
		vols[i] = testVolume{types.AABBFromPoints(p, p).Pad(types.DefaultPadding)}
	}

	for _, strategy := range []Strategy{MedianSplit, BinnedSAH} {
		t.Run(strategy.String(), func(t *testing.T) {
			tree, err := Build(vols, optionsFor(strategy))
			if err != nil {
				t.Fatal(err)
			}
			assertTree(t, tree, vols)

			for i := range tree.Nodes {
				bbox := tree.Nodes[i].BBox
				for axis := 0; axis < 3; axis++ {
					if math.IsNaN(bbox.Min[axis]) || math.IsNaN(bbox.Max[axis]) {
						t.Fatalf("[node %d] unexpected NaN in bbox %v", i, bbox)
					}
				}
			}
		})
	}

	// Coincident centroids leave SAH no axis to split along
	tree, _ := Build(vols, optionsFor(BinnedSAH))
	if len(tree.Nodes) != 1 || tree.Nodes[0].Count != 16 {
		t.Fatalf("expected SAH to produce a single leaf with all volumes; got %d nodes", len(tree.Nodes))
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(nil, DefaultOptions()); err != ErrEmptyWorkList {
		t.Fatalf("expected ErrEmptyWorkList; got %v", err)
	}

	opts := DefaultOptions()
	opts.MaxStackItems = 1
	_, err := Build(randomVolumes(8, 1), opts)
	if !errors.Is(err, ErrWorkStackOverflow) {
		t.Fatalf("expected ErrWorkStackOverflow; got %v", err)
	}
}

func TestReorder(t *testing.T) {
	vols := randomVolumes(32, 3)
	names := make([]int, len(vols))
	for i := range names {
		names[i] = i * 10
	}

	tree, err := Build(vols, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	reordered := Reorder(tree, names)
	for i, index := range tree.Order {
		if reordered[i] != names[index] {
			t.Fatalf("expected item %d to be %d; got %d", i, names[index], reordered[i])
		}
	}
	if names[5] != 50 {
		t.Fatal("expected Reorder not to modify its input")
	}
}

func TestParseStrategy(t *testing.T) {
	if s, err := ParseStrategy("SAH"); err != nil || s != BinnedSAH {
		t.Fatalf("expected to parse the sah strategy; got %v, %v", s, err)
	}
	if s, err := ParseStrategy("median"); err != nil || s != MedianSplit {
		t.Fatalf("expected to parse the median strategy; got %v, %v", s, err)
	}
	if _, err := ParseStrategy("lbvh"); err == nil {
		t.Fatal("expected an error for an unknown strategy")
	}
}
