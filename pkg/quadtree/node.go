// pkg/quadtree/node.go
package quadtree

import "github.com/opd-ai/go-linesim/pkg/physics"

// noChild marks an absent child slot.
const noChild = int32(-1)

// Quadrant indices, matching the subdivision order in subdivide.
const (
	quadSW = iota
	quadSE
	quadNW
	quadNE
)

// node is a square cell of the tree, stored in the tree's arena and
// addressed by index. A leaf holds indices into the tree's canonical line
// slice; once subdivided a node is permanently internal and holds only its
// four child indices. The arena owns every node, so there is nothing to
// free and no pointer can dangle across a subdivision.
type node struct {
	bounds   physics.Bounds
	depth    int32
	leaf     bool
	children [4]int32
	lines    []int32
}

// newNode appends a leaf to the arena and returns its index. Fails with
// ErrArenaExhausted when the arena cap is reached.
func (t *Tree) newNode(bounds physics.Bounds, depth int32) (int32, error) {
	if len(t.nodes) >= t.cfg.MaxNodes {
		return noChild, ErrArenaExhausted
	}
	t.nodes = append(t.nodes, node{
		bounds:   bounds,
		depth:    depth,
		leaf:     true,
		children: [4]int32{noChild, noChild, noChild, noChild},
	})
	idx := int32(len(t.nodes) - 1)
	if t.cfg.CollectStats {
		t.stats.TotalNodes++
		if depth > t.stats.MaxDepthReached {
			t.stats.MaxDepthReached = depth
		}
	}
	return idx, nil
}

// shouldSplit reports whether a leaf has outgrown its occupancy limit and
// is still allowed to subdivide.
func (t *Tree) shouldSplit(idx int32) bool {
	n := &t.nodes[idx]
	if !n.leaf || len(n.lines) <= t.cfg.MaxLinesPerNode {
		return false
	}
	if int(n.depth) >= t.cfg.MaxDepth {
		return false
	}
	// Children must not shrink below the minimum cell size.
	return n.bounds.Width() >= 2*t.cfg.MinCellSize
}

// subdivide splits a leaf into four equal square children and redistributes
// every held line into the children it overlaps, using the bounding boxes
// precomputed during the build pass. The node becomes permanently internal
// and sheds its line list.
func (t *Tree) subdivide(idx int32) error {
	bounds := t.nodes[idx].bounds
	depth := t.nodes[idx].depth
	xmid := (bounds.XMin + bounds.XMax) / 2
	ymid := (bounds.YMin + bounds.YMax) / 2

	quadrants := [4]physics.Bounds{
		quadSW: {XMin: bounds.XMin, XMax: xmid, YMin: bounds.YMin, YMax: ymid},
		quadSE: {XMin: xmid, XMax: bounds.XMax, YMin: bounds.YMin, YMax: ymid},
		quadNW: {XMin: bounds.XMin, XMax: xmid, YMin: ymid, YMax: bounds.YMax},
		quadNE: {XMin: xmid, XMax: bounds.XMax, YMin: ymid, YMax: bounds.YMax},
	}

	var children [4]int32
	for q, qb := range quadrants {
		child, err := t.newNode(qb, depth+1)
		if err != nil {
			return err
		}
		children[q] = child
	}

	// newNode may have grown the arena, so re-index before mutating.
	held := t.nodes[idx].lines
	t.nodes[idx].lines = nil
	t.nodes[idx].leaf = false
	t.nodes[idx].children = children

	// Redistribute in stored order so rebuilds from the same snapshot
	// produce identical trees.
	for _, lineIdx := range held {
		for _, child := range children {
			if err := t.insert(child, lineIdx); err != nil {
				return err
			}
		}
	}
	return nil
}

// insert places a line (by canonical index) into the subtree rooted at idx.
// A line whose box straddles a cell boundary is replicated into every
// overlapping leaf; membership is decided by the swept bounding box, never
// by a point sample.
func (t *Tree) insert(idx, lineIdx int32) error {
	if !t.boxes[lineIdx].Overlaps(t.nodes[idx].bounds) {
		return nil
	}
	if t.nodes[idx].leaf {
		t.nodes[idx].lines = append(t.nodes[idx].lines, lineIdx)
		if t.cfg.CollectStats && len(t.nodes[idx].lines) > t.stats.MaxLinesInNode {
			t.stats.MaxLinesInNode = len(t.nodes[idx].lines)
		}
		if t.shouldSplit(idx) {
			return t.subdivide(idx)
		}
		return nil
	}
	// Child recursion appends to the arena, so copy the indices first.
	children := t.nodes[idx].children
	for _, child := range children {
		if err := t.insert(child, lineIdx); err != nil {
			return err
		}
	}
	return nil
}
