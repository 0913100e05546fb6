package bvh

import (
	"github.com/samber/lo"

	"collide3d/internal/engine"
)

// Intersect walks both hierarchies in lockstep and returns, for each side,
// the ids of triangles whose leaves overlap some part of the other tree.
// A leaf is flushed as soon as it overlaps and is not compared again, so the
// other side's deeper nodes never see it. With volumes that enclose their
// placed triangles (Sphere, OBB) at least one triangle of every
// intersecting pair is reported, but its partner can be missed. The
// sets may also hold triangles that only share overlapping volumes.
func Intersect[V Volume[V]](a *Tree[V], xfA engine.Transform, b *Tree[V], xfB engine.Transform) (IDSet, IDSet) {
	hitsA, hitsB := IDSet{}, IDSet{}
	if a == nil || b == nil || a.root.Empty() || b.root.Empty() {
		return hitsA, hitsB
	}
	if !a.root.Volume.Intersects(xfA, b.root.Volume, xfB) {
		return hitsA, hitsB
	}

	checkA := []*Node[V]{a.root}
	checkB := []*Node[V]{b.root}
	for {
		// Both sides expand against the other side's list as it was at the
		// start of the round.
		nextA := expand(checkA, hitsA, againstNodes(xfA, checkB, xfB))
		nextB := expand(checkB, hitsB, againstNodes(xfB, checkA, xfA))

		switch {
		case len(nextA) == 0 && len(nextB) == 0:
			return hitsA, hitsB
		case len(nextA) == 0:
			finalize(nextB, hitsB, againstNodes(xfB, checkA, xfA))
			return hitsA, hitsB
		case len(nextB) == 0:
			finalize(nextA, hitsA, againstNodes(xfA, checkB, xfB))
			return hitsA, hitsB
		}
		checkA, checkB = nextA, nextB
	}
}

// IntersectAgainstVolume returns the ids of triangles in leaves overlapping
// query, a world-space box.
func IntersectAgainstVolume[V Volume[V]](tree *Tree[V], xf engine.Transform, query OBB) IDSet {
	hits := IDSet{}
	if tree == nil || tree.root.Empty() {
		return hits
	}
	hitsQuery := func(n *Node[V]) bool {
		return Overlap(n.Volume.Placed(xf), query)
	}
	if !hitsQuery(tree.root) {
		return hits
	}
	finalize([]*Node[V]{tree.root}, hits, hitsQuery)
	return hits
}

// finalize keeps expanding queue against a fixed predicate until no internal
// nodes remain. It runs once the other tree has nothing left to descend
// into: its last list stays the comparison set.
func finalize[V Volume[V]](queue []*Node[V], hits IDSet, overlaps func(*Node[V]) bool) {
	for len(queue) > 0 {
		queue = expand(queue, hits, overlaps)
	}
}

// expand flushes the leaves in queue into hits and returns the internal
// children that overlap. Children that are leaves are flushed right away.
func expand[V Volume[V]](queue []*Node[V], hits IDSet, overlaps func(*Node[V]) bool) []*Node[V] {
	var next []*Node[V]
	for _, n := range queue {
		if n.Leaf {
			hits.Add(n.IDs...)
			continue
		}
		for _, child := range n.Children {
			if child == nil || !overlaps(child) {
				continue
			}
			if child.Leaf {
				hits.Add(child.IDs...)
			} else {
				next = append(next, child)
			}
		}
	}
	return next
}

// againstNodes builds the predicate "overlaps at least one of others".
func againstNodes[V Volume[V]](xf engine.Transform, others []*Node[V], otherXf engine.Transform) func(*Node[V]) bool {
	return func(n *Node[V]) bool {
		return lo.ContainsBy(others, func(o *Node[V]) bool {
			return n.Volume.Intersects(xf, o.Volume, otherXf)
		})
	}
}
