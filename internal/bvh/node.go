package bvh

import "slices"

// Node is one level of the hierarchy. A leaf holds its triangles directly;
// an internal node hands every one of its triangles to exactly one child.
// Children are indexed by octant and nil where the octant is empty.
type Node[V Volume[V]] struct {
	Volume   V
	Leaf     bool
	IDs      []int
	Children [8]*Node[V]
}

// Empty reports whether the node covers no triangles.
func (n *Node[V]) Empty() bool {
	return len(n.IDs) == 0
}

// ChildCount is the number of non-empty octants.
func (n *Node[V]) ChildCount() int {
	count := 0
	for _, c := range n.Children {
		if c != nil {
			count++
		}
	}
	return count
}

func (n *Node[V]) clone() *Node[V] {
	if n == nil {
		return nil
	}
	c := &Node[V]{
		Volume: n.Volume,
		Leaf:   n.Leaf,
		IDs:    slices.Clone(n.IDs),
	}
	for i, child := range n.Children {
		c.Children[i] = child.clone()
	}
	return c
}

func (n *Node[V]) walk(depth int, fn func(n *Node[V], depth int)) {
	fn(n, depth)
	for _, c := range n.Children {
		if c != nil {
			c.walk(depth+1, fn)
		}
	}
}
