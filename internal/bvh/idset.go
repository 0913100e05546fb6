package bvh

import (
	"slices"

	"github.com/samber/lo"
)

// IDSet is a set of triangle ids.
type IDSet map[int]struct{}

func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	s.Add(ids...)
	return s
}

func (s IDSet) Add(ids ...int) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Len() int {
	return len(s)
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []int {
	ids := lo.Keys(s)
	slices.Sort(ids)
	return ids
}
