package ecs

import "sort"

func sortedIndices(indices []uint32) []uint32 {
	out := append([]uint32(nil), indices...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func entitiesOf(w *World, indices []uint32) []Entity {
	out := make([]Entity, 0, len(indices))
	for _, index := range indices {
		if e, ok := w.entities.at(index); ok {
			out = append(out, e)
		}
	}
	return out
}

// IndexSet is a set of entity indices, iterated in ascending order.
type IndexSet map[uint32]struct{}

func (s IndexSet) Add(index uint32) {
	s[index] = struct{}{}
}

func (s IndexSet) Has(index uint32) bool {
	_, ok := s[index]
	return ok
}

// Union adds every index of other to s.
func (s IndexSet) Union(other IndexSet) {
	for index := range other {
		s[index] = struct{}{}
	}
}

func (s IndexSet) Sorted() []uint32 {
	out := make([]uint32, 0, len(s))
	for index := range s {
		out = append(out, index)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
