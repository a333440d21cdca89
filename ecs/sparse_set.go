package ecs

// SparseSet stores values keyed by entity index in a dense slice with a
// sparse index lookup. Removal swaps the last element into the hole.
type SparseSet[T any] struct {
	denseIndices []uint32
	denseValues  []T
	sparse       []int
}

// Has returns true if the index exists in the set.
func (s *SparseSet[T]) Has(index uint32) bool {
	if s == nil || index == 0 || int(index) > len(s.sparse) {
		return false
	}
	pos := s.sparse[index-1]
	return pos >= 0 && pos < len(s.denseIndices) && s.denseIndices[pos] == index
}

// Get returns the value for index.
func (s *SparseSet[T]) Get(index uint32) (T, bool) {
	var zero T
	if !s.Has(index) {
		return zero, false
	}
	return s.denseValues[s.sparse[index-1]], true
}

// Set inserts or replaces the value for index. It reports whether a value
// was already present.
func (s *SparseSet[T]) Set(index uint32, v T) bool {
	if index == 0 {
		return false
	}
	for int(index) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.Has(index) {
		s.denseValues[s.sparse[index-1]] = v
		return true
	}
	s.denseIndices = append(s.denseIndices, index)
	s.denseValues = append(s.denseValues, v)
	s.sparse[index-1] = len(s.denseIndices) - 1
	return false
}

// Remove deletes the value for index if present.
func (s *SparseSet[T]) Remove(index uint32) bool {
	if !s.Has(index) {
		return false
	}
	pos := s.sparse[index-1]
	last := len(s.denseIndices) - 1
	lastIndex := s.denseIndices[last]

	s.denseIndices[pos] = lastIndex
	s.denseValues[pos] = s.denseValues[last]
	s.sparse[lastIndex-1] = pos

	var zero T
	s.denseValues[last] = zero
	s.denseIndices = s.denseIndices[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[index-1] = -1
	return true
}

// Indices returns the dense index list. Callers must not modify it.
func (s *SparseSet[T]) Indices() []uint32 {
	if s == nil {
		return nil
	}
	return s.denseIndices
}

func (s *SparseSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseIndices)
}
