package ecs

// SparseSet stores one component kind keyed by entity id. Values are kept
// as `any` so a single World can hold every kind in one map.
type SparseSet struct {
	dense  []entityID
	values []any
	sparse []int32
}

func (s *SparseSet) Has(id entityID) bool {
	if s == nil || id == 0 || int(id) > len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && int(idx) < len(s.dense) && s.dense[idx] == id
}

func (s *SparseSet) Get(id entityID) (any, bool) {
	if !s.Has(id) {
		return nil, false
	}
	return s.values[s.sparse[id-1]], true
}

// Set inserts or replaces the value for id.
func (s *SparseSet) Set(id entityID, v any) {
	if s == nil || id == 0 {
		return
	}
	for int(id) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.Has(id) {
		s.values[s.sparse[id-1]] = v
		return
	}
	s.dense = append(s.dense, id)
	s.values = append(s.values, v)
	s.sparse[id-1] = int32(len(s.dense) - 1)
}

// Remove swaps the last element into the hole. It reports whether id was
// present.
func (s *SparseSet) Remove(id entityID) bool {
	if !s.Has(id) {
		return false
	}
	idx := s.sparse[id-1]
	last := len(s.dense) - 1
	moved := s.dense[last]

	s.dense[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[moved-1] = idx

	s.dense = s.dense[:last]
	s.values[last] = nil
	s.values = s.values[:last]
	s.sparse[id-1] = -1
	return true
}

func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}

// ids returns a copy of the dense id list so callers may mutate the set
// while iterating.
func (s *SparseSet) ids() []entityID {
	if s == nil || len(s.dense) == 0 {
		return nil
	}
	return append([]entityID(nil), s.dense...)
}
