package clique

import (
	"iter"
	"slices"
	"sort"
)

// span is a closed run [lo, hi] of consecutive indexes.
type span struct {
	lo, hi int
}

func (r span) size() int { return r.hi - r.lo + 1 }

// IndexSet is a sorted set of unique non-negative integers, stored as
// disjoint runs so wide ranges cost no more than their end points.
// The zero value is an empty set ready to use.
type IndexSet struct {
	runs []span // ascending, never overlapping or touching
	n    int
}

// NewIndexSet returns a set holding the given indexes.
func NewIndexSet(indexes ...int) IndexSet {
	var s IndexSet
	s.Add(indexes...)
	return s
}

// Add inserts indexes, ignoring ones already present. Several indexes are
// sorted first, so the order they are given in does not matter.
func (s *IndexSet) Add(indexes ...int) {
	if len(indexes) == 1 {
		s.AddRange(indexes[0], indexes[0])
		return
	}

	sorted := slices.Clone(indexes)
	slices.Sort(sorted)
	var runs []span
	for _, index := range sorted {
		if k := len(runs) - 1; k >= 0 && index <= runs[k].hi+1 {
			runs[k].hi = max(runs[k].hi, index)
			continue
		}
		runs = append(runs, span{index, index})
	}
	for _, r := range runs {
		s.AddRange(r.lo, r.hi)
	}
}

// AddRange inserts every index in [start, end].
func (s *IndexSet) AddRange(start, end int) {
	if end < start {
		return
	}

	// Runs i..j-1 overlap or touch [start, end].
	i := sort.Search(len(s.runs), func(k int) bool { return s.runs[k].hi >= start-1 })
	j := i + sort.Search(len(s.runs)-i, func(k int) bool { return s.runs[i+k].lo > end+1 })

	merged := span{start, end}
	for _, r := range s.runs[i:j] {
		merged.lo = min(merged.lo, r.lo)
		merged.hi = max(merged.hi, r.hi)
		s.n -= r.size()
	}
	s.runs = slices.Replace(s.runs, i, j, merged)
	s.n += merged.size()
}

// Remove deletes index and reports whether it was present.
func (s *IndexSet) Remove(index int) bool {
	return s.RemoveRange(index, index) == 1
}

// RemoveRange deletes every index in [start, end] and returns how many
// were present.
func (s *IndexSet) RemoveRange(start, end int) int {
	if end < start {
		return 0
	}

	i := sort.Search(len(s.runs), func(k int) bool { return s.runs[k].hi >= start })
	j := i
	var kept []span
	removed := 0
	for ; j < len(s.runs) && s.runs[j].lo <= end; j++ {
		r := s.runs[j]
		if r.lo < start {
			kept = append(kept, span{r.lo, start - 1})
		}
		if r.hi > end {
			kept = append(kept, span{end + 1, r.hi})
		}
		removed += min(r.hi, end) - max(r.lo, start) + 1
	}
	if removed > 0 {
		s.runs = slices.Replace(s.runs, i, j, kept...)
		s.n -= removed
	}
	return removed
}

// Contains reports whether index is in the set.
func (s IndexSet) Contains(index int) bool {
	return s.ContainsRange(index, index)
}

// ContainsRange reports whether every index in [start, end] is in the set.
func (s IndexSet) ContainsRange(start, end int) bool {
	i := sort.Search(len(s.runs), func(k int) bool { return s.runs[k].hi >= start })
	return i < len(s.runs) && s.runs[i].lo <= start && s.runs[i].hi >= end
}

// Len returns the number of indexes.
func (s IndexSet) Len() int {
	return s.n
}

// Min returns the smallest index; ok is false for an empty set.
func (s IndexSet) Min() (index int, ok bool) {
	if len(s.runs) == 0 {
		return 0, false
	}
	return s.runs[0].lo, true
}

// Max returns the largest index; ok is false for an empty set.
func (s IndexSet) Max() (index int, ok bool) {
	if len(s.runs) == 0 {
		return 0, false
	}
	return s.runs[len(s.runs)-1].hi, true
}

// Values returns the indexes in ascending order.
func (s IndexSet) Values() []int {
	values := make([]int, 0, s.n)
	for _, r := range s.runs {
		for index := r.lo; index <= r.hi; index++ {
			values = append(values, index)
		}
	}
	return values
}

// All iterates the indexes in ascending order.
func (s IndexSet) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, r := range s.runs {
			for index := r.lo; index <= r.hi; index++ {
				if !yield(index) {
					return
				}
			}
		}
	}
}

// Ranges iterates the maximal runs of consecutive indexes as (lo, hi)
// pairs, in ascending order.
func (s IndexSet) Ranges() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for _, r := range s.runs {
			if !yield(r.lo, r.hi) {
				return
			}
		}
	}
}

// Update adds every index of other.
func (s *IndexSet) Update(other IndexSet) {
	if len(s.runs) == 0 {
		*s = other.Clone()
		return
	}
	for _, r := range other.runs {
		s.AddRange(r.lo, r.hi)
	}
}

// Clone returns an independent copy.
func (s IndexSet) Clone() IndexSet {
	return IndexSet{runs: slices.Clone(s.runs), n: s.n}
}

// Equal reports whether both sets hold the same indexes.
func (s IndexSet) Equal(other IndexSet) bool {
	return slices.Equal(s.runs, other.runs)
}
