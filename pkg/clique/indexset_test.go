package clique

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexSet_AddKeepsSortedUnique(t *testing.T) {
	s := NewIndexSet(5, 1, 3, 1, 9, 3)
	assert.Equal(t, []int{1, 3, 5, 9}, s.Values())
	assert.Equal(t, 4, s.Len())

	s.Add(4, 0, 10)
	assert.Equal(t, []int{0, 1, 3, 4, 5, 9, 10}, s.Values())
}

func TestIndexSet_Remove(t *testing.T) {
	s := NewIndexSet(1, 2, 3)
	assert.True(t, s.Remove(2))
	assert.False(t, s.Remove(2))
	assert.False(t, s.Contains(2))
	assert.Equal(t, []int{1, 3}, s.Values())
}

func TestIndexSet_MinMax(t *testing.T) {
	var empty IndexSet
	_, ok := empty.Min()
	assert.False(t, ok)
	_, ok = empty.Max()
	assert.False(t, ok)

	s := NewIndexSet(7, 2, 11)
	lo, ok := s.Min()
	require.True(t, ok)
	hi, ok := s.Max()
	require.True(t, ok)
	assert.Equal(t, 2, lo)
	assert.Equal(t, 11, hi)
}

func TestIndexSet_AllIsRestartable(t *testing.T) {
	s := NewIndexSet(3, 1, 2)
	first := slices.Collect(s.All())
	second := slices.Collect(s.All())
	assert.Equal(t, []int{1, 2, 3}, first)
	assert.Equal(t, first, second)
}

func TestIndexSet_UpdateAndClone(t *testing.T) {
	a := NewIndexSet(1, 2)
	b := NewIndexSet(2, 3)
	a.Update(b)
	assert.Equal(t, []int{1, 2, 3}, a.Values())

	c := a.Clone()
	c.Add(4)
	assert.False(t, a.Contains(4))
	assert.False(t, a.Equal(c))

	var empty IndexSet
	empty.Update(b)
	assert.True(t, empty.Equal(b))
	empty.Add(99)
	assert.False(t, b.Contains(99))
}

func TestIndexSet_AddRange(t *testing.T) {
	s := NewIndexSet(5)
	s.AddRange(3, 7)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, s.Values())

	s.AddRange(10, 9)
	assert.Equal(t, 5, s.Len())
}

func TestIndexSet_RemoveRange(t *testing.T) {
	s := NewIndexSet()
	s.AddRange(1, 10)
	s.Add(20, 21)

	assert.Equal(t, 3, s.RemoveRange(4, 6))
	assert.Equal(t, []int{1, 2, 3, 7, 8, 9, 10, 20, 21}, s.Values())

	assert.Equal(t, 4, s.RemoveRange(8, 20))
	assert.Equal(t, []int{1, 2, 3, 7, 21}, s.Values())

	assert.Equal(t, 0, s.RemoveRange(100, 200))
	assert.Equal(t, 0, s.RemoveRange(5, 4))
	assert.Equal(t, 5, s.Len())
}

func TestIndexSet_ContainsRange(t *testing.T) {
	s := NewIndexSet(1, 2, 3, 5)
	assert.True(t, s.ContainsRange(1, 3))
	assert.True(t, s.ContainsRange(5, 5))
	assert.False(t, s.ContainsRange(3, 5))
	assert.False(t, s.ContainsRange(6, 7))
	assert.False(t, IndexSet{}.ContainsRange(0, 0))
}

func TestIndexSet_Ranges(t *testing.T) {
	s := NewIndexSet(9, 1, 2, 3, 7, 5, 6)
	var got [][2]int
	for lo, hi := range s.Ranges() {
		got = append(got, [2]int{lo, hi})
	}
	assert.Equal(t, [][2]int{{1, 3}, {5, 7}, {9, 9}}, got)
}

func TestIndexSet_WideRangeStaysCompact(t *testing.T) {
	var s IndexSet
	s.AddRange(0, 300_000_000)
	assert.Equal(t, 300_000_001, s.Len())
	assert.True(t, s.ContainsRange(1, 299_999_999))

	assert.Equal(t, 1_000_000, s.RemoveRange(100_000_000, 100_999_999))
	assert.Equal(t, 299_000_001, s.Len())
	assert.False(t, s.Contains(100_500_000))
	assert.True(t, s.Contains(101_000_000))
}

func TestIndexSet_AddManyUnsorted(t *testing.T) {
	const n = 200_000
	indexes := make([]int, 0, n)
	for i := n; i > 0; i-- {
		indexes = append(indexes, i*2)
	}

	s := NewIndexSet(indexes...)
	assert.Equal(t, n, s.Len())
	lo, _ := s.Min()
	hi, _ := s.Max()
	assert.Equal(t, 2, lo)
	assert.Equal(t, n*2, hi)
	assert.True(t, s.Contains(1000))
	assert.False(t, s.Contains(1001))
}
