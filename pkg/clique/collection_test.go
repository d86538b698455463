package clique

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_MatchPadded(t *testing.T) {
	c := NewCollection("head.", ".ext", 4)

	tests := []struct {
		item  string
		index int
		ok    bool
	}{
		{"head.0001.ext", 1, true},
		{"head.1000.ext", 1000, true},
		{"head.1.ext", 0, false},
		{"head.00001.ext", 0, false},
		{"other.0001.ext", 0, false},
		{"head.0001.ext.bak", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			index, ok := c.Match(tt.item)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.index, index)
			}
		})
	}
}

func TestCollection_MatchUnpadded(t *testing.T) {
	c := NewCollection("head.", ".ext", 0)

	index, ok := c.Match("head.10.ext")
	require.True(t, ok)
	assert.Equal(t, 10, index)

	index, ok = c.Match("head.0.ext")
	require.True(t, ok)
	assert.Equal(t, 0, index)

	_, ok = c.Match("head.01.ext")
	assert.False(t, ok, "leading zero must not match an unpadded collection")
}

func TestCollection_HeadAndTailAreLiteral(t *testing.T) {
	c := NewCollection("shot(1).", ".[v]", 0, 3)
	assert.True(t, c.Contains("shot(1).3.[v]"))
	assert.False(t, c.Contains("shot1.3.v"))
}

func TestCollection_Contains(t *testing.T) {
	c := NewCollection("a.", ".png", 3, 1, 2)
	assert.True(t, c.Contains("a.001.png"))
	assert.False(t, c.Contains("a.003.png"), "index not present")
	assert.False(t, c.Contains("a.1.png"), "wrong width")
}

func TestCollection_AddRemove(t *testing.T) {
	c := NewCollection("a.", ".png", 3)

	require.NoError(t, c.Add("a.007.png"))
	assert.Equal(t, []int{7}, c.Indexes.Values())

	err := c.Add("b.007.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoMatch))
	var ce *CollectionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "add", ce.Op)
	assert.Equal(t, "b.007.png", ce.Item)

	err = c.Remove("a.008.png")
	assert.True(t, errors.Is(err, ErrNotPresent))

	err = c.Remove("a.8.png")
	assert.True(t, errors.Is(err, ErrNoMatch))

	require.NoError(t, c.Remove("a.007.png"))
	assert.Equal(t, 0, c.Indexes.Len())
}

func TestCollection_Iteration(t *testing.T) {
	c := NewCollection("a.", ".png", 3, 3, 1, 2)
	want := []string{"a.001.png", "a.002.png", "a.003.png"}

	assert.Equal(t, want, c.Members())
	assert.Equal(t, want, slices.Collect(c.Items()), "iteration restarts")

	for item := range c.Items() {
		assert.True(t, c.Contains(item), item)
	}

	unpadded := NewCollection("v", "", 0, 9, 10)
	assert.Equal(t, []string{"v9", "v10"}, unpadded.Members())
}

func TestCollection_IsContiguous(t *testing.T) {
	assert.True(t, NewCollection("a", "b", 0).IsContiguous())
	assert.True(t, NewCollection("a", "b", 0, 4).IsContiguous())
	assert.True(t, NewCollection("a", "b", 0, 1, 2, 3).IsContiguous())
	assert.False(t, NewCollection("a", "b", 0, 1, 3).IsContiguous())
}

func TestCollection_Holes(t *testing.T) {
	c := NewCollection("a.", ".exr", 4, 1, 2, 5, 9)
	holes := c.Holes()

	assert.Equal(t, "a.", holes.Head())
	assert.Equal(t, ".exr", holes.Tail())
	assert.Equal(t, 4, holes.Padding)
	assert.Equal(t, []int{3, 4, 6, 7, 8}, holes.Indexes.Values())

	assert.Equal(t, 0, NewCollection("a", "b", 0, 1, 2).Holes().Indexes.Len())
	assert.Equal(t, 0, NewCollection("a", "b", 0).Holes().Indexes.Len())
}

func TestCollection_HolesAcrossWideGap(t *testing.T) {
	c := NewCollection("cap_", ".png", 0, 1_700_000_000, 1_900_000_000)

	holes := c.Holes()
	assert.Equal(t, 199_999_999, holes.Indexes.Len())
	assert.False(t, c.IsContiguous())
	assert.Equal(t, "1700000001-1899999999", c.Format("{holes}"))
	assert.Equal(t, "cap_%d.png [1700000000, 1900000000]", c.String())
}

func TestCollection_Merge(t *testing.T) {
	a := NewCollection("a.", ".exr", 4, 1, 2)
	b := NewCollection("a.", ".exr", 4, 2, 3)

	require.NoError(t, a.Merge(b))
	assert.Equal(t, []int{1, 2, 3}, a.Indexes.Values())

	require.NoError(t, a.Merge(a))
	assert.Equal(t, []int{1, 2, 3}, a.Indexes.Values(), "merging with itself is idempotent")

	err := a.Merge(NewCollection("a.", ".exr", 3, 9))
	assert.True(t, errors.Is(err, ErrIncompatible))
	assert.False(t, a.IsCompatible(nil))
}

func TestCollection_Separate(t *testing.T) {
	c := NewCollection("a", "b", 0, 1, 2, 3, 10, 11)
	runs := c.Separate()

	require.Len(t, runs, 2)
	assert.Equal(t, []int{1, 2, 3}, runs[0].Indexes.Values())
	assert.Equal(t, []int{10, 11}, runs[1].Indexes.Values())
	for _, run := range runs {
		assert.True(t, run.IsContiguous())
		assert.True(t, run.IsCompatible(c))
	}

	empty := NewCollection("a", "b", 0).Separate()
	require.Len(t, empty, 1)
	assert.Equal(t, 0, empty[0].Indexes.Len())
}

func TestCollection_Format(t *testing.T) {
	c := NewCollection("render.", ".exr", 4, 1, 2, 3, 5, 6, 10)

	tests := []struct {
		pattern string
		want    string
	}{
		{DefaultFormat, "render.%04d.exr [1-3, 5-6, 10]"},
		{"{head}", "render."},
		{"{tail}", ".exr"},
		{"{padding}", "%04d"},
		{"{range}", "1-10"},
		{"{ranges}", "1-3, 5-6, 10"},
		{"{holes}", "4, 7-9"},
		{"{head}#{tail} {unknown}", "render.#.exr {unknown}"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Format(tt.pattern))
		})
	}

	assert.Equal(t, "%d", NewCollection("a", "b", 0).Format("{padding}"))
	assert.Equal(t, "5", NewCollection("a", "b", 0, 5).Format("{range}"))
	assert.Equal(t, "", NewCollection("a", "b", 0).Format("{ranges}"))
	assert.Equal(t, "a%db []", NewCollection("a", "b", 0).String())
}

func TestCollection_EqualAndCompare(t *testing.T) {
	a := NewCollection("a", "b", 0, 1, 2)
	same := NewCollection("a", "b", 0, 2, 1)
	other := NewCollection("a", "b", 0, 5, 6)

	assert.True(t, a.Equal(same))
	assert.False(t, a.Equal(other))
	assert.Equal(t, 0, a.Compare(other), "ordering ignores index values")

	assert.True(t, NewCollection("a", "b", 0, 1).Less(a))
	assert.True(t, a.Less(NewCollection("a", "c", 0)))
	assert.True(t, a.Less(NewCollection("a", "b", 1)))
	assert.True(t, NewCollection("a", "b", 9).Compare(NewCollection("b", "a", 0)) < 0)
}

func TestSortCollections(t *testing.T) {
	collections := []*Collection{
		NewCollection("b", "", 0, 1, 2),
		NewCollection("a", "", 0, 1, 2, 3),
		NewCollection("a", "", 0, 1),
	}
	SortCollections(collections)

	var got []string
	for _, c := range collections {
		got = append(got, c.String())
	}
	want := []string{"a%d [1]", "a%d [1-3]", "b%d [1-2]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SortCollections mismatch (-want +got):\n%s", diff)
	}
}

func TestCollection_Clone(t *testing.T) {
	a := NewCollection("a", "b", 2, 1)
	b := a.Clone()
	b.Indexes.Add(2)
	b.Padding = 3

	assert.Equal(t, []int{1}, a.Indexes.Values())
	assert.Equal(t, 2, a.Padding)
	assert.True(t, b.Contains("a002b"))
	assert.False(t, a.Contains("a02b"))
}
