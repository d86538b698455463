package clique

import (
	"cmp"
	"fmt"
	"iter"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// DefaultFormat is the pattern used by String and Parse when none is given.
const DefaultFormat = "{head}{padding}{tail} [{ranges}]"

// Collection is a family of items sharing a literal head and tail and
// differing only by a numeric index.
//
// Padding 0 means the index is written without leading zeros. A positive
// Padding is the fixed, zero padded width of the index.
type Collection struct {
	head    string
	tail    string
	Padding int
	Indexes IndexSet

	expression *regexp.Regexp
}

// NewCollection returns a collection for head and tail holding indexes.
func NewCollection(head, tail string, padding int, indexes ...int) *Collection {
	c := &Collection{
		head:    head,
		tail:    tail,
		Padding: padding,
		expression: regexp.MustCompile(
			"^" + regexp.QuoteMeta(head) + `(?P<index>(?P<padding>0*)\d+?)` + regexp.QuoteMeta(tail) + "$",
		),
	}
	c.Indexes.Add(indexes...)
	return c
}

// Head returns the literal text before the index.
func (c *Collection) Head() string { return c.head }

// Tail returns the literal text after the index.
func (c *Collection) Tail() string { return c.tail }

// Match reports whether item has the shape head<digits>tail with a digit
// run consistent with Padding, and returns the parsed index. Membership of
// the index is not checked.
func (c *Collection) Match(item string) (int, bool) {
	m := c.expression.FindStringSubmatch(item)
	if m == nil {
		return 0, false
	}
	digits := m[c.expression.SubexpIndex("index")]
	padded := m[c.expression.SubexpIndex("padding")] != ""

	if c.Padding == 0 {
		if padded {
			return 0, false
		}
	} else if len(digits) != c.Padding {
		return 0, false
	}

	index, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return index, true
}

// Contains reports whether item matches and its index is present.
func (c *Collection) Contains(item string) bool {
	index, ok := c.Match(item)
	return ok && c.Indexes.Contains(index)
}

// Add inserts the index of item.
func (c *Collection) Add(item string) error {
	index, ok := c.Match(item)
	if !ok {
		return &CollectionError{Op: "add", Item: item, Err: ErrNoMatch}
	}
	c.Indexes.Add(index)
	return nil
}

// Remove deletes the index of item.
func (c *Collection) Remove(item string) error {
	index, ok := c.Match(item)
	if !ok {
		return &CollectionError{Op: "remove", Item: item, Err: ErrNoMatch}
	}
	if !c.Indexes.Remove(index) {
		return &CollectionError{Op: "remove", Item: item, Err: ErrNotPresent}
	}
	return nil
}

// Render returns the member string for index.
func (c *Collection) Render(index int) string {
	return c.head + fmt.Sprintf("%0*d", c.Padding, index) + c.tail
}

// Items iterates the members in ascending index order.
func (c *Collection) Items() iter.Seq[string] {
	return func(yield func(string) bool) {
		for index := range c.Indexes.All() {
			if !yield(c.Render(index)) {
				return
			}
		}
	}
}

// Members returns every member in ascending index order.
func (c *Collection) Members() []string {
	return slices.Collect(c.Items())
}

// IsContiguous reports whether the indexes form an unbroken run.
func (c *Collection) IsContiguous() bool {
	lo, ok := c.Indexes.Min()
	if !ok {
		return true
	}
	hi, _ := c.Indexes.Max()
	return hi-lo+1 == c.Indexes.Len()
}

// Holes returns a collection of the indexes missing between the lowest
// and highest present index.
func (c *Collection) Holes() *Collection {
	missing := NewCollection(c.head, c.tail, c.Padding)
	previous, started := 0, false
	for lo, hi := range c.Indexes.Ranges() {
		if started {
			missing.Indexes.AddRange(previous+1, lo-1)
		}
		previous, started = hi, true
	}
	return missing
}

// IsCompatible reports whether other shares head, tail and padding.
func (c *Collection) IsCompatible(other *Collection) bool {
	return other != nil &&
		other.head == c.head &&
		other.tail == c.tail &&
		other.Padding == c.Padding
}

// Merge adds the indexes of a compatible collection.
func (c *Collection) Merge(other *Collection) error {
	if !c.IsCompatible(other) {
		return &CollectionError{Op: "merge", Err: ErrIncompatible}
	}
	c.Indexes.Update(other.Indexes)
	return nil
}

// Separate splits the collection into one collection per contiguous run.
// An empty collection yields a single empty collection.
func (c *Collection) Separate() []*Collection {
	var out []*Collection
	for lo, hi := range c.Indexes.Ranges() {
		run := NewCollection(c.head, c.tail, c.Padding)
		run.Indexes.AddRange(lo, hi)
		out = append(out, run)
	}
	if len(out) == 0 {
		out = append(out, NewCollection(c.head, c.tail, c.Padding))
	}
	return out
}

// Format renders the collection using pattern. Recognised placeholders are
// {head}, {tail}, {padding}, {range}, {ranges} and {holes}; anything else
// is copied through.
func (c *Collection) Format(pattern string) string {
	pairs := []string{
		"{head}", c.head,
		"{tail}", c.tail,
		"{padding}", c.paddingSpec(),
	}

	if strings.Contains(pattern, "{holes}") {
		pairs = append(pairs, "{holes}", c.Holes().Format("{ranges}"))
	}

	hasRange := strings.Contains(pattern, "{range}")
	hasRanges := strings.Contains(pattern, "{ranges}")
	if hasRange || hasRanges {
		whole := c.rangeText()
		pairs = append(pairs, "{range}", whole)

		if hasRanges {
			separated := c.Separate()
			ranges := []string{whole}
			if len(separated) > 1 {
				ranges = ranges[:0]
				for _, run := range separated {
					ranges = append(ranges, run.rangeText())
				}
			}
			pairs = append(pairs, "{ranges}", strings.Join(ranges, ", "))
		}
	}

	return strings.NewReplacer(pairs...).Replace(pattern)
}

func (c *Collection) String() string {
	return c.Format(DefaultFormat)
}

func (c *Collection) paddingSpec() string {
	if c.Padding == 0 {
		return "%d"
	}
	return fmt.Sprintf("%%0%dd", c.Padding)
}

func (c *Collection) rangeText() string {
	lo, ok := c.Indexes.Min()
	if !ok {
		return ""
	}
	hi, _ := c.Indexes.Max()
	if lo == hi {
		return strconv.Itoa(lo)
	}
	return fmt.Sprintf("%d-%d", lo, hi)
}

// Equal reports whether head, tail, padding and indexes all agree.
func (c *Collection) Equal(other *Collection) bool {
	return c.IsCompatible(other) && c.Indexes.Equal(other.Indexes)
}

// Compare orders collections by head, tail, padding and then index count.
// Two collections with the same identity and count compare equal even when
// their indexes differ.
func (c *Collection) Compare(other *Collection) int {
	if r := cmp.Compare(c.head, other.head); r != 0 {
		return r
	}
	if r := cmp.Compare(c.tail, other.tail); r != 0 {
		return r
	}
	if r := cmp.Compare(c.Padding, other.Padding); r != 0 {
		return r
	}
	return cmp.Compare(c.Indexes.Len(), other.Indexes.Len())
}

// Less reports whether c orders before other.
func (c *Collection) Less(other *Collection) bool {
	return c.Compare(other) < 0
}

// Clone returns a deep copy.
func (c *Collection) Clone() *Collection {
	out := *c
	out.Indexes = c.Indexes.Clone()
	return &out
}

// SortCollections sorts collections in place by Compare.
func SortCollections(collections []*Collection) {
	slices.SortStableFunc(collections, (*Collection).Compare)
}
