package clique

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DigitsPattern matches any run of digits, capturing the leading zero run
// separately so padding can be inferred.
const DigitsPattern = `(?P<index>(?P<padding>0*)\d+)`

// Patterns holds commonly used grouping expressions.
var Patterns = map[string]string{
	"frames":   `\.` + DigitsPattern + `\.\D+\d?$`,
	"versions": `v` + DigitsPattern,
}

type assembleOptions struct {
	sources       []string
	compiled      []*regexp.Regexp
	patternsSet   bool
	minimumItems  int
	caseSensitive bool
	assumePadded  bool
}

// Option configures Assemble.
type Option func(*assembleOptions)

// WithPatterns sets the grouping expressions. Each must define an index
// group containing a padding group. Calling it with no arguments requests
// an explicit empty pattern list, which groups nothing.
func WithPatterns(sources ...string) Option {
	return func(o *assembleOptions) {
		o.sources = append(o.sources, sources...)
		o.patternsSet = true
	}
}

// WithCompiledPatterns adds precompiled grouping expressions. They are used
// as given, case sensitivity included.
func WithCompiledPatterns(patterns ...*regexp.Regexp) Option {
	return func(o *assembleOptions) {
		o.compiled = append(o.compiled, patterns...)
		o.patternsSet = true
	}
}

// WithMinimumItems sets how many indexes a collection needs to be returned.
func WithMinimumItems(n int) Option {
	return func(o *assembleOptions) { o.minimumItems = n }
}

// WithCaseSensitive controls whether heads and tails are compared with case.
// Case-insensitive collections carry lower-cased heads and tails.
func WithCaseSensitive(sensitive bool) Option {
	return func(o *assembleOptions) { o.caseSensitive = sensitive }
}

// WithAssumePaddedWhenAmbiguous makes unpadded collections whose first and
// last index share a width adopt that width as padding.
func WithAssumePaddedWhenAmbiguous(assume bool) Option {
	return func(o *assembleOptions) { o.assumePadded = assume }
}

type groupKey struct {
	head    string
	tail    string
	padding int
}

// Assemble groups items into collections. It returns the collections with
// at least the minimum number of indexes and the items that could not be
// placed in any of them.
func Assemble(items []string, opts ...Option) ([]*Collection, []string, error) {
	o := assembleOptions{minimumItems: 2, caseSensitive: true}
	for _, opt := range opts {
		opt(&o)
	}

	if o.patternsSet && len(o.sources) == 0 && len(o.compiled) == 0 {
		return nil, append([]string(nil), items...), nil
	}

	patterns, err := o.compile()
	if err != nil {
		return nil, nil, err
	}

	fold := func(s string) string { return s }
	if !o.caseSensitive {
		fold = strings.ToLower
	}

	var (
		keys    []groupKey
		indexes = make(map[groupKey][]int)
		matched = make([]bool, len(items))
	)
	for i, item := range items {
		for _, pattern := range patterns {
			indexGroup := pattern.SubexpIndex("index")
			paddingGroup := pattern.SubexpIndex("padding")
			for _, loc := range pattern.FindAllStringSubmatchIndex(item, -1) {
				start, end := loc[2*indexGroup], loc[2*indexGroup+1]
				if start < 0 {
					continue
				}
				digits := item[start:end]
				index, err := strconv.Atoi(digits)
				if err != nil {
					continue
				}

				padding := 0
				if ps, pe := loc[2*paddingGroup], loc[2*paddingGroup+1]; ps >= 0 && pe > ps {
					padding = len(digits)
				}

				key := groupKey{head: fold(item[:start]), tail: fold(item[end:]), padding: padding}
				if _, ok := indexes[key]; !ok {
					keys = append(keys, key)
				}
				indexes[key] = append(indexes[key], index)
				matched[i] = true
			}
		}
	}

	collections := make([]*Collection, 0, len(keys))
	var candidates []*Collection
	for _, key := range keys {
		c := NewCollection(key.head, key.tail, key.padding)
		c.Indexes = NewIndexSet(indexes[key]...)
		collections = append(collections, c)
		if c.Padding == 0 {
			candidates = append(candidates, c)
		}
	}

	// Unpadded indexes as wide as a padded collection's padding render the
	// same in both, so 0998-0999 and 1000-1001 become 0998-1001. A
	// candidate is dropped only when every index moved across.
	fullyMerged := make(map[*Collection]bool)
	for _, c := range collections {
		if c.Padding == 0 {
			continue
		}
		for _, candidate := range candidates {
			if candidate.head != c.head || candidate.tail != c.tail {
				continue
			}
			var same []int
			for index := range candidate.Indexes.All() {
				if len(strconv.Itoa(index)) == c.Padding {
					same = append(same, index)
				}
			}
			c.Indexes.Add(same...)
			if len(same) >= candidate.Indexes.Len() {
				fullyMerged[candidate] = true
			}
		}
	}

	var filtered []*Collection
	for _, c := range collections {
		if fullyMerged[c] || c.Indexes.Len() < o.minimumItems {
			continue
		}
		filtered = append(filtered, c)
	}

	var remainder []string
	seen := make(map[string]bool)
	for i, item := range items {
		if !matched[i] {
			remainder = append(remainder, item)
			continue
		}
		if seen[item] || isMember(filtered, fold(item)) {
			continue
		}
		seen[item] = true
		remainder = append(remainder, item)
	}

	if o.assumePadded {
		for _, c := range filtered {
			if c.Padding != 0 {
				continue
			}
			lo, ok := c.Indexes.Min()
			if !ok {
				continue
			}
			hi, _ := c.Indexes.Max()
			if width := len(strconv.Itoa(lo)); width == len(strconv.Itoa(hi)) {
				c.Padding = width
			}
		}
	}

	return filtered, remainder, nil
}

func isMember(collections []*Collection, item string) bool {
	for _, c := range collections {
		if c.Contains(item) {
			return true
		}
	}
	return false
}

func (o *assembleOptions) compile() ([]*regexp.Regexp, error) {
	if !o.patternsSet {
		o.sources = []string{DigitsPattern}
	}

	patterns := make([]*regexp.Regexp, 0, len(o.sources)+len(o.compiled))
	for _, source := range o.sources {
		if !o.caseSensitive {
			source = "(?i)" + source
		}
		re, err := regexp.Compile(source)
		if err != nil {
			return nil, fmt.Errorf("clique: compile pattern %q: %w", source, err)
		}
		patterns = append(patterns, re)
	}
	patterns = append(patterns, o.compiled...)

	for _, re := range patterns {
		if re.SubexpIndex("index") < 0 || re.SubexpIndex("padding") < 0 {
			return nil, fmt.Errorf("clique: pattern %q: %w", re.String(), ErrInvalidPattern)
		}
	}
	return patterns, nil
}
