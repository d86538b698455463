package clique

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// placeholderExpressions maps quoted format placeholders to the expressions
// that recover them.
var placeholderExpressions = []string{
	regexp.QuoteMeta("{head}"), `(?P<head>.*)`,
	regexp.QuoteMeta("{tail}"), `(?P<tail>.*)`,
	regexp.QuoteMeta("{padding}"), `%(?P<padding>\d*)d`,
	regexp.QuoteMeta("{ranges}"), `(?P<ranges>[\d ,\-]+)?`,
	regexp.QuoteMeta("{range}"), `(?P<range>\d+-\d+)?`,
	regexp.QuoteMeta("{holes}"), `(?P<holes>[\d ,\-]+)`,
}

// Parse rebuilds a collection from value, the output of Format with the
// same pattern. An empty pattern means DefaultFormat.
func Parse(value, pattern string) (*Collection, error) {
	if pattern == "" {
		pattern = DefaultFormat
	}

	source := "^" + strings.NewReplacer(placeholderExpressions...).Replace(regexp.QuoteMeta(pattern)) + "$"
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("clique: pattern %q: %w", pattern, err)
	}

	loc := re.FindStringSubmatchIndex(value)
	if loc == nil {
		return nil, fmt.Errorf("clique: parse %q: %w", value, ErrValueMismatch)
	}
	group := func(name string) (string, bool) {
		i := re.SubexpIndex(name)
		if i < 0 || loc[2*i] < 0 {
			return "", false
		}
		return value[loc[2*i]:loc[2*i+1]], true
	}

	padding := 0
	if text, ok := group("padding"); ok && text != "" {
		padding, err = strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("clique: parse %q: padding: %w", value, ErrValueMismatch)
		}
	}
	head, _ := group("head")
	tail, _ := group("tail")
	collection := NewCollection(head, tail, padding)

	if text, ok := group("range"); ok {
		start, end, _ := strings.Cut(text, "-")
		lo, errLo := strconv.Atoi(start)
		hi, errHi := strconv.Atoi(end)
		if errLo != nil || errHi != nil {
			return nil, fmt.Errorf("clique: parse %q: range %q: %w", value, text, ErrValueMismatch)
		}
		collection.Indexes.AddRange(lo, hi)
	}

	if text, ok := group("ranges"); ok {
		err := eachRange(text, func(lo, hi int) error {
			collection.Indexes.AddRange(lo, hi)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("clique: parse %q: %w", value, err)
		}
	}

	if text, ok := group("holes"); ok {
		err := eachRange(text, func(lo, hi int) error {
			if !collection.Indexes.ContainsRange(lo, hi) {
				return fmt.Errorf("hole %d-%d: %w", lo, hi, ErrNotPresent)
			}
			collection.Indexes.RemoveRange(lo, hi)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("clique: parse %q: %w", value, err)
		}
	}

	return collection, nil
}

// eachRange walks a comma separated list of "N" and "A-B" parts.
func eachRange(text string, fn func(lo, hi int) error) error {
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		bounds := strings.SplitN(part, "-", 3)
		lo, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
		if err != nil {
			return fmt.Errorf("range %q: %w", part, ErrValueMismatch)
		}
		hi := lo
		if len(bounds) > 1 {
			hi, err = strconv.Atoi(strings.TrimSpace(bounds[1]))
			if err != nil {
				return fmt.Errorf("range %q: %w", part, ErrValueMismatch)
			}
		}
		if err := fn(lo, hi); err != nil {
			return err
		}
	}
	return nil
}
