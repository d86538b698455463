package clique

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatch is reported when an item does not fit a collection's expression.
	ErrNoMatch = errors.New("item does not match collection expression")

	// ErrNotPresent is reported when an index is expected in a collection but absent.
	ErrNotPresent = errors.New("item not present in collection")

	// ErrIncompatible is reported when merging collections with different head, tail or padding.
	ErrIncompatible = errors.New("collection is not compatible with this collection")

	// ErrValueMismatch is reported by Parse when the value does not fit the pattern.
	ErrValueMismatch = errors.New("value did not match pattern")

	// ErrInvalidPattern is reported for grouping patterns lacking index or padding groups.
	ErrInvalidPattern = errors.New("pattern must define index and padding groups")
)

// CollectionError describes a rejected Add, Remove or Merge.
type CollectionError struct {
	Op   string
	Item string
	Err  error
}

func (e *CollectionError) Error() string {
	if e.Item == "" {
		return fmt.Sprintf("clique: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("clique: %s %q: %v", e.Op, e.Item, e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}
