// Package collect scans directories and groups their files into sequences.
package collect

import (
	"context"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"

	"framekit/internal/logging"
	"framekit/pkg/clique"

	"golang.org/x/sync/errgroup"
)

// Options controls which files are considered and how they are grouped.
type Options struct {
	Include          *regexp.Regexp // file name must match, when set
	Exclude          *regexp.Regexp // file name must not match, when set
	RequireExtension bool
	Recursive        bool // assemble each directory below root on its own

	// Frames outside [FrameStart, FrameEnd] are dropped from the result.
	FrameStart *int
	FrameEnd   *int

	Assemble []clique.Option
}

// Result is the outcome of scanning one root. Names are slash separated
// and relative to Root.
type Result struct {
	Root        string
	Collections []*clique.Collection
	Remainder   []string
}

// Files returns the number of names represented in the result.
func (r *Result) Files() int {
	n := len(r.Remainder)
	for _, c := range r.Collections {
		n += c.Indexes.Len()
	}
	return n
}

// Collect scans root and assembles the files it holds.
func Collect(ctx context.Context, root string, opts Options) (*Result, error) {
	groups, err := listFiles(ctx, root, opts)
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	result := &Result{Root: root}
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		collections, remainder, err := clique.Assemble(groups[dir], opts.Assemble...)
		if err != nil {
			return nil, fmt.Errorf("assemble %s: %w", path.Join(root, dir), err)
		}
		prefix := ""
		if dir != "" {
			prefix = dir + "/"
		}
		for _, c := range collections {
			prefixed := clique.NewCollection(prefix+c.Head(), c.Tail(), c.Padding)
			prefixed.Indexes = c.Indexes
			result.Collections = append(result.Collections, prefixed)
		}
		for _, name := range remainder {
			result.Remainder = append(result.Remainder, prefix+name)
		}
	}

	result.Collections = FilterRange(result.Collections, opts.FrameStart, opts.FrameEnd)

	logging.Collect("collected %s: %d collections, %d remainder", root, len(result.Collections), len(result.Remainder))
	return result, nil
}

// CollectAll scans roots concurrently, at most workers at a time. Results
// are returned in the order of roots; the first error cancels the rest.
func CollectAll(ctx context.Context, roots []string, opts Options, workers int) ([]*Result, error) {
	results := make([]*Result, len(roots))

	eg, egCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for i, root := range roots {
		eg.Go(func() error {
			r, err := Collect(egCtx, root, opts)
			if err != nil {
				return fmt.Errorf("collect %s: %w", root, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FilterRange drops indexes outside [start, end] and discards collections
// left empty. Nil bounds are open. The collections and the slice are
// modified in place.
func FilterRange(collections []*clique.Collection, start, end *int) []*clique.Collection {
	if start == nil && end == nil {
		return collections
	}

	kept := collections[:0]
	for _, c := range collections {
		if start != nil {
			c.Indexes.RemoveRange(math.MinInt, *start-1)
		}
		if end != nil {
			c.Indexes.RemoveRange(*end+1, math.MaxInt)
		}
		if c.Indexes.Len() > 0 {
			kept = append(kept, c)
		}
	}
	return kept
}

// listFiles returns the accepted file names of root keyed by their
// directory relative to root ("" for root itself).
func listFiles(ctx context.Context, root string, opts Options) (map[string][]string, error) {
	groups := make(map[string][]string)

	accept := func(dir, name string, d fs.DirEntry) {
		if !isFile(filepath.Join(root, filepath.FromSlash(dir), name), d) {
			return
		}
		if opts.RequireExtension && filepath.Ext(name) == "" {
			return
		}
		if opts.Include != nil && !opts.Include.MatchString(name) {
			return
		}
		if opts.Exclude != nil && opts.Exclude.MatchString(name) {
			return
		}
		groups[dir] = append(groups[dir], name)
	}

	if !opts.Recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", root, err)
		}
		for _, entry := range entries {
			accept("", entry.Name(), entry)
		}
		return groups, nil
	}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, filepath.Dir(p))
		if err != nil {
			return err
		}
		dir := filepath.ToSlash(rel)
		if dir == "." {
			dir = ""
		}
		accept(dir, d.Name(), d)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return groups, nil
}

// isFile reports whether the entry is a regular file, following symlinks.
func isFile(full string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.Mode().IsRegular()
}
