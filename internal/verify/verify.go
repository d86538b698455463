// Package verify reconciles the frames a job was expected to produce with
// the files actually on disk.
package verify

import (
	"context"
	"fmt"
	"os"
	"strings"

	"framekit/internal/logging"
	"framekit/internal/metrics"
	"framekit/pkg/clique"
)

// Report is the outcome of a reconciliation.
type Report struct {
	Expected   *clique.Collection
	Found      *clique.Collection
	Missing    *clique.Collection
	Unexpected []string
}

// OK reports whether every expected frame exists and nothing else does.
func (r *Report) OK() bool {
	return r.Missing.Indexes.Len() == 0 && len(r.Unexpected) == 0
}

// Summary renders the report on one line.
func (r *Report) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d/%d found",
		r.Expected.Format("{head}{padding}{tail}"),
		r.Found.Indexes.Len(), r.Expected.Indexes.Len())
	if r.Missing.Indexes.Len() > 0 {
		fmt.Fprintf(&sb, ", missing %s", r.Missing.Format("{ranges}"))
	}
	if n := len(r.Unexpected); n > 0 {
		fmt.Fprintf(&sb, ", %d unexpected", n)
	}
	return sb.String()
}

// Reconcile compares expected against files. A file is found when it is a
// member of expected; any other file is unexpected.
func Reconcile(expected *clique.Collection, files []string) *Report {
	report := &Report{
		Expected: expected,
		Found:    clique.NewCollection(expected.Head(), expected.Tail(), expected.Padding),
		Missing:  expected.Clone(),
	}

	for _, file := range files {
		index, ok := expected.Match(file)
		if !ok || !expected.Indexes.Contains(index) {
			report.Unexpected = append(report.Unexpected, file)
			continue
		}
		report.Found.Indexes.Add(index)
		report.Missing.Indexes.Remove(index)
	}

	logging.Verify("reconciled %s", report.Summary())
	return report
}

// ReconcileDir parses the expected descriptor with pattern and reconciles
// it against the regular files in dir. An empty pattern means
// clique.DefaultFormat. A directory part in the descriptor
// head is ignored; names are compared within dir.
func ReconcileDir(ctx context.Context, descriptor, dir, pattern string) (*Report, error) {
	expected, err := clique.Parse(descriptor, pattern)
	if err != nil {
		return nil, err
	}
	if i := strings.LastIndexAny(expected.Head(), `/\`); i >= 0 {
		rebased := clique.NewCollection(expected.Head()[i+1:], expected.Tail(), expected.Padding)
		rebased.Indexes = expected.Indexes
		expected = rebased
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.Type().IsRegular() {
			files = append(files, entry.Name())
		}
	}

	report := Reconcile(expected, files)
	metrics.MissingFrames.WithLabelValues(expected.Format("{head}{padding}{tail}")).Set(float64(report.Missing.Indexes.Len()))
	return report, nil
}
