// Package deliver copies a sequence to a destination path template, frame
// by frame, optionally renumbering it.
package deliver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync/atomic"

	"framekit/internal/logging"
	"framekit/internal/metrics"
	"framekit/pkg/clique"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoFrameToken is returned for templates without %d, %0Nd or #.
	ErrNoFrameToken = errors.New("deliver: template has no frame token")
	// ErrNegativeFrame is returned when an offset renumbers a frame below zero.
	ErrNegativeFrame = errors.New("deliver: negative destination frame")
)

var frameToken = regexp.MustCompile(`%(?:0(\d+))?d|#+`)

// ParseTemplate splits template on its first frame token and returns the
// destination shape as an empty collection. A run of # keeps sourcePadding,
// or pads to the length of the run when the source is unpadded.
func ParseTemplate(template string, sourcePadding int) (*clique.Collection, error) {
	loc := frameToken.FindStringSubmatchIndex(template)
	if loc == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoFrameToken, template)
	}

	padding := 0
	switch {
	case template[loc[0]] == '#' && sourcePadding > 0:
		padding = sourcePadding
	case template[loc[0]] == '#':
		padding = loc[1] - loc[0]
	case loc[2] >= 0:
		padding, _ = strconv.Atoi(template[loc[2]:loc[3]])
	}
	return clique.NewCollection(template[:loc[0]], template[loc[1]:], padding), nil
}

// Job copies one frame.
type Job struct {
	Index int
	Src   string
	Dst   string
}

// Plan maps every member of Source onto Dest.
type Plan struct {
	Source    *clique.Collection
	SourceDir string
	Dest      *clique.Collection
	Offset    int
	Jobs      []Job
}

// NewPlan builds the copy jobs for source, whose members live in sourceDir.
// Destination frames are source frames plus offset.
func NewPlan(source *clique.Collection, sourceDir, template string, offset int) (*Plan, error) {
	dest, err := ParseTemplate(template, source.Padding)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Source: source, SourceDir: sourceDir, Dest: dest, Offset: offset}
	for index := range source.Indexes.All() {
		target := index + offset
		if target < 0 {
			return nil, fmt.Errorf("%w: %d%+d", ErrNegativeFrame, index, offset)
		}
		dest.Indexes.Add(target)
		plan.Jobs = append(plan.Jobs, Job{
			Index: index,
			Src:   filepath.Join(sourceDir, source.Render(index)),
			Dst:   dest.Render(target),
		})
	}
	return plan, nil
}

// Options controls Execute.
type Options struct {
	Workers   int
	Overwrite bool
	DryRun    bool
}

// Result reports what a run did.
type Result struct {
	RunID   uuid.UUID
	Copied  int
	Skipped int
}

// Execute runs the plan's jobs concurrently. Existing destinations are
// skipped unless opts.Overwrite is set. With opts.DryRun nothing is written
// and every job that would copy is counted as copied.
func Execute(ctx context.Context, plan *Plan, opts Options) (*Result, error) {
	result := &Result{RunID: uuid.New()}
	log := logging.Get(logging.CategoryDeliver).With("run", result.RunID.String())

	var copied, skipped atomic.Int64
	eg, egCtx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		eg.SetLimit(opts.Workers)
	}
	for _, job := range plan.Jobs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			if !opts.Overwrite {
				if _, err := os.Stat(job.Dst); err == nil {
					skipped.Add(1)
					metrics.FilesDelivered.WithLabelValues("skipped").Inc()
					logging.Deliver("run %s: %s exists, skipped", result.RunID, job.Dst)
					return nil
				}
			}
			if opts.DryRun {
				copied.Add(1)
				logging.Deliver("run %s: would copy %s to %s", result.RunID, job.Src, job.Dst)
				return nil
			}
			if err := copyFile(job.Src, job.Dst); err != nil {
				return fmt.Errorf("frame %d: %w", job.Index, err)
			}
			copied.Add(1)
			metrics.FilesDelivered.WithLabelValues("copied").Inc()
			logging.Deliver("run %s: copied %s to %s", result.RunID, job.Src, job.Dst)
			return nil
		})
	}
	err := eg.Wait()

	result.Copied = int(copied.Load())
	result.Skipped = int(skipped.Load())
	if err != nil {
		return result, err
	}
	log.Infow("delivered",
		"dest", plan.Dest.String(),
		"copied", result.Copied,
		"skipped", result.Skipped,
		"dry_run", opts.DryRun)
	return result, nil
}

// copyFile writes src to dst through a temporary file in dst's directory.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".framekit-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to copy: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
