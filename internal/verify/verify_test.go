package verify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"framekit/internal/metrics"
	"framekit/pkg/clique"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_AllPresent(t *testing.T) {
	expected := clique.NewCollection("beauty.", ".exr", 4, 1, 2, 3)
	report := Reconcile(expected, []string{"beauty.0003.exr", "beauty.0001.exr", "beauty.0002.exr"})

	assert.True(t, report.OK())
	assert.Equal(t, []int{1, 2, 3}, report.Found.Indexes.Values())
	assert.Equal(t, "beauty.%04d.exr: 3/3 found", report.Summary())
}

func TestReconcile_MissingAndUnexpected(t *testing.T) {
	expected := clique.NewCollection("beauty.", ".exr", 4)
	expected.Indexes.AddRange(1, 10)

	report := Reconcile(expected, []string{
		"beauty.0001.exr", "beauty.0002.exr", "beauty.0004.exr",
		"beauty.0008.exr", "beauty.0009.exr", "beauty.0010.exr",
		"beauty.0011.exr", // outside the expected range
		"beauty.5.exr",    // wrong padding
		"thumbs.db",
	})

	assert.False(t, report.OK())
	assert.Equal(t, []int{3, 5, 6, 7}, report.Missing.Indexes.Values())
	assert.Equal(t, []string{"beauty.0011.exr", "beauty.5.exr", "thumbs.db"}, report.Unexpected)
	assert.Equal(t, "beauty.%04d.exr: 6/10 found, missing 3, 5-7, 3 unexpected", report.Summary())

	assert.Equal(t, 10, expected.Indexes.Len(), "expected collection must not be modified")
}

func TestReconcileDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"comp.1001.exr", "comp.1002.exr", "comp.1004.exr"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "comp.1003.exr"), 0755))

	report, err := ReconcileDir(context.Background(), "renders/comp.%04d.exr [1001-1004]", dir, clique.DefaultFormat)
	require.NoError(t, err)

	assert.Equal(t, "comp.", report.Expected.Head())
	assert.Equal(t, []int{1003}, report.Missing.Indexes.Values())
	assert.Empty(t, report.Unexpected)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MissingFrames.WithLabelValues("comp.%04d.exr")))
}

func TestReconcileDir_Errors(t *testing.T) {
	_, err := ReconcileDir(context.Background(), "not a descriptor", t.TempDir(), clique.DefaultFormat)
	assert.ErrorIs(t, err, clique.ErrValueMismatch)

	_, err = ReconcileDir(context.Background(), "a.%04d.exr [1-2]", filepath.Join(t.TempDir(), "absent"), "")
	assert.Error(t, err)
}
