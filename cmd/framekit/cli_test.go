package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"framekit/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setup resets the command globals and points the catalog into a temp dir.
func setup(t *testing.T) *bytes.Buffer {
	t.Helper()
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "catalog.db")
	plain = true
	lsFormat, lsRecord = "", false
	parsePattern, parseMembers = "", false
	verifyPattern = ""
	deliverOffset, deliverOverwrite, deliverDryRun, deliverWorkers, deliverPattern = 0, false, false, 0, ""
	t.Cleanup(func() { plain = false })
	return &bytes.Buffer{}
}

func newCmd(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	return cmd
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
	}
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSpace(buf.String()), "\n")
}

func TestLsCmd(t *testing.T) {
	out := setup(t)
	dir := t.TempDir()
	touch(t, dir, "beauty.0001.exr", "beauty.0002.exr", "beauty.0004.exr", "notes.txt")

	require.NoError(t, runLs(newCmd(out), []string{dir}))
	assert.Equal(t, []string{"beauty.%04d.exr [1-2, 4]", "notes.txt"}, lines(out))

	out.Reset()
	lsFormat = "{head}{padding}{tail} [{holes}]"
	require.NoError(t, runLs(newCmd(out), []string{dir}))
	assert.Equal(t, "beauty.%04d.exr [3]", lines(out)[0])
}

func TestLsCmd_TableOutput(t *testing.T) {
	out := setup(t)
	plain = false
	dir := t.TempDir()
	touch(t, dir, "a.1.png", "a.2.png")

	require.NoError(t, runLs(newCmd(out), []string{dir}))
	assert.Contains(t, out.String(), "a.%d.png [1-2]")
	assert.Contains(t, out.String(), "Sequence")
}

func TestLsCmd_FarApartFrames(t *testing.T) {
	out := setup(t)
	dir := t.TempDir()
	touch(t, dir, "cap_1700000000.png", "cap_1900000000.png")

	require.NoError(t, runLs(newCmd(out), []string{dir}))
	assert.Equal(t, []string{"cap_%d.png [1700000000, 1900000000]"}, lines(out))

	out.Reset()
	plain = false
	require.NoError(t, runLs(newCmd(out), []string{dir}))
	assert.Contains(t, out.String(), "1700000001-1899999999")
}

func TestParseCmd(t *testing.T) {
	out := setup(t)
	parseMembers = true

	require.NoError(t, runParse(newCmd(out), []string{"shot.%03d.jpg [1-2, 10]"}))
	assert.Equal(t, []string{"shot.001.jpg", "shot.002.jpg", "shot.010.jpg"}, lines(out))

	err := runParse(newCmd(out), []string{"not a sequence"})
	assert.Error(t, err)
}

func TestVerifyCmd(t *testing.T) {
	out := setup(t)
	dir := t.TempDir()
	touch(t, dir, "beauty.0001.exr", "beauty.0002.exr")

	require.NoError(t, runVerify(newCmd(out), []string{"beauty.%04d.exr [1-2]", dir}))
	assert.Equal(t, "beauty.%04d.exr: 2/2 found", lines(out)[0])

	out.Reset()
	err := runVerify(newCmd(out), []string{"beauty.%04d.exr [1-3]", dir})
	assert.ErrorIs(t, err, errVerifyFailed)
	assert.Contains(t, out.String(), "missing 3")
}

func TestDeliverCmd(t *testing.T) {
	out := setup(t)
	src, dst := t.TempDir(), t.TempDir()
	touch(t, src, "plate.0001.dpx", "plate.0002.dpx")

	deliverOffset = 1000
	template := filepath.Join(dst, "sh010", "plate.####.dpx")
	require.NoError(t, runDeliver(newCmd(out), []string{"plate.%04d.dpx [1-2]", src, template}))
	assert.Contains(t, out.String(), "copied 2, skipped 0")

	data, err := os.ReadFile(filepath.Join(dst, "sh010", "plate.1002.dpx"))
	require.NoError(t, err)
	assert.Equal(t, "plate.0002.dpx", string(data))
}

func TestCatalogCmds(t *testing.T) {
	out := setup(t)
	dir := t.TempDir()
	touch(t, dir, "comp.0001.exr", "comp.0002.exr", "readme.md")

	lsRecord = true
	require.NoError(t, runLs(newCmd(out), []string{dir}))

	out.Reset()
	require.NoError(t, runCatalogShow(newCmd(out), []string{dir}))
	assert.Equal(t, []string{"comp.%04d.exr [1-2]", "readme.md"}, lines(out))

	out.Reset()
	require.NoError(t, runCatalogFind(newCmd(out), []string{"comp"}))
	fields := strings.Split(lines(out)[0], "\t")
	require.Len(t, fields, 3)
	assert.Equal(t, "comp.%04d.exr [1-2]", fields[2])

	err := runCatalogShow(newCmd(out), []string{t.TempDir()})
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	out := setup(t)
	configPath = filepath.Join(t.TempDir(), "framekit.yaml")
	defer func() { configPath = config.DefaultPath; configForce = false }()

	require.NoError(t, runConfigInit(newCmd(out), nil))
	assert.FileExists(t, configPath)

	err := runConfigInit(newCmd(out), nil)
	assert.Error(t, err, "second init without --force must fail")

	configForce = true
	require.NoError(t, runConfigInit(newCmd(out), nil))

	loaded, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Assemble.MinimumItems)
}

func TestConfigShow(t *testing.T) {
	out := setup(t)
	require.NoError(t, runConfigShow(newCmd(out), nil))
	assert.Contains(t, out.String(), "minimum_items: 2")
}
