package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/mrclam/internal/dataset"
	"github.com/banshee-data/mrclam/internal/monitoring"
	"github.com/banshee-data/mrclam/internal/security"
	"github.com/banshee-data/mrclam/internal/testutil"
)

const testDir = "/data/MRCLAM1"

func mustParse(t *testing.T, args ...string) Config {
	t.Helper()
	fs := flag.NewFlagSet("mrclam", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c, err := parseFlags(fs, args)
	require.NoError(t, err)
	return c
}

func TestParseFlags_Defaults(t *testing.T) {
	c := mustParse(t)

	assert.Empty(t, c.DatasetDir)
	assert.Equal(t, dataset.DefaultMergeTolerance, c.Tolerance)
	assert.False(t, c.ValidateSubjects)
	assert.False(t, c.Summary)
	assert.Empty(t, c.set)

	cfg, err := c.extractConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.05, cfg.GetMergeToleranceSeconds())
	assert.False(t, cfg.GetValidateSubjects())
}

func TestParseFlags_Unknown(t *testing.T) {
	fs := flag.NewFlagSet("mrclam", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	_, err := parseFlags(fs, []string{"-bogus"})
	assert.Error(t, err)
}

func TestExtractConfig_Layering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extract.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"merge_tolerance_seconds": 0.2, "total_robots": 3}`), 0644))

	c := mustParse(t, "-config", path)
	cfg, err := c.extractConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.GetMergeToleranceSeconds())
	assert.Equal(t, 3, cfg.GetTotalRobots())
	assert.Equal(t, 20, cfg.GetTotalBarcodes())

	// explicit flags win over the file
	c = mustParse(t, "-config", path, "-tolerance", "0.01", "-validate-subjects")
	cfg, err = c.extractConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.01, cfg.GetMergeToleranceSeconds())
	assert.True(t, cfg.GetValidateSubjects())
	assert.Equal(t, 3, cfg.GetTotalRobots())
}

func TestExtractConfig_Invalid(t *testing.T) {
	c := mustParse(t, "-tolerance", "-1")
	_, err := c.extractConfig()
	assert.ErrorContains(t, err, "merge_tolerance_seconds")

	c = mustParse(t, "-config", filepath.Join(t.TempDir(), "missing.json"))
	_, err = c.extractConfig()
	assert.Error(t, err)
}

func TestRun_RequiresDataset(t *testing.T) {
	err := run(mustParse(t), testutil.NewMemoryDataset(t, testDir), io.Discard)
	assert.ErrorContains(t, err, "-dataset is required")
}

func TestRun_SummaryAndReports(t *testing.T) {
	monitoring.SetLogger(nil)

	mfs := testutil.NewMemoryDataset(t, testDir)
	c := mustParse(t,
		"-dataset", testDir,
		"-summary",
		"-summary-json", "/out/summary.json",
		"-plot", "/out/trajectories.png",
		"-html", "/out/trajectories.html",
	)

	var stdout bytes.Buffer
	require.NoError(t, run(c, mfs, &stdout))

	assert.True(t, strings.HasPrefix(stdout.String(), "dataset /data/MRCLAM1: 20 barcodes, 15 landmarks, 5 robots"))
	assert.Equal(t, []string{
		"/out/summary.json",
		"/out/trajectories.html",
		"/out/trajectories.png",
	}, mfs.Files("/out"))

	f, err := mfs.Open("/out/trajectories.png")
	require.NoError(t, err)
	defer f.Close()
	head := make([]byte, 4)
	_, err = io.ReadFull(f, head)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), head)
}

func TestRun_ExtractionFailure(t *testing.T) {
	monitoring.SetLogger(nil)

	mfs := testutil.NewMemoryDataset(t, testDir)
	require.NoError(t, mfs.Remove(testDir+"/Robot2_Odometry.dat"))
	require.NoError(t, mfs.Remove(testDir+"/Robot4_Measurement.dat"))

	var stdout bytes.Buffer
	err := run(mustParse(t, "-dataset", testDir, "-summary"), mfs, &stdout)
	require.Error(t, err)
	assert.Empty(t, stdout.String(), "no summary after a failed extraction")

	var stderr bytes.Buffer
	printFailures(&stderr, err)
	lines := strings.Split(strings.TrimRight(stderr.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "extraction of /data/MRCLAM1 failed")
	assert.Contains(t, lines[0], "2 of 17 steps")
	assert.Contains(t, lines[1], "Robot2_Odometry.dat")
	assert.Contains(t, lines[2], "Robot4_Measurement.dat")
}

func TestPrintFailures_PlainError(t *testing.T) {
	var buf bytes.Buffer
	printFailures(&buf, dataset.ErrPathNotFound)
	assert.Equal(t, "error: dataset path not found\n", buf.String())
}

func TestValidateOutputs(t *testing.T) {
	dir := t.TempDir()

	c := mustParse(t, "-dataset", testDir)
	assert.NoError(t, c.validateOutputs([]string{dir}), "no outputs requested")

	c = mustParse(t,
		"-summary-json", filepath.Join(dir, "summary.json"),
		"-plot", filepath.Join(dir, "plot.png"),
		"-html", filepath.Join(dir, "plot.html"),
	)
	assert.NoError(t, c.validateOutputs([]string{dir}))

	c = mustParse(t, "-plot", filepath.Join(dir, "plot.html"))
	assert.ErrorContains(t, c.validateOutputs([]string{dir}), ".png extension")

	c = mustParse(t, "-html", filepath.Join(dir, "..", "escape.html"))
	assert.ErrorIs(t, c.validateOutputs([]string{dir}), security.ErrOutsideAllowedDirs)
}
