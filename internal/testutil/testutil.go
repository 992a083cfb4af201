// Package testutil provides shared test helpers and a small synthetic MRCLAM
// dataset fixture.
package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/mrclam/internal/fsutil"
)

// Fixture shape. Every robot gets the same number of lines per stream.
const (
	FixtureRobots            = 5
	FixtureBarcodes          = 20
	FixtureLandmarks         = 15
	FixtureGroundtruthLines  = 3
	FixtureOdometryLines     = 3
	FixtureMeasurementLines  = 4
	FixtureMeasurementEpochs = 3
	FixtureStartTime         = 1248272272.841
)

// FixtureBarcodeCodes maps subject index to barcode: robots are subjects
// 1-5, landmarks 6-20.
var FixtureBarcodeCodes = []int{5, 14, 41, 32, 23, 72, 27, 54, 70, 36, 18, 25, 9, 81, 16, 90, 61, 45, 7, 63}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// DatasetFiles returns the canonical fixture keyed by file name. Columns are
// padded with spaces the way the published dataset files are.
func DatasetFiles() map[string]string {
	files := map[string]string{
		"Barcodes.dat":             barcodesFile(),
		"Landmark_Groundtruth.dat": landmarksFile(),
	}
	for id := 0; id < FixtureRobots; id++ {
		n := id + 1
		files[fmt.Sprintf("Robot%d_Groundtruth.dat", n)] = groundtruthFile(id)
		files[fmt.Sprintf("Robot%d_Odometry.dat", n)] = odometryFile(id)
		files[fmt.Sprintf("Robot%d_Measurement.dat", n)] = measurementFile(id)
	}
	return files
}

// SeedDataset writes files into dir on fsys.
func SeedDataset(t testing.TB, fsys fsutil.FileSystem, dir string, files map[string]string) {
	t.Helper()
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	for name, content := range files {
		if err := fsys.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// NewMemoryDataset returns an in-memory filesystem holding the canonical
// fixture under dir.
func NewMemoryDataset(t testing.TB, dir string) *fsutil.MemoryFileSystem {
	t.Helper()
	mfs := fsutil.NewMemoryFileSystem()
	SeedDataset(t, mfs, dir, DatasetFiles())
	return mfs
}

// WriteOSDataset writes the canonical fixture into a fresh temp directory and
// returns its path.
func WriteOSDataset(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "MRCLAM_Dataset1")
	SeedDataset(t, fsutil.OSFileSystem{}, dir, DatasetFiles())
	return dir
}

func barcodesFile() string {
	var b strings.Builder
	b.WriteString("# Barcodes.dat\n")
	b.WriteString("# Subject #        Barcode #\n")
	for i, code := range FixtureBarcodeCodes {
		fmt.Fprintf(&b, "%-12d\t%d\n", i+1, code)
	}
	return b.String()
}

func landmarksFile() string {
	var b strings.Builder
	b.WriteString("# Landmark_Groundtruth.dat\n")
	b.WriteString("# Subject #    x [m]    y [m]    x std-dev [m]    y std-dev [m]\n")
	for id := FixtureRobots + 1; id <= FixtureBarcodes; id++ {
		fmt.Fprintf(&b, "%-6d\t%.6f\t%.6f\t%.6f\t%.6f\n",
			id, LandmarkX(id), LandmarkY(id), 0.000331, 0.000252)
	}
	return b.String()
}

// LandmarkX is the fixture x coordinate of landmark id.
func LandmarkX(id int) float64 { return float64(id)*0.25 - 1.5 }

// LandmarkY is the fixture y coordinate of landmark id.
func LandmarkY(id int) float64 { return float64(id%5)*0.75 - 2.0 }

// GroundtruthTime is the time of line i of robot id's groundtruth file.
func GroundtruthTime(id, i int) float64 {
	return FixtureStartTime + float64(i)*0.01 + float64(id)*0.001
}

func groundtruthFile(id int) string {
	var b strings.Builder
	b.WriteString("# Time [s]    x [m]    y [m]    orientation [rad]\n")
	for i := 0; i < FixtureGroundtruthLines; i++ {
		fmt.Fprintf(&b, "%.3f   \t%.6f\t%.6f\t%.6f\n",
			GroundtruthTime(id, i), float64(id)+0.1*float64(i), -float64(id)+0.05*float64(i), 0.2*float64(i)-0.1)
	}
	return b.String()
}

func odometryFile(id int) string {
	var b strings.Builder
	b.WriteString("# Time [s]    forward velocity [m/s]    angular velocity [rad/s]\n")
	for i := 0; i < FixtureOdometryLines; i++ {
		fmt.Fprintf(&b, "%.3f   \t%.3f\t%.3f\n", FixtureStartTime+float64(i)*0.02, 0.1*float64(id+1), -0.05*float64(i))
	}
	return b.String()
}

// measurementFile produces four lines: the first two fall 0.02 s apart and
// share an epoch, the other two are 0.5 s apart and each start a new one.
func measurementFile(id int) string {
	lm := func(k int) int { return FixtureBarcodeCodes[(FixtureRobots+id+k)%FixtureBarcodes] }
	robot := FixtureBarcodeCodes[(id+1)%FixtureRobots]

	var b strings.Builder
	b.WriteString("# Time [s]    Subject #    range [m]    bearing [rad]\n")
	fmt.Fprintf(&b, "%.3f\t%d\t%.3f\t%.3f\n", FixtureStartTime, lm(0), 3.0, 0.1)
	fmt.Fprintf(&b, "%.3f\t%d\t%.3f\t%.3f\n", FixtureStartTime+0.02, lm(1), 4.0, -0.2)
	fmt.Fprintf(&b, "%.3f\t%d\t%.3f\t%.3f\n", FixtureStartTime+0.5, robot, 1.5, 0.7)
	fmt.Fprintf(&b, "%.3f\t%d\t%.3f\t%.3f\n", FixtureStartTime+1.0, lm(2), 2.25, -1.1)
	return b.String()
}
