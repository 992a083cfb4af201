package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/mrclam/internal/testutil"
)

func TestParseLandmarks_Fixture(t *testing.T) {
	t.Parallel()

	mfs := testutil.NewMemoryDataset(t, testDir)
	barcodes, err := ParseBarcodes(mfs, testDir+"/Barcodes.dat", testutil.FixtureBarcodes)
	require.NoError(t, err)

	catalog, err := ParseLandmarks(mfs, testDir+"/Landmark_Groundtruth.dat", barcodes, testutil.FixtureLandmarks)
	require.NoError(t, err)
	assert.Equal(t, testutil.FixtureLandmarks, catalog.Len())
	assert.Equal(t, testutil.FixtureLandmarks, catalog.Capacity())

	lm, ok := catalog.Get(6)
	require.True(t, ok)
	assert.Equal(t, 72, lm.Barcode)
	assert.InDelta(t, testutil.LandmarkX(6), lm.X, 1e-9)
	assert.InDelta(t, testutil.LandmarkY(6), lm.Y, 1e-9)
	assert.InDelta(t, 0.000331, lm.XStdDev, 1e-12)
	assert.InDelta(t, 0.000252, lm.YStdDev, 1e-12)

	all := catalog.All()
	require.Len(t, all, testutil.FixtureLandmarks)
	assert.Equal(t, 6, all[0].ID)
	assert.Equal(t, 20, all[len(all)-1].ID)

	byCode, ok := catalog.ByBarcode(63)
	require.True(t, ok)
	assert.Equal(t, 20, byCode.ID)
	_, ok = catalog.ByBarcode(5)
	assert.False(t, ok, "robot barcodes are not landmarks")
}

func TestParseLandmarks_AllReturnsCopy(t *testing.T) {
	t.Parallel()

	mfs := seedFiles(t, map[string]string{
		"Barcodes.dat":             "1\t72\n",
		"Landmark_Groundtruth.dat": "1\t1.0\t2.0\t0.1\t0.1\n",
	})
	barcodes, err := ParseBarcodes(mfs, testDir+"/Barcodes.dat", 5)
	require.NoError(t, err)
	catalog, err := ParseLandmarks(mfs, testDir+"/Landmark_Groundtruth.dat", barcodes, 5)
	require.NoError(t, err)

	all := catalog.All()
	all[0].X = 99
	lm, _ := catalog.Get(1)
	assert.Equal(t, 1.0, lm.X)
}

func TestParseLandmarks_UnresolvedBarcode(t *testing.T) {
	t.Parallel()

	mfs := seedFiles(t, map[string]string{
		"Barcodes.dat":             "1\t5\n2\t14\n",
		"Landmark_Groundtruth.dat": "1\t1.0\t2.0\t0.1\t0.1\n3\t1.0\t2.0\t0.1\t0.1\n",
	})
	barcodes, err := ParseBarcodes(mfs, testDir+"/Barcodes.dat", 5)
	require.NoError(t, err)

	catalog, err := ParseLandmarks(mfs, testDir+"/Landmark_Groundtruth.dat", barcodes, 5)
	assert.ErrorIs(t, err, ErrUnresolvedReference)
	assert.Contains(t, err.Error(), "landmark 3")
	assert.Nil(t, catalog)
}

func TestParseLandmarks_NilBarcodes(t *testing.T) {
	t.Parallel()

	mfs := testutil.NewMemoryDataset(t, testDir)
	_, err := ParseLandmarks(mfs, testDir+"/Landmark_Groundtruth.dat", nil, 15)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestParseLandmarks_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		capacity int
		wantErr  error
	}{
		{"capacity", "1\t0\t0\t0\t0\n2\t0\t0\t0\t0\n", 1, ErrCapacityExceeded},
		{"duplicate id", "1\t0\t0\t0\t0\n1\t0\t0\t0\t0\n", 5, ErrDuplicateEntry},
		{"short line", "1\t0\t0\t0\n", 5, ErrMalformedField},
		{"bad float", "1\t0\tx\t0\t0\n", 5, ErrMalformedField},
		{"bad id", "one\t0\t0\t0\t0\n", 5, ErrMalformedField},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mfs := seedFiles(t, map[string]string{
				"Barcodes.dat":             "1\t5\n2\t14\n",
				"Landmark_Groundtruth.dat": tt.content,
			})
			barcodes, err := ParseBarcodes(mfs, testDir+"/Barcodes.dat", 5)
			require.NoError(t, err)

			catalog, err := ParseLandmarks(mfs, testDir+"/Landmark_Groundtruth.dat", barcodes, tt.capacity)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, catalog)
		})
	}
}

func TestParseLandmarks_MissingFile(t *testing.T) {
	t.Parallel()

	mfs := seedFiles(t, map[string]string{"Barcodes.dat": "1\t5\n"})
	barcodes, err := ParseBarcodes(mfs, testDir+"/Barcodes.dat", 5)
	require.NoError(t, err)

	_, err = ParseLandmarks(mfs, testDir+"/Landmark_Groundtruth.dat", barcodes, 5)
	assert.ErrorIs(t, err, ErrFileOpen)
}
