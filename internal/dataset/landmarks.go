package dataset

import (
	"fmt"

	"github.com/banshee-data/mrclam/internal/fsutil"
)

// LandmarksFile is the default name of the landmark groundtruth table.
const LandmarksFile = "Landmark_Groundtruth.dat"

// Landmark is a stationary feature with a surveyed position.
type Landmark struct {
	ID      int
	Barcode int
	X       float64 // m
	Y       float64 // m
	XStdDev float64 // m
	YStdDev float64 // m
}

// LandmarkCatalog holds landmarks keyed by id, in file order.
type LandmarkCatalog struct {
	capacity int
	byID     map[int]int // id -> position in list
	list     []Landmark
}

// ParseLandmarks reads the landmark file, resolving each landmark's barcode
// through barcodes. barcodes must come from a successful ParseBarcodes.
// On any failure no catalog is returned.
func ParseLandmarks(fsys fsutil.FileSystem, path string, barcodes *BarcodeTable, capacity int) (*LandmarkCatalog, error) {
	if barcodes == nil {
		return nil, fmt.Errorf("parse landmarks: barcode table: %w", ErrNotInitialized)
	}

	c := &LandmarkCatalog{
		capacity: capacity,
		byID:     make(map[int]int),
	}

	err := scanFile(fsys, path, func(rec Record) error {
		if len(c.list) >= capacity {
			return fmt.Errorf("%w: line %d: more than %d landmarks", ErrCapacityExceeded, rec.Line, capacity)
		}
		id, err := rec.Int(0)
		if err != nil {
			return err
		}
		if _, dup := c.byID[id]; dup {
			return fmt.Errorf("%w: line %d: landmark id %d", ErrDuplicateEntry, rec.Line, id)
		}
		code, ok := barcodes.Lookup(id)
		if !ok {
			return fmt.Errorf("%w: line %d: landmark %d has no barcode", ErrUnresolvedReference, rec.Line, id)
		}

		lm := Landmark{ID: id, Barcode: code}
		fields := []*float64{&lm.X, &lm.Y, &lm.XStdDev, &lm.YStdDev}
		for i, dst := range fields {
			if *dst, err = rec.Float(i + 1); err != nil {
				return err
			}
		}

		c.byID[id] = len(c.list)
		c.list = append(c.list, lm)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse landmarks: %w", err)
	}
	return c, nil
}

// Get returns the landmark with the given id.
func (c *LandmarkCatalog) Get(id int) (Landmark, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Landmark{}, false
	}
	return c.list[i], true
}

// ByBarcode returns the landmark carrying the given barcode.
func (c *LandmarkCatalog) ByBarcode(code int) (Landmark, bool) {
	for _, lm := range c.list {
		if lm.Barcode == code {
			return lm, true
		}
	}
	return Landmark{}, false
}

// Len returns the number of landmarks.
func (c *LandmarkCatalog) Len() int { return len(c.list) }

// Capacity returns the maximum number of landmarks the catalog accepts.
func (c *LandmarkCatalog) Capacity() int { return c.capacity }

// All returns a copy of the landmarks in file order.
func (c *LandmarkCatalog) All() []Landmark {
	return append([]Landmark(nil), c.list...)
}
