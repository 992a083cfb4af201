package dataset

import (
	"fmt"
	"sort"

	"github.com/banshee-data/mrclam/internal/fsutil"
)

// BarcodesFile is the default name of the shared barcode table.
const BarcodesFile = "Barcodes.dat"

// BarcodeEntry pairs a subject index with the barcode printed on it.
type BarcodeEntry struct {
	Index int
	Code  int
}

// BarcodeTable maps subject indices (1..capacity) to barcode codes. Indices
// that were never written are absent rather than zero, so a zero code is a
// legitimate value. The table is read-only once parsed.
type BarcodeTable struct {
	capacity int
	codes    map[int]int // index -> code
	byCode   map[int]int // code -> index
}

func newBarcodeTable(capacity int) *BarcodeTable {
	return &BarcodeTable{
		capacity: capacity,
		codes:    make(map[int]int),
		byCode:   make(map[int]int),
	}
}

// ParseBarcodes reads a barcode file of (index, code) lines into a table
// holding at most capacity entries.
func ParseBarcodes(fsys fsutil.FileSystem, path string, capacity int) (*BarcodeTable, error) {
	t := newBarcodeTable(capacity)

	err := scanFile(fsys, path, func(rec Record) error {
		if len(t.codes) >= capacity {
			return fmt.Errorf("%w: line %d: more than %d barcodes", ErrCapacityExceeded, rec.Line, capacity)
		}
		index, err := rec.Int(0)
		if err != nil {
			return err
		}
		code, err := rec.Int(1)
		if err != nil {
			return err
		}
		if index < 1 || index > capacity {
			return fmt.Errorf("%w: line %d: index %d outside 1..%d", ErrCapacityExceeded, rec.Line, index, capacity)
		}
		if _, dup := t.codes[index]; dup {
			return fmt.Errorf("%w: line %d: barcode index %d", ErrDuplicateEntry, rec.Line, index)
		}
		t.codes[index] = code
		if _, seen := t.byCode[code]; !seen {
			t.byCode[code] = index
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse barcodes: %w", err)
	}
	return t, nil
}

// Lookup returns the code stored at index and whether it was set.
func (t *BarcodeTable) Lookup(index int) (int, bool) {
	code, ok := t.codes[index]
	return code, ok
}

// HasCode reports whether any subject carries the given barcode.
func (t *BarcodeTable) HasCode(code int) bool {
	_, ok := t.byCode[code]
	return ok
}

// SubjectForCode returns the lowest subject index carrying code.
func (t *BarcodeTable) SubjectForCode(code int) (int, bool) {
	index, ok := t.byCode[code]
	return index, ok
}

// Len returns the number of populated entries.
func (t *BarcodeTable) Len() int { return len(t.codes) }

// Capacity returns the maximum number of entries the table accepts.
func (t *BarcodeTable) Capacity() int { return t.capacity }

// Entries returns the populated entries ordered by index.
func (t *BarcodeTable) Entries() []BarcodeEntry {
	entries := make([]BarcodeEntry, 0, len(t.codes))
	for index, code := range t.codes {
		entries = append(entries, BarcodeEntry{Index: index, Code: code})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })
	return entries
}
