package dataset

import "fmt"

// RobotRecord holds the three streams of one robot.
type RobotRecord struct {
	ID           int // 0-based
	Groundtruth  []GroundtruthSample
	Odometry     []OdometrySample
	Measurements []MeasurementEpoch
}

// Ordinal returns the 1-based robot number used in file names.
func (r RobotRecord) Ordinal() int { return r.ID + 1 }

// Sightings returns the total number of sightings across all epochs.
func (r RobotRecord) Sightings() int {
	n := 0
	for _, e := range r.Measurements {
		n += e.Len()
	}
	return n
}

func (r RobotRecord) clone() RobotRecord {
	out := RobotRecord{
		ID:          r.ID,
		Groundtruth: append([]GroundtruthSample(nil), r.Groundtruth...),
		Odometry:    append([]OdometrySample(nil), r.Odometry...),
	}
	if r.Measurements != nil {
		out.Measurements = make([]MeasurementEpoch, len(r.Measurements))
		for i, e := range r.Measurements {
			out.Measurements[i] = e.clone()
		}
	}
	return out
}

// Dataset is a fully extracted dataset directory. It is immutable: the
// tables have no mutating methods and robot streams are handed out as
// copies. A Dataset that did not come from a successful extraction reports
// ErrNotInitialized from every accessor.
type Dataset struct {
	path         string
	samplePeriod float64
	barcodes     *BarcodeTable
	landmarks    *LandmarkCatalog
	robots       []RobotRecord
	ready        bool
}

func (d *Dataset) check() error {
	if d == nil || !d.ready {
		return fmt.Errorf("dataset: %w", ErrNotInitialized)
	}
	return nil
}

// Path returns the directory the dataset was extracted from.
func (d *Dataset) Path() string {
	if d == nil {
		return ""
	}
	return d.path
}

// SamplePeriod returns the configured sample period in seconds. It is
// reserved for resampling and not applied to any stream.
func (d *Dataset) SamplePeriod() float64 {
	if d == nil {
		return 0
	}
	return d.samplePeriod
}

// Barcodes returns the barcode table.
func (d *Dataset) Barcodes() (*BarcodeTable, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return d.barcodes, nil
}

// Landmarks returns the landmark catalog.
func (d *Dataset) Landmarks() (*LandmarkCatalog, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return d.landmarks, nil
}

// NumRobots returns the number of robot records, zero before extraction.
func (d *Dataset) NumRobots() int {
	if d.check() != nil {
		return 0
	}
	return len(d.robots)
}

// Robots returns a deep copy of every robot record, ordered by id.
func (d *Dataset) Robots() ([]RobotRecord, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	out := make([]RobotRecord, len(d.robots))
	for i, r := range d.robots {
		out[i] = r.clone()
	}
	return out, nil
}

// Robot returns a deep copy of the record for the 0-based robot id.
func (d *Dataset) Robot(id int) (RobotRecord, error) {
	if err := d.check(); err != nil {
		return RobotRecord{}, err
	}
	if id < 0 || id >= len(d.robots) {
		return RobotRecord{}, fmt.Errorf("%w: robot id %d outside 0..%d", ErrOutOfRange, id, len(d.robots)-1)
	}
	return d.robots[id].clone(), nil
}
