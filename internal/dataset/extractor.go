package dataset

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/banshee-data/mrclam/internal/config"
	"github.com/banshee-data/mrclam/internal/fsutil"
	"github.com/banshee-data/mrclam/internal/monitoring"
	"github.com/banshee-data/mrclam/internal/timeutil"
)

// ExtractorConfig wires an Extractor.
type ExtractorConfig struct {
	Extract *config.ExtractConfig // nil uses the built-in defaults
	FS      fsutil.FileSystem     // Optional: defaults to the OS filesystem (tests use fsutil.MemoryFileSystem)
	Clock   timeutil.Clock        // Optional: defaults to the wall clock
}

// Extractor runs the extraction pipeline over a dataset directory.
type Extractor struct {
	cfg          *config.ExtractConfig
	fsys         fsutil.FileSystem
	clock        timeutil.Clock
	samplePeriod *float64 // overrides the config value when set, unvalidated
}

// NewExtractor creates an Extractor, filling unset dependencies with defaults.
func NewExtractor(c ExtractorConfig) *Extractor {
	e := &Extractor{cfg: c.Extract, fsys: c.FS, clock: c.Clock}
	if e.cfg == nil {
		e.cfg = config.EmptyExtractConfig()
	}
	if e.fsys == nil {
		e.fsys = fsutil.OSFileSystem{}
	}
	if e.clock == nil {
		e.clock = timeutil.RealClock{}
	}
	return e
}

// Extract reads every file of the dataset at path. A missing directory fails
// immediately with ErrPathNotFound. Otherwise every step is attempted and,
// if any failed, an *ExtractionError listing all of them is returned.
func (e *Extractor) Extract(path string) (*Dataset, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("extract %s: invalid configuration: %w", path, err)
	}

	info, err := e.fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPathNotFound, path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrPathNotFound, path)
	}

	start := e.clock.Now()
	run := &extractRun{runID: uuid.NewString()}
	monitoring.Logf("[extract %s] reading dataset %s", run.runID, path)

	ds := &Dataset{
		path:         path,
		samplePeriod: e.cfg.GetSamplePeriodSeconds(),
	}
	if e.samplePeriod != nil {
		ds.samplePeriod = *e.samplePeriod
	}

	barcodesPath := filepath.Join(path, e.cfg.GetBarcodesFile())
	ds.barcodes, err = ParseBarcodes(e.fsys, barcodesPath, e.cfg.GetTotalBarcodes())
	run.record(StepBarcodes, -1, barcodesPath, err)

	// The landmark file is read even after a failed barcode step. Its rows
	// then fail as unresolved references.
	resolve := ds.barcodes
	if resolve == nil {
		resolve = newBarcodeTable(e.cfg.GetTotalBarcodes())
	}
	landmarksPath := filepath.Join(path, e.cfg.GetLandmarksFile())
	ds.landmarks, err = ParseLandmarks(e.fsys, landmarksPath, resolve, e.cfg.GetTotalLandmarks())
	run.record(StepLandmarks, -1, landmarksPath, err)

	opts := AlignOptions{Tolerance: e.cfg.GetMergeToleranceSeconds()}
	if e.cfg.GetValidateSubjects() && ds.barcodes != nil {
		opts.KnownSubject = ds.barcodes.HasCode
	}

	ds.robots = make([]RobotRecord, e.cfg.GetTotalRobots())
	for id := range ds.robots {
		r := &ds.robots[id]
		r.ID = id

		gtPath := filepath.Join(path, RobotFile(id, StreamGroundtruth))
		r.Groundtruth, err = ParseGroundtruth(e.fsys, gtPath)
		run.record(StepGroundtruth, id, gtPath, err)

		odoPath := filepath.Join(path, RobotFile(id, StreamOdometry))
		r.Odometry, err = ParseOdometry(e.fsys, odoPath)
		run.record(StepOdometry, id, odoPath, err)

		measPath := filepath.Join(path, RobotFile(id, StreamMeasurement))
		if e.cfg.GetValidateSubjects() && ds.barcodes == nil {
			err = fmt.Errorf("parse measurements: subject validation needs the barcode table: %w", ErrNotInitialized)
		} else {
			r.Measurements, err = ParseMeasurements(e.fsys, measPath, opts)
		}
		run.record(StepMeasurements, id, measPath, err)
	}

	if len(run.failures) > 0 {
		monitoring.Logf("[extract %s] %d of %d steps failed in %v",
			run.runID, len(run.failures), run.steps, e.clock.Since(start))
		return nil, &ExtractionError{
			Path:     path,
			RunID:    run.runID,
			Steps:    run.steps,
			Failures: run.failures,
		}
	}

	ds.ready = true
	monitoring.Logf("[extract %s] extracted %d robots, %d landmarks, %d barcodes in %v",
		run.runID, len(ds.robots), ds.landmarks.Len(), ds.barcodes.Len(), e.clock.Since(start))
	return ds, nil
}

// extractRun accumulates step outcomes for one Extract call.
type extractRun struct {
	runID    string
	steps    int
	failures []*StepError
}

func (r *extractRun) record(step Step, robotID int, path string, err error) {
	r.steps++
	if err == nil {
		return
	}
	se := &StepError{Step: step, RobotID: robotID, Path: path, Err: err}
	r.failures = append(r.failures, se)
	monitoring.Errorf("[extract %s] %v", r.runID, se)
}

// Extract loads a dataset from the OS filesystem using the default
// configuration. samplePeriod is stored on the Dataset as given. It is not
// validated or applied.
func Extract(path string, samplePeriod float64) (*Dataset, error) {
	e := NewExtractor(ExtractorConfig{Extract: config.DefaultExtractConfig()})
	e.samplePeriod = &samplePeriod
	return e.Extract(path)
}

// Failures returns the step errors carried by err, or nil if err is not an
// extraction failure.
func Failures(err error) []*StepError {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Failures
	}
	return nil
}
