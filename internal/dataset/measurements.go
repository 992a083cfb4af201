package dataset

import (
	"fmt"

	"github.com/banshee-data/mrclam/internal/fsutil"
)

// DefaultMergeTolerance is the window, in seconds, within which measurement
// lines are folded into the same epoch.
const DefaultMergeTolerance = 0.05

// MeasurementEpoch groups every sighting a robot recorded at effectively the
// same instant. Subjects, Ranges and Bearings are parallel slices.
type MeasurementEpoch struct {
	Time     float64   // s, anchor taken from the first line of the epoch
	Subjects []int     // barcode of the sighted landmark or robot
	Ranges   []float64 // m
	Bearings []float64 // rad
}

// Len returns the number of sightings in the epoch.
func (e MeasurementEpoch) Len() int { return len(e.Subjects) }

func (e MeasurementEpoch) clone() MeasurementEpoch {
	return MeasurementEpoch{
		Time:     e.Time,
		Subjects: append([]int(nil), e.Subjects...),
		Ranges:   append([]float64(nil), e.Ranges...),
		Bearings: append([]float64(nil), e.Bearings...),
	}
}

// MeasurementAligner folds raw measurement lines into epochs.
type MeasurementAligner struct {
	tolerance float64
	known     func(subject int) bool
	epochs    []MeasurementEpoch
}

// NewMeasurementAligner returns an aligner merging lines whose time lies
// within tolerance of an epoch anchor. When known is non-nil every subject
// must satisfy it.
func NewMeasurementAligner(tolerance float64, known func(subject int) bool) *MeasurementAligner {
	return &MeasurementAligner{tolerance: tolerance, known: known}
}

// Add appends a sighting to the first epoch whose anchor lies within the
// tolerance window of t, or starts a new epoch anchored at t.
func (a *MeasurementAligner) Add(t float64, subject int, rng, bearing float64) error {
	if a.known != nil && !a.known(subject) {
		return fmt.Errorf("%w: subject %d is not a known barcode", ErrUnresolvedReference, subject)
	}

	// First match wins, scanning from the oldest epoch.
	for i := range a.epochs {
		e := &a.epochs[i]
		if e.Time >= t-a.tolerance && e.Time <= t+a.tolerance {
			e.Subjects = append(e.Subjects, subject)
			e.Ranges = append(e.Ranges, rng)
			e.Bearings = append(e.Bearings, bearing)
			return nil
		}
	}

	a.epochs = append(a.epochs, MeasurementEpoch{
		Time:     t,
		Subjects: []int{subject},
		Ranges:   []float64{rng},
		Bearings: []float64{bearing},
	})
	return nil
}

// Epochs returns the epochs built so far in creation order.
func (a *MeasurementAligner) Epochs() []MeasurementEpoch { return a.epochs }

// AlignOptions controls ParseMeasurements.
type AlignOptions struct {
	Tolerance float64
	// KnownSubject, when set, rejects sightings of unknown subjects with
	// ErrUnresolvedReference.
	KnownSubject func(subject int) bool
}

// ParseMeasurements reads a Robot<N>_Measurement.dat file and merges its
// lines into epochs.
func ParseMeasurements(fsys fsutil.FileSystem, path string, opts AlignOptions) ([]MeasurementEpoch, error) {
	aligner := NewMeasurementAligner(opts.Tolerance, opts.KnownSubject)

	err := scanFile(fsys, path, func(rec Record) error {
		t, err := rec.Float(0)
		if err != nil {
			return err
		}
		subject, err := rec.Int(1)
		if err != nil {
			return err
		}
		rng, err := rec.Float(2)
		if err != nil {
			return err
		}
		bearing, err := rec.Float(3)
		if err != nil {
			return err
		}
		if err := aligner.Add(t, subject, rng, bearing); err != nil {
			return fmt.Errorf("line %d: %w", rec.Line, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse measurements: %w", err)
	}
	return aligner.Epochs(), nil
}
