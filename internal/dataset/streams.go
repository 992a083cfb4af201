package dataset

import (
	"fmt"

	"github.com/banshee-data/mrclam/internal/fsutil"
)

// Stream identifies one per-robot data file.
type Stream string

const (
	StreamGroundtruth Stream = "Groundtruth"
	StreamOdometry    Stream = "Odometry"
	StreamMeasurement Stream = "Measurement"
)

// RobotFile returns the file name of a robot stream. robotID is 0-based; the
// file name uses the 1-based ordinal.
func RobotFile(robotID int, s Stream) string {
	return fmt.Sprintf("Robot%d_%s.dat", robotID+1, s)
}

// GroundtruthSample is an externally measured robot pose.
type GroundtruthSample struct {
	Time        float64 // s
	X           float64 // m
	Y           float64 // m
	Orientation float64 // rad
}

// OdometrySample is a robot's reported velocity command.
type OdometrySample struct {
	Time            float64 // s
	ForwardVelocity float64 // m/s
	AngularVelocity float64 // rad/s
}

// ParseGroundtruth reads a Robot<N>_Groundtruth.dat file in file order.
func ParseGroundtruth(fsys fsutil.FileSystem, path string) ([]GroundtruthSample, error) {
	samples, err := parseSamples(fsys, path, 4, func(v []float64) GroundtruthSample {
		return GroundtruthSample{Time: v[0], X: v[1], Y: v[2], Orientation: v[3]}
	})
	if err != nil {
		return nil, fmt.Errorf("parse groundtruth: %w", err)
	}
	return samples, nil
}

// ParseOdometry reads a Robot<N>_Odometry.dat file in file order.
func ParseOdometry(fsys fsutil.FileSystem, path string) ([]OdometrySample, error) {
	samples, err := parseSamples(fsys, path, 3, func(v []float64) OdometrySample {
		return OdometrySample{Time: v[0], ForwardVelocity: v[1], AngularVelocity: v[2]}
	})
	if err != nil {
		return nil, fmt.Errorf("parse odometry: %w", err)
	}
	return samples, nil
}

// parseSamples decodes the first n float fields of every data line. The time
// ordering of the file is taken as given.
func parseSamples[T any](fsys fsutil.FileSystem, path string, n int, decode func([]float64) T) ([]T, error) {
	var out []T
	err := scanFile(fsys, path, func(rec Record) error {
		v, err := rec.Floats(n)
		if err != nil {
			return err
		}
		out = append(out, decode(v))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
