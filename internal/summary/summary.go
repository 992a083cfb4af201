// Package summary computes per-robot statistics over an extracted dataset.
package summary

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/mrclam/internal/dataset"
	"github.com/banshee-data/mrclam/internal/fsutil"
	"github.com/banshee-data/mrclam/internal/monitoring"
)

// StreamStats describes the timing of one time-stamped stream.
type StreamStats struct {
	Samples        int     `json:"samples"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	Span           float64 `json:"span_seconds"`
	MeanInterval   float64 `json:"mean_interval_seconds"`
	StdDevInterval float64 `json:"stddev_interval_seconds"`
	// NonMonotonic counts samples whose time is earlier than the previous one.
	NonMonotonic int `json:"non_monotonic"`
}

// MeasurementStats describes the epochs of one measurement stream.
type MeasurementStats struct {
	Epochs            int         `json:"epochs"`
	Sightings         int         `json:"sightings"`
	MeanPerEpoch      float64     `json:"mean_sightings_per_epoch"`
	MaxPerEpoch       int         `json:"max_sightings_per_epoch"`
	RobotSightings    int         `json:"robot_sightings"`
	LandmarkSightings int         `json:"landmark_sightings"`
	UnknownSightings  int         `json:"unknown_sightings"`
	Timing            StreamStats `json:"timing"`
}

// RobotSummary holds the statistics of one robot.
type RobotSummary struct {
	Robot        int              `json:"robot"` // 1-based ordinal
	Groundtruth  StreamStats      `json:"groundtruth"`
	Odometry     StreamStats      `json:"odometry"`
	Measurements MeasurementStats `json:"measurements"`
}

// Summary is the dataset-wide report.
type Summary struct {
	Path      string         `json:"path"`
	Barcodes  int            `json:"barcodes"`
	Landmarks int            `json:"landmarks"`
	Robots    []RobotSummary `json:"robots"`
}

// Compute builds a Summary from a successfully extracted dataset.
func Compute(ds *dataset.Dataset) (*Summary, error) {
	barcodes, err := ds.Barcodes()
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	landmarks, err := ds.Landmarks()
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	robots, err := ds.Robots()
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	s := &Summary{
		Path:      ds.Path(),
		Barcodes:  barcodes.Len(),
		Landmarks: landmarks.Len(),
		Robots:    make([]RobotSummary, 0, len(robots)),
	}
	for _, r := range robots {
		gt := make([]float64, len(r.Groundtruth))
		for i, g := range r.Groundtruth {
			gt[i] = g.Time
		}
		odo := make([]float64, len(r.Odometry))
		for i, o := range r.Odometry {
			odo[i] = o.Time
		}
		rs := RobotSummary{
			Robot:        r.Ordinal(),
			Groundtruth:  streamStats(gt),
			Odometry:     streamStats(odo),
			Measurements: measurementStats(r.Measurements, barcodes, len(robots)),
		}
		warnNonMonotonic(rs.Robot, "groundtruth", rs.Groundtruth)
		warnNonMonotonic(rs.Robot, "odometry", rs.Odometry)
		warnNonMonotonic(rs.Robot, "measurement", rs.Measurements.Timing)
		s.Robots = append(s.Robots, rs)
	}
	return s, nil
}

func warnNonMonotonic(robot int, stream string, st StreamStats) {
	if st.NonMonotonic > 0 {
		monitoring.Warnf("robot %d %s has %d out-of-order samples", robot, stream, st.NonMonotonic)
	}
}

// streamStats summarises a series of timestamps in file order.
func streamStats(times []float64) StreamStats {
	st := StreamStats{Samples: len(times)}
	if len(times) == 0 {
		return st
	}
	st.Start = times[0]
	st.End = times[len(times)-1]
	st.Span = floats.Max(times) - floats.Min(times)
	if len(times) < 2 {
		return st
	}

	intervals := make([]float64, len(times)-1)
	for i := 1; i < len(times); i++ {
		intervals[i-1] = times[i] - times[i-1]
		if intervals[i-1] < 0 {
			st.NonMonotonic++
		}
	}
	if len(intervals) == 1 {
		st.MeanInterval = intervals[0]
		return st
	}
	st.MeanInterval, st.StdDevInterval = stat.MeanStdDev(intervals, nil)
	return st
}

// measurementStats classifies sightings as robots when the barcode belongs to
// one of the first numRobots subjects, landmarks when it belongs to any other
// subject, and unknown otherwise.
func measurementStats(epochs []dataset.MeasurementEpoch, barcodes *dataset.BarcodeTable, numRobots int) MeasurementStats {
	ms := MeasurementStats{Epochs: len(epochs)}
	if len(epochs) == 0 {
		return ms
	}

	times := make([]float64, len(epochs))
	counts := make([]float64, len(epochs))
	for i, e := range epochs {
		times[i] = e.Time
		counts[i] = float64(e.Len())
		for _, code := range e.Subjects {
			subject, ok := barcodes.SubjectForCode(code)
			switch {
			case !ok:
				ms.UnknownSightings++
			case subject <= numRobots:
				ms.RobotSightings++
			default:
				ms.LandmarkSightings++
			}
		}
	}
	ms.Sightings = int(floats.Sum(counts))
	ms.MeanPerEpoch = stat.Mean(counts, nil)
	ms.MaxPerEpoch = int(floats.Max(counts))
	ms.Timing = streamStats(times)
	return ms
}

// Print writes a human-readable table of the summary to w.
func (s *Summary) Print(w io.Writer) error {
	fmt.Fprintf(w, "dataset %s: %d barcodes, %d landmarks, %d robots\n",
		s.Path, s.Barcodes, s.Landmarks, len(s.Robots))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "robot\tstream\tsamples\tspan(s)\tmean dt(s)\tstd dt(s)\tnon-monotonic\t")
	for _, r := range s.Robots {
		writeStream(tw, r.Robot, "groundtruth", r.Groundtruth)
		writeStream(tw, r.Robot, "odometry", r.Odometry)
		writeStream(tw, r.Robot, "measurement", r.Measurements.Timing)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "robot\tepochs\tsightings\tper epoch\tmax\trobots\tlandmarks\tunknown\t")
	for _, r := range s.Robots {
		m := r.Measurements
		fmt.Fprintf(tw, "%d\t%d\t%d\t%.2f\t%d\t%d\t%d\t%d\t\n",
			r.Robot, m.Epochs, m.Sightings, m.MeanPerEpoch, m.MaxPerEpoch,
			m.RobotSightings, m.LandmarkSightings, m.UnknownSightings)
	}
	return tw.Flush()
}

func writeStream(w io.Writer, robot int, name string, st StreamStats) {
	fmt.Fprintf(w, "%d\t%s\t%d\t%.3f\t%.4f\t%.4f\t%d\t\n",
		robot, name, st.Samples, st.Span, st.MeanInterval, st.StdDevInterval, st.NonMonotonic)
}

// WriteJSON writes the summary as indented JSON to path on fsys.
func (s *Summary) WriteJSON(fsys fsutil.FileSystem, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := fsys.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write summary %s: %w", path, err)
	}
	return nil
}
