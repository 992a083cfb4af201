// Package report renders groundtruth trajectories and landmark positions of
// an extracted dataset as a PNG plot or an interactive HTML chart.
package report

import (
	"fmt"

	"github.com/banshee-data/mrclam/internal/dataset"
)

// DefaultMaxPoints caps the number of groundtruth samples drawn per robot.
const DefaultMaxPoints = 2000

// Options controls report rendering.
type Options struct {
	Title string
	// MaxPoints caps the samples drawn per robot; zero means DefaultMaxPoints.
	MaxPoints int
}

func (o Options) title(ds *dataset.Dataset) string {
	if o.Title != "" {
		return o.Title
	}
	return fmt.Sprintf("MRCLAM groundtruth: %s", ds.Path())
}

func (o Options) maxPoints() int {
	if o.MaxPoints <= 0 {
		return DefaultMaxPoints
	}
	return o.MaxPoints
}

// Point is a position in metres.
type Point struct {
	X, Y float64
}

// Track is the decimated groundtruth path of one robot.
type Track struct {
	Robot  int // 1-based ordinal
	Points []Point
	Stride int
}

// Marker is a landmark position labelled with its id.
type Marker struct {
	ID int
	Point
}

// Scene is the data shared by both renderers.
type Scene struct {
	Title     string
	Tracks    []Track
	Landmarks []Marker
}

// BuildScene decimates each robot's groundtruth to at most o.MaxPoints
// samples and collects landmark positions.
func BuildScene(ds *dataset.Dataset, o Options) (*Scene, error) {
	robots, err := ds.Robots()
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	landmarks, err := ds.Landmarks()
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	scene := &Scene{Title: o.title(ds)}
	limit := o.maxPoints()
	for _, r := range robots {
		stride := max(1, (len(r.Groundtruth)+limit-1)/limit)
		tr := Track{Robot: r.Ordinal(), Stride: stride}
		for i := 0; i < len(r.Groundtruth); i += stride {
			g := r.Groundtruth[i]
			tr.Points = append(tr.Points, Point{X: g.X, Y: g.Y})
		}
		scene.Tracks = append(scene.Tracks, tr)
	}
	for _, lm := range landmarks.All() {
		scene.Landmarks = append(scene.Landmarks, Marker{ID: lm.ID, Point: Point{X: lm.X, Y: lm.Y}})
	}
	return scene, nil
}
