package report

import (
	"fmt"
	"image/color"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/mrclam/internal/dataset"
	"github.com/banshee-data/mrclam/internal/fsutil"
)

// PNG image size.
const (
	pngWidth  = 10 * vg.Inch
	pngHeight = 10 * vg.Inch
)

// Plot builds a gonum plot with one line per robot and a labelled marker per
// landmark.
func (s *Scene) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.Title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.Add(plotter.NewGrid())

	colors := generateColors(len(s.Tracks))
	for i, tr := range s.Tracks {
		if len(tr.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(tr.Points))
		for j, pt := range tr.Points {
			xys[j] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("robot %d line: %w", tr.Robot, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("robot %d", tr.Robot), line)
	}

	if len(s.Landmarks) > 0 {
		xys := make(plotter.XYs, len(s.Landmarks))
		labels := make([]string, len(s.Landmarks))
		for i, m := range s.Landmarks {
			xys[i] = plotter.XY{X: m.X, Y: m.Y}
			labels[i] = strconv.Itoa(m.ID)
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("landmark markers: %w", err)
		}
		sc.GlyphStyle.Shape = draw.CrossGlyph{}
		sc.GlyphStyle.Color = color.Black
		sc.GlyphStyle.Radius = vg.Points(4)
		p.Add(sc)
		p.Legend.Add("landmarks", sc)

		lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return nil, fmt.Errorf("landmark labels: %w", err)
		}
		lbl.Offset = vg.Point{X: vg.Points(4), Y: vg.Points(4)}
		p.Add(lbl)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// WritePNG renders the trajectory plot of ds to path.
func WritePNG(fsys fsutil.FileSystem, path string, ds *dataset.Dataset, o Options) error {
	scene, err := BuildScene(ds, o)
	if err != nil {
		return err
	}
	p, err := scene.Plot()
	if err != nil {
		return fmt.Errorf("build plot: %w", err)
	}
	wt, err := p.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
