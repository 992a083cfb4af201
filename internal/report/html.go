package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/mrclam/internal/dataset"
	"github.com/banshee-data/mrclam/internal/fsutil"
)

// Chart builds an echarts scatter with one series per robot and one for the
// landmarks, on equal axes padded around the data.
func (s *Scene) Chart() *charts.Scatter {
	pad := s.extent() + 0.5

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: s.Title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "MRCLAM Groundtruth", Subtitle: s.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
	)

	for _, tr := range s.Tracks {
		data := make([]opts.ScatterData, 0, len(tr.Points))
		for _, pt := range tr.Points {
			data = append(data, opts.ScatterData{Value: []interface{}{pt.X, pt.Y}})
		}
		scatter.AddSeries(fmt.Sprintf("robot %d", tr.Robot), data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}))
	}

	landmarks := make([]opts.ScatterData, 0, len(s.Landmarks))
	for _, m := range s.Landmarks {
		landmarks = append(landmarks, opts.ScatterData{
			Name:   fmt.Sprintf("landmark %d", m.ID),
			Value:  []interface{}{m.X, m.Y},
			Symbol: "diamond",
		})
	}
	scatter.AddSeries("landmarks", landmarks,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))
	return scatter
}

// extent returns the largest absolute coordinate in the scene.
func (s *Scene) extent() float64 {
	m := 0.0
	for _, tr := range s.Tracks {
		for _, pt := range tr.Points {
			m = math.Max(m, math.Max(math.Abs(pt.X), math.Abs(pt.Y)))
		}
	}
	for _, lm := range s.Landmarks {
		m = math.Max(m, math.Max(math.Abs(lm.X), math.Abs(lm.Y)))
	}
	return math.Ceil(m)
}

// WriteHTML renders the interactive trajectory chart of ds to path.
func WriteHTML(fsys fsutil.FileSystem, path string, ds *dataset.Dataset, o Options) error {
	scene, err := BuildScene(ds, o)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := scene.Chart().Render(&buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if err := fsys.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
