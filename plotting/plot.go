package plotting

import (
	"fmt"
	"math"
	"os"

	"github.com/zhaokai2014/wgd/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Adapter renders diagnostic figures from fitted artifacts. It is the
// only part of the repository that touches the filesystem, and only at
// paths handed in by the caller. It satisfies the Plotter interfaces of
// the mixture and kde packages.
type Adapter struct{}

func NewAdapter() *Adapter {
	return &Adapter{}
}

// SaveMixturePlot draws the sample histogram with every cleanly fitted
// model's mixture curve overlaid, one line per component count.
func (a *Adapter) SaveMixturePlot(family model.ModelFamily, grid, xs []float64, path string) error {
	p := plot.New()
	p.Title.Text = "Fitted mixture models"
	p.X.Label.Text = "Ks"
	p.Y.Label.Text = "Density"

	if err := addHistogram(p, xs); err != nil {
		return err
	}

	i := 0
	for _, entry := range family {
		if entry.Err != nil || entry.Model == nil {
			continue
		}
		overlay := BuildOverlay(entry.Model, grid)
		line, err := plotter.NewLine(curveXYs(grid, overlay.Mixture))
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("K=%d", entry.Model.NComponents), line)
		i++
	}

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

// SaveCriterionPlot draws the information-criterion curve over the
// component counts. Degenerate fits leave gaps.
func (a *Adapter) SaveCriterionPlot(scores []model.ScoredModel, criterion string, path string) error {
	p := plot.New()
	p.Title.Text = "Model selection"
	p.X.Label.Text = "Number of components"
	p.Y.Label.Text = criterion

	pts := plotter.XYs{}
	for _, s := range scores {
		if s.Err != nil || s.Model == nil || math.IsNaN(s.Score) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(s.Model.NComponents), Y: s.Score})
	}

	line, scatter, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	p.Add(line, scatter)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// SaveKDEPlot draws the full-domain and reduced-domain density curves
// side by side, one line per bandwidth, with the cross-validated best
// bandwidth called out in the title.
func (a *Adapter) SaveKDEPlot(full, reduced []model.DensityEstimate,
	selection *model.BandwidthSelection, xs []float64, path string) error {
	fullPlot, err := densityPlot(full, xs, "KDE of Ks distribution (Ks < 5)")
	if err != nil {
		return err
	}
	reducedPlot, err := densityPlot(reduced, nil, "KDE of Ks distribution (Ks < 2)")
	if err != nil {
		return err
	}
	if selection != nil {
		fullPlot.Title.Text += fmt.Sprintf(", best bandwidth %v", selection.Best)
	}

	img := vgimg.New(20*vg.Inch, 6*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Inch / 2}
	canvases := plot.Align([][]*plot.Plot{{fullPlot, reducedPlot}}, tiles, dc)

	fullPlot.Draw(canvases[0][0])
	reducedPlot.Draw(canvases[0][1])

	w, err := os.Create(path)
	if err != nil {
		return err
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func densityPlot(estimates []model.DensityEstimate, xs []float64, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Ks"
	p.Y.Label.Text = "Density"

	if len(xs) > 0 {
		if err := addHistogram(p, xs); err != nil {
			return nil, err
		}
	}

	for i, est := range estimates {
		line, err := plotter.NewLine(curveXYs(est.Grid, est.Density))
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("bw=%v", est.Bandwidth), line)
	}
	return p, nil
}

func addHistogram(p *plot.Plot, xs []float64) error {
	h, err := plotter.NewHist(plotter.Values(xs), 50)
	if err != nil {
		return err
	}
	h.Normalize(1)
	p.Add(h)
	return nil
}

func curveXYs(grid, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(grid))
	for i := range grid {
		pts[i] = plotter.XY{X: grid[i], Y: ys[i]}
	}
	return pts
}
