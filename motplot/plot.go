/*
 * plot.go, part of gomotion.
 *
 * Copyright 2025 The gomotion authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*Package motplot renders pose trajectories and trajectory comparisons. It is
a pure consumer of the motion package's data: trajectories are drawn as their
XY projection with optional orientation frames at a configurable stride, and
comparisons as per-sample series, one per group. Static images use gonum/plot;
interactive comparison charts are written as HTML via go-echarts.*/
package motplot

import (
	"fmt"
	"image/color"

	motion "github.com/mocaplab/gomotion"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

//autoFrameScale is the fraction of the trajectory's largest spatial extent
//used as frame axis length when the configuration asks for auto scaling.
const autoFrameScale = 0.03

// TrajectoryPlot draws the XY projection of a trajectory's translation path.
// With cfg.ShowFrames, every cfg.FrameStep-th sample additionally gets its
// body X and Y axes drawn as short colored segments (red and green), scaled
// by cfg.FrameScale or, when that is zero, by a fraction of the trajectory's
// spatial extent. A nil cfg uses DefaultConfig.
func TrajectoryPlot(s *motion.TransformationSequence, cfg *Config) (*plot.Plot, error) {
	if s == nil {
		return nil, fmt.Errorf("motplot: nil sequence")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%g Hz)", s.Name(), s.SampleRate())
	p.X.Label.Text = fmt.Sprintf("x [%s]", s.Unit())
	p.Y.Label.Text = fmt.Sprintf("y [%s]", s.Unit())
	p.Add(plotter.NewGrid())

	n := s.Len()
	trans := s.Translations()
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i].X = trans.At(i, 0)
		pts[i].Y = trans.At(i, 1)
	}
	path, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	p.Add(path)
	p.Legend.Add(s.Name(), path)

	if !cfg.ShowFrames {
		return p, nil
	}
	step := cfg.FrameStep
	if step < 1 {
		step = 1
	}
	scale := cfg.FrameScale
	if scale == 0 {
		scale = frameAutoScale(s)
	}
	rot := s.Rotations()
	for i := 0; i < n; i += step {
		r := rot.RawRowView(i)
		x := trans.At(i, 0)
		y := trans.At(i, 1)
		//columns 0 and 1 of R are the body X and Y axes in world coordinates
		bx, err := frameSegment(x, y, x+scale*r[0], y+scale*r[3], color.RGBA{R: 200, A: 255})
		if err != nil {
			return nil, err
		}
		by, err := frameSegment(x, y, x+scale*r[1], y+scale*r[4], color.RGBA{G: 150, A: 255})
		if err != nil {
			return nil, err
		}
		p.Add(bx, by)
	}
	return p, nil
}

// frameAutoScale returns the frame axis length for a trajectory: a fixed
// fraction of its largest per-axis translation extent, or 1 for a trajectory
// that does not move.
func frameAutoScale(s *motion.TransformationSequence) float64 {
	min, max := s.TranslationRange()
	var ext float64
	for j := 0; j < 3; j++ {
		if d := max[j] - min[j]; d > ext {
			ext = d
		}
	}
	if ext == 0 {
		return 1
	}
	return ext * autoFrameScale
}

func frameSegment(x0, y0, x1, y1 float64, c color.Color) (*plotter.Line, error) {
	seg, err := plotter.NewLine(plotter.XYs{{X: x0, Y: y0}, {X: x1, Y: y1}})
	if err != nil {
		return nil, err
	}
	seg.LineStyle.Color = c
	return seg, nil
}

// ComparePlot draws the per-sample Euclidean norm of a compared component,
// one line per group, against time in seconds using each group's own sample
// rate. Groups are drawn in result order.
func ComparePlot(cmp *motion.Comparison, title string) (*plot.Plot, error) {
	if cmp == nil || len(cmp.Order) == 0 {
		return nil, fmt.Errorf("motplot: empty comparison")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t [s]"
	p.Y.Label.Text = fmt.Sprintf("|%s|", cmp.Component)
	p.Add(plotter.NewGrid())
	for gi, name := range cmp.Order {
		norms := motion.Norms(cmp.Arrays[name])
		rate := cmp.Rates[name]
		pts := make(plotter.XYs, len(norms))
		for i, v := range norms {
			pts[i].X = float64(i) / rate
			pts[i].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Color = groupColor(gi)
		p.Add(line)
		p.Legend.Add(name, line)
	}
	return p, nil
}

// CompareColumnPlot is like ComparePlot but draws a single column of the
// component array instead of the per-sample norm.
func CompareColumnPlot(cmp *motion.Comparison, col int, title string) (*plot.Plot, error) {
	if cmp == nil || len(cmp.Order) == 0 {
		return nil, fmt.Errorf("motplot: empty comparison")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t [s]"
	p.Y.Label.Text = fmt.Sprintf("%s[%d]", cmp.Component, col)
	p.Add(plotter.NewGrid())
	for gi, name := range cmp.Order {
		a := cmp.Arrays[name]
		rows, cols := a.Dims()
		if col < 0 || col >= cols {
			return nil, fmt.Errorf("motplot: column %d out of range for group %s (%d columns)", col, name, cols)
		}
		rate := cmp.Rates[name]
		pts := make(plotter.XYs, rows)
		for i := 0; i < rows; i++ {
			pts[i].X = float64(i) / rate
			pts[i].Y = a.At(i, col)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Color = groupColor(gi)
		p.Add(line)
		p.Legend.Add(name, line)
	}
	return p, nil
}

// groupColor spreads group line colors over a small fixed palette.
func groupColor(i int) color.Color {
	palette := []color.RGBA{
		{R: 31, G: 119, B: 180, A: 255},
		{R: 255, G: 127, B: 14, A: 255},
		{R: 44, G: 160, B: 44, A: 255},
		{R: 214, G: 39, B: 40, A: 255},
		{R: 148, G: 103, B: 189, A: 255},
	}
	return palette[i%len(palette)]
}
