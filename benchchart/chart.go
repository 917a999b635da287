// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchchart renders benchmark sweep results as PNG charts.
//
// It wraps gonum.org/v1/plot with the handful of chart shapes the
// plotting commands share: multi-series lines with optional error bars
// on linear or logarithmic axes, reference lines marking peaks and
// knees, and grouped bar charts over nominal categories.
package benchchart

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// A Series is one plotted line or point set.
type Series struct {
	Label string
	XYs   plotter.XYs

	// YErr and XErr give symmetric error bar half-widths, one per
	// point. Empty means no error bars.
	YErr []float64
	XErr []float64

	// YErrLow and YErrHigh give asymmetric error bar extents below
	// and above each point, as quantile bands need. They take
	// precedence over YErr.
	YErrLow  []float64
	YErrHigh []float64

	// Dashed draws the line dashed. Baseline series use this.
	Dashed bool

	// NoLine plots markers only.
	NoLine bool
}

// A Chart is one figure to render.
type Chart struct {
	Title  string
	XLabel string
	YLabel string

	// LogX and LogY select logarithmic axes. Log2X additionally
	// ticks the X axis at powers of two, which suits size and
	// stride sweeps.
	LogX  bool
	LogY  bool
	Log2X bool

	Series []Series

	// VLines and HLines are reference lines drawn across the plot
	// area, such as cache-level boundaries or a roofline peak.
	VLines []RefLine
	HLines []RefLine

	// PointLabels annotates individual points with text.
	PointLabels []PointLabel

	// Width and Height override the default 8in x 5in canvas.
	Width, Height vg.Length
}

// A PointLabel is a text annotation at a data coordinate.
type PointLabel struct {
	X, Y float64
	Text string
}

// Render builds the plot without writing it.
func (c *Chart) Render() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true

	if c.LogX || c.Log2X {
		p.X.Scale = plot.LogScale{}
		if c.Log2X {
			p.X.Tick.Marker = pow2Ticks{}
		} else {
			p.X.Tick.Marker = plot.LogTicks{Prec: -1}
		}
	}
	if c.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	grid := plotter.NewGrid()
	p.Add(grid)

	for i, s := range c.Series {
		if len(s.XYs) == 0 {
			continue
		}
		color := plotutil.Color(i)

		if !s.NoLine {
			l, err := plotter.NewLine(s.XYs)
			if err != nil {
				return nil, err
			}
			l.Color = color
			if s.Dashed {
				l.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
			}
			p.Add(l)
			if s.Label != "" {
				p.Legend.Add(s.Label, l)
			}
		}

		sc, err := plotter.NewScatter(s.XYs)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = color
		sc.GlyphStyle.Shape = plotutil.Shape(i)
		p.Add(sc)
		if s.NoLine && s.Label != "" {
			p.Legend.Add(s.Label, sc)
		}

		if len(s.YErrLow) == len(s.XYs) && len(s.YErrLow) > 0 && len(s.YErrHigh) == len(s.XYs) {
			eb, err := plotter.NewYErrorBars(asymYerrs{s.XYs, s.YErrLow, s.YErrHigh})
			if err != nil {
				return nil, err
			}
			eb.Color = color
			p.Add(eb)
		} else if len(s.YErr) == len(s.XYs) && len(s.YErr) > 0 {
			eb, err := plotter.NewYErrorBars(yerrs{s.XYs, s.YErr})
			if err != nil {
				return nil, err
			}
			eb.Color = color
			p.Add(eb)
		}
		if len(s.XErr) == len(s.XYs) && len(s.XErr) > 0 {
			eb, err := plotter.NewXErrorBars(xerrs{s.XYs, s.XErr})
			if err != nil {
				return nil, err
			}
			eb.Color = color
			p.Add(eb)
		}
	}

	for _, rl := range c.VLines {
		p.Add(&refLine{rl, true})
		if rl.Label != "" {
			p.Legend.Add(rl.Label, &refLine{rl, true})
		}
	}
	for _, rl := range c.HLines {
		p.Add(&refLine{rl, false})
		if rl.Label != "" {
			p.Legend.Add(rl.Label, &refLine{rl, false})
		}
	}

	if len(c.PointLabels) > 0 {
		xys := make(plotter.XYs, len(c.PointLabels))
		texts := make([]string, len(c.PointLabels))
		for i, pl := range c.PointLabels {
			xys[i] = plotter.XY{X: pl.X, Y: pl.Y}
			texts[i] = pl.Text
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return nil, err
		}
		labels.Offset = vg.Point{X: vg.Points(4), Y: vg.Points(4)}
		p.Add(labels)
	}

	return p, nil
}

// Save renders the chart and writes it to path. The image format
// follows the file extension; the commands use .png. Parent directories
// are created as needed.
func (c *Chart) Save(path string) error {
	p, err := c.Render()
	if err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	w, h := c.Width, c.Height
	if w == 0 {
		w = 8 * vg.Inch
	}
	if h == 0 {
		h = 5 * vg.Inch
	}
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return err
	}
	return p.Save(w, h, path)
}

// yerrs adapts a point set with per-point half-widths to the
// interface plotter.NewYErrorBars wants.
type yerrs struct {
	plotter.XYs
	errs []float64
}

func (y yerrs) YError(i int) (float64, float64) {
	return y.errs[i], y.errs[i]
}

type xerrs struct {
	plotter.XYs
	errs []float64
}

func (x xerrs) XError(i int) (float64, float64) {
	return x.errs[i], x.errs[i]
}

type asymYerrs struct {
	plotter.XYs
	low, high []float64
}

func (y asymYerrs) YError(i int) (float64, float64) {
	return y.low[i], y.high[i]
}
