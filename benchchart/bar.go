// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

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

// A BarGroup is one legend entry of a grouped bar chart, with one value
// per nominal category.
type BarGroup struct {
	Label  string
	Values plotter.Values
}

// A BarChart draws grouped bars over nominal x categories, as the
// block-size and mix sweeps need.
type BarChart struct {
	Title  string
	XLabel string
	YLabel string
	LogY   bool

	// Names are the nominal x categories. Every group must have
	// len(Names) values.
	Names  []string
	Groups []BarGroup

	// HLines are reference lines, such as the y=1 mark on a
	// normalized chart.
	HLines []RefLine

	Width, Height vg.Length
}

// Render builds the plot.
func (b *BarChart) Render() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = b.Title
	p.X.Label.Text = b.XLabel
	p.Y.Label.Text = b.YLabel
	p.Legend.Top = true
	if b.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	w := vg.Points(18)
	n := len(b.Groups)
	for i, g := range b.Groups {
		if len(g.Values) != len(b.Names) {
			return nil, fmt.Errorf("group %q has %d values for %d categories", g.Label, len(g.Values), len(b.Names))
		}
		bars, err := plotter.NewBarChart(g.Values, w)
		if err != nil {
			return nil, err
		}
		bars.LineStyle.Width = 0
		bars.Color = plotutil.Color(i)
		bars.Offset = w * vg.Length(float64(i)-float64(n-1)/2)
		p.Add(bars)
		if g.Label != "" {
			p.Legend.Add(g.Label, bars)
		}
	}
	for _, rl := range b.HLines {
		p.Add(&refLine{rl, false})
		if rl.Label != "" {
			p.Legend.Add(rl.Label, &refLine{rl, false})
		}
	}
	p.NominalX(b.Names...)
	return p, nil
}

// Save renders the chart and writes it to path.
func (b *BarChart) Save(path string) error {
	p, err := b.Render()
	if err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	w, h := b.Width, b.Height
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
