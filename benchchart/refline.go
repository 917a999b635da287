// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// A RefLine marks a constant x or y value, such as an L2 boundary or a
// machine peak.
type RefLine struct {
	Value float64
	Label string
	// Color overrides the default gray.
	Color color.Color
}

// refLine draws a RefLine across the full plot area. The stock
// plotter.Line would need data-space endpoints, which are unknown until
// the axes autoscale, so this implements plot.Plotter directly.
type refLine struct {
	rl       RefLine
	vertical bool
}

func (r *refLine) style() draw.LineStyle {
	c := r.rl.Color
	if c == nil {
		c = color.Gray{0x60}
	}
	return draw.LineStyle{
		Color:  c,
		Width:  vg.Points(1),
		Dashes: []vg.Length{vg.Points(6), vg.Points(3)},
	}
}

// Plot implements plot.Plotter.
func (r *refLine) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	if r.vertical {
		x := trX(r.rl.Value)
		c.StrokeLine2(r.style(), x, c.Min.Y, x, c.Max.Y)
	} else {
		y := trY(r.rl.Value)
		c.StrokeLine2(r.style(), c.Min.X, y, c.Max.X, y)
	}
}

// Thumbnail implements plot.Thumbnailer for the legend entry.
func (r *refLine) Thumbnail(c *draw.Canvas) {
	y := c.Center().Y
	c.StrokeLine2(r.style(), c.Min.X, y, c.Max.X, y)
}
