// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/plotter"
)

func TestPow2Ticks(t *testing.T) {
	ticks := pow2Ticks{}.Ticks(1024, 16384)
	var values []float64
	for _, tk := range ticks {
		values = append(values, tk.Value)
		if tk.Label == "" {
			continue
		}
	}
	want := []float64{1024, 2048, 4096, 8192, 16384}
	if len(values) != len(want) {
		t.Fatalf("ticks at %v, want %v", values, want)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("ticks at %v, want %v", values, want)
		}
	}
	if got := ticks[0].Label; got != "1K" {
		t.Errorf("label for 1024 = %q, want 1K", got)
	}
}

func TestPow2Label(t *testing.T) {
	check := func(v float64, want string) {
		t.Helper()
		if got := pow2Label(v); got != want {
			t.Errorf("pow2Label(%v) = %q, want %q", v, got, want)
		}
	}
	check(64, "64")
	check(4096, "4K")
	check(1<<21, "2M")
	check(1<<30, "1G")
}

func TestChartSave(t *testing.T) {
	dir := t.TempDir()
	c := &Chart{
		Title:  "saxpy",
		XLabel: "N",
		YLabel: "GFLOP/s",
		Log2X:  true,
		Series: []Series{
			{Label: "simd", XYs: plotter.XYs{{X: 1024, Y: 10}, {X: 2048, Y: 12}}, YErr: []float64{0.5, 0.4}},
			{Label: "scalar", XYs: plotter.XYs{{X: 1024, Y: 4}, {X: 2048, Y: 4.2}}, Dashed: true},
		},
		VLines:      []RefLine{{Value: 1536, Label: "L1"}},
		PointLabels: []PointLabel{{X: 2048, Y: 12, Text: "peak"}},
	}
	path := filepath.Join(dir, "figs", "sweep.png")
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestBarChartSave(t *testing.T) {
	dir := t.TempDir()
	b := &BarChart{
		Title:  "IOPS by block size",
		YLabel: "IOPS",
		Names:  []string{"4k", "64k", "1m"},
		Groups: []BarGroup{
			{Label: "read", Values: plotter.Values{50000, 12000, 900}},
			{Label: "write", Values: plotter.Values{45000, 11000, 800}},
		},
	}
	if err := b.Save(filepath.Join(dir, "bars.png")); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestBarChartMismatch(t *testing.T) {
	b := &BarChart{
		Names:  []string{"4k", "64k"},
		Groups: []BarGroup{{Label: "read", Values: plotter.Values{1}}},
	}
	if _, err := b.Render(); err == nil {
		t.Error("Render with mismatched group size succeeded, want error")
	}
}
