// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// plotstride charts memory access pattern sweeps: bandwidth,
// cycles-per-element, and throughput versus stride at one working-set
// size, one line per access pattern and mode.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/plot/plotter"

	"github.com/mbsuite/benchplot/benchagg"
	"github.com/mbsuite/benchplot/benchchart"
	"github.com/mbsuite/benchplot/benchtab"
)

var strideSchema = benchtab.Schema{Columns: []benchtab.Column{
	{Name: "kernel"},
	{Name: "mode", Aliases: []string{"variant"}, Required: true},
	{Name: "access", Aliases: []string{"pattern", "access_pattern"}, Required: true},
	{Name: "stride", Required: true, Numeric: true},
	{Name: "n", Aliases: []string{"size", "elements"}, Required: true, Numeric: true},
	{Name: "gibps", Aliases: []string{"GiB/s", "gib_per_s", "bandwidth_gibps"}, Numeric: true},
	{Name: "cpe", Aliases: []string{"cycles_per_element"}, Numeric: true},
	{Name: "gflops", Aliases: []string{"GFLOPs"}, Numeric: true},
}}

var metrics = []struct {
	col, label string
}{
	{"gibps", "GiB/s"},
	{"cpe", "cycles / element"},
	{"gflops", "GFLOP/s"},
}

func main() {
	log.SetPrefix("plotstride: ")
	log.SetFlags(0)

	csvPath := flag.String("csv", "", "results CSV (required)")
	nSel := flag.Float64("n", 0, "working-set size to plot (default: largest; snapped to nearest available)")
	kernel := flag.String("kernel", "", "restrict to one kernel")
	outdir := flag.String("outdir", "plots", "output directory")
	flag.Parse()
	if *csvPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	rows, err := benchtab.ReadFile(*csvPath, strideSchema)
	if err != nil {
		log.Fatal(err)
	}
	if *kernel != "" {
		kept := rows[:0]
		for _, r := range rows {
			if r.Str("kernel") == *kernel {
				kept = append(kept, r)
			}
		}
		rows = kept
	}
	if len(rows) == 0 {
		log.Fatal("no rows after filtering")
	}

	n := pickN(rows, *nSel)
	kept := rows[:0]
	for _, r := range rows {
		if v, err := r.Num("n"); err == nil && v == n {
			kept = append(kept, r)
		}
	}

	if err := os.MkdirAll(*outdir, 0777); err != nil {
		log.Fatal(err)
	}
	groups := benchtab.GroupBy(kept, "mode", "access", "stride")
	for _, m := range metrics {
		plotMetric(*outdir, m.col, m.label, n, groups)
	}
}

// pickN snaps the requested size to the nearest one present, or picks
// the largest when none was requested.
func pickN(rows []benchtab.Row, want float64) float64 {
	best, bestDist := math.NaN(), math.Inf(1)
	for _, r := range rows {
		v, err := r.Num("n")
		if err != nil {
			continue
		}
		if want == 0 {
			if math.IsNaN(best) || v > best {
				best = v
			}
			continue
		}
		if d := math.Abs(v - want); d < bestDist {
			best, bestDist = v, d
		}
	}
	if want != 0 && best != want {
		fmt.Fprintf(os.Stderr, "plotstride: no data at n=%g, using nearest n=%g\n", want, best)
	}
	return best
}

func plotMetric(outdir, col, label string, n float64, groups []benchtab.Group) {
	// curves[access/mode] accumulates stride -> mean metric.
	type point struct{ stride, mean float64 }
	curves := make(map[string][]point)
	for i := range groups {
		g := &groups[i]
		vals, bad := g.Column(col)
		if bad > 0 {
			fmt.Fprintf(os.Stderr, "plotstride: %s: dropped %d malformed %s values\n", g.Key, bad, col)
		}
		s := benchagg.MeanStd(vals)
		if !s.Defined() {
			continue
		}
		stride, err := g.Key.Num("stride")
		if err != nil {
			continue
		}
		key := g.Key.Get("access") + "/" + g.Key.Get("mode")
		curves[key] = append(curves[key], point{stride, s.Mean})
	}
	if len(curves) == 0 {
		fmt.Fprintf(os.Stderr, "plotstride: no %s data, skipping chart\n", col)
		return
	}

	var labels []string
	for k := range curves {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	var series []benchchart.Series
	for _, k := range labels {
		pts := curves[k]
		sort.Slice(pts, func(i, j int) bool { return pts[i].stride < pts[j].stride })
		xys := make(plotter.XYs, len(pts))
		for i, p := range pts {
			xys[i] = plotter.XY{X: p.stride, Y: p.mean}
		}
		series = append(series, benchchart.Series{
			Label:  k,
			XYs:    xys,
			Dashed: strings.HasSuffix(k, "/scalar") || strings.HasSuffix(k, "/Scalar"),
		})
	}

	path := filepath.Join(outdir, fmt.Sprintf("stride_%s.png", col))
	c := &benchchart.Chart{
		Title:  fmt.Sprintf("n=%g", n),
		XLabel: "stride (elements)",
		YLabel: label,
		Log2X:  true,
		Series: series,
	}
	if err := c.Save(path); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("[saved] %s\n", path)
}
