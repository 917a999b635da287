// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// plotmem charts pointer-chase memory hierarchy sweeps: latency and
// bandwidth versus working-set size per read/write mix, the throughput
// gap to each mix's peak, and a latency-versus-gap intensity curve with
// its knee marked. An optional second CSV adds per-pattern stride
// charts.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/plot/plotter"

	"github.com/mbsuite/benchplot/benchagg"
	"github.com/mbsuite/benchplot/benchchart"
	"github.com/mbsuite/benchplot/benchtab"
)

var memSchema = benchtab.Schema{Columns: []benchtab.Column{
	{Name: "rw_mix", Aliases: []string{"mix"}, Required: true},
	{Name: "size", Aliases: []string{"size_kib", "working_set_kib"}, Required: true, Numeric: true},
	{Name: "latency_ns", Aliases: []string{"latency"}, Required: true, Numeric: true},
	{Name: "bandwidth_mbps", Aliases: []string{"mbps", "bandwidth"}, Required: true, Numeric: true},
}}

var patternSchema = benchtab.Schema{Columns: []benchtab.Column{
	{Name: "pattern", Required: true},
	{Name: "mix", Aliases: []string{"rw_mix"}, Required: true},
	{Name: "stride_b", Aliases: []string{"stride"}, Required: true, Numeric: true},
	{Name: "mbps", Aliases: []string{"bandwidth_mbps"}, Required: true, Numeric: true},
}}

// A memCell is one (mix, size) aggregate.
type memCell struct {
	size      float64
	latency   benchagg.Summary
	bandwidth benchagg.Summary
}

func main() {
	log.SetPrefix("plotmem: ")
	log.SetFlags(0)

	csvPath := flag.String("csv", "", "pointer-chase results CSV (required)")
	outdir := flag.String("outdir", "plots", "output directory")
	kneeMix := flag.String("mix", "r50w50", "mix for the intensity knee chart")
	levels := flag.String("levels", "", "cache boundaries in KiB, as L1=32,L2=256,...")
	patterns := flag.String("patterns", "", "optional per-pattern stride CSV")
	flag.Parse()
	if *csvPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	vlines, err := parseLevels(*levels)
	if err != nil {
		log.Fatal(err)
	}

	rows, err := benchtab.ReadFile(*csvPath, memSchema)
	if err != nil {
		log.Fatal(err)
	}

	// The sweeps occasionally catch a scheduling hiccup that inflates
	// a trial, so the two largest samples are dropped per group.
	tr := benchagg.Trim{KHigh: 2, MinSamples: 3}
	byMix := make(map[string][]memCell)
	for _, g := range benchtab.GroupBy(rows, "rw_mix", "size") {
		lat, badL := g.Column("latency_ns")
		bw, badB := g.Column("bandwidth_mbps")
		if badL+badB > 0 {
			fmt.Fprintf(os.Stderr, "plotmem: %s: dropped %d malformed values\n", g.Key, badL+badB)
		}
		latS := tr.Aggregate(lat)
		bwS := tr.Aggregate(bw)
		if !latS.Defined() && !bwS.Defined() {
			continue
		}
		size, err := g.Key.Num("size")
		if err != nil {
			continue
		}
		mix := g.Key.Get("rw_mix")
		byMix[mix] = append(byMix[mix], memCell{size, latS, bwS})
	}
	if len(byMix) == 0 {
		log.Fatal("no usable groups in input")
	}
	for _, cells := range byMix {
		sort.Slice(cells, func(i, j int) bool { return cells[i].size < cells[j].size })
	}

	if err := os.MkdirAll(*outdir, 0777); err != nil {
		log.Fatal(err)
	}

	plotCombined(*outdir, "combined_latency.png", "latency (ns)", byMix, vlines,
		func(c memCell) benchagg.Summary { return c.latency })
	plotCombined(*outdir, "combined_bandwidth.png", "bandwidth (MB/s)", byMix, vlines,
		func(c memCell) benchagg.Summary { return c.bandwidth })
	plotGap(*outdir, byMix, vlines)
	plotKnee(*outdir, *kneeMix, byMix)

	if *patterns != "" {
		plotPatterns(*outdir, *patterns)
	}
}

func mixes(byMix map[string][]memCell) []string {
	var out []string
	for m := range byMix {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func plotCombined(outdir, name, ylabel string, byMix map[string][]memCell, vlines []benchchart.RefLine, metric func(memCell) benchagg.Summary) {
	var series []benchchart.Series
	for _, mix := range mixes(byMix) {
		var xys plotter.XYs
		var errs []float64
		for _, c := range byMix[mix] {
			s := metric(c)
			if !s.Defined() {
				continue
			}
			xys = append(xys, plotter.XY{X: c.size, Y: s.Mean})
			errs = append(errs, s.Std)
		}
		if len(xys) == 0 {
			continue
		}
		series = append(series, benchchart.Series{Label: mix, XYs: xys, YErr: errs})
	}
	if len(series) == 0 {
		return
	}
	save(&benchchart.Chart{
		XLabel: "working set (KiB)",
		YLabel: ylabel,
		Log2X:  true,
		Series: series,
		VLines: vlines,
	}, filepath.Join(outdir, name))
}

// plotGap charts each mix's shortfall from its own peak bandwidth.
func plotGap(outdir string, byMix map[string][]memCell, vlines []benchchart.RefLine) {
	var series []benchchart.Series
	for _, mix := range mixes(byMix) {
		peak := 0.0
		for _, c := range byMix[mix] {
			if c.bandwidth.Defined() && c.bandwidth.Mean > peak {
				peak = c.bandwidth.Mean
			}
		}
		var xys plotter.XYs
		for _, c := range byMix[mix] {
			if c.bandwidth.Defined() {
				xys = append(xys, plotter.XY{X: c.size, Y: peak - c.bandwidth.Mean})
			}
		}
		if len(xys) == 0 {
			continue
		}
		series = append(series, benchchart.Series{Label: mix, XYs: xys})
	}
	if len(series) == 0 {
		return
	}
	save(&benchchart.Chart{
		XLabel: "working set (KiB)",
		YLabel: "throughput gap (MB/s)",
		Log2X:  true,
		Series: series,
		VLines: vlines,
	}, filepath.Join(outdir, "combined_throughput_gap.png"))
}

// plotKnee charts latency against throughput gap for one mix and marks
// the knee of the curve.
func plotKnee(outdir, mix string, byMix map[string][]memCell) {
	cells := byMix[mix]
	if len(cells) == 0 {
		fmt.Fprintf(os.Stderr, "plotmem: no data for mix %q, skipping knee chart\n", mix)
		return
	}
	peak := 0.0
	for _, c := range cells {
		if c.bandwidth.Defined() && c.bandwidth.Mean > peak {
			peak = c.bandwidth.Mean
		}
	}
	var xs, ys []float64
	var labels []benchchart.PointLabel
	for _, c := range cells {
		if !c.bandwidth.Defined() || !c.latency.Defined() {
			continue
		}
		gap := peak - c.bandwidth.Mean
		xs = append(xs, gap)
		ys = append(ys, c.latency.Mean)
		labels = append(labels, benchchart.PointLabel{X: gap, Y: c.latency.Mean, Text: fmt.Sprintf("%gK", c.size)})
	}
	if len(xs) == 0 {
		return
	}

	xys := make(plotter.XYs, len(xs))
	for i := range xs {
		xys[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	chart := &benchchart.Chart{
		Title:       mix,
		XLabel:      "throughput gap (MB/s)",
		YLabel:      "latency (ns)",
		Series:      []benchchart.Series{{Label: mix, XYs: xys}},
		PointLabels: labels,
	}
	if knee := benchagg.Knee(xs, ys); knee >= 0 {
		chart.VLines = append(chart.VLines, benchchart.RefLine{Value: xs[knee], Label: "knee"})
	}
	save(chart, filepath.Join(outdir, "intensity_knee.png"))
}

func plotPatterns(outdir, path string) {
	rows, err := benchtab.ReadFile(path, patternSchema)
	if err != nil {
		log.Fatal(err)
	}
	byPattern := make(map[string][]benchtab.Row)
	for _, r := range rows {
		p := r.Str("pattern")
		byPattern[p] = append(byPattern[p], r)
	}
	var names []string
	for p := range byPattern {
		names = append(names, p)
	}
	sort.Strings(names)

	for _, p := range names {
		var series []benchchart.Series
		for _, g := range benchtab.GroupBy(byPattern[p], "mix") {
			type point struct{ stride, mean float64 }
			var pts []point
			for _, sg := range benchtab.GroupBy(g.Rows, "stride_b") {
				vals, _ := sg.Column("mbps")
				s := benchagg.MeanStd(vals)
				stride, err := sg.Key.Num("stride_b")
				if err != nil || !s.Defined() {
					continue
				}
				pts = append(pts, point{stride, s.Mean})
			}
			sort.Slice(pts, func(i, j int) bool { return pts[i].stride < pts[j].stride })
			xys := make(plotter.XYs, len(pts))
			for i, pt := range pts {
				xys[i] = plotter.XY{X: pt.stride, Y: pt.mean}
			}
			if len(xys) > 0 {
				series = append(series, benchchart.Series{Label: g.Key.Get("mix"), XYs: xys})
			}
		}
		if len(series) == 0 {
			continue
		}
		save(&benchchart.Chart{
			Title:  p,
			XLabel: "stride (bytes)",
			YLabel: "bandwidth (MB/s)",
			Log2X:  true,
			Series: series,
		}, filepath.Join(outdir, "MBps_"+p+".png"))
	}
}

// parseLevels parses "L1=32,L2=256" (KiB) into labeled vertical lines.
func parseLevels(s string) ([]benchchart.RefLine, error) {
	if s == "" {
		return nil, nil
	}
	var lines []benchchart.RefLine
	for _, part := range strings.Split(s, ",") {
		name, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("malformed level %q, want name=KiB", part)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed level %q: %v", part, err)
		}
		lines = append(lines, benchchart.RefLine{Value: v, Label: name})
	}
	return lines, nil
}

func save(c *benchchart.Chart, path string) {
	if err := c.Save(path); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("[saved] %s\n", path)
}
