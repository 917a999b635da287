// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// plotalign charts one kernel's sensitivity to misalignment and loop
// tails: throughput and cycles-per-element versus N for the four
// alignment/tail scenarios, plus a geometric-mean gap report against
// the aligned, tail-free baseline.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot/plotter"

	"github.com/mbsuite/benchplot/benchagg"
	"github.com/mbsuite/benchplot/benchchart"
	"github.com/mbsuite/benchplot/benchtab"
)

var alignSchema = benchtab.Schema{Columns: []benchtab.Column{
	{Name: "kernel", Required: true},
	{Name: "n", Aliases: []string{"size", "elements"}, Required: true, Numeric: true},
	{Name: "misaligned", Aliases: []string{"misalign"}},
	{Name: "tail_multiple", Aliases: []string{"tail"}},
	{Name: "gflops", Aliases: []string{"GFLOPs", "gflop/s"}, Required: true, Numeric: true},
	{Name: "cpe", Aliases: []string{"cycles_per_element"}, Numeric: true},
}}

// A scenario is one alignment/tail combination.
type scenario struct {
	mis, tail bool
}

func (s scenario) String() string {
	switch {
	case !s.mis && s.tail:
		return "aligned, multiple"
	case s.mis && s.tail:
		return "misaligned"
	case !s.mis && !s.tail:
		return "tail"
	}
	return "misaligned+tail"
}

var scenarios = []scenario{
	{false, true},  // baseline
	{true, true},   // misaligned only
	{false, false}, // tail only
	{true, false},  // combined
}

type cell struct {
	gflops, cpe benchagg.Summary
}

func main() {
	log.SetPrefix("plotalign: ")
	log.SetFlags(0)

	csvPath := flag.String("csv", "", "results CSV (required)")
	kernel := flag.String("kernel", "", "kernel to plot (default: first in file)")
	outdir := flag.String("outdir", "plots", "output directory")
	k := flag.Int("k", 5, "trials trimmed from each tail per configuration")
	flag.Parse()
	if *csvPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	rows, err := benchtab.ReadFile(*csvPath, alignSchema)
	if err != nil {
		log.Fatal(err)
	}
	if *kernel == "" && len(rows) > 0 {
		*kernel = rows[0].Str("kernel")
	}
	kept := rows[:0]
	for _, r := range rows {
		if r.Str("kernel") == *kernel {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		log.Fatalf("no rows for kernel %q", *kernel)
	}

	cells := scenarioCells(kept, *k)

	if err := os.MkdirAll(*outdir, 0777); err != nil {
		log.Fatal(err)
	}
	plotMetric(*outdir, *kernel, "gflops", "GFLOP/s", cells, func(c cell) benchagg.Summary { return c.gflops })
	plotMetric(*outdir, *kernel, "cpe", "cycles / element", cells, func(c cell) benchagg.Summary { return c.cpe })
	writeReport(filepath.Join(*outdir, "alignment_report.txt"), *kernel, cells)
}

// scenarioCells aggregates trials into cells[sc][n], one trimmed
// summary per scenario and size. Scenario membership goes through Bool,
// so "1" and "True" spellings of the flag columns land in the same
// cell.
func scenarioCells(rows []benchtab.Row, k int) map[scenario]map[float64]cell {
	type trials struct {
		gflops, cpe []float64
	}
	acc := make(map[scenario]map[float64]*trials)
	bad := 0
	for _, row := range rows {
		mis, _ := row.Bool("misaligned")
		tail, _ := row.Bool("tail_multiple")
		n, err := row.Num("n")
		if err != nil {
			bad++
			continue
		}
		sc := scenario{mis, tail}
		if acc[sc] == nil {
			acc[sc] = make(map[float64]*trials)
		}
		tl := acc[sc][n]
		if tl == nil {
			tl = new(trials)
			acc[sc][n] = tl
		}
		if v, err := row.Num("gflops"); err == nil && !math.IsNaN(v) {
			tl.gflops = append(tl.gflops, v)
		} else {
			bad++
		}
		if v, err := row.Num("cpe"); err == nil && !math.IsNaN(v) {
			tl.cpe = append(tl.cpe, v)
		}
	}
	if bad > 0 {
		fmt.Fprintf(os.Stderr, "plotalign: dropped %d malformed values\n", bad)
	}

	cells := make(map[scenario]map[float64]cell)
	for _, sc := range scenarios {
		cells[sc] = make(map[float64]cell)
	}
	for sc, byN := range acc {
		for n, tl := range byN {
			cells[sc][n] = cell{
				gflops: trimFor(len(tl.gflops), k).Aggregate(tl.gflops),
				cpe:    trimFor(len(tl.cpe), k).Aggregate(tl.cpe),
			}
		}
	}
	return cells
}

// trimFor picks the per-tail trim count. With fewer than 2k trials the
// fixed count would eat most of the data, so it degrades to a tenth per
// tail.
func trimFor(n, k int) benchagg.Trim {
	if n < 2*k {
		k = n / 10
	}
	return benchagg.TrimCount(k, 0)
}

func plotMetric(outdir, kernel, name, ylabel string, cells map[scenario]map[float64]cell, metric func(cell) benchagg.Summary) {
	var series []benchchart.Series
	for _, sc := range scenarios {
		byN := cells[sc]
		var ns []float64
		for n := range byN {
			ns = append(ns, n)
		}
		sort.Float64s(ns)
		var xys plotter.XYs
		var errs []float64
		for _, n := range ns {
			s := metric(byN[n])
			if !s.Defined() {
				continue
			}
			xys = append(xys, plotter.XY{X: n, Y: s.Mean})
			errs = append(errs, s.Std)
		}
		if len(xys) == 0 {
			continue
		}
		series = append(series, benchchart.Series{
			Label:  sc.String(),
			XYs:    xys,
			YErr:   errs,
			Dashed: sc == scenarios[0],
		})
	}
	if len(series) == 0 {
		return
	}
	path := filepath.Join(outdir, "plot_alignment_"+name+".png")
	c := &benchchart.Chart{
		Title:  kernel,
		XLabel: "N (elements)",
		YLabel: ylabel,
		Log2X:  true,
		Series: series,
	}
	if err := c.Save(path); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("[saved] %s\n", path)
}

// writeReport summarizes each scenario's throughput gap against the
// aligned, tail-free baseline as a geometric mean over common sizes.
func writeReport(path, kernel string, cells map[scenario]map[float64]cell) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	base := curve(cells[scenarios[0]])
	fmt.Fprintf(f, "kernel: %s\nbaseline: %s\n\n", kernel, scenarios[0])
	for _, sc := range scenarios[1:] {
		ratio, err := benchagg.GeoMeanRatio(base, curve(cells[sc]))
		if err != nil || math.IsNaN(ratio) {
			fmt.Fprintf(f, "%-16s not enough data\n", sc.String()+":")
			continue
		}
		fmt.Fprintf(f, "%-16s %.3fx of baseline throughput (geomean over common N)\n", sc.String()+":", ratio)
	}
	fmt.Printf("[saved] %s\n", path)
}

func curve(byN map[float64]cell) map[int]float64 {
	out := make(map[int]float64, len(byN))
	for n, c := range byN {
		if c.gflops.Defined() {
			out[int(n)] = c.gflops.Mean
		}
	}
	return out
}
