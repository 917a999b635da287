// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// roofline places one kernel's measured throughput on a roofline chart
// bounded by the machine's peak compute and memory bandwidth. The
// machine parameters are flags rather than baked-in constants, so the
// same binary serves any host.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot/plotter"

	"github.com/mbsuite/benchplot/benchagg"
	"github.com/mbsuite/benchplot/benchchart"
	"github.com/mbsuite/benchplot/benchtab"
)

var rooflineSchema = benchtab.Schema{Columns: []benchtab.Column{
	{Name: "kernel", Required: true},
	{Name: "dtype", Required: true},
	{Name: "n", Aliases: []string{"size", "elements"}, Required: true, Numeric: true},
	{Name: "misaligned", Aliases: []string{"misalign"}},
	{Name: "tail_multiple", Aliases: []string{"tail"}},
	{Name: "gflops", Aliases: []string{"GFLOPs", "gflop/s"}, Required: true, Numeric: true},
	{Name: "cpe", Aliases: []string{"cycles_per_element"}, Numeric: true},
}}

func main() {
	log.SetPrefix("roofline: ")
	log.SetFlags(0)

	csvPath := flag.String("csv", "", "results CSV (required)")
	kernel := flag.String("kernel", "saxpy", "kernel to place on the roofline")
	dtype := flag.String("dtype", "f32", "dtype to place on the roofline")
	membw := flag.Float64("membw", 0, "sustained memory bandwidth, GB/s (required)")
	peak := flag.Float64("peak", 0, "peak compute throughput, GFLOP/s (required)")
	ai := flag.Float64("ai", 2.0/12.0, "kernel arithmetic intensity, FLOPs/byte")
	freq := flag.Float64("freq", 0, "core frequency, Hz (enables the intensity chart)")
	bytesPerFlop := flag.Float64("bytes-per-flop", 0, "bytes moved per FLOP (with -freq)")
	outdir := flag.String("outdir", "plots", "output directory")
	flag.Parse()
	if *csvPath == "" || *membw == 0 || *peak == 0 {
		fmt.Fprintln(flag.CommandLine.Output(), "roofline: -csv, -membw, and -peak are required")
		flag.Usage()
		os.Exit(2)
	}

	rows, err := benchtab.ReadFile(*csvPath, rooflineSchema)
	if err != nil {
		log.Fatal(err)
	}
	kept := rows[:0]
	for _, r := range rows {
		mis, _ := r.Bool("misaligned")
		tail := true
		if r.Has("tail_multiple") {
			tail, _ = r.Bool("tail_multiple")
		}
		if r.Str("kernel") == *kernel && r.Str("dtype") == *dtype && !mis && tail {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		log.Fatalf("no aligned %s/%s rows in input", *kernel, *dtype)
	}

	type sized struct {
		n           float64
		gflops, cpe benchagg.Summary
	}
	var cells []sized
	for _, g := range benchtab.GroupBy(kept, "n") {
		gf, bad := g.Column("gflops")
		if bad > 0 {
			fmt.Fprintf(os.Stderr, "roofline: %s: dropped %d malformed gflops values\n", g.Key, bad)
		}
		s := benchagg.MeanStd(gf)
		if !s.Defined() {
			continue
		}
		n, err := g.Key.Num("n")
		if err != nil {
			continue
		}
		cpe, _ := g.Column("cpe")
		cells = append(cells, sized{n, s, benchagg.MeanStd(cpe)})
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].n < cells[j].n })

	if err := os.MkdirAll(*outdir, 0777); err != nil {
		log.Fatal(err)
	}

	// Measured points all sit at the kernel's arithmetic intensity;
	// what varies with N is how close they come to the roofs.
	var xys plotter.XYs
	var labels []benchchart.PointLabel
	for _, c := range cells {
		xys = append(xys, plotter.XY{X: *ai, Y: c.gflops.Mean})
		labels = append(labels, benchchart.PointLabel{X: *ai, Y: c.gflops.Mean, Text: fmt.Sprintf("N=%g", c.n)})
	}
	memRoof := *ai * *membw
	chart := &benchchart.Chart{
		Title:  fmt.Sprintf("%s/%s roofline", *kernel, *dtype),
		XLabel: "arithmetic intensity (FLOPs/byte)",
		YLabel: "GFLOP/s",
		LogX:   true,
		LogY:   true,
		Series: []benchchart.Series{{Label: "measured", XYs: xys, NoLine: true}},
		HLines: []benchchart.RefLine{
			{Value: *peak, Label: fmt.Sprintf("compute roof (%.0f GFLOP/s)", *peak)},
			{Value: memRoof, Label: fmt.Sprintf("memory roof (%.1f GFLOP/s)", memRoof)},
		},
		PointLabels: labels,
	}
	save(chart, filepath.Join(*outdir, "roofline_"+*kernel+".png"))

	if *freq > 0 {
		if *bytesPerFlop <= 0 {
			fmt.Fprintln(os.Stderr, "roofline: -freq given without -bytes-per-flop, skipping intensity chart")
			return
		}
		var pts plotter.XYs
		var errs []float64
		var ilabels []benchchart.PointLabel
		for _, c := range cells {
			if !c.cpe.Defined() {
				continue
			}
			bw := benchagg.BandwidthMBps(c.gflops.Mean, *bytesPerFlop)
			lat := benchagg.LatencyNS(c.cpe.Mean, *freq)
			pts = append(pts, plotter.XY{X: bw, Y: lat})
			errs = append(errs, benchagg.LatencyNS(c.cpe.Std, *freq))
			ilabels = append(ilabels, benchchart.PointLabel{X: bw, Y: lat, Text: fmt.Sprintf("N=%g", c.n)})
		}
		if len(pts) == 0 {
			fmt.Fprintln(os.Stderr, "roofline: no cpe data, skipping intensity chart")
			return
		}
		save(&benchchart.Chart{
			Title:       fmt.Sprintf("%s/%s intensity", *kernel, *dtype),
			XLabel:      "bandwidth (MB/s)",
			YLabel:      "latency (ns/element)",
			Series:      []benchchart.Series{{Label: "measured", XYs: pts, YErr: errs}},
			PointLabels: ilabels,
		}, filepath.Join(*outdir, "intensity_"+*kernel+".png"))
	}
}

func save(c *benchchart.Chart, path string) {
	if err := c.Save(path); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("[saved] %s\n", path)
}
