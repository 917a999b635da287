// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// fioplot charts fio sweep results: IOPS, bandwidth, and latency versus
// block size; the queue-depth throughput/latency trade-off with its
// knee; and read/write mix comparisons. Sweep files are recognized by
// their names, such as bs_rand_4k_read_r1.json or qd_rand_4k_qd8_r2.json.
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
	"github.com/mbsuite/benchplot/fiojson"
)

func main() {
	log.SetPrefix("fioplot: ")
	log.SetFlags(0)

	results := flag.String("results", "", "directory of fio JSON results (required)")
	outdir := flag.String("outdir", "figs", "output directory")
	sweep := flag.String("sweep", "bs", "sweep to plot: bs, qd, or mix")
	flag.Parse()
	if *results == "" {
		flag.Usage()
		os.Exit(2)
	}

	warn := func(err error) { fmt.Fprintf(os.Stderr, "fioplot: %v\n", err) }
	switch *sweep {
	case "bs":
		plotBS(*results, *outdir, warn)
	case "qd":
		plotQD(*results, *outdir, warn)
	case "mix":
		plotMix(*results, *outdir, warn)
	default:
		log.Fatalf("unknown sweep %q, want bs, qd, or mix", *sweep)
	}
}

// A sample set accumulates one metric's values across runs.
type samples map[string]map[float64][]float64

func (s samples) add(series string, x, v float64) {
	if math.IsNaN(v) {
		return
	}
	if s[series] == nil {
		s[series] = make(map[float64][]float64)
	}
	s[series][x] = append(s[series][x], v)
}

// series flattens one series into sorted points with mean and std.
func (s samples) series(name string) (plotter.XYs, []float64) {
	byX := s[name]
	var xs []float64
	for x := range byX {
		xs = append(xs, x)
	}
	sort.Float64s(xs)
	var xys plotter.XYs
	var errs []float64
	for _, x := range xs {
		sum := benchagg.MeanStd(byX[x])
		if !sum.Defined() {
			continue
		}
		xys = append(xys, plotter.XY{X: x, Y: sum.Mean})
		errs = append(errs, sum.Std)
	}
	return xys, errs
}

func (s samples) names() []string {
	var out []string
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s samples) charts(title, xlabel, ylabel string, log2x bool) *benchchart.Chart {
	c := &benchchart.Chart{Title: title, XLabel: xlabel, YLabel: ylabel, Log2X: log2x}
	for _, name := range s.names() {
		xys, errs := s.series(name)
		if len(xys) == 0 {
			continue
		}
		c.Series = append(c.Series, benchchart.Series{Label: name, XYs: xys, YErr: errs})
	}
	return c
}

func plotBS(results, outdir string, warn func(error)) {
	reports, err := fiojson.LoadDir(results, "bs_*.json", warn)
	if err != nil {
		log.Fatal(err)
	}
	if len(reports) == 0 {
		// Nothing to do; the sweep was not run.
		return
	}

	iops := samples{}
	mbps := samples{}
	lat := samples{}
	for name, r := range reports {
		pattern, okP := fiojson.Param(name, "rand", "seq")
		dir, okD := fiojson.Param(name, "read", "write")
		tok, okB := fiojson.BlockSize(name)
		if !okP || !okD || !okB {
			warn(fmt.Errorf("%s: unrecognized block-size sweep name", name))
			continue
		}
		bytes, err := fiojson.BlockSizeBytes(tok)
		if err != nil {
			warn(fmt.Errorf("%s: %v", name, err))
			continue
		}
		job := r.Jobs[0]
		d := job.Read
		if dir == "write" {
			d = job.Write
		}
		key := pattern + " " + dir
		iops.add(key, float64(bytes), d.IOPS)
		mbps.add(key, float64(bytes), d.BandwidthMBps())
		lat.add(key, float64(bytes), fiojson.WeightedLatencyUS(job))
	}

	save(iops.charts("", "block size (bytes)", "IOPS", true), filepath.Join(outdir, "iops_vs_bs.png"))
	save(mbps.charts("", "block size (bytes)", "MB/s", true), filepath.Join(outdir, "mbps_vs_bs.png"))
	save(lat.charts("", "block size (bytes)", "latency (us)", true), filepath.Join(outdir, "latency_vs_bs.png"))
}

func plotQD(results, outdir string, warn func(error)) {
	reports, err := fiojson.LoadDir(results, "qd_*.json", warn)
	if err != nil {
		log.Fatal(err)
	}
	if len(reports) == 0 {
		return
	}

	bw := make(map[int][]float64)
	lat := make(map[int][]float64)
	for name, r := range reports {
		qd, ok := fiojson.IntParam(name, "qd")
		if !ok {
			warn(fmt.Errorf("%s: no qd parameter in name", name))
			continue
		}
		job := r.Jobs[0]
		bw[qd] = append(bw[qd], job.Read.BandwidthMBps()+job.Write.BandwidthMBps())
		if l := fiojson.WeightedLatencyUS(job); !math.IsNaN(l) {
			lat[qd] = append(lat[qd], l)
		}
	}

	var qds []int
	for qd := range bw {
		qds = append(qds, qd)
	}
	sort.Ints(qds)

	var xys plotter.XYs
	var xerr, yerr, xs, ys []float64
	var kneeQDs []int
	var labels []benchchart.PointLabel
	for _, qd := range qds {
		b := benchagg.MeanStd(bw[qd])
		l := benchagg.MeanStd(lat[qd])
		if !b.Defined() || !l.Defined() {
			continue
		}
		xys = append(xys, plotter.XY{X: b.Mean, Y: l.Mean})
		xerr = append(xerr, b.Std)
		yerr = append(yerr, l.Std)
		xs = append(xs, b.Mean)
		ys = append(ys, l.Mean)
		kneeQDs = append(kneeQDs, qd)
		labels = append(labels, benchchart.PointLabel{X: b.Mean, Y: l.Mean, Text: fmt.Sprintf("QD%d", qd)})
	}
	if len(xys) == 0 {
		return
	}

	chart := &benchchart.Chart{
		XLabel:      "throughput (MB/s)",
		YLabel:      "latency (us)",
		Series:      []benchchart.Series{{Label: "queue depth sweep", XYs: xys, XErr: xerr, YErr: yerr}},
		PointLabels: labels,
	}
	save(chart, filepath.Join(outdir, "qd_tradeoff_curve.png"))

	// The knee is where added depth stops buying throughput and
	// starts costing latency.
	knee := benchagg.Knee(xs, ys)
	if knee < 0 {
		fmt.Fprintln(os.Stderr, "fioplot: curve too small or flat for knee detection")
		return
	}
	kneeQD := kneeQDs[knee]
	path := filepath.Join(outdir, "qd_knee.txt")
	if err := os.WriteFile(path, []byte(fmt.Sprintf("KNEE_QD=%d\n", kneeQD)), 0666); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("[saved] %s\n", path)
}

func plotMix(results, outdir string, warn func(error)) {
	reports, err := fiojson.LoadDir(results, "mix_*.json", warn)
	if err != nil {
		log.Fatal(err)
	}
	if len(reports) == 0 {
		return
	}

	readBW := make(map[int][]float64)
	writeBW := make(map[int][]float64)
	lat := make(map[int][]float64)
	for name, r := range reports {
		mix, ok := fiojson.IntParam(name, "rwmix")
		if !ok {
			warn(fmt.Errorf("%s: no rwmix parameter in name", name))
			continue
		}
		job := r.Jobs[0]
		readBW[mix] = append(readBW[mix], job.Read.BandwidthMBps())
		writeBW[mix] = append(writeBW[mix], job.Write.BandwidthMBps())
		if l := fiojson.WeightedLatencyUS(job); !math.IsNaN(l) {
			lat[mix] = append(lat[mix], l)
		}
	}

	// Read-heavy mixes first.
	var mixesDesc []int
	for m := range readBW {
		mixesDesc = append(mixesDesc, m)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(mixesDesc)))

	var names []string
	var reads, writes, lats plotter.Values
	for _, m := range mixesDesc {
		names = append(names, fmt.Sprintf("%d/%d", m, 100-m))
		reads = append(reads, meanOrZero(readBW[m]))
		writes = append(writes, meanOrZero(writeBW[m]))
		lats = append(lats, meanOrZero(lat[m]))
	}

	bars := &benchchart.BarChart{
		XLabel: "read/write mix (%)",
		YLabel: "MB/s",
		Names:  names,
		Groups: []benchchart.BarGroup{
			{Label: "read", Values: reads},
			{Label: "write", Values: writes},
		},
	}
	saveBars(bars, filepath.Join(outdir, "mix_throughput.png"))

	latBars := &benchchart.BarChart{
		XLabel: "read/write mix (%)",
		YLabel: "latency (us)",
		Names:  names,
		Groups: []benchchart.BarGroup{{Label: "weighted latency", Values: lats}},
	}
	saveBars(latBars, filepath.Join(outdir, "mix_latency.png"))
}

// meanOrZero guards the bar charts against an all-failed cell.
func meanOrZero(vals []float64) float64 {
	s := benchagg.MeanStd(vals)
	if !s.Defined() {
		return 0
	}
	return s.Mean
}

func save(c *benchchart.Chart, path string) {
	if len(c.Series) == 0 {
		return
	}
	if err := c.Save(path); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("[saved] %s\n", path)
}

func saveBars(b *benchchart.BarChart, path string) {
	if err := b.Save(path); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("[saved] %s\n", path)
}
