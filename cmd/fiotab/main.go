// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// fiotab summarizes fio results as tables and companion charts: tail
// latency percentiles across the queue-depth sweep, or the single-IO
// (queue depth 1) workload summary as a markdown table, CSV, and
// bandwidth bar chart.
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
	"github.com/mbsuite/benchplot/fiojson"
)

func main() {
	log.SetPrefix("fiotab: ")
	log.SetFlags(0)

	results := flag.String("results", "", "directory of fio JSON results (required)")
	outdir := flag.String("outdir", "figs", "output directory")
	table := flag.String("table", "tail", "table to produce: tail or zeroq")
	markerQD := flag.Int("marker-qd", 8, "queue depth marked on the tail latency chart")
	flag.Parse()
	if *results == "" {
		flag.Usage()
		os.Exit(2)
	}

	warn := func(err error) { fmt.Fprintf(os.Stderr, "fiotab: %v\n", err) }
	switch *table {
	case "tail":
		tailTable(*results, *outdir, *markerQD, warn)
	case "zeroq":
		zeroqTable(*results, *outdir, warn)
	default:
		log.Fatalf("unknown table %q, want tail or zeroq", *table)
	}
}

var tailPercentiles = []float64{50, 95, 99, 99.9}

func tailTable(results, outdir string, markerQD int, warn func(error)) {
	reports, err := fiojson.LoadDir(results, "qd_rand_4k_qd*.json", warn)
	if err != nil {
		log.Fatal(err)
	}
	if len(reports) == 0 {
		return
	}

	// byP[p][qd] collects one percentile's values across runs.
	byP := make(map[float64]map[int][]float64)
	for _, p := range tailPercentiles {
		byP[p] = make(map[int][]float64)
	}
	for name, r := range reports {
		qd, ok := fiojson.IntParam(name, "qd")
		if !ok {
			continue
		}
		clat := r.Jobs[0].Read.ClatNS
		for _, p := range tailPercentiles {
			v := clat.PercentileUS(p)
			// fio reports 0 for percentiles it did not track.
			if math.IsNaN(v) || v == 0 {
				continue
			}
			byP[p][qd] = append(byP[p][qd], v)
		}
	}

	var series []benchchart.Series
	for _, p := range tailPercentiles {
		var qds []int
		for qd := range byP[p] {
			qds = append(qds, qd)
		}
		sort.Ints(qds)
		var xys plotter.XYs
		for _, qd := range qds {
			s := benchagg.MeanStd(byP[p][qd])
			if s.Defined() {
				xys = append(xys, plotter.XY{X: float64(qd), Y: s.Mean})
			}
		}
		if len(xys) == 0 {
			continue
		}
		series = append(series, benchchart.Series{Label: fmt.Sprintf("p%g", p), XYs: xys})
	}
	if len(series) == 0 {
		fmt.Fprintln(os.Stderr, "fiotab: no usable percentiles in sweep")
		return
	}

	c := &benchchart.Chart{
		XLabel: "queue depth",
		YLabel: "completion latency (us)",
		Log2X:  true,
		LogY:   true,
		Series: series,
		VLines: []benchchart.RefLine{{Value: float64(markerQD), Label: fmt.Sprintf("QD%d", markerQD)}},
	}
	path := filepath.Join(outdir, "tail_latency.png")
	if err := c.Save(path); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("[saved] %s\n", path)
}

// A zeroqRow is one queue-depth-1 workload's summary.
type zeroqRow struct {
	label                         string
	latMS, p95US, p99US, iops, mbps float64
}

func zeroqTable(results, outdir string, warn func(error)) {
	reports, err := fiojson.LoadDir(results, "zeroq_*.json", warn)
	if err != nil {
		log.Fatal(err)
	}
	if len(reports) == 0 {
		return
	}

	var names []string
	for name := range reports {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows []zeroqRow
	for _, name := range names {
		for _, job := range reports[name].Jobs {
			d := job.Read
			if job.Write.IOPS > d.IOPS {
				d = job.Write
			}
			rows = append(rows, zeroqRow{
				label: friendlyLabel(job.Name),
				latMS: fiojson.WeightedLatencyUS(job) / 1e3,
				p95US: d.ClatNS.PercentileUS(95),
				p99US: d.ClatNS.PercentileUS(99),
				iops:  d.IOPS,
				mbps:  d.BandwidthMBps(),
			})
		}
	}

	// Markdown table on stdout.
	fmt.Println("| Workload | Latency (ms) | p95 (us) | p99 (us) | IOPS | MB/s |")
	fmt.Println("|---|---|---|---|---|---|")
	for _, r := range rows {
		fmt.Printf("| %s | %.3f | %.1f | %.1f | %.0f | %.1f |\n",
			r.label, r.latMS, r.p95US, r.p99US, r.iops, r.mbps)
	}

	if err := os.MkdirAll(outdir, 0777); err != nil {
		log.Fatal(err)
	}
	csvPath := filepath.Join(outdir, "zeroq_summary.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Fprintln(f, "workload,latency_ms,p95_us,p99_us,iops,mbps")
	for _, r := range rows {
		fmt.Fprintf(f, "%s,%g,%g,%g,%g,%g\n", r.label, r.latMS, r.p95US, r.p99US, r.iops, r.mbps)
	}
	f.Close()
	fmt.Printf("[saved] %s\n", csvPath)

	var labels []string
	var values plotter.Values
	for _, r := range rows {
		labels = append(labels, r.label)
		values = append(values, r.mbps)
	}
	bars := &benchchart.BarChart{
		YLabel: "MB/s",
		Names:  labels,
		Groups: []benchchart.BarGroup{{Label: "bandwidth", Values: values}},
	}
	barPath := filepath.Join(outdir, "zeroq_bandwidth.png")
	if err := bars.Save(barPath); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("[saved] %s\n", barPath)
}

var workloadNames = map[string]string{
	"randread":  "Random Read",
	"randwrite": "Random Write",
	"seqread":   "Sequential Read",
	"seqwrite":  "Sequential Write",
	"read":      "Sequential Read",
	"write":     "Sequential Write",
}

// friendlyLabel turns a job name like "randread_4k" into
// "4KiB Random Read". Unrecognized names pass through unchanged.
func friendlyLabel(name string) string {
	kind, rest, ok := strings.Cut(name, "_")
	pretty, known := workloadNames[kind]
	if !known {
		return name
	}
	if !ok || rest == "" {
		return pretty
	}
	return strings.ToUpper(rest) + "iB " + pretty
}
