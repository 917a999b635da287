// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// plotscale charts thread-scaling results: the chosen metric versus
// thread count per variant with quartile bands, speedup over each
// variant's single-thread run, optional cycles-per-operation, and a
// baseline-normalized comparison of named configurations.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"gonum.org/v1/plot/plotter"

	"github.com/mbsuite/benchplot/benchagg"
	"github.com/mbsuite/benchplot/benchchart"
	"github.com/mbsuite/benchplot/benchtab"
)

func main() {
	log.SetPrefix("plotscale: ")
	log.SetFlags(0)

	csvPath := flag.String("csv", "", "results CSV (required)")
	outdir := flag.String("outdir", "plots", "output directory")
	value := flag.String("value", "gflops", "metric column to plot")
	variants := flag.String("variants", "scalar,simd", "comma-separated variants to include")
	freq := flag.Float64("freq", 0, "core frequency, Hz (enables cycles/op; needs seconds and ops columns)")
	baseline := flag.String("baseline", "", "config the normalized chart divides by (default: best config, with a warning)")
	flag.Parse()
	if *csvPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	schema := benchtab.Schema{Columns: []benchtab.Column{
		{Name: "variant", Aliases: []string{"mode", "impl"}, Required: true},
		{Name: "threads", Aliases: []string{"nthreads", "workers"}, Required: true, Numeric: true},
		{Name: *value, Required: true, Numeric: true},
		{Name: "config", Aliases: []string{"label"}},
		{Name: "seconds", Aliases: []string{"time_s", "elapsed_s"}, Numeric: true},
		{Name: "ops", Aliases: []string{"operations"}, Numeric: true},
	}}
	rows, err := benchtab.ReadFile(*csvPath, schema)
	if err != nil {
		log.Fatal(err)
	}

	want := make(map[string]bool)
	for _, v := range strings.Split(*variants, ",") {
		want[strings.TrimSpace(v)] = true
	}

	// Flatten into column slices for the stats table.
	var variantCol []string
	var threadsCol, valueCol, cyclesCol []float64
	haveCycles := *freq > 0
	bad := 0
	for _, r := range rows {
		if !want[r.Str("variant")] {
			continue
		}
		th, errT := r.Num("threads")
		v, errV := r.Num(*value)
		if errT != nil || errV != nil {
			bad++
			continue
		}
		if haveCycles {
			secs, errS := r.Num("seconds")
			ops, errO := r.Num("ops")
			if errS != nil || errO != nil || ops == 0 {
				haveCycles = false
				fmt.Fprintln(os.Stderr, "plotscale: seconds/ops not usable, skipping cycles chart")
			} else {
				cyclesCol = append(cyclesCol, *freq*secs/ops)
			}
		}
		variantCol = append(variantCol, r.Str("variant"))
		threadsCol = append(threadsCol, th)
		valueCol = append(valueCol, v)
	}
	if bad > 0 {
		fmt.Fprintf(os.Stderr, "plotscale: dropped %d rows with malformed numbers\n", bad)
	}
	if len(valueCol) == 0 {
		log.Fatalf("no rows for variants %q", *variants)
	}

	b := table.NewBuilder(nil)
	b.Add("variant", variantCol)
	b.Add("threads", threadsCol)
	b.Add(*value, valueCol)
	cols := []string{*value}
	if haveCycles && len(cyclesCol) == len(valueCol) {
		b.Add("cycles", cyclesCol)
		cols = append(cols, "cycles")
	}
	tab := b.Done()

	g := table.GroupBy(tab, "variant")
	agged := ggstat.Agg("threads")(
		ggstat.AggMean(cols...),
		ggstat.AggQuantile("median", 0.5, cols...),
		ggstat.AggQuantile("p25", 0.25, cols...),
		ggstat.AggQuantile("p75", 0.75, cols...),
	).F(g)

	// One summarized curve per variant.
	type curve struct {
		variant                  string
		threads                  []float64
		median, p25, p75, cycles []float64
	}
	var curves []curve
	for _, gid := range agged.Tables() {
		t := agged.Table(gid)
		c := curve{
			variant: gid.Label().(string),
			threads: t.MustColumn("threads").([]float64),
			median:  t.MustColumn("median " + *value).([]float64),
			p25:     t.MustColumn("p25 " + *value).([]float64),
			p75:     t.MustColumn("p75 " + *value).([]float64),
		}
		if len(cols) > 1 {
			c.cycles = t.MustColumn("median cycles").([]float64)
		}
		// Agg emits groups in first-occurrence order; the charts
		// want thread order.
		perm := make([]int, len(c.threads))
		for i := range perm {
			perm[i] = i
		}
		sort.Slice(perm, func(i, j int) bool { return c.threads[perm[i]] < c.threads[perm[j]] })
		c.threads = permute(c.threads, perm)
		c.median = permute(c.median, perm)
		c.p25 = permute(c.p25, perm)
		c.p75 = permute(c.p75, perm)
		if c.cycles != nil {
			c.cycles = permute(c.cycles, perm)
		}
		curves = append(curves, c)
	}
	sort.Slice(curves, func(i, j int) bool { return curves[i].variant < curves[j].variant })

	if err := os.MkdirAll(*outdir, 0777); err != nil {
		log.Fatal(err)
	}

	// Scaling chart: median with quartile bands.
	var scaling []benchchart.Series
	for _, c := range curves {
		xys := make(plotter.XYs, len(c.threads))
		low := make([]float64, len(c.threads))
		high := make([]float64, len(c.threads))
		for i := range c.threads {
			xys[i] = plotter.XY{X: c.threads[i], Y: c.median[i]}
			low[i] = c.median[i] - c.p25[i]
			high[i] = c.p75[i] - c.median[i]
		}
		scaling = append(scaling, benchchart.Series{
			Label:    c.variant,
			XYs:      xys,
			YErrLow:  low,
			YErrHigh: high,
			Dashed:   c.variant == "scalar",
		})
	}
	save(&benchchart.Chart{
		XLabel: "threads",
		YLabel: *value,
		Series: scaling,
	}, filepath.Join(*outdir, "scaling_"+*value+".png"))

	// Speedup over each variant's own single-thread run.
	var speedups []benchchart.Series
	for _, c := range curves {
		base := 0.0
		for i, th := range c.threads {
			if th == 1 {
				base = c.median[i]
			}
		}
		if base == 0 {
			log.Fatalf("variant %q has no 1-thread run to normalize by", c.variant)
		}
		xys := make(plotter.XYs, 0, len(c.threads))
		for i := range c.threads {
			sp, err := benchagg.Speedup(c.median[i], base)
			if err != nil {
				continue
			}
			xys = append(xys, plotter.XY{X: c.threads[i], Y: sp})
		}
		speedups = append(speedups, benchchart.Series{
			Label:  c.variant,
			XYs:    xys,
			Dashed: c.variant == "scalar",
		})
	}
	save(&benchchart.Chart{
		XLabel: "threads",
		YLabel: "speedup vs 1 thread",
		Series: speedups,
	}, filepath.Join(*outdir, "speedup.png"))

	if len(cols) > 1 {
		var series []benchchart.Series
		for _, c := range curves {
			xys := make(plotter.XYs, len(c.threads))
			for i := range c.threads {
				xys[i] = plotter.XY{X: c.threads[i], Y: c.cycles[i]}
			}
			series = append(series, benchchart.Series{Label: c.variant, XYs: xys, Dashed: c.variant == "scalar"})
		}
		save(&benchchart.Chart{
			XLabel: "threads",
			YLabel: "cycles / op",
			Series: series,
		}, filepath.Join(*outdir, "cycles_per_op.png"))
	}

	plotNormalized(*outdir, rows, *value, *baseline)
}

// plotNormalized compares named configurations against a baseline
// config. Without -baseline the best config stands in, with a warning
// on stderr.
func plotNormalized(outdir string, rows []benchtab.Row, value, baseline string) {
	byConfig := make(map[string][]float64)
	for _, r := range rows {
		cfg := r.Str("config")
		if cfg == "" {
			continue
		}
		if v, err := r.Num(value); err == nil {
			byConfig[cfg] = append(byConfig[cfg], v)
		}
	}
	if len(byConfig) == 0 {
		fmt.Fprintln(os.Stderr, "plotscale: no config column, skipping normalized chart")
		return
	}

	means := make(map[string]float64, len(byConfig))
	var configs []string
	for cfg, vals := range byConfig {
		means[cfg] = benchagg.MeanStd(vals).Mean
		configs = append(configs, cfg)
	}
	sort.Strings(configs)

	if baseline == "" {
		for _, cfg := range configs {
			if baseline == "" || means[cfg] > means[baseline] {
				baseline = cfg
			}
		}
		fmt.Fprintf(os.Stderr, "plotscale: no -baseline given, normalizing to best config %q\n", baseline)
	} else if _, ok := means[baseline]; !ok {
		log.Fatalf("baseline config %q not present in data", baseline)
	}

	var values plotter.Values
	for _, cfg := range configs {
		v, err := benchagg.Speedup(means[cfg], means[baseline])
		if err != nil {
			log.Fatalf("baseline config %q has zero mean %s", baseline, value)
		}
		values = append(values, v)
	}
	bars := &benchchart.BarChart{
		YLabel: value + " vs " + baseline,
		Names:  configs,
		Groups: []benchchart.BarGroup{{Label: value, Values: values}},
		HLines: []benchchart.RefLine{{Value: 1}},
	}
	path := filepath.Join(outdir, "normalized.png")
	if err := bars.Save(path); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("[saved] %s\n", path)
}

func permute(xs []float64, perm []int) []float64 {
	out := make([]float64, len(xs))
	for i, p := range perm {
		out[i] = xs[p]
	}
	return out
}

func save(c *benchchart.Chart, path string) {
	if err := c.Save(path); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("[saved] %s\n", path)
}
