// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// plotsweep renders size-sweep comparisons of SIMD and scalar kernel
// runs: per-kernel alignment/tail scenario charts, per-dtype kernel
// comparisons, and scalar/SIMD ratio charts. It also writes the
// quantile-trimmed per-configuration means to trimmed_means.csv.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
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

var sweepSchema = benchtab.Schema{Columns: []benchtab.Column{
	{Name: "kernel", Required: true},
	{Name: "dtype", Required: true},
	{Name: "n", Aliases: []string{"size", "elements"}, Required: true, Numeric: true},
	{Name: "trial", Aliases: []string{"run", "rep"}, Numeric: true},
	{Name: "misaligned", Aliases: []string{"misalign"}},
	{Name: "tail_multiple", Aliases: []string{"tail"}},
	{Name: "gflops", Aliases: []string{"GFLOPs", "gflop/s"}, Required: true, Numeric: true},
	{Name: "cpe", Aliases: []string{"cycles_per_element"}, Numeric: true},
}}

// config is one fully aggregated (mode, kernel, dtype, N, scenario)
// cell of the sweep.
type config struct {
	mode, kernel, dtype string
	n                   float64
	mis, tail           string // normalized "0" or "1"
	gflops              benchagg.Summary
	cpe                 float64
}

func main() {
	log.SetPrefix("plotsweep: ")
	log.SetFlags(0)

	simd := flag.String("simd", "", "SIMD results CSV (required)")
	scalar := flag.String("scalar", "", "scalar results CSV (required)")
	outdir := flag.String("outdir", "plots", "output directory")
	trim := flag.Float64("trim", 0.05, "quantile trimmed from each tail per configuration")
	kernel := flag.String("kernel", "", "restrict to one kernel")
	transitions := flag.String("transitions", "", "cache boundary markers, as L1=40960,L2=109226,...")
	flag.Parse()
	if *simd == "" || *scalar == "" {
		flag.Usage()
		os.Exit(2)
	}

	vlines, err := parseMarkers(*transitions)
	if err != nil {
		log.Fatal(err)
	}

	simdRows, err := benchtab.ReadFile(*simd, sweepSchema, "mode", "SIMD")
	if err != nil {
		log.Fatal(err)
	}
	scalarRows, err := benchtab.ReadFile(*scalar, sweepSchema, "mode", "Scalar")
	if err != nil {
		log.Fatal(err)
	}
	rows := append(simdRows, scalarRows...)
	if *kernel != "" {
		kept := rows[:0]
		for _, r := range rows {
			if r.Str("kernel") == *kernel {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	configs := aggregate(rows, benchagg.TrimQuantile(*trim, 5))
	if len(configs) == 0 {
		log.Fatal("no usable configurations in input")
	}

	if err := os.MkdirAll(*outdir, 0777); err != nil {
		log.Fatal(err)
	}
	if err := writeMeans(filepath.Join(*outdir, "trimmed_means.csv"), configs); err != nil {
		log.Fatal(err)
	}

	for _, k := range kernels(configs) {
		plotAlignmentTail(*outdir, k, configs, vlines)
	}
	for _, d := range dtypes(configs) {
		plotDtypeComp(*outdir, d, configs, vlines)
		plotRatios(*outdir, d, configs)
	}
}

// aggregate trims and averages each (mode, kernel, dtype, N, scenario)
// group. CPE is averaged over the rows whose GFLOP/s value survived the
// trim, so both metrics describe the same trials.
func aggregate(rows []benchtab.Row, tr benchagg.Trim) []config {
	groups := benchtab.GroupBy(rows, "mode", "kernel", "dtype", "n", "misaligned", "tail_multiple")
	var configs []config
	for i := range groups {
		g := &groups[i]

		// Collect gflops and cpe in row order so the per-trial trim
		// mask applies to both.
		var gf, cpes []float64
		var cpeOK []bool
		bad := 0
		for _, row := range g.Rows {
			v, err := row.Num("gflops")
			if err != nil || math.IsNaN(v) {
				bad++
				continue
			}
			gf = append(gf, v)
			c, cerr := row.Num("cpe")
			cpes = append(cpes, c)
			cpeOK = append(cpeOK, cerr == nil && !math.IsNaN(c))
		}
		if bad > 0 {
			fmt.Fprintf(os.Stderr, "plotsweep: %s: dropped %d malformed gflops values\n", g.Key, bad)
		}
		sum := tr.Aggregate(gf)
		if !sum.Defined() {
			continue
		}

		// Mean CPE over exactly the retained trials, matched by
		// index so a trimmed trial that ties a kept value stays out.
		keep := tr.Keep(gf)
		var cpeSum float64
		var cpeN int
		for j, k := range keep {
			if k && cpeOK[j] {
				cpeSum += cpes[j]
				cpeN++
			}
		}
		cpe := 0.0
		if cpeN > 0 {
			cpe = cpeSum / float64(cpeN)
		}

		n, err := g.Key.Num("n")
		if err != nil {
			continue
		}
		configs = append(configs, config{
			mode:   g.Key.Get("mode"),
			kernel: g.Key.Get("kernel"),
			dtype:  g.Key.Get("dtype"),
			n:      n,
			mis:    normBool(g.Rows[0], "misaligned"),
			tail:   normBool(g.Rows[0], "tail_multiple"),
			gflops: sum,
			cpe:    cpe,
		})
	}
	return configs
}

// normBool maps the column's 0/1/True/False spellings onto "0"/"1".
// An absent column reads as "0".
func normBool(row benchtab.Row, col string) string {
	if !row.Has(col) {
		return "0"
	}
	b, err := row.Bool(col)
	if err != nil {
		return row.Str(col)
	}
	if b {
		return "1"
	}
	return "0"
}

func writeMeans(path string, configs []config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	sw, err := benchtab.NewSummaryWriter(f,
		[]string{"mode", "kernel", "dtype", "n", "misaligned", "tail_multiple"},
		[]string{"mean_gflops", "std_gflops", "mean_cpe", "trials"})
	if err != nil {
		return err
	}
	for _, c := range configs {
		key := benchtab.Key{
			{Col: "mode", Value: c.mode},
			{Col: "kernel", Value: c.kernel},
			{Col: "dtype", Value: c.dtype},
			{Col: "n", Value: strconv.FormatFloat(c.n, 'g', -1, 64)},
			{Col: "misaligned", Value: c.mis},
			{Col: "tail_multiple", Value: c.tail},
		}
		if err := sw.WriteRow(key, c.gflops.Mean, c.gflops.Std, c.cpe, float64(c.gflops.N)); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	fmt.Printf("[saved] %s\n", path)
	return nil
}

// plotAlignmentTail draws one kernel's four alignment/tail scenarios,
// SIMD solid and scalar dashed, averaged over dtypes.
func plotAlignmentTail(outdir, kernel string, configs []config, vlines []benchchart.RefLine) {
	var series []benchchart.Series
	for _, mode := range []string{"SIMD", "Scalar"} {
		for _, mis := range []string{"0", "1"} {
			for _, tail := range []string{"0", "1"} {
				curve := meanCurve(configs, func(c config) bool {
					return c.kernel == kernel && c.mode == mode && c.mis == mis && c.tail == tail
				})
				if len(curve) == 0 {
					continue
				}
				series = append(series, benchchart.Series{
					Label:  fmt.Sprintf("%s mis=%s tail=%s", mode, mis, tail),
					XYs:    curve,
					Dashed: mode == "Scalar",
				})
			}
		}
	}
	if len(series) == 0 {
		return
	}
	saveChart(&benchchart.Chart{
		Title:  kernel,
		XLabel: "N (elements)",
		YLabel: "GFLOP/s",
		Log2X:  true,
		Series: series,
		VLines: vlines,
	}, filepath.Join(outdir, "alignment_tail_"+kernel+".png"))
}

// plotDtypeComp draws one dtype's kernels, scenario-averaged.
func plotDtypeComp(outdir, dtype string, configs []config, vlines []benchchart.RefLine) {
	var series []benchchart.Series
	for _, k := range kernels(configs) {
		for _, mode := range []string{"SIMD", "Scalar"} {
			curve := meanCurve(configs, func(c config) bool {
				return c.dtype == dtype && c.kernel == k && c.mode == mode
			})
			if len(curve) == 0 {
				continue
			}
			series = append(series, benchchart.Series{
				Label:  k + " " + mode,
				XYs:    curve,
				Dashed: mode == "Scalar",
			})
		}
	}
	if len(series) == 0 {
		return
	}
	saveChart(&benchchart.Chart{
		Title:  dtype,
		XLabel: "N (elements)",
		YLabel: "GFLOP/s",
		Log2X:  true,
		Series: series,
		VLines: vlines,
	}, filepath.Join(outdir, "dtype_comp_"+dtype+".png"))
}

// plotRatios draws scalar/SIMD throughput ratios per scenario. An N
// present in only one mode is dropped from the ratio.
func plotRatios(outdir, dtype string, configs []config) {
	for _, mis := range []string{"0", "1"} {
		for _, tail := range []string{"0", "1"} {
			var series []benchchart.Series
			for _, k := range kernels(configs) {
				byMode := map[string]map[float64]float64{"SIMD": {}, "Scalar": {}}
				for _, c := range configs {
					if c.dtype == dtype && c.kernel == k && c.mis == mis && c.tail == tail {
						byMode[c.mode][c.n] = c.gflops.Mean
					}
				}
				var xys plotter.XYs
				for _, n := range sortedKeys(byMode["SIMD"]) {
					simd := byMode["SIMD"][n]
					if simd == 0 {
						continue
					}
					if scalar, ok := byMode["Scalar"][n]; ok {
						xys = append(xys, plotter.XY{X: n, Y: scalar / simd})
					}
				}
				if len(xys) > 0 {
					series = append(series, benchchart.Series{Label: k, XYs: xys})
				}
			}
			if len(series) == 0 {
				continue
			}
			saveChart(&benchchart.Chart{
				Title:  fmt.Sprintf("%s mis=%s tail=%s", dtype, mis, tail),
				XLabel: "N (elements)",
				YLabel: "scalar / SIMD",
				Log2X:  true,
				Series: series,
				HLines: []benchchart.RefLine{{Value: 1}},
			}, filepath.Join(outdir, fmt.Sprintf("ratio_%s_mis%s_tail%s.png", dtype, mis, tail)))
		}
	}
}

// meanCurve averages the matching configs' mean GFLOP/s per N.
func meanCurve(configs []config, match func(config) bool) plotter.XYs {
	byN := make(map[float64][]float64)
	for _, c := range configs {
		if match(c) {
			byN[c.n] = append(byN[c.n], c.gflops.Mean)
		}
	}
	var xys plotter.XYs
	for _, n := range sortedKeys(byN) {
		xys = append(xys, plotter.XY{X: n, Y: benchagg.MeanStd(byN[n]).Mean})
	}
	return xys
}

func sortedKeys[V any](m map[float64]V) []float64 {
	keys := make([]float64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	return keys
}

func kernels(configs []config) []string {
	return distinct(configs, func(c config) string { return c.kernel })
}

func dtypes(configs []config) []string {
	return distinct(configs, func(c config) string { return c.dtype })
}

func distinct(configs []config, f func(config) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range configs {
		if v := f(c); !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// parseMarkers parses "L1=40960,L2=109226" into labeled vertical lines.
func parseMarkers(s string) ([]benchchart.RefLine, error) {
	if s == "" {
		return nil, nil
	}
	var lines []benchchart.RefLine
	for _, part := range strings.Split(s, ",") {
		name, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("malformed marker %q, want name=value", part)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed marker %q: %v", part, err)
		}
		lines = append(lines, benchchart.RefLine{Value: v, Label: name})
	}
	return lines, nil
}

func saveChart(c *benchchart.Chart, path string) {
	if err := c.Save(path); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("[saved] %s\n", path)
}
