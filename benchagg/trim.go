// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchagg provides robust aggregation of repeated benchmark
// measurements.
//
// Benchmark trials are noisy: a handful of runs land on a busy core, hit
// a page fault storm, or catch a frequency transition, and drag the mean
// around. The tools in this package summarize a group of trials after
// discarding extreme values, either a fixed count from each tail or
// everything outside a quantile band. Small groups are never trimmed
// into oblivion; when there aren't enough samples to trim safely, the
// whole group is used as-is.
package benchagg

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// A Trim describes how extreme samples are discarded before a group of
// measurements is summarized.
//
// If Q is non-zero, trimming is quantile-based: samples outside the
// closed interval [quantile(Q), quantile(1-Q)] are dropped. Otherwise
// trimming is count-based: the KLow smallest and KHigh largest samples
// are dropped. The zero Trim performs no trimming at all.
type Trim struct {
	// KLow and KHigh are the number of samples dropped from the
	// low and high tail, respectively, for count-based trimming.
	KLow, KHigh int

	// Q is the tail fraction for quantile-based trimming.
	// When non-zero it takes precedence over KLow/KHigh.
	Q float64

	// MinSamples is the minimum group size for trimming to apply.
	// Groups smaller than this are summarized untrimmed, so
	// trimming can never produce an empty result for real input.
	MinSamples int
}

// TrimCount returns a Trim that drops the k smallest and k largest
// samples from groups of at least min samples.
func TrimCount(k, min int) Trim {
	return Trim{KLow: k, KHigh: k, MinSamples: min}
}

// TrimQuantile returns a Trim that drops samples outside the
// [q, 1-q] quantile band from groups of at least min samples.
func TrimQuantile(q float64, min int) Trim {
	return Trim{Q: q, MinSamples: min}
}

// A Summary holds the aggregate statistics of one group of samples.
type Summary struct {
	Mean float64 // mean of the retained samples
	Std  float64 // sample standard deviation of the retained samples
	Min  float64 // smallest retained sample
	Max  float64 // largest retained sample
	N    int     // number of retained samples
}

// Defined reports whether the summary was computed from at least one
// sample. An undefined summary has NaN statistics.
func (s Summary) Defined() bool {
	return s.N > 0
}

// Aggregate summarizes values under the trimming policy t.
//
// The input is not modified. An empty input yields an undefined
// Summary (NaN mean and standard deviation, N of 0). If trimming
// would retain nothing, the untrimmed values are summarized instead.
func (t Trim) Aggregate(values []float64) Summary {
	if len(values) == 0 {
		return Summary{Mean: math.NaN(), Std: math.NaN(), Min: math.NaN(), Max: math.NaN()}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	kept := sorted
	if len(sorted) >= t.MinSamples {
		if t.Q > 0 {
			kept = trimQuantile(sorted, t.Q)
		} else if t.KLow > 0 || t.KHigh > 0 {
			kept = trimCount(sorted, t.KLow, t.KHigh)
		}
	}
	if len(kept) == 0 {
		kept = sorted
	}
	return summarize(kept)
}

// Retained returns how many of values survive trimming under t,
// without computing the summary statistics.
func (t Trim) Retained(values []float64) int {
	return t.Aggregate(values).N
}

// Keep reports, per sample, whether Aggregate would retain it. The
// result is indexed like values, so callers can carry companion
// metrics along with exactly the retained trials. Ties at a trim
// boundary follow the sorted order, matching Aggregate's count.
func (t Trim) Keep(values []float64) []bool {
	keep := make([]bool, len(values))
	for i := range keep {
		keep[i] = true
	}
	n := len(values)
	if n == 0 || n < t.MinSamples {
		return keep
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.Slice(perm, func(i, j int) bool { return values[perm[i]] < values[perm[j]] })

	var start, end int
	if t.Q > 0 {
		sorted := make([]float64, n)
		for i, p := range perm {
			sorted[i] = values[p]
		}
		lo := quantileR7(sorted, t.Q)
		hi := quantileR7(sorted, 1-t.Q)
		start = sort.SearchFloat64s(sorted, lo)
		end = sort.Search(n, func(i int) bool { return sorted[i] > hi })
	} else if t.KLow > 0 || t.KHigh > 0 {
		start, end = t.KLow, n-t.KHigh
	} else {
		return keep
	}
	if end <= start {
		// Over-trimmed; Aggregate falls back to the whole group.
		return keep
	}
	for i := 0; i < start; i++ {
		keep[perm[i]] = false
	}
	for i := end; i < n; i++ {
		keep[perm[i]] = false
	}
	return keep
}

func trimQuantile(sorted []float64, q float64) []float64 {
	lo := quantileR7(sorted, q)
	hi := quantileR7(sorted, 1-q)
	// Bounds are inclusive; sorted input lets us slice once.
	start := sort.SearchFloat64s(sorted, lo)
	end := sort.Search(len(sorted), func(i int) bool { return sorted[i] > hi })
	if end <= start {
		return nil
	}
	return sorted[start:end]
}

// quantileR7 computes the linearly interpolated quantile of sorted
// values (type 7 in the Hyndman-Fan taxonomy): h = (N-1)q, interpolated
// between the samples at floor(h) and floor(h)+1. The bounds stay
// strictly inside the sample range, so a small-q trim drops extreme
// samples even on a dozen trials.
func quantileR7(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * q
	i := int(h)
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (h-float64(i))*(sorted[i+1]-sorted[i])
}

func trimCount(sorted []float64, kLow, kHigh int) []float64 {
	if len(sorted) <= kLow+kHigh {
		return nil
	}
	return sorted[kLow : len(sorted)-kHigh]
}

func summarize(xs []float64) Summary {
	min, max := stats.Bounds(xs)
	sum := Summary{
		Mean: stats.Mean(xs),
		Min:  min,
		Max:  max,
		N:    len(xs),
	}
	if len(xs) > 1 {
		sum.Std = stats.StdDev(xs)
	}
	return sum
}

// MeanStd is shorthand for an untrimmed aggregation of values.
func MeanStd(values []float64) Summary {
	return Trim{}.Aggregate(values)
}
