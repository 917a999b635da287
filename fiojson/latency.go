// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fiojson

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// A latBucket is one histogram bucket converted to microseconds.
type latBucket struct {
	boundUS float64
	pct     float64
	open    bool
}

// WeightedLatencyUS estimates the job's mean completion latency in
// microseconds from its coarse latency histograms. Each bucket counts
// the percentage of IOs that completed within its bound; the estimate
// weights each bucket's midpoint (half way from the previous bound) by
// its percentage. An open ">=N" bucket has no upper bound, so it is
// weighted at 1.5x its lower bound. Returns NaN when the histograms are
// empty or all-zero.
func WeightedLatencyUS(j Job) float64 {
	var buckets []latBucket
	add := func(m map[string]float64, scaleUS float64) {
		for k, pct := range m {
			if pct <= 0 {
				continue
			}
			open := strings.HasPrefix(k, ">=")
			bound, err := strconv.ParseFloat(strings.TrimPrefix(k, ">="), 64)
			if err != nil {
				continue
			}
			buckets = append(buckets, latBucket{bound * scaleUS, pct, open})
		}
	}
	add(j.LatencyNS, 1e-3)
	add(j.LatencyUS, 1)
	add(j.LatencyMS, 1e3)

	if len(buckets) == 0 {
		return math.NaN()
	}
	sort.Slice(buckets, func(i, k int) bool { return buckets[i].boundUS < buckets[k].boundUS })

	sum, prev := 0.0, 0.0
	for _, b := range buckets {
		mid := (prev + b.boundUS) / 2
		if b.open {
			mid = b.boundUS * 1.5
		}
		sum += b.pct * mid
		prev = b.boundUS
	}
	return sum / 100
}
