// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"errors"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// ErrZeroBaseline is returned when a ratio would divide by a zero
// baseline value.
var ErrZeroBaseline = errors.New("baseline value is zero")

// ErrNoBaseline is returned when a comparison requires a baseline
// configuration that is not present in the data.
var ErrNoBaseline = errors.New("baseline configuration not present")

// Speedup returns value/baseline, the speedup of a measurement relative
// to a baseline measurement of the same metric. It returns
// ErrZeroBaseline rather than Inf or NaN when baseline is zero.
func Speedup(value, baseline float64) (float64, error) {
	if baseline == 0 {
		return 0, ErrZeroBaseline
	}
	return value / baseline, nil
}

// GeoMean returns the geometric mean of values: the exponential of the
// mean of the logarithms. It returns NaN, without panicking, if values
// is empty or contains a non-positive value.
func GeoMean(values []float64) float64 {
	for _, v := range values {
		if v <= 0 {
			return math.NaN()
		}
	}
	if len(values) == 0 {
		return math.NaN()
	}
	return stats.GeoMean(values)
}

// GeoMeanRatio joins two series on their keys and returns the geometric
// mean of target/base across the common keys. Keys present in only one
// series are ignored. It returns ErrNoBaseline when the series share no
// keys or base is empty.
func GeoMeanRatio(base, target map[int]float64) (float64, error) {
	var keys []int
	for k := range base {
		if _, ok := target[k]; ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return 0, ErrNoBaseline
	}
	sort.Ints(keys)
	ratios := make([]float64, 0, len(keys))
	for _, k := range keys {
		b := base[k]
		if b == 0 {
			return 0, ErrZeroBaseline
		}
		ratios = append(ratios, target[k]/b)
	}
	return GeoMean(ratios), nil
}

// BandwidthMBps converts a compute throughput in GFLOP/s into the
// memory bandwidth it implies, in MB/s, given the kernel's bytes moved
// per floating-point operation.
func BandwidthMBps(gflops, bytesPerFlop float64) float64 {
	return gflops * bytesPerFlop / 1e3
}

// LatencyNS converts cycles-per-element into nanoseconds per element at
// a fixed clock frequency in Hz.
func LatencyNS(cpe, freqHz float64) float64 {
	return cpe / freqHz * 1e9
}
