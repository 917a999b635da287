// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fiojson

import (
	"math"
	"testing"
)

func aeq(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) < 1e-9
}

func TestWeightedLatencySingleBucket(t *testing.T) {
	// All IOs within 5us: the estimate is the bucket midpoint.
	j := Job{LatencyUS: map[string]float64{"5": 100}}
	if got := WeightedLatencyUS(j); !aeq(got, 2.5) {
		t.Errorf("WeightedLatencyUS = %v, want 2.5", got)
	}
}

func TestWeightedLatencySplit(t *testing.T) {
	// Half within 10us (midpoint 5), half in (10, 20] (midpoint 15).
	j := Job{LatencyUS: map[string]float64{"10": 50, "20": 50}}
	if got := WeightedLatencyUS(j); !aeq(got, 10) {
		t.Errorf("WeightedLatencyUS = %v, want 10", got)
	}
}

func TestWeightedLatencyMixedUnits(t *testing.T) {
	// 750ns and 2us buckets interleave once converted: midpoints
	// 0.375us and 1.375us.
	j := Job{
		LatencyNS: map[string]float64{"750": 50},
		LatencyUS: map[string]float64{"2": 50},
	}
	want := (50*0.375 + 50*1.375) / 100
	if got := WeightedLatencyUS(j); !aeq(got, want) {
		t.Errorf("WeightedLatencyUS = %v, want %v", got, want)
	}
}

func TestWeightedLatencyOpenBucket(t *testing.T) {
	// The unbounded >=2000ms bucket weighs in at 1.5x its lower bound.
	j := Job{
		LatencyMS: map[string]float64{"10": 90, ">=2000": 10},
	}
	want := (90*5e3 + 10*1.5*2e6) / 100
	if got := WeightedLatencyUS(j); !aeq(got, want) {
		t.Errorf("WeightedLatencyUS = %v, want %v", got, want)
	}
}

func TestWeightedLatencyZeroBucketsSkipped(t *testing.T) {
	// Zero-percentage buckets do not shift the midpoints.
	j := Job{LatencyUS: map[string]float64{"2": 0, "4": 0, "10": 100}}
	if got := WeightedLatencyUS(j); !aeq(got, 5) {
		t.Errorf("WeightedLatencyUS = %v, want 5", got)
	}
}

func TestWeightedLatencyNoData(t *testing.T) {
	if got := WeightedLatencyUS(Job{}); !math.IsNaN(got) {
		t.Errorf("WeightedLatencyUS of empty job = %v, want NaN", got)
	}
}

func TestPercentileUS(t *testing.T) {
	c := Clat{Percentile: map[string]float64{
		"95.000000": 125000,
		"99.900000": 2500000,
	}}
	if got := c.PercentileUS(95); !aeq(got, 125) {
		t.Errorf("PercentileUS(95) = %v, want 125", got)
	}
	if got := c.PercentileUS(99.9); !aeq(got, 2500) {
		t.Errorf("PercentileUS(99.9) = %v, want 2500", got)
	}
	if got := c.PercentileUS(50); !math.IsNaN(got) {
		t.Errorf("PercentileUS(50) = %v, want NaN", got)
	}
}
