// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

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

func TestAggregateEmpty(t *testing.T) {
	s := TrimQuantile(0.05, 5).Aggregate(nil)
	if s.Defined() {
		t.Errorf("empty input: got defined summary %+v", s)
	}
	if !math.IsNaN(s.Mean) || !math.IsNaN(s.Std) {
		t.Errorf("empty input: got mean=%v std=%v, want NaN", s.Mean, s.Std)
	}
}

func TestAggregateBelowMinSamples(t *testing.T) {
	// Below MinSamples, trimmed and untrimmed aggregation agree.
	vals := []float64{3, 1, 2, 100}
	for _, tr := range []Trim{TrimQuantile(0.05, 5), TrimCount(1, 5)} {
		got := tr.Aggregate(vals)
		want := MeanStd(vals)
		if !aeq(got.Mean, want.Mean) || !aeq(got.Std, want.Std) || got.N != want.N {
			t.Errorf("%+v.Aggregate(%v) = %+v, want untrimmed %+v", tr, vals, got, want)
		}
	}
}

func TestCountTrim(t *testing.T) {
	// Dropping k from each end of N > 2k sorted samples retains
	// exactly N-2k interior samples.
	vals := []float64{9, 1, 5, 7, 3, 2, 8, 4, 6, 10}
	s := TrimCount(2, 4).Aggregate(vals)
	if s.N != 6 {
		t.Errorf("retained %d samples, want 6", s.N)
	}
	if s.Min != 3 || s.Max != 8 {
		t.Errorf("retained range [%v, %v], want [3, 8]", s.Min, s.Max)
	}
	if !aeq(s.Mean, 5.5) {
		t.Errorf("mean = %v, want 5.5", s.Mean)
	}
}

func TestCountTrimAsymmetric(t *testing.T) {
	// Dropping only the two largest, as the memory sweeps do.
	vals := []float64{1, 2, 3, 100, 200}
	s := Trim{KHigh: 2, MinSamples: 3}.Aggregate(vals)
	if s.N != 3 || s.Max != 3 {
		t.Errorf("got N=%d max=%v, want N=3 max=3", s.N, s.Max)
	}
	if !aeq(s.Mean, 2) {
		t.Errorf("mean = %v, want 2", s.Mean)
	}
}

func TestCountTrimOverTrim(t *testing.T) {
	// Trimming that would retain nothing falls back to the full set.
	vals := []float64{1, 2, 3}
	s := Trim{KLow: 2, KHigh: 2, MinSamples: 0}.Aggregate(vals)
	if s.N != 3 {
		t.Errorf("retained %d samples, want untrimmed 3", s.N)
	}
}

func TestQuantileTrimRetention(t *testing.T) {
	check := func(n int, q float64) {
		t.Helper()
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = float64(i)
		}
		got := TrimQuantile(q, 1).Retained(vals)
		// Interpolated quantile bounds may exclude up to one extra
		// sample per tail on distinct values.
		want := n - 2*int(q*float64(n))
		if got < want-2 || got > want+1 {
			t.Errorf("n=%d q=%v: retained %d, want %d (-2/+1)", n, q, got, want)
		}
		if got <= 0 {
			t.Errorf("n=%d q=%v: retained %d, want positive", n, q, got)
		}
	}
	check(10, 0.05)
	check(12, 0.05)
	check(20, 0.05)
	check(100, 0.05)
	check(10, 0.25)
	check(40, 0.10)
}

func TestQuantileTrimExcludesOutlier(t *testing.T) {
	// 12 trials, one wild outlier; a 5% quantile trim must drop it.
	vals := []float64{10, 10.2, 9.9, 10.1, 10, 9.8, 10.3, 10.1, 9.9, 10.2, 10, 500}
	s := TrimQuantile(0.05, 5).Aggregate(vals)
	if s.Max >= 500 {
		t.Errorf("outlier survived trimming: max = %v", s.Max)
	}
	if s.Mean > 11 {
		t.Errorf("mean = %v, outlier still dominates", s.Mean)
	}
}

func TestQuantileTrimSmallGroup(t *testing.T) {
	// The interpolated bounds stay inside the sample range, so a 5%
	// trim is never a no-op on a dozen distinct trials.
	vals := make([]float64, 12)
	for i := range vals {
		vals[i] = float64(i)
	}
	if got := TrimQuantile(0.05, 5).Retained(vals); got >= len(vals) {
		t.Errorf("retained %d of %d samples, want a real trim", got, len(vals))
	}
}

func TestKeep(t *testing.T) {
	// Keep marks retained samples by index, so a tie at the trim
	// boundary drops exactly as many samples as Aggregate does.
	vals := []float64{5, 3, 5}
	keep := Trim{KHigh: 1}.Keep(vals)
	kept, sum := 0, 0.0
	for i, k := range keep {
		if k {
			kept++
			sum += vals[i]
		}
	}
	if kept != 2 || sum != 8 {
		t.Errorf("kept %d samples totaling %v, want 2 totaling 8", kept, sum)
	}
	if !keep[1] {
		t.Error("high-tail trim dropped the smallest sample")
	}

	// Below MinSamples nothing is dropped.
	for i, k := range TrimQuantile(0.05, 5).Keep([]float64{1, 2, 100}) {
		if !k {
			t.Errorf("sample %d dropped below MinSamples", i)
		}
	}

	// Keep and Aggregate agree on the retained count.
	vals = []float64{10, 10.2, 9.9, 10.1, 10, 9.8, 10.3, 10.1, 9.9, 10.2, 10, 500}
	tr := TrimQuantile(0.05, 5)
	n := 0
	for _, k := range tr.Keep(vals) {
		if k {
			n++
		}
	}
	if want := tr.Aggregate(vals).N; n != want {
		t.Errorf("Keep retains %d samples, Aggregate retains %d", n, want)
	}
}

func TestSingleSample(t *testing.T) {
	s := MeanStd([]float64{42})
	if !aeq(s.Mean, 42) || !aeq(s.Std, 0) || s.N != 1 {
		t.Errorf("MeanStd([42]) = %+v, want mean=42 std=0 n=1", s)
	}
}
