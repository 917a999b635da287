// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mbsuite/benchplot/benchagg"
)

// TestTrimmedPipeline runs a sweep group end to end: CSV in, grouped,
// quantile-trimmed, aggregated. One of twelve trials is a wild outlier
// and must not survive into the mean.
func TestTrimmedPipeline(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("kernel,n,gflops\n")
	trials := []float64{10.1, 9.9, 10.0, 10.2, 9.8, 10.1, 10.0, 9.9, 10.3, 10.0, 10.1, 480}
	for _, v := range trials {
		fmt.Fprintf(&sb, "saxpy,4096,%g\n", v)
	}

	r, err := NewReader(strings.NewReader(sb.String()), "sweep.csv", testSchema)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	var rows []Row
	for r.Scan() {
		rows = append(rows, r.Row())
	}
	if err := r.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}

	groups := GroupBy(rows, "kernel", "n")
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	vals, bad := groups[0].Column("gflops")
	if bad != 0 || len(vals) != 12 {
		t.Fatalf("Column = %d values, %d bad; want 12, 0", len(vals), bad)
	}

	s := benchagg.TrimQuantile(0.05, 5).Aggregate(vals)
	if s.Max >= 480 {
		t.Errorf("outlier survived trimming: max = %v", s.Max)
	}
	if s.Mean < 9.5 || s.Mean > 10.5 {
		t.Errorf("mean = %v, want about 10", s.Mean)
	}
}
