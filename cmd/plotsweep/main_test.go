// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mbsuite/benchplot/benchagg"
	"github.com/mbsuite/benchplot/benchtab"
)

func readSweep(t *testing.T, data string) []benchtab.Row {
	t.Helper()
	r, err := benchtab.NewReader(strings.NewReader(data), "test.csv", sweepSchema, "mode", "SIMD")
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	var rows []benchtab.Row
	for r.Scan() {
		rows = append(rows, r.Row())
	}
	if err := r.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	return rows
}

func TestAggregateCPEFollowsTrim(t *testing.T) {
	// The trial whose gflops value is trimmed must not contribute
	// its cpe to the configuration mean.
	var sb strings.Builder
	sb.WriteString("kernel,dtype,n,misaligned,tail_multiple,gflops,cpe\n")
	for i := 0; i < 11; i++ {
		fmt.Fprintf(&sb, "saxpy,f32,4096,0,1,%g,2\n", 10+float64(i)/100)
	}
	sb.WriteString("saxpy,f32,4096,0,1,500,999\n")

	configs := aggregate(readSweep(t, sb.String()), benchagg.TrimQuantile(0.05, 5))
	if len(configs) != 1 {
		t.Fatalf("got %d configurations, want 1", len(configs))
	}
	c := configs[0]
	if c.gflops.Max >= 500 {
		t.Errorf("outlier survived trimming: max gflops = %v", c.gflops.Max)
	}
	if c.cpe > 3 {
		t.Errorf("cpe mean = %v, includes a trimmed trial", c.cpe)
	}
}

func TestAggregateNormalizesScenario(t *testing.T) {
	data := "kernel,dtype,n,misaligned,tail_multiple,gflops,cpe\n" +
		"saxpy,f32,1024,True,False,10,2\n" +
		"saxpy,f32,1024,1,0,12,2\n"
	configs := aggregate(readSweep(t, data), benchagg.Trim{})
	for _, c := range configs {
		if c.mis != "1" || c.tail != "0" {
			t.Errorf("got mis=%q tail=%q, want normalized 1/0", c.mis, c.tail)
		}
	}
}
