// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"
	"testing"

	"github.com/mbsuite/benchplot/benchtab"
)

func readAlign(t *testing.T, data string) []benchtab.Row {
	t.Helper()
	r, err := benchtab.NewReader(strings.NewReader(data), "test.csv", alignSchema)
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

func TestScenarioCellsMergeSpellings(t *testing.T) {
	// "1"/"0" and "True"/"False" spell the same scenario; the trials
	// must land in one cell instead of the last spelling winning.
	data := "kernel,n,misaligned,tail_multiple,gflops\n" +
		"saxpy,1024,1,0,10\n" +
		"saxpy,1024,True,False,12\n" +
		"saxpy,1024,0,1,20\n"
	cells := scenarioCells(readAlign(t, data), 0)

	c := cells[scenario{true, false}][1024]
	if c.gflops.N != 2 {
		t.Fatalf("misaligned+tail cell has %d trials, want 2", c.gflops.N)
	}
	if c.gflops.Mean != 11 {
		t.Errorf("misaligned+tail mean = %v, want 11", c.gflops.Mean)
	}
	if got := cells[scenario{false, true}][1024].gflops.N; got != 1 {
		t.Errorf("baseline cell has %d trials, want 1", got)
	}
}

func TestScenarioCellsSkipsMalformed(t *testing.T) {
	data := "kernel,n,misaligned,tail_multiple,gflops\n" +
		"saxpy,1024,0,1,10\n" +
		"saxpy,1024,0,1,oops\n"
	cells := scenarioCells(readAlign(t, data), 0)
	if got := cells[scenario{false, true}][1024].gflops.N; got != 1 {
		t.Errorf("cell has %d trials, want 1 after dropping the malformed value", got)
	}
}
