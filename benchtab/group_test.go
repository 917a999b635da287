// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"bytes"
	"testing"
)

func TestGroupBy(t *testing.T) {
	rows := readAll(t, `kernel,n,gflops
saxpy,1024,10
dot,1024,20
saxpy,128,11
saxpy,1024,12
dot,128,21
`)
	groups := GroupBy(rows, "kernel", "n")
	if len(groups) != 4 {
		t.Fatalf("got %d groups, want 4", len(groups))
	}
	// Lexical on kernel, numeric on n: 128 sorts before 1024.
	want := []string{"kernel=dot n=128", "kernel=dot n=1024", "kernel=saxpy n=128", "kernel=saxpy n=1024"}
	for i, g := range groups {
		if got := g.Key.String(); got != want[i] {
			t.Errorf("group %d key = %q, want %q", i, got, want[i])
		}
	}
	if got := len(groups[3].Rows); got != 2 {
		t.Errorf("saxpy/1024 has %d rows, want 2", got)
	}
}

func TestGroupColumn(t *testing.T) {
	rows := readAll(t, "kernel,n,gflops\nsaxpy,8,10\nsaxpy,8,bad\nsaxpy,8,12\n")
	groups := GroupBy(rows, "kernel")
	vals, bad := groups[0].Column("gflops")
	if bad != 1 {
		t.Errorf("bad = %d, want 1", bad)
	}
	if len(vals) != 2 || vals[0] != 10 || vals[1] != 12 {
		t.Errorf("values = %v, want [10 12]", vals)
	}
}

func TestKeyNum(t *testing.T) {
	key := Key{{"kernel", "saxpy"}, {"n", "4096"}}
	if v, err := key.Num("n"); err != nil || v != 4096 {
		t.Errorf("Num(n) = %v, %v; want 4096, nil", v, err)
	}
	if got := key.Get("missing"); got != "" {
		t.Errorf("Get(missing) = %q, want empty", got)
	}
}

func TestSummaryWriter(t *testing.T) {
	var buf bytes.Buffer
	sw, err := NewSummaryWriter(&buf, []string{"kernel", "n"}, []string{"mean", "std"})
	if err != nil {
		t.Fatalf("NewSummaryWriter: %v", err)
	}
	key := Key{{"kernel", "saxpy"}, {"n", "1024"}}
	if err := sw.WriteRow(key, 12.5, 0.25); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := sw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	want := "kernel,n,mean,std\nsaxpy,1024,12.5,0.25\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
