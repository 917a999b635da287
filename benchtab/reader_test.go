// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"errors"
	"strings"
	"testing"
)

var testSchema = Schema{Columns: []Column{
	{Name: "kernel", Required: true},
	{Name: "n", Aliases: []string{"size", "elements"}, Required: true, Numeric: true},
	{Name: "gflops", Aliases: []string{"GFLOPs", "gflop/s"}, Numeric: true},
	{Name: "misaligned", Aliases: []string{"offset_bytes"}},
}}

func readAll(t *testing.T, data string, consts ...string) []Row {
	t.Helper()
	r, err := NewReader(strings.NewReader(data), "test.csv", testSchema, consts...)
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
	return rows
}

func TestHeaderAliases(t *testing.T) {
	// Mixed-case and aliased headers resolve to canonical names.
	rows := readAll(t, "Kernel,Size,GFLOPs\nsaxpy,1024,12.5\n")
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if got := row.Str("kernel"); got != "saxpy" {
		t.Errorf("kernel = %q, want %q", got, "saxpy")
	}
	if got, err := row.Num("n"); err != nil || got != 1024 {
		t.Errorf("n = %v, %v; want 1024, nil", got, err)
	}
	if got, err := row.Num("gflops"); err != nil || got != 12.5 {
		t.Errorf("gflops = %v, %v; want 12.5, nil", got, err)
	}
}

func TestMissingRequiredColumn(t *testing.T) {
	_, err := NewReader(strings.NewReader("kernel,gflops\nsaxpy,1\n"), "test.csv", testSchema)
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("NewReader error = %v, want *SyntaxError", err)
	}
	if !strings.Contains(serr.Msg, `"n"`) {
		t.Errorf("error %q does not name the missing column", serr.Msg)
	}
}

func TestMalformedCell(t *testing.T) {
	// A bad numeric cell is recorded in the Field, not fatal.
	rows := readAll(t, "kernel,n,gflops\nsaxpy,1024,oops\nsaxpy,2048,10\n")
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if _, err := rows[0].Num("gflops"); err == nil {
		t.Error("Num on malformed cell succeeded, want error")
	} else if !strings.Contains(err.Error(), "test.csv:2") {
		t.Errorf("error %q does not carry file:line", err)
	}
	if got := rows[0].Str("gflops"); got != "oops" {
		t.Errorf("Str on malformed cell = %q, want raw text", got)
	}
	if v, err := rows[1].Num("gflops"); err != nil || v != 10 {
		t.Errorf("later row gflops = %v, %v; want 10, nil", v, err)
	}
}

func TestConstFields(t *testing.T) {
	rows := readAll(t, "kernel,n\nsaxpy,8\n", "mode", "simd")
	if got := rows[0].Str(".file"); got != "test.csv" {
		t.Errorf(".file = %q, want %q", got, "test.csv")
	}
	if got := rows[0].Str("mode"); got != "simd" {
		t.Errorf("mode = %q, want %q", got, "simd")
	}
}

func TestBool(t *testing.T) {
	rows := readAll(t, "kernel,n,misaligned\na,1,False\nb,2,1\nc,3,true\n")
	want := []bool{false, true, true}
	for i, row := range rows {
		got, err := row.Bool("misaligned")
		if err != nil || got != want[i] {
			t.Errorf("row %d: Bool(misaligned) = %v, %v; want %v", i, got, err, want[i])
		}
	}
}

func TestMissingColumnAccess(t *testing.T) {
	rows := readAll(t, "kernel,n\nsaxpy,8\n")
	if rows[0].Has("stride") {
		t.Error("Has(stride) = true for absent column")
	}
	if _, err := rows[0].Num("stride"); err == nil {
		t.Error("Num(stride) succeeded for absent column")
	}
}

func TestExtraColumnRetained(t *testing.T) {
	// Columns outside the schema stay accessible by lower-cased name.
	rows := readAll(t, "kernel,n,Threads\nsaxpy,8,4\n")
	if got := rows[0].Str("threads"); got != "4" {
		t.Errorf("threads = %q, want %q", got, "4")
	}
}
