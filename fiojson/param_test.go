// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fiojson

import "testing"

func TestIntParam(t *testing.T) {
	check := func(name, key string, want int, wantOK bool) {
		t.Helper()
		got, ok := IntParam(name, key)
		if got != want || ok != wantOK {
			t.Errorf("IntParam(%q, %q) = %d, %v; want %d, %v", name, key, got, ok, want, wantOK)
		}
	}
	check("qd_rand_4k_qd8_r2.json", "qd", 8, true)
	check("qd_rand_4k_qd128_r1.json", "qd", 128, true)
	check("mix_rand_4k_rwmix70_r1.json", "rwmix", 70, true)
	check("qd_rand_4k_qd8_r2.json", "r", 2, true)
	// "r" must not match the "r" of "rand".
	check("bs_rand_4k_read_r10.json", "r", 10, true)
	check("bs_rand_4k_read_r1.json", "qd", 0, false)
}

func TestParam(t *testing.T) {
	if got, ok := Param("bs_rand_64k_write_r1.json", "rand", "seq"); !ok || got != "rand" {
		t.Errorf("pattern = %q, %v; want rand, true", got, ok)
	}
	if got, ok := Param("zeroq_seq_1m_write_r1.json", "read", "write"); !ok || got != "write" {
		t.Errorf("direction = %q, %v; want write, true", got, ok)
	}
	if _, ok := Param("bs_rand_64k_r1.json", "read", "write"); ok {
		t.Error("direction matched a name without one")
	}
}

func TestBlockSize(t *testing.T) {
	tok, ok := BlockSize("bs_seq_64k_read_r3.json")
	if !ok || tok != "64k" {
		t.Fatalf("BlockSize = %q, %v; want 64k, true", tok, ok)
	}
	check := func(tok string, want int64) {
		t.Helper()
		got, err := BlockSizeBytes(tok)
		if err != nil || got != want {
			t.Errorf("BlockSizeBytes(%q) = %d, %v; want %d, nil", tok, got, err, want)
		}
	}
	check("4k", 4096)
	check("64k", 65536)
	check("1m", 1<<20)
	check("2g", 2<<30)
	if _, err := BlockSizeBytes("huge"); err == nil {
		t.Error("BlockSizeBytes(huge) succeeded, want error")
	}
}
