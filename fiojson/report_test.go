// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fiojson

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleReport = `{
  "jobs": [{
    "jobname": "randread",
    "read": {
      "iops": 51234.5,
      "bw": 204938,
      "clat_ns": {
        "mean": 124531.2,
        "percentile": {"95.000000": 250123, "99.000000": 410772}
      }
    },
    "write": {"iops": 0, "bw": 0, "clat_ns": {"mean": 0}},
    "latency_us": {"100": 20.5, "250": 79.5},
    "latency_ms": {}
  }]
}`

func writeFile(t *testing.T, dir, name, data string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "qd_rand_4k_qd8_r1.json", sampleReport)

	r, err := Load(filepath.Join(dir, "qd_rand_4k_qd8_r1.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	job := r.Jobs[0]
	if job.Read.IOPS != 51234.5 {
		t.Errorf("read iops = %v, want 51234.5", job.Read.IOPS)
	}
	// bw is in KiB/s; 204938 KiB/s is 204938/1024 MB/s.
	if got := job.Read.BandwidthMBps(); !aeq(got, 200.134765625) {
		t.Errorf("read bandwidth = %v MB/s, want 200.134765625", got)
	}
	if got := job.Read.ClatNS.PercentileUS(99); !aeq(got, 410.772) {
		t.Errorf("p99 = %v us, want 410.772", got)
	}
}

func TestLoadNoJobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.json", `{"jobs": []}`)
	if _, err := Load(filepath.Join(dir, "empty.json")); err == nil {
		t.Error("Load of empty report succeeded, want error")
	}
}

func TestLoadDirSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "qd_rand_4k_qd1_r1.json", sampleReport)
	writeFile(t, dir, "qd_rand_4k_qd2_r1.json", "{truncated")
	writeFile(t, dir, "bs_rand_4k_read_r1.json", sampleReport)

	var warned []error
	reports, err := LoadDir(dir, "qd_*.json", func(err error) { warned = append(warned, err) })
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(reports) != 1 {
		t.Errorf("loaded %d reports, want 1", len(reports))
	}
	if _, ok := reports["qd_rand_4k_qd1_r1.json"]; !ok {
		t.Error("good report missing from result")
	}
	if len(warned) != 1 {
		t.Errorf("got %d warnings, want 1", len(warned))
	}
}
