// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fiojson reads fio's JSON output format.
//
// It decodes only the fields the plotting tools consume: per-direction
// IOPS, bandwidth, and completion-latency percentiles, plus the
// coarse-grained completion latency histograms that fio splits across
// the latency_ns, latency_us, and latency_ms maps.
package fiojson

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// A Report is the top-level structure of one fio JSON output file.
type Report struct {
	Jobs []Job `json:"jobs"`
}

// A Job holds the statistics of one fio job.
type Job struct {
	Name  string   `json:"jobname"`
	Read  DirStats `json:"read"`
	Write DirStats `json:"write"`

	// Completion latency histograms. Keys are upper bucket bounds in
	// the map's unit ("2", "10", ...), except open buckets spelled
	// ">=2000". Values are the percentage of IOs in the bucket.
	LatencyNS map[string]float64 `json:"latency_ns"`
	LatencyUS map[string]float64 `json:"latency_us"`
	LatencyMS map[string]float64 `json:"latency_ms"`
}

// DirStats holds one I/O direction's statistics.
type DirStats struct {
	IOPS   float64 `json:"iops"`
	BWKiBs float64 `json:"bw"`
	ClatNS Clat    `json:"clat_ns"`
}

// BandwidthMBps returns the direction's bandwidth in MB/s. fio reports
// bw in KiB/s; the conversion divides by 1024.
func (d DirStats) BandwidthMBps() float64 {
	return d.BWKiBs / 1024
}

// Clat holds completion latency statistics in nanoseconds.
type Clat struct {
	Mean       float64            `json:"mean"`
	Percentile map[string]float64 `json:"percentile"`
}

// PercentileUS returns the p'th completion latency percentile in
// microseconds, or NaN if fio did not record that percentile. fio keys
// percentiles with six-decimal strings such as "99.900000"; lookup
// compares the parsed key values so caller formatting does not matter.
func (c Clat) PercentileUS(p float64) float64 {
	if v, ok := c.Percentile[fmt.Sprintf("%f", p)]; ok {
		return v / 1e3
	}
	for k, v := range c.Percentile {
		kp, err := strconv.ParseFloat(k, 64)
		if err == nil && math.Abs(kp-p) < 1e-6 {
			return v / 1e3
		}
	}
	return math.NaN()
}

// MeanUS returns the mean completion latency in microseconds.
func (c Clat) MeanUS() float64 {
	return c.Mean / 1e3
}

// Load reads and decodes the fio JSON report at path. It returns an
// error if the file has no jobs.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(r.Jobs) == 0 {
		return nil, fmt.Errorf("%s: no jobs in report", path)
	}
	return &r, nil
}

// LoadDir loads every fio report under dir whose base name matches
// pattern (in filepath.Match syntax), keyed by base name. Files that
// fail to load are skipped and reported through warn; a nil warn
// discards them. A file that fio aborted mid-write decodes as garbage,
// so one bad report must not sink a whole sweep.
func LoadDir(dir, pattern string, warn func(error)) (map[string]*Report, error) {
	if warn == nil {
		warn = func(error) {}
	}
	names, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	reports := make(map[string]*Report)
	for _, name := range names {
		r, err := Load(name)
		if err != nil {
			warn(err)
			continue
		}
		reports[filepath.Base(name)] = r
	}
	return reports, nil
}
