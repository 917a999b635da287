// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
)

// A SummaryWriter writes aggregated group results back out as CSV, one
// row per group.
type SummaryWriter struct {
	cw      *csv.Writer
	keyCols []string
	nVals   int
}

// NewSummaryWriter returns a SummaryWriter whose rows consist of the
// key columns followed by the value columns, and writes the header.
func NewSummaryWriter(w io.Writer, keyCols, valCols []string) (*SummaryWriter, error) {
	sw := &SummaryWriter{
		cw:      csv.NewWriter(w),
		keyCols: keyCols,
		nVals:   len(valCols),
	}
	if err := sw.cw.Write(append(append([]string{}, keyCols...), valCols...)); err != nil {
		return nil, err
	}
	return sw, nil
}

// WriteRow writes one group's key and values. NaN values are written as
// empty cells. len(vals) must match the value columns given to
// NewSummaryWriter.
func (w *SummaryWriter) WriteRow(key Key, vals ...float64) error {
	rec := make([]string, 0, len(w.keyCols)+w.nVals)
	for _, c := range w.keyCols {
		rec = append(rec, key.Get(c))
	}
	for _, v := range vals {
		if math.IsNaN(v) {
			rec = append(rec, "")
			continue
		}
		rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return w.cw.Write(rec)
}

// Flush flushes buffered rows to the underlying writer and returns any
// write error.
func (w *SummaryWriter) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}
