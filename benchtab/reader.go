// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// A Reader reads rows from a single CSV result file.
//
// The caller should loop over Scan, calling Row on each iteration, and
// check Err once Scan returns false:
//
//	r, err := benchtab.NewReader(f, path, schema)
//	...
//	for r.Scan() {
//		row := r.Row()
//		...
//	}
//	if err := r.Err(); err != nil {
//		...
//	}
type Reader struct {
	cr   *csv.Reader
	file string
	line int

	// names[i] is the canonical name of CSV column i.
	names []string
	// numeric[i] reports whether CSV column i parses as float64.
	numeric []bool
	// consts are fields attached to every row, such as ".file".
	consts map[string]Field

	row Row
	err error
}

// NewReader constructs a Reader over r, resolving the first record as
// the header against schema. fileName is used for error reporting and
// becomes the rows' ".file" field. consts is an alternating sequence of
// key and value strings attached as constant fields to every row.
//
// It returns a *SyntaxError if the header is missing a required column
// or if consts has an odd length.
func NewReader(r io.Reader, fileName string, schema Schema, consts ...string) (*Reader, error) {
	if len(consts)%2 != 0 {
		return nil, fmt.Errorf("constant fields must be alternating key/value pairs")
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SyntaxError{fileName, 1, "missing header"}
	} else if err != nil {
		return nil, err
	}

	names := make([]string, len(header))
	numeric := make([]bool, len(header))
	seen := make(map[string]bool)
	for i, h := range header {
		if c := schema.resolve(h); c != nil {
			names[i] = c.Name
			numeric[i] = c.Numeric
		} else {
			names[i] = strings.ToLower(strings.TrimSpace(h))
		}
		seen[names[i]] = true
	}
	for _, c := range schema.Columns {
		if c.Required && !seen[c.Name] {
			return nil, &SyntaxError{fileName, 1, fmt.Sprintf("missing required column %q", c.Name)}
		}
	}

	cf := map[string]Field{".file": {Raw: fileName}}
	for i := 0; i < len(consts); i += 2 {
		cf[consts[i]] = Field{Raw: consts[i+1]}
	}

	return &Reader{
		cr:      cr,
		file:    fileName,
		line:    1,
		names:   names,
		numeric: numeric,
		consts:  cf,
	}, nil
}

// Scan advances the reader to the next row and reports whether one is
// available. Cells in numeric columns are parsed now; a cell that fails
// to parse does not stop the scan, but records its error in the row's
// Field so the caller can skip or report it.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	rec, err := r.cr.Read()
	if err == io.EOF {
		return false
	} else if err != nil {
		r.err = err
		return false
	}
	r.line++

	fields := make(map[string]Field, len(rec)+len(r.consts))
	for k, v := range r.consts {
		fields[k] = v
	}
	for i, cell := range rec {
		if i >= len(r.names) {
			break
		}
		f := Field{Raw: cell}
		if r.numeric[i] {
			f.Num, f.Err = strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if f.Err != nil {
				f.Err = &SyntaxError{r.file, r.line, fmt.Sprintf("column %q: malformed number %q", r.names[i], cell)}
			}
		}
		fields[r.names[i]] = f
	}

	r.row = Row{File: r.file, Line: r.line, fields: fields}
	return true
}

// Row returns the row scanned by the last call to Scan. The Row remains
// valid after further calls to Scan.
func (r *Reader) Row() Row {
	return r.row
}

// Err returns the first I/O or CSV framing error encountered by Scan.
// Per-cell parse failures are reported through Field.Err, not here.
func (r *Reader) Err() error {
	return r.err
}
