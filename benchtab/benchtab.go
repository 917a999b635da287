// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchtab reads tabular benchmark results from CSV files.
//
// Result files produced by different benchmark harnesses disagree on
// column naming ("GFLOPs" vs "gflops", "size" vs "size_KiB") and on how
// strictly numeric fields are formatted. benchtab normalizes both at
// the ingestion boundary: a Schema maps header aliases onto canonical
// column names once, and every cell is parsed into a Field that records
// either the value or the reason parsing failed, so callers can decide
// whether to log, skip, or abort.
package benchtab

import (
	"fmt"
	"strconv"
	"strings"
)

// A Column describes one canonical column of a result schema.
type Column struct {
	// Name is the canonical column name.
	Name string

	// Aliases are alternate header spellings mapped onto Name.
	// Matching of Name and Aliases is case-insensitive.
	Aliases []string

	// Required marks columns that must be present in the header.
	Required bool

	// Numeric marks columns whose cells are parsed as float64.
	Numeric bool
}

// A Schema is the set of columns a reader resolves a CSV header
// against. Header fields that match no column are still retained under
// their lower-cased header name, so ad hoc extra columns stay
// accessible.
type Schema struct {
	Columns []Column
}

// resolve maps a raw header field to its canonical column, or nil.
func (s *Schema) resolve(header string) *Column {
	h := strings.ToLower(strings.TrimSpace(header))
	for i := range s.Columns {
		c := &s.Columns[i]
		if strings.ToLower(c.Name) == h {
			return c
		}
		for _, a := range c.Aliases {
			if strings.ToLower(a) == h {
				return c
			}
		}
	}
	return nil
}

// A Field is the parsed value of a single CSV cell.
type Field struct {
	// Raw is the cell text as read.
	Raw string

	// Num is the parsed numeric value, valid only when Err is nil
	// and the column is numeric.
	Num float64

	// Err records why numeric parsing failed, if it did.
	Err error
}

// A Row is one record of a result file, keyed by canonical column
// names. Rows also carry constant fields attached at read time (such
// as ".file" or a per-file mode label).
type Row struct {
	// File and Line give the row's position for error reporting.
	File string
	Line int

	fields map[string]Field
}

// Has reports whether the row has a value for col.
func (r Row) Has(col string) bool {
	_, ok := r.fields[col]
	return ok
}

// Str returns the raw string value of col, or "" if absent.
func (r Row) Str(col string) string {
	return r.fields[col].Raw
}

// Num returns the numeric value of col. It returns an error if the
// column is absent or its cell did not parse as a number.
func (r Row) Num(col string) (float64, error) {
	f, ok := r.fields[col]
	if !ok {
		return 0, fmt.Errorf("%s:%d: no column %q", r.File, r.Line, col)
	}
	if f.Err != nil {
		return 0, f.Err
	}
	return f.Num, nil
}

// Int returns the value of col as an int.
func (r Row) Int(col string) (int, error) {
	v, err := r.Num(col)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// Bool interprets col as a boolean flag. It accepts the usual
// true/false spellings as well as numeric 0/1.
func (r Row) Bool(col string) (bool, error) {
	f, ok := r.fields[col]
	if !ok {
		return false, fmt.Errorf("%s:%d: no column %q", r.File, r.Line, col)
	}
	if b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(f.Raw))); err == nil {
		return b, nil
	}
	v, err := r.Num(col)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// A SyntaxError reports a problem at a particular position of a result
// file.
type SyntaxError struct {
	File string
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}
