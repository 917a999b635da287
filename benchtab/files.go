// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"os"
	"strings"
)

// ReadFile reads every row of the CSV file at path. consts is an
// alternating sequence of key and value strings attached as constant
// fields to every row, in addition to the ".file" field.
func ReadFile(path string, schema Schema, consts ...string) ([]Row, error) {
	return readFile(path, path, schema, consts...)
}

func readFile(path, label string, schema Schema, consts ...string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := NewReader(f, label, schema, consts...)
	if err != nil {
		return nil, err
	}
	var rows []Row
	for r.Scan() {
		rows = append(rows, r.Row())
	}
	return rows, r.Err()
}

// Files reads rows from a sequence of result files named on the
// command line.
type Files struct {
	// Paths is the list of file names to read. If AllowLabels is
	// set, a name may be prefixed "label=" to override the ".file"
	// field attached to its rows.
	Paths []string

	// Schema resolves each file's header.
	Schema Schema

	// AllowLabels enables "label=path" names in Paths.
	AllowLabels bool
}

// ReadAll reads every row of every file, in order. Each row's ".file"
// field is the file's label.
func (f *Files) ReadAll() ([]Row, error) {
	var all []Row
	for _, name := range f.Paths {
		path, label := name, name
		if f.AllowLabels {
			if i := strings.Index(name, "="); i >= 0 {
				label, path = name[:i], name[i+1:]
			}
		}
		rows, err := readFile(path, label, f.Schema)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	return all, nil
}
