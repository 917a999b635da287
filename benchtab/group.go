// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// A KV is one column/value pair of a group key.
type KV struct {
	Col   string
	Value string
}

// A Key identifies a group of rows by the values of the grouped
// columns, in the order they were given to GroupBy.
type Key []KV

// Get returns the key's value for col, or "" if col is not part of the
// key.
func (k Key) Get(col string) string {
	for _, kv := range k {
		if kv.Col == col {
			return kv.Value
		}
	}
	return ""
}

// Num returns the key's value for col parsed as a float64.
func (k Key) Num(col string) (float64, error) {
	return strconv.ParseFloat(k.Get(col), 64)
}

func (k Key) String() string {
	parts := make([]string, len(k))
	for i, kv := range k {
		parts[i] = kv.Col + "=" + kv.Value
	}
	return strings.Join(parts, " ")
}

// A Group is the set of rows sharing a key.
type Group struct {
	Key  Key
	Rows []Row
}

// Column gathers the numeric values of col across the group's rows. It
// skips rows whose cell failed to parse or is NaN and returns the
// number skipped, so callers can warn without aborting the group.
func (g *Group) Column(col string) (values []float64, bad int) {
	for _, row := range g.Rows {
		v, err := row.Num(col)
		if err != nil || math.IsNaN(v) {
			bad++
			continue
		}
		values = append(values, v)
	}
	return values, bad
}

// GroupBy partitions rows by the raw values of cols. Groups are ordered
// by key, comparing each key column numerically when both values parse
// as numbers and lexically otherwise, so sweeps over sizes or depths
// come out in their natural order.
func GroupBy(rows []Row, cols ...string) []Group {
	order := make(map[string]int)
	groups := []Group{}
	for _, row := range rows {
		key := make(Key, len(cols))
		for i, c := range cols {
			key[i] = KV{c, row.Str(c)}
		}
		ks := key.String()
		i, ok := order[ks]
		if !ok {
			i = len(groups)
			order[ks] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return keyLess(groups[i].Key, groups[j].Key)
	})
	return groups
}

func keyLess(a, b Key) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		av, bv := a[i].Value, b[i].Value
		if av == bv {
			continue
		}
		an, aerr := strconv.ParseFloat(av, 64)
		bn, berr := strconv.ParseFloat(bv, 64)
		if aerr == nil && berr == nil {
			return an < bn
		}
		return av < bv
	}
	return false
}
