// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fiojson

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Sweep result files encode their configuration in the file name, as in
// bs_rand_64k_read_r1.json or qd_rand_4k_qd8_r2.json: underscore-
// separated tokens for access pattern, block size, direction, and
// numbered parameters.

// IntParam extracts the integer parameter named key from a result file
// name, matching a whole "key<digits>" token. For example,
// IntParam("qd_rand_4k_qd8_r2.json", "qd") is 8, and the "r" of "_r2"
// does not collide with "rand".
func IntParam(name, key string) (int, bool) {
	re := regexp.MustCompile(`(?:^|_)` + regexp.QuoteMeta(key) + `(\d+)(?:_|\.|$)`)
	m := re.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// Param reports which of the candidate tokens appears in the file name,
// as a whole underscore-separated token. It is used for access pattern
// (rand, seq) and direction (read, write) tokens.
func Param(name string, candidates ...string) (string, bool) {
	base := strings.TrimSuffix(name, ".json")
	for _, tok := range strings.Split(base, "_") {
		for _, c := range candidates {
			if tok == c {
				return c, true
			}
		}
	}
	return "", false
}

var blockSizeRE = regexp.MustCompile(`(?:^|_)(\d+)([kmg])(?:_|\.|$)`)

// BlockSize extracts the block size token of a result file name, such
// as "4k" or "1m".
func BlockSize(name string) (string, bool) {
	m := blockSizeRE.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1] + m[2], true
}

// BlockSizeBytes converts a block size token like "4k", "64k", or "1m"
// into bytes.
func BlockSizeBytes(tok string) (int64, error) {
	if len(tok) < 2 {
		return 0, fmt.Errorf("malformed block size %q", tok)
	}
	n, err := strconv.ParseInt(tok[:len(tok)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed block size %q", tok)
	}
	switch tok[len(tok)-1] {
	case 'k', 'K':
		return n << 10, nil
	case 'm', 'M':
		return n << 20, nil
	case 'g', 'G':
		return n << 30, nil
	}
	return 0, fmt.Errorf("malformed block size %q", tok)
}
