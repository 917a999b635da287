// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
)

// pow2Ticks ticks a log-scaled axis at powers of two. Size and stride
// sweeps double at each step, so decade ticks leave most points
// unlabeled.
type pow2Ticks struct{}

// Ticks implements plot.Ticker.
func (pow2Ticks) Ticks(min, max float64) []plot.Tick {
	if min <= 0 {
		min = 1
	}
	var ticks []plot.Tick
	lo := int(math.Floor(math.Log2(min)))
	hi := int(math.Ceil(math.Log2(max)))
	// Label at most ~12 ticks, at every 2^step exponents.
	step := (hi - lo + 11) / 12
	if step < 1 {
		step = 1
	}
	for e := lo; e <= hi; e++ {
		v := math.Pow(2, float64(e))
		if v < min || v > max {
			continue
		}
		t := plot.Tick{Value: v}
		if (e-lo)%step == 0 {
			t.Label = pow2Label(v)
		}
		ticks = append(ticks, t)
	}
	return ticks
}

func pow2Label(v float64) string {
	switch {
	case v >= 1<<30:
		return fmt.Sprintf("%gG", v/(1<<30))
	case v >= 1<<20:
		return fmt.Sprintf("%gM", v/(1<<20))
	case v >= 1<<10:
		return fmt.Sprintf("%gK", v/(1<<10))
	}
	return fmt.Sprintf("%g", v)
}
