// Copyright 2024 The benchplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import "math"

// Knee returns the index of the knee of the curve (xs, ys): the point
// with the greatest perpendicular distance from the chord between the
// first and last points, computed on the normalized curve. This is the
// usual heuristic for picking the saturation point of a
// throughput/latency trade-off sweep.
//
// It returns -1 when the curve has fewer than three points or is
// degenerate (all x or all y equal).
func Knee(xs, ys []float64) int {
	n := len(xs)
	if n != len(ys) || n < 3 {
		return -1
	}

	nx := normalize(xs)
	ny := normalize(ys)
	if nx == nil || ny == nil {
		return -1
	}

	// Distance from the chord through (nx[0],ny[0]) and (nx[n-1],ny[n-1]).
	x0, y0 := nx[0], ny[0]
	dx := nx[n-1] - x0
	dy := ny[n-1] - y0
	chord := math.Hypot(dx, dy)
	if chord == 0 {
		return -1
	}

	best, bestDist := -1, 0.0
	for i := 1; i < n-1; i++ {
		d := math.Abs(dx*(y0-ny[i])-dy*(x0-nx[i])) / chord
		if d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func normalize(xs []float64) []float64 {
	min, max := xs[0], xs[0]
	for _, x := range xs {
		min = math.Min(min, x)
		max = math.Max(max, x)
	}
	if max == min {
		return nil
	}
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = (x - min) / (max - min)
	}
	return out
}
