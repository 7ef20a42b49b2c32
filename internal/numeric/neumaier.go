// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package numeric holds the reusable numerical primitives shared by the
// reducers: Neumaier compensated summation, the arch-dispatched weighted
// variance sum and the weighted-median scan used by the median reducer.
package numeric

import "math"

// NeumaierSum accumulates a running sum with Neumaier's compensation term,
// recovering precision lost to floating point cancellation in long running
// sums. Enumeration order of addends affects the result bit-for-bit, by
// design - spec.md requires the walker's deterministic order to make this
// reproducible across runs and thread counts.
type NeumaierSum struct {
	s float64 // running sum
	c float64 // running compensation
}

// Add folds y into the running sum.
func (n *NeumaierSum) Add(y float64) {
	t := n.s + y
	if math.Abs(n.s) >= math.Abs(y) {
		n.c += (n.s - t) + y
	} else {
		n.c += (y - t) + n.s
	}
	n.s = t
}

// Value returns the compensated sum.
func (n *NeumaierSum) Value() float64 {
	return n.s + n.c
}

// NeumaierSumFloat64 sums xs with Neumaier compensation, addend by addend
// in slice order. Equivalent to repeated NeumaierSum.Add in a loop; exists
// as a convenience for callers that already have a complete slice.
func NeumaierSumFloat64(xs []float64) float64 {
	var acc NeumaierSum
	for _, x := range xs {
		acc.Add(x)
	}
	return acc.Value()
}
