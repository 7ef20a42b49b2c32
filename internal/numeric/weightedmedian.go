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

package numeric

import "sort"

// WeightedPair is one (value, weight) sample feeding a weighted median.
// Weights are assumed strictly positive and values non-NaN; callers strip
// zero-weight taps and NaN values before building the pair slice.
type WeightedPair struct {
	Value  float64
	Weight float64
}

// WeightedMedian returns the weighted median of pairs, using the
// cumulative-weight scan: sort ascending by value (stable, so equal values
// keep the walker's original relative order - spec.md's tie-break rule),
// then walk the cumulative weight looking for the smallest prefix whose
// sum reaches half the total weight. If that prefix's cumulative weight
// lands exactly on the half point and a next element exists, the result is
// the average of the straddling pair; otherwise it is the element that
// crossed the half point. pairs is reordered in place.
//
// Callers must ensure len(pairs) > 0; an empty window is a degeneracy
// resolved by the caller returning NaN without calling this function.
func WeightedMedian(pairs []WeightedPair) float64 {
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Value < pairs[j].Value })

	var total float64
	for _, p := range pairs {
		total += p.Weight
	}
	half := total / 2

	var cum float64
	for i, p := range pairs {
		cum += p.Weight
		switch {
		case cum > half:
			return p.Value
		case cum == half:
			if i+1 < len(pairs) {
				return (p.Value + pairs[i+1].Value) / 2
			}
			return p.Value
		}
	}
	// total weight was zero (shouldn't happen: zero-weight taps are
	// dropped upstream) - fall back to the last value.
	return pairs[len(pairs)-1].Value
}
