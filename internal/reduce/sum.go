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

package reduce

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/avoyeux/rsliding/internal/numeric"
	"github.com/avoyeux/rsliding/internal/walk"
)

// WeightedSum computes Sum(w*x) over the non-NaN samples, i.e. weighted
// convolution. An all-NaN (or empty) window returns NaN, matching the
// "effective weight zero" degeneracy - never an error.
func WeightedSum(samples []walk.Sample, neumaier bool, scratch *Scratch) float64 {
	pairs := nonNaNPairs(scratch, samples)
	if len(pairs) == 0 {
		return math.NaN()
	}
	if neumaier {
		var acc numeric.NeumaierSum
		for _, p := range pairs {
			acc.Add(p.Weight * p.Value)
		}
		return acc.Value()
	}
	values := scratch.values[:0]
	for _, p := range pairs {
		values = append(values, p.Weight*p.Value)
	}
	return floats.Sum(values)
}

// WeightedMean computes Sum(w*x)/Sum(w) over the non-NaN samples. An empty
// effective window returns NaN.
func WeightedMean(samples []walk.Sample, neumaier bool, scratch *Scratch) float64 {
	pairs := nonNaNPairs(scratch, samples)
	return weightedMeanFromPairs(pairs, neumaier, scratch)
}

// weightedMeanFromPairs computes the weighted mean of an already-filtered
// pair slice, reusing scratch.values for the plain-summation path. Shared
// by WeightedMean and the stddev reducer, which both need a weighted mean
// of the filtered samples without re-filtering NaNs.
func weightedMeanFromPairs(pairs []numeric.WeightedPair, neumaier bool, scratch *Scratch) float64 {
	if len(pairs) == 0 {
		return math.NaN()
	}
	if neumaier {
		var num, den numeric.NeumaierSum
		for _, p := range pairs {
			num.Add(p.Weight * p.Value)
			den.Add(p.Weight)
		}
		w := den.Value()
		if w == 0 {
			return math.NaN()
		}
		return num.Value() / w
	}
	numVals := scratch.values[:0]
	denVals := scratch.weights[:0]
	for _, p := range pairs {
		numVals = append(numVals, p.Weight*p.Value)
		denVals = append(denVals, p.Weight)
	}
	w := floats.Sum(denVals)
	if w == 0 {
		return math.NaN()
	}
	return floats.Sum(numVals) / w
}
