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

	"github.com/avoyeux/rsliding/internal/numeric"
	"github.com/avoyeux/rsliding/internal/walk"
)

// WeightedStdDev returns the population standard deviation and the mean of
// the non-NaN samples, two-pass: mean first, then Sum(w*(x-mean)^2)/Sum(w).
// Weights are reliability weights, not frequency weights - no Bessel
// correction. An empty effective window returns (NaN, NaN).
func WeightedStdDev(samples []walk.Sample, neumaier bool, scratch *Scratch) (stddev, mean float64) {
	pairs := nonNaNPairs(scratch, samples)
	if len(pairs) == 0 {
		return math.NaN(), math.NaN()
	}
	mean = weightedMeanFromPairs(pairs, neumaier, scratch)
	if math.IsNaN(mean) {
		return math.NaN(), math.NaN()
	}

	// weightedMeanFromPairs's non-Neumaier path also borrows
	// scratch.values/weights, but only for the duration of that call -
	// safe to reuse them here for the second pass.
	values := scratch.values[:0]
	weights := scratch.weights[:0]
	for _, p := range pairs {
		values = append(values, p.Value)
		weights = append(weights, p.Weight)
	}

	var variance, totalWeight float64
	if neumaier {
		var num, den numeric.NeumaierSum
		for i, v := range values {
			d := v - mean
			num.Add(weights[i] * d * d)
			den.Add(weights[i])
		}
		variance, totalWeight = num.Value(), den.Value()
	} else {
		variance = numeric.WeightedVarianceSum(values, weights, mean)
		for _, w := range weights {
			totalWeight += w
		}
	}
	if totalWeight == 0 {
		return math.NaN(), math.NaN()
	}
	return math.Sqrt(variance / totalWeight), mean
}
