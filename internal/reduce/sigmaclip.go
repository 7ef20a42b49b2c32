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

// CenterChoice selects whether sigma-clipping recentres on the weighted
// mean or the weighted median at each iteration.
type CenterChoice int

const (
	CenterMean CenterChoice = iota
	CenterMedian
)

// SigmaClip runs the iterative outlier-rejection fixpoint over samples and
// reports the final centre plus whether the window's own centre sample
// (the one the walker's CenterTapIndex names) was clipped, or was NaN to
// begin with. sigmaLower/sigmaUpper are nil when that side is unbounded;
// at least one must be non-nil (the façade enforces this as a ConfigError
// before calling in). maxIters <= 0 means iterate to convergence with no
// cap; kept-set shrinkage guarantees termination regardless.
//
// The masked, iterative nature of this reducer (unlike the dense-array
// sum/mean/stddev reducers) means it does not route through
// numeric.WeightedVarianceSum's AVX2-gated path - there is no fixed dense
// array to hand it each round, only a shrinking live subset.
func SigmaClip(samples []walk.Sample, centerTapIndex int, center CenterChoice, sigmaLower, sigmaUpper *float64, maxIters int, neumaier bool, scratch *Scratch) (mu float64, centerClipped bool) {
	values := scratch.values[:0]
	weights := scratch.weights[:0]
	kept := scratch.kept[:0]
	centerIdx := -1
	centerWasNaN := centerTapIndex >= 0 && math.IsNaN(samples[centerTapIndex].Value)

	for i, s := range samples {
		if math.IsNaN(s.Value) || s.Weight == 0 {
			continue
		}
		if i == centerTapIndex {
			centerIdx = len(values)
		}
		values = append(values, s.Value)
		weights = append(weights, s.Weight)
		kept = append(kept, true)
	}
	scratch.kept = kept

	if centerWasNaN {
		centerClipped = true
	}
	if len(values) == 0 {
		return math.NaN(), centerClipped
	}

	iter := 0
	for {
		n, lastIdx := 0, -1
		for i, k := range kept {
			if k {
				n++
				lastIdx = i
			}
		}
		if n == 0 {
			return math.NaN(), centerClipped
		}
		if n == 1 {
			return values[lastIdx], centerClipped
		}

		thisMu := weightedCenter(values, weights, kept, center, neumaier, scratch)
		thisSigma := weightedSigma(values, weights, kept, thisMu)

		newlyClipped := false
		for i, k := range kept {
			if !k {
				continue
			}
			clip := false
			if sigmaLower != nil && values[i] < thisMu-*sigmaLower*thisSigma {
				clip = true
			} else if sigmaUpper != nil && values[i] > thisMu+*sigmaUpper*thisSigma {
				clip = true
			}
			if clip {
				kept[i] = false
				newlyClipped = true
				if i == centerIdx {
					centerClipped = true
				}
			}
		}

		iter++
		if !newlyClipped {
			return thisMu, centerClipped
		}
		if maxIters > 0 && iter >= maxIters {
			return thisMu, centerClipped
		}
	}
}

func weightedCenter(values, weights []float64, kept []bool, center CenterChoice, neumaier bool, scratch *Scratch) float64 {
	if center == CenterMedian {
		return maskedWeightedMedian(values, weights, kept, scratch)
	}
	if neumaier {
		var num, den numeric.NeumaierSum
		for i, k := range kept {
			if !k {
				continue
			}
			num.Add(weights[i] * values[i])
			den.Add(weights[i])
		}
		return num.Value() / den.Value()
	}
	var num, den float64
	for i, k := range kept {
		if !k {
			continue
		}
		num += weights[i] * values[i]
		den += weights[i]
	}
	return num / den
}

func weightedSigma(values, weights []float64, kept []bool, mu float64) float64 {
	var sumSqDiff, sumW float64
	for i, k := range kept {
		if !k {
			continue
		}
		d := values[i] - mu
		sumSqDiff += weights[i] * d * d
		sumW += weights[i]
	}
	return math.Sqrt(sumSqDiff / sumW)
}

func maskedWeightedMedian(values, weights []float64, kept []bool, scratch *Scratch) float64 {
	pairs := scratch.sigmaPairs[:0]
	for i, k := range kept {
		if k {
			pairs = append(pairs, numeric.WeightedPair{Value: values[i], Weight: weights[i]})
		}
	}
	return numeric.WeightedMedian(pairs)
}
