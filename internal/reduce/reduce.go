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

// Package reduce implements the per-window reducers: weighted sum, mean,
// population standard deviation, NaN-aware weighted median, and the
// iterative sigma-clip fixpoint. Every reducer consumes the samples the
// walker gathered for one output coordinate and returns one or two
// scalars; none of them allocate on the hot path given a reused Scratch.
package reduce

import (
	"math"

	"github.com/avoyeux/rsliding/internal/numeric"
	"github.com/avoyeux/rsliding/internal/walk"
)

// Scratch holds the buffers one worker goroutine reuses across every
// window it reduces, sized once to the walker's maximum tap count. Per
// spec.md's Design Notes on avoiding per-cell allocation churn, one
// Scratch is built per worker and threaded through every reducer call on
// that worker, never shared across goroutines.
type Scratch struct {
	values     []float64
	weights    []float64
	pairs      []numeric.WeightedPair
	sigmaPairs []numeric.WeightedPair // sigma-clip's per-iteration median scratch
	kept       []bool                 // sigma-clip's live mask over its filtered sample set
}

// NewScratch allocates a Scratch sized to hold at most maxTaps samples.
func NewScratch(maxTaps int) *Scratch {
	return &Scratch{
		values:     make([]float64, 0, maxTaps),
		weights:    make([]float64, 0, maxTaps),
		pairs:      make([]numeric.WeightedPair, 0, maxTaps),
		sigmaPairs: make([]numeric.WeightedPair, 0, maxTaps),
		kept:       make([]bool, maxTaps),
	}
}

// nonNaNPairs filters samples into scratch.pairs, dropping NaN values, and
// returns the filtered slice (reusing scratch's backing array).
func nonNaNPairs(scratch *Scratch, samples []walk.Sample) []numeric.WeightedPair {
	pairs := scratch.pairs[:0]
	for _, s := range samples {
		if !math.IsNaN(s.Value) {
			pairs = append(pairs, numeric.WeightedPair{Value: s.Value, Weight: s.Weight})
		}
	}
	return pairs
}
