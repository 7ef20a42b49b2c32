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

// WeightedMedian returns the NaN-aware, weight-respecting median of
// samples: non-NaN, non-zero-weight pairs are sorted ascending by value
// (stable, preserving the walker's enumeration order on ties), then the
// smallest prefix crossing half the total weight determines the result,
// averaging the straddling pair on an exact split. An empty effective
// window returns NaN. The walker already drops zero-weight taps, but this
// filters defensively per spec step 1 in case a caller hands it a raw
// sample slice from elsewhere.
func WeightedMedian(samples []walk.Sample, scratch *Scratch) float64 {
	pairs := nonNaNPairs(scratch, samples)
	n := 0
	for _, p := range pairs {
		if p.Weight != 0 {
			pairs[n] = p
			n++
		}
	}
	pairs = pairs[:n]
	if len(pairs) == 0 {
		return math.NaN()
	}
	return numeric.WeightedMedian(pairs)
}
