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

// varianceSumImpl computes sum(weights[i] * (values[i]-mean)^2), the
// naive (non-compensated) accumulation used by the weighted population
// standard deviation reducer's second pass. It is swapped per-arch in
// numeric_amd64.go/numeric_noarch.go, the same capability-gated dispatch
// shape the teacher uses for calcVariance - a package-level function
// variable chosen once at init time rather than branching per call.
var varianceSumImpl func(values, weights []float64, mean float64) float64

// WeightedVarianceSum returns sum(weights[i] * (values[i]-mean)^2) over
// the given samples, dispatched to the arch-appropriate implementation.
func WeightedVarianceSum(values, weights []float64, mean float64) float64 {
	return varianceSumImpl(values, weights, mean)
}

// weightedVarianceSumPortable is the straightforward one-pass loop, used
// on every architecture as the fallback and on amd64 when the running CPU
// lacks AVX2.
func weightedVarianceSumPortable(values, weights []float64, mean float64) float64 {
	var sum float64
	for i, v := range values {
		d := v - mean
		sum += weights[i] * d * d
	}
	return sum
}

// weightedVarianceSumUnrolled4 is a 4-wide manually unrolled variant of the
// same loop, grouping terms the way a 4-lane SIMD reduction would. Exists
// to give the AVX2-capable dispatch path in numeric_amd64.go a distinct
// body to select, mirroring the shape of the teacher's
// calcVarianceAVX2/calcVarianceNoAVX2 split without claiming hand-written
// vector assembly this module was never given a verified source for. Its
// result can differ from weightedVarianceSumPortable in the last ULP or
// two, since grouping changes floating point rounding - acceptable here
// because sigma-clip convergence and stddev comparisons in spec.md never
// require bit-exact reproduction across architectures, only determinism
// for a fixed build.
func weightedVarianceSumUnrolled4(values, weights []float64, mean float64) float64 {
	n := len(values)
	var sum float64
	i := 0
	for ; i+4 <= n; i += 4 {
		d0 := values[i] - mean
		d1 := values[i+1] - mean
		d2 := values[i+2] - mean
		d3 := values[i+3] - mean
		sum += weights[i]*d0*d0 + weights[i+1]*d1*d1 + weights[i+2]*d2*d2 + weights[i+3]*d3*d3
	}
	for ; i < n; i++ {
		d := values[i] - mean
		sum += weights[i] * d * d
	}
	return sum
}
