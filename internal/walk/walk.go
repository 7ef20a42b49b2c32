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

// Package walk implements the sliding-window walker: for a given output
// coordinate, it enumerates the (value, weight) pairs contributed by a
// kernel's non-zero taps, in deterministic row-major kernel order. Taps
// are precomputed once per operation as flat offset deltas into the
// padded array, the same trick the teacher's own MedianFilterLine3x3PureGo
// uses for its fixed 3x3 footprint (manual offset arithmetic instead of
// per-sample multi-index decomposition), generalised here to an arbitrary
// odd kernel of any rank - so one flat, branch-free loop serves every rank
// instead of hand-unrolling ranks 1-4 separately, per spec.md's Design
// Notes on keeping the hot path branch-minimal. The dispatcher walks
// output coordinates with an odometer so BaseOffset is an O(1) increment
// per cell rather than a recomputation from scratch.
package walk

import (
	"github.com/avoyeux/rsliding/internal/kernel"
	"github.com/avoyeux/rsliding/internal/ndarray"
)

// Sample is one contributing window element.
type Sample struct {
	Value  float64
	Weight float64
}

// Tap is a precomputed kernel contribution: a linear offset delta (in the
// padded array's stride units) plus the kernel weight at that position.
// Taps are computed once per operation (kernel and padded-array strides
// are fixed across all output coordinates) so the hot per-cell loop is a
// single offset add, not a multi-index recomputation - branch-free, as
// spec.md's Rationale for the walker demands.
type Tap struct {
	Delta  int
	Weight float64
}

// Walker enumerates window samples for a fixed kernel against a fixed
// padded array layout (rank and strides). Build once per operation, reuse
// for every output coordinate.
type Walker struct {
	taps       []Tap
	rank       int
	centerTap  int // index into taps of the kernel's own centre offset, or -1
}

// New builds a Walker for the given kernel and the padded array's strides.
// Taps are enumerated in row-major kernel order (the same order the kernel
// weights are stored in) and zero-weight taps are dropped up front, so the
// hot loop never re-checks weight==0 per cell.
func New(k kernel.Spec, paddedStrides []int) *Walker {
	rank := k.Rank()
	kernelStrides := make([]int, rank)
	acc := 1
	for a := rank - 1; a >= 0; a-- {
		kernelStrides[a] = acc
		acc *= k.Shape[a]
	}

	// The kernel's own centre tap sits at kernel index (k.Shape[a]-1)/2 on
	// every axis (kernel axes are always positive-odd), which lands on
	// delta centerDelta below - not delta 0. Delta 0 is the *top-left
	// corner* tap (kernel index all-zero), since BaseOffset/paddedBase
	// already names the window's top-left corner in the padded array, not
	// its centre; every tap delta is the corner-relative offset added on
	// top of that.
	centerDelta := 0
	for a := 0; a < rank; a++ {
		centerDelta += ((k.Shape[a] - 1) / 2) * paddedStrides[a]
	}

	taps := make([]Tap, 0, len(k.Weights))
	idx := make([]int, rank)
	centerTap := -1
	for off, w := range k.Weights {
		if w == 0 {
			continue
		}
		decompose(off, kernelStrides, idx)
		delta := 0
		for a := 0; a < rank; a++ {
			delta += idx[a] * paddedStrides[a]
		}
		if delta == centerDelta {
			centerTap = len(taps)
		}
		taps = append(taps, Tap{Delta: delta, Weight: w})
	}
	return &Walker{taps: taps, rank: rank, centerTap: centerTap}
}

// CenterTapIndex returns the index within Gather's output slice that holds
// the kernel's own centre sample (the array value at the output coordinate
// itself), or -1 if the centre weight is zero - in which case that sample
// never enters the window at all. Sigma-clip uses this to tell whether the
// output coordinate's own value was among the clipped samples.
func (w *Walker) CenterTapIndex() int { return w.centerTap }

// NumTaps returns the number of non-zero-weight kernel taps, the maximum
// number of samples any single window can contribute - the size a caller
// should allocate per-worker scratch buffers to (per spec.md's Design
// Notes on avoiding per-cell allocation).
func (w *Walker) NumTaps() int { return len(w.taps) }

// Gather fills dst with the window samples for the output coordinate whose
// base offset (in the padded array) is baseOffset, and returns the number
// of samples written (== NumTaps()). dst must have length >= NumTaps();
// reusing one scratch slice per worker avoids per-window allocation.
func (w *Walker) Gather(padded *ndarray.Array, baseOffset int, dst []Sample) int {
	for i, t := range w.taps {
		dst[i] = Sample{Value: padded.Data[baseOffset+t.Delta], Weight: t.Weight}
	}
	return len(w.taps)
}

// BaseOffset returns the padded-array linear offset corresponding to
// output coordinate outputIdx, i.e. the window's top-left corner: kernel
// tap (0,...,0). It is numerically identical to outputIdx's offset under
// the padded array's own strides, with no half-width shift applied -
// because the padded array already carries half-width border cells on
// every low side, output coordinate outputIdx's window happens to start
// exactly at padded offset outputIdx under paddedStrides. The window's
// centre sample (kernel tap ((k.Shape[a]-1)/2, ...)) is reached by adding
// that tap's Delta on top, not by BaseOffset alone; see Walker.centerTap.
func BaseOffset(paddedStrides []int, outputIdx []int) int {
	off := 0
	for a, s := range paddedStrides {
		off += outputIdx[a] * s
	}
	return off
}

func decompose(off int, strides []int, idx []int) {
	for k, s := range strides {
		idx[k] = off / s
		off -= idx[k] * s
	}
}
