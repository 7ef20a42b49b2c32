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

// Package pad materialises a padded copy of an N-D array under one of
// three border policies (constant, reflect, replicate). Materialising the
// padded array up front lets the hot sliding-window loop use a single
// unconditional addressing formula - the policy branch is paid once per
// operation, not once per sample, mirroring the teacher's own preference
// for precomputed lookup tables over per-pixel branching.
package pad

import (
	"fmt"
	"math"

	"github.com/avoyeux/rsliding/internal/ndarray"
)

// Kind enumerates the three real border policies. The fourth, spec-level
// "none" policy is realised by the caller (internal/sliding) mapping it to
// Constant with a NaN fill value before calling Pad, per the Design Notes'
// chosen resolution of the borders=None open question - the walker and
// reducers never see a fourth kind.
type Kind int

const (
	Constant Kind = iota
	Reflect
	Replicate
)

// Policy is a border policy plus, for Constant, the fill value.
type Policy struct {
	Kind  Kind
	Value float64 // meaningful only when Kind == Constant
}

// BorderError reports a border policy that cannot be applied to the given
// axis, e.g. reflect on an axis too small to mirror.
type BorderError struct {
	Axis int
	Size int
	Msg  string
}

func (e *BorderError) Error() string {
	return fmt.Sprintf("pad: axis %d (size %d): %s", e.Axis, e.Size, e.Msg)
}

// Pad returns a padded copy of data, with halfWidths[a] elements of border
// added on each side of axis a. padded.Shape[a] = data.Shape[a] + 2*halfWidths[a].
func Pad(data *ndarray.Array, halfWidths []int, policy Policy) (*ndarray.Array, error) {
	rank := data.Rank()
	if len(halfWidths) != rank {
		return nil, fmt.Errorf("pad: halfWidths length %d does not match data rank %d", len(halfWidths), rank)
	}

	paddedShape := make([]int, rank)
	for a := 0; a < rank; a++ {
		paddedShape[a] = data.Shape[a] + 2*halfWidths[a]
	}

	if policy.Kind == Reflect {
		for a := 0; a < rank; a++ {
			if halfWidths[a] > 0 && data.Shape[a] <= 1 {
				return nil, &BorderError{Axis: a, Size: data.Shape[a], Msg: "reflect padding is undefined on an axis of size <= 1"}
			}
		}
	}

	out := ndarray.New(paddedShape)
	idx := make([]int, rank)
	srcIdx := make([]int, rank)
	total := ndarray.NumElements(paddedShape)

	for off := 0; off < total; off++ {
		decompose(off, out.Strides, idx)

		valid := true
		for a := 0; a < rank; a++ {
			si := idx[a] - halfWidths[a]
			switch policy.Kind {
			case Reflect:
				si = reflectIndex(si, data.Shape[a])
			case Replicate:
				si = replicateIndex(si, data.Shape[a])
			default: // Constant
				if si < 0 || si >= data.Shape[a] {
					valid = false
				}
			}
			srcIdx[a] = si
		}

		if policy.Kind == Constant && !valid {
			out.Data[off] = policy.Value
			continue
		}
		out.Data[off] = data.Data[data.Offset(srcIdx)]
	}

	return out, nil
}

// decompose writes the multi-index for linear offset off (given strides)
// into idx, avoiding an allocation per cell in the hot padding loop.
func decompose(off int, strides []int, idx []int) {
	for k, s := range strides {
		idx[k] = off / s
		off -= idx[k] * s
	}
}

// reflectIndex maps an out-of-range index to its reflect-101 mirror:
// index -1 maps to 1, -2 to 2, size to size-2, never repeating the edge
// sample. For offsets beyond one mirror, it extends by repeated mirroring
// modulo 2*(size-1), per spec.md's fallback rule.
func reflectIndex(idx, size int) int {
	if size == 1 {
		return 0
	}
	period := 2 * (size - 1)
	idx %= period
	if idx < 0 {
		idx += period
	}
	if idx >= size {
		idx = period - idx
	}
	return idx
}

// replicateIndex clamps an out-of-range index to the nearest edge element.
func replicateIndex(idx, size int) int {
	if idx < 0 {
		return 0
	}
	if idx >= size {
		return size - 1
	}
	return idx
}

// NaNConstant returns the Policy realising the spec's "none / adaptive
// window" border semantics: constant padding with a NaN fill value.
func NaNConstant() Policy {
	return Policy{Kind: Constant, Value: math.NaN()}
}
