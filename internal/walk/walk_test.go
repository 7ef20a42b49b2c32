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

package walk

import (
	"testing"

	"github.com/avoyeux/rsliding/internal/kernel"
	"github.com/avoyeux/rsliding/internal/ndarray"
	"github.com/avoyeux/rsliding/internal/pad"
)

func TestGatherIdentityKernel(t *testing.T) {
	// 3x3 kernel with only the centre weight set gathers exactly the
	// centre sample, for every output coordinate.
	weights := make([]float64, 9)
	weights[4] = 1 // centre of row-major 3x3
	k, err := kernel.FromWeights([]int{3, 3}, weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data := ndarray.Wrap([]int{2, 2}, []float64{1, 2, 3, 4})
	padded, err := pad.Pad(data, k.HalfWidths(), pad.Policy{Kind: pad.Constant, Value: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := New(k, padded.Strides)
	if w.NumTaps() != 1 {
		t.Fatalf("NumTaps()=%d; want 1", w.NumTaps())
	}

	dst := make([]Sample, w.NumTaps())
	for off := 0; off < len(data.Data); off++ {
		idx := data.MultiIndex(off)
		base := BaseOffset(padded.Strides, idx)
		n := w.Gather(padded, base, dst)
		if n != 1 || dst[0].Value != data.Data[off] || dst[0].Weight != 1 {
			t.Errorf("at %v: got %v; want value %v weight 1", idx, dst[:n], data.Data[off])
		}
	}
}

func TestGatherSkipsZeroWeightTaps(t *testing.T) {
	weights := []float64{1, 0, 1, 0, 1, 0, 1, 0, 1}
	k, err := kernel.FromWeights([]int{3, 3}, weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if New(k, []int{3, 1}).NumTaps() != 5 {
		t.Errorf("NumTaps()=%d; want 5", New(k, []int{3, 1}).NumTaps())
	}
}

func TestCenterTapIndexNamesTheCentreNotTheCorner(t *testing.T) {
	// 3x3 all-ones kernel: the centre tap is kernel index (1,1), row-major
	// tap position 4 - not tap 0 (kernel index (0,0), the window's corner).
	weights := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1}
	k, err := kernel.FromWeights([]int{3, 3}, weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := New(k, []int{3, 1})
	if got := w.CenterTapIndex(); got != 4 {
		t.Errorf("CenterTapIndex()=%d; want 4 (kernel index (1,1), not the corner tap 0)", got)
	}

	// Centre-only kernel: the single live tap is itself the centre.
	centreOnly := make([]float64, 9)
	centreOnly[4] = 1
	kc, err := kernel.FromWeights([]int{3, 3}, centreOnly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wc := New(kc, []int{3, 1})
	if got := wc.CenterTapIndex(); got != 0 {
		t.Errorf("CenterTapIndex()=%d; want 0 (the only live tap is the centre)", got)
	}
}

func TestGatherRowMajorOrder(t *testing.T) {
	weights := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	k, err := kernel.FromWeights([]int{3, 3}, weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := ndarray.New([]int{3, 3})
	for i := range data.Data {
		data.Data[i] = float64(i)
	}
	padded, err := pad.Pad(data, k.HalfWidths(), pad.Policy{Kind: pad.Constant, Value: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := New(k, padded.Strides)
	dst := make([]Sample, w.NumTaps())
	base := BaseOffset(padded.Strides, []int{1, 1}) // centre cell, full window in bounds
	w.Gather(padded, base, dst)
	for i, want := range weights {
		if dst[i].Weight != want {
			t.Errorf("tap %d weight=%v; want %v (row-major order)", i, dst[i].Weight, want)
		}
	}
}
