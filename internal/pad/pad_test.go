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

package pad

import (
	"math"
	"testing"

	"github.com/avoyeux/rsliding/internal/ndarray"
)

func TestPadConstant(t *testing.T) {
	data := ndarray.Wrap([]int{2, 2}, []float64{1, 2, 3, 4})
	out, err := Pad(data, []int{1, 1}, Policy{Kind: Constant, Value: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ndarray.SameShape(out.Shape, []int{4, 4}) {
		t.Fatalf("Shape=%v; want [4 4]", out.Shape)
	}
	// interior cell (1,1) in padded space corresponds to data[0,0]=1
	if got := out.Data[out.Offset([]int{1, 1})]; got != 1 {
		t.Errorf("interior (1,1)=%v; want 1", got)
	}
	// corner is border
	if got := out.Data[out.Offset([]int{0, 0})]; got != -1 {
		t.Errorf("corner (0,0)=%v; want -1", got)
	}
}

func TestPadReplicate(t *testing.T) {
	data := ndarray.Wrap([]int{1, 4}, []float64{10, 20, 30, 40})
	out, err := Pad(data, []int{0, 2}, Policy{Kind: Replicate})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{10, 10, 10, 20, 30, 40, 40, 40}
	for i, w := range want {
		if out.Data[i] != w {
			t.Errorf("Data[%d]=%v; want %v", i, out.Data[i], w)
		}
	}
}

func TestPadReflect(t *testing.T) {
	data := ndarray.Wrap([]int{1, 4}, []float64{10, 20, 30, 40})
	out, err := Pad(data, []int{0, 2}, Policy{Kind: Reflect})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// reflect-101: ...,30,20,|10,20,30,40|,30,20,...
	want := []float64{30, 20, 10, 20, 30, 40, 30, 20}
	for i, w := range want {
		if out.Data[i] != w {
			t.Errorf("Data[%d]=%v; want %v", i, out.Data[i], w)
		}
	}
}

func TestPadReflectExtendedMirroring(t *testing.T) {
	// size=2, halfWidth=3 forces repeated mirroring: period = 2*(2-1) = 2
	data := ndarray.Wrap([]int{1, 2}, []float64{1, 2})
	out, err := Pad(data, []int{0, 3}, Policy{Kind: Reflect})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// with period 2, indices -3..4 map to 1,0,1,|0,1|,0,1,0, so the
	// sequence alternates 2,1,2,1,...
	want := []float64{2, 1, 2, 1, 2, 1, 2, 1}
	for i, w := range want {
		if out.Data[i] != w {
			t.Errorf("Data[%d]=%v; want %v", i, out.Data[i], w)
		}
	}
}

func TestPadReflectUndefinedOnSingletonAxis(t *testing.T) {
	data := ndarray.Wrap([]int{1, 3}, []float64{1, 2, 3})
	_, err := Pad(data, []int{1, 0}, Policy{Kind: Reflect})
	if err == nil {
		t.Fatalf("expected BorderError for reflect on singleton axis")
	}
	var berr *BorderError
	if !asBorderError(err, &berr) {
		t.Fatalf("expected *BorderError, got %T: %v", err, err)
	}
}

func TestNaNConstantIsConstantNaN(t *testing.T) {
	p := NaNConstant()
	if p.Kind != Constant || !math.IsNaN(p.Value) {
		t.Errorf("NaNConstant()=%+v; want Constant/NaN", p)
	}
}

func asBorderError(err error, target **BorderError) bool {
	if be, ok := err.(*BorderError); ok {
		*target = be
		return true
	}
	return false
}
