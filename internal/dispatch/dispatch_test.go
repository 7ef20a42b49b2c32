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

package dispatch

import (
	"sort"
	"sync"
	"testing"

	"github.com/avoyeux/rsliding/internal/ndarray"
)

// runAndCollect drives Run for a given worker count and returns the set
// of paddedBase values observed, plus the count of cells visited.
func runAndCollect(t *testing.T, shape []int, workers int) (bases []int, idxs [][]int) {
	t.Helper()
	strides := ndarray.Wrap(shape, make([]float64, ndarray.NumElements(shape))).Strides
	var mu sync.Mutex
	Run(shape, strides, workers, func(worker int, outIdx []int, paddedBase int) {
		mu.Lock()
		bases = append(bases, paddedBase)
		idxCopy := append([]int(nil), outIdx...)
		idxs = append(idxs, idxCopy)
		mu.Unlock()
	})
	return bases, idxs
}

func TestRunVisitsEveryCellExactlyOnce(t *testing.T) {
	shape := []int{3, 4}
	for _, workers := range []int{1, 2, 3, 4} {
		_, idxs := runAndCollect(t, shape, workers)
		if len(idxs) != ndarray.NumElements(shape) {
			t.Fatalf("workers=%d: visited %d cells; want %d", workers, len(idxs), ndarray.NumElements(shape))
		}
		seen := map[[2]int]bool{}
		for _, idx := range idxs {
			key := [2]int{idx[0], idx[1]}
			if seen[key] {
				t.Fatalf("workers=%d: cell %v visited twice", workers, idx)
			}
			seen[key] = true
		}
	}
}

func TestRunPaddedBaseMatchesMultiplicationFormula(t *testing.T) {
	shape := []int{2, 3, 2}
	strides := ndarray.Wrap(shape, make([]float64, ndarray.NumElements(shape))).Strides
	var mu sync.Mutex
	bad := false
	Run(shape, strides, 3, func(worker int, outIdx []int, paddedBase int) {
		want := 0
		for a, s := range strides {
			want += outIdx[a] * s
		}
		mu.Lock()
		if want != paddedBase {
			bad = true
		}
		mu.Unlock()
	})
	if bad {
		t.Error("incremental paddedBase diverged from the multiplication formula at some cell")
	}
}

func TestRunSingleWorkerMatchesMultiWorkerBaseSet(t *testing.T) {
	shape := []int{4, 5}
	b1, _ := runAndCollect(t, shape, 1)
	b4, _ := runAndCollect(t, shape, 4)
	sort.Ints(b1)
	sort.Ints(b4)
	if len(b1) != len(b4) {
		t.Fatalf("len mismatch: %d vs %d", len(b1), len(b4))
	}
	for i := range b1 {
		if b1[i] != b4[i] {
			t.Errorf("base set differs at %d: %v vs %v", i, b1[i], b4[i])
			break
		}
	}
}
