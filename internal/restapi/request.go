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

package restapi

import (
	"fmt"

	"github.com/avoyeux/rsliding/internal/kernel"
	"github.com/avoyeux/rsliding/internal/ndarray"
	"github.com/avoyeux/rsliding/internal/sliding"
)

// ArrayJSON is the wire shape of an N-D float64 array: row-major Data
// flattened per Shape, mirroring ndarray.Array's own invariant so binding
// is a direct field copy with no reshaping.
type ArrayJSON struct {
	Shape []int     `json:"shape" binding:"required"`
	Data  []float64 `json:"data" binding:"required"`
}

func (a ArrayJSON) toArray() (*ndarray.Array, error) {
	if ndarray.NumElements(a.Shape) != len(a.Data) {
		return nil, fmt.Errorf("data length %d does not match shape %v", len(a.Data), a.Shape)
	}
	return ndarray.Wrap(a.Shape, a.Data), nil
}

func fromArray(a *ndarray.Array) ArrayJSON {
	return ArrayJSON{Shape: a.Shape, Data: a.Data}
}

// KernelJSON accepts exactly one of the three constructor forms the
// façade's kernel.Spec supports, the same overload spec.md's kernel
// parameter documents: a cubic size, a per-axis shape (all-ones), or an
// explicit dense weight array.
type KernelJSON struct {
	Size    *int      `json:"size,omitempty"`
	Rank    *int      `json:"rank,omitempty"`
	Shape   []int     `json:"shape,omitempty"`
	Weights []float64 `json:"weights,omitempty"`
}

func (k KernelJSON) toSpec() (kernel.Spec, error) {
	switch {
	case k.Weights != nil:
		if k.Shape == nil {
			return kernel.Spec{}, fmt.Errorf("kernel: weights given without shape")
		}
		return kernel.FromWeights(k.Shape, k.Weights)
	case k.Shape != nil:
		return kernel.FromShape(k.Shape)
	case k.Size != nil:
		rank := 2
		if k.Rank != nil {
			rank = *k.Rank
		}
		return kernel.FromSize(*k.Size, rank)
	default:
		return kernel.Spec{}, fmt.Errorf("kernel: one of size, shape or weights must be set")
	}
}

// borderModeJSON maps the wire string to sliding.BorderMode, the same four
// names spec.md's border parameter uses.
func borderModeJSON(s string) (sliding.BorderMode, error) {
	switch s {
	case "", "constant":
		return sliding.BorderConstant, nil
	case "reflect":
		return sliding.BorderReflect, nil
	case "replicate":
		return sliding.BorderReplicate, nil
	case "none":
		return sliding.BorderNone, nil
	default:
		return 0, fmt.Errorf("border: unknown mode %q", s)
	}
}

// JobRequest is the POST /api/v1/job body. Op selects which of the six
// sliding operations to run; the other fields are interpreted per-op,
// mirroring spec.md §6's external interface table field-for-field.
type JobRequest struct {
	Op         string     `json:"op" binding:"required"`
	Data       ArrayJSON  `json:"data" binding:"required"`
	Kernel     KernelJSON `json:"kernel" binding:"required"`
	Border     string     `json:"border"`
	PadValue   float64    `json:"pad_value"`
	Neumaier   bool       `json:"neumaier"`
	Threads    *int       `json:"threads"`
	Center     string     `json:"center"`      // sigma_clip only: "mean" | "median"
	SigmaLower *float64   `json:"sigma_lower"` // sigma_clip only
	SigmaUpper *float64   `json:"sigma_upper"` // sigma_clip only
	MaxIters   *int       `json:"max_iters"`   // sigma_clip only
}

// JobResponse carries one or two output arrays, and a mask for sigma_clip.
type JobResponse struct {
	Result ArrayJSON     `json:"result"`
	Mean   *ArrayJSON    `json:"mean,omitempty"`
	Mask   *sliding.Mask `json:"mask,omitempty"`
}
