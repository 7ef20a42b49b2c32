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

package sliding

import (
	"github.com/avoyeux/rsliding/internal/dispatch"
	"github.com/avoyeux/rsliding/internal/kernel"
	"github.com/avoyeux/rsliding/internal/ndarray"
	"github.com/avoyeux/rsliding/internal/pad"
	"github.com/avoyeux/rsliding/internal/reduce"
	"github.com/avoyeux/rsliding/internal/walk"
)

// BorderMode selects a padding policy at the façade. None is the only
// kind with no internal/pad equivalent: it is translated to
// pad.NaNConstant() before anything downstream sees it, per spec.md's
// Design Notes resolution of the borders=None open question.
type BorderMode int

const (
	BorderConstant BorderMode = iota
	BorderReflect
	BorderReplicate
	BorderNone
)

func resolvePolicy(mode BorderMode, value float64) pad.Policy {
	switch mode {
	case BorderReflect:
		return pad.Policy{Kind: pad.Reflect}
	case BorderReplicate:
		return pad.Policy{Kind: pad.Replicate}
	case BorderNone:
		return pad.NaNConstant()
	default:
		return pad.Policy{Kind: pad.Constant, Value: value}
	}
}

// resolveThreads implements the "threads" parameter's three forms:
// threads == nil means T=None (one worker per logical core, resolved
// lazily inside internal/dispatch); threads != nil must be >= 1 or the
// call is a ConfigError.
func resolveThreads(threads *int) (int, error) {
	if threads == nil {
		return 0, nil // dispatch.Run treats <=0 as "use runtime.NumCPU()"
	}
	if *threads < 1 {
		return 0, newConfigError("threads must be >= 1, got %d", *threads)
	}
	return *threads, nil
}

// validateAndPad runs the shape checks every operation shares (kernel
// rank must match data rank) and materialises the padded array.
func validateAndPad(data *ndarray.Array, k kernel.Spec, mode BorderMode, value float64) (*ndarray.Array, error) {
	if err := k.ValidateRank(data.Rank()); err != nil {
		return nil, newShapeError("%s", err.Error())
	}
	padded, err := pad.Pad(data, k.HalfWidths(), resolvePolicy(mode, value))
	if err != nil {
		return nil, err // already a *pad.BorderError
	}
	return padded, nil
}

// Padding materialises and returns the padded array directly; it is the
// one entry point the spec says is "not parallelised" - there is no
// per-cell reduction step to dispatch.
func Padding(data *ndarray.Array, k kernel.Spec, mode BorderMode, value float64) (*ndarray.Array, error) {
	return validateAndPad(data, k, mode, value)
}

// runScalarOp is the shape shared by convolution/mean/median: pad, build
// a walker, dispatch one scalar reducer per output cell.
func runScalarOp(data *ndarray.Array, k kernel.Spec, mode BorderMode, value float64, threads *int, reduceFn func(samples []walk.Sample, scratch *reduce.Scratch) float64) (*ndarray.Array, error) {
	padded, err := validateAndPad(data, k, mode, value)
	if err != nil {
		return nil, err
	}
	workers, err := resolveThreads(threads)
	if err != nil {
		return nil, err
	}

	w := walk.New(k, padded.Strides)
	out := ndarray.New(data.Shape)
	scratches := make([]*reduce.Scratch, dispatch.EffectiveWorkers(out.Shape, workers))
	for i := range scratches {
		scratches[i] = reduce.NewScratch(w.NumTaps())
	}
	samplesPerWorker := make([][]walk.Sample, len(scratches))
	for i := range samplesPerWorker {
		samplesPerWorker[i] = make([]walk.Sample, w.NumTaps())
	}

	dispatch.Run(out.Shape, padded.Strides, workers, func(worker int, outIdx []int, paddedBase int) {
		dst := samplesPerWorker[worker]
		n := w.Gather(padded, paddedBase, dst)
		out.Data[out.Offset(outIdx)] = reduceFn(dst[:n], scratches[worker])
	})
	return out, nil
}

// Convolution computes the weighted-sum reducer over every window
// (spec.md §4.3.1).
func Convolution(data *ndarray.Array, k kernel.Spec, mode BorderMode, value float64, neumaier bool, threads *int) (*ndarray.Array, error) {
	return runScalarOp(data, k, mode, value, threads, func(samples []walk.Sample, scratch *reduce.Scratch) float64 {
		return reduce.WeightedSum(samples, neumaier, scratch)
	})
}

// SlidingMean computes the weighted-mean reducer over every window
// (spec.md §4.3.2).
func SlidingMean(data *ndarray.Array, k kernel.Spec, mode BorderMode, value float64, neumaier bool, threads *int) (*ndarray.Array, error) {
	return runScalarOp(data, k, mode, value, threads, func(samples []walk.Sample, scratch *reduce.Scratch) float64 {
		return reduce.WeightedMean(samples, neumaier, scratch)
	})
}

// SlidingMedian computes the NaN-aware weighted-median reducer over every
// window (spec.md §4.3.4).
func SlidingMedian(data *ndarray.Array, k kernel.Spec, mode BorderMode, value float64, threads *int) (*ndarray.Array, error) {
	return runScalarOp(data, k, mode, value, threads, func(samples []walk.Sample, scratch *reduce.Scratch) float64 {
		return reduce.WeightedMedian(samples, scratch)
	})
}

// SlidingStdDev computes the population standard deviation and
// co-computed mean over every window (spec.md §4.3.3), returning them as
// two same-shaped arrays.
func SlidingStdDev(data *ndarray.Array, k kernel.Spec, mode BorderMode, value float64, neumaier bool, threads *int) (stddev, mean *ndarray.Array, err error) {
	padded, err := validateAndPad(data, k, mode, value)
	if err != nil {
		return nil, nil, err
	}
	workers, err := resolveThreads(threads)
	if err != nil {
		return nil, nil, err
	}

	w := walk.New(k, padded.Strides)
	stddev = ndarray.New(data.Shape)
	mean = ndarray.New(data.Shape)
	scratches := make([]*reduce.Scratch, dispatch.EffectiveWorkers(data.Shape, workers))
	samplesPerWorker := make([][]walk.Sample, len(scratches))
	for i := range scratches {
		scratches[i] = reduce.NewScratch(w.NumTaps())
		samplesPerWorker[i] = make([]walk.Sample, w.NumTaps())
	}

	dispatch.Run(data.Shape, padded.Strides, workers, func(worker int, outIdx []int, paddedBase int) {
		dst := samplesPerWorker[worker]
		n := w.Gather(padded, paddedBase, dst)
		sd, mu := reduce.WeightedStdDev(dst[:n], neumaier, scratches[worker])
		off := stddev.Offset(outIdx)
		stddev.Data[off] = sd
		mean.Data[off] = mu
	})
	return stddev, mean, nil
}

// CenterChoice mirrors reduce.CenterChoice at the façade boundary so
// callers of this package never need to import internal/reduce directly.
type CenterChoice = reduce.CenterChoice

const (
	CenterMean   = reduce.CenterMean
	CenterMedian = reduce.CenterMedian
)

// SigmaClipOptions configures SlidingSigmaClip. At least one of
// SigmaLower/SigmaUpper must be non-nil, or the call is a ConfigError.
// MaxIters == nil iterates to convergence with no cap (still guaranteed
// to terminate, since the kept set shrinks monotonically); the façade
// applies a default cap (see NewSymmetricSigmaClip) for callers who want
// the teacher's "sane default prevents pathological wall-time" posture
// without specifying one explicitly.
type SigmaClipOptions struct {
	Center     CenterChoice
	SigmaLower *float64
	SigmaUpper *float64
	MaxIters   *int
}

// defaultMaxIters is the cap spec.md's Design Notes recommend when a
// caller doesn't pick one, to bound wall-time on degenerate inputs.
const defaultMaxIters = 5

// NewSymmetricSigmaClip builds SigmaClipOptions with the same sigma bound
// on both sides and the default iteration cap, the common case where a
// caller wants one convenience parameter instead of four.
func NewSymmetricSigmaClip(center CenterChoice, sigma float64) SigmaClipOptions {
	maxIters := defaultMaxIters
	return SigmaClipOptions{Center: center, SigmaLower: &sigma, SigmaUpper: &sigma, MaxIters: &maxIters}
}

// Mask is the boolean output of SlidingSigmaClip, marking which output
// coordinates had their value replaced by the clip.
type Mask struct {
	Shape []int
	Data  []bool
}

// SlidingSigmaClip runs the iterative sigma-clip fixpoint over every
// window (spec.md §4.3.5), returning the final centre per coordinate and
// a mask flagging coordinates whose own sample was clipped (or NaN to
// begin with).
func SlidingSigmaClip(data *ndarray.Array, k kernel.Spec, opts SigmaClipOptions, mode BorderMode, value float64, threads *int) (out *ndarray.Array, mask *Mask, err error) {
	if opts.SigmaLower == nil && opts.SigmaUpper == nil {
		return nil, nil, newConfigError("sigma-clip requires at least one of SigmaLower/SigmaUpper")
	}
	padded, err := validateAndPad(data, k, mode, value)
	if err != nil {
		return nil, nil, err
	}
	workers, err := resolveThreads(threads)
	if err != nil {
		return nil, nil, err
	}

	w := walk.New(k, padded.Strides)
	centerTapIndex := w.CenterTapIndex()
	maxIters := 0
	if opts.MaxIters != nil {
		maxIters = *opts.MaxIters
	}

	out = ndarray.New(data.Shape)
	mask = &Mask{Shape: append([]int(nil), data.Shape...), Data: make([]bool, ndarray.NumElements(data.Shape))}
	scratches := make([]*reduce.Scratch, dispatch.EffectiveWorkers(data.Shape, workers))
	samplesPerWorker := make([][]walk.Sample, len(scratches))
	for i := range scratches {
		scratches[i] = reduce.NewScratch(w.NumTaps())
		samplesPerWorker[i] = make([]walk.Sample, w.NumTaps())
	}

	dispatch.Run(data.Shape, padded.Strides, workers, func(worker int, outIdx []int, paddedBase int) {
		dst := samplesPerWorker[worker]
		n := w.Gather(padded, paddedBase, dst)
		mu, clipped := reduce.SigmaClip(dst[:n], centerTapIndex, opts.Center, opts.SigmaLower, opts.SigmaUpper, maxIters, false, scratches[worker])
		off := out.Offset(outIdx)
		out.Data[off] = mu
		mask.Data[off] = clipped
	})
	return out, mask, nil
}
