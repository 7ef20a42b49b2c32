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

// Package sliding wires the padder, window walker, reducers and dispatcher
// into the six public operations: Padding, Convolution, SlidingMean,
// SlidingMedian, SlidingStdDev and SlidingSigmaClip. It is the only
// package callers outside this module should import.
package sliding

import "fmt"

// ShapeError reports a kernel whose rank or per-axis size is incompatible
// with the data it is applied to: rank mismatch, a non-odd dimension, or a
// non-positive dimension.
type ShapeError struct {
	Msg string
}

func (e *ShapeError) Error() string { return "sliding: shape error: " + e.Msg }

// ConfigError reports an invalid combination of operation parameters that
// has nothing to do with array shape: sigma-clip with neither bound set,
// or threads < 1.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "sliding: config error: " + e.Msg }

// TypeError reports a non-float64 input. The Go API is statically typed
// to []float64/*ndarray.Array throughout, so this can only arise from a
// caller-supplied adapter layer (e.g. a binding that accepts interface{}
// and converts); it is defined here so such adapters have a typed error
// to return, per spec.md §7's four-kind taxonomy, even though nothing in
// this package's own call paths can trigger it.
type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string { return "sliding: type error: " + e.Msg }

func newShapeError(format string, args ...interface{}) *ShapeError {
	return &ShapeError{Msg: fmt.Sprintf(format, args...)}
}

func newConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}
