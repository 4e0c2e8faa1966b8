// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package hwy provides the portable lane-parallel operations used by the
// encoder's inner loops.
//
// Vectors have a fixed number of lanes chosen at startup from the CPU's SIMD
// register width, so reductions group their inputs exactly like a native
// vector loop would. Every kernel written on top of this package has a scalar
// reference next to it; the two must agree within floating-point tolerance.
//
// Basic usage:
//
//	lanes := hwy.MaxLanes[float32]()
//	acc := hwy.Zero[float32]()
//	for i := 0; i+lanes <= len(data); i += lanes {
//	    acc = hwy.Add(acc, hwy.Abs(hwy.Load(data[i:])))
//	}
//	total := hwy.ReduceSum(acc)
package hwy

// MaxVecLanes is the largest lane count any Vec can hold (512-bit registers
// of 32-bit elements).
const MaxVecLanes = 16

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Lanes is a constraint for all types that can be stored in SIMD lanes.
type Lanes interface {
	Floats | Integers
}

// Vec is a fixed-width vector of MaxLanes[T]() elements. It is a value type:
// operations never allocate.
//
// Vec instances should not be created directly; use Load, Set, or Zero instead.
type Vec[T Lanes] struct {
	data [MaxVecLanes]T
	n    int
}

// NumLanes returns the number of lanes (elements) in this vector.
func (v Vec[T]) NumLanes() int {
	return v.n
}

// Lane returns the value of lane i.
func (v Vec[T]) Lane(i int) T {
	return v.data[i]
}

// Store writes the vector's data to a slice.
// This is the method form of the hwy.Store function.
func (v Vec[T]) Store(dst []T) {
	n := min(len(dst), v.n)
	copy(dst[:n], v.data[:n])
}

// Mask represents the result of a comparison operation, one bit per lane.
type Mask[T Lanes] struct {
	bits uint32
	n    int
}
