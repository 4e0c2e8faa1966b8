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

package hwy

import "math"

// This file provides the pure Go implementations of the lane operations.
// Each operation works on exactly MaxLanes[T]() lanes, so a loop over
// vectors accumulates partial sums in the same lane order as a native SIMD
// loop of that width.

// Load creates a vector by loading MaxLanes[T]() elements from src.
// If src is shorter, the remaining lanes are zero.
func Load[T Lanes](src []T) Vec[T] {
	v := Vec[T]{n: MaxLanes[T]()}
	copy(v.data[:v.n], src)
	return v
}

// Store writes a vector's data to a slice.
func Store[T Lanes](v Vec[T], dst []T) {
	n := min(len(dst), v.n)
	copy(dst[:n], v.data[:n])
}

// Set creates a vector with all lanes set to the same value.
func Set[T Lanes](value T) Vec[T] {
	v := Vec[T]{n: MaxLanes[T]()}
	for i := range v.n {
		v.data[i] = value
	}
	return v
}

// Zero creates a vector with all lanes set to zero.
func Zero[T Lanes]() Vec[T] {
	return Vec[T]{n: MaxLanes[T]()}
}

// Add performs element-wise addition.
func Add[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] += b.data[i]
	}
	return a
}

// Sub performs element-wise subtraction.
func Sub[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] -= b.data[i]
	}
	return a
}

// Mul performs element-wise multiplication.
func Mul[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] *= b.data[i]
	}
	return a
}

// MulAdd computes a*b + c element-wise.
func MulAdd[T Floats](a, b, c Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] = a.data[i]*b.data[i] + c.data[i]
	}
	return a
}

// Abs computes absolute value.
func Abs[T Floats](v Vec[T]) Vec[T] {
	for i := range v.n {
		if v.data[i] < 0 {
			v.data[i] = -v.data[i]
		}
	}
	return v
}

// AbsDiff computes |a - b| element-wise.
func AbsDiff[T Floats](a, b Vec[T]) Vec[T] {
	return Abs(Sub(a, b))
}

// Min returns element-wise minimum.
func Min[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		if b.data[i] < a.data[i] {
			a.data[i] = b.data[i]
		}
	}
	return a
}

// Max returns element-wise maximum.
func Max[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		if b.data[i] > a.data[i] {
			a.data[i] = b.data[i]
		}
	}
	return a
}

// Sqrt computes square root.
func Sqrt[T Floats](v Vec[T]) Vec[T] {
	for i := range v.n {
		v.data[i] = T(math.Sqrt(float64(v.data[i])))
	}
	return v
}

// RoundToEven rounds to the nearest integer, ties to even.
// This is the default IEEE 754 rounding mode.
func RoundToEven[T Floats](v Vec[T]) Vec[T] {
	for i := range v.n {
		v.data[i] = T(math.RoundToEven(float64(v.data[i])))
	}
	return v
}

// ReduceSum sums all lanes, in lane order.
func ReduceSum[T Lanes](v Vec[T]) T {
	var sum T
	for i := range v.n {
		sum += v.data[i]
	}
	return sum
}

// Equal performs element-wise equality comparison.
func Equal[T Lanes](a, b Vec[T]) Mask[T] {
	m := Mask[T]{n: a.n}
	for i := range a.n {
		if a.data[i] == b.data[i] {
			m.bits |= 1 << i
		}
	}
	return m
}

// GreaterEqual performs element-wise greater-than-or-equal comparison.
func GreaterEqual[T Lanes](a, b Vec[T]) Mask[T] {
	m := Mask[T]{n: a.n}
	for i := range a.n {
		if a.data[i] >= b.data[i] {
			m.bits |= 1 << i
		}
	}
	return m
}

// IfThenElseZero returns a where mask is true, zero otherwise.
func IfThenElseZero[T Lanes](mask Mask[T], a Vec[T]) Vec[T] {
	var zero T
	for i := range a.n {
		if mask.bits&(1<<i) == 0 {
			a.data[i] = zero
		}
	}
	return a
}

// CountTrue returns the number of active lanes in the mask.
func CountTrue[T Lanes](m Mask[T]) int {
	count := 0
	for i := range m.n {
		if m.bits&(1<<i) != 0 {
			count++
		}
	}
	return count
}
