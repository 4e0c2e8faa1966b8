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

package math

import (
	stdmath "math"

	"github.com/ajroetker/go-jxlenc/hwy"
)

// Cbrt computes the cube root of each lane. Negative lanes give negative
// roots; infinities and NaN pass through.
func Cbrt[T hwy.Floats](v hwy.Vec[T]) hwy.Vec[T] {
	var buf [hwy.MaxVecLanes]T
	n := v.NumLanes()
	v.Store(buf[:n])
	for i, x := range buf[:n] {
		buf[i] = T(stdmath.Cbrt(float64(x)))
	}
	return hwy.Load(buf[:n])
}
