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
	"testing"

	"github.com/ajroetker/go-jxlenc/hwy"
)

func TestCbrt_F32(t *testing.T) {
	tests := []struct {
		name string
		x    float32
		want float32
	}{
		{"cbrt(8) = 2", 8.0, 2.0},
		{"cbrt(27) = 3", 27.0, 3.0},
		{"cbrt(1) = 1", 1.0, 1.0},
		{"cbrt(0) = 0", 0.0, 0.0},
		{"cbrt(-8) = -2", -8.0, -2.0},
		{"cbrt(0.001) = 0.1", 0.001, 0.1},
		{"cbrt(opsin bias)", 0.0037930732552754493, 0.15595420},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Cbrt(hwy.Set(tt.x))
			for i := range result.NumLanes() {
				got := result.Lane(i)
				if stdmath.Abs(float64(got-tt.want)) > 1e-4 {
					t.Errorf("Cbrt(%v) lane %d = %v, want %v", tt.x, i, got, tt.want)
				}
			}
		})
	}
}

func TestCbrt_F64(t *testing.T) {
	x := hwy.Load([]float64{1000, 64})
	result := Cbrt(x)
	if got := result.Lane(0); stdmath.Abs(got-10) > 1e-10 {
		t.Errorf("Cbrt(1000) = %v, want 10", got)
	}
	if result.NumLanes() > 1 {
		if got := result.Lane(1); stdmath.Abs(got-4) > 1e-10 {
			t.Errorf("Cbrt(64) = %v, want 4", got)
		}
	}
}

func TestCbrt_SpecialCases(t *testing.T) {
	result := Cbrt(hwy.Set(stdmath.Inf(-1)))
	if !stdmath.IsInf(result.Lane(0), -1) {
		t.Errorf("Cbrt(-Inf) = %v, want -Inf", result.Lane(0))
	}
	result = Cbrt(hwy.Set(stdmath.NaN()))
	if !stdmath.IsNaN(result.Lane(0)) {
		t.Errorf("Cbrt(NaN) = %v, want NaN", result.Lane(0))
	}
}
