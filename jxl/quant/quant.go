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

// Package quant provides reference dequantization matrices and the initial
// per-block quantization field.
package quant

import (
	"math"
	"sync"

	"github.com/ajroetker/go-jxlenc/hwy/contrib/image"
	"github.com/ajroetker/go-jxlenc/hwy/contrib/workerpool"
	"github.com/ajroetker/go-jxlenc/jxl/ac"
	"github.com/ajroetker/go-jxlenc/jxl/internal/assert"
)

// Per-channel weight of the lowest frequency, X, Y, B.
var baseWeights = [3]float32{256, 24, 12}

// Matrices holds inverse dequantization matrices, built on first use.
// The zero value is ready to use and safe for concurrent use.
type Matrices struct {
	cache [ac.NumStrategies]struct {
		once sync.Once
		inv  [3][]float32
	}
}

// InvMatrix returns the inverse dequantization weights of channel c for
// strategy s, laid out like the coefficients: s.PixelsY() rows of
// s.PixelsX(). Weights fall off with frequency and grow with the square
// root of the footprint area, which keeps the per-pixel quantization error
// of a larger transform in line with an 8×8 one. The slice is shared and
// must not be modified.
func (m *Matrices) InvMatrix(s ac.Strategy, c int) []float32 {
	assert.Thatf(s.Valid() && c >= 0 && c < 3, "no matrix for %v channel %d", s, c)
	entry := &m.cache[s]
	entry.once.Do(func() {
		rows, cols := s.PixelsY(), s.PixelsX()
		area := float32(math.Sqrt(float64(s.CoveredBlocks())))
		for ch := range 3 {
			inv := make([]float32, rows*cols)
			for v := range rows {
				for u := range cols {
					f := float32(u)/float32(cols) + float32(v)/float32(rows)
					inv[v*cols+u] = baseWeights[ch] * area / (1 + 3*f)
				}
			}
			entry.inv[ch] = inv
		}
	})
	return entry.inv[c]
}

const (
	baseQuant = 0.79
	// Gradient level at which a block gets half of the masking boost.
	activityKnee = 0.02
)

// InitialField computes a per-block quantization field for an XYB frame
// whose planes are padded to whole blocks. Smooth blocks get up to twice the
// quantization precision of busy ones; every value is positive. Rows of
// blocks run on pool when it is not nil.
func InitialField(planes *image.Image3[float32], distance float32, pool *workerpool.Pool) *image.Image[float32] {
	assert.That(distance > 0, "distance must be positive")
	xsize := ac.DivCeil(planes.Width(), ac.BlockDim)
	ysize := ac.DivCeil(planes.Height(), ac.BlockDim)
	assert.That(xsize*ac.BlockDim == planes.Width() && ysize*ac.BlockDim == planes.Height(),
		"planes must be padded to whole blocks")

	field := image.NewImage[float32](xsize, ysize)
	luma := planes.Plane(1)
	stride := luma.Stride()
	scale := baseQuant / distance
	pool.ParallelFor(ysize, func(start, end int) {
		for by := start; by < end; by++ {
			row := field.Row(by)
			for bx := range xsize {
				px := luma.Span(bx*ac.BlockDim, by*ac.BlockDim)
				var act float32
				for y := range ac.BlockDim {
					for x := range ac.BlockDim - 1 {
						act += abs(px[y*stride+x+1] - px[y*stride+x])
						act += abs(px[x*stride+y] - px[(x+1)*stride+y])
					}
				}
				act /= 2 * ac.BlockDim * (ac.BlockDim - 1)
				row[bx] = scale * (1 + activityKnee/(activityKnee+act))
			}
		}
	})
	return field
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
