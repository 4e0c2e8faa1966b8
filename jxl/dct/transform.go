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

package dct

import (
	"github.com/ajroetker/go-jxlenc/jxl/ac"
	"github.com/ajroetker/go-jxlenc/jxl/internal/assert"
)

// Engine is the reference transform. The zero value is ready to use and is
// safe for concurrent use.
type Engine struct{}

// ScratchSize returns the scratch length TransformFromPixels needs for s.
func ScratchSize(s ac.Strategy) int {
	return s.CoeffCount()
}

// TransformFromPixels writes the coefficients of strategy s for the
// footprint whose top-left pixel is pixels[0]. Rows of the footprint are
// stride apart. coeffs receives s.CoeffCount() values laid out row-major,
// s.PixelsY() rows of s.PixelsX(). scratch must hold ScratchSize(s) values.
func (Engine) TransformFromPixels(s ac.Strategy, pixels []float32, stride int, coeffs, scratch []float32) {
	assert.Thatf(len(coeffs) >= s.CoeffCount() && len(scratch) >= ScratchSize(s),
		"%v needs %d coefficients", s, s.CoeffCount())
	const n = ac.BlockDim
	switch s {
	case ac.IDENTITY:
		identity(pixels, stride, coeffs)
	case ac.DCT2X2:
		for y := range n {
			copy(coeffs[y*n:(y+1)*n], pixels[y*stride:])
		}
		for size := n; size >= 2; size /= 2 {
			haar(coeffs, size, scratch)
		}
	case ac.DCT4X4:
		for qy := range 2 {
			for qx := range 2 {
				Forward2D(pixels[4*qy*stride+4*qx:], stride, 4, 4, coeffs[4*qy*n+4*qx:], n, scratch)
			}
		}
	case ac.DCT4X8:
		for h := range 2 {
			Forward2D(pixels[4*h*stride:], stride, 4, 8, coeffs[4*h*n:], n, scratch)
		}
	case ac.DCT8X4:
		for h := range 2 {
			Forward2D(pixels[4*h:], stride, 8, 4, coeffs[4*h:], n, scratch)
		}
	case ac.AFV0, ac.AFV1, ac.AFV2, ac.AFV3:
		afv(int(s-ac.AFV0), pixels, stride, coeffs, scratch)
	default:
		Forward2D(pixels, stride, s.PixelsY(), s.PixelsX(), coeffs, s.PixelsX(), scratch)
	}
}

// identity stores, for each 4×4 quadrant, the quadrant mean in its first
// cell and the residuals of the other 15 pixels in the remaining cells.
func identity(pixels []float32, stride int, coeffs []float32) {
	const n = ac.BlockDim
	for qy := range 2 {
		for qx := range 2 {
			var sum float32
			for iy := range 4 {
				for ix := range 4 {
					sum += pixels[(4*qy+iy)*stride+4*qx+ix]
				}
			}
			mean := sum / 16
			for iy := range 4 {
				for ix := range 4 {
					coeffs[(4*qy+iy)*n+4*qx+ix] = pixels[(4*qy+iy)*stride+4*qx+ix] - mean
				}
			}
			coeffs[4*qy*n+4*qx] = mean
		}
	}
}

// haar runs one 2×2 Haar level over the top-left size × size corner of the
// 8×8 block. Averages go to the top-left half, the three detail bands to
// the other quadrants.
func haar(block []float32, size int, tmp []float32) {
	const n = ac.BlockDim
	half := size / 2
	for iy := range half {
		for ix := range half {
			a := block[2*iy*n+2*ix]
			b := block[2*iy*n+2*ix+1]
			c := block[(2*iy+1)*n+2*ix]
			d := block[(2*iy+1)*n+2*ix+1]
			tmp[iy*n+ix] = (a + b + c + d) * 0.25
			tmp[iy*n+ix+half] = (a - b + c - d) * 0.25
			tmp[(iy+half)*n+ix] = (a + b - c - d) * 0.25
			tmp[(iy+half)*n+ix+half] = (a - b - c + d) * 0.25
		}
	}
	for y := range size {
		copy(block[y*n:y*n+size], tmp[y*n:y*n+size])
	}
}

// afv splits the block into a 4×4 corner selected by kind (bit 0: right,
// bit 1: bottom), the 4×4 beside it, and the 4×8 half across from both.
func afv(kind int, pixels []float32, stride int, coeffs, scratch []float32) {
	const n = ac.BlockDim
	cx, cy := kind&1, kind>>1
	Forward2D(pixels[4*cy*stride+4*cx:], stride, 4, 4, coeffs[4*cy*n+4*cx:], n, scratch)
	Forward2D(pixels[4*cy*stride+4*(1-cx):], stride, 4, 4, coeffs[4*cy*n+4*(1-cx):], n, scratch)
	Forward2D(pixels[4*(1-cy)*stride:], stride, 4, 8, coeffs[4*(1-cy)*n:], n, scratch)
}
