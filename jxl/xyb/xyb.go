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

// Package xyb converts images to the XYB colour space the encoder plans and
// quantizes in.
//
// XYB is derived from linear RGB by an opsin absorbance mix into LMS-like
// channels followed by a biased cube root:
//
//	X = (L - M) / 2
//	Y = (L + M) / 2
//	B = S
package xyb

import (
	stdimage "image"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ajroetker/go-jxlenc/hwy"
	"github.com/ajroetker/go-jxlenc/hwy/contrib/image"
	hmath "github.com/ajroetker/go-jxlenc/hwy/contrib/math"
	"github.com/ajroetker/go-jxlenc/hwy/contrib/workerpool"
	"github.com/ajroetker/go-jxlenc/jxl/ac"
)

// Opsin absorbance matrix, rows L M S.
var opsin = [3][3]float32{
	{0.30, 0.622, 0.078},
	{0.23, 0.692, 0.078},
	{0.24342268924547819, 0.20476744424496821, 0.55180986650955360},
}

// OpsinBias is added to every mixed channel before the cube root.
const OpsinBias = 0.0037930732552754493

var cbrtBias = float32(math.Cbrt(OpsinBias))

// rowBatch is the number of rows converted per pool task.
const rowBatch = ac.BlockDim

// OpsinRow converts linear RGB samples to XYB. The output may alias the
// input: outX with r, outY with g and outB with b. Negative mixes, which out
// of gamut input can produce, are clamped to zero before the cube root.
func OpsinRow(r, g, b, outX, outY, outB []float32) {
	n := len(r)
	m00, m01, m02 := hwy.Set(opsin[0][0]), hwy.Set(opsin[0][1]), hwy.Set(opsin[0][2])
	m10, m11, m12 := hwy.Set(opsin[1][0]), hwy.Set(opsin[1][1]), hwy.Set(opsin[1][2])
	m20, m21, m22 := hwy.Set(opsin[2][0]), hwy.Set(opsin[2][1]), hwy.Set(opsin[2][2])
	bias := hwy.Set[float32](OpsinBias)
	rootBias := hwy.Set(cbrtBias)
	half := hwy.Set[float32](0.5)
	zero := hwy.Zero[float32]()
	lanes := hwy.MaxLanes[float32]()
	for i := 0; i < n; i += lanes {
		vr := hwy.Load(r[i:n])
		vg := hwy.Load(g[i:n])
		vb := hwy.Load(b[i:n])
		l := hwy.MulAdd(vr, m00, hwy.MulAdd(vg, m01, hwy.MulAdd(vb, m02, bias)))
		m := hwy.MulAdd(vr, m10, hwy.MulAdd(vg, m11, hwy.MulAdd(vb, m12, bias)))
		s := hwy.MulAdd(vr, m20, hwy.MulAdd(vg, m21, hwy.MulAdd(vb, m22, bias)))
		l = hwy.Sub(hmath.Cbrt(hwy.Max(l, zero)), rootBias)
		m = hwy.Sub(hmath.Cbrt(hwy.Max(m, zero)), rootBias)
		s = hwy.Sub(hmath.Cbrt(hwy.Max(s, zero)), rootBias)
		hwy.Store(hwy.Mul(hwy.Sub(l, m), half), outX[i:n])
		hwy.Store(hwy.Mul(hwy.Add(l, m), half), outY[i:n])
		hwy.Store(s, outB[i:n])
	}
}

// FromImage converts img, read as sRGB, to XYB planes whose sides are
// rounded up to whole blocks. Padding repeats the last row and column.
// A nil pool converts on the calling goroutine.
func FromImage(img stdimage.Image, pool *workerpool.Pool) *image.Image3[float32] {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pw := ac.DivCeil(w, ac.BlockDim) * ac.BlockDim
	ph := ac.DivCeil(h, ac.BlockDim) * ac.BlockDim
	planes := image.NewImage3[float32](pw, ph)

	pool.ParallelForAtomicBatched(ph, rowBatch, func(start, end int) {
		for y := start; y < end; y++ {
			sy := bounds.Min.Y + image.Clamp(y, h)
			rx, ry, rb := planes.PlaneRow(0, y), planes.PlaneRow(1, y), planes.PlaneRow(2, y)
			for x := range pw {
				// Fully transparent pixels are black.
				c, _ := colorful.MakeColor(img.At(bounds.Min.X+image.Clamp(x, w), sy))
				r, g, b := c.LinearRgb()
				rx[x], ry[x], rb[x] = float32(r), float32(g), float32(b)
			}
			OpsinRow(rx[:pw], ry[:pw], rb[:pw], rx[:pw], ry[:pw], rb[:pw])
		}
	})
	return planes
}
