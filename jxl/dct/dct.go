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

// Package dct is a reference forward transform for every AC strategy.
//
// Rectangular DCTs are computed separably with precomputed DCT-II matrices
// for each power-of-two size from 2 to 256. Coefficients are scaled so the
// DC of any block equals the block mean: along one axis of length N,
//
//	X[k] = s(k)/N * sum_n x[n] * cos((2n+1)kπ / 2N),  s(0) = 1, s(k>0) = √2
//
// which is the orthonormal DCT divided by √N. The inner loops are
// dst += a*src updates over contiguous rows, run on hwy vectors.
package dct

import (
	"math"
	"math/bits"
	"sync"

	"github.com/ajroetker/go-jxlenc/hwy"
)

const maxLog2 = 8 // 256

type matrix struct {
	n  int
	m  []float32 // m[k*n+x]: weight of sample x in coefficient k
	mt []float32 // mt[x*n+k]: the transpose
}

var matrices = sync.OnceValue(func() *[maxLog2 + 1]matrix {
	all := new([maxLog2 + 1]matrix)
	for l := 1; l <= maxLog2; l++ {
		n := 1 << l
		mat := matrix{n: n, m: make([]float32, n*n), mt: make([]float32, n*n)}
		for k := range n {
			scale := math.Sqrt2 / float64(n)
			if k == 0 {
				scale = 1 / float64(n)
			}
			for x := range n {
				w := float32(scale * math.Cos(float64((2*x+1)*k)*math.Pi/float64(2*n)))
				mat.m[k*n+x] = w
				mat.mt[x*n+k] = w
			}
		}
		all[l] = mat
	}
	return all
})

func matrixFor(n int) *matrix {
	l := bits.Len(uint(n)) - 1
	if n < 2 || n > 1<<maxLog2 || 1<<l != n {
		panic("dct: unsupported size")
	}
	return &matrices()[l]
}

// axpy computes dst += a*src over len(dst) elements.
func axpy(dst, src []float32, a float32) {
	n := len(dst)
	src = src[:n]
	lanes := hwy.MaxLanes[float32]()
	va := hwy.Set(a)
	i := 0
	for ; i+lanes <= n; i += lanes {
		hwy.Store(hwy.MulAdd(va, hwy.Load(src[i:]), hwy.Load(dst[i:])), dst[i:])
	}
	for ; i < n; i++ {
		dst[i] += a * src[i]
	}
}

// Forward2D transforms the rows × cols block at src (row stride srcStride)
// into dst (row stride dstStride). Coefficient (v, u) lands at
// dst[v*dstStride+u], v vertical frequency. tmp must hold rows*cols values.
func Forward2D(src []float32, srcStride, rows, cols int, dst []float32, dstStride int, tmp []float32) {
	mr, mc := matrixFor(rows), matrixFor(cols)
	tmp = tmp[:rows*cols]

	// Rows: tmp[y][k] = sum_x m_c[k][x] * src[y][x].
	for y := range rows {
		out := tmp[y*cols : (y+1)*cols]
		clear(out)
		in := src[y*srcStride:]
		for x := range cols {
			axpy(out, mc.mt[x*cols:], in[x])
		}
	}
	// Columns: dst[v][k] = sum_y m_r[v][y] * tmp[y][k].
	for v := range rows {
		out := dst[v*dstStride : v*dstStride+cols]
		clear(out)
		w := mr.m[v*rows:]
		for y := range rows {
			axpy(out, tmp[y*cols:], w[y])
		}
	}
}
