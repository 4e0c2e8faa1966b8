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

package acplan

import (
	"math/bits"

	"github.com/ajroetker/go-jxlenc/hwy/contrib/image"
	"github.com/ajroetker/go-jxlenc/jxl/ac"
	"github.com/ajroetker/go-jxlenc/jxl/internal/assert"
)

// Transformer computes the forward transform of one strategy footprint.
// Coefficients are written row-major, s.PixelsY() rows of s.PixelsX(), and
// scratch holds at least ac.MaxCoeffArea values.
type Transformer interface {
	TransformFromPixels(s ac.Strategy, pixels []float32, stride int, coeffs, scratch []float32)
}

// DequantMatrices provides inverse dequantization weights laid out like the
// coefficients of s.
type DequantMatrices interface {
	InvMatrix(s ac.Strategy, c int) []float32
}

// Rounding error weight per channel, X Y B.
var infoLossWeights = [3]float32{1, 2, 1}

// channelCost is the per-channel inner loop of the estimate: for every
// coefficient, val = (in - inY*factor) * inv * q rounded to even. It returns
// the summed magnitude costs, the summed |val - round(val)| and the number
// of coefficients that round to nonzero. Set by init.
var channelCost channelCostFunc

type channelCostFunc func(m *CostModel, in, inY, inv []float32, factor, q float32) (cost, loss float32, nonzeros int)

// Scratch is the working memory of one estimate: a coefficient plane per
// channel and the transform's scratch, each sized for the largest strategy.
// A Scratch must not be shared between goroutines.
type Scratch struct {
	coeffs    [3][]float32
	transform []float32
}

// NewScratch allocates a Scratch.
func NewScratch() *Scratch {
	mem := make([]float32, 4*ac.MaxCoeffArea)
	return &Scratch{
		coeffs: [3][]float32{
			mem[0*ac.MaxCoeffArea : 1*ac.MaxCoeffArea],
			mem[1*ac.MaxCoeffArea : 2*ac.MaxCoeffArea],
			mem[2*ac.MaxCoeffArea : 3*ac.MaxCoeffArea],
		},
		transform: mem[3*ac.MaxCoeffArea:],
	}
}

// Estimator scores strategy placements on one frame.
type Estimator struct {
	model     *CostModel
	planes    *image.Image3[float32]
	quant     *image.Image[float32]
	dequant   DequantMatrices
	transform Transformer
}

// NewEstimator returns an estimator reading the frame described by in.
func NewEstimator(model *CostModel, in *Inputs) *Estimator {
	return &Estimator{
		model:     model,
		planes:    in.Planes,
		quant:     in.QuantField,
		dequant:   in.Dequant,
		transform: in.Transform,
	}
}

// Estimate returns the estimated cost, in bits, of coding s with its
// top-left pixel at (x, y). factors are the colour map ratios of the tile,
// X Y B. The quantization step is the largest quant field value under the
// footprint.
func (e *Estimator) Estimate(s ac.Strategy, x, y int, factors [3]float32, sc *Scratch) float32 {
	n := s.CoeffCount()
	stride := e.planes.Stride()
	for c := range 3 {
		e.transform.TransformFromPixels(s, e.planes.Plane(c).Span(x, y), stride, sc.coeffs[c][:n], sc.transform)
	}

	bx, by := x/ac.BlockDim, y/ac.BlockDim
	var quant float32
	for iy := range s.CoveredBlocksY() {
		row := e.quant.Row(by + iy)
		for ix := range s.CoveredBlocksX() {
			quant = max(quant, row[bx+ix])
		}
	}
	assert.Thatf(quant > 0, "quant field at block (%d, %d) is %v", bx, by, quant)

	m := e.model
	entropy := m.BaseEntropy + float32(s.CoveredBlocks())*m.BlockEntropy
	var infoLoss float32
	for c := range 3 {
		cost, loss, nonzeros := channelCost(m, sc.coeffs[c][:n], sc.coeffs[1][:n], e.dequant.InvMatrix(s, c), factors[c], quant)
		infoLoss += infoLossWeights[c] * loss
		// Bits of the nonzero count, plus bits of that with a bias as a
		// stand-in for the cost of coding it.
		nbits := ceilLog2Nonzero(nonzeros+1) + 1
		entropy += cost + m.ZerosMul*float32(ceilLog2Nonzero(nbits+17)+nbits)
	}
	return entropy + m.InfoLossMultiplier*infoLoss
}

// ceilLog2Nonzero returns ceil(log2(x)) for x >= 1.
func ceilLog2Nonzero(x int) int {
	return bits.Len(uint(x - 1))
}
