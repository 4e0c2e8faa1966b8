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

// Package acplan chooses the AC strategy of every block of an XYB frame.
//
// Planning runs independently per 64×64-pixel superblock. Inside one, each
// block gets a variation score per channel, then blocks are covered greedily
// in raster order by the largest strategy whose footprint is aligned, free
// and smooth enough. On the slower speed tiers every placement is then
// refined: it is split along ac.Replacements whenever the estimated coding
// cost of the pieces is lower, until nothing changes.
//
// Usage:
//
//	pool := workerpool.New(0)
//	defer pool.Close()
//	res := acplan.PlanTransformStrategy(acplan.Inputs{
//	    Planes:     planes, // padded to whole blocks
//	    QuantField: quant.InitialField(planes, 1.0, pool),
//	}, acplan.Params{Distance: 1.0, Speed: acplan.Squirrel}, pool)
package acplan

import (
	"log/slog"
	"time"

	"github.com/ajroetker/go-jxlenc/hwy/contrib/image"
	"github.com/ajroetker/go-jxlenc/jxl/ac"
	"github.com/ajroetker/go-jxlenc/jxl/cmap"
	"github.com/ajroetker/go-jxlenc/jxl/dct"
	"github.com/ajroetker/go-jxlenc/jxl/internal/assert"
	"github.com/ajroetker/go-jxlenc/jxl/quant"
)

// Inputs is the frame being planned.
type Inputs struct {
	// Planes holds X, Y and B, each padded to a multiple of 8 pixels.
	Planes *image.Image3[float32]
	// QuantField has one positive value per block. It is read when the
	// tier estimates entropy and overwritten when the tier writes it.
	QuantField *image.Image[float32]
	// ColorMap defaults to a zero map.
	ColorMap *cmap.Map
	// Dequant defaults to quant.Matrices.
	Dequant DequantMatrices
	// Transform defaults to dct.Engine.
	Transform Transformer
}

// Params selects the trade-offs of a plan.
type Params struct {
	// Distance is the butteraugli distance target, > 0.
	Distance float32
	// Speed defaults to Squirrel.
	Speed SpeedTier
	// Logger receives a debug record per plan. Nil discards.
	Logger *slog.Logger
}

// Runner runs n indexed tasks. init, if not nil, is called first with the
// number of workers; fn then gets each task with the index of the worker
// running it. *workerpool.Pool implements it.
type Runner interface {
	ParallelForWorker(n int, init func(workers int), fn func(task, worker int))
}

// Result is a finished plan.
type Result struct {
	Strategy *ac.StrategyImage
	// EntropyEstimate is the estimate of the strategy covering each block,
	// zero on tiers that do not estimate.
	EntropyEstimate *image.Image[float32]
	Histogram       Histogram
}

var defaultDequant = &quant.Matrices{}

// PlanTransformStrategy chooses the strategy of every block of in. When the
// tier writes the quant field, in.QuantField is updated in place. A nil
// pool runs every superblock on the calling goroutine. The result does not
// depend on the pool.
func PlanTransformStrategy(in Inputs, params Params, pool Runner) *Result {
	start := time.Now()
	logger := params.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if params.Speed == 0 {
		params.Speed = Squirrel
	}
	assert.Thatf(params.Speed >= Tortoise && params.Speed <= Falcon, "invalid %v", params.Speed)
	assert.That(in.Planes != nil && in.QuantField != nil, "planes and quant field are required")
	xsizeBlocks := ac.DivCeil(in.Planes.Width(), ac.BlockDim)
	ysizeBlocks := ac.DivCeil(in.Planes.Height(), ac.BlockDim)
	assert.Thatf(xsizeBlocks*ac.BlockDim == in.Planes.Width() && ysizeBlocks*ac.BlockDim == in.Planes.Height(),
		"planes of %dx%d are not padded to whole blocks", in.Planes.Width(), in.Planes.Height())
	assert.Thatf(in.QuantField.Width() == xsizeBlocks && in.QuantField.Height() == ysizeBlocks,
		"quant field is %dx%d, want %dx%d", in.QuantField.Width(), in.QuantField.Height(), xsizeBlocks, ysizeBlocks)
	if in.ColorMap == nil {
		in.ColorMap = cmap.New(xsizeBlocks, ysizeBlocks)
	}
	if in.Dequant == nil {
		in.Dequant = defaultDequant
	}
	if in.Transform == nil {
		in.Transform = dct.Engine{}
	}

	res := &Result{
		Strategy:        ac.NewStrategyImage(xsizeBlocks, ysizeBlocks),
		EntropyEstimate: image.NewImage[float32](xsizeBlocks, ysizeBlocks),
	}
	if params.Speed.UniformDCT8() {
		res.Strategy.FillDCT8()
		res.Histogram = NewHistogram(res.Strategy)
		logger.Debug("AC strategy: uniform DCT8", "tier", params.Speed, "blocks", xsizeBlocks*ysizeBlocks)
		return res
	}

	f := newFrame(&in, params, res)

	// One arena per worker, allocated on the worker's first task. Tiers
	// that never estimate need none.
	var scratch []*Scratch
	initScratch := func(workers int) { scratch = make([]*Scratch, workers) }
	run := func(task, worker int) {
		if scratch[worker] == nil && f.tier.EstimatesEntropy() {
			scratch[worker] = NewScratch()
		}
		f.planSuperblock(task, scratch[worker])
	}
	numTasks := f.xsizeSuper * f.ysizeSuper
	if pool == nil {
		initScratch(1)
		for i := range numTasks {
			run(i, 0)
		}
	} else {
		pool.ParallelForWorker(numTasks, initScratch, run)
	}

	res.Histogram = NewHistogram(res.Strategy)
	logger.Debug("AC strategy: planned",
		"tier", params.Speed,
		"distance", params.Distance,
		"superblocks", numTasks,
		"elapsed", time.Since(start),
		"histogram", res.Histogram)
	return res
}

func newFrame(in *Inputs, params Params, res *Result) *frame {
	model := NewCostModel(params.Distance)
	xsizeBlocks, ysizeBlocks := res.Strategy.XSize(), res.Strategy.YSize()
	f := &frame{
		model:       &model,
		tier:        params.Speed,
		colors:      in.ColorMap,
		planes:      in.Planes,
		quant:       in.QuantField,
		grid:        res.Strategy,
		entropy:     res.EntropyEstimate,
		xsizeBlocks: xsizeBlocks,
		ysizeBlocks: ysizeBlocks,
		xsizeSuper:  ac.DivCeil(xsizeBlocks, superblockDim),
		ysizeSuper:  ac.DivCeil(ysizeBlocks, superblockDim),
	}
	f.est = NewEstimator(&model, in)
	return f
}
