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
	"math"

	"github.com/ajroetker/go-jxlenc/hwy/contrib/image"
	"github.com/ajroetker/go-jxlenc/jxl/ac"
	"github.com/ajroetker/go-jxlenc/jxl/cmap"
)

// superblockDim is the side of a superblock in blocks. A superblock is one
// colour tile, so all of its estimates share one set of colour factors.
const superblockDim = cmap.TileDimInBlocks

const superblockArea = superblockDim * superblockDim

// Per-channel weight of local variation, X Y B.
var deltaScale = [3]float32{3, 1, 0.2}

// Coverage penalty base: combined scores grow by this factor per block.
const coveragePenalty = 1.044

// frame is the state shared by all superblock tasks of one plan. Tasks only
// write the grid cells of their own superblock.
type frame struct {
	model   *CostModel
	tier    SpeedTier
	est     *Estimator
	colors  *cmap.Map
	planes  *image.Image3[float32]
	quant   *image.Image[float32]
	grid    *ac.StrategyImage
	entropy *image.Image[float32]

	xsizeBlocks, ysizeBlocks int
	xsizeSuper, ysizeSuper   int
}

// superblock holds the statistics of one task. Block coordinates inside it
// are relative to (bx0, by0).
type superblock struct {
	bx0, by0 int
	// Blocks of the superblock inside the frame.
	w, h    int
	factors [3]float32

	maxDelta    [3][superblockArea]float32
	maxFlatness [3]float32
	chosen      [superblockArea]bool
}

func (f *frame) newSuperblock(task int) *superblock {
	sx, sy := task%f.xsizeSuper, task/f.xsizeSuper
	sb := &superblock{
		bx0:     sx * superblockDim,
		by0:     sy * superblockDim,
		factors: f.colors.Factors(sx, sy),
	}
	sb.w = min(superblockDim, f.xsizeBlocks-sb.bx0)
	sb.h = min(superblockDim, f.ysizeBlocks-sb.by0)
	return sb
}

// planSuperblock runs placement and, when the tier allows it, refinement
// on superblock task.
func (f *frame) planSuperblock(task int, sc *Scratch) {
	sb := f.newSuperblock(task)
	f.analyze(sb)
	f.place(sb, sc)
	if f.tier.Refines() {
		f.refine(sb, sc)
	}
}

// analyze fills the per-block variation and the per-channel flatness maxima
// of the superblock. B reuses the flatness of Y.
func (f *frame) analyze(sb *superblock) {
	var block PaddedBlock
	for c := range 3 {
		plane := f.planes.Plane(c)
		for iy := range sb.h {
			for ix := range sb.w {
				block.Load(plane, (sb.bx0+ix)*ac.BlockDim, (sb.by0+iy)*ac.BlockDim)
				sb.maxDelta[c][iy*superblockDim+ix] = MaxDelta(&block) * deltaScale[c]
				if c != 2 {
					sb.maxFlatness[c] = max(sb.maxFlatness[c], Flatness(&block, f.model.Flat, deltaScale[c]))
				}
			}
		}
	}
	sb.maxFlatness[2] = sb.maxFlatness[1]
}

// place covers the superblock greedily: at each uncovered block in raster
// order, the first strategy of ac.PlacementOrder that fits and passes the
// gradient gate wins.
func (f *frame) place(sb *superblock, sc *Scratch) {
	for iy := range sb.h {
		for ix := range sb.w {
			if sb.chosen[iy*superblockDim+ix] {
				continue
			}
			for _, s := range ac.PlacementOrder {
				score, ok := sb.score(s, ix, iy, f.model.MaxDelta)
				if !ok {
					continue
				}
				f.placeAt(sb, s, ix, iy, score, sc)
				break
			}
		}
	}
}

// score returns the gradient score of s anchored at (ix, iy) and whether
// the placement is allowed. 1×1 strategies always are.
func (sb *superblock) score(s ac.Strategy, ix, iy int, maxDelta float32) (float32, bool) {
	cx, cy := s.CoveredBlocksX(), s.CoveredBlocksY()
	if cx == 1 && cy == 1 {
		i := iy*superblockDim + ix
		return max(sb.maxDelta[0][i], sb.maxDelta[1][i], sb.maxDelta[2][i]), true
	}
	if ix%cx != 0 || iy%cy != 0 || ix+cx > sb.w || iy+cy > sb.h {
		return 0, false
	}
	for y := iy; y < iy+cy; y++ {
		for x := ix; x < ix+cx; x++ {
			if sb.chosen[y*superblockDim+x] {
				return 0, false
			}
		}
	}

	area := cx * cy
	var total float32
	for c := range 3 {
		var largest, second, sum float32
		smallest := float32(math.MaxFloat32)
		for y := iy; y < iy+cy; y++ {
			for _, d := range sb.maxDelta[c][y*superblockDim+ix : y*superblockDim+ix+cx] {
				if largest < d {
					second = largest
					largest = d
				} else if second < d {
					second = d
				}
				smallest = min(smallest, d)
				sum += d
			}
		}
		// Mean of the others, leaving out the two largest when there are
		// enough blocks.
		ave := sum - largest
		if area >= 5 {
			ave = (ave - second) / float32(area-2)
		} else {
			ave /= float32(area - 1)
		}
		v := largest
		v -= 0.03 * second
		v -= 0.25 * smallest
		v -= 0.25 * ave
		total += v * sb.maxFlatness[c]
	}
	total *= float32(math.Pow(coveragePenalty, float64(area)))
	return total, total <= maxDelta
}

// placeAt records s at superblock position (ix, iy) with its estimate and,
// when the tier needs it, a provisional quant value derived from score.
func (f *frame) placeAt(sb *superblock, s ac.Strategy, ix, iy int, score float32, sc *Scratch) {
	bx, by := sb.bx0+ix, sb.by0+iy
	var entropy float32
	if f.tier.EstimatesEntropy() {
		entropy = f.est.Estimate(s, bx*ac.BlockDim, by*ac.BlockDim, sb.factors, sc)
	}
	footprint := image.Rect{X0: bx, Y0: by, X1: bx + s.CoveredBlocksX(), Y1: by + s.CoveredBlocksY()}
	if f.tier.WritesQuantField() {
		f.quant.FillRect(footprint, 1.1/(1+score)/f.model.Distance)
	}
	f.grid.Set(bx, by, s)
	f.entropy.FillRect(footprint, entropy)
	for y := iy; y < iy+s.CoveredBlocksY(); y++ {
		for x := ix; x < ix+s.CoveredBlocksX(); x++ {
			sb.chosen[y*superblockDim+x] = true
		}
	}
}
