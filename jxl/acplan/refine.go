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
	"github.com/ajroetker/go-jxlenc/hwy/contrib/image"
	"github.com/ajroetker/go-jxlenc/jxl/ac"
	"github.com/ajroetker/go-jxlenc/jxl/internal/assert"
)

// maxReplacementTiles bounds how many copies of a candidate tile its
// parent's footprint.
const maxReplacementTiles = 4

// refine visits the superblock's anchors in raster order and replaces each
// placement until it reaches a fixed point. The footprint that remains at
// the anchor is then done; the other tiles of a split are visited later as
// anchors of their own.
func (f *frame) refine(sb *superblock, sc *Scratch) {
	var done [superblockArea]bool
	for iy := range sb.h {
		for ix := range sb.w {
			if done[iy*superblockDim+ix] {
				continue
			}
			bx, by := sb.bx0+ix, sb.by0+iy
			for f.maybeReplace(sb, bx, by, sc) {
			}
			s := f.grid.At(bx, by)
			for y := iy; y < iy+s.CoveredBlocksY(); y++ {
				for x := ix; x < ix+s.CoveredBlocksX(); x++ {
					done[y*superblockDim+x] = true
				}
			}
		}
	}
}

// maybeReplace tries every replacement of the strategy anchored at block
// (bx, by). A candidate tiles the whole footprint; its cost is the sum of
// its adjusted tile estimates. The cheapest candidate replaces the current
// strategy if it is strictly cheaper than the recorded estimate, discounted
// for DCT64X64. It reports whether the grid changed.
func (f *frame) maybeReplace(sb *superblock, bx, by int, sc *Scratch) bool {
	cur := f.grid.At(bx, by)
	candidates := ac.Replacements(cur)
	if len(candidates) == 0 {
		return false
	}
	bestEE := f.entropy.At(bx, by)
	if cur == ac.DCT64X64 {
		bestEE *= largestDiscount
	}
	best := -1
	var vals, bestVals [maxReplacementTiles]float32
	for i, cand := range candidates {
		n := 0
		var total float32
		for y := 0; y < cur.CoveredBlocksY(); y += cand.CoveredBlocksY() {
			for x := 0; x < cur.CoveredBlocksX(); x += cand.CoveredBlocksX() {
				assert.Thatf(n < maxReplacementTiles, "%v splits into too many %v", cur, cand)
				e := f.est.Estimate(cand, (bx+x)*ac.BlockDim, (by+y)*ac.BlockDim, sb.factors, sc)
				vals[n] = AdjustEntropy(cand, e)
				total += vals[n]
				n++
			}
		}
		if total < bestEE {
			bestEE = total
			best = i
			bestVals = vals
		}
	}
	if best < 0 {
		return false
	}

	s := candidates[best]
	n := 0
	for y := 0; y < cur.CoveredBlocksY(); y += s.CoveredBlocksY() {
		for x := 0; x < cur.CoveredBlocksX(); x += s.CoveredBlocksX() {
			f.grid.Set(bx+x, by+y, s)
			f.entropy.FillRect(image.Rect{
				X0: bx + x, Y0: by + y,
				X1: bx + x + s.CoveredBlocksX(), Y1: by + y + s.CoveredBlocksY(),
			}, bestVals[n])
			n++
		}
	}
	return true
}
