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

package ac

import (
	"github.com/ajroetker/go-jxlenc/hwy/contrib/image"
	"github.com/ajroetker/go-jxlenc/jxl/internal/assert"
)

// StrategyImage holds one strategy per block. Each cell stores
// raw<<1 | isFirst, where isFirst marks the top-left (anchor) block of a
// placed strategy. Writes always cover a whole footprint.
type StrategyImage struct {
	cells *image.Image[uint8]
}

// NewStrategyImage allocates an xsize × ysize block grid with every cell
// set to a DCT anchor.
func NewStrategyImage(xsize, ysize int) *StrategyImage {
	si := &StrategyImage{cells: image.NewImage[uint8](xsize, ysize)}
	si.FillDCT8()
	return si
}

// XSize returns the grid width in blocks.
func (si *StrategyImage) XSize() int { return si.cells.Width() }

// YSize returns the grid height in blocks.
func (si *StrategyImage) YSize() int { return si.cells.Height() }

// Cells exposes the packed grid for serialization.
func (si *StrategyImage) Cells() *image.Image[uint8] { return si.cells }

// FillDCT8 sets every block to a DCT anchor.
func (si *StrategyImage) FillDCT8() {
	si.cells.Fill(uint8(DCT)<<1 | 1)
}

// Set places s with its anchor at block (bx, by). The footprint must lie
// inside the grid.
func (si *StrategyImage) Set(bx, by int, s Strategy) {
	assert.Thatf(s.Valid(), "invalid strategy %d", uint8(s))
	cx, cy := s.CoveredBlocksX(), s.CoveredBlocksY()
	assert.Thatf(bx >= 0 && by >= 0 && bx+cx <= si.XSize() && by+cy <= si.YSize(),
		"%v at (%d, %d) leaves the %dx%d grid", s, bx, by, si.XSize(), si.YSize())
	packed := uint8(s) << 1
	for iy := range cy {
		row := si.cells.Row(by + iy)
		for ix := range cx {
			row[bx+ix] = packed
		}
	}
	si.cells.Row(by)[bx] |= 1
}

// At returns the strategy covering block (bx, by).
func (si *StrategyImage) At(bx, by int) Strategy {
	return Strategy(si.cells.At(bx, by) >> 1)
}

// IsFirst reports whether (bx, by) is the anchor of its strategy.
func (si *StrategyImage) IsFirst(bx, by int) bool {
	return si.cells.At(bx, by)&1 != 0
}

// CountBlocks returns how many times s is placed, counting anchors only.
func (si *StrategyImage) CountBlocks(s Strategy) int {
	want := uint8(s)<<1 | 1
	n := 0
	for y := range si.YSize() {
		for _, c := range si.cells.RowSlice(y) {
			if c == want {
				n++
			}
		}
	}
	return n
}

// Anchors calls fn for every placed strategy in raster order of anchors.
func (si *StrategyImage) Anchors(fn func(bx, by int, s Strategy)) {
	for by := range si.YSize() {
		for bx, c := range si.cells.RowSlice(by) {
			if c&1 != 0 {
				fn(bx, by, Strategy(c>>1))
			}
		}
	}
}

// Validate checks that every anchor's footprint is inside the grid and
// consists of cells holding that strategy, and that every cell belongs to
// exactly one footprint. It returns the first offending block, or ok.
func (si *StrategyImage) Validate() (bx, by int, ok bool) {
	owned := image.NewImage[uint8](si.XSize(), si.YSize())
	bad := false
	si.Anchors(func(x, y int, s Strategy) {
		if bad {
			return
		}
		if !s.Valid() || x+s.CoveredBlocksX() > si.XSize() || y+s.CoveredBlocksY() > si.YSize() {
			bx, by, bad = x, y, true
			return
		}
		for iy := range s.CoveredBlocksY() {
			for ix := range s.CoveredBlocksX() {
				if si.At(x+ix, y+iy) != s || owned.At(x+ix, y+iy) != 0 {
					bx, by, bad = x+ix, y+iy, true
					return
				}
				if (ix != 0 || iy != 0) && si.IsFirst(x+ix, y+iy) {
					bx, by, bad = x+ix, y+iy, true
					return
				}
				owned.Set(x+ix, y+iy, 1)
			}
		}
	})
	if bad {
		return bx, by, false
	}
	for y := range si.YSize() {
		for x, o := range owned.RowSlice(y) {
			if o == 0 {
				return x, y, false
			}
		}
	}
	return 0, 0, true
}
