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
)

// blockPad is the number of samples before and after an 8×8 block in a
// PaddedBlock. Padding samples are never used for a result.
const blockPad = 2

// PaddedBlock is an 8×8 block stored row-major at offset blockPad, so the
// kernels can address two samples left of the first pixel and two right of
// the last one without bounds checks.
type PaddedBlock [blockPad + ac.BlockDim*ac.BlockDim + blockPad]float32

// Load copies the block whose top-left pixel is (x, y).
func (b *PaddedBlock) Load(plane *image.Image[float32], x, y int) {
	for iy := range ac.BlockDim {
		copy(b[blockPad+iy*ac.BlockDim:blockPad+(iy+1)*ac.BlockDim], plane.Row(y + iy)[x:])
	}
}

// flatnessPairs is the number of valid horizontal neighbour pairs two
// samples apart in a block row, times the rows.
const flatnessPairs = 48

// Flatness measures how visible ringing would be in the block: close to
// 64/48 for a flat block, falling toward zero as neighbouring samples
// differ. For each pixel it takes the largest absolute difference against
// the samples two to the left, right, above and below that lie inside the
// block, scales it by 0.25·flat·deltaScale and accumulates
// (1/48) / (1 + scaled²).
func Flatness(b *PaddedBlock, flat, deltaScale float32) float32 {
	const n = ac.BlockDim
	smul := 0.25 * flat * deltaScale
	var accum float32
	for y := range n {
		for x := range n {
			idx := blockPad + y*n + x
			p := b[idx]
			var d float32
			if x >= 2 {
				d = max(d, abs32(p-b[idx-2]))
			}
			if x < n-2 {
				d = max(d, abs32(p-b[idx+2]))
			}
			if y >= 2 {
				d = max(d, abs32(p-b[idx-2*n]))
			}
			if y < n-2 {
				d = max(d, abs32(p-b[idx+2*n]))
			}
			sv := d * smul
			accum += (1.0 / flatnessPairs) / (1 + sv*sv)
		}
	}
	return accum
}

// MaxDelta returns the largest local variation inside the block: over the
// interior 6×6 pixels, the maximum of the differences between the pixel and
// its four direct neighbours and between opposite neighbours.
func MaxDelta(b *PaddedBlock) float32 {
	const n = ac.BlockDim
	var delta float32
	for y := 1; y < n-1; y++ {
		for x := 1; x < n-1; x++ {
			idx := blockPad + y*n + x
			p := b[idx]
			up, down := b[idx-n], b[idx+n]
			left, right := b[idx-1], b[idx+1]
			delta = max(delta,
				abs32(down-p), abs32(up-p),
				abs32(left-p), abs32(right-p),
				abs32(right-left), abs32(up-down))
		}
	}
	return delta
}
