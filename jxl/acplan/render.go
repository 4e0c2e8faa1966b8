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
	stdimage "image"
	"image/color"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"

	"github.com/ajroetker/go-jxlenc/jxl/ac"
)

// Legend colours, by strategy. Related shapes share a hue and larger
// transforms get darker.
var typeHex = [ac.NumStrategies]string{
	ac.DCT:        "#ffff00",
	ac.IDENTITY:   "#ff8080",
	ac.DCT2X2:     "#ff8080",
	ac.DCT4X4:     "#ff8080",
	ac.DCT16X16:   "#80ff00",
	ac.DCT32X32:   "#00c000",
	ac.DCT16X8:    "#c0ff00",
	ac.DCT8X16:    "#c0ff00",
	ac.DCT32X8:    "#00ff00",
	ac.DCT8X32:    "#00ff00",
	ac.DCT32X16:   "#00ff00",
	ac.DCT16X32:   "#00ff00",
	ac.DCT4X8:     "#ff8000",
	ac.DCT8X4:     "#ff8000",
	ac.AFV0:       "#ffff80",
	ac.AFV1:       "#ffff80",
	ac.AFV2:       "#ffff80",
	ac.AFV3:       "#ffff80",
	ac.DCT64X64:   "#00c0ff",
	ac.DCT64X32:   "#00ffff",
	ac.DCT32X64:   "#00ffff",
	ac.DCT128X128: "#0040ff",
	ac.DCT128X64:  "#0080ff",
	ac.DCT64X128:  "#0080ff",
	ac.DCT256X256: "#0000c0",
	ac.DCT256X128: "#0000ff",
	ac.DCT128X256: "#0000ff",
}

var typeColors = sync.OnceValue(func() [ac.NumStrategies]colorful.Color {
	var colors [ac.NumStrategies]colorful.Color
	for s, hex := range typeHex {
		c, err := colorful.Hex(hex)
		if err != nil {
			panic(err)
		}
		colors[s] = c
	}
	return colors
})

// TypeColor returns the legend colour of s.
func TypeColor(s ac.Strategy) colorful.Color {
	return typeColors()[s]
}

// Pattern drawn inside single-block strategies, one byte per row with the
// leftmost pixel in the high bit.
var typeMask = [ac.NumStrategies][ac.BlockDim]uint8{
	ac.IDENTITY: {0x00, 0x00, 0x24, 0x24, 0x3c, 0x24, 0x24, 0x00},
	ac.DCT2X2:   {0xff, 0xaa, 0xff, 0xaa, 0xff, 0xaa, 0xff, 0xaa},
	ac.DCT4X4:   {0x08, 0x08, 0x08, 0x08, 0xff, 0x08, 0x08, 0x08},
	ac.DCT4X8:   {0x00, 0x00, 0x00, 0x00, 0xff, 0x00, 0x00, 0x00},
	ac.DCT8X4:   {0x08, 0x08, 0x08, 0x08, 0x08, 0x08, 0x08, 0x08},
	ac.AFV0:     {0xf8, 0xf0, 0xe0, 0xc0, 0x80, 0x00, 0x00, 0x00},
	ac.AFV1:     {0x0f, 0x07, 0x03, 0x01, 0x00, 0x00, 0x00, 0x00},
	ac.AFV2:     {0x00, 0x00, 0x00, 0x00, 0x80, 0xc0, 0xe0, 0xf0},
	ac.AFV3:     {0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x03, 0x07},
}

// TypeMask reports whether pixel (x, y) of a single-block strategy is part
// of its pattern.
func TypeMask(s ac.Strategy, x, y int) bool {
	return typeMask[s][y]&(0x80>>x) != 0
}

// Divisors of the legend colour for pattern pixels and for the top and left
// edge of every transform.
const (
	maskShade = 800.0 / 255
	edgeShade = 350.0 / 255
)

func shade(c colorful.Color, div float64) color.RGBA {
	r, g, b := colorful.Color{R: c.R / div, G: c.G / div, B: c.B / div}.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Render draws grid as an xsize×ysize image, one pixel per pixel of the
// frame. Every transform is filled with its legend colour; its top row and
// left column are drawn darker, as is the pattern of single-block
// strategies.
func Render(grid *ac.StrategyImage, xsize, ysize int) *stdimage.RGBA {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, xsize, ysize))
	for y := range ysize {
		for x := range xsize {
			r, g, b := TypeColor(grid.At(x/ac.BlockDim, y/ac.BlockDim)).RGB255()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	grid.Anchors(func(bx, by int, s ac.Strategy) {
		x0, y0 := bx*ac.BlockDim, by*ac.BlockDim
		if x0 >= xsize || y0 >= ysize {
			return
		}
		c := TypeColor(s)
		if !s.IsMultiblock() {
			mask := shade(c, maskShade)
			for iy := 0; iy < ac.BlockDim && y0+iy < ysize; iy++ {
				for ix := 0; ix < ac.BlockDim && x0+ix < xsize; ix++ {
					if TypeMask(s, ix, iy) {
						img.SetRGBA(x0+ix, y0+iy, mask)
					}
				}
			}
		}
		edge := shade(c, edgeShade)
		for x := x0; x < min(x0+s.PixelsX(), xsize); x++ {
			img.SetRGBA(x, y0, edge)
		}
		for y := y0; y < min(y0+s.PixelsY(), ysize); y++ {
			img.SetRGBA(x0, y, edge)
		}
	})
	return img
}

// RenderScaled is Render enlarged by an integer factor without smoothing.
func RenderScaled(grid *ac.StrategyImage, xsize, ysize, scale int) *stdimage.RGBA {
	src := Render(grid, xsize, ysize)
	if scale <= 1 {
		return src
	}
	dst := stdimage.NewRGBA(stdimage.Rect(0, 0, xsize*scale, ysize*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
