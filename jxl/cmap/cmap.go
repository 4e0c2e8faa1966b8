// Package cmap holds the colour correlation map: per 64×64-pixel tile, how
// much of the luma (Y) coefficients to subtract from X and B before
// quantization.
package cmap

import (
	"math"

	"github.com/ajroetker/go-jxlenc/hwy/contrib/image"
	"github.com/ajroetker/go-jxlenc/jxl/ac"
)

const (
	// TileDimInBlocks is the side of a colour tile in blocks.
	TileDimInBlocks = 8
	// DefaultColorFactor is the number of map steps per unit of ratio.
	DefaultColorFactor = 84
	// DefaultBaseCorrelationB is the Y to B ratio a zero map entry means.
	DefaultBaseCorrelationB = 1.0
)

// Map stores quantized Y→X and Y→B ratios, one entry per tile.
type Map struct {
	YtoX *image.Image[int8]
	YtoB *image.Image[int8]

	ColorFactor      int
	BaseCorrelationX float32
	BaseCorrelationB float32
}

// New returns a map for a frame of xsizeBlocks × ysizeBlocks blocks with
// every entry zero, so X predicts nothing and B predicts all of Y.
func New(xsizeBlocks, ysizeBlocks int) *Map {
	tx := ac.DivCeil(xsizeBlocks, TileDimInBlocks)
	ty := ac.DivCeil(ysizeBlocks, TileDimInBlocks)
	return &Map{
		YtoX:             image.NewImage[int8](tx, ty),
		YtoB:             image.NewImage[int8](tx, ty),
		ColorFactor:      DefaultColorFactor,
		BaseCorrelationB: DefaultBaseCorrelationB,
	}
}

// YtoXRatio maps a stored entry to the Y→X ratio.
func (m *Map) YtoXRatio(v int8) float32 {
	return m.BaseCorrelationX + float32(v)/float32(m.ColorFactor)
}

// YtoBRatio maps a stored entry to the Y→B ratio.
func (m *Map) YtoBRatio(v int8) float32 {
	return m.BaseCorrelationB + float32(v)/float32(m.ColorFactor)
}

// Factors returns the per-channel prediction ratios for tile (tx, ty) in
// X, Y, B order. Y never predicts from itself.
func (m *Map) Factors(tx, ty int) [3]float32 {
	return [3]float32{
		m.YtoXRatio(m.YtoX.At(tx, ty)),
		0,
		m.YtoBRatio(m.YtoB.At(tx, ty)),
	}
}

// Fit sets each tile's entries to the least-squares ratio between the
// tile's Y samples and its X and B samples, rounded to the map's step and
// clamped to int8. Tiles without luma variation keep a zero entry.
func (m *Map) Fit(planes *image.Image3[float32]) {
	const tilePixels = TileDimInBlocks * ac.BlockDim
	for ty := range m.YtoX.Height() {
		for tx := range m.YtoX.Width() {
			r := image.Rect{
				X0: tx * tilePixels, Y0: ty * tilePixels,
				X1: (tx + 1) * tilePixels, Y1: (ty + 1) * tilePixels,
			}.Intersect(planes.Plane(0).Bounds())
			var yy, xy, by float64
			for y := r.Y0; y < r.Y1; y++ {
				rowX, rowY, rowB := planes.PlaneRow(0, y), planes.PlaneRow(1, y), planes.PlaneRow(2, y)
				for x := r.X0; x < r.X1; x++ {
					l := float64(rowY[x])
					yy += l * l
					xy += float64(rowX[x]) * l
					by += float64(rowB[x]) * l
				}
			}
			if yy < 1e-12 {
				m.YtoX.Set(tx, ty, 0)
				m.YtoB.Set(tx, ty, 0)
				continue
			}
			m.YtoX.Set(tx, ty, m.quantize(xy/yy-float64(m.BaseCorrelationX)))
			m.YtoB.Set(tx, ty, m.quantize(by/yy-float64(m.BaseCorrelationB)))
		}
	}
}

func (m *Map) quantize(ratio float64) int8 {
	v := math.Round(ratio * float64(m.ColorFactor))
	return int8(max(math.MinInt8, min(math.MaxInt8, v)))
}
