package acplan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-jxlenc/hwy/contrib/image"
)

func blockOf(fn func(x, y int) float32) *PaddedBlock {
	plane := image.NewImage[float32](8, 8)
	for y := range 8 {
		for x := range 8 {
			plane.Set(x, y, fn(x, y))
		}
	}
	var b PaddedBlock
	b.Load(plane, 0, 0)
	return &b
}

func TestFlatness(t *testing.T) {
	flat := blockOf(func(x, y int) float32 { return 0.3 })
	require.InDelta(t, 64.0/48, Flatness(flat, 3.2, 1), 1e-5)

	// Columns alternate in pairs, so samples two apart always differ.
	stripes := blockOf(func(x, y int) float32 { return float32(x / 2 % 2) })
	got := Flatness(stripes, 3.2, 1)
	require.Less(t, got, float32(64.0/48))
	require.InDelta(t, 64.0/48/(1+0.8*0.8), got, 1e-5)
	require.Less(t, Flatness(stripes, 3.2, 3), got)
}

func TestMaxDelta(t *testing.T) {
	require.Zero(t, MaxDelta(blockOf(func(x, y int) float32 { return 7 })))

	spike := blockOf(func(x, y int) float32 {
		if x == 3 && y == 4 {
			return 2
		}
		return 0
	})
	require.InDelta(t, 2, MaxDelta(spike), 1e-6)

	// Corners are nobody's direct neighbour.
	corner := blockOf(func(x, y int) float32 {
		if x == 0 && y == 0 {
			return 5
		}
		return 0
	})
	require.Zero(t, MaxDelta(corner))

	ramp := blockOf(func(x, y int) float32 { return float32(x) * 0.5 })
	require.InDelta(t, 1, MaxDelta(ramp), 1e-6)
}
