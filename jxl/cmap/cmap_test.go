package cmap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-jxlenc/hwy/contrib/image"
)

func TestNew(t *testing.T) {
	m := New(17, 8)
	require.Equal(t, 3, m.YtoX.Width())
	require.Equal(t, 1, m.YtoX.Height())
	require.Equal(t, [3]float32{0, 0, 1}, m.Factors(2, 0))
}

func TestRatios(t *testing.T) {
	m := New(8, 8)
	m.YtoX.Set(0, 0, 42)
	m.YtoB.Set(0, 0, -84)
	f := m.Factors(0, 0)
	require.InDelta(t, 0.5, f[0], 1e-6)
	require.Zero(t, f[1])
	require.InDelta(t, 0, f[2], 1e-6)
}

func TestFit(t *testing.T) {
	planes := image.NewImage3[float32](128, 64)
	for y := range 64 {
		for x := range 128 {
			l := float32(x+y) / 200
			planes.Plane(1).Set(x, y, l)
			if x < 64 {
				planes.Plane(0).Set(x, y, 0.25*l)
				planes.Plane(2).Set(x, y, 1.5*l)
			} else {
				planes.Plane(0).Set(x, y, -10*l)
				planes.Plane(2).Set(x, y, l)
			}
		}
	}
	m := New(16, 8)
	m.Fit(planes)
	require.Equal(t, int8(21), m.YtoX.At(0, 0))
	require.Equal(t, int8(42), m.YtoB.At(0, 0))
	// -10 is outside the representable range.
	require.Equal(t, int8(-128), m.YtoX.At(1, 0))
	require.Equal(t, int8(0), m.YtoB.At(1, 0))
}
