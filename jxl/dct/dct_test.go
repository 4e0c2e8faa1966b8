package dct

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-jxlenc/jxl/ac"
)

func randomBlock(rng *rand.Rand, rows, stride int) []float32 {
	px := make([]float32, rows*stride)
	for i := range px {
		px[i] = rng.Float32()*2 - 1
	}
	return px
}

// naive evaluates the scaled DCT-II straight from its definition.
func naive(px []float32, stride, rows, cols, v, u int) float64 {
	s := func(k, n int) float64 {
		if k == 0 {
			return 1 / float64(n)
		}
		return math.Sqrt2 / float64(n)
	}
	var sum float64
	for y := range rows {
		for x := range cols {
			sum += float64(px[y*stride+x]) *
				math.Cos(float64((2*y+1)*v)*math.Pi/float64(2*rows)) *
				math.Cos(float64((2*x+1)*u)*math.Pi/float64(2*cols))
		}
	}
	return sum * s(v, rows) * s(u, cols)
}

func TestForward2DMatchesDefinition(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, dims := range [][2]int{{8, 8}, {16, 8}, {8, 32}, {4, 8}, {32, 16}} {
		rows, cols := dims[0], dims[1]
		stride := cols + 3
		px := randomBlock(rng, rows, stride)
		coeffs := make([]float32, rows*cols)
		Forward2D(px, stride, rows, cols, coeffs, cols, make([]float32, rows*cols))
		for v := range rows {
			for u := range cols {
				require.InDelta(t, naive(px, stride, rows, cols, v, u), coeffs[v*cols+u], 1e-4,
					"%dx%d coefficient (%d, %d)", rows, cols, v, u)
			}
		}
	}
}

// Coefficient energy times the area equals the pixel energy.
func TestEnergy(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	var engine Engine
	for _, s := range []ac.Strategy{ac.DCT, ac.DCT16X16, ac.DCT32X8, ac.DCT64X32, ac.DCT128X128} {
		stride := s.PixelsX()
		px := randomBlock(rng, s.PixelsY(), stride)
		coeffs := make([]float32, s.CoeffCount())
		engine.TransformFromPixels(s, px, stride, coeffs, make([]float32, ScratchSize(s)))
		var ep, ec float64
		for i := range px {
			ep += float64(px[i]) * float64(px[i])
			ec += float64(coeffs[i]) * float64(coeffs[i])
		}
		require.InEpsilon(t, ep, ec*float64(s.CoeffCount()), 1e-3, "%v", s)
	}
}

func TestConstantBlock(t *testing.T) {
	const c = 0.37
	const stride = 12
	px := make([]float32, 8*stride)
	for i := range px {
		px[i] = c
	}
	var engine Engine
	for _, s := range ac.All() {
		if s.IsMultiblock() {
			continue
		}
		coeffs := make([]float32, 64)
		engine.TransformFromPixels(s, px, stride, coeffs, make([]float32, ScratchSize(s)))
		require.InDelta(t, c, coeffs[0], 1e-6, "%v DC", s)
		nonzero := 0
		for _, v := range coeffs {
			if math.Abs(float64(v)) > 1e-5 {
				nonzero++
			}
		}
		require.LessOrEqual(t, nonzero, 4, "%v", s)
	}
}

func TestHaarDetail(t *testing.T) {
	// A vertical edge at x=4 only shows up in horizontal detail bands.
	px := make([]float32, 64)
	for y := range 8 {
		for x := 4; x < 8; x++ {
			px[y*8+x] = 1
		}
	}
	coeffs := make([]float32, 64)
	Engine{}.TransformFromPixels(ac.DCT2X2, px, 8, coeffs, make([]float32, 64))
	require.InDelta(t, 0.5, coeffs[0], 1e-6)
	for y := 4; y < 8; y++ {
		for x := range 8 {
			require.Zero(t, coeffs[y*8+x], "vertical detail at (%d, %d)", x, y)
		}
	}
}

func TestUnsupportedSize(t *testing.T) {
	require.Panics(t, func() { matrixFor(12) })
	require.Panics(t, func() { matrixFor(512) })
}

func BenchmarkDCT64X64(b *testing.B) {
	s := ac.DCT64X64
	px := randomBlock(rand.New(rand.NewPCG(5, 6)), 64, 64)
	coeffs := make([]float32, s.CoeffCount())
	scratch := make([]float32, ScratchSize(s))
	var engine Engine
	for b.Loop() {
		engine.TransformFromPixels(s, px, 64, coeffs, scratch)
	}
}
