package acplan

import (
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-jxlenc/hwy"
	"github.com/ajroetker/go-jxlenc/hwy/contrib/image"
	"github.com/ajroetker/go-jxlenc/jxl/ac"
	"github.com/ajroetker/go-jxlenc/jxl/dct"
	"github.com/ajroetker/go-jxlenc/jxl/quant"
)

func TestChannelCostLanesMatchesBase(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	m := NewCostModel(1.5)
	for _, n := range []int{64, 128, 1024} {
		in := make([]float32, n)
		inY := make([]float32, n)
		inv := make([]float32, n)
		for i := range n {
			in[i] = rng.Float32()*2 - 1
			inY[i] = rng.Float32()*2 - 1
			inv[i] = rng.Float32() * 30
		}
		cost, loss, nz := channelCostBase(&m, in, inY, inv, 0.3, 0.9)
		costL, lossL, nzL := channelCostLanes(&m, in, inY, inv, 0.3, 0.9)
		require.Equal(t, nz, nzL, "n=%d", n)
		require.InEpsilon(t, cost, costL, 1e-4, "n=%d", n)
		require.InEpsilon(t, loss, lossL, 1e-4, "n=%d", n)
	}
}

func TestSelectChannelCost(t *testing.T) {
	base := reflect.ValueOf(channelCostBase).Pointer()
	lanes := reflect.ValueOf(channelCostLanes).Pointer()
	require.Equal(t, base, reflect.ValueOf(selectChannelCost(false)).Pointer())
	want := lanes
	if hwy.CurrentLevel() == hwy.DispatchScalar {
		want = base
	}
	require.Equal(t, want, reflect.ValueOf(selectChannelCost(true)).Pointer())
	if !hwy.LaneKernelsEnv() {
		require.Equal(t, base, reflect.ValueOf(channelCost).Pointer())
	}
}

func benchmarkChannelCost(b *testing.B, kernel channelCostFunc) {
	rng := rand.New(rand.NewPCG(3, 4))
	m := NewCostModel(1)
	const n = 4096
	in := make([]float32, n)
	inY := make([]float32, n)
	inv := make([]float32, n)
	for i := range n {
		in[i] = rng.Float32()*2 - 1
		inY[i] = rng.Float32()*2 - 1
		inv[i] = rng.Float32() * 30
	}
	b.ResetTimer()
	for range b.N {
		kernel(&m, in, inY, inv, 0.3, 0.9)
	}
}

func BenchmarkChannelCostBase(b *testing.B)  { benchmarkChannelCost(b, channelCostBase) }
func BenchmarkChannelCostLanes(b *testing.B) { benchmarkChannelCost(b, channelCostLanes) }

func TestChannelCostZero(t *testing.T) {
	m := NewCostModel(1)
	zeros := make([]float32, 64)
	inv := make([]float32, 64)
	for i := range inv {
		inv[i] = 1
	}
	cost, loss, nz := channelCost(&m, zeros, zeros, inv, 1, 1)
	require.Zero(t, cost)
	require.Zero(t, loss)
	require.Zero(t, nz)

	// 2.4 rounds to 2: both thresholds, √2 and 0.4 of loss.
	one := make([]float32, 64)
	one[5] = 2.4
	cost, loss, nz = channelCostBase(&m, one, zeros, inv, 0, 1)
	require.Equal(t, 1, nz)
	require.InDelta(t, m.Cost1+m.Cost2+1.41421356*m.CostDelta, cost, 1e-3)
	require.InDelta(t, 0.4, loss, 1e-6)
}

func newTestEstimator(planes *image.Image3[float32], q float32) *Estimator {
	field := image.NewImage[float32](planes.Width()/8, planes.Height()/8)
	field.Fill(q)
	model := NewCostModel(1)
	return NewEstimator(&model, &Inputs{
		Planes:     planes,
		QuantField: field,
		Dequant:    &quant.Matrices{},
		Transform:  dct.Engine{},
	})
}

func TestEstimateZeroBlock(t *testing.T) {
	est := newTestEstimator(image.NewImage3[float32](64, 64), 1)
	sc := NewScratch()
	// No nonzeros: every channel pays ZerosMul for 1 + ceil(log2(18)) bits.
	for _, s := range []ac.Strategy{ac.DCT, ac.AFV3, ac.DCT16X8, ac.DCT64X64} {
		want := BaseEntropy + float32(s.CoveredBlocks())*BlockEntropy + 3*6*ZerosMul
		require.InDelta(t, want, est.Estimate(s, 0, 0, [3]float32{0, 0, 1}, sc), 1e-2, "%v", s)
	}
}

func TestEstimateDetailCostsMore(t *testing.T) {
	planes := image.NewImage3[float32](16, 8)
	luma := planes.Plane(1)
	for y := range 8 {
		for x := 8; x < 16; x++ {
			luma.Set(x, y, float32((x*7+y*3)%5)*0.1)
		}
	}
	est := newTestEstimator(planes, 2)
	sc := NewScratch()
	factors := [3]float32{0, 0, 1}
	flat := est.Estimate(ac.DCT, 0, 0, factors, sc)
	busy := est.Estimate(ac.DCT, 8, 0, factors, sc)
	require.Greater(t, busy, flat)
	require.Equal(t, busy, est.Estimate(ac.DCT, 8, 0, factors, sc))

	est.quant.Set(1, 0, 0)
	require.Panics(t, func() { est.Estimate(ac.DCT, 8, 0, factors, sc) })
}

// lumaDetail fills the Y plane of the first block with a pattern that
// quantizes to several nonzero coefficients with fractional remainders.
func lumaDetail(planes *image.Image3[float32]) {
	luma := planes.Plane(1)
	for y := range 8 {
		for x := range 8 {
			luma.Set(x, y, float32((x*7+y*3)%5)*0.1+float32(x*y)*0.01)
		}
	}
}

func TestEstimatePredictsChromaFromLuma(t *testing.T) {
	correlated := image.NewImage3[float32](8, 8)
	lumaDetail(correlated)
	luma := correlated.Plane(1)
	for y := range 8 {
		for x := range 8 {
			correlated.Plane(0).Set(x, y, 0.5*luma.At(x, y))
			correlated.Plane(2).Set(x, y, 2*luma.At(x, y))
		}
	}
	lumaOnly := image.NewImage3[float32](8, 8)
	lumaDetail(lumaOnly)

	sc := NewScratch()
	want := newTestEstimator(lumaOnly, 2).Estimate(ac.DCT, 0, 0, [3]float32{}, sc)
	est := newTestEstimator(correlated, 2)

	// X and B are exact multiples of Y, so the prediction cancels them.
	predicted := est.Estimate(ac.DCT, 0, 0, [3]float32{0.5, 0, 2}, sc)
	require.InDelta(t, want, predicted, 1e-3)

	unpredicted := est.Estimate(ac.DCT, 0, 0, [3]float32{}, sc)
	require.Greater(t, unpredicted, want)
}

func TestEstimateWeightsLumaLoss(t *testing.T) {
	planes := image.NewImage3[float32](8, 8)
	lumaDetail(planes)
	est := newTestEstimator(planes, 2)
	got := est.Estimate(ac.DCT, 0, 0, [3]float32{}, NewScratch())

	coeffs := make([]float32, ac.DCT.CoeffCount())
	dct.Engine{}.TransformFromPixels(ac.DCT, planes.Plane(1).Span(0, 0), planes.Stride(), coeffs, make([]float32, ac.MaxCoeffArea))
	m := est.model
	cost, loss, nz := channelCostBase(m, coeffs, coeffs, (&quant.Matrices{}).InvMatrix(ac.DCT, 1), 0, 2)
	require.Positive(t, nz)
	require.Greater(t, loss, float32(0.05))

	// Only Y has rounding loss, and it counts twice. X and B are all zeros.
	nbits := ceilLog2Nonzero(nz+1) + 1
	want := m.BaseEntropy + m.BlockEntropy +
		cost + m.ZerosMul*float32(ceilLog2Nonzero(nbits+17)+nbits) +
		2*6*m.ZerosMul +
		m.InfoLossMultiplier*2*loss
	require.InDelta(t, want, got, 1e-2)
}
