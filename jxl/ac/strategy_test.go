package ac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoveredBlocks(t *testing.T) {
	tests := []struct {
		s      Strategy
		cx, cy int
	}{
		{DCT, 1, 1},
		{DCT16X8, 1, 2},
		{DCT8X16, 2, 1},
		{DCT32X8, 1, 4},
		{DCT32X16, 2, 4},
		{DCT16X32, 4, 2},
		{DCT64X32, 4, 8},
		{DCT32X64, 8, 4},
		{DCT128X64, 8, 16},
		{DCT256X128, 16, 32},
		{DCT256X256, 32, 32},
	}
	for _, tt := range tests {
		require.Equal(t, tt.cx, tt.s.CoveredBlocksX(), "%v x", tt.s)
		require.Equal(t, tt.cy, tt.s.CoveredBlocksY(), "%v y", tt.s)
		require.Equal(t, tt.cy*BlockDim, tt.s.PixelsY(), "%v rows", tt.s)
	}
	require.Equal(t, 10, DCT256X256.Log2CoveredBlocks())
	require.Equal(t, 0, AFV2.Log2CoveredBlocks())
	require.Equal(t, MaxCoeffArea, DCT256X256.CoeffCount())
}

func TestSpecial(t *testing.T) {
	var special []Strategy
	for _, s := range All() {
		if s.IsSpecial() {
			special = append(special, s)
			require.False(t, s.IsMultiblock())
		}
	}
	require.ElementsMatch(t, specials, special)
	require.False(t, DCT.IsSpecial())
}

func TestParseStrategy(t *testing.T) {
	for _, s := range All() {
		got, err := ParseStrategy(s.String())
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
	_, err := ParseStrategy("DCT512X512")
	require.Error(t, err)
	require.Equal(t, "Strategy(200)", Strategy(200).String())
}

func TestPlacementOrder(t *testing.T) {
	require.Equal(t, DCT, PlacementOrder[len(PlacementOrder)-1])
	// Areas never grow along the order.
	for i := 1; i < len(PlacementOrder); i++ {
		require.LessOrEqual(t, PlacementOrder[i].CoveredBlocks(), PlacementOrder[i-1].CoveredBlocks(),
			"%v after %v", PlacementOrder[i], PlacementOrder[i-1])
	}
}

func TestReplacementsAcyclic(t *testing.T) {
	const (
		unvisited = iota
		active
		done
	)
	state := make([]int, NumStrategies)
	var visit func(s Strategy)
	visit = func(s Strategy) {
		require.NotEqual(t, active, state[s], "cycle through %v", s)
		if state[s] == done {
			return
		}
		state[s] = active
		for _, r := range Replacements(s) {
			visit(r)
		}
		state[s] = done
	}
	for _, s := range All() {
		visit(s)
	}
}

// Every candidate footprint must tile its parent's footprint.
func TestReplacementsTile(t *testing.T) {
	for _, s := range All() {
		for _, r := range Replacements(s) {
			require.Less(t, r.CoveredBlocks(), s.CoveredBlocks()+boolInt(s == DCT), "%v -> %v", s, r)
			require.Zero(t, s.CoveredBlocksX()%r.CoveredBlocksX(), "%v -> %v", s, r)
			require.Zero(t, s.CoveredBlocksY()%r.CoveredBlocksY(), "%v -> %v", s, r)
		}
	}
}

func TestReplacementsReachDCT(t *testing.T) {
	var reaches func(s Strategy) bool
	reaches = func(s Strategy) bool {
		if s == DCT {
			return true
		}
		for _, r := range Replacements(s) {
			if reaches(r) {
				return true
			}
		}
		return false
	}
	for _, s := range All() {
		if s.IsMultiblock() {
			require.True(t, reaches(s), "%v cannot be split down to DCT", s)
		}
		if s.IsSpecial() {
			require.Empty(t, Replacements(s))
		}
	}
	require.Len(t, Replacements(DCT), 9)
}

func TestDivCeil(t *testing.T) {
	require.Equal(t, 0, DivCeil(0, 8))
	require.Equal(t, 1, DivCeil(1, 8))
	require.Equal(t, 1, DivCeil(8, 8))
	require.Equal(t, 2, DivCeil(9, 8))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
