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

// Package ac describes the AC strategies (transform geometries) an encoder
// can place on a frame, and the per-block grid recording that placement.
//
// A strategy covers a rectangle of CoveredBlocksX × CoveredBlocksY 8×8
// blocks. Names follow the ROWSxCOLS convention in pixels, so DCT16X8 is
// 16 pixels tall and 8 wide: one block across, two blocks down. The nine
// special variants (IDENTITY, DCT2X2, DCT4X4, DCT4X8, DCT8X4, AFV0..AFV3)
// are 1×1 blocks with a non-standard internal transform.
package ac

import "fmt"

// BlockDim is the side of a block in pixels.
const BlockDim = 8

// Strategy is an AC strategy. The raw values match the bitstream order.
type Strategy uint8

const (
	DCT Strategy = iota
	IDENTITY
	DCT2X2
	DCT4X4
	DCT16X16
	DCT32X32
	DCT16X8
	DCT8X16
	DCT32X8
	DCT8X32
	DCT32X16
	DCT16X32
	DCT4X8
	DCT8X4
	AFV0
	AFV1
	AFV2
	AFV3
	DCT64X64
	DCT64X32
	DCT32X64
	DCT128X128
	DCT128X64
	DCT64X128
	DCT256X256
	DCT256X128
	DCT128X256

	// NumStrategies is the number of valid raw values.
	NumStrategies = iota
)

// MaxCoveredBlocks is the largest footprint side, in blocks.
const MaxCoveredBlocks = 32

// MaxCoeffArea is the number of coefficients of the largest strategy per
// channel.
const MaxCoeffArea = MaxCoveredBlocks * MaxCoveredBlocks * BlockDim * BlockDim

type strategyInfo struct {
	name   string
	cx, cy uint8 // covered blocks along x and y
}

var strategies = [NumStrategies]strategyInfo{
	DCT:        {"DCT", 1, 1},
	IDENTITY:   {"IDENTITY", 1, 1},
	DCT2X2:     {"DCT2X2", 1, 1},
	DCT4X4:     {"DCT4X4", 1, 1},
	DCT16X16:   {"DCT16X16", 2, 2},
	DCT32X32:   {"DCT32X32", 4, 4},
	DCT16X8:    {"DCT16X8", 1, 2},
	DCT8X16:    {"DCT8X16", 2, 1},
	DCT32X8:    {"DCT32X8", 1, 4},
	DCT8X32:    {"DCT8X32", 4, 1},
	DCT32X16:   {"DCT32X16", 2, 4},
	DCT16X32:   {"DCT16X32", 4, 2},
	DCT4X8:     {"DCT4X8", 1, 1},
	DCT8X4:     {"DCT8X4", 1, 1},
	AFV0:       {"AFV0", 1, 1},
	AFV1:       {"AFV1", 1, 1},
	AFV2:       {"AFV2", 1, 1},
	AFV3:       {"AFV3", 1, 1},
	DCT64X64:   {"DCT64X64", 8, 8},
	DCT64X32:   {"DCT64X32", 4, 8},
	DCT32X64:   {"DCT32X64", 8, 4},
	DCT128X128: {"DCT128X128", 16, 16},
	DCT128X64:  {"DCT128X64", 8, 16},
	DCT64X128:  {"DCT64X128", 16, 8},
	DCT256X256: {"DCT256X256", 32, 32},
	DCT256X128: {"DCT256X128", 16, 32},
	DCT128X256: {"DCT128X256", 32, 16},
}

// Valid reports whether s is one of the NumStrategies raw values.
func (s Strategy) Valid() bool {
	return s < NumStrategies
}

// String returns the strategy name, e.g. "DCT32X16".
func (s Strategy) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
	return strategies[s].name
}

// CoveredBlocksX returns the footprint width in blocks.
func (s Strategy) CoveredBlocksX() int {
	return int(strategies[s].cx)
}

// CoveredBlocksY returns the footprint height in blocks.
func (s Strategy) CoveredBlocksY() int {
	return int(strategies[s].cy)
}

// CoveredBlocks returns the footprint area in blocks.
func (s Strategy) CoveredBlocks() int {
	return s.CoveredBlocksX() * s.CoveredBlocksY()
}

// Log2CoveredBlocks returns log2 of the footprint area.
func (s Strategy) Log2CoveredBlocks() int {
	n := 0
	for a := s.CoveredBlocks(); a > 1; a >>= 1 {
		n++
	}
	return n
}

// IsMultiblock reports whether s covers more than one block.
func (s Strategy) IsMultiblock() bool {
	return s.CoveredBlocks() > 1
}

// IsSpecial reports whether s is a 1×1 variant other than DCT.
func (s Strategy) IsSpecial() bool {
	return s != DCT && !s.IsMultiblock()
}

// PixelsX returns the footprint width in pixels.
func (s Strategy) PixelsX() int {
	return s.CoveredBlocksX() * BlockDim
}

// PixelsY returns the footprint height in pixels.
func (s Strategy) PixelsY() int {
	return s.CoveredBlocksY() * BlockDim
}

// CoeffCount returns the number of coefficients per channel.
func (s Strategy) CoeffCount() int {
	return s.PixelsX() * s.PixelsY()
}

// ParseStrategy looks a strategy up by name.
func ParseStrategy(name string) (Strategy, error) {
	for s := range Strategy(NumStrategies) {
		if strategies[s].name == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("ac: unknown strategy %q", name)
}

// All returns every strategy in raw order.
func All() []Strategy {
	all := make([]Strategy, NumStrategies)
	for i := range all {
		all[i] = Strategy(i)
	}
	return all
}

// PlacementOrder is the order in which the superblock planner tries
// strategies at an anchor, largest first. DCT always fits and is last.
var PlacementOrder = [...]Strategy{
	DCT64X64, DCT64X32, DCT32X64, DCT32X32, DCT32X16, DCT16X32,
	DCT16X16, DCT8X32, DCT32X8, DCT16X8, DCT8X16, DCT,
}

var specials = []Strategy{DCT4X8, DCT8X4, DCT4X4, DCT2X2, IDENTITY, AFV0, AFV1, AFV2, AFV3}

// replacements is the refinement graph. Each candidate's footprint tiles
// its parent's footprint, so splitting never leaves part of it uncovered.
var replacements = [NumStrategies][]Strategy{
	DCT256X256: {DCT256X128, DCT128X256, DCT128X128},
	DCT256X128: {DCT128X128},
	DCT128X256: {DCT128X128},
	DCT128X128: {DCT128X64, DCT64X128, DCT64X64},
	DCT128X64:  {DCT64X64},
	DCT64X128:  {DCT64X64},
	DCT64X64:   {DCT64X32, DCT32X64, DCT32X32},
	DCT64X32:   {DCT32X32},
	DCT32X64:   {DCT32X32},
	DCT32X32:   {DCT32X16, DCT16X32},
	DCT32X16:   {DCT32X8, DCT16X16},
	DCT16X32:   {DCT8X32, DCT16X16},
	DCT32X8:    {DCT16X8, DCT},
	DCT8X32:    {DCT8X16, DCT},
	DCT16X16:   {DCT8X16, DCT16X8},
	DCT16X8:    {DCT},
	DCT8X16:    {DCT},
	DCT:        specials,
}

// Replacements returns the strategies refinement may split s into. The
// returned slice is shared and must not be modified.
func Replacements(s Strategy) []Strategy {
	return replacements[s]
}

// DivCeil returns ceil(a / b) for positive b.
func DivCeil(a, b int) int {
	return (a + b - 1) / b
}
