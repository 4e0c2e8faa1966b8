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
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ajroetker/go-jxlenc/jxl/ac"
	"github.com/ajroetker/go-jxlenc/jxl/internal/assert"
)

// SpeedTier trades planning effort for speed. Lower is slower and better.
// It implements pflag.Value.
type SpeedTier int

const (
	Tortoise SpeedTier = iota + 1
	Kitten
	Squirrel
	Wombat
	Hare
	Cheetah
	Falcon
)

var tierNames = [...]string{
	Tortoise: "tortoise",
	Kitten:   "kitten",
	Squirrel: "squirrel",
	Wombat:   "wombat",
	Hare:     "hare",
	Cheetah:  "cheetah",
	Falcon:   "falcon",
}

func (t SpeedTier) String() string {
	if t < Tortoise || t > Falcon {
		return "SpeedTier(" + strconv.Itoa(int(t)) + ")"
	}
	return tierNames[t]
}

// Set parses a tier name or its number, 1 (tortoise) to 7 (falcon).
func (t *SpeedTier) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for tier := Tortoise; tier <= Falcon; tier++ {
		if tierNames[tier] == s {
			*t = tier
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < int(Tortoise) || n > int(Falcon) {
		return fmt.Errorf("unknown speed tier %q", s)
	}
	*t = SpeedTier(n)
	return nil
}

// Type returns the flag type name.
func (t *SpeedTier) Type() string { return "tier" }

// UniformDCT8 reports whether the tier skips planning and uses DCT
// everywhere.
func (t SpeedTier) UniformDCT8() bool { return t >= Falcon }

// EstimatesEntropy reports whether placements get an entropy estimate.
func (t SpeedTier) EstimatesEntropy() bool { return t <= Wombat }

// Refines reports whether placements are refined into smaller strategies.
func (t SpeedTier) Refines() bool { return t <= Wombat }

// WritesQuantField reports whether the planner must supply the quant field
// itself, since faster tiers skip the initial quant field pass.
func (t SpeedTier) WritesQuantField() bool { return t > Hare }

// Entropy model constants.
const (
	InfoLossMultiplier = 121.64065116104153
	BaseEntropy        = 171.7122472433324
	BlockEntropy       = 7.9339677366349539
	ZerosMul           = 4.8855992212861681
)

// Gate constants, scaled by √distance.
const (
	maxDeltaScale = 0.12
	flatScale     = 3.2
)

// largestDiscount scales the recorded cost of DCT64X64 before refinement
// compares candidates against it.
const largestDiscount = 0.69

// CostModel holds the coefficients of the cost estimate and the gradient
// gates for one distance.
type CostModel struct {
	Distance float32

	InfoLossMultiplier float32
	BaseEntropy        float32
	BlockEntropy       float32
	ZerosMul           float32

	// Cost1 is charged for every coefficient quantized to ±1 or more,
	// Cost2 again for ±2 or more, CostDelta per √|q|.
	Cost1, Cost2, CostDelta float32

	// MaxDelta is the highest combined gradient score a multiblock
	// strategy may have.
	MaxDelta float32
	// Flat scales pixel differences in the flatness measure.
	Flat float32
}

type costPreset struct {
	below                   float32
	cost1, cost2, costDelta float32
}

var costPresets = [...]costPreset{
	{2, 21.467536133280064, 45.233239814548617, 27.192877948074784},
	{4, 33.478899662356103, 32.493410394508086, 29.192251887428096},
	{8, 39.758237938237959, 12.423859153559777, 31.181324266623122},
	{16, 25, 22.630019747782897, 38.409539247825222},
	{float32(math.Inf(1)), 15, 26.952503610099059, 43.16274170126156},
}

// NewCostModel builds the model for a butteraugli distance, which must be
// positive.
func NewCostModel(distance float32) CostModel {
	assert.Thatf(distance > 0, "distance must be positive, got %v", distance)
	m := CostModel{
		Distance:           distance,
		InfoLossMultiplier: InfoLossMultiplier,
		BaseEntropy:        BaseEntropy,
		BlockEntropy:       BlockEntropy,
		ZerosMul:           ZerosMul,
	}
	for _, p := range costPresets {
		if distance < p.below {
			m.Cost1, m.Cost2, m.CostDelta = p.cost1, p.cost2, p.costDelta
			break
		}
	}
	root := float32(math.Sqrt(float64(distance)))
	m.MaxDelta = maxDeltaScale * root
	m.Flat = flatScale * root
	return m
}

// adjustment is an affine correction applied to candidate estimates during
// refinement: e*mul + add*mul.
type adjustment struct {
	add, mul float32
}

var entropyAdjust = [ac.NumStrategies]adjustment{
	ac.DCT:        {0, 0.85},
	ac.DCT4X4:     {40, 0.84},
	ac.DCT2X2:     {40, 1.0},
	ac.DCT16X16:   {0, 0.99},
	ac.DCT64X64:   {0, 1.0},
	ac.DCT64X32:   {0, 0.73},
	ac.DCT32X64:   {0, 0.73},
	ac.DCT32X32:   {0, 0.8},
	ac.DCT16X32:   {0, 0.992},
	ac.DCT32X16:   {0, 0.992},
	ac.DCT32X8:    {0, 0.98},
	ac.DCT8X32:    {0, 0.98},
	ac.DCT16X8:    {0, 0.90},
	ac.DCT8X16:    {0, 0.90},
	ac.DCT4X8:     {30, 1.015},
	ac.DCT8X4:     {30, 1.015},
	ac.IDENTITY:   {80, 1.33},
	ac.AFV0:       {30, 0.97},
	ac.AFV1:       {30, 0.97},
	ac.AFV2:       {30, 0.97},
	ac.AFV3:       {30, 0.97},
	ac.DCT128X128: {0, 1.0},
	ac.DCT128X64:  {0, 0.73},
	ac.DCT64X128:  {0, 0.73},
	ac.DCT256X256: {0, 1.0},
	ac.DCT256X128: {0, 0.73},
	ac.DCT128X256: {0, 0.73},
}

// AdjustEntropy applies the per-strategy correction to an estimate.
func AdjustEntropy(s ac.Strategy, e float32) float32 {
	a := entropyAdjust[s]
	return e*a.mul + a.add*a.mul
}
