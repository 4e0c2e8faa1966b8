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
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/ajroetker/go-jxlenc/jxl/ac"
)

// Histogram counts how often each strategy was placed.
type Histogram struct {
	Placements [ac.NumStrategies]int
}

// NewHistogram counts the anchors of grid.
func NewHistogram(grid *ac.StrategyImage) Histogram {
	var h Histogram
	grid.Anchors(func(_, _ int, s ac.Strategy) {
		h.Placements[s]++
	})
	return h
}

// Blocks returns how many blocks s covers in total.
func (h Histogram) Blocks(s ac.Strategy) int {
	return h.Placements[s] * s.CoveredBlocks()
}

// TotalBlocks returns the number of blocks in the grid.
func (h Histogram) TotalBlocks() int {
	return lo.SumBy(ac.All(), h.Blocks)
}

// Diagnostic class of each strategy. Transposed shapes share a class.
var strategyClass = [ac.NumStrategies]string{
	ac.DCT:        "dct8",
	ac.IDENTITY:   "identity",
	ac.DCT2X2:     "dct2x2",
	ac.DCT4X4:     "dct4x4",
	ac.DCT16X16:   "dct16",
	ac.DCT32X32:   "dct32",
	ac.DCT16X8:    "dct8x16",
	ac.DCT8X16:    "dct8x16",
	ac.DCT32X8:    "dct8x32",
	ac.DCT8X32:    "dct8x32",
	ac.DCT32X16:   "dct16x32",
	ac.DCT16X32:   "dct16x32",
	ac.DCT4X8:     "dct4x8",
	ac.DCT8X4:     "dct4x8",
	ac.AFV0:       "afv",
	ac.AFV1:       "afv",
	ac.AFV2:       "afv",
	ac.AFV3:       "afv",
	ac.DCT64X64:   "dct64",
	ac.DCT64X32:   "dct32x64",
	ac.DCT32X64:   "dct32x64",
	ac.DCT128X128: "dct128",
	ac.DCT128X64:  "dct64x128",
	ac.DCT64X128:  "dct64x128",
	ac.DCT256X256: "dct256",
	ac.DCT256X128: "dct128x256",
	ac.DCT128X256: "dct128x256",
}

// Classes returns blocks covered per strategy class, for classes present.
func (h Histogram) Classes() map[string]int {
	classes := make(map[string]int)
	for _, s := range ac.All() {
		if n := h.Blocks(s); n > 0 {
			classes[strategyClass[s]] += n
		}
	}
	return classes
}

// String lists the placed strategies in raw order, e.g.
// "DCT:40 DCT16X16:6".
func (h Histogram) String() string {
	placed := lo.Filter(ac.All(), func(s ac.Strategy, _ int) bool {
		return h.Placements[s] > 0
	})
	return strings.Join(lo.Map(placed, func(s ac.Strategy, _ int) string {
		return s.String() + ":" + strconv.Itoa(h.Placements[s])
	}), " ")
}

// LogValue reports blocks per class, sorted by class name.
func (h Histogram) LogValue() slog.Value {
	classes := h.Classes()
	keys := lo.Keys(classes)
	slices.Sort(keys)
	return slog.GroupValue(lo.Map(keys, func(k string, _ int) slog.Attr {
		return slog.Int(k, classes[k])
	})...)
}
