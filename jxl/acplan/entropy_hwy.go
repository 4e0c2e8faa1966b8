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
	"github.com/ajroetker/go-jxlenc/hwy"
)

func init() {
	channelCost = selectChannelCost(hwy.LaneKernelsEnv())
}

// selectChannelCost returns the lane kernel when lanes is set and the CPU
// has vectors, the scalar kernel otherwise.
func selectChannelCost(lanes bool) channelCostFunc {
	if lanes && hwy.CurrentLevel() != hwy.DispatchScalar {
		return channelCostLanes
	}
	return channelCostBase
}

// channelCostLanes is channelCost over hwy vectors. Coefficient counts are
// multiples of 64, so every lane width up to hwy.MaxVecLanes divides them.
func channelCostLanes(m *CostModel, in, inY, inv []float32, factor, q float32) (cost, loss float32, nonzeros int) {
	lanes := hwy.MaxLanes[float32]()
	vFactor := hwy.Set(factor)
	vq := hwy.Set(q)
	half := hwy.Set[float32](0.5)
	oneHalf := hwy.Set[float32](1.5)
	cost1 := hwy.Set(m.Cost1)
	cost2 := hwy.Set(m.Cost2)
	costDelta := hwy.Set(m.CostDelta)
	zero := hwy.Zero[float32]()

	entropy := hwy.Zero[float32]()
	infoLoss := hwy.Zero[float32]()
	for i := 0; i < len(in); i += lanes {
		v := hwy.Load(in[i:])
		y := hwy.Mul(hwy.Load(inY[i:]), vFactor)
		val := hwy.Mul(hwy.Mul(hwy.Sub(v, y), hwy.Load(inv[i:])), vq)
		r := hwy.RoundToEven(val)
		infoLoss = hwy.Add(infoLoss, hwy.AbsDiff(val, r))
		a := hwy.Abs(r)
		entropy = hwy.Add(entropy, hwy.IfThenElseZero(hwy.GreaterEqual(a, half), cost1))
		entropy = hwy.Add(entropy, hwy.IfThenElseZero(hwy.GreaterEqual(a, oneHalf), cost2))
		entropy = hwy.MulAdd(hwy.Sqrt(a), costDelta, entropy)
		nonzeros += lanes - hwy.CountTrue(hwy.Equal(a, zero))
	}
	return hwy.ReduceSum(entropy), hwy.ReduceSum(infoLoss), nonzeros
}
