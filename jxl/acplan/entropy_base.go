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

import "math"

// channelCostBase is the scalar reference of channelCost.
func channelCostBase(m *CostModel, in, inY, inv []float32, factor, q float32) (cost, loss float32, nonzeros int) {
	inY = inY[:len(in)]
	inv = inv[:len(in)]
	for i, v := range in {
		val := (v - inY[i]*factor) * inv[i] * q
		r := float32(math.RoundToEven(float64(val)))
		loss += abs32(val - r)
		a := abs32(r)
		if a >= 0.5 {
			cost += m.Cost1
		}
		if a >= 1.5 {
			cost += m.Cost2
		}
		cost += float32(math.Sqrt(float64(a))) * m.CostDelta
		if a != 0 {
			nonzeros++
		}
	}
	return cost, loss, nonzeros
}

func abs32(v float32) float32 {
	return math.Float32frombits(math.Float32bits(v) &^ (1 << 31))
}
