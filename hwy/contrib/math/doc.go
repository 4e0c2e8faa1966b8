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

// Package math provides transcendental functions on hwy vectors.
//
// Functions take and return hwy.Vec values so they slot into a lane loop
// between Load and Store:
//
//	for i := 0; i < len(x); i += lanes {
//	    v := hwy.Max(hwy.Load(x[i:]), zero)
//	    hwy.Store(math.Cbrt(v), out[i:])
//	}
package math
