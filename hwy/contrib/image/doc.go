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

// Package image provides SIMD-friendly 2D image types.
//
// The core types are Image[T] for single-channel images and Image3[T] for
// three-plane images (the X, Y and B planes of a frame). Rows are aligned to
// the SIMD vector width. The encoder also uses Image[T] for its per-block
// grids: the quant field, the entropy estimates and the AC strategy map.
//
// # Usage Example
//
//	// An XYB frame, padded to whole 8x8 blocks
//	xyb := image.NewImage3[float32](1920, 1080)
//
//	// One quant value per block
//	qf := image.NewImage[float32](240, 135)
//	qf.Fill(1)
//
// # Block Access
//
// Span(x, y) returns the backing slice starting at (x, y); kernels walk it
// with Stride():
//
//	px := xyb.Plane(1).Span(8*bx, 8*by)
//	for iy := range 8 {
//	    row := px[iy*xyb.Stride():]
//	    // row[0:8] is one line of the block
//	}
//
// # Edge Handling
//
//	Clamp(index, size)  - repeat edge pixels
package image
