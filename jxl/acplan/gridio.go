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
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"

	"github.com/klauspost/compress/zstd"

	"github.com/ajroetker/go-jxlenc/jxl/ac"
)

// Grid files start with gridMagic and a version byte, then the width and
// height in blocks as uvarints, then one zstd frame holding the packed
// cells row by row.
const (
	gridMagic   = "ACSG"
	gridVersion = 1

	// Largest accepted side, in blocks: 2^20 pixels.
	maxGridDim = 1 << 17
	// Largest accepted area, in blocks: 2^32 pixels.
	maxGridBlocks = 1 << 26
)

var (
	ErrBadMagic   = errors.New("acplan: not a strategy grid")
	ErrBadVersion = errors.New("acplan: unsupported strategy grid version")
)

// WriteGrid serializes grid to w.
func WriteGrid(w io.Writer, grid *ac.StrategyImage) error {
	var hdr []byte
	hdr = append(hdr, gridMagic...)
	hdr = append(hdr, gridVersion)
	hdr = binary.AppendUvarint(hdr, uint64(grid.XSize()))
	hdr = binary.AppendUvarint(hdr, uint64(grid.YSize()))
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("acplan: writing grid header: %w", err)
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		return err
	}
	cells := grid.Cells()
	for y := range cells.Height() {
		if _, err := enc.Write(cells.RowSlice(y)); err != nil {
			enc.Close()
			return fmt.Errorf("acplan: writing grid row %d: %w", y, err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("acplan: finishing grid: %w", err)
	}
	return nil
}

// ReadGrid parses a grid written by WriteGrid and checks that every
// transform is whole.
func ReadGrid(r io.Reader) (*ac.StrategyImage, error) {
	br := bufio.NewReader(r)
	var magic [len(gridMagic) + 1]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("acplan: reading grid header: %w", err)
	}
	if string(magic[:len(gridMagic)]) != gridMagic {
		return nil, ErrBadMagic
	}
	if v := magic[len(gridMagic)]; v != gridVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, v)
	}
	xsize, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("acplan: reading grid width: %w", err)
	}
	ysize, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("acplan: reading grid height: %w", err)
	}
	if xsize == 0 || ysize == 0 || xsize > maxGridDim || ysize > maxGridDim || xsize*ysize > maxGridBlocks {
		return nil, fmt.Errorf("acplan: bad grid size %dx%d", xsize, ysize)
	}

	dec, err := zstd.NewReader(br,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxGridBlocks),
	)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	// Cells are buffered as the decoder delivers them; the grid is only
	// allocated once every row is in.
	width := int(xsize)
	var data []uint8
	for y := range int(ysize) {
		data = slices.Grow(data, width)
		row := data[len(data) : len(data)+width]
		if _, err := io.ReadFull(dec, row); err != nil {
			return nil, fmt.Errorf("acplan: reading grid row %d: %w", y, err)
		}
		for x, cell := range row {
			if s := ac.Strategy(cell >> 1); !s.Valid() {
				return nil, fmt.Errorf("acplan: invalid strategy %d at block (%d, %d)", uint8(s), x, y)
			}
		}
		data = data[:len(data)+width]
	}

	grid := ac.NewStrategyImage(width, int(ysize))
	cells := grid.Cells()
	for y := range cells.Height() {
		copy(cells.RowSlice(y), data[y*width:])
	}
	if bx, by, ok := grid.Validate(); !ok {
		return nil, fmt.Errorf("acplan: broken transform at block (%d, %d)", bx, by)
	}
	return grid, nil
}
