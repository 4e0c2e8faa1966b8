package acplan

import (
	"bytes"
	"encoding/binary"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-jxlenc/jxl/ac"
)

func TestGridRoundTrip(t *testing.T) {
	grid := testGrid()
	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, grid))
	require.Equal(t, "ACSG\x01\x08\x08", buf.String()[:7])

	got, err := ReadGrid(&buf)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(gridCells(grid), gridCells(got)))
	require.Equal(t, NewHistogram(grid), NewHistogram(got))
}

// rawGrid builds a grid file around arbitrary cells.
func rawGrid(t *testing.T, xsize, ysize int, cells []uint8) []byte {
	t.Helper()
	hdr := []byte("ACSG\x01")
	hdr = binary.AppendUvarint(hdr, uint64(xsize))
	hdr = binary.AppendUvarint(hdr, uint64(ysize))
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(cells, hdr)
}

func TestReadGridErrors(t *testing.T) {
	dct := uint8(ac.DCT)<<1 | 1
	_, err := ReadGrid(bytes.NewReader(rawGrid(t, 2, 1, []uint8{dct, dct})))
	require.NoError(t, err)

	_, err = ReadGrid(bytes.NewReader([]byte("PNG\x89\x01\x01\x01")))
	require.ErrorIs(t, err, ErrBadMagic)

	_, err = ReadGrid(bytes.NewReader([]byte("ACSG\x02\x01\x01")))
	require.ErrorIs(t, err, ErrBadVersion)

	_, err = ReadGrid(bytes.NewReader([]byte("AC")))
	require.Error(t, err)

	_, err = ReadGrid(bytes.NewReader(rawGrid(t, 0, 4, nil)))
	require.ErrorContains(t, err, "bad grid size")

	_, err = ReadGrid(bytes.NewReader(rawGrid(t, 1<<16, 1<<16, nil)))
	require.ErrorContains(t, err, "bad grid size 65536x65536")

	_, err = ReadGrid(bytes.NewReader(rawGrid(t, 2, 2, []uint8{dct, dct, dct})))
	require.ErrorContains(t, err, "row 1")

	_, err = ReadGrid(bytes.NewReader(rawGrid(t, 2, 1, []uint8{dct, uint8(ac.NumStrategies)<<1 | 1})))
	require.ErrorContains(t, err, "invalid strategy 27 at block (1, 0)")

	// Second half of a DCT8X16 with no anchor.
	half := uint8(ac.DCT8X16) << 1
	_, err = ReadGrid(bytes.NewReader(rawGrid(t, 2, 1, []uint8{dct, half})))
	require.ErrorContains(t, err, "broken transform at block (1, 0)")
}

func TestReadGridHeaderOnlyAllocatesLittle(t *testing.T) {
	// Claims 8000x8000 blocks but carries no cells.
	hdr := []byte("ACSG\x01")
	hdr = binary.AppendUvarint(hdr, 8000)
	hdr = binary.AppendUvarint(hdr, 8000)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	_, err := ReadGrid(bytes.NewReader(hdr))
	runtime.ReadMemStats(&after)
	require.ErrorContains(t, err, "reading grid row 0")
	require.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(16<<20))
}
