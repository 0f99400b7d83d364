/*
NAME
  quant.go

DESCRIPTION
  quant.go holds the PSX MDEC's fixed quantization matrix and the standard
  MPEG-1 zig-zag scan order, shared by the decoder and encoder.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mdec

import (
	"io"

	"github.com/pkg/errors"
)

// errEndOfCodes is SliceIterator's exhaustion sentinel. It wraps io.EOF so
// that errors.Is(err, io.EOF) — and decode.go's own errors.Is(err,
// perr.ErrEndOfStream) check after decode.go re-wraps it — both work
// regardless of which Iterator implementation a caller is driving.
var errEndOfCodes = errors.Wrap(io.EOF, "mdec: no more codes")

// QuantTable holds 64 non-zero 8-bit weights in zig-zag order (spec.md §3).
// The PSX MDEC hardware uses a single constant table for every block,
// luma and chroma alike; callers multiply entry 0 by 2 for the DC
// coefficient and by qscale*2 for every AC coefficient (spec.md §4.3).
type QuantTable [64]uint8

// DefaultQuantTable is the PSX MDEC's built-in quantization matrix, in
// zig-zag scan order.
var DefaultQuantTable = QuantTable{
	2, 16, 19, 22, 26, 27, 29, 34,
	16, 16, 22, 24, 27, 29, 34, 37,
	19, 22, 26, 27, 29, 34, 34, 38,
	22, 22, 26, 27, 29, 34, 37, 40,
	22, 26, 27, 29, 32, 35, 40, 48,
	26, 27, 29, 32, 35, 40, 48, 58,
	26, 27, 29, 34, 38, 46, 56, 69,
	27, 29, 35, 38, 46, 56, 69, 83,
}

// ZigZag maps a zig-zag scan index to its position in an 8x8 natural
// (row-major) block, the standard MPEG-1 scan order used by every PSX
// bitstream format.
var ZigZag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// InverseZigZag is the inverse permutation of ZigZag: natural index ->
// zig-zag index.
var InverseZigZag = func() [64]int {
	var inv [64]int
	for zz, nat := range ZigZag {
		inv[nat] = zz
	}
	return inv
}()
