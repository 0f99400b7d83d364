/*
NAME
  perr.go

DESCRIPTION
  perr.go defines the error taxonomy shared by the PSX video decoding
  pipeline: bitstream/mdec decode failures, encoder budget failures, and
  stream-level abort conditions.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package perr defines the sentinel error values and coordinate-carrying
// wrapper types used throughout the psxav pipeline, so that callers can
// errors.Is / errors.As against a specific failure kind regardless of which
// codec or stage raised it.
package perr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors, one per spec.md §7 error kind. Stage code wraps these
// with errors.Wrap to add context; callers match with errors.Is.
var (
	// ErrUnrecognizedFormat indicates a bitstream's header did not match any
	// known codec.
	ErrUnrecognizedFormat = errors.New("psxav: unrecognized bitstream format")

	// ErrReadCorruption indicates a valid header but semantically impossible
	// data: a bad VLC, an out-of-range DC, or an overlong run.
	ErrReadCorruption = errors.New("psxav: bitstream read corruption")

	// ErrEndOfStream indicates the bitstream ran out before the declared
	// block geometry was satisfied.
	ErrEndOfStream = errors.New("psxav: unexpected end of bitstream")

	// ErrTooMuchEnergy indicates the encoder could not fit a frame in its
	// byte budget at any qscale up to 63.
	ErrTooMuchEnergy = errors.New("psxav: frame cannot fit byte budget at any qscale")

	// ErrTaskCanceled indicates a caller-requested cancellation.
	ErrTaskCanceled = errors.New("psxav: task canceled")

	// ErrIllegalArgument indicates a programmer error such as mismatched
	// writer dimensions; it is not recoverable.
	ErrIllegalArgument = errors.New("psxav: illegal argument")
)

// Coord locates a failure within a frame: the macroblock it occurred in, and
// the sub-block (0..3 luma, 4 Cb, 5 Cr) within that macroblock.
type Coord struct {
	MbX, MbY int
	Block    int
}

func (c Coord) String() string {
	return fmt.Sprintf("mb(%d,%d) block %d", c.MbX, c.MbY, c.Block)
}

// CodecError wraps one of the sentinel decode errors with the macroblock and
// sub-block coordinates at which it occurred, per spec.md §4.3 "Failures".
type CodecError struct {
	Err   error
	Coord Coord
	Msg   string
}

func (e *CodecError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%v at %s", e.Err, e.Coord)
	}
	return fmt.Sprintf("%v at %s: %s", e.Err, e.Coord, e.Msg)
}

func (e *CodecError) Unwrap() error { return e.Err }

// NewCodecError builds a CodecError for the given sentinel kind and location.
func NewCodecError(kind error, mbX, mbY, block int, msg string) *CodecError {
	return &CodecError{Err: kind, Coord: Coord{MbX: mbX, MbY: mbY, Block: block}, Msg: msg}
}
