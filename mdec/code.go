/*
NAME
  code.go

DESCRIPTION
  code.go defines MdecCode, the PSX MDEC's 16-bit token format shared by
  every bitstream codec and the MDEC (de)coder.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mdec implements the PlayStation 1 hardware macroblock decoder:
// inverse quantization, inverse zig-zag, IDCT, and YCbCr/RGB raster
// assembly, plus the inverse (encode) path used for lossy re-encoding.
package mdec

// Code is one MDEC token. A block begins with exactly one header code
// (QScale, DC valid) and is followed by zero or more AC codes (Run, Level
// valid) terminated by an EOB code.
type Code struct {
	Header bool // True for the one header code that starts each block.
	EOB    bool // True for the end-of-block sentinel.

	QScale int // Valid when Header: 1..63.
	DC     int // Valid when Header: -512..511.

	Run   int // Valid for AC codes: 0..63, number of preceding zero coefficients.
	Level int // Valid for AC codes: signed coefficient value.
}

// HeaderCode builds the header code for a block with the given qscale and DC.
func HeaderCode(qscale, dc int) Code {
	return Code{Header: true, QScale: qscale, DC: dc}
}

// ACCode builds a run/level AC code.
func ACCode(run, level int) Code {
	return Code{Run: run, Level: level}
}

// EOBCode is the single end-of-block sentinel value.
var EOBCode = Code{EOB: true}

// Iterator abstracts a stream of Codes as produced by a bitstream
// uncompressor or the MDEC encoder. Next returns io.EOF, or an error for
// which errors.Is(err, io.EOF) holds, once the stream is exhausted between
// frames; within a frame, callers
// drive it strictly block-by-block and stop consuming a block at EOB.
type Iterator interface {
	// Next returns the next Code in the stream.
	Next() (Code, error)
}

// SliceIterator adapts a pre-built []Code to the Iterator interface, used
// by the encoder and by tests.
type SliceIterator struct {
	codes []Code
	pos   int
}

// NewSliceIterator returns an Iterator over codes.
func NewSliceIterator(codes []Code) *SliceIterator {
	return &SliceIterator{codes: codes}
}

// Next implements Iterator.
func (s *SliceIterator) Next() (Code, error) {
	if s.pos >= len(s.codes) {
		return Code{}, errEndOfCodes
	}
	c := s.codes[s.pos]
	s.pos++
	return c, nil
}
