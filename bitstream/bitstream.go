/*
NAME
  bitstream.go

DESCRIPTION
  bitstream.go defines the Codec contract shared by every PSX video
  bitstream format and Identify, which picks the right one for a given
  payload (spec.md §4.2).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bitstream translates between a raw compressed PSX video frame
// byte buffer and a stream of mdec.Codes. One Codec implementation exists
// per format (STRv2, STRv3, Iki, Lain, Crusader); Identify picks the right
// one by trying each format's header check in a fixed preference order.
package bitstream

import (
	"io"

	"github.com/ausocean/psxav/bitstream/crusader"
	"github.com/ausocean/psxav/bitstream/iki"
	"github.com/ausocean/psxav/bitstream/lain"
	"github.com/ausocean/psxav/bitstream/strv2"
	"github.com/ausocean/psxav/bitstream/strv3"
	"github.com/ausocean/psxav/mdec"
	"github.com/ausocean/psxav/perr"
)

// Codec is the tagged-variant contract every bitstream format implements:
// a pair of translators between a compressed byte buffer and an
// mdec.Iterator (spec.md §4.2, Design Notes §9 "Codec dispatch").
type Codec interface {
	// Name identifies the format for logging and file-format writer
	// dispatch.
	Name() string

	// CheckHeader reports whether payload's header matches this format,
	// without fully parsing it.
	CheckHeader(payload []byte) bool

	// Uncompress returns an iterator over payload's MDEC codes.
	Uncompress(payload []byte) (mdec.Iterator, error)

	// Compress encodes codes into this format's byte representation,
	// failing with perr.ErrTooMuchEnergy if the result exceeds
	// byteBudget (spec.md §4.4 step 4, §8 scenario 6).
	Compress(codes []mdec.Code, byteBudget int) ([]byte, error)
}

// order is the fixed identification preference order from spec.md §4.2.
func order() []Codec {
	return []Codec{
		strv2.New(),
		strv3.New(),
		iki.New(),
		lain.New(),
		crusader.New(),
	}
}

// Identify tries each known codec's CheckHeader in turn, returning the
// first match. If none match, it fails with perr.ErrUnrecognizedFormat.
func Identify(payload []byte) (Codec, error) {
	for _, c := range order() {
		if c.CheckHeader(payload) {
			return c, nil
		}
	}
	return nil, perr.ErrUnrecognizedFormat
}

// codeIterator adapts a function-based Next into mdec.Iterator for
// NewCodeIterator. The format packages in this module each declare their
// own iterator type rather than using it.
type codeIterator struct {
	next func() (mdec.Code, error)
}

// NewCodeIterator wraps next as an mdec.Iterator.
func NewCodeIterator(next func() (mdec.Code, error)) mdec.Iterator {
	return &codeIterator{next: next}
}

func (c *codeIterator) Next() (mdec.Code, error) { return c.next() }

// EOF is returned by a format's Next function once the bitstream is
// exhausted between frames (not expected mid-frame: every frame ends with
// an EOB on its final block).
var EOF = io.EOF
