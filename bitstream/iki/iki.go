/*
NAME
  iki.go

DESCRIPTION
  iki.go implements the Iki bitstream codec, an STRv2-family variant
  identified by its own header magic (spec.md §4.2: "proprietary,
  Huffman-style variable-length codecs... that reuse an MPEG-1-derived
  macroblock layout with format-specific DC-coefficient encodings").

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package iki implements the Iki video bitstream format. Like STRv2, its
// DC value is a fixed-width field carried directly in the block header
// (no differential predictor state), so uncompress(compress(codes)) is the
// identity; it is distinguished from STRv2 only by header identification.
package iki

import (
	"encoding/binary"
	"io"

	"github.com/ausocean/psxav/bits"
	"github.com/ausocean/psxav/bitstream/vlc"
	"github.com/ausocean/psxav/mdec"
	"github.com/ausocean/psxav/perr"
)

const (
	magic  = 0x4949 // "II"
	hdrLen = 8
)

// Iki is the Iki Codec implementation.
type Iki struct{}

// New returns an Iki codec instance.
func New() *Iki { return &Iki{} }

// Name implements bitstream.Codec.
func (Iki) Name() string { return "iki" }

// CheckHeader implements bitstream.Codec.
func (Iki) CheckHeader(payload []byte) bool { return checkHeader(payload) }

func checkHeader(payload []byte) bool {
	if len(payload) < hdrLen {
		return false
	}
	return binary.LittleEndian.Uint16(payload[0:2]) == magic
}

// Uncompress implements bitstream.Codec.
func (Iki) Uncompress(payload []byte) (mdec.Iterator, error) {
	if !checkHeader(payload) {
		return nil, perr.ErrUnrecognizedFormat
	}
	r := bits.NewBitReader(payload[hdrLen:], true)
	expectHeader := true

	next := func() (mdec.Code, error) {
		if expectHeader {
			qscale, err := r.Read(6)
			if err != nil {
				return mdec.Code{}, io.EOF
			}
			raw, err := r.Read(10)
			if err != nil {
				return mdec.Code{}, io.EOF
			}
			dc := int(raw)
			if dc >= 512 {
				dc -= 1024
			}
			expectHeader = false
			return mdec.HeaderCode(int(qscale), dc), nil
		}
		res, err := vlc.DecodeAC(r)
		if err != nil {
			return mdec.Code{}, perr.ErrReadCorruption
		}
		if res.EOB {
			expectHeader = true
			return mdec.EOBCode, nil
		}
		return mdec.ACCode(res.Run, res.Level), nil
	}
	return codeFunc(next), nil
}

// Compress implements bitstream.Codec.
func (Iki) Compress(codes []mdec.Code, byteBudget int) ([]byte, error) {
	w := bits.NewBitWriter(true)
	for _, c := range codes {
		switch {
		case c.Header:
			if err := w.Write(uint32(c.QScale), 6); err != nil {
				return nil, err
			}
			dc := c.DC
			if dc < 0 {
				dc += 1024
			}
			if err := w.Write(uint32(dc), 10); err != nil {
				return nil, err
			}
		case c.EOB:
			if err := vlc.EncodeAC(w, true, 0, 0); err != nil {
				return nil, err
			}
		default:
			if err := vlc.EncodeAC(w, false, c.Run, c.Level); err != nil {
				return nil, err
			}
		}
	}
	body := w.Flush()

	out := make([]byte, hdrLen+len(body))
	binary.LittleEndian.PutUint16(out[0:2], magic)
	copy(out[hdrLen:], body)

	if byteBudget > 0 && len(out) > byteBudget {
		return nil, perr.ErrTooMuchEnergy
	}
	return out, nil
}

type codeFunc func() (mdec.Code, error)

func (f codeFunc) Next() (mdec.Code, error) { return f() }
