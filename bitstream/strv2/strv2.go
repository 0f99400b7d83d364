/*
NAME
  strv2.go

DESCRIPTION
  strv2.go implements the STRv2 bitstream codec: fixed-width (non-VLC) DC
  codes and the shared MPEG-1-derived AC run/level VLC (spec.md §4.2 item
  1).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package strv2 implements the oldest PSX video bitstream format. Unlike
// STRv3, its per-block DC value is a fixed-width field carried directly in
// the block header code rather than a differentially-coded VLC.
package strv2

import (
	"encoding/binary"
	"io"

	"github.com/ausocean/psxav/bits"
	"github.com/ausocean/psxav/bitstream/vlc"
	"github.com/ausocean/psxav/mdec"
	"github.com/ausocean/psxav/perr"
)

const (
	magic   = 0x3800
	version = 2
	hdrLen  = 8
)

// Strv2 is the STRv2 Codec implementation.
type Strv2 struct{}

// New returns a Strv2 codec instance.
func New() *Strv2 { return &Strv2{} }

// Name implements bitstream.Codec.
func (Strv2) Name() string { return "strv2" }

// CheckHeader implements bitstream.Codec.
func (Strv2) CheckHeader(payload []byte) bool {
	return checkHeader(payload)
}

func checkHeader(payload []byte) bool {
	if len(payload) < hdrLen {
		return false
	}
	return binary.LittleEndian.Uint16(payload[0:2]) == magic &&
		binary.LittleEndian.Uint16(payload[2:4]) == version
}

// Uncompress implements bitstream.Codec.
func (Strv2) Uncompress(payload []byte) (mdec.Iterator, error) {
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
	return bitstreamIterator{next}, nil
}

// Compress implements bitstream.Codec.
func (Strv2) Compress(codes []mdec.Code, byteBudget int) ([]byte, error) {
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
	binary.LittleEndian.PutUint16(out[2:4], version)
	copy(out[hdrLen:], body)

	if byteBudget > 0 && len(out) > byteBudget {
		return nil, perr.ErrTooMuchEnergy
	}
	return out, nil
}

// bitstreamIterator adapts a closure to mdec.Iterator.
type bitstreamIterator struct {
	next func() (mdec.Code, error)
}

func (b bitstreamIterator) Next() (mdec.Code, error) { return b.next() }
