/*
NAME
  strv3.go

DESCRIPTION
  strv3.go implements the STRv3 bitstream codec: differentially VLC-coded
  DC values with per-plane predictor state, the shared AC run/level VLC,
  and the frame trailer word (spec.md §4.2 item 2).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package strv3 implements the most common PSX video bitstream format: DC
// values are coded as a differential against a running per-plane predictor
// (separate predictors for luma and for each chroma channel, reset to zero
// at the start of every frame) using the VLC tables in bitstream/vlc.
package strv3

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
	version = 3
	hdrLen  = 8

	// trailer is the fixed 11-bit pattern expected after a frame's last
	// block; Compress writes it and then zero-pads only the final partial
	// byte. A mismatch is reported
	// as a warning, not a decode failure (spec.md Open Questions).
	trailerBits = 11
	trailerCode = 0x7FE // 11111111110
)

// Strv3 is the STRv3 Codec implementation.
type Strv3 struct{}

// New returns a Strv3 codec instance.
func New() *Strv3 { return &Strv3{} }

// Name implements bitstream.Codec.
func (Strv3) Name() string { return "strv3" }

// CheckHeader implements bitstream.Codec.
func (Strv3) CheckHeader(payload []byte) bool { return checkHeader(payload) }

func checkHeader(payload []byte) bool {
	if len(payload) < hdrLen {
		return false
	}
	return binary.LittleEndian.Uint16(payload[0:2]) == magic &&
		binary.LittleEndian.Uint16(payload[2:4]) == version
}

// decoder holds the per-frame DC predictor state a strv3 Iterator needs.
type decoder struct {
	r              *bits.BitReader
	predY, predCb, predCr int
	blockInMB      int // 0..5, position within the current macroblock.
	expectHeader   bool

	// trailerKnown latches once TrailerOK has been evaluated, so repeated
	// calls after the stream is exhausted don't re-walk the buffer.
	trailerOK    bool
	trailerKnown bool
}

// Uncompress implements bitstream.Codec.
func (Strv3) Uncompress(payload []byte) (mdec.Iterator, error) {
	if !checkHeader(payload) {
		return nil, perr.ErrUnrecognizedFormat
	}
	d := &decoder{
		r:            bits.NewBitReader(payload[hdrLen:], true),
		expectHeader: true,
	}
	return d, nil
}

// table returns the DC VLC table and predictor pointer for the current
// block-in-macroblock position (0-3 luma, 4 Cb, 5 Cr).
func (d *decoder) table() (*vlc.DCTable, *int) {
	switch d.blockInMB {
	case 4:
		return vlc.ChromaDC, &d.predCb
	case 5:
		return vlc.ChromaDC, &d.predCr
	default:
		return vlc.LumaDC, &d.predY
	}
}

// Next implements mdec.Iterator.
func (d *decoder) Next() (mdec.Code, error) {
	if d.expectHeader {
		qscale, err := d.r.Read(6)
		if err != nil {
			return mdec.Code{}, io.EOF
		}
		table, pred := d.table()
		diff, err := table.Decode(d.r)
		if err != nil {
			return mdec.Code{}, perr.ErrReadCorruption
		}
		// The coded differential is over a quarter-scale DC; multiply by 4
		// to restore the 10-bit range (spec.md §4.2 item 2).
		dc := *pred + diff*4
		// spec.md §3 Invariants: predictor updates are clamped to
		// [-512,511], and a value that would fall outside that range is a
		// corruption error, not something to silently clamp and continue.
		if dc < -512 || dc > 511 {
			return mdec.Code{}, perr.ErrReadCorruption
		}
		*pred = dc
		d.expectHeader = false
		return mdec.HeaderCode(int(qscale), dc), nil
	}
	res, err := vlc.DecodeAC(d.r)
	if err != nil {
		return mdec.Code{}, perr.ErrReadCorruption
	}
	if res.EOB {
		d.expectHeader = true
		d.blockInMB = (d.blockInMB + 1) % 6
		return mdec.EOBCode, nil
	}
	return mdec.ACCode(res.Run, res.Level), nil
}

// TrailerOK reports whether the bits immediately following the current
// read position match the expected frame trailer. It is advisory: callers
// are not required to check it, and a mismatch should be logged rather
// than treated as a decode error (spec.md Open Questions).
func (d *decoder) TrailerOK() bool {
	if d.trailerKnown {
		return d.trailerOK
	}
	v, err := d.r.Peek(trailerBits)
	d.trailerOK = err == nil && v == trailerCode
	d.trailerKnown = true
	return d.trailerOK
}

// Compress implements bitstream.Codec.
func (Strv3) Compress(codes []mdec.Code, byteBudget int) ([]byte, error) {
	w := bits.NewBitWriter(true)
	var predY, predCb, predCr int
	blockInMB := 0

	for _, c := range codes {
		switch {
		case c.Header:
			if err := w.Write(uint32(c.QScale), 6); err != nil {
				return nil, err
			}
			var pred *int
			var table *vlc.DCTable
			switch blockInMB {
			case 4:
				table, pred = vlc.ChromaDC, &predCb
			case 5:
				table, pred = vlc.ChromaDC, &predCr
			default:
				table, pred = vlc.LumaDC, &predY
			}
			// Lossy in DC: round to the nearest multiple of 4 before
			// differencing, then encode the quarter-scale differential
			// (spec.md §4.2 item 2). Unlike Next()'s decode-side check,
			// this clamp only constrains the encoder's own in-memory input
			// domain rather than rejecting untrusted bitstream data, so it
			// stays a clamp rather than an ErrReadCorruption. The upper bound is
			// 508, the largest multiple of 4 within [-512,511].
			rounded := roundTo4(c.DC)
			if rounded < -512 {
				rounded = -512
			} else if rounded > 508 {
				rounded = 508
			}
			if err := table.Encode(w, (rounded-*pred)/4); err != nil {
				return nil, err
			}
			*pred = rounded
		case c.EOB:
			if err := vlc.EncodeAC(w, true, 0, 0); err != nil {
				return nil, err
			}
			blockInMB = (blockInMB + 1) % 6
		default:
			if err := vlc.EncodeAC(w, false, c.Run, c.Level); err != nil {
				return nil, err
			}
		}
	}
	if err := w.Write(trailerCode, trailerBits); err != nil {
		return nil, err
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

// roundTo4 rounds v to the nearest multiple of 4, ties away from zero.
func roundTo4(v int) int {
	if v >= 0 {
		return ((v + 2) / 4) * 4
	}
	return -(((-v + 2) / 4) * 4)
}
