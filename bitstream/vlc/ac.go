/*
NAME
  ac.go

DESCRIPTION
  ac.go implements the run/level AC coefficient VLC shared by every PSX
  bitstream format (STRv2, STRv3, Iki, Lain, Crusader), derived from the
  MPEG-1 DCT coefficient table, plus its escape sequence (spec.md §4.2).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package vlc holds the variable-length-code tables shared by the PSX
// bitstream codecs: the MPEG-1-derived AC run/level table (common to every
// format) and the STRv3 DC differential tables.
package vlc

import (
	"github.com/ausocean/psxav/bits"
)

// acEntry is one (run, |level|) -> code mapping. The codec-facing sign is
// carried by a single trailing bit, not by this table (classic MPEG-1
// style), except for the escape path which carries a full signed level.
type acEntry struct {
	run, level int
	bitLen     int
	code       uint32
}

// acTable is a small representative subset of the MPEG-1 Table B.14/B.15
// run/level VLC, covering the shortest (most frequent) codes; anything else
// falls through the escape sequence. EOB and the escape prefix are reserved
// and never assigned to a table entry.
var acTable = []acEntry{
	{run: 0, level: 1, bitLen: 2, code: 0x3}, // 11
	{run: 1, level: 1, bitLen: 3, code: 0x3}, // 011
	{run: 0, level: 2, bitLen: 4, code: 0x4}, // 0100
	{run: 2, level: 1, bitLen: 4, code: 0x5}, // 0101
	{run: 0, level: 3, bitLen: 5, code: 0x7}, // 00111
	{run: 3, level: 1, bitLen: 5, code: 0x6}, // 00110
	{run: 4, level: 1, bitLen: 6, code: 0xB}, // 001011
	{run: 1, level: 2, bitLen: 6, code: 0xA}, // 001010
	{run: 5, level: 1, bitLen: 7, code: 0x13}, // 0010011
	{run: 6, level: 1, bitLen: 7, code: 0x12}, // 0010010
	{run: 2, level: 2, bitLen: 7, code: 0x11}, // 0010001
	{run: 0, level: 4, bitLen: 7, code: 0x10}, // 0010000
	{run: 7, level: 1, bitLen: 6, code: 0x0},  // 000000
}

// EOB is the run/level VLC's end-of-block code: 2 bits, "10".
const (
	eobBitLen = 2
	eobCode   = 0x2

	escapeBitLen = 6
	escapeCode   = 0x1 // 000001
)

// ACResult is one decoded AC token: either EOB, an escape-coded run/level,
// or a table-coded run/level.
type ACResult struct {
	EOB        bool
	Run, Level int
}

// DecodeAC reads one AC token (EOB, table entry + sign, or escape).
func DecodeAC(r *bits.BitReader) (ACResult, error) {
	// EOB and escape are checked first since they're both short, fixed
	// prefixes; every other code in acTable is longer or starts
	// differently, so there's no ambiguity trying these first with Peek.
	if v, err := r.Peek(eobBitLen); err == nil && v == eobCode {
		r.Skip(eobBitLen)
		return ACResult{EOB: true}, nil
	}
	if v, err := r.Peek(escapeBitLen); err == nil && v == escapeCode {
		r.Skip(escapeBitLen)
		run, err := r.Read(6)
		if err != nil {
			return ACResult{}, err
		}
		raw, err := r.Read(10)
		if err != nil {
			return ACResult{}, err
		}
		level := int(raw)
		if level >= 512 {
			level -= 1024
		}
		return ACResult{Run: int(run), Level: level}, nil
	}
	for _, e := range acTable {
		v, err := r.Peek(e.bitLen)
		if err != nil {
			continue
		}
		if v == e.code {
			r.Skip(e.bitLen)
			sign, err := r.Read(1)
			if err != nil {
				return ACResult{}, err
			}
			level := e.level
			if sign == 1 {
				level = -level
			}
			return ACResult{Run: e.run, Level: level}, nil
		}
	}
	return ACResult{}, errUnknownVLC
}

// EncodeAC writes one AC token. EOB is selected with eob=true; otherwise
// run/level is encoded via the shortest matching table entry, falling back
// to the escape sequence.
func EncodeAC(w *bits.BitWriter, eob bool, run, level int) error {
	if eob {
		return w.Write(eobCode, eobBitLen)
	}
	abs := level
	neg := false
	if abs < 0 {
		abs = -abs
		neg = true
	}
	for _, e := range acTable {
		if e.run == run && e.level == abs {
			if err := w.Write(e.code, e.bitLen); err != nil {
				return err
			}
			sign := uint32(0)
			if neg {
				sign = 1
			}
			return w.Write(sign, 1)
		}
	}
	if err := w.Write(escapeCode, escapeBitLen); err != nil {
		return err
	}
	if err := w.Write(uint32(run), 6); err != nil {
		return err
	}
	l := level
	if l < 0 {
		l += 1024
	}
	return w.Write(uint32(l), 10)
}
