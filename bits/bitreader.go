/*
NAME
  bitreader.go

DESCRIPTION
  bitreader.go provides a MSB-first bit-level reader over a byte buffer, with
  an explicit 16-bit word-swap mode for PSX STR-format bitstreams.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides MSB-first bit-level reading and writing over a byte
// buffer, used by the bitstream codecs to decode and encode PSX video
// frames. Unlike codec/h264/h264dec/bits (which is LSB-accumulating and
// io.Reader based), this reader operates over an in-memory buffer so that
// peek-without-consume and absolute bit-position tracking are cheap, and it
// understands the 16-bit-word byte-swap PSX bitstreams use.
package bits

import "github.com/pkg/errors"

// ErrEndOfStream is returned by Peek/Read when fewer than the requested
// number of bits remain in the buffer.
var ErrEndOfStream = errors.New("bits: end of stream")

// BitReader reads bits MSB-first from a byte buffer. When WordSwap is
// enabled, the buffer is interpreted as a sequence of 16-bit little-endian
// words whose two bytes must be swapped before bit extraction begins; this
// is how STR-format payloads store their bitstream.
type BitReader struct {
	buf      []byte
	wordSwap bool
	bitPos   int // Absolute bit offset from the start of buf, post word-swap.
}

// NewBitReader returns a BitReader over buf. If wordSwap is true, buf is
// logically treated as pairs of bytes swapped before bit extraction.
func NewBitReader(buf []byte, wordSwap bool) *BitReader {
	return &BitReader{buf: buf, wordSwap: wordSwap}
}

// byteAt returns the logical byte at index i, applying the word-swap if
// enabled, and whether the index is in range.
func (r *BitReader) byteAt(i int) (byte, bool) {
	if i < 0 || i >= len(r.buf) {
		return 0, false
	}
	if !r.wordSwap {
		return r.buf[i], true
	}
	// Swap within each 16-bit word: even index gets the odd byte and
	// vice-versa.
	if i%2 == 0 {
		if i+1 < len(r.buf) {
			return r.buf[i+1], true
		}
		return 0, false
	}
	return r.buf[i-1], true
}

// Peek returns the next n bits (1 <= n <= 24) without advancing the reader.
// It fails with ErrEndOfStream if fewer than n bits remain.
func (r *BitReader) Peek(n int) (uint32, error) {
	if n < 1 || n > 24 {
		return 0, errors.Errorf("bits: invalid peek width %d", n)
	}
	var v uint32
	bitPos := r.bitPos
	for need := n; need > 0; {
		byteIdx := bitPos / 8
		bitOff := bitPos % 8
		b, ok := r.byteAt(byteIdx)
		if !ok {
			return 0, ErrEndOfStream
		}
		avail := 8 - bitOff
		take := avail
		if take > need {
			take = need
		}
		shift := avail - take
		mask := byte(1<<uint(take)) - 1
		chunk := (b >> uint(shift)) & mask
		v = v<<uint(take) | uint32(chunk)
		bitPos += take
		need -= take
	}
	return v, nil
}

// Read returns the next n bits and advances the reader by n bits.
func (r *BitReader) Read(n int) (uint32, error) {
	v, err := r.Peek(n)
	if err != nil {
		return 0, err
	}
	r.bitPos += n
	return v, nil
}

// Skip advances the reader by n bits. Unlike Peek/Read, running past the end
// of the buffer is not an error: trailing padding regions are legal.
func (r *BitReader) Skip(n int) {
	r.bitPos += n
}

// Position returns the current absolute bit offset from the start of the
// buffer, as a logical offset into the post-word-swap bit sequence.
func (r *BitReader) Position() int {
	return r.bitPos
}

// Remaining returns the number of bits left in the buffer, which may be
// negative if Skip has advanced past the end.
func (r *BitReader) Remaining() int {
	return len(r.buf)*8 - r.bitPos
}

// ByteAligned reports whether the reader sits on a byte boundary.
func (r *BitReader) ByteAligned() bool {
	return r.bitPos%8 == 0
}
