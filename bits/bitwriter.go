/*
NAME
  bitwriter.go

DESCRIPTION
  bitwriter.go is the write-side mirror of bitreader.go: an MSB-first bit
  writer that buffers a partial byte and flushes finished bytes to a sink,
  with the same 16-bit word-swap mode.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bits

import "github.com/pkg/errors"

// BitWriter writes bits MSB-first, buffering a partial byte until it fills.
// When WordSwap is enabled, output bytes are re-paired and swapped on Flush
// so the emitted buffer matches the STR on-disc word layout.
type BitWriter struct {
	out      []byte
	wordSwap bool
	cur      byte
	curBits  int
}

// NewBitWriter returns a BitWriter that accumulates into an internal buffer;
// Flush returns the finished output.
func NewBitWriter(wordSwap bool) *BitWriter {
	return &BitWriter{wordSwap: wordSwap}
}

// Write appends the low n bits (1 <= n <= 24) of v to the stream.
func (w *BitWriter) Write(v uint32, n int) error {
	if n < 1 || n > 24 {
		return errors.Errorf("bits: invalid write width %d", n)
	}
	for need := n; need > 0; {
		free := 8 - w.curBits
		take := free
		if take > need {
			take = need
		}
		shift := need - take
		mask := uint32(1<<uint(take)) - 1
		chunk := byte((v >> uint(shift)) & mask)
		w.cur = w.cur<<uint(take) | chunk
		w.curBits += take
		need -= take
		if w.curBits == 8 {
			w.out = append(w.out, w.cur)
			w.cur = 0
			w.curBits = 0
		}
	}
	return nil
}

// Position returns the number of whole bits written so far, including the
// partially filled trailing byte.
func (w *BitWriter) Position() int {
	return len(w.out)*8 + w.curBits
}

// Flush pads the current partial byte with zero bits, emits it, and returns
// the complete output buffer with the word-swap (if enabled) applied.
func (w *BitWriter) Flush() []byte {
	if w.curBits > 0 {
		w.cur <<= uint(8 - w.curBits)
		w.out = append(w.out, w.cur)
		w.cur = 0
		w.curBits = 0
	}
	if !w.wordSwap {
		return w.out
	}
	out := make([]byte, len(w.out))
	copy(out, w.out)
	for i := 0; i+1 < len(out); i += 2 {
		out[i], out[i+1] = out[i+1], out[i]
	}
	return out
}

// Bytes returns the bytes written so far without flushing the final partial
// byte (useful for length bookkeeping before the trailer is appended).
func (w *BitWriter) Bytes() []byte {
	return w.out
}
