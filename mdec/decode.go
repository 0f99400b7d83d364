/*
NAME
  decode.go

DESCRIPTION
  decode.go implements Decoder, which turns an MDEC code stream into a
  decoded pixel raster: per-block dequantization, inverse zig-zag, IDCT,
  macroblock assembly, and optional RGB color conversion (spec.md §4.3).

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

	"github.com/ausocean/psxav/perr"
)

// Quality selects which IDCT precision tier Decoder uses.
type Quality int

const (
	// QualityLow uses the fast fixed-point integer IDCT.
	QualityLow Quality = iota
	// QualityHigh uses the float64 IDCT with configurable chroma upsampling.
	QualityHigh
	// QualityPsxExact also uses the double IDCT but forces
	// NearestNeighbor chroma upsampling to match the PSX hardware's own
	// (non-interpolated) chroma handling.
	QualityPsxExact
)

// Decoder decodes an MDEC code stream into a DecodedFrame. A Decoder may be
// reused across frames of the same or varying dimensions; its internal
// macroblock buffer is a fixed-size array reused for every macroblock, and
// dst's buffers are reallocated only when a frame's geometry changes.
type Decoder struct {
	Quality          Quality
	ColorMatrix      ColorMatrix
	ChromaUpsampling ChromaUpsampling
	Quant            QuantTable

	idctLow  IDCT
	idctHigh IDCT
	mb       macroblock
}

// NewDecoder returns a Decoder using the PSX default quantization table.
func NewDecoder(q Quality, cm ColorMatrix, cu ChromaUpsampling) *Decoder {
	return &Decoder{
		Quality:          q,
		ColorMatrix:      cm,
		ChromaUpsampling: cu,
		Quant:            DefaultQuantTable,
		idctLow:          NewIntegerIDCT(),
		idctHigh:         NewDoubleIDCT(),
	}
}

func (d *Decoder) idct() IDCT {
	if d.Quality == QualityLow {
		return d.idctLow
	}
	return d.idctHigh
}

func (d *Decoder) chroma() ChromaUpsampling {
	if d.Quality != QualityHigh {
		return NearestNeighbor
	}
	return d.ChromaUpsampling
}

// Decode consumes codes for exactly one frame of the given dimensions and
// writes the result into dst, reusing dst's buffers when already sized
// correctly. If format is FormatRGB, dst.RGB is populated via color
// conversion; the YCbCr planes are always populated as the decode target.
func (d *Decoder) Decode(codes Code2Stream, width, height int, format Format, dst *DecodedFrame) error {
	dst.ensureCapacity(width, height, format)
	mbW, mbH := mbDim(width), mbDim(height)

	for mbY := 0; mbY < mbH; mbY++ {
		for mbX := 0; mbX < mbW; mbX++ {
			if err := d.decodeMacroblock(codes, mbX, mbY); err != nil {
				return err
			}
			d.assembleMacroblock(dst, mbX, mbY)
		}
	}

	if format == FormatRGB {
		d.convertToRGB(dst)
	}
	return nil
}

// Code2Stream is the iterator interface consumed by Decode; it is
// satisfied by Iterator and kept distinct so decode.go can evolve its
// requirements independently of the encoder-facing Iterator type.
type Code2Stream interface {
	Next() (Code, error)
}

// decodeMacroblock reads the 6 blocks of macroblock (mbX, mbY) from codes
// into d.mb.
func (d *Decoder) decodeMacroblock(codes Code2Stream, mbX, mbY int) error {
	for i := 0; i < 4; i++ {
		if err := d.decodeBlock(codes, &d.mb.y[i], mbX, mbY, i); err != nil {
			return err
		}
	}
	if err := d.decodeBlock(codes, &d.mb.cb, mbX, mbY, 4); err != nil {
		return err
	}
	if err := d.decodeBlock(codes, &d.mb.cr, mbX, mbY, 5); err != nil {
		return err
	}
	return nil
}

// wrapIterErr classifies an error returned by codes.Next() as either
// stream exhaustion (io.EOF, or a codec's own perr.ErrEndOfStream) or
// corruption, and attaches the macroblock/sub-block coordinates spec.md
// §4.3 "Failures" requires on both kinds. Codec Next() implementations
// return coordinate-free sentinels; this is the one place coordinates are
// stitched on, so every corruption and exhaustion path is covered
// uniformly instead of only the checks decodeBlock performs itself.
func wrapIterErr(err error, mbX, mbY, blockIdx int, eofMsg string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, perr.ErrEndOfStream) {
		return perr.NewCodecError(perr.ErrEndOfStream, mbX, mbY, blockIdx, eofMsg)
	}
	return perr.NewCodecError(perr.ErrReadCorruption, mbX, mbY, blockIdx, err.Error())
}

// decodeBlock implements spec.md §4.3 steps 1-6 for a single 8x8 block.
func (d *Decoder) decodeBlock(codes Code2Stream, block *[64]int32, mbX, mbY, blockIdx int) error {
	hdr, err := codes.Next()
	if err != nil {
		return wrapIterErr(err, mbX, mbY, blockIdx, "stream ended before block header")
	}
	if !hdr.Header {
		return perr.NewCodecError(perr.ErrReadCorruption, mbX, mbY, blockIdx, "expected block header code")
	}
	if hdr.DC < -512 || hdr.DC > 511 {
		return perr.NewCodecError(perr.ErrReadCorruption, mbX, mbY, blockIdx, "DC out of range")
	}

	for i := range block {
		block[i] = 0
	}
	block[0] = int32(hdr.DC) * int32(d.Quant[0]) * 2

	var sum int64 = int64(block[0])
	zig := 0
	lastNat := 0
	for {
		c, err := codes.Next()
		if err != nil {
			return wrapIterErr(err, mbX, mbY, blockIdx, "stream ended mid-block")
		}
		if c.EOB {
			break
		}
		zig += c.Run + 1
		if zig >= 64 {
			return perr.NewCodecError(perr.ErrReadCorruption, mbX, mbY, blockIdx, "run overflows block")
		}
		nat := ZigZag[zig]
		val := int32(c.Level) * int32(d.Quant[zig]) * int32(hdr.QScale) * 2 / 16
		block[nat] = val
		sum += int64(val)
		lastNat = nat
	}

	// MPEG-1 mismatch control: if the sum of all 64 dequantized
	// coefficients is even, toggle the LSB of the last coefficient
	// written (natural-order position 63, or the last nonzero one found)
	// to avoid encoder/decoder IDCT drift.
	if sum%2 == 0 {
		idx := 63
		if lastNat != 0 || zig != 0 {
			idx = lastNat
		}
		if block[idx]&1 == 0 {
			block[idx]++
		} else {
			block[idx]--
		}
	}

	d.idct().Transform(block)
	return nil
}

// assembleMacroblock clamps d.mb's 6 decoded blocks and writes them into
// dst's YCbCr planes at the position implied by (mbX, mbY).
func (d *Decoder) assembleMacroblock(dst *DecodedFrame, mbX, mbY int) {
	writeLumaBlock := func(block *[64]int32, ox, oy int) {
		for y := 0; y < 8; y++ {
			py := oy + y
			if py >= dst.Height {
				continue
			}
			for x := 0; x < 8; x++ {
				px := ox + x
				if px >= dst.Width {
					continue
				}
				v := block[y*8+x]
				if v < -128 {
					v = -128
				} else if v > 127 {
					v = 127
				}
				dst.Y[py*dst.Width+px] = byte(v + 128)
			}
		}
	}
	writeChromaBlock := func(block *[64]int32, plane []byte, pw, ph, ox, oy int) {
		for y := 0; y < 8; y++ {
			py := oy + y
			if py >= ph {
				continue
			}
			for x := 0; x < 8; x++ {
				px := ox + x
				if px >= pw {
					continue
				}
				v := block[y*8+x]
				if v < -128 {
					v = -128
				} else if v > 127 {
					v = 127
				}
				plane[py*pw+px] = byte(v + 128)
			}
		}
	}

	baseX, baseY := mbX*16, mbY*16
	writeLumaBlock(&d.mb.y[0], baseX, baseY)
	writeLumaBlock(&d.mb.y[1], baseX+8, baseY)
	writeLumaBlock(&d.mb.y[2], baseX, baseY+8)
	writeLumaBlock(&d.mb.y[3], baseX+8, baseY+8)

	cw, ch := dst.Width/2, dst.Height/2
	writeChromaBlock(&d.mb.cb, dst.Cb, cw, ch, mbX*8, mbY*8)
	writeChromaBlock(&d.mb.cr, dst.Cr, cw, ch, mbX*8, mbY*8)
}

// convertToRGB fills dst.RGB from dst's YCbCr planes using d's configured
// color matrix and chroma upsampling.
func (d *Decoder) convertToRGB(dst *DecodedFrame) {
	cw, ch := dst.Width/2, dst.Height/2
	method := d.chroma()
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			yy := int32(dst.Y[y*dst.Width+x])
			cb := upsampleChroma(dst.Cb, cw, ch, x, y, method)
			cr := upsampleChroma(dst.Cr, cw, ch, x, y, method)
			r, g, b := ycbcrToRGB(yy, cb, cr, d.ColorMatrix)
			o := (y*dst.Width + x) * 4
			dst.RGB[o+0] = b
			dst.RGB[o+1] = g
			dst.RGB[o+2] = r
			dst.RGB[o+3] = 0
		}
	}
}
