/*
NAME
  encode.go

DESCRIPTION
  encode.go implements Encoder, the inverse of Decoder: forward DCT,
  quantization, zig-zag scan, and RLE code emission (spec.md §4.4).

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

// Encoder performs the forward path: an image plus a target qscale becomes
// a stream of MDEC codes, quantized with the PSX default quant table.
type Encoder struct {
	Quant QuantTable
}

// NewEncoder returns an Encoder using the PSX default quantization table.
func NewEncoder() *Encoder {
	return &Encoder{Quant: DefaultQuantTable}
}

// ToYCbCr converts src (which must be FormatRGB) into dst as planar YCbCr
// 4:2:0, box-filtering 2x2 groups of chroma samples down to quarter
// resolution. dst's buffers are (re)allocated as needed.
func ToYCbCr(src *DecodedFrame, dst *DecodedFrame, m ColorMatrix) {
	dst.ensureCapacity(src.Width, src.Height, FormatYCbCr)
	w, h := src.Width, src.Height

	// Full-resolution Cb/Cr accumulated here, then box-filtered down.
	fullCb := make([]int32, w*h)
	fullCr := make([]int32, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := (y*w + x) * 4
			b, g, r := int32(src.RGB[o+0]), int32(src.RGB[o+1]), int32(src.RGB[o+2])
			yy, cb, cr := rgbToYCbCr(r, g, b, m)
			dst.Y[y*w+x] = yy
			fullCb[y*w+x] = int32(cb) - 128
			fullCr[y*w+x] = int32(cr) - 128
		}
	}

	cw, ch := w/2, h/2
	for y := 0; y < ch; y++ {
		for x := 0; x < cw; x++ {
			sx, sy := x*2, y*2
			sumCb := fullCb[sy*w+sx] + fullCb[sy*w+sx+1] + fullCb[(sy+1)*w+sx] + fullCb[(sy+1)*w+sx+1]
			sumCr := fullCr[sy*w+sx] + fullCr[sy*w+sx+1] + fullCr[(sy+1)*w+sx] + fullCr[(sy+1)*w+sx+1]
			dst.Cb[y*cw+x] = byte(sumCb/4 + 128)
			dst.Cr[y*cw+x] = byte(sumCr/4 + 128)
		}
	}
}

// rgbToYCbCr is the forward color transform, the algebraic inverse of
// ycbcrToRGB for the given matrix.
func rgbToYCbCr(r, g, b int32, m ColorMatrix) (y, cb, cr uint8) {
	switch m {
	case FullRangeJFIF:
		yy := (19595*r + 38470*g + 7471*b) / 65536
		cbb := (-11059*r-21709*g+32768*b)/65536 + 128
		crr := (32768*r-27439*g-5329*b)/65536 + 128
		return clampByte(yy), clampByte(cbb), clampByte(crr)
	default: // Rec601
		yy := (16829*r+33039*g+6416*b)/65536 + 16
		cbb := (-9714*r-19070*g+28784*b)/65536 + 128
		crr := (28784*r-24103*g-4681*b)/65536 + 128
		return clampByte(yy), clampByte(cbb), clampByte(crr)
	}
}

// EncodeMacroblock forward-DCTs, quantizes, and RLE-encodes one 16x16
// macroblock of img (which must be FormatYCbCr) at qscale, returning the
// 6 per-block code slices (each ending in mdec.EOBCode), in the order 4
// luma (TL,TR,BL,BR), Cb, Cr.
func (e *Encoder) EncodeMacroblock(img *DecodedFrame, mbX, mbY, qscale int) [6][]Code {
	var out [6][]Code

	extractLuma := func(ox, oy int) [64]int32 {
		var block [64]int32
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				px, py := ox+x, oy+y
				var v int32
				if px < img.Width && py < img.Height {
					v = int32(img.Y[py*img.Width+px]) - 128
				}
				block[y*8+x] = v
			}
		}
		return block
	}
	extractChroma := func(plane []byte, pw, ph, ox, oy int) [64]int32 {
		var block [64]int32
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				px, py := ox+x, oy+y
				var v int32
				if px < pw && py < ph {
					v = int32(plane[py*pw+px]) - 128
				}
				block[y*8+x] = v
			}
		}
		return block
	}

	baseX, baseY := mbX*16, mbY*16
	lumaBlocks := [4][64]int32{
		extractLuma(baseX, baseY),
		extractLuma(baseX+8, baseY),
		extractLuma(baseX, baseY+8),
		extractLuma(baseX+8, baseY+8),
	}
	cw, ch := img.Width/2, img.Height/2
	cbBlock := extractChroma(img.Cb, cw, ch, mbX*8, mbY*8)
	crBlock := extractChroma(img.Cr, cw, ch, mbX*8, mbY*8)

	for i := range lumaBlocks {
		out[i] = e.encodeBlock(&lumaBlocks[i], qscale)
	}
	out[4] = e.encodeBlock(&cbBlock, qscale)
	out[5] = e.encodeBlock(&crBlock, qscale)
	return out
}

// encodeBlock implements spec.md §4.4 step 2 for one 8x8 block.
func (e *Encoder) encodeBlock(pixels *[64]int32, qscale int) []Code {
	coeffs := ForwardDCT(pixels)

	dc := int(coeffs[0] / (int32(e.Quant[0]) * 2))
	codes := make([]Code, 0, 16)
	codes = append(codes, HeaderCode(qscale, dc))

	run := 0
	for zig := 1; zig < 64; zig++ {
		nat := ZigZag[zig]
		denom := int32(e.Quant[zig]) * int32(qscale) * 2
		var level int32
		if denom != 0 {
			level = coeffs[nat] * 16 / denom
		}
		if level == 0 {
			run++
			continue
		}
		codes = append(codes, ACCode(run, int(level)))
		run = 0
	}
	codes = append(codes, EOBCode)
	return codes
}

// EncodeFrame encodes every macroblock of img (FormatYCbCr) at a single
// qscale, concatenating per-macroblock code streams in raster order.
func (e *Encoder) EncodeFrame(img *DecodedFrame, qscale int) []Code {
	mbW, mbH := mbDim(img.Width), mbDim(img.Height)
	var codes []Code
	for mbY := 0; mbY < mbH; mbY++ {
		for mbX := 0; mbX < mbW; mbX++ {
			blocks := e.EncodeMacroblock(img, mbX, mbY, qscale)
			for _, b := range blocks {
				codes = append(codes, b...)
			}
		}
	}
	return codes
}
