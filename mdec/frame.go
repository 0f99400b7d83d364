/*
NAME
  frame.go

DESCRIPTION
  frame.go defines DecodedFrame, the pixel raster produced by Decoder.Decode
  and consumed by Encoder.EncodeFrame, plus the macroblock geometry helpers
  shared across the package.

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

// Format selects DecodedFrame's pixel layout.
type Format int

const (
	// FormatRGB stores one interleaved 32bpp (B,G,R,pad) raster.
	FormatRGB Format = iota
	// FormatYCbCr stores three planar buffers, chroma subsampled 4:2:0.
	FormatYCbCr
)

// DecodedFrame is a decoded pixel raster, owned by whichever pipeline stage
// holds it and reused between frames (spec.md §3 Ownership).
type DecodedFrame struct {
	Width, Height int
	Format        Format

	// RGB holds Width*Height*4 bytes (B,G,R,0) when Format == FormatRGB.
	RGB []byte

	// Y is Width*Height bytes; Cb and Cr are each (Width/2)*(Height/2)
	// bytes, valid when Format == FormatYCbCr or as the decoder's
	// intermediate representation before RGB conversion.
	Y, Cb, Cr []byte
}

// MBWidth returns ceil(Width/16).
func (f *DecodedFrame) MBWidth() int { return mbDim(f.Width) }

// MBHeight returns ceil(Height/16).
func (f *DecodedFrame) MBHeight() int { return mbDim(f.Height) }

func mbDim(n int) int { return (n + 15) / 16 }

// ensureCapacity (re)allocates the frame's buffers for (width, height) if
// they aren't already sized correctly, so repeated decodes of same-sized
// frames reuse storage (spec.md §3 Ownership: "MDEC decoder owns its
// internal 6-plane macroblock buffers, reused per frame").
func (f *DecodedFrame) ensureCapacity(width, height int, format Format) {
	f.Width, f.Height, f.Format = width, height, format
	cw, ch := width/2, height/2
	if format == FormatRGB || true {
		// RGB is allocated below only when Format == FormatRGB, since
		// color conversion writes into it only then; YCbCr planes are the
		// decode target regardless of output format.
	}
	if cap(f.Y) < width*height {
		f.Y = make([]byte, width*height)
	} else {
		f.Y = f.Y[:width*height]
	}
	if cap(f.Cb) < cw*ch {
		f.Cb = make([]byte, cw*ch)
	} else {
		f.Cb = f.Cb[:cw*ch]
	}
	if cap(f.Cr) < cw*ch {
		f.Cr = make([]byte, cw*ch)
	} else {
		f.Cr = f.Cr[:cw*ch]
	}
	if format == FormatRGB {
		if cap(f.RGB) < width*height*4 {
			f.RGB = make([]byte, width*height*4)
		} else {
			f.RGB = f.RGB[:width*height*4]
		}
	}
}

// macroblock holds the 6 decoded 8x8 blocks making up one 16x16 macroblock,
// in the order 4 luma (TL, TR, BL, BR), 1 Cb, 1 Cr (spec.md §3).
type macroblock struct {
	y  [4][64]int32
	cb [64]int32
	cr [64]int32
}
