/*
NAME
  imagefile.go

DESCRIPTION
  imagefile.go encodes decoded PSX MDEC frames as single still images, PNG
  via stdlib image/png or BMP via golang.org/x/image/bmp (SPEC_FULL.md
  container/imagefile).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package imagefile writes decoded PSX MDEC frames as single still
// images: PNG via stdlib image/png, BMP via golang.org/x/image/bmp.
package imagefile

import (
	"image"
	"image/png"
	"io"

	"golang.org/x/image/bmp"

	"github.com/ausocean/psxav/mdec"
)

// Format selects the still-image encoding EncodeFrame produces.
type Format int

const (
	// FormatPNG is lossless, via stdlib image/png.
	FormatPNG Format = iota
	// FormatBMP is uncompressed, via golang.org/x/image/bmp.
	FormatBMP
)

// EncodeFrame writes frame to w in the given format.
func EncodeFrame(w io.Writer, frame *mdec.DecodedFrame, format Format) error {
	img := toImage(frame)
	switch format {
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return png.Encode(w, img)
	}
}

// toImage adapts a DecodedFrame to image.Image. Unlike container/jfif's
// equivalent, this one always produces an RGBA/NRGBA raster: BMP and PNG
// encoders handle arbitrary image.Image values, but neither benefits from
// a YCbCr source the way image/jpeg does, so FormatYCbCr frames are
// converted with image/color's full-range JFIF conversion (the
// coefficients of mdec.FullRangeJFIF), whichever ColorMatrix the decoder
// was configured with.
func toImage(f *mdec.DecodedFrame) image.Image {
	if f.Format == mdec.FormatRGB {
		return rgbToNRGBA(f)
	}
	return ycbcrToNRGBA(f)
}

func rgbToNRGBA(f *mdec.DecodedFrame) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i := 0; i < f.Width*f.Height; i++ {
		b := f.RGB[i*4+0]
		g := f.RGB[i*4+1]
		r := f.RGB[i*4+2]
		img.Pix[i*4+0] = r
		img.Pix[i*4+1] = g
		img.Pix[i*4+2] = b
		img.Pix[i*4+3] = 0xFF
	}
	return img
}

func ycbcrToNRGBA(f *mdec.DecodedFrame) *image.NRGBA {
	cw := (f.Width + 1) / 2
	yc := &image.YCbCr{
		Y:              f.Y,
		Cb:             f.Cb,
		Cr:             f.Cr,
		YStride:        f.Width,
		CStride:        cw,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, f.Width, f.Height),
	}
	img := image.NewNRGBA(yc.Rect)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b, a := yc.At(x, y).RGBA()
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(r >> 8)
			img.Pix[i+1] = uint8(g >> 8)
			img.Pix[i+2] = uint8(b >> 8)
			img.Pix[i+3] = uint8(a >> 8)
		}
	}
	return img
}
