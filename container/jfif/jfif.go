/*
NAME
  jfif.go

DESCRIPTION
  jfif.go encodes an mdec.DecodedFrame as a baseline JFIF/JPEG byte stream,
  wrapping stdlib image/jpeg with a qscale-derived quality setting so the
  MJPEG/JPEG pipeline stages exercise real quantization control instead of
  a fixed quality constant (spec.md §6, SPEC_FULL.md container/jfif).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package jfif writes decoded PSX MDEC frames as baseline JFIF images,
// wrapping stdlib image/jpeg the same way the retrieval pack's AVI
// generator reference does (encode an image.Image to a JPEG byte buffer,
// then hand the bytes to a container writer).
package jfif

import (
	"bytes"
	"image"
	"image/jpeg"
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/psxav/mdec"
)

// QualityForQscale maps an MDEC quantization scale (1..63, smaller is
// higher fidelity) onto a jpeg.Options.Quality value (1..100, larger is
// higher fidelity). The mapping is linear and monotonic; it does not
// attempt to reproduce MDEC's own quantization matrix in JPEG's DQT, it
// only keeps "encoded at a coarser qscale" visually correlated with
// "encoded at a lower JPEG quality" for the MJPEG output path.
func QualityForQscale(qscale int) int {
	if qscale < 1 {
		qscale = 1
	}
	if qscale > 63 {
		qscale = 63
	}
	q := 100 - (qscale*100)/63
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return q
}

// Encode writes frame as a baseline JFIF stream to w, at the quality
// QualityForQscale(qscale) implies.
func Encode(w io.Writer, frame *mdec.DecodedFrame, qscale int) error {
	img, err := toImage(frame)
	if err != nil {
		return err
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: QualityForQscale(qscale)})
}

// EncodeBytes is Encode, returning the encoded bytes directly; used by
// pipeline stages that need the byte slice rather than a writer (e.g. to
// size an AVI movi chunk before writing it).
func EncodeBytes(frame *mdec.DecodedFrame, qscale int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, frame, qscale); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toImage adapts a DecodedFrame to image.Image without copying pixel data
// where the layouts already match: FormatYCbCr frames are PSX MDEC's
// native 4:2:0 planar layout, which is exactly image.YCbCr's
// YCbCrSubsampleRatio420, so those frames wrap directly.
func toImage(f *mdec.DecodedFrame) (image.Image, error) {
	switch f.Format {
	case mdec.FormatYCbCr:
		cw := (f.Width + 1) / 2
		return &image.YCbCr{
			Y:              f.Y,
			Cb:             f.Cb,
			Cr:             f.Cr,
			YStride:        f.Width,
			CStride:        cw,
			SubsampleRatio: image.YCbCrSubsampleRatio420,
			Rect:           image.Rect(0, 0, f.Width, f.Height),
		}, nil
	case mdec.FormatRGB:
		return rgbToNRGBA(f), nil
	default:
		return nil, errors.Errorf("jfif: unknown frame format %v", f.Format)
	}
}

// rgbToNRGBA converts DecodedFrame.RGB's interleaved (B,G,R,0) rows into
// an image.NRGBA, since image/jpeg has no stdlib BGR source type.
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
