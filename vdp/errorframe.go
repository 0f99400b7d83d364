/*
NAME
  errorframe.go

DESCRIPTION
  errorframe.go builds the synthetic black error frame AVI stages
  substitute when a frame cannot be produced, with the error string drawn
  in white at (5,20) (spec.md §4.5 "Error substitution").

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vdp

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ausocean/psxav/mdec"
)

// newErrorFrame builds a black width x height FormatRGB frame with msg
// drawn in white starting at (5, 20).
func newErrorFrame(width, height int, msg string) *mdec.DecodedFrame {
	f := &mdec.DecodedFrame{Width: width, Height: height, Format: mdec.FormatRGB}
	f.RGB = make([]byte, width*height*4)
	for i := 3; i < len(f.RGB); i += 4 {
		f.RGB[i] = 0 // alpha byte unused by downstream writers, kept 0.
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(5, 20),
	}
	d.DrawString(msg)

	for i := 0; i < width*height; i++ {
		o := i * 4
		f.RGB[o+0] = img.Pix[o+2] // B
		f.RGB[o+1] = img.Pix[o+1] // G
		f.RGB[o+2] = img.Pix[o+0] // R
		f.RGB[o+3] = 0
	}
	return f
}
