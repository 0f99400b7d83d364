package imagefile

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/ausocean/psxav/mdec"
)

func TestEncodeFramePNG(t *testing.T) {
	f := &mdec.DecodedFrame{
		Width: 8, Height: 8, Format: mdec.FormatRGB,
		RGB: bytes.Repeat([]byte{1, 2, 3, 0}, 8*8),
	}
	var buf bytes.Buffer
	if err := EncodeFrame(&buf, f, FormatPNG); err != nil {
		t.Fatalf("EncodeFrame PNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode of our own output: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Fatalf("size = %v, want 8x8", img.Bounds())
	}
}

func TestEncodeFrameBMPFromYCbCr(t *testing.T) {
	f := &mdec.DecodedFrame{
		Width: 4, Height: 4, Format: mdec.FormatYCbCr,
		Y:  bytes.Repeat([]byte{200}, 4*4),
		Cb: bytes.Repeat([]byte{128}, 2*2),
		Cr: bytes.Repeat([]byte{128}, 2*2),
	}
	var buf bytes.Buffer
	if err := EncodeFrame(&buf, f, FormatBMP); err != nil {
		t.Fatalf("EncodeFrame BMP: %v", err)
	}
	if buf.Len() == 0 || buf.Bytes()[0] != 'B' || buf.Bytes()[1] != 'M' {
		t.Fatalf("missing BMP magic, got %v", buf.Bytes()[:2])
	}
}
