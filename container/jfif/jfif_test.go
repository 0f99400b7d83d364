package jfif

import (
	"bytes"
	"image/jpeg"
	"testing"

	"github.com/ausocean/psxav/mdec"
)

func TestQualityForQscaleMonotonic(t *testing.T) {
	prev := QualityForQscale(1)
	for q := 2; q <= 63; q++ {
		cur := QualityForQscale(q)
		if cur > prev {
			t.Fatalf("QualityForQscale(%d) = %d > QualityForQscale(%d) = %d, want non-increasing", q, cur, q-1, prev)
		}
		if cur < 1 || cur > 100 {
			t.Fatalf("QualityForQscale(%d) = %d out of [1,100]", q, cur)
		}
		prev = cur
	}
}

func TestEncodeYCbCrRoundTripsAsJPEG(t *testing.T) {
	f := &mdec.DecodedFrame{
		Width: 16, Height: 16, Format: mdec.FormatYCbCr,
		Y:  bytes.Repeat([]byte{128}, 16*16),
		Cb: bytes.Repeat([]byte{128}, 8*8),
		Cr: bytes.Repeat([]byte{128}, 8*8),
	}
	var buf bytes.Buffer
	if err := Encode(&buf, f, 16); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := jpeg.Decode(&buf)
	if err != nil {
		t.Fatalf("jpeg.Decode of our own output: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Fatalf("decoded size = %v, want 16x16", img.Bounds())
	}
}

func TestEncodeRGB(t *testing.T) {
	f := &mdec.DecodedFrame{
		Width: 4, Height: 4, Format: mdec.FormatRGB,
		RGB: bytes.Repeat([]byte{10, 20, 30, 0}, 4*4),
	}
	data, err := EncodeBytes(f, 40)
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty JPEG output")
	}
}
