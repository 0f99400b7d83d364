package mdec

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/ausocean/psxav/perr"
)

func TestDecodeMinimumFrame(t *testing.T) {
	// A single 16x16 macroblock (mbWidth=mbHeight=1): 6 blocks, each just a
	// header (qscale=1, dc=0) followed immediately by EOB, per spec.md §8
	// scenario 1. Every decoded pixel should be gray (Y=128 exactly, since
	// all AC and DC coefficients are zero, the IDCT of an all-zero block is
	// all-zero, and luma add-128 yields 128 for each plane).
	var codes []Code
	for i := 0; i < 6; i++ {
		codes = append(codes, HeaderCode(1, 0), EOBCode)
	}

	d := NewDecoder(QualityLow, Rec601, NearestNeighbor)
	var frame DecodedFrame
	if err := d.Decode(NewSliceIterator(codes), 16, 16, FormatYCbCr, &frame); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	for i, v := range frame.Y {
		if v != 128 {
			t.Fatalf("Y[%d] = %d, want 128", i, v)
		}
	}
	for i, v := range frame.Cb {
		if v != 128 {
			t.Fatalf("Cb[%d] = %d, want 128", i, v)
		}
	}
	for i, v := range frame.Cr {
		if v != 128 {
			t.Fatalf("Cr[%d] = %d, want 128", i, v)
		}
	}
}

func TestDecodeBlockGeometry(t *testing.T) {
	mbW, mbH := 3, 2
	var codes []Code
	for i := 0; i < mbW*mbH*6; i++ {
		codes = append(codes, HeaderCode(1, 0), EOBCode)
	}

	width, height := mbW*16, mbH*16
	d := NewDecoder(QualityLow, Rec601, NearestNeighbor)
	var frame DecodedFrame
	if err := d.Decode(NewSliceIterator(codes), width, height, FormatYCbCr, &frame); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if frame.MBWidth() != mbW || frame.MBHeight() != mbH {
		t.Fatalf("MBWidth/MBHeight = %d/%d, want %d/%d", frame.MBWidth(), frame.MBHeight(), mbW, mbH)
	}
}

func TestDecodeReadCorruptionOnOverlongRun(t *testing.T) {
	codes := []Code{
		HeaderCode(1, 0),
		ACCode(70, 5), // run+1 = 71 >= 64: corrupt.
	}
	d := NewDecoder(QualityLow, Rec601, NearestNeighbor)
	var frame DecodedFrame
	err := d.Decode(NewSliceIterator(codes), 16, 16, FormatYCbCr, &frame)
	if err == nil {
		t.Fatal("Decode: want error for overlong run, got nil")
	}
}

func TestDecodeEndOfStreamOnExhaustedSliceIterator(t *testing.T) {
	// A SliceIterator that runs out mid-block (no EOB) must surface as
	// perr.ErrEndOfStream with the block's coordinates attached, the same
	// as any other Iterator running out of bits (spec.md §4.3 "Failures").
	codes := []Code{
		HeaderCode(1, 0),
		ACCode(2, 3), // no EOB follows: SliceIterator exhausts here.
	}
	d := NewDecoder(QualityLow, Rec601, NearestNeighbor)
	var frame DecodedFrame
	err := d.Decode(NewSliceIterator(codes), 16, 16, FormatYCbCr, &frame)
	if !errors.Is(err, perr.ErrEndOfStream) {
		t.Fatalf("Decode: err = %v, want perr.ErrEndOfStream", err)
	}
	var ce *perr.CodecError
	if !errors.As(err, &ce) {
		t.Fatalf("Decode: err = %v, want *perr.CodecError", err)
	}
	if ce.Coord.MbX != 0 || ce.Coord.MbY != 0 || ce.Coord.Block != 0 {
		t.Fatalf("Decode: coord = %+v, want mb(0,0) block 0", ce.Coord)
	}
}

func TestEncodeDecodeRoundTripDCOnly(t *testing.T) {
	// A solid mid-gray 16x16 image should round-trip through encode then
	// decode with the DC-only path exercised (no meaningful AC energy).
	var img DecodedFrame
	img.ensureCapacity(16, 16, FormatYCbCr)
	for i := range img.Y {
		img.Y[i] = 128
	}
	for i := range img.Cb {
		img.Cb[i] = 128
	}
	for i := range img.Cr {
		img.Cr[i] = 128
	}

	enc := NewEncoder()
	codes := enc.EncodeFrame(&img, 1)

	dec := NewDecoder(QualityHigh, Rec601, NearestNeighbor)
	var out DecodedFrame
	if err := dec.Decode(NewSliceIterator(codes), 16, 16, FormatYCbCr, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, v := range out.Y {
		if diff := int(v) - int(img.Y[i]); diff < -4 || diff > 4 {
			t.Fatalf("Y[%d] = %d, want close to %d", i, v, img.Y[i])
		}
	}
}
