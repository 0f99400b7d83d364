package strv3

import (
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"

	"github.com/ausocean/psxav/bits"
	"github.com/ausocean/psxav/bitstream/vlc"
	"github.com/ausocean/psxav/mdec"
	"github.com/ausocean/psxav/perr"
)

func TestRoundTripPerPlanePredictors(t *testing.T) {
	// Two macroblocks, exercising the luma predictor across 8 blocks and
	// the Cb/Cr predictors across 2 each. DC values are multiples of 4 so
	// the lossy quarter-scale rounding is a no-op and the round trip is
	// exact.
	codes := []mdec.Code{
		mdec.HeaderCode(1, 12), mdec.EOBCode, // y0
		mdec.HeaderCode(1, 12), mdec.EOBCode, // y1
		mdec.HeaderCode(1, 8), mdec.EOBCode, // y2
		mdec.HeaderCode(1, 20), mdec.EOBCode, // y3
		mdec.HeaderCode(1, -4), mdec.EOBCode, // cb
		mdec.HeaderCode(1, 4), mdec.EOBCode, // cr

		mdec.HeaderCode(2, 12), mdec.ACCode(0, 1), mdec.EOBCode, // y0
		mdec.HeaderCode(2, 12), mdec.EOBCode, // y1
		mdec.HeaderCode(2, 12), mdec.EOBCode, // y2
		mdec.HeaderCode(2, 12), mdec.EOBCode, // y3
		mdec.HeaderCode(2, -4), mdec.EOBCode, // cb
		mdec.HeaderCode(2, 4), mdec.EOBCode, // cr
	}
	c := New()
	payload, err := c.Compress(codes, 0)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !c.CheckHeader(payload) {
		t.Fatal("CheckHeader rejected own output")
	}
	it, err := c.Uncompress(payload)
	if err != nil {
		t.Fatalf("Uncompress: %v", err)
	}
	for i, want := range codes {
		got, err := it.Next()
		if err != nil {
			t.Fatalf("Next() at %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("code %d = %+v, want %+v", i, got, want)
		}
	}
	if d, ok := it.(*decoder); ok && !d.TrailerOK() {
		t.Fatal("trailer mismatch on self-produced payload")
	}
}

func TestEncodeIsLossyInDC(t *testing.T) {
	// DC values not on a multiple of 4 are rounded before differencing
	// (spec.md §4.2 item 2); the decoded DC is the rounded value, not the
	// original.
	codes := []mdec.Code{
		mdec.HeaderCode(1, 9), mdec.EOBCode, // rounds to 8
		mdec.HeaderCode(1, 9), mdec.EOBCode,
		mdec.HeaderCode(1, 9), mdec.EOBCode,
		mdec.HeaderCode(1, 9), mdec.EOBCode,
		mdec.HeaderCode(1, 9), mdec.EOBCode, // cb
		mdec.HeaderCode(1, 9), mdec.EOBCode, // cr
	}
	c := New()
	payload, err := c.Compress(codes, 0)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	it, err := c.Uncompress(payload)
	if err != nil {
		t.Fatalf("Uncompress: %v", err)
	}
	for i := 0; i < len(codes); i += 2 {
		got, err := it.Next()
		if err != nil {
			t.Fatalf("Next() at %d: %v", i, err)
		}
		if got.DC != 8 {
			t.Fatalf("block %d DC = %d, want 8 (rounded from 9)", i/2, got.DC)
		}
		if _, err := it.Next(); err != nil { // EOB
			t.Fatalf("Next() EOB at %d: %v", i, err)
		}
	}
}

func TestNextReportsCorruptionOnOutOfRangePredictor(t *testing.T) {
	// The luma DC table's longest code encodes a quarter-scale diff of up
	// to +255 (spec.md §4.2); against a zero predictor that's a restored
	// differential of 255*4=1020, which overflows the [-512,511] range the
	// predictor is clamped to. spec.md §3 Invariants requires this surface
	// as a corruption error, not a silently clamped DC.
	w := bits.NewBitWriter(true)
	if err := w.Write(1, 6); err != nil { // qscale
		t.Fatalf("Write qscale: %v", err)
	}
	if err := vlc.LumaDC.Encode(w, 255); err != nil {
		t.Fatalf("Encode DC diff: %v", err)
	}
	body := w.Flush()

	payload := make([]byte, hdrLen+len(body))
	binary.LittleEndian.PutUint16(payload[0:2], magic)
	binary.LittleEndian.PutUint16(payload[2:4], version)
	copy(payload[hdrLen:], body)

	c := New()
	it, err := c.Uncompress(payload)
	if err != nil {
		t.Fatalf("Uncompress: %v", err)
	}
	if _, err := it.Next(); !errors.Is(err, perr.ErrReadCorruption) {
		t.Fatalf("Next() err = %v, want perr.ErrReadCorruption", err)
	}
}

func TestMinimumFrameAllZeroDC(t *testing.T) {
	var codes []mdec.Code
	for i := 0; i < 6; i++ {
		codes = append(codes, mdec.HeaderCode(1, 0), mdec.EOBCode)
	}
	c := New()
	payload, err := c.Compress(codes, 0)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	it, err := c.Uncompress(payload)
	if err != nil {
		t.Fatalf("Uncompress: %v", err)
	}
	for i, want := range codes {
		got, err := it.Next()
		if err != nil {
			t.Fatalf("Next() at %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("code %d = %+v, want %+v", i, got, want)
		}
	}
}
