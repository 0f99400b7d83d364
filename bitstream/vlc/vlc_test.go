package vlc

import (
	"testing"

	"github.com/ausocean/psxav/bits"
)

func TestLumaDCRoundTrip(t *testing.T) {
	for _, v := range []int{-1, 1, -3, -2, 2, 3, 0, -7, -4, 4, 7, -15, -8, 8, 15, -255, -128, 128, 255} {
		w := bits.NewBitWriter(false)
		if err := LumaDC.Encode(w, v); err != nil {
			t.Fatalf("Encode(%d): %v", v, err)
		}
		r := bits.NewBitReader(w.Flush(), false)
		got, err := LumaDC.Decode(r)
		if err != nil {
			t.Fatalf("Decode after Encode(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d -> %d", v, got)
		}
	}
}

func TestChromaDCRoundTrip(t *testing.T) {
	for _, v := range []int{0, -1, 1, -3, 3, -7, 7, -255, 255} {
		w := bits.NewBitWriter(false)
		if err := ChromaDC.Encode(w, v); err != nil {
			t.Fatalf("Encode(%d): %v", v, err)
		}
		r := bits.NewBitReader(w.Flush(), false)
		got, err := ChromaDC.Decode(r)
		if err != nil {
			t.Fatalf("Decode after Encode(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d -> %d", v, got)
		}
	}
}

func TestACRoundTrip(t *testing.T) {
	cases := []struct {
		eob        bool
		run, level int
	}{
		{run: 0, level: 1},
		{run: 0, level: -1},
		{run: 5, level: 3},
		{run: 20, level: -100}, // forces escape
		{eob: true},
	}
	for _, c := range cases {
		w := bits.NewBitWriter(false)
		if err := EncodeAC(w, c.eob, c.run, c.level); err != nil {
			t.Fatalf("EncodeAC(%+v): %v", c, err)
		}
		r := bits.NewBitReader(w.Flush(), false)
		got, err := DecodeAC(r)
		if err != nil {
			t.Fatalf("DecodeAC after Encode(%+v): %v", c, err)
		}
		if got.EOB != c.eob || (!c.eob && (got.Run != c.run || got.Level != c.level)) {
			t.Fatalf("round trip %+v -> %+v", c, got)
		}
	}
}
