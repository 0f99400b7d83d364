package bitstream

import (
	"testing"

	"github.com/ausocean/psxav/mdec"
)

func TestIdentifyPicksEachFormat(t *testing.T) {
	codes := []mdec.Code{mdec.HeaderCode(1, 1), mdec.EOBCode}
	for _, c := range order() {
		payload, err := c.Compress(codes, 0)
		if err != nil {
			t.Fatalf("%s: Compress: %v", c.Name(), err)
		}
		got, err := Identify(payload)
		if err != nil {
			t.Fatalf("%s: Identify: %v", c.Name(), err)
		}
		if got.Name() != c.Name() {
			t.Fatalf("Identify(%s output) = %s", c.Name(), got.Name())
		}
	}
}

func TestIdentifyUnrecognized(t *testing.T) {
	if _, err := Identify([]byte{0, 0, 0, 0, 0, 0, 0, 0}); err == nil {
		t.Fatal("expected unrecognized format error")
	}
}
