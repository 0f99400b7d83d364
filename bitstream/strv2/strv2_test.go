package strv2

import (
	"testing"

	"github.com/ausocean/psxav/mdec"
)

func TestRoundTrip(t *testing.T) {
	codes := []mdec.Code{
		mdec.HeaderCode(1, 5),
		mdec.ACCode(0, 3),
		mdec.ACCode(2, -1),
		mdec.EOBCode,
		mdec.HeaderCode(1, -5),
		mdec.EOBCode,
	}
	c := New()
	payload, err := c.Compress(codes, 0)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !c.CheckHeader(payload) {
		t.Fatalf("CheckHeader rejected own output")
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

func TestCheckHeaderRejectsShortOrWrongMagic(t *testing.T) {
	c := New()
	if c.CheckHeader([]byte{1, 2, 3}) {
		t.Fatal("accepted too-short payload")
	}
	if c.CheckHeader(make([]byte, 8)) {
		t.Fatal("accepted zero header")
	}
}

func TestCompressRespectsBudget(t *testing.T) {
	codes := []mdec.Code{mdec.HeaderCode(1, 100), mdec.EOBCode}
	c := New()
	if _, err := c.Compress(codes, 1); err == nil {
		t.Fatal("expected budget failure")
	}
}
