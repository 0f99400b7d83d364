package vdp

import (
	"testing"

	"github.com/ausocean/psxav/bitstream/strv2"
	"github.com/ausocean/psxav/mdec"
)

type recordingMdecListener struct {
	codes []mdec.Iterator
	errs  []string
}

func (r *recordingMdecListener) OnMdec(codes mdec.Iterator, frameNum, frameEndSector int) error {
	r.codes = append(r.codes, codes)
	return nil
}

func (r *recordingMdecListener) OnMdecError(msg string, frameNum, frameEndSector int) error {
	r.errs = append(r.errs, msg)
	return nil
}

// buildStrv2Frame returns a minimal STRv2 single-block frame payload:
// an 8-byte header followed by one block (header code + EOB).
func buildStrv2Frame(t *testing.T) []byte {
	t.Helper()
	codec := strv2.New()
	data, err := codec.Compress([]mdec.Code{
		mdec.HeaderCode(2, 10),
		mdec.EOBCode,
	}, 4096)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	return data
}

func TestBitstreamToMdecIdentifiesAndReuses(t *testing.T) {
	rec := &recordingMdecListener{}
	stage := &BitstreamToMdec{Next: rec}

	frame := buildStrv2Frame(t)
	if err := stage.OnBitstream(frame, len(frame), 0, 100); err != nil {
		t.Fatalf("OnBitstream frame 0: %v", err)
	}
	if stage.codec == nil {
		t.Fatal("expected codec to be identified and stuck")
	}
	first := stage.codec

	if err := stage.OnBitstream(frame, len(frame), 1, 200); err != nil {
		t.Fatalf("OnBitstream frame 1: %v", err)
	}
	if stage.codec != first {
		t.Fatal("expected sticky codec to be reused across frames")
	}
	if len(rec.codes) != 2 {
		t.Fatalf("len(rec.codes) = %d, want 2", len(rec.codes))
	}
	if len(rec.errs) != 0 {
		t.Fatalf("unexpected errors: %v", rec.errs)
	}
}

func TestBitstreamToMdecUnrecognizedFormat(t *testing.T) {
	rec := &recordingMdecListener{}
	stage := &BitstreamToMdec{Next: rec}
	garbage := []byte{0xFF, 0xFF, 0, 0, 0, 0, 0, 0}
	if err := stage.OnBitstream(garbage, len(garbage), 0, 100); err != nil {
		t.Fatalf("OnBitstream: %v", err)
	}
	if len(rec.errs) != 1 {
		t.Fatalf("len(rec.errs) = %d, want 1", len(rec.errs))
	}
}

func TestWireCodeHeaderACEOB(t *testing.T) {
	h := wireCode(mdec.HeaderCode(5, -100))
	if h>>10 != 5 {
		t.Fatalf("header qscale bits = %d, want 5", h>>10)
	}
	eob := wireCode(mdec.EOBCode)
	if eob != 0xFE00 {
		t.Fatalf("EOB wire code = %#x, want 0xFE00", eob)
	}
}

func TestNewErrorFrameIsBlackWithText(t *testing.T) {
	f := newErrorFrame(64, 32, "boom")
	if f.Width != 64 || f.Height != 32 {
		t.Fatalf("size = %dx%d, want 64x32", f.Width, f.Height)
	}
	nonBlack := 0
	for i := 0; i < len(f.RGB); i += 4 {
		if f.RGB[i] != 0 || f.RGB[i+1] != 0 || f.RGB[i+2] != 0 {
			nonBlack++
		}
	}
	if nonBlack == 0 {
		t.Fatal("expected some non-black pixels from the drawn error text")
	}
}
