package avi

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// memFile is a minimal io.WriteSeeker over an in-memory byte slice, used
// so tests don't need a real file for the AVI writer's seek-and-patch
// header fields.
type memFile struct {
	buf []byte
	pos int64
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.pos:end], p)
	m.pos = end
	return n, nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = m.pos + offset
	default:
		return 0, errors.New("unsupported whence")
	}
	if abs < 0 {
		return 0, errors.New("negative position")
	}
	m.pos = abs
	return abs, nil
}

func TestWriteReadBackHeader(t *testing.T) {
	f := &memFile{}
	w, err := NewWriter(f, 16, 16, 15, 1, CodecRGB, 0, 0, 0)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	frame := bytes.Repeat([]byte{0x80}, 16*16*3)
	for i := 0; i < 3; i++ {
		if err := w.AddVideoFrame(frame); err != nil {
			t.Fatalf("AddVideoFrame: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if string(f.buf[0:4]) != "RIFF" {
		t.Fatalf("missing RIFF magic, got %q", f.buf[0:4])
	}
	if string(f.buf[8:12]) != "AVI " {
		t.Fatalf("missing AVI magic, got %q", f.buf[8:12])
	}
	riffSize := order.Uint32(f.buf[4:8])
	if int(riffSize)+8 != len(f.buf) {
		t.Fatalf("RIFF size = %d, file is %d bytes", riffSize, len(f.buf))
	}
	if !bytes.Contains(f.buf, []byte("idx1")) {
		t.Fatal("missing idx1 chunk")
	}
	if w.videoFrames != 3 {
		t.Fatalf("videoFrames = %d, want 3", w.videoFrames)
	}
}

func TestWithAudioStream(t *testing.T) {
	f := &memFile{}
	w, err := NewWriter(f, 8, 8, 15, 1, CodecYV12, 44100, 2, 16)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.AddVideoFrame(bytes.Repeat([]byte{0}, 8*8+8*4*2)); err != nil {
		t.Fatalf("AddVideoFrame: %v", err)
	}
	if err := w.AddAudioSamples(make([]byte, 4410*4)); err != nil {
		t.Fatalf("AddAudioSamples: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !bytes.Contains(f.buf, []byte("auds")) {
		t.Fatal("missing audio stream header")
	}
	if !bytes.Contains(f.buf, []byte("01wb")) {
		t.Fatal("missing audio data chunk")
	}
}
