package wav

import (
	"errors"
	"io"
	"testing"
)

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
	case io.SeekEnd:
		abs = int64(len(m.buf)) + offset
	default:
		return 0, errors.New("unsupported whence")
	}
	m.pos = abs
	return abs, nil
}

func TestWriteSamplesAndSilence(t *testing.T) {
	f := &memFile{}
	w, err := NewWriter(f, 44100, 16, 2, 1.0)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.WriteSamples([]int{100, -100, 200, -200}); err != nil {
		t.Fatalf("WriteSamples: %v", err)
	}
	if err := w.WriteSilence(10); err != nil {
		t.Fatalf("WriteSilence: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if string(f.buf[0:4]) != "RIFF" {
		t.Fatalf("missing RIFF magic, got %q", f.buf[0:4])
	}
	if string(f.buf[8:12]) != "WAVE" {
		t.Fatalf("missing WAVE magic, got %q", f.buf[8:12])
	}
}

func TestVolumeOutOfRangeRejected(t *testing.T) {
	f := &memFile{}
	if _, err := NewWriter(f, 44100, 16, 2, 1.5); err == nil {
		t.Fatal("expected error for volume > 1")
	}
}

func TestVolumeScalesSamples(t *testing.T) {
	f := &memFile{}
	w, err := NewWriter(f, 44100, 16, 1, 0.5)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.WriteSamples([]int{1000}); err != nil {
		t.Fatalf("WriteSamples: %v", err)
	}
	if w.buf.Data[0] != 500 {
		t.Fatalf("scaled sample = %d, want 500", w.buf.Data[0])
	}
	_ = w.Close()
}
