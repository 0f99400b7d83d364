/*
NAME
  driver_test.go

DESCRIPTION
  driver_test.go tests Driver's sector feeding order, the Crusader
  shared-object single-feed behavior, StrDemuxer frame reassembly, and
  FrameRangeFilter clipping.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package driver

import (
	"encoding/binary"
	"testing"

	"github.com/ausocean/psxav/disc"
	"github.com/ausocean/psxav/vdp/config"
)

// fakeReader is a minimal in-memory disc.SectorReader.
type fakeReader struct {
	sectors []disc.Sector
}

func (r *fakeReader) GetSector(i int) (disc.Sector, error) { return r.sectors[i], nil }
func (r *fakeReader) SectorCount() int                     { return len(r.sectors) }
func (r *fakeReader) WriteSector(i int, data []byte) error { return nil }

// countingFeeder records every sector number it's fed.
type countingFeeder struct{ seen []int }

func (f *countingFeeder) FeedSector(s disc.Sector) error {
	f.seen = append(f.seen, s.Number)
	return nil
}

func strSector(num, chunk, chunkCount, frameNum, demuxSize, width, height int, payload []byte) disc.Sector {
	hdr := make([]byte, strSubHeaderSize)
	binary.LittleEndian.PutUint16(hdr[0:2], uint16(chunk))
	binary.LittleEndian.PutUint16(hdr[2:4], uint16(chunkCount))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(frameNum))
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(demuxSize))
	binary.LittleEndian.PutUint16(hdr[12:14], uint16(width))
	binary.LittleEndian.PutUint16(hdr[14:16], uint16(height))
	return disc.Sector{
		Number:  num,
		Type:    disc.SectorSTRVideo,
		Payload: append(hdr, payload...),
	}
}

func TestDriverOrdersSectors(t *testing.T) {
	reader := &fakeReader{sectors: []disc.Sector{
		{Number: 0, Type: disc.SectorSTRVideo, Payload: make([]byte, strSubHeaderSize)},
		{Number: 1, Type: disc.SectorSTRVideo, Payload: make([]byte, strSubHeaderSize)},
		{Number: 2, Type: disc.SectorSTRVideo, Payload: make([]byte, strSubHeaderSize)},
	}}
	demux := &countingFeeder{}
	d := &Driver{Reader: reader, Demux: demux}
	if err := d.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []int{0, 1, 2}
	if len(demux.seen) != len(want) {
		t.Fatalf("got %v sectors, want %v", demux.seen, want)
	}
	for i, n := range want {
		if demux.seen[i] != n {
			t.Errorf("sector %d: got %d, want %d", i, demux.seen[i], n)
		}
	}
}

// sharedFeeder implements both Demuxer and AudioDecoder, recording one feed
// per sector so the test can check it wasn't double-fed.
type sharedFeeder struct{ feeds int }

func (f *sharedFeeder) FeedSector(s disc.Sector) error { f.feeds++; return nil }

func TestDriverCrusaderSharedObjectFedOnce(t *testing.T) {
	reader := &fakeReader{sectors: []disc.Sector{
		{Number: 0, Type: disc.SectorCrusader},
		{Number: 1, Type: disc.SectorCrusader},
	}}
	shared := &sharedFeeder{}
	d := &Driver{Reader: reader, Demux: shared, Audio: shared}
	if err := d.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if shared.feeds != 2 {
		t.Errorf("got %d feeds, want 2 (one per sector, not doubled)", shared.feeds)
	}
}

func TestDriverSeparateObjectsBothFed(t *testing.T) {
	reader := &fakeReader{sectors: []disc.Sector{{Number: 0, Type: disc.SectorSTRVideo, Payload: make([]byte, strSubHeaderSize)}}}
	demux := &countingFeeder{}
	audio := &countingFeeder{}
	d := &Driver{Reader: reader, Demux: demux, Audio: audio}
	if err := d.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(demux.seen) != 1 || len(audio.seen) != 1 {
		t.Errorf("got demux=%v audio=%v, want one feed each", demux.seen, audio.seen)
	}
}

func TestDriverCancel(t *testing.T) {
	reader := &fakeReader{sectors: []disc.Sector{
		{Number: 0, Type: disc.SectorSTRVideo, Payload: make([]byte, strSubHeaderSize)},
		{Number: 1, Type: disc.SectorSTRVideo, Payload: make([]byte, strSubHeaderSize)},
	}}
	demux := &countingFeeder{}
	d := &Driver{Reader: reader, Demux: demux, Cancel: func() bool { return true }}
	if err := d.Run(); err != errCanceled {
		t.Fatalf("Run: got %v, want errCanceled", err)
	}
	if len(demux.seen) != 0 {
		t.Errorf("expected no sectors fed once canceled, got %v", demux.seen)
	}
}

func TestStrDemuxerReassemblesFrame(t *testing.T) {
	var got []disc.DemuxedFrame
	d := NewStrDemuxer(func(f disc.DemuxedFrame) error {
		got = append(got, f)
		return nil
	}, nil)

	payloadA := []byte{1, 2, 3, 4}
	payloadB := []byte{5, 6, 7, 8}
	if err := d.FeedSector(strSector(100, 0, 2, 7, len(payloadA)+len(payloadB), 16, 16, payloadA)); err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("frame completed early: %v", got)
	}
	if err := d.FeedSector(strSector(101, 1, 2, 7, len(payloadA)+len(payloadB), 16, 16, payloadB)); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d frames, want 1", len(got))
	}
	f := got[0]
	if f.FrameNumber != 7 || f.Width != 16 || f.Height != 16 {
		t.Errorf("frame metadata wrong: %+v", f)
	}
	if f.StartSector != 100 || f.EndSector != 101 {
		t.Errorf("sector range wrong: start=%d end=%d", f.StartSector, f.EndSector)
	}
	want := append(append([]byte{}, payloadA...), payloadB...)
	if string(f.Payload) != string(want) {
		t.Errorf("payload = %v, want %v", f.Payload, want)
	}
}

func TestStrDemuxerIgnoresNonVideoSectors(t *testing.T) {
	calls := 0
	d := NewStrDemuxer(func(f disc.DemuxedFrame) error { calls++; return nil }, nil)
	if err := d.FeedSector(disc.Sector{Type: disc.SectorXAAudio, Payload: make([]byte, 32)}); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Errorf("expected audio sector to be ignored, got %d frame calls", calls)
	}
}

func TestFrameRangeFilter(t *testing.T) {
	var got []int
	next := func(f disc.DemuxedFrame) error { got = append(got, f.FrameNumber); return nil }
	filtered := FrameRangeFilter(config.FrameRange{Clip: true, Start: 2, End: 4}, next)
	for n := 0; n < 7; n++ {
		if err := filtered(disc.DemuxedFrame{FrameNumber: n}); err != nil {
			t.Fatal(err)
		}
	}
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestFrameRangeFilterNoClipPassesThrough(t *testing.T) {
	var got []int
	next := func(f disc.DemuxedFrame) error { got = append(got, f.FrameNumber); return nil }
	filtered := FrameRangeFilter(config.FrameRange{Clip: false}, next)
	for n := 0; n < 3; n++ {
		if err := filtered(disc.DemuxedFrame{FrameNumber: n}); err != nil {
			t.Fatal(err)
		}
	}
	if len(got) != 3 {
		t.Errorf("got %v, want all 3 frames passed through", got)
	}
}
