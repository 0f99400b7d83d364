/*
NAME
  driver.go

DESCRIPTION
  driver.go implements Driver, which pulls one disc.Sector at a time from a
  disc.SectorReader and hands it to a video Demuxer and, independently, an
  AudioDecoder, merging the two feeds into one per-sector call when they are
  the same underlying object (Crusader, spec.md §4.7).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package driver orchestrates sector-by-sector feeding of a disc image into
// a demuxer and audio decoder (spec.md §4.7), and supplies the frame-range
// clipping filter supplementing the distilled spec (SPEC_FULL.md
// "Frame-range clipping").
package driver

import (
	"github.com/pkg/errors"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/psxav/disc"
	"github.com/ausocean/psxav/vdp/config"
)

// FrameCompleteFunc is called by a Demuxer once it has reassembled a
// complete frame from the sectors that carry it.
type FrameCompleteFunc func(disc.DemuxedFrame) error

// Demuxer accumulates sectors until a complete frame is available, then
// invokes its configured FrameCompleteFunc.
type Demuxer interface {
	FeedSector(s disc.Sector) error
}

// AudioSampleFunc is called by an AudioDecoder once it has decoded a block
// of PCM samples, along with the sector at which that block should be
// presented.
type AudioSampleFunc func(samples []int, presentationSector int) error

// AudioDecoder decodes one sector's worth of audio data, if any, and
// delivers decoded PCM through its configured AudioSampleFunc. The exact
// XA-ADPCM decode algorithm is an out-of-scope external collaborator (spec.md
// §1; §2 lists no audio-codec component), reached only through this narrow
// interface, the same pattern disc.SectorReader/IdentifiedSector follow.
type AudioDecoder interface {
	FeedSector(s disc.Sector) error
}

// Driver pulls sectors from Reader and feeds Demux and Audio in sector
// order (spec.md §4.7, §5 "Ordering"). When Demux and Audio are the same
// underlying object (the Crusader case, where one object demuxes both
// audio and video from the same sector stream), the sector is fed to it
// only once.
type Driver struct {
	Reader disc.SectorReader
	Demux  Demuxer
	Audio  AudioDecoder
	Log    logging.Logger

	// Cancel, if non-nil, is polled at sector boundaries; when it returns
	// true the run stops and returns perr-compatible ErrTaskCanceled
	// semantics per spec.md §5 "Cancellation" (the driver itself has no
	// open writers to finalize; that is each stage's responsibility).
	Cancel func() bool
}

// Run reads every sector in [0, Reader.SectorCount()) in order, feeding
// Demux and Audio. It stops at the first error or cancellation.
func (d *Driver) Run() error {
	shared := sameObject(d.Demux, d.Audio)
	n := d.Reader.SectorCount()
	for i := 0; i < n; i++ {
		if d.Cancel != nil && d.Cancel() {
			if d.Log != nil {
				d.Log.Info("driver canceled", "sector", i)
			}
			return errCanceled
		}
		sec, err := d.Reader.GetSector(i)
		if err != nil {
			return errors.Wrapf(err, "driver: reading sector %d", i)
		}
		if d.Demux != nil {
			if err := d.Demux.FeedSector(sec); err != nil {
				return errors.Wrapf(err, "driver: demuxing sector %d", i)
			}
		}
		if d.Audio != nil && !shared {
			if err := d.Audio.FeedSector(sec); err != nil {
				return errors.Wrapf(err, "driver: decoding audio at sector %d", i)
			}
		}
	}
	return nil
}

// sameObject reports whether a and b hold the same underlying pointer, the
// test for the Crusader "demuxer and audio decoder are the same object"
// case (spec.md §4.7). Comparing through interface{} lets two differently
// typed interfaces (Demuxer, AudioDecoder) be compared for identity.
func sameObject(a Demuxer, b AudioDecoder) bool {
	if a == nil || b == nil {
		return false
	}
	return interface{}(a) == interface{}(b)
}

// FrameRangeFilter wraps next so that only frames within r are forwarded,
// implementing frame-range clipping at the demux boundary rather than
// decoding-then-discarding (SPEC_FULL.md "Supplemented features").
func FrameRangeFilter(r config.FrameRange, next FrameCompleteFunc) FrameCompleteFunc {
	if !r.Clip {
		return next
	}
	return func(f disc.DemuxedFrame) error {
		if f.FrameNumber < r.Start || f.FrameNumber > r.End {
			return nil
		}
		return next(f)
	}
}
