/*
NAME
  bitstream_stages.go

DESCRIPTION
  bitstream_stages.go implements the Bitstream→File and Bitstream→Mdec
  stages (spec.md §4.5).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vdp

import (
	"os"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/psxav/bitstream"
	"github.com/ausocean/psxav/disc"
	"github.com/ausocean/psxav/mdec"
)

// BitstreamToFile writes each frame's raw compressed payload to its own
// file, named via a FrameFileFormatter.
type BitstreamToFile struct {
	Format disc.FrameFileFormatter
	Log    logging.Logger
}

// OnBitstream implements BitstreamListener.
func (s *BitstreamToFile) OnBitstream(payload []byte, size, frameNum, frameEndSector int) error {
	path := s.Format(frameNum)
	if err := os.WriteFile(path, payload[:size], 0644); err != nil {
		return err
	}
	if s.Log != nil {
		s.Log.Debug("wrote bitstream frame", "path", path, "frameNum", frameNum, "size", size)
	}
	return nil
}

// BitstreamToMdec owns a sticky uncompressor: the codec is identified once
// on the first frame and reused for every later frame, since all frames in
// a stream share one format. If a reused codec's Uncompress call fails
// (a reset failure, e.g. a corrupted header mid-stream), the codec is
// forgotten and re-identified from the failing payload (Design Notes §9
// "Codec dispatch").
type BitstreamToMdec struct {
	Next MdecListener
	Log  logging.Logger

	codec bitstream.Codec // nil until the first successful identification.
}

// OnBitstream implements BitstreamListener.
func (s *BitstreamToMdec) OnBitstream(payload []byte, size, frameNum, frameEndSector int) error {
	codes, err := s.uncompress(payload[:size])
	if err != nil {
		if s.Log != nil {
			s.Log.Warning("mdec decode failed", "frameNum", frameNum, "error", err.Error())
		}
		return s.Next.OnMdecError(err.Error(), frameNum, frameEndSector)
	}
	return s.Next.OnMdec(codes, frameNum, frameEndSector)
}

// uncompress tries the sticky codec first; on failure it forgets the
// sticky choice and re-identifies from scratch.
func (s *BitstreamToMdec) uncompress(payload []byte) (mdec.Iterator, error) {
	if s.codec != nil {
		codes, err := s.codec.Uncompress(payload)
		if err == nil {
			return codes, nil
		}
		s.codec = nil
	}
	codec, err := bitstream.Identify(payload)
	if err != nil {
		return nil, err
	}
	codes, err := codec.Uncompress(payload)
	if err != nil {
		return nil, err
	}
	s.codec = codec
	return codes, nil
}
