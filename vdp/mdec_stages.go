/*
NAME
  mdec_stages.go

DESCRIPTION
  mdec_stages.go implements the Mdec→File, Mdec→JPEG, and Mdec→MJPEG-AVI
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
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/psxav/container/avi"
	"github.com/ausocean/psxav/container/jfif"
	"github.com/ausocean/psxav/disc"
	"github.com/ausocean/psxav/mdec"
)

// wireCode is the native MDEC 16-bit code packing: a header code packs a
// 6-bit qscale and a 10-bit two's-complement DC into one uint16 exactly as
// the PSX MDEC hardware does; an AC code packs a 6-bit run and a 10-bit
// signed level the same way; end-of-block is the literal sentinel 0xFE00.
func wireCode(c mdec.Code) uint16 {
	if c.EOB {
		return 0xFE00
	}
	if c.Header {
		return uint16(c.QScale&0x3F)<<10 | uint16(c.DC&0x3FF)
	}
	return uint16(c.Run&0x3F)<<10 | uint16(c.Level&0x3FF)
}

// MdecToFile writes a frame's MDEC code stream verbatim: 6 blocks per
// macroblock, mbCount macroblocks, each code as its native 16-bit packing.
// If the stream runs out early, the file is simply truncated there rather
// than padded or treated as an error (spec.md §4.5).
type MdecToFile struct {
	Format        disc.FrameFileFormatter
	Width, Height int
	Log           logging.Logger
}

// OnMdec implements MdecListener.
func (s *MdecToFile) OnMdec(codes mdec.Iterator, frameNum, frameEndSector int) error {
	f, err := os.Create(s.Format(frameNum))
	if err != nil {
		return err
	}
	defer f.Close()

	mbW, mbH := (s.Width+15)/16, (s.Height+15)/16
	blocks := mbW * mbH * 6
	for b := 0; b < blocks; b++ {
		for {
			c, err := codes.Next()
			if errors.Is(err, io.EOF) {
				if s.Log != nil {
					s.Log.Warning("mdec code stream truncated", "frameNum", frameNum, "block", b)
				}
				return nil
			}
			if err != nil {
				return err
			}
			if err := binary.Write(f, binary.LittleEndian, wireCode(c)); err != nil {
				return err
			}
			if c.EOB {
				break
			}
		}
	}
	return nil
}

// OnMdecError implements MdecListener: the frame is simply skipped.
func (s *MdecToFile) OnMdecError(msg string, frameNum, frameEndSector int) error {
	if s.Log != nil {
		s.Log.Warning("skipping frame, mdec error", "frameNum", frameNum, "error", msg)
	}
	return nil
}

// MdecToJFIF decodes a frame's MDEC codes and writes it as a standalone
// JFIF file. On a decode error the frame is skipped and a warning logged
// (spec.md §4.5 Mdec→JPEG).
type MdecToJFIF struct {
	Format        disc.FrameFileFormatter
	Width, Height int
	Decoder       *mdec.Decoder
	Qscale        int
	Log           logging.Logger

	scratch mdec.DecodedFrame
}

// OnMdec implements MdecListener.
func (s *MdecToJFIF) OnMdec(codes mdec.Iterator, frameNum, frameEndSector int) error {
	if err := s.Decoder.Decode(codes, s.Width, s.Height, mdec.FormatYCbCr, &s.scratch); err != nil {
		if s.Log != nil {
			s.Log.Warning("skipping frame, mdec decode error", "frameNum", frameNum, "error", err.Error())
		}
		return nil
	}
	f, err := os.Create(s.Format(frameNum))
	if err != nil {
		return err
	}
	defer f.Close()
	return jfif.Encode(f, &s.scratch, s.Qscale)
}

// OnMdecError implements MdecListener.
func (s *MdecToJFIF) OnMdecError(msg string, frameNum, frameEndSector int) error {
	if s.Log != nil {
		s.Log.Warning("skipping frame, mdec error", "frameNum", frameNum, "error", msg)
	}
	return nil
}

// MdecToDecoded decodes each frame's MDEC codes and forwards the decoded
// pixel raster to a DecodedListener, bridging the Mdec stage family into
// the Decoded stage family (DecodedToImageFile, DecodedToAVI) (spec.md
// §4.5).
type MdecToDecoded struct {
	Next          DecodedListener
	Width, Height int
	Format        mdec.Format
	Decoder       *mdec.Decoder
	Log           logging.Logger

	scratch mdec.DecodedFrame
}

// OnMdec implements MdecListener.
func (s *MdecToDecoded) OnMdec(codes mdec.Iterator, frameNum, frameEndSector int) error {
	if err := s.Decoder.Decode(codes, s.Width, s.Height, s.Format, &s.scratch); err != nil {
		return s.OnMdecError(err.Error(), frameNum, frameEndSector)
	}
	return s.Next.OnDecoded(&s.scratch, frameNum, frameEndSector)
}

// OnMdecError implements MdecListener.
func (s *MdecToDecoded) OnMdecError(msg string, frameNum, frameEndSector int) error {
	if s.Log != nil {
		s.Log.Warning("forwarding decode error", "frameNum", frameNum, "error", msg)
	}
	return s.Next.OnDecodedError(msg, frameNum, frameEndSector)
}

// MdecToMjpegAVI decodes each frame's MDEC codes, JFIF-encodes it, and
// writes it as one MJPG frame of an AVI stream. On error, a synthetic
// black error frame is substituted so AVI frame indices stay aligned with
// the nominal frame sequence (spec.md §4.5 "Error substitution").
type MdecToMjpegAVI struct {
	AVI           *avi.Writer
	Width, Height int
	Decoder       *mdec.Decoder
	Qscale        int
	Log           logging.Logger

	scratch mdec.DecodedFrame
}

// OnMdec implements MdecListener.
func (s *MdecToMjpegAVI) OnMdec(codes mdec.Iterator, frameNum, frameEndSector int) error {
	if err := s.Decoder.Decode(codes, s.Width, s.Height, mdec.FormatYCbCr, &s.scratch); err != nil {
		return s.OnMdecError(err.Error(), frameNum, frameEndSector)
	}
	data, err := jfif.EncodeBytes(&s.scratch, s.Qscale)
	if err != nil {
		return err
	}
	return s.AVI.AddVideoFrame(data)
}

// OnMdecError implements MdecListener: writes a synthetic JFIF error frame
// instead of skipping, to keep the AVI frame index aligned.
func (s *MdecToMjpegAVI) OnMdecError(msg string, frameNum, frameEndSector int) error {
	if s.Log != nil {
		s.Log.Warning("substituting error frame", "frameNum", frameNum, "error", msg)
	}
	errFrame := newErrorFrame(s.Width, s.Height, msg)
	data, err := jfif.EncodeBytes(errFrame, s.Qscale)
	if err != nil {
		return err
	}
	return s.AVI.AddVideoFrame(data)
}
