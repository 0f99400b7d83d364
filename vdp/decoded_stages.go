/*
NAME
  decoded_stages.go

DESCRIPTION
  decoded_stages.go implements the Decoded→image-file and Decoded→AVI
  (raw RGB / YV12 / JFIF-YV12) stages (spec.md §4.5), with avsync-driven
  duplicate-frame insertion for the AVI stages.

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

	"github.com/ausocean/psxav/avsync"
	"github.com/ausocean/psxav/container/avi"
	"github.com/ausocean/psxav/container/imagefile"
	"github.com/ausocean/psxav/container/jfif"
	"github.com/ausocean/psxav/disc"
	"github.com/ausocean/psxav/mdec"
)

// DecodedToImageFile writes one still image per frame: PNG, BMP, or JFIF.
type DecodedToImageFile struct {
	Format     disc.FrameFileFormatter
	ImgFormat  imagefile.Format // ignored when UseJFIF is set
	UseJFIF    bool
	JFIFQscale int
	Log        logging.Logger
}

// OnDecoded implements DecodedListener.
func (s *DecodedToImageFile) OnDecoded(frame *mdec.DecodedFrame, frameNum, frameEndSector int) error {
	f, err := os.Create(s.Format(frameNum))
	if err != nil {
		return err
	}
	defer f.Close()
	if s.UseJFIF {
		return jfif.Encode(f, frame, s.JFIFQscale)
	}
	return imagefile.EncodeFrame(f, frame, s.ImgFormat)
}

// OnDecodedError implements DecodedListener: file stages skip the frame.
func (s *DecodedToImageFile) OnDecodedError(msg string, frameNum, frameEndSector int) error {
	if s.Log != nil {
		s.Log.Warning("skipping frame, decode error", "frameNum", frameNum, "error", msg)
	}
	return nil
}

// aviRGBPlanarMode selects how DecodedToAVI packs a frame's pixels.
type aviRGBPlanarMode int

const (
	modeRGB aviRGBPlanarMode = iota
	modeYV12
	modeJYUV // YV12 using JFIF full-range luma/chroma.
)

// DecodedToAVI writes one AVI video frame per decoded frame, in raw
// BI_RGB, planar YV12, or JFIF-range YV12. Sync, if non-nil, inserts
// blank/repeated frames so the AVI's frame clock tracks the disc's sector
// clock (spec.md §4.6); a nil Sync writes exactly one AVI frame per call.
type DecodedToAVI struct {
	AVI  *avi.Writer
	Mode aviRGBPlanarMode
	Sync *avsync.VideoSync
	Log  logging.Logger

	lastFrame []byte // for repeating the previous frame when duplicating.
}

// NewDecodedToRgbAVI returns a stage writing raw BI_RGB frames.
func NewDecodedToRgbAVI(w *avi.Writer, sync *avsync.VideoSync, log logging.Logger) *DecodedToAVI {
	return &DecodedToAVI{AVI: w, Mode: modeRGB, Sync: sync, Log: log}
}

// NewDecodedToYuvAVI returns a stage writing planar YV12 frames.
func NewDecodedToYuvAVI(w *avi.Writer, sync *avsync.VideoSync, log logging.Logger) *DecodedToAVI {
	return &DecodedToAVI{AVI: w, Mode: modeYV12, Sync: sync, Log: log}
}

// NewDecodedToJYuvAVI returns a stage writing JFIF-range planar YV12 frames.
func NewDecodedToJYuvAVI(w *avi.Writer, sync *avsync.VideoSync, log logging.Logger) *DecodedToAVI {
	return &DecodedToAVI{AVI: w, Mode: modeJYUV, Sync: sync, Log: log}
}

// OnDecoded implements DecodedListener.
func (s *DecodedToAVI) OnDecoded(frame *mdec.DecodedFrame, frameNum, frameEndSector int) error {
	data := s.pack(frame)
	return s.writeWithSync(data, frameEndSector)
}

// OnDecodedError implements DecodedListener: substitutes a synthetic
// black error frame so the AVI's frame index stays aligned (spec.md §4.5
// "Error substitution").
func (s *DecodedToAVI) OnDecodedError(msg string, frameNum, frameEndSector int) error {
	if s.Log != nil {
		s.Log.Warning("substituting error frame", "frameNum", frameNum, "error", msg)
	}
	errFrame := newErrorFrame(s.AVI.Width(), s.AVI.Height(), msg)
	return s.writeWithSync(s.pack(errFrame), frameEndSector)
}

func (s *DecodedToAVI) writeWithSync(data []byte, presentationEndSector int) error {
	if s.Sync == nil {
		s.lastFrame = data
		return s.AVI.AddVideoFrame(data)
	}
	dup, aheadOfSchedule := s.Sync.NextFrame(presentationEndSector)
	if aheadOfSchedule && s.Log != nil {
		s.Log.Warning("frame arrived ahead of schedule", "sector", presentationEndSector)
	}
	for i := 0; i < dup; i++ {
		filler := s.lastFrame
		if filler == nil {
			filler = make([]byte, len(data))
		}
		if err := s.AVI.AddVideoFrame(filler); err != nil {
			return err
		}
	}
	s.lastFrame = data
	return s.AVI.AddVideoFrame(data)
}

func (s *DecodedToAVI) pack(frame *mdec.DecodedFrame) []byte {
	switch s.Mode {
	case modeYV12, modeJYUV:
		return packYV12(frame)
	default:
		return packBottomUpBGR(frame)
	}
}

// packYV12 concatenates Y, then V (Cr), then U (Cb) planes, the order
// YV12's name (as opposed to I420/YUV420P) specifies.
func packYV12(f *mdec.DecodedFrame) []byte {
	out := make([]byte, 0, len(f.Y)+len(f.Cr)+len(f.Cb))
	out = append(out, f.Y...)
	out = append(out, f.Cr...)
	out = append(out, f.Cb...)
	return out
}

// packBottomUpBGR converts DecodedFrame.RGB's top-down (B,G,R,0) rows into
// BI_RGB's bottom-up, 3-byte-per-pixel row order.
func packBottomUpBGR(f *mdec.DecodedFrame) []byte {
	out := make([]byte, f.Width*f.Height*3)
	for y := 0; y < f.Height; y++ {
		srcRow := y * f.Width * 4
		dstRow := (f.Height - 1 - y) * f.Width * 3
		for x := 0; x < f.Width; x++ {
			so := srcRow + x*4
			do := dstRow + x*3
			out[do+0] = f.RGB[so+0]
			out[do+1] = f.RGB[so+1]
			out[do+2] = f.RGB[so+2]
		}
	}
	return out
}
