/*
NAME
  listener.go

DESCRIPTION
  listener.go defines the typed listener interfaces that compose the VDP
  pipeline stage chain (spec.md §4.5), analogous to the teacher's
  filter.Filter / revid/pipeline.go composable-stage pattern.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package vdp wires bitstream identification, MDEC decode, and container
// writing into a composable chain of typed stages (spec.md §4.5). Each
// stage both implements a listener interface (so it can sit mid-chain)
// and accepts a next stage to forward to, the same construction-time
// wiring style as revid/pipeline.go's setupPipeline.
package vdp

import "github.com/ausocean/psxav/mdec"

// BitstreamListener receives one frame's still-compressed payload.
type BitstreamListener interface {
	OnBitstream(payload []byte, size, frameNum, frameEndSector int) error
}

// MdecListener receives one frame's decoded MDEC code stream, or an error
// in place of it.
type MdecListener interface {
	OnMdec(codes mdec.Iterator, frameNum, frameEndSector int) error
	OnMdecError(msg string, frameNum, frameEndSector int) error
}

// DecodedListener receives one frame's fully decoded pixel raster, or an
// error in place of it.
type DecodedListener interface {
	OnDecoded(frame *mdec.DecodedFrame, frameNum, frameEndSector int) error
	OnDecodedError(msg string, frameNum, frameEndSector int) error
}
