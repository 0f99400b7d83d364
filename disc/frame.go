/*
NAME
  frame.go

DESCRIPTION
  frame.go defines DemuxedFrame, a complete coded video frame reassembled
  from the sectors that carry it (spec.md §3).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package disc

// DemuxedFrame is a complete coded video frame, built by a Demuxer as
// sectors arrive and consumed by the VDP pipeline. It exclusively owns its
// Payload buffer; the pipeline may borrow it for the duration of one call
// but must not retain a reference past that call (spec.md §3
// "Ownership").
type DemuxedFrame struct {
	Width, Height      int
	CompressedSize     int
	StartSector        int
	EndSector          int
	PresentationSector int
	FrameNumber        int
	Payload            []byte
}
