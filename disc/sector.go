/*
NAME
  sector.go

DESCRIPTION
  sector.go defines Sector and the narrow interfaces the pipeline consumes
  from out-of-scope disc-reading collaborators (spec.md §3, §6).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package disc defines the data types and narrow consumed interfaces at
// the boundary between this pipeline and disc-image reading, which is
// explicitly out of scope (spec.md §1 "Out of scope"): CD sector I/O,
// sector identification, and disc-item discovery are all provided by an
// external collaborator and reached only through SectorReader and
// IdentifiedSector.
package disc

// Sector is one 2048-byte CD-ROM user-data block, already identified by
// external code. It is created by the reader and consumed exactly once by
// the Demuxer.
type Sector struct {
	Number  int
	Channel int
	Payload []byte
	Type    SectorType
}

// SectorType tags a Sector with its semantic kind, mirroring
// IdentifiedSector's variants.
type SectorType int

const (
	SectorUnknown SectorType = iota
	SectorSTRVideo
	SectorXAAudio
	SectorCrusader
)

// SectorReader is the consumed interface over a disc image's raw sector
// stream (spec.md §6).
type SectorReader interface {
	GetSector(i int) (Sector, error)
	SectorCount() int
	WriteSector(i int, data []byte) error
}

// IdentifiedSector is the consumed interface over one already-classified
// sector: a tagged union with per-variant accessors (spec.md §6).
type IdentifiedSector interface {
	Channel() int
	UserData() []byte
	SamplesPerSecond() int
	Type() SectorType
}

// FrameFileFormatter maps a frame number to an output file path, used by
// image-sequence savers (spec.md §6).
type FrameFileFormatter func(frameNumber int) string
