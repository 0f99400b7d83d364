/*
NAME
  sectorreader.go

DESCRIPTION
  sectorreader.go implements a minimal file-backed disc.SectorReader over
  a flat demo sector stream, in the same small-device-wrapper style as
  device/file's AVFile. This is explicitly a demo fixture format, not real
  CD-image/ISO9660 parsing, which remains out of scope (spec.md §1 "Out of
  scope").

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/ausocean/psxav/disc"
)

// sectorSize is the CD-ROM user-data block size a real PSX disc image
// sector carries (spec.md §3 "Sector"); the demo stream this tool reads is
// simply a flat concatenation of sectorSize-byte blocks with no CD
// sync/header/subchannel bytes, since that parsing is out of scope.
const sectorSize = 2048

// fileSectorReader implements disc.SectorReader by reading fixed-size
// blocks sequentially from a demo sector-stream file. Every sector is
// reported as SectorSTRVideo, since real per-sector identification is an
// out-of-scope external collaborator's job (spec.md §1, disc.IdentifiedSector).
type fileSectorReader struct {
	f     *os.File
	count int
}

// newFileSectorReader builds a fileSectorReader over f, sized by f's
// length.
func newFileSectorReader(f *os.File) (*fileSectorReader, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return &fileSectorReader{f: f, count: int(info.Size() / sectorSize)}, nil
}

// SectorCount implements disc.SectorReader.
func (r *fileSectorReader) SectorCount() int { return r.count }

// GetSector implements disc.SectorReader.
func (r *fileSectorReader) GetSector(i int) (disc.Sector, error) {
	if i < 0 || i >= r.count {
		return disc.Sector{}, errors.Errorf("sectorreader: index %d out of range [0,%d)", i, r.count)
	}
	buf := make([]byte, sectorSize)
	if _, err := r.f.ReadAt(buf, int64(i)*sectorSize); err != nil && err != io.EOF {
		return disc.Sector{}, err
	}
	return disc.Sector{Number: i, Type: disc.SectorSTRVideo, Payload: buf}, nil
}

// WriteSector implements disc.SectorReader; this demo reader is read-only.
func (r *fileSectorReader) WriteSector(i int, data []byte) error {
	return errors.New("sectorreader: write not supported")
}
