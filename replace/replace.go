/*
NAME
  replace.go

DESCRIPTION
  replace.go implements lossy partial frame re-encoding: dirty-macroblock
  discovery against an optional rectangle/mask/tolerance, verbatim copying
  of unchanged macroblocks' original codes, and the budgeted qscale-retry
  compression loop (spec.md §4.4 "MDEC encoder and partial replacement",
  §8 scenarios 4-6).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package replace re-encodes a replacement bitmap back into a frame's
// original compressed bitstream while preserving its byte budget, touching
// only the macroblocks that actually changed (spec.md §1, §4.4).
package replace

import (
	"github.com/pkg/errors"

	"github.com/ausocean/psxav/bitstream"
	"github.com/ausocean/psxav/mdec"
	"github.com/ausocean/psxav/perr"
)

// Rect restricts dirty-macroblock discovery to a pixel rectangle
// [X0,X1) x [Y0,Y1). The zero value (Set == false) means "whole frame"
// (spec.md §4.4 "Dirty-macroblock discovery").
type Rect struct {
	X0, Y0, X1, Y1 int
	Set            bool
}

func (r Rect) intersectsMacroblock(mbX, mbY int) bool {
	if !r.Set {
		return true
	}
	mx0, my0 := mbX*16, mbY*16
	mx1, my1 := mx0+16, my0+16
	return mx0 < r.X1 && r.X0 < mx1 && my0 < r.Y1 && r.Y0 < my1
}

func (r Rect) containsPixel(x, y int) bool {
	if !r.Set {
		return true
	}
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

// Options configures FindDirtyMacroblocks and Replace.
type Options struct {
	// Tolerance is the maximum allowed per-channel absolute pixel
	// difference before a macroblock is considered dirty (spec.md §8
	// scenario 5).
	Tolerance int

	// Rect optionally restricts the search to macroblocks intersecting
	// this pixel rectangle.
	Rect Rect

	// Mask, if non-nil, is a Width*Height byte buffer the same size as the
	// frame; a pixel is skipped (never counted dirty) if its mask value is
	// 0 (spec.md §4.4).
	Mask []byte

	// CleanAc0 zeroes each block's first AC coefficient (zig-zag index 1)
	// in the original's code stream before it's used for comparison and
	// verbatim copying, matching the original implementation's Ac0Cleaner
	// being applied when parsing the original but never when encoding the
	// replacement (spec.md §9 Open Questions). Default false, since the
	// spec leaves whether this asymmetry is intentional or a latent bug
	// explicitly unresolved; see DESIGN.md.
	CleanAc0 bool
}

// PrepareOriginal decodes origCodes into an RGB pixel frame suitable for
// FindDirtyMacroblocks, optionally Ac0-cleaning the code stream first per
// opts.CleanAc0 (spec.md §9 Open Questions). It returns the (possibly
// cleaned) code stream alongside the decoded frame so Replace's
// verbatim-copy path stays consistent with what FindDirtyMacroblocks
// compared against.
func PrepareOriginal(dec *mdec.Decoder, origCodes []mdec.Code, width, height int, opts Options) ([]mdec.Code, *mdec.DecodedFrame, error) {
	codes := origCodes
	if opts.CleanAc0 {
		codes = cleanAc0(origCodes)
	}
	frame := &mdec.DecodedFrame{}
	if err := dec.Decode(mdec.NewSliceIterator(codes), width, height, mdec.FormatRGB, frame); err != nil {
		return nil, nil, err
	}
	return codes, frame, nil
}

// FindDirtyMacroblocks compares orig and replacement pixel-for-pixel and
// returns the set of macroblock coordinates whose content differs by more
// than opts.Tolerance in any channel, restricted to opts.Rect/opts.Mask
// (spec.md §4.4 "Dirty-macroblock discovery", §8 scenario 5).
func FindDirtyMacroblocks(orig, replacement *mdec.DecodedFrame, opts Options) map[[2]int]bool {
	mbW, mbH := orig.MBWidth(), orig.MBHeight()
	dirty := make(map[[2]int]bool)
	for mbY := 0; mbY < mbH; mbY++ {
		for mbX := 0; mbX < mbW; mbX++ {
			if !opts.Rect.intersectsMacroblock(mbX, mbY) {
				continue
			}
			if macroblockDiffers(orig, replacement, mbX, mbY, opts) {
				dirty[[2]int{mbX, mbY}] = true
			}
		}
	}
	return dirty
}

func macroblockDiffers(orig, replacement *mdec.DecodedFrame, mbX, mbY int, opts Options) bool {
	x0, y0 := mbX*16, mbY*16
	x1, y1 := min(x0+16, orig.Width), min(y0+16, orig.Height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if !opts.Rect.containsPixel(x, y) {
				continue
			}
			if opts.Mask != nil && opts.Mask[y*orig.Width+x] == 0 {
				continue
			}
			o := (y*orig.Width + x) * 4
			for c := 0; c < 3; c++ {
				d := int(orig.RGB[o+c]) - int(replacement.RGB[o+c])
				if d < 0 {
					d = -d
				}
				if d > opts.Tolerance {
					return true
				}
			}
		}
	}
	return false
}

// Replace re-encodes only the dirty macroblocks of a frame against
// replacement, copying every other macroblock's codes verbatim from
// origCodes, and compresses the assembled code stream through codec at
// increasing qscale until it fits byteBudget (spec.md §4.4 steps 1-4, §8
// scenario 6). An empty dirty set is a no-op: it returns (nil, nil), and
// the caller is expected to log an informational message and skip writing
// (spec.md §8 scenario 4).
func Replace(codec bitstream.Codec, origCodes []mdec.Code, enc *mdec.Encoder, replacement *mdec.DecodedFrame, width, height int, dirty map[[2]int]bool, byteBudget int) ([]byte, error) {
	if len(dirty) == 0 {
		return nil, nil
	}

	mbW, mbH := (width+15)/16, (height+15)/16
	replacementYCbCr := &mdec.DecodedFrame{}
	mdec.ToYCbCr(replacement, replacementYCbCr, mdec.Rec601)

	origByMB := splitByMacroblock(origCodes, mbW*mbH)

	for qscale := 1; qscale <= 63; qscale++ {
		codes := make([]mdec.Code, 0, len(origCodes))
		mb := 0
		for mbY := 0; mbY < mbH; mbY++ {
			for mbX := 0; mbX < mbW; mbX++ {
				if dirty[[2]int{mbX, mbY}] {
					blocks := enc.EncodeMacroblock(replacementYCbCr, mbX, mbY, qscale)
					for _, b := range blocks {
						codes = append(codes, b...)
					}
				} else {
					codes = append(codes, origByMB[mb]...)
				}
				mb++
			}
		}

		out, err := codec.Compress(codes, byteBudget)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, perr.ErrTooMuchEnergy) {
			return nil, err
		}
	}
	return nil, perr.ErrTooMuchEnergy
}

// splitByMacroblock partitions a frame's flat code stream into mbCount
// per-macroblock slices, each spanning that macroblock's 6 blocks (header
// + AC runs + EOB per block, spec.md §3 invariants).
func splitByMacroblock(codes []mdec.Code, mbCount int) [][]mdec.Code {
	out := make([][]mdec.Code, mbCount)
	pos := 0
	for mb := 0; mb < mbCount; mb++ {
		start := pos
		for block := 0; block < 6; block++ {
			pos++ // header
			for !codes[pos].EOB {
				pos++
			}
			pos++ // consume the EOB itself
		}
		out[mb] = codes[start:pos]
	}
	return out
}

// cleanAc0 zeroes the first AC coefficient (zig-zag index 1) of every block
// in codes, matching the original's Ac0Cleaner (spec.md §9 Open Questions).
// A block whose first AC code has Run > 0 already has a zero coefficient at
// zig-zag index 1, so it is left untouched.
func cleanAc0(codes []mdec.Code) []mdec.Code {
	out := make([]mdec.Code, len(codes))
	copy(out, codes)
	pos := 0
	for pos < len(out) {
		pos++ // header
		if !out[pos].EOB && out[pos].Run == 0 {
			out[pos].Level = 0
		}
		for !out[pos].EOB {
			pos++
		}
		pos++ // consume EOB
	}
	return out
}
