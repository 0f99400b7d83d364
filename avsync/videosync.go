/*
NAME
  videosync.go

DESCRIPTION
  videosync.go implements VideoSync, which reconciles a frame-indexed
  video clock against a sector-indexed presentation clock by computing how
  many blank or repeated frames a writer must insert before each new frame
  (spec.md §4.6).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package avsync reconciles the sector-timed clock shared by every stream
// on a PSX disc with the frame-timed (and, for audio, sample-timed) clock
// each individual stream keeps, so an AVI muxer or live player can insert
// the blank frames / silent samples needed to keep both clocks aligned.
package avsync

// VideoSync tracks one video stream's frame clock against the disc's
// shared sector clock. It is a value object: the zero value is not usable,
// construct with NewVideoSync.
type VideoSync struct {
	fpsNum, fpsDenom int
	sectorsPerSecond int
	startSector      int

	// InitialSilentFrames is the number of blank frames this stream should
	// emit before its first real frame, because another stream in the same
	// muxed output started earlier (spec.md §4.6 "Initial offsets").
	InitialSilentFrames int

	framesWritten int
}

// NewVideoSync returns a VideoSync whose frame clock is measured from
// streamStartSector, where a muxed output's shared clock begins (the
// earlier of the video and, if any, audio start sectors).
// initialSilentFrames is the pre-seed computed by NewAudioVideoSync (or 0
// for a video-only stream).
func NewVideoSync(fpsNum, fpsDenom, sectorsPerSecond, streamStartSector, initialSilentFrames int) *VideoSync {
	return &VideoSync{
		fpsNum:              fpsNum,
		fpsDenom:            fpsDenom,
		sectorsPerSecond:    sectorsPerSecond,
		startSector:         streamStartSector,
		InitialSilentFrames: initialSilentFrames,
		framesWritten:       initialSilentFrames,
	}
}

// FramesWritten returns the cumulative number of frames (real and blank)
// written so far.
func (v *VideoSync) FramesWritten() int { return v.framesWritten }

// NextFrame reconciles the clock for a new frame whose presentation ends
// at sector presentationEndSector. It returns the number of blank/repeated
// frames the caller must write before the real frame, and advances the
// internal clock by that count plus the one real frame.
//
// If the frame arrives ahead of schedule (the expected cumulative count is
// behind what's already been written), aheadOfSchedule is true, no
// duplicates are requested, and the clock is not advanced past where it
// already stood plus this one frame — the frame is written immediately
// with a logged warning, not a clock rewind.
func (v *VideoSync) NextFrame(presentationEndSector int) (duplicate int, aheadOfSchedule bool) {
	e := floorDiv((presentationEndSector-v.startSector)*v.fpsNum, v.fpsDenom*v.sectorsPerSecond)
	dup := e - v.framesWritten
	if dup < 0 {
		v.framesWritten++
		return 0, true
	}
	v.framesWritten += dup + 1
	return dup, false
}

// floorDiv returns the floor of a/b for positive b, unlike Go's truncating
// integer division which rounds toward zero.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
