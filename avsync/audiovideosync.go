/*
NAME
  audiovideosync.go

DESCRIPTION
  audiovideosync.go implements AudioVideoSync, which extends VideoSync with
  a sample-level audio clock so one muxed AVI stream can reconcile both
  the video frame clock and the audio sample clock against the shared
  sector clock (spec.md §4.6).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsync

// AudioVideoSync extends VideoSync with a sample-accurate audio clock.
// One instance serves both the video and audio side of a single muxed AVI
// stream, sharing a single startSector anchored at whichever of the two
// streams began recording first.
type AudioVideoSync struct {
	VideoSync

	samplesPerSecond int

	// InitialSilentSamples is the number of silent samples this stream's
	// audio should emit before its first real buffer, because video
	// started earlier (spec.md §4.6 "Initial offsets").
	InitialSilentSamples int

	samplesWritten int
}

// NewAudioVideoSync returns an AudioVideoSync for a muxed stream whose
// video starts at videoStartSector and whose audio starts at
// audioStartSector. The shared clock begins at the earlier of the two; the
// later-starting side is pre-seeded with the silent frames/samples needed
// to keep it aligned once it begins.
func NewAudioVideoSync(fpsNum, fpsDenom, sectorsPerSecond, samplesPerSecond, videoStartSector, audioStartSector int) *AudioVideoSync {
	start := videoStartSector
	if audioStartSector < start {
		start = audioStartSector
	}
	initialFrames := floorDiv((videoStartSector-start)*fpsNum, fpsDenom*sectorsPerSecond)
	initialSamples := floorDiv((audioStartSector-start)*samplesPerSecond, sectorsPerSecond)

	return &AudioVideoSync{
		VideoSync:             *NewVideoSync(fpsNum, fpsDenom, sectorsPerSecond, start, initialFrames),
		samplesPerSecond:      samplesPerSecond,
		InitialSilentSamples:  initialSamples,
		samplesWritten:        initialSamples,
	}
}

// SamplesWritten returns the cumulative number of samples (real and
// silent) written so far.
func (a *AudioVideoSync) SamplesWritten() int { return a.samplesWritten }

// NextAudio reconciles the clock for a new audio buffer of sampleCount
// real samples, presented at sector presentationSector. It returns the
// number of silent samples the caller must write before the real buffer,
// and advances the internal sample clock by that count plus sampleCount.
//
// As with NextFrame, a buffer arriving ahead of schedule is reported via
// aheadOfSchedule rather than requesting a negative amount of silence.
func (a *AudioVideoSync) NextAudio(presentationSector, sampleCount int) (silence int, aheadOfSchedule bool) {
	e := floorDiv((presentationSector-a.startSector)*a.samplesPerSecond, a.sectorsPerSecond)
	s := e - a.samplesWritten
	if s < 0 {
		a.samplesWritten += sampleCount
		return 0, true
	}
	a.samplesWritten += s + sampleCount
	return s, false
}
