/*
NAME
  config.go

DESCRIPTION
  config.go defines Config, the set of recognized video-saver options
  (spec.md §6 "Configuration options"), in the same plain-struct,
  exported-field, iota-enum style as revid/config.Config.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config holds the pipeline's configuration: which output format
// to write, decode quality/chroma upsampling tradeoffs, and disc/sync
// parameters (spec.md §6).
package config

import "github.com/pkg/errors"

// VideoFormat selects which vdp pipeline stage and container writer the
// driver wires up for video output.
type VideoFormat int

const (
	// AVIMJPG writes an AVI file with an MJPG video stream.
	AVIMJPG VideoFormat = iota
	// AVIYUV writes an AVI file with a planar YV12 video stream.
	AVIYUV
	// AVIJYUV is AVIYUV using JFIF-range (full-range) luma/chroma.
	AVIJYUV
	// AVIRGB writes an AVI file with an uncompressed BI_RGB video stream.
	AVIRGB
	// IMGSEQDemux writes each frame's raw, still-compressed bitstream codes.
	IMGSEQDemux
	// IMGSEQMdec writes each frame's decoded MDEC macroblock codes.
	IMGSEQMdec
	// IMGSEQJPG writes each frame as a standalone JFIF file.
	IMGSEQJPG
	// IMGSEQBMP writes each frame as a standalone BMP file.
	IMGSEQBMP
	// IMGSEQPNG writes each frame as a standalone PNG file.
	IMGSEQPNG
)

// DecodeQuality selects the IDCT implementation mdec.Decoder uses.
type DecodeQuality int

const (
	// Low uses the fixed-point integer IDCT: fast, matches original
	// console rounding behavior.
	Low DecodeQuality = iota
	// High uses the float64 matrix-multiply IDCT for higher precision.
	High
	// PSXExact uses the float64 IDCT like High, with chroma upsampling
	// forced to NearestNeighbor (mdec.QualityPsxExact).
	PSXExact
)

// ChromaUpsampling selects how 4:2:0 chroma is upsampled to 4:4:4 for RGB
// output.
type ChromaUpsampling int

const (
	// NearestNeighbor replicates each chroma sample across its 2x2 luma block.
	NearestNeighbor ChromaUpsampling = iota
	// Bilinear interpolates linearly between neighboring chroma samples.
	Bilinear
	// Bicubic interpolates with a 4x4 convolution kernel.
	Bicubic
)

// DiscSpeed selects the sector rate avsync reconciles the frame/sample
// clocks against (spec.md §6, SUPPLEMENTED FEATURES "Disc-speed-aware
// sectorsPerSecond derivation").
type DiscSpeed int

const (
	// Speed1x is 75 sectors per second.
	Speed1x DiscSpeed = iota
	// Speed2x is 150 sectors per second.
	Speed2x
)

// SectorsPerSecond returns the sector rate the speed implies.
func (s DiscSpeed) SectorsPerSecond() int {
	if s == Speed2x {
		return 150
	}
	return 75
}

// FrameRange clips decoding to [Start, End] inclusive frame numbers when
// Clip is set. The zero value (Clip false) means "no clipping"; with Clip
// set, Start 0 and End 0 select frame 0 alone.
type FrameRange struct {
	Start, End int
	Clip       bool
}

// Config holds the recognized video-saver configuration options (spec.md
// §6). A new Config must have Validate called before use; Validate fills
// in documented defaults for zero-valued fields where a zero value isn't
// itself a valid setting.
type Config struct {
	VideoFormat      VideoFormat
	DecodeQuality    DecodeQuality
	ChromaUpsampling ChromaUpsampling

	// JpgQuality is JFIF encode quality in [0.0, 1.0]; only meaningful for
	// VideoFormat values that produce JPEG/MJPEG output.
	JpgQuality float64

	// Crop is not read by any pipeline stage: decoded output always has
	// the frame's declared width/height, whatever this field's value; it
	// is never rounded up to a multiple of 16.
	Crop bool

	DiscSpeed DiscSpeed

	// FrameRange optionally restricts decoding to a sub-range of frames.
	FrameRange FrameRange

	// EmulatePsxAvSync is not read by any pipeline stage: avsync.VideoSync
	// always reports a stream that runs ahead of the sector clock as a
	// warning and never rewinds, whatever this field's value.
	EmulatePsxAvSync bool

	// AudioVolume scales decoded PCM samples in [0.0, 1.0] before they
	// reach container/wav or an AVI audio stream.
	AudioVolume float64
}

// Validate checks Config's fields for out-of-range values and fills in
// defaults for fields whose zero value isn't itself meaningful.
func (c *Config) Validate() error {
	if c.JpgQuality == 0 {
		c.JpgQuality = 0.75
	}
	if c.JpgQuality < 0 || c.JpgQuality > 1 {
		return errors.Errorf("config: JpgQuality %v out of [0,1]", c.JpgQuality)
	}
	if c.AudioVolume == 0 {
		c.AudioVolume = 1.0
	}
	if c.AudioVolume < 0 || c.AudioVolume > 1 {
		return errors.Errorf("config: AudioVolume %v out of [0,1]", c.AudioVolume)
	}
	if c.FrameRange.Clip && c.FrameRange.Start > c.FrameRange.End {
		return errors.Errorf("config: FrameRange start %d after end %d", c.FrameRange.Start, c.FrameRange.End)
	}
	return nil
}
