/*
NAME
  avi.go

DESCRIPTION
  avi.go implements a minimal AVI 1.0 RIFF muxer: one video stream (BI_RGB
  DIB, YV12 planar, or MJPG) and an optional PCM audio stream, matching
  what spec.md §6 requires of the core's file-format output.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package avi writes AVI 1.0 files: a RIFF container with an hdrl chunk
// describing one video stream and an optional PCM audio stream, a movi
// chunk of interleaved frame data, and a trailing idx1 index. See
// https://learn.microsoft.com/en-us/windows/win32/directshow/avi-riff-file-reference
// for the format this follows.
package avi

import (
	"encoding/binary"
	"io"
)

var order = binary.LittleEndian

// VideoCodec selects the FourCC written for the video stream.
type VideoCodec int

const (
	// CodecRGB is uncompressed BI_RGB (bottom-up 24bpp BGR rows).
	CodecRGB VideoCodec = iota
	// CodecYV12 is planar YV12 (Y, then V, then U, 4:2:0).
	CodecYV12
	// CodecMJPG is Motion JPEG: each frame is a complete JFIF byte stream.
	CodecMJPG
)

func (c VideoCodec) fourCC() [4]byte {
	switch c {
	case CodecYV12:
		return [4]byte{'Y', 'V', '1', '2'}
	case CodecMJPG:
		return [4]byte{'M', 'J', 'P', 'G'}
	default:
		return [4]byte{0, 0, 0, 0} // BI_RGB: biCompression is 0, not a FourCC.
	}
}

const (
	videoStreamIndex = 0
	audioStreamIndex = 1
)

// Writer writes one AVI file. Frames must be added in presentation order;
// Close finalizes the header and index and must be called exactly once.
type Writer struct {
	w             io.WriteSeeker
	width, height int
	fpsNum, fpsDen int
	codec         VideoCodec
	hasAudio      bool
	sampleRate    int
	channels      int
	bitsPerSample int

	riffSizePos    int64
	moviSizePos    int64
	totalFramesPos int64
	videoLengthPos int64
	audioLengthPos int64
	moviStart      int64

	videoFrames int
	audioFrames int
	index       []idxEntry
}

type idxEntry struct {
	fourCC [4]byte
	flags  uint32
	offset uint32 // relative to the start of movi's data (4 bytes past "movi").
	size   uint32
}

// NewWriter writes the RIFF/hdrl preamble and returns a Writer ready for
// AddVideoFrame/AddAudioSamples calls. If sampleRate is 0, no audio stream
// is declared.
func NewWriter(w io.WriteSeeker, width, height, fpsNum, fpsDen int, codec VideoCodec, sampleRate, channels, bitsPerSample int) (*Writer, error) {
	a := &Writer{
		w: w, width: width, height: height,
		fpsNum: fpsNum, fpsDen: fpsDen, codec: codec,
		hasAudio: sampleRate > 0, sampleRate: sampleRate,
		channels: channels, bitsPerSample: bitsPerSample,
	}
	if err := a.writeHeader(); err != nil {
		return nil, err
	}
	return a, nil
}

// Width returns the video stream's declared frame width.
func (a *Writer) Width() int { return a.width }

// Height returns the video stream's declared frame height.
func (a *Writer) Height() int { return a.height }

func (a *Writer) pos() int64 {
	p, _ := a.w.Seek(0, io.SeekCurrent)
	return p
}

func (a *Writer) writeFourCC(s string) error {
	_, err := a.w.Write([]byte(s))
	return err
}

func (a *Writer) writeU32(v uint32) error {
	return binary.Write(a.w, order, v)
}

func (a *Writer) writeChunkHeader(fourCC string, size uint32) error {
	if err := a.writeFourCC(fourCC); err != nil {
		return err
	}
	return a.writeU32(size)
}

func (a *Writer) patchU32At(pos int64, v uint32) error {
	cur := a.pos()
	if _, err := a.w.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	if err := a.writeU32(v); err != nil {
		return err
	}
	_, err := a.w.Seek(cur, io.SeekStart)
	return err
}

func (a *Writer) writeHeader() error {
	if err := a.writeFourCC("RIFF"); err != nil {
		return err
	}
	a.riffSizePos = a.pos()
	if err := a.writeU32(0); err != nil { // patched in Close
		return err
	}
	if err := a.writeFourCC("AVI "); err != nil {
		return err
	}

	streamCount := 1
	if a.hasAudio {
		streamCount = 2
	}
	usecPerFrame := uint32(0)
	if a.fpsNum > 0 {
		usecPerFrame = uint32(1e6 * int64(a.fpsDen) / int64(a.fpsNum))
	}

	if err := a.writeChunkHeader("LIST", 0); err != nil {
		return err
	}
	hdrlSizePos := a.pos() - 4
	if err := a.writeFourCC("hdrl"); err != nil {
		return err
	}

	if err := a.writeChunkHeader("avih", 56); err != nil {
		return err
	}
	if err := a.writeU32(usecPerFrame); err != nil {
		return err
	}
	if err := a.writeU32(0); err != nil { // dwMaxBytesPerSec
		return err
	}
	if err := a.writeU32(0); err != nil { // dwPaddingGranularity
		return err
	}
	if err := a.writeU32(0x10); err != nil { // dwFlags: AVIF_HASINDEX
		return err
	}
	a.totalFramesPos = a.pos()
	if err := a.writeU32(0); err != nil { // dwTotalFrames, patched in Close
		return err
	}
	if err := a.writeU32(0); err != nil { // dwInitialFrames
		return err
	}
	if err := a.writeU32(uint32(streamCount)); err != nil {
		return err
	}
	if err := a.writeU32(0); err != nil { // dwSuggestedBufferSize
		return err
	}
	if err := a.writeU32(uint32(a.width)); err != nil {
		return err
	}
	if err := a.writeU32(uint32(a.height)); err != nil {
		return err
	}
	for i := 0; i < 4; i++ { // dwReserved[4]
		if err := a.writeU32(0); err != nil {
			return err
		}
	}

	if err := a.writeVideoStrl(); err != nil {
		return err
	}
	if a.hasAudio {
		if err := a.writeAudioStrl(); err != nil {
			return err
		}
	}

	if err := a.patchU32At(hdrlSizePos, uint32(a.pos()-hdrlSizePos-4)); err != nil {
		return err
	}

	if err := a.writeChunkHeader("LIST", 0); err != nil {
		return err
	}
	a.moviSizePos = a.pos() - 4
	if err := a.writeFourCC("movi"); err != nil {
		return err
	}
	a.moviStart = a.pos()
	return nil
}

// writeVideoStrl writes the video stream's strl LIST: strh + strf.
func (a *Writer) writeVideoStrl() error {
	if err := a.writeChunkHeader("LIST", 0); err != nil {
		return err
	}
	strlSizePos := a.pos() - 4
	if err := a.writeFourCC("strl"); err != nil {
		return err
	}

	if err := a.writeChunkHeader("strh", 56); err != nil {
		return err
	}
	if err := a.writeFourCC("vids"); err != nil {
		return err
	}
	cc := a.codec.fourCC()
	if _, err := a.w.Write(cc[:]); err != nil {
		return err
	}
	for _, v := range []uint32{
		0,                // dwFlags
		0,                // wPriority/wLanguage
		0,                // dwInitialFrames
		uint32(a.fpsDen), // dwScale
		uint32(a.fpsNum), // dwRate
		0,                // dwStart
	} {
		if err := a.writeU32(v); err != nil {
			return err
		}
	}
	a.videoLengthPos = a.pos()
	for _, v := range []uint32{
		0,          // dwLength, patched in Close
		0,          // dwSuggestedBufferSize
		0xFFFFFFFF, // dwQuality
		0,          // dwSampleSize
	} {
		if err := a.writeU32(v); err != nil {
			return err
		}
	}
	// rcFrame (left, top, right, bottom as int16s): a zero uint32 for
	// left/top, then width and height packed into one uint32.
	if err := a.writeU32(0); err != nil {
		return err
	}
	if err := a.writeU32(uint32(a.height)<<16 | uint32(a.width)); err != nil {
		return err
	}

	bitCount := uint16(24)
	compression := uint32(0)
	if a.codec != CodecRGB {
		c := a.codec.fourCC()
		compression = order.Uint32(c[:])
		bitCount = 12 // YV12/MJPG are treated as 12-bit-average planar/compressed for strf purposes.
	}
	imageSize := uint32(a.width * a.height * 3)
	if err := a.writeChunkHeader("strf", 40); err != nil {
		return err
	}
	if err := a.writeU32(40); err != nil { // biSize
		return err
	}
	if err := a.writeU32(uint32(a.width)); err != nil {
		return err
	}
	if err := a.writeU32(uint32(a.height)); err != nil {
		return err
	}
	if err := binary.Write(a.w, order, uint16(1)); err != nil { // biPlanes
		return err
	}
	if err := binary.Write(a.w, order, bitCount); err != nil { // biBitCount
		return err
	}
	if err := a.writeU32(compression); err != nil { // biCompression
		return err
	}
	if err := a.writeU32(imageSize); err != nil { // biSizeImage
		return err
	}
	if err := a.writeU32(0); err != nil { // biXPelsPerMeter
		return err
	}
	if err := a.writeU32(0); err != nil { // biYPelsPerMeter
		return err
	}
	if err := a.writeU32(0); err != nil { // biClrUsed
		return err
	}
	if err := a.writeU32(0); err != nil { // biClrImportant
		return err
	}

	return a.patchU32At(strlSizePos, uint32(a.pos()-strlSizePos-4))
}

// writeAudioStrl writes the audio stream's strl LIST: strh + strf
// (WAVEFORMATEX, PCM).
func (a *Writer) writeAudioStrl() error {
	if err := a.writeChunkHeader("LIST", 0); err != nil {
		return err
	}
	strlSizePos := a.pos() - 4
	if err := a.writeFourCC("strl"); err != nil {
		return err
	}

	blockAlign := a.channels * a.bitsPerSample / 8
	bytesPerSec := a.sampleRate * blockAlign

	if err := a.writeChunkHeader("strh", 56); err != nil {
		return err
	}
	if err := a.writeFourCC("auds"); err != nil {
		return err
	}
	if err := a.writeU32(0); err != nil { // fccHandler
		return err
	}
	for _, v := range []uint32{
		0,                   // dwFlags
		0,                   // wPriority/wLanguage
		0,                   // dwInitialFrames
		uint32(blockAlign),  // dwScale (bytes per sample-block)
		uint32(bytesPerSec), // dwRate
		0,                   // dwStart
	} {
		if err := a.writeU32(v); err != nil {
			return err
		}
	}
	a.audioLengthPos = a.pos()
	for _, v := range []uint32{
		0,                  // dwLength, patched in Close
		0,                  // dwSuggestedBufferSize
		0xFFFFFFFF,         // dwQuality
		uint32(blockAlign), // dwSampleSize
	} {
		if err := a.writeU32(v); err != nil {
			return err
		}
	}
	if err := a.writeU32(0); err != nil { // rcFrame
		return err
	}
	if err := a.writeU32(0); err != nil {
		return err
	}

	if err := a.writeChunkHeader("strf", 16); err != nil {
		return err
	}
	if err := binary.Write(a.w, order, uint16(1)); err != nil { // wFormatTag: PCM
		return err
	}
	if err := binary.Write(a.w, order, uint16(a.channels)); err != nil {
		return err
	}
	if err := a.writeU32(uint32(a.sampleRate)); err != nil {
		return err
	}
	if err := a.writeU32(uint32(bytesPerSec)); err != nil {
		return err
	}
	if err := binary.Write(a.w, order, uint16(blockAlign)); err != nil {
		return err
	}
	if err := binary.Write(a.w, order, uint16(a.bitsPerSample)); err != nil {
		return err
	}

	return a.patchU32At(strlSizePos, uint32(a.pos()-strlSizePos-4))
}

// AddVideoFrame writes one video frame chunk ("00dc" for DIB/YV12, "00dc"
// also for MJPG per convention of compressed video streams) into movi.
func (a *Writer) AddVideoFrame(data []byte) error {
	return a.writeMoviChunk("00dc", data, 0x10) // AVIIF_KEYFRAME
}

// AddAudioSamples writes one PCM audio chunk ("01wb") into movi.
func (a *Writer) AddAudioSamples(pcm []byte) error {
	return a.writeMoviChunk("01wb", pcm, 0)
}

func (a *Writer) writeMoviChunk(fourCC string, data []byte, flags uint32) error {
	offset := uint32(a.pos() - a.moviStart)
	if err := a.writeChunkHeader(fourCC, uint32(len(data))); err != nil {
		return err
	}
	if _, err := a.w.Write(data); err != nil {
		return err
	}
	if len(data)%2 == 1 { // RIFF chunks are word-aligned.
		if _, err := a.w.Write([]byte{0}); err != nil {
			return err
		}
	}
	var cc [4]byte
	copy(cc[:], fourCC)
	a.index = append(a.index, idxEntry{fourCC: cc, flags: flags, offset: offset, size: uint32(len(data))})
	if fourCC == "00dc" {
		a.videoFrames++
	} else {
		a.audioFrames++
	}
	return nil
}

// Close writes the idx1 index and patches the header's size fields. It
// must be called exactly once, after the last frame has been added.
func (a *Writer) Close() error {
	moviEnd := a.pos()
	if err := a.writeChunkHeader("idx1", uint32(len(a.index)*16)); err != nil {
		return err
	}
	for _, e := range a.index {
		if _, err := a.w.Write(e.fourCC[:]); err != nil {
			return err
		}
		if err := a.writeU32(e.flags); err != nil {
			return err
		}
		if err := a.writeU32(e.offset); err != nil {
			return err
		}
		if err := a.writeU32(e.size); err != nil {
			return err
		}
	}
	end := a.pos()

	if err := a.patchU32At(a.moviSizePos, uint32(moviEnd-a.moviSizePos-4)); err != nil {
		return err
	}
	if err := a.patchU32At(a.totalFramesPos, uint32(a.videoFrames)); err != nil {
		return err
	}
	if err := a.patchU32At(a.videoLengthPos, uint32(a.videoFrames)); err != nil {
		return err
	}
	if a.hasAudio {
		if err := a.patchU32At(a.audioLengthPos, uint32(a.audioFrames)); err != nil {
			return err
		}
	}
	return a.patchU32At(a.riffSizePos, uint32(end-a.riffSizePos-4))
}
