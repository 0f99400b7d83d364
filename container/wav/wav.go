/*
NAME
  wav.go

DESCRIPTION
  wav.go writes decoded XA-ADPCM PCM audio as a WAV file, wrapping
  go-audio/wav + go-audio/audio the same way exp/flac/decode.go wraps them
  for FLAC-to-WAV transcoding (spec.md §1, SPEC_FULL.md container/wav).
  Applies the supplemented audioVolume gain and avsync silence padding
  before handing samples to the encoder.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package wav writes decoded PCM audio to a WAV file, wrapping
// github.com/go-audio/wav and github.com/go-audio/audio the way
// exp/flac/decode.go does for its FLAC-to-WAV path.
package wav

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

const wavFormat = 1 // PCM.

// Writer accumulates decoded PCM samples and writes them out as a WAV
// file on Close.
type Writer struct {
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	volume float64 // [0.0, 1.0], applied to every sample before encoding.
}

// NewWriter returns a Writer encoding to ws at sampleRate/bitsPerSample/
// channels. volume scales every sample linearly; callers that don't want
// gain control should pass 1.0.
func NewWriter(ws io.WriteSeeker, sampleRate, bitsPerSample, channels int, volume float64) (*Writer, error) {
	if volume < 0 || volume > 1 {
		return nil, errors.Errorf("wav: volume %v out of [0,1]", volume)
	}
	enc := wav.NewEncoder(ws, sampleRate, bitsPerSample, channels, wavFormat)
	return &Writer{
		enc: enc,
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitsPerSample,
		},
		volume: volume,
	}, nil
}

// WriteSamples writes one block of interleaved PCM samples (one int per
// channel per frame, already sign-extended to the stream's bit depth).
func (w *Writer) WriteSamples(samples []int) error {
	scaled := samples
	if w.volume != 1.0 {
		scaled = make([]int, len(samples))
		for i, s := range samples {
			scaled[i] = int(float64(s) * w.volume)
		}
	}
	w.buf.Data = scaled
	return w.enc.Write(w.buf)
}

// WriteSilence writes n frames (n*channels samples) of digital silence,
// used by avsync-driven padding to keep audio and video presentation
// times aligned (spec.md §4.6).
func (w *Writer) WriteSilence(frames int) error {
	channels := w.buf.Format.NumChannels
	if frames <= 0 || channels <= 0 {
		return nil
	}
	return w.WriteSamples(make([]int, frames*channels))
}

// Close flushes the WAV header and trailer. It must be called exactly
// once, after the last sample block has been written.
func (w *Writer) Close() error {
	return w.enc.Close()
}
