/*
NAME
  main.go

DESCRIPTION
  psxconv is a minimal command line tool demonstrating the VDP pipeline
  wired end to end: a demo-format sector stream in, an AVI file out
  (spec.md §1, SUPPLEMENTED FEATURES; Non-goals explicitly scope out
  anything beyond this minimal wiring demonstration).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package psxconv is a minimal command line tool that wires the full VDP
// pipeline together: a file-backed disc.SectorReader feeds driver.Driver,
// which reassembles frames through driver.StrDemuxer and pushes them
// through the BitstreamToMdec / Mdec-to-(AVI|decoded) stage chain into an
// AVI file. It is intentionally narrow: sector identification, real
// ISO9660/CD-image parsing, and disc discovery remain out of scope
// (spec.md §1 "Out of scope"); this tool only demonstrates that the
// pipeline's stages compose and run.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/psxav/avsync"
	"github.com/ausocean/psxav/container/avi"
	"github.com/ausocean/psxav/disc"
	"github.com/ausocean/psxav/driver"
	"github.com/ausocean/psxav/mdec"
	"github.com/ausocean/psxav/vdp"
	"github.com/ausocean/psxav/vdp/config"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration, matching the teacher's cmd/rv log rotation setup.
const (
	logMaxSize   = 50 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

const pkg = "psxconv: "

func main() {
	showVersion := flag.Bool("version", false, "show version")
	in := flag.String("in", "", "path to a demo sector-stream file")
	out := flag.String("out", "", "path to the AVI file to write")
	logPath := flag.String("log", "psxconv.log", "path to the log file")
	width := flag.Int("width", 320, "frame width in pixels")
	height := flag.Int("height", 240, "frame height in pixels")
	fpsNum := flag.Int("fpsnum", 15, "video frame rate numerator")
	fpsDenom := flag.Int("fpsdenom", 1, "video frame rate denominator")
	format := flag.String("format", "mjpg", "output format: mjpg, yuv, jyuv, or rgb")
	quality := flag.String("quality", "low", "decode quality: low, high, or psxexact")
	chroma := flag.String("chroma", "nn", "chroma upsampling: nn, bilinear, or bicubic")
	qscale := flag.Int("qscale", 4, "MJPEG/JFIF qscale, used to derive JPEG quality")
	speed := flag.String("speed", "1x", "disc speed: 1x or 2x")
	frameStart := flag.Int("framestart", 0, "first frame to decode, inclusive")
	frameEnd := flag.Int("frameend", 0, "last frame to decode, inclusive (ignored unless -clip is set)")
	clip := flag.Bool("clip", false, "restrict decoding to [-framestart, -frameend]")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}
	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, pkg+"both -in and -out are required")
		os.Exit(2)
	}

	fileLog := &lumberjack.Logger{
		Filename:   *logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)
	log.Info("starting psxconv", "version", version)

	cfg, err := buildConfig(*format, *quality, *chroma, *speed, *clip, *frameStart, *frameEnd)
	if err != nil {
		log.Fatal(pkg+"invalid configuration", "error", err.Error())
	}

	if err := run(cfg, *in, *out, *width, *height, *fpsNum, *fpsDenom, *qscale, log); err != nil {
		log.Fatal(pkg+"conversion failed", "error", err.Error())
	}
	log.Info("conversion complete")
}

func buildConfig(format, quality, chroma, speed string, clip bool, start, end int) (config.Config, error) {
	var c config.Config

	switch format {
	case "mjpg":
		c.VideoFormat = config.AVIMJPG
	case "yuv":
		c.VideoFormat = config.AVIYUV
	case "jyuv":
		c.VideoFormat = config.AVIJYUV
	case "rgb":
		c.VideoFormat = config.AVIRGB
	default:
		return c, fmt.Errorf("unrecognized -format %q", format)
	}

	switch quality {
	case "low":
		c.DecodeQuality = config.Low
	case "high":
		c.DecodeQuality = config.High
	case "psxexact":
		c.DecodeQuality = config.PSXExact
	default:
		return c, fmt.Errorf("unrecognized -quality %q", quality)
	}

	switch chroma {
	case "nn":
		c.ChromaUpsampling = config.NearestNeighbor
	case "bilinear":
		c.ChromaUpsampling = config.Bilinear
	case "bicubic":
		c.ChromaUpsampling = config.Bicubic
	default:
		return c, fmt.Errorf("unrecognized -chroma %q", chroma)
	}

	switch speed {
	case "1x":
		c.DiscSpeed = config.Speed1x
	case "2x":
		c.DiscSpeed = config.Speed2x
	default:
		return c, fmt.Errorf("unrecognized -speed %q", speed)
	}

	c.JpgQuality = 0.75
	c.AudioVolume = 1.0
	c.FrameRange = config.FrameRange{Clip: clip, Start: start, End: end}

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func run(cfg config.Config, inPath, outPath string, width, height, fpsNum, fpsDenom, qscale int, log logging.Logger) error {
	inFile, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer inFile.Close()

	reader, err := newFileSectorReader(inFile)
	if err != nil {
		return err
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	codec := videoCodecFor(cfg.VideoFormat)
	aviWriter, err := avi.NewWriter(outFile, width, height, fpsNum, fpsDenom, codec, 0, 0, 0)
	if err != nil {
		return err
	}

	cm := mdec.Rec601
	if cfg.VideoFormat == config.AVIJYUV {
		cm = mdec.FullRangeJFIF
	}
	dec := mdec.NewDecoder(mdecQuality(cfg.DecodeQuality), cm, mdecChroma(cfg.ChromaUpsampling))

	sync := avsync.NewVideoSync(fpsNum, fpsDenom, cfg.DiscSpeed.SectorsPerSecond(), 0, 0)

	mdecStage := buildMdecStage(cfg, width, height, qscale, dec, aviWriter, sync, log)
	bitstreamStage := &vdp.BitstreamToMdec{Next: mdecStage, Log: log}

	onFrame := driver.FrameRangeFilter(cfg.FrameRange, func(f disc.DemuxedFrame) error {
		return bitstreamStage.OnBitstream(f.Payload, len(f.Payload), f.FrameNumber, f.EndSector)
	})
	demuxer := driver.NewStrDemuxer(onFrame, log)

	d := &driver.Driver{Reader: reader, Demux: demuxer, Log: log}
	if err := d.Run(); err != nil {
		return err
	}

	return aviWriter.Close()
}

func videoCodecFor(f config.VideoFormat) avi.VideoCodec {
	switch f {
	case config.AVIYUV, config.AVIJYUV:
		return avi.CodecYV12
	case config.AVIRGB:
		return avi.CodecRGB
	default:
		return avi.CodecMJPG
	}
}

func buildMdecStage(cfg config.Config, width, height, qscale int, dec *mdec.Decoder, aviWriter *avi.Writer, sync *avsync.VideoSync, log logging.Logger) vdp.MdecListener {
	if cfg.VideoFormat == config.AVIMJPG {
		return &vdp.MdecToMjpegAVI{
			AVI: aviWriter, Width: width, Height: height,
			Decoder: dec, Qscale: qscale, Log: log,
		}
	}

	var decodedStage vdp.DecodedListener
	switch cfg.VideoFormat {
	case config.AVIYUV, config.AVIJYUV:
		decodedStage = vdp.NewDecodedToYuvAVI(aviWriter, sync, log)
	default:
		decodedStage = vdp.NewDecodedToRgbAVI(aviWriter, sync, log)
	}

	decodeFormat := mdec.FormatRGB
	if cfg.VideoFormat == config.AVIYUV || cfg.VideoFormat == config.AVIJYUV {
		decodeFormat = mdec.FormatYCbCr
	}
	return &vdp.MdecToDecoded{
		Next: decodedStage, Width: width, Height: height,
		Format: decodeFormat, Decoder: dec, Log: log,
	}
}

func mdecQuality(q config.DecodeQuality) mdec.Quality {
	switch q {
	case config.High:
		return mdec.QualityHigh
	case config.PSXExact:
		return mdec.QualityPsxExact
	default:
		return mdec.QualityLow
	}
}

func mdecChroma(c config.ChromaUpsampling) mdec.ChromaUpsampling {
	switch c {
	case config.Bilinear:
		return mdec.Bilinear
	case config.Bicubic:
		return mdec.Bicubic
	default:
		return mdec.NearestNeighbor
	}
}
