/*
NAME
  main.go

DESCRIPTION
  wav2vag is a command-line program for encoding a standard PCM WAV file to
  a PSX VAG ADPCM file, in either the non-interleaved (VAGp) or interleaved
  (VAGi) container form.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements wav2vag, a command-line WAV to VAG encoder.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-audio/wav"
	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/vag/codec/pcm"
	"github.com/ausocean/vag/codec/vag"
)

// Logging configuration for the rotating error log; -v summaries print
// directly to stdout since this is a one-shot tool, not a daemon.
const (
	logPath      = "wav2vag.log"
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logSuppress  = true
	pkg          = "wav2vag: "
)

// readBatchBytes is the number of source-format bytes read per iteration
// while converting the WAV's PCM data to int16 samples.
const readBatchBytes = 4096

func main() {
	verbose := flag.Bool("v", false, "print a summary of the encoded stream")
	interleaved := flag.Bool("i", false, "write a VAGi interleaved stream instead of VAGp")
	loopFlags := flag.Bool("l", false, "stamp loop flags (0x03) on the last frame of every interleave chunk")
	chunkSize := flag.Uint("c", 2048, "interleave chunk size in bytes, must be a multiple of 2048")
	outPath := flag.String("o", "", "output VAG file path (default: input path with .vag extension)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: wav2vag [-v] [-i] [-l] [-c bytes] [-o output.vag] input.wav")
		os.Exit(2)
	}
	inPath := flag.Arg(0)
	if *outPath == "" {
		*outPath = withExtension(inPath, ".vag")
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logging.Warning, fileLog, logSuppress)

	cfg := runConfig{
		inPath:      inPath,
		outPath:     *outPath,
		interleaved: *interleaved,
		loopFlags:   *loopFlags,
		chunkSize:   uint32(*chunkSize),
		verbose:     *verbose,
	}
	if err := run(cfg); err != nil {
		log.Error(pkg+"could not encode VAG file", "error", err)
		fmt.Fprintln(os.Stderr, pkg+err.Error())
		os.Exit(1)
	}
}

// withExtension replaces path's extension with ext.
func withExtension(path, ext string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		path = path[:i]
	}
	return path + ext
}

type runConfig struct {
	inPath, outPath string
	interleaved     bool
	loopFlags       bool
	chunkSize       uint32
	verbose         bool
}

func run(cfg runConfig) error {
	in, err := os.Open(cfg.inPath)
	if err != nil {
		return errors.Wrap(err, "opening input file")
	}
	defer in.Close()

	dec := wav.NewDecoder(in)
	if !dec.IsValidFile() {
		return errors.New("input is not a valid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return errors.Wrap(err, "seeking to WAV PCM data")
	}

	sampleRate := dec.SampleRate
	channels := dec.NumChans
	bitDepth := dec.BitDepth

	out, err := os.Create(cfg.outPath)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	defer out.Close()

	vcfg := vag.Config{
		Interleaved:        cfg.interleaved,
		StreamingLoopFlags: cfg.loopFlags,
		SampleRate:         sampleRate,
		ChannelCount:       channels,
		ChunkSize:          cfg.chunkSize,
	}
	w, err := vag.NewWriterConfig(vcfg, out, true)
	if err != nil {
		return errors.Wrap(err, "constructing VAG writer")
	}

	total, err := convertAndAppend(w, in, int(bitDepth))
	if err != nil {
		return err
	}
	if err := w.Finalize(); err != nil {
		return errors.Wrap(err, "finalizing VAG stream")
	}

	if cfg.verbose {
		srcFormat, err := sourcePCMFormat(int(bitDepth))
		if err != nil {
			return err
		}
		bf := pcm.BufferFormat{SFormat: srcFormat, Rate: uint(sampleRate), Channels: uint(channels)}
		duration := float64(total/int64(channels)) / float64(sampleRate)

		fmt.Printf("samples per channel: %d\n", total/int64(channels))
		fmt.Printf("sample rate: %d Hz\n", sampleRate)
		fmt.Printf("channels: %d\n", channels)
		fmt.Printf("interleaved: %v\n", cfg.interleaved)
		if cfg.interleaved {
			fmt.Printf("chunk size: %d\n", cfg.chunkSize)
		}
		fmt.Printf("source PCM format: %s, %d bytes\n", bf.SFormat,
			pcm.DataSize(bf.Rate, bf.Channels, uint(bitDepth), duration))
	}
	return nil
}

// sourcePCMFormat maps a WAV bit depth to the pcm.SampleFormat it
// corresponds to, for reporting in the -v summary.
func sourcePCMFormat(bitDepth int) (pcm.SampleFormat, error) {
	switch bitDepth {
	case 16:
		return pcm.SFFromString("S16_LE")
	case 32:
		return pcm.SFFromString("S32_LE")
	default:
		return pcm.Unknown, nil
	}
}

// convertAndAppend reads raw WAV PCM bytes of the given bit depth from src,
// converts them to interleaved int16 samples and appends them to w. It
// returns the total number of samples appended.
func convertAndAppend(w *vag.Writer, src io.Reader, bitDepth int) (int64, error) {
	bytesPerSample := bitDepth / 8
	if bytesPerSample == 0 {
		return 0, errors.Errorf("unsupported bit depth %d", bitDepth)
	}

	raw := make([]byte, readBatchBytes-(readBatchBytes%bytesPerSample))
	samples := make([]int16, 0, len(raw)/bytesPerSample)

	var total int64
	for {
		n, err := io.ReadFull(src, raw)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return total, errors.Wrap(err, "reading WAV PCM data")
		}
		if n == 0 {
			break
		}
		n -= n % bytesPerSample

		samples = samples[:0]
		for off := 0; off < n; off += bytesPerSample {
			samples = append(samples, toInt16(raw[off:off+bytesPerSample], bitDepth))
		}
		if err := w.Append(samples); err != nil {
			return total, errors.Wrap(err, "appending samples")
		}
		total += int64(len(samples))

		if n < len(raw) {
			break
		}
	}
	return total, nil
}

// toInt16 converts a single sample of the given bit depth, read
// little-endian from b, to a signed 16-bit sample.
func toInt16(b []byte, bitDepth int) int16 {
	switch bitDepth {
	case 8:
		return int16((int(b[0]) - 128) << 8)
	case 16:
		return int16(binary.LittleEndian.Uint16(b))
	case 24:
		s := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if s&0x800000 != 0 {
			s |= ^0xffffff
		}
		return int16(s >> 8)
	case 32:
		return int16(int32(binary.LittleEndian.Uint32(b)) >> 16)
	default:
		return 0
	}
}
