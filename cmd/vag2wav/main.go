/*
NAME
  main.go

DESCRIPTION
  vag2wav is a command-line program for decoding a PSX VAG ADPCM file to a
  standard PCM WAV file.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements vag2wav, a command-line VAG to WAV decoder.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-audio/audio"
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
	logPath      = "vag2wav.log"
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logSuppress  = true
	pkg          = "vag2wav: "
)

// readBatchSamples is the number of interleaved samples decoded per
// Reader.ReadI16 call.
const readBatchSamples = 4096

func main() {
	verbose := flag.Bool("v", false, "print a summary of the decoded stream")
	outPath := flag.String("o", "", "output WAV file path (default: input path with .wav extension)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: vag2wav [-v] [-o output.wav] input.vag")
		os.Exit(2)
	}
	inPath := flag.Arg(0)
	if *outPath == "" {
		*outPath = withExtension(inPath, ".wav")
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logging.Warning, fileLog, logSuppress)

	if err := run(inPath, *outPath, *verbose); err != nil {
		log.Error(pkg+"could not decode VAG file", "error", err)
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

func run(inPath, outPath string, verbose bool) error {
	in, err := os.Open(inPath)
	if err != nil {
		return errors.Wrap(err, "opening input file")
	}
	defer in.Close()

	r, err := vag.NewReader(in, true)
	if err != nil {
		return errors.Wrap(err, "constructing VAG reader")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	defer out.Close()

	const bitDepth = 16
	enc := wav.NewEncoder(out, int(r.SampleRate()), bitDepth, int(r.ChannelCount()), 1)
	defer enc.Close()

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: int(r.ChannelCount()),
			SampleRate:  int(r.SampleRate()),
		},
		SourceBitDepth: bitDepth,
	}

	samples := make([]int16, readBatchSamples)
	var total int64
	for {
		n, err := r.ReadI16(samples)
		if err != nil && err != io.EOF {
			return errors.Wrap(err, "decoding VAG payload")
		}
		if n == 0 {
			break
		}

		buf.Data = buf.Data[:0]
		for _, s := range samples[:n] {
			buf.Data = append(buf.Data, int(s))
		}
		if err := enc.Write(buf); err != nil {
			return errors.Wrap(err, "writing WAV samples")
		}
		total += int64(n)
	}

	if verbose {
		bf := pcm.BufferFormat{
			SFormat:  pcm.S16_LE,
			Rate:     uint(r.SampleRate()),
			Channels: uint(r.ChannelCount()),
		}
		fmt.Printf("sample rate: %d Hz\n", r.SampleRate())
		fmt.Printf("channels: %d\n", r.ChannelCount())
		fmt.Printf("total samples per channel: %d\n", r.TotalSamplesPerChannel())
		fmt.Printf("duration: %.3fs\n", r.Duration())
		fmt.Printf("interleaved: %v\n", r.Interleaved())
		fmt.Printf("chunk size: %d\n", r.ChunkSize())
		fmt.Printf("decoded PCM format: %s, %d bytes\n", bf.SFormat,
			pcm.DataSize(bf.Rate, bf.Channels, 16, r.Duration()))
	}
	return nil
}
