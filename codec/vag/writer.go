/*
NAME
  writer.go

DESCRIPTION
  writer.go implements the push/append, one-shot-finalize writer façade
  described in spec.md §4.7, and its state machine in §4.8.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vag

import (
	"io"

	"github.com/pkg/errors"
)

// Config describes the parameters of a stream a Writer produces. See
// spec.md §4.7 and design note 9.
type Config struct {
	// Interleaved selects the VAGi container layout. When false, the
	// stream is written as a single non-interleaved VAGp channel and
	// ChannelCount must be 1.
	Interleaved bool

	// StreamingLoopFlags, when set, stamps flagLoop on the last frame of
	// every interleave chunk. When unset, only the stream's final chunk is
	// flagged, with flagEnd. It has no effect on non-interleaved streams.
	StreamingLoopFlags bool

	SampleRate   uint32
	ChannelCount uint16

	// ChunkSize is the interleave chunk size in bytes. It is required,
	// and must be a multiple of alignSize, when Interleaved is set; it
	// is ignored otherwise.
	ChunkSize uint32
}

// Writer is a push-interface encoder that accumulates per-channel samples
// via Append and emits the complete VAG stream on Finalize.
type Writer struct {
	dst       io.WriteSeeker
	leaveOpen bool
	cfg       Config

	channels  [][]int16
	finalized bool
}

// NewWriter constructs a Writer for a single-channel, non-interleaved
// stream at the given sample rate. It is a convenience wrapper around
// NewWriterConfig for the common case.
func NewWriter(rate uint32, dst io.WriteSeeker, leaveOpen bool) (*Writer, error) {
	return NewWriterConfig(Config{
		Interleaved:  false,
		SampleRate:   rate,
		ChannelCount: 1,
	}, dst, leaveOpen)
}

// NewWriterConfig constructs a Writer per cfg, writing the stream header to
// dst immediately. If leaveOpen is false, Close releases dst when dst
// implements io.Closer.
func NewWriterConfig(cfg Config, dst io.WriteSeeker, leaveOpen bool) (*Writer, error) {
	if cfg.ChannelCount == 0 || cfg.SampleRate == 0 {
		return nil, ErrInvalidWriterConfig
	}
	if cfg.Interleaved && (cfg.ChunkSize == 0 || cfg.ChunkSize%alignSize != 0) {
		return nil, ErrInvalidWriterConfig
	}
	if !cfg.Interleaved && cfg.ChannelCount != 1 {
		return nil, ErrInvalidWriterConfig
	}

	h := Header{
		Interleaved: cfg.Interleaved,
		Version:     defaultVersion,
		ChunkSize:   cfg.ChunkSize,
		SampleRate:  cfg.SampleRate,
		Channels:    cfg.ChannelCount,
	}
	if err := writeHeader(dst, h); err != nil {
		return nil, err
	}

	w := &Writer{
		dst:       dst,
		leaveOpen: leaveOpen,
		cfg:       cfg,
		channels:  make([][]int16, cfg.ChannelCount),
	}
	return w, nil
}

// Append distributes samples round-robin across channels by index modulo
// ChannelCount and queues them for encoding. If len(samples) is not a
// multiple of ChannelCount, the trailing partial group is still
// distributed; callers that care about a clean channel boundary must pad
// samples themselves.
func (w *Writer) Append(samples []int16) error {
	if w.finalized {
		return ErrWriteAfterFinalize
	}
	n := int(w.cfg.ChannelCount)
	for i, s := range samples {
		ch := i % n
		w.channels[ch] = append(w.channels[ch], s)
	}
	return nil
}

// Finalize encodes all queued samples, writes the payload, patches the
// header's data length field, and marks the Writer closed to further
// Append calls. It may be called at most once.
func (w *Writer) Finalize() error {
	if w.finalized {
		return ErrWriteAfterFinalize
	}
	w.finalized = true

	if !w.cfg.Interleaved {
		encoded := encodeChannel(w.channels[0])
		if _, err := w.dst.Write(encoded); err != nil {
			return errors.Wrap(err, "vag: writing payload")
		}
		return patchDataLength(w.dst, uint32(len(encoded)))
	}

	framesPerChunk := int(w.cfg.ChunkSize) / FrameSize
	samplesPerChunk := framesPerChunk * SamplesPerFrame

	longest := 0
	for _, ch := range w.channels {
		if len(ch) > longest {
			longest = len(ch)
		}
	}
	totalChunks := (longest + samplesPerChunk - 1) / samplesPerChunk

	encoded := make([][]byte, len(w.channels))
	for i, ch := range w.channels {
		encoded[i] = encodeInterleavedChannel(ch, framesPerChunk, totalChunks, w.cfg.StreamingLoopFlags)
	}

	chunkBytesPerChannel := framesPerChunk * FrameSize
	for c := 0; c < totalChunks; c++ {
		for _, enc := range encoded {
			start := c * chunkBytesPerChannel
			end := start + chunkBytesPerChannel
			if _, err := w.dst.Write(enc[start:end]); err != nil {
				return errors.Wrap(err, "vag: writing interleaved chunk")
			}
		}
	}

	var dataLength uint32
	if len(encoded) > 0 {
		dataLength = uint32(len(encoded[0]))
	}
	return patchDataLength(w.dst, dataLength)
}

// Close releases the writer. If leaveOpen was false at construction and the
// underlying stream implements io.Closer, it is closed. Close does not
// implicitly Finalize.
func (w *Writer) Close() error {
	if w.leaveOpen {
		return nil
	}
	if c, ok := w.dst.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
