/*
NAME
  reader.go

DESCRIPTION
  reader.go implements the streaming reader façade described in spec.md
  §4.6 and its state machine in §4.8.

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
	"time"

	"github.com/pkg/errors"

	"github.com/ausocean/vag/codec/codecutil"
)

// internalReadChunkBytes is the arbitrary internal read granularity used for
// non-interleaved streams, which have no chunk structure of their own on
// the wire. It is purely a buffering convenience; see spec.md §4.5.
const internalReadChunkBytes = 2048

type readerState int

const (
	stateReady readerState = iota
	stateStreaming
	stateEndOfStream
)

// Reader is a streaming, pull-interface decoder over a VAG stream. It holds
// per-channel predictor state and a single-chunk PCM scratch buffer,
// refilled on exhaustion; see spec.md §4.6 and design note 9.
type Reader struct {
	src       io.Reader
	chunks    *codecutil.ChunkReader
	leaveOpen bool

	header   Header
	channels int

	framesPerChunk  int
	samplesPerChunk int

	states  []predState
	chanPCM [][]int16 // per-channel decode scratch, reused across refills
	raw     []byte    // raw chunk bytes, all channels, reused across refills

	pcm        []int16 // interleaved scratch, filled samples at [0:filled]
	cursor     int
	filled     int
	pendingEnd bool

	state readerState
}

// NewReader constructs a Reader over src, which must be positioned at the
// start of a VAG stream. If leaveOpen is false, Close releases src when src
// implements io.Closer.
func NewReader(src io.Reader, leaveOpen bool) (*Reader, error) {
	h, err := readHeader(src)
	if err != nil {
		return nil, err
	}

	channels := int(h.Channels)
	if channels == 0 {
		channels = 1
	}

	r := &Reader{
		src:       src,
		chunks:    codecutil.NewChunkReader(src),
		leaveOpen: leaveOpen,
		header:    h,
		channels:  channels,
		states:    make([]predState, channels),
	}

	if h.Interleaved && h.ChunkSize > 0 {
		r.framesPerChunk = int(h.ChunkSize) / FrameSize
	} else {
		r.framesPerChunk = internalReadChunkBytes / FrameSize
	}
	r.samplesPerChunk = r.framesPerChunk * SamplesPerFrame

	r.chanPCM = make([][]int16, channels)
	for i := range r.chanPCM {
		r.chanPCM[i] = make([]int16, r.samplesPerChunk)
	}
	r.raw = make([]byte, r.framesPerChunk*FrameSize*channels)
	r.pcm = make([]int16, r.samplesPerChunk*channels)

	r.state = stateReady
	return r, nil
}

// SampleRate returns the stream's sample rate in Hz.
func (r *Reader) SampleRate() uint32 { return r.header.SampleRate }

// ChannelCount returns the number of channels in the stream.
func (r *Reader) ChannelCount() uint16 { return uint16(r.channels) }

// Interleaved reports whether the stream uses the VAGi container layout.
func (r *Reader) Interleaved() bool { return r.header.Interleaved }

// ChunkSize returns the interleave chunk size in bytes, or 0 for a
// non-interleaved stream.
func (r *Reader) ChunkSize() uint32 {
	if !r.header.Interleaved {
		return 0
	}
	return r.header.ChunkSize
}

// TotalSamplesPerChannel returns the number of decoded samples per channel
// the stream's header declares, derived from the per-channel byte length.
func (r *Reader) TotalSamplesPerChannel() uint32 {
	return r.header.DataLength / FrameSize * SamplesPerFrame
}

// Duration returns the stream's nominal duration in seconds.
func (r *Reader) Duration() float64 {
	if r.header.SampleRate == 0 {
		return 0
	}
	return float64(r.TotalSamplesPerChannel()) / float64(r.header.SampleRate)
}

// DurationTime returns the stream's nominal duration as a time.Duration.
func (r *Reader) DurationTime() time.Duration {
	return time.Duration(r.Duration() * float64(time.Second))
}

// refill decodes the next chunk across all channels into the interleaved
// scratch buffer, resetting the read cursor. It does not itself flip the
// reader into stateEndOfStream; callers observe that via filled == 0 or
// pendingEnd.
func (r *Reader) refill() error {
	n, err := r.chunks.ReadChunk(r.raw)
	if err != nil {
		return errors.Wrap(err, "vag: reading chunk")
	}
	if n == 0 {
		r.filled = 0
		r.cursor = 0
		return nil
	}

	chunkBytesPerChannel := r.framesPerChunk * FrameSize
	maxProduced := 0
	reachedEnd := n < len(r.raw)

	for ch := 0; ch < r.channels; ch++ {
		start := ch * chunkBytesPerChannel
		end := start + chunkBytesPerChannel
		if start >= n {
			reachedEnd = true
			continue
		}
		if end > n {
			end = n
		}

		framesDone, chEnd := decodeFrames(r.raw[start:end], r.framesPerChunk, &r.states[ch], r.chanPCM[ch])
		if chEnd {
			reachedEnd = true
		}
		produced := framesDone * SamplesPerFrame
		if produced > maxProduced {
			maxProduced = produced
		}
	}

	for s := 0; s < maxProduced; s++ {
		for ch := 0; ch < r.channels; ch++ {
			r.pcm[s*r.channels+ch] = r.chanPCM[ch][s]
		}
	}

	r.filled = maxProduced * r.channels
	r.cursor = 0
	r.pendingEnd = reachedEnd
	return nil
}

// ReadI16 fills out with up to len(out) decoded samples in interleaved
// channel order and returns the number written.
func (r *Reader) ReadI16(out []int16) (int, error) {
	total := 0
	for total < len(out) {
		if r.cursor >= r.filled {
			if r.filled > 0 && r.pendingEnd {
				r.state = stateEndOfStream
				break
			}
			if err := r.refill(); err != nil {
				return total, err
			}
			if r.filled == 0 {
				r.state = stateEndOfStream
				break
			}
			continue
		}
		out[total] = r.pcm[r.cursor]
		r.cursor++
		total++
	}
	if total > 0 && r.state != stateEndOfStream {
		r.state = stateStreaming
	}
	return total, nil
}

// ReadF32 fills out with up to len(out) decoded samples, scaled to the
// range [-1, 1), in interleaved channel order, and returns the number
// written.
func (r *Reader) ReadF32(out []float32) (int, error) {
	buf := make([]int16, len(out))
	n, err := r.ReadI16(buf)
	for i := 0; i < n; i++ {
		out[i] = float32(buf[i]) / 32768
	}
	return n, err
}

// ReadBytes fills out with little-endian 16-bit PCM and returns the number
// of samples written. len(out) is truncated down to an even length.
func (r *Reader) ReadBytes(out []byte) (int, error) {
	buf := make([]int16, len(out)/2)
	n, err := r.ReadI16(buf)
	for i := 0; i < n; i++ {
		v := uint16(buf[i])
		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)
	}
	return n, err
}

// Reset returns the reader to the start of the payload and zeroes predictor
// state, transitioning back to stateReady. The underlying stream must
// implement io.Seeker.
func (r *Reader) Reset() error {
	sk, ok := r.src.(io.Seeker)
	if !ok {
		return ErrNotSeekable
	}
	if _, err := sk.Seek(payloadStart, io.SeekStart); err != nil {
		return errors.Wrap(err, "vag: seeking to payload start")
	}
	for i := range r.states {
		r.states[i] = predState{}
	}
	r.cursor = 0
	r.filled = 0
	r.pendingEnd = false
	r.state = stateReady
	return nil
}

// Close releases the reader. If leaveOpen was false at construction and the
// underlying stream implements io.Closer, it is closed.
func (r *Reader) Close() error {
	if r.leaveOpen {
		return nil
	}
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
