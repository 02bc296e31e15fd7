/*
NAME
  chunk.go

DESCRIPTION
  chunk.go implements the chunk layer described in spec.md §4.4: grouping
  frames into per-channel blocks (and, for interleaved streams, chunks),
  and stamping end/repeat flags on terminal frames.

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

// frameCount returns the number of 16-byte frames needed to hold n samples,
// zero-padding the final frame as required by spec.md §4.4.
func frameCount(n int) int {
	return (n + SamplesPerFrame - 1) / SamplesPerFrame
}

// fillBlock copies up to SamplesPerFrame samples starting at offset off from
// samples into block, zero-padding block's remainder when samples runs out.
func fillBlock(block []int16, samples []int16, off int) {
	for i := range block {
		block[i] = 0
	}
	if off >= len(samples) {
		return
	}
	end := off + len(block)
	if end > len(samples) {
		end = len(samples)
	}
	copy(block, samples[off:end])
}

// encodeChannel encodes an entire channel's samples into consecutive,
// non-interleaved frames, zero-padding the final frame. The last frame
// carries flagEnd; all earlier frames carry flags 0x00.
func encodeChannel(samples []int16) []byte {
	n := frameCount(len(samples))
	out := make([]byte, n*FrameSize)
	var st predState
	block := make([]int16, SamplesPerFrame)
	for i := 0; i < n; i++ {
		fillBlock(block, samples, i*SamplesPerFrame)
		filter, shift, nibs, nh1, nh2 := chooseFrame(block, st.h1, st.h2)
		var flags byte
		if i == n-1 {
			flags = flagEnd
		}
		frame := packFrame(filter, shift, nibs, flags)
		st.h1, st.h2 = nh1, nh2
		copy(out[i*FrameSize:], frame[:])
	}
	return out
}

// encodeInterleavedChannel encodes one channel's samples into totalChunks
// chunks of framesPerChunk frames each, zero-padding past the channel's
// actual length. When loopFlags is set, every chunk's last frame carries
// flagLoop (0x03); the stream's final chunk additionally (or only, if
// loopFlags is unset) carries flagEnd on its last frame.
func encodeInterleavedChannel(samples []int16, framesPerChunk, totalChunks int, loopFlags bool) []byte {
	out := make([]byte, totalChunks*framesPerChunk*FrameSize)
	var st predState
	block := make([]int16, SamplesPerFrame)
	for c := 0; c < totalChunks; c++ {
		for f := 0; f < framesPerChunk; f++ {
			fillBlock(block, samples, c*framesPerChunk*SamplesPerFrame+f*SamplesPerFrame)
			filter, shift, nibs, nh1, nh2 := chooseFrame(block, st.h1, st.h2)

			var flags byte
			if f == framesPerChunk-1 {
				if loopFlags {
					flags |= flagLoop
				}
				if c == totalChunks-1 {
					flags |= flagEnd
				}
			}

			frame := packFrame(filter, shift, nibs, flags)
			st.h1, st.h2 = nh1, nh2
			off := (c*framesPerChunk + f) * FrameSize
			copy(out[off:], frame[:])
		}
	}
	return out
}

// decodeFrames decodes up to count consecutive frames belonging to a single
// channel from data into out (which must hold count*SamplesPerFrame
// samples), threading predictor state st across frames. It returns the
// number of frames actually decoded and whether end-of-stream was reached,
// either via a short read or an end-flagged frame.
func decodeFrames(data []byte, count int, st *predState, out []int16) (framesDone int, end bool) {
	for i := 0; i < count; i++ {
		off := i * FrameSize
		if off+FrameSize > len(data) {
			return i, true
		}
		e, _ := decodeFrame(data[off:off+FrameSize], st, out[i*SamplesPerFrame:(i+1)*SamplesPerFrame])
		if e {
			return i + 1, true
		}
	}
	return count, false
}
