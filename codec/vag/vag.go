/*
NAME
  vag.go

DESCRIPTION
  vag.go contains the shared constants, predictor coefficient tables and
  small types used throughout the vag package.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package vag provides encoding and decoding of PSX VAG ADPCM audio, in
// both its non-interleaved (VAGp) and interleaved (VAGi) container forms.
package vag

const (
	// FrameSize is the number of bytes in a single ADPCM frame on the wire.
	FrameSize = 16

	// SamplesPerFrame is the number of PCM samples a single frame decodes to.
	SamplesPerFrame = 28

	// maxFilter is the highest predictor filter index accepted without
	// coercion on decode.
	maxFilter = 5

	// maxShift is the highest shift factor accepted without coercion on
	// decode.
	maxShift = 12

	// defaultShift is substituted for an out-of-range shift nibble.
	defaultShift = 9

	// shiftRange is the fixed-point width used by the predictor search and
	// quantizer, per the encode algorithm in spec.md §4.2.
	shiftRange = 12
)

// Frame flag bits (byte 1 of a frame).
const (
	flagEnd    byte = 0x01 // end of stream / mute
	flagRepeat byte = 0x02 // repeat / loop
	flagLoop        = flagEnd | flagRepeat
)

// predictorK1 and predictorK2 are the PSX ADPCM predictor coefficients,
// fixed-point scaled by 64 (i.e. actual coefficient = k/64). Filter indices
// 0-5 are meaningful on decode; index 5 is not separately defined by the
// canonical table and is treated the same as the no-predictor filter 0 (see
// DESIGN.md's Open Question resolution for the filter table).
var predictorK1 = [maxFilter + 1]int32{0, 60, 115, 98, 122, 0}
var predictorK2 = [maxFilter + 1]int32{0, 0, -52, -55, -60, 0}

// predState holds the per-channel predictor history threaded between
// consecutive frames. It is reset to the zero value at stream start and
// (for interleaved streams) is never reset between a channel's chunks.
type predState struct {
	h1, h2 int16
}

// predict returns the linear-predictor estimate for the given filter and
// predictor history, using the same integer fixed-point arithmetic on both
// encode and decode so that a decoder replays exactly what the encoder saw.
func predict(filter int, h1, h2 int16) int32 {
	return (predictorK1[filter]*int32(h1) + predictorK2[filter]*int32(h2) + 32) >> 6
}

// Format distinguishes the two VAG container variants.
type Format int

const (
	// NonInterleaved is the single-channel VAGp layout.
	NonInterleaved Format = iota
	// Interleaved is the multi-channel VAGi layout.
	Interleaved
)

func (f Format) String() string {
	if f == Interleaved {
		return "VAGi"
	}
	return "VAGp"
}

// saturateInt16 clamps v to the signed 16-bit range.
func saturateInt16(v int32) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	default:
		return int16(v)
	}
}
