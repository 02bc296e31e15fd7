/*
NAME
  frame_test.go

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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSignExtendNibble(t *testing.T) {
	cases := []struct {
		in   byte
		want int32
	}{
		{0x0, 0},
		{0x1, 1},
		{0x7, 7},
		{0x8, -8},
		{0xf, -1},
	}
	for _, c := range cases {
		if got := signExtendNibble(c.in); got != c.want {
			t.Errorf("signExtendNibble(0x%x) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestDecodeSilentFrame(t *testing.T) {
	var frame [FrameSize]byte // filter 0, shift 0, flags 0, all nibbles 0.
	var st predState
	out := make([]int16, SamplesPerFrame)

	end, repeat := decodeFrame(frame[:], &st, out)
	if end || repeat {
		t.Fatalf("decodeFrame flags = (%v, %v), want (false, false)", end, repeat)
	}
	want := make([]int16, SamplesPerFrame)
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("decoded silent frame mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFrameEndFlag(t *testing.T) {
	var frame [FrameSize]byte
	frame[1] = flagEnd
	var st predState
	out := make([]int16, SamplesPerFrame)

	end, repeat := decodeFrame(frame[:], &st, out)
	if !end {
		t.Errorf("decodeFrame end = false, want true")
	}
	if repeat {
		t.Errorf("decodeFrame repeat = true, want false")
	}
}

func TestDecodeFrameCoercesOutOfRangeFilter(t *testing.T) {
	var frame [FrameSize]byte
	frame[0] = 0xf0 | 0x00 // filter 15 (invalid), shift 0.
	var st predState
	out := make([]int16, SamplesPerFrame)

	// Must not panic indexing predictorK1/K2 out of range.
	decodeFrame(frame[:], &st, out)
}

func TestDecodeFrameCoercesOutOfRangeShift(t *testing.T) {
	var frame [FrameSize]byte
	frame[0] = 0x0f // filter 0, shift 15 (invalid, coerced to defaultShift).
	frame[2] = 0x01 // one nonzero nibble so the coercion is observable.
	var st predState
	out := make([]int16, SamplesPerFrame)
	decodeFrame(frame[:], &st, out)

	leftShift := uint(shiftRange - defaultShift)
	want := saturateInt16(signExtendNibble(0x1) << leftShift)
	if out[0] != want {
		t.Errorf("out[0] = %d, want %d", out[0], want)
	}
}

func TestPackFrameRoundTripsNibbles(t *testing.T) {
	var nibs [SamplesPerFrame]int8
	for i := range nibs {
		nibs[i] = int8(i%16 - 8)
	}
	frame := packFrame(2, 9, nibs, flagEnd)

	if got := frame[0] >> 4; got != 2 {
		t.Errorf("filter nibble = %d, want 2", got)
	}
	if got := frame[0] & 0x0f; got != 9 {
		t.Errorf("shift nibble = %d, want 9", got)
	}
	if frame[1] != flagEnd {
		t.Errorf("flags = %#x, want %#x", frame[1], flagEnd)
	}

	for i, want := range nibs {
		b := frame[2+i/2]
		var got byte
		if i%2 == 0 {
			got = b & 0x0f
		} else {
			got = b >> 4
		}
		if int8(signExtendNibble(got)) != want {
			t.Errorf("nibble %d round-trip = %d, want %d", i, int8(signExtendNibble(got)), want)
		}
	}
}
