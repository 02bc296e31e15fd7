/*
NAME
  predictor_test.go

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

import "testing"

func TestChooseFrameSilence(t *testing.T) {
	block := make([]int16, SamplesPerFrame)
	filter, shift, nibs, h1, h2 := chooseFrame(block, 0, 0)
	if filter != 0 || shift != 0 {
		t.Errorf("chooseFrame(silence) = (filter %d, shift %d), want (0, 0)", filter, shift)
	}
	for i, n := range nibs {
		if n != 0 {
			t.Errorf("nibs[%d] = %d, want 0", i, n)
		}
	}
	if h1 != 0 || h2 != 0 {
		t.Errorf("chooseFrame(silence) history = (%d, %d), want (0, 0)", h1, h2)
	}
}

func TestChooseFrameRampRoundTrips(t *testing.T) {
	block := make([]int16, SamplesPerFrame)
	for i := range block {
		block[i] = int16(i * 100)
	}

	filter, shift, nibs, _, _ := chooseFrame(block, 0, 0)
	frame := packFrame(filter, shift, nibs, 0)

	var st predState
	out := make([]int16, SamplesPerFrame)
	decodeFrame(frame[:], &st, out)

	const tolerance = 600
	for i, want := range block {
		diff := int(out[i]) - int(want)
		if diff < -tolerance || diff > tolerance {
			t.Errorf("sample %d = %d, want close to %d (diff %d)", i, out[i], want, diff)
		}
	}
}

func TestEstimateShiftFitsResiduals(t *testing.T) {
	block := make([]int16, SamplesPerFrame)
	for i := range block {
		block[i] = 30000
	}
	shift := estimateShift(block, 0, 0, 0)
	if shift < 0 || shift > maxShift {
		t.Fatalf("estimateShift returned out-of-range shift %d", shift)
	}
	if q := int32(30000) >> uint(shiftRange-shift); q > 7 || q < -8 {
		t.Errorf("estimateShift = %d: residual 30000 scales to %d, outside the nibble range", shift, q)
	}
}

func TestIsSilent(t *testing.T) {
	if !isSilent(make([]int16, SamplesPerFrame)) {
		t.Errorf("isSilent(zeros) = false, want true")
	}
	nonZero := make([]int16, SamplesPerFrame)
	nonZero[10] = 1
	if isSilent(nonZero) {
		t.Errorf("isSilent(nonzero) = true, want false")
	}
}
