/*
NAME
  predictor.go

DESCRIPTION
  predictor.go implements the predictor search described in spec.md §4.3:
  for a 28-sample block, pick the (filter, shift) pair that minimizes
  reconstruction error, by trial-encoding a narrow window of candidate
  shifts around a computed minimum for every filter.

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

import "math"

// quantizeBlock trial-encodes a 28-sample block with the given filter and
// shift, starting from predictor history h1, h2. It returns the quantized
// nibbles, the mean squared reconstruction error, and the predictor history
// that would result from committing this encode (using the saturated
// reconstructed sample for feedback, per spec.md §4.2 step 6).
func quantizeBlock(block []int16, filter, shift int, h1, h2 int16) (nibbles [SamplesPerFrame]int8, mse float64, newH1, newH2 int16) {
	leftShift := uint(shiftRange - shift)
	roundConst := int32(1) << (shiftRange - 1)
	const nibMax, nibMin = 7, -8

	for i, s := range block {
		pred := predict(filter, h1, h2)
		residual := int32(s) - pred

		q := (residual<<uint(shift) + roundConst) >> shiftRange
		switch {
		case q > nibMax:
			q = nibMax
		case q < nibMin:
			q = nibMin
		}

		recon := pred + (q << leftShift)
		rs := saturateInt16(recon)

		diff := float64(rs) - float64(s)
		mse += diff * diff

		nibbles[i] = int8(q)
		h2 = h1
		h1 = rs
	}
	return nibbles, mse / float64(len(block)), h1, h2
}

// estimateShift finds the residual range of block under the given filter
// (ignoring quantization, i.e. feeding back the original samples rather than
// reconstructed ones) and returns the largest (finest) shift for which every
// residual fits the 4-bit nibble range, i.e. the one needing the smallest
// right-shift of the residuals, per spec.md §4.3.
func estimateShift(block []int16, filter int, h1, h2 int16) int {
	const nibMax, nibMin = 0x7fff >> shiftRange, -(0x8000 >> shiftRange)

	var min, max int32
	for i, s := range block {
		residual := int32(s) - predict(filter, h1, h2)
		if i == 0 || residual > max {
			max = residual
		}
		if i == 0 || residual < min {
			min = residual
		}
		h2 = h1
		h1 = s
	}

	rshift := 0
	for rshift <= shiftRange {
		if max>>uint(rshift) <= nibMax && min>>uint(rshift) >= nibMin {
			break
		}
		rshift++
	}
	if rshift > shiftRange {
		rshift = shiftRange
	}
	return shiftRange - rshift
}

// chooseFrame searches filters 0..5 and a narrow window of shifts around
// each filter's estimated minimum, returning the (filter, shift) pair and
// resulting encode that minimizes mean squared error. Ties are broken by
// earliest-encountered, matching the iteration order below.
func chooseFrame(block []int16, h1, h2 int16) (filter, shift int, nibbles [SamplesPerFrame]int8, newH1, newH2 int16) {
	if isSilent(block) {
		// A block of exact silence ties every (filter, shift) pair at zero
		// error; spec.md §8's worked examples fix the tie-break to filter 0,
		// shift 0 (header byte 0x00) rather than the otherwise-preferred
		// finest shift, so it's special-cased here.
		return 0, 0, [SamplesPerFrame]int8{}, 0, 0
	}

	bestMSE := math.Inf(1)
	for f := 0; f <= maxFilter; f++ {
		cand := estimateShift(block, f, h1, h2)
		for _, s := range [3]int{cand - 1, cand, cand + 1} {
			if s < 0 || s > maxShift {
				continue
			}
			nibs, mse, nh1, nh2 := quantizeBlock(block, f, s, h1, h2)
			if mse < bestMSE {
				bestMSE = mse
				filter, shift, nibbles, newH1, newH2 = f, s, nibs, nh1, nh2
			}
		}
	}
	return filter, shift, nibbles, newH1, newH2
}

// isSilent reports whether every sample in block is zero.
func isSilent(block []int16) bool {
	for _, s := range block {
		if s != 0 {
			return false
		}
	}
	return true
}
