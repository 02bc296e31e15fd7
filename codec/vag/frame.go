/*
NAME
  frame.go

DESCRIPTION
  frame.go implements encoding and decoding of a single 16-byte ADPCM frame,
  per spec.md §4.1 and §4.2.

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

// decodeFrame decodes the 16 bytes in frame into the 28 samples of out,
// threading predictor state st across the call. It reports end-of-stream
// (true only when the flag byte's low two bits are exactly 01, so a 0x03
// loop-flagged frame does not end the stream) and whether the repeat bit is
// set, so the caller can drive the reader's state machine.
//
// Out-of-range filter and shift nibbles are coerced rather than rejected,
// per spec.md §4.1 and §7: real-world files occasionally carry them.
func decodeFrame(frame []byte, st *predState, out []int16) (end, repeat bool) {
	filter := int(frame[0] >> 4)
	if filter > maxFilter {
		filter = 0
	}
	shift := int(frame[0] & 0x0f)
	if shift > maxShift {
		shift = defaultShift
	}
	leftShift := uint(shiftRange - shift)

	flags := frame[1]
	end = flags&(flagEnd|flagRepeat) == flagEnd
	repeat = flags&flagRepeat != 0

	h1, h2 := st.h1, st.h2
	for i := 0; i < SamplesPerFrame; i++ {
		b := frame[2+i/2]
		var nib byte
		if i%2 == 0 {
			nib = b & 0x0f
		} else {
			nib = b >> 4
		}
		n := signExtendNibble(nib)

		raw := predict(filter, h1, h2) + (n << leftShift)
		out[i] = saturateInt16(raw)

		// Predictor history carries the pre-saturation value, per
		// spec.md §4.1 step 6.
		h2 = h1
		h1 = int16(raw)
	}
	st.h1, st.h2 = h1, h2
	return end, repeat
}

// signExtendNibble sign-extends the low 4 bits of nib to a 32-bit value in
// the range -8..7.
func signExtendNibble(nib byte) int32 {
	return int32(int8(nib<<4)) >> 4
}

// packFrame packs filter, shift, the 28 quantized nibbles and flags into a
// 16-byte wire frame.
func packFrame(filter, shift int, nibbles [SamplesPerFrame]int8, flags byte) [FrameSize]byte {
	var out [FrameSize]byte
	out[0] = byte(shift&0x0f) | byte(filter<<4)
	out[1] = flags
	for i, nib := range nibbles {
		b := byte(nib) & 0x0f
		if i%2 == 0 {
			out[2+i/2] |= b
		} else {
			out[2+i/2] |= b << 4
		}
	}
	return out
}
