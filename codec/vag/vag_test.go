/*
NAME
  vag_test.go

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

func TestSaturateInt16(t *testing.T) {
	cases := []struct {
		in   int32
		want int16
	}{
		{0, 0},
		{32767, 32767},
		{32768, 32767},
		{100000, 32767},
		{-32768, -32768},
		{-32769, -32768},
		{-100000, -32768},
	}
	for _, c := range cases {
		if got := saturateInt16(c.in); got != c.want {
			t.Errorf("saturateInt16(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFormatString(t *testing.T) {
	if got := NonInterleaved.String(); got != "VAGp" {
		t.Errorf("NonInterleaved.String() = %q, want %q", got, "VAGp")
	}
	if got := Interleaved.String(); got != "VAGi" {
		t.Errorf("Interleaved.String() = %q, want %q", got, "VAGi")
	}
}

func TestPredictZeroFilter(t *testing.T) {
	if got := predict(0, 100, 200); got != 0 {
		t.Errorf("predict(0, 100, 200) = %d, want 0", got)
	}
}
