/*
NAME
  pcm_test.go

DESCRIPTION
  pcm_test.go contains functions for testing the pcm package.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pcm

import "testing"

func TestDataSize(t *testing.T) {
	got := DataSize(48000, 1, 16, 1.0)
	want := 96000
	if got != want {
		t.Errorf("DataSize() = %d, want %d", got, want)
	}
}

func TestSampleFormatString(t *testing.T) {
	cases := []struct {
		f    SampleFormat
		want string
	}{
		{S16_LE, "S16_LE"},
		{S32_LE, "S32_LE"},
		{Unknown, "Unknown"},
	}
	for _, c := range cases {
		if got := c.f.String(); got != c.want {
			t.Errorf("%v.String() = %q, want %q", int(c.f), got, c.want)
		}
	}
}

func TestSFFromString(t *testing.T) {
	cases := []struct {
		in      string
		want    SampleFormat
		wantErr bool
	}{
		{"S16_LE", S16_LE, false},
		{"S32_LE", S32_LE, false},
		{"bogus", Unknown, true},
	}
	for _, c := range cases {
		got, err := SFFromString(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("SFFromString(%q) error = %v, wantErr %v", c.in, err, c.wantErr)
			continue
		}
		if got != c.want {
			t.Errorf("SFFromString(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
