/*
NAME
  chunkreader_test.go

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package codecutil

import (
	"bytes"
	"testing"
)

func TestChunkReaderFull(t *testing.T) {
	cr := NewChunkReader(bytes.NewReader([]byte("abcdefgh")))
	buf := make([]byte, 4)

	n, err := cr.ReadChunk(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 || string(buf) != "abcd" {
		t.Fatalf("got %d, %q, want 4, %q", n, buf, "abcd")
	}

	n, err = cr.ReadChunk(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 || string(buf) != "efgh" {
		t.Fatalf("got %d, %q, want 4, %q", n, buf, "efgh")
	}
}

func TestChunkReaderShortFinalChunk(t *testing.T) {
	cr := NewChunkReader(bytes.NewReader([]byte("abc")))
	buf := make([]byte, 4)

	n, err := cr.ReadChunk(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("got %d, want 3", n)
	}
}

func TestChunkReaderEmpty(t *testing.T) {
	cr := NewChunkReader(bytes.NewReader(nil))
	buf := make([]byte, 4)

	n, err := cr.ReadChunk(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("got %d, want 0", n)
	}
}
