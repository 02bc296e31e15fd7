/*
NAME
  chunkreader.go

DESCRIPTION
  chunkreader.go implements a fixed-size chunk reader, adapted from the
  buffer/reload idiom of this package's former delimiter-scanning
  ByteScanner for codecs (such as vag) that read whole fixed-size records
  rather than scanning for a delimiter.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package codecutil provides small byte-level helpers shared by codec
// packages.
package codecutil

import "io"

// ChunkReader reads fixed-size chunks from an underlying io.Reader,
// tolerating a short final chunk at end of stream rather than treating it
// as an error.
type ChunkReader struct {
	r io.Reader
}

// NewChunkReader returns a ChunkReader that reads from r.
func NewChunkReader(r io.Reader) *ChunkReader {
	return &ChunkReader{r: r}
}

// ReadChunk fills buf as completely as possible from the underlying reader.
// It returns the number of bytes actually read and a nil error even when
// fewer than len(buf) bytes were available before the stream ended; callers
// distinguish a short chunk by comparing the returned count against
// len(buf). A non-nil error indicates an I/O failure unrelated to reaching
// the end of the stream.
func (c *ChunkReader) ReadChunk(buf []byte) (int, error) {
	n, err := io.ReadFull(c.r, buf)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return n, nil
	}
	return n, err
}
