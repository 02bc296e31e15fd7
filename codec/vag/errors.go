/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the sentinel error values returned by the vag package,
  per spec.md §7.

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

import "github.com/pkg/errors"

var (
	// ErrBadMagic is returned when a stream's magic bytes are neither
	// "VAGp" nor "VAGi". It is fatal: the reader cannot be constructed.
	ErrBadMagic = errors.New("vag: bad magic")

	// ErrInvalidWriterConfig is returned by the writer constructors when
	// given an invalid channel count, sample rate or chunk size.
	ErrInvalidWriterConfig = errors.New("vag: invalid writer configuration")

	// ErrWriteAfterFinalize is returned by Append or Finalize once a
	// Writer has already been finalized.
	ErrWriteAfterFinalize = errors.New("vag: write after finalize")

	// ErrNotSeekable is returned by Reader.Reset when the underlying
	// input does not implement io.Seeker.
	ErrNotSeekable = errors.New("vag: reset requires a seekable input")
)
