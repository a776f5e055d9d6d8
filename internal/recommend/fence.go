// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package recommend

import "sync/atomic"

// Fence issues increasing query sequence numbers. A response is current only
// while no newer number has been issued.
type Fence struct {
	seq atomic.Uint64
}

// Next issues a new sequence number, superseding all earlier ones.
func (f *Fence) Next() uint64 {
	return f.seq.Add(1)
}

// Current reports whether seq is the latest issued number.
func (f *Fence) Current(seq uint64) bool {
	return seq != 0 && f.seq.Load() == seq
}

// Latest returns the latest issued number, 0 if none.
func (f *Fence) Latest() uint64 {
	return f.seq.Load()
}
