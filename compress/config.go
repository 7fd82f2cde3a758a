/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package compress implements the sampling compressor (spec §4.7): given
// an input array and an optional "like" tree from a previous related
// chunk, it searches the registered compressed encodings and picks the
// one that measurably shrinks a sample, recursing into children.
package compress

import (
	"github.com/docker/go-units"

	"github.com/cph-data/vortex/array"
)

// Config enumerates every tunable of the sampling search (spec §4.7).
// Like the teacher's storage engine constants (`max_shardsize`), most
// fields have sane fixed defaults; BlockSize and SampleSize additionally
// accept human-readable sizes ("64KiB") the way an operator would type
// them into a config file, parsed with the same github.com/docker/
// go-units the teacher's go.mod already lists.
type Config struct {
	// BlockSize is the chunk size above which row-chunking (not this
	// compressor) takes over; default 65536 elements.
	BlockSize int
	// SampleSize is the element count of one sample slice; default 64.
	SampleSize int
	// SampleCount is the number of sample slices taken; default 10.
	SampleCount int
	// MaxDepth bounds compressor recursion into children; default 3.
	MaxDepth int
	// REEAverageRunThreshold is the minimum average run length (spec
	// §4.7) below which run-end encoding is not worth trying; default 2.0.
	REEAverageRunThreshold float64
	// Enabled, if non-empty, restricts candidates to this id set.
	Enabled map[array.EncodingID]bool
	// Disabled removes these ids from the candidate set regardless of
	// Enabled.
	Disabled map[array.EncodingID]bool
	// MaxCost, if non-zero, is the maximum compressed nbytes() the
	// chosen encoding's full-array compression may occupy; exceeding it
	// falls back to the uncompressed input.
	MaxCost int64
}

// DefaultConfig returns the spec's enumerated defaults.
func DefaultConfig() Config {
	return Config{
		BlockSize:              65536,
		SampleSize:             64,
		SampleCount:            10,
		MaxDepth:               3,
		REEAverageRunThreshold: 2.0,
	}
}

// ParseSize parses a human-readable size ("64KiB", "1MiB") the way an
// operator would write block_size/sample_size in a config file, via
// docker/go-units' binary-unit parser.
func ParseSize(s string) (int, error) {
	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (c Config) isEnabled(id array.EncodingID) bool {
	if c.Disabled != nil && c.Disabled[id] {
		return false
	}
	if c.Enabled != nil && len(c.Enabled) > 0 {
		return c.Enabled[id]
	}
	return true
}
