// Copyright 2023 The go-probeum Authors
// This file is part of the go-probeum library.
//
// The go-probeum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probeum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probeum library. If not, see <http://www.gnu.org/licenses/>.

// Package transport provides test/demo helpers for driving a distbus pair
// without a real HLA-style network. LagBuffer is a ring buffer of
// snapshots in both directions that injects a configurable amount of
// whole-frame round-trip lag, for exercising the role-arbitration and
// stability-filter logic under realistic latency.
//
// This is not a production transport - like the GUNNS utility it's
// grounded on, it exists to dial in a desired amount of lag for testing
// and demonstration, and cmd/distbusd is its only real caller.
package transport

import mapset "github.com/deckarep/golang-set"

// minBufferSlots is the number of ring slots LagBuffer allocates beyond
// delayFrames. With zero delay the head and tail indices are the same slot,
// so a snapshot can be read back before the next Step.
const minBufferSlots = 2

// LagBuffer is a bidirectional ring buffer of snapshots of type T. Side A
// writes to Head1 and reads from Tail2; side B writes to Head2 and reads
// from Tail1. Calling Step before each side's local step advances both
// ring pointers. A snapshot written to a head slot reaches the matching
// tail delayFrames Steps later, so for delayFrames >= 1 a pair stepped this
// way measures a round-trip loop latency of 2*delayFrames frames.
//
// Generalized from the original GunnsFluidDistributedIfLagBuffer (fixed at
// 10 slots of a single fluid-only snapshot type) to work with either
// variant's snapshot type, and to size the ring to the requested delay
// instead of silently capping it at 9 frames.
type LagBuffer[T any] struct {
	delayFrames int
	buffer1     []T
	buffer2     []T
	headIndex   int
	tailIndex   int

	// inFlight tracks which ring slots currently hold a snapshot that has
	// been written but not yet read, for harness diagnostics.
	inFlight mapset.Set
}

// NewLagBuffer constructs a LagBuffer with the given one-way delay in
// frames. delayFrames is clamped to be non-negative.
func NewLagBuffer[T any](delayFrames int) *LagBuffer[T] {
	if delayFrames < 0 {
		delayFrames = 0
	}
	size := delayFrames + minBufferSlots
	b := &LagBuffer[T]{
		delayFrames: delayFrames,
		buffer1:     make([]T, size),
		buffer2:     make([]T, size),
		inFlight:    mapset.NewSet(),
	}
	b.headIndex = delayFrames
	return b
}

func (b *LagBuffer[T]) size() int { return len(b.buffer1) }

// Step advances the ring's head and tail indices by one slot, wrapping
// around at the end of the buffer. Call this once per frame, before the
// models that interface with the buffer run.
func (b *LagBuffer[T]) Step() {
	b.headIndex = (b.headIndex + 1) % b.size()
	b.tailIndex = (b.tailIndex + 1) % b.size()
	b.inFlight.Add(b.headIndex)
	b.inFlight.Remove(b.tailIndex)
}

// WriteHead1 publishes side A's outgoing snapshot into the current head
// slot of buffer 1.
func (b *LagBuffer[T]) WriteHead1(v T) { b.buffer1[b.headIndex] = v }

// WriteHead2 publishes side B's outgoing snapshot into the current head
// slot of buffer 2.
func (b *LagBuffer[T]) WriteHead2(v T) { b.buffer2[b.headIndex] = v }

// ReadTail1 returns the oldest not-yet-read snapshot written by side A,
// the value side B should copy into its InData.
func (b *LagBuffer[T]) ReadTail1() T { return b.buffer1[b.tailIndex] }

// ReadTail2 returns the oldest not-yet-read snapshot written by side B,
// the value side A should copy into its InData.
func (b *LagBuffer[T]) ReadTail2() T { return b.buffer2[b.tailIndex] }

// Pending returns the number of ring slots currently holding an
// unread-but-written snapshot, for harness diagnostics.
func (b *LagBuffer[T]) Pending() int { return b.inFlight.Cardinality() }

// DelayFrames returns the configured one-way delay.
func (b *LagBuffer[T]) DelayFrames() int { return b.delayFrames }
