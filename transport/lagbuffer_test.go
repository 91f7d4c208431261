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

package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLagBufferZeroDelayIsVisibleImmediately(t *testing.T) {
	b := NewLagBuffer[int](0)
	assert.Equal(t, 0, b.DelayFrames())

	b.WriteHead1(7)
	assert.Equal(t, 7, b.ReadTail1(), "zero delay: no Step needed before the value surfaces")
}

func TestLagBufferDelayFramesDelaysVisibility(t *testing.T) {
	b := NewLagBuffer[int](2)
	assert.Equal(t, 2, b.DelayFrames())

	b.WriteHead1(42)
	assert.NotEqual(t, 42, b.ReadTail1())

	b.Step()
	assert.NotEqual(t, 42, b.ReadTail1(), "only one of two required steps has run")

	b.Step()
	assert.Equal(t, 42, b.ReadTail1(), "value surfaces after exactly delayFrames steps")
}

func TestLagBufferBothDirectionsIndependent(t *testing.T) {
	b := NewLagBuffer[string](1)

	b.WriteHead1("a-to-b")
	b.WriteHead2("b-to-a")
	b.Step()

	assert.Equal(t, "a-to-b", b.ReadTail1())
	assert.Equal(t, "b-to-a", b.ReadTail2())
}

func TestLagBufferNegativeDelayClampsToZero(t *testing.T) {
	b := NewLagBuffer[int](-5)
	assert.Equal(t, 0, b.DelayFrames())
}

func TestLagBufferPendingTracksInFlightSlot(t *testing.T) {
	b := NewLagBuffer[int](1)
	assert.Equal(t, 0, b.Pending())

	b.WriteHead1(1)
	b.Step()
	assert.Equal(t, 1, b.Pending())

	b.WriteHead1(2)
	b.Step()
	assert.Equal(t, 1, b.Pending(), "steady state: one new slot added, one old slot retired")
}
