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

package distbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseInitializeIdempotent(t *testing.T) {
	e := NewElectrical()
	e.Initialize(true, 120)
	e.ForceSupplyRole()
	e.Initialize(true, 120)

	// ForcedRole is intentionally not reset by Initialize.
	assert.Equal(t, RoleSupply, e.ForcedRole())
	assert.False(t, e.OutData.DemandMode)
	assert.Equal(t, 0, e.FramesSinceFlip())
}

func TestUpdateFrameCounts(t *testing.T) {
	e := NewElectrical()
	e.Initialize(true, 120)

	e.InData.FrameCount = 5
	e.ProcessInputs()
	require.EqualValues(t, 1, e.OutData.FrameCount)
	assert.EqualValues(t, 5, e.OutData.FrameLoopback)

	e.ProcessInputs()
	assert.EqualValues(t, 2, e.OutData.FrameCount)
}

func TestPopNotificationLIFOAndEmpty(t *testing.T) {
	b := &Base{}
	var dummy BaseData
	b.initBase(&dummy, &dummy)

	b.pushNotification(NotificationInfo, "first")
	b.pushNotification(NotificationWarn, "second")

	n, remaining := b.PopNotification()
	assert.Equal(t, "second", n.Message)
	assert.Equal(t, 1, remaining)

	n, remaining = b.PopNotification()
	assert.Equal(t, "first", n.Message)
	assert.Equal(t, 0, remaining)

	n, remaining = b.PopNotification()
	assert.Equal(t, NotificationNone, n.Level)
	assert.Equal(t, 0, remaining)
}

func TestDrainNotifications(t *testing.T) {
	b := &Base{}
	var dummy BaseData
	b.initBase(&dummy, &dummy)

	assert.Nil(t, b.DrainNotifications())

	b.pushNotification(NotificationInfo, "a")
	b.pushNotification(NotificationInfo, "b")
	b.pushNotification(NotificationInfo, "c")

	drained := b.DrainNotifications()
	require.Len(t, drained, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{drained[0].Message, drained[1].Message, drained[2].Message})

	_, remaining := b.PopNotification()
	assert.Equal(t, 0, remaining)
}

func TestForceRoleOverridesArbitration(t *testing.T) {
	e := NewElectrical()
	e.Initialize(false, 0)
	e.ForceSupplyRole()

	e.InData.FrameCount = 10
	e.InData.FrameLoopback = 1
	e.InData.SupplyVoltage = 1000 // would otherwise force Demand
	e.ProcessInputs()
	e.Update(0, 0)
	assert.False(t, e.IsInDemandRole())

	e.ForceDemandRole()
	e.ProcessInputs()
	e.Update(0, 0)
	assert.True(t, e.IsInDemandRole())

	e.ResetForceRole()
	assert.Equal(t, RoleNone, e.ForcedRole())
}
