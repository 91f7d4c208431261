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

import "fmt"

// ElectSupplyData describes the ability of one local voltage regulator to
// supply power at the interface location. The local model creates zero or
// more of these via Electrical.CreateSupplyData and updates them every
// step; the core owns the storage.
type ElectSupplyData struct {
	// Available is true if the regulator is enabled and has a conduction
	// path to the interface.
	Available bool
	// MaximumVoltage is the regulator's setpoint or ceiling voltage (V).
	MaximumVoltage float32
}

// ElectData is the electrical variant's wire snapshot: the base frame
// counters plus the demanded power and supplied voltage.
type ElectData struct {
	BaseData
	// DemandPower is the power (W) the Demand side pulls from the shared
	// bus; zero when this side is Supply.
	DemandPower float32
	// SupplyVoltage is the local interface voltage when Supply, or the
	// highest locally-available regulated voltage when Demand.
	SupplyVoltage float32
}

// HasValidData additionally requires at least two frames to have been
// exchanged, per spec.md §4.1.
func (d *ElectData) HasValidData() bool {
	return d.FrameCount > 1
}

// Electrical is the electrical variant of the bus interface: arbitrates
// which side drives the shared bus voltage, based on each side's best
// available local voltage source.
type Electrical struct {
	Base

	InData  ElectData
	OutData ElectData

	supplyDatas []*ElectSupplyData
}

// NewElectrical constructs an Electrical interface. Call Initialize before
// using it.
func NewElectrical() *Electrical {
	e := &Electrical{}
	e.initBase(&e.InData.BaseData, &e.OutData.BaseData)
	return e
}

// CreateSupplyData registers a new local voltage supply with the core and
// returns a pointer the caller updates every step to describe that
// supply's current availability and voltage.
func (e *Electrical) CreateSupplyData() *ElectSupplyData {
	s := &ElectSupplyData{}
	e.supplyDatas = append(e.supplyDatas, s)
	return s
}

// Initialize sets up this interface. isPrimarySide starts that side in
// the Supply role as the initial bootstrap condition; the role may swap
// immediately once real peer data arrives. Both sides' SupplyVoltage is
// seeded to voltage.
func (e *Electrical) Initialize(isPrimarySide bool, voltage float32) {
	e.Base.Initialize(isPrimarySide)
	e.InData.DemandMode = isPrimarySide
	e.OutData.DemandMode = !isPrimarySide
	e.InData.SupplyVoltage = voltage
	e.OutData.SupplyVoltage = voltage
}

// ProcessInputs advances the frame counters. All mode decisions happen in
// Update.
func (e *Electrical) ProcessInputs() {
	e.updateFrameCounts()
}

// availableVoltage returns the maximum MaximumVoltage among supply
// descriptors currently marked Available, or zero if none are.
func (e *Electrical) availableVoltage() float32 {
	var best float32
	found := false
	for _, s := range e.supplyDatas {
		if s.Available && (!found || s.MaximumVoltage > best) {
			best = s.MaximumVoltage
			found = true
		}
	}
	return best
}

// Update is the step workhorse: it arbitrates role based on forced role
// and peer data, then publishes this side's OutData accordingly.
func (e *Electrical) Update(localVoltage, localPowerDemand float32) {
	availV := e.availableVoltage()

	switch e.ForcedRole() {
	case RoleSupply:
		e.OutData.DemandMode = false
	case RoleDemand:
		e.OutData.DemandMode = true
	default:
		if e.InData.FrameLoopback > 0 {
			if e.OutData.DemandMode && e.InData.DemandMode && e.FramesSinceFlip() > e.LoopLatency() {
				e.flipRole(false)
				e.pushNotification(NotificationInfo, "flipping to Supply role, remote is also Demand")
			} else if !e.OutData.DemandMode && availV < e.InData.SupplyVoltage {
				e.flipRole(true)
				e.pushNotification(NotificationInfo, fmt.Sprintf(
					"flipping to Demand role with available V: %v < remote V: %v", availV, e.InData.SupplyVoltage))
			}
		}
	}

	if e.OutData.DemandMode {
		e.OutData.SupplyVoltage = availV
		e.OutData.DemandPower = localPowerDemand
	} else {
		e.OutData.SupplyVoltage = localVoltage
		e.OutData.DemandPower = 0
	}
}

// GetRemoteLoad returns the power demand from the remote model to apply to
// the local model: the peer's DemandPower if we're Supply, else zero.
func (e *Electrical) GetRemoteLoad() float32 {
	if e.OutData.DemandMode {
		return 0
	}
	return e.InData.DemandPower
}

// GetRemoteSupply returns the voltage supplied by the remote model,
// unconditionally of role - even in Supply role the local model may use
// the peer's potential voltage as a diode fallback (spec.md §9).
func (e *Electrical) GetRemoteSupply() float32 {
	return e.InData.SupplyVoltage
}
