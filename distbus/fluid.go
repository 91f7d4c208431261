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

import "github.com/nasa-gunns/distbus/common"

// Stability filter tuning constants. These are part of the interface's
// stability contract, not arbitrary magic numbers - tests depend on their
// exact values (spec.md §9).
const (
	// modingCapacitanceRatio is the factor by which the peer's capacitance
	// must exceed a Supply side's own to trigger a runtime Supply->Demand
	// flip; also the upper clamp on the Supply-over-Demand capacitance ratio
	// (csOverCd) used in the filter gain.
	modingCapacitanceRatio = 1.25

	// demandFilterConstA, demandFilterConstB are the lag-gain coefficients:
	// lagGain = min(1, demandFilterConstA * demandFilterConstB^loopLatency).
	demandFilterConstA = 1.5
	demandFilterConstB = 0.75

	// capacitanceGainSlope scales how quickly the filter gain rises toward
	// 1 as the peer's capacitance grows relative to ours.
	capacitanceGainSlope = 4.0

	// loopLatencyExponentMin/Max clamp the exponent used in the lag-gain
	// calculation, independent of the raw measured loopLatency.
	loopLatencyExponentMin = 1
	loopLatencyExponentMax = 100

	// capacitanceEpsilon is the minimum timestep and capacitance magnitude
	// the demand-limit filter requires before computing csOverCd/gain, to
	// avoid a divide-by-zero (mirrors the original's FLT_EPSILON guard).
	capacitanceEpsilon = 1.1920929e-7
)

// FluidData is the fluid variant's wire snapshot.
type FluidData struct {
	BaseData
	MixtureData

	// Capacitance is this side's local model capacitance at the interface
	// (mol/Pa). Non-negative.
	Capacitance float64
	// Source is pressure (Pa) at the interface when Supply, or molar flow
	// rate (mol/s, positive = Supply into Demand) when Demand.
	Source float64
}

// HasValidData requires the base frame condition plus non-negative
// capacitance, positive energy, non-negative mixture fractions, and (when
// this snapshot represents a Supply side) non-negative Source.
func (d *FluidData) HasValidData() bool {
	if !d.BaseData.HasValidData() {
		return false
	}
	if d.Capacitance < 0 || d.Energy <= 0 {
		return false
	}
	if !d.hasValidMixture() {
		return false
	}
	if !d.DemandMode && d.Source < 0 {
		return false
	}
	return true
}

// Fluid is the fluid variant of the bus interface: arbitrates Supply/Demand
// based on capacitance, and runs the Demand-side flow-rate stability
// filter.
type Fluid struct {
	Base

	InData  FluidData
	OutData FluidData

	demandLimitGain     float64
	demandLimitFlowRate float64

	lastFlowConflict bool
}

// NewFluid constructs a Fluid interface. Call Initialize before using it.
func NewFluid() *Fluid {
	f := &Fluid{}
	f.initBase(&f.InData.BaseData, &f.OutData.BaseData)
	return f
}

// Initialize sets up this interface and allocates the InData/OutData
// mixture arrays to the given sizes.
func (f *Fluid) Initialize(isPairMaster bool, nBulk, nTc uint) {
	f.Base.Initialize(isPairMaster)
	f.InData.MixtureData.Initialize(nBulk, nTc)
	f.OutData.MixtureData.Initialize(nBulk, nTc)
	f.demandLimitGain = 0
	f.demandLimitFlowRate = 0
	f.lastFlowConflict = false
}

// DemandLimitGain returns the most recently computed stability filter
// gain, for observability.
func (f *Fluid) DemandLimitGain() float64 { return f.demandLimitGain }

// DemandLimitFlowRate returns the most recently computed maximum permitted
// Demand-side flow rate, for observability.
func (f *Fluid) DemandLimitFlowRate() float64 { return f.demandLimitFlowRate }

// LastFlowConflict reports whether the most recent computeDemandLimit call
// observed both sides of the interface implying inflow simultaneously -
// the condition the original GUNNS fluid conductor had a disabled assert
// for (spec.md §9). This core never errors on it; it's exposed purely so
// tests can detect the condition without changing runtime behavior.
func (f *Fluid) LastFlowConflict() bool { return f.lastFlowConflict }

// flipToDemandMode transitions this side to Demand and pushes an INFO
// notification.
func (f *Fluid) flipToDemandMode(reason string) {
	f.flipRole(true)
	f.pushNotification(NotificationInfo, "flipping to Demand role: "+reason)
}

// flipToSupplyMode transitions this side to Supply and pushes an INFO
// notification.
func (f *Fluid) flipToSupplyMode(reason string) {
	f.flipRole(false)
	f.pushNotification(NotificationInfo, "flipping to Supply role: "+reason)
}

// ProcessInputs advances the frame counters, then runs the mode-flip-on-
// input decisions (spec.md §4.4).
func (f *Fluid) ProcessInputs() {
	f.updateFrameCounts()
	lastDemandMode := f.inDataLastDemandMode
	f.inDataLastDemandMode = f.InData.DemandMode

	switch f.ForcedRole() {
	case RoleDemand:
		if !f.IsInDemandRole() {
			f.flipToDemandMode("forced")
		}
		return
	case RoleSupply:
		if f.IsInDemandRole() {
			f.flipToSupplyMode("forced")
		}
		return
	}

	if !f.InData.HasValidData() {
		return
	}

	if f.IsInDemandRole() && f.InData.DemandMode && !lastDemandMode {
		// Both sides are Demand and the peer's previous snapshot was
		// Supply: peer just flipped to Demand ahead of us. Rare bootstrap
		// race; take Supply back.
		f.flipToSupplyMode("remote just took Demand role")
	} else if !f.IsInDemandRole() && !f.InData.DemandMode {
		// Both sides currently Supply: the smaller capacitance flips to
		// Demand, tie broken by the pair master.
		if f.OutData.Capacitance < f.InData.Capacitance ||
			(f.OutData.Capacitance == f.InData.Capacitance && f.IsPairMaster()) {
			f.flipToDemandMode("smaller local capacitance")
		}
	}
}

// computeLagGain returns min(1, demandFilterConstA * demandFilterConstB^n)
// for the loop-latency exponent n, clamped to
// [loopLatencyExponentMin, loopLatencyExponentMax].
func computeLagGain(loopLatency int) float64 {
	n := common.ClampInt(loopLatency, loopLatencyExponentMin, loopLatencyExponentMax)
	gain := demandFilterConstA
	for i := 0; i < n; i++ {
		gain *= demandFilterConstB
	}
	return common.ClampF64(gain, 0, 1)
}

// ComputeDemandLimit returns the maximum flow rate that keeps the loop
// stable, given the local timestep and the Demand-side's local pressure at
// the interface. Demand-role only: returns 0 (and stores gain 0) if this
// side is Supply, peer data is invalid, or timestep/either side's
// capacitance is at or below capacitanceEpsilon - guarding the divide by
// mOutData.mCapacitance/mInData.mCapacitance the same way the original
// does (GunnsFluidDistributed2WayBus.cpp's computeDemandLimit).
func (f *Fluid) ComputeDemandLimit(timestep, demandSidePressure float64) float64 {
	if !f.IsInDemandRole() || !f.InData.HasValidData() ||
		timestep <= capacitanceEpsilon ||
		f.OutData.Capacitance <= capacitanceEpsilon || f.InData.Capacitance <= capacitanceEpsilon {
		f.demandLimitGain = 0
		f.demandLimitFlowRate = 0
		f.lastFlowConflict = false
		return 0
	}

	// Flow-conflict detection (§9 first bullet): the pressure gradient
	// implies inflow to the Demand side (demandSidePressure below the
	// Supply-published pressure) while the flow we last reported to Supply
	// (a positive OutData.Source) is also inflow to the Demand side. Flagging this condition
	// instead of erroring on it mirrors the original's disabled assert -
	// runtime behavior does not change, the flag is test-observable only.
	f.lastFlowConflict = demandSidePressure < f.InData.Source && f.OutData.Source > 0

	lagGain := computeLagGain(f.LoopLatency())
	csOverCd := common.ClampF64(f.InData.Capacitance/f.OutData.Capacitance, 1, modingCapacitanceRatio)
	gain := lagGain + (1-lagGain)*(csOverCd-1)*capacitanceGainSlope

	denom := timestep * (1/f.OutData.Capacitance + 1/f.InData.Capacitance)
	flowLimit := gain * common.AbsF64(demandSidePressure-f.InData.Source) / denom
	if flowLimit < 0 {
		flowLimit = 0
	}

	f.demandLimitGain = gain
	f.demandLimitFlowRate = flowLimit
	return flowLimit
}

// ProcessOutputs writes the local model's measured capacitance into
// OutData, then, if currently Supply, considers flipping to Demand: when
// enough frames have passed since the last flip and the peer's
// capacitance now exceeds ours by the hysteresis margin. On that flip,
// OutData.Source is zeroed, since its meaning changes from pressure to
// flow rate on the swap - sending a stale pressure value here would be
// misread by the peer as a huge flow demand.
//
// Mass and energy are not conserved across this swap; the magnitude of the
// resulting error scales with loop lag, flow rate, and mixture change
// rate. This is an accepted limitation of the design (spec.md §9), not a
// defect to fix here.
func (f *Fluid) ProcessOutputs(capacitance float64) {
	f.OutData.Capacitance = capacitance

	if !f.IsInDemandRole() {
		if f.FramesSinceFlip() > f.LoopLatency() && f.OutData.Capacitance*modingCapacitanceRatio < f.InData.Capacitance {
			f.flipToDemandMode("remote capacitance now exceeds ours")
			f.OutData.Source = 0
		}
	}
}

// SetFluidState publishes the interface volume's Fluid State - Supply role
// only. In Demand role this is a misuse: it pushes a WARN notification and
// leaves OutData untouched.
func (f *Fluid) SetFluidState(fluid *FluidState) {
	if f.IsInDemandRole() {
		f.pushNotification(NotificationWarn, "setFluidState called while in Demand role")
		return
	}
	f.OutData.Source = fluid.Pressure
	f.OutData.MixtureData.assign(&fluid.MixtureData)
}

// GetFluidState retrieves the peer's published Fluid State - Demand role
// only, and only once the peer's data is valid and the peer is Supply.
// Returns false (and leaves fluid untouched) otherwise; the caller must
// not apply the boundary condition in that case.
func (f *Fluid) GetFluidState(fluid *FluidState) bool {
	if !f.IsInDemandRole() {
		f.pushNotification(NotificationWarn, "getFluidState called while in Supply role")
		return false
	}
	if !f.InData.HasValidData() || f.InData.DemandMode {
		return false
	}
	fluid.Pressure = f.InData.Source
	fluid.MixtureData.assign(&f.InData.MixtureData)
	return true
}

// SetFlowState publishes the resulting flow to/from the interface volume -
// Demand role only. In Supply role this is a misuse: it pushes a WARN
// notification and leaves OutData untouched.
func (f *Fluid) SetFlowState(flow *FlowState) {
	if !f.IsInDemandRole() {
		f.pushNotification(NotificationWarn, "setFlowState called while in Supply role")
		return
	}
	f.OutData.Source = flow.FlowRate
	f.OutData.MixtureData.assign(&flow.MixtureData)
}

// GetFlowState retrieves the peer's demanded Flow State - Supply role
// only, and only when the peer's data is valid AND the peer has actually
// flipped to Demand. Without that last check, a both-Supply transient
// (peer data valid, peer still Supply) would read InData.Source as a flow
// rate when the peer is still publishing it as a pressure - the same
// dual-meaning hazard GetFluidState already guards against via
// InData.DemandMode.
func (f *Fluid) GetFlowState(flow *FlowState) bool {
	if f.IsInDemandRole() {
		f.pushNotification(NotificationWarn, "getFlowState called while in Demand role")
		return false
	}
	if !f.InData.HasValidData() || !f.InData.DemandMode {
		return false
	}
	flow.FlowRate = f.InData.Source
	flow.MixtureData.assign(&f.InData.MixtureData)
	return true
}
