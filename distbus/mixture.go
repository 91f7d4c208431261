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

// MixtureData holds a fluid's energy plus its two mole-fraction arrays:
// bulk-fluid compounds and trace compounds. It's embedded by both the
// fluid wire snapshot and the FluidState/FlowState working objects, the
// Go stand-in for the original's FluidDistributedMixtureData mixin.
type MixtureData struct {
	// Energy is either temperature (K) or specific enthalpy (J/kg),
	// depending on a fixed choice made for the interface pair.
	Energy float64

	moleFractions   []float64
	tcMoleFractions []float64
}

// Initialize (re-)allocates the two fraction arrays to the requested
// sizes, zero-filled. Calling it twice is idempotent: the old arrays are
// discarded and fresh ones allocated, matching the original's "allocated
// at initialization, not reallocated afterward" contract - the
// reallocation only ever happens in response to an explicit Initialize
// call, never implicitly.
func (m *MixtureData) Initialize(nBulk, nTc uint) {
	m.moleFractions = make([]float64, nBulk)
	m.tcMoleFractions = make([]float64, nTc)
}

// NumFluid returns the size of the bulk mole-fraction array.
func (m *MixtureData) NumFluid() int { return len(m.moleFractions) }

// NumTc returns the size of the trace-compound mole-fraction array.
func (m *MixtureData) NumTc() int { return len(m.tcMoleFractions) }

// copyFractions copies min(len(dst), len(src)) entries from src into dst,
// zero-filling any remaining tail of dst. This is the "deep element-by-
// element copy bounded by min(dstSize, srcSize)" the spec calls for so
// that peers with differing mixture sizes can interoperate without either
// side resizing its own storage.
func copyFractions(dst, src []float64) {
	n := common.MinInt(len(dst), len(src))
	copy(dst[:n], src[:n])
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// SetMoleFractions copies the given bulk-fluid fractions into this
// mixture's local storage, per the copy-truncate-and-zero-fill rule.
func (m *MixtureData) SetMoleFractions(src []float64) {
	copyFractions(m.moleFractions, src)
}

// SetTcMoleFractions copies the given trace-compound fractions into this
// mixture's local storage, per the copy-truncate-and-zero-fill rule.
func (m *MixtureData) SetTcMoleFractions(src []float64) {
	copyFractions(m.tcMoleFractions, src)
}

// GetMoleFractions copies this mixture's bulk-fluid fractions into dst,
// per the copy-truncate-and-zero-fill rule.
func (m *MixtureData) GetMoleFractions(dst []float64) {
	copyFractions(dst, m.moleFractions)
}

// GetTcMoleFractions copies this mixture's trace-compound fractions into
// dst, per the copy-truncate-and-zero-fill rule.
func (m *MixtureData) GetTcMoleFractions(dst []float64) {
	copyFractions(dst, m.tcMoleFractions)
}

// assign performs the deep, size-bounded copy the original's assignment
// operator does: it copies min(|dst|, |src|) of each fraction array and
// the scalar Energy, but never resizes dst's arrays.
func (m *MixtureData) assign(that *MixtureData) {
	m.Energy = that.Energy
	copyFractions(m.moleFractions, that.moleFractions)
	copyFractions(m.tcMoleFractions, that.tcMoleFractions)
}

// hasValidMixture reports whether every mole fraction in both arrays is
// non-negative, one of the fluid snapshot validity conditions.
func (m *MixtureData) hasValidMixture() bool {
	for _, f := range m.moleFractions {
		if f < 0 {
			return false
		}
	}
	for _, f := range m.tcMoleFractions {
		if f < 0 {
			return false
		}
	}
	return true
}

// FluidState aggregates pressure, energy, and both mixture arrays: the
// boundary condition a Demand-role model applies at its interface volume.
type FluidState struct {
	MixtureData
	// Pressure is the fluid pressure (Pa) at the interface.
	Pressure float64
}

// FlowState aggregates molar flow rate, energy, and both mixture arrays:
// the demanded flow a Demand-role model reports back to Supply.
type FlowState struct {
	MixtureData
	// FlowRate is the fluid molar flow rate (mol/s); positive means flow
	// from the Supply side into the Demand side.
	FlowRate float64
}
