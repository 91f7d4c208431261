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

func TestMixtureInitializeSizesArrays(t *testing.T) {
	var m MixtureData
	m.Initialize(3, 1)
	assert.Equal(t, 3, m.NumFluid())
	assert.Equal(t, 1, m.NumTc())

	dst := make([]float64, 3)
	m.GetMoleFractions(dst)
	assert.Equal(t, []float64{0, 0, 0}, dst)
}

func TestMixtureSetGetRoundTripSameSize(t *testing.T) {
	var m MixtureData
	m.Initialize(3, 2)
	m.SetMoleFractions([]float64{0.1, 0.2, 0.7})
	m.SetTcMoleFractions([]float64{1e-6, 2e-6})

	bulk := make([]float64, 3)
	tc := make([]float64, 2)
	m.GetMoleFractions(bulk)
	m.GetTcMoleFractions(tc)
	assert.Equal(t, []float64{0.1, 0.2, 0.7}, bulk)
	assert.Equal(t, []float64{1e-6, 2e-6}, tc)
}

func TestMixtureSetTruncatesAndZeroFillsOnShortSource(t *testing.T) {
	var m MixtureData
	m.Initialize(4, 0)
	m.SetMoleFractions([]float64{0.5, 0.5})

	dst := make([]float64, 4)
	m.GetMoleFractions(dst)
	assert.Equal(t, []float64{0.5, 0.5, 0, 0}, dst)
}

func TestMixtureSetTruncatesOnLongSource(t *testing.T) {
	var m MixtureData
	m.Initialize(2, 0)
	m.SetMoleFractions([]float64{0.1, 0.2, 0.3, 0.4})

	dst := make([]float64, 2)
	m.GetMoleFractions(dst)
	assert.Equal(t, []float64{0.1, 0.2}, dst)
}

func TestMixtureGetIntoLargerOrSmallerDst(t *testing.T) {
	var m MixtureData
	m.Initialize(2, 0)
	m.SetMoleFractions([]float64{0.3, 0.7})

	larger := make([]float64, 4)
	m.GetMoleFractions(larger)
	assert.Equal(t, []float64{0.3, 0.7, 0, 0}, larger)

	smaller := make([]float64, 1)
	m.GetMoleFractions(smaller)
	assert.Equal(t, []float64{0.3}, smaller)
}

func TestMixtureAssignCopiesBoundedByBothSizesAndLeavesDstSizeUnchanged(t *testing.T) {
	var a, b MixtureData
	a.Initialize(2, 0)
	b.Initialize(4, 0)
	b.SetMoleFractions([]float64{1, 2, 3, 4})
	b.Energy = 500

	a.assign(&b)
	assert.Equal(t, 500.0, a.Energy)
	assert.Equal(t, 2, a.NumFluid(), "assign must never resize the receiver's arrays")

	dst := make([]float64, 2)
	a.GetMoleFractions(dst)
	assert.Equal(t, []float64{1, 2}, dst)
}

func TestMixtureHasValidMixture(t *testing.T) {
	var m MixtureData
	m.Initialize(2, 1)
	m.SetMoleFractions([]float64{0.4, 0.6})
	m.SetTcMoleFractions([]float64{1e-5})
	assert.True(t, m.hasValidMixture())

	m.SetMoleFractions([]float64{-0.1, 1.1})
	assert.False(t, m.hasValidMixture())
}

func TestMixtureInitializeIsIdempotentAndDiscardsOldData(t *testing.T) {
	var m MixtureData
	m.Initialize(3, 0)
	m.SetMoleFractions([]float64{1, 1, 1})

	m.Initialize(2, 0)
	require.Equal(t, 2, m.NumFluid())
	dst := make([]float64, 2)
	m.GetMoleFractions(dst)
	assert.Equal(t, []float64{0, 0}, dst)
}
