// Copyright 2014 The go-probeum Authors
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

package common

import "testing"

func TestClampF64(t *testing.T) {
	cases := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}
	for _, c := range cases {
		if got := ClampF64(c.v, c.lo, c.hi); got != c.want {
			t.Errorf("ClampF64(%v, %v, %v) = %v, want %v", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	cases := []struct{ v, lo, hi, want int }{
		{5, 1, 100, 5},
		{0, 1, 100, 1},
		{500, 1, 100, 100},
	}
	for _, c := range cases {
		if got := ClampInt(c.v, c.lo, c.hi); got != c.want {
			t.Errorf("ClampInt(%v, %v, %v) = %v, want %v", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestMinInt(t *testing.T) {
	if got := MinInt(3, 7); got != 3 {
		t.Errorf("MinInt(3, 7) = %v, want 3", got)
	}
	if got := MinInt(7, 3); got != 3 {
		t.Errorf("MinInt(7, 3) = %v, want 3", got)
	}
}

func TestAbsF64(t *testing.T) {
	if got := AbsF64(-4.5); got != 4.5 {
		t.Errorf("AbsF64(-4.5) = %v, want 4.5", got)
	}
	if got := AbsF64(4.5); got != 4.5 {
		t.Errorf("AbsF64(4.5) = %v, want 4.5", got)
	}
}
