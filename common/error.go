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

import (
	"errors"
)

var (
	//ErrNoMasterDesignated is returned by host-level pairing validation when
	//neither side of a pair was configured as the pair master
	ErrNoMasterDesignated = errors.New("no pair master designated")

	//ErrBothMastersDesignated is returned by host-level pairing validation
	//when both sides of a pair were configured as the pair master
	ErrBothMastersDesignated = errors.New("both sides designated as pair master")
)
