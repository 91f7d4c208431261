// Copyright 2017 The go-probeum Authors
// This file is part of go-probeum.
//
// go-probeum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-probeum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-probeum. If not, see <http://www.gnu.org/licenses/>.

// Package config loads the distbusd harness configuration from a TOML
// file, in the same style as cmd/gprobe's own config loader: a
// toml.Config with identity field-name mapping and a MissingField hook
// that logs a warning instead of silently ignoring unknown keys.
package config

import (
	"bufio"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"

	"github.com/nasa-gunns/distbus/common"
	"github.com/nasa-gunns/distbus/log"
)

// These settings ensure that TOML keys use the same names as Go struct
// fields, exactly as cmd/gprobe/config.go configures naoina/toml.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		id := fmt.Sprintf("%s.%s", rt.String(), field)
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		log.Warn("Config field is not defined", "name", id)
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// SideConfig describes one side's construction-time and initial runtime
// parameters, covering both variants (§6 "Configuration"): IsPairMaster is
// checked by Validate for both variants but only the fluid variant reads it
// (the electrical variant uses IsPrimary as its pair-master flag),
// NBulk/NTc and InitialCapacitance apply to fluid, IsPrimary and
// InitialVoltage apply to electrical.
type SideConfig struct {
	IsPairMaster bool

	// Electrical-only.
	IsPrimary      bool
	InitialVoltage float32

	// Fluid-only.
	NBulk              uint
	NTc                uint
	InitialCapacitance float64

	// ForcedRole is the runtime-mutable operator override: "", "supply",
	// or "demand".
	ForcedRole string
}

// HarnessConfig is the top-level distbusd configuration: which variant to
// run, the lag buffer's delay, how many local steps to simulate, the step
// period, and both sides' SideConfig.
type HarnessConfig struct {
	Variant     string // "electrical" or "fluid"
	DelayFrames int
	Steps       int
	Timestep    float64

	SideA SideConfig
	SideB SideConfig
}

// Load reads and decodes a HarnessConfig from the TOML file at path.
func Load(path string) (*HarnessConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := &HarnessConfig{}
	if err := tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg); err != nil {
		if _, ok := err.(*toml.LineError); ok {
			return nil, fmt.Errorf("%s, %w", path, err)
		}
		return nil, err
	}
	return cfg, nil
}

// Validate checks the host-level invariants the core itself does not
// enforce (spec.md §7 "Invalid configuration"): exactly one side of a pair
// must be the master.
func (c *HarnessConfig) Validate() error {
	if c.SideA.IsPairMaster == c.SideB.IsPairMaster {
		if c.SideA.IsPairMaster {
			log.Warn("both sides configured as pair master")
			return common.ErrBothMastersDesignated
		}
		log.Warn("neither side configured as pair master")
		return common.ErrNoMasterDesignated
	}
	return nil
}
