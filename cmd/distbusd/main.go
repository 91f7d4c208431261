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

// Command distbusd is a harness that runs both sides of a distbus pair in
// a single process, connected through a transport.LagBuffer instead of a
// real HLA network, for demonstration and manual testing of the role-
// arbitration and stability-filter logic. It follows the exact operation
// ordering distbus requires each step (spec.md §5).
package main

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/nasa-gunns/distbus/config"
	"github.com/nasa-gunns/distbus/distbus"
	"github.com/nasa-gunns/distbus/log"
	"github.com/nasa-gunns/distbus/transport"
)

var configFileFlag = cli.StringFlag{
	Name:  "config",
	Usage: "harness TOML configuration file",
}

func main() {
	app := cli.NewApp()
	app.Name = "distbusd"
	app.Usage = "runs a Distributed Two-Way Bus Interface pair over a simulated lagged link"
	app.Flags = []cli.Flag{configFileFlag}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Crit("distbusd exited with error", "err", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	path := ctx.String(configFileFlag.Name)
	if path == "" {
		return fmt.Errorf("missing required --%s flag", configFileFlag.Name)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	switch cfg.Variant {
	case "electrical":
		return runElectrical(cfg)
	case "fluid":
		return runFluid(cfg)
	default:
		return fmt.Errorf("unknown variant %q, want \"electrical\" or \"fluid\"", cfg.Variant)
	}
}

func drainAndLog(name string, b *distbus.Base) {
	for _, n := range b.DrainNotifications() {
		switch n.Level {
		case distbus.NotificationWarn:
			log.Warn(n.Message, "side", name)
		case distbus.NotificationErr:
			log.Error(n.Message, "side", name)
		default:
			log.Info(n.Message, "side", name)
		}
	}
}

func runElectrical(cfg *config.HarnessConfig) error {
	a := distbus.NewElectrical()
	b := distbus.NewElectrical()
	a.Initialize(cfg.SideA.IsPrimary, cfg.SideA.InitialVoltage)
	b.Initialize(cfg.SideB.IsPrimary, cfg.SideB.InitialVoltage)
	applyForcedElectrical(a, cfg.SideA.ForcedRole)
	applyForcedElectrical(b, cfg.SideB.ForcedRole)

	supplyA := a.CreateSupplyData()
	supplyA.Available = true
	supplyA.MaximumVoltage = cfg.SideA.InitialVoltage
	supplyB := b.CreateSupplyData()
	supplyB.Available = true
	supplyB.MaximumVoltage = cfg.SideB.InitialVoltage

	link := transport.NewLagBuffer[distbus.ElectData](cfg.DelayFrames)

	for step := 0; step < cfg.Steps; step++ {
		a.InData = link.ReadTail2()
		b.InData = link.ReadTail1()

		a.ProcessInputs()
		b.ProcessInputs()

		a.Update(cfg.SideA.InitialVoltage, 0)
		b.Update(cfg.SideB.InitialVoltage, 0)

		drainAndLog("A", &a.Base)
		drainAndLog("B", &b.Base)

		link.WriteHead1(a.OutData)
		link.WriteHead2(b.OutData)
		link.Step()

		log.Info("step complete", "n", step, "a.role", roleOf(a.IsInDemandRole()), "b.role", roleOf(b.IsInDemandRole()))
	}
	return nil
}

func runFluid(cfg *config.HarnessConfig) error {
	a := distbus.NewFluid()
	b := distbus.NewFluid()
	a.Initialize(cfg.SideA.IsPairMaster, cfg.SideA.NBulk, cfg.SideA.NTc)
	b.Initialize(cfg.SideB.IsPairMaster, cfg.SideB.NBulk, cfg.SideB.NTc)
	applyForcedFluid(a, cfg.SideA.ForcedRole)
	applyForcedFluid(b, cfg.SideB.ForcedRole)

	link := transport.NewLagBuffer[distbus.FluidData](cfg.DelayFrames)

	capA := cfg.SideA.InitialCapacitance
	capB := cfg.SideB.InitialCapacitance

	for step := 0; step < cfg.Steps; step++ {
		a.InData = link.ReadTail2()
		b.InData = link.ReadTail1()

		a.ProcessInputs()
		b.ProcessInputs()

		stepFluidSide(a, cfg.Timestep, capA)
		stepFluidSide(b, cfg.Timestep, capB)

		a.ProcessOutputs(capA)
		b.ProcessOutputs(capB)

		drainAndLog("A", &a.Base)
		drainAndLog("B", &b.Base)

		link.WriteHead1(a.OutData)
		link.WriteHead2(b.OutData)
		link.Step()

		log.Info("step complete", "n", step,
			"a.role", roleOf(a.IsInDemandRole()), "b.role", roleOf(b.IsInDemandRole()),
			"a.limit", a.DemandLimitFlowRate(), "b.limit", b.DemandLimitFlowRate())
	}
	return nil
}

// stepFluidSide exercises the Demand-side flow limit and the Supply/Demand
// state accessors the way a real local fluid model is required to
// (spec.md §5 step ordering); it does not run a physical solve, since the
// solver itself is explicitly out of scope for this interface.
func stepFluidSide(f *distbus.Fluid, timestep, localPressure float64) {
	if f.IsInDemandRole() {
		var fs distbus.FluidState
		if f.GetFluidState(&fs) {
			f.ComputeDemandLimit(timestep, localPressure)
		}
		var flow distbus.FlowState
		flow.FlowRate = f.DemandLimitFlowRate()
		f.SetFlowState(&flow)
	} else {
		var fluid distbus.FluidState
		fluid.Pressure = localPressure
		fluid.Energy = 300
		f.SetFluidState(&fluid)
		var flow distbus.FlowState
		f.GetFlowState(&flow)
	}
}

func applyForcedElectrical(e *distbus.Electrical, forced string) {
	switch forced {
	case "supply":
		e.ForceSupplyRole()
	case "demand":
		e.ForceDemandRole()
	}
}

func applyForcedFluid(f *distbus.Fluid, forced string) {
	switch forced {
	case "supply":
		f.ForceSupplyRole()
	case "demand":
		f.ForceDemandRole()
	}
}

func roleOf(isDemand bool) string {
	if isDemand {
		return distbus.RoleDemand.String()
	}
	return distbus.RoleSupply.String()
}
