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

// Package distbus implements the role-arbitration core of the Distributed
// Two-Way Bus Interface: the frame accounting, latency measurement, role
// forcing, and notification plumbing shared by every concrete bus variant,
// plus the electrical and fluid variants built on top of it.
//
// The core never talks to a transport directly. Each side's host is
// responsible for delivering the peer's latest outgoing snapshot into this
// side's incoming snapshot slot, in whatever way it likes (HLA, a plain
// channel, a byte-serialized link) with some unknown, variable, whole-frame
// latency. See transport.LagBuffer for one such host-side helper.
package distbus

// Role is the arbitration state of one side of a bus pair.
type Role int

const (
	// RoleNone indicates no role has been established yet.
	RoleNone Role = iota
	// RoleSupply is the side that maintains the shared boundary's potential
	// (voltage or pressure) and receives the peer's flow/load demand.
	RoleSupply
	// RoleDemand is the side that follows the peer's potential as a
	// boundary condition and reports its resulting flow/load back.
	RoleDemand
)

func (r Role) String() string {
	switch r {
	case RoleSupply:
		return "Supply"
	case RoleDemand:
		return "Demand"
	default:
		return "None"
	}
}

// NotificationLevel is the severity of a queued Notification.
type NotificationLevel int

const (
	NotificationInfo NotificationLevel = iota
	NotificationWarn
	NotificationErr
	NotificationNone
)

func (l NotificationLevel) String() string {
	switch l {
	case NotificationInfo:
		return "INFO"
	case NotificationWarn:
		return "WARN"
	case NotificationErr:
		return "ERR"
	default:
		return "NONE"
	}
}

// Notification is a queued message surfaced by the core for operator
// visibility - role flips and misuse of role-specific operations.
type Notification struct {
	Level   NotificationLevel
	Message string
}

// BaseData is the minimum wire payload every variant's snapshot carries.
// It's embedded (not pointed-to and reached through a base pointer, as the
// C++ original does to share fields across an inheritance boundary) by
// every concrete snapshot type, which is how this Go port satisfies
// §9's "two-way pointer entanglement" note: the base operates on the
// embedded struct's fields directly through the baseDataAccessor that
// each variant plugs in at construction.
type BaseData struct {
	// FrameCount is driven by this side, incremented once per step and
	// never decreasing.
	FrameCount uint32
	// FrameLoopback is the last FrameCount seen from the peer, echoed
	// back so the peer can measure round-trip lag.
	FrameLoopback uint32
	// DemandMode is true when this side is currently acting as Demand.
	DemandMode bool
}

// HasValidData reports whether the base portion of a peer snapshot is
// usable: the peer must have sent at least one snapshot since its own init.
func (d *BaseData) HasValidData() bool {
	return d.FrameCount > 0
}

// baseDataAccessor lets Base read and write the BaseData embedded in
// whichever concrete InData/OutData snapshot type the variant owns,
// without Base needing to know that concrete type.
type baseDataAccessor struct {
	in  *BaseData
	out *BaseData
}

// Base is the frame accounting, latency measurement, role-forcing and
// notification plumbing shared by every concrete bus variant. It is
// embedded by Electrical and Fluid, which each supply it the BaseData
// portions of their own InData/OutData via initBase.
type Base struct {
	isPairMaster         bool
	inDataLastDemandMode bool
	framesSinceFlip      int
	loopLatency          int
	forcedRole           Role
	notifications        []Notification

	data baseDataAccessor
}

// initBase wires this Base to the concrete variant's InData/OutData base
// portions. Must be called once, by the variant's own constructor, before
// any other Base method.
func (b *Base) initBase(in, out *BaseData) {
	b.data = baseDataAccessor{in: in, out: out}
}

// Initialize sets the master flag, zeroes the counters, and clears
// OutData.DemandMode - both sides start in Supply, and one promotes itself
// to Demand as soon as peer data is exchanged. ForcedRole is intentionally
// left untouched: the operator may have set it before Initialize.
func (b *Base) Initialize(isPairMaster bool) {
	b.isPairMaster = isPairMaster
	b.inDataLastDemandMode = false
	b.framesSinceFlip = 0
	b.loopLatency = 0
	b.data.out.DemandMode = false
}

// updateFrameCounts advances the frame counters and measures the round
// trip loop latency. Must be called exactly once per step, before any
// role decision.
func (b *Base) updateFrameCounts() {
	b.data.out.FrameCount++
	b.framesSinceFlip++
	b.loopLatency = int(b.data.out.FrameCount) - int(b.data.in.FrameLoopback)
	b.data.out.FrameLoopback = b.data.in.FrameCount
}

// ForceSupplyRole pins this side to the Supply role regardless of the
// normal arbitration logic.
func (b *Base) ForceSupplyRole() { b.forcedRole = RoleSupply }

// ForceDemandRole pins this side to the Demand role regardless of the
// normal arbitration logic.
func (b *Base) ForceDemandRole() { b.forcedRole = RoleDemand }

// ResetForceRole clears any forced role and lets arbitration run normally.
func (b *Base) ResetForceRole() { b.forcedRole = RoleNone }

// ForcedRole returns the current operator override, or RoleNone if none.
func (b *Base) ForcedRole() Role { return b.forcedRole }

// IsInDemandRole returns whether this side is currently Demand.
func (b *Base) IsInDemandRole() bool { return b.data.out.DemandMode }

// FramesSinceFlip returns the number of steps since this side's last role
// change.
func (b *Base) FramesSinceFlip() int { return b.framesSinceFlip }

// LoopLatency returns the most recently measured round-trip frame lag.
func (b *Base) LoopLatency() int { return b.loopLatency }

// IsPairMaster returns whether this side was designated the tie-break
// master at Initialize.
func (b *Base) IsPairMaster() bool { return b.isPairMaster }

// flipRole records a role change: sets DemandMode and resets
// framesSinceFlip. Variants call this from their own flip helpers so the
// bookkeeping stays in one place.
func (b *Base) flipRole(toDemand bool) {
	b.data.out.DemandMode = toDemand
	b.framesSinceFlip = 0
}

// pushNotification appends a message to the LIFO notification queue.
func (b *Base) pushNotification(level NotificationLevel, message string) {
	b.notifications = append(b.notifications, Notification{Level: level, Message: message})
}

// PopNotification returns the most recently pushed notification and
// removes it, or an empty NONE notification if the queue is empty. The
// returned int is the remaining queue depth.
func (b *Base) PopNotification() (Notification, int) {
	n := len(b.notifications)
	if n == 0 {
		return Notification{Level: NotificationNone}, 0
	}
	note := b.notifications[n-1]
	b.notifications = b.notifications[:n-1]
	return note, n - 1
}

// DrainNotifications pops every queued notification, oldest-popped-first
// is not guaranteed (LIFO order, same as repeated PopNotification calls),
// and returns them as a slice. This is Go-idiom sugar over PopNotification
// for hosts that just want to log everything each step; it does not change
// PopNotification's one-at-a-time contract.
func (b *Base) DrainNotifications() []Notification {
	if len(b.notifications) == 0 {
		return nil
	}
	out := make([]Notification, 0, len(b.notifications))
	for len(b.notifications) > 0 {
		note, _ := b.PopNotification()
		out = append(out, note)
	}
	return out
}
