// Package io defines the basic interfaces for working with a 6502
// family based I/O line or port. Implementors of peripherals (keyboard
// strobes, gameport paddles, disk phase magnets) call these on every
// clock tick and account for the fact that output won't mirror input
// for a clock cycle (latches load on TickDone).
package io

// PortIn1 defines a single-bit input line. true == asserted/pressed,
// matching the convention used by the teacher's joystick/console-switch
// wiring (callers invert for active-low signals themselves). Wired into
// the Apple II gameport button readback (apple2.Bus's $C061-$C063 PB0-
// PB2 decode).
type PortIn1 interface {
	Input() bool
}

// PortOut8 defines an 8 bit output port.
type PortOut8 interface {
	Output() uint8
}
