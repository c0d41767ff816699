package keyboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestInjectASCIISetsStrobe exercises spec.md §8 scenario 6's keyboard
// half via the direct ASCII shortcut.
func TestInjectASCIISetsStrobe(t *testing.T) {
	c := NewController()
	require.EqualValues(t, 0x00, c.Read())
	c.InjectASCII('A')
	require.EqualValues(t, 0xC1, c.Read(), "bit 7 set, ASCII 'A' in bits 6..0")
	c.ClearStrobe()
	require.Zero(t, c.Read()&0x80, "$C010 access must clear key_pressed")
}

// TestScancodeAUnshiftedYieldsUppercaseA reproduces spec.md §8 scenario
// 6 exactly: injecting PS/2 scancode $1C with no modifiers yields 'A'.
func TestScancodeAUnshiftedYieldsUppercaseA(t *testing.T) {
	c := NewController()
	c.InjectScancode(0x1C)
	require.EqualValues(t, 0xC1, c.Read())
}

func TestShiftModifierLowercases(t *testing.T) {
	c := NewController()
	c.InjectScancode(scancodeLShift)
	c.InjectScancode(0x1C)
	require.EqualValues(t, 0x80|'a', c.Read())
}

func TestKeyUpClearsModifier(t *testing.T) {
	c := NewController()
	c.InjectScancode(scancodeLShift)
	c.InjectScancode(scancodeKeyUp)
	c.InjectScancode(scancodeLShift)
	require.False(t, c.shift, "key-up for shift must clear the modifier latch")
}

func TestCtrlMasksToControlCharacter(t *testing.T) {
	c := NewController()
	c.InjectScancode(scancodeLCtrl)
	c.InjectScancode(0x1C) // 'A' & 0x1F == 0x01
	require.EqualValues(t, 0x80|0x01, c.Read())
}

// TestShiftRegisterFallingEdge exercises the lower PS/2 shift-register
// layer: 11 falling edges with the scancode bits on the wire should
// produce the same decode as InjectScancode.
func TestShiftRegisterFallingEdge(t *testing.T) {
	c := NewController()
	scancode := uint8(0x1C)
	frame := []bool{false} // start bit
	parity := 1
	for i := 0; i < 8; i++ {
		bit := (scancode>>i)&1 == 1
		frame = append(frame, bit)
		if bit {
			parity ^= 1
		}
	}
	frame = append(frame, parity == 1) // odd parity bit
	frame = append(frame, true)        // stop bit

	clock := true
	for _, bit := range frame {
		// Rising then falling edge per bit cell.
		c.Tick(clock, bit)
		clock = !clock
		c.Tick(clock, bit)
		clock = !clock
	}
	require.EqualValues(t, 0xC1, c.Read())
}
