// Package keyboard decodes a PS/2 keyboard's serial frames into the
// Apple II's single-byte keyboard latch at $C000/$C010 (spec.md §4.4).
// Grounded on the teacher's pia6532.Chip shift-register/edge-detect
// style (pia6532.go's timer and edge-detect logic use the same
// "synchronize an external line, act on its transition" shape).
package keyboard

// fsmState is the upper-layer decoder state named in spec.md §4.4.
type fsmState int

const (
	stateIdle fsmState = iota
	stateHaveCode
	stateDecode
	stateGotKeyUp
	stateGotKeyUp2
	stateGotKeyUp3
	stateKeyUp
	stateNormalKey
)

const (
	scancodeKeyUp    = 0xF0
	scancodeExtended = 0xE0
	scancodeLShift   = 0x12
	scancodeRShift   = 0x59
	scancodeLCtrl    = 0x14
	scancodeAltGr    = 0x11
)

// Controller is the two-layer PS/2 decoder: an 11-bit shift register
// synchronized to the PS/2 clock/data lines, and the scancode FSM built
// on top of it.
type Controller struct {
	shiftReg  uint16
	bitCount  int
	prevClock bool

	state fsmState

	shift, ctrl, alt bool

	lastScancode uint8
	keyPressed   bool
	latchedASCII uint8

	unshiftedROM [256]uint8
	shiftedROM   [256]uint8
}

// NewController returns a decoder loaded with the default US scancode
// ROMs.
func NewController() *Controller {
	c := &Controller{}
	c.unshiftedROM = defaultUnshiftedROM
	c.shiftedROM = defaultShiftedROM
	return c
}

// Tick samples the synchronized PS/2 clock/data lines for one cycle,
// shifting in a bit on the clock's falling edge. After the 11th bit
// (1 start + 8 data + 1 parity + 1 stop) the 8-bit scancode is handed to
// the upper FSM.
func (c *Controller) Tick(clock, data bool) {
	fallingEdge := c.prevClock && !clock
	c.prevClock = clock
	if !fallingEdge {
		return
	}

	c.shiftReg >>= 1
	if data {
		c.shiftReg |= 1 << 10
	}
	c.bitCount++
	if c.bitCount < 11 {
		return
	}
	c.bitCount = 0
	// Bits 1..8 of the 11-bit frame are the scancode (bit 0 is start,
	// bit 9 parity, bit 10 stop).
	scancode := uint8(c.shiftReg >> 1)
	c.feed(scancode)
}

// InjectScancode feeds a scancode directly into the FSM, bypassing the
// PS/2 shift register. Used both by InjectASCII and by a host harness
// that queues raw PS/2 frames (spec.md §6.1 inject_key).
func (c *Controller) InjectScancode(scancode uint8) {
	c.feed(scancode)
}

func (c *Controller) feed(scancode uint8) {
	prev := c.state
	c.state = stateHaveCode
	switch {
	case scancode == scancodeKeyUp:
		c.state = stateGotKeyUp
		return
	case prev == stateGotKeyUp:
		c.releaseModifier(scancode)
		c.state = stateKeyUp
		return
	case scancode == scancodeExtended:
		// Extended-code prefix: consumed, next scancode decoded
		// normally.
		c.state = stateDecode
		return
	case scancode == scancodeLShift || scancode == scancodeRShift:
		c.shift = true
		c.state = stateNormalKey
		return
	case scancode == scancodeLCtrl:
		c.ctrl = true
		c.state = stateNormalKey
		return
	case scancode == scancodeAltGr:
		c.alt = true
		c.state = stateNormalKey
		return
	}

	c.state = stateNormalKey
	c.lastScancode = scancode
	c.keyPressed = true
	c.latchedASCII = c.decodeASCII(scancode)
}

func (c *Controller) releaseModifier(scancode uint8) {
	switch scancode {
	case scancodeLShift, scancodeRShift:
		c.shift = false
	case scancodeLCtrl:
		c.ctrl = false
	case scancodeAltGr:
		c.alt = false
	}
}

func (c *Controller) decodeASCII(scancode uint8) uint8 {
	var ascii uint8
	if c.shift {
		ascii = c.shiftedROM[scancode]
	} else {
		ascii = c.unshiftedROM[scancode]
	}
	if c.ctrl {
		ascii &= 0x1F
	}
	return ascii
}

// Read returns the Apple II keyboard byte: bit 7 is key_pressed, bits
// 6..0 are the decoded ASCII (spec.md §4.4).
func (c *Controller) Read() uint8 {
	v := c.latchedASCII & 0x7F
	if c.keyPressed {
		v |= 0x80
	}
	return v
}

// ClearStrobe clears key_pressed; any access to $C010-$C01F triggers
// this (spec.md §4.2/§4.4).
func (c *Controller) ClearStrobe() {
	c.keyPressed = false
}

// InjectASCII sets the keyboard latch directly from a host-supplied
// ASCII byte, the "ISA-level mode" shortcut spec.md §6.1's inject_key
// describes as an alternative to queuing a PS/2 frame.
func (c *Controller) InjectASCII(ascii uint8) {
	c.latchedASCII = ascii & 0x7F
	c.keyPressed = true
}
