// Package disk2 implements the Disk II controller card occupying slot 6
// of an Apple II: the 4-phase stepper motor, the nibblized track-buffer
// read path, and .dsk image loading/6-and-2 encoding (spec.md §4.3).
// Grounded on the teacher's pia6532.Chip shape (a small memory-mapped
// peripheral exposing Read/Write by offset, ticked once per CPU cycle).
package disk2

import "fmt"

const (
	// DiskImageSize is the exact byte length of a supported .dsk image:
	// 35 tracks * 16 sectors * 256 bytes.
	DiskImageSize = 35 * 16 * 256

	tracksPerDisk  = 35
	maxHalfTrack   = (tracksPerDisk - 1) * 2
	// driftResyncLen is counted in CPU cycles, not bytes of track
	// position: once more than this many cycles pass without a Q6L read,
	// the next read skips ahead one byte per driftResyncLen cycles.
	driftResyncLen = 10
)

// InvalidDiskImage reports a .dsk file of the wrong size.
type InvalidDiskImage struct {
	Size int
}

func (e InvalidDiskImage) Error() string {
	return fmt.Sprintf("invalid disk image: got %d bytes, want %d", e.Size, DiskImageSize)
}

// phaseDelta computes the half-track movement produced by energizing
// phase `newPhase` while `curPhase` was the last one on, folded into
// [-2, 2] (spec.md §4.3's PHASE_DELTA table, expressed as the signed
// distance around the 4-phase ring rather than a literal 4x4 table).
func phaseDelta(cur, new int) int {
	d := new - cur
	switch {
	case d > 2:
		d -= 4
	case d < -2:
		d += 4
	}
	return d
}

// drive holds one nibblized disk image: one pre-encoded track buffer per
// track, built eagerly on load so reads never re-encode on the fly.
type drive struct {
	tracks [tracksPerDisk][]uint8
}

// Controller is the Disk II card logic, mapped at $C0E0-$C0EF (offsets
// 0-F relative to that base).
type Controller struct {
	drives   [2]*drive
	selected int

	phaseOn    [4]bool
	curPhase   int
	halfTrack  int
	motorOn    bool
	q6, q7     bool // Q6/Q7 latches selecting read/write mode.
	bytePos    int
	driftCycle int // cycles since the last sequential byte read.

	lastDatabus uint8
}

// NewController returns an initialized, unloaded Disk II controller.
func NewController() *Controller {
	return &Controller{}
}

// LoadDisk validates and nibblizes a flat .dsk image into drive slot
// (0 or 1), per spec.md §6.2/§4.3.
func (c *Controller) LoadDisk(drv int, data []uint8) error {
	if len(data) != DiskImageSize {
		return InvalidDiskImage{Size: len(data)}
	}
	if drv != 0 && drv != 1 {
		return fmt.Errorf("invalid drive index %d", drv)
	}
	d := &drive{}
	for t := 0; t < tracksPerDisk; t++ {
		var sectors [16][256]uint8
		for s := 0; s < 16; s++ {
			off := t*4096 + s*256
			copy(sectors[s][:], data[off:off+256])
		}
		d.tracks[t] = nibblizeTrack(uint8(t), sectors)
	}
	c.drives[drv] = d
	c.bytePos = 0
	return nil
}

// currentTrack returns the nibble buffer for the currently selected
// drive/half-track, or nil if no disk is loaded there.
func (c *Controller) currentTrack() []uint8 {
	d := c.drives[c.selected]
	if d == nil {
		return nil
	}
	track := c.halfTrack / 2
	if track < 0 || track >= tracksPerDisk {
		return nil
	}
	return d.tracks[track]
}

// Tick accounts for elapsed rotation time on cycles that don't read a
// byte; see the drift re-sync rule in spec.md §4.3.
func (c *Controller) Tick() {
	if c.motorOn {
		c.driftCycle++
	}
}

// Read implements the $C0E0-$C0EF offset decode (spec.md §4.3 table).
func (c *Controller) Read(offset int) uint8 {
	c.dispatch(offset)
	switch offset {
	case 0xC: // Q6L: read next nibble, if not in write mode.
		if !c.q7 {
			return c.readNibble()
		}
		return c.lastDatabus
	case 0xE: // Q7L: read mode; if Q6 also set, report write-protect.
		if c.q6 {
			return 0x80
		}
		return c.lastDatabus
	}
	return c.lastDatabus
}

// Write implements the $C0E0-$C0EF offset decode for write accesses.
// Per SPEC_FULL.md's write-protect-probing resolution, Q7H writes are
// accepted and discarded rather than mutating the track buffer.
func (c *Controller) Write(offset int, val uint8) {
	c.dispatch(offset)
	c.lastDatabus = val
}

func (c *Controller) dispatch(offset int) {
	switch {
	case offset >= 0x0 && offset <= 0x7:
		phase := offset / 2
		on := offset%2 == 1
		c.phaseOn[phase] = on
		if on && c.motorOn {
			delta := phaseDelta(c.curPhase, phase)
			c.halfTrack += delta
			if c.halfTrack < 0 {
				c.halfTrack = 0
			}
			if c.halfTrack > maxHalfTrack {
				c.halfTrack = maxHalfTrack
			}
			c.curPhase = phase
			c.bytePos = 0
			c.driftCycle = 0
		}
	case offset == 0x8:
		c.motorOn = false
	case offset == 0x9:
		c.motorOn = true
	case offset == 0xA:
		c.selected = 0
	case offset == 0xB:
		c.selected = 1
	case offset == 0xC:
		c.q6 = false
	case offset == 0xD:
		c.q6 = true
	case offset == 0xE:
		c.q7 = false
	case offset == 0xF:
		c.q7 = true
	}
}

// readNibble returns the next track byte and advances byte_pos, applying
// the rotation-drift re-sync described in spec.md §4.3.
func (c *Controller) readNibble() uint8 {
	track := c.currentTrack()
	if len(track) == 0 {
		c.lastDatabus = 0
		return 0
	}
	if c.driftCycle > driftResyncLen {
		c.bytePos = (c.bytePos + c.driftCycle/driftResyncLen) % len(track)
	}
	c.driftCycle = 0
	v := track[c.bytePos]
	c.bytePos = (c.bytePos + 1) % len(track)
	c.lastDatabus = v
	return v
}

// HalfTrack reports the current physical head position, 0..68.
func (c *Controller) HalfTrack() int { return c.halfTrack }

// MotorOn reports whether the spindle motor is currently energized.
func (c *Controller) MotorOn() bool { return c.motorOn }
