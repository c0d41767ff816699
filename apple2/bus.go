// Package apple2 integrates the cpu, disk2, keyboard and video packages
// into a complete Apple II system: the memory-mapped bus and soft
// switches (this file), and the System clock integrator (system.go).
// Grounded on the teacher's atari2600 package, the pack's closest
// analogue to a "wire several chip packages together behind one Bank"
// integrator.
package apple2

import (
	"fmt"

	"github.com/example/apple2go/apple2/disk2"
	"github.com/example/apple2go/apple2/keyboard"
	"github.com/example/apple2go/apple2/video"
	"github.com/example/apple2go/io"
	"github.com/example/apple2go/memory"
)

const (
	ramSize = 48 * 1024
	romSize = 12 * 1024
	romBase = uint16(0xD000)

	textPageLo = 0x0400
	textPageHi = 0x07FF
)

// RomSizeMismatch reports a ROM image that isn't exactly 12 KB
// (spec.md §6.3/§7).
type RomSizeMismatch struct {
	Size int
}

func (e RomSizeMismatch) Error() string {
	return fmt.Sprintf("ROM must be exactly %d bytes, got %d", romSize, e.Size)
}

// speakerPort is a minimal io.PortOut8-shaped toggle latch for the
// speaker soft switch ($C030-$C03F): every access (not just writes)
// flips it, per spec.md §4.2.
type speakerPort struct {
	level bool
}

func (s *speakerPort) Output() uint8 {
	if s.level {
		return 1
	}
	return 0
}

var _ io.PortOut8 = (*speakerPort)(nil)

// noButton is the default io.PortIn1 wired to each gameport button line
// until a caller supplies a real one via SetGameButton: always released.
type noButton struct{}

func (noButton) Input() bool { return false }

var _ io.PortIn1 = noButton{}

// Bus is the Apple II memory map: RAM, ROM, and the soft-switch/slot
// I/O page, implementing memory.Bank so cpu.Chip can address it
// directly (spec.md §4.2).
type Bus struct {
	ram memory.Bank
	rom memory.Bank

	keyboard *keyboard.Controller
	disk     *disk2.Controller
	video    *video.SoftSwitches

	speaker     speakerPort
	gameButton  [3]io.PortIn1 // PB0-PB2 at $C061-$C063 (spec.md §4.2's gameport row).
	screenDirty bool

	databusVal uint8
}

// NewBus returns a powered-on bus with empty RAM/ROM and the given
// peripheral controllers wired into the slot-6/keyboard/soft-switch
// decode paths.
func NewBus(kbd *keyboard.Controller, disk *disk2.Controller, sw *video.SoftSwitches) (*Bus, error) {
	// NewRAM only accepts power-of-2 sizes, so back the 48 KB map with a
	// 64 KB bank; the decode below never routes an address >= ramSize to it.
	ram, err := memory.NewRAM(1<<16, nil)
	if err != nil {
		return nil, err
	}
	rom, err := memory.NewROM(make([]uint8, romSize), nil)
	if err != nil {
		return nil, err
	}
	b := &Bus{
		ram:      ram,
		rom:      rom,
		keyboard: kbd,
		disk:     disk,
		video:    sw,
	}
	for i := range b.gameButton {
		b.gameButton[i] = noButton{}
	}
	return b, nil
}

// SetGameButton wires a real io.PortIn1 line into gameport button n
// (0, 1, or 2, matching PB0-PB2 at $C061-$C063). Panics on an
// out-of-range n; n is always a compile-time constant at call sites.
func (b *Bus) SetGameButton(n int, line io.PortIn1) {
	b.gameButton[n] = line
}

// LoadROM installs a 12 KB ROM image at $D000-$FFFF (spec.md §6.3).
func (b *Bus) LoadROM(data []uint8) error {
	if len(data) != romSize {
		return RomSizeMismatch{Size: len(data)}
	}
	rom, err := memory.NewROM(data, nil)
	if err != nil {
		return err
	}
	b.rom = rom
	return nil
}

// LoadRAM copies data into RAM starting at baseAddr (spec.md §6.1
// load_ram).
func (b *Bus) LoadRAM(data []uint8, baseAddr uint16) {
	for i, v := range data {
		b.ram.Write(baseAddr+uint16(i), v)
	}
}

// ReadRAM is the narrow read-only view video.Generator uses to read the
// text/hi-res pages without going through the full I/O decode (spec.md
// §4.5: "the video generator never writes to RAM; it only reads").
func (b *Bus) ReadRAM(addr uint16) uint8 {
	return b.ram.Read(addr)
}

// ScreenDirty reports (and clears) whether a write has landed in the
// text-page range since the last call (spec.md §4.2).
func (b *Bus) ScreenDirty() bool {
	d := b.screenDirty
	b.screenDirty = false
	return d
}

// Read implements memory.Bank, decoding the full $0000-$FFFF map.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0xC000:
		v := b.ram.Read(addr)
		b.databusVal = v
		return v
	case addr == 0xC000:
		v := b.keyboard.Read()
		b.databusVal = v
		return v
	case addr >= 0xC010 && addr <= 0xC01F:
		b.keyboard.ClearStrobe()
		return b.databusVal
	case addr >= 0xC030 && addr <= 0xC03F:
		b.speaker.level = !b.speaker.level
		return b.databusVal
	case addr >= 0xC050 && addr <= 0xC057:
		b.video.Set(uint8(addr & 0x0F))
		return b.databusVal
	case addr >= 0xC061 && addr <= 0xC063:
		v := b.databusVal & 0x7F
		if b.gameButton[addr-0xC061].Input() {
			v |= 0x80
		}
		b.databusVal = v
		return v
	case addr >= 0xC060 && addr <= 0xC06F:
		return b.databusVal // Cassette input / paddle analog timers: unmodeled, open bus.
	case addr >= 0xC070 && addr <= 0xC07F:
		return b.databusVal // Paddle trigger: no-op read.
	case addr >= 0xC0E0 && addr <= 0xC0EF:
		v := b.disk.Read(int(addr - 0xC0E0))
		b.databusVal = v
		return v
	case addr >= 0xC080 && addr <= 0xC0FF:
		return b.databusVal // Other slot device selects: unimplemented, open bus.
	case addr >= 0xC100 && addr <= 0xC7FF:
		return b.databusVal // Slot ROM: no cards mapped there, open bus.
	case addr >= romBase:
		v := b.rom.Read(addr - romBase)
		b.databusVal = v
		return v
	}
	return b.databusVal
}

// Write implements memory.Bank, decoding the full $0000-$FFFF map.
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr < 0xC000:
		b.ram.Write(addr, val)
		b.databusVal = val
		if addr >= textPageLo && addr <= textPageHi {
			b.screenDirty = true
		}
	case addr == 0xC000:
		b.databusVal = val
	case addr >= 0xC010 && addr <= 0xC01F:
		b.keyboard.ClearStrobe()
		b.databusVal = val
	case addr >= 0xC030 && addr <= 0xC03F:
		b.speaker.level = !b.speaker.level
		b.databusVal = val
	case addr >= 0xC050 && addr <= 0xC057:
		b.video.Set(uint8(addr & 0x0F))
		b.databusVal = val
	case addr >= 0xC0E0 && addr <= 0xC0EF:
		b.disk.Write(int(addr-0xC0E0), val)
		b.databusVal = val
	case addr >= romBase:
		// ROM-masked: silently ignored (spec.md §4.2).
		b.databusVal = val
	default:
		b.databusVal = val
	}
}

// PowerOn implements memory.Bank.
func (b *Bus) PowerOn() {
	b.ram.PowerOn()
	b.rom.PowerOn()
}

// Parent implements memory.Bank; Bus is always the outermost bank.
func (b *Bus) Parent() memory.Bank { return nil }

// DatabusVal implements memory.Bank.
func (b *Bus) DatabusVal() uint8 { return b.databusVal }

var _ memory.Bank = (*Bus)(nil)
