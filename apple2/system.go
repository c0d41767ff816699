package apple2

import (
	"fmt"

	"github.com/example/apple2go/apple2/disk2"
	"github.com/example/apple2go/apple2/keyboard"
	"github.com/example/apple2go/apple2/video"
	"github.com/example/apple2go/cpu"
)

// System is a complete Apple II: the CPU, the memory/soft-switch bus,
// the Disk II controller, the keyboard decoder, and the video signal
// generator, clocked together. Grounded on the teacher's atari2600.VCS,
// generalized from its 1:3 CPU:TIA clock ratio to the Apple II's 1:14
// CPU:video ratio (spec.md §5).
type System struct {
	cpu   *cpu.Chip
	bus   *Bus
	disk  *disk2.Controller
	kbd   *keyboard.Controller
	video *video.Generator
	sw    *video.SoftSwitches

	masterTick int
	debug      bool

	textRow, textCol   int
	loresRow, loresCol int
	hiresRow, hiresCol int
	lastVideoBit       uint8
}

// SystemDef configures a new System.
type SystemDef struct {
	Variant cpu.Variant
	Debug   bool
}

const cpuClockDivider = 14 // 14.31818 MHz master : 1 MHz PHI0 (spec.md §5).

// Init builds and powers on a complete Apple II.
func Init(def *SystemDef) (*System, error) {
	kbd := keyboard.NewController()
	disk := disk2.NewController()
	sw := &video.SoftSwitches{}

	bus, err := NewBus(kbd, disk, sw)
	if err != nil {
		return nil, fmt.Errorf("can't initialize bus: %v", err)
	}
	vid := video.NewGenerator(bus, sw)

	variant := def.Variant
	if variant == cpu.VariantUnimplemented {
		variant = cpu.VariantNMOS
	}
	c, err := cpu.Init(&cpu.ChipDef{
		Variant: variant,
		Ram:     bus,
		Debug:   def.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("can't initialize cpu: %v", err)
	}

	return &System{
		cpu:   c,
		bus:   bus,
		disk:  disk,
		kbd:   kbd,
		video: vid,
		sw:    sw,
		debug: def.Debug,
	}, nil
}

// LoadROM installs a 12 KB ROM image at $D000-$FFFF (spec.md §6.1).
func (s *System) LoadROM(data []uint8) error {
	return s.bus.LoadROM(data)
}

// LoadRAM copies data into RAM starting at baseAddr (spec.md §6.1).
func (s *System) LoadRAM(data []uint8, baseAddr uint16) {
	s.bus.LoadRAM(data, baseAddr)
}

// LoadDisk nibblizes and installs a 143,360-byte .dsk image into the
// given drive (spec.md §6.1/§6.2).
func (s *System) LoadDisk(data []uint8, drive int) error {
	return s.disk.LoadDisk(drive, data)
}

// InjectKey queues an ASCII byte directly onto the keyboard latch, the
// "ISA-level mode" shortcut described in spec.md §6.1.
func (s *System) InjectKey(ascii uint8) {
	s.kbd.InjectASCII(ascii)
}

// InjectPS2Scancode feeds a raw PS/2 scancode through the keyboard's
// upper FSM (spec.md §4.4), for callers that want to drive the full
// shift/ctrl/extended-prefix decode rather than the ASCII shortcut.
func (s *System) InjectPS2Scancode(scancode uint8) {
	s.kbd.InjectScancode(scancode)
}

// Reset drives the CPU reset sequence to completion (spec.md §6.1:
// rst=1 for >=6 cycles, then >=5 more to load PC from the vector).
func (s *System) Reset() error {
	for {
		done, err := s.cpu.Reset()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Tick advances the system by one master (14.31818 MHz-equivalent)
// cycle: the video pipeline runs every call, the CPU and Disk II every
// 14th (spec.md §5's CPU:video ratio, mirroring atari2600.VCS.Tick's
// kCpuClockSlowdown pattern but with a 14:1 divider instead of 3:1).
func (s *System) Tick() error {
	s.video.Tick()
	s.scanVideoByte()

	s.masterTick = (s.masterTick + 1) % cpuClockDivider
	if s.masterTick != 0 {
		return nil
	}

	s.disk.Tick()
	if err := s.cpu.Tick(); err != nil {
		return fmt.Errorf("CPU tick error: %v", err)
	}
	s.cpu.TickDone()
	return nil
}

// scanVideoByte advances the mode-appropriate scan position by one
// graphics cell per master tick, reads that cell's byte off the bus, and
// drives the generator's ld194 capture -> blank -> serial-output stages
// so Output() carries a real mode-dependent bit instead of a constant
// (spec.md §4.5's "one serial pixel per 14 MHz cycle" contract).
func (s *System) scanVideoByte() {
	switch {
	case s.sw.Text:
		s.scanText()
	case s.sw.Hires:
		s.scanHires()
	default:
		s.scanLores()
	}
	s.video.SetBlanked(false)
	s.lastVideoBit = s.video.Output()
}

// scanText walks the 24x40 text-page grid, latching each character's
// glyph row into the shift register Output() drains (spec.md §4.5).
func (s *System) scanText() {
	ch := s.bus.ReadRAM(video.TextRowBase(s.textRow, s.sw.Page2) + uint16(s.textCol))
	s.video.LatchTextByte(ch, s.textRow%8)
	s.video.CaptureLd194(0, 0)
	s.textCol++
	if s.textCol >= 40 {
		s.textCol = 0
		s.textRow = (s.textRow + 1) % 24
	}
}

// scanLores walks the 48x40 lores grid, sharing the text page's
// non-linear addressing two half-rows per byte (spec.md §4.5).
func (s *System) scanLores() {
	cellRow := s.loresRow / 2
	bottomHalf := s.loresRow%2 == 1
	b := s.bus.ReadRAM(video.TextRowBase(cellRow, s.sw.Page2) + uint16(s.loresCol))
	s.video.CaptureLd194(video.LoresNibble(b, bottomHalf), 0)
	s.loresCol++
	if s.loresCol >= 40 {
		s.loresCol = 0
		s.loresRow = (s.loresRow + 1) % 48
	}
}

// scanHires walks the 192x280 hi-res bitmap, capturing bit 7 of each
// byte as the color-shift bit ld194 latches alongside graphics_time_1
// (spec.md §4.5).
func (s *System) scanHires() {
	data := s.bus.ReadRAM(video.HiresRowBase(s.hiresRow, s.sw.Page2) + uint16(s.hiresCol))
	s.video.CaptureLd194(0, (data>>7)&1)
	s.hiresCol++
	if s.hiresCol >= 40 {
		s.hiresCol = 0
		s.hiresRow = (s.hiresRow + 1) % 192
	}
}

// LastVideoBit returns the most recent serial bit Output() produced,
// for callers/tests that want to observe the driven pipeline directly
// rather than through the RAM-scanning ReadScreen/ReadHiresBitmap/
// ReadLoresBuffer accessors.
func (s *System) LastVideoBit() uint8 {
	return s.lastVideoBit
}

// ReadScreen returns the current 24x40 text-page character codes
// (spec.md §6.1/§8 invariant 9).
func (s *System) ReadScreen() [24][40]uint8 {
	return s.video.ReadScreen()
}

// ReadHiresBitmap returns the current 192x280 hi-res bitmap
// (spec.md §6.1).
func (s *System) ReadHiresBitmap() [192][280]uint8 {
	return s.video.ReadHiresBitmap()
}

// ReadLoresBuffer returns the current 48x40 lores color-index grid
// (spec.md §4.5).
func (s *System) ReadLoresBuffer() [48][40]uint8 {
	return s.video.ReadLoresBuffer()
}

// CPU exposes the underlying chip for callers that need direct register
// access (debuggers, the disassembler).
func (s *System) CPU() *cpu.Chip { return s.cpu }

// Disk exposes the Disk II controller for direct status inspection.
func (s *System) Disk() *disk2.Controller { return s.disk }
