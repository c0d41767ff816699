package apple2

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/apple2go/cpu"
)

func newTestSystem(t *testing.T) *System {
	t.Helper()
	s, err := Init(&SystemDef{Variant: cpu.VariantNMOS})
	require.NoError(t, err)
	return s
}

// TestResetLoadsPCFromVector exercises spec.md §8 invariant 1 through
// the full integrator, not just the bare cpu.Chip.
func TestResetLoadsPCFromVector(t *testing.T) {
	s := newTestSystem(t)
	rom := make([]uint8, romSize)
	rom[len(rom)-4] = 0x00 // $FFFC low
	rom[len(rom)-3] = 0xD0 // $FFFC high -> PC = $D000
	require.NoError(t, s.LoadROM(rom))
	require.NoError(t, s.Reset())
	require.EqualValues(t, 0xD000, s.cpu.PC)
	require.EqualValues(t, 0xFD, s.cpu.S)
}

// TestScenarioLDAImmediateThenBRK reproduces spec.md §8 scenario 1.
func TestScenarioLDAImmediateThenBRK(t *testing.T) {
	s := newTestSystem(t)
	rom := make([]uint8, romSize)
	rom[len(rom)-4], rom[len(rom)-3] = 0x00, 0xD0 // reset vector -> $D000
	rom[0x0000] = 0xA9                            // LDA #$42
	rom[0x0001] = 0x42
	rom[0x0002] = 0x00 // BRK
	require.NoError(t, s.LoadROM(rom))
	require.NoError(t, s.Reset())

	// LDA #$42 takes 2 cycles, BRK takes 7; step both to completion.
	for i := 0; i < 2+7; i++ {
		require.NoError(t, s.cpu.Tick())
		s.cpu.TickDone()
	}
	require.EqualValues(t, 0x42, s.cpu.A)
	require.Zero(t, s.cpu.P&cpu.FlagZero)
	require.Zero(t, s.cpu.P&cpu.FlagNegative)
}

// TestTickDividesCPUClockBy14 exercises spec.md §5's 1:14 CPU:video
// clock ratio.
func TestTickDividesCPUClockBy14(t *testing.T) {
	s := newTestSystem(t)
	rom := make([]uint8, romSize)
	rom[len(rom)-4], rom[len(rom)-3] = 0x00, 0xD0
	require.NoError(t, s.LoadROM(rom))
	require.NoError(t, s.Reset())

	pcBefore := s.cpu.PC
	for i := 0; i < cpuClockDivider-1; i++ {
		require.NoError(t, s.Tick())
	}
	require.Equal(t, pcBefore, s.cpu.PC, "CPU must not advance before the 14th master tick")
	require.NoError(t, s.Tick())
}

// TestInjectKeyReadableThroughBus exercises spec.md §8 scenario 6 at the
// System level.
func TestInjectKeyReadableThroughBus(t *testing.T) {
	s := newTestSystem(t)
	s.InjectKey('A')
	require.EqualValues(t, 0xC1, s.bus.Read(0xC000))
	s.bus.Read(0xC010)
	require.Zero(t, s.bus.Read(0xC000)&0x80)
}

// TestReadScreenReflectsTextPage exercises spec.md §8 scenario 4.
func TestReadScreenReflectsTextPage(t *testing.T) {
	s := newTestSystem(t)
	s.bus.Write(0x0400, 0xC3)
	screen := s.ReadScreen()
	require.EqualValues(t, 0xC3, screen[0][0])
}

// TestReadLoresBufferDecodesHighLowNibbles exercises the lores half-row
// nibble split through System.ReadLoresBuffer (spec.md §4.5).
func TestReadLoresBufferDecodesHighLowNibbles(t *testing.T) {
	s := newTestSystem(t)
	s.bus.Write(0x0400, 0x3A) // low nibble $A (top half), high nibble $3 (bottom half)

	buf := s.ReadLoresBuffer()
	require.EqualValues(t, 0xA, buf[0][0])
	require.EqualValues(t, 0x3, buf[1][0])
}

// TestTickDrivesLoresOutputBit exercises spec.md §4.5's requirement that
// CaptureLd194/Output() be driven every video tick in LORES mode, not
// just in TEXT mode.
func TestTickDrivesLoresOutputBit(t *testing.T) {
	s := newTestSystem(t)
	rom := make([]uint8, romSize)
	rom[len(rom)-4], rom[len(rom)-3] = 0x00, 0xD0
	require.NoError(t, s.LoadROM(rom))
	require.NoError(t, s.Reset())

	s.bus.Write(0x0400, 0x0F) // all-on lores nibble in the top half
	require.NoError(t, s.Tick())
	require.EqualValues(t, 1, s.LastVideoBit())
}

// TestTickDrivesHiresOutputBit exercises the same contract for HIRES
// mode, sourced from video.HiresRowBase rather than the text page.
func TestTickDrivesHiresOutputBit(t *testing.T) {
	s := newTestSystem(t)
	rom := make([]uint8, romSize)
	rom[len(rom)-4], rom[len(rom)-3] = 0x00, 0xD0
	require.NoError(t, s.LoadROM(rom))
	require.NoError(t, s.Reset())

	s.bus.Write(0xC057, 0) // Hires on
	s.bus.Write(0x2000, 0x80)

	require.NoError(t, s.Tick())
	require.EqualValues(t, 1, s.LastVideoBit())
}

// TestLoadDiskThenReadNibblesThroughSlot6 exercises spec.md §8 scenario 5.
func TestLoadDiskThenReadNibblesThroughSlot6(t *testing.T) {
	s := newTestSystem(t)
	img := make([]uint8, 35*16*256)
	require.NoError(t, s.LoadDisk(img, 0))

	s.bus.Read(0xC0E9) // motor on
	for i := 0; i < 16; i++ {
		v := s.bus.Read(0xC0EC)
		require.NotZero(t, v&0x80, "every disk nibble must have bit 7 set")
	}
}
