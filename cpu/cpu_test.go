package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/example/apple2go/memory"
)

// flatMemory is a 64k RAM bank used directly as test fixture memory,
// bypassing the memory package so vectors/opcodes can be poked in
// directly at arbitrary addresses (teacher's cpu_test.go convention).
type flatMemory struct {
	mem [65536]uint8
}

func (f *flatMemory) Read(addr uint16) uint8      { return f.mem[addr] }
func (f *flatMemory) Write(addr uint16, val uint8) { f.mem[addr] = val }
func (f *flatMemory) PowerOn()                     {}
func (f *flatMemory) Parent() memory.Bank          { return nil }
func (f *flatMemory) DatabusVal() uint8            { return 0 }

var _ = memory.Bank(&flatMemory{})

// step runs Tick/TickDone until the in-flight instruction completes and
// returns the number of cycles it took.
func step(t *testing.T, c *Chip) int {
	t.Helper()
	cycles := 0
	for {
		err := c.Tick()
		require.NoError(t, err, spew.Sdump(c))
		c.TickDone()
		cycles++
		if c.InstructionDone() {
			return cycles
		}
	}
}

func newTestChip(t *testing.T) (*Chip, *flatMemory) {
	t.Helper()
	mem := &flatMemory{}
	// RESET vector -> 0x0200; fill everything with NOP so undefined
	// fetches don't wander into illegal/halt territory.
	for i := range mem.mem {
		mem.mem[i] = 0xEA
	}
	mem.mem[ResetVector] = 0x00
	mem.mem[ResetVector+1] = 0x02
	c, err := Init(&ChipDef{Variant: VariantNMOS, Ram: mem})
	require.NoError(t, err)
	require.EqualValues(t, 0x0200, c.PC)
	require.EqualValues(t, 0xFD, c.S)
	return c, mem
}

func TestResetState(t *testing.T) {
	c, _ := newTestChip(t)
	require.EqualValues(t, 0, c.A)
	require.EqualValues(t, 0, c.X)
	require.EqualValues(t, 0, c.Y)
	require.NotZero(t, c.P&FlagInterrupt, "I should be set after reset")
	require.NotZero(t, c.P&FlagAlwaysOne)
}

func TestNOPCycleCount(t *testing.T) {
	c, mem := newTestChip(t)
	mem.mem[0x0200] = 0xEA // NOP
	cycles := step(t, c)
	require.Equal(t, 2, cycles)
	require.EqualValues(t, 0x0201, c.PC)
}

func TestLDAImmediateAndFlags(t *testing.T) {
	c, mem := newTestChip(t)
	mem.mem[0x0200] = 0xA9 // LDA #$80
	mem.mem[0x0201] = 0x80
	cycles := step(t, c)
	require.Equal(t, 2, cycles)
	require.EqualValues(t, 0x80, c.A)
	require.NotZero(t, c.P&FlagNegative)
	require.Zero(t, c.P&FlagZero)
}

func TestAbsoluteXPageCrossPenalty(t *testing.T) {
	c, mem := newTestChip(t)
	c.X = 0xFF
	mem.mem[0x0200] = 0xBD // LDA $10FF,X -> $11FE, crosses page
	mem.mem[0x0201] = 0xFF
	mem.mem[0x0202] = 0x10
	mem.mem[0x11FE] = 0x42
	cycles := step(t, c)
	require.Equal(t, 5, cycles, "page-crossing absolute,X costs an extra cycle")
	require.EqualValues(t, 0x42, c.A)

	c2, mem2 := newTestChip(t)
	c2.X = 0x01
	mem2.mem[0x0200] = 0xBD // LDA $1000,X -> $1001, no cross
	mem2.mem[0x0201] = 0x00
	mem2.mem[0x0202] = 0x10
	mem2.mem[0x1001] = 0x42
	cycles2 := step(t, c2)
	require.Equal(t, 4, cycles2)
}

func TestBranchTakenAndPageCross(t *testing.T) {
	c, mem := newTestChip(t)
	c.P &^= FlagZero // BNE taken
	mem.mem[0x0200] = 0xD0 // BNE
	mem.mem[0x0201] = 0x02 // +2, stays on same page
	cycles := step(t, c)
	require.Equal(t, 3, cycles)
	require.EqualValues(t, 0x0204, c.PC)

	c2, mem2 := newTestChip(t)
	c2.PC = 0x02F0
	c2.P &^= FlagZero
	mem2.mem[0x02F0] = 0xD0
	mem2.mem[0x02F1] = 0x20 // target 0x0312, crosses page
	cycles2 := step(t, c2)
	require.Equal(t, 4, cycles2)
	require.EqualValues(t, 0x0312, c2.PC)
}

func TestJMPIndirectPageBoundaryBug(t *testing.T) {
	c, mem := newTestChip(t)
	mem.mem[0x0200] = 0x6C // JMP ($30FF)
	mem.mem[0x0201] = 0xFF
	mem.mem[0x0202] = 0x30
	mem.mem[0x30FF] = 0x34 // low byte of target
	mem.mem[0x3000] = 0x12 // high byte wrongly re-read from $3000, not $3100
	mem.mem[0x3100] = 0x99 // would be the "correct" high byte if the bug were absent
	step(t, c)
	require.EqualValues(t, 0x1234, c.PC, "indirect JMP must wrap the pointer high-byte fetch within the page")
}

func TestADCDecimalMode(t *testing.T) {
	c, mem := newTestChip(t)
	c.P |= FlagDecimal
	c.A = 0x58
	mem.mem[0x0200] = 0x69 // ADC #$46
	mem.mem[0x0201] = 0x46
	step(t, c)
	require.EqualValues(t, 0x04, c.A, "58 + 46 BCD = 104, wraps to 04 with carry")
	require.NotZero(t, c.P&FlagCarry)
}

func TestSBCDecimalMode(t *testing.T) {
	c, mem := newTestChip(t)
	c.P |= FlagDecimal | FlagCarry
	c.A = 0x46
	mem.mem[0x0200] = 0xE9 // SBC #$12
	mem.mem[0x0201] = 0x12
	step(t, c)
	require.EqualValues(t, 0x34, c.A)
	require.NotZero(t, c.P&FlagCarry, "no borrow occurred")
}

// stickyNMI stays Raised() until manually cleared, modeling an external
// edge source the test drives by hand.
type stickyNMI struct{ raised bool }

func (s *stickyNMI) Raised() bool { return s.raised }

func TestNMIEdgeLatchesUntilVectorTaken(t *testing.T) {
	mem := &flatMemory{}
	for i := range mem.mem {
		mem.mem[i] = 0xEA
	}
	mem.mem[ResetVector] = 0x00
	mem.mem[ResetVector+1] = 0x02
	mem.mem[NMIVector] = 0x00
	mem.mem[NMIVector+1] = 0x04
	nmi := &stickyNMI{}
	c, err := Init(&ChipDef{Variant: VariantNMOS, Ram: mem, Nmi: nmi})
	require.NoError(t, err)

	// Raise the line for one sampled cycle, then drop it, so only the
	// edge (not the level) is what's latched.
	nmi.raised = true
	require.NoError(t, c.Tick())
	c.TickDone()
	nmi.raised = false

	// Finish the in-flight NOP, then the interrupt should be serviced on
	// the very next instruction fetch even though the line is long gone.
	for !c.InstructionDone() {
		require.NoError(t, c.Tick())
		c.TickDone()
	}
	step(t, c)
	require.EqualValues(t, 0x0400, c.PC, "latched NMI edge must still be serviced after the line deasserts")
}

func TestIllegalOpcodeCounter(t *testing.T) {
	c, mem := newTestChip(t)
	mem.mem[0x0200] = 0x1A // illegal NOP (implied)
	require.Zero(t, c.IllegalOpcodeCount())
	step(t, c)
	require.EqualValues(t, 1, c.IllegalOpcodeCount())
}

func TestCMOSVariantDegradesIllegalOpcodes(t *testing.T) {
	mem := &flatMemory{}
	for i := range mem.mem {
		mem.mem[i] = 0xEA
	}
	mem.mem[ResetVector] = 0x00
	mem.mem[ResetVector+1] = 0x02
	mem.mem[0x0200] = 0x1A // NMOS-illegal implied NOP slot
	c, err := Init(&ChipDef{Variant: VariantCMOS65C02, Ram: mem})
	require.NoError(t, err)
	step(t, c)
	require.Zero(t, c.IllegalOpcodeCount(), "65C02 core must not count NMOS-only slots as illegal executions")
}
