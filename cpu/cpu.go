// Package cpu defines the MOS 6502 architecture and provides the
// methods needed to run the CPU and interface with it for emulation.
// Execution is cycle-exact: each call to Tick advances the processor by
// exactly one master clock cycle and the enclosing bus is responsible
// for performing the memory access implied by Addr/WE/DO between one
// Tick and the next.
package cpu

import (
	"fmt"

	"github.com/example/apple2go/irq"
	"github.com/example/apple2go/memory"
)

// Variant is an enumeration of the supported 6502 variants.
type Variant int

const (
	VariantUnimplemented Variant = iota // Start of valid enumerations.
	VariantNMOS                         // Basic NMOS 6502 including undocumented opcodes.
	VariantCMOS65C02                    // 65C02: illegal NMOS slots behave as documented NOPs, JMP (a) bug fixed.
	VariantMax                          // End of enumerations.
)

// irqType tracks which interrupt (if any) is currently latched for service.
type irqType int

const (
	irqUnimplemented irqType = iota
	irqNone
	irqIRQ
	irqNMI
	irqMax
)

// state is the micro-sequencer state named in spec.md §3. Not every
// instruction visits every state; the table in opcodes.go and the
// addressing-mode helpers below select the path per opcode.
type state int

const (
	StateOpcodeFetch state = iota
	StateCycle2
	StateCycle3
	StatePreIndirect
	StateIndirect
	StateBranchTaken
	StateBranchPage
	StatePreRead
	StateRead
	StateRead2
	StateRMW
	StatePreWrite
	StateWrite
	StateStack1
	StateStack2
	StateStack3
	StateStack4
	StateJump
	StateEnd
)

const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)

	FlagNegative  = uint8(0x80)
	FlagOverflow  = uint8(0x40)
	FlagAlwaysOne = uint8(0x20)
	FlagBreak     = uint8(0x10)
	FlagDecimal   = uint8(0x08)
	FlagInterrupt = uint8(0x04)
	FlagZero      = uint8(0x02)
	FlagCarry     = uint8(0x01)
)

// Chip holds the full register and pipeline state for a single 6502
// core. Per spec.md §3: A/X/Y/S/PC/P are the architectural registers;
// the remaining fields are the pipeline/interrupt-latch state needed to
// reproduce cycle-exact behavior.
type Chip struct {
	A  uint8
	X  uint8
	Y  uint8
	S  uint8
	P  uint8
	PC uint16

	variant Variant
	ram     memory.Bank
	irqLine irq.Sender
	nmiLine irq.Sender
	soLine  irq.Sender
	debug   bool

	tickDone bool

	op       uint8
	opVal    uint8
	opAddr   uint16
	opTick   int
	opDone   bool
	addrDone bool

	reset     bool
	resetTick int

	skipInterrupt     bool
	prevSkipInterrupt bool
	irqRaised         irqType
	runningInterrupt  bool
	nmiEdgeLatched    bool
	prevNMILevel      bool
	prevSOLevel       bool

	halted     bool
	haltOpcode uint8

	illegalOpcodeCount uint64

	curState state
}

// InvalidCPUState represents an invalid CPU state in the emulator —
// a programming-logic bug, not a runtime condition real hardware can hit.
type InvalidCPUState struct {
	Reason string
}

func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// HaltOpcode represents a JAM/KIL opcode halting the CPU.
type HaltOpcode struct {
	Opcode uint8
}

func (e HaltOpcode) Error() string {
	return fmt.Sprintf("HALT(0x%.2X) executed", e.Opcode)
}

// ChipDef defines a 6502 instance to create.
type ChipDef struct {
	Variant Variant
	Ram     memory.Bank
	Irq     irq.Sender
	Nmi     irq.Sender
	So      irq.Sender
	Debug   bool
}

// Init creates a new CPU of the requested variant in powered-on state.
func Init(def *ChipDef) (*Chip, error) {
	if def.Variant <= VariantUnimplemented || def.Variant >= VariantMax {
		return nil, InvalidCPUState{fmt.Sprintf("variant %d is invalid", def.Variant)}
	}
	p := &Chip{
		variant:  def.Variant,
		ram:      def.Ram,
		irqLine:  def.Irq,
		nmiLine:  def.Nmi,
		soLine:   def.So,
		debug:    def.Debug,
		tickDone: true,
	}
	if err := p.PowerOn(); err != nil {
		return nil, err
	}
	return p, nil
}

// PowerOn resets the CPU to its power-on state: P has interrupts
// disabled and the always-one bit set, D cleared (spec.md invariant 1),
// and PC loaded from the reset vector via a full Reset() sequence.
func (p *Chip) PowerOn() error {
	p.P = FlagAlwaysOne | FlagInterrupt
	p.A, p.X, p.Y = 0, 0, 0
	for {
		done, err := p.Reset()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Reset drives the documented 6-cycle 6502 reset sequence: AR
// initializes to $FFFC, S ends at $FD (three dummy stack decrements),
// I is set, PC loads from the reset vector. Matches spec.md §3/§8
// invariant 1.
func (p *Chip) Reset() (bool, error) {
	if !p.reset {
		p.reset = true
		p.tickDone = false
		p.resetTick = 0
		p.S = 0x00
	}
	p.resetTick++
	switch {
	case p.resetTick < 1 || p.resetTick > 6:
		return true, InvalidCPUState{fmt.Sprintf("Reset: bad tick %d", p.resetTick)}
	case p.resetTick == 1:
		_ = p.ram.Read(p.PC)
		p.P |= FlagInterrupt
		p.halted = false
		p.haltOpcode = 0
		p.irqRaised = irqNone
		return false, nil
	case p.resetTick >= 2 && p.resetTick <= 4:
		p.S--
		return false, nil
	case p.resetTick == 5:
		p.opVal = p.ram.Read(ResetVector)
		return false, nil
	}
	// resetTick == 6
	p.PC = (uint16(p.ram.Read(ResetVector+1)) << 8) + uint16(p.opVal)
	p.reset = false
	p.resetTick = 0
	p.tickDone = true
	p.S = 0xFD
	return true, nil
}

// Tick advances the CPU by exactly one master cycle. Returns an error
// (HaltOpcode or InvalidCPUState) if the core halts; the core never
// errors for any other reason (spec.md §7: "runtime errors during cycle
// execution do not exist").
func (p *Chip) Tick() error {
	if !p.tickDone {
		p.opDone = true
		return InvalidCPUState{"Tick() called without TickDone() after prior cycle"}
	}
	p.tickDone = false

	if p.irqRaised < irqNone || p.irqRaised >= irqMax {
		p.opDone = true
		return InvalidCPUState{fmt.Sprintf("irqRaised invalid: %d", p.irqRaised)}
	}
	if p.halted {
		p.opDone = true
		return HaltOpcode{p.haltOpcode}
	}

	p.sampleInterruptLines()

	p.opTick++

	// NMI always wins over a pending IRQ once asserted (spec.md §4.1,
	// invariant 6 in §8). The lines are sampled every cycle above, but a
	// pending interrupt is promoted into p.irqRaised only at opTick==1,
	// the opcode-fetch cycle of a fresh instruction, and never
	// mid-instruction (performBranch/branchNOP never touch it). The
	// promotion is not suppressed on that fetch cycle; only skipInterrupt
	// (set after a taken branch) defers servicing by one instruction.
	if p.opTick == 1 {
		p.resolvePendingInterrupt()
	}

	switch {
	case p.opTick == 1:
		p.op = p.ram.Read(p.PC)
		p.opDone = false
		p.addrDone = false
		if p.irqRaised == irqNone || p.skipInterrupt {
			p.PC++
			p.runningInterrupt = false
		}
		if p.irqRaised != irqNone && !p.skipInterrupt {
			p.runningInterrupt = true
		}
		return nil
	case p.opTick == 2:
		p.opVal = p.ram.Read(p.PC)
		p.prevSkipInterrupt = false
		if p.skipInterrupt {
			p.skipInterrupt = false
			p.prevSkipInterrupt = true
		}
	case p.opTick > 8:
		p.opDone = true
		return InvalidCPUState{fmt.Sprintf("opTick %d exceeds maximum of 8", p.opTick)}
	}

	var err error
	if p.runningInterrupt {
		vec := IRQVector
		if p.irqRaised == irqNMI {
			vec = NMIVector
		}
		p.opDone, err = p.runInterrupt(vec, true)
	} else {
		p.opDone, err = p.dispatch()
	}

	if p.halted {
		p.haltOpcode = p.op
		p.opDone = true
		return HaltOpcode{p.op}
	}
	if err != nil {
		p.haltOpcode = p.op
		p.halted = true
		p.opDone = true
		return err
	}
	if p.opDone {
		p.opTick = 0
		if p.runningInterrupt {
			p.irqRaised = irqNone
		}
		p.runningInterrupt = false
	}
	return nil
}

// TickDone is called after all chips on the bus have processed a given
// Tick() so latched side effects (NMI edge memory, SO pulse) settle
// before the next cycle begins.
func (p *Chip) TickDone() {
	p.tickDone = true
}

// InstructionDone reports whether the instruction executing in the
// current Tick() has completed all its cycles.
func (p *Chip) InstructionDone() bool {
	return p.opDone
}

// State reports the micro-sequencer state (spec.md §3) the CPU occupied
// during the cycle just executed. dispatch() in opcodes.go classifies
// each opcode's addressing-mode/opTick pair into one of these; callers
// that want single-cycle observability (disassembler trace, debugger)
// read this after Tick() returns.
func (p *Chip) State() state {
	return p.curState
}

// IllegalOpcodeCount returns the number of illegal/undocumented opcodes
// executed since power-on (spec.md §7 diagnostic counter).
func (p *Chip) IllegalOpcodeCount() uint64 {
	return p.illegalOpcodeCount
}

// Debug returns a one-line register/flag dump, or empty when nothing
// notable to report (teacher convention: chips are quiet by default and
// only emit via Debug() when the owning integrator asks, see
// atari2600.VCS.Tick).
func (p *Chip) Debug() string {
	if !p.debug {
		return ""
	}
	return fmt.Sprintf("PC=%.4X A=%.2X X=%.2X Y=%.2X S=%.2X P=%.2X op=%.2X tick=%d",
		p.PC, p.A, p.X, p.Y, p.S, p.P, p.op, p.opTick)
}

// sampleInterruptLines synchronizes the NMI/IRQ/SO input lines. NMI is
// edge-triggered: a falling edge latches nmiEdgeLatched, which stays set
// until the NMI vector is actually taken (spec.md §4.1). SO's falling
// edge sets V immediately, independent of instruction boundaries.
func (p *Chip) sampleInterruptLines() {
	nmiLevel := p.nmiLine != nil && p.nmiLine.Raised()
	if p.prevNMILevel && !nmiLevel {
		p.nmiEdgeLatched = true
	}
	p.prevNMILevel = nmiLevel

	soLevel := p.soLine != nil && p.soLine.Raised()
	if p.prevSOLevel && !soLevel {
		p.P |= FlagOverflow
	}
	p.prevSOLevel = soLevel
}

// resolvePendingInterrupt promotes the latched NMI/IRQ state into
// irqRaised at instruction-fetch boundaries only (never mid-branch),
// matching the §9 interrupt sampling window design note.
func (p *Chip) resolvePendingInterrupt() {
	irqLevel := p.irqLine != nil && p.irqLine.Raised() && (p.P&FlagInterrupt) == 0
	nmiPending := p.nmiEdgeLatched

	if !irqLevel && !nmiPending {
		return
	}
	switch p.irqRaised {
	case irqNone:
		p.irqRaised = irqIRQ
		if nmiPending {
			p.irqRaised = irqNMI
		}
	case irqIRQ:
		if nmiPending {
			p.irqRaised = irqNMI
		}
	}
}

// zeroCheck sets the Z flag based on the register contents.
func (p *Chip) zeroCheck(reg uint8) {
	p.P &^= FlagZero
	if reg == 0 {
		p.P |= FlagZero
	}
}

// negativeCheck sets the N flag based on the register contents.
func (p *Chip) negativeCheck(reg uint8) {
	p.P &^= FlagNegative
	if reg&FlagNegative != 0 {
		p.P |= FlagNegative
	}
}

// carryCheck sets the C flag if the 16-bit ALU result carried out of bit 7.
func (p *Chip) carryCheck(res uint16) {
	p.P &^= FlagCarry
	if res >= 0x100 {
		p.P |= FlagCarry
	}
}

// overflowCheck sets the V flag per the two's-complement sign-change rule.
func (p *Chip) overflowCheck(reg, arg, res uint8) {
	p.P &^= FlagOverflow
	if (reg^res)&(arg^res)&0x80 != 0 {
		p.P |= FlagOverflow
	}
}

type instructionMode int

const (
	loadInstructionMode instructionMode = iota
	rmwInstructionMode
	storeInstructionMode
)
