package cpu

import "fmt"

// addrKind classifies an opcode's addressing mode purely for State()
// reporting (spec.md §3); it plays no role in cycle timing, which is
// entirely owned by the addrXxx functions in addressing.go.
type addrKind int

const (
	kindImplied addrKind = iota
	kindAccumulator
	kindImmediate
	kindZP
	kindZPXY
	kindAbs
	kindAbsXY
	kindIndX
	kindIndY
	kindRelative
	kindJSR
	kindRTS
	kindRTI
	kindBRK
	kindJMP
	kindJMPInd
	kindStack
	kindJAM
)

// classify maps an addressing kind and the current opTick onto the
// micro-sequencer state names from spec.md §3. Multi-shape addressing
// modes (RMW vs load vs store) all collapse onto the same named states;
// the distinction lives in which addrXxx function is actually driving
// opAddr/opVal, not in the name reported here.
func classify(kind addrKind, tick int) state {
	switch kind {
	case kindImplied, kindAccumulator, kindImmediate:
		if tick <= 1 {
			return StateOpcodeFetch
		}
		return StateEnd
	case kindZP:
		switch tick {
		case 1:
			return StateOpcodeFetch
		case 2:
			return StateCycle2
		case 3:
			return StateRead
		default:
			return StateRMW
		}
	case kindZPXY:
		switch tick {
		case 1:
			return StateOpcodeFetch
		case 2:
			return StateCycle2
		case 3:
			return StateCycle3
		case 4:
			return StateRead
		default:
			return StateRMW
		}
	case kindAbs:
		switch tick {
		case 1:
			return StateOpcodeFetch
		case 2:
			return StateCycle2
		case 3:
			return StateCycle3
		case 4:
			return StateRead
		default:
			return StateRMW
		}
	case kindAbsXY:
		switch tick {
		case 1:
			return StateOpcodeFetch
		case 2:
			return StateCycle2
		case 3:
			return StateCycle3
		case 4:
			return StateRead
		case 5:
			return StateRead2
		default:
			return StateRMW
		}
	case kindIndX:
		switch tick {
		case 1:
			return StateOpcodeFetch
		case 2:
			return StatePreIndirect
		case 3, 4:
			return StateIndirect
		case 5:
			return StateRead
		default:
			return StateRMW
		}
	case kindIndY:
		switch tick {
		case 1:
			return StateOpcodeFetch
		case 2:
			return StatePreIndirect
		case 3:
			return StateIndirect
		case 4:
			return StateRead
		case 5:
			return StateRead2
		default:
			return StateRMW
		}
	case kindRelative:
		switch tick {
		case 1:
			return StateOpcodeFetch
		case 2:
			return StateBranchTaken
		default:
			return StateBranchPage
		}
	case kindJMP:
		if tick <= 1 {
			return StateOpcodeFetch
		}
		return StateJump
	case kindJMPInd:
		switch {
		case tick <= 1:
			return StateOpcodeFetch
		case tick <= 3:
			return StateCycle2
		default:
			return StateJump
		}
	case kindJSR, kindRTS, kindRTI, kindBRK, kindStack:
		switch tick {
		case 1:
			return StateOpcodeFetch
		case 2:
			return StateStack1
		case 3:
			return StateStack2
		case 4:
			return StateStack3
		default:
			return StateStack4
		}
	case kindJAM:
		return StateEnd
	}
	return StateEnd
}

// addrModeFunc is the method-expression type of every addrXxx function:
// no bound receiver, so a single opInfo table (built once at init time,
// long before any Chip exists) can reference them.
type addrModeFunc func(*Chip, instructionMode) (bool, error)

// opExecFunc is the method-expression type of every per-opcode body
// (iADC, iLAX, ...).
type opExecFunc func(*Chip) (bool, error)

// opInfo is one row of the decode table: an opcode's name (for
// disassembly/debug), its addressing-mode classification (for State()),
// whether it's one of the NMOS-only undocumented slots (so a
// VariantCMOS65C02 core can degrade it to a same-shaped NOP), the
// addressing-mode function feeding that degrade path, and the closure
// that actually executes it.
type opInfo struct {
	name    string
	kind    addrKind
	illegal bool
	addr    addrModeFunc
	run     func(*Chip) (bool, error)
}

func loadOp(addr addrModeFunc, op opExecFunc) func(*Chip) (bool, error) {
	return func(p *Chip) (bool, error) {
		return p.loadInstruction(
			func(m instructionMode) (bool, error) { return addr(p, m) },
			func() (bool, error) { return op(p) },
		)
	}
}

func rmwOp(addr addrModeFunc, op opExecFunc) func(*Chip) (bool, error) {
	return func(p *Chip) (bool, error) {
		return p.rmwInstruction(
			func(m instructionMode) (bool, error) { return addr(p, m) },
			func() (bool, error) { return op(p) },
		)
	}
}

func storeOp(addr addrModeFunc, val func(*Chip) uint8) func(*Chip) (bool, error) {
	return func(p *Chip) (bool, error) {
		return p.storeInstruction(
			func(m instructionMode) (bool, error) { return addr(p, m) },
			val(p),
		)
	}
}

func storeOpIllegal(addr addrModeFunc, val func(*Chip) uint8) func(*Chip) (bool, error) {
	return func(p *Chip) (bool, error) {
		return p.storeInstructionIllegal(
			func(m instructionMode) (bool, error) { return addr(p, m) },
			val(p),
		)
	}
}

func impliedOp(op opExecFunc) func(*Chip) (bool, error) {
	return func(p *Chip) (bool, error) {
		if p.opTick != 2 {
			return true, InvalidCPUState{fmt.Sprintf("implied: invalid opTick %d", p.opTick)}
		}
		_ = p.ram.Read(p.PC)
		return op(p)
	}
}

func impliedIllegalOp(op opExecFunc) func(*Chip) (bool, error) {
	return func(p *Chip) (bool, error) {
		if p.opTick != 2 {
			return true, InvalidCPUState{fmt.Sprintf("implied: invalid opTick %d", p.opTick)}
		}
		_ = p.ram.Read(p.PC)
		p.illegal()
		return op(p)
	}
}

func jamOp(p *Chip) (bool, error) {
	p.halted = true
	return true, HaltOpcode{p.op}
}

// tasOp is the one store-shaped illegal instruction whose body needs
// opAddr (for the unstable high-byte-plus-one fixup) rather than a
// precomputed value, so it can't go through storeOp's val(p) shape.
func tasOp(p *Chip) (bool, error) {
	if !p.addrDone {
		var err error
		p.addrDone, err = p.addrAbsoluteY(storeInstructionMode)
		return false, err
	}
	return p.iTAS()
}

func regA(p *Chip) uint8   { return p.A }
func regX(p *Chip) uint8   { return p.X }
func regY(p *Chip) uint8   { return p.Y }
func regAX(p *Chip) uint8  { return p.A & p.X }

// opcodeTable is the 256-entry decode ROM, one literal row of 16 per
// hex digit to keep the opcode-to-mnemonic mapping readable (spec.md
// §9 prefers this over a runtime bitfield builder). Undocumented NMOS
// opcodes are marked illegal so VariantCMOS65C02 can flatten them to
// addressing-mode-equivalent NOPs.
var opcodeTable = [256]opInfo{
	// 0x00-0x0F
	0x00: {"BRK", kindBRK, false, nil, (*Chip).iBRK},
	0x01: {"ORA", kindIndX, false, nil, loadOp((*Chip).addrIndirectX, (*Chip).iORA)},
	0x02: {"JAM", kindJAM, true, nil, jamOp},
	0x03: {"SLO", kindIndX, true, (*Chip).addrIndirectX, rmwOp((*Chip).addrIndirectX, (*Chip).iSLO)},
	0x04: {"NOP", kindZP, true, (*Chip).addrZP, loadOp((*Chip).addrZP, (*Chip).iNOPIllegal)},
	0x05: {"ORA", kindZP, false, nil, loadOp((*Chip).addrZP, (*Chip).iORA)},
	0x06: {"ASL", kindZP, false, nil, rmwOp((*Chip).addrZP, (*Chip).iASL)},
	0x07: {"SLO", kindZP, true, (*Chip).addrZP, rmwOp((*Chip).addrZP, (*Chip).iSLO)},
	0x08: {"PHP", kindStack, false, nil, (*Chip).iPHP},
	0x09: {"ORA", kindImmediate, false, nil, loadOp((*Chip).addrImmediate, (*Chip).iORA)},
	0x0A: {"ASL", kindAccumulator, false, nil, impliedOp((*Chip).iASLAcc)},
	0x0B: {"ANC", kindImmediate, true, (*Chip).addrImmediate, loadOp((*Chip).addrImmediate, (*Chip).iANC)},
	0x0C: {"NOP", kindAbs, true, (*Chip).addrAbsolute, loadOp((*Chip).addrAbsolute, (*Chip).iNOPIllegal)},
	0x0D: {"ORA", kindAbs, false, nil, loadOp((*Chip).addrAbsolute, (*Chip).iORA)},
	0x0E: {"ASL", kindAbs, false, nil, rmwOp((*Chip).addrAbsolute, (*Chip).iASL)},
	0x0F: {"SLO", kindAbs, true, (*Chip).addrAbsolute, rmwOp((*Chip).addrAbsolute, (*Chip).iSLO)},

	// 0x10-0x1F
	0x10: {"BPL", kindRelative, false, nil, (*Chip).iBPL},
	0x11: {"ORA", kindIndY, false, nil, loadOp((*Chip).addrIndirectY, (*Chip).iORA)},
	0x12: {"JAM", kindJAM, true, nil, jamOp},
	0x13: {"SLO", kindIndY, true, (*Chip).addrIndirectY, rmwOp((*Chip).addrIndirectY, (*Chip).iSLO)},
	0x14: {"NOP", kindZPXY, true, (*Chip).addrZPX, loadOp((*Chip).addrZPX, (*Chip).iNOPIllegal)},
	0x15: {"ORA", kindZPXY, false, nil, loadOp((*Chip).addrZPX, (*Chip).iORA)},
	0x16: {"ASL", kindZPXY, false, nil, rmwOp((*Chip).addrZPX, (*Chip).iASL)},
	0x17: {"SLO", kindZPXY, true, (*Chip).addrZPX, rmwOp((*Chip).addrZPX, (*Chip).iSLO)},
	0x18: {"CLC", kindImplied, false, nil, impliedOp((*Chip).iCLC)},
	0x19: {"ORA", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteY, (*Chip).iORA)},
	0x1A: {"NOP", kindImplied, true, nil, impliedIllegalOp((*Chip).iNOP)},
	0x1B: {"SLO", kindAbsXY, true, (*Chip).addrAbsoluteY, rmwOp((*Chip).addrAbsoluteY, (*Chip).iSLO)},
	0x1C: {"NOP", kindAbsXY, true, (*Chip).addrAbsoluteX, loadOp((*Chip).addrAbsoluteX, (*Chip).iNOPIllegal)},
	0x1D: {"ORA", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteX, (*Chip).iORA)},
	0x1E: {"ASL", kindAbsXY, false, nil, rmwOp((*Chip).addrAbsoluteX, (*Chip).iASL)},
	0x1F: {"SLO", kindAbsXY, true, (*Chip).addrAbsoluteX, rmwOp((*Chip).addrAbsoluteX, (*Chip).iSLO)},

	// 0x20-0x2F
	0x20: {"JSR", kindJSR, false, nil, (*Chip).iJSR},
	0x21: {"AND", kindIndX, false, nil, loadOp((*Chip).addrIndirectX, (*Chip).iAND)},
	0x22: {"JAM", kindJAM, true, nil, jamOp},
	0x23: {"RLA", kindIndX, true, (*Chip).addrIndirectX, rmwOp((*Chip).addrIndirectX, (*Chip).iRLA)},
	0x24: {"BIT", kindZP, false, nil, loadOp((*Chip).addrZP, (*Chip).iBIT)},
	0x25: {"AND", kindZP, false, nil, loadOp((*Chip).addrZP, (*Chip).iAND)},
	0x26: {"ROL", kindZP, false, nil, rmwOp((*Chip).addrZP, (*Chip).iROL)},
	0x27: {"RLA", kindZP, true, (*Chip).addrZP, rmwOp((*Chip).addrZP, (*Chip).iRLA)},
	0x28: {"PLP", kindStack, false, nil, (*Chip).iPLP},
	0x29: {"AND", kindImmediate, false, nil, loadOp((*Chip).addrImmediate, (*Chip).iAND)},
	0x2A: {"ROL", kindAccumulator, false, nil, impliedOp((*Chip).iROLAcc)},
	0x2B: {"ANC", kindImmediate, true, (*Chip).addrImmediate, loadOp((*Chip).addrImmediate, (*Chip).iANC)},
	0x2C: {"BIT", kindAbs, false, nil, loadOp((*Chip).addrAbsolute, (*Chip).iBIT)},
	0x2D: {"AND", kindAbs, false, nil, loadOp((*Chip).addrAbsolute, (*Chip).iAND)},
	0x2E: {"ROL", kindAbs, false, nil, rmwOp((*Chip).addrAbsolute, (*Chip).iROL)},
	0x2F: {"RLA", kindAbs, true, (*Chip).addrAbsolute, rmwOp((*Chip).addrAbsolute, (*Chip).iRLA)},

	// 0x30-0x3F
	0x30: {"BMI", kindRelative, false, nil, (*Chip).iBMI},
	0x31: {"AND", kindIndY, false, nil, loadOp((*Chip).addrIndirectY, (*Chip).iAND)},
	0x32: {"JAM", kindJAM, true, nil, jamOp},
	0x33: {"RLA", kindIndY, true, (*Chip).addrIndirectY, rmwOp((*Chip).addrIndirectY, (*Chip).iRLA)},
	0x34: {"NOP", kindZPXY, true, (*Chip).addrZPX, loadOp((*Chip).addrZPX, (*Chip).iNOPIllegal)},
	0x35: {"AND", kindZPXY, false, nil, loadOp((*Chip).addrZPX, (*Chip).iAND)},
	0x36: {"ROL", kindZPXY, false, nil, rmwOp((*Chip).addrZPX, (*Chip).iROL)},
	0x37: {"RLA", kindZPXY, true, (*Chip).addrZPX, rmwOp((*Chip).addrZPX, (*Chip).iRLA)},
	0x38: {"SEC", kindImplied, false, nil, impliedOp((*Chip).iSEC)},
	0x39: {"AND", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteY, (*Chip).iAND)},
	0x3A: {"NOP", kindImplied, true, nil, impliedIllegalOp((*Chip).iNOP)},
	0x3B: {"RLA", kindAbsXY, true, (*Chip).addrAbsoluteY, rmwOp((*Chip).addrAbsoluteY, (*Chip).iRLA)},
	0x3C: {"NOP", kindAbsXY, true, (*Chip).addrAbsoluteX, loadOp((*Chip).addrAbsoluteX, (*Chip).iNOPIllegal)},
	0x3D: {"AND", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteX, (*Chip).iAND)},
	0x3E: {"ROL", kindAbsXY, false, nil, rmwOp((*Chip).addrAbsoluteX, (*Chip).iROL)},
	0x3F: {"RLA", kindAbsXY, true, (*Chip).addrAbsoluteX, rmwOp((*Chip).addrAbsoluteX, (*Chip).iRLA)},

	// 0x40-0x4F
	0x40: {"RTI", kindRTI, false, nil, (*Chip).iRTI},
	0x41: {"EOR", kindIndX, false, nil, loadOp((*Chip).addrIndirectX, (*Chip).iEOR)},
	0x42: {"JAM", kindJAM, true, nil, jamOp},
	0x43: {"SRE", kindIndX, true, (*Chip).addrIndirectX, rmwOp((*Chip).addrIndirectX, (*Chip).iSRE)},
	0x44: {"NOP", kindZP, true, (*Chip).addrZP, loadOp((*Chip).addrZP, (*Chip).iNOPIllegal)},
	0x45: {"EOR", kindZP, false, nil, loadOp((*Chip).addrZP, (*Chip).iEOR)},
	0x46: {"LSR", kindZP, false, nil, rmwOp((*Chip).addrZP, (*Chip).iLSR)},
	0x47: {"SRE", kindZP, true, (*Chip).addrZP, rmwOp((*Chip).addrZP, (*Chip).iSRE)},
	0x48: {"PHA", kindStack, false, nil, (*Chip).iPHA},
	0x49: {"EOR", kindImmediate, false, nil, loadOp((*Chip).addrImmediate, (*Chip).iEOR)},
	0x4A: {"LSR", kindAccumulator, false, nil, impliedOp((*Chip).iLSRAcc)},
	0x4B: {"ALR", kindImmediate, true, (*Chip).addrImmediate, loadOp((*Chip).addrImmediate, (*Chip).iALR)},
	0x4C: {"JMP", kindJMP, false, nil, (*Chip).iJMP},
	0x4D: {"EOR", kindAbs, false, nil, loadOp((*Chip).addrAbsolute, (*Chip).iEOR)},
	0x4E: {"LSR", kindAbs, false, nil, rmwOp((*Chip).addrAbsolute, (*Chip).iLSR)},
	0x4F: {"SRE", kindAbs, true, (*Chip).addrAbsolute, rmwOp((*Chip).addrAbsolute, (*Chip).iSRE)},

	// 0x50-0x5F
	0x50: {"BVC", kindRelative, false, nil, (*Chip).iBVC},
	0x51: {"EOR", kindIndY, false, nil, loadOp((*Chip).addrIndirectY, (*Chip).iEOR)},
	0x52: {"JAM", kindJAM, true, nil, jamOp},
	0x53: {"SRE", kindIndY, true, (*Chip).addrIndirectY, rmwOp((*Chip).addrIndirectY, (*Chip).iSRE)},
	0x54: {"NOP", kindZPXY, true, (*Chip).addrZPX, loadOp((*Chip).addrZPX, (*Chip).iNOPIllegal)},
	0x55: {"EOR", kindZPXY, false, nil, loadOp((*Chip).addrZPX, (*Chip).iEOR)},
	0x56: {"LSR", kindZPXY, false, nil, rmwOp((*Chip).addrZPX, (*Chip).iLSR)},
	0x57: {"SRE", kindZPXY, true, (*Chip).addrZPX, rmwOp((*Chip).addrZPX, (*Chip).iSRE)},
	0x58: {"CLI", kindImplied, false, nil, impliedOp((*Chip).iCLI)},
	0x59: {"EOR", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteY, (*Chip).iEOR)},
	0x5A: {"NOP", kindImplied, true, nil, impliedIllegalOp((*Chip).iNOP)},
	0x5B: {"SRE", kindAbsXY, true, (*Chip).addrAbsoluteY, rmwOp((*Chip).addrAbsoluteY, (*Chip).iSRE)},
	0x5C: {"NOP", kindAbsXY, true, (*Chip).addrAbsoluteX, loadOp((*Chip).addrAbsoluteX, (*Chip).iNOPIllegal)},
	0x5D: {"EOR", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteX, (*Chip).iEOR)},
	0x5E: {"LSR", kindAbsXY, false, nil, rmwOp((*Chip).addrAbsoluteX, (*Chip).iLSR)},
	0x5F: {"SRE", kindAbsXY, true, (*Chip).addrAbsoluteX, rmwOp((*Chip).addrAbsoluteX, (*Chip).iSRE)},

	// 0x60-0x6F
	0x60: {"RTS", kindRTS, false, nil, (*Chip).iRTS},
	0x61: {"ADC", kindIndX, false, nil, loadOp((*Chip).addrIndirectX, (*Chip).iADC)},
	0x62: {"JAM", kindJAM, true, nil, jamOp},
	0x63: {"RRA", kindIndX, true, (*Chip).addrIndirectX, rmwOp((*Chip).addrIndirectX, (*Chip).iRRA)},
	0x64: {"NOP", kindZP, true, (*Chip).addrZP, loadOp((*Chip).addrZP, (*Chip).iNOPIllegal)},
	0x65: {"ADC", kindZP, false, nil, loadOp((*Chip).addrZP, (*Chip).iADC)},
	0x66: {"ROR", kindZP, false, nil, rmwOp((*Chip).addrZP, (*Chip).iROR)},
	0x67: {"RRA", kindZP, true, (*Chip).addrZP, rmwOp((*Chip).addrZP, (*Chip).iRRA)},
	0x68: {"PLA", kindStack, false, nil, (*Chip).iPLA},
	0x69: {"ADC", kindImmediate, false, nil, loadOp((*Chip).addrImmediate, (*Chip).iADC)},
	0x6A: {"ROR", kindAccumulator, false, nil, impliedOp((*Chip).iRORAcc)},
	0x6B: {"ARR", kindImmediate, true, (*Chip).addrImmediate, loadOp((*Chip).addrImmediate, (*Chip).iARR)},
	0x6C: {"JMP", kindJMPInd, false, nil, (*Chip).iJMPIndirect},
	0x6D: {"ADC", kindAbs, false, nil, loadOp((*Chip).addrAbsolute, (*Chip).iADC)},
	0x6E: {"ROR", kindAbs, false, nil, rmwOp((*Chip).addrAbsolute, (*Chip).iROR)},
	0x6F: {"RRA", kindAbs, true, (*Chip).addrAbsolute, rmwOp((*Chip).addrAbsolute, (*Chip).iRRA)},

	// 0x70-0x7F
	0x70: {"BVS", kindRelative, false, nil, (*Chip).iBVS},
	0x71: {"ADC", kindIndY, false, nil, loadOp((*Chip).addrIndirectY, (*Chip).iADC)},
	0x72: {"JAM", kindJAM, true, nil, jamOp},
	0x73: {"RRA", kindIndY, true, (*Chip).addrIndirectY, rmwOp((*Chip).addrIndirectY, (*Chip).iRRA)},
	0x74: {"NOP", kindZPXY, true, (*Chip).addrZPX, loadOp((*Chip).addrZPX, (*Chip).iNOPIllegal)},
	0x75: {"ADC", kindZPXY, false, nil, loadOp((*Chip).addrZPX, (*Chip).iADC)},
	0x76: {"ROR", kindZPXY, false, nil, rmwOp((*Chip).addrZPX, (*Chip).iROR)},
	0x77: {"RRA", kindZPXY, true, (*Chip).addrZPX, rmwOp((*Chip).addrZPX, (*Chip).iRRA)},
	0x78: {"SEI", kindImplied, false, nil, impliedOp((*Chip).iSEI)},
	0x79: {"ADC", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteY, (*Chip).iADC)},
	0x7A: {"NOP", kindImplied, true, nil, impliedIllegalOp((*Chip).iNOP)},
	0x7B: {"RRA", kindAbsXY, true, (*Chip).addrAbsoluteY, rmwOp((*Chip).addrAbsoluteY, (*Chip).iRRA)},
	0x7C: {"NOP", kindAbsXY, true, (*Chip).addrAbsoluteX, loadOp((*Chip).addrAbsoluteX, (*Chip).iNOPIllegal)},
	0x7D: {"ADC", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteX, (*Chip).iADC)},
	0x7E: {"ROR", kindAbsXY, false, nil, rmwOp((*Chip).addrAbsoluteX, (*Chip).iROR)},
	0x7F: {"RRA", kindAbsXY, true, (*Chip).addrAbsoluteX, rmwOp((*Chip).addrAbsoluteX, (*Chip).iRRA)},

	// 0x80-0x8F
	0x80: {"NOP", kindImmediate, true, (*Chip).addrImmediate, loadOp((*Chip).addrImmediate, (*Chip).iNOPIllegal)},
	0x81: {"STA", kindIndX, false, nil, storeOp((*Chip).addrIndirectX, regA)},
	0x82: {"NOP", kindImmediate, true, (*Chip).addrImmediate, loadOp((*Chip).addrImmediate, (*Chip).iNOPIllegal)},
	0x83: {"SAX", kindIndX, true, (*Chip).addrIndirectX, storeOpIllegal((*Chip).addrIndirectX, regAX)},
	0x84: {"STY", kindZP, false, nil, storeOp((*Chip).addrZP, regY)},
	0x85: {"STA", kindZP, false, nil, storeOp((*Chip).addrZP, regA)},
	0x86: {"STX", kindZP, false, nil, storeOp((*Chip).addrZP, regX)},
	0x87: {"SAX", kindZP, true, (*Chip).addrZP, storeOpIllegal((*Chip).addrZP, regAX)},
	0x88: {"DEY", kindImplied, false, nil, impliedOp((*Chip).iDEY)},
	0x89: {"NOP", kindImmediate, true, (*Chip).addrImmediate, loadOp((*Chip).addrImmediate, (*Chip).iNOPIllegal)},
	0x8A: {"TXA", kindImplied, false, nil, impliedOp((*Chip).iTXA)},
	0x8B: {"XAA", kindImmediate, true, (*Chip).addrImmediate, loadOp((*Chip).addrImmediate, (*Chip).iXAA)},
	0x8C: {"STY", kindAbs, false, nil, storeOp((*Chip).addrAbsolute, regY)},
	0x8D: {"STA", kindAbs, false, nil, storeOp((*Chip).addrAbsolute, regA)},
	0x8E: {"STX", kindAbs, false, nil, storeOp((*Chip).addrAbsolute, regX)},
	0x8F: {"SAX", kindAbs, true, (*Chip).addrAbsolute, storeOpIllegal((*Chip).addrAbsolute, regAX)},

	// 0x90-0x9F
	0x90: {"BCC", kindRelative, false, nil, (*Chip).iBCC},
	0x91: {"STA", kindIndY, false, nil, storeOp((*Chip).addrIndirectY, regA)},
	0x92: {"JAM", kindJAM, true, nil, jamOp},
	0x93: {"AHX", kindIndY, true, (*Chip).addrIndirectY, func(p *Chip) (bool, error) { return p.iAHX(p.addrIndirectY) }},
	0x94: {"STY", kindZPXY, false, nil, storeOp((*Chip).addrZPX, regY)},
	0x95: {"STA", kindZPXY, false, nil, storeOp((*Chip).addrZPX, regA)},
	0x96: {"STX", kindZPXY, false, nil, storeOp((*Chip).addrZPY, regX)},
	0x97: {"SAX", kindZPXY, true, (*Chip).addrZPY, storeOpIllegal((*Chip).addrZPY, regAX)},
	0x98: {"TYA", kindImplied, false, nil, impliedOp((*Chip).iTYA)},
	0x99: {"STA", kindAbsXY, false, nil, storeOp((*Chip).addrAbsoluteY, regA)},
	0x9A: {"TXS", kindImplied, false, nil, impliedOp((*Chip).iTXS)},
	0x9B: {"TAS", kindAbsXY, true, (*Chip).addrAbsoluteY, tasOp},
	0x9C: {"SHY", kindAbsXY, true, (*Chip).addrAbsoluteX, func(p *Chip) (bool, error) { return p.iSHY(p.addrAbsoluteX) }},
	0x9D: {"STA", kindAbsXY, false, nil, storeOp((*Chip).addrAbsoluteX, regA)},
	0x9E: {"SHX", kindAbsXY, true, (*Chip).addrAbsoluteY, func(p *Chip) (bool, error) { return p.iSHX(p.addrAbsoluteY) }},
	0x9F: {"AHX", kindAbsXY, true, (*Chip).addrAbsoluteY, func(p *Chip) (bool, error) { return p.iAHX(p.addrAbsoluteY) }},

	// 0xA0-0xAF
	0xA0: {"LDY", kindImmediate, false, nil, loadOp((*Chip).addrImmediate, (*Chip).loadRegisterY)},
	0xA1: {"LDA", kindIndX, false, nil, loadOp((*Chip).addrIndirectX, (*Chip).loadRegisterA)},
	0xA2: {"LDX", kindImmediate, false, nil, loadOp((*Chip).addrImmediate, (*Chip).loadRegisterX)},
	0xA3: {"LAX", kindIndX, true, (*Chip).addrIndirectX, loadOp((*Chip).addrIndirectX, (*Chip).iLAX)},
	0xA4: {"LDY", kindZP, false, nil, loadOp((*Chip).addrZP, (*Chip).loadRegisterY)},
	0xA5: {"LDA", kindZP, false, nil, loadOp((*Chip).addrZP, (*Chip).loadRegisterA)},
	0xA6: {"LDX", kindZP, false, nil, loadOp((*Chip).addrZP, (*Chip).loadRegisterX)},
	0xA7: {"LAX", kindZP, true, (*Chip).addrZP, loadOp((*Chip).addrZP, (*Chip).iLAX)},
	0xA8: {"TAY", kindImplied, false, nil, impliedOp((*Chip).iTAY)},
	0xA9: {"LDA", kindImmediate, false, nil, loadOp((*Chip).addrImmediate, (*Chip).loadRegisterA)},
	0xAA: {"TAX", kindImplied, false, nil, impliedOp((*Chip).iTAX)},
	0xAB: {"OAL", kindImmediate, true, (*Chip).addrImmediate, loadOp((*Chip).addrImmediate, (*Chip).iOAL)},
	0xAC: {"LDY", kindAbs, false, nil, loadOp((*Chip).addrAbsolute, (*Chip).loadRegisterY)},
	0xAD: {"LDA", kindAbs, false, nil, loadOp((*Chip).addrAbsolute, (*Chip).loadRegisterA)},
	0xAE: {"LDX", kindAbs, false, nil, loadOp((*Chip).addrAbsolute, (*Chip).loadRegisterX)},
	0xAF: {"LAX", kindAbs, true, (*Chip).addrAbsolute, loadOp((*Chip).addrAbsolute, (*Chip).iLAX)},

	// 0xB0-0xBF
	0xB0: {"BCS", kindRelative, false, nil, (*Chip).iBCS},
	0xB1: {"LDA", kindIndY, false, nil, loadOp((*Chip).addrIndirectY, (*Chip).loadRegisterA)},
	0xB2: {"JAM", kindJAM, true, nil, jamOp},
	0xB3: {"LAX", kindIndY, true, (*Chip).addrIndirectY, loadOp((*Chip).addrIndirectY, (*Chip).iLAX)},
	0xB4: {"LDY", kindZPXY, false, nil, loadOp((*Chip).addrZPX, (*Chip).loadRegisterY)},
	0xB5: {"LDA", kindZPXY, false, nil, loadOp((*Chip).addrZPX, (*Chip).loadRegisterA)},
	0xB6: {"LDX", kindZPXY, false, nil, loadOp((*Chip).addrZPY, (*Chip).loadRegisterX)},
	0xB7: {"LAX", kindZPXY, true, (*Chip).addrZPY, loadOp((*Chip).addrZPY, (*Chip).iLAX)},
	0xB8: {"CLV", kindImplied, false, nil, impliedOp((*Chip).iCLV)},
	0xB9: {"LDA", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteY, (*Chip).loadRegisterA)},
	0xBA: {"TSX", kindImplied, false, nil, impliedOp((*Chip).iTSX)},
	0xBB: {"LAS", kindAbsXY, true, (*Chip).addrAbsoluteY, loadOp((*Chip).addrAbsoluteY, (*Chip).iLAS)},
	0xBC: {"LDY", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteX, (*Chip).loadRegisterY)},
	0xBD: {"LDA", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteX, (*Chip).loadRegisterA)},
	0xBE: {"LDX", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteY, (*Chip).loadRegisterX)},
	0xBF: {"LAX", kindAbsXY, true, (*Chip).addrAbsoluteY, loadOp((*Chip).addrAbsoluteY, (*Chip).iLAX)},

	// 0xC0-0xCF
	0xC0: {"CPY", kindImmediate, false, nil, loadOp((*Chip).addrImmediate, (*Chip).compareY)},
	0xC1: {"CMP", kindIndX, false, nil, loadOp((*Chip).addrIndirectX, (*Chip).compareA)},
	0xC2: {"NOP", kindImmediate, true, (*Chip).addrImmediate, loadOp((*Chip).addrImmediate, (*Chip).iNOPIllegal)},
	0xC3: {"DCP", kindIndX, true, (*Chip).addrIndirectX, rmwOp((*Chip).addrIndirectX, (*Chip).iDCP)},
	0xC4: {"CPY", kindZP, false, nil, loadOp((*Chip).addrZP, (*Chip).compareY)},
	0xC5: {"CMP", kindZP, false, nil, loadOp((*Chip).addrZP, (*Chip).compareA)},
	0xC6: {"DEC", kindZP, false, nil, rmwOp((*Chip).addrZP, (*Chip).iDEC)},
	0xC7: {"DCP", kindZP, true, (*Chip).addrZP, rmwOp((*Chip).addrZP, (*Chip).iDCP)},
	0xC8: {"INY", kindImplied, false, nil, impliedOp((*Chip).iINY)},
	0xC9: {"CMP", kindImmediate, false, nil, loadOp((*Chip).addrImmediate, (*Chip).compareA)},
	0xCA: {"DEX", kindImplied, false, nil, impliedOp((*Chip).iDEX)},
	0xCB: {"AXS", kindImmediate, true, (*Chip).addrImmediate, loadOp((*Chip).addrImmediate, (*Chip).iAXS)},
	0xCC: {"CPY", kindAbs, false, nil, loadOp((*Chip).addrAbsolute, (*Chip).compareY)},
	0xCD: {"CMP", kindAbs, false, nil, loadOp((*Chip).addrAbsolute, (*Chip).compareA)},
	0xCE: {"DEC", kindAbs, false, nil, rmwOp((*Chip).addrAbsolute, (*Chip).iDEC)},
	0xCF: {"DCP", kindAbs, true, (*Chip).addrAbsolute, rmwOp((*Chip).addrAbsolute, (*Chip).iDCP)},

	// 0xD0-0xDF
	0xD0: {"BNE", kindRelative, false, nil, (*Chip).iBNE},
	0xD1: {"CMP", kindIndY, false, nil, loadOp((*Chip).addrIndirectY, (*Chip).compareA)},
	0xD2: {"JAM", kindJAM, true, nil, jamOp},
	0xD3: {"DCP", kindIndY, true, (*Chip).addrIndirectY, rmwOp((*Chip).addrIndirectY, (*Chip).iDCP)},
	0xD4: {"NOP", kindZPXY, true, (*Chip).addrZPX, loadOp((*Chip).addrZPX, (*Chip).iNOPIllegal)},
	0xD5: {"CMP", kindZPXY, false, nil, loadOp((*Chip).addrZPX, (*Chip).compareA)},
	0xD6: {"DEC", kindZPXY, false, nil, rmwOp((*Chip).addrZPX, (*Chip).iDEC)},
	0xD7: {"DCP", kindZPXY, true, (*Chip).addrZPX, rmwOp((*Chip).addrZPX, (*Chip).iDCP)},
	0xD8: {"CLD", kindImplied, false, nil, impliedOp((*Chip).iCLD)},
	0xD9: {"CMP", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteY, (*Chip).compareA)},
	0xDA: {"NOP", kindImplied, true, nil, impliedIllegalOp((*Chip).iNOP)},
	0xDB: {"DCP", kindAbsXY, true, (*Chip).addrAbsoluteY, rmwOp((*Chip).addrAbsoluteY, (*Chip).iDCP)},
	0xDC: {"NOP", kindAbsXY, true, (*Chip).addrAbsoluteX, loadOp((*Chip).addrAbsoluteX, (*Chip).iNOPIllegal)},
	0xDD: {"CMP", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteX, (*Chip).compareA)},
	0xDE: {"DEC", kindAbsXY, false, nil, rmwOp((*Chip).addrAbsoluteX, (*Chip).iDEC)},
	0xDF: {"DCP", kindAbsXY, true, (*Chip).addrAbsoluteX, rmwOp((*Chip).addrAbsoluteX, (*Chip).iDCP)},

	// 0xE0-0xEF
	0xE0: {"CPX", kindImmediate, false, nil, loadOp((*Chip).addrImmediate, (*Chip).compareX)},
	0xE1: {"SBC", kindIndX, false, nil, loadOp((*Chip).addrIndirectX, (*Chip).iSBC)},
	0xE2: {"NOP", kindImmediate, true, (*Chip).addrImmediate, loadOp((*Chip).addrImmediate, (*Chip).iNOPIllegal)},
	0xE3: {"ISC", kindIndX, true, (*Chip).addrIndirectX, rmwOp((*Chip).addrIndirectX, (*Chip).iISC)},
	0xE4: {"CPX", kindZP, false, nil, loadOp((*Chip).addrZP, (*Chip).compareX)},
	0xE5: {"SBC", kindZP, false, nil, loadOp((*Chip).addrZP, (*Chip).iSBC)},
	0xE6: {"INC", kindZP, false, nil, rmwOp((*Chip).addrZP, (*Chip).iINC)},
	0xE7: {"ISC", kindZP, true, (*Chip).addrZP, rmwOp((*Chip).addrZP, (*Chip).iISC)},
	0xE8: {"INX", kindImplied, false, nil, impliedOp((*Chip).iINX)},
	0xE9: {"SBC", kindImmediate, false, nil, loadOp((*Chip).addrImmediate, (*Chip).iSBC)},
	0xEA: {"NOP", kindImplied, false, nil, impliedOp((*Chip).iNOP)},
	0xEB: {"SBC", kindImmediate, true, (*Chip).addrImmediate, loadOp((*Chip).addrImmediate, func(p *Chip) (bool, error) { p.illegal(); return p.iSBC() })},
	0xEC: {"CPX", kindAbs, false, nil, loadOp((*Chip).addrAbsolute, (*Chip).compareX)},
	0xED: {"SBC", kindAbs, false, nil, loadOp((*Chip).addrAbsolute, (*Chip).iSBC)},
	0xEE: {"INC", kindAbs, false, nil, rmwOp((*Chip).addrAbsolute, (*Chip).iINC)},
	0xEF: {"ISC", kindAbs, true, (*Chip).addrAbsolute, rmwOp((*Chip).addrAbsolute, (*Chip).iISC)},

	// 0xF0-0xFF
	0xF0: {"BEQ", kindRelative, false, nil, (*Chip).iBEQ},
	0xF1: {"SBC", kindIndY, false, nil, loadOp((*Chip).addrIndirectY, (*Chip).iSBC)},
	0xF2: {"JAM", kindJAM, true, nil, jamOp},
	0xF3: {"ISC", kindIndY, true, (*Chip).addrIndirectY, rmwOp((*Chip).addrIndirectY, (*Chip).iISC)},
	0xF4: {"NOP", kindZPXY, true, (*Chip).addrZPX, loadOp((*Chip).addrZPX, (*Chip).iNOPIllegal)},
	0xF5: {"SBC", kindZPXY, false, nil, loadOp((*Chip).addrZPX, (*Chip).iSBC)},
	0xF6: {"INC", kindZPXY, false, nil, rmwOp((*Chip).addrZPX, (*Chip).iINC)},
	0xF7: {"ISC", kindZPXY, true, (*Chip).addrZPX, rmwOp((*Chip).addrZPX, (*Chip).iISC)},
	0xF8: {"SED", kindImplied, false, nil, impliedOp((*Chip).iSED)},
	0xF9: {"SBC", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteY, (*Chip).iSBC)},
	0xFA: {"NOP", kindImplied, true, nil, impliedIllegalOp((*Chip).iNOP)},
	0xFB: {"ISC", kindAbsXY, true, (*Chip).addrAbsoluteY, rmwOp((*Chip).addrAbsoluteY, (*Chip).iISC)},
	0xFC: {"NOP", kindAbsXY, true, (*Chip).addrAbsoluteX, loadOp((*Chip).addrAbsoluteX, (*Chip).iNOPIllegal)},
	0xFD: {"SBC", kindAbsXY, false, nil, loadOp((*Chip).addrAbsoluteX, (*Chip).iSBC)},
	0xFE: {"INC", kindAbsXY, false, nil, rmwOp((*Chip).addrAbsoluteX, (*Chip).iINC)},
	0xFF: {"ISC", kindAbsXY, true, (*Chip).addrAbsoluteX, rmwOp((*Chip).addrAbsoluteX, (*Chip).iISC)},
}

// Mnemonic returns the decode table's name for an opcode byte, used by
// the disassembler and debug traces.
func Mnemonic(op uint8) string {
	return opcodeTable[op].name
}

// dispatch executes the current cycle of the opcode latched in p.op,
// consulting opcodeTable. A VariantCMOS65C02 core degrades every
// NMOS-only undocumented slot to a same-shaped no-op rather than
// running its NMOS body.
func (p *Chip) dispatch() (bool, error) {
	info := &opcodeTable[p.op]
	p.curState = classify(info.kind, p.opTick)

	if p.variant == VariantCMOS65C02 && info.illegal {
		if info.addr == nil {
			return p.iNOP()
		}
		return p.loadInstruction(
			func(m instructionMode) (bool, error) { return info.addr(p, m) },
			p.iNOP,
		)
	}
	return info.run(p)
}
