package cpu

import "fmt"

// Each addrXxx function implements one 6502 addressing mode. They are
// driven by opTick and return (done, error) where done indicates the
// addressing phase (and, for loads/stores, the whole instruction) has
// finished for this tick. p.opVal holds the fetched operand and
// p.opAddr the effective address, so RMW/store instructions can act on
// it without re-deriving it from memory.

// addrImmediate implements immediate mode - #i.
func (p *Chip) addrImmediate(instructionMode) (bool, error) {
	if p.opTick != 2 {
		return true, InvalidCPUState{fmt.Sprintf("addrImmediate invalid opTick %d", p.opTick)}
	}
	p.PC++
	return true, nil
}

// addrZP implements zero page mode - d.
func (p *Chip) addrZP(mode instructionMode) (bool, error) {
	switch {
	case p.opTick <= 1 || p.opTick > 4:
		return true, InvalidCPUState{fmt.Sprintf("addrZP invalid opTick %d", p.opTick)}
	case p.opTick == 2:
		p.opAddr = uint16(p.opVal)
		p.PC++
		return mode == storeInstructionMode, nil
	case p.opTick == 3:
		p.opVal = p.ram.Read(p.opAddr)
		return mode != rmwInstructionMode, nil
	}
	// opTick == 4 (RMW writeback)
	p.ram.Write(p.opAddr, p.opVal)
	return true, nil
}

// addrZPX implements zero page plus X mode - d,x.
func (p *Chip) addrZPX(mode instructionMode) (bool, error) { return p.addrZPXY(mode, p.X) }

// addrZPY implements zero page plus Y mode - d,y.
func (p *Chip) addrZPY(mode instructionMode) (bool, error) { return p.addrZPXY(mode, p.Y) }

func (p *Chip) addrZPXY(mode instructionMode, reg uint8) (bool, error) {
	switch {
	case p.opTick <= 1 || p.opTick > 5:
		return true, InvalidCPUState{fmt.Sprintf("addrZPXY invalid opTick %d", p.opTick)}
	case p.opTick == 2:
		p.opAddr = uint16(p.opVal)
		p.PC++
		return false, nil
	case p.opTick == 3:
		_ = p.ram.Read(p.opAddr)
		p.opAddr = uint16(uint8(p.opVal + reg))
		return mode == storeInstructionMode, nil
	case p.opTick == 4:
		p.opVal = p.ram.Read(p.opAddr)
		return mode != rmwInstructionMode, nil
	}
	// opTick == 5
	p.ram.Write(p.opAddr, p.opVal)
	return true, nil
}

// addrIndirectX implements zero page indirect plus X mode - (d,x).
func (p *Chip) addrIndirectX(mode instructionMode) (bool, error) {
	switch {
	case p.opTick <= 1 || p.opTick > 7:
		return true, InvalidCPUState{fmt.Sprintf("addrIndirectX invalid opTick %d", p.opTick)}
	case p.opTick == 2:
		p.opAddr = uint16(p.opVal)
		p.PC++
		return false, nil
	case p.opTick == 3:
		_ = p.ram.Read(p.opAddr)
		p.opAddr = uint16(uint8(p.opVal + p.X))
		return false, nil
	case p.opTick == 4:
		p.opVal = p.ram.Read(p.opAddr)
		p.opAddr = uint16(uint8(p.opAddr&0xFF) + 1)
		return false, nil
	case p.opTick == 5:
		p.opAddr = (uint16(p.ram.Read(p.opAddr)) << 8) + uint16(p.opVal)
		return mode == storeInstructionMode, nil
	case p.opTick == 6:
		p.opVal = p.ram.Read(p.opAddr)
		return mode != rmwInstructionMode, nil
	}
	// opTick == 7
	p.ram.Write(p.opAddr, p.opVal)
	return true, nil
}

// addrIndirectY implements zero page indirect plus Y mode - (d),y. The
// extra Read2 cycle (spec.md §4.1) occurs whenever adding Y carries
// into the high byte; RMW always takes it regardless of carry.
func (p *Chip) addrIndirectY(mode instructionMode) (bool, error) {
	switch {
	case p.opTick <= 1 || p.opTick > 7:
		return true, InvalidCPUState{fmt.Sprintf("addrIndirectY invalid opTick %d", p.opTick)}
	case p.opTick == 2:
		p.opAddr = uint16(p.opVal)
		p.PC++
		return false, nil
	case p.opTick == 3:
		p.opVal = p.ram.Read(p.opAddr)
		p.opAddr = uint16(uint8(p.opAddr&0xFF) + 1)
		return false, nil
	case p.opTick == 4:
		p.opAddr = (uint16(p.ram.Read(p.opAddr)) << 8) + uint16(p.opVal)
		a := (p.opAddr & 0xFF00) + uint16(uint8(p.opAddr&0xFF)+p.Y)
		p.opVal = 0
		if a != p.opAddr+uint16(p.Y) {
			p.opVal = 1 // carried; fixup needed next tick
		}
		p.opAddr = a
		return false, nil
	case p.opTick == 5:
		carried := p.opVal != 0
		p.opVal = p.ram.Read(p.opAddr)
		done := true
		if carried {
			p.opAddr += 0x0100
			if mode == loadInstructionMode {
				done = false
			}
		}
		if mode == rmwInstructionMode {
			done = false
		}
		return done, nil
	case p.opTick == 6:
		p.opVal = p.ram.Read(p.opAddr)
		return mode != rmwInstructionMode, nil
	}
	// opTick == 7
	p.ram.Write(p.opAddr, p.opVal)
	return true, nil
}

// addrAbsolute implements absolute mode - a.
func (p *Chip) addrAbsolute(mode instructionMode) (bool, error) {
	switch {
	case p.opTick <= 1 || p.opTick > 5:
		return true, InvalidCPUState{fmt.Sprintf("addrAbsolute invalid opTick %d", p.opTick)}
	case p.opTick == 2:
		p.opAddr = uint16(p.opVal)
		p.PC++
		return false, nil
	case p.opTick == 3:
		p.opVal = p.ram.Read(p.PC)
		p.PC++
		p.opAddr |= uint16(p.opVal) << 8
		return mode == storeInstructionMode, nil
	case p.opTick == 4:
		p.opVal = p.ram.Read(p.opAddr)
		return mode != rmwInstructionMode, nil
	}
	// opTick == 5
	p.ram.Write(p.opAddr, p.opVal)
	return true, nil
}

// addrAbsoluteX implements absolute plus X mode - a,x.
func (p *Chip) addrAbsoluteX(mode instructionMode) (bool, error) { return p.addrAbsoluteXY(mode, p.X) }

// addrAbsoluteY implements absolute plus Y mode - a,y.
func (p *Chip) addrAbsoluteY(mode instructionMode) (bool, error) { return p.addrAbsoluteXY(mode, p.Y) }

func (p *Chip) addrAbsoluteXY(mode instructionMode, reg uint8) (bool, error) {
	switch {
	case p.opTick <= 1 || p.opTick > 6:
		return true, InvalidCPUState{fmt.Sprintf("addrAbsoluteXY invalid opTick %d", p.opTick)}
	case p.opTick == 2:
		p.opAddr = uint16(p.opVal)
		p.PC++
		return false, nil
	case p.opTick == 3:
		p.opVal = p.ram.Read(p.PC)
		p.PC++
		p.opAddr |= uint16(p.opVal) << 8
		a := (p.opAddr & 0xFF00) + uint16(uint8(p.opAddr&0xFF)+reg)
		p.opVal = 0
		if a != p.opAddr+uint16(reg) {
			p.opVal = 1
		}
		p.opAddr = a
		return false, nil
	case p.opTick == 4:
		carried := p.opVal != 0
		p.opVal = p.ram.Read(p.opAddr)
		done := true
		if carried {
			p.opAddr += 0x0100
			if mode == loadInstructionMode {
				done = false
			}
		}
		if mode == rmwInstructionMode {
			done = false
		}
		return done, nil
	case p.opTick == 5:
		p.opVal = p.ram.Read(p.opAddr)
		return mode != rmwInstructionMode, nil
	}
	// opTick == 6
	p.ram.Write(p.opAddr, p.opVal)
	return true, nil
}

// loadRegister stores val into reg and updates N/Z from the new value.
func (p *Chip) loadRegister(reg *uint8, val uint8) (bool, error) {
	*reg = val
	p.zeroCheck(*reg)
	p.negativeCheck(*reg)
	return true, nil
}

func (p *Chip) loadRegisterA() (bool, error) { return p.loadRegister(&p.A, p.opVal) }
func (p *Chip) loadRegisterX() (bool, error) { return p.loadRegister(&p.X, p.opVal) }
func (p *Chip) loadRegisterY() (bool, error) { return p.loadRegister(&p.Y, p.opVal) }

func (p *Chip) pushStack(val uint8) {
	p.ram.Write(0x0100+uint16(p.S), val)
	p.S--
}

func (p *Chip) popStack() uint8 {
	p.S++
	return p.ram.Read(0x0100 + uint16(p.S))
}

// branchNOP advances the PC past the offset byte for a branch not taken.
func (p *Chip) branchNOP() (bool, error) {
	if p.opTick <= 1 || p.opTick > 3 {
		return true, InvalidCPUState{fmt.Sprintf("branchNOP invalid opTick %d", p.opTick)}
	}
	p.PC++
	return true, nil
}

// performBranch computes the new PC for a taken branch and the extra
// cycle cost when the target crosses a page (spec.md §4.1/§8 invariant 3).
func (p *Chip) performBranch() (bool, error) {
	switch {
	case p.opTick <= 1 || p.opTick > 4:
		return true, InvalidCPUState{fmt.Sprintf("performBranch invalid opTick %d", p.opTick)}
	case p.opTick == 2:
		p.PC++
		return false, nil
	case p.opTick == 3:
		// A taken branch sets skipInterrupt, so the instruction after it
		// runs before a pending interrupt is serviced, unless the prior
		// instruction already did so (real silicon's one-cycle pipelining
		// delay).
		if !p.prevSkipInterrupt {
			p.skipInterrupt = true
		}
		p.opAddr = p.PC
		p.PC = (p.PC & 0xFF00) + uint16(uint8(p.PC&0xFF)+p.opVal)
		_ = p.ram.Read(p.PC)
		if p.PC == p.opAddr+uint16(int16(int8(p.opVal))) {
			return true, nil
		}
		return false, nil
	}
	// opTick == 4 (page-cross fixup)
	p.PC = p.opAddr + uint16(int16(int8(p.opVal)))
	_ = p.ram.Read(p.PC)
	return true, nil
}

// runInterrupt performs the shared BRK/IRQ/NMI sequence (reset has its
// own, in Chip.Reset):
// push PCH, PCL, P (B set only for software BRK), then load PC from the
// given vector. Matches spec.md §4.1.
func (p *Chip) runInterrupt(addr uint16, irqSourced bool) (bool, error) {
	switch {
	case p.opTick < 1 || p.opTick > 7:
		return true, InvalidCPUState{fmt.Sprintf("runInterrupt invalid opTick %d", p.opTick)}
	case p.opTick == 2:
		if !irqSourced {
			p.PC++
		}
		return false, nil
	case p.opTick == 3:
		p.pushStack(uint8(p.PC >> 8))
		return false, nil
	case p.opTick == 4:
		p.pushStack(uint8(p.PC & 0xFF))
		return false, nil
	case p.opTick == 5:
		push := p.P | FlagAlwaysOne | FlagBreak
		if irqSourced {
			push &^= FlagBreak
		}
		p.P |= FlagInterrupt
		p.pushStack(push)
		return false, nil
	case p.opTick == 6:
		p.opVal = p.ram.Read(addr)
		if p.irqRaised == irqNMI {
			p.nmiEdgeLatched = false
		}
		return false, nil
	}
	// opTick == 7
	p.PC = (uint16(p.ram.Read(addr+1)) << 8) + uint16(p.opVal)
	if irqSourced && !p.prevSkipInterrupt {
		p.skipInterrupt = true
	}
	return true, nil
}

// loadInstruction drives an addressing-mode function through to
// completion and then invokes opFunc to apply the loaded value.
func (p *Chip) loadInstruction(addrFunc func(instructionMode) (bool, error), opFunc func() (bool, error)) (bool, error) {
	var err error
	if !p.addrDone {
		p.addrDone, err = addrFunc(loadInstructionMode)
	}
	if err != nil {
		return true, err
	}
	if p.addrDone {
		return opFunc()
	}
	return false, nil
}

// rmwInstruction drives a read-modify-write addressing mode (which
// performs its own writeback tick) and then invokes opFunc on the final
// tick to compute and store the new value.
func (p *Chip) rmwInstruction(addrFunc func(instructionMode) (bool, error), opFunc func() (bool, error)) (bool, error) {
	var err error
	if !p.addrDone {
		p.addrDone, err = addrFunc(rmwInstructionMode)
		return false, err
	}
	return opFunc()
}

// storeInstruction drives an addressing mode to the point it has an
// effective address, then stores val there.
func (p *Chip) storeInstruction(addrFunc func(instructionMode) (bool, error), val uint8) (bool, error) {
	var err error
	if !p.addrDone {
		p.addrDone, err = addrFunc(storeInstructionMode)
		return false, err
	}
	return p.store(val, p.opAddr)
}

func (p *Chip) store(val uint8, addr uint16) (bool, error) {
	p.ram.Write(addr, val)
	return true, nil
}

func (p *Chip) storeWithFlags(val uint8, addr uint16) (bool, error) {
	p.ram.Write(addr, val)
	p.zeroCheck(val)
	p.negativeCheck(val)
	return true, nil
}

// storeInstructionIllegal is storeInstruction plus the diagnostic bump
// used by SAX, counted once the store actually lands (spec.md §7).
func (p *Chip) storeInstructionIllegal(addrFunc func(instructionMode) (bool, error), val uint8) (bool, error) {
	done, err := p.storeInstruction(addrFunc, val)
	if done {
		p.illegal()
	}
	return done, err
}
