// Package disassemble implements a disassembler for 6502 opcodes.
package disassemble

import (
	"fmt"

	"github.com/example/apple2go/cpu"
	"github.com/example/apple2go/memory"
)

const (
	kMODE_IMMEDIATE = iota
	kMODE_ZP
	kMODE_ZPX
	kMODE_ZPY
	kMODE_INDIRECTX
	kMODE_INDIRECTY
	kMODE_ABSOLUTE
	kMODE_ABSOLUTEX
	kMODE_ABSOLUTEY
	kMODE_INDIRECT
	kMODE_IMPLIED
	kMODE_RELATIVE
)

// modeTable gives the addressing mode for every opcode, independent of
// its mnemonic (which now comes from cpu.Mnemonic). Six illegal opcodes
// (0x93, 0x9B, 0x9C, 0x9E, 0x9F, 0xBB - AHX/TAS/SHY/SHX/AHX/LAS) have no
// canonical addressing mode in older 6502 references; their entries
// here match the addressing the cpu package uses to cycle them.
var modeTable = [256]int{
	0x00: kMODE_IMMEDIATE, // BRK reads and discards the byte after it.
	0x01: kMODE_INDIRECTX,
	0x02: kMODE_IMPLIED,
	0x03: kMODE_INDIRECTX,
	0x04: kMODE_ZP,
	0x05: kMODE_ZP,
	0x06: kMODE_ZP,
	0x07: kMODE_ZP,
	0x08: kMODE_IMPLIED,
	0x09: kMODE_IMMEDIATE,
	0x0A: kMODE_IMPLIED,
	0x0B: kMODE_IMMEDIATE,
	0x0C: kMODE_ABSOLUTE,
	0x0D: kMODE_ABSOLUTE,
	0x0E: kMODE_ABSOLUTE,
	0x0F: kMODE_ABSOLUTE,
	0x10: kMODE_RELATIVE,
	0x11: kMODE_INDIRECTY,
	0x12: kMODE_IMPLIED,
	0x13: kMODE_INDIRECTY,
	0x14: kMODE_ZPX,
	0x15: kMODE_ZPX,
	0x16: kMODE_ZPX,
	0x17: kMODE_ZPX,
	0x18: kMODE_IMPLIED,
	0x19: kMODE_ABSOLUTEY,
	0x1A: kMODE_IMPLIED,
	0x1B: kMODE_ABSOLUTEY,
	0x1C: kMODE_ABSOLUTEX,
	0x1D: kMODE_ABSOLUTEX,
	0x1E: kMODE_ABSOLUTEX,
	0x1F: kMODE_ABSOLUTEX,
	0x20: kMODE_ABSOLUTE,
	0x21: kMODE_INDIRECTX,
	0x22: kMODE_IMPLIED,
	0x23: kMODE_INDIRECTX,
	0x24: kMODE_ZP,
	0x25: kMODE_ZP,
	0x26: kMODE_ZP,
	0x27: kMODE_ZP,
	0x28: kMODE_IMPLIED,
	0x29: kMODE_IMMEDIATE,
	0x2A: kMODE_IMPLIED,
	0x2B: kMODE_IMMEDIATE,
	0x2C: kMODE_ABSOLUTE,
	0x2D: kMODE_ABSOLUTE,
	0x2E: kMODE_ABSOLUTE,
	0x2F: kMODE_ABSOLUTE,
	0x30: kMODE_RELATIVE,
	0x31: kMODE_INDIRECTY,
	0x32: kMODE_IMPLIED,
	0x33: kMODE_INDIRECTY,
	0x34: kMODE_ZPX,
	0x35: kMODE_ZPX,
	0x36: kMODE_ZPX,
	0x37: kMODE_ZPX,
	0x38: kMODE_IMPLIED,
	0x39: kMODE_ABSOLUTEY,
	0x3A: kMODE_IMPLIED,
	0x3B: kMODE_ABSOLUTEY,
	0x3C: kMODE_ABSOLUTEX,
	0x3D: kMODE_ABSOLUTEX,
	0x3E: kMODE_ABSOLUTEX,
	0x3F: kMODE_ABSOLUTEX,
	0x40: kMODE_IMPLIED,
	0x41: kMODE_INDIRECTX,
	0x42: kMODE_IMPLIED,
	0x43: kMODE_INDIRECTX,
	0x44: kMODE_ZP,
	0x45: kMODE_ZP,
	0x46: kMODE_ZP,
	0x47: kMODE_ZP,
	0x48: kMODE_IMPLIED,
	0x49: kMODE_IMMEDIATE,
	0x4A: kMODE_IMPLIED,
	0x4B: kMODE_IMMEDIATE,
	0x4C: kMODE_ABSOLUTE,
	0x4D: kMODE_ABSOLUTE,
	0x4E: kMODE_ABSOLUTE,
	0x4F: kMODE_ABSOLUTE,
	0x50: kMODE_RELATIVE,
	0x51: kMODE_INDIRECTY,
	0x52: kMODE_IMPLIED,
	0x53: kMODE_INDIRECTY,
	0x54: kMODE_ZPX,
	0x55: kMODE_ZPX,
	0x56: kMODE_ZPX,
	0x57: kMODE_ZPX,
	0x58: kMODE_IMPLIED,
	0x59: kMODE_ABSOLUTEY,
	0x5A: kMODE_IMPLIED,
	0x5B: kMODE_ABSOLUTEY,
	0x5C: kMODE_ABSOLUTEX,
	0x5D: kMODE_ABSOLUTEX,
	0x5E: kMODE_ABSOLUTEX,
	0x5F: kMODE_ABSOLUTEX,
	0x60: kMODE_IMPLIED,
	0x61: kMODE_INDIRECTX,
	0x62: kMODE_IMPLIED,
	0x63: kMODE_INDIRECTX,
	0x64: kMODE_ZP,
	0x65: kMODE_ZP,
	0x66: kMODE_ZP,
	0x67: kMODE_ZP,
	0x68: kMODE_IMPLIED,
	0x69: kMODE_IMMEDIATE,
	0x6A: kMODE_IMPLIED,
	0x6B: kMODE_IMMEDIATE,
	0x6C: kMODE_INDIRECT,
	0x6D: kMODE_ABSOLUTE,
	0x6E: kMODE_ABSOLUTE,
	0x6F: kMODE_ABSOLUTE,
	0x70: kMODE_RELATIVE,
	0x71: kMODE_INDIRECTY,
	0x72: kMODE_IMPLIED,
	0x73: kMODE_INDIRECTY,
	0x74: kMODE_ZPX,
	0x75: kMODE_ZPX,
	0x76: kMODE_ZPX,
	0x77: kMODE_ZPX,
	0x78: kMODE_IMPLIED,
	0x79: kMODE_ABSOLUTEY,
	0x7A: kMODE_IMPLIED,
	0x7B: kMODE_ABSOLUTEY,
	0x7C: kMODE_ABSOLUTEX,
	0x7D: kMODE_ABSOLUTEX,
	0x7E: kMODE_ABSOLUTEX,
	0x7F: kMODE_ABSOLUTEX,
	0x80: kMODE_IMMEDIATE,
	0x81: kMODE_INDIRECTX,
	0x82: kMODE_IMMEDIATE,
	0x83: kMODE_INDIRECTX,
	0x84: kMODE_ZP,
	0x85: kMODE_ZP,
	0x86: kMODE_ZP,
	0x87: kMODE_ZP,
	0x88: kMODE_IMPLIED,
	0x89: kMODE_IMMEDIATE,
	0x8A: kMODE_IMPLIED,
	0x8B: kMODE_IMMEDIATE,
	0x8C: kMODE_ABSOLUTE,
	0x8D: kMODE_ABSOLUTE,
	0x8E: kMODE_ABSOLUTE,
	0x8F: kMODE_ABSOLUTE,
	0x90: kMODE_RELATIVE,
	0x91: kMODE_INDIRECTY,
	0x92: kMODE_IMPLIED,
	0x93: kMODE_INDIRECTY,
	0x94: kMODE_ZPX,
	0x95: kMODE_ZPX,
	0x96: kMODE_ZPY,
	0x97: kMODE_ZPY,
	0x98: kMODE_IMPLIED,
	0x99: kMODE_ABSOLUTEY,
	0x9A: kMODE_IMPLIED,
	0x9B: kMODE_ABSOLUTEY,
	0x9C: kMODE_ABSOLUTEX,
	0x9D: kMODE_ABSOLUTEX,
	0x9E: kMODE_ABSOLUTEY,
	0x9F: kMODE_ABSOLUTEY,
	0xA0: kMODE_IMMEDIATE,
	0xA1: kMODE_INDIRECTX,
	0xA2: kMODE_IMMEDIATE,
	0xA3: kMODE_INDIRECTX,
	0xA4: kMODE_ZP,
	0xA5: kMODE_ZP,
	0xA6: kMODE_ZP,
	0xA7: kMODE_ZP,
	0xA8: kMODE_IMPLIED,
	0xA9: kMODE_IMMEDIATE,
	0xAA: kMODE_IMPLIED,
	0xAB: kMODE_IMMEDIATE,
	0xAC: kMODE_ABSOLUTE,
	0xAD: kMODE_ABSOLUTE,
	0xAE: kMODE_ABSOLUTE,
	0xAF: kMODE_ABSOLUTE,
	0xB0: kMODE_RELATIVE,
	0xB1: kMODE_INDIRECTY,
	0xB2: kMODE_IMPLIED,
	0xB3: kMODE_INDIRECTY,
	0xB4: kMODE_ZPX,
	0xB5: kMODE_ZPX,
	0xB6: kMODE_ZPY,
	0xB7: kMODE_ZPY,
	0xB8: kMODE_IMPLIED,
	0xB9: kMODE_ABSOLUTEY,
	0xBA: kMODE_IMPLIED,
	0xBB: kMODE_ABSOLUTEY,
	0xBC: kMODE_ABSOLUTEX,
	0xBD: kMODE_ABSOLUTEX,
	0xBE: kMODE_ABSOLUTEY,
	0xBF: kMODE_ABSOLUTEY,
	0xC0: kMODE_IMMEDIATE,
	0xC1: kMODE_INDIRECTX,
	0xC2: kMODE_IMMEDIATE,
	0xC3: kMODE_INDIRECTX,
	0xC4: kMODE_ZP,
	0xC5: kMODE_ZP,
	0xC6: kMODE_ZP,
	0xC7: kMODE_ZP,
	0xC8: kMODE_IMPLIED,
	0xC9: kMODE_IMMEDIATE,
	0xCA: kMODE_IMPLIED,
	0xCB: kMODE_IMMEDIATE,
	0xCC: kMODE_ABSOLUTE,
	0xCD: kMODE_ABSOLUTE,
	0xCE: kMODE_ABSOLUTE,
	0xCF: kMODE_ABSOLUTE,
	0xD0: kMODE_RELATIVE,
	0xD1: kMODE_INDIRECTY,
	0xD2: kMODE_IMPLIED,
	0xD3: kMODE_INDIRECTY,
	0xD4: kMODE_ZPX,
	0xD5: kMODE_ZPX,
	0xD6: kMODE_ZPX,
	0xD7: kMODE_ZPX,
	0xD8: kMODE_IMPLIED,
	0xD9: kMODE_ABSOLUTEY,
	0xDA: kMODE_IMPLIED,
	0xDB: kMODE_ABSOLUTEY,
	0xDC: kMODE_ABSOLUTEX,
	0xDD: kMODE_ABSOLUTEX,
	0xDE: kMODE_ABSOLUTEX,
	0xDF: kMODE_ABSOLUTEX,
	0xE0: kMODE_IMMEDIATE,
	0xE1: kMODE_INDIRECTX,
	0xE2: kMODE_IMMEDIATE,
	0xE3: kMODE_INDIRECTX,
	0xE4: kMODE_ZP,
	0xE5: kMODE_ZP,
	0xE6: kMODE_ZP,
	0xE7: kMODE_ZP,
	0xE8: kMODE_IMPLIED,
	0xE9: kMODE_IMMEDIATE,
	0xEA: kMODE_IMPLIED,
	0xEB: kMODE_IMMEDIATE,
	0xEC: kMODE_ABSOLUTE,
	0xED: kMODE_ABSOLUTE,
	0xEE: kMODE_ABSOLUTE,
	0xEF: kMODE_ABSOLUTE,
	0xF0: kMODE_RELATIVE,
	0xF1: kMODE_INDIRECTY,
	0xF2: kMODE_IMPLIED,
	0xF3: kMODE_INDIRECTY,
	0xF4: kMODE_ZPX,
	0xF5: kMODE_ZPX,
	0xF6: kMODE_ZPX,
	0xF7: kMODE_ZPX,
	0xF8: kMODE_IMPLIED,
	0xF9: kMODE_ABSOLUTEY,
	0xFA: kMODE_IMPLIED,
	0xFB: kMODE_ABSOLUTEY,
	0xFC: kMODE_ABSOLUTEX,
	0xFD: kMODE_ABSOLUTEX,
	0xFE: kMODE_ABSOLUTEX,
	0xFF: kMODE_ABSOLUTEX,
}

// Step will take the given PC value and disassemble the instruction at that location
// returning a string for the disassembly and the bytes forward the PC should move to get to
// the next instruction. This does not interpret the instructions so LDA, JMP, LDA in memory
// will disassemble as that sequence and not follow the JMP.
// This always reads at least one byte past the current PC so make sure that address is valid.
func Step(pc uint16, r memory.Bank) (string, int) {
	// All instructions read a 2nd byte generally so just do that now.
	pc1 := r.Read(pc + 1)
	// Setup a 16 bit value so it can be added the the PC for branch offsets.
	// Sign extend it as needed.
	pc116 := uint16(int16(int8(pc1)))
	// And preread the 2nd byte for 3 byte instructions.
	pc2 := r.Read(pc + 2)

	o := r.Read(pc)
	op := cpu.Mnemonic(o)
	mode := modeTable[o]

	count := 2 // Default byte count, adjusted below.
	out := fmt.Sprintf("%.4X %.2X ", pc, o)
	switch mode {
	case kMODE_IMMEDIATE:
		out += fmt.Sprintf("%.2X      %s #%.2X       ", pc1, op, pc1)
	case kMODE_ZP:
		out += fmt.Sprintf("%.2X      %s %.2X        ", pc1, op, pc1)
	case kMODE_ZPX:
		out += fmt.Sprintf("%.2X      %s %.2X,X      ", pc1, op, pc1)
	case kMODE_ZPY:
		out += fmt.Sprintf("%.2X      %s %.2X,Y      ", pc1, op, pc1)
	case kMODE_INDIRECTX:
		out += fmt.Sprintf("%.2X      %s (%.2X,X)    ", pc1, op, pc1)
	case kMODE_INDIRECTY:
		out += fmt.Sprintf("%.2X      %s (%.2X),Y    ", pc1, op, pc1)
	case kMODE_ABSOLUTE:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X      ", pc1, pc2, op, pc2, pc1)
		count++
	case kMODE_ABSOLUTEX:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X,X    ", pc1, pc2, op, pc2, pc1)
		count++
	case kMODE_ABSOLUTEY:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X,Y    ", pc1, pc2, op, pc2, pc1)
		count++
	case kMODE_INDIRECT:
		out += fmt.Sprintf("%.2X %.2X   %s (%.2X%.2X)    ", pc1, pc2, op, pc2, pc1)
		count++
	case kMODE_IMPLIED:
		out += fmt.Sprintf("        %s           ", op)
		count--
	case kMODE_RELATIVE:
		out += fmt.Sprintf("%.2X      %s %.2X (%.4X) ", pc1, op, pc1, pc+pc116+2)
	default:
		panic(fmt.Sprintf("Invalid mode: %d", mode))
	}
	return out, count
}
