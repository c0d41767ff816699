// Command apple2dis loads a raw binary image into a flat 64K RAM bank
// and disassembles it to stdout starting at the given PC. Grounded on
// the teacher's disassembler command (same flag shape, same
// load-then-walk loop), with the C64 PRG/BASIC-listing special case
// dropped since this repo targets Apple II ROM/binary images, not C64
// program files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/example/apple2go/disassemble"
	"github.com/example/apple2go/memory"
)

var (
	startPC = flag.Int("start_pc", 0xD000, "PC value to start disassembling")
	offset  = flag.Int("offset", 0xD000, "Offset into RAM to start loading data. All other RAM will be zero'd out.")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("Invalid command: %s [-start_pc <PC> -offset <offset>] <filename>", os.Args[0])
	}
	fn := flag.Args()[0]

	f, err := memory.NewRAM(1<<16, nil)
	if err != nil {
		log.Fatalf("Can't initialize RAM: %v", err)
	}
	b, err := os.ReadFile(fn)
	if err != nil {
		log.Fatalf("Can't open %s - %v", fn, err)
	}
	pc := uint16(*startPC)

	max := 1<<16 - *offset
	if l := len(b); l > max {
		log.Printf("Length %d at offset %d too long, truncating to 64k", l, *offset)
		b = b[:max]
	}
	fmt.Printf("0x%.2X bytes at pc: %.4X\n", len(b), pc)
	for i, by := range b {
		f.Write(uint16(*offset+i), by)
	}

	cnt := 0
	// Can't base it on PC since it may rollover so just disassemble until we run out of buffer.
	for cnt < len(b) {
		dis, off := disassemble.Step(pc, f)
		pc += uint16(off)
		cnt += off
		fmt.Printf("%s\n", dis)
	}
}
