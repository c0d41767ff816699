package keyboard

// Default US PS/2 Set-2 scancode -> ASCII ROMs. Apple IIe keyboard
// encoders map the unshifted plane to uppercase letters and the shifted
// plane to lowercase (the opposite of a PC keyboard), matching
// spec.md §8 scenario 6 (scancode $1C unshifted yields 'A').
//
// Only the keys exercised by typical boot/test input (letters, digits,
// space, return, common punctuation) are populated; everything else
// decodes to 0x00.
var defaultUnshiftedROM = buildROM(map[uint8]uint8{
	0x1C: 'A', 0x32: 'B', 0x21: 'C', 0x23: 'D', 0x24: 'E',
	0x2B: 'F', 0x34: 'G', 0x33: 'H', 0x43: 'I', 0x3B: 'J',
	0x42: 'K', 0x4B: 'L', 0x3A: 'M', 0x31: 'N', 0x44: 'O',
	0x4D: 'P', 0x15: 'Q', 0x2D: 'R', 0x1B: 'S', 0x2C: 'T',
	0x3C: 'U', 0x2A: 'V', 0x1D: 'W', 0x22: 'X', 0x35: 'Y',
	0x1A: 'Z',
	0x45: '0', 0x16: '1', 0x1E: '2', 0x26: '3', 0x25: '4',
	0x2E: '5', 0x36: '6', 0x3D: '7', 0x3E: '8', 0x46: '9',
	0x29: ' ', 0x5A: '\r', 0x66: 0x08, 0x76: 0x1B,
	0x41: ',', 0x49: '.', 0x4A: '/', 0x4C: ';',
})

var defaultShiftedROM = buildROM(map[uint8]uint8{
	0x1C: 'a', 0x32: 'b', 0x21: 'c', 0x23: 'd', 0x24: 'e',
	0x2B: 'f', 0x34: 'g', 0x33: 'h', 0x43: 'i', 0x3B: 'j',
	0x42: 'k', 0x4B: 'l', 0x3A: 'm', 0x31: 'n', 0x44: 'o',
	0x4D: 'p', 0x15: 'q', 0x2D: 'r', 0x1B: 's', 0x2C: 't',
	0x3C: 'u', 0x2A: 'v', 0x1D: 'w', 0x22: 'x', 0x35: 'y',
	0x1A: 'z',
	0x45: ')', 0x16: '!', 0x1E: '@', 0x26: '#', 0x25: '$',
	0x2E: '%', 0x36: '^', 0x3D: '&', 0x3E: '*', 0x46: '(',
	0x29: ' ', 0x5A: '\r', 0x66: 0x08, 0x76: 0x1B,
	0x41: '<', 0x49: '>', 0x4A: '?', 0x4C: ':',
})

func buildROM(entries map[uint8]uint8) [256]uint8 {
	var rom [256]uint8
	for k, v := range entries {
		rom[k] = v
	}
	return rom
}
