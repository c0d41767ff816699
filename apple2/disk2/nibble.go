package disk2

// translateTable is the Disk II "6-and-2" disk-nibble table: each 6-bit
// value 0..63 maps to an 8-bit disk byte with bit 7 set and at most one
// pair of adjacent zero bits, the constraint the Disk II's GCR-like read circuitry needs
// to stay synchronized (spec.md §4.3).
var translateTable = [64]uint8{
	0x96, 0x97, 0x9A, 0x9B, 0x9D, 0x9E, 0x9F, 0xA6,
	0xA7, 0xAB, 0xAC, 0xAD, 0xAE, 0xAF, 0xB2, 0xB3,
	0xB4, 0xB5, 0xB6, 0xB7, 0xB9, 0xBA, 0xBB, 0xBC,
	0xBD, 0xBE, 0xBF, 0xCB, 0xCD, 0xCE, 0xCF, 0xD3,
	0xD6, 0xD7, 0xD9, 0xDA, 0xDB, 0xDC, 0xDD, 0xDE,
	0xDF, 0xE5, 0xE6, 0xE7, 0xE9, 0xEA, 0xEB, 0xEC,
	0xED, 0xEE, 0xEF, 0xF2, 0xF3, 0xF4, 0xF5, 0xF6,
	0xF7, 0xF9, 0xFA, 0xFB, 0xFC, 0xFD, 0xFE, 0xFF,
}

// untranslateTable is the inverse of translateTable, built once at init
// time: disk byte -> original 6-bit value. Bytes that never appear as a
// translateTable output decode to 0 (only reachable by feeding a
// corrupt/foreign track buffer in, not by our own encoder).
var untranslateTable [256]uint8

func init() {
	for v, b := range translateTable {
		untranslateTable[b] = uint8(v)
	}
}

// dos33Interleave maps a physical sector position (the order sectors are
// laid out on the nibblized track) to the logical sector number used
// inside the flat .dsk image (spec.md §4.3 step 1).
var dos33Interleave = [16]int{
	0x0, 0x7, 0xE, 0x6, 0xD, 0x5, 0xC, 0x4,
	0xB, 0x3, 0xA, 0x2, 0x9, 0x1, 0x8, 0xF,
}

const (
	volumeNumber = 254

	gap1Len = 16
	gap2Len = 8
	gap3Len = 16

	sectorPayloadLen = 342 // 86 "secondary" bytes + 256 "primary" bytes.
)

// encode44 splits b into the Apple II "4-and-4" odd/even encoding used
// by the address field: two disk bytes whose odd and even bit positions
// (once ORed with 0xAA) reconstruct b.
func encode44(b uint8) (odd, even uint8) {
	return 0xAA | (b >> 1), 0xAA | b
}

// decode44 reverses encode44.
func decode44(odd, even uint8) uint8 {
	return ((odd << 1) | 0x01) & even
}

// encodeSector62 packs 256 source bytes into the 342-byte 6-and-2
// secondary/primary buffer described in spec.md §4.3 step 3, runs the
// rolling XOR checksum pass, and returns the 342 payload bytes plus the
// trailing checksum byte, both already translated through
// translateTable and ready to write to a nibble stream.
func encodeSector62(src *[256]uint8) (payload [342]uint8, checksum uint8) {
	var raw [342]uint8
	for i := 0; i < 256; i++ {
		b := src[i]
		// Low two bits, swapped, folded three-to-a-byte into the
		// first 86 bytes; high six bits go straight into the
		// trailing 256 bytes (spec.md's "first 86 ... next 256").
		low := ((b & 0x01) << 1) | ((b & 0x02) >> 1)
		idx := i % 86
		raw[idx] |= low << uint((i/86)*2)
		raw[86+i] = b >> 2
	}

	var prev uint8
	for i, v := range raw {
		cur := v
		raw[i] = cur ^ prev
		prev = cur
	}
	checksum = prev

	for i, v := range raw {
		payload[i] = translateTable[v&0x3F]
	}
	return payload, translateTable[checksum&0x3F]
}

// decodeSector62 reverses encodeSector62: given the 342 translated
// payload bytes and the trailing checksum byte (both straight off the
// nibble stream), reconstructs the original 256 data bytes. Returns
// false if the checksum doesn't validate.
func decodeSector62(payload [342]uint8, checksum uint8) (out [256]uint8, ok bool) {
	var raw [342]uint8
	for i, v := range payload {
		raw[i] = untranslateTable[v]
	}
	rawChecksum := untranslateTable[checksum]

	var prev uint8
	for i, v := range raw {
		cur := v ^ prev
		raw[i] = cur
		prev = cur
	}
	if prev != rawChecksum {
		return out, false
	}

	for i := 0; i < 256; i++ {
		high := raw[86+i]
		low := raw[i%86] >> uint((i/86)*2) & 0x03
		// Undo the swap applied in encodeSector62.
		lowUnswapped := ((low & 0x01) << 1) | ((low & 0x02) >> 1)
		out[i] = (high << 2) | lowUnswapped
	}
	return out, true
}

// nibblizeTrack lays out one full track buffer per spec.md §4.3 step 2:
// 16 physical sectors, each wrapped in its gaps/address-field/data-field,
// sourced from the logical sector dos33Interleave[p] of the flat image.
func nibblizeTrack(track uint8, trackData [16][256]uint8) []uint8 {
	buf := make([]uint8, 0, 6448)
	for p := 0; p < 16; p++ {
		logical := dos33Interleave[p]
		sector := uint8(p)
		checksum := uint8(volumeNumber) ^ track ^ sector

		for i := 0; i < gap1Len; i++ {
			buf = append(buf, 0xFF)
		}
		buf = append(buf, 0xD5, 0xAA, 0x96)
		vO, vE := encode44(uint8(volumeNumber))
		tO, tE := encode44(track)
		sO, sE := encode44(sector)
		cO, cE := encode44(checksum)
		buf = append(buf, vO, vE, tO, tE, sO, sE, cO, cE)
		buf = append(buf, 0xDE, 0xAA, 0xEB)

		for i := 0; i < gap2Len; i++ {
			buf = append(buf, 0xFF)
		}
		buf = append(buf, 0xD5, 0xAA, 0xAD)
		payload, chk := encodeSector62(&trackData[logical])
		buf = append(buf, payload[:]...)
		buf = append(buf, chk)
		buf = append(buf, 0xDE, 0xAA, 0xEB)

		for i := 0; i < gap3Len; i++ {
			buf = append(buf, 0xFF)
		}
	}
	return buf
}
