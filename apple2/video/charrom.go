package video

// defaultCharROM is a placeholder 512x8 character generator ROM (only 5
// rows of each 8-row slot are used, per spec.md §4.5's "512x5
// synchronous look-up"). Actual glyph bitmap content is ROM content,
// which spec.md's Non-goals exclude; callers that need a real character
// set load one via SetCharROM.
var defaultCharROM [512 * 8]uint8

// SetCharROM installs a caller-supplied character generator ROM image
// (512 characters x 8 bytes/rows, 5 used per spec.md §4.5).
func (g *Generator) SetCharROM(rom [512 * 8]uint8) {
	g.charROM = rom
}
