package apple2

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/apple2go/apple2/disk2"
	"github.com/example/apple2go/apple2/keyboard"
	"github.com/example/apple2go/apple2/video"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	kbd := keyboard.NewController()
	disk := disk2.NewController()
	sw := &video.SoftSwitches{}
	b, err := NewBus(kbd, disk, sw)
	require.NoError(t, err)
	return b
}

func TestRAMReadWrite(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x1000, 0x42)
	require.EqualValues(t, 0x42, b.Read(0x1000))
}

func TestROMReadIsWriteMasked(t *testing.T) {
	b := newTestBus(t)
	rom := make([]uint8, romSize)
	rom[0] = 0xEA
	require.NoError(t, b.LoadROM(rom))
	require.EqualValues(t, 0xEA, b.Read(0xD000))

	b.Write(0xD000, 0x00)
	require.EqualValues(t, 0xEA, b.Read(0xD000), "ROM writes must be silently ignored")
}

func TestROMSizeMismatch(t *testing.T) {
	b := newTestBus(t)
	err := b.LoadROM(make([]uint8, 10))
	require.Error(t, err)
	var mismatch RomSizeMismatch
	require.ErrorAs(t, err, &mismatch)
}

func TestTextPageWriteMarksScreenDirty(t *testing.T) {
	b := newTestBus(t)
	require.False(t, b.ScreenDirty())
	b.Write(0x0400, 0xC3)
	require.True(t, b.ScreenDirty(), "write into $0400-$07FF must mark the screen dirty")
	require.False(t, b.ScreenDirty(), "dirty flag clears after being read")
}

func TestKeyboardLatchAndStrobeClear(t *testing.T) {
	kbd := keyboard.NewController()
	disk := disk2.NewController()
	sw := &video.SoftSwitches{}
	b, err := NewBus(kbd, disk, sw)
	require.NoError(t, err)

	kbd.InjectASCII('A')
	require.EqualValues(t, 0xC1, b.Read(0xC000))
	b.Read(0xC010)
	require.Zero(t, b.Read(0xC000)&0x80)
}

func TestVideoSoftSwitchWrite(t *testing.T) {
	sw := &video.SoftSwitches{}
	kbd := keyboard.NewController()
	disk := disk2.NewController()
	b, err := NewBus(kbd, disk, sw)
	require.NoError(t, err)

	b.Write(0xC057, 0)
	require.True(t, sw.Hires)
	b.Write(0xC056, 0)
	require.False(t, sw.Hires)
}

func TestSpeakerTogglesOnEveryAccess(t *testing.T) {
	b := newTestBus(t)
	require.False(t, b.speaker.level)
	b.Read(0xC030)
	require.True(t, b.speaker.level)
	b.Read(0xC030)
	require.False(t, b.speaker.level)
}

type heldButton struct{ held bool }

func (h heldButton) Input() bool { return h.held }

func TestGameButtonReadsThroughPortIn1(t *testing.T) {
	b := newTestBus(t)
	require.Zero(t, b.Read(0xC062)&0x80, "released button must report bit 7 clear")

	b.SetGameButton(1, heldButton{held: true})
	require.NotZero(t, b.Read(0xC062)&0x80, "held button must report bit 7 set")
	require.Zero(t, b.Read(0xC061)&0x80, "other gameport lines are unaffected")
}
