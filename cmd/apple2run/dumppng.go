package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// newDumpPNGCmd renders the current text screen to a debug PNG using
// the basic fixed-width font, for eyeballing a run's final screen state
// without a full renderer pipeline (spec.md's Non-goals exclude the
// actual host/renderer pipeline; this is just a debug dump).
func newDumpPNGCmd(romPath, diskPath *string, cycles *int, variantName *string) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "dump-png",
		Short: "Run to completion then render the text screen to a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := buildSystem(*romPath, *diskPath, *variantName)
			if err != nil {
				return err
			}
			for i := 0; i < *cycles; i++ {
				if err := sys.Tick(); err != nil {
					return err
				}
			}
			return writeScreenPNG(sys.ReadScreen(), outPath)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "screen.png", "Output PNG path")
	return cmd
}

const (
	cellW = 7
	cellH = 13
	cols  = 40
	rows  = 24
)

func writeScreenPNG(screen [24][40]uint8, outPath string) error {
	img := image.NewRGBA(image.Rect(0, 0, cols*cellW, rows*cellH))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}
	for r, row := range screen {
		for c, ch := range row {
			glyph := ch & 0x7F
			if glyph < 0x20 || glyph > 0x7E {
				glyph = ' '
			}
			d.Dot = fixed.Point26_6{
				X: fixed.I(c * cellW),
				Y: fixed.I(r*cellH + cellH - 2),
			}
			d.DrawString(string(rune(glyph)))
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("can't create %s: %v", outPath, err)
	}
	defer f.Close()
	return png.Encode(f, img)
}
