// Command apple2run is a thin harness around the apple2 package (spec.md
// §6.5): it loads a ROM/disk image, runs the emulated machine for a
// fixed number of master cycles, and optionally dumps the text screen.
// Grounded on oisee-z80-optimizer's cmd/z80opt/main.go cobra command
// tree shape (one subcommand per mode, flags bound with pflag).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/apple2go/apple2"
	"github.com/example/apple2go/cpu"
)

// BackendUnavailable reports a requested execution backend that isn't
// compiled into this binary (spec.md §7).
type BackendUnavailable struct {
	Backend string
}

func (e BackendUnavailable) Error() string {
	return fmt.Sprintf("backend %q is not available in this build", e.Backend)
}

func main() {
	var romPath, diskPath string
	var cycles int
	var variantName string

	rootCmd := &cobra.Command{
		Use:   "apple2run",
		Short: "Run an Apple II ROM/disk image against the cycle-exact emulator core",
	}
	rootCmd.PersistentFlags().StringVar(&romPath, "rom", "", "12KB ROM image mapped to $D000-$FFFF")
	rootCmd.PersistentFlags().StringVar(&diskPath, "disk", "", "143,360-byte .dsk image loaded into drive 1")
	rootCmd.PersistentFlags().IntVar(&cycles, "cycles", 1000000, "Number of master cycles to run")
	rootCmd.PersistentFlags().StringVar(&variantName, "variant", "nmos", "CPU variant: nmos or 65c02")

	interpretCmd := &cobra.Command{
		Use:   "interpret",
		Short: "Run the structural cycle-stepper backend (the only backend implemented)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterpret(romPath, diskPath, cycles, variantName)
		},
	}

	for _, backend := range []string{"jit", "compile", "isa-native", "isa-ruby"} {
		backend := backend
		unavailCmd := &cobra.Command{
			Use:   backend,
			Short: fmt.Sprintf("Run the %s backend (not compiled into this build)", backend),
			RunE: func(cmd *cobra.Command, args []string) error {
				return BackendUnavailable{Backend: backend}
			},
		}
		rootCmd.AddCommand(unavailCmd)
	}

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Run to completion then print the text screen to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(romPath, diskPath, cycles, variantName)
		},
	}

	rootCmd.AddCommand(interpretCmd, dumpCmd, newDumpPNGCmd(&romPath, &diskPath, &cycles, &variantName))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func parseVariant(name string) (cpu.Variant, error) {
	switch name {
	case "nmos", "":
		return cpu.VariantNMOS, nil
	case "65c02":
		return cpu.VariantCMOS65C02, nil
	default:
		return cpu.VariantUnimplemented, fmt.Errorf("unknown CPU variant %q", name)
	}
}

func buildSystem(romPath, diskPath, variantName string) (*apple2.System, error) {
	variant, err := parseVariant(variantName)
	if err != nil {
		return nil, err
	}
	sys, err := apple2.Init(&apple2.SystemDef{Variant: variant})
	if err != nil {
		return nil, err
	}
	if romPath != "" {
		data, err := os.ReadFile(romPath)
		if err != nil {
			return nil, err
		}
		if err := sys.LoadROM(data); err != nil {
			return nil, err
		}
	}
	if diskPath != "" {
		data, err := os.ReadFile(diskPath)
		if err != nil {
			return nil, err
		}
		if err := sys.LoadDisk(data, 0); err != nil {
			return nil, err
		}
	}
	if err := sys.Reset(); err != nil {
		return nil, err
	}
	return sys, nil
}

func runInterpret(romPath, diskPath string, cycles int, variantName string) error {
	sys, err := buildSystem(romPath, diskPath, variantName)
	if err != nil {
		return err
	}
	for i := 0; i < cycles; i++ {
		if err := sys.Tick(); err != nil {
			return err
		}
	}
	fmt.Printf("ran %d master cycles\n", cycles)
	return nil
}

func runDump(romPath, diskPath string, cycles int, variantName string) error {
	sys, err := buildSystem(romPath, diskPath, variantName)
	if err != nil {
		return err
	}
	for i := 0; i < cycles; i++ {
		if err := sys.Tick(); err != nil {
			return err
		}
	}
	screen := sys.ReadScreen()
	for _, row := range screen {
		for _, ch := range row {
			c := ch & 0x7F
			if c < 0x20 || c > 0x7E {
				c = ' '
			}
			fmt.Printf("%c", c)
		}
		fmt.Println()
	}
	return nil
}
