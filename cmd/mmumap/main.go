// Command mmumap builds the Raspberry Pi translation tables on the host
// and inspects the resulting address space layout. It drives the same
// table construction code that runs on the target, so the printed or
// rendered layout is exactly what the hardware walker would see.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RusPiRo/ruspiro-mmu/mmu"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mmumap",
	Short: "Inspect the Raspberry Pi AArch64 translation table layout.",
	Long: `mmumap builds the identity mapped translation tables for a given ` +
		`VideoCore memory split and shows the resulting physical address ` +
		`space layout, either as text or as a rendered image.`,
}

func init() {
	rootCmd.PersistentFlags().String(
		"vc-start", "0x3B400000",
		"physical start address of the VideoCore memory carve-out")
	rootCmd.PersistentFlags().String(
		"vc-size", "0x03C00000",
		"size of the VideoCore memory carve-out in bytes")
}

// vcBounds parses the carve-out flags. Both accept decimal or 0x hex.
func vcBounds(cmd *cobra.Command) (uint32, uint32, error) {
	startStr, _ := cmd.Flags().GetString("vc-start")
	sizeStr, _ := cmd.Flags().GetString("vc-size")

	start, err := strconv.ParseUint(startStr, 0, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --vc-start %q: %w", startStr, err)
	}
	size, err := strconv.ParseUint(sizeStr, 0, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --vc-size %q: %w", sizeStr, err)
	}
	return uint32(start), uint32(size), nil
}

// buildTables runs the full bring-up against the shadow registers and
// returns the identity mapped table set for inspection.
func buildTables(cmd *cobra.Command) (*mmu.TableSet, error) {
	vcStart, vcSize, err := vcBounds(cmd)
	if err != nil {
		return nil, err
	}
	mmu.Initialize(0, vcStart, vcSize)
	return mmu.PhysicalTables(), nil
}

func mairName(idx uint8) string {
	switch idx {
	case mmu.MAIR0:
		return "device nGnRnE"
	case mmu.MAIR1:
		return "device nGnRE"
	case mmu.MAIR2:
		return "device GRE"
	case mmu.MAIR3:
		return "normal non-cacheable"
	case mmu.MAIR4:
		return "normal write-back"
	case mmu.MAIR5:
		return "normal write-through transient"
	case mmu.MAIR6:
		return "normal write-through"
	case mmu.MAIR7:
		return "normal write-back transient"
	default:
		return "unknown"
	}
}

func shName(sh uint8) string {
	switch sh {
	case mmu.SH_NONE:
		return "non-shareable"
	case mmu.SH_OUTER:
		return "outer"
	case mmu.SH_INNER:
		return "inner"
	default:
		return "reserved"
	}
}

func apName(ap uint8) string {
	switch ap {
	case mmu.AP_RW_EL1:
		return "rw/el1"
	case mmu.AP_RW:
		return "rw"
	case mmu.AP_RO_EL1:
		return "ro/el1"
	case mmu.AP_RO:
		return "ro"
	default:
		return "?"
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
