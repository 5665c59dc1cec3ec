package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RusPiRo/ruspiro-mmu/mmu"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the identity mapped layout as attribute runs.",
	Long: `dump walks the level 2 tables of the identity map and prints one ` +
		`line per run of 2MB blocks sharing the same memory attributes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := buildTables(cmd)
		if err != nil {
			return err
		}
		for _, r := range attributeRuns(tables) {
			printRun(cmd, r)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

// run is a maximal span of consecutive 2MB blocks whose entries carry
// identical attribute bits and identity map their block index.
type run struct {
	from, to int // block index range, to exclusive
	raw      uint64
}

// attrBits strips the output address from an entry so two blocks of the
// same region compare equal.
func attrBits(raw uint64) uint64 {
	return raw &^ mmu.BLOCKPAGE.Addr.Mask()
}

// attributeRuns folds the level 2 entries covering the first 2GB into
// runs of equal attributes.
func attributeRuns(tables *mmu.TableSet) []run {
	var runs []run
	// Two level 2 tables cover the first 2GB of physical address space.
	for idx := 0; idx < 1024; idx++ {
		raw := tables.Lvl2(idx)
		if n := len(runs); n > 0 && attrBits(runs[n-1].raw) == attrBits(raw) {
			runs[n-1].to = idx + 1
			continue
		}
		runs = append(runs, run{from: idx, to: idx + 1, raw: raw})
	}
	return runs
}

func printRun(cmd *cobra.Command, r run) {
	start := uint64(r.from) << mmu.SECTION_SHIFT
	end := uint64(r.to) << mmu.SECTION_SHIFT
	size := end - start

	if mmu.KindOf(r.raw, false) == mmu.EntryInvalid {
		fmt.Fprintf(cmd.OutOrStdout(),
			"%#010x-%#010x %7s  unmapped\n", start, end, sizeString(size))
		return
	}

	d := mmu.DecodeBlockPage(r.raw)
	secure := "secure"
	if d.NS {
		secure = "non-secure"
	}
	fmt.Fprintf(cmd.OutOrStdout(),
		"%#010x-%#010x %7s  %-30s %-6s %-13s %s\n",
		start, end, sizeString(size),
		mairName(d.MemAttr), apName(d.AP), shName(d.SH), secure)
}

func sizeString(bytes uint64) string {
	switch {
	case bytes >= 1<<30 && bytes%(1<<30) == 0:
		return fmt.Sprintf("%dGB", bytes>>30)
	case bytes >= 1<<20:
		return fmt.Sprintf("%dMB", bytes>>20)
	default:
		return fmt.Sprintf("%dKB", bytes>>10)
	}
}
