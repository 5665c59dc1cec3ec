package main

import (
	"fmt"

	"github.com/fogleman/gg"
	"github.com/spf13/cobra"

	"github.com/RusPiRo/ruspiro-mmu/mmu"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the identity mapped layout as a PNG strip.",
	Long: `render draws the first 2GB of physical address space as a strip ` +
		`of one pixel column per 2MB block, colored by memory attribute ` +
		`profile, and writes it as a PNG.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := buildTables(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		if err := renderLayout(tables, out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("out", "mmumap.png", "output PNG file")
}

// rgb is a color for one memory attribute profile.
type rgb struct{ r, g, b int }

var profileColors = map[uint8]rgb{
	mmu.MAIR0: {204, 51, 51},   // device nGnRnE, red
	mmu.MAIR1: {230, 126, 34},  // device nGnRE, orange
	mmu.MAIR2: {241, 196, 15},  // device GRE, yellow
	mmu.MAIR3: {93, 173, 226},  // normal non-cacheable, light blue
	mmu.MAIR4: {39, 174, 96},   // normal write-back, green
	mmu.MAIR5: {142, 68, 173},  // write-through transient, purple
	mmu.MAIR6: {155, 89, 182},  // write-through, light purple
	mmu.MAIR7: {22, 160, 133},  // write-back transient, teal
}

var unmappedColor = rgb{70, 70, 70}

const (
	stripTop    = 16
	stripHeight = 64
	legendTop   = stripTop + stripHeight + 24
	legendStep  = 18
	margin      = 16
)

func renderLayout(tables *mmu.TableSet, out string) error {
	const blocks = 1024

	seen := map[uint8]bool{}
	width := blocks + 2*margin
	height := legendTop + 10*legendStep + margin

	dc := gg.NewContext(width, height)
	dc.SetRGB255(24, 24, 24)
	dc.Clear()

	for idx := 0; idx < blocks; idx++ {
		raw := tables.Lvl2(idx)
		c := unmappedColor
		if mmu.KindOf(raw, false) != mmu.EntryInvalid {
			d := mmu.DecodeBlockPage(raw)
			c = profileColors[d.MemAttr]
			seen[d.MemAttr] = true
		}
		dc.SetRGB255(c.r, c.g, c.b)
		dc.DrawRectangle(float64(margin+idx), stripTop, 1, stripHeight)
		dc.Fill()
	}

	dc.SetRGB255(220, 220, 220)
	dc.DrawString("physical address space, one column per 2MB block",
		margin, stripTop-4)
	dc.DrawString("0x00000000", margin, stripTop+stripHeight+14)
	dc.DrawString("0x80000000", float64(margin+blocks-70),
		stripTop+stripHeight+14)

	y := float64(legendTop)
	for idx := uint8(0); idx < 8; idx++ {
		if !seen[idx] {
			continue
		}
		c := profileColors[idx]
		dc.SetRGB255(c.r, c.g, c.b)
		dc.DrawRectangle(margin, y-9, 12, 12)
		dc.Fill()
		dc.SetRGB255(220, 220, 220)
		dc.DrawString(mairName(idx), margin+20, y)
		y += legendStep
	}
	dc.SetRGB255(unmappedColor.r, unmappedColor.g, unmappedColor.b)
	dc.DrawRectangle(margin, y-9, 12, 12)
	dc.Fill()
	dc.SetRGB255(220, 220, 220)
	dc.DrawString("unmapped", margin+20, y)

	return dc.SavePNG(out)
}
