package mmu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityMapCoversWholeRangeWithoutGaps(t *testing.T) {
	tests := []struct {
		name    string
		vcStart uint32
		vcSize  uint32
	}{
		{"typical firmware split", 0x3B40_0000, 0x0040_0000},
		{"carve-out at start of ram", 0x0000_0000, 0x0020_0000},
		{"large carve-out", 0x3000_0000, 0x0F00_0000},
		{"carve-out touching device boundary", 0x3E00_0000, 0x0100_0000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			installRecorder(t, 1)
			m := &ttbr0{tables: NewTableSet()}
			root := m.setupTranslationTables(0, tt.vcStart, tt.vcSize)
			require.Equal(t, m.tables.Root(), root)

			vcFrom := int(tt.vcStart >> SECTION_SHIFT)
			vcTo := int((tt.vcStart + tt.vcSize) >> SECTION_SHIFT)

			for i := 0; i < DEVICE_END_BLOCK; i++ {
				raw := m.tables.Lvl2(i)
				require.Equal(t, EntryBlock, KindOf(raw, false), "entry %d", i)

				d := DecodeBlockPage(raw)
				assert.Equal(t, uint64(i)*SECTION_SIZE, d.Addr, "entry %d output address", i)
				assert.True(t, d.AF, "entry %d access flag", i)
				assert.Equal(t, uint8(SH_INNER), d.SH, "entry %d shareability", i)

				switch {
				case i >= DEVICE_START_BLOCK:
					assert.Equal(t, uint8(MAIR0), d.MemAttr, "entry %d is device memory", i)
					assert.False(t, d.NS, "entry %d non-secure flag", i)
				case i >= vcFrom && i < vcTo:
					assert.Equal(t, uint8(MAIR3), d.MemAttr, "entry %d is VC carve-out", i)
					assert.False(t, d.NS, "entry %d non-secure flag", i)
				default:
					assert.Equal(t, uint8(MAIR4), d.MemAttr, "entry %d is normal memory", i)
					assert.True(t, d.NS, "entry %d non-secure flag", i)
				}
			}
		})
	}
}

func TestIdentityMapLevel1PointsAtLevel2Halves(t *testing.T) {
	installRecorder(t, 1)
	m := &ttbr0{tables: NewTableSet()}
	m.setupTranslationTables(0, 0x3B40_0000, 0x0040_0000)

	for i, want := range []uint64{m.tables.lvl2Addr(0), m.tables.lvl2Addr(512)} {
		raw := m.tables.Lvl1(i)
		require.Equal(t, EntryTable, KindOf(raw, false), "level 1 entry %d", i)
		d := DecodeTable(raw)
		assert.Equal(t, want, d.Addr, "level 1 entry %d next level address", i)
		assert.True(t, d.NS, "level 1 entry %d non-secure", i)
	}

	// nothing above 2GB is mapped
	for i := 2; i < tableEntries; i++ {
		assert.Zero(t, m.tables.Lvl1(i), "level 1 entry %d", i)
	}
}

func TestIdentityMapPublishesRootAfterStoreBarrier(t *testing.T) {
	r := installRecorder(t, 1)
	m := &ttbr0{tables: NewTableSet()}
	m.setupTranslationTables(0, 0x3B40_0000, 0x0040_0000)

	require.Equal(t, []string{"dsb ishst"}, r.ops)
}

func TestIdentityMapSecondaryCoreDoesNotRebuild(t *testing.T) {
	r := installRecorder(t, 1)
	m := &ttbr0{tables: NewTableSet()}
	root := m.setupTranslationTables(1, 0x3B40_0000, 0x0040_0000)

	assert.Equal(t, m.tables.Root(), root, "secondary core receives the root")
	assert.Empty(t, r.ops, "no table writes on a secondary core")
	for i := 0; i < DEVICE_END_BLOCK; i++ {
		assert.Zero(t, m.tables.Lvl2(i), "entry %d untouched", i)
	}
}

func TestIdentityMapRejectsMisalignedCarveOut(t *testing.T) {
	tests := []struct {
		name    string
		vcStart uint32
		vcSize  uint32
	}{
		{"misaligned start", 0x3B50_1000, 0x0040_0000},
		{"misaligned size", 0x3B40_0000, 0x0013_0000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			installRecorder(t, 1)
			m := &ttbr0{tables: NewTableSet()}
			assert.Panics(t, func() {
				m.setupTranslationTables(0, tt.vcStart, tt.vcSize)
			})
		})
	}
}
