package mmu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// freshMaps swaps the package level table managers for ones backed by
// fresh table sets and restores the originals afterwards.
func freshMaps(t *testing.T) {
	t.Helper()
	prevPhys, prevVirt := physMap, virtMap
	t.Cleanup(func() { physMap, virtMap = prevPhys, prevVirt })
	physMap = &ttbr0{tables: NewTableSet()}
	virtMap = &ttbr1{tables: NewTableSet()}
}

func TestInitializeEl1EndToEnd(t *testing.T) {
	r := installRecorder(t, 1)
	freshMaps(t)

	Initialize(0, 0x3F00_0000, 0x0020_0000)

	// the device pass runs last, so block 504 carries the device profile
	// even though the VideoCore carve-out starts there
	d := DecodeBlockPage(physMap.tables.Lvl2(504))
	assert.Equal(t, uint8(MAIR0), d.MemAttr, "entry 504 is device memory")
	assert.True(t, d.AF, "entry 504 access flag")
	assert.Equal(t, uint64(504)*SECTION_SIZE, d.Addr, "entry 504 output address")

	d = DecodeBlockPage(physMap.tables.Lvl2(0))
	assert.Equal(t, uint8(MAIR4), d.MemAttr, "entry 0 is normal memory")
	assert.Zero(t, d.Addr, "entry 0 output address")

	assert.Equal(t, uint64(physMap.tables.Root()), r.regs["ttbr0_el1"])
	assert.Equal(t, uint64(virtMap.tables.Root()), r.regs["ttbr1_el1"])
	assert.Equal(t, stateEnabled, elState)
}

func TestInitializeEl2LeavesVirtualSetInert(t *testing.T) {
	r := installRecorder(t, 2)
	freshMaps(t)

	Initialize(0, 0x3F00_0000, 0x0020_0000)

	assert.Equal(t, uint64(physMap.tables.Root()), r.regs["ttbr0_el2"])
	_, wroteTtbr1 := r.regs["ttbr1_el1"]
	assert.False(t, wroteTtbr1, "no second table base register at EL2")
	assert.Zero(t, virtMap.tables.Lvl1(511), "virtual set never initialized")
}

func TestInitializeSecondaryCoreReusesTables(t *testing.T) {
	r := installRecorder(t, 1)
	freshMaps(t)

	Initialize(0, 0x3F00_0000, 0x0020_0000)
	before := physMap.tables.Lvl2(10)
	r.ops = nil

	Initialize(1, 0x3F00_0000, 0x0020_0000)

	assert.Equal(t, before, physMap.tables.Lvl2(10), "tables untouched on core 1")
	assert.Contains(t, r.ops, "msr sctlr_el1", "core 1 still programs its own registers")
}

func TestInitializeUnsupportedLevelIsFatal(t *testing.T) {
	installRecorder(t, 3)
	freshMaps(t)

	assert.PanicsWithValue(t, "mmu: unsupported exception level", func() {
		Initialize(0, 0x3F00_0000, 0x0020_0000)
	})
}

func TestMapMemoryEndToEnd(t *testing.T) {
	installRecorder(t, 1)
	freshMaps(t)
	Initialize(0, 0x3F00_0000, 0x0020_0000)

	attrs := normalAttrs()
	first := MapMemory(0x0120_0400, 0x1000, attrs)
	second := MapMemory(0x0340_0000, 0x1000, attrs)

	assert.NotEqual(t, first, second)
	assert.Equal(t, uintptr(0x400), first&SECTION_MASK, "offset preserved")
	require.Greater(t, uint64(first), uint64(second), "allocations move down from the top")

	// consume the remaining blocks; the next call must be fatal
	for i := 2; i < tableEntries; i++ {
		MapMemory(uintptr(i)*SECTION_SIZE, 0x1000, attrs)
	}
	assert.PanicsWithValue(t, "mmu: all virtual address blocks occupied", func() {
		MapMemory(0, 0x1000, attrs)
	})
}

func TestMapMemoryHasNoEffectAtEl2(t *testing.T) {
	installRecorder(t, 2)
	freshMaps(t)
	Initialize(0, 0x3F00_0000, 0x0020_0000)

	origin := uintptr(0x0120_0400)
	assert.Equal(t, origin, MapMemory(origin, 0x1000, normalAttrs()),
		"EL2 returns the input unchanged")
	assert.Zero(t, virtMap.tables.Lvl2(0), "no entry written")
}

func TestMaintainPagesHasNoEffectAtEl2(t *testing.T) {
	installRecorder(t, 2)
	freshMaps(t)

	MaintainPages(0xFFFF_FFFF_FFE0_0000, 0, 16, pageAttrs())
	assert.Zero(t, virtMap.poolNext, "no page table allocated")
}

func TestDisableMMUSettlesPipeline(t *testing.T) {
	r := installRecorder(t, 1)

	DisableMMU()

	require.Equal(t,
		[]string{"msr sctlr_el1", "tlbi vmalle1", "nop", "nop", "dsb sy", "isb"},
		r.ops)
	assert.Equal(t, stateDisabled, elState)
}

func TestPageAlign(t *testing.T) {
	tests := []struct {
		name     string
		addr     uintptr
		expected uintptr
	}{
		{"zero", 0, 0},
		{"already aligned", 0x2000, 0x2000},
		{"one past a boundary", 0x2001, 0x3000},
		{"just below a boundary", 0x2FFF, 0x3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PageAlign(tt.addr))
		})
	}
}

func TestPageSize(t *testing.T) {
	assert.Equal(t, uint(0x1000), PageSize())
}
