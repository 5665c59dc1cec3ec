package mmu

// ttbr0 owns the physical table set: the 1:1 mapping of the lower address
// range (0x0 up to the end of the peripheral region) that backs TTBR0 at
// both supported exception levels.
type ttbr0 struct {
	tables *TableSet
}

// physMap is the identity map of the system, built once by core 0.
var physMap = &ttbr0{tables: staticTableSet(0)}

// setupTranslationTables builds the 1:1 mapping and returns the walk root
// address. Only core 0 fills the tables; every other core shares the same
// physical address space and just receives the root.
//
// The map is written in ascending address order:
//  1. [0, vcMemStart): normal cacheable memory
//  2. [vcMemStart, vcMemStart+vcMemSize): the VideoCore owned region,
//     non-cacheable from the ARM point of view so both sides observe the
//     same contents
//  3. [vcMemEnd, 0x3F00_0000): normal cacheable memory again
//  4. [0x3F00_0000, 0x4020_0000): the memory mapped peripherals and core
//     mailboxes as device memory; this pass runs last and wins where the
//     VideoCore region reaches into it
//
// vcMemStart and vcMemSize come from the firmware and must be 2MB
// aligned; misalignment is a contract violation and panics.
//
//go:nosplit
func (t *ttbr0) setupTranslationTables(core uint32, vcMemStart, vcMemSize uint32) uintptr {
	if core == 0 {
		if vcMemStart&SECTION_MASK != 0 || vcMemSize&SECTION_MASK != 0 {
			panic("mmu: VideoCore memory region not aligned to 2MB blocks")
		}

		// the two level 1 entries cover the first 2GB of address space,
		// plenty for the 1GB of SDRAM plus the peripheral window
		t.tables.lvl1[0] = TableDescriptor{
			Addr: t.tables.lvl2Addr(0),
			NS:   true,
		}.Encode()
		t.tables.lvl1[1] = TableDescriptor{
			Addr: t.tables.lvl2Addr(tableEntries),
			NS:   true,
		}.Encode()

		vcStartBlock := int(vcMemStart >> SECTION_SHIFT)
		vcEndBlock := int((vcMemStart + vcMemSize) >> SECTION_SHIFT)

		for i := 0; i < vcStartBlock; i++ {
			t.tables.lvl2[i] = BlockPageDescriptor{
				Addr:    uint64(i) << SECTION_SHIFT,
				MemAttr: MAIR4,
				NS:      true,
				SH:      SH_INNER,
				AF:      true,
			}.EncodeBlock()
		}

		for i := vcStartBlock; i < vcEndBlock; i++ {
			t.tables.lvl2[i] = BlockPageDescriptor{
				Addr:    uint64(i) << SECTION_SHIFT,
				MemAttr: MAIR3,
				SH:      SH_INNER,
				AF:      true,
			}.EncodeBlock()
		}

		for i := vcEndBlock; i < DEVICE_START_BLOCK; i++ {
			t.tables.lvl2[i] = BlockPageDescriptor{
				Addr:    uint64(i) << SECTION_SHIFT,
				MemAttr: MAIR4,
				NS:      true,
				SH:      SH_INNER,
				AF:      true,
			}.EncodeBlock()
		}

		for i := DEVICE_START_BLOCK; i < DEVICE_END_BLOCK; i++ {
			t.tables.lvl2[i] = BlockPageDescriptor{
				Addr:    uint64(i) << SECTION_SHIFT,
				MemAttr: MAIR0,
				SH:      SH_INNER,
				AF:      true,
			}.EncodeBlock()
		}

		// the table walker reads memory independent of program order;
		// all entries have to be visible before the root is published
		dsbIshstFn()
	}

	return t.tables.Root()
}
