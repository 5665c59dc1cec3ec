package mmu

// Initialize performs the full MMU bring-up for the calling core at the
// exception level the code currently runs in. Translation is switched
// off, core 0 builds the 1:1 translation tables (and the empty virtual
// table set when running at EL1), then the control registers are
// programmed and translation is switched back on.
//
// The memory region owned by the VideoCore is passed in so it can be
// mapped non-cacheable; both boundaries must be 2MB aligned.
//
// All cores share the physical tables, so every core other than 0 assumes
// the tables are already built. The caller has to make sure core 0
// finished its pass before any other core calls Initialize; this package
// has no rendezvous primitive of its own at this stage of the boot.
//
// Only EL1 and EL2 are supported; any other level is fatal.
func Initialize(core uint32, vcMemStart, vcMemSize uint32) {
	switch currentElFn() {
	case 1:
		disableMmuEl1()
		ttbr0Root := physMap.setupTranslationTables(core, vcMemStart, vcMemSize)
		ttbr1Root := virtMap.setupTranslationTables(core)
		enableMmuEl1(ttbr0Root, ttbr1Root)
	case 2:
		disableMmuEl2()
		ttbr0Root := physMap.setupTranslationTables(core, vcMemStart, vcMemSize)
		enableMmuEl2(ttbr0Root)
	default:
		panic("mmu: unsupported exception level")
	}
}

// DisableMMU switches translation off at the current exception level.
// The translation tables stay intact, so a later Initialize re-enables
// them without a rebuild.
func DisableMMU() {
	switch currentElFn() {
	case 1:
		disableMmuEl1()
	case 2:
		disableMmuEl2()
	default:
		panic("mmu: unsupported exception level")
	}

	// let two cycles pass and settle before execution continues untranslated
	nopFn()
	nopFn()
	dsbFn()
	isbFn()
}

// MapMemory maps size bytes of physical memory starting at origin into
// the upper virtual address range with the given entry attributes and
// returns the new virtual address, which carries the same intra-block
// byte offset as origin. Mapping granularity is a whole 2MB block; size
// is accepted for the caller contract but a full block is mapped
// regardless, virtual address space being plentiful.
//
// At EL2 there is no second table base register to serve the upper
// range, so the call has no effect and returns origin unchanged.
//
// Running out of virtual blocks is fatal; mappings are never released.
func MapMemory(origin uintptr, size uint, attributes uint64) uintptr {
	if currentElFn() != 1 {
		return origin
	}
	return virtMap.mapMemory(origin, attributes)
}

// MaintainPages refines the 2MB block mapping addr down to 4KB pages:
// pageCount pages starting pageFrom pages into the block receive
// pageAttributes, every other page keeps the attributes of the original
// block. The range may continue into the virtual block following addr.
// addr must have been returned by MapMemory and not have been maintained
// at page level before.
//
// Like MapMemory this has no effect at EL2.
func MaintainPages(addr uintptr, pageFrom, pageCount uint, pageAttributes uint64) {
	if currentElFn() != 1 {
		return
	}
	virtMap.maintainPages(addr, pageFrom, pageCount, pageAttributes)
}

// PhysicalTables returns the table set behind the identity map for
// inspection. The entries are read-only for callers; all mutation stays
// inside this package.
func PhysicalTables() *TableSet {
	return physMap.tables
}

// VirtualTables returns the table set behind the dynamic upper range
// mappings for inspection.
func VirtualTables() *TableSet {
	return virtMap.tables
}

// PageAlign rounds addr up to the next page boundary.
func PageAlign(addr uintptr) uintptr {
	return (addr + PAGE_MASK) &^ uintptr(PAGE_MASK)
}

// PageSize returns the translation granule size.
func PageSize() uint {
	return PAGE_SIZE
}
