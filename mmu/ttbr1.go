package mmu

import (
	"unsafe"
)

// Attribute bits a block entry keeps when it is split into pages: the
// upper attributes in [63:52] and the lower attributes in [11:2]. Address
// and type bits are excluded.
const blockAttrMask = 0xFFF0_0000_0000_0FFC

// Output address bits of a 2MB block entry.
const blockAddrMask = 0x0000_FFFF_FFE0_0000

// ttbr1 owns the virtual table set: the upper address range mappings
// handed out at runtime. Only EL1 has a second table base register, so
// this component stays inert at EL2.
//
// Virtual blocks are allocated top down: the entry at level 2 index i
// maps the i-th 2MB block counted down from the top of the address range,
// through the level 1 entry 511. Nothing is ever unmapped, the allocation
// is strictly monotonic.
type ttbr1 struct {
	tables *TableSet
	// next free level 3 table in the pool, in entries (0 or 512)
	poolNext int
}

// virtMap is the dynamic mapping of the system, initialized empty by
// core 0 during bring-up.
var virtMap = &ttbr1{tables: staticTableSet(1)}

// setupTranslationTables prepares the virtual table set: a single level 1
// entry covering the top 1GB of the address range, pointing at a level 2
// table of invalid entries. Blocks become valid only when mapMemory hands
// them out; until then any upper range access faults.
//
//go:nosplit
func (t *ttbr1) setupTranslationTables(core uint32) uintptr {
	if core == 0 {
		t.tables.lvl1[tableEntries-1] = TableDescriptor{
			Addr: t.tables.lvl2Addr(0),
			NS:   true,
		}.Encode()

		dsbIshstFn()
	}

	return t.tables.Root()
}

// mapMemory binds the 2MB block containing origin to the first unused
// virtual block and returns the virtual address carrying the same
// intra-block offset as origin. attributes supplies the caller chosen
// entry bits (memory attribute index, shareability, access permissions,
// execute never); the access flag and the allocator's software bit are
// added here.
//
// Mapping whole 2MB blocks is deliberately coarse: virtual address space
// is plentiful and the block wise table stays tiny. maintainPages refines
// a block into 4KB pages when a sub-range needs different attributes.
//
// The virtual address range never shrinks; once all 512 blocks are
// consumed, further mappings cannot succeed and the call panics.
//
//go:nosplit
func (t *ttbr1) mapMemory(origin uintptr, attributes uint64) uintptr {
	for i := 0; i < tableEntries; i++ {
		if t.tables.lvl2[i] != 0 {
			continue
		}

		raw := BLOCKPAGE.SW.Val(1) |
			attributes |
			(uint64(origin) &^ SECTION_MASK) |
			BLOCKPAGE.AF.Val(1) |
			ENTRY_BLOCK
		t.tables.lvl2[i] = raw

		// order the entry store, clean its cache line to the point of
		// coherency and drop any stale translation before the caller
		// dereferences the new address
		entryAddr := uintptr(unsafe.Pointer(&t.tables.lvl2[i]))
		va := t.blockBase(i) | (origin & SECTION_MASK)
		dsbIshstFn()
		dsbIshFn()
		isbFn()
		cleanDcacheVaFn(entryAddr)
		invalidateTlbVaFn(va)

		return va
	}

	panic("mmu: all virtual address blocks occupied")
}

// blockBase returns the first virtual address mapped by level 2 entry idx.
func (t *ttbr1) blockBase(idx int) uintptr {
	return ^uintptr(0) - uintptr(idx+1)<<SECTION_SHIFT + 1
}

// blockIndex returns the level 2 entry mapping the virtual address addr.
func (t *ttbr1) blockIndex(addr uintptr) int {
	return int((^uint64(addr)) >> SECTION_SHIFT)
}

// allocPageTable hands out one 512-entry level 3 table from the pool.
// The pool has no reclamation path; exhaustion is fatal.
func (t *ttbr1) allocPageTable() int {
	if t.poolNext+tableEntries > len(t.tables.pool) {
		panic("mmu: page table pool exhausted")
	}
	pt := t.poolNext
	t.poolNext += tableEntries
	return pt
}

// maintainPages splits the 2MB block mapping addr into 4KB pages and
// applies pageAttributes to pageCount pages starting pageFrom pages into
// the block. Every other page of the block keeps the attributes the block
// carried before the split. addr must be a virtual address previously
// returned by mapMemory whose block has not been split yet.
//
// A range reaching beyond the end of the block continues into the
// following virtual block, which is split the same way with its own
// preserved attributes.
//
//go:nosplit
func (t *ttbr1) maintainPages(addr uintptr, pageFrom, pageCount uint, pageAttributes uint64) {
	trace("mmu: splitting block for page maintenance")

	blockIdx := t.blockIndex(addr)
	spill := uint(0)
	if pageFrom+pageCount > PAGES_PER_BLOCK {
		spill = pageFrom + pageCount - PAGES_PER_BLOCK
	}

	t.splitBlock(blockIdx, pageFrom, pageFrom+pageCount-spill, pageAttributes)
	if spill > 0 {
		// ascending virtual addresses continue in the previous slot:
		// blocks are handed out from the top of the range downwards
		t.splitBlock(blockIdx-1, 0, spill, pageAttributes)
	}

	// a block turned into a table pointer invalidates the intermediate
	// walk caches, not just a leaf, so the whole address space needs a
	// full TLB invalidation here
	dsbIshstFn()
	dsbIshFn()
	isbFn()
	cleanDcacheVaFn(uintptr(unsafe.Pointer(&t.tables.lvl2[blockIdx])))
	if spill > 0 {
		cleanDcacheVaFn(uintptr(unsafe.Pointer(&t.tables.lvl2[blockIdx-1])))
	}
	if pageAttributes&(BLOCKPAGE.XN.Mask()|BLOCKPAGE.PXN.Mask()) !=
		BLOCKPAGE.XN.Mask()|BLOCKPAGE.PXN.Mask() {
		// the new pages may hold code
		invalidateIcacheFn()
	}
	invalidateTlbAllFn()
}

// splitBlock rewrites one 2MB block entry into a level 3 table. Pages in
// [reqFrom, reqTo) receive pageAttributes, all others keep the block's
// original attribute bits. The block's output address seeds the per page
// physical addresses.
//
//go:nosplit
func (t *ttbr1) splitBlock(blockIdx int, reqFrom, reqTo uint, pageAttributes uint64) {
	if blockIdx < 0 || blockIdx >= tableEntries {
		panic("mmu: page maintenance outside the mapped virtual range")
	}
	entry := t.tables.lvl2[blockIdx]
	if KindOf(entry, false) != EntryBlock {
		panic("mmu: page maintenance target is not an unsplit block")
	}

	preserved := entry & blockAttrMask
	physBase := entry & blockAddrMask
	pt := t.allocPageTable()

	for i := uint(0); i < PAGES_PER_BLOCK; i++ {
		attrs := preserved
		if i >= reqFrom && i < reqTo {
			attrs = pageAttributes
		}
		t.tables.pool[pt+int(i)] = attrs |
			(physBase + uint64(i)*PAGE_SIZE) |
			ENTRY_PAGE
	}

	t.tables.lvl2[blockIdx] = TableDescriptor{
		Addr: t.tables.poolAddr(pt),
		NS:   true,
	}.Encode()
}
