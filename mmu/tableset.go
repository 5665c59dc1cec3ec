package mmu

import (
	"unsafe"
)

const tableEntries = 512

// TableSet is the backing store of one translation table hierarchy. The
// hardware table walker reads this memory directly, so the layout is
// bit-exact: three page aligned arrays of 64-bit entries.
//
// lvl1 is the walk root, each entry covering 1GB. lvl2 holds two 512-entry
// tables of 2MB entries, one per maintained 1GB region. pool holds two
// 512-entry level 3 page tables handed out when a 2MB block is split into
// 4KB pages; keeping the pool separate from lvl2 guarantees a coarse block
// allocation can never collide with an already split page table.
//
// A table set has exactly one writer: the identity mapper owns the
// physical set, the virtual allocator owns the virtual set.
type TableSet struct {
	lvl1 [tableEntries]uint64
	lvl2 [2 * tableEntries]uint64
	pool [2 * tableEntries]uint64
}

const tableSetSize = unsafe.Sizeof(TableSet{})

// The two table sets of the system live in zero initialized static
// storage. The spare page absorbs the 4KB alignment of the first set;
// tableSetSize is a page multiple so the second set stays aligned too.
var tableMem [2*tableSetSize + PAGE_SIZE]byte

func staticTableSet(slot int) *TableSet {
	base := uintptr(unsafe.Pointer(&tableMem[0]))
	base = (base + PAGE_MASK) &^ uintptr(PAGE_MASK)
	base += uintptr(slot) * tableSetSize
	return (*TableSet)(unsafe.Pointer(base))
}

// newTableSetRefs keeps host allocated table sets reachable for the GC.
var newTableSetRefs [][]uint64

// NewTableSet returns a fresh, page aligned, zeroed table set. This
// exists for host-side tests and tools; on the target only the two static
// sets are ever handed to the hardware.
func NewTableSet() *TableSet {
	buf := make([]uint64, (tableSetSize+PAGE_SIZE)/8)
	newTableSetRefs = append(newTableSetRefs, buf)
	base := uintptr(unsafe.Pointer(&buf[0]))
	base = (base + PAGE_MASK) &^ uintptr(PAGE_MASK)
	return (*TableSet)(unsafe.Pointer(base))
}

// Root returns the address of the level 1 table, the value programmed
// into the translation table base register.
func (ts *TableSet) Root() uintptr {
	return uintptr(unsafe.Pointer(&ts.lvl1[0]))
}

// lvl2Addr returns the address of a level 2 entry. With idx 0 or 512 this
// is the base of one of the two level 2 tables.
func (ts *TableSet) lvl2Addr(idx int) uint64 {
	return uint64(uintptr(unsafe.Pointer(&ts.lvl2[idx])))
}

// poolAddr returns the address of a pool entry. With idx 0 or 512 this is
// the base of one of the two level 3 page tables.
func (ts *TableSet) poolAddr(idx int) uint64 {
	return uint64(uintptr(unsafe.Pointer(&ts.pool[idx])))
}

// Lvl1 returns the raw level 1 entry at idx. Read-only access for
// inspection; all mutation goes through the owning component.
func (ts *TableSet) Lvl1(idx int) uint64 { return ts.lvl1[idx] }

// Lvl2 returns the raw level 2 entry at idx.
func (ts *TableSet) Lvl2(idx int) uint64 { return ts.lvl2[idx] }

// Pool returns the raw level 3 pool entry at idx.
func (ts *TableSet) Pool(idx int) uint64 { return ts.pool[idx] }
