// Package mmu manages the memory management unit of the Raspberry Pi in
// AArch64 mode. It builds an initial 1:1 translation table set covering
// the whole physical address space including the memory mapped peripherals,
// programs the EL1 or EL2 control registers to activate translation, and
// hands out virtual address mappings with caller chosen memory attributes
// afterwards.
//
// Translation is configured with a 4KB granule. A level 1 entry covers 1GB
// and points to a level 2 table, a level 2 entry covers a 2MB block or
// points to a level 3 page table, a level 3 entry covers one 4KB page.
//
// None of the table maintenance here is safe for concurrent callers: each
// table set has exactly one writer, and the caller has to serialize calls
// to MapMemory and MaintainPages once secondary cores are up. Atomic
// operations are not available while the MMU is still being brought up, so
// the package cannot enforce this itself.
package mmu

import (
	"github.com/RusPiRo/ruspiro-mmu/bitfield"
)

// Translation granule geometry.
const (
	SECTION_SIZE  = 0x20_0000 // 2MB block size at level 2
	SECTION_MASK  = SECTION_SIZE - 1
	SECTION_SHIFT = 21

	PAGE_SIZE  = 0x1000 // 4KB page size at level 3
	PAGE_MASK  = PAGE_SIZE - 1
	PAGE_SHIFT = 12

	// pages per 2MB block
	PAGES_PER_BLOCK = SECTION_SIZE / PAGE_SIZE
)

// Raspberry Pi 3 physical memory layout, in 2MB blocks. The memory mapped
// peripherals start at 0x3F00_0000 and the core mailboxes end at
// 0x4020_0000, so blocks [DEVICE_START_BLOCK, DEVICE_END_BLOCK) carry
// device memory attributes in the identity map.
const (
	DEVICE_START_BLOCK = 0x3F00_0000 >> SECTION_SHIFT // 504
	DEVICE_END_BLOCK   = 0x4020_0000 >> SECTION_SHIFT // 513
)

// Entry type values in bits [1:0] of a table entry. At levels 1 and 2 the
// value 0b11 marks a next level table pointer and 0b01 a block mapping. At
// level 3 the value 0b11 marks a page mapping; 0b01 is invalid there.
const (
	ENTRY_INVALID = 0b00
	ENTRY_BLOCK   = 0b01
	ENTRY_TABLE   = 0b11
	ENTRY_PAGE    = 0b11
)

// MAIR indices referenced by the MemAttr field of block and page entries.
// The profile behind each index is programmed into MAIR_ELx by the
// exception level controller; see the MAIR_ATTR values below.
const (
	MAIR0 = 0 // device nGnRnE
	MAIR1 = 1 // device nGnRE
	MAIR2 = 2 // device GRE
	MAIR3 = 3 // normal outer/inner non-cacheable
	MAIR4 = 4 // normal outer/inner write-back cacheable
	MAIR5 = 5 // normal outer/inner write-through transient
	MAIR6 = 6 // normal outer/inner write-through non-transient
	MAIR7 = 7 // normal outer/inner write-back transient
)

// Shareability values for the SH field.
const (
	SH_NONE  = 0b00
	SH_OUTER = 0b10
	SH_INNER = 0b11
)

// Data access permission values for the AP field (AP[2:1]; AP[0] does not
// exist in table entries).
const (
	AP_RW_EL1 = 0b00 // read/write at EL1, no EL0 access
	AP_RW     = 0b01 // read/write at EL1 and EL0
	AP_RO_EL1 = 0b10 // read-only at EL1, no EL0 access
	AP_RO     = 0b11 // read-only at EL1 and EL0
)

// TABLE is the field layout of a table entry at levels 1 and 2:
//
//	|63|62 61|60|59 |58 52|51  48|47                       12|11 2|1 0|
//	|NS|AP   |XN|PXN|     | RES0 | next level table address  |    |1 1|
var TABLE = struct {
	Type bitfield.Field
	Addr bitfield.Field
	PXN  bitfield.Field
	XN   bitfield.Field
	AP   bitfield.Field
	NS   bitfield.Field
}{
	Type: bitfield.At(0, 2),
	Addr: bitfield.At(12, 36),
	PXN:  bitfield.Flag(59),
	XN:   bitfield.Flag(60),
	AP:   bitfield.At(61, 2),
	NS:   bitfield.Flag(63),
}

// BLOCKPAGE is the field layout shared by 2MB block entries (level 2) and
// 4KB page entries (level 3):
//
//	|63 55|54|53 |52|51  48|47            12|11|10|9 8|7 6|5 |4  2|1 0|
//	| SW  |XN|PXN|C | RES0 | output address |nG|AF|SH |AP |NS|Attr|typ|
//
// Bits [63:55] are ignored by the table walker and free for software use;
// bit 63 marks entries written by the virtual allocator.
var BLOCKPAGE = struct {
	Type    bitfield.Field
	MemAttr bitfield.Field
	NS      bitfield.Field
	AP      bitfield.Field
	SH      bitfield.Field
	AF      bitfield.Field
	NG      bitfield.Field
	Addr    bitfield.Field
	C       bitfield.Field
	PXN     bitfield.Field
	XN      bitfield.Field
	SW      bitfield.Field
}{
	Type:    bitfield.At(0, 2),
	MemAttr: bitfield.At(2, 3),
	NS:      bitfield.Flag(5),
	AP:      bitfield.At(6, 2),
	SH:      bitfield.At(8, 2),
	AF:      bitfield.Flag(10),
	NG:      bitfield.Flag(11),
	Addr:    bitfield.At(12, 36),
	C:       bitfield.Flag(52),
	PXN:     bitfield.Flag(53),
	XN:      bitfield.Flag(54),
	SW:      bitfield.Flag(63),
}
