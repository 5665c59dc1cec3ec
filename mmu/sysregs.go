package mmu

import (
	"github.com/RusPiRo/ruspiro-mmu/bitfield"
)

// Memory attribute profile encodings programmed into MAIR_ELx, one byte
// per index. Table entries select a profile through their 3-bit MemAttr
// field; see the MAIR0..MAIR7 constants in config.go for the assignment.
const (
	MAIR_ATTR_NGNRNE = 0x00 // device, non-gathering/non-reordering/no early write ack
	MAIR_ATTR_NGNRE  = 0x04 // device, early write ack allowed
	MAIR_ATTR_GRE    = 0x0C // device, gathering/reordering/early write ack
	MAIR_ATTR_NC     = 0x44 // normal, outer and inner non-cacheable
	MAIR_ATTR_NORM   = 0xFF // normal, outer and inner write-back, RW allocate
	MAIR_ATTR_WT     = 0x33 // normal, write-through transient, RW allocate
	MAIR_ATTR_WT_NT  = 0xBB // normal, write-through non-transient, RW allocate
	MAIR_ATTR_WB_T   = 0x77 // normal, write-back transient, RW allocate
)

func mairAttr(idx int, attr uint64) uint64 {
	return bitfield.At(uint(8*idx), 8).Val(attr)
}

// TCR_EL1 fields.
var tcrEl1 = struct {
	T0SZ, EPD0, IRGN0, ORGN0, SH0, TG0 bitfield.Field
	T1SZ, EPD1, IRGN1, ORGN1, SH1, TG1 bitfield.Field
	IPS, TBI0                          bitfield.Field
}{
	T0SZ: bitfield.At(0, 6), EPD0: bitfield.Flag(7),
	IRGN0: bitfield.At(8, 2), ORGN0: bitfield.At(10, 2),
	SH0: bitfield.At(12, 2), TG0: bitfield.At(14, 2),
	T1SZ: bitfield.At(16, 6), EPD1: bitfield.Flag(23),
	IRGN1: bitfield.At(24, 2), ORGN1: bitfield.At(26, 2),
	SH1: bitfield.At(28, 2), TG1: bitfield.At(30, 2),
	IPS: bitfield.At(32, 3), TBI0: bitfield.Flag(37),
}

// TCR_EL2 fields.
var tcrEl2 = struct {
	T0SZ, IRGN0, ORGN0, SH0, TG0, PS, TBI bitfield.Field
}{
	T0SZ: bitfield.At(0, 6),
	IRGN0: bitfield.At(8, 2), ORGN0: bitfield.At(10, 2),
	SH0: bitfield.At(12, 2), TG0: bitfield.At(14, 2),
	PS: bitfield.At(16, 3), TBI: bitfield.Flag(20),
}

// TCR field values used here.
const (
	tcrWalksEnabled = 0 // EPDn: translation walks enabled for this TTBR
	tcrRgnNC        = 0b00
	tcrRgnWbRaWa    = 0b01
	tcrShOS         = 0b10
	tcrShIS         = 0b11
	tcrTg0_4KB      = 0b00
	tcrTg1_4KB      = 0b10
	tcrPa32Bits     = 0b000
	tcrTopByteIgnpx = 1

	// T0SZ/T1SZ of 25 spans a 2^39 byte range per table base register
	tcrRegionSize = 25
)

// SCTLR_ELx control bits. The layout of the bits used here is shared
// between EL1 and EL2.
var sctlr = struct {
	M, A, C, SA, I bitfield.Field
}{
	M:  bitfield.Flag(0),
	A:  bitfield.Flag(1),
	C:  bitfield.Flag(2),
	SA: bitfield.Flag(3),
	I:  bitfield.Flag(12),
}

// HCR_EL2 fields relevant for single stage translation.
var hcr = struct {
	VM, DC bitfield.Field
}{
	VM: bitfield.Flag(0),
	DC: bitfield.Flag(12),
}
