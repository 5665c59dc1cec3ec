//go:build arm64

package asm

// Dsb executes a full data synchronization barrier (dsb sy).
func Dsb()

// DsbIsh executes a data synchronization barrier over the inner shareable
// domain (dsb ish).
func DsbIsh()

// DsbIshst executes a store-only data synchronization barrier over the
// inner shareable domain (dsb ishst). Sufficient to order translation
// table stores against the hardware table walker.
func DsbIshst()

// Isb executes an instruction synchronization barrier (isb).
func Isb()

// Nop executes a single architectural no-operation instruction.
func Nop()

// CleanDcacheVa cleans and invalidates the data cache line holding addr
// to the point of coherency (dc civac).
func CleanDcacheVa(addr uintptr)

// InvalidateIcacheAll invalidates the entire instruction cache to the
// point of unification (ic iallu).
func InvalidateIcacheAll()

// InvalidateTlbAll invalidates all stage 1 EL1&0 TLB entries for the
// current VMID (tlbi vmalle1).
func InvalidateTlbAll()

// InvalidateTlbAllEl2 invalidates all EL2 TLB entries (tlbi alle2).
func InvalidateTlbAllEl2()

// InvalidateTlbVa invalidates the TLB entries covering the page that
// contains addr, for all ASIDs (tlbi vaae1).
func InvalidateTlbVa(addr uintptr)

func currentElRaw() uint64

// CurrentEl returns the exception level the calling code runs at.
func CurrentEl() uint64 {
	// CurrentEL holds the level in bits [3:2]
	return (currentElRaw() >> 2) & 0x3
}

func ReadMairEl1() uint64
func WriteMairEl1(value uint64)
func ReadTcrEl1() uint64
func WriteTcrEl1(value uint64)
func ReadTtbr0El1() uint64
func WriteTtbr0El1(value uint64)
func ReadTtbr1El1() uint64
func WriteTtbr1El1(value uint64)
func ReadSctlrEl1() uint64
func WriteSctlrEl1(value uint64)

func ReadMairEl2() uint64
func WriteMairEl2(value uint64)
func ReadTcrEl2() uint64
func WriteTcrEl2(value uint64)
func ReadTtbr0El2() uint64
func WriteTtbr0El2(value uint64)
func ReadSctlrEl2() uint64
func WriteSctlrEl2(value uint64)
func ReadHcrEl2() uint64
func WriteHcrEl2(value uint64)
