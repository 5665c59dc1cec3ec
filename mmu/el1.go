package mmu

// controllerState tracks where the exception level controller is in its
// Disabled -> Configuring -> Enabled cycle. The cycle may repeat: a
// disable keeps the table contents so a later enable reuses them.
type controllerState uint8

const (
	stateDisabled controllerState = iota
	stateConfiguring
	stateEnabled
)

var elState = stateDisabled

// enableMmuEl1 programs the EL1 registers and switches translation on.
// EL1 runs two table base registers: ttbr0Root carries the identity map
// of the lower range, ttbr1Root the dynamic upper range mappings.
//
//go:nosplit
func enableMmuEl1(ttbr0Root, ttbr1Root uintptr) {
	elState = stateConfiguring

	// all 8 attribute profiles that entries may reference by index
	writeMairEl1Fn(
		mairAttr(MAIR0, MAIR_ATTR_NGNRNE) |
			mairAttr(MAIR1, MAIR_ATTR_NGNRE) |
			mairAttr(MAIR2, MAIR_ATTR_GRE) |
			mairAttr(MAIR3, MAIR_ATTR_NC) |
			mairAttr(MAIR4, MAIR_ATTR_NORM) |
			mairAttr(MAIR5, MAIR_ATTR_WT) |
			mairAttr(MAIR6, MAIR_ATTR_WT_NT) |
			mairAttr(MAIR7, MAIR_ATTR_WB_T))

	writeTtbr0El1Fn(uint64(ttbr0Root))
	writeTtbr1El1Fn(uint64(ttbr1Root))

	// the walk attributes must match how the identity map covers the
	// memory the tables themselves live in
	writeTcrEl1Fn(
		tcrEl1.T0SZ.Val(tcrRegionSize) |
			tcrEl1.EPD0.Val(tcrWalksEnabled) |
			tcrEl1.IRGN0.Val(tcrRgnWbRaWa) |
			tcrEl1.ORGN0.Val(tcrRgnWbRaWa) |
			tcrEl1.SH0.Val(tcrShIS) |
			tcrEl1.TG0.Val(tcrTg0_4KB) |
			tcrEl1.T1SZ.Val(tcrRegionSize) |
			tcrEl1.EPD1.Val(tcrWalksEnabled) |
			tcrEl1.IRGN1.Val(tcrRgnWbRaWa) |
			tcrEl1.ORGN1.Val(tcrRgnWbRaWa) |
			tcrEl1.SH1.Val(tcrShIS) |
			tcrEl1.TG1.Val(tcrTg1_4KB) |
			tcrEl1.IPS.Val(tcrPa32Bits) |
			tcrEl1.TBI0.Val(tcrTopByteIgnpx))

	// control register state has to be visible before translation turns on
	isbFn()

	// enable MMU, data and instruction caches; this target tolerates
	// unaligned accesses, so alignment and stack alignment checks stay off
	s := readSctlrEl1Fn()
	s |= sctlr.M.Mask() | sctlr.C.Mask() | sctlr.I.Mask()
	s &^= sctlr.A.Mask() | sctlr.SA.Mask()
	writeSctlrEl1Fn(s)

	// let two cycles pass for the MMU to settle
	nopFn()
	nopFn()
	isbFn()

	invalidateTlbAllFn()

	elState = stateEnabled
}

// disableMmuEl1 switches translation and the caches off. Table contents
// stay untouched so a subsequent enable reuses them.
//
//go:nosplit
func disableMmuEl1() {
	s := readSctlrEl1Fn()
	s &^= sctlr.M.Mask() | sctlr.C.Mask() | sctlr.I.Mask()
	writeSctlrEl1Fn(s)
	invalidateTlbAllFn()

	elState = stateDisabled
}
