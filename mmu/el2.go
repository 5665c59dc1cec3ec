package mmu

// enableMmuEl2 programs the EL2 registers and switches translation on.
// EL2 has a single table base register, so only the identity map is
// active and the virtual allocator stays inert.
//
//go:nosplit
func enableMmuEl2(ttbr0Root uintptr) {
	elState = stateConfiguring

	writeMairEl2Fn(
		mairAttr(MAIR0, MAIR_ATTR_NGNRNE) |
			mairAttr(MAIR1, MAIR_ATTR_NGNRE) |
			mairAttr(MAIR2, MAIR_ATTR_GRE) |
			mairAttr(MAIR3, MAIR_ATTR_NC) |
			mairAttr(MAIR4, MAIR_ATTR_NORM))

	writeTtbr0El2Fn(uint64(ttbr0Root))

	writeTcrEl2Fn(
		tcrEl2.T0SZ.Val(tcrRegionSize) |
			tcrEl2.IRGN0.Val(tcrRgnNC) |
			tcrEl2.ORGN0.Val(tcrRgnNC) |
			tcrEl2.SH0.Val(tcrShOS) |
			tcrEl2.TG0.Val(tcrTg0_4KB) |
			tcrEl2.PS.Val(tcrPa32Bits) |
			tcrEl2.TBI.Val(tcrTopByteIgnpx))

	// single stage translation: no second stage, no default cacheability
	writeHcrEl2Fn(hcr.VM.Val(0) | hcr.DC.Val(0))

	isbFn()

	s := readSctlrEl2Fn()
	s |= sctlr.M.Mask() | sctlr.C.Mask() | sctlr.I.Mask()
	s &^= sctlr.A.Mask() | sctlr.SA.Mask()
	writeSctlrEl2Fn(s)

	nopFn()
	nopFn()
	isbFn()

	invalidateTlbAllEl2Fn()

	elState = stateEnabled
}

// disableMmuEl2 switches translation and the caches off at EL2, leaving
// the table contents in place.
//
//go:nosplit
func disableMmuEl2() {
	s := readSctlrEl2Fn()
	s &^= sctlr.M.Mask() | sctlr.C.Mask() | sctlr.I.Mask()
	writeSctlrEl2Fn(s)
	invalidateTlbAllEl2Fn()

	elState = stateDisabled
}
