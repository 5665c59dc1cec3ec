package mmu

// Test support: swap the instruction hooks for a recorder so the barrier
// and register programming sequences can be asserted, and restore the
// real bodies afterwards.

import (
	"testing"
)

type hookSet struct {
	currentEl func() uint64

	dsb, dsbIsh, dsbIshst, isb, nop func()

	cleanDcacheVa   func(uintptr)
	invalidateIcach func()

	invalidateTlbAll    func()
	invalidateTlbAllEl2 func()
	invalidateTlbVa     func(uintptr)

	writeMairEl1, writeTcrEl1, writeTtbr0El1, writeTtbr1El1, writeSctlrEl1 func(uint64)
	readSctlrEl1                                                          func() uint64
	writeMairEl2, writeTcrEl2, writeTtbr0El2, writeSctlrEl2, writeHcrEl2  func(uint64)
	readSctlrEl2                                                          func() uint64
}

func snapshotHooks() hookSet {
	return hookSet{
		currentEl: currentElFn,
		dsb:       dsbFn, dsbIsh: dsbIshFn, dsbIshst: dsbIshstFn, isb: isbFn, nop: nopFn,
		cleanDcacheVa: cleanDcacheVaFn, invalidateIcach: invalidateIcacheFn,
		invalidateTlbAll: invalidateTlbAllFn, invalidateTlbAllEl2: invalidateTlbAllEl2Fn,
		invalidateTlbVa: invalidateTlbVaFn,
		writeMairEl1:    writeMairEl1Fn, writeTcrEl1: writeTcrEl1Fn,
		writeTtbr0El1: writeTtbr0El1Fn, writeTtbr1El1: writeTtbr1El1Fn,
		writeSctlrEl1: writeSctlrEl1Fn, readSctlrEl1: readSctlrEl1Fn,
		writeMairEl2: writeMairEl2Fn, writeTcrEl2: writeTcrEl2Fn,
		writeTtbr0El2: writeTtbr0El2Fn, writeSctlrEl2: writeSctlrEl2Fn,
		writeHcrEl2: writeHcrEl2Fn, readSctlrEl2: readSctlrEl2Fn,
	}
}

func restoreHooks(h hookSet) {
	currentElFn = h.currentEl
	dsbFn, dsbIshFn, dsbIshstFn, isbFn, nopFn = h.dsb, h.dsbIsh, h.dsbIshst, h.isb, h.nop
	cleanDcacheVaFn, invalidateIcacheFn = h.cleanDcacheVa, h.invalidateIcach
	invalidateTlbAllFn, invalidateTlbAllEl2Fn = h.invalidateTlbAll, h.invalidateTlbAllEl2
	invalidateTlbVaFn = h.invalidateTlbVa
	writeMairEl1Fn, writeTcrEl1Fn = h.writeMairEl1, h.writeTcrEl1
	writeTtbr0El1Fn, writeTtbr1El1Fn = h.writeTtbr0El1, h.writeTtbr1El1
	writeSctlrEl1Fn, readSctlrEl1Fn = h.writeSctlrEl1, h.readSctlrEl1
	writeMairEl2Fn, writeTcrEl2Fn = h.writeMairEl2, h.writeTcrEl2
	writeTtbr0El2Fn, writeSctlrEl2Fn = h.writeTtbr0El2, h.writeSctlrEl2
	writeHcrEl2Fn, readSctlrEl2Fn = h.writeHcrEl2, h.readSctlrEl2
}

// opRecorder captures the instruction sequence and the values written to
// the system registers.
type opRecorder struct {
	ops  []string
	regs map[string]uint64
}

func (r *opRecorder) record(op string) {
	r.ops = append(r.ops, op)
}

// installRecorder wires an opRecorder into every hook and reports the
// given exception level. The previous hooks come back via t.Cleanup.
func installRecorder(t *testing.T, el uint64) *opRecorder {
	t.Helper()

	prev := snapshotHooks()
	t.Cleanup(func() { restoreHooks(prev) })

	r := &opRecorder{regs: make(map[string]uint64)}

	currentElFn = func() uint64 { return el }

	dsbFn = func() { r.record("dsb sy") }
	dsbIshFn = func() { r.record("dsb ish") }
	dsbIshstFn = func() { r.record("dsb ishst") }
	isbFn = func() { r.record("isb") }
	nopFn = func() { r.record("nop") }

	cleanDcacheVaFn = func(uintptr) { r.record("dc civac") }
	invalidateIcacheFn = func() { r.record("ic iallu") }
	invalidateTlbAllFn = func() { r.record("tlbi vmalle1") }
	invalidateTlbAllEl2Fn = func() { r.record("tlbi alle2") }
	invalidateTlbVaFn = func(uintptr) { r.record("tlbi vaae1") }

	regWrite := func(name string) func(uint64) {
		return func(v uint64) {
			r.record("msr " + name)
			r.regs[name] = v
		}
	}
	writeMairEl1Fn = regWrite("mair_el1")
	writeTcrEl1Fn = regWrite("tcr_el1")
	writeTtbr0El1Fn = regWrite("ttbr0_el1")
	writeTtbr1El1Fn = regWrite("ttbr1_el1")
	writeSctlrEl1Fn = regWrite("sctlr_el1")
	readSctlrEl1Fn = func() uint64 { return r.regs["sctlr_el1"] }
	writeMairEl2Fn = regWrite("mair_el2")
	writeTcrEl2Fn = regWrite("tcr_el2")
	writeTtbr0El2Fn = regWrite("ttbr0_el2")
	writeSctlrEl2Fn = regWrite("sctlr_el2")
	writeHcrEl2Fn = regWrite("hcr_el2")
	readSctlrEl2Fn = func() uint64 { return r.regs["sctlr_el2"] }

	return r
}

// opsAfter returns the recorded operations following the first
// occurrence of marker, or nil when marker was never recorded.
func (r *opRecorder) opsAfter(marker string) []string {
	for i, op := range r.ops {
		if op == marker {
			return r.ops[i+1:]
		}
	}
	return nil
}
