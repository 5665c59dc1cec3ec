package mmu

import (
	"github.com/RusPiRo/ruspiro-mmu/asm"
)

// All barrier, cache, TLB and system register instructions are called
// through these variables so tests can record and verify the exact
// maintenance sequence. The defaults are the real instruction bodies.
var (
	currentElFn = asm.CurrentEl

	dsbFn      = asm.Dsb
	dsbIshFn   = asm.DsbIsh
	dsbIshstFn = asm.DsbIshst
	isbFn      = asm.Isb
	nopFn      = asm.Nop

	cleanDcacheVaFn    = asm.CleanDcacheVa
	invalidateIcacheFn = asm.InvalidateIcacheAll

	invalidateTlbAllFn    = asm.InvalidateTlbAll
	invalidateTlbAllEl2Fn = asm.InvalidateTlbAllEl2
	invalidateTlbVaFn     = asm.InvalidateTlbVa

	readMairEl1Fn   = asm.ReadMairEl1
	writeMairEl1Fn  = asm.WriteMairEl1
	readTcrEl1Fn    = asm.ReadTcrEl1
	writeTcrEl1Fn   = asm.WriteTcrEl1
	readTtbr0El1Fn  = asm.ReadTtbr0El1
	writeTtbr0El1Fn = asm.WriteTtbr0El1
	readTtbr1El1Fn  = asm.ReadTtbr1El1
	writeTtbr1El1Fn = asm.WriteTtbr1El1
	readSctlrEl1Fn  = asm.ReadSctlrEl1
	writeSctlrEl1Fn = asm.WriteSctlrEl1

	readMairEl2Fn   = asm.ReadMairEl2
	writeMairEl2Fn  = asm.WriteMairEl2
	readTcrEl2Fn    = asm.ReadTcrEl2
	writeTcrEl2Fn   = asm.WriteTcrEl2
	readTtbr0El2Fn  = asm.ReadTtbr0El2
	writeTtbr0El2Fn = asm.WriteTtbr0El2
	readSctlrEl2Fn  = asm.ReadSctlrEl2
	writeSctlrEl2Fn = asm.WriteSctlrEl2
	readHcrEl2Fn    = asm.ReadHcrEl2
	writeHcrEl2Fn   = asm.WriteHcrEl2
)

// Trace, when set, receives progress messages from the table maintenance
// paths. It stays nil by default; console output is not a concern of this
// package. Only static strings are passed so the hook is safe to use
// before a heap exists.
var Trace func(msg string)

func trace(msg string) {
	if Trace != nil {
		Trace(msg)
	}
}
