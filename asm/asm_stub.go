//go:build !arm64

package asm

// Shadow register state standing in for the real system registers on
// non-arm64 builds. Host tools and tests run the bring-up sequence
// against this state and inspect the result through the Read functions.
var shadow = struct {
	el    uint64
	mair1 uint64
	tcr1  uint64
	ttbr0 uint64
	ttbr1 uint64
	sctl1 uint64
	mair2 uint64
	tcr2  uint64
	ttb02 uint64
	sctl2 uint64
	hcr2  uint64
}{el: 1}

func Dsb()      {}
func DsbIsh()   {}
func DsbIshst() {}
func Isb()      {}
func Nop()      {}

func CleanDcacheVa(addr uintptr) {}
func InvalidateIcacheAll()       {}
func InvalidateTlbAll()          {}
func InvalidateTlbAllEl2()       {}
func InvalidateTlbVa(addr uintptr) {}

// CurrentEl returns the shadow exception level, EL1 unless changed with
// SetCurrentEl.
func CurrentEl() uint64 { return shadow.el }

// SetCurrentEl sets the shadow exception level. Only available on hosts;
// on arm64 the level is whatever the hardware reports.
func SetCurrentEl(el uint64) { shadow.el = el }

func ReadMairEl1() uint64       { return shadow.mair1 }
func WriteMairEl1(value uint64) { shadow.mair1 = value }
func ReadTcrEl1() uint64        { return shadow.tcr1 }
func WriteTcrEl1(value uint64)  { shadow.tcr1 = value }
func ReadTtbr0El1() uint64      { return shadow.ttbr0 }
func WriteTtbr0El1(value uint64) { shadow.ttbr0 = value }
func ReadTtbr1El1() uint64       { return shadow.ttbr1 }
func WriteTtbr1El1(value uint64) { shadow.ttbr1 = value }
func ReadSctlrEl1() uint64       { return shadow.sctl1 }
func WriteSctlrEl1(value uint64) { shadow.sctl1 = value }

func ReadMairEl2() uint64        { return shadow.mair2 }
func WriteMairEl2(value uint64)  { shadow.mair2 = value }
func ReadTcrEl2() uint64         { return shadow.tcr2 }
func WriteTcrEl2(value uint64)   { shadow.tcr2 = value }
func ReadTtbr0El2() uint64       { return shadow.ttb02 }
func WriteTtbr0El2(value uint64) { shadow.ttb02 = value }
func ReadSctlrEl2() uint64       { return shadow.sctl2 }
func WriteSctlrEl2(value uint64) { shadow.sctl2 = value }
func ReadHcrEl2() uint64         { return shadow.hcr2 }
func WriteHcrEl2(value uint64)   { shadow.hcr2 = value }
