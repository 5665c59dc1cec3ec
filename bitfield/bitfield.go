// Package bitfield provides typed accessors for named bit ranges inside
// 64-bit words, such as system registers and translation table entries.
// Consumers declare a table of fields (offset, width, enumerated values)
// once and use the accessors instead of scattering shifts and masks
// through their code.
package bitfield

// Field describes a contiguous run of bits inside a 64-bit word.
// The zero value is not a usable field; construct one with At or Flag.
type Field struct {
	shift uint8
	bits  uint8
}

// At returns the field starting at bit position shift and spanning the
// given number of bits. shift+bits must not exceed 64.
func At(shift, bits uint) Field {
	if bits == 0 || shift+bits > 64 {
		panic("bitfield: field outside 64-bit word")
	}
	return Field{shift: uint8(shift), bits: uint8(bits)}
}

// Flag returns a single-bit field at the given bit position.
func Flag(shift uint) Field {
	return At(shift, 1)
}

// Shift returns the field's offset from bit 0.
func (f Field) Shift() uint { return uint(f.shift) }

// Bits returns the field's width.
func (f Field) Bits() uint { return uint(f.bits) }

// Mask returns the field's bits set to 1 at their in-word position.
func (f Field) Mask() uint64 {
	if f.bits == 64 {
		return ^uint64(0)
	}
	return ((uint64(1) << f.bits) - 1) << f.shift
}

// Val places v into the field's bit range. Bits of v that do not fit the
// field width are discarded. The result carries only this field's bits, so
// values of several fields combine with bitwise OR into a full word.
func (f Field) Val(v uint64) uint64 {
	return (v << f.shift) & f.Mask()
}

// Read extracts the field's value from word, shifted down to bit 0.
func (f Field) Read(word uint64) uint64 {
	return (word & f.Mask()) >> f.shift
}

// Write replaces the field's bits in word with v, leaving all other bits
// untouched.
func (f Field) Write(word, v uint64) uint64 {
	return (word &^ f.Mask()) | f.Val(v)
}

// IsSet reports whether any bit of the field is set in word. For
// single-bit flags this is the boolean value of the flag.
func (f Field) IsSet(word uint64) bool {
	return word&f.Mask() != 0
}
