package regs

import "github.com/sarchlab/x86state/rflags"

// Flags returns the structured flags value.
func (r *RegFile) Flags() rflags.Flags {
	return r.flags
}

// SetFlags replaces the flags value.
func (r *RegFile) SetFlags(f rflags.Flags) {
	f.IOPL &= 3
	r.flags = f
}

// RFLAGS returns the packed hardware encoding of the flags.
func (r *RegFile) RFLAGS() uint64 {
	return rflags.Encode(r.flags)
}

// SetRFLAGS loads the flags from their packed encoding. Reserved bits are
// dropped.
func (r *RegFile) SetRFLAGS(v uint64) {
	r.flags = rflags.Decode(v)
}

// Flag reports a single flag bit.
func (r *RegFile) Flag(b rflags.Bit) (bool, error) {
	return r.flags.Get(b)
}

// SetFlag changes a single flag bit.
func (r *RegFile) SetFlag(b rflags.Bit, on bool) error {
	return r.flags.Set(b, on)
}

// IOPL returns the I/O privilege level.
func (r *RegFile) IOPL() uint8 {
	return r.flags.IOPL
}

// SetIOPL sets the I/O privilege level, keeping only the low 2 bits.
func (r *RegFile) SetIOPL(level uint8) {
	r.flags.IOPL = level & 3
}
