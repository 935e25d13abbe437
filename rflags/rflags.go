// Package rflags converts between the structured x86-64 flags value and the
// packed RFLAGS encoding.
//
// Only architecturally defined bits survive a conversion. Decode drops every
// reserved bit and Encode always sets bit 1, which reads as 1 on real
// hardware.
package rflags

import "strings"

// Fixed is the reserved bit that is always set in the packed encoding.
const Fixed uint64 = 1 << 1

// Mask covers every bit Encode can produce, including the fixed bit and IOPL.
const Mask uint64 = 0x3F7FD5 | Fixed

// iopl field layout.
const (
	ioplShift = 12
	ioplMask  = 0x3
)

// Flags is the structured view of RFLAGS.
type Flags struct {
	Carry     bool
	Parity    bool
	Adjust    bool
	Zero      bool
	Sign      bool
	Trap      bool
	Interrupt bool
	Direction bool
	Overflow  bool

	// IOPL is the I/O privilege level. Only the low 2 bits are encoded.
	IOPL uint8

	NestedTask              bool
	Resume                  bool
	VM8086                  bool
	AlignmentCheck          bool
	VirtualInterrupt        bool
	VirtualInterruptPending bool
	ID                      bool
}

// Encode packs f into its 64-bit hardware form.
func Encode(f Flags) uint64 {
	var v uint64

	for _, b := range allBits {
		if *f.field(b) {
			v |= b.Mask()
		}
	}

	v |= uint64(f.IOPL&ioplMask) << ioplShift

	return v | Fixed
}

// Decode unpacks a 64-bit RFLAGS value. Reserved bits are ignored.
func Decode(v uint64) Flags {
	var f Flags

	for _, b := range allBits {
		*f.field(b) = v&b.Mask() != 0
	}

	f.IOPL = uint8((v >> ioplShift) & ioplMask)

	return f
}

// Encode is a method form of the package-level Encode.
func (f Flags) Encode() uint64 {
	return Encode(f)
}

// Decode overwrites f with the decoded form of v.
func (f *Flags) Decode(v uint64) {
	*f = Decode(v)
}

// Get reports the state of a single named bit.
func (f Flags) Get(b Bit) (bool, error) {
	if !b.Valid() {
		return false, invalidBit(b)
	}

	return *f.field(b), nil
}

// Set changes a single named bit and leaves every other field alone.
func (f *Flags) Set(b Bit, on bool) error {
	if !b.Valid() {
		return invalidBit(b)
	}

	*f.field(b) = on

	return nil
}

// String lists the set flags by mnemonic followed by the IOPL.
func (f Flags) String() string {
	var sb strings.Builder

	for _, b := range allBits {
		if *f.field(b) {
			sb.WriteString(b.String())
			sb.WriteByte(' ')
		}
	}

	sb.WriteString("IOPL=")
	sb.WriteByte('0' + f.IOPL&ioplMask)

	return sb.String()
}

// field maps a valid bit to the struct field that stores it.
func (f *Flags) field(b Bit) *bool {
	switch b {
	case CF:
		return &f.Carry
	case PF:
		return &f.Parity
	case AF:
		return &f.Adjust
	case ZF:
		return &f.Zero
	case SF:
		return &f.Sign
	case TF:
		return &f.Trap
	case IF:
		return &f.Interrupt
	case DF:
		return &f.Direction
	case OF:
		return &f.Overflow
	case NT:
		return &f.NestedTask
	case RF:
		return &f.Resume
	case VM:
		return &f.VM8086
	case AC:
		return &f.AlignmentCheck
	case VIF:
		return &f.VirtualInterrupt
	case VIP:
		return &f.VirtualInterruptPending
	case ID:
		return &f.ID
	}

	panic("rflags: unmapped bit " + b.String())
}
