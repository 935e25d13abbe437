package regs

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
)

// Extended-precision layout constants.
const (
	fp80Bias    = 16383
	fp80ExpMask = 0x7FFF
	fp80ExpMax  = 0x7FFF
	fp80Integer = uint64(1) << 63
)

// FPReg is one 80-bit x87 register split into its fields. It is a plain
// container: no normalization or NaN canonicalization is applied.
type FPReg struct {
	// Mantissa is the 64-bit significand including the explicit integer bit.
	Mantissa uint64
	// Exp is the biased exponent. Only the low 15 bits are architectural.
	Exp  uint16
	Sign bool
}

// Tag is the two-bit x87 tag of a register.
type Tag uint8

// x87 tag values.
const (
	TagValid   Tag = 0
	TagZero    Tag = 1
	TagSpecial Tag = 2
	TagEmpty   Tag = 3
)

// Bytes returns the 10-byte little-endian memory image used by FLD/FSTP m80
// and FXSAVE. The padding bit of Exp is not stored.
func (f FPReg) Bytes() [10]byte {
	var b [10]byte

	se := f.Exp & fp80ExpMask
	if f.Sign {
		se |= 0x8000
	}

	binary.LittleEndian.PutUint64(b[0:8], f.Mantissa)
	binary.LittleEndian.PutUint16(b[8:10], se)

	return b
}

// FPRegFromBytes decodes a 10-byte extended-precision memory image.
func FPRegFromBytes(b [10]byte) FPReg {
	se := binary.LittleEndian.Uint16(b[8:10])

	return FPReg{
		Mantissa: binary.LittleEndian.Uint64(b[0:8]),
		Exp:      se & fp80ExpMask,
		Sign:     se&0x8000 != 0,
	}
}

// Class returns the tag FXSAVE/FSTENV would report for the register contents,
// assuming the register is not empty.
func (f FPReg) Class() Tag {
	exp := f.Exp & fp80ExpMask

	switch {
	case exp == fp80ExpMax:
		return TagSpecial
	case exp == 0 && f.Mantissa == 0:
		return TagZero
	case exp == 0:
		return TagSpecial // denormal
	case f.Mantissa&fp80Integer == 0:
		return TagSpecial // unnormal
	}
	return TagValid
}

// Float64 converts the register to a host double. Precision beyond 53 bits
// is rounded away and exponents outside the double range saturate to zero
// or infinity, so this is meant for display.
func (f FPReg) Float64() float64 {
	exp := int(f.Exp & fp80ExpMask)

	var v float64
	switch {
	case exp == fp80ExpMax && f.Mantissa<<1 == 0:
		v = math.Inf(1)
	case exp == fp80ExpMax:
		v = math.NaN()
	case f.Mantissa == 0:
		v = 0
	default:
		if exp == 0 {
			exp = 1 // denormals share the minimum exponent
		}
		v = math.Ldexp(float64(f.Mantissa), exp-fp80Bias-63)
	}

	if f.Sign {
		return math.Copysign(v, -1)
	}
	return v
}

// FPRegFromFloat64 widens a host double to extended precision. Every double
// converts exactly, so FPRegFromFloat64(x).Float64() == x for non-NaN x.
func FPRegFromFloat64(x float64) FPReg {
	raw := math.Float64bits(x)
	sign := raw>>63 != 0
	exp := int((raw >> 52) & 0x7FF)
	frac := raw & (1<<52 - 1)

	switch {
	case exp == 0 && frac == 0:
		return FPReg{Sign: sign}
	case exp == 0x7FF:
		return FPReg{Mantissa: fp80Integer | frac<<11, Exp: fp80ExpMax, Sign: sign}
	case exp == 0:
		// Subnormal double: normalize into the wider exponent range.
		msb := bits.Len64(frac) - 1
		return FPReg{
			Mantissa: frac << (63 - msb),
			Exp:      uint16(fp80Bias - 1074 + msb),
			Sign:     sign,
		}
	}

	return FPReg{
		Mantissa: fp80Integer | frac<<11,
		Exp:      uint16(exp - 1023 + fp80Bias),
		Sign:     sign,
	}
}

func (f FPReg) String() string {
	s := '+'
	if f.Sign {
		s = '-'
	}
	return fmt.Sprintf("%c0x%04x:%016x (%g)", s, f.Exp&fp80ExpMask, f.Mantissa, f.Float64())
}

func checkSlot(i uint8) error {
	if i >= NumFPRegs {
		return fmt.Errorf("fpu slot %d: %w", i, ErrInvalidIndex)
	}
	return nil
}

// physical maps a stack-relative index to a physical slot.
func (r *RegFile) physical(st uint8) uint8 {
	return (r.top + st) % NumFPRegs
}

// Top returns the x87 stack-top pointer.
func (r *RegFile) Top() uint8 {
	return r.top
}

// SetTop sets the x87 stack-top pointer. Values above 7 are rejected.
func (r *RegFile) SetTop(top uint8) error {
	if err := checkSlot(top); err != nil {
		return err
	}
	r.top = top
	return nil
}

// Physical returns the register in physical slot i (R0..R7).
func (r *RegFile) Physical(i uint8) (FPReg, error) {
	if err := checkSlot(i); err != nil {
		return FPReg{}, err
	}
	return r.fpr[i], nil
}

// SetPhysical writes physical slot i.
func (r *RegFile) SetPhysical(i uint8, v FPReg) error {
	if err := checkSlot(i); err != nil {
		return err
	}
	r.fpr[i] = v
	return nil
}

// ST returns stack register ST(i), which lives in slot (top+i) mod 8.
func (r *RegFile) ST(i uint8) (FPReg, error) {
	if err := checkSlot(i); err != nil {
		return FPReg{}, err
	}
	return r.fpr[r.physical(i)], nil
}

// SetST writes stack register ST(i).
func (r *RegFile) SetST(i uint8, v FPReg) error {
	if err := checkSlot(i); err != nil {
		return err
	}
	r.fpr[r.physical(i)] = v
	return nil
}

// Push decrements TOP and stores v in the new ST(0). Tags are not touched.
func (r *RegFile) Push(v FPReg) {
	r.top = (r.top + NumFPRegs - 1) % NumFPRegs
	r.fpr[r.top] = v
}

// Pop returns ST(0) and increments TOP. Tags are not touched.
func (r *RegFile) Pop() FPReg {
	v := r.fpr[r.top]
	r.top = (r.top + 1) % NumFPRegs
	return v
}

// Tag returns the tag of physical slot i from FTW.
func (r *RegFile) Tag(i uint8) (Tag, error) {
	if err := checkSlot(i); err != nil {
		return 0, err
	}
	return Tag((r.FTW >> (2 * i)) & 3), nil
}

// SetTag updates the tag of physical slot i in FTW.
func (r *RegFile) SetTag(i uint8, t Tag) error {
	if err := checkSlot(i); err != nil {
		return err
	}
	shift := 2 * i
	r.FTW = r.FTW&^(3<<shift) | uint16(t&3)<<shift
	return nil
}
