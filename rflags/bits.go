package rflags

import (
	"errors"
	"fmt"
)

// ErrInvalidBit is returned when a bit offset does not name a single-bit flag.
var ErrInvalidBit = errors.New("invalid flag bit")

// Bit names a single-bit flag by its architectural bit offset.
type Bit uint8

// Single-bit flags. IOPL (bits 12-13) is a two-bit field and has no Bit.
const (
	CF  Bit = 0
	PF  Bit = 2
	AF  Bit = 4
	ZF  Bit = 6
	SF  Bit = 7
	TF  Bit = 8
	IF  Bit = 9
	DF  Bit = 10
	OF  Bit = 11
	NT  Bit = 14
	RF  Bit = 16
	VM  Bit = 17
	AC  Bit = 18
	VIF Bit = 19
	VIP Bit = 20
	ID  Bit = 21
)

var allBits = [...]Bit{CF, PF, AF, ZF, SF, TF, IF, DF, OF, NT, RF, VM, AC, VIF, VIP, ID}

var bitNames = map[Bit]string{
	CF: "CF", PF: "PF", AF: "AF", ZF: "ZF", SF: "SF", TF: "TF", IF: "IF",
	DF: "DF", OF: "OF", NT: "NT", RF: "RF", VM: "VM", AC: "AC", VIF: "VIF",
	VIP: "VIP", ID: "ID",
}

// Bits returns every single-bit flag in ascending bit order.
func Bits() []Bit {
	out := make([]Bit, len(allBits))
	copy(out, allBits[:])
	return out
}

// Valid reports whether b names a defined single-bit flag.
func (b Bit) Valid() bool {
	_, ok := bitNames[b]
	return ok
}

// Mask returns the bit in its packed position.
func (b Bit) Mask() uint64 {
	return 1 << b
}

func (b Bit) String() string {
	if name, ok := bitNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Bit(%d)", uint8(b))
}

// ParseBit looks a flag up by mnemonic, e.g. "ZF".
func ParseBit(name string) (Bit, error) {
	for b, n := range bitNames {
		if n == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrInvalidBit)
}

func invalidBit(b Bit) error {
	return fmt.Errorf("bit %d: %w", uint8(b), ErrInvalidBit)
}
