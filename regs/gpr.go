package regs

import "fmt"

// GPR indexes a general-purpose register in architectural order.
type GPR uint8

// General-purpose registers.
const (
	RAX GPR = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

// Width selects a view of a general-purpose register.
type Width uint8

// Register views.
const (
	// Low8 is bits 0-7 (AL, SPL, R8B, ...).
	Low8 Width = iota
	// High8 is bits 8-15 and exists only for RAX..RBX (AH, CH, DH, BH).
	High8
	Bits16
	Bits32
	Bits64
)

// Valid reports whether g is RAX..R15.
func (g GPR) Valid() bool {
	return g < NumGPRs
}

// Valid reports whether w is a defined view.
func (w Width) Valid() bool {
	return w <= Bits64
}

// Bits returns the size of the view in bits.
func (w Width) Bits() int {
	switch w {
	case Low8, High8:
		return 8
	case Bits16:
		return 16
	case Bits32:
		return 32
	case Bits64:
		return 64
	}
	return 0
}

// mask covers the view's bits once shifted down to bit 0.
func (w Width) mask() uint64 {
	return ^uint64(0) >> (64 - w.Bits())
}

func (w Width) shift() uint {
	if w == High8 {
		return 8
	}
	return 0
}

func checkView(g GPR, w Width) error {
	if !g.Valid() {
		return fmt.Errorf("gpr %d: %w", uint8(g), ErrInvalidIndex)
	}
	if !w.Valid() {
		return fmt.Errorf("%s width %d: %w", g, uint8(w), ErrInvalidWidth)
	}
	if w == High8 && g > RBX {
		return fmt.Errorf("%s has no high-byte view: %w", g, ErrInvalidWidth)
	}
	return nil
}

// Read returns the selected view of g, zero-extended to 64 bits.
func (r *RegFile) Read(g GPR, w Width) (uint64, error) {
	if err := checkView(g, w); err != nil {
		return 0, err
	}

	return (r.gpr[g] >> w.shift()) & w.mask(), nil
}

// Write stores value into the selected view of g. Bits of value above the
// view's width are discarded.
//
// 8- and 16-bit writes leave the other bits of the register unchanged.
// A 32-bit write clears bits 32-63.
func (r *RegFile) Write(g GPR, w Width, value uint64) error {
	if err := checkView(g, w); err != nil {
		return err
	}

	p := &r.gpr[g]
	switch w {
	case Bits32, Bits64:
		*p = value & w.mask()
	default:
		m := w.mask() << w.shift()
		*p = *p&^m | (value<<w.shift())&m
	}
	return nil
}

// Read64 reads the full register.
func (r *RegFile) Read64(g GPR) (uint64, error) {
	return r.Read(g, Bits64)
}

// Write64 writes the full register.
func (r *RegFile) Write64(g GPR, value uint64) error {
	return r.Write(g, Bits64, value)
}

// Read32 reads bits 0-31.
func (r *RegFile) Read32(g GPR) (uint32, error) {
	v, err := r.Read(g, Bits32)
	return uint32(v), err
}

// Write32 writes bits 0-31 and clears bits 32-63.
func (r *RegFile) Write32(g GPR, value uint32) error {
	return r.Write(g, Bits32, uint64(value))
}

// Read16 reads bits 0-15.
func (r *RegFile) Read16(g GPR) (uint16, error) {
	v, err := r.Read(g, Bits16)
	return uint16(v), err
}

// Write16 writes bits 0-15.
func (r *RegFile) Write16(g GPR, value uint16) error {
	return r.Write(g, Bits16, uint64(value))
}

// Read8 reads bits 0-7.
func (r *RegFile) Read8(g GPR) (uint8, error) {
	v, err := r.Read(g, Low8)
	return uint8(v), err
}

// Write8 writes bits 0-7.
func (r *RegFile) Write8(g GPR, value uint8) error {
	return r.Write(g, Low8, uint64(value))
}

// ReadHigh8 reads bits 8-15 of RAX..RBX.
func (r *RegFile) ReadHigh8(g GPR) (uint8, error) {
	v, err := r.Read(g, High8)
	return uint8(v), err
}

// WriteHigh8 writes bits 8-15 of RAX..RBX.
func (r *RegFile) WriteHigh8(g GPR, value uint8) error {
	return r.Write(g, High8, uint64(value))
}

// ReadReg8 reads a legacy byte register.
func (r *RegFile) ReadReg8(reg Reg8) (uint8, error) {
	g, w, err := reg.Location()
	if err != nil {
		return 0, err
	}
	v, err := r.Read(g, w)
	return uint8(v), err
}

// WriteReg8 writes a legacy byte register.
func (r *RegFile) WriteReg8(reg Reg8, value uint8) error {
	g, w, err := reg.Location()
	if err != nil {
		return err
	}
	return r.Write(g, w, uint64(value))
}

// ReadReg16 reads a legacy word register.
func (r *RegFile) ReadReg16(reg Reg16) (uint16, error) {
	g, w, err := reg.Location()
	if err != nil {
		return 0, err
	}
	v, err := r.Read(g, w)
	return uint16(v), err
}

// WriteReg16 writes a legacy word register.
func (r *RegFile) WriteReg16(reg Reg16, value uint16) error {
	g, w, err := reg.Location()
	if err != nil {
		return err
	}
	return r.Write(g, w, uint64(value))
}

// ReadReg32 reads a legacy doubleword register.
func (r *RegFile) ReadReg32(reg Reg32) (uint32, error) {
	g, w, err := reg.Location()
	if err != nil {
		return 0, err
	}
	v, err := r.Read(g, w)
	return uint32(v), err
}

// WriteReg32 writes a legacy doubleword register and zero-extends.
func (r *RegFile) WriteReg32(reg Reg32, value uint32) error {
	g, w, err := reg.Location()
	if err != nil {
		return err
	}
	return r.Write(g, w, uint64(value))
}
