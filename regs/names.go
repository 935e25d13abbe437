package regs

import "fmt"

var gprNames = [NumGPRs]string{
	"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
}

func (g GPR) String() string {
	if g.Valid() {
		return gprNames[g]
	}
	return fmt.Sprintf("GPR(%d)", uint8(g))
}

func (w Width) String() string {
	switch w {
	case Low8:
		return "low8"
	case High8:
		return "high8"
	case Bits16:
		return "16"
	case Bits32:
		return "32"
	case Bits64:
		return "64"
	}
	return fmt.Sprintf("Width(%d)", uint8(w))
}

// Reg8 names a byte register as encoded without a REX prefix.
type Reg8 uint8

// Legacy byte registers.
const (
	AL Reg8 = iota
	CL
	DL
	BL
	AH
	CH
	DH
	BH
)

var reg8Names = [...]string{"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh"}

// Location maps the name onto its backing register and view.
func (r Reg8) Location() (GPR, Width, error) {
	switch {
	case r <= BL:
		return GPR(r), Low8, nil
	case r <= BH:
		return GPR(r - AH), High8, nil
	}
	return 0, 0, fmt.Errorf("reg8 %d: %w", uint8(r), ErrInvalidIndex)
}

func (r Reg8) String() string {
	if int(r) < len(reg8Names) {
		return reg8Names[r]
	}
	return fmt.Sprintf("Reg8(%d)", uint8(r))
}

// Reg16 names a legacy word register.
type Reg16 uint8

// Legacy word registers.
const (
	AX Reg16 = iota
	CX
	DX
	BX
	SP
	BP
	SI
	DI
)

var reg16Names = [...]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}

// Location maps the name onto its backing register and view.
func (r Reg16) Location() (GPR, Width, error) {
	if r > DI {
		return 0, 0, fmt.Errorf("reg16 %d: %w", uint8(r), ErrInvalidIndex)
	}
	return GPR(r), Bits16, nil
}

func (r Reg16) String() string {
	if int(r) < len(reg16Names) {
		return reg16Names[r]
	}
	return fmt.Sprintf("Reg16(%d)", uint8(r))
}

// Reg32 names a legacy doubleword register.
type Reg32 uint8

// Legacy doubleword registers.
const (
	EAX Reg32 = iota
	ECX
	EDX
	EBX
	ESP
	EBP
	ESI
	EDI
)

var reg32Names = [...]string{"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi"}

// Location maps the name onto its backing register and view.
func (r Reg32) Location() (GPR, Width, error) {
	if r > EDI {
		return 0, 0, fmt.Errorf("reg32 %d: %w", uint8(r), ErrInvalidIndex)
	}
	return GPR(r), Bits32, nil
}

func (r Reg32) String() string {
	if int(r) < len(reg32Names) {
		return reg32Names[r]
	}
	return fmt.Sprintf("Reg32(%d)", uint8(r))
}
