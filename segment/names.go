package segment

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidName is returned when a register name cannot be resolved.
var ErrInvalidName = errors.New("invalid segment register name")

// SegReg names one of the six segment registers, in instruction-encoding order.
type SegReg uint8

// Segment registers.
const (
	ES SegReg = iota
	CS
	SS
	DS
	FS
	GS
)

// NumSegRegs is the number of segment registers.
const NumSegRegs = 6

var segNames = [NumSegRegs]string{"ES", "CS", "SS", "DS", "FS", "GS"}

// Valid reports whether s is one of ES..GS.
func (s SegReg) Valid() bool {
	return s < NumSegRegs
}

func (s SegReg) String() string {
	if s.Valid() {
		return segNames[s]
	}
	return fmt.Sprintf("SegReg(%d)", uint8(s))
}

// TableReg names one of the descriptor-table registers.
type TableReg uint8

// Table registers.
const (
	GDTR TableReg = iota
	LDTR
	IDTR
	TR
)

// NumTableRegs is the number of descriptor-table registers.
const NumTableRegs = 4

var tableNames = [NumTableRegs]string{"GDTR", "LDTR", "IDTR", "TR"}

// Valid reports whether t is one of GDTR, LDTR, IDTR, TR.
func (t TableReg) Valid() bool {
	return t < NumTableRegs
}

func (t TableReg) String() string {
	if t.Valid() {
		return tableNames[t]
	}
	return fmt.Sprintf("TableReg(%d)", uint8(t))
}

// ParseSegReg resolves a case-insensitive segment register name.
func ParseSegReg(name string) (SegReg, error) {
	for i, n := range segNames {
		if strings.EqualFold(n, name) {
			return SegReg(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrInvalidName)
}

// ParseTableReg resolves a case-insensitive table register name.
func ParseTableReg(name string) (TableReg, error) {
	for i, n := range tableNames {
		if strings.EqualFold(n, name) {
			return TableReg(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrInvalidName)
}
