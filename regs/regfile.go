// Package regs provides the x86-64 architectural register file.
//
// A RegFile holds one virtual CPU's state. It performs no locking; each vCPU
// owns its own RegFile and serializes access to it.
package regs

import (
	"github.com/sarchlab/x86state/rflags"
	"github.com/sarchlab/x86state/segment"
)

// NumGPRs is the number of general-purpose registers.
const NumGPRs = 16

// NumFPRegs is the number of x87/MMX stack slots.
const NumFPRegs = 8

// RegFile represents the x86-64 register file.
// The zero value is a valid, all-zero state. Architectural reset values are
// supplied by the caller.
type RegFile struct {
	// gpr holds RAX..R15. Partial views are reached through Read and Write.
	gpr [NumGPRs]uint64

	flags rflags.Flags

	// RIP is the instruction pointer.
	RIP uint64

	segs   [segment.NumSegRegs]segment.Descriptor
	tables [segment.NumTableRegs]segment.Descriptor

	fpr [NumFPRegs]FPReg
	top uint8

	// FCW is the x87 control word.
	FCW uint16
	// FSW is the x87 status word. TOP is kept separately, see Top.
	FSW uint16
	// FTW is the full two-bit-per-register tag word.
	FTW uint16
	// FOP is the opcode of the last non-control x87 instruction.
	FOP uint16

	// FCS and FDS are the code and data selectors of the last x87 instruction.
	FCS uint16
	FDS uint16

	// FIP and FDP are the instruction and operand pointers of the last x87
	// instruction, reported on floating-point exceptions.
	FIP uint64
	FDP uint64
}

// New creates a zeroed register file.
func New() *RegFile {
	return &RegFile{}
}
