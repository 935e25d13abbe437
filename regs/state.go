package regs

import (
	"fmt"

	"github.com/sarchlab/x86state/rflags"
	"github.com/sarchlab/x86state/segment"
)

// State is a flat copy of every field in a RegFile, used to move a whole
// vCPU state in one pass (VM entry/exit, debugger snapshots). Flags are kept
// in packed form. State values are comparable with ==.
type State struct {
	GPR    [NumGPRs]uint64
	RFLAGS uint64
	RIP    uint64

	Segs   [segment.NumSegRegs]segment.Descriptor
	Tables [segment.NumTableRegs]segment.Descriptor

	FPR [NumFPRegs]FPReg
	Top uint8
	FCW uint16
	FSW uint16
	FTW uint16
	FOP uint16
	FCS uint16
	FDS uint16
	FIP uint64
	FDP uint64
}

// Save copies the complete register file into a State.
func (r *RegFile) Save() State {
	return State{
		GPR:    r.gpr,
		RFLAGS: rflags.Encode(r.flags),
		RIP:    r.RIP,
		Segs:   r.segs,
		Tables: r.tables,
		FPR:    r.fpr,
		Top:    r.top,
		FCW:    r.FCW,
		FSW:    r.FSW,
		FTW:    r.FTW,
		FOP:    r.FOP,
		FCS:    r.FCS,
		FDS:    r.FDS,
		FIP:    r.FIP,
		FDP:    r.FDP,
	}
}

// Load overwrites the complete register file from s. Reserved RFLAGS bits
// in s are dropped. If s.Top is out of range nothing is written.
func (r *RegFile) Load(s State) error {
	if err := checkSlot(s.Top); err != nil {
		return fmt.Errorf("load state: top: %w", err)
	}

	*r = RegFile{
		gpr:    s.GPR,
		flags:  rflags.Decode(s.RFLAGS),
		RIP:    s.RIP,
		segs:   s.Segs,
		tables: s.Tables,
		fpr:    s.FPR,
		top:    s.Top,
		FCW:    s.FCW,
		FSW:    s.FSW,
		FTW:    s.FTW,
		FOP:    s.FOP,
		FCS:    s.FCS,
		FDS:    s.FDS,
		FIP:    s.FIP,
		FDP:    s.FDP,
	}

	return nil
}

// Clone returns an independent copy of the register file.
func (r *RegFile) Clone() *RegFile {
	c := *r
	return &c
}
