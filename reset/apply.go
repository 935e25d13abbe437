package reset

import (
	"fmt"

	"github.com/sarchlab/x86state/regs"
	"github.com/sarchlab/x86state/segment"
)

func (s SegmentConfig) descriptor() segment.Descriptor {
	return segment.Descriptor{
		Base:     s.Base,
		Limit:    s.Limit,
		Access:   s.Access,
		Selector: s.Selector,
	}
}

// Apply validates c and writes it into rf. General-purpose registers other
// than RDX are cleared. Unless KeepFPU is set, the x87 registers are zeroed,
// TOP is reset and the last-instruction pointers are cleared.
func Apply(c *Config, rf *regs.RegFile) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid reset config: %w", err)
	}

	s := rf.Save()

	s.GPR = [regs.NumGPRs]uint64{}
	s.GPR[regs.RDX] = c.RDX
	s.RIP = c.RIP
	s.RFLAGS = c.RFLAGS

	for i := range s.Segs {
		s.Segs[i] = c.Data.descriptor()
	}
	s.Segs[segment.CS] = c.CS.descriptor()

	s.Tables[segment.GDTR] = c.GDTR.descriptor()
	s.Tables[segment.LDTR] = c.LDTR.descriptor()
	s.Tables[segment.IDTR] = c.IDTR.descriptor()
	s.Tables[segment.TR] = c.TR.descriptor()

	if !c.KeepFPU {
		s.FPR = [regs.NumFPRegs]regs.FPReg{}
		s.Top = 0
		s.FCW = c.FCW
		s.FSW = c.FSW
		s.FTW = c.FTW
		s.FOP = 0
		s.FCS = 0
		s.FDS = 0
		s.FIP = 0
		s.FDP = 0
	}

	return rf.Load(s)
}
