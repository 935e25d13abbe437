package hostabi

import "github.com/sarchlab/x86state/regs"

const (
	fswTopShift = 11
	fswTopMask  = 0x7 << fswTopShift
)

// ExportFPU copies the x87 state into k in FXSAVE form: FPR[i] holds ST(i),
// TOP is merged into FSW and the tag word is abridged to one bit per
// physical register. XMM and MXCSR keep whatever k already holds.
func ExportFPU(s *regs.State, k *FPU) {
	for i := range k.FPR {
		img := s.FPR[(int(s.Top)+i)%regs.NumFPRegs].Bytes()
		k.FPR[i] = [16]uint8{}
		copy(k.FPR[i][:], img[:])
	}

	k.FCW = s.FCW
	k.FSW = s.FSW&^fswTopMask | uint16(s.Top&7)<<fswTopShift
	k.FTWX = AbridgeTags(s.FTW)
	k.LastOpcode = s.FOP
	k.LastIP = s.FIP
	k.LastDP = s.FDP
}

// ImportFPU copies the x87 state from k. TOP is taken from FSW and cleared
// there, and the full tag word is rebuilt from register contents. FCS and FDS have no slot in
// kvm_fpu and are left unchanged.
func ImportFPU(k *FPU, s *regs.State) {
	s.Top = uint8((k.FSW & fswTopMask) >> fswTopShift)

	for i := range k.FPR {
		var img [10]byte
		copy(img[:], k.FPR[i][:10])
		s.FPR[(int(s.Top)+i)%regs.NumFPRegs] = regs.FPRegFromBytes(img)
	}

	s.FCW = k.FCW
	s.FSW = k.FSW &^ fswTopMask
	s.FTW = ExpandTags(k.FTWX, s.FPR)
	s.FOP = k.LastOpcode
	s.FIP = k.LastIP
	s.FDP = k.LastDP
}

// AbridgeTags converts a full tag word to the FXSAVE form, where bit i is set
// when physical register i is not empty.
func AbridgeTags(ftw uint16) uint8 {
	var out uint8
	for i := 0; i < regs.NumFPRegs; i++ {
		if regs.Tag(ftw>>(2*i))&3 != regs.TagEmpty {
			out |= 1 << i
		}
	}
	return out
}

// ExpandTags rebuilds a full tag word from the abridged form by classifying
// each non-empty physical register.
func ExpandTags(ftwx uint8, fpr [regs.NumFPRegs]regs.FPReg) uint16 {
	var ftw uint16
	for i := 0; i < regs.NumFPRegs; i++ {
		t := regs.TagEmpty
		if ftwx&(1<<i) != 0 {
			t = fpr[i].Class()
		}
		ftw |= uint16(t) << (2 * i)
	}
	return ftw
}
