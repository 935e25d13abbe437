package hostabi

import (
	"github.com/sarchlab/x86state/regs"
	"github.com/sarchlab/x86state/segment"
)

// kvm_regs stores the GPRs in a different order from the instruction
// encoding.
func regSlots(k *Regs) [regs.NumGPRs]*uint64 {
	return [regs.NumGPRs]*uint64{
		regs.RAX: &k.RAX,
		regs.RCX: &k.RCX,
		regs.RDX: &k.RDX,
		regs.RBX: &k.RBX,
		regs.RSP: &k.RSP,
		regs.RBP: &k.RBP,
		regs.RSI: &k.RSI,
		regs.RDI: &k.RDI,
		regs.R8:  &k.R8,
		regs.R9:  &k.R9,
		regs.R10: &k.R10,
		regs.R11: &k.R11,
		regs.R12: &k.R12,
		regs.R13: &k.R13,
		regs.R14: &k.R14,
		regs.R15: &k.R15,
	}
}

// ExportRegs copies the general-purpose registers, RIP and RFLAGS into k.
func ExportRegs(s *regs.State, k *Regs) {
	for i, p := range regSlots(k) {
		*p = s.GPR[i]
	}
	k.RIP = s.RIP
	k.RFLAGS = s.RFLAGS
}

// ImportRegs copies the general-purpose registers, RIP and RFLAGS from k.
func ImportRegs(k *Regs, s *regs.State) {
	for i, p := range regSlots(k) {
		s.GPR[i] = *p
	}
	s.RIP = k.RIP
	s.RFLAGS = k.RFLAGS
}

func segSlots(k *Sregs) [segment.NumSegRegs]*Segment {
	return [segment.NumSegRegs]*Segment{
		segment.ES: &k.ES,
		segment.CS: &k.CS,
		segment.SS: &k.SS,
		segment.DS: &k.DS,
		segment.FS: &k.FS,
		segment.GS: &k.GS,
	}
}

// ExportSregs copies segment and table registers into k. Control registers,
// EFER, the APIC base and the interrupt bitmap are not part of the register
// file and keep whatever k already holds.
//
// GDTR and IDTR limits are truncated to the 16 bits kvm_dtable can hold.
func ExportSregs(s *regs.State, k *Sregs) {
	for i, p := range segSlots(k) {
		*p = exportSegment(s.Segs[i])
	}

	k.LDT = exportSegment(s.Tables[segment.LDTR])
	k.TR = exportSegment(s.Tables[segment.TR])
	k.GDT = exportTable(s.Tables[segment.GDTR])
	k.IDT = exportTable(s.Tables[segment.IDTR])
}

// ImportSregs copies segment and table registers from k. GDTR and IDTR
// keep their selector and access fields since kvm_dtable has neither.
func ImportSregs(k *Sregs, s *regs.State) {
	for i, p := range segSlots(k) {
		s.Segs[i] = importSegment(*p)
	}

	s.Tables[segment.LDTR] = importSegment(k.LDT)
	s.Tables[segment.TR] = importSegment(k.TR)
	importTable(k.GDT, &s.Tables[segment.GDTR])
	importTable(k.IDT, &s.Tables[segment.IDTR])
}

// Access-rights layout as used by VMX and SVM:
// type 0-3, S 4, DPL 5-6, P 7, AVL 12, L 13, D/B 14, G 15.
const (
	arTypeMask  = 0xF
	arS         = 4
	arDPL       = 5
	arP         = 7
	arAVL       = 12
	arL         = 13
	arDB        = 14
	arG         = 15
	arDPLMask   = 0x3
	arBitsValid = 0xF0FF
)

func bit(v uint16, pos uint) uint8 {
	return uint8(v>>pos) & 1
}

// exportSegment splits the access field into kvm_segment's separate bytes.
// An all-zero access field marks a null, unusable segment.
func exportSegment(d segment.Descriptor) Segment {
	a := d.Access

	seg := Segment{
		Base:     d.Base,
		Limit:    d.Limit,
		Selector: d.Selector,
		Type:     uint8(a & arTypeMask),
		S:        bit(a, arS),
		DPL:      uint8(a>>arDPL) & arDPLMask,
		Present:  bit(a, arP),
		AVL:      bit(a, arAVL),
		L:        bit(a, arL),
		DB:       bit(a, arDB),
		G:        bit(a, arG),
	}
	if a&arBitsValid == 0 {
		seg.Unusable = 1
	}

	return seg
}

func importSegment(k Segment) segment.Descriptor {
	d := segment.Descriptor{
		Base:     k.Base,
		Limit:    k.Limit,
		Selector: k.Selector,
	}
	if k.Unusable != 0 {
		return d
	}

	d.Access = uint16(k.Type&arTypeMask) |
		uint16(k.S&1)<<arS |
		uint16(k.DPL&arDPLMask)<<arDPL |
		uint16(k.Present&1)<<arP |
		uint16(k.AVL&1)<<arAVL |
		uint16(k.L&1)<<arL |
		uint16(k.DB&1)<<arDB |
		uint16(k.G&1)<<arG

	return d
}

func exportTable(d segment.Descriptor) DTable {
	return DTable{Base: d.Base, Limit: uint16(d.Limit)}
}

func importTable(k DTable, d *segment.Descriptor) {
	d.Base = k.Base
	d.Limit = uint32(k.Limit)
}
