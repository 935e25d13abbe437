// Package watch lets debuggers observe writes to a register file.
//
// Watched wraps a regs.RegFile and reports every successful mutation to the
// hooks attached through akita's hook mechanism. The register file itself
// stays free of any observation cost.
package watch

import (
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/x86state/regs"
	"github.com/sarchlab/x86state/rflags"
	"github.com/sarchlab/x86state/segment"
)

// Hook positions reported by Watched.
var (
	HookPosGPRWrite     = &sim.HookPos{Name: "GPR Write"}
	HookPosRIPWrite     = &sim.HookPos{Name: "RIP Write"}
	HookPosFlagsWrite   = &sim.HookPos{Name: "Flags Write"}
	HookPosSegmentWrite = &sim.HookPos{Name: "Segment Write"}
	HookPosFPUWrite     = &sim.HookPos{Name: "FPU Write"}
	HookPosLoad         = &sim.HookPos{Name: "State Load"}
)

// Change is passed as the hook detail. Old and New hold the value of the
// whole affected location before and after the write.
type Change struct {
	Old any
	New any
}

// Watched is a register file that reports writes to hooks. The Item of each
// HookCtx names the location: a regs.GPR, segment.SegReg, segment.TableReg,
// rflags.Bit, an FPU slot, an FPUWord, or nil for whole-state operations.
type Watched struct {
	*sim.HookableBase

	rf *regs.RegFile
}

// New wraps rf.
func New(rf *regs.RegFile) *Watched {
	return &Watched{
		HookableBase: sim.NewHookableBase(),
		rf:           rf,
	}
}

// RegFile returns the wrapped register file for reads.
func (w *Watched) RegFile() *regs.RegFile {
	return w.rf
}

func (w *Watched) notify(pos *sim.HookPos, item, old, cur any) {
	w.InvokeHook(sim.HookCtx{
		Pos:    pos,
		Item:   item,
		Detail: Change{Old: old, New: cur},
	})
}

// Write writes a general-purpose register view.
func (w *Watched) Write(g regs.GPR, width regs.Width, value uint64) error {
	old, err := w.rf.Read64(g)
	if err != nil {
		return err
	}
	if err := w.rf.Write(g, width, value); err != nil {
		return err
	}

	cur, _ := w.rf.Read64(g)
	w.notify(HookPosGPRWrite, g, old, cur)
	return nil
}

// SetRIP sets the instruction pointer.
func (w *Watched) SetRIP(rip uint64) {
	old := w.rf.RIP
	w.rf.RIP = rip
	w.notify(HookPosRIPWrite, nil, old, rip)
}

// SetFlags replaces the flags value.
func (w *Watched) SetFlags(f rflags.Flags) {
	old := w.rf.RFLAGS()
	w.rf.SetFlags(f)
	w.notify(HookPosFlagsWrite, nil, old, w.rf.RFLAGS())
}

// SetRFLAGS loads the flags from their packed form.
func (w *Watched) SetRFLAGS(v uint64) {
	old := w.rf.RFLAGS()
	w.rf.SetRFLAGS(v)
	w.notify(HookPosFlagsWrite, nil, old, w.rf.RFLAGS())
}

// SetFlag changes a single flag bit.
func (w *Watched) SetFlag(b rflags.Bit, on bool) error {
	old := w.rf.RFLAGS()
	if err := w.rf.SetFlag(b, on); err != nil {
		return err
	}
	w.notify(HookPosFlagsWrite, b, old, w.rf.RFLAGS())
	return nil
}

// SetSegment replaces a segment register.
func (w *Watched) SetSegment(s segment.SegReg, d segment.Descriptor) error {
	old, err := w.rf.Segment(s)
	if err != nil {
		return err
	}
	if err := w.rf.SetSegment(s, d); err != nil {
		return err
	}
	w.notify(HookPosSegmentWrite, s, old, d)
	return nil
}

// SetTable replaces a descriptor-table register.
func (w *Watched) SetTable(t segment.TableReg, d segment.Descriptor) error {
	old, err := w.rf.Table(t)
	if err != nil {
		return err
	}
	if err := w.rf.SetTable(t, d); err != nil {
		return err
	}
	w.notify(HookPosSegmentWrite, t, old, d)
	return nil
}

// SetPhysical writes a physical x87 slot. The hook item is the slot number.
func (w *Watched) SetPhysical(i uint8, v regs.FPReg) error {
	old, err := w.rf.Physical(i)
	if err != nil {
		return err
	}
	if err := w.rf.SetPhysical(i, v); err != nil {
		return err
	}
	w.notify(HookPosFPUWrite, i, old, v)
	return nil
}

// SetST writes stack register ST(i). The hook item is the physical slot.
func (w *Watched) SetST(i uint8, v regs.FPReg) error {
	if i >= regs.NumFPRegs {
		return w.rf.SetST(i, v)
	}
	return w.SetPhysical((w.rf.Top()+i)%regs.NumFPRegs, v)
}

// SetIOPL sets the I/O privilege level.
func (w *Watched) SetIOPL(level uint8) {
	old := w.rf.RFLAGS()
	w.rf.SetIOPL(level)
	w.notify(HookPosFlagsWrite, nil, old, w.rf.RFLAGS())
}

// Push pushes v onto the x87 stack. It reports the slot write and then the
// TOP change.
func (w *Watched) Push(v regs.FPReg) {
	oldTop := w.rf.Top()
	slot := (oldTop + regs.NumFPRegs - 1) % regs.NumFPRegs
	old, _ := w.rf.Physical(slot)

	w.rf.Push(v)

	w.notify(HookPosFPUWrite, slot, old, v)
	w.notify(HookPosFPUWrite, nil, oldTop, w.rf.Top())
}

// Pop pops ST(0). Only TOP changes, so only TOP is reported.
func (w *Watched) Pop() regs.FPReg {
	oldTop := w.rf.Top()
	v := w.rf.Pop()
	w.notify(HookPosFPUWrite, nil, oldTop, w.rf.Top())
	return v
}

// SetTag changes the tag of physical slot i. The hook item is the slot and
// the detail holds regs.Tag values.
func (w *Watched) SetTag(i uint8, t regs.Tag) error {
	old, err := w.rf.Tag(i)
	if err != nil {
		return err
	}
	if err := w.rf.SetTag(i, t); err != nil {
		return err
	}
	cur, _ := w.rf.Tag(i)
	w.notify(HookPosFPUWrite, i, old, cur)
	return nil
}

// FPUWord names one of the x87 control and pointer words.
type FPUWord uint8

// x87 words.
const (
	FCW FPUWord = iota
	FSW
	FTW
	FOP
	FCS
	FDS
	FIP
	FDP
)

var fpuWordNames = [...]string{"FCW", "FSW", "FTW", "FOP", "FCS", "FDS", "FIP", "FDP"}

func (f FPUWord) String() string {
	if int(f) < len(fpuWordNames) {
		return fpuWordNames[f]
	}
	return fmt.Sprintf("FPUWord(%d)", uint8(f))
}

// ErrInvalidWord is returned for an FPUWord outside FCW..FDP.
var ErrInvalidWord = errors.New("invalid fpu word")

func (w *Watched) word(f FPUWord) (*uint16, *uint64) {
	switch f {
	case FCW:
		return &w.rf.FCW, nil
	case FSW:
		return &w.rf.FSW, nil
	case FTW:
		return &w.rf.FTW, nil
	case FOP:
		return &w.rf.FOP, nil
	case FCS:
		return &w.rf.FCS, nil
	case FDS:
		return &w.rf.FDS, nil
	case FIP:
		return nil, &w.rf.FIP
	case FDP:
		return nil, &w.rf.FDP
	}
	return nil, nil
}

// SetFPUWord writes an x87 word. The 16-bit words keep only the low 16 bits
// of v. The hook item is the FPUWord and the detail holds uint64 values.
func (w *Watched) SetFPUWord(f FPUWord, v uint64) error {
	p16, p64 := w.word(f)

	var old, cur uint64
	switch {
	case p16 != nil:
		old = uint64(*p16)
		*p16 = uint16(v)
		cur = uint64(*p16)
	case p64 != nil:
		old = *p64
		*p64 = v
		cur = v
	default:
		return fmt.Errorf("word %d: %w", uint8(f), ErrInvalidWord)
	}

	w.notify(HookPosFPUWrite, f, old, cur)
	return nil
}

// SetTop sets the x87 stack-top pointer.
func (w *Watched) SetTop(top uint8) error {
	old := w.rf.Top()
	if err := w.rf.SetTop(top); err != nil {
		return err
	}
	w.notify(HookPosFPUWrite, nil, old, top)
	return nil
}

// Load overwrites the whole register file.
func (w *Watched) Load(s regs.State) error {
	old := w.rf.Save()
	if err := w.rf.Load(s); err != nil {
		return err
	}
	w.notify(HookPosLoad, nil, old, w.rf.Save())
	return nil
}
