//go:build linux

package hostabi

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/sarchlab/x86state/regs"
)

const (
	kvmIO = 0xAE

	iocWrite = 1
	iocRead  = 2

	kvmGetRegs  = 0x81
	kvmSetRegs  = 0x82
	kvmGetSregs = 0x83
	kvmSetSregs = 0x84
	kvmGetFPU   = 0x8C
	kvmSetFPU   = 0x8D
)

func ioc(dir, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | kvmIO<<8 | nr
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Vcpu is an open KVM vCPU file descriptor.
type Vcpu struct {
	Fd int
}

// GetRegs reads the general-purpose registers.
func (v Vcpu) GetRegs() (*Regs, error) {
	k := &Regs{}
	err := ioctl(v.Fd, ioc(iocRead, kvmGetRegs, unsafe.Sizeof(*k)), unsafe.Pointer(k))
	if err != nil {
		return nil, fmt.Errorf("KVM_GET_REGS: %w", err)
	}
	return k, nil
}

// SetRegs writes the general-purpose registers.
func (v Vcpu) SetRegs(k *Regs) error {
	err := ioctl(v.Fd, ioc(iocWrite, kvmSetRegs, unsafe.Sizeof(*k)), unsafe.Pointer(k))
	if err != nil {
		return fmt.Errorf("KVM_SET_REGS: %w", err)
	}
	return nil
}

// GetSregs reads the segment and system registers.
func (v Vcpu) GetSregs() (*Sregs, error) {
	k := &Sregs{}
	err := ioctl(v.Fd, ioc(iocRead, kvmGetSregs, unsafe.Sizeof(*k)), unsafe.Pointer(k))
	if err != nil {
		return nil, fmt.Errorf("KVM_GET_SREGS: %w", err)
	}
	return k, nil
}

// SetSregs writes the segment and system registers.
func (v Vcpu) SetSregs(k *Sregs) error {
	err := ioctl(v.Fd, ioc(iocWrite, kvmSetSregs, unsafe.Sizeof(*k)), unsafe.Pointer(k))
	if err != nil {
		return fmt.Errorf("KVM_SET_SREGS: %w", err)
	}
	return nil
}

// GetFPU reads the x87 and SSE state.
func (v Vcpu) GetFPU() (*FPU, error) {
	k := &FPU{}
	err := ioctl(v.Fd, ioc(iocRead, kvmGetFPU, unsafe.Sizeof(*k)), unsafe.Pointer(k))
	if err != nil {
		return nil, fmt.Errorf("KVM_GET_FPU: %w", err)
	}
	return k, nil
}

// SetFPU writes the x87 and SSE state.
func (v Vcpu) SetFPU(k *FPU) error {
	err := ioctl(v.Fd, ioc(iocWrite, kvmSetFPU, unsafe.Sizeof(*k)), unsafe.Pointer(k))
	if err != nil {
		return fmt.Errorf("KVM_SET_FPU: %w", err)
	}
	return nil
}

// Save reads the whole vCPU state into rf.
func (v Vcpu) Save(rf *regs.RegFile) error {
	k, err := v.GetRegs()
	if err != nil {
		return err
	}
	ks, err := v.GetSregs()
	if err != nil {
		return err
	}
	kf, err := v.GetFPU()
	if err != nil {
		return err
	}

	s := rf.Save()
	ImportRegs(k, &s)
	ImportSregs(ks, &s)
	ImportFPU(kf, &s)

	return rf.Load(s)
}

// Restore writes rf back into the vCPU. Control registers and SSE state
// are read first so that fields the register file does not model survive.
func (v Vcpu) Restore(rf *regs.RegFile) error {
	ks, err := v.GetSregs()
	if err != nil {
		return err
	}
	kf, err := v.GetFPU()
	if err != nil {
		return err
	}

	s := rf.Save()
	k := &Regs{}
	ExportRegs(&s, k)
	ExportSregs(&s, ks)
	ExportFPU(&s, kf)

	if err := v.SetRegs(k); err != nil {
		return err
	}
	if err := v.SetSregs(ks); err != nil {
		return err
	}
	return v.SetFPU(kf)
}
