package regs

import (
	"fmt"

	"github.com/sarchlab/x86state/segment"
)

// Segment returns the cached state of a segment register.
func (r *RegFile) Segment(s segment.SegReg) (segment.Descriptor, error) {
	if !s.Valid() {
		return segment.Descriptor{}, fmt.Errorf("%s: %w", s, ErrInvalidSegment)
	}
	return r.segs[s], nil
}

// SetSegment replaces the cached state of a segment register.
func (r *RegFile) SetSegment(s segment.SegReg, d segment.Descriptor) error {
	if !s.Valid() {
		return fmt.Errorf("%s: %w", s, ErrInvalidSegment)
	}
	r.segs[s] = d
	return nil
}

// Table returns the state of a descriptor-table register.
func (r *RegFile) Table(t segment.TableReg) (segment.Descriptor, error) {
	if !t.Valid() {
		return segment.Descriptor{}, fmt.Errorf("%s: %w", t, ErrInvalidSegment)
	}
	return r.tables[t], nil
}

// SetTable replaces the state of a descriptor-table register.
func (r *RegFile) SetTable(t segment.TableReg, d segment.Descriptor) error {
	if !t.Valid() {
		return fmt.Errorf("%s: %w", t, ErrInvalidSegment)
	}
	r.tables[t] = d
	return nil
}
