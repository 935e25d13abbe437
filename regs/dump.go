package regs

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/sarchlab/x86state/segment"
)

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
}

// Spew returns a field-by-field dump of the saved state.
func (r *RegFile) Spew() string {
	return spewConfig.Sdump(r.Save())
}

// Dump writes a human-readable register listing to w.
func (r *RegFile) Dump(w io.Writer) error {
	p := &dumpWriter{w: w}

	for g := RAX; g <= R15; g += 2 {
		p.printf("%-3s %016x   %-3s %016x\n", g, r.gpr[g], g+1, r.gpr[g+1])
	}
	p.printf("rip %016x   rflags %016x [%s]\n", r.RIP, r.RFLAGS(), r.flags)

	for s := segment.ES; s < segment.NumSegRegs; s++ {
		p.printf("%-4s %s\n", s, r.segs[s])
	}
	for t := segment.GDTR; t < segment.NumTableRegs; t++ {
		p.printf("%-4s %s\n", t, r.tables[t])
	}

	p.printf("fcw %04x fsw %04x ftw %04x top %d fop %04x\n",
		r.FCW, r.FSW, r.FTW, r.top, r.FOP)
	p.printf("fip %04x:%016x fdp %04x:%016x\n", r.FCS, r.FIP, r.FDS, r.FDP)
	for i := uint8(0); i < NumFPRegs; i++ {
		p.printf("st%d r%d %s\n", i, r.physical(i), r.fpr[r.physical(i)])
	}

	return p.err
}

// dumpWriter keeps the first write error so Dump can print unconditionally.
type dumpWriter struct {
	w   io.Writer
	err error
}

func (p *dumpWriter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
