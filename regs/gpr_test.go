package regs_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/x86state/regs"
)

var _ = Describe("General-purpose registers", func() {
	var rf *regs.RegFile

	BeforeEach(func() {
		rf = regs.New()
	})

	read64 := func(g regs.GPR) uint64 {
		v, err := rf.Read64(g)
		Expect(err).NotTo(HaveOccurred())
		return v
	}

	Describe("Write", func() {
		It("should zero-extend 32-bit writes", func() {
			Expect(rf.Write64(regs.RAX, 0x1122334455667788)).To(Succeed())

			Expect(rf.Write(regs.RAX, regs.Bits32, 0xFFFFFFFF)).To(Succeed())

			Expect(read64(regs.RAX)).To(Equal(uint64(0x00000000FFFFFFFF)))
		})

		It("should preserve upper bits on low-byte writes", func() {
			Expect(rf.Write64(regs.RCX, 0x1122334455667700)).To(Succeed())

			Expect(rf.Write(regs.RCX, regs.Low8, 0xAB)).To(Succeed())

			Expect(read64(regs.RCX)).To(Equal(uint64(0x11223344556677AB)))
		})

		It("should preserve other bits on high-byte writes", func() {
			Expect(rf.Write64(regs.RDX, 0x1122334455667788)).To(Succeed())

			Expect(rf.Write(regs.RDX, regs.High8, 0xCD)).To(Succeed())

			Expect(read64(regs.RDX)).To(Equal(uint64(0x112233445566CD88)))
		})

		It("should preserve upper bits on 16-bit writes", func() {
			Expect(rf.Write64(regs.R9, 0x1122334455667788)).To(Succeed())

			Expect(rf.Write(regs.R9, regs.Bits16, 0xBEEF)).To(Succeed())

			Expect(read64(regs.R9)).To(Equal(uint64(0x112233445566BEEF)))
		})

		It("should truncate values wider than the view", func() {
			Expect(rf.Write(regs.RBX, regs.Low8, 0x1234)).To(Succeed())
			Expect(read64(regs.RBX)).To(Equal(uint64(0x34)))

			Expect(rf.Write(regs.RBX, regs.Bits32, 0xAAAA_BBBB_CCCC_DDDD)).To(Succeed())
			Expect(read64(regs.RBX)).To(Equal(uint64(0xCCCCDDDD)))
		})

		It("should only touch the addressed register", func() {
			for g := regs.RAX; g <= regs.R15; g++ {
				Expect(rf.Write64(g, uint64(g)*0x0101010101010101)).To(Succeed())
			}

			Expect(rf.Write(regs.R12, regs.Bits32, 0)).To(Succeed())

			for g := regs.RAX; g <= regs.R15; g++ {
				if g == regs.R12 {
					Expect(read64(g)).To(BeZero())
					continue
				}
				Expect(read64(g)).To(Equal(uint64(g) * 0x0101010101010101))
			}
		})
	})

	Describe("Read", func() {
		BeforeEach(func() {
			Expect(rf.Write64(regs.RAX, 0x1122334455667788)).To(Succeed())
		})

		It("should return each view zero-extended", func() {
			cases := map[regs.Width]uint64{
				regs.Low8:   0x88,
				regs.High8:  0x77,
				regs.Bits16: 0x7788,
				regs.Bits32: 0x55667788,
				regs.Bits64: 0x1122334455667788,
			}
			for w, want := range cases {
				v, err := rf.Read(regs.RAX, w)
				Expect(err).NotTo(HaveOccurred())
				Expect(v).To(Equal(want), w.String())
			}
		})

		It("should never return more bits than the view holds", func() {
			Expect(rf.Write64(regs.RBX, ^uint64(0))).To(Succeed())
			for _, w := range []regs.Width{regs.Low8, regs.High8, regs.Bits16, regs.Bits32, regs.Bits64} {
				v, err := rf.Read(regs.RBX, w)
				Expect(err).NotTo(HaveOccurred())
				Expect(v).To(Equal(^uint64(0)>>(64-w.Bits())), w.String())
			}
			Expect(regs.Width(9).Bits()).To(BeZero())
		})
	})

	Describe("domain checks", func() {
		BeforeEach(func() {
			for g := regs.RAX; g <= regs.R15; g++ {
				Expect(rf.Write64(g, 0xFEEDFACECAFEBEEF)).To(Succeed())
			}
		})

		It("should reject the high-byte view above RBX without changing state", func() {
			before := rf.Save()

			err := rf.Write(regs.R8, regs.High8, 0xFF)
			Expect(err).To(MatchError(regs.ErrInvalidWidth))

			_, err = rf.Read(regs.RSP, regs.High8)
			Expect(err).To(MatchError(regs.ErrInvalidWidth))

			Expect(rf.Save()).To(Equal(before))
		})

		It("should allow the high-byte view for RAX..RBX", func() {
			for g := regs.RAX; g <= regs.RBX; g++ {
				Expect(rf.Write(g, regs.High8, 0x12)).To(Succeed())
			}
		})

		It("should reject register indices above R15", func() {
			before := rf.Save()

			Expect(rf.Write(regs.GPR(16), regs.Bits64, 1)).To(MatchError(regs.ErrInvalidIndex))
			_, err := rf.Read(regs.GPR(200), regs.Low8)
			Expect(err).To(MatchError(regs.ErrInvalidIndex))

			Expect(rf.Save()).To(Equal(before))
		})

		It("should reject unknown widths", func() {
			before := rf.Save()

			Expect(rf.Write(regs.RAX, regs.Width(5), 1)).To(MatchError(regs.ErrInvalidWidth))

			Expect(rf.Save()).To(Equal(before))
		})
	})

	Describe("legacy names", func() {
		It("should alias AH..BH onto the second byte of RAX..RBX", func() {
			Expect(rf.WriteReg8(regs.BH, 0x5A)).To(Succeed())
			Expect(rf.WriteReg8(regs.BL, 0xA5)).To(Succeed())

			Expect(read64(regs.RBX)).To(Equal(uint64(0x5AA5)))
			v, err := rf.ReadReg16(regs.BX)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint16(0x5AA5)))
		})

		It("should zero-extend legacy 32-bit writes", func() {
			Expect(rf.Write64(regs.RDI, ^uint64(0))).To(Succeed())

			Expect(rf.WriteReg32(regs.EDI, 0x12345678)).To(Succeed())

			Expect(read64(regs.RDI)).To(Equal(uint64(0x12345678)))
			v, err := rf.ReadReg32(regs.EDI)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0x12345678)))
		})

		It("should map names to backing registers", func() {
			g, w, err := regs.CH.Location()
			Expect(err).NotTo(HaveOccurred())
			Expect(g).To(Equal(regs.RCX))
			Expect(w).To(Equal(regs.High8))

			g, w, err = regs.SP.Location()
			Expect(err).NotTo(HaveOccurred())
			Expect(g).To(Equal(regs.RSP))
			Expect(w).To(Equal(regs.Bits16))
		})

		It("should reject out-of-range legacy names", func() {
			Expect(rf.WriteReg8(regs.Reg8(8), 1)).To(MatchError(regs.ErrInvalidIndex))
			_, err := rf.ReadReg16(regs.Reg16(8))
			Expect(err).To(MatchError(regs.ErrInvalidIndex))
			Expect(rf.WriteReg32(regs.Reg32(9), 1)).To(MatchError(regs.ErrInvalidIndex))
		})

		It("should print architectural names", func() {
			Expect(regs.R13.String()).To(Equal("r13"))
			Expect(regs.DH.String()).To(Equal("dh"))
			Expect(regs.ESI.String()).To(Equal("esi"))
		})
	})
})

var _ = Describe("Typed views", func() {
	var rf *regs.RegFile

	BeforeEach(func() {
		rf = regs.New()
		Expect(rf.Write64(regs.RSI, 0x1122334455667788)).To(Succeed())
	})

	It("should read each width", func() {
		v32, err := rf.Read32(regs.RSI)
		Expect(err).NotTo(HaveOccurred())
		Expect(v32).To(Equal(uint32(0x55667788)))

		v16, err := rf.Read16(regs.RSI)
		Expect(err).NotTo(HaveOccurred())
		Expect(v16).To(Equal(uint16(0x7788)))

		v8, err := rf.Read8(regs.RSI)
		Expect(err).NotTo(HaveOccurred())
		Expect(v8).To(Equal(uint8(0x88)))
	})

	It("should apply the same aliasing rules as Write", func() {
		Expect(rf.Write16(regs.RSI, 0xAAAA)).To(Succeed())
		Expect(rf.Write8(regs.RSI, 0xBB)).To(Succeed())
		v, err := rf.Read64(regs.RSI)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint64(0x112233445566AABB)))

		Expect(rf.Write32(regs.RSI, 0xCCCCCCCC)).To(Succeed())
		v, err = rf.Read64(regs.RSI)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint64(0xCCCCCCCC)))
	})

	It("should limit the high-byte helpers to RAX..RBX", func() {
		Expect(rf.WriteHigh8(regs.RCX, 0x9C)).To(Succeed())
		h, err := rf.ReadHigh8(regs.RCX)
		Expect(err).NotTo(HaveOccurred())
		Expect(h).To(Equal(uint8(0x9C)))

		Expect(rf.WriteHigh8(regs.RSI, 1)).To(MatchError(regs.ErrInvalidWidth))
		_, err = rf.ReadHigh8(regs.R8)
		Expect(err).To(MatchError(regs.ErrInvalidWidth))
	})
})
