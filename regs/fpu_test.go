package regs_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/x86state/regs"
)

var _ = Describe("FPU stack", func() {
	var rf *regs.RegFile

	BeforeEach(func() {
		rf = regs.New()
	})

	Describe("stack-relative addressing", func() {
		It("should map ST(0) to the TOP slot", func() {
			v := regs.FPReg{Mantissa: 0xC000000000000000, Exp: 0x3FFF}
			Expect(rf.SetTop(3)).To(Succeed())

			Expect(rf.SetST(0, v)).To(Succeed())

			got, err := rf.Physical(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(v))
		})

		It("should wrap around the eight slots", func() {
			v := regs.FPReg{Mantissa: 0x8000000000000000, Exp: 0x4000, Sign: true}
			Expect(rf.SetTop(3)).To(Succeed())

			Expect(rf.SetST(6, v)).To(Succeed())

			got, err := rf.Physical(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(v))

			back, err := rf.ST(6)
			Expect(err).NotTo(HaveOccurred())
			Expect(back).To(Equal(v))
		})

		It("should move TOP on push and pop", func() {
			one := regs.FPRegFromFloat64(1)
			two := regs.FPRegFromFloat64(2)

			rf.Push(one)
			Expect(rf.Top()).To(Equal(uint8(7)))
			rf.Push(two)
			Expect(rf.Top()).To(Equal(uint8(6)))

			st1, err := rf.ST(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(st1).To(Equal(one))

			Expect(rf.Pop()).To(Equal(two))
			Expect(rf.Pop()).To(Equal(one))
			Expect(rf.Top()).To(Equal(uint8(0)))
		})
	})

	Describe("domain checks", func() {
		It("should reject slots and TOP values above 7", func() {
			Expect(rf.SetTop(2)).To(Succeed())
			before := rf.Save()

			Expect(rf.SetTop(8)).To(MatchError(regs.ErrInvalidIndex))
			Expect(rf.SetPhysical(8, regs.FPReg{Exp: 1})).To(MatchError(regs.ErrInvalidIndex))
			Expect(rf.SetST(9, regs.FPReg{Exp: 1})).To(MatchError(regs.ErrInvalidIndex))
			Expect(rf.SetTag(8, regs.TagZero)).To(MatchError(regs.ErrInvalidIndex))
			_, err := rf.ST(8)
			Expect(err).To(MatchError(regs.ErrInvalidIndex))
			_, err = rf.Physical(200)
			Expect(err).To(MatchError(regs.ErrInvalidIndex))

			Expect(rf.Save()).To(Equal(before))
		})
	})

	Describe("tag word", func() {
		It("should address two bits per physical slot", func() {
			rf.FTW = 0xFFFF

			Expect(rf.SetTag(0, regs.TagValid)).To(Succeed())
			Expect(rf.SetTag(5, regs.TagZero)).To(Succeed())

			Expect(rf.FTW).To(Equal(uint16(0xF7FC)))
			t, err := rf.Tag(5)
			Expect(err).NotTo(HaveOccurred())
			Expect(t).To(Equal(regs.TagZero))
		})
	})
})

var _ = Describe("FPReg", func() {
	It("should keep the 80-bit memory image layout", func() {
		r := regs.FPReg{Mantissa: 0x8877665544332211, Exp: 0x3FFF, Sign: true}

		b := r.Bytes()

		Expect(b).To(Equal([10]byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0xFF, 0xBF}))
		Expect(regs.FPRegFromBytes(b)).To(Equal(r))
	})

	It("should not store the padding bit of the exponent", func() {
		r := regs.FPReg{Mantissa: 1, Exp: 0xFFFF}

		b := r.Bytes()

		Expect(b[9]).To(Equal(byte(0x7F)))
		Expect(regs.FPRegFromBytes(b).Exp).To(Equal(uint16(0x7FFF)))
	})

	It("should widen doubles exactly", func() {
		for _, x := range []float64{
			0, 1, -1, 0.1, 3.5, -1e300, 1e-300, math.MaxFloat64,
			math.SmallestNonzeroFloat64, 2.2250738585072014e-308 / 3,
			math.Inf(1), math.Inf(-1),
		} {
			Expect(regs.FPRegFromFloat64(x).Float64()).To(Equal(x), "%g", x)
		}
	})

	It("should encode 1.0 with the explicit integer bit", func() {
		Expect(regs.FPRegFromFloat64(1)).To(Equal(regs.FPReg{Mantissa: 1 << 63, Exp: 0x3FFF}))
		Expect(regs.FPRegFromFloat64(-2)).To(Equal(regs.FPReg{Mantissa: 1 << 63, Exp: 0x4000, Sign: true}))
	})

	It("should keep the sign of zero", func() {
		neg := regs.FPRegFromFloat64(math.Copysign(0, -1))

		Expect(neg.Sign).To(BeTrue())
		Expect(math.Signbit(neg.Float64())).To(BeTrue())
	})

	It("should preserve NaN", func() {
		Expect(math.IsNaN(regs.FPRegFromFloat64(math.NaN()).Float64())).To(BeTrue())
	})

	It("should classify contents like FXSAVE", func() {
		Expect(regs.FPRegFromFloat64(1.5).Class()).To(Equal(regs.TagValid))
		Expect(regs.FPRegFromFloat64(0).Class()).To(Equal(regs.TagZero))
		Expect(regs.FPRegFromFloat64(math.Inf(1)).Class()).To(Equal(regs.TagSpecial))
		Expect(regs.FPReg{Mantissa: 1, Exp: 0}.Class()).To(Equal(regs.TagSpecial))
		Expect(regs.FPReg{Mantissa: 1, Exp: 0x3FFF}.Class()).To(Equal(regs.TagSpecial))
	})
})
