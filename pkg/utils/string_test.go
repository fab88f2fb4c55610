package utils

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Truncate", func() {
	It("returns the string unchanged when within the limit", func() {
		Expect(Truncate("short", 10)).To(Equal("short"))
	})

	It("returns the string unchanged when exactly at the limit", func() {
		Expect(Truncate("12345", 5)).To(Equal("12345"))
	})

	It("truncates with ellipsis when over the limit", func() {
		Expect(Truncate("this is a long string", 10)).To(Equal("this is a ..."))
	})
})

var _ = Describe("FormatUSD", func() {
	It("formats billions", func() {
		Expect(FormatUSD(2_400_000_000)).To(Equal("$2.4B"))
	})

	It("formats millions", func() {
		Expect(FormatUSD(12_500_000)).To(Equal("$12.5M"))
	})

	It("formats thousands", func() {
		Expect(FormatUSD(850_000)).To(Equal("$850K"))
	})

	It("formats small amounts verbatim", func() {
		Expect(FormatUSD(900)).To(Equal("$900"))
	})
})
