package deal

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transitions", func() {
	Describe("CanTransition", func() {
		It("allows the forward pipeline path", func() {
			Expect(CanTransition(StageInbound, StageScreening)).To(BeTrue())
			Expect(CanTransition(StageScreening, StageDiligence)).To(BeTrue())
			Expect(CanTransition(StageDiligence, StageNegotiation)).To(BeTrue())
			Expect(CanTransition(StageNegotiation, StageClosing)).To(BeTrue())
			Expect(CanTransition(StageClosing, StageClosed)).To(BeTrue())
		})

		It("rejects stage skips", func() {
			Expect(CanTransition(StageInbound, StageClosing)).To(BeFalse())
			Expect(CanTransition(StageScreening, StageNegotiation)).To(BeFalse())
		})

		It("allows killing a live deal from any pre-close stage", func() {
			for _, s := range []Stage{StageInbound, StageScreening, StageDiligence, StageNegotiation, StageClosing} {
				Expect(CanTransition(s, StageDead)).To(BeTrue(), "from %s", s)
			}
		})

		It("treats closed as terminal", func() {
			for _, s := range Stages {
				Expect(CanTransition(StageClosed, s)).To(BeFalse(), "to %s", s)
			}
		})

		It("allows reviving a dead deal to inbound only", func() {
			Expect(CanTransition(StageDead, StageInbound)).To(BeTrue())
			Expect(CanTransition(StageDead, StageDiligence)).To(BeFalse())
		})

		It("rejects transitions from unknown stages", func() {
			Expect(CanTransition(StageUnknown, StageScreening)).To(BeFalse())
		})
	})

	Describe("Next", func() {
		It("returns the allowed successor stages", func() {
			Expect(Next(StageNegotiation)).To(ConsistOf(StageClosing, StageDiligence, StageDead))
		})

		It("returns a copy, not the table itself", func() {
			next := Next(StageInbound)
			next[0] = StageClosed
			Expect(Next(StageInbound)[0]).To(Equal(StageScreening))
		})

		It("returns nil for unknown stages", func() {
			Expect(Next(StageUnknown)).To(BeNil())
		})
	})

	Describe("ParseStage", func() {
		It("round-trips every known stage", func() {
			for _, s := range Stages {
				Expect(ParseStage(string(s))).To(Equal(s))
			}
		})

		It("maps anything else to StageUnknown", func() {
			Expect(ParseStage("archived")).To(Equal(StageUnknown))
			Expect(ParseStage("")).To(Equal(StageUnknown))
		})
	})
})
