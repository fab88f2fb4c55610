package api

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zakopshq/zakops/pkg/deal"
)

var _ = Describe("Store", func() {
	var store *Store

	BeforeEach(func() {
		store = NewStore()
		store.Load(SeedFixtures())
	})

	Describe("ListDeals", func() {
		It("returns every deal with no filters, newest first", func() {
			deals := store.ListDeals("", "")
			Expect(deals).To(HaveLen(3))
			for i := 1; i < len(deals); i++ {
				Expect(deals[i].UpdatedAt.After(deals[i-1].UpdatedAt)).To(BeFalse())
			}
		})

		It("filters by stage", func() {
			deals := store.ListDeals(deal.StageDiligence, "")
			Expect(deals).To(HaveLen(1))
			Expect(deals[0].ID).To(Equal("d-acme"))
		})

		It("filters by name or counterparty substring, case-insensitively", func() {
			Expect(store.ListDeals("", "GLOBEX")).To(HaveLen(1))
			Expect(store.ListDeals("", "corporation")).To(HaveLen(1))
			Expect(store.ListDeals("", "no such deal")).To(BeEmpty())
		})
	})

	Describe("TransitionDeal", func() {
		It("applies a legal forward move", func() {
			d, err := store.TransitionDeal("d-globex", deal.StageDiligence)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Stage).To(Equal(deal.StageDiligence))

			stored, ok := store.GetDeal("d-globex")
			Expect(ok).To(BeTrue())
			Expect(stored.Stage).To(Equal(deal.StageDiligence))
		})

		It("rejects moves not in the transition table", func() {
			_, err := store.TransitionDeal("d-initech", deal.StageClosing)
			Expect(err).To(MatchError(ErrIllegalTransition))
		})

		It("errors on unknown deals", func() {
			_, err := store.TransitionDeal("nope", deal.StageScreening)
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("stamps UpdatedAt", func() {
			before, _ := store.GetDeal("d-globex")
			d, err := store.TransitionDeal("d-globex", deal.StageDiligence)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.UpdatedAt.After(before.UpdatedAt)).To(BeTrue())
		})
	})

	Describe("quarantine", func() {
		It("promotes an approved item into an inbound deal", func() {
			d, err := store.ApproveQuarantine("q-bluth")
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Stage).To(Equal(deal.StageInbound))
			Expect(d.ID).NotTo(BeEmpty())
			Expect(d.Name).To(ContainSubstring("banana stand"))

			Expect(store.ListQuarantine()).To(BeEmpty())
			_, ok := store.GetDeal(d.ID)
			Expect(ok).To(BeTrue())
		})

		It("rejects an item without creating a deal", func() {
			before := len(store.ListDeals("", ""))
			Expect(store.RejectQuarantine("q-bluth")).To(Succeed())
			Expect(store.ListQuarantine()).To(BeEmpty())
			Expect(store.ListDeals("", "")).To(HaveLen(before))
		})

		It("errors on unknown ids", func() {
			_, err := store.ApproveQuarantine("nope")
			Expect(err).To(MatchError(ErrNotFound))
			Expect(store.RejectQuarantine("nope")).To(MatchError(ErrNotFound))
		})
	})

	Describe("onboarding", func() {
		It("flips the rollup flag only when every step is done", func() {
			state := store.Onboarding()
			Expect(state.Complete).To(BeFalse())

			for _, step := range state.Steps {
				var err error
				state, err = store.CompleteOnboardingStep(step.ID)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(state.Complete).To(BeTrue())
		})

		It("treats re-completing a done step as a no-op", func() {
			_, err := store.CompleteOnboardingStep("connect-inbox")
			Expect(err).NotTo(HaveOccurred())
		})

		It("errors on unknown steps", func() {
			_, err := store.CompleteOnboardingStep("nope")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})

	Describe("Search", func() {
		It("ranks name matches above summary matches", func() {
			store.PutDeal(deal.Deal{
				ID:        "d-ref",
				Name:      "Umbrella spin-off",
				Stage:     deal.StageScreening,
				Summary:   "References the Acme carve-out as a comp.",
				UpdatedAt: time.Now(),
			})

			results := store.Search("acme")
			Expect(len(results)).To(BeNumerically(">=", 2))
			Expect(results[0].DealID).To(Equal("d-acme"))
			Expect(results[0].Score).To(BeNumerically(">", results[1].Score))
		})

		It("matches tags", func() {
			results := store.Search("acqui-hire")
			Expect(results).To(HaveLen(1))
			Expect(results[0].DealID).To(Equal("d-initech"))
		})

		It("returns nil for blank queries", func() {
			Expect(store.Search("   ")).To(BeNil())
		})
	})
})
