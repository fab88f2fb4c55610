package mcp

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zakopshq/zakops/pkg/deal"
	"github.com/zakopshq/zakops/pkg/logger"
)

// fakePipeline serves canned deals for tool tests.
type fakePipeline struct {
	deals map[string]deal.Deal
}

func (f *fakePipeline) GetDeal(id string) (deal.Deal, bool) {
	d, ok := f.deals[id]
	return d, ok
}

func (f *fakePipeline) Search(query string) []deal.SearchResult {
	query = strings.ToLower(query)
	var out []deal.SearchResult
	for _, d := range f.deals {
		if strings.Contains(strings.ToLower(d.Name), query) {
			out = append(out, deal.SearchResult{
				DealID: d.ID,
				Name:   d.Name,
				Stage:  d.Stage,
				Score:  1.0,
			})
		}
	}
	return out
}

var _ = Describe("MCP Server", func() {
	var (
		server   *Server
		pipeline *fakePipeline
		ctx      context.Context
	)

	BeforeEach(func() {
		pipeline = &fakePipeline{
			deals: map[string]deal.Deal{
				"d-1": {ID: "d-1", Name: "Acme carve-out", Stage: deal.StageDiligence, ValueUSD: 42_000_000},
				"d-2": {ID: "d-2", Name: "Globex stake", Stage: deal.StageScreening},
			},
		}

		var err error
		server, err = NewServer(Config{
			Pipeline: pipeline,
			Logger:   logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	Describe("NewServer", func() {
		It("returns an error when the pipeline is nil", func() {
			_, err := NewServer(Config{Logger: logger.Nop()})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("pipeline is required"))
		})

		It("returns an error when the logger is nil", func() {
			_, err := NewServer(Config{Pipeline: pipeline})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("allows a noop server with no dependencies", func() {
			s, err := NewServer(Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(s).NotTo(BeNil())
		})

		It("exposes an HTTP handler", func() {
			Expect(server.Handler()).NotTo(BeNil())
		})
	})

	Describe("pipeline_search tool", func() {
		It("returns matching deals", func() {
			result, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "acme"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			Expect(output.Count).To(Equal(1))
			Expect(output.Results[0].DealID).To(Equal("d-1"))
			Expect(output.Query).To(Equal("acme"))
		})

		It("truncates to top_k", func() {
			_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "a", TopK: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Count).To(Equal(1))
		})

		It("returns an empty result set, not an error, for no matches", func() {
			result, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "zzz"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.Count).To(BeZero())
			Expect(output.Results).NotTo(BeNil())
		})
	})

	Describe("deal_get tool", func() {
		It("fetches a deal by id", func() {
			result, output, err := server.handleDealGet(ctx, nil, DealGetInput{ID: "d-1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.Deal.Name).To(Equal("Acme carve-out"))
		})

		It("flags unknown ids as tool errors", func() {
			result, _, err := server.handleDealGet(ctx, nil, DealGetInput{ID: "nope"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})
})
