package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zakopshq/zakops/pkg/deal"
	"github.com/zakopshq/zakops/pkg/logger"
)

func newTestServer() *Server {
	store := NewStore()
	store.Load(SeedFixtures())
	server, err := NewServer(Config{ListenAddr: ":0"}, store, logger.Nop())
	Expect(err).NotTo(HaveOccurred())
	return server
}

func doJSON(server *Server, method, target string, body any) (*http.Response, []byte) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := server.app.Test(req, -1)
	Expect(err).NotTo(HaveOccurred())

	data, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	resp.Body.Close()
	return resp, data
}

var _ = Describe("handlers", func() {
	var server *Server

	BeforeEach(func() {
		server = newTestServer()
	})

	Describe("GET /ping", func() {
		It("responds pong", func() {
			resp, body := doJSON(server, http.MethodGet, "/ping", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(string(body)).To(ContainSubstring("pong"))
		})
	})

	Describe("GET /deals", func() {
		It("lists the seeded pipeline", func() {
			resp, body := doJSON(server, http.MethodGet, "/deals", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var deals []deal.Deal
			Expect(json.Unmarshal(body, &deals)).To(Succeed())
			Expect(deals).To(HaveLen(3))
		})

		It("filters by stage", func() {
			resp, body := doJSON(server, http.MethodGet, "/deals?stage=diligence", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var deals []deal.Deal
			Expect(json.Unmarshal(body, &deals)).To(Succeed())
			Expect(deals).To(HaveLen(1))
			Expect(deals[0].ID).To(Equal("d-acme"))
		})

		It("rejects unknown stages", func() {
			resp, _ := doJSON(server, http.MethodGet, "/deals?stage=limbo", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /deals/:id", func() {
		It("returns the deal", func() {
			resp, body := doJSON(server, http.MethodGet, "/deals/d-acme", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var d deal.Deal
			Expect(json.Unmarshal(body, &d)).To(Succeed())
			Expect(d.Name).To(ContainSubstring("Acme"))
		})

		It("404s on unknown ids", func() {
			resp, body := doJSON(server, http.MethodGet, "/deals/nope", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			Expect(string(body)).To(ContainSubstring("not found"))
		})
	})

	Describe("POST /deals/:id/transition", func() {
		It("applies a legal move", func() {
			resp, body := doJSON(server, http.MethodPost, "/deals/d-globex/transition",
				map[string]string{"to": "diligence"})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var d deal.Deal
			Expect(json.Unmarshal(body, &d)).To(Succeed())
			Expect(d.Stage).To(Equal(deal.StageDiligence))
		})

		It("422s on illegal moves", func() {
			resp, _ := doJSON(server, http.MethodPost, "/deals/d-initech/transition",
				map[string]string{"to": "closing"})
			Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
		})

		It("400s on unknown target stages", func() {
			resp, _ := doJSON(server, http.MethodPost, "/deals/d-initech/transition",
				map[string]string{"to": "limbo"})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("DELETE /deals/:id", func() {
		It("removes the deal", func() {
			resp, _ := doJSON(server, http.MethodDelete, "/deals/d-acme", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))

			resp, _ = doJSON(server, http.MethodGet, "/deals/d-acme", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})
	})

	Describe("quarantine", func() {
		It("lists held items", func() {
			resp, body := doJSON(server, http.MethodGet, "/quarantine", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var items []deal.QuarantineItem
			Expect(json.Unmarshal(body, &items)).To(Succeed())
			Expect(items).To(HaveLen(1))
		})

		It("approves an item into an inbound deal", func() {
			resp, body := doJSON(server, http.MethodPost, "/quarantine/q-bluth/approve", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))

			var d deal.Deal
			Expect(json.Unmarshal(body, &d)).To(Succeed())
			Expect(d.Stage).To(Equal(deal.StageInbound))
		})

		It("rejects an item", func() {
			resp, _ := doJSON(server, http.MethodPost, "/quarantine/q-bluth/reject", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))

			resp, body := doJSON(server, http.MethodGet, "/quarantine", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(string(body)).To(Equal("[]"))
		})
	})

	Describe("onboarding", func() {
		It("returns the checklist and marks steps complete", func() {
			resp, body := doJSON(server, http.MethodGet, "/onboarding", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var state deal.OnboardingState
			Expect(json.Unmarshal(body, &state)).To(Succeed())
			Expect(state.Steps).NotTo(BeEmpty())

			resp, body = doJSON(server, http.MethodPost, "/onboarding/invite-team/complete", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(json.Unmarshal(body, &state)).To(Succeed())

			for _, step := range state.Steps {
				if step.ID == "invite-team" {
					Expect(step.Done).To(BeTrue())
				}
			}
		})
	})

	Describe("GET /search", func() {
		It("requires a query", func() {
			resp, _ := doJSON(server, http.MethodGet, "/search", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("returns scored results", func() {
			resp, body := doJSON(server, http.MethodGet, "/search?q=acme", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var results []deal.SearchResult
			Expect(json.Unmarshal(body, &results)).To(Succeed())
			Expect(results).To(HaveLen(1))
			Expect(results[0].DealID).To(Equal("d-acme"))
		})

		It("returns an empty array, not null, for no matches", func() {
			resp, body := doJSON(server, http.MethodGet, "/search?q=zzz", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(string(body)).To(Equal("[]"))
		})
	})
})
