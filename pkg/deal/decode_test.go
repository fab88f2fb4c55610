package deal

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Decode", func() {
	Context("with a well-shaped payload", func() {
		It("takes the strict path and preserves all fields", func() {
			payload := []byte(`{
				"id": "d-1",
				"name": "Acme acquisition",
				"stage": "diligence",
				"counterparty": "Acme Corp",
				"value_usd": 12500000,
				"probability": 0.6,
				"tags": ["manufacturing", "midwest"],
				"updated_at": "2026-02-01T10:00:00Z"
			}`)

			d, err := Decode(payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.ID).To(Equal("d-1"))
			Expect(d.Name).To(Equal("Acme acquisition"))
			Expect(d.Stage).To(Equal(StageDiligence))
			Expect(d.Counterparty).To(Equal("Acme Corp"))
			Expect(d.ValueUSD).To(Equal(12500000.0))
			Expect(d.Probability).To(Equal(0.6))
			Expect(d.Tags).To(Equal([]string{"manufacturing", "midwest"}))
			Expect(d.UpdatedAt).To(Equal(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)))
		})
	})

	Context("with shape mismatches", func() {
		It("falls back field by field instead of failing", func() {
			// value_usd arrives as a string, tags as a mixed array.
			payload := []byte(`{
				"id": "d-2",
				"name": "Globex merger",
				"stage": "screening",
				"value_usd": "12.5M",
				"tags": ["priority", 7, null]
			}`)

			d, err := Decode(payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.ID).To(Equal("d-2"))
			Expect(d.Stage).To(Equal(StageScreening))
			Expect(d.ValueUSD).To(BeZero())
			Expect(d.Tags).To(Equal([]string{"priority"}))
		})

		It("defaults an unrecognized stage to StageUnknown", func() {
			d, err := Decode([]byte(`{"id": "d-3", "stage": "archived"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Stage).To(Equal(StageUnknown))
		})

		It("defaults a missing stage to StageUnknown", func() {
			d, err := Decode([]byte(`{"id": "d-4", "name": "No stage"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Stage).To(Equal(StageUnknown))
		})

		It("zeroes a non-RFC3339 timestamp", func() {
			d, err := Decode([]byte(`{"id": "d-5", "stage": "inbound", "updated_at": "yesterday"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(d.UpdatedAt.IsZero()).To(BeTrue())
		})

		It("ignores unknown fields", func() {
			d, err := Decode([]byte(`{"id": "d-6", "stage": "closing", "pipeline_velocity": {"x": 1}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Stage).To(Equal(StageClosing))
		})
	})

	Context("with unidentifiable payloads", func() {
		It("returns ErrNoID for a missing id", func() {
			d, err := Decode([]byte(`{"name": "anonymous"}`))
			Expect(err).To(MatchError(ErrNoID))
			Expect(d).To(BeNil())
		})

		It("returns ErrNoID for a non-string id", func() {
			d, err := Decode([]byte(`{"id": 17, "stage": "inbound"}`))
			Expect(err).To(MatchError(ErrNoID))
			Expect(d).To(BeNil())
		})

		It("errors on bytes that are not JSON", func() {
			_, err := Decode([]byte(`<html>`))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DecodeList", func() {
		It("drops undecodable entries and keeps the rest", func() {
			payload := []byte(`[
				{"id": "d-1", "stage": "inbound"},
				{"name": "no id"},
				{"id": "d-2", "stage": "who-knows"}
			]`)

			deals, err := DecodeList(payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(deals).To(HaveLen(2))
			Expect(deals[0].ID).To(Equal("d-1"))
			Expect(deals[1].ID).To(Equal("d-2"))
			Expect(deals[1].Stage).To(Equal(StageUnknown))
		})

		It("errors when the payload is not an array", func() {
			_, err := DecodeList([]byte(`{"id": "d-1"}`))
			Expect(err).To(HaveOccurred())
		})
	})
})
