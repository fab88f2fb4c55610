package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zakopshq/zakops/pkg/sse"
)

// streamChat posts a chat request and parses the SSE response body.
func streamChat(server *Server, sessionID, message, lastEventID string) (*http.Response, []*sse.Event) {
	body, err := json.Marshal(map[string]string{
		"session_id": sessionID,
		"message":    message,
	})
	Expect(err).NotTo(HaveOccurred())

	req := httptest.NewRequest(http.MethodPost, "/chat/stream", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if lastEventID != "" {
		req.Header.Set("Last-Event-ID", lastEventID)
	}

	resp, err := server.app.Test(req, -1)
	Expect(err).NotTo(HaveOccurred())

	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	reader := sse.NewReader(resp.Body)
	var events []*sse.Event
	for {
		ev, err := reader.Next()
		Expect(err).NotTo(HaveOccurred())
		if ev == nil {
			break
		}
		events = append(events, ev)
	}
	resp.Body.Close()
	return resp, events
}

// tokenText concatenates the text of every token event.
func tokenText(events []*sse.Event) string {
	var b strings.Builder
	for _, ev := range events {
		if ev.Type != EventTypeToken {
			continue
		}
		var payload struct {
			Text string `json:"text"`
		}
		Expect(json.Unmarshal([]byte(ev.Data), &payload)).To(Succeed())
		b.WriteString(payload.Text)
	}
	return b.String()
}

var _ = Describe("POST /chat/stream", func() {
	var server *Server

	BeforeEach(func() {
		server = newTestServer()
	})

	It("streams token events ending in a done event", func() {
		resp, events := streamChat(server, "", "how is the pipeline", "")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(HavePrefix("text/event-stream"))

		Expect(len(events)).To(BeNumerically(">", 1))
		for _, ev := range events[:len(events)-1] {
			Expect(ev.Type).To(Equal(EventTypeToken))
		}
		Expect(events[len(events)-1].Type).To(Equal(EventTypeDone))

		Expect(tokenText(events)).To(ContainSubstring("active deals"))
	})

	It("answers about a specific deal when the message matches one", func() {
		_, events := streamChat(server, "", "tell me about acme", "")
		Expect(tokenText(events)).To(ContainSubstring("Acme Industrial carve-out"))
	})

	It("assigns monotonic event ids within a session", func() {
		_, events := streamChat(server, "", "hello", "")

		prev := 0
		for _, ev := range events {
			Expect(ev.ID).NotTo(BeEmpty())
			id, err := strconv.Atoi(ev.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(BeNumerically(">", prev))
			prev = id
		}
	})

	It("carries the session id in the done event", func() {
		_, events := streamChat(server, "", "hello", "")

		done := events[len(events)-1]
		var payload struct {
			SessionID string `json:"session_id"`
		}
		Expect(json.Unmarshal([]byte(done.Data), &payload)).To(Succeed())
		Expect(payload.SessionID).NotTo(BeEmpty())
	})

	It("replays frames after the Last-Event-ID cursor", func() {
		_, events := streamChat(server, "", "how is the pipeline", "")
		Expect(len(events)).To(BeNumerically(">", 2))

		done := events[len(events)-1]
		var payload struct {
			SessionID string `json:"session_id"`
		}
		Expect(json.Unmarshal([]byte(done.Data), &payload)).To(Succeed())

		// Pretend the stream dropped after the second event.
		cursor := events[1].ID
		_, resumed := streamChat(server, payload.SessionID, "", cursor)

		Expect(resumed).To(HaveLen(len(events) - 2))
		Expect(resumed[0].ID).NotTo(Equal(cursor))
		Expect(resumed[len(resumed)-1].Type).To(Equal(EventTypeDone))
	})

	It("continues a session with fresh ids after the previous reply", func() {
		_, first := streamChat(server, "", "hello", "")
		done := first[len(first)-1]
		var payload struct {
			SessionID string `json:"session_id"`
		}
		Expect(json.Unmarshal([]byte(done.Data), &payload)).To(Succeed())

		_, second := streamChat(server, payload.SessionID, "hello again", done.ID)
		Expect(second).NotTo(BeEmpty())

		firstID, err := strconv.Atoi(second[0].ID)
		Expect(err).NotTo(HaveOccurred())
		lastPrevID, err := strconv.Atoi(done.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(firstID).To(Equal(lastPrevID + 1))
	})

	It("rejects an empty message with no resume cursor", func() {
		resp, _ := streamChat(server, "", "", "")
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})
})
