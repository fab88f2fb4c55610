package sse

import (
	"errors"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// chunkReader yields the payload in scripted chunk sizes, one chunk per Read
// call, so tests can place chunk boundaries mid-line and mid-rune.
type chunkReader struct {
	chunks [][]byte
}

func newChunkReader(payload string, sizes ...int) *chunkReader {
	data := []byte(payload)
	var chunks [][]byte
	for _, n := range sizes {
		if n > len(data) {
			n = len(data)
		}
		chunks = append(chunks, data[:n])
		data = data[n:]
	}
	if len(data) > 0 {
		chunks = append(chunks, data)
	}
	return &chunkReader{chunks: chunks}
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	if n == len(c.chunks[0]) {
		c.chunks = c.chunks[1:]
	} else {
		c.chunks[0] = c.chunks[0][n:]
	}
	return n, nil
}

// errReader fails after yielding its payload.
type errReader struct {
	payload io.Reader
	err     error
}

func (e *errReader) Read(p []byte) (int, error) {
	n, err := e.payload.Read(p)
	if errors.Is(err, io.EOF) {
		return n, e.err
	}
	return n, err
}

func drain(r *Reader) []Event {
	var events []Event
	for {
		ev, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		if ev == nil {
			return events
		}
		events = append(events, *ev)
	}
}

var _ = Describe("Reader", func() {
	Describe("Next", func() {
		Context("with standard SSE events", func() {
			It("parses a single event", func() {
				r := NewReader(strings.NewReader("data: hello world\n\n"))

				ev, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev.Data).To(Equal("hello world"))
				Expect(ev.Type).To(BeEmpty())
				Expect(ev.ID).To(BeEmpty())

				ev, err = r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev).To(BeNil())
			})

			It("parses id, event, and data fields", func() {
				r := NewReader(strings.NewReader("id: 42\nevent: token\ndata: {\"token\":\"hi\"}\n\n"))

				ev, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev.ID).To(Equal("42"))
				Expect(ev.Type).To(Equal("token"))
				Expect(ev.Data).To(Equal("{\"token\":\"hi\"}"))
			})

			It("emits events in the order their blank lines appear", func() {
				r := NewReader(strings.NewReader("data: first\n\ndata: second\n\ndata: third\n\n"))

				events := drain(r)
				Expect(events).To(HaveLen(3))
				Expect(events[0].Data).To(Equal("first"))
				Expect(events[1].Data).To(Equal("second"))
				Expect(events[2].Data).To(Equal("third"))
			})

			It("joins multiple data lines with newline", func() {
				r := NewReader(strings.NewReader("data: line one\ndata: line two\ndata: line three\n\n"))

				ev, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev.Data).To(Equal("line one\nline two\nline three"))
			})

			It("resets accumulated fields between events", func() {
				r := NewReader(strings.NewReader("id: 1\nevent: token\ndata: a\n\ndata: b\n\n"))

				events := drain(r)
				Expect(events).To(HaveLen(2))
				Expect(events[1].ID).To(BeEmpty())
				Expect(events[1].Type).To(BeEmpty())
				Expect(events[1].Data).To(Equal("b"))
			})

			It("skips keep-alive blank lines with nothing accumulated", func() {
				r := NewReader(strings.NewReader("\n\n\ndata: hello\n\n\n\n"))

				events := drain(r)
				Expect(events).To(HaveLen(1))
				Expect(events[0].Data).To(Equal("hello"))
			})

			It("flushes a trailing event at EOF without a blank line", func() {
				r := NewReader(strings.NewReader("event: done\ndata: {\"ok\":true}\n"))

				ev, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev.Type).To(Equal("done"))
				Expect(ev.Data).To(Equal("{\"ok\":true}"))
			})
		})

		Context("with field edge cases", func() {
			It("ignores comment lines", func() {
				r := NewReader(strings.NewReader(": keep-alive\ndata: hello\n: another\n\n"))

				ev, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev.Data).To(Equal("hello"))
			})

			It("ignores retry and unknown fields", func() {
				r := NewReader(strings.NewReader("retry: 3000\nbogus: x\ndata: hello\n\n"))

				ev, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev.Data).To(Equal("hello"))
			})

			It("strips only a single leading space after the colon", func() {
				r := NewReader(strings.NewReader("data:  two spaces\ndata:none\n\n"))

				ev, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev.Data).To(Equal(" two spaces\nnone"))
			})

			It("treats a colonless line as a field with empty value", func() {
				r := NewReader(strings.NewReader("data\n\n"))

				ev, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev).NotTo(BeNil())
				Expect(ev.Data).To(Equal(""))
			})
		})

		Context("with arbitrary chunk boundaries", func() {
			payload := "id: 1\nevent: token\ndata: {\"token\":\"héllo\"}\n\n" +
				"id: 2\nevent: token\ndata: {\"token\":\"wörld\"}\n\n" +
				"event: done\ndata: {\"ok\":true}\n\n"

			var whole []Event

			BeforeEach(func() {
				whole = drain(NewReader(strings.NewReader(payload)))
				Expect(whole).To(HaveLen(3))
			})

			It("is independent of chunk boundaries, including mid-line splits", func() {
				// Split mid-field ("id: " straddles the boundary) and mid-line.
				r := NewReader(newChunkReader(payload, 3, 9, 1, 20))
				Expect(drain(r)).To(Equal(whole))
			})

			It("reassembles multi-byte runes split across chunks", func() {
				// "é" begins at byte 32 of the payload; split inside it.
				idx := strings.Index(payload, "héllo") + 1
				r := NewReader(newChunkReader(payload, idx+1, 1))
				Expect(drain(r)).To(Equal(whole))
			})

			It("yields identical events for every single-byte feed", func() {
				sizes := make([]int, len(payload))
				for i := range sizes {
					sizes[i] = 1
				}
				r := NewReader(newChunkReader(payload, sizes...))
				Expect(drain(r)).To(Equal(whole))
			})
		})

		Context("when the source errors mid-stream", func() {
			It("returns completed events, then surfaces the error", func() {
				transportErr := errors.New("connection reset")
				r := NewReader(&errReader{
					payload: strings.NewReader("data: complete\n\ndata: partial"),
					err:     transportErr,
				})

				ev, err := r.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(ev.Data).To(Equal("complete"))

				_, err = r.Next()
				Expect(err).To(MatchError(transportErr))
			})
		})
	})
})
