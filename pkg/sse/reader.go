package sse

import (
	"bufio"
	"io"
	"strings"
)

// Reader parses SSE events from a source io.Reader, typically the body of an
// HTTP response issued with "Accept: text/event-stream".
//
// The reader buffers internally: a field block that arrives across several
// network reads is held until its terminating blank line shows up in a later
// read. One Reader serves one connection attempt; state is never shared
// across streams.
type Reader struct {
	scanner *bufio.Scanner

	// current accumulates fields for the event being built in the current scan.
	current  *Event
	hasField bool
}

// NewReader returns a Reader that parses SSE events from src.
func NewReader(src io.Reader) *Reader {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return &Reader{
		scanner: scanner,
		current: &Event{},
	}
}

// Next returns the next parsed SSE event from the stream. It blocks until a
// complete event is available (terminated by a blank line in the stream).
// Next returns nil, nil when the source is exhausted.
//
// Events are returned in the order their terminating blank lines appear in
// the source, regardless of how the underlying reads were chunked.
func (r *Reader) Next() (*Event, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()

		// A blank line signals the end of the current event.
		if line == "" {
			if r.hasField {
				ev := r.current
				r.reset()
				return ev, nil
			}

			// Blank line with no accumulated fields — skip (e.g. leading
			// blank lines or keep-alive newlines).
			continue
		}

		// Lines starting with ':' are comments. Skip them.
		if strings.HasPrefix(line, ":") {
			continue
		}

		r.parseLine(line)
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	// Source exhausted with no scanner error. If there is an in-progress
	// event (stream ended without a trailing blank line), yield it.
	if r.hasField {
		ev := r.current
		r.reset()
		return ev, nil
	}

	return nil, nil
}

// parseLine processes a single non-empty, non-comment SSE line and
// accumulates the field into the current event.
//
// Per the SSE spec, a line has the form "field:value" where the first
// space after the colon is optional and stripped if present.
func (r *Reader) parseLine(line string) {
	var field, value string

	if before, after, ok := strings.Cut(line, ":"); ok {
		field = before
		// Strip a single leading space after the colon, per spec.
		value = strings.TrimPrefix(after, " ")
	} else {
		// Line with no colon: the entire line is the field name with
		// an empty value.
		field = line
	}

	switch field {
	case "id":
		r.current.ID = value
		r.hasField = true
	case "event":
		r.current.Type = value
		r.hasField = true
	case "data":
		if r.hasField && r.current.Data != "" {
			// Multiple data fields are joined with "\n".
			r.current.Data += "\n"
		}
		r.current.Data += value
		r.hasField = true
	default:
		// * "retry" is intentionally ignored — reconnection pacing is the
		//   caller's concern.
		// * Other unknown fields are ignored per the SSE spec.
	}
}

// reset clears the accumulated event state for the next event.
func (r *Reader) reset() {
	r.current = &Event{}
	r.hasField = false
}
