// Package sse provides a minimal, purpose-built SSE (Server-Sent Events)
// reader for consuming the deal service's streaming endpoints. It reassembles
// discrete events from a chunked HTTP response body; chunk boundaries are
// never observable to the caller, even when they fall mid-line or mid-rune.
//
// This package intentionally does NOT provide SSE writer or server
// capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Event represents a single parsed SSE event, delimited by a blank line
// in the source byte stream.
type Event struct {
	// ID is the last event ID from the "id:" field, if present. Callers use
	// it as the resumption cursor (Last-Event-ID) when reconnecting.
	ID string

	// Type is the SSE event type from the "event:" field.
	// An empty string means the default "message" type per the SSE spec.
	Type string

	// Data is the concatenated contents of all "data:" lines for this event,
	// joined with "\n" (per the SSE spec, multiple data fields are joined
	// with a single newline). Framing does not inspect its contents.
	Data string
}
