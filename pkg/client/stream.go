package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/zakopshq/zakops/pkg/sse"
)

// Event types the agent channel is known to emit. The set is the backend's
// to extend; the stream layer treats types as opaque strings.
const (
	EventTypeToken = "token"
	EventTypeDone  = "done"
	EventTypeError = "error"
)

// ChatRequest starts or continues an agent-assistant exchange.
type ChatRequest struct {
	// SessionID continues an existing session when non-empty.
	SessionID string `json:"session_id,omitempty"`

	// Message is the user's message.
	Message string `json:"message"`

	// LastEventID, when non-empty, is sent as the Last-Event-ID header so
	// the service resumes the stream after that event. Not part of the
	// JSON body.
	LastEventID string `json:"-"`
}

// StreamEvent is one fully-framed, validated event from the agent channel.
type StreamEvent struct {
	// ID is the event's resumption cursor. May be empty.
	ID string

	// Type is the event's semantic type (e.g. "token", "done", "error").
	Type string

	// Data is the event payload, verified to be well-formed JSON. Callers
	// unmarshal it into the shape their event type implies.
	Data json.RawMessage
}

// StreamHandlers receives stream callbacks. All invocations are sequential
// and ordered; exactly one of OnError or OnClose terminates the stream.
// Nil handlers are skipped.
type StreamHandlers struct {
	// OnEvent fires once per fully-framed event, in frame-completion order.
	OnEvent func(StreamEvent)

	// OnError fires on a transport failure mid-stream. It does not fire
	// for caller cancellation.
	OnError func(error)

	// OnClose fires when the stream ends normally or the caller cancels.
	OnClose func()
}

// StreamChat opens the agent SSE channel and feeds events to the handlers
// until the stream ends or the returned cancel function is invoked.
//
// A non-2xx response is returned as a *StatusError before any callback
// fires. After that, delivery rules are:
//
//   - events missing an event type or data are dropped
//   - events whose data is not valid JSON are dropped (debug-logged); one
//     malformed frame never aborts the session
//   - cancellation silences all further callbacks except a single OnClose
//
// The client never reconnects on its own; callers resume by passing the
// last seen event id in a fresh ChatRequest.
func (c *Client) StreamChat(ctx context.Context, req ChatRequest, h StreamHandlers) (context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(ctx)

	body, err := json.Marshal(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("marshaling chat request: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/chat/stream", bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")
	if req.LastEventID != "" {
		httpReq.Header.Set("Last-Event-ID", req.LastEventID)
	}

	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("connecting to chat stream: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		cancel()
		return nil, &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(errBody))}
	}

	go c.readStream(ctx, resp.Body, h)

	return cancel, nil
}

// readStream is the single read loop for one stream. All handler
// invocations happen here, so they are sequential by construction.
func (c *Client) readStream(ctx context.Context, body io.ReadCloser, h StreamHandlers) {
	defer body.Close()

	reader := sse.NewReader(body)

	for {
		ev, err := reader.Next()

		// Cancellation wins over whatever Next returned: no events from
		// leftover buffered bytes, and the abort-induced read error is
		// not a transport failure.
		if ctx.Err() != nil {
			h.close()
			return
		}

		if err != nil {
			h.fail(err)
			return
		}

		if ev == nil {
			h.close()
			return
		}

		// Product framing rule: both the event type and data must be
		// present for a frame to mean anything to the dashboard.
		if ev.Type == "" || ev.Data == "" {
			c.logger.Debug("dropping incomplete SSE event",
				"id", ev.ID,
				"type", ev.Type,
			)
			continue
		}

		data := json.RawMessage(ev.Data)
		if !json.Valid(data) {
			c.logger.Debug("dropping SSE event with malformed JSON data",
				"id", ev.ID,
				"type", ev.Type,
			)
			continue
		}

		h.event(StreamEvent{ID: ev.ID, Type: ev.Type, Data: data})
	}
}

func (h StreamHandlers) event(ev StreamEvent) {
	if h.OnEvent != nil {
		h.OnEvent(ev)
	}
}

func (h StreamHandlers) fail(err error) {
	if h.OnError != nil {
		h.OnError(err)
	}
}

func (h StreamHandlers) close() {
	if h.OnClose != nil {
		h.OnClose()
	}
}
