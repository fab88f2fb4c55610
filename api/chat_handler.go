package api

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/zakopshq/zakops/pkg/deal"
	"github.com/zakopshq/zakops/pkg/utils"
)

// chatRequest is the body of POST /chat/stream.
type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// frame is one SSE event in a session's replayable log.
type frame struct {
	id    int
	event string
	data  string
}

// sessionLog holds every frame a session has emitted. Frame ids are
// monotonic within the session so Last-Event-ID can resume mid-reply.
type sessionLog struct {
	mu     sync.Mutex
	id     string
	nextID int
	frames []frame
}

// append assigns the next id and records the frame.
func (l *sessionLog) append(event, data string) frame {
	l.nextID++
	f := frame{id: l.nextID, event: event, data: data}
	l.frames = append(l.frames, f)
	return f
}

// after returns copies of all frames with id greater than the cursor.
// A cursor that doesn't parse as an id replays the whole log.
func (l *sessionLog) after(cursor string) []frame {
	since, err := strconv.Atoi(cursor)
	if err != nil {
		since = 0
	}
	var out []frame
	for _, f := range l.frames {
		if f.id > since {
			out = append(out, f)
		}
	}
	return out
}

func (s *Server) session(id string) *sessionLog {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	if id != "" {
		if log, ok := s.sessions[id]; ok {
			return log
		}
	}
	log := &sessionLog{id: uuid.NewString()}
	s.sessions[log.id] = log
	return log
}

// handleChatStream answers a chat message as an SSE stream of token events
// followed by a done event. With a Last-Event-ID header, frames the caller
// already saw are skipped and the rest of the session log is replayed
// before any new reply.
func (s *Server) handleChatStream(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	cursor := c.Get("Last-Event-ID")
	if req.Message == "" && cursor == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "message is required"})
	}

	session := s.session(req.SessionID)

	session.mu.Lock()
	replay := session.after(cursor)
	if req.Message != "" {
		for _, token := range tokenize(s.agentReply(req.Message)) {
			data, _ := json.Marshal(map[string]string{"text": token})
			replay = append(replay, session.append(EventTypeToken, string(data)))
		}
		data, _ := json.Marshal(map[string]string{"session_id": session.id})
		replay = append(replay, session.append(EventTypeDone, string(data)))
	}
	session.mu.Unlock()

	s.logger.Debug("chat stream",
		"session", session.id,
		"cursor", cursor,
		"frames", len(replay),
	)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	// io.Pipe + SetBodyStream gives per-frame flushing with backpressure;
	// fasthttp's chunked writer flushes to the socket after every read.
	pr, pw := io.Pipe()
	go writeFrames(pw, replay)
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

func writeFrames(pw *io.PipeWriter, frames []frame) {
	defer pw.Close()
	for _, f := range frames {
		if _, err := fmt.Fprintf(pw, "id: %d\nevent: %s\ndata: %s\n\n", f.id, f.event, f.data); err != nil {
			return
		}
	}
}

// Event types emitted on the chat stream.
const (
	EventTypeToken = "token"
	EventTypeDone  = "done"
)

// agentReply is the stub's stand-in for the hosted agent: a canned answer
// built from live store contents so console demos feel real.
func (s *Server) agentReply(message string) string {
	if results := s.store.Search(message); len(results) > 0 {
		top := results[0]
		if d, ok := s.store.GetDeal(top.DealID); ok {
			return fmt.Sprintf("%s is in %s, valued at %s with a %.0f%% probability. %s",
				d.Name, d.Stage, utils.FormatUSD(d.ValueUSD), d.Probability*100, d.Summary)
		}
	}

	deals := s.store.ListDeals("", "")
	var total float64
	active := 0
	for _, d := range deals {
		if d.Stage == deal.StageClosed || d.Stage == deal.StageDead {
			continue
		}
		active++
		total += d.ValueUSD
	}
	return fmt.Sprintf("You are tracking %d active deals worth %s combined. Ask about a deal by name for details.",
		active, utils.FormatUSD(total))
}

// tokenize splits a reply into word tokens, each carrying its trailing
// space so the client can concatenate them verbatim.
func tokenize(reply string) []string {
	words := strings.Fields(reply)
	tokens := make([]string, len(words))
	for i, w := range words {
		if i < len(words)-1 {
			tokens[i] = w + " "
		} else {
			tokens[i] = w
		}
	}
	return tokens
}
