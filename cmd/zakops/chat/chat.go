// Package chatcmder provides the chat command for talking to the deal
// assistant over its SSE stream.
package chatcmder

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zakopshq/zakops/pkg/client"
	"github.com/zakopshq/zakops/pkg/cliui"
	"github.com/zakopshq/zakops/pkg/config"
	"github.com/zakopshq/zakops/pkg/dotdir"
	"github.com/zakopshq/zakops/pkg/logger"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("assistant> ")
)

const chatLongDesc string = `Start an interactive chat session with the deal assistant.

The assistant answers over a server-sent event stream; tokens print as
they arrive. The session is persisted in the .zakops/ directory, so a
later "zakops chat" continues the same conversation. If a stream drops
mid-answer, the next message resumes from the last event received.

Use "zakops chat --new" to discard the saved session and start fresh.

Examples:
  zakops chat
  zakops chat --new
  zakops chat --backend http://localhost:8090`

const chatShortDesc string = "Chat with the deal assistant"

type chatCommander struct {
	backendURL     string
	apiKey         string
	timeoutSeconds uint
	fresh          bool
	configDir      string
	debug          bool

	logger *slog.Logger
	client *client.Client
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.preRun(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagBackendURL, &cmder.backendURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPIKey, &cmder.apiKey)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeoutSeconds)
	cmd.Flags().BoolVar(&cmder.fresh, "new", false, "Discard the saved session and start fresh")

	return cmd
}

func (c *chatCommander) preRun(cmd *cobra.Command) error {
	c.configDir, _ = cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, []string{
		config.FlagBackendURL,
		config.FlagAPIKey,
		config.FlagTimeout,
	})

	c.backendURL = v.GetString("backend.url")
	c.apiKey = v.GetString("backend.api_key")
	c.timeoutSeconds = v.GetUint("backend.timeout_seconds")

	c.debug, _ = cmd.Flags().GetBool("debug")
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	c.client, err = client.New(client.Config{
		BaseURL: c.backendURL,
		APIKey:  c.apiKey,
		Timeout: time.Duration(c.timeoutSeconds) * time.Second,
		Logger:  c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating deal service client: %w", err)
	}

	return nil
}

func (c *chatCommander) run(cmd *cobra.Command) error {
	ddm := dotdir.NewManager()

	if c.fresh {
		if err := ddm.ClearSession(c.configDir); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
	}

	state, err := ddm.LoadSession(c.configDir)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if state == nil {
		state = &dotdir.SessionState{}
	}

	fmt.Println()
	if state.SessionID != "" {
		fmt.Printf("  %s Resuming session %s %s\n",
			cliui.SuccessMark,
			cliui.HashStyle.Render(state.SessionID),
			cliui.DimStyle.Render(fmt.Sprintf("(%d messages)", len(state.Messages))),
		)
	} else {
		fmt.Printf("  %s New conversation\n", cliui.DimStyle.Render("●"))
	}
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		reply, err := c.sendAndStream(cmd, state, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		state.Messages = append(state.Messages,
			dotdir.SessionMessage{Role: "user", Content: input},
			dotdir.SessionMessage{Role: "assistant", Content: reply},
		)
		if err := ddm.SaveSession(state, c.configDir); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Println()
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// sendAndStream sends one message and prints the streamed reply. It
// mutates state's SessionID and LastEventID as events arrive so a dropped
// stream resumes on the next message.
func (c *chatCommander) sendAndStream(cmd *cobra.Command, state *dotdir.SessionState, message string) (string, error) {
	fmt.Print(assistantPrompt)

	var reply strings.Builder
	done := make(chan error, 1)

	handlers := client.StreamHandlers{
		OnEvent: func(ev client.StreamEvent) {
			if ev.ID != "" {
				state.LastEventID = ev.ID
			}

			switch ev.Type {
			case client.EventTypeToken:
				var payload struct {
					Text string `json:"text"`
				}
				if err := json.Unmarshal(ev.Data, &payload); err != nil {
					c.logger.Debug("unparseable token event", "id", ev.ID, "error", err)
					return
				}
				fmt.Print(payload.Text)
				reply.WriteString(payload.Text)
			case client.EventTypeDone:
				var payload struct {
					SessionID string `json:"session_id"`
				}
				if err := json.Unmarshal(ev.Data, &payload); err == nil && payload.SessionID != "" {
					state.SessionID = payload.SessionID
				}
				// Reply finished cleanly: no cursor to resume from.
				state.LastEventID = ""
			case client.EventTypeError:
				c.logger.Warn("assistant error event", "data", string(ev.Data))
			}
		},
		OnError: func(err error) {
			done <- err
		},
		OnClose: func() {
			done <- nil
		},
	}

	cancel, err := c.client.StreamChat(cmd.Context(), client.ChatRequest{
		SessionID:   state.SessionID,
		Message:     message,
		LastEventID: state.LastEventID,
	}, handlers)
	if err != nil {
		return "", err
	}
	defer cancel()

	if err := <-done; err != nil {
		// Keep the cursor: the next message resumes this reply.
		return reply.String(), fmt.Errorf("stream interrupted: %w", err)
	}

	return reply.String(), nil
}
