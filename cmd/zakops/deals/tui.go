package dealscmder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/zakopshq/zakops/pkg/client"
	"github.com/zakopshq/zakops/pkg/deal"
	"github.com/zakopshq/zakops/pkg/utils"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

// boardStages are the columns shown on the board, in pipeline order.
var boardStages = deal.Stages

var (
	boardTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	boardMutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boardDividerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	boardCardStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	boardSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("214")).Bold(true)
	boardValueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	boardErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type boardKeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Advance key.Binding
	Kill    key.Binding
	Revive  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Down, k.Up, k.Advance, k.Kill, k.Revive, k.Refresh, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Left, k.Right, k.Down, k.Up}, {k.Advance, k.Kill, k.Revive, k.Refresh, k.Quit}}
}

func defaultBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		Left:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "prev stage")),
		Right:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "next stage")),
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Advance: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "advance")),
		Kill:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "mark dead")),
		Revive:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "revive")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type boardModel struct {
	client  *client.Client
	columns map[deal.Stage][]deal.Deal
	col     int
	row     int
	width   int
	height  int
	status  string
	keys    boardKeyMap
	help    help.Model
}

type dealsLoadedMsg struct {
	deals []deal.Deal
	err   error
}

type transitionDoneMsg struct {
	d   *deal.Deal
	err error
}

func runBoardTUI(ctx context.Context, c *client.Client) error {
	deals, err := c.ListDeals(ctx, client.ListDealsOptions{})
	if err != nil {
		return err
	}

	model := newBoardModel(c)
	model.setDeals(deals)

	program := bubbletea.NewProgram(model,
		bubbletea.WithContext(ctx),
		bubbletea.WithAltScreen(),
	)
	_, err = program.Run()
	return err
}

func newBoardModel(c *client.Client) boardModel {
	return boardModel{
		client:  c,
		columns: map[deal.Stage][]deal.Deal{},
		keys:    defaultBoardKeyMap(),
		help:    help.New(),
	}
}

func (m *boardModel) setDeals(deals []deal.Deal) {
	columns := map[deal.Stage][]deal.Deal{}
	for _, d := range deals {
		columns[d.Stage] = append(columns[d.Stage], d)
	}
	m.columns = columns
	m.clampCursor()
}

func (m *boardModel) clampCursor() {
	m.col = clamp(m.col, len(boardStages)-1)
	m.row = clamp(m.row, len(m.currentColumn())-1)
}

func (m boardModel) currentColumn() []deal.Deal {
	return m.columns[boardStages[m.col]]
}

// selected returns the deal under the cursor, or nil for an empty column.
func (m boardModel) selected() *deal.Deal {
	column := m.currentColumn()
	if len(column) == 0 {
		return nil
	}
	d := column[m.row]
	return &d
}

func (m boardModel) Init() bubbletea.Cmd {
	return nil
}

func (m boardModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case dealsLoadedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.setDeals(msg.deals)
		m.status = ""
		return m, nil
	case transitionDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("%s → %s", msg.d.Name, msg.d.Stage)
		return m, loadDealsCmd(m.client)
	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m boardModel) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, bubbletea.Quit
	case key.Matches(msg, m.keys.Left):
		m.col = clamp(m.col-1, len(boardStages)-1)
		m.clampCursor()
	case key.Matches(msg, m.keys.Right):
		m.col = clamp(m.col+1, len(boardStages)-1)
		m.clampCursor()
	case key.Matches(msg, m.keys.Up):
		m.row = clamp(m.row-1, len(m.currentColumn())-1)
	case key.Matches(msg, m.keys.Down):
		m.row = clamp(m.row+1, len(m.currentColumn())-1)
	case key.Matches(msg, m.keys.Advance):
		return m.transitionSelected(forwardStage)
	case key.Matches(msg, m.keys.Kill):
		return m.transitionSelected(func(deal.Stage) (deal.Stage, bool) {
			return deal.StageDead, true
		})
	case key.Matches(msg, m.keys.Revive):
		return m.transitionSelected(func(from deal.Stage) (deal.Stage, bool) {
			if from != deal.StageDead {
				return "", false
			}
			return deal.StageInbound, true
		})
	case key.Matches(msg, m.keys.Refresh):
		return m, loadDealsCmd(m.client)
	}

	return m, nil
}

// forwardStage picks the next forward pipeline stage for a deal, skipping
// the dead branch.
func forwardStage(from deal.Stage) (deal.Stage, bool) {
	for _, to := range deal.Next(from) {
		if to != deal.StageDead {
			return to, true
		}
	}
	return "", false
}

func (m boardModel) transitionSelected(pick func(deal.Stage) (deal.Stage, bool)) (bubbletea.Model, bubbletea.Cmd) {
	selected := m.selected()
	if selected == nil {
		return m, nil
	}

	to, ok := pick(selected.Stage)
	if !ok || !deal.CanTransition(selected.Stage, to) {
		m.status = fmt.Sprintf("%s cannot leave %s that way", selected.Name, selected.Stage)
		return m, nil
	}

	return m, transitionCmd(m.client, selected.ID, to)
}

func loadDealsCmd(c *client.Client) bubbletea.Cmd {
	return func() bubbletea.Msg {
		deals, err := c.ListDeals(context.Background(), client.ListDealsOptions{})
		return dealsLoadedMsg{deals: deals, err: err}
	}
}

func transitionCmd(c *client.Client, id string, to deal.Stage) bubbletea.Cmd {
	return func() bubbletea.Msg {
		d, err := c.TransitionDeal(context.Background(), id, to)
		return transitionDoneMsg{d: d, err: err}
	}
}

func (m boardModel) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}
	colWidth := maxInt(18, width/len(boardStages)-1)

	header := boardTitleStyle.Render("zakops board")
	divider := boardDividerStyle.Render(strings.Repeat("─", width))

	columns := make([]string, 0, len(boardStages))
	for i, stage := range boardStages {
		columns = append(columns, m.renderColumn(i, stage, colWidth))
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	status := m.status
	if status == "" {
		status = m.help.ShortHelpView(m.keys.ShortHelp())
	} else {
		status = boardErrorStyle.Render(status)
	}

	return strings.Join([]string{header, divider, board, "", status}, "\n")
}

func (m boardModel) renderColumn(idx int, stage deal.Stage, width int) string {
	deals := m.columns[stage]

	title := fmt.Sprintf("%s (%d)", stage, len(deals))
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(utils.Truncate(title, width)),
		boardDividerStyle.Render(strings.Repeat("─", width)),
	}

	if len(deals) == 0 {
		lines = append(lines, boardMutedStyle.Render("—"))
	}

	for row, d := range deals {
		name := utils.Truncate(d.Name, width-2)
		card := boardCardStyle.Render(name)
		if idx == m.col && row == m.row {
			card = boardSelectedStyle.Render(name)
		}
		lines = append(lines,
			card,
			boardValueStyle.Render(utils.Truncate(utils.FormatUSD(d.ValueUSD), width-2)),
		)
	}

	column := strings.Join(lines, "\n")
	return lipgloss.NewStyle().Width(width).MarginRight(1).Render(column)
}

func clamp(v, maxIdx int) int {
	if maxIdx < 0 {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > maxIdx {
		return maxIdx
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
