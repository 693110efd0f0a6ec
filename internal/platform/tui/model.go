package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/level"
)

const maxLogLines = 6

// EventMsg wraps a game event delivered to the model.
type EventMsg struct {
	Event dungeon.Event
}

// ClosedMsg reports that the agent's inbox was closed.
type ClosedMsg struct{}

// Model is the Bubble Tea model of one player's game client. It consumes the
// agent's inbox and answers turn requests with the cursor.
type Model struct {
	agent  *dungeon.LocalAgent
	keys   KeyMap
	help   help.Model
	screen *core.Screen
	width  int
	height int

	levelIndex int
	players    []string
	state      *dungeon.StateUpdateEvent
	request    *dungeon.TurnRequest
	cursor     core.Point
	log        []string
	result     *dungeon.GameEndEvent
	closed     bool
	quitting   bool
}

// NewModel creates a client model for agent.
func NewModel(agent *dungeon.LocalAgent, width, height int) Model {
	return Model{
		agent:  agent,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		screen: core.NewScreen(0, 0),
		width:  width,
		height: height,
	}
}

// Init starts listening for events.
func (m Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that waits for the next game event. Queued
// events are delivered before the close.
func (m Model) waitForEvent() tea.Cmd {
	inbox := m.agent.Inbox()
	return func() tea.Msg {
		select {
		case evt := <-inbox.Events():
			return EventMsg{Event: evt}
		default:
		}
		select {
		case evt := <-inbox.Events():
			return EventMsg{Event: evt}
		case <-inbox.Done():
			return ClosedMsg{}
		}
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case EventMsg:
		m = m.apply(msg.Event)
		if m.result != nil {
			return m, nil
		}
		return m, m.waitForEvent()

	case ClosedMsg:
		m.closed = true
		m.request = nil
		return m, nil
	}
	return m, nil
}

// apply folds one event into the model.
func (m Model) apply(evt dungeon.Event) Model {
	switch e := evt.(type) {
	case dungeon.LevelStartEvent:
		m.levelIndex = e.LevelIndex
		m.players = e.PlayerNames
		m.state = nil
		m.request = nil
		m.logf("Level %d begins with %s", e.LevelIndex+1, strings.Join(e.PlayerNames, ", "))

	case dungeon.StateUpdateEvent:
		prev := m.state
		m.state = &e
		switch {
		case e.HasExited && (prev == nil || !prev.HasExited):
			m.logf("You escaped through the exit")
		case e.IsEjected && (prev == nil || !prev.IsEjected):
			m.logf("You were caught and ejected")
		case e.KeyFound && (prev == nil || !prev.KeyFound):
			m.logf("You found the key")
		}

	case dungeon.TurnRequestEvent:
		req := e.Request
		m.request = &req
		m.cursor = req.Position

	case dungeon.LevelEndEvent:
		m.request = nil
		msg := fmt.Sprintf("Level %d %s", e.LevelIndex+1, e.Status)
		if e.KeyFinder != "" {
			msg += ", key found by " + e.KeyFinder
		}
		if len(e.Exited) > 0 {
			msg += ", exited: " + strings.Join(e.Exited, ", ")
		}
		if len(e.Ejected) > 0 {
			msg += ", ejected: " + strings.Join(e.Ejected, ", ")
		}
		m.logf("%s", msg)

	case dungeon.GameEndEvent:
		m.request = nil
		m.result = &e
		m.logf("Game over: %s", e.Status)

	case dungeon.ErrorEvent:
		m.logf("! %s", e.Reason)
	}
	return m
}

func (m *Model) logf(format string, args ...any) {
	m.log = append(m.log, fmt.Sprintf(format, args...))
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.agent.Quit()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.request == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = m.cursor.Add(core.North)
	case key.Matches(msg, m.keys.Down):
		m.cursor = m.cursor.Add(core.South)
	case key.Matches(msg, m.keys.Left):
		m.cursor = m.cursor.Add(core.West)
	case key.Matches(msg, m.keys.Right):
		m.cursor = m.cursor.Add(core.East)
	case key.Matches(msg, m.keys.Stay):
		m.cursor = m.request.Position
	case key.Matches(msg, m.keys.Confirm):
		if !slices.Contains(m.request.Destinations, m.cursor) {
			m.logf("! %s is out of reach", m.cursor)
			return m, nil
		}
		m.agent.Submit(m.cursor)
		m.request = nil
	}
	return m, nil
}

// Cursor returns the selected destination.
func (m Model) Cursor() core.Point {
	return m.cursor
}

// AwaitingMove reports whether a turn request is open.
func (m Model) AwaitingMove() bool {
	return m.request != nil
}

// Result returns the final result once the game is over.
func (m Model) Result() *dungeon.GameEndEvent {
	return m.result
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the client.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText("DUNGEON", m.width)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(m.renderMap()), "  ", panelStyle.Render(m.renderStatus())))
	b.WriteString("\n")

	for _, line := range m.log {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderMap draws the view with the valid destinations and the cursor
// highlighted.
func (m Model) renderMap() string {
	switch {
	case m.state == nil:
		return dimStyle.Render("waiting for the level to start...")
	case m.state.View.Grid == nil:
		return dimStyle.Render("you have left the level")
	}

	v := m.state.View
	m.screen.Resize(v.Rows(), v.Cols())
	m.screen.Clear()
	DrawView(m.screen, core.Pt(0, 0), v)

	if m.request != nil {
		for _, p := range m.request.Destinations {
			local := p.Sub(v.Origin)
			cell := m.screen.Get(local)
			m.screen.Set(local, cell.Rune, core.ColorBlue)
		}
		local := m.cursor.Sub(v.Origin)
		m.screen.Set(local, 'X', core.ColorMagenta)
	}
	return RenderScreen(m.screen)
}

func (m Model) renderStatus() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Player  %s\n", m.agent.Name())
	fmt.Fprintf(&b, "Level   %d\n", m.levelIndex+1)

	if s := m.state; s != nil {
		fmt.Fprintf(&b, "Health  %d\n", s.Health)
		fmt.Fprintf(&b, "Key     %s\n", yesNo(s.KeyFound))
		switch {
		case s.HasExited:
			b.WriteString("Status  exited\n")
		case s.IsEjected:
			b.WriteString("Status  ejected\n")
		default:
			b.WriteString("Status  exploring\n")
		}
	}

	switch {
	case m.result != nil:
		b.WriteString("\n")
		b.WriteString(titleStyle.Render(resultTitle(m.result.Status)))
		for _, p := range m.result.Players {
			fmt.Fprintf(&b, "\n%-10s keys %d  exits %d  ejected %d", p.Name, p.KeysFound, p.Exits, p.Ejections)
		}
	case m.closed:
		b.WriteString("\nconnection closed")
	case m.request != nil:
		fmt.Fprintf(&b, "\nYour move (round %d)", m.request.Round)
	default:
		b.WriteString("\nwaiting...")
	}
	return b.String()
}

func resultTitle(s level.Status) string {
	if s == level.StatusWon {
		return "YOU WIN"
	}
	return "GAME OVER"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
