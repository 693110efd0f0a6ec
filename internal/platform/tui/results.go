package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-dungeon/internal/storage"
)

// Results browser layout constants
const (
	maxGames    = 100 // Max games to load
	maxLeaders  = 50  // Max leaderboard rows
	tableMargin = 8   // Rows reserved for header, help and margins
)

// ResultsStore is the part of the results database the browser reads.
type ResultsStore interface {
	RecentGames(ctx context.Context, limit int) ([]storage.GameSummary, error)
	Leaderboard(ctx context.Context, limit int) ([]storage.PlayerTotals, error)
}

// ResultsTab selects what the browser shows.
type ResultsTab int

const (
	TabGames ResultsTab = iota
	TabLeaderboard
)

// ResultsKeyMap defines the key bindings for the results browser.
type ResultsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ResultsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ResultsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.NextTab, k.Quit}}
}

// DefaultResultsKeyMap returns default key bindings.
func DefaultResultsKeyMap() ResultsKeyMap {
	return ResultsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "left", "right"),
			key.WithHelp("tab", "games/leaderboard"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ResultsModel is the Bubble Tea model for browsing stored results.
type ResultsModel struct {
	store    ResultsStore
	tab      ResultsTab
	table    table.Model
	help     help.Model
	keys     ResultsKeyMap
	width    int
	height   int
	err      error
	quitting bool
}

// NewResultsModel creates a results browser.
func NewResultsModel(store ResultsStore, width, height int) ResultsModel {
	m := ResultsModel{
		store:  store,
		keys:   DefaultResultsKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.reload()
	return m
}

// columns returns the table columns of the current tab.
func (m ResultsModel) columns() []table.Column {
	if m.tab == TabLeaderboard {
		return []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Player", Width: 16},
			{Title: "Games", Width: 7},
			{Title: "Won", Width: 5},
			{Title: "Keys", Width: 6},
			{Title: "Exits", Width: 6},
			{Title: "Ejected", Width: 8},
		}
	}
	return []table.Column{
		{Title: "Finished", Width: 14},
		{Title: "Status", Width: 8},
		{Title: "Levels", Width: 7},
		{Title: "Players", Width: 8},
		{Title: "Duration", Width: 10},
		{Title: "Game", Width: 10},
	}
}

// reload rebuilds the table for the current tab.
func (m *ResultsModel) reload() {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-tableMargin, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	rows, err := m.rows()
	m.err = err
	t.SetRows(rows)
	t.GotoTop()
	m.table = t
}

func (m ResultsModel) rows() ([]table.Row, error) {
	if m.store == nil {
		return nil, nil
	}
	ctx := context.Background()

	if m.tab == TabLeaderboard {
		leaders, err := m.store.Leaderboard(ctx, maxLeaders)
		if err != nil {
			return nil, err
		}
		rows := make([]table.Row, len(leaders))
		for i, p := range leaders {
			rows[i] = table.Row{
				fmt.Sprintf("#%d", i+1),
				p.Name,
				fmt.Sprintf("%d", p.Games),
				fmt.Sprintf("%d", p.Won),
				fmt.Sprintf("%d", p.KeysFound),
				fmt.Sprintf("%d", p.Exits),
				fmt.Sprintf("%d", p.Ejections),
			}
		}
		return rows, nil
	}

	games, err := m.store.RecentGames(ctx, maxGames)
	if err != nil {
		return nil, err
	}
	rows := make([]table.Row, len(games))
	for i, g := range games {
		id := g.ID
		if len(id) > 8 {
			id = id[:8]
		}
		rows[i] = table.Row{
			g.FinishedAt.Format("Jan 02 15:04"),
			g.Status.String(),
			fmt.Sprintf("%d", g.Levels),
			fmt.Sprintf("%d", g.Players),
			g.Duration().Round(time.Second).String(),
			id,
		}
	}
	return rows, nil
}

// Tab returns the visible tab.
func (m ResultsModel) Tab() ResultsTab {
	return m.tab
}

// Rows returns the rows currently shown.
func (m ResultsModel) Rows() []table.Row {
	return m.table.Rows()
}

// Init initializes the results model.
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results browser.
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % 2
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.reload()
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the results browser.
func (m ResultsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "RECENT GAMES"
	if m.tab == TabLeaderboard {
		title = "LEADERBOARD"
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(fmt.Sprintf("cannot load results: %v\n", m.err))
	case len(m.table.Rows()) == 0:
		b.WriteString(dimStyle.Render("No games recorded yet"))
		b.WriteString("\n")
	default:
		b.WriteString(panelStyle.Render(m.table.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}
