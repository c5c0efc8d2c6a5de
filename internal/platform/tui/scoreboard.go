package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lonely-pixel/internal/storage"
)

// Scoreboard layout constants
const (
	maxCoopRuns = 50 // Co-op runs to load
)

// fameSource lists the single-player hall of fame.
type fameSource interface {
	Fame() ([]storage.FameEntry, error)
}

// coopSource lists recent co-op runs. Only the SQLite store keeps them.
type coopSource interface {
	RecentCoopRuns(limit int) ([]storage.CoopRun, error)
}

type boardTab int

const (
	tabFame boardTab = iota
	tabCoop
)

var tabTitles = [...]string{
	tabFame: "HALL OF FAME",
	tabCoop: "CO-OP LOG",
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "switch list"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows the hall of fame and the co-op log.
// It runs on its own or embedded in the game model.
type ScoreboardModel struct {
	fame       fameSource
	coop       coopSource
	tab        boardTab
	rows       []table.Row
	loadErr    string
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	standalone bool
	quitting   bool
	goingBack  bool // True if user pressed back (not quit)
}

// NewScoreboardModel creates a scoreboard over store. The co-op tab stays
// empty unless store keeps co-op runs.
func NewScoreboardModel(store fameSource) ScoreboardModel {
	coop, _ := store.(coopSource)
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		fame:   store,
		coop:   coop,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  80,
		height: 24,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

// createTable creates a table with the active tab's columns.
func (m *ScoreboardModel) createTable() table.Model {
	var columns []table.Column
	if m.tab == tabFame {
		columns = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Meters", Width: 10},
			{Title: "Skin", Width: 12},
			{Title: "Date", Width: 12},
		}
	} else {
		columns = []table.Column{
			{Title: "Partner", Width: 14},
			{Title: "Meters", Width: 8},
			{Title: "Deaths", Width: 7},
			{Title: "Loops", Width: 6},
			{Title: "Ended", Width: 13},
			{Title: "Time", Width: 7},
			{Title: "Date", Width: 12},
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
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

	return t
}

// reload reads the active tab's entries from the store.
func (m *ScoreboardModel) reload() {
	m.rows = nil
	m.loadErr = ""

	switch m.tab {
	case tabFame:
		if m.fame == nil {
			break
		}
		entries, err := m.fame.Fame()
		if err != nil {
			m.loadErr = err.Error()
			break
		}
		m.rows = fameRows(entries)
	case tabCoop:
		if m.coop == nil {
			break
		}
		runs, err := m.coop.RecentCoopRuns(maxCoopRuns)
		if err != nil {
			m.loadErr = err.Error()
			break
		}
		m.rows = coopRows(runs)
	}

	m.table.SetRows(m.rows)
	m.table.GotoTop()
}

func fameRows(entries []storage.FameEntry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%dm", e.Meters),
			e.Skin,
			e.PlayedOn,
		}
	}
	return rows
}

func coopRows(runs []storage.CoopRun) []table.Row {
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		partner := r.Partner
		if partner == "" {
			partner = "-"
		}
		rows[i] = table.Row{
			partner,
			fmt.Sprintf("%dm", r.Meters),
			fmt.Sprintf("%d", r.Deaths),
			fmt.Sprintf("%d", r.Loops),
			strings.ReplaceAll(r.EndReason, "_", " "),
			fmt.Sprintf("%d:%02d", r.Duration/60, r.Duration%60),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

// resize fits the table to a new terminal size.
func (m *ScoreboardModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.table = m.createTable()
	m.table.SetRows(m.rows)
	m.help.Width = width
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages when the scoreboard runs on its own.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.update(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// update handles a key press. Embedded, back hands control to the parent;
// standalone it ends the program.
func (m ScoreboardModel) update(msg tea.KeyMsg) (ScoreboardModel, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.goingBack = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % boardTab(len(tabTitles))
		m.table = m.createTable()
		m.reload()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		if boardTab(i) == m.tab {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = tabStyle.Render(title)
		}
	}
	b.WriteString("\n")
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if m.loadErr != "" {
		return errorStyle.Render("Could not load scores: " + m.loadErr)
	}
	if len(m.rows) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		if m.tab == tabCoop {
			return emptyStyle.Render("No co-op runs yet.\nHost or join one with a partner!")
		}
		return emptyStyle.Render("No runs recorded yet.\nClimb to leave your mark!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen on its own.
func RunScoreboard(store fameSource) error {
	model := NewScoreboardModel(store)
	model.standalone = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
