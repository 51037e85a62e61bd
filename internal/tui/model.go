// Copyright (c) 2025 Neomantra Corp

// Package tui renders a live decode session as a terminal dashboard: a
// scrollable market list and, for the selected market, its first
// runner's exchange ladders. Grounded on the teacher's internal/tui page-model
// structure (Init/Update/View, a bubbles table, a channel-fed tea.Cmd
// for streaming updates) but collapsed to a single page, since this
// domain has one thing worth watching live rather than the teacher's
// four (jobs, downloads, datasets, publishers).
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/larkspur-data/betfair-stream"
)

// SnapshotMsg carries one decode step into the model's Update loop.
// Registry is the decoder's live registry (spec: a Decoder exposes its
// Registry for exactly this kind of external inspection), so the model
// always renders the decoder's actual current state rather than trying
// to reapply snapshots itself.
type SnapshotMsg struct {
	Registry *betfair.Registry
	Err      error
}

// Config configures the running dashboard.
type Config struct {
	// SnapshotCh is read from continuously; closing it ends the dashboard's
	// live updates (the registry view remains, keys still work).
	SnapshotCh <-chan SnapshotMsg
}

// Run starts the bubbletea program and blocks until the user quits.
func Run(cfg Config) error {
	model := NewModel(cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type keyMap struct {
	Quit key.Binding
	Up   key.Binding
	Down key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(key.WithKeys("ctrl+c", "esc", "q"), key.WithHelp("q", "quit")),
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	}
}

// Model is the dashboard's bubbletea model.
type Model struct {
	cfg      Config
	registry *betfair.Registry
	keyMap   keyMap

	selected  int
	width     int
	height    int
	lastError error
}

func NewModel(cfg Config) Model {
	return Model{
		cfg:      cfg,
		registry: betfair.NewRegistry(),
		keyMap:   defaultKeyMap(),
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.listenForSnapshot()
}

func (m Model) listenForSnapshot() tea.Cmd {
	if m.cfg.SnapshotCh == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-m.cfg.SnapshotCh
		if !ok {
			return nil
		}
		return msg
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.Down):
			if n := len(m.registry.Markets()); n > 0 && m.selected < n-1 {
				m.selected++
			}
		case key.Matches(msg, m.keyMap.Up):
			if m.selected > 0 {
				m.selected--
			}
		}

	case SnapshotMsg:
		if msg.Err != nil {
			m.lastError = msg.Err
		}
		if msg.Registry != nil {
			m.registry = msg.Registry
		}
		return m, m.listenForSnapshot()
	}
	return m, nil
}

func (m Model) View() string {
	header := headerStyle.Render(" betfair-tui ") + "\n"
	body := m.renderMarkets() + "\n" + m.renderSelectedLadder()
	footer := fmt.Sprintf("%d market(s) tracked — ↑/↓ to select, q to quit", len(m.registry.Markets()))
	if m.lastError != nil {
		footer = "error: " + m.lastError.Error()
	}
	return header + body + "\n" + lipgloss.NewStyle().Foreground(colorYellow).Render(footer)
}

func (m Model) renderMarkets() string {
	t := newMarketTable()
	t.SetWidth(m.width - 2)
	t.SetHeight(m.height - 10)
	rows := marketRows(m.registry.Markets())
	t.SetRows(rows)
	if m.selected >= 0 && m.selected < len(rows) {
		t.SetCursor(m.selected)
	}
	return borderStyle.Render(t.View())
}

// renderSelectedLadder shows the selected market's first runner's
// back/lay ladder in a flexible-width table, since ladder depth varies
// market to market in a way the fixed-width market list doesn't need to.
func (m Model) renderSelectedLadder() string {
	markets := m.registry.Markets()
	if m.selected < 0 || m.selected >= len(markets) {
		return borderStyle.Render("no market selected")
	}
	market := markets[m.selected]
	if len(market.Runners) == 0 {
		return borderStyle.Render(fmt.Sprintf("%s: no runners", market.MarketID))
	}

	runner := market.Runners[0]
	lt := newLadderTable(m.width-2, 8)
	for _, row := range ladderRows(runner) {
		lt.AddRows([][]string{row})
	}
	return borderStyle.Render(fmt.Sprintf("%s runner %s\n%s", market.MarketID, runner.Key.String(), lt.Render()))
}
