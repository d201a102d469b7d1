// Package ui implements the interactive terminal viewer: a scrollable
// entry list with search, level filtering and a metadata detail pane.
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/loglens/loglens/internal/emoji"
	"github.com/loglens/loglens/internal/facet"
	"github.com/loglens/loglens/internal/logline"
)

// Model is the bubbletea model for the log viewer
type Model struct {
	label   string
	result  *logline.ParseResult
	summary *facet.Summary
	theme   *Theme

	entries  []*logline.LogEntry // current filtered view
	levels   []string            // distinct levels, cycling order
	levelIdx int                 // 0 = all, otherwise levels[levelIdx-1]
	search   string

	cursor    int
	offset    int
	width     int
	height    int
	ready     bool
	quitting  bool
	searching bool
	input     string
	detail    bool
}

// NewModel creates a viewer model for a parse result
func NewModel(label string, result *logline.ParseResult, summary *facet.Summary) *Model {
	m := &Model{
		label:   label,
		result:  result,
		summary: summary,
		theme:   DefaultTheme(),
	}
	for _, l := range summary.Levels {
		m.levels = append(m.levels, l.Value)
	}
	m.applyFilters()
	return m
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search = m.input
		m.searching = false
		m.applyFilters()
	case "esc":
		m.searching = false
		m.input = ""
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	default:
		if len(msg.String()) == 1 {
			m.input += msg.String()
		}
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.entries) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}

	case "/":
		m.searching = true
		m.input = m.search

	case "l":
		m.levelIdx = (m.levelIdx + 1) % (len(m.levels) + 1)
		m.applyFilters()

	case "enter":
		m.detail = !m.detail

	case "esc":
		switch {
		case m.detail:
			m.detail = false
		case m.search != "":
			m.search = ""
			m.applyFilters()
		}
	}
	return m, nil
}

// applyFilters rebuilds the visible entry list from the level cycle
// and search query, clamping the cursor.
func (m *Model) applyFilters() {
	entries := m.result.Entries
	if m.levelIdx > 0 {
		level := m.levels[m.levelIdx-1]
		filtered := make([]*logline.LogEntry, 0, len(entries))
		for _, e := range entries {
			if e.Level == level {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	m.entries = facet.Search(entries, m.search)

	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.offset = 0
}

// View renders the viewer
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.quitting {
		return emoji.GetEmoji("door") + " Bye!\n"
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(fmt.Sprintf("%s loglens — %s", emoji.GetEmoji("rocket"), m.label)))
	b.WriteString("\n")

	listHeight := m.height - 3
	if m.detail {
		listHeight -= m.detailHeight()
	}
	if listHeight < 1 {
		listHeight = 1
	}
	m.scrollTo(listHeight)

	b.WriteString(m.renderList(listHeight))

	if m.detail {
		b.WriteString(m.renderDetail())
	}

	b.WriteString(m.renderStatus())
	return b.String()
}

func (m *Model) scrollTo(listHeight int) {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+listHeight {
		m.offset = m.cursor - listHeight + 1
	}
}

func (m *Model) renderList(listHeight int) string {
	var b strings.Builder

	if len(m.entries) == 0 {
		b.WriteString(m.theme.Message.Render("  no entries match"))
		b.WriteString(strings.Repeat("\n", listHeight))
		return b.String()
	}

	end := m.offset + listHeight
	if end > len(m.entries) {
		end = len(m.entries)
	}

	for i := m.offset; i < end; i++ {
		line := m.renderEntry(m.entries[i])
		if i == m.cursor {
			line = m.theme.Selected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	for i := end - m.offset; i < listHeight; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderEntry(e *logline.LogEntry) string {
	ts := e.TimestampRaw
	level := fmt.Sprintf("%-5s", e.Level)
	msg := e.Message
	if msg == "" {
		msg = "(no message)"
	}

	// Truncate the plain message before styling so ANSI sequences
	// stay intact.
	if room := m.width - len(ts) - len(level) - 2; room > 3 && len(msg) > room {
		msg = msg[:room-3] + "..."
	}

	return fmt.Sprintf("%s %s %s",
		m.theme.Timestamp.Render(ts),
		m.theme.LevelStyle(e.Level).Render(level),
		m.theme.Message.Render(msg))
}

func (m *Model) detailHeight() int {
	if len(m.entries) == 0 {
		return 0
	}
	return m.entries[m.cursor].Metadata.Len() + 4
}

func (m *Model) renderDetail() string {
	if len(m.entries) == 0 {
		return ""
	}
	e := m.entries[m.cursor]

	var b strings.Builder
	fmt.Fprintf(&b, "source: %s", e.SourceFile)
	if e.SourceLine != logline.NoSourceLine {
		fmt.Fprintf(&b, ":%d", e.SourceLine)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "message: %s\n", e.Message)
	for _, k := range e.Metadata.Keys() {
		v, _ := e.Metadata.Get(k)
		fmt.Fprintf(&b, "%s = %s\n", k, v)
	}

	return m.theme.Detail.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func (m *Model) renderStatus() string {
	if m.searching {
		return m.theme.Search.Render(fmt.Sprintf("%s search: %s█", emoji.GetEmoji("search"), m.input))
	}

	level := "all"
	if m.levelIdx > 0 {
		level = m.levels[m.levelIdx-1]
	}

	status := fmt.Sprintf(" %d/%d entries | %s skipped %d | level: %s | hotspots: %d ",
		len(m.entries), m.summary.Total, emoji.GetEmoji("skip"),
		m.summary.Skipped, level, len(m.summary.Hotspots))
	if m.search != "" {
		status += fmt.Sprintf("| search: %q ", m.search)
	}
	status += "— /:search l:level enter:detail q:quit"

	return m.theme.StatusBar.Width(m.width).Render(status)
}

// Run starts the interactive viewer
func Run(label string, result *logline.ParseResult, summary *facet.Summary) error {
	p := tea.NewProgram(NewModel(label, result, summary), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
