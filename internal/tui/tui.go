// Package tui provides a Bubble Tea TUI for viewing localization reports.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/domainlog/internal/report"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	bulletStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	loadedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	notLoadedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabDomains
	tabIssues
	tabCount
)

var tabNames = [tabCount]string{"Summary", "Domains", "Issues"}

// ── Model ────────────────────

// refreshMsg replaces the report on screen.
type refreshMsg struct{ report *report.Report }

// Refresh returns a message that swaps in r, for use with tea.Program.Send
// while a session is being watched.
func Refresh(r *report.Report) tea.Msg { return refreshMsg{report: r} }

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	report    *report.Report
	filename  string
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
	// Domains tab: cursor over visible rows, expanded rows by domain name
	cursor       int
	expanded     map[string]bool
	problemsOnly bool
}

// New creates a new TUI model for the given report and source filename.
func New(r *report.Report, filename string) Model {
	return Model{
		report:   r,
		filename: filepath.Base(filename),
		expanded: make(map[string]bool),
	}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "f":
			if m.activeTab == tabDomains {
				m.problemsOnly = !m.problemsOnly
				m.cursor = 0
				m.rebuild(tabDomains)
				return m, nil
			}
		case "up", "k":
			if m.activeTab == tabDomains && m.cursor > 0 {
				m.cursor--
				m.rebuild(tabDomains)
				return m, nil
			}
		case "down", "j":
			if m.activeTab == tabDomains && m.cursor < len(m.visibleRows())-1 {
				m.cursor++
				m.rebuild(tabDomains)
				return m, nil
			}
		case "enter", " ":
			if m.activeTab == tabDomains {
				rows := m.visibleRows()
				if len(rows) > 0 {
					name := rows[m.cursor].Domain
					if m.expanded[name] {
						delete(m.expanded, name)
					} else {
						m.expanded[name] = true
					}
					m.rebuild(tabDomains)
				}
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case refreshMsg:
		m.report = msg.report
		if n := len(m.visibleRows()); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
		if m.ready {
			for i := tabID(0); i < tabCount; i++ {
				m.rebuild(i)
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  domainlog  " + m.filename)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-3 jump  q quit"
	if m.activeTab == tabDomains {
		filter := "all"
		if m.problemsOnly {
			filter = "problems"
		}
		hint += "  enter files  f filter (" + filter + ")"
	}
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

func (m *Model) rebuild(t tabID) {
	m.viewports[t].SetContent(m.renderTab(t))
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabDomains:
		return m.renderDomains()
	case tabIssues:
		return m.renderIssues()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func bullet(text string) string {
	return bulletStyle.Render("  •") + "  " + text + "\n"
}

func (m *Model) renderSummary() string {
	s := m.report.Session
	var sb strings.Builder
	sb.WriteString(heading("Localization"))

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-18s", label)) + "  " + value + "\n")
	}
	row("Current locale:", s.Locale)
	row("Current language:", s.LanguageNative+dimStyle.Render(" ("+s.LanguageEnglish+")"))
	if s.ID != "" {
		row("Session:", s.ID)
	}
	if !s.StartTime.IsZero() {
		row("Started:", timeStyle.Render(s.StartTime.Format("2006-01-02 15:04:05 MST")))
	}
	row("Usage source:", s.UsageSource)
	if s.WPLang != nil {
		row("WPLANG:", fmt.Sprintf("%q", *s.WPLang))
	} else {
		row("WPLANG:", dimStyle.Render("(not defined)"))
	}

	if len(m.report.Installed) > 0 {
		sb.WriteString(heading("Installed languages"))
		for _, lang := range m.report.Installed {
			name := lang.Native
			if lang.English != "" {
				name += dimStyle.Render(" (" + lang.English + ")")
			}
			if lang.LastUpdated != "" {
				name += "  " + timeStyle.Render(lang.LastUpdated)
			}
			locale := lang.Locale
			if lang.Current {
				locale += " *"
			}
			row(locale, name)
		}
	}

	sb.WriteString(heading("Counts"))
	row("Domains seen:", fmt.Sprint(s.DomainsSeen))
	row("Load attempts:", fmt.Sprint(s.Attempts))
	row("Not loaded:", fmt.Sprint(len(m.report.NotLoaded)))
	row("Unloaded:", fmt.Sprint(len(m.report.Unloaded)))
	row("Duplicates:", fmt.Sprint(len(m.report.Duplicates())))
	if s.SkippedLines > 0 {
		row("Skipped lines:", warnStyle.Render(fmt.Sprint(s.SkippedLines)))
	}
	return sb.String()
}

// problem reports whether row deserves attention.
func problem(row report.Row) bool {
	return !row.Loaded || row.Duplicates
}

// visibleRows flattens the sections in display order, honouring the filter.
func (m *Model) visibleRows() []report.Row {
	var rows []report.Row
	for _, sec := range m.report.Sections {
		for _, row := range sec.Rows {
			if m.problemsOnly && !problem(row) {
				continue
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func (m *Model) renderDomains() string {
	var sb strings.Builder
	if m.report.Session.Attempts == 0 {
		sb.WriteString(heading("Domains"))
		sb.WriteString(dimStyle.Render("  "+report.NoLoadCalls) + "\n")
		return sb.String()
	}

	i := 0
	for _, sec := range m.report.Sections {
		var rows []report.Row
		for _, row := range sec.Rows {
			if !m.problemsOnly || problem(row) {
				rows = append(rows, row)
			}
		}
		if len(rows) == 0 {
			continue
		}
		sb.WriteString(heading(fmt.Sprintf("%s (%d)", sec.Title, len(rows))))
		for _, row := range rows {
			sb.WriteString(m.renderRow(row, i == m.cursor))
			i++
		}
	}
	if i == 0 {
		sb.WriteString(heading("Domains"))
		sb.WriteString(dimStyle.Render("  (nothing to show)") + "\n")
	}
	return sb.String()
}

func (m *Model) renderRow(row report.Row, selected bool) string {
	expanded := m.expanded[row.Domain]
	toggle := dimStyle.Render("  ▶ ")
	if expanded {
		toggle = dimStyle.Render("  ▼ ")
	}

	mark := notLoadedStyle.Render("✗ ")
	if row.Loaded {
		mark = loadedStyle.Render("✓ ")
	}
	count := "-"
	if row.TranslatedStrings > 0 {
		count = fmt.Sprint(row.TranslatedStrings)
	}
	line := fmt.Sprintf("%s%s%-28s %6s  %s", toggle, mark, row.Domain, count, row.LastUpdated)
	if row.Duplicates {
		line += "  " + warnStyle.Render("duplicates")
	}
	if selected {
		line = selectedRowStyle.Width(max(m.width-2, 1)).Render(line)
	}

	var sb strings.Builder
	sb.WriteString(line + "\n")
	if expanded {
		for _, f := range row.Files {
			if f.Loaded {
				sb.WriteString("        " + loadedStyle.Render("+ ") + f.Path + dimStyle.Render(" ("+f.Permissions+")") + "\n")
			} else {
				sb.WriteString("        " + notLoadedStyle.Render("- ") + dimStyle.Render(f.Path) + "\n")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderIssues() string {
	var sb strings.Builder

	list := func(title, empty string, items []string) {
		sb.WriteString(heading(fmt.Sprintf("%s (%d)", title, len(items))))
		if len(items) == 0 {
			sb.WriteString(dimStyle.Render("  "+empty) + "\n")
			return
		}
		for _, it := range items {
			sb.WriteString(bullet(it))
		}
	}
	list("Used without a load call", "(none)", m.report.NotLoaded)
	list("Unloaded during the session", "(none)", m.report.Unloaded)
	list("Same file tried more than once", "(none)", m.report.Duplicates())
	return sb.String()
}

// Run starts the TUI for the given report.
func Run(r *report.Report, filename string) error {
	_, err := NewProgram(r, filename).Run()
	return err
}

// NewProgram returns the program without starting it, so callers can push
// Refresh messages into it.
func NewProgram(r *report.Report, filename string) *tea.Program {
	return tea.NewProgram(New(r, filename), tea.WithAltScreen())
}
