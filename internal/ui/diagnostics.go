package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/apodview/internal/logtail"
)

// enterDiagnostics switches the body to the diagnostics log.
func (m Model) enterDiagnostics() (tea.Model, tea.Cmd) {
	m.view = ViewDiagnostics
	m.diagSeq++
	m.updateDiagViewport()
	return m, tea.Batch(loadDiagnosticsCmd(m.logPath), diagTickCmd(m.diagSeq))
}

func (m Model) handleDiagnosticsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Diagnostics):
		m.view = ViewGallery
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		m.updateDiagViewport()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, loadDiagnosticsCmd(m.logPath)
	}

	var cmd tea.Cmd
	m.diagViewport, cmd = m.diagViewport.Update(msg)
	return m, cmd
}

func (m *Model) handleDiagLoaded(msg diagLoadedMsg) {
	m.diagErr = msg.err
	if msg.err == nil {
		m.diagEntries = msg.entries
	}
	m.updateDiagViewport()
}

// updateDiagViewport sizes the viewport to the body box and refills it,
// staying pinned to the bottom when it already was.
func (m *Model) updateDiagViewport() {
	if !m.ready {
		return
	}
	f := m.frame()
	width := max(m.width-4, 1)
	height := max(f.bodyHeight-2, 1)

	follow := m.diagViewport.AtBottom() || m.diagViewport.TotalLineCount() == 0
	m.diagViewport.Width = width
	m.diagViewport.Height = height
	m.diagViewport.SetContent(m.renderDiagContent(width))
	if follow {
		m.diagViewport.GotoBottom()
	}
}

func (m Model) renderDiagContent(width int) string {
	styles := m.theme.Styles()
	switch {
	case m.diagErr != nil:
		return styles.DangerText.Render("Unable to read log: " + m.diagErr.Error())
	case strings.TrimSpace(m.logPath) == "":
		return styles.MutedText.Render("File logging is disabled.")
	case len(m.diagEntries) == 0:
		return styles.MutedText.Render("No log entries yet.")
	}

	lines := make([]string, 0, len(m.diagEntries))
	for _, e := range m.diagEntries {
		lines = append(lines, m.formatEntry(e, styles, width))
	}
	return strings.Join(lines, "\n")
}

// formatEntry renders one entry as "15:04:05 INF [component] message key=value".
func (m Model) formatEntry(e logtail.Entry, styles Styles, width int) string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(styles.FaintText.Render(e.Time.Local().Format(time.TimeOnly)))
		b.WriteString(" ")
	}
	if e.Level != "" {
		b.WriteString(m.levelStyle(e.Level, styles).Render(levelTag(e.Level)))
		b.WriteString(" ")
	}
	if e.Component != "" {
		b.WriteString(styles.AccentText.Render("[" + e.Component + "]"))
		b.WriteString(" ")
	}
	b.WriteString(styles.Text.Render(e.Message))
	for _, k := range e.FieldKeys() {
		b.WriteString(" ")
		b.WriteString(styles.FaintText.Render(k + "="))
		b.WriteString(styles.MutedText.Render(e.Fields[k]))
	}
	if e.Error != "" {
		b.WriteString(" ")
		b.WriteString(styles.DangerText.Render("error=" + e.Error))
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (m Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		return styles.DangerText
	case "warn", "warning":
		return styles.WarningText
	case "debug", "trace":
		return styles.FaintText
	default:
		return styles.InfoText
	}
}

func levelTag(level string) string {
	switch strings.ToLower(level) {
	case "trace":
		return "TRC"
	case "debug":
		return "DBG"
	case "info":
		return "INF"
	case "warn", "warning":
		return "WRN"
	case "error":
		return "ERR"
	case "fatal":
		return "FTL"
	case "panic":
		return "PNC"
	default:
		return strings.ToUpper(level)
	}
}

// renderDiagnostics renders the diagnostics box in the body region.
func (m Model) renderDiagnostics(height int) string {
	title := "Diagnostics"
	if m.logPath != "" {
		title = fmt.Sprintf("Diagnostics · %s", m.logPath)
	}
	return m.renderTitledBox(title, m.diagViewport.View(), m.width, height, true)
}

// renderTitledBox draws a ┌─── Title ───┐ frame of exactly width×height cells.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor, bgColor := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColor, bgColor = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	top := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Sep(" ") + bg.Render(title, titleStyle) + bg.Sep(" ") +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottom := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)
	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = " " + contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				bg.FillLine(line, innerWidth)+
				bg.Render("│", borderStyle))
	}

	return top + "\n" + strings.Join(lines, "\n") + "\n" + bottom
}

// truncate shortens s to limit cells, keeping the end since log paths are
// most useful there.
func truncate(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if limit <= 0 {
		return ""
	}
	if len(runes) <= limit {
		return string(runes)
	}
	if limit <= 1 {
		return string(runes[len(runes)-limit:])
	}
	return "…" + string(runes[len(runes)-limit+1:])
}

// Messages

type diagLoadedMsg struct {
	entries []logtail.Entry
	err     error
}

// diagTickMsg carries the visit it was scheduled for; ticks from an earlier
// visit to the pane are dropped.
type diagTickMsg struct {
	seq uint64
	at  time.Time
}

// Commands

func loadDiagnosticsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return diagLoadedMsg{}
		}
		entries, err := logtail.ReadEntries(path, DiagnosticsLineLimit)
		return diagLoadedMsg{entries: entries, err: err}
	}
}

func diagTickCmd(seq uint64) tea.Cmd {
	return tea.Tick(DiagnosticsRefresh, func(t time.Time) tea.Msg {
		return diagTickMsg{seq: seq, at: t}
	})
}
