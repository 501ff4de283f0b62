package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/apodview/internal/apod"
	"github.com/five82/apodview/internal/state"
	"github.com/five82/apodview/internal/video"
)

// handleGalleryKey handles keys while the card grid has focus.
func (m Model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Diagnostics):
		return m.enterDiagnostics()

	case key.Matches(msg, m.keys.FocusForm):
		m.setFocus(focusStart)
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.cycleFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		m.cycleFocus(-1)
		return m, nil
	}

	count := len(m.snapshot.Records)
	if count == 0 {
		return m, nil
	}
	g := m.grid()

	switch {
	case key.Matches(msg, m.keys.Select):
		if m.selected < 0 {
			m.selected = 0
		}
		return m.openDetail(m.selected)
	case key.Matches(msg, m.keys.Left):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-g.cols)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(g.cols)
	case key.Matches(msg, m.keys.Top):
		m.selectCard(0)
	case key.Matches(msg, m.keys.Bottom):
		m.selectCard(count - 1)
	}
	return m, nil
}

// moveSelection shifts the selection by delta cards, staying in bounds.
func (m *Model) moveSelection(delta int) {
	if m.selected < 0 {
		m.selectCard(0)
		return
	}
	next := m.selected + delta
	if next < 0 || next >= len(m.snapshot.Records) {
		return
	}
	m.selectCard(next)
}

func (m *Model) selectCard(idx int) {
	if idx < 0 || idx >= len(m.snapshot.Records) {
		return
	}
	m.selected = idx
	m.rowOffset = m.grid().scrollTo(idx)
}

// scrollRows moves the visible window of card rows.
func (m *Model) scrollRows(delta int) {
	g := m.grid()
	maxOffset := g.totalRows() - g.rows
	if maxOffset < 0 {
		maxOffset = 0
	}
	m.rowOffset = min(max(m.rowOffset+delta, 0), maxOffset)
}

// renderGallery renders the body region: either a status message or the
// visible rows of cards.
func (m Model) renderGallery(g gridLayout) string {
	region := lipgloss.NewStyle().
		Width(max(m.width, 1)).
		Height(g.height).
		MaxHeight(g.height)

	if m.snapshot.Status != state.StatusLoaded || g.count == 0 {
		return region.Render(m.renderStatusMessage())
	}

	var rows []string
	for r := g.offset; r < g.offset+g.rows && r < g.totalRows(); r++ {
		var cards []string
		for c := 0; c < g.cols; c++ {
			idx := r*g.cols + c
			if idx >= g.count {
				break
			}
			if c > 0 {
				cards = append(cards, strings.Repeat(" ", CardGap))
			}
			cards = append(cards, m.renderCard(idx, m.snapshot.Records[idx]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return region.Render(strings.Join(rows, "\n"))
}

func (m Model) renderStatusMessage() string {
	styles := m.theme.Styles()
	text := m.statusMessage()

	var line string
	switch m.snapshot.Status {
	case state.StatusLoading:
		line = m.spinner.View() + " " + styles.WarningText.Render(text)
	case state.StatusFailed:
		line = styles.DangerText.Render(text)
	case state.StatusEmpty:
		line = styles.WarningText.Render(text)
	default:
		line = styles.MutedText.Render(text)
	}
	return "\n" + lipgloss.NewStyle().Padding(0, 2).Render(line)
}

// cardKind maps a record's media type to its badge key.
func cardKind(rec apod.Record) string {
	if rec.MediaType.Known() {
		return string(rec.MediaType)
	}
	return "unsupported"
}

// renderCard renders one record as a bordered card.
func (m Model) renderCard(idx int, rec apod.Record) string {
	styles := m.theme.Styles()
	selected := idx == m.selected && m.focus == focusGallery
	inner := CardWidth - 4 // border and padding

	kind := cardKind(rec)
	badge := styles.BadgeStyle(kind).Render(strings.ToUpper(kind))

	var extra string
	switch rec.MediaType {
	case apod.MediaImage:
		if c := strings.TrimSpace(rec.Copyright); c != "" {
			extra = styles.FaintText.Render(ansi.Truncate("© "+c, inner, "…"))
		}
	case apod.MediaVideo:
		if id, err := video.Resolve(rec.URL); err == nil {
			extra = styles.InfoText.Render(ansi.Truncate("▶ embed "+string(id), inner, "…"))
		} else {
			extra = styles.FaintText.Render("↗ external link")
		}
	default:
		extra = styles.FaintText.Render(ansi.Truncate("media: "+string(rec.MediaType), inner, "…"))
	}

	title := styles.Text.Bold(true).Render(ansi.Truncate(oneLine(rec.Title), inner, "…"))
	date := styles.MutedText.Render(rec.Date)

	border := lipgloss.Color(m.theme.Border)
	bgColor := lipgloss.Color(m.theme.SurfaceAlt)
	if selected {
		border = lipgloss.Color(m.theme.BorderFocus)
		bgColor = lipgloss.Color(m.theme.FocusBg)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Background(bgColor).
		Padding(0, 1).
		Width(CardWidth - 2).
		Height(CardHeight - 2).
		MaxHeight(CardHeight).
		Render(strings.Join([]string{badge, title, date, extra}, "\n"))
}

// oneLine collapses whitespace so a value fits on a single row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
