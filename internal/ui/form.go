package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/apodview/internal/apod"
	"github.com/five82/apodview/internal/gallery"
	"github.com/five82/apodview/internal/state"
)

const submitLabel = "[ Get Space Images ]"

// initInputs builds the start and end date inputs.
func (m *Model) initInputs(start, end string) {
	for i, value := range []string{start, end} {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = "YYYY-MM-DD"
		in.CharLimit = len(apod.DateLayout)
		in.Width = len(apod.DateLayout)
		in.SetValue(value)
		m.inputs[i] = in
	}
}

// setFocus moves keyboard focus, blurring whichever input had it.
func (m *Model) setFocus(f focusArea) {
	m.focus = f
	for i := range m.inputs {
		if focusArea(i) == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// cycleFocus steps through start, end and the gallery.
func (m *Model) cycleFocus(step int) {
	const areas = 3
	next := (int(m.focus) + step + areas) % areas
	m.setFocus(focusArea(next))
}

func (m Model) focusedInput() (int, bool) {
	switch m.focus {
	case focusStart:
		return 0, true
	case focusEnd:
		return 1, true
	default:
		return 0, false
	}
}

// handleFormKey handles keys while a date input has focus.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Tab):
		m.cycleFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		m.cycleFocus(-1)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.setFocus(focusGallery)
		return m, nil
	}

	idx, _ := m.focusedInput()
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

// submit validates the form and starts a search. Invalid input opens a
// notice and leaves the gallery as it was.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.fetcher == nil {
		return m, nil
	}

	start := strings.TrimSpace(m.inputs[0].Value())
	end := strings.TrimSpace(m.inputs[1].Value())

	req, err := m.fetcher.Submit(start, end)
	if err != nil {
		m.openNotice(gallery.Notice(err))
		return m, nil
	}

	m.pending = req
	m.snapshot = m.fetcher.Store().Snapshot()
	m.selected = -1
	m.rowOffset = 0
	m.flash = ""
	m.lastStart, m.lastEnd = start, end
	m.savePrefs()
	m.setFocus(focusGallery)

	return m, tea.Batch(m.spinner.Tick, searchCmd(m.ctx, m.fetcher, req))
}

// handleSearchResult applies a finished search unless a newer one has started.
func (m Model) handleSearchResult(res gallery.Result) (tea.Model, tea.Cmd) {
	if res.Stale || res.Request.Generation != m.pending.Generation {
		m.logger.Debug().
			Str("request_id", res.Request.ID).
			Uint64("generation", res.Request.Generation).
			Msg("ignoring superseded search result")
		return m, nil
	}

	m.snapshot = m.fetcher.Store().Snapshot()
	m.rowOffset = 0
	m.selected = -1
	if m.snapshot.Status == state.StatusLoaded && len(m.snapshot.Records) > 0 {
		m.selected = 0
	}
	return m, nil
}

type formTarget int

const (
	targetNone formTarget = iota
	targetStart
	targetEnd
	targetSubmit
)

type formSegment struct {
	text   string
	target formTarget
}

// formSegments lays out the form line left to right. Rendering joins the
// segments and mouse handling walks their widths, so both agree on positions.
func (m Model) formSegments() []formSegment {
	styles := m.theme.Styles()

	label := func(text string, f focusArea) string {
		if m.focus == f {
			return styles.AccentText.Bold(true).Render(text)
		}
		return styles.MutedText.Render(text)
	}
	field := func(i int) string {
		return lipgloss.NewStyle().
			Width(DateFieldWidth).
			MaxWidth(DateFieldWidth).
			Background(lipgloss.Color(m.theme.SurfaceAlt)).
			Render(m.inputs[i].View())
	}
	button := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Background)).
		Background(lipgloss.Color(m.theme.Accent)).
		Bold(true).
		Render(submitLabel)

	return []formSegment{
		{text: " "},
		{text: label("Start ", focusStart), target: targetStart},
		{text: field(0), target: targetStart},
		{text: "  "},
		{text: label("End ", focusEnd), target: targetEnd},
		{text: field(1), target: targetEnd},
		{text: "  "},
		{text: button, target: targetSubmit},
	}
}

// formTargetAt returns what sits under column x of the form line.
func (m Model) formTargetAt(x int) formTarget {
	pos := 0
	for _, seg := range m.formSegments() {
		w := lipgloss.Width(seg.text)
		if x >= pos && x < pos+w {
			return seg.target
		}
		pos += w
	}
	return targetNone
}

// renderForm renders the form line and the rule under it.
func (m Model) renderForm() string {
	segments := m.formSegments()
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.text)
	}
	line := strings.Join(parts, "")
	rule := m.theme.Styles().FaintText.Render(strings.Repeat("─", max(m.width, 0)))
	return line + "\n" + rule
}

// frame holds the rendered chrome above the body and where things landed.
type frame struct {
	header     string
	fact       string
	form       string
	formY      int
	formLines  int
	bodyTop    int
	bodyHeight int
}

func (m Model) frame() frame {
	f := frame{
		header: m.renderHeader(),
		fact:   m.renderFact(),
		form:   m.renderForm(),
	}
	f.formY = lipgloss.Height(f.header) + lipgloss.Height(f.fact)
	f.formLines = 1 // the rule below is not clickable
	f.bodyTop = f.formY + lipgloss.Height(f.form)
	f.bodyHeight = m.height - f.bodyTop - 1 // command bar
	if f.bodyHeight < 1 {
		f.bodyHeight = 1
	}
	return f
}

// grid returns the card layout for the current frame and snapshot.
func (m Model) grid() gridLayout {
	f := m.frame()
	return newGridLayout(m.width, f.bodyTop, f.bodyHeight, m.rowOffset, len(m.snapshot.Records))
}
