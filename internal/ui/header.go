package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/apodview/internal/gallery"
	"github.com/five82/apodview/internal/state"
)

// renderHeader renders the title bar with the search status on the right.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	left := bg.Render("✦ apodview", styles.Logo) +
		bg.Spaces(2) +
		bg.Render("Astronomy Picture of the Day", styles.MutedText)

	right := m.statusSummary(styles, bg)

	inner := max(m.width-2, 0) // header padding
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	content := left
	if gap >= 2 {
		content = left + bg.Spaces(gap) + right
	}

	return styles.Header.
		Width(m.width).
		MaxHeight(1).
		Render(ansi.Truncate(content, inner, "…"))
}

// statusSummary describes the gallery state in a few words.
func (m Model) statusSummary(styles Styles, bg BgStyle) string {
	if m.flash != "" {
		return bg.Render(m.flash, styles.InfoText)
	}

	snap := m.snapshot
	switch snap.Status {
	case state.StatusLoading:
		return bg.Render("loading "+snap.Range.String(), styles.WarningText)
	case state.StatusFailed:
		text := "fetch failed"
		if snap.ConsecutiveFailures > 1 {
			text = fmt.Sprintf("fetch failed %d× in a row", snap.ConsecutiveFailures)
		}
		return bg.Render(text, styles.DangerText)
	case state.StatusEmpty:
		return bg.Render("0 results · "+snap.Range.String(), styles.MutedText)
	case state.StatusLoaded:
		parts := []string{
			bg.Render(pluralize(len(snap.Records), "result"), styles.SuccessText),
			bg.Render(fmt.Sprintf("%s (%s)", snap.Range, pluralize(snap.Range.Days(), "day")), styles.MutedText),
		}
		if snap.Skipped > 0 {
			parts = append(parts, bg.Render(fmt.Sprintf("%d skipped", snap.Skipped), styles.WarningText))
		}
		if !snap.LastUpdated.IsZero() {
			parts = append(parts, bg.Render("at "+snap.LastUpdated.Format("15:04"), styles.FaintText))
		}
		return bg.Join(parts, " · ")
	default:
		return bg.Render("pick a date range", styles.FaintText)
	}
}

// renderFact renders the "did you know" banner, wrapped to the window.
func (m Model) renderFact() string {
	styles := m.theme.Styles()
	text := styles.AccentText.Bold(true).Render("Did you know?") + " " +
		styles.Text.Render(m.fact.Text())
	return lipgloss.NewStyle().
		Padding(0, 1).
		Width(max(m.width, 1)).
		Render(text)
}

// renderCommandBar renders the key hints for the current context.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.view == ViewDiagnostics:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"r", "Reload"},
			{"esc", "Gallery"},
			{"?", "More"},
		}
	case m.focus != focusGallery:
		commands = []cmd{
			{"tab", "Next field"},
			{"enter", "Search"},
			{"esc", "Gallery"},
			{"ctrl+c", "Quit"},
		}
	default:
		commands = []cmd{
			{"hjkl", "Navigate"},
			{"enter", "Open"},
			{"/", "Dates"},
			{"L", "Diagnostics"},
			{"q", "Quit"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	inner := max(m.width-2, 0)
	return styles.Header.
		Width(m.width).
		MaxHeight(1).
		Render(ansi.Truncate(strings.Join(segments, sep), inner, "…"))
}

// statusMessage is the text shown in place of cards for non-loaded states.
func (m Model) statusMessage() string {
	if m.snapshot.Status == state.StatusIdle {
		return "Enter a start and end date, then press enter to explore the archive."
	}
	return gallery.Message(m.snapshot.Status)
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
