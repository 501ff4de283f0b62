package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/apodview/internal/apod"
	"github.com/five82/apodview/internal/video"
)

const (
	closeControl      = "[x]"
	embedCheckTimeout = 10 * time.Second
)

type overlayKind int

const (
	overlayDetail overlayKind = iota
	overlayNotice
)

// embedState tracks the embed check for a resolved video.
type embedState int

const (
	embedNone embedState = iota
	embedChecking
	embedReady
	embedFailed
)

// overlay is the single modal layer above the gallery. token identifies one
// opening so late async results for a replaced overlay can be dropped.
type overlay struct {
	kind     overlayKind
	token    uint64
	record   apod.Record
	message  string
	videoID  video.ID
	videoErr error
	embed    embedState
	viewport viewport.Model

	mediaScrolls bool // media lines live in the viewport on short screens
}

// openDetail shows the detail overlay for card idx, replacing any overlay
// already open.
func (m Model) openDetail(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.snapshot.Records) {
		return m, nil
	}
	rec := m.snapshot.Records[idx]

	m.overlaySeq++
	ov := &overlay{
		kind:     overlayDetail,
		token:    m.overlaySeq,
		record:   rec,
		viewport: viewport.New(0, 0),
	}

	var cmd tea.Cmd
	if rec.MediaType == apod.MediaVideo {
		id, err := video.Resolve(rec.URL)
		if err != nil {
			ov.videoErr = err
		} else {
			ov.videoID = id
			ov.embed = embedReady
			if m.prober != nil {
				ov.embed = embedChecking
				cmd = embedCheckCmd(m.ctx, m.prober, ov.token, id)
			}
		}
	}

	m.overlay = ov
	m.layoutOverlay()
	m.logger.Debug().
		Str("date", rec.Date).
		Str("media_type", string(rec.MediaType)).
		Uint64("overlay", ov.token).
		Msg("detail opened")
	return m, cmd
}

// openNotice shows a blocking message, replacing any overlay already open.
func (m *Model) openNotice(message string) {
	m.overlaySeq++
	m.overlay = &overlay{kind: overlayNotice, token: m.overlaySeq, message: message}
}

func (m *Model) closeOverlay() {
	m.overlay = nil
}

// handleOverlayKey handles keys while an overlay is open.
func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay.kind == overlayNotice {
		m.closeOverlay()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Close):
		m.closeOverlay()
		return m, nil
	case key.Matches(msg, m.keys.Open):
		return m, openURLCmd(m.opener, m.overlay.linkURL())
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	}

	var cmd tea.Cmd
	m.overlay.viewport, cmd = m.overlay.viewport.Update(msg)
	return m, cmd
}

// handleOverlayMouse dismisses on the close control or on a press outside the
// box. Presses inside the box do nothing.
func (m Model) handleOverlayMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.overlay.kind == overlayNotice {
		if isLeftPress(msg) {
			m.closeOverlay()
		}
		return m, nil
	}

	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		var cmd tea.Cmd
		m.overlay.viewport, cmd = m.overlay.viewport.Update(msg)
		return m, cmd
	}

	if !isLeftPress(msg) {
		return m, nil
	}

	box := m.overlayRect()
	switch {
	case closeRect(box).contains(msg.X, msg.Y):
		m.closeOverlay()
	case !box.contains(msg.X, msg.Y):
		m.closeOverlay()
	}
	return m, nil
}

// handleEmbedCheck applies an embed check result to the overlay it was
// started for.
func (m *Model) handleEmbedCheck(msg embedCheckMsg) {
	if m.overlay == nil || m.overlay.token != msg.token || m.overlay.embed != embedChecking {
		return
	}
	if msg.err != nil {
		m.overlay.embed = embedFailed
		evt := m.logger.Warn()
		if errors.Is(msg.err, video.ErrEmbedUnavailable) {
			evt = m.logger.Info()
		}
		evt.Err(msg.err).Str("video_id", string(msg.id)).Msg("embed unavailable, showing thumbnail")
	} else {
		m.overlay.embed = embedReady
	}
	m.layoutOverlay()
}

func (m *Model) handleBrowserOpened(msg browserOpenedMsg) {
	if msg.err != nil {
		m.flash = "could not open browser"
		m.logger.Warn().Err(msg.err).Str("url", msg.url).Msg("open browser failed")
		return
	}
	m.flash = "opened in browser"
	m.logger.Info().Str("url", msg.url).Msg("opened in browser")
}

// linkURL is the address the open key hands to the browser.
func (ov *overlay) linkURL() string {
	rec := ov.record
	switch rec.MediaType {
	case apod.MediaImage:
		return rec.DisplayURL()
	case apod.MediaVideo:
		if ov.videoErr == nil && ov.embed != embedFailed {
			return ov.videoID.WatchURL()
		}
		return rec.URL
	default:
		return rec.URL
	}
}

// overlayWidth is the outer width of the overlay box.
func (m Model) overlayWidth() int {
	limit := OverlayMaxWidth
	if m.overlay != nil && m.overlay.kind == overlayNotice {
		limit = 60
	}
	w := min(m.width-4, limit)
	if w < 20 {
		w = min(m.width, 20)
	}
	return max(w, 6)
}

// layoutOverlay sizes the explanation viewport to the window.
func (m *Model) layoutOverlay() {
	if m.overlay == nil || m.overlay.kind != overlayDetail {
		return
	}
	innerW := m.overlayWidth() - 4
	content := wrap(oneParagraph(m.overlay.record.Explanation), innerW)

	// On short screens the media lines scroll with the explanation.
	head, media := m.detailHeader(innerW)
	m.overlay.mediaScrolls = len(head)+len(media)+2+2+OverlayMinViewport > m.height
	if m.overlay.mediaScrolls {
		content = strings.Join(media, "\n") + "\n" + content
	} else {
		head = append(head, media...)
	}
	lines := strings.Count(content, "\n") + 1

	fixed := len(head) + 2                // blank line and footer
	available := m.height - 2 - 2 - fixed // screen margin and border
	height := min(max(available, OverlayMinViewport), lines, m.height-2-fixed)

	m.overlay.viewport.Width = innerW
	m.overlay.viewport.Height = max(height, 1)
	m.overlay.viewport.SetContent(content)
}

// detailHeader returns the lines above the explanation, each at most innerW
// cells wide: the title block and the media block.
func (m Model) detailHeader(innerW int) (head, mediaLines []string) {
	styles := m.theme.Styles()
	ov := m.overlay
	rec := ov.record

	title := ansi.Truncate(oneLine(rec.Title), max(innerW-len(closeControl)-1, 1), "…")
	pad := max(innerW-lipgloss.Width(title)-len(closeControl), 1)
	lines := []string{
		styles.Text.Bold(true).Render(title) + strings.Repeat(" ", pad) + styles.DangerText.Render(closeControl),
	}

	meta := styles.MutedText.Italic(true).Render(rec.Date)
	if c := strings.TrimSpace(rec.Copyright); c != "" {
		meta += styles.FaintText.Render("  © " + oneLine(c))
	}
	lines = append(lines, ansi.Truncate(meta, innerW, "…"), "")

	kind := cardKind(rec)
	lines = append(lines, styles.BadgeStyle(kind).Render(strings.ToUpper(kind)))

	var media []string
	switch rec.MediaType {
	case apod.MediaImage:
		media = append(media, styles.AccentText.Render(rec.DisplayURL()))
	case apod.MediaVideo:
		switch {
		case ov.videoErr != nil:
			media = append(media, styles.WarningText.Render("🎥 Video unavailable. Watch on YouTube: "+rec.URL))
		case ov.embed == embedFailed:
			media = append(media,
				styles.FaintText.Render("Thumbnail: ")+styles.AccentText.Render(ov.videoID.ThumbnailURL()),
				styles.WarningText.Render("The embed could not be loaded. Press o to watch on YouTube."))
		default:
			embed := styles.FaintText.Render("Embed: ") + styles.AccentText.Render(ov.videoID.EmbedURL())
			if ov.embed == embedChecking {
				embed += styles.FaintText.Render(" (checking…)")
			}
			media = append(media, embed)
		}
	default:
		media = append(media,
			styles.WarningText.Render(fmt.Sprintf("Unsupported media type %q.", string(rec.MediaType))),
			styles.FaintText.Render("Link: ")+styles.AccentText.Render(rec.URL))
	}
	for _, text := range media {
		mediaLines = append(mediaLines, strings.Split(wrap(text, innerW), "\n")...)
	}
	return lines, append(mediaLines, "")
}

// renderOverlayBox renders the overlay box without placement.
func (m Model) renderOverlayBox() string {
	styles := m.theme.Styles()
	outerW := m.overlayWidth()
	innerW := outerW - 4

	var lines []string
	switch m.overlay.kind {
	case overlayNotice:
		lines = append(lines, wrap(styles.Text.Bold(true).Render(m.overlay.message), innerW), "",
			styles.FaintText.Render("Press any key to continue."))
	default:
		head, media := m.detailHeader(innerW)
		lines = append(lines, head...)
		if !m.overlay.mediaScrolls {
			lines = append(lines, media...)
		}
		lines = append(lines, m.overlay.viewport.View(), "")
		hint := "o: open in browser  •  j/k: scroll  •  esc: close"
		if m.overlay.viewport.TotalLineCount() > m.overlay.viewport.Height {
			hint += fmt.Sprintf("  •  %3.f%%", m.overlay.viewport.ScrollPercent()*100)
		}
		lines = append(lines, styles.FaintText.Render(ansi.Truncate(hint, innerW, "…")))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(0, 1).
		Width(outerW - 2).
		Render(strings.Join(lines, "\n"))
}

// overlayRect is where the box lands on screen.
func (m Model) overlayRect() rect {
	box := m.renderOverlayBox()
	return centered(m.width, m.height, lipgloss.Width(box), lipgloss.Height(box))
}

// closeRect is the close control's cells: the last three columns of the
// first content row, inside border and padding.
func closeRect(box rect) rect {
	return rect{x: box.x + box.w - 2 - len(closeControl), y: box.y + 1, w: len(closeControl), h: 1}
}

func (m Model) renderOverlay() string {
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		m.renderOverlayBox(),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// wrap word-wraps text to width cells.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

// oneParagraph joins the explanation's lines into one paragraph.
func oneParagraph(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "No explanation provided."
	}
	return oneLine(s)
}

// Messages

type embedCheckMsg struct {
	token uint64
	id    video.ID
	err   error
}

// Commands

func embedCheckCmd(ctx context.Context, checker video.Checker, token uint64, id video.ID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, embedCheckTimeout)
		defer cancel()
		return embedCheckMsg{token: token, id: id, err: checker.Check(ctx, id)}
	}
}
