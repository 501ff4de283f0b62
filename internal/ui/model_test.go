package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/apodview/internal/apod"
	"github.com/five82/apodview/internal/browser"
	"github.com/five82/apodview/internal/facts"
	"github.com/five82/apodview/internal/gallery"
	"github.com/five82/apodview/internal/prefs"
	"github.com/five82/apodview/internal/state"
)

type fakeSource struct {
	records []apod.Record
	err     error
}

func (f fakeSource) FetchArchive(context.Context) ([]apod.Record, error) {
	return f.records, f.err
}

func testArchive() []apod.Record {
	return []apod.Record{
		{
			Date:        "2024-01-01",
			Title:       "Horsehead Nebula",
			MediaType:   apod.MediaImage,
			URL:         "https://apod.nasa.gov/apod/image/2401/horsehead.jpg",
			HDURL:       "https://apod.nasa.gov/apod/image/2401/horsehead_hd.jpg",
			Explanation: "A dark cloud of dust and gas in Orion.",
			Copyright:   "Jane Doe",
		},
		{
			Date:        "2024-01-02",
			Title:       "Lunar Eclipse Timelapse",
			MediaType:   apod.MediaVideo,
			URL:         "https://www.youtube.com/embed/dQw4w9WgXcQ?rel=0",
			Explanation: "The Moon slides through Earth's shadow.",
		},
		{
			Date:        "2024-01-03",
			Title:       "Vimeo Flight",
			MediaType:   apod.MediaVideo,
			URL:         "https://vimeo.com/12345",
			Explanation: "A flight over the aurora.",
		},
		{
			Date:        "2024-01-04",
			Title:       "Interactive Sky",
			MediaType:   apod.MediaType("other"),
			URL:         "https://apod.nasa.gov/apod/sky.html",
			Explanation: "Drag to look around.",
		},
	}
}

type recordingOpener struct {
	urls []string
}

func (r *recordingOpener) Open(u string) error {
	r.urls = append(r.urls, u)
	return nil
}

func newTestModel(t *testing.T, src gallery.Source, mutate ...func(*Options)) Model {
	t.Helper()
	opts := Options{
		Fetcher:     gallery.NewFetcher(src, &state.Store{}, zerolog.Nop()),
		Opener:      browser.OpenerFunc(func(string) error { return nil }),
		Logger:      zerolog.Nop(),
		PrefsPath:   filepath.Join(t.TempDir(), "prefs.toml"),
		FactOptions: []facts.Option{facts.WithIntn(func(int) int { return 0 })},
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	m := New(opts)
	return update(t, m, tea.WindowSizeMsg{Width: 80, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want ui.Model", next)
	}
	return out
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func leftPress(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

// search fills the form, submits it and delivers the fetch result.
func search(t *testing.T, m Model, start, end string) Model {
	t.Helper()
	m.setFocus(focusStart)
	m.inputs[0].SetValue(start)
	m.inputs[1].SetValue(end)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.pending.Generation == 0 {
		t.Fatalf("submit of %s..%s did not start a search", start, end)
	}
	res := m.fetcher.Run(context.Background(), m.pending)
	return update(t, m, searchResultMsg(res))
}

func TestNew_PicksFactForBanner(t *testing.T) {
	m := newTestModel(t, fakeSource{})
	if got, want := m.fact.Text(), facts.List()[0]; got != want {
		t.Fatalf("fact = %q, want %q", got, want)
	}
	if !strings.Contains(m.View(), "Did you know?") {
		t.Fatalf("view has no fact banner")
	}
}

func TestSubmit_InvalidRangeOpensNoticeWithoutFetching(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		want       string
	}{
		{"both empty", "", "", gallery.MsgMissingDates},
		{"end empty", "2024-01-01", "", gallery.MsgMissingDates},
		{"inverted", "2024-01-05", "2024-01-01", gallery.MsgInverted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestModel(t, fakeSource{records: testArchive()})
			m.inputs[0].SetValue(tc.start)
			m.inputs[1].SetValue(tc.end)

			m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
			if cmd != nil {
				t.Fatalf("rejected submit returned a command")
			}
			if m.overlay == nil || m.overlay.kind != overlayNotice || m.overlay.message != tc.want {
				t.Fatalf("overlay = %#v, want notice %q", m.overlay, tc.want)
			}
			if m.fetcher.Store().Current() != 0 || m.snapshot.Status != state.StatusIdle {
				t.Fatalf("rejected submit touched the store")
			}
			if !strings.Contains(m.View(), tc.want) {
				t.Fatalf("notice text missing from view")
			}

			m = update(t, m, runes("a"))
			if m.overlay != nil {
				t.Fatalf("notice not dismissed by a key press")
			}
		})
	}
}

func TestSearch_ShowsLoadingThenCardsInOrder(t *testing.T) {
	m := newTestModel(t, fakeSource{records: testArchive()})
	m.inputs[0].SetValue("2024-01-01")
	m.inputs[1].SetValue("2024-01-04")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.snapshot.Status != state.StatusLoading {
		t.Fatalf("status = %v, want loading", m.snapshot.Status)
	}
	if !strings.Contains(m.View(), gallery.MsgLoading) {
		t.Fatalf("loading message missing from view")
	}

	res := m.fetcher.Run(context.Background(), m.pending)
	m = update(t, m, searchResultMsg(res))

	if m.snapshot.Status != state.StatusLoaded || len(m.snapshot.Records) != 4 {
		t.Fatalf("snapshot = %#v", m.snapshot)
	}
	if m.selected != 0 {
		t.Fatalf("selected = %d, want 0", m.selected)
	}

	view := m.View()
	for _, want := range []string{"Horsehead Nebula", "Lunar Eclipse Timelapse", "UNSUPPORTED", "2024-01-04"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
	if strings.Index(view, "Horsehead Nebula") > strings.Index(view, "Lunar Eclipse Timelapse") {
		t.Fatalf("cards rendered out of feed order")
	}
	if strings.Contains(view, gallery.MsgLoading) {
		t.Fatalf("loading message still shown after load")
	}
}

func TestSearch_EmptyAndFailedMessages(t *testing.T) {
	m := newTestModel(t, fakeSource{records: testArchive()})
	m = search(t, m, "1999-01-01", "1999-01-31")
	if m.snapshot.Status != state.StatusEmpty || !strings.Contains(m.View(), gallery.MsgEmpty) {
		t.Fatalf("empty result not shown: status=%v", m.snapshot.Status)
	}

	m = newTestModel(t, fakeSource{err: errors.New("dial tcp: connection refused")})
	m = search(t, m, "2024-01-01", "2024-01-04")
	view := m.View()
	if m.snapshot.Status != state.StatusFailed || !strings.Contains(view, gallery.MsgFailed) {
		t.Fatalf("failure not shown: status=%v", m.snapshot.Status)
	}
	if strings.Contains(view, "Horsehead") {
		t.Fatalf("cards rendered after a failure")
	}
}

func TestSearch_SupersededResultIgnored(t *testing.T) {
	m := newTestModel(t, fakeSource{records: testArchive()})

	m.inputs[0].SetValue("2024-01-01")
	m.inputs[1].SetValue("2024-01-01")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	first := m.pending

	m.setFocus(focusStart)
	m.inputs[0].SetValue("2024-01-03")
	m.inputs[1].SetValue("2024-01-04")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	second := m.pending

	old := m.fetcher.Run(context.Background(), first)
	m = update(t, m, searchResultMsg(old))
	if m.snapshot.Status != state.StatusLoading {
		t.Fatalf("superseded result applied: status=%v", m.snapshot.Status)
	}

	m = update(t, m, searchResultMsg(m.fetcher.Run(context.Background(), second)))
	if len(m.snapshot.Records) != 2 || m.snapshot.Records[0].Title != "Vimeo Flight" {
		t.Fatalf("records = %#v", m.snapshot.Records)
	}
}

func TestKeyboardNavigation(t *testing.T) {
	m := search(t, newTestModel(t, fakeSource{records: testArchive()}), "2024-01-01", "2024-01-04")
	if cols := m.grid().cols; cols != 2 {
		t.Fatalf("cols = %d, want 2 at width 80", cols)
	}

	steps := []struct {
		key  string
		want int
	}{
		{"l", 1},
		{"j", 3},
		{"j", 3},
		{"h", 2},
		{"k", 0},
		{"G", 3},
		{"g", 0},
	}
	for _, step := range steps {
		m = update(t, m, runes(step.key))
		if m.selected != step.want {
			t.Fatalf("after %q selected = %d, want %d", step.key, m.selected, step.want)
		}
	}
}

func TestCardPress_OpensMatchingRecord(t *testing.T) {
	m := search(t, newTestModel(t, fakeSource{records: testArchive()}), "2024-01-01", "2024-01-04")
	g := m.grid()

	m = update(t, m, leftPress(CardWidth+CardGap+2, g.top+1))
	if m.overlay == nil || m.overlay.record.Title != "Lunar Eclipse Timelapse" {
		t.Fatalf("overlay = %#v, want second card", m.overlay)
	}
	if m.selected != 1 {
		t.Fatalf("selected = %d, want 1", m.selected)
	}
}

func TestCardPress_OnGapDoesNothing(t *testing.T) {
	m := search(t, newTestModel(t, fakeSource{records: testArchive()}), "2024-01-01", "2024-01-04")
	g := m.grid()

	m = update(t, m, leftPress(CardWidth, g.top+1))
	if m.overlay != nil {
		t.Fatalf("press between cards opened an overlay")
	}
}

func TestFormPress_FocusesFieldsAndSubmits(t *testing.T) {
	m := newTestModel(t, fakeSource{records: testArchive()})
	m.setFocus(focusGallery)
	f := m.frame()

	positions := map[formTarget]int{}
	x := 0
	for _, seg := range m.formSegments() {
		if _, seen := positions[seg.target]; !seen {
			positions[seg.target] = x
		}
		x += lipgloss.Width(seg.text)
	}

	m = update(t, m, leftPress(positions[targetEnd], f.formY))
	if m.focus != focusEnd {
		t.Fatalf("focus = %v, want end field", m.focus)
	}

	m = update(t, m, leftPress(positions[targetSubmit]+1, f.formY))
	if m.overlay == nil || m.overlay.message != gallery.MsgMissingDates {
		t.Fatalf("submit button press did not validate the form")
	}

	m = update(t, m, leftPress(0, 0))
	if m.overlay != nil {
		t.Fatalf("notice not dismissed by a press")
	}
}

func TestAutoSubmit_UsesPrefilledRange(t *testing.T) {
	m := newTestModel(t, fakeSource{records: testArchive()}, func(o *Options) {
		o.StartDate = "2024-01-01"
		o.EndDate = "2024-01-02"
		o.AutoSubmit = true
	})
	if m.focus != focusGallery {
		t.Fatalf("focus = %v, want gallery", m.focus)
	}
	if m.Init() == nil {
		t.Fatalf("Init returned nil command")
	}

	m = update(t, m, submitMsg{})
	if m.pending.Generation != 1 {
		t.Fatalf("auto submit did not start a search")
	}
	if got := m.pending.Range.String(); got != "2024-01-01 → 2024-01-02" {
		t.Fatalf("range = %q", got)
	}
}

func TestThemeCycle_PersistsPrefsWithLastRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := newTestModel(t, fakeSource{records: testArchive()}, func(o *Options) {
		o.PrefsPath = path
	})
	m = search(t, m, "2024-01-01", "2024-01-02")

	m = update(t, m, runes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}

	p, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Theme != "Kanagawa" || p.LastStart != "2024-01-01" || p.LastEnd != "2024-01-02" {
		t.Fatalf("prefs = %#v", p)
	}
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, fakeSource{})
	m.setFocus(focusGallery)

	m = update(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not shown")
	}
	m = update(t, m, runes("j"))
	if m.showHelp {
		t.Fatalf("help not closed by a key")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, fakeSource{})
	m.setFocus(focusGallery)

	_, cmd := updateCmd(t, m, runes("q"))
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestDiagnosticsView(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "apodview.log")
	lines := strings.Join([]string{
		`{"level":"info","component":"fetcher","request_id":"abc","time":"2024-01-01T10:00:00Z","message":"search finished"}`,
		`{"level":"error","component":"fetcher","error":"boom","time":"2024-01-01T10:00:01Z","message":"feed fetch failed"}`,
	}, "\n")
	if err := os.WriteFile(logPath, []byte(lines+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m := newTestModel(t, fakeSource{}, func(o *Options) { o.LogPath = logPath })
	m.setFocus(focusGallery)

	m, cmd := updateCmd(t, m, runes("L"))
	if m.view != ViewDiagnostics || cmd == nil {
		t.Fatalf("L did not open diagnostics")
	}

	m = update(t, m, loadDiagnosticsCmd(logPath)())
	if len(m.diagEntries) != 2 {
		t.Fatalf("entries = %d, want 2", len(m.diagEntries))
	}
	view := m.View()
	for _, want := range []string{"search finished", "ERR", "[fetcher]", "request_id=abc"} {
		if !strings.Contains(view, want) {
			t.Fatalf("diagnostics view missing %q", want)
		}
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != ViewGallery {
		t.Fatalf("esc did not return to gallery")
	}
}

func TestDiagnostics_NoLogFile(t *testing.T) {
	m := newTestModel(t, fakeSource{})
	m.setFocus(focusGallery)
	m = update(t, m, runes("L"))
	m = update(t, m, loadDiagnosticsCmd("")())
	if !strings.Contains(m.View(), "File logging is disabled.") {
		t.Fatalf("missing disabled notice")
	}
}

func TestDiagnostics_OneRefreshLoopAcrossVisits(t *testing.T) {
	m := newTestModel(t, fakeSource{})
	m.setFocus(focusGallery)

	var ticks []diagTickMsg
	for range 3 {
		m = update(t, m, runes("L"))
		ticks = append(ticks, diagTickMsg{seq: m.diagSeq})
	}
	if m.view != ViewDiagnostics {
		t.Fatalf("L,L,L left view %v, want diagnostics", m.view)
	}

	var live int
	for _, tick := range ticks {
		if _, cmd := updateCmd(t, m, tick); cmd != nil {
			live++
		}
	}
	if live != 1 {
		t.Fatalf("refresh loops after L,L,L = %d, want 1", live)
	}

	m = update(t, m, runes("L"))
	if _, cmd := updateCmd(t, m, diagTickMsg{seq: m.diagSeq}); cmd != nil {
		t.Fatalf("tick rescheduled after leaving the pane")
	}
}

func TestHeader_SummarizesSearch(t *testing.T) {
	m := newTestModel(t, fakeSource{records: testArchive()})
	m = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	m = search(t, m, "2024-01-01", "2024-01-04")
	header := m.renderHeader()
	for _, want := range []string{"4 results", "(4 days)", "at "} {
		if !strings.Contains(header, want) {
			t.Fatalf("header %q missing %q", header, want)
		}
	}

	failing := newTestModel(t, fakeSource{err: errors.New("offline")})
	failing = update(t, failing, tea.WindowSizeMsg{Width: 160, Height: 40})
	failing = search(t, failing, "2024-01-01", "2024-01-04")
	if header := failing.renderHeader(); !strings.Contains(header, "fetch failed") || strings.Contains(header, "in a row") {
		t.Fatalf("first failure header = %q", header)
	}
	failing = search(t, failing, "2024-01-01", "2024-01-04")
	if header := failing.renderHeader(); !strings.Contains(header, "fetch failed 2× in a row") {
		t.Fatalf("second failure header = %q", header)
	}
}
