package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/apodview/internal/browser"
	"github.com/five82/apodview/internal/facts"
	"github.com/five82/apodview/internal/gallery"
	"github.com/five82/apodview/internal/logtail"
	"github.com/five82/apodview/internal/prefs"
	"github.com/five82/apodview/internal/state"
	"github.com/five82/apodview/internal/video"
)

// View represents the current active view.
type View int

const (
	ViewGallery View = iota
	ViewDiagnostics
)

// focusArea is where keyboard input goes when no overlay is open.
type focusArea int

const (
	focusStart focusArea = iota
	focusEnd
	focusGallery
)

// Options configures the UI.
type Options struct {
	Context     context.Context
	Fetcher     *gallery.Fetcher
	Prober      video.Checker // nil skips the embed check
	Opener      browser.Opener
	Logger      zerolog.Logger
	LogPath     string
	ThemeName   string
	PrefsPath   string
	StartDate   string
	EndDate     string
	AutoSubmit  bool
	FactOptions []facts.Option
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	fetcher    *gallery.Fetcher
	prober     video.Checker
	opener     browser.Opener
	logger     zerolog.Logger
	logPath    string
	prefsPath  string
	keys       keyMap
	autoSubmit bool

	// UI state
	theme  Theme
	view   View
	width  int
	height int
	ready  bool
	focus  focusArea
	flash  string

	// Fact banner
	fact *facts.TextTarget

	// Date form
	inputs    [2]textinput.Model // start, end
	lastStart string
	lastEnd   string

	// Gallery state
	snapshot  state.Snapshot
	pending   gallery.Request
	selected  int
	rowOffset int
	spinner   spinner.Model

	// Detail or notice overlay; at most one exists
	overlay    *overlay
	overlaySeq uint64

	// Help overlay
	showHelp bool

	// Diagnostics state
	diagViewport viewport.Model
	diagEntries  []logtail.Entry
	diagErr      error
	diagSeq      uint64 // bumped on every visit to the pane
}

// New creates a new Bubble Tea model and picks the fact shown in the banner.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	opener := opts.Opener
	if opener == nil {
		opener = browser.NewSystem()
	}

	target := &facts.TextTarget{}
	facts.NewPicker(target, opts.FactOptions...).DisplayRandomFact()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		ctx:        ctx,
		fetcher:    opts.Fetcher,
		prober:     opts.Prober,
		opener:     opener,
		logger:     opts.Logger,
		logPath:    opts.LogPath,
		prefsPath:  prefsPath,
		keys:       DefaultKeyMap(),
		autoSubmit: opts.AutoSubmit,
		theme:      GetTheme(themeName),
		view:       ViewGallery,
		fact:       target,
		lastStart:  strings.TrimSpace(opts.StartDate),
		lastEnd:    strings.TrimSpace(opts.EndDate),
		spinner:    sp,
		selected:   -1,
	}
	m.initInputs(m.lastStart, m.lastEnd)
	m.diagViewport = viewport.New(0, 0)
	if m.autoSubmit {
		m.setFocus(focusGallery)
	} else {
		m.setFocus(focusStart)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.autoSubmit {
		cmds = append(cmds, func() tea.Msg { return submitMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layoutOverlay()
		m.updateDiagViewport()
		m.rowOffset = m.grid().scrollTo(m.selected)
		return m, nil

	case submitMsg:
		return m.submit()

	case searchResultMsg:
		return m.handleSearchResult(gallery.Result(msg))

	case embedCheckMsg:
		m.handleEmbedCheck(msg)
		return m, nil

	case browserOpenedMsg:
		m.handleBrowserOpened(msg)
		return m, nil

	case spinner.TickMsg:
		if m.snapshot.Status != state.StatusLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case diagLoadedMsg:
		m.handleDiagLoaded(msg)
		return m, nil

	case diagTickMsg:
		if m.view != ViewDiagnostics || msg.seq != m.diagSeq {
			return m, nil
		}
		return m, tea.Batch(loadDiagnosticsCmd(m.logPath), diagTickCmd(m.diagSeq))
	}

	// Cursor blink and other input housekeeping
	if idx, ok := m.focusedInput(); ok {
		var cmd tea.Cmd
		m.inputs[idx], cmd = m.inputs[idx].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.overlay != nil {
		return m.renderOverlay()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.overlay != nil {
		return m.handleOverlayKey(msg)
	}

	if m.view == ViewDiagnostics {
		return m.handleDiagnosticsKey(msg)
	}

	if _, ok := m.focusedInput(); ok {
		return m.handleFormKey(msg)
	}

	return m.handleGalleryKey(msg)
}

// handleMouse routes presses and wheel events. Only left presses act.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if isLeftPress(msg) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.overlay != nil {
		return m.handleOverlayMouse(msg)
	}

	if m.view == ViewDiagnostics {
		var cmd tea.Cmd
		m.diagViewport, cmd = m.diagViewport.Update(msg)
		return m, cmd
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollRows(-1)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scrollRows(1)
		return m, nil
	}

	if !isLeftPress(msg) {
		return m, nil
	}

	f := m.frame()
	if msg.Y >= f.formY && msg.Y < f.formY+f.formLines {
		switch m.formTargetAt(msg.X) {
		case targetStart:
			m.setFocus(focusStart)
		case targetEnd:
			m.setFocus(focusEnd)
		case targetSubmit:
			return m.submit()
		}
		return m, nil
	}

	if idx := m.grid().cardAt(msg.X, msg.Y); idx >= 0 {
		m.selected = idx
		m.setFocus(focusGallery)
		return m.openDetail(idx)
	}
	return m, nil
}

func isLeftPress(msg tea.MouseMsg) bool {
	return msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft
}

// cycleTheme switches to the next theme and persists it.
func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.savePrefs()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, LastStart: m.lastStart, LastEnd: m.lastEnd}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn().Err(err).Str("path", m.prefsPath).Msg("save preferences failed")
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	f := m.frame()

	var body string
	if m.view == ViewDiagnostics {
		body = m.renderDiagnostics(f.bodyHeight)
	} else {
		body = m.renderGallery(m.grid())
	}

	var b strings.Builder
	b.WriteString(f.header)
	b.WriteString("\n")
	b.WriteString(f.fact)
	b.WriteString("\n")
	b.WriteString(f.form)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	return b.String()
}

// Messages

type submitMsg struct{}

type searchResultMsg gallery.Result

type browserOpenedMsg struct {
	url string
	err error
}

// Commands

func searchCmd(ctx context.Context, f *gallery.Fetcher, req gallery.Request) tea.Cmd {
	return func() tea.Msg {
		return searchResultMsg(f.Run(ctx, req))
	}
}

func openURLCmd(opener browser.Opener, url string) tea.Cmd {
	return func() tea.Msg {
		return browserOpenedMsg{url: url, err: opener.Open(url)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
