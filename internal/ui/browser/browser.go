// Package browser is the interactive document view. It owns the keyboard
// and mouse surface, paints the session's row cache, and bridges session
// events into the Bubble Tea update loop.
package browser

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/gemview/internal/gemtext"
	"github.com/zjrosen/gemview/internal/keys"
	"github.com/zjrosen/gemview/internal/log"
	"github.com/zjrosen/gemview/internal/pubsub"
	"github.com/zjrosen/gemview/internal/session"
	"github.com/zjrosen/gemview/internal/ui/styles"
)

// frameInterval is the redraw cadence while an animation is running.
const frameInterval = 33 * time.Millisecond

const (
	// logPaneLines is the number of entries the log pane shows.
	logPaneLines = 8
	// logBufferCap bounds the retained log tail.
	logBufferCap = 200
)

// frameMsg is an animation frame tick.
type frameMsg time.Time

// Config keys for settings the user can flip at runtime.
const (
	SettingShowStatusBar   = "ui.show_status_bar"
	SettingSmoothScrolling = "ui.smooth_scrolling"
)

// SettingToggled reports a runtime setting flip so the owning model can
// persist it to the config file.
type SettingToggled struct {
	Key     string
	Enabled bool
}

func settingCmd(key string, enabled bool) tea.Cmd {
	return func() tea.Msg {
		return SettingToggled{Key: key, Enabled: enabled}
	}
}

// promptKind selects what the bottom-line text input is collecting.
type promptKind int

const (
	promptNone promptKind = iota
	// promptQuery answers a server input prompt (status 10/11).
	promptQuery
	// promptURL is the manual URL bar.
	promptURL
	// promptFind is the in-page search box.
	promptFind
	// promptLinkNum follows a link by its displayed number.
	promptLinkNum
	// promptSave asks where to write the page source.
	promptSave
)

// Config wires the browser to its collaborators.
type Config struct {
	Session *session.Session

	// MaxContentWidth caps the layout width; zero means no cap.
	MaxContentWidth int
	ShowStatusBar   bool

	// AcceptCert re-pins a changed server certificate after the user
	// confirms a trust warning.
	AcceptCert func(host string, fingerprint []byte) error

	// OpenExternal is invoked for links the client does not open itself.
	// Nil leaves only the status line notice.
	OpenExternal func(url string)
}

// Model is the browser view.
type Model struct {
	sess      *session.Session
	keys      keys.KeyMap
	inputKeys keys.InputKeyMap

	help  help.Model
	spin  spinner.Model
	input textinput.Model

	prompt      promptKind
	promptLabel string

	width  int
	height int

	showStatus bool
	showHelp   bool
	showLog    bool

	// showLinkNums reveals link ordinals while the link-number prompt is
	// open.
	showLinkNums bool

	flash      string
	flashStyle lipgloss.Style

	// pendingCert holds an unconfirmed trust warning until the user
	// accepts or dismisses it.
	pendingCert *session.CertWarning
	acceptCert  func(host string, fingerprint []byte) error
	openExt     func(url string)

	listener *pubsub.ContinuousListener[session.Event]

	// logListener tails the global logger for the in-app log pane; nil
	// when logging is disabled.
	logListener *log.LogListener
	logLines    []string

	// animating is true while a frame tick command is in flight, so at
	// most one tick chain runs at a time.
	animating bool

	// lastQuery repeats the previous search on "find next".
	lastQuery string

	// linkRows caches the first row of each link for number hints. It is
	// a pointer so the cache survives the value copies Bubble Tea makes.
	linkRows *linkRowCache

	maxContentWidth int
}

// linkRowCache maps each link to its first document row, tagged with the
// layout generation it was computed from.
type linkRowCache struct {
	rows map[gemtext.LinkID]int
	gen  uint64
}

// New creates the browser view. The context bounds the session event
// subscription.
func New(ctx context.Context, cfg Config) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.SpinnerStyle

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 1024

	return Model{
		sess:            cfg.Session,
		keys:            keys.DefaultKeyMap(),
		inputKeys:       keys.DefaultInputKeyMap(),
		help:            help.New(),
		spin:            spin,
		input:           input,
		showStatus:      cfg.ShowStatusBar,
		acceptCert:      cfg.AcceptCert,
		openExt:         cfg.OpenExternal,
		listener:        pubsub.NewContinuousListener(ctx, cfg.Session.Events()),
		logListener:     log.NewListener(ctx),
		linkRows:        &linkRowCache{},
		maxContentWidth: cfg.MaxContentWidth,
	}
}

// Init starts listening for session and log events.
func (m Model) Init() tea.Cmd {
	if m.logListener == nil {
		return m.listener.Listen()
	}
	return tea.Batch(m.listener.Listen(), m.logListener.Listen())
}

// ApplyUI pushes the config-controlled view settings, e.g. after a live
// config reload.
func (m Model) ApplyUI(maxContentWidth int, showStatusBar bool) Model {
	m.maxContentWidth = maxContentWidth
	m.showStatus = showStatusBar
	m.resize()
	return m
}

// contentWidth is the layout width after applying the configured cap.
func (m *Model) contentWidth() int {
	w := m.width
	if m.maxContentWidth > 0 && w > m.maxContentWidth {
		w = m.maxContentWidth
	}
	return w
}

// contentHeight is the viewport height left after the bottom chrome.
func (m *Model) contentHeight() int {
	h := m.height - m.chromeHeight()
	if h < 1 {
		h = 1
	}
	return h
}

// chromeHeight counts the rows taken by the status bar, prompt line and
// expanded help.
func (m *Model) chromeHeight() int {
	rows := 0
	if m.showStatus {
		rows++
	}
	if m.prompt != promptNone {
		rows++
	}
	if m.showHelp {
		rows += lipgloss.Height(m.help.View(m.keys))
	}
	if m.showLog {
		rows += logPaneLines + 1
	}
	return rows
}

// resize pushes the current dimensions into the session.
func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.sess.SetViewport(m.contentWidth(), m.contentHeight())
}

// frameCmd schedules the next animation frame.
func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// startAnim kicks off the frame tick chain if it is not already running.
func (m *Model) startAnim() tea.Cmd {
	if m.animating {
		return nil
	}
	m.animating = true
	return frameCmd()
}

// setFlash replaces the transient status line message.
func (m *Model) setFlash(text string, style lipgloss.Style) {
	m.flash = text
	m.flashStyle = style
}

// openPrompt focuses the bottom-line input.
func (m *Model) openPrompt(kind promptKind, label, initial string, sensitive bool) tea.Cmd {
	m.prompt = kind
	if kind == promptLinkNum {
		m.showLinkNums = true
		m.invalidateLinkRows()
	}
	m.promptLabel = label
	m.input.SetValue(initial)
	m.input.CursorEnd()
	if sensitive {
		m.input.EchoMode = textinput.EchoPassword
	} else {
		m.input.EchoMode = textinput.EchoNormal
	}
	m.resize()
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

// closePrompt blurs and hides the bottom-line input.
func (m *Model) closePrompt() {
	if m.showLinkNums {
		m.showLinkNums = false
		m.invalidateLinkRows()
	}
	m.prompt = promptNone
	m.promptLabel = ""
	m.input.Blur()
	m.input.SetValue("")
	m.resize()
}
