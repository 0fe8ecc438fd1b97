package browser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/gemview/internal/gemini"
	"github.com/zjrosen/gemview/internal/gemtext"
	"github.com/zjrosen/gemview/internal/pubsub"
	"github.com/zjrosen/gemview/internal/session"
	"github.com/zjrosen/gemview/internal/ui/styles"
)

// Update handles messages for the browser view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - len(m.promptLabel) - 4
		m.resize()
		return m, nil

	case pubsub.Event[session.Event]:
		var cmds []tea.Cmd
		if cmd := m.handleSessionEvent(msg.Payload); cmd != nil {
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.listener.Listen())
		return m, tea.Batch(cmds...)

	case pubsub.Event[string]:
		m.logLines = append(m.logLines, strings.TrimSuffix(msg.Payload, "\n"))
		if len(m.logLines) > logBufferCap {
			m.logLines = m.logLines[len(m.logLines)-logBufferCap:]
		}
		if m.logListener != nil {
			return m, m.logListener.Listen()
		}
		return m, nil

	case frameMsg:
		if m.sess.TickAnimations(time.Time(msg)) {
			return m, frameCmd()
		}
		m.animating = false
		return m, nil

	case spinner.TickMsg:
		if m.sess.State() == session.Fetching || m.sess.State() == session.PartialResponse {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.handlePromptKey(msg)
		}
		return m.handleBrowseKey(msg)
	}

	return m, nil
}

// handleSessionEvent folds one session event into the view state.
func (m *Model) handleSessionEvent(ev session.Event) tea.Cmd {
	switch ev := ev.(type) {
	case session.RequestUpdated:
		m.sess.ProcessUpdate(time.Now())
		return nil

	case session.StateChanged:
		if ev.State == session.Fetching {
			m.setFlash("", styles.MutedStyle)
			return m.spin.Tick
		}
		if ev.State == session.Ready {
			m.flash = ""
		}
		return nil

	case session.DocumentChanged:
		m.pendingCert = nil
		return nil

	case session.RunsInvalidated:
		// Rows were dropped from the cache; the next View repaints them.
		return nil

	case session.FetchProgress:
		m.setFlash(fmt.Sprintf("receiving %s (%d KB)", ev.URL, ev.Bytes/1024), styles.MutedStyle)
		return nil

	case session.InputRequired:
		label := ev.Prompt
		if label == "" {
			label = "Input"
		}
		return m.openPrompt(promptQuery, label, "", ev.Sensitive)

	case session.RedirectFollowed:
		m.setFlash(fmt.Sprintf("redirected to %s", ev.To), styles.MutedStyle)
		return nil

	case session.FetchFailed:
		m.setFlash(gemini.ErrorFor(ev.Code).Title, styles.StatusErrorStyle)
		return nil

	case session.ExternalLinkRequested:
		if m.openExt != nil {
			m.openExt(ev.URL)
			m.setFlash(fmt.Sprintf("opened externally: %s", ev.URL), styles.MutedStyle)
		} else {
			m.setFlash(fmt.Sprintf("external link: %s", ev.URL), styles.StatusWarningStyle)
		}
		return nil

	case session.MediaUpdated:
		return nil

	case session.CertWarning:
		m.pendingCert = &ev
		m.setFlash(
			fmt.Sprintf("certificate for %s changed, a accepts / esc dismisses", ev.Host),
			styles.StatusWarningStyle,
		)
		return nil
	}

	return nil
}

// handleBrowseKey processes a key press while no prompt is open.
func (m Model) handleBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	now := time.Now()

	// A pending trust warning captures accept/dismiss before anything else.
	if m.pendingCert != nil {
		switch {
		case msg.String() == "a":
			return m.acceptPendingCert()
		case key.Matches(msg, m.keys.Escape):
			m.pendingCert = nil
			m.flash = ""
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.resize()
		return m, nil

	case key.Matches(msg, m.keys.ToggleStatus):
		m.showStatus = !m.showStatus
		m.resize()
		return m, settingCmd(SettingShowStatusBar, m.showStatus)

	case key.Matches(msg, m.keys.ToggleLog):
		m.showLog = !m.showLog
		m.resize()
		return m, nil

	case key.Matches(msg, m.keys.ToggleSmooth):
		on := !m.sess.SmoothScrolling()
		m.sess.SetSmoothScrolling(on)
		if on {
			m.setFlash("smooth scrolling on", styles.MutedStyle)
		} else {
			m.setFlash("smooth scrolling off", styles.MutedStyle)
		}
		return m, settingCmd(SettingSmoothScrolling, on)

	case key.Matches(msg, m.keys.Escape):
		m.flash = ""
		return m, nil

	// Scrolling
	case key.Matches(msg, m.keys.Up):
		m.sess.ScrollBy(-1, now)
		return m, m.startAnim()
	case key.Matches(msg, m.keys.Down):
		m.sess.ScrollBy(1, now)
		return m, m.startAnim()
	case key.Matches(msg, m.keys.PageUp):
		m.sess.ScrollBy(-m.contentHeight(), now)
		return m, m.startAnim()
	case key.Matches(msg, m.keys.PageDown):
		m.sess.ScrollBy(m.contentHeight(), now)
		return m, m.startAnim()
	case key.Matches(msg, m.keys.HalfUp):
		m.sess.ScrollBy(-m.contentHeight()/2, now)
		return m, m.startAnim()
	case key.Matches(msg, m.keys.HalfDown):
		m.sess.ScrollBy(m.contentHeight()/2, now)
		return m, m.startAnim()
	case key.Matches(msg, m.keys.Top):
		m.sess.ScrollTo(0, now)
		return m, m.startAnim()
	case key.Matches(msg, m.keys.Bottom):
		m.sess.ScrollTo(m.sess.Doc().Height(), now)
		return m, m.startAnim()

	case key.Matches(msg, m.keys.WideLeft):
		if m.panWideBlock(-wideStep, now) {
			return m, m.startAnim()
		}
		return m, nil
	case key.Matches(msg, m.keys.WideRight):
		if m.panWideBlock(wideStep, now) {
			return m, m.startAnim()
		}
		return m, nil

	// Navigation
	case key.Matches(msg, m.keys.Back):
		if !m.sess.Back() {
			m.setFlash("already at the oldest entry", styles.MutedStyle)
		}
		return m, nil
	case key.Matches(msg, m.keys.Forward):
		if !m.sess.Forward() {
			m.setFlash("already at the newest entry", styles.MutedStyle)
		}
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		m.sess.Reload()
		return m, nil
	case key.Matches(msg, m.keys.GoParent):
		m.sess.GoParent()
		return m, nil
	case key.Matches(msg, m.keys.GoRoot):
		m.sess.GoRoot()
		return m, nil
	case key.Matches(msg, m.keys.CancelFetch):
		m.sess.CancelFetch()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		cmd := m.openPrompt(promptSave, "Save to", defaultSaveName(m.sess.URL()), false)
		return m, cmd

	case key.Matches(msg, m.keys.OpenURL):
		cmd := m.openPrompt(promptURL, "Go to", m.sess.URL(), false)
		return m, cmd
	case key.Matches(msg, m.keys.FollowNum):
		cmd := m.openPrompt(promptLinkNum, "Link", "", false)
		return m, cmd

	// Search
	case key.Matches(msg, m.keys.Find):
		cmd := m.openPrompt(promptFind, "Find", m.lastQuery, false)
		return m, cmd
	case key.Matches(msg, m.keys.FindNext):
		if m.lastQuery == "" {
			return m, nil
		}
		if !m.sess.Search(m.lastQuery) {
			m.setFlash(fmt.Sprintf("no match for %q", m.lastQuery), styles.MutedStyle)
		}
		return m, m.startAnim()
	}

	return m, nil
}

// wideStep is the cell count one pan key press moves a wide block by.
const wideStep = 8

// handlePromptKey processes a key press while the bottom-line input is
// focused.
func (m Model) handlePromptKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.inputKeys.Cancel):
		m.closePrompt()
		return m, nil

	case key.Matches(msg, m.inputKeys.Submit):
		value := strings.TrimSpace(m.input.Value())
		kind := m.prompt
		m.closePrompt()
		return m.submitPrompt(kind, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitPrompt dispatches a confirmed prompt value.
func (m Model) submitPrompt(kind promptKind, value string) (Model, tea.Cmd) {
	switch kind {
	case promptQuery:
		m.sess.SubmitInput(value)

	case promptURL:
		if value == "" {
			return m, nil
		}
		m.sess.Navigate(normalizeURLInput(value))

	case promptFind:
		if value == "" {
			return m, nil
		}
		m.lastQuery = value
		if !m.sess.Search(value) {
			m.setFlash(fmt.Sprintf("no match for %q", value), styles.MutedStyle)
		}
		return m, m.startAnim()

	case promptLinkNum:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			m.setFlash("not a link number", styles.MutedStyle)
			return m, nil
		}
		m.activateLink(gemtext.LinkID(n))

	case promptSave:
		if value == "" {
			return m, nil
		}
		if err := m.sess.SaveSource(value); err != nil {
			m.setFlash(fmt.Sprintf("save failed: %v", err), styles.StatusErrorStyle)
			return m, nil
		}
		m.setFlash(fmt.Sprintf("saved to %s", value), styles.StatusSuccessStyle)
	}
	return m, nil
}

// defaultSaveName suggests a file name from the URL's last path segment.
func defaultSaveName(url string) string {
	rest := url
	if idx := strings.Index(rest, "://"); idx >= 0 {
		rest = rest[idx+3:]
	}
	if !strings.Contains(rest, "/") || strings.HasSuffix(rest, "/") {
		return "index.gmi"
	}
	return rest[strings.LastIndex(rest, "/")+1:]
}

// handleMouse processes wheel scrolling and link clicks.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	now := time.Now()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.sess.ScrollBy(-3, now)
		return m, m.startAnim()
	case tea.MouseButtonWheelDown:
		m.sess.ScrollBy(3, now)
		return m, m.startAnim()
	}

	// Hover tracking pauses while a scroll animation is running; the zones
	// lag the moving content.
	if msg.Action == tea.MouseActionMotion {
		if m.animating {
			return m, nil
		}
		m.sess.SetHoverLink(m.linkAt(msg))
		return m, nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if id := m.linkAt(msg); id != 0 {
		m.activateLink(id)
	}
	return m, nil
}

// linkAt returns the link whose click zone contains the mouse position.
func (m *Model) linkAt(msg tea.MouseMsg) gemtext.LinkID {
	for _, link := range m.sess.Doc().Links() {
		if z := zone.Get(linkZoneID(link.ID)); z != nil && z.InBounds(msg) {
			return link.ID
		}
	}
	return 0
}

// activateLink fetches inline media for image/audio links and navigates
// for everything else.
func (m *Model) activateLink(id gemtext.LinkID) {
	if m.sess.FetchMedia(id) {
		return
	}
	if !m.sess.OpenLink(id) {
		m.setFlash("no such link", styles.MutedStyle)
	}
}

// panWideBlock pans the first wide preformatted block in view.
func (m *Model) panWideBlock(delta int, now time.Time) bool {
	var preID uint16
	m.sess.Doc().Render(m.sess.VisibleRange(now), func(run *gemtext.Run) {
		if preID == 0 && run.IsWide() {
			preID = run.PreID
		}
	})
	if preID == 0 {
		return false
	}
	return m.sess.ScrollWideBlock(preID, delta, now)
}

// acceptPendingCert re-pins the changed certificate and reloads.
func (m Model) acceptPendingCert() (Model, tea.Cmd) {
	warn := m.pendingCert
	m.pendingCert = nil
	if m.acceptCert == nil {
		m.setFlash("trust store unavailable", styles.StatusErrorStyle)
		return m, nil
	}
	if err := m.acceptCert(warn.Host, warn.Fingerprint); err != nil {
		m.setFlash(fmt.Sprintf("pin update failed: %v", err), styles.StatusErrorStyle)
		return m, nil
	}
	m.flash = ""
	m.sess.Reload()
	return m, nil
}

// normalizeURLInput fills in the gemini scheme when the user omits it.
func normalizeURLInput(s string) string {
	if strings.Contains(s, "://") || strings.HasPrefix(s, "about:") {
		return s
	}
	return "gemini://" + s
}
