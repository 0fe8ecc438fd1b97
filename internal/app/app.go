// Package app is the root Bubble Tea model. It owns the browser view,
// bridges config file changes into live theme and setting updates, and
// drives the initial navigation.
package app

import (
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/gemview/internal/config"
	"github.com/zjrosen/gemview/internal/log"
	"github.com/zjrosen/gemview/internal/pubsub"
	"github.com/zjrosen/gemview/internal/session"
	"github.com/zjrosen/gemview/internal/ui/browser"
	"github.com/zjrosen/gemview/internal/ui/styles"
	"github.com/zjrosen/gemview/internal/watcher"
)

// Options wires the application model to its collaborators.
type Options struct {
	Session *session.Session
	Config  config.Config

	// ConfigPath enables live reload when non-empty.
	ConfigPath string

	// ReloadConfig re-reads the config file after the watcher signals a
	// change. Nil disables live reload.
	ReloadConfig func() (config.Config, error)

	// StartURL is navigated to on startup. Empty shows a blank view.
	StartURL string

	AcceptCert   func(host string, fingerprint []byte) error
	OpenExternal func(url string)
}

// Model is the application root.
type Model struct {
	browser browser.Model
	sess    *session.Session
	cfg     config.Config

	startURL string
	cfgPath  string
	reload   func() (config.Config, error)

	// Config file watcher for live theme and setting updates.
	watcherHandle   *watcher.Watcher
	watcherCancel   context.CancelFunc
	watcherListener *pubsub.ContinuousListener[watcher.WatcherEvent]

	width  int
	height int
}

// New creates the application model and starts the config watcher.
func New(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	var (
		watcherHandle   *watcher.Watcher
		watcherListener *pubsub.ContinuousListener[watcher.WatcherEvent]
	)
	if opts.ConfigPath != "" && opts.ReloadConfig != nil {
		w, err := watcher.New(watcher.DefaultConfig(opts.ConfigPath))
		if err == nil {
			if err := w.Start(); err == nil {
				watcherHandle = w
				watcherListener = pubsub.NewContinuousListener(ctx, w.Broker())
			} else {
				_ = w.Stop()
			}
		}
		// The app works fine without live reload; watcher init errors
		// only cost the feature.
	}

	b := browser.New(ctx, browser.Config{
		Session:         opts.Session,
		MaxContentWidth: opts.Config.UI.MaxContentWidth,
		ShowStatusBar:   opts.Config.UI.ShowStatusBar,
		AcceptCert:      opts.AcceptCert,
		OpenExternal:    opts.OpenExternal,
	})

	return Model{
		browser:         b,
		sess:            opts.Session,
		cfg:             opts.Config,
		startURL:        opts.StartURL,
		cfgPath:         opts.ConfigPath,
		reload:          opts.ReloadConfig,
		watcherHandle:   watcherHandle,
		watcherCancel:   cancel,
		watcherListener: watcherListener,
	}
}

// Init starts the browser, the watcher listener and the first navigation.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.browser.Init()}

	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}

	if m.startURL != "" {
		sess, url := m.sess, m.startURL
		cmds = append(cmds, func() tea.Msg {
			sess.Navigate(url)
			return nil
		})
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case browser.SettingToggled:
		m.persistToggle(msg)
		return m, nil

	case pubsub.Event[watcher.WatcherEvent]:
		switch msg.Payload.Kind {
		case watcher.ConfigChanged:
			m.applyConfigReload()
		case watcher.WatcherError:
			log.Warn(log.CatConfig, "config watcher error", "error", msg.Payload.Error)
		}
		return m, m.watcherListener.Listen()
	}

	var cmd tea.Cmd
	m.browser, cmd = m.browser.Update(msg)
	return m, cmd
}

// View renders the browser and resolves click zones.
func (m Model) View() string {
	return zone.Scan(m.browser.View())
}

// Shutdown releases the watcher and event subscriptions. Call after the
// program loop exits.
func (m Model) Shutdown() {
	m.watcherCancel()
	if m.watcherHandle != nil {
		_ = m.watcherHandle.Stop()
	}
}

// persistToggle records a runtime setting flip in the config file so it
// survives restarts. Without a config path the flip stays session-local.
func (m *Model) persistToggle(msg browser.SettingToggled) {
	switch msg.Key {
	case browser.SettingShowStatusBar:
		m.cfg.UI.ShowStatusBar = msg.Enabled
	case browser.SettingSmoothScrolling:
		m.cfg.UI.SmoothScrolling = msg.Enabled
	}
	if m.cfgPath == "" {
		return
	}
	var err error
	switch msg.Key {
	case browser.SettingSmoothScrolling:
		err = config.SaveSmoothScrolling(m.cfgPath, msg.Enabled)
	default:
		err = config.SaveSetting(m.cfgPath, msg.Key, strconv.FormatBool(msg.Enabled))
	}
	if err != nil {
		log.Warn(log.CatConfig, "persisting setting failed", "key", msg.Key, "error", err)
		return
	}
	log.Debug(log.CatConfig, "setting persisted", "key", msg.Key, "enabled", msg.Enabled)
}

// applyConfigReload re-reads the config file and applies the themeable
// settings without restarting.
func (m *Model) applyConfigReload() {
	cfg, err := m.reload()
	if err != nil {
		log.Warn(log.CatConfig, "config reload failed", "error", err)
		return
	}

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Mode:   cfg.Theme.Mode,
		Colors: cfg.Theme.FlattenedColors(),
	}); err != nil {
		log.Warn(log.CatConfig, "theme reload rejected", "error", err)
		return
	}

	m.cfg = cfg
	m.sess.SetSmoothScrolling(cfg.UI.SmoothScrolling)
	m.browser = m.browser.ApplyUI(cfg.UI.MaxContentWidth, cfg.UI.ShowStatusBar)

	// Restyle everything on the next frame.
	m.sess.VisBuf().Invalidate()
	log.Info(log.CatConfig, "config reloaded", "preset", cfg.Theme.Preset)
}
