package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/gemview/internal/app"
	"github.com/zjrosen/gemview/internal/cachemanager"
	"github.com/zjrosen/gemview/internal/config"
	"github.com/zjrosen/gemview/internal/flags"
	"github.com/zjrosen/gemview/internal/gemini"
	"github.com/zjrosen/gemview/internal/history"
	"github.com/zjrosen/gemview/internal/infrastructure/sqlite"
	"github.com/zjrosen/gemview/internal/log"
	"github.com/zjrosen/gemview/internal/session"
	"github.com/zjrosen/gemview/internal/tracing"
	"github.com/zjrosen/gemview/internal/trust"
	"github.com/zjrosen/gemview/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// savedSessionName is the saved-view slot the last session is stored in.
const savedSessionName = "last"

var (
	version  = "dev"
	cfgFile  string
	logFile  string
	logLevel string
	cfg      config.Config
)

var rootCmd = &cobra.Command{
	Use:     "gemview [url]",
	Short:   "A terminal browser for the Gemini protocol",
	Long:    `A terminal browser for Gemini capsules with inline media, trust-on-first-use certificate pinning and a persistent session.`,
	Args:    cobra.MaximumNArgs(1),
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/gemview/gemview.yaml)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "",
		"write debug logs to this file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "debug",
		"minimum log level (debug, info, warn, error, off)")
	rootCmd.Flags().Bool("no-restore", false,
		"start fresh instead of restoring the previous session")
	rootCmd.Flags().Bool("trace", false,
		"enable tracing for this run regardless of config")
}

// defaultConfigPath is where a fresh config file is written.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gemview", "gemview.yaml")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("start_url", defaults.StartURL)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.smooth_scrolling", defaults.UI.SmoothScrolling)
	viper.SetDefault("ui.max_content_width", defaults.UI.MaxContentWidth)
	viper.SetDefault("theme.preset", defaults.Theme.Preset)
	viper.SetDefault("cache.page_ttl", defaults.Cache.PageTTL)
	viper.SetDefault("network.timeout", defaults.Network.Timeout)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// A project-local .gemview directory takes precedence over the
		// per-user config.
		home, _ := os.UserHomeDir()
		viper.AddConfigPath(".gemview")
		viper.AddConfigPath(filepath.Join(home, ".config", "gemview"))
		viper.SetConfigName("gemview")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// First run: write a commented default config and load that.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if path := defaultConfigPath(); path != "" {
				if writeErr := config.WriteDefaultConfig(path); writeErr == nil {
					viper.SetConfigFile(path)
					_ = viper.ReadInConfig()
				}
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// reloadConfig re-reads the config file for live updates.
func reloadConfig() (config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("re-reading config: %w", err)
	}
	var next config.Config
	if err := viper.Unmarshal(&next); err != nil {
		return config.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := config.Validate(next); err != nil {
		return config.Config{}, err
	}
	return next, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if logFile != "" {
		cleanup, err := log.Init(logFile)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer cleanup()
		if logLevel == "off" {
			log.SetEnabled(false)
		} else {
			log.SetMinLevel(log.ParseLevel(logLevel))
		}
	}

	if traceOn, _ := cmd.Flags().GetBool("trace"); traceOn {
		cfg.Tracing.Enabled = true
	}

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Mode:   cfg.Theme.Mode,
		Colors: cfg.Theme.FlattenedColors(),
	}); err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}

	// State database: certificate pins and the saved session. The browser
	// works without it, losing persistence only.
	var (
		db         *sql.DB
		trustStore *trust.Store
		views      *sqlite.ViewRepository
	)
	if path := config.DefaultStateDBPath(); path != "" {
		d, err := sqlite.NewDB(path)
		if err != nil {
			log.Warn(log.CatDB, "state database unavailable", "error", err)
		} else {
			db = d
			defer func() { _ = db.Close() }()
			trustStore = trust.NewStore(sqlite.NewHostRepository(db))
			views = sqlite.NewViewRepository(db)
		}
	}

	tracePath := cfg.Tracing.FilePath
	if tracePath == "" {
		tracePath = config.DefaultTracesFilePath()
	}
	provider, err := tracing.NewProvider(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     tracePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  "gemview",
	})
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := shutdownContext()
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	var fetcher gemini.Fetcher = gemini.NewClientWithTimeout(cfg.Network.Timeout)
	if provider.Enabled() {
		fetcher = tracing.NewTracedFetcher(fetcher, provider.Tracer())
	}

	cache := cachemanager.NewInMemoryCacheManager[string, *gemini.Response](
		"pages", cfg.Cache.PageTTL, cachemanager.DefaultCleanupInterval)
	sess := session.New(fetcher, history.NewWithTTL(cache, cfg.Cache.PageTTL))
	defer sess.Close()
	sess.SetSmoothScrolling(cfg.UI.SmoothScrolling)
	if trustStore != nil {
		sess.SetVerifier(trustStore)
	}

	flagReg := flags.New(cfg.Flags)
	ephemeral := flagReg.Enabled(flags.FlagEphemeral)

	startURL := ""
	if len(args) == 1 {
		startURL = normalizeStartURL(args[0])
	}

	// Restore the previous session unless a URL was given on the command
	// line. Deserialize re-fetches the restored URL by itself.
	savedState := ""
	noRestore, _ := cmd.Flags().GetBool("no-restore")
	if views != nil && !noRestore && !ephemeral && startURL == "" {
		if state, loadErr := views.Load(savedSessionName); loadErr == nil {
			savedState = state
		}
	}
	if savedState == "" && startURL == "" {
		startURL = cfg.StartURL
	}

	// Without a state database the history stack is kept in a flat file.
	if views == nil && !ephemeral {
		if path := config.DefaultHistoryPath(); path != "" {
			if loadErr := sess.History().LoadFile(path); loadErr != nil {
				log.Warn(log.CatHistory, "loading history failed", "error", loadErr)
			}
		}
	}

	acceptCert := acceptCertFunc(trustStore)
	if flagReg.Enabled(flags.FlagStrictTOFU) {
		acceptCert = nil
	}

	zone.NewGlobal()
	model := app.New(app.Options{
		Session:      sess,
		Config:       cfg,
		ConfigPath:   viper.ConfigFileUsed(),
		ReloadConfig: reloadConfig,
		StartURL:     startURL,
		AcceptCert:   acceptCert,
	})
	defer model.Shutdown()

	// Restore after the model exists so its event subscription catches
	// the fetch the restore kicks off.
	if savedState != "" {
		if restoreErr := sess.Deserialize(savedState); restoreErr != nil {
			log.Warn(log.CatDB, "saved session unreadable", "error", restoreErr)
			sess.Navigate(cfg.StartURL)
		}
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()

	if !ephemeral {
		if views != nil {
			if saveErr := views.Save(savedSessionName, sess.Serialize()); saveErr != nil {
				log.Warn(log.CatDB, "saving session failed", "error", saveErr)
			}
		} else if path := config.DefaultHistoryPath(); path != "" {
			// No state database; keep at least the history stack.
			if saveErr := sess.History().SaveFile(path); saveErr != nil {
				log.Warn(log.CatHistory, "saving history failed", "error", saveErr)
			}
		}
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// shutdownContext bounds exporter flushes at exit.
func shutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}

// acceptCertFunc adapts the trust store to the browser's accept callback.
func acceptCertFunc(store *trust.Store) func(host string, fingerprint []byte) error {
	if store == nil {
		return nil
	}
	return func(host string, fingerprint []byte) error {
		return store.Accept(host, fingerprint, time.Time{})
	}
}

// normalizeStartURL fills in the gemini scheme for bare host arguments.
func normalizeStartURL(s string) string {
	if strings.Contains(s, "://") || strings.HasPrefix(s, "about:") {
		return s
	}
	return "gemini://" + s
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
