// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styleRebuilders holds callbacks to rebuild styles in other packages.
// This avoids import cycles (styles can't import the browser, but the
// browser can register).
var styleRebuilders []func()

// RegisterStyleRebuilder adds a callback that will be called after ApplyTheme
// updates colors. Use this to rebuild styles in packages that depend on styles.
func RegisterStyleRebuilder(fn func()) {
	styleRebuilders = append(styleRebuilders, fn)
}

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Preset string
	Mode   string
	Colors map[string]string
}

// ApplyTheme applies a complete theme configuration.
// Order of application:
// 1. Start with default colors
// 2. Apply preset (if specified)
// 3. Apply individual color overrides
// 4. Rebuild all Style objects
func ApplyTheme(cfg ThemeConfig) error {
	// Step 1: Start with default preset
	colors := maps.Clone(DefaultPreset.Colors)

	// Step 2: Apply preset if specified
	if cfg.Preset != "" && cfg.Preset != "default" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
	}

	// Step 3: Apply individual color overrides
	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	// Mode forces the adaptive light/dark choice regardless of what the
	// terminal reports.
	switch cfg.Mode {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}

	// Step 4: Apply colors to variables
	applyColors(colors)

	// Step 5: Rebuild all Style objects
	rebuildStyles()

	return nil
}

func applyColors(colors map[ColorToken]string) {
	// Helper to create adaptive color (uses same color for both modes)
	makeColor := func(hex string) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Light: hex, Dark: hex}
	}

	// Gemtext content
	if c, ok := colors[TokenTextBody]; ok {
		TextBodyColor = makeColor(c)
	}
	if c, ok := colors[TokenTextHeading1]; ok {
		TextHeading1Color = makeColor(c)
	}
	if c, ok := colors[TokenTextHeading2]; ok {
		TextHeading2Color = makeColor(c)
	}
	if c, ok := colors[TokenTextHeading3]; ok {
		TextHeading3Color = makeColor(c)
	}
	if c, ok := colors[TokenTextLink]; ok {
		TextLinkColor = makeColor(c)
	}
	if c, ok := colors[TokenTextLinkHint]; ok {
		TextLinkHintColor = makeColor(c)
	}
	if c, ok := colors[TokenTextQuote]; ok {
		TextQuoteColor = makeColor(c)
	}
	if c, ok := colors[TokenTextPre]; ok {
		TextPreColor = makeColor(c)
	}
	if c, ok := colors[TokenTextBullet]; ok {
		TextBulletColor = makeColor(c)
	}
	if c, ok := colors[TokenTextMuted]; ok {
		TextMutedColor = makeColor(c)
	}

	// Borders
	if c, ok := colors[TokenBorderDefault]; ok {
		BorderDefaultColor = makeColor(c)
	}

	// Status
	if c, ok := colors[TokenStatusSuccess]; ok {
		StatusSuccessColor = makeColor(c)
	}
	if c, ok := colors[TokenStatusWarning]; ok {
		StatusWarningColor = makeColor(c)
	}
	if c, ok := colors[TokenStatusError]; ok {
		StatusErrorColor = makeColor(c)
	}

	// Status bar
	if c, ok := colors[TokenStatusBarFg]; ok {
		StatusBarFgColor = makeColor(c)
	}
	if c, ok := colors[TokenStatusBarBg]; ok {
		StatusBarBgColor = makeColor(c)
	}

	// Search
	if c, ok := colors[TokenSearchHighlight]; ok {
		SearchHighlightColor = makeColor(c)
	}

	// Media frames
	if c, ok := colors[TokenMediaFrame]; ok {
		MediaFrameColor = makeColor(c)
	}

	// Spinner
	if c, ok := colors[TokenSpinner]; ok {
		SpinnerColor = makeColor(c)
	}
}

func rebuildStyles() {
	// Gemtext content
	TextStyle = lipgloss.NewStyle().Foreground(TextBodyColor)
	Heading1Style = lipgloss.NewStyle().Foreground(TextHeading1Color).Bold(true)
	Heading2Style = lipgloss.NewStyle().Foreground(TextHeading2Color).Bold(true)
	Heading3Style = lipgloss.NewStyle().Foreground(TextHeading3Color)
	LinkStyle = lipgloss.NewStyle().Foreground(TextLinkColor).Underline(true)
	LinkHintStyle = lipgloss.NewStyle().Foreground(TextLinkHintColor)
	QuoteStyle = lipgloss.NewStyle().Foreground(TextQuoteColor).Italic(true)
	PreStyle = lipgloss.NewStyle().Foreground(TextPreColor)
	BulletStyle = lipgloss.NewStyle().Foreground(TextBulletColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	// Search
	SearchHighlightStyle = lipgloss.NewStyle().Background(SearchHighlightColor).Foreground(StatusBarFgColor)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().Foreground(StatusBarFgColor).Background(StatusBarBgColor)

	// Status indicators
	StatusSuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	StatusWarningStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)
	StatusErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)

	// Media frames
	MediaFrameStyle = lipgloss.NewStyle().Foreground(MediaFrameColor)

	// Spinner
	SpinnerStyle = lipgloss.NewStyle().Foreground(SpinnerColor)

	// Prompt input border
	InputBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderDefaultColor).
		Padding(0, 1)

	for _, fn := range styleRebuilders {
		fn()
	}
}

func isValidToken(token ColorToken) bool {
	return slices.Contains(AllTokens(), token)
}

func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 64)
	return err == nil
}
