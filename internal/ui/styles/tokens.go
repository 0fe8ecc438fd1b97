// Package styles contains Lip Gloss style definitions.
package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens organized by category.
// These are the keys users can override in their config.
const (
	// Gemtext content
	TokenTextBody     ColorToken = "text.body"
	TokenTextHeading1 ColorToken = "text.heading1"
	TokenTextHeading2 ColorToken = "text.heading2"
	TokenTextHeading3 ColorToken = "text.heading3"
	TokenTextLink     ColorToken = "text.link"
	TokenTextLinkHint ColorToken = "text.link.hint"
	TokenTextQuote    ColorToken = "text.quote"
	TokenTextPre      ColorToken = "text.pre"
	TokenTextBullet   ColorToken = "text.bullet"
	TokenTextMuted    ColorToken = "text.muted"

	// Borders
	TokenBorderDefault ColorToken = "border.default"

	// Status indicators
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	// Status bar
	TokenStatusBarFg ColorToken = "statusbar.fg"
	TokenStatusBarBg ColorToken = "statusbar.bg"

	// Search
	TokenSearchHighlight ColorToken = "search.highlight"

	// Inline media frames
	TokenMediaFrame ColorToken = "media.frame"

	// Misc
	TokenSpinner ColorToken = "spinner"
)

// AllTokens returns all valid color tokens for validation.
func AllTokens() []ColorToken {
	return []ColorToken{
		// Gemtext content
		TokenTextBody,
		TokenTextHeading1,
		TokenTextHeading2,
		TokenTextHeading3,
		TokenTextLink,
		TokenTextLinkHint,
		TokenTextQuote,
		TokenTextPre,
		TokenTextBullet,
		TokenTextMuted,

		// Borders
		TokenBorderDefault,

		// Status indicators
		TokenStatusSuccess,
		TokenStatusWarning,
		TokenStatusError,

		// Status bar
		TokenStatusBarFg,
		TokenStatusBarBg,

		// Search
		TokenSearchHighlight,

		// Inline media frames
		TokenMediaFrame,

		// Misc
		TokenSpinner,
	}
}
