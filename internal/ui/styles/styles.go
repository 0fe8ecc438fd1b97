// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Gemtext content
	TextBodyColor     = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"} // Plain text lines
	TextHeading1Color = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#54A0FF"} // # headings
	TextHeading2Color = lipgloss.AdaptiveColor{Light: "#1F618D", Dark: "#74B9FF"} // ## headings
	TextHeading3Color = lipgloss.AdaptiveColor{Light: "#2874A6", Dark: "#A3CFFF"} // ### headings
	TextLinkColor     = lipgloss.AdaptiveColor{Light: "#2E86C1", Dark: "#73C0F5"} // Link labels
	TextLinkHintColor = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Link numbers, scheme hints
	TextQuoteColor    = lipgloss.AdaptiveColor{Light: "#7D6608", Dark: "#FECA57"} // > quote lines
	TextPreColor      = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"} // Preformatted blocks
	TextBulletColor   = lipgloss.AdaptiveColor{Light: "#2E86C1", Dark: "#54A0FF"} // List bullets
	TextMutedColor    = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, footers

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Status bar colors
	StatusBarFgColor = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#CCCCCC"}
	StatusBarBgColor = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#2D3436"}

	// Search match background
	SearchHighlightColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#7D6608"}

	// Inline media frame border
	MediaFrameColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}

	// Spinner color
	SpinnerColor = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#54A0FF"}

	// Gemtext content styles, one per line kind
	TextStyle     = lipgloss.NewStyle().Foreground(TextBodyColor)
	Heading1Style = lipgloss.NewStyle().Foreground(TextHeading1Color).Bold(true)
	Heading2Style = lipgloss.NewStyle().Foreground(TextHeading2Color).Bold(true)
	Heading3Style = lipgloss.NewStyle().Foreground(TextHeading3Color)
	LinkStyle     = lipgloss.NewStyle().Foreground(TextLinkColor).Underline(true)
	LinkHintStyle = lipgloss.NewStyle().Foreground(TextLinkHintColor)
	QuoteStyle    = lipgloss.NewStyle().Foreground(TextQuoteColor).Italic(true)
	PreStyle      = lipgloss.NewStyle().Foreground(TextPreColor)
	BulletStyle   = lipgloss.NewStyle().Foreground(TextBulletColor)
	MutedStyle    = lipgloss.NewStyle().Foreground(TextMutedColor)

	// Search
	SearchHighlightStyle = lipgloss.NewStyle().Background(SearchHighlightColor).Foreground(StatusBarFgColor)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().Foreground(StatusBarFgColor).Background(StatusBarBgColor)

	// Status indicators
	StatusSuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	StatusWarningStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)
	StatusErrorStyle   = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)

	// Inline media frames
	MediaFrameStyle = lipgloss.NewStyle().Foreground(MediaFrameColor)

	// Spinner
	SpinnerStyle = lipgloss.NewStyle().Foreground(SpinnerColor)

	// Prompt input border
	InputBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(BorderDefaultColor).
				Padding(0, 1)
)
