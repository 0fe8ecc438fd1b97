// Package styles contains Lip Gloss style definitions.
package styles

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains all built-in theme presets.
var Presets = map[string]Preset{
	"default":       DefaultPreset,
	"gruvbox":       GruvboxPreset,
	"nord":          NordPreset,
	"high-contrast": HighContrastPreset,
}

// DefaultPreset is the stock gemview color scheme.
// Color values match the styles.go AdaptiveColor definitions (Dark values).
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default gemview theme",
	Colors: map[ColorToken]string{
		TokenTextBody:     "#CCCCCC",
		TokenTextHeading1: "#54A0FF",
		TokenTextHeading2: "#74B9FF",
		TokenTextHeading3: "#A3CFFF",
		TokenTextLink:     "#73C0F5",
		TokenTextLinkHint: "#696969",
		TokenTextQuote:    "#FECA57",
		TokenTextPre:      "#AAAAAA",
		TokenTextBullet:   "#54A0FF",
		TokenTextMuted:    "#696969",

		TokenBorderDefault: "#696969",

		TokenStatusSuccess: "#73F59F",
		TokenStatusWarning: "#FECA57",
		TokenStatusError:   "#FF8787",

		TokenStatusBarFg: "#CCCCCC",
		TokenStatusBarBg: "#2D3436",

		TokenSearchHighlight: "#7D6608",
		TokenMediaFrame:      "#696969",
		TokenSpinner:         "#54A0FF",
	},
}

// GruvboxPreset follows the gruvbox dark palette.
var GruvboxPreset = Preset{
	Name:        "gruvbox",
	Description: "Gruvbox dark",
	Colors: map[ColorToken]string{
		TokenTextBody:     "#EBDBB2",
		TokenTextHeading1: "#FABD2F",
		TokenTextHeading2: "#FE8019",
		TokenTextHeading3: "#D3869B",
		TokenTextLink:     "#83A598",
		TokenTextLinkHint: "#928374",
		TokenTextQuote:    "#B8BB26",
		TokenTextPre:      "#D5C4A1",
		TokenTextBullet:   "#FABD2F",
		TokenTextMuted:    "#928374",

		TokenBorderDefault: "#504945",

		TokenStatusSuccess: "#B8BB26",
		TokenStatusWarning: "#FABD2F",
		TokenStatusError:   "#FB4934",

		TokenStatusBarFg: "#EBDBB2",
		TokenStatusBarBg: "#3C3836",

		TokenSearchHighlight: "#665C54",
		TokenMediaFrame:      "#504945",
		TokenSpinner:         "#FABD2F",
	},
}

// NordPreset follows the nord palette.
var NordPreset = Preset{
	Name:        "nord",
	Description: "Nord",
	Colors: map[ColorToken]string{
		TokenTextBody:     "#D8DEE9",
		TokenTextHeading1: "#88C0D0",
		TokenTextHeading2: "#81A1C1",
		TokenTextHeading3: "#8FBCBB",
		TokenTextLink:     "#88C0D0",
		TokenTextLinkHint: "#4C566A",
		TokenTextQuote:    "#EBCB8B",
		TokenTextPre:      "#E5E9F0",
		TokenTextBullet:   "#81A1C1",
		TokenTextMuted:    "#4C566A",

		TokenBorderDefault: "#434C5E",

		TokenStatusSuccess: "#A3BE8C",
		TokenStatusWarning: "#EBCB8B",
		TokenStatusError:   "#BF616A",

		TokenStatusBarFg: "#ECEFF4",
		TokenStatusBarBg: "#3B4252",

		TokenSearchHighlight: "#434C5E",
		TokenMediaFrame:      "#434C5E",
		TokenSpinner:         "#88C0D0",
	},
}

// HighContrastPreset maximizes foreground/background separation.
var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "High contrast",
	Colors: map[ColorToken]string{
		TokenTextBody:     "#FFFFFF",
		TokenTextHeading1: "#FFFF00",
		TokenTextHeading2: "#FFFF00",
		TokenTextHeading3: "#FFFF00",
		TokenTextLink:     "#00FFFF",
		TokenTextLinkHint: "#BBBBBB",
		TokenTextQuote:    "#00FF00",
		TokenTextPre:      "#FFFFFF",
		TokenTextBullet:   "#FFFF00",
		TokenTextMuted:    "#BBBBBB",

		TokenBorderDefault: "#FFFFFF",

		TokenStatusSuccess: "#00FF00",
		TokenStatusWarning: "#FFFF00",
		TokenStatusError:   "#FF0000",

		TokenStatusBarFg: "#000000",
		TokenStatusBarBg: "#FFFFFF",

		TokenSearchHighlight: "#FFFF00",
		TokenMediaFrame:      "#FFFFFF",
		TokenSpinner:         "#00FFFF",
	},
}
