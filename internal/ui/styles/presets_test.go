package styles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresets_Registered(t *testing.T) {
	for _, name := range []string{"default", "gruvbox", "nord", "high-contrast"} {
		preset, ok := Presets[name]
		require.True(t, ok, "missing preset %s", name)
		require.Equal(t, name, preset.Name)
	}
}

func TestPresets_OnlyValidTokensAndColors(t *testing.T) {
	for name, preset := range Presets {
		for token, hex := range preset.Colors {
			require.True(t, isValidToken(token), "%s: unknown token %s", name, token)
			require.True(t, isValidHexColor(hex), "%s: bad color %s for %s", name, hex, token)
		}
	}
}

func TestDefaultPreset_CoversAllTokens(t *testing.T) {
	for _, token := range AllTokens() {
		_, ok := DefaultPreset.Colors[token]
		require.True(t, ok, "default preset missing %s", token)
	}
}
