package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSaveSetting_UpdatesExistingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme:\n  preset: nord\n"), 0o600))

	require.NoError(t, SaveSetting(path, "theme.preset", "gruvbox"))

	var parsed struct {
		Theme struct {
			Preset string `yaml:"preset"`
		} `yaml:"theme"`
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	require.Equal(t, "gruvbox", parsed.Theme.Preset)
}

func TestSaveSetting_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "# my settings\nui:\n  smooth_scrolling: true  # animate\nstart_url: gemini://example.org/\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.NoError(t, SaveSmoothScrolling(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# my settings")
	require.Contains(t, string(data), "smooth_scrolling: false")
	require.Contains(t, string(data), "start_url: gemini://example.org/")
}

func TestSaveSetting_CreatesMissingSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("start_url: gemini://example.org/\n"), 0o600))

	require.NoError(t, SaveThemePreset(path, "nord"))

	var parsed struct {
		StartURL string `yaml:"start_url"`
		Theme    struct {
			Preset string `yaml:"preset"`
		} `yaml:"theme"`
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	require.Equal(t, "gemini://example.org/", parsed.StartURL)
	require.Equal(t, "nord", parsed.Theme.Preset)
}

func TestSaveSetting_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, SaveThemePreset(path, "high-contrast"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "preset: high-contrast")
}
