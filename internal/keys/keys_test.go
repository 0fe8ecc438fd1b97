package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	k := DefaultKeyMap()

	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, k.Down))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyDown}, k.Down))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}}, k.Back))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyBackspace}, k.Back))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}}, k.Find))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, k.Quit))

	// Upper and lower case are distinct bindings
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}}, k.Bottom))
	require.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}}, k.Top))
}

func TestHelpViews(t *testing.T) {
	k := DefaultKeyMap()

	require.Len(t, k.ShortHelp(), 2)
	full := k.FullHelp()
	require.Len(t, full, 4)
	for _, group := range full {
		require.NotEmpty(t, group)
	}
}

func TestDefaultInputKeyMap(t *testing.T) {
	k := DefaultInputKeyMap()

	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEnter}, k.Submit))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEsc}, k.Cancel))
}
