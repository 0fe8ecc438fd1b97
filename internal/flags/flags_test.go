package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{
			name:     "known flag set to true returns true",
			registry: New(map[string]bool{FlagStrictTOFU: true}),
			flag:     FlagStrictTOFU,
			expected: true,
		},
		{
			name:     "known flag set to false returns false",
			registry: New(map[string]bool{FlagEphemeral: false}),
			flag:     FlagEphemeral,
			expected: false,
		},
		{
			name:     "unknown flag returns false",
			registry: New(map[string]bool{FlagStrictTOFU: true}),
			flag:     "unknown-flag",
			expected: false,
		},
		{
			name:     "nil registry returns false",
			registry: nil,
			flag:     "any-flag",
			expected: false,
		},
		{
			name:     "nil flags map returns false",
			registry: New(nil),
			flag:     "any-flag",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_All(t *testing.T) {
	r := New(map[string]bool{FlagStrictTOFU: true, FlagEphemeral: false})

	all := r.All()
	require.Len(t, all, 2)
	require.True(t, all[FlagStrictTOFU])

	// Mutating the copy does not affect the registry
	all[FlagStrictTOFU] = false
	require.True(t, r.Enabled(FlagStrictTOFU))
}

func TestRegistry_AllNilSafe(t *testing.T) {
	var r *Registry
	require.Empty(t, r.All())
}
