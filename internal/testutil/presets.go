package testutil

import "time"

// PresetKnownHosts seeds a handful of pinned capsules with varied ages,
// useful for tests that need more than one row without caring about the
// details.
func PresetKnownHosts(b *Builder) *Builder {
	return b.
		WithHost("gemini.circumlunar.space",
			WithFingerprint([]byte{0x01, 0x02, 0x03, 0x04}),
			WithFirstSeen(time.Now().Add(-90*24*time.Hour)),
			WithUpdated(time.Now().Add(-time.Hour))).
		WithHost("geminiprotocol.net",
			WithFingerprint([]byte{0xaa, 0xbb, 0xcc, 0xdd}),
			WithValidUntil(time.Now().Add(365*24*time.Hour)),
			WithUpdated(time.Now().Add(-24*time.Hour))).
		WithHost("skyjake.fi",
			WithFingerprint([]byte{0x10, 0x20, 0x30}),
			WithUpdated(time.Now().Add(-7*24*time.Hour)))
}
