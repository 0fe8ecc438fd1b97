package testutil

import "time"

// HostOption configures a known-host row before insertion.
type HostOption func(*hostData)

func defaultHost(host string) hostData {
	now := time.Now()
	return hostData{
		host:        host,
		fingerprint: []byte("fp:" + host),
		firstSeen:   now,
		updated:     now,
	}
}

// WithFingerprint sets the pinned certificate fingerprint.
func WithFingerprint(fp []byte) HostOption {
	return func(h *hostData) {
		h.fingerprint = fp
	}
}

// WithValidUntil sets the certificate expiry recorded with the pin.
func WithValidUntil(t time.Time) HostOption {
	return func(h *hostData) {
		h.validUntil = &t
	}
}

// WithFirstSeen backdates the pin.
func WithFirstSeen(t time.Time) HostOption {
	return func(h *hostData) {
		h.firstSeen = t
	}
}

// WithUpdated sets the last-verified timestamp.
func WithUpdated(t time.Time) HostOption {
	return func(h *hostData) {
		h.updated = t
	}
}
