package content

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Transcode converts body from the named charset to UTF-8. UTF-8 (and its
// aliases) pass through untouched. An unknown charset is an error; the
// caller falls back to presenting the raw bytes.
func Transcode(body []byte, charset string) ([]byte, error) {
	name := strings.ToLower(strings.TrimSpace(charset))
	switch name {
	case "", "utf-8", "utf8", "us-ascii", "ascii":
		return body, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown charset %q", charset)
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return nil, fmt.Errorf("transcoding from %q: %w", charset, err)
	}
	return out, nil
}
