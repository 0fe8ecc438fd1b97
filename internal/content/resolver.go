// Package content inspects response metadata to decide how a body is
// presented: which document format to lay out, which charset to transcode
// from, and whether the content is inline media rather than text.
package content

import "strings"

// Format is a recognized document format.
type Format int

const (
	FormatUndefined Format = iota
	FormatGemtext
	FormatPlainText
)

// MediaKind classifies inline-media candidates.
type MediaKind int

const (
	MediaNone MediaKind = iota
	MediaImage
	MediaAudio
)

// Resolved is the outcome of inspecting a response's MIME metadata.
type Resolved struct {
	// Format of the document to lay out. Inline media resolves to
	// FormatGemtext because it is presented through a synthesized
	// single-link document.
	Format Format

	// MIME is the recognized primary type (e.g. "text/gemini",
	// "image/png"), lower-cased, without parameters.
	MIME string

	// Charset declared by the metadata, defaulting to "utf-8".
	Charset string

	// Media is the inline-media classification, MediaNone for text.
	Media MediaKind
}

// Supported reports whether the metadata resolved to anything presentable.
func (r Resolved) Supported() bool {
	return r.Format != FormatUndefined
}

// Resolve parses a MIME string with optional parameters. Parameters are
// semicolon-separated; a charset parameter may be quoted. Unrecognized
// primary types leave Format undefined, which the caller surfaces as an
// unsupported-content error.
func Resolve(meta string) Resolved {
	res := Resolved{Charset: "utf-8"}
	lower := strings.ToLower(meta)
	for _, seg := range strings.Split(lower, ";") {
		param := strings.TrimSpace(seg)
		switch {
		case param == "text/plain":
			res.Format = FormatPlainText
			res.MIME = param
		case param == "text/gemini":
			res.Format = FormatGemtext
			res.MIME = param
		case strings.HasPrefix(param, "image/"):
			res.Format = FormatGemtext
			res.MIME = param
			res.Media = MediaImage
		case strings.HasPrefix(param, "audio/"):
			res.Format = FormatGemtext
			res.MIME = param
			res.Media = MediaAudio
		case strings.HasPrefix(param, "charset="):
			cs := strings.TrimSpace(param[len("charset="):])
			cs = strings.Trim(cs, `"`)
			if cs != "" {
				res.Charset = cs
			}
		}
	}
	return res
}
