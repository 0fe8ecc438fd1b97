package gemtext

// LinkID identifies a link within one document generation. IDs are 1-based;
// zero means "no link".
type LinkID uint16

// MediaID identifies an image or audio item in the media store, 1-based.
type MediaID uint16

// RunFlags mark structural properties of a run.
type RunFlags uint8

const (
	// RunWide marks a preformatted run wider than the layout width,
	// eligible for independent horizontal scrolling.
	RunWide RunFlags = 1 << iota
	// RunDecoration marks non-content runs (link bullets, media frames)
	// excluded from text extraction and selection.
	RunDecoration
)

// LineKind is the gemtext line type a run was laid out from.
type LineKind uint8

const (
	LineText LineKind = iota
	LineHeading1
	LineHeading2
	LineHeading3
	LineListItem
	LineQuote
	LineLink
	LinePreformatted
)

// Run is an immutable, position-tagged fragment of the laid-out document.
// Runs are regenerated wholesale on every relayout; the session only reads
// geometry and identity from them.
type Run struct {
	Text   string
	Bounds Rect
	Kind   LineKind
	Flags  RunFlags

	// LinkID is set on runs belonging to a link line, zero otherwise.
	LinkID LinkID

	// PreID is the 1-based id of the preformatted block this run belongs
	// to, zero outside preformatted blocks. Monotonic per layout.
	PreID uint16

	// ImageID/AudioID are set on media placeholder runs.
	ImageID MediaID
	AudioID MediaID
}

// IsWide reports whether the run may be horizontally scrolled.
func (r *Run) IsWide() bool {
	return r.Flags&RunWide != 0
}

// LinkFlags describe a parsed link target.
type LinkFlags uint8

const (
	// LinkSupported marks schemes the client can open itself.
	LinkSupported LinkFlags = 1 << iota
	// LinkImage / LinkAudio mark targets with a media file extension,
	// eligible for inline fetching.
	LinkImage
	LinkAudio
	// LinkContent marks links whose media content has been loaded.
	LinkContent
)

// Link is a parsed gemtext link line.
type Link struct {
	ID    LinkID
	URL   string
	Label string
	Flags LinkFlags
}
