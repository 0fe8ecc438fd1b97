package tracing

// Span attribute keys. These constants define the semantic conventions for
// span attributes across the fetch and layout pipelines.
const (
	// Request attributes
	AttrRequestID   = "request.id"
	AttrRequestURL  = "request.url"
	AttrStatusCode  = "response.status"
	AttrStatusMeta  = "response.meta"
	AttrBodyBytes   = "response.body_bytes"
	AttrMimeType    = "response.mime_type"
	AttrFromCache   = "response.from_cache"
	AttrRedirectHop = "redirect.hop"

	// Document attributes
	AttrDocWidth  = "doc.width"
	AttrDocHeight = "doc.height"
	AttrDocLinks  = "doc.links"

	// Media attributes
	AttrMediaLinkID = "media.link_id"
	AttrMediaKind   = "media.kind"

	// Trust attributes
	AttrCertHost = "cert.host"

	// Error attributes
	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanFetch      = "net.fetch"
	SpanMediaFetch = "net.fetch_media"
	SpanLayout     = "doc.layout"
	SpanRepo       = "repo."
)

// Event names for span events.
const (
	EventHeaderReceived   = "header.received"
	EventRedirectFollowed = "redirect.followed"
	EventBodyFinished     = "body.finished"
	EventCertPinned       = "cert.pinned"
)
