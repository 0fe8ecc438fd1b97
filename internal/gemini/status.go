// Package gemini models the Gemini protocol surface consumed by the
// document session: status codes and their categories, response metadata,
// certificate trust, and the network request collaborator.
package gemini

// StatusCode is a Gemini response status. Codes 10-69 arrive on the wire;
// non-positive codes are synthesized locally and never leave the process.
type StatusCode int

const (
	StatusNone StatusCode = 0

	StatusInput          StatusCode = 10
	StatusSensitiveInput StatusCode = 11

	StatusSuccess StatusCode = 20

	StatusRedirectTemporary StatusCode = 30
	StatusRedirectPermanent StatusCode = 31

	StatusTemporaryFailure  StatusCode = 40
	StatusServerUnavailable StatusCode = 41
	StatusCGIError          StatusCode = 42
	StatusProxyError        StatusCode = 43
	StatusSlowDown          StatusCode = 44

	StatusPermanentFailure    StatusCode = 50
	StatusNotFound            StatusCode = 51
	StatusGone                StatusCode = 52
	StatusProxyRequestRefused StatusCode = 53
	StatusBadRequest          StatusCode = 59

	StatusClientCertRequired StatusCode = 60
	StatusCertNotAuthorized  StatusCode = 61
	StatusCertNotValid       StatusCode = 62
)

// Synthesized local codes. These tag documents produced by the session
// itself (error pages, confirmations) so presentation stays uniform.
const (
	StatusInvalidHeader        StatusCode = -1
	StatusInvalidRedirect      StatusCode = -2
	StatusSchemeChangeRedirect StatusCode = -3
	StatusTooManyRedirects     StatusCode = -4
	StatusTLSFailure           StatusCode = -5
	StatusUnsupportedMimeType  StatusCode = -6
	StatusUnknown              StatusCode = -7
)

// Category is a coarse grouping of status codes.
type Category int

const (
	CategoryNone Category = iota
	CategoryInput
	CategorySuccess
	CategoryRedirect
	CategoryTemporaryFailure
	CategoryPermanentFailure
	CategoryClientCertificate
)

// CategoryOf maps a status code to its category. Synthesized codes have no
// category; they are routed through the defined-error table instead.
func CategoryOf(code StatusCode) Category {
	switch {
	case code >= 10 && code <= 19:
		return CategoryInput
	case code >= 20 && code <= 29:
		return CategorySuccess
	case code >= 30 && code <= 39:
		return CategoryRedirect
	case code >= 40 && code <= 49:
		return CategoryTemporaryFailure
	case code >= 50 && code <= 59:
		return CategoryPermanentFailure
	case code >= 60 && code <= 69:
		return CategoryClientCertificate
	default:
		return CategoryNone
	}
}

// IsSuccess reports whether the code is in the success category.
func IsSuccess(code StatusCode) bool {
	return CategoryOf(code) == CategorySuccess
}

// Error describes a status that is presented to the user as a locally
// rendered document.
type Error struct {
	Icon  rune
	Title string
	Info  string
}

var definedErrors = map[StatusCode]Error{
	StatusTemporaryFailure: {
		Icon:  '⏳',
		Title: "Temporary Failure",
		Info:  "The request failed, but may succeed if you try again in the future.",
	},
	StatusServerUnavailable: {
		Icon:  '🚫',
		Title: "Server Unavailable",
		Info:  "The server is unavailable due to overload or maintenance. Check back later.",
	},
	StatusCGIError: {
		Icon:  '💔',
		Title: "CGI Error",
		Info:  "Failure during dynamic content generation on the server. This may be due to buggy serverside software.",
	},
	StatusProxyError: {
		Icon:  '🔥',
		Title: "Proxy Error",
		Info:  "A proxied request failed because the server did not successfully complete a transaction with the remote host.",
	},
	StatusSlowDown: {
		Icon:  '🐌',
		Title: "Slow Down",
		Info:  "The server is rate limiting requests.",
	},
	StatusPermanentFailure: {
		Icon:  '🚫',
		Title: "Permanent Failure",
		Info:  "The request has failed, and will fail in the future as well if repeated.",
	},
	StatusNotFound: {
		Icon:  '🕳',
		Title: "Not Found",
		Info:  "The requested resource could not be found at this time.",
	},
	StatusGone: {
		Icon:  '💨',
		Title: "Gone",
		Info:  "The resource requested is no longer available and will not be available again.",
	},
	StatusProxyRequestRefused: {
		Icon:  '🛑',
		Title: "Proxy Request Refused",
		Info:  "The request was for a resource at a domain not served by the server, and the server does not accept proxy requests.",
	},
	StatusBadRequest: {
		Icon:  '👾',
		Title: "Bad Request",
		Info:  "The server was unable to parse the request. The request was likely malformed.",
	},
	StatusClientCertRequired: {
		Icon:  '🔑',
		Title: "Certificate Required",
		Info:  "Access to the requested resource requires identification via a client certificate.",
	},
	StatusCertNotAuthorized: {
		Icon:  '🔑',
		Title: "Certificate Not Authorized",
		Info:  "The provided client certificate is valid but is not authorized for accessing this resource.",
	},
	StatusCertNotValid: {
		Icon:  '🔒',
		Title: "Invalid Certificate",
		Info:  "The provided client certificate is expired or otherwise invalid.",
	},
	StatusInvalidHeader: {
		Icon:  '👾',
		Title: "Invalid Header",
		Info:  "The received response header was malformed. The server may be malfunctioning or you may have connected to a non-Gemini server.",
	},
	StatusInvalidRedirect: {
		Icon:  '↩',
		Title: "Invalid Redirect",
		Info:  "The server responded with a redirect but did not provide a valid destination URL.",
	},
	StatusSchemeChangeRedirect: {
		Icon:  '⇄',
		Title: "Changed Scheme",
		Info:  "The server attempted to redirect to a URL whose scheme is different than the originating URL's scheme. Here is the link so you can open it manually if appropriate.",
	},
	StatusTooManyRedirects: {
		Icon:  '🔄',
		Title: "Too Many Redirects",
		Info:  "You may be stuck in a redirection loop. The next redirected URL is below if you want to continue manually.",
	},
	StatusTLSFailure: {
		Icon:  '🔌',
		Title: "Network/TLS Failure",
		Info:  "Failed to communicate with the host. The server may be offline, or there is a problem with the network connection.",
	},
	StatusUnsupportedMimeType: {
		Icon:  '🎁',
		Title: "Unsupported Content Type",
		Info:  "The received content cannot be viewed. You can save it as a file instead.",
	},
	StatusUnknown: {
		Icon:  '🤔',
		Title: "Unknown Status Code",
		Info:  "The server responded with a status code this client does not recognize. Maybe the server is from the future?",
	},
}

// IsDefined reports whether the code has a presentable error entry.
func IsDefined(code StatusCode) bool {
	_, ok := definedErrors[code]
	return ok
}

// ErrorFor returns the presentable error entry for a status code. Codes
// without an entry fall back to their category's generic failure page;
// only codes with no category at all get the unknown-status entry.
func ErrorFor(code StatusCode) Error {
	if e, ok := definedErrors[code]; ok {
		return e
	}
	switch CategoryOf(code) {
	case CategoryTemporaryFailure:
		return definedErrors[StatusTemporaryFailure]
	case CategoryPermanentFailure:
		return definedErrors[StatusPermanentFailure]
	case CategoryClientCertificate:
		return definedErrors[StatusClientCertRequired]
	}
	return definedErrors[StatusUnknown]
}
